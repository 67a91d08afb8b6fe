package parser

import "github.com/alt-ctrl-dev/aba-validator/internal/models"

const bsbFiller = "999-999"

// DecodeFileTotal decodes the trailer record. detailCount is the number of
// detail lines seen before the trailer and is compared against record_count.
// Cross-field checks only run once their inputs parsed.
func DecodeFileTotal(line string, detailCount int) (models.FileTotalRecord, error) {
	f, err := openRecord(line, fileTotalCode)
	if err != nil {
		return models.FileTotalRecord{}, err
	}

	filler := f.next(7)
	firstBlank := f.next(12)
	netRaw := f.next(10)
	creditRaw := f.next(10)
	debitRaw := f.next(10)
	midBlank := f.next(24)
	countRaw := f.next(6)
	lastBlank := f.next(40)

	net, netOK := ParseNonNegInt(netRaw)
	credit, creditOK := ParseNonNegInt(creditRaw)
	debit, debitOK := ParseNonNegInt(debitRaw)
	count, countOK := ParseNonNegInt(countRaw)

	var v violations
	v.check(filler == bsbFiller, "bsb_filler")
	v.check(IsBlank(firstBlank), "first_blank")
	v.check(IsBlank(midBlank), "mid_blank")
	v.check(IsBlank(lastBlank), "last_blank")
	v.check(netOK, "net_total")
	v.check(creditOK, "total_credit")
	v.check(debitOK, "total_debit")
	v.check(countOK, "record_count")
	if netOK && creditOK && debitOK {
		v.check(net == credit-debit, "net_total_mismatch")
	}
	if countOK {
		v.check(count == int64(detailCount), "records_mismatch")
	}
	if err := v.err(); err != nil {
		return models.FileTotalRecord{}, err
	}

	return models.FileTotalRecord{
		NetTotal:    net,
		TotalCredit: credit,
		TotalDebit:  debit,
		RecordCount: int(count),
	}, nil
}
