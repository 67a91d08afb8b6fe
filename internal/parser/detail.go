package parser

import (
	"strings"

	"github.com/alt-ctrl-dev/aba-validator/internal/models"
)

// DecodeDetail decodes a transaction record. Account numbers lose their
// leading padding and the name and reference fields their trailing padding;
// everything else keeps the original spacing.
func DecodeDetail(line string) (models.DetailRecord, error) {
	f, err := openRecord(line, detailCode)
	if err != nil {
		return models.DetailRecord{}, err
	}

	bsb := f.next(7)
	accountNumber := strings.TrimLeft(f.next(9), " ")
	indicatorRaw := f.next(1)
	codeRaw := f.next(2)
	amountRaw := f.next(10)
	accountName := strings.TrimRight(f.next(32), " ")
	reference := strings.TrimRight(f.next(18), " ")
	traceBSB := f.next(7)
	traceAccountNumber := strings.TrimLeft(f.next(9), " ")
	remitterName := strings.TrimRight(f.next(16), " ")
	withheldRaw := f.next(8)

	indicator, indicatorOK := models.ParseIndicator(indicatorRaw)
	code, codeOK := models.ParseTransactionCode(codeRaw)
	amount, amountOK := ParseNonNegInt(amountRaw)
	withheld, withheldOK := ParseNonNegInt(withheldRaw)

	var v violations
	v.check(ValidBSB(bsb), "bsb")
	v.check(!IsBlank(accountNumber), "account_number")
	v.check(indicatorOK, "indicator")
	v.check(codeOK, "transaction_code")
	v.check(amountOK, "amount")
	v.check(!IsBlank(accountName), "account_name")
	v.check(!IsBlank(reference), "reference")
	v.check(ValidBSB(traceBSB), "trace_bsb")
	v.check(!IsBlank(traceAccountNumber), "trace_account_number")
	v.check(!IsBlank(remitterName), "remitter_name")
	v.check(withheldOK, "withheld_tax")
	if err := v.err(); err != nil {
		return models.DetailRecord{}, err
	}

	return models.DetailRecord{
		BSB:                bsb,
		AccountNumber:      accountNumber,
		Indicator:          indicator,
		TransactionCode:    code,
		Amount:             amount,
		AccountName:        accountName,
		Reference:          reference,
		TraceBSB:           traceBSB,
		TraceAccountNumber: traceAccountNumber,
		RemitterName:       remitterName,
		WithheldTax:        withheld,
	}, nil
}
