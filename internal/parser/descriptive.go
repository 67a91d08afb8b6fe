package parser

import "github.com/alt-ctrl-dev/aba-validator/internal/models"

// DecodeDescriptive decodes the header record. Content fields are returned
// untrimmed.
func DecodeDescriptive(line string) (models.DescriptiveRecord, error) {
	f, err := openRecord(line, descriptiveCode)
	if err != nil {
		return models.DescriptiveRecord{}, err
	}

	firstBlank := f.next(17)
	reel := f.next(2)
	bank := f.next(3)
	midBlank := f.next(7)
	preferredSpec := f.next(26)
	userID := f.next(6)
	description := f.next(12)
	date := f.next(6)
	lastBlank := f.next(40)

	var v violations
	v.check(IsBlank(firstBlank), "first_blank")
	v.check(IsBlank(lastBlank), "last_blank")
	v.check(IsBlank(midBlank), "mid_blank")
	v.check(!IsBlank(reel), "reel_sequence_number")
	v.check(!IsBlank(bank), "bank_abbreviation")
	v.check(!IsBlank(preferredSpec), "user_preferred_specification")
	v.check(!IsBlank(userID), "user_id_number")
	v.check(!IsBlank(description), "description")
	v.check(!IsBlank(date) && ValidDate(date), "date")
	if err := v.err(); err != nil {
		return models.DescriptiveRecord{}, err
	}

	return models.DescriptiveRecord{
		ReelSequenceNumber:         reel,
		BankAbbreviation:           bank,
		UserPreferredSpecification: preferredSpec,
		UserIDNumber:               userID,
		Description:                description,
		Date:                       date,
	}, nil
}
