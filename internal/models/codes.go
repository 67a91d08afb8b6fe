package models

import "fmt"

// RecordKind is selected by the first character of an ABA line.
type RecordKind int

const (
	RecordKindUnknown RecordKind = iota
	RecordKindDescriptive
	RecordKindDetail
	RecordKindFileTotal
)

func (k RecordKind) String() string {
	switch k {
	case RecordKindDescriptive:
		return "descriptive"
	case RecordKindDetail:
		return "detail"
	case RecordKindFileTotal:
		return "file_total"
	default:
		return "unknown"
	}
}

func (k RecordKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *RecordKind) UnmarshalText(text []byte) error {
	for _, kind := range []RecordKind{RecordKindDescriptive, RecordKindDetail, RecordKindFileTotal} {
		if kind.String() == string(text) {
			*k = kind
			return nil
		}
	}
	*k = RecordKindUnknown
	return nil
}

// Indicator is the single character flag carried by a detail record.
type Indicator int

const (
	IndicatorBlank Indicator = iota
	IndicatorNewBank
	IndicatorDividendResidentCountryDoubleTax
	IndicatorDividendNonResident
	IndicatorInterestNonResidents
)

// ParseIndicator resolves the raw indicator character. The second return value
// is false for any character outside the closed set.
func ParseIndicator(s string) (Indicator, bool) {
	switch s {
	case " ":
		return IndicatorBlank, true
	case "N":
		return IndicatorNewBank, true
	case "W":
		return IndicatorDividendResidentCountryDoubleTax, true
	case "X":
		return IndicatorDividendNonResident, true
	case "Y":
		return IndicatorInterestNonResidents, true
	default:
		return 0, false
	}
}

func (i Indicator) String() string {
	switch i {
	case IndicatorBlank:
		return "blank"
	case IndicatorNewBank:
		return "new_bank"
	case IndicatorDividendResidentCountryDoubleTax:
		return "dividend_resident_country_double_tax"
	case IndicatorDividendNonResident:
		return "dividend_non_resident"
	case IndicatorInterestNonResidents:
		return "interest_non_residents"
	default:
		return fmt.Sprintf("Indicator(%d)", int(i))
	}
}

func (i Indicator) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *Indicator) UnmarshalText(text []byte) error {
	for candidate := IndicatorBlank; candidate <= IndicatorInterestNonResidents; candidate++ {
		if candidate.String() == string(text) {
			*i = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown indicator %q", text)
}

// TransactionCode is the two digit BECS transaction code of a detail record.
type TransactionCode int

const (
	TransactionCodeExternallyInitiatedDebit             TransactionCode = 13
	TransactionCodeExternallyInitiatedCredit            TransactionCode = 50
	TransactionCodeAustralianGovernmentSecurityInterest TransactionCode = 51
	TransactionCodeFamilyAllowance                      TransactionCode = 52
	TransactionCodePay                                  TransactionCode = 53
	TransactionCodePension                              TransactionCode = 54
	TransactionCodeAllotment                            TransactionCode = 55
	TransactionCodeDividend                             TransactionCode = 56
	TransactionCodeDebentureNoteInterest                TransactionCode = 57
)

// ParseTransactionCode resolves the raw two character code.
func ParseTransactionCode(s string) (TransactionCode, bool) {
	switch s {
	case "13":
		return TransactionCodeExternallyInitiatedDebit, true
	case "50":
		return TransactionCodeExternallyInitiatedCredit, true
	case "51":
		return TransactionCodeAustralianGovernmentSecurityInterest, true
	case "52":
		return TransactionCodeFamilyAllowance, true
	case "53":
		return TransactionCodePay, true
	case "54":
		return TransactionCodePension, true
	case "55":
		return TransactionCodeAllotment, true
	case "56":
		return TransactionCodeDividend, true
	case "57":
		return TransactionCodeDebentureNoteInterest, true
	default:
		return 0, false
	}
}

func (c TransactionCode) String() string {
	switch c {
	case TransactionCodeExternallyInitiatedDebit:
		return "externally_initiated_debit"
	case TransactionCodeExternallyInitiatedCredit:
		return "externally_initiated_credit"
	case TransactionCodeAustralianGovernmentSecurityInterest:
		return "australian_government_security_interest"
	case TransactionCodeFamilyAllowance:
		return "family_allowance"
	case TransactionCodePay:
		return "pay"
	case TransactionCodePension:
		return "pension"
	case TransactionCodeAllotment:
		return "allotment"
	case TransactionCodeDividend:
		return "dividend"
	case TransactionCodeDebentureNoteInterest:
		return "debenture_note_interest"
	default:
		return fmt.Sprintf("TransactionCode(%d)", int(c))
	}
}

func (c TransactionCode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

var transactionCodes = []TransactionCode{
	TransactionCodeExternallyInitiatedDebit,
	TransactionCodeExternallyInitiatedCredit,
	TransactionCodeAustralianGovernmentSecurityInterest,
	TransactionCodeFamilyAllowance,
	TransactionCodePay,
	TransactionCodePension,
	TransactionCodeAllotment,
	TransactionCodeDividend,
	TransactionCodeDebentureNoteInterest,
}

func (c *TransactionCode) UnmarshalText(text []byte) error {
	for _, code := range transactionCodes {
		if code.String() == string(text) {
			*c = code
			return nil
		}
	}
	return fmt.Errorf("unknown transaction code %q", text)
}

// IsDebit reports whether the code moves money out of the target account.
func (c TransactionCode) IsDebit() bool {
	return c == TransactionCodeExternallyInitiatedDebit
}

// RecordFilter selects which part of an assembled file GetRecords returns.
type RecordFilter string

const (
	FilterAll         RecordFilter = "all"
	FilterDescriptive RecordFilter = "descriptive_record"
	FilterDetail      RecordFilter = "detail_record"
	FilterFileTotal   RecordFilter = "file_record"
)

func ParseRecordFilter(s string) (RecordFilter, bool) {
	switch RecordFilter(s) {
	case FilterAll, FilterDescriptive, FilterDetail, FilterFileTotal:
		return RecordFilter(s), true
	case "":
		return FilterAll, true
	default:
		return "", false
	}
}
