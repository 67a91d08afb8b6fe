package models

import (
	"errors"

	"github.com/shopspring/decimal"
)

// DetailView adds dollar amounts to a detail record for presentation.
type DetailView struct {
	DetailRecord
	AmountDollars      decimal.Decimal `json:"amount_dollars"`
	WithheldTaxDollars decimal.Decimal `json:"withheld_tax_dollars"`
}

type FileTotalView struct {
	FileTotalRecord
	NetTotalDollars    decimal.Decimal `json:"net_total_dollars"`
	TotalCreditDollars decimal.Decimal `json:"total_credit_dollars"`
	TotalDebitDollars  decimal.Decimal `json:"total_debit_dollars"`
}

// RecordView is the JSON shape of a RecordOutcome.
type RecordView struct {
	Line          int                `json:"line"`
	Kind          RecordKind         `json:"kind"`
	Valid         bool               `json:"valid"`
	Descriptive   *DescriptiveRecord `json:"descriptive,omitempty"`
	Detail        *DetailView        `json:"detail,omitempty"`
	FileTotal     *FileTotalView     `json:"file_total,omitempty"`
	Error         string             `json:"error,omitempty"`
	InvalidFields []string           `json:"invalid_fields,omitempty"`
}

// fieldLister is implemented by errors that carry violated field names.
type fieldLister interface {
	error
	FieldNames() []string
}

func NewRecordView(outcome RecordOutcome) RecordView {
	view := RecordView{
		Line:        outcome.Line,
		Kind:        outcome.Kind,
		Valid:       outcome.Valid(),
		Descriptive: outcome.Descriptive,
	}
	if outcome.Detail != nil {
		view.Detail = &DetailView{
			DetailRecord:       *outcome.Detail,
			AmountDollars:      outcome.Detail.AmountDecimal(),
			WithheldTaxDollars: outcome.Detail.WithheldTaxDecimal(),
		}
	}
	if outcome.FileTotal != nil {
		view.FileTotal = &FileTotalView{
			FileTotalRecord:    *outcome.FileTotal,
			NetTotalDollars:    outcome.FileTotal.NetTotalDecimal(),
			TotalCreditDollars: outcome.FileTotal.TotalCreditDecimal(),
			TotalDebitDollars:  outcome.FileTotal.TotalDebitDecimal(),
		}
	}
	if outcome.Err != nil {
		view.Error = outcome.Err.Error()
		var lister fieldLister
		if errors.As(outcome.Err, &lister) {
			view.InvalidFields = lister.FieldNames()
		}
	}
	return view
}

func NewRecordViews(outcomes []RecordOutcome) []RecordView {
	views := make([]RecordView, 0, len(outcomes))
	for _, outcome := range outcomes {
		views = append(views, NewRecordView(outcome))
	}
	return views
}

type FileRecordsView struct {
	Descriptive *RecordView  `json:"descriptive,omitempty"`
	Details     []RecordView `json:"details,omitempty"`
	FileTotal   *RecordView  `json:"file_total,omitempty"`
}

func NewFileRecordsView(records FileRecords) FileRecordsView {
	var view FileRecordsView
	if records.Descriptive != nil {
		descriptive := NewRecordView(*records.Descriptive)
		view.Descriptive = &descriptive
	}
	if records.Details != nil {
		view.Details = NewRecordViews(records.Details)
	}
	if records.FileTotal != nil {
		fileTotal := NewRecordView(*records.FileTotal)
		view.FileTotal = &fileTotal
	}
	return view
}
