package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Line is one physical line of an ABA file, numbered from 1.
type Line struct {
	Number int
	Text   string
}

type DescriptiveRecord struct {
	ReelSequenceNumber         string `json:"reel_sequence_number"`
	BankAbbreviation           string `json:"bank_abbreviation"`
	UserPreferredSpecification string `json:"user_preferred_specification"`
	UserIDNumber               string `json:"user_id_number"`
	Description                string `json:"description"`
	Date                       string `json:"date"`
}

// ProcessingDate converts the DDMMYY date of the header. Years are placed in
// the 2000s.
func (r DescriptiveRecord) ProcessingDate() (time.Time, error) {
	if len(r.Date) != 6 {
		return time.Time{}, fmt.Errorf("invalid processing date %q", r.Date)
	}
	day, errDay := strconv.Atoi(r.Date[0:2])
	month, errMonth := strconv.Atoi(r.Date[2:4])
	year, errYear := strconv.Atoi(r.Date[4:6])
	if errDay != nil || errMonth != nil || errYear != nil {
		return time.Time{}, fmt.Errorf("invalid processing date %q", r.Date)
	}
	return time.Date(2000+year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

type DetailRecord struct {
	BSB                string          `json:"bsb"`
	AccountNumber      string          `json:"account_number"`
	Indicator          Indicator       `json:"indicator"`
	TransactionCode    TransactionCode `json:"transaction_code"`
	Amount             int64           `json:"amount"`
	AccountName        string          `json:"account_name"`
	Reference          string          `json:"reference"`
	TraceBSB           string          `json:"trace_bsb"`
	TraceAccountNumber string          `json:"trace_account_number"`
	RemitterName       string          `json:"remitter_name"`
	WithheldTax        int64           `json:"withheld_tax"`
}

// AmountDecimal returns the amount in dollars. Amounts are held in cents.
func (r DetailRecord) AmountDecimal() decimal.Decimal {
	return decimal.New(r.Amount, -2)
}

func (r DetailRecord) WithheldTaxDecimal() decimal.Decimal {
	return decimal.New(r.WithheldTax, -2)
}

type FileTotalRecord struct {
	NetTotal    int64 `json:"net_total"`
	TotalCredit int64 `json:"total_credit"`
	TotalDebit  int64 `json:"total_debit"`
	RecordCount int   `json:"record_count"`
}

func (r FileTotalRecord) NetTotalDecimal() decimal.Decimal {
	return decimal.New(r.NetTotal, -2)
}

func (r FileTotalRecord) TotalCreditDecimal() decimal.Decimal {
	return decimal.New(r.TotalCredit, -2)
}

func (r FileTotalRecord) TotalDebitDecimal() decimal.Decimal {
	return decimal.New(r.TotalDebit, -2)
}

// RecordOutcome is the result of decoding a single line. Exactly one of the
// record pointers is set when Err is nil.
type RecordOutcome struct {
	Line        int
	Kind        RecordKind
	Raw         string
	Descriptive *DescriptiveRecord
	Detail      *DetailRecord
	FileTotal   *FileTotalRecord
	Err         error
}

func (o RecordOutcome) Valid() bool {
	return o.Err == nil
}

// FileRecords is a structurally valid file split into its three parts.
type FileRecords struct {
	Descriptive *RecordOutcome
	Details     []RecordOutcome
	FileTotal   *RecordOutcome
}

// Project keeps only the part selected by filter.
func (f FileRecords) Project(filter RecordFilter) FileRecords {
	switch filter {
	case FilterDescriptive:
		return FileRecords{Descriptive: f.Descriptive}
	case FilterDetail:
		return FileRecords{Details: f.Details}
	case FilterFileTotal:
		return FileRecords{FileTotal: f.FileTotal}
	default:
		return f
	}
}

type AppError struct {
	FileID  int
	Line    int
	Message string
	Err     error
	Fatal   bool
}

func (e *AppError) Error() string {
	location := fmt.Sprintf("FileID %d", e.FileID)
	if e.Line > 0 {
		location = fmt.Sprintf("FileID %d line %d", e.FileID, e.Line)
	}

	if e.Err != nil {
		return fmt.Sprintf("%s: %s - %v", location, e.Message, e.Err)
	}

	return fmt.Sprintf("%s: %s", location, e.Message)
}

// MarshalJSON flattens the wrapped error so the errors column stays readable.
func (e AppError) MarshalJSON() ([]byte, error) {
	var errText string
	if e.Err != nil {
		errText = e.Err.Error()
	}
	return json.Marshal(struct {
		Line    int    `json:"line,omitempty"`
		Message string `json:"message"`
		Error   string `json:"error,omitempty"`
		Fatal   bool   `json:"fatal,omitempty"`
	}{
		Line:    e.Line,
		Message: e.Message,
		Error:   errText,
		Fatal:   e.Fatal,
	})
}

// DetailRow is a valid detail record on its way to the database.
type DetailRow struct {
	FileID   int
	Line     int
	CheckSum string
	Record   DetailRecord
}

type FileProcessingJob struct {
	FilePath string
	FileID   int
}

type FileInfo struct {
	Path     string
	Checksum string
}

type FileErrorMap struct {
	Errors map[int][]AppError
	Fatal  map[int]bool
	Mu     sync.Mutex
}

type IngestionChannels struct {
	Results chan *DetailRow
	Errors  chan AppError
	Jobs    chan FileProcessingJob
}

type IngestionWaitGroups struct {
	ParserWg *sync.WaitGroup
	DbWg     *sync.WaitGroup
	MainWg   *sync.WaitGroup
}

type FileMap = map[int]string

type SetupReturn struct {
	Channels      *IngestionChannels
	WaitGroups    *IngestionWaitGroups
	FileMap       *FileMap
	FileErrorsMap *FileErrorMap
}

func (s *SetupReturn) GetValues() (*IngestionChannels, *IngestionWaitGroups, *FileMap, *FileErrorMap) {
	return s.Channels, s.WaitGroups, s.FileMap, s.FileErrorsMap
}

// FileStatusRecord is a row of the aba_files table as served by the API.
type FileStatusRecord struct {
	ID          int             `json:"id"`
	FileName    string          `json:"file_name"`
	ProcessedAt time.Time       `json:"processed_at"`
	Status      string          `json:"status"`
	Checksum    string          `json:"checksum"`
	RunID       string          `json:"run_id"`
	DetailCount int             `json:"detail_count"`
	Errors      json.RawMessage `json:"errors,omitempty"`
}

// FileValidatedEvent is published once a file reaches its final status.
type FileValidatedEvent struct {
	RunID    string `json:"run_id"`
	FileID   int    `json:"file_id"`
	FilePath string `json:"file_path"`
	Status   string `json:"status"`
	Errors   int    `json:"errors"`
}
