package parser

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrFileDoesNotExist = errors.New("file does not exist")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNoContent        = errors.New("file has no content")

	ErrInvalidInput          = errors.New("invalid input: record is not text")
	ErrIncorrectLength       = errors.New("incorrect record length")
	ErrIncorrectStartingCode = errors.New("incorrect starting code")
	ErrInvalidFormat         = errors.New("invalid format")

	ErrMultipleDescriptiveRecords = errors.New("multiple descriptive records")
	ErrMultipleFileTotalRecords   = errors.New("multiple file total records")
	ErrUnknownRecordType          = errors.New("unknown record type")

	ErrIncorrectOrderDetected = errors.New("incorrect order detected")
	ErrInvalidFilter          = errors.New("invalid record filter")
	ErrInternal               = errors.New("internal error")
)

// InvalidFormatError lists every field of a record that failed validation, in
// check order.
type InvalidFormatError struct {
	Fields []string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidFormat, strings.Join(e.Fields, ", "))
}

func (e *InvalidFormatError) Is(target error) bool {
	return target == ErrInvalidFormat
}

func (e *InvalidFormatError) FieldNames() []string {
	return e.Fields
}

// StructuralError aborts a whole file. Line is the line the violation is
// reported against.
type StructuralError struct {
	Kind error
	Line int
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%v at line %d", e.Kind, e.Line)
}

func (e *StructuralError) Unwrap() error {
	return e.Kind
}

// FieldsOf returns the violated field names carried by err, if any.
func FieldsOf(err error) []string {
	var formatErr *InvalidFormatError
	if errors.As(err, &formatErr) {
		return formatErr.Fields
	}
	return nil
}

// LineOf returns the line a structural error points at, or 0.
func LineOf(err error) int {
	var structErr *StructuralError
	if errors.As(err, &structErr) {
		return structErr.Line
	}
	return 0
}

// violations accumulates failed field names in the order checks run.
type violations []string

func (v *violations) check(ok bool, field string) {
	if !ok {
		*v = append(*v, field)
	}
}

func (v violations) err() error {
	if len(v) == 0 {
		return nil
	}
	return &InvalidFormatError{Fields: v}
}
