package parser

import (
	"fmt"
	"unicode/utf8"

	"github.com/alt-ctrl-dev/aba-validator/internal/models"
)

const (
	descriptiveCode = '0'
	detailCode      = '1'
	fileTotalCode   = '7'
)

// Classify looks only at the first character, so malformed lines can still be
// routed.
func Classify(line string) models.RecordKind {
	if line == "" {
		return models.RecordKindUnknown
	}
	switch line[0] {
	case descriptiveCode:
		return models.RecordKindDescriptive
	case detailCode:
		return models.RecordKindDetail
	case fileTotalCode:
		return models.RecordKindFileTotal
	default:
		return models.RecordKindUnknown
	}
}

// fixedWidth walks the fields of a record left to right.
type fixedWidth struct {
	runes []rune
	pos   int
}

// openRecord applies the checks shared by every decoder and positions the
// cursor after the record code.
func openRecord(line string, code rune) (*fixedWidth, error) {
	if !utf8.ValidString(line) {
		return nil, ErrInvalidInput
	}
	runes := []rune(line)
	if len(runes) != RecordLength {
		return nil, fmt.Errorf("%w: expected %d characters, got %d", ErrIncorrectLength, RecordLength, len(runes))
	}
	if runes[0] != code {
		return nil, fmt.Errorf("%w: expected %q, got %q", ErrIncorrectStartingCode, code, runes[0])
	}
	return &fixedWidth{runes: runes, pos: 1}, nil
}

func (f *fixedWidth) next(width int) string {
	field := string(f.runes[f.pos : f.pos+width])
	f.pos += width
	return field
}
