package ingestion

import (
	"fmt"
	"io"

	"github.com/alt-ctrl-dev/aba-validator/internal/models"
	"github.com/alt-ctrl-dev/aba-validator/internal/parser"
)

// streamState is the running state of a single pass over a file. step never
// modifies its receiver; it returns the next state.
type streamState struct {
	descriptiveCount int
	detailCount      int
	fileTotalCount   int
	descriptiveLines []int
	fileTotalLines   []int
}

func appendLine(lines []int, line int) []int {
	next := make([]int, len(lines), len(lines)+1)
	copy(next, lines)
	return append(next, line)
}

// step decodes one line. A non-nil error is structural and ends the pass;
// content problems are reported through the outcome instead.
func (s streamState) step(line models.Line) (streamState, models.RecordOutcome, error) {
	kind := parser.Classify(line.Text)
	outcome := models.RecordOutcome{Line: line.Number, Kind: kind, Raw: line.Text}
	next := s

	switch kind {
	case models.RecordKindDescriptive:
		if s.descriptiveCount > 0 {
			return s, outcome, &parser.StructuralError{Kind: parser.ErrMultipleDescriptiveRecords, Line: line.Number}
		}
		record, err := parser.DecodeDescriptive(line.Text)
		if err == nil {
			outcome.Descriptive = &record
		}
		outcome.Err = err
		next.descriptiveCount++
		next.descriptiveLines = appendLine(s.descriptiveLines, line.Number)

	case models.RecordKindDetail:
		record, err := parser.DecodeDetail(line.Text)
		if err == nil {
			outcome.Detail = &record
		}
		outcome.Err = err
		next.detailCount++

	case models.RecordKindFileTotal:
		if s.fileTotalCount > 0 {
			return s, outcome, &parser.StructuralError{Kind: parser.ErrMultipleFileTotalRecords, Line: s.fileTotalLines[0]}
		}
		record, err := parser.DecodeFileTotal(line.Text, s.detailCount)
		if err == nil {
			outcome.FileTotal = &record
		}
		outcome.Err = err
		next.fileTotalCount++
		next.fileTotalLines = appendLine(s.fileTotalLines, line.Number)

	default:
		return s, outcome, &parser.StructuralError{Kind: parser.ErrUnknownRecordType, Line: line.Number}
	}

	return next, outcome, nil
}

// ProcessReader runs the streaming pass over r and returns one outcome per
// line in file order. Any structural error discards the outcomes gathered so
// far. A panic while decoding is reported as parser.ErrInternal.
func ProcessReader(r io.Reader) (outcomes []models.RecordOutcome, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			outcomes = nil
			err = fmt.Errorf("%w: %v", parser.ErrInternal, recovered)
		}
	}()

	var state streamState
	err = parser.ScanLines(r, func(line models.Line) error {
		next, outcome, stepErr := state.step(line)
		if stepErr != nil {
			return stepErr
		}
		state = next
		outcomes = append(outcomes, outcome)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcomes, nil
}
