package ingestion

import (
	"fmt"

	"github.com/alt-ctrl-dev/aba-validator/internal/models"
	"github.com/alt-ctrl-dev/aba-validator/internal/parser"
)

// assemble checks that the file opens with the descriptive record and closes
// with the file total, then splits the outcomes into their three parts.
func assemble(outcomes []models.RecordOutcome) (models.FileRecords, error) {
	if len(outcomes) == 0 {
		return models.FileRecords{}, parser.ErrNoContent
	}

	first := outcomes[0]
	last := outcomes[len(outcomes)-1]
	if first.Kind != models.RecordKindDescriptive {
		return models.FileRecords{}, fmt.Errorf("%w: line %d is a %s record, expected descriptive", parser.ErrIncorrectOrderDetected, first.Line, first.Kind)
	}
	if last.Kind != models.RecordKindFileTotal {
		return models.FileRecords{}, fmt.Errorf("%w: line %d is a %s record, expected file_total", parser.ErrIncorrectOrderDetected, last.Line, last.Kind)
	}

	details := make([]models.RecordOutcome, 0, len(outcomes)-2)
	for _, outcome := range outcomes[1 : len(outcomes)-1] {
		if outcome.Kind != models.RecordKindDetail {
			return models.FileRecords{}, fmt.Errorf("%w: line %d is a %s record between detail records", parser.ErrIncorrectOrderDetected, outcome.Line, outcome.Kind)
		}
		details = append(details, outcome)
	}

	return models.FileRecords{
		Descriptive: &first,
		Details:     details,
		FileTotal:   &last,
	}, nil
}
