package ingestion

import (
	"strings"
	"testing"

	"github.com/alt-ctrl-dev/aba-validator/internal/models"
	"github.com/alt-ctrl-dev/aba-validator/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemble(t *testing.T) {
	descriptive := models.RecordOutcome{Line: 1, Kind: models.RecordKindDescriptive}
	detailOutcome := models.RecordOutcome{Line: 2, Kind: models.RecordKindDetail}
	fileTotal := models.RecordOutcome{Line: 3, Kind: models.RecordKindFileTotal}

	t.Run("Splits an ordered file", func(t *testing.T) {
		records, err := assemble([]models.RecordOutcome{descriptive, detailOutcome, fileTotal})

		require.NoError(t, err)
		assert.Equal(t, 1, records.Descriptive.Line)
		assert.Equal(t, []models.RecordOutcome{detailOutcome}, records.Details)
		assert.Equal(t, 3, records.FileTotal.Line)
	})

	t.Run("No details", func(t *testing.T) {
		records, err := assemble([]models.RecordOutcome{descriptive, fileTotal})

		require.NoError(t, err)
		assert.Empty(t, records.Details)
	})

	t.Run("Header not first", func(t *testing.T) {
		_, err := assemble([]models.RecordOutcome{detailOutcome, descriptive, fileTotal})
		assert.ErrorIs(t, err, parser.ErrIncorrectOrderDetected)
	})

	t.Run("Trailer not last", func(t *testing.T) {
		_, err := assemble([]models.RecordOutcome{descriptive, fileTotal, detailOutcome})
		assert.ErrorIs(t, err, parser.ErrIncorrectOrderDetected)
	})

	t.Run("Header only", func(t *testing.T) {
		_, err := assemble([]models.RecordOutcome{descriptive})
		assert.ErrorIs(t, err, parser.ErrIncorrectOrderDetected)
	})

	t.Run("Nothing to assemble", func(t *testing.T) {
		_, err := assemble(nil)
		assert.ErrorIs(t, err, parser.ErrNoContent)
	})
}

func TestGetRecordsFromReader(t *testing.T) {
	content := abaFile(header(), detail(100), detail(200), trailer(300, 2))

	t.Run("All", func(t *testing.T) {
		records, err := GetRecordsFromReader(strings.NewReader(content), models.FilterAll)

		require.NoError(t, err)
		require.NotNil(t, records.Descriptive)
		assert.Equal(t, "CBA", records.Descriptive.Descriptive.BankAbbreviation)
		assert.Len(t, records.Details, 2)
		require.NotNil(t, records.FileTotal)
		assert.Equal(t, int64(300), records.FileTotal.FileTotal.TotalCredit)
	})

	t.Run("Projections", func(t *testing.T) {
		records, err := GetRecordsFromReader(strings.NewReader(content), models.FilterDetail)
		require.NoError(t, err)
		assert.Nil(t, records.Descriptive)
		assert.Nil(t, records.FileTotal)
		assert.Len(t, records.Details, 2)

		records, err = GetRecordsFromReader(strings.NewReader(content), models.FilterFileTotal)
		require.NoError(t, err)
		assert.NotNil(t, records.FileTotal)
		assert.Nil(t, records.Details)

		records, err = GetRecordsFromReader(strings.NewReader(content), models.FilterDescriptive)
		require.NoError(t, err)
		assert.NotNil(t, records.Descriptive)
		assert.Nil(t, records.FileTotal)
	})

	t.Run("Empty filter means all", func(t *testing.T) {
		records, err := GetRecordsFromReader(strings.NewReader(content), "")

		require.NoError(t, err)
		assert.NotNil(t, records.Descriptive)
		assert.NotNil(t, records.FileTotal)
	})

	t.Run("Unknown filter", func(t *testing.T) {
		_, err := GetRecordsFromReader(strings.NewReader(content), "trailer")
		assert.ErrorIs(t, err, parser.ErrInvalidFilter)
	})

	t.Run("Detail before header", func(t *testing.T) {
		_, err := GetRecordsFromReader(strings.NewReader(abaFile(detail(100), header(), trailer(100, 1))), models.FilterAll)
		assert.ErrorIs(t, err, parser.ErrIncorrectOrderDetected)
	})

	t.Run("Structural errors pass through", func(t *testing.T) {
		_, err := GetRecordsFromReader(strings.NewReader(abaFile(header(), header())), models.FilterAll)
		assert.ErrorIs(t, err, parser.ErrMultipleDescriptiveRecords)
	})

	t.Run("Empty stream", func(t *testing.T) {
		_, err := GetRecordsFromReader(strings.NewReader(""), models.FilterAll)
		assert.ErrorIs(t, err, parser.ErrNoContent)
	})
}
