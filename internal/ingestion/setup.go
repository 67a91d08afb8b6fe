package ingestion

import (
	"sync"

	"github.com/alt-ctrl-dev/aba-validator/internal/models"
)

type ISetup interface {
	build() (models.SetupReturn, error)
}

type Setup struct {
	ResultsChannelSize int
}

// Instantiate all channels and data structure we will use in the concurrent ingestion process
// Its useful to have it in a separated struct to be able to leverage DI for testing
func (h Setup) build() (models.SetupReturn, error) {
	resultsSize := h.ResultsChannelSize
	if resultsSize <= 0 {
		resultsSize = 1000
	}

	channels := models.IngestionChannels{
		Results: make(chan *models.DetailRow, resultsSize),
		Errors:  make(chan models.AppError, 100),
		Jobs:    make(chan models.FileProcessingJob, 100),
	}

	var parserWg, dbWg, mainWg sync.WaitGroup
	fileMap := make(map[int]string)
	fileErrorsMap := models.FileErrorMap{
		Errors: make(map[int][]models.AppError),
		Fatal:  make(map[int]bool),
	}
	return models.SetupReturn{
		Channels:      &channels,
		WaitGroups:    &models.IngestionWaitGroups{ParserWg: &parserWg, DbWg: &dbWg, MainWg: &mainWg},
		FileMap:       &fileMap,
		FileErrorsMap: &fileErrorsMap,
	}, nil
}
