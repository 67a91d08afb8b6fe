package ingestion

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/alt-ctrl-dev/aba-validator/internal/config"
	"github.com/alt-ctrl-dev/aba-validator/internal/database"
	"github.com/alt-ctrl-dev/aba-validator/internal/models"
	"github.com/alt-ctrl-dev/aba-validator/pkg/rabbitmq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const testRunID = "run-1"

func BuildTestSetup() (string, *MockWorker, *MockProcessor, *MockSetup, models.SetupReturn, config.Config) {
	const path = "some/path"
	worker := new(MockWorker)
	processor := new(MockProcessor)
	setup := new(MockSetup)

	cfg := config.Config{
		NumParserWorkers:   2,
		ResultsChannelSize: 100,
		EventsExchange:     "aba.files",
	}

	fileMap := make(map[int]string)
	setupReturn := models.SetupReturn{
		Channels: &models.IngestionChannels{
			Results: make(chan *models.DetailRow, 100),
			Errors:  make(chan models.AppError, 100),
			Jobs:    make(chan models.FileProcessingJob, 100),
		},
		WaitGroups:    &models.IngestionWaitGroups{ParserWg: &sync.WaitGroup{}, DbWg: &sync.WaitGroup{}, MainWg: &sync.WaitGroup{}},
		FileMap:       &fileMap,
		FileErrorsMap: &models.FileErrorMap{Errors: make(map[int][]models.AppError), Fatal: make(map[int]bool)},
	}
	return path, worker, processor, setup, setupReturn, cfg
}

func newTestService(setup ISetup, worker Worker, processor Processor, cfg config.Config) *IngestionService {
	service := NewIngestionService(setup, worker, processor, cfg)
	service.newRunID = func() string { return testRunID }
	return service
}

func expectWorkers(worker *MockWorker, setupReturn models.SetupReturn, scanResult []models.FileInfo, cfg config.Config) {
	worker.On("WithChannels", setupReturn.Channels).Return(worker).Once()
	worker.On("WithWaitGroups", setupReturn.WaitGroups).Return(worker).Once()
	worker.On("SetupJobDispatcherWorker", scanResult, *setupReturn.FileMap, testRunID).Return(Runner[func()]{Run: func() {}}, &sync.WaitGroup{}, nil).Once()
	worker.On("SetupErrorWorker").Return(Runner[func(*models.FileErrorMap)]{Run: func(*models.FileErrorMap) {}}, &sync.WaitGroup{}, nil).Once()
	worker.On("SetupParserWorkers", cfg.NumParserWorkers).Return(Runner[func()]{Run: func() {}}, &sync.WaitGroup{}, nil).Once()
	worker.On("SetupDBWorkers", 1).Return(Runner[func()]{Run: func() {}}, &sync.WaitGroup{}, nil).Once()
}

func TestIngestionService_Execute(t *testing.T) {
	scanResult := []models.FileInfo{{Path: "some/path/a.aba", Checksum: "abc"}}

	t.Run("Expect: Execute to run successfully", func(t *testing.T) {
		path, worker, processor, setup, setupReturn, cfg := BuildTestSetup()
		setup.On("build").Return(setupReturn, nil).Once()
		processor.On("ScanForFiles", path).Return(scanResult, nil).Once()
		expectWorkers(worker, setupReturn, scanResult, cfg)
		processor.On("UpdateFileStatus", setupReturn.FileErrorsMap, setupReturn.FileMap).Return(map[int]string{}, nil).Once()

		service := newTestService(setup, worker, processor, cfg)
		runID, err := service.Execute(context.Background(), path)

		assert.NoError(t, err)
		assert.Equal(t, testRunID, runID)
		worker.AssertExpectations(t)
		processor.AssertExpectations(t)
		setup.AssertExpectations(t)
	})

	t.Run("Expect: Final statuses to be published", func(t *testing.T) {
		path, worker, processor, setup, setupReturn, cfg := BuildTestSetup()
		(*setupReturn.FileMap)[4] = "some/path/a.aba"
		setupReturn.FileErrorsMap.Errors[4] = []models.AppError{{FileID: 4, Line: 2}}

		setup.On("build").Return(setupReturn, nil).Once()
		processor.On("ScanForFiles", path).Return(scanResult, nil).Once()
		expectWorkers(worker, setupReturn, scanResult, cfg)
		processor.On("UpdateFileStatus", setupReturn.FileErrorsMap, setupReturn.FileMap).
			Return(map[int]string{4: database.FILE_STATUS_DONE_WITH_ERRORS}, nil).Once()

		publisher := new(MockPublisher)
		publisher.On("Publish", mock.Anything, "aba.files", rabbitmq.FileValidatedRoutingKey, models.FileValidatedEvent{
			RunID:    testRunID,
			FileID:   4,
			FilePath: "some/path/a.aba",
			Status:   database.FILE_STATUS_DONE_WITH_ERRORS,
			Errors:   1,
		}).Return(errors.New("broker unavailable")).Once()

		service := newTestService(setup, worker, processor, cfg).WithPublisher(publisher)
		_, err := service.Execute(context.Background(), path)

		assert.NoError(t, err, "publish failures must not fail the run")
		publisher.AssertExpectations(t)
	})

	t.Run("Expect: Error to be returned when build fails", func(t *testing.T) {
		path, worker, processor, setup, _, cfg := BuildTestSetup()
		setup.On("build").Return(models.SetupReturn{}, errors.New("build error")).Once()

		service := newTestService(setup, worker, processor, cfg)
		_, err := service.Execute(context.Background(), path)

		assert.Error(t, err)
		setup.AssertExpectations(t)
		processor.AssertNotCalled(t, "ScanForFiles", mock.Anything)
	})

	t.Run("Expect: Error to be returned when ScanForFiles fails", func(t *testing.T) {
		path, worker, processor, setup, setupReturn, cfg := BuildTestSetup()
		setup.On("build").Return(setupReturn, nil).Once()
		processor.On("ScanForFiles", path).Return(nil, errors.New("scan error")).Once()

		service := newTestService(setup, worker, processor, cfg)
		_, err := service.Execute(context.Background(), path)

		assert.Error(t, err)
		processor.AssertExpectations(t)
		worker.AssertNotCalled(t, "WithChannels", mock.Anything)
	})

	t.Run("Expect: Error to be returned when SetupJobDispatcherWorker fails", func(t *testing.T) {
		path, worker, processor, setup, setupReturn, cfg := BuildTestSetup()
		setup.On("build").Return(setupReturn, nil).Once()
		processor.On("ScanForFiles", path).Return(scanResult, nil).Once()
		worker.On("WithChannels", setupReturn.Channels).Return(worker).Once()
		worker.On("WithWaitGroups", setupReturn.WaitGroups).Return(worker).Once()
		worker.On("SetupJobDispatcherWorker", scanResult, *setupReturn.FileMap, testRunID).Return(nil, nil, errors.New("dispatcher error")).Once()

		service := newTestService(setup, worker, processor, cfg)
		_, err := service.Execute(context.Background(), path)

		assert.Error(t, err)
		worker.AssertExpectations(t)
		worker.AssertNotCalled(t, "SetupErrorWorker")
	})

	t.Run("Expect: Error to be returned when SetupParserWorkers fails", func(t *testing.T) {
		path, worker, processor, setup, setupReturn, cfg := BuildTestSetup()
		setup.On("build").Return(setupReturn, nil).Once()
		processor.On("ScanForFiles", path).Return(scanResult, nil).Once()
		worker.On("WithChannels", setupReturn.Channels).Return(worker).Once()
		worker.On("WithWaitGroups", setupReturn.WaitGroups).Return(worker).Once()
		worker.On("SetupJobDispatcherWorker", scanResult, *setupReturn.FileMap, testRunID).Return(Runner[func()]{Run: func() {}}, &sync.WaitGroup{}, nil).Once()
		worker.On("SetupErrorWorker").Return(Runner[func(*models.FileErrorMap)]{Run: func(*models.FileErrorMap) {}}, &sync.WaitGroup{}, nil).Once()
		worker.On("SetupParserWorkers", cfg.NumParserWorkers).Return(nil, nil, errors.New("parser error")).Once()

		service := newTestService(setup, worker, processor, cfg)
		_, err := service.Execute(context.Background(), path)

		assert.Error(t, err)
		worker.AssertExpectations(t)
		worker.AssertNotCalled(t, "SetupDBWorkers", mock.Anything)
	})

	t.Run("Expect: Error to be returned when UpdateFileStatus fails", func(t *testing.T) {
		path, worker, processor, setup, setupReturn, cfg := BuildTestSetup()
		setup.On("build").Return(setupReturn, nil).Once()
		processor.On("ScanForFiles", path).Return(scanResult, nil).Once()
		expectWorkers(worker, setupReturn, scanResult, cfg)
		processor.On("UpdateFileStatus", setupReturn.FileErrorsMap, setupReturn.FileMap).Return(nil, errors.New("update error")).Once()

		service := newTestService(setup, worker, processor, cfg)
		runID, err := service.Execute(context.Background(), path)

		assert.Error(t, err)
		assert.Equal(t, testRunID, runID)
	})
}

func TestSetup_Build(t *testing.T) {
	setupReturn, err := Setup{ResultsChannelSize: 5}.build()

	assert.NoError(t, err)
	assert.Equal(t, 5, cap(setupReturn.Channels.Results))
	assert.NotNil(t, setupReturn.FileErrorsMap.Fatal)
	assert.NotNil(t, setupReturn.WaitGroups.MainWg)

	setupReturn, _ = Setup{}.build()
	assert.Equal(t, 1000, cap(setupReturn.Channels.Results))
}
