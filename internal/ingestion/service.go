package ingestion

import (
	"context"
	"log"

	"github.com/alt-ctrl-dev/aba-validator/internal/config"
	"github.com/alt-ctrl-dev/aba-validator/internal/models"
	"github.com/alt-ctrl-dev/aba-validator/pkg/rabbitmq"
	"github.com/google/uuid"
)

// EventPublisher sends an event to an exchange. *rabbitmq.EventProducer
// satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body interface{}) error
}

type IngestionService struct {
	setupService  ISetup
	asyncWorker   Worker
	fileProcessor Processor
	publisher     EventPublisher
	config        config.Config
	newRunID      func() string
}

func NewIngestionService(setupService ISetup, worker Worker, processor Processor, cfg config.Config) *IngestionService {
	return &IngestionService{
		setupService:  setupService,
		asyncWorker:   worker,
		fileProcessor: processor,
		config:        cfg,
		newRunID:      uuid.NewString,
	}
}

// WithPublisher makes Execute announce the final status of every file.
func (h *IngestionService) WithPublisher(publisher EventPublisher) *IngestionService {
	h.publisher = publisher
	return h
}

// Execute validates every ABA file under filesPath and stores the results.
// It returns the id of the run.
func (h *IngestionService) Execute(ctx context.Context, filesPath string) (string, error) {
	// Step 0: Setup the ingestion environment.
	environmentConfig, err := h.setupService.build()
	if err != nil {
		return "", err
	}
	channels, waitGroups, fileMap, fileErrorsMap := environmentConfig.GetValues()

	runID := h.newRunID()
	log.Printf("Starting ingestion run %s", runID)

	// Step 1: Find the candidate files and their checksums.
	fileInfos, err := h.fileProcessor.ScanForFiles(filesPath)
	if err != nil {
		log.Printf("Failed to scan files: %v", err)
		return runID, err
	}

	// Step 1.1: Wire channels and wait groups into the worker, the runners below depend on them.
	h.asyncWorker.WithChannels(channels).WithWaitGroups(waitGroups)

	// Step 2: Skip files already ingested, register the rest and dispatch jobs.
	dispatcherWorkerRunner, _, err := h.asyncWorker.SetupJobDispatcherWorker(fileInfos, *fileMap, runID)
	if err != nil {
		return runID, err
	}

	// Step 3: Error worker collects invalid records and fatal file errors.
	errorWorkerRunner, mainWaitGroup, err := h.asyncWorker.SetupErrorWorker()
	if err != nil {
		return runID, err
	}

	// Step 4: Parser workers decode files and forward valid detail records.
	parserWorkersRunner, parserWorkerWaitGroup, err := h.asyncWorker.SetupParserWorkers(h.config.NumParserWorkers)
	if err != nil {
		return runID, err
	}

	// Step 5: DB worker bulk loads detail records.
	dbWorkersRunner, dbWorkerWaitGroup, err := h.asyncWorker.SetupDBWorkers(1)
	if err != nil {
		return runID, err
	}

	dispatcherWorkerRunner.Run()
	errorWorkerRunner.Run(fileErrorsMap)
	parserWorkersRunner.Run()
	dbWorkersRunner.Run()

	// Step 6: Wait for all processing to complete.
	log.Println("Waiting for parser workers to finish...")
	parserWorkerWaitGroup.Wait()

	// Step 6.1: No more detail records will be produced.
	close(channels.Results)

	log.Println("Waiting for DB workers to finish...")
	dbWorkerWaitGroup.Wait()

	// Step 6.2: Close the errors channel after all workers that can produce errors are done.
	close(channels.Errors)

	log.Println("Waiting for file error worker to finish...")
	mainWaitGroup.Wait()

	// Step 7: Store the final status of each file and announce it.
	statuses, err := h.fileProcessor.UpdateFileStatus(fileErrorsMap, fileMap)
	if err != nil {
		return runID, err
	}
	h.publishResults(ctx, runID, statuses, fileMap, fileErrorsMap)

	log.Printf("Ingestion run %s finished: %d files processed.", runID, len(statuses))
	return runID, nil
}

func (h *IngestionService) publishResults(ctx context.Context, runID string, statuses map[int]string, fileMap *models.FileMap, fileErrorsMap *models.FileErrorMap) {
	if h.publisher == nil {
		return
	}
	for fileID, status := range statuses {
		event := models.FileValidatedEvent{
			RunID:    runID,
			FileID:   fileID,
			FilePath: (*fileMap)[fileID],
			Status:   status,
			Errors:   len(fileErrorsMap.Errors[fileID]),
		}
		if err := h.publisher.Publish(ctx, h.config.EventsExchange, rabbitmq.FileValidatedRoutingKey, event); err != nil {
			log.Printf("WARN: Failed to publish event for fileID %d: %v", fileID, err)
		}
	}
}
