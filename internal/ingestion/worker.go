package ingestion

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/alt-ctrl-dev/aba-validator/internal/database"
	"github.com/alt-ctrl-dev/aba-validator/internal/models"
	"github.com/alt-ctrl-dev/aba-validator/internal/parser"
	"github.com/alt-ctrl-dev/aba-validator/pkg/checksum"
)

type Runner[T any] struct {
	Run T
}

type AsyncWorkerConfig struct {
	DBBatchSize        int
	ErrorsPerFileLimit int
}

// FileDecoder decodes a single file into per-line outcomes.
type FileDecoder interface {
	ProcessFile(filePath string) ([]models.RecordOutcome, error)
}

// Worker defines the interface for asynchronous processing tasks.
type Worker interface {
	WithChannels(channels *models.IngestionChannels) Worker
	WithWaitGroups(waitGroups *models.IngestionWaitGroups) Worker
	SetupErrorWorker() (Runner[func(*models.FileErrorMap)], *sync.WaitGroup, error)
	SetupParserWorkers(numberOfWorkers int) (Runner[func()], *sync.WaitGroup, error)
	SetupDBWorkers(numberOfWorkers int) (Runner[func()], *sync.WaitGroup, error)
	SetupJobDispatcherWorker(fileInfos []models.FileInfo, fileMap map[int]string, runID string) (Runner[func()], *sync.WaitGroup, error)
}

type AsyncWorker struct {
	config     AsyncWorkerConfig
	dbManager  database.DBManager
	decoder    FileDecoder
	channels   *models.IngestionChannels
	waitGroups *models.IngestionWaitGroups
}

func NewAsyncWorker(dbManager database.DBManager, decoder FileDecoder, cfg AsyncWorkerConfig) *AsyncWorker {
	return &AsyncWorker{
		dbManager: dbManager,
		decoder:   decoder,
		config:    cfg,
	}
}

func (w *AsyncWorker) WithChannels(channels *models.IngestionChannels) Worker {
	w.channels = channels
	return w
}

func (w *AsyncWorker) WithWaitGroups(waitGroups *models.IngestionWaitGroups) Worker {
	w.waitGroups = waitGroups
	return w
}

// ParserWorker validates files taken from the jobs channel. Files that break
// the structure of an ABA file are reported as fatal and contribute no rows;
// otherwise every invalid record is reported and every valid detail record is
// forwarded to the DB workers.
func (w *AsyncWorker) ParserWorker() {
	defer w.waitGroups.ParserWg.Done()
	for job := range w.channels.Jobs {
		log.Printf("Parser worker started job for file %s (ID: %d)\n", job.FilePath, job.FileID)
		w.parseFile(job)
		log.Printf("Parser worker finished job for file %s (ID: %d)\n", job.FilePath, job.FileID)
	}
}

func (w *AsyncWorker) parseFile(job models.FileProcessingJob) {
	outcomes, err := w.decoder.ProcessFile(job.FilePath)
	if err == nil {
		_, err = assemble(outcomes)
	}
	if err != nil {
		w.channels.Errors <- models.AppError{FileID: job.FileID, Line: parser.LineOf(err), Message: "File rejected", Err: err, Fatal: true}
		return
	}

	for _, outcome := range outcomes {
		if !outcome.Valid() {
			w.channels.Errors <- models.AppError{
				FileID:  job.FileID,
				Line:    outcome.Line,
				Message: fmt.Sprintf("Invalid %s record", outcome.Kind),
				Err:     outcome.Err,
			}
			continue
		}
		if outcome.Detail != nil {
			w.channels.Results <- &models.DetailRow{
				FileID:   job.FileID,
				Line:     outcome.Line,
				CheckSum: checksum.CalculateLineHash(outcome.Raw),
				Record:   *outcome.Detail,
			}
		}
	}
}

func (w *AsyncWorker) SetupParserWorkers(numberOfWorkers int) (Runner[func()], *sync.WaitGroup, error) {
	if numberOfWorkers <= 0 {
		return Runner[func()]{}, nil, fmt.Errorf("number of parser workers must be positive, got %d", numberOfWorkers)
	}
	return Runner[func()]{
		Run: func() {
			for i := 1; i <= numberOfWorkers; i++ {
				w.waitGroups.ParserWg.Add(1)
				go w.ParserWorker()
			}
		},
	}, w.waitGroups.ParserWg, nil
}

func (w *AsyncWorker) flushRows(workerId int, rows []*models.DetailRow) {
	log.Printf("DB Worker %d: Inserting batch of %d detail records\n", workerId, len(rows))
	if err := w.dbManager.InsertDetailRecords(rows); err != nil {
		// The batch failed, so report an error for each unique FileID in the batch.
		fileIDs := make(map[int]bool)
		for _, row := range rows {
			fileIDs[row.FileID] = true
		}
		for fileID := range fileIDs {
			w.channels.Errors <- models.AppError{FileID: fileID, Message: "Failed to insert batch of detail records", Err: err}
		}
	}
}

func (w *AsyncWorker) DbWorker(workerId int) {
	log.Printf("DB Worker %d: Starting to process detail records\n", workerId)
	defer w.waitGroups.DbWg.Done()

	batchSize := w.config.DBBatchSize
	if batchSize <= 0 {
		batchSize = 1
	}
	rows := make([]*models.DetailRow, 0, batchSize)

	for row := range w.channels.Results {
		rows = append(rows, row)
		if len(rows) >= batchSize {
			w.flushRows(workerId, rows)
			rows = make([]*models.DetailRow, 0, batchSize)
		}
	}

	// Insert any remaining rows
	if len(rows) > 0 {
		w.flushRows(workerId, rows)
	}

	log.Printf("DB worker %d finished.", workerId)
}

func (w *AsyncWorker) SetupDBWorkers(numberOfWorkers int) (Runner[func()], *sync.WaitGroup, error) {
	if numberOfWorkers <= 0 {
		return Runner[func()]{}, nil, fmt.Errorf("number of DB workers must be positive, got %d", numberOfWorkers)
	}
	return Runner[func()]{
		Run: func() {
			for i := 1; i <= numberOfWorkers; i++ {
				w.waitGroups.DbWg.Add(1)
				go w.DbWorker(i)
			}
		},
	}, w.waitGroups.DbWg, nil
}

func (w *AsyncWorker) ErrorWorker(fileErrorsMap *models.FileErrorMap) {
	defer w.waitGroups.MainWg.Done()
	for appErr := range w.channels.Errors {
		log.Printf("Caught error: %s\n", appErr.Error())

		fileErrorsMap.Mu.Lock()
		if appErr.Fatal {
			fileErrorsMap.Fatal[appErr.FileID] = true
		}
		// keep memory bounded, a file with this many errors is likely not an ABA file at all
		if len(fileErrorsMap.Errors[appErr.FileID]) < w.config.ErrorsPerFileLimit || appErr.Fatal {
			fileErrorsMap.Errors[appErr.FileID] = append(fileErrorsMap.Errors[appErr.FileID], appErr)
		} else if len(fileErrorsMap.Errors[appErr.FileID]) == w.config.ErrorsPerFileLimit {
			log.Printf("File %d has too many errors, dropping the rest\n", appErr.FileID)
		}
		fileErrorsMap.Mu.Unlock()
	}
}

func (w *AsyncWorker) PreprocessAndDispatchJobs(
	fileInfos []models.FileInfo,
	fileMap map[int]string,
	runID string,
) {
	defer close(w.channels.Jobs)
	defer w.waitGroups.MainWg.Done()

	for _, fileInfo := range fileInfos {
		isProcessed, err := w.dbManager.IsFileAlreadyProcessed(fileInfo.Checksum)
		if err != nil {
			log.Printf("ERROR: Failed to check if file %s is already processed: %v. Skipping file.", fileInfo.Path, err)
			continue
		}
		if isProcessed {
			log.Printf("INFO: File %s (checksum: %s) has already been processed. Skipping.", fileInfo.Path, fileInfo.Checksum)
			continue
		}

		fileID, err := w.dbManager.InsertFileRecord(
			fileInfo.Path,
			time.Now(),
			database.FILE_STATUS_PROCESSING,
			fileInfo.Checksum,
			runID,
		)
		if err != nil {
			log.Printf("ERROR: Failed to insert file record for %s: %v. Skipping file.", fileInfo.Path, err)
			continue
		}

		fileMap[fileID] = fileInfo.Path

		log.Printf("Dispatching job for file: %s (FileID: %d)", fileInfo.Path, fileID)
		w.channels.Jobs <- models.FileProcessingJob{FilePath: fileInfo.Path, FileID: fileID}
	}
}

func (w *AsyncWorker) SetupJobDispatcherWorker(fileInfos []models.FileInfo, fileMap map[int]string, runID string) (Runner[func()], *sync.WaitGroup, error) {
	return Runner[func()]{
		Run: func() {
			w.waitGroups.MainWg.Add(1)
			go w.PreprocessAndDispatchJobs(fileInfos, fileMap, runID)
		},
	}, w.waitGroups.MainWg, nil
}

func (w *AsyncWorker) SetupErrorWorker() (Runner[func(*models.FileErrorMap)], *sync.WaitGroup, error) {
	return Runner[func(*models.FileErrorMap)]{
		Run: func(fileErrorsMap *models.FileErrorMap) {
			w.waitGroups.MainWg.Add(1)
			go w.ErrorWorker(fileErrorsMap)
		},
	}, w.waitGroups.MainWg, nil
}
