package ingestion

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/alt-ctrl-dev/aba-validator/internal/database"
	"github.com/alt-ctrl-dev/aba-validator/internal/models"
	"github.com/alt-ctrl-dev/aba-validator/internal/parser"
	"github.com/alt-ctrl-dev/aba-validator/pkg/checksum"
)

// Processor defines the interface for file processing operations.
type Processor interface {
	ScanForFiles(rootPath string) ([]models.FileInfo, error)
	ProcessFile(filePath string) ([]models.RecordOutcome, error)
	UpdateFileStatus(fileErrorsMap *models.FileErrorMap, fileMap *models.FileMap) (map[int]string, error)
}

// FileProcessor discovers ABA files, decodes them and records the final
// status of each one.
type FileProcessor struct {
	dbManager  database.DBManager
	extensions []string
}

// NewFileProcessor creates a FileProcessor. Only files whose extension is in
// extensions are picked up by ScanForFiles; an empty list accepts every file.
func NewFileProcessor(dbManager database.DBManager, extensions []string) *FileProcessor {
	normalized := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, ext)
	}
	return &FileProcessor{
		dbManager:  dbManager,
		extensions: normalized,
	}
}

func (fp *FileProcessor) accepts(path string) bool {
	if len(fp.extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range fp.extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// ScanForFiles walks rootPath and returns every candidate file along with its
// checksum, which is later used to skip files that were already ingested.
func (fp *FileProcessor) ScanForFiles(rootPath string) ([]models.FileInfo, error) {
	var fileInfos []models.FileInfo
	log.Printf("Scanning for files in: %s", rootPath)

	err := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !fp.accepts(path) {
			return nil
		}

		sum, err := checksum.GetFileChecksum(path)
		if err != nil {
			log.Printf("WARN: Could not checksum file %s: %v. Skipping file.", path, err)
			return nil
		}

		fileInfos = append(fileInfos, models.FileInfo{Path: path, Checksum: sum})
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", rootPath, err)
	}

	log.Printf("Found %d files to process.", len(fileInfos))
	return fileInfos, nil
}

// ProcessFile decodes every line of an ABA file in order. Records that fail
// validation are returned with their error set; structural problems abort the
// whole file.
func (fp *FileProcessor) ProcessFile(filePath string) ([]models.RecordOutcome, error) {
	file, err := parser.OpenABAFile(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ProcessReader(file)
}

// GetRecords decodes filePath, checks the record order and returns the part
// selected by filter.
func (fp *FileProcessor) GetRecords(filePath string, filter models.RecordFilter) (models.FileRecords, error) {
	if _, ok := models.ParseRecordFilter(string(filter)); !ok {
		return models.FileRecords{}, fmt.Errorf("%w: %q", parser.ErrInvalidFilter, filter)
	}

	file, err := parser.OpenABAFile(filePath)
	if err != nil {
		return models.FileRecords{}, err
	}
	defer file.Close()

	return GetRecordsFromReader(file, filter)
}

// GetRecordsFromReader is GetRecords over an already opened stream.
func GetRecordsFromReader(r io.Reader, filter models.RecordFilter) (models.FileRecords, error) {
	selected, ok := models.ParseRecordFilter(string(filter))
	if !ok {
		return models.FileRecords{}, fmt.Errorf("%w: %q", parser.ErrInvalidFilter, filter)
	}

	outcomes, err := ProcessReader(r)
	if err != nil {
		return models.FileRecords{}, err
	}

	records, err := assemble(outcomes)
	if err != nil {
		return models.FileRecords{}, err
	}

	return records.Project(selected), nil
}

// UpdateFileStatus stores the final status of every file of the run and
// returns the status given to each file id.
func (fp *FileProcessor) UpdateFileStatus(fileErrorsMap *models.FileErrorMap, fileMap *models.FileMap) (map[int]string, error) {
	statuses := make(map[int]string, len(*fileMap))
	for fileID := range *fileMap {
		fileErrorsMap.Mu.Lock()
		appErrors := fileErrorsMap.Errors[fileID]
		fatal := fileErrorsMap.Fatal[fileID]
		fileErrorsMap.Mu.Unlock()

		status := database.FILE_STATUS_DONE
		if fatal {
			status = database.FILE_STATUS_FATAL
		} else if len(appErrors) > 0 {
			status = database.FILE_STATUS_DONE_WITH_ERRORS
		}
		statuses[fileID] = status

		if err := fp.dbManager.UpdateFileStatus(fileID, status, appErrors); err != nil {
			log.Printf("Failed to update status for fileID %d: %v\n", fileID, err)
		}
	}
	return statuses, nil
}
