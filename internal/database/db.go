package database

import (
	"errors"
	"time"

	"github.com/alt-ctrl-dev/aba-validator/internal/models"
)

const (
	FILE_STATUS_PROCESSING       = "PROCESSING"
	FILE_STATUS_DONE             = "DONE"
	FILE_STATUS_DONE_WITH_ERRORS = "DONE_WITH_ERRORS"
	FILE_STATUS_FATAL            = "FATAL"
)

var ErrFileRecordNotFound = errors.New("file record not found")

type DBManager interface {
	CreateFileRecordsTable() error
	CreateDetailRecordsTable() error
	InsertFileRecord(fileName string, date time.Time, status string, checksum string, runID string) (int, error)
	UpdateFileStatus(fileID int, status string, errors any) error
	IsFileAlreadyProcessed(checksum string) (bool, error)
	InsertDetailRecords(rows []*models.DetailRow) error
	GetFileRecord(fileID int) (*models.FileStatusRecord, error)
}
