package ingestion

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alt-ctrl-dev/aba-validator/internal/models"
	"github.com/stretchr/testify/mock"
)

func header() string {
	return "0" + strings.Repeat(" ", 17) + "01CBA" + strings.Repeat(" ", 7) +
		fmt.Sprintf("%-26s%-6s%-12s", "WESTPAC", "301500", "PAYROLL") + "221212" + strings.Repeat(" ", 40)
}

func detail(amount int64) string {
	return "1062-000" + fmt.Sprintf("%9s", "12223123") + " 53" + fmt.Sprintf("%010d", amount) +
		fmt.Sprintf("%-32s%-18s", "Jane Citizen", "Invoice 42") + "062-000" + fmt.Sprintf("%9s", "98765432") +
		fmt.Sprintf("%-16s", "ACME PTY LTD") + "00000000"
}

func invalidDetail() string {
	return "1" + strings.Repeat(" ", 119)
}

func trailer(total int64, count int) string {
	return "7999-999" + strings.Repeat(" ", 12) + fmt.Sprintf("%010d%010d%010d", total, total, 0) +
		strings.Repeat(" ", 24) + fmt.Sprintf("%06d", count) + strings.Repeat(" ", 40)
}

func abaFile(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

// MockDBManager is a mock implementation of the DBManager interface.
type MockDBManager struct {
	mock.Mock
}

func (m *MockDBManager) CreateFileRecordsTable() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockDBManager) CreateDetailRecordsTable() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockDBManager) InsertFileRecord(fileName string, date time.Time, status string, checksum string, runID string) (int, error) {
	args := m.Called(fileName, date, status, checksum, runID)
	return args.Int(0), args.Error(1)
}

func (m *MockDBManager) UpdateFileStatus(fileID int, status string, errors any) error {
	args := m.Called(fileID, status, errors)
	return args.Error(0)
}

func (m *MockDBManager) IsFileAlreadyProcessed(checksum string) (bool, error) {
	args := m.Called(checksum)
	return args.Bool(0), args.Error(1)
}

func (m *MockDBManager) InsertDetailRecords(rows []*models.DetailRow) error {
	args := m.Called(rows)
	return args.Error(0)
}

func (m *MockDBManager) GetFileRecord(fileID int) (*models.FileStatusRecord, error) {
	args := m.Called(fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FileStatusRecord), args.Error(1)
}

// MockWorker is a mock implementation of the Worker interface.
type MockWorker struct {
	mock.Mock
}

func (m *MockWorker) WithChannels(channels *models.IngestionChannels) Worker {
	m.Called(channels)
	return m
}

func (m *MockWorker) WithWaitGroups(waitGroups *models.IngestionWaitGroups) Worker {
	m.Called(waitGroups)
	return m
}

func (m *MockWorker) SetupErrorWorker() (Runner[func(*models.FileErrorMap)], *sync.WaitGroup, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return Runner[func(*models.FileErrorMap)]{}, nil, args.Error(2)
	}
	return args.Get(0).(Runner[func(*models.FileErrorMap)]), args.Get(1).(*sync.WaitGroup), args.Error(2)
}

func (m *MockWorker) SetupParserWorkers(numWorkers int) (Runner[func()], *sync.WaitGroup, error) {
	args := m.Called(numWorkers)
	if args.Get(0) == nil {
		return Runner[func()]{}, nil, args.Error(2)
	}
	return args.Get(0).(Runner[func()]), args.Get(1).(*sync.WaitGroup), args.Error(2)
}

func (m *MockWorker) SetupDBWorkers(numWorkers int) (Runner[func()], *sync.WaitGroup, error) {
	args := m.Called(numWorkers)
	if args.Get(0) == nil {
		return Runner[func()]{}, nil, args.Error(2)
	}
	return args.Get(0).(Runner[func()]), args.Get(1).(*sync.WaitGroup), args.Error(2)
}

func (m *MockWorker) SetupJobDispatcherWorker(fileInfos []models.FileInfo, fileMap map[int]string, runID string) (Runner[func()], *sync.WaitGroup, error) {
	args := m.Called(fileInfos, fileMap, runID)
	if args.Get(0) == nil {
		return Runner[func()]{}, nil, args.Error(2)
	}
	return args.Get(0).(Runner[func()]), args.Get(1).(*sync.WaitGroup), args.Error(2)
}

// MockProcessor is a mock implementation of the Processor interface.
type MockProcessor struct {
	mock.Mock
}

func (m *MockProcessor) ScanForFiles(path string) ([]models.FileInfo, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FileInfo), args.Error(1)
}

func (m *MockProcessor) ProcessFile(filePath string) ([]models.RecordOutcome, error) {
	args := m.Called(filePath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RecordOutcome), args.Error(1)
}

func (m *MockProcessor) UpdateFileStatus(fileErrorsMap *models.FileErrorMap, fileMap *models.FileMap) (map[int]string, error) {
	args := m.Called(fileErrorsMap, fileMap)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]string), args.Error(1)
}

// MockSetup is a mock implementation of the ISetup interface.
type MockSetup struct {
	mock.Mock
}

func (m *MockSetup) build() (models.SetupReturn, error) {
	args := m.Called()
	return args.Get(0).(models.SetupReturn), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, exchange, routingKey string, body interface{}) error {
	args := m.Called(ctx, exchange, routingKey, body)
	return args.Error(0)
}
