package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/alt-ctrl-dev/aba-validator/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func ConnectDB(connStr string) (*pgxpool.Pool, error) {
	dbpool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	return dbpool, nil
}

type PostgresDBManager struct {
	dbpool *pgxpool.Pool
	ctx    context.Context
}

func NewPostgresDBManager(ctx context.Context, pool *pgxpool.Pool) *PostgresDBManager {
	return &PostgresDBManager{dbpool: pool, ctx: ctx}
}

func (m *PostgresDBManager) CreateFileRecordsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS aba_files (
		id SERIAL PRIMARY KEY,
		file_name VARCHAR(1024) NOT NULL,
		processed_at TIMESTAMP NOT NULL,
		status VARCHAR(50) NOT NULL CHECK (status IN ('DONE', 'DONE_WITH_ERRORS', 'PROCESSING', 'FATAL')),
		checksum VARCHAR(64),
		run_id VARCHAR(36),
		errors jsonb
	);
	CREATE INDEX IF NOT EXISTS idx_aba_files_checksum ON aba_files (checksum);`

	_, err := m.dbpool.Exec(m.ctx, query)
	if err != nil {
		return fmt.Errorf("error creating aba_files table: %v", err)
	}

	return nil
}

// CreateDetailRecordsTable creates the table holding every valid detail record
// of ingested files. Amounts are stored in cents.
func (m *PostgresDBManager) CreateDetailRecordsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS aba_detail_records (
		id BIGSERIAL PRIMARY KEY,
		file_id INTEGER NOT NULL REFERENCES aba_files (id),
		line INTEGER NOT NULL,
		checksum VARCHAR(64) NOT NULL,
		bsb CHAR(7) NOT NULL,
		account_number VARCHAR(9) NOT NULL,
		indicator VARCHAR(64) NOT NULL,
		transaction_code SMALLINT NOT NULL,
		amount BIGINT NOT NULL,
		account_name VARCHAR(32) NOT NULL,
		reference VARCHAR(18) NOT NULL,
		trace_bsb CHAR(7) NOT NULL,
		trace_account_number VARCHAR(9) NOT NULL,
		remitter_name VARCHAR(16) NOT NULL,
		withheld_tax BIGINT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_aba_detail_records_file ON aba_detail_records (file_id, line);`

	_, err := m.dbpool.Exec(m.ctx, query)
	if err != nil {
		return fmt.Errorf("error creating aba_detail_records table: %v", err)
	}

	return nil
}

func (m *PostgresDBManager) InsertFileRecord(fileName string, date time.Time, status string, checksum string, runID string) (int, error) {
	query := `
	INSERT INTO aba_files (file_name, processed_at, status, checksum, run_id)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id;`

	var fileID int
	err := m.dbpool.QueryRow(m.ctx, query, fileName, date, status, checksum, runID).Scan(&fileID)
	if err != nil {
		return 0, fmt.Errorf("error inserting file record: %v", err)
	}

	return fileID, nil
}

func (m *PostgresDBManager) UpdateFileStatus(fileID int, status string, errors any) error {
	query := `
	UPDATE aba_files
	SET status = $1,
		errors = $2
	WHERE id = $3;`

	_, err := m.dbpool.Exec(m.ctx, query, status, errors, fileID)
	if err != nil {
		return fmt.Errorf("error updating file status: %v", err)
	}

	return nil
}

func (m *PostgresDBManager) IsFileAlreadyProcessed(checksum string) (bool, error) {
	query := `
	SELECT id
	FROM aba_files
	WHERE checksum = $1 AND status IN ('DONE', 'DONE_WITH_ERRORS', 'FATAL')
	LIMIT 1;`

	var id int

	err := m.dbpool.QueryRow(m.ctx, query, checksum).Scan(&id)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error finding file record by checksum: %v", err)
	}

	return true, nil
}

// InsertDetailRecords bulk loads a batch of detail rows with COPY inside a
// single transaction.
func (m *PostgresDBManager) InsertDetailRecords(rows []*models.DetailRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := m.dbpool.Begin(m.ctx)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %v", err)
	}
	defer tx.Rollback(m.ctx)

	// The column order here must match the values produced below.
	columnNames := []string{
		"file_id", "line", "checksum", "bsb", "account_number", "indicator", "transaction_code", "amount",
		"account_name", "reference", "trace_bsb", "trace_account_number", "remitter_name", "withheld_tax",
	}

	copySource := pgx.CopyFromSlice(len(rows), func(i int) ([]interface{}, error) {
		row := rows[i]
		r := row.Record
		return []interface{}{row.FileID, row.Line, row.CheckSum, r.BSB, r.AccountNumber, r.Indicator.String(), int16(r.TransactionCode), r.Amount,
				r.AccountName, r.Reference, r.TraceBSB, r.TraceAccountNumber, r.RemitterName, r.WithheldTax},
			nil
	})

	log.Printf("Bulk loading %d detail records", len(rows))
	_, err = tx.CopyFrom(m.ctx, pgx.Identifier{"aba_detail_records"}, columnNames, copySource)
	if err != nil {
		return fmt.Errorf("unable to copy detail records: %v", err)
	}

	return tx.Commit(m.ctx)
}

func (m *PostgresDBManager) GetFileRecord(fileID int) (*models.FileStatusRecord, error) {
	query := `
	SELECT f.id, f.file_name, f.processed_at, f.status, COALESCE(f.checksum, ''), COALESCE(f.run_id, ''),
		(SELECT COUNT(*) FROM aba_detail_records d WHERE d.file_id = f.id),
		f.errors
	FROM aba_files f
	WHERE f.id = $1;`

	record := &models.FileStatusRecord{}
	var errorsJSON []byte
	err := m.dbpool.QueryRow(m.ctx, query, fileID).Scan(
		&record.ID, &record.FileName, &record.ProcessedAt, &record.Status,
		&record.Checksum, &record.RunID, &record.DetailCount, &errorsJSON,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFileRecordNotFound
		}
		return nil, fmt.Errorf("error querying file record: %w", err)
	}
	record.Errors = errorsJSON

	return record, nil
}
