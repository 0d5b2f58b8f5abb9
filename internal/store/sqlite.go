package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"mobilvask/internal/models"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"
)

// SQLiteStore is the durable backend for the booking log. Rows are only
// ever inserted; a retried submission creates a new row.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *zerolog.Logger
}

func NewSQLiteStore(path string, logger *zerolog.Logger) (*SQLiteStore, error) {
	// Создаем директорию для БД, если её нет
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Info().Str("path", path).Msg("booking store initialized")
	return &SQLiteStore{db: db, path: path, logger: logger}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		// Таблица заявок
		`CREATE TABLE IF NOT EXISTS bookings (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            attempt_id TEXT NOT NULL,
            reference TEXT NOT NULL,
            name TEXT NOT NULL,
            email TEXT NOT NULL,
            phone TEXT NOT NULL,
            service TEXT NOT NULL,
            message TEXT,
            status TEXT NOT NULL DEFAULT 'pending',
            error TEXT,
            created_at DATETIME NOT NULL
        )`,

		`CREATE INDEX IF NOT EXISTS idx_bookings_reference ON bookings(reference)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_attempt_id ON bookings(attempt_id)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}

func (s *SQLiteStore) Append(ctx context.Context, record models.BookingRecord) error {
	query := `
        INSERT INTO bookings (attempt_id, reference, name, email, phone, service, message, status, error, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `

	_, err := s.db.ExecContext(ctx, query,
		record.AttemptID,
		record.Reference,
		record.Name,
		record.Email,
		record.Phone,
		record.Service,
		record.Message,
		record.Status,
		record.Error,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append booking record: %w", err)
	}

	s.logger.Debug().Str("reference", record.Reference).Str("status", record.Status).Msg("booking saved to sqlite store")
	return nil
}

// List returns all records in insertion order. Used by the export tool.
func (s *SQLiteStore) List(ctx context.Context) ([]models.BookingRecord, error) {
	query := `
        SELECT attempt_id, reference, name, email, phone, service, message, status, error, created_at
        FROM bookings ORDER BY id
    `

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.BookingRecord
	for rows.Next() {
		var r models.BookingRecord
		var message, errText sql.NullString
		err := rows.Scan(
			&r.AttemptID,
			&r.Reference,
			&r.Name,
			&r.Email,
			&r.Phone,
			&r.Service,
			&message,
			&r.Status,
			&errText,
			&r.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		r.Message = message.String
		r.Error = errText.String
		records = append(records, r)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// Path returns the database file location.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
