package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"mobilvask/internal/models"

	"github.com/rs/zerolog"
)

// FileStore keeps the booking list as one JSON document under a fixed
// key name. Each append reads the whole list, appends and writes it back
// in full. Not transactional; a crash between read and write loses the
// update, which the contract accepts as best-effort.
type FileStore struct {
	path   string
	mu     sync.Mutex
	logger *zerolog.Logger
}

// NewFileStore roots the store at dir, using key as the file name.
func NewFileStore(dir, key string, logger *zerolog.Logger) (*FileStore, error) {
	if key == "" {
		key = models.StorageKey
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &FileStore{
		path:   filepath.Join(dir, key+".json"),
		logger: logger,
	}, nil
}

func (s *FileStore) Append(ctx context.Context, record models.BookingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.readAll()
	records = append(records, record)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode booking list: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write booking list: %w", err)
	}

	s.logger.Debug().Str("reference", record.Reference).Str("status", record.Status).Msg("booking saved to file store")
	return nil
}

// List returns all stored records. Used by the export tool, not by the
// submission flow.
func (s *FileStore) List(ctx context.Context) ([]models.BookingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAll(), nil
}

// readAll treats a missing or unparseable file as an empty list.
func (s *FileStore) readAll() []models.BookingRecord {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}

	var records []models.BookingRecord
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("booking list unparseable, starting fresh")
		return nil
	}
	return records
}

// Path returns the backing file location.
func (s *FileStore) Path() string {
	return s.path
}
