package store

import (
	"context"
	"sync"

	"mobilvask/internal/models"
)

// MemoryStore is the in-memory stub used in tests.
type MemoryStore struct {
	mu      sync.Mutex
	records []models.BookingRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(ctx context.Context, record models.BookingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]models.BookingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.BookingRecord(nil), s.records...), nil
}
