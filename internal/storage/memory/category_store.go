package memory

import (
	"context"
	"sync"

	"order-analytics/internal/storage"
)

// CategoryStore is an in-memory implementation of storage.CategoryStore.
type CategoryStore struct {
	mu   sync.RWMutex
	data map[string]string // item key -> category
}

// NewCategoryStore creates a new in-memory category store.
func NewCategoryStore() *CategoryStore {
	return &CategoryStore{
		data: make(map[string]string),
	}
}

var _ storage.CategoryStore = (*CategoryStore)(nil)

// Upsert inserts or replaces the category for an item key.
func (s *CategoryStore) Upsert(_ context.Context, itemKey, category string) error {
	if itemKey == "" || category == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[itemKey] = category
	return nil
}

// GetAll retrieves the full mapping.
func (s *CategoryStore) GetAll(_ context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]string, len(s.data))
	for k, v := range s.data {
		result[k] = v
	}
	return result, nil
}
