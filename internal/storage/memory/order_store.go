// Package memory holds in-memory store implementations used by tests and
// the single-process server mode.
package memory

import (
	"context"
	"sort"
	"sync"

	"order-analytics/internal/domain"
	"order-analytics/internal/storage"
)

// OrderStore is an in-memory implementation of storage.OrderStore.
type OrderStore struct {
	mu   sync.RWMutex
	data map[string]*domain.OrderRecord // keyed by order id
}

// NewOrderStore creates a new in-memory order store.
func NewOrderStore() *OrderStore {
	return &OrderStore{
		data: make(map[string]*domain.OrderRecord),
	}
}

var _ storage.OrderStore = (*OrderStore)(nil)

// Insert adds a new order. Returns ErrDuplicateKey if the id exists.
func (s *OrderStore) Insert(_ context.Context, r *domain.OrderRecord) error {
	if r == nil || r.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.ID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *r
	s.data[r.ID] = &copy
	return nil
}

// InsertBulk adds multiple orders atomically. Fails entire batch on any duplicate.
func (s *OrderStore) InsertBulk(_ context.Context, records []*domain.OrderRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// First pass: check existing and intra-batch duplicates.
	batchIDs := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r == nil || r.ID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[r.ID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchIDs[r.ID]; exists {
			return storage.ErrDuplicateKey
		}
		batchIDs[r.ID] = struct{}{}
	}

	// Second pass: insert all.
	for _, r := range records {
		copy := *r
		s.data[r.ID] = &copy
	}

	return nil
}

// GetByID retrieves an order by its id. Returns ErrNotFound if not exists.
func (s *OrderStore) GetByID(_ context.Context, id string) (*domain.OrderRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[id]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *r
	return &copy, nil
}

// GetByTimeRange retrieves timestamped orders within [start, end] (inclusive).
func (s *OrderStore) GetByTimeRange(_ context.Context, start, end int64) ([]*domain.OrderRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.OrderRecord
	for _, r := range s.data {
		if r.HasTimestamp() && r.TimestampMs >= start && r.TimestampMs <= end {
			copy := *r
			result = append(result, &copy)
		}
	}

	sortOrders(result)
	return result, nil
}

// GetAll retrieves every order, including ones without a timestamp.
func (s *OrderStore) GetAll(_ context.Context) ([]*domain.OrderRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.OrderRecord, 0, len(s.data))
	for _, r := range s.data {
		copy := *r
		result = append(result, &copy)
	}

	sortOrders(result)
	return result, nil
}

// sortOrders orders by timestamp ASC; untimestamped orders (0) would sort
// first, so they are pushed after every timestamped one. Ties break by id.
func sortOrders(records []*domain.OrderRecord) {
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.HasTimestamp() != b.HasTimestamp() {
			return a.HasTimestamp()
		}
		if a.TimestampMs != b.TimestampMs {
			return a.TimestampMs < b.TimestampMs
		}
		return a.ID < b.ID
	})
}
