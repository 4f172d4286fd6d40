package storage

import (
	"context"

	"order-analytics/internal/domain"
)

// OrderStore provides access to orders storage.
type OrderStore interface {
	// Insert adds a new order. Returns ErrDuplicateKey if the id exists.
	Insert(ctx context.Context, r *domain.OrderRecord) error

	// InsertBulk adds multiple orders atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, records []*domain.OrderRecord) error

	// GetByID retrieves an order by its id. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id string) (*domain.OrderRecord, error)

	// GetByTimeRange retrieves timestamped orders within [start, end]
	// (inclusive, UTC milliseconds), ordered by timestamp ASC. Orders
	// without a timestamp are never returned here.
	GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.OrderRecord, error)

	// GetAll retrieves every order, including ones without a timestamp,
	// ordered by timestamp ASC with untimestamped orders last.
	GetAll(ctx context.Context) ([]*domain.OrderRecord, error)
}

// CategoryStore provides access to the option→category mapping used to
// roll item keys up to product categories.
type CategoryStore interface {
	// Upsert inserts or replaces the category for an item key.
	Upsert(ctx context.Context, itemKey, category string) error

	// GetAll retrieves the full mapping.
	GetAll(ctx context.Context) (map[string]string, error)
}
