package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"order-analytics/internal/domain"
	"order-analytics/internal/storage"
)

// OrderStore implements storage.OrderStore using PostgreSQL.
type OrderStore struct {
	pool *Pool
}

// NewOrderStore creates a new OrderStore.
func NewOrderStore(pool *Pool) *OrderStore {
	return &OrderStore{pool: pool}
}

// Compile-time interface check.
var _ storage.OrderStore = (*OrderStore)(nil)

const insertOrderQuery = `
	INSERT INTO orders (
		id, timestamp_ms, amount, item_key, market_key, status
	) VALUES ($1, NULLIF($2, 0::bigint), $3, $4, $5, $6)
`

// Insert adds a new order. Returns ErrDuplicateKey if the id exists.
func (s *OrderStore) Insert(ctx context.Context, r *domain.OrderRecord) error {
	if r == nil || r.ID == "" {
		return storage.ErrInvalidInput
	}

	_, err := s.pool.Exec(ctx, insertOrderQuery,
		r.ID,
		r.TimestampMs,
		r.Amount,
		r.ItemKey,
		r.MarketKey,
		r.Status,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// InsertBulk adds multiple orders atomically. Fails entire batch on any duplicate.
func (s *OrderStore) InsertBulk(ctx context.Context, records []*domain.OrderRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range records {
		if r == nil || r.ID == "" {
			return storage.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, insertOrderQuery,
			r.ID,
			r.TimestampMs,
			r.Amount,
			r.ItemKey,
			r.MarketKey,
			r.Status,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert order in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByID retrieves an order by its id. Returns ErrNotFound if not exists.
func (s *OrderStore) GetByID(ctx context.Context, id string) (*domain.OrderRecord, error) {
	query := `
		SELECT id, COALESCE(timestamp_ms, 0), amount, item_key, market_key, status,
			(EXTRACT(EPOCH FROM created_at) * 1000)::bigint
		FROM orders
		WHERE id = $1
	`

	var r domain.OrderRecord
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&r.ID,
		&r.TimestampMs,
		&r.Amount,
		&r.ItemKey,
		&r.MarketKey,
		&r.Status,
		&r.CreatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get order by id: %w", err)
	}
	return &r, nil
}

// GetByTimeRange retrieves timestamped orders within [start, end] (inclusive).
func (s *OrderStore) GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.OrderRecord, error) {
	query := `
		SELECT id, COALESCE(timestamp_ms, 0), amount, item_key, market_key, status,
			(EXTRACT(EPOCH FROM created_at) * 1000)::bigint
		FROM orders
		WHERE timestamp_ms >= $1 AND timestamp_ms <= $2
		ORDER BY timestamp_ms ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("get orders by time range: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

// GetAll retrieves every order, untimestamped ones last.
func (s *OrderStore) GetAll(ctx context.Context) ([]*domain.OrderRecord, error) {
	query := `
		SELECT id, COALESCE(timestamp_ms, 0), amount, item_key, market_key, status,
			(EXTRACT(EPOCH FROM created_at) * 1000)::bigint
		FROM orders
		ORDER BY timestamp_ms ASC NULLS LAST, id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all orders: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

// scanOrders scans multiple rows into a slice of OrderRecord.
func scanOrders(rows pgx.Rows) ([]*domain.OrderRecord, error) {
	var records []*domain.OrderRecord

	for rows.Next() {
		var r domain.OrderRecord

		err := rows.Scan(
			&r.ID,
			&r.TimestampMs,
			&r.Amount,
			&r.ItemKey,
			&r.MarketKey,
			&r.Status,
			&r.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}

		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return records, nil
}
