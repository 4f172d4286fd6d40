package clickhouse

import (
	"context"
	"fmt"

	"order-analytics/internal/domain"
	"order-analytics/internal/storage"
)

// OrderStore implements storage.OrderStore using ClickHouse.
// MergeTree does not enforce uniqueness, so duplicate ids are rejected by
// an explicit existence check before insert.
type OrderStore struct {
	conn *Conn
}

// NewOrderStore creates a new OrderStore.
func NewOrderStore(conn *Conn) *OrderStore {
	return &OrderStore{conn: conn}
}

// Compile-time interface check.
var _ storage.OrderStore = (*OrderStore)(nil)

// Insert adds a new order. Returns ErrDuplicateKey if the id exists.
func (s *OrderStore) Insert(ctx context.Context, r *domain.OrderRecord) error {
	if r == nil || r.ID == "" {
		return storage.ErrInvalidInput
	}
	return s.InsertBulk(ctx, []*domain.OrderRecord{r})
}

// InsertBulk adds multiple orders. Fails entire batch on any duplicate.
func (s *OrderStore) InsertBulk(ctx context.Context, records []*domain.OrderRecord) error {
	if len(records) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r == nil || r.ID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := seen[r.ID]; exists {
			return storage.ErrDuplicateKey
		}
		seen[r.ID] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, r := range records {
		exists, err := s.exists(ctx, r.ID)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO orders (
			id, timestamp_ms, amount, item_key, market_key, status
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range records {
		err = batch.Append(
			r.ID, uint64(r.TimestampMs), r.Amount, r.ItemKey, r.MarketKey, string(r.Status),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByID retrieves an order by its id. Returns ErrNotFound if not exists.
func (s *OrderStore) GetByID(ctx context.Context, id string) (*domain.OrderRecord, error) {
	query := `
		SELECT id, timestamp_ms, amount, item_key, market_key, status, toUnixTimestamp64Milli(toDateTime64(created_at, 3))
		FROM orders
		WHERE id = ?
		LIMIT 1
	`

	rows, err := s.conn.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("query by id: %w", err)
	}
	defer rows.Close()

	records, err := scanOrders(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, storage.ErrNotFound
	}
	return records[0], nil
}

// GetByTimeRange retrieves timestamped orders within [start, end] (inclusive).
func (s *OrderStore) GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.OrderRecord, error) {
	query := `
		SELECT id, timestamp_ms, amount, item_key, market_key, status, toUnixTimestamp64Milli(toDateTime64(created_at, 3))
		FROM orders
		WHERE timestamp_ms > 0 AND timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC, id ASC
	`

	rows, err := s.conn.Query(ctx, query, uint64(start), uint64(end))
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

// GetAll retrieves every order, untimestamped ones last.
func (s *OrderStore) GetAll(ctx context.Context) ([]*domain.OrderRecord, error) {
	query := `
		SELECT id, timestamp_ms, amount, item_key, market_key, status, toUnixTimestamp64Milli(toDateTime64(created_at, 3))
		FROM orders
		ORDER BY timestamp_ms = 0 ASC, timestamp_ms ASC, id ASC
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query all orders: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

// exists checks if an order with the given id exists.
func (s *OrderStore) exists(ctx context.Context, id string) (bool, error) {
	var count uint64
	err := s.conn.QueryRow(ctx, `SELECT count(*) FROM orders WHERE id = ?`, id).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// chRows is the subset of driver.Rows the scanners need.
type chRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// scanOrders scans multiple rows.
func scanOrders(rows chRows) ([]*domain.OrderRecord, error) {
	var records []*domain.OrderRecord

	for rows.Next() {
		var r domain.OrderRecord
		var timestampMs uint64
		var status string
		var createdAt int64

		err := rows.Scan(&r.ID, &timestampMs, &r.Amount, &r.ItemKey, &r.MarketKey, &status, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}

		r.TimestampMs = int64(timestampMs)
		r.Status = domain.OrderStatus(status)
		r.CreatedAt = createdAt
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return records, nil
}
