package postgres

import (
	"context"
	"fmt"

	"order-analytics/internal/storage"
)

// CategoryStore implements storage.CategoryStore using PostgreSQL.
type CategoryStore struct {
	pool *Pool
}

// NewCategoryStore creates a new CategoryStore.
func NewCategoryStore(pool *Pool) *CategoryStore {
	return &CategoryStore{pool: pool}
}

// Compile-time interface check.
var _ storage.CategoryStore = (*CategoryStore)(nil)

// Upsert inserts or replaces the category for an item key.
func (s *CategoryStore) Upsert(ctx context.Context, itemKey, category string) error {
	if itemKey == "" || category == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO item_categories (item_key, category)
		VALUES ($1, $2)
		ON CONFLICT (item_key) DO UPDATE SET category = EXCLUDED.category
	`

	if _, err := s.pool.Exec(ctx, query, itemKey, category); err != nil {
		return fmt.Errorf("upsert category: %w", err)
	}
	return nil
}

// GetAll retrieves the full mapping.
func (s *CategoryStore) GetAll(ctx context.Context) (map[string]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT item_key, category FROM item_categories`)
	if err != nil {
		return nil, fmt.Errorf("get all categories: %w", err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var itemKey, category string
		if err := rows.Scan(&itemKey, &category); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		result[itemKey] = category
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category rows: %w", err)
	}

	return result, nil
}
