package memory

import (
	"context"
	"errors"
	"testing"

	"order-analytics/internal/domain"
	"order-analytics/internal/storage"
)

func TestOrderStore_InsertAndGet(t *testing.T) {
	store := NewOrderStore()
	ctx := context.Background()

	order := &domain.OrderRecord{
		ID:          "ord1",
		TimestampMs: 1738108800000,
		Amount:      12000,
		ItemKey:     "사과 1kg",
		MarketKey:   "쿠팡",
		Status:      domain.StatusConfirmed,
	}

	if err := store.Insert(ctx, order); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	result, err := store.GetByID(ctx, "ord1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if result.Amount != 12000 {
		t.Errorf("Amount mismatch: got %d, want 12000", result.Amount)
	}

	// Mutating the returned copy must not affect the stored record.
	result.Amount = 1
	again, err := store.GetByID(ctx, "ord1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if again.Amount != 12000 {
		t.Errorf("Store returned a shared pointer: got %d", again.Amount)
	}
}

func TestOrderStore_DuplicateKey(t *testing.T) {
	store := NewOrderStore()
	ctx := context.Background()

	order := &domain.OrderRecord{ID: "ord1", TimestampMs: 1000, Amount: 100}

	if err := store.Insert(ctx, order); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.Insert(ctx, order)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestOrderStore_InvalidInput(t *testing.T) {
	store := NewOrderStore()
	ctx := context.Background()

	if err := store.Insert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("nil record: expected ErrInvalidInput, got %v", err)
	}
	if err := store.Insert(ctx, &domain.OrderRecord{}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("empty id: expected ErrInvalidInput, got %v", err)
	}
}

func TestOrderStore_GetByIDNotFound(t *testing.T) {
	store := NewOrderStore()

	_, err := store.GetByID(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestOrderStore_InsertBulkAtomic(t *testing.T) {
	store := NewOrderStore()
	ctx := context.Background()

	if err := store.Insert(ctx, &domain.OrderRecord{ID: "ord1", TimestampMs: 1000}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	batch := []*domain.OrderRecord{
		{ID: "ord2", TimestampMs: 2000},
		{ID: "ord1", TimestampMs: 3000}, // duplicate of existing
	}
	if err := store.InsertBulk(ctx, batch); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("Expected ErrDuplicateKey, got %v", err)
	}

	// ord2 must not have been inserted.
	if _, err := store.GetByID(ctx, "ord2"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Batch was not atomic: got %v", err)
	}
}

func TestOrderStore_InsertBulkIntraBatchDuplicate(t *testing.T) {
	store := NewOrderStore()

	batch := []*domain.OrderRecord{
		{ID: "ord1", TimestampMs: 1000},
		{ID: "ord1", TimestampMs: 2000},
	}
	err := store.InsertBulk(context.Background(), batch)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestOrderStore_GetByTimeRange(t *testing.T) {
	store := NewOrderStore()
	ctx := context.Background()

	records := []*domain.OrderRecord{
		{ID: "ord3", TimestampMs: 3000, Amount: 3},
		{ID: "ord1", TimestampMs: 1000, Amount: 1},
		{ID: "ord2", TimestampMs: 2000, Amount: 2},
		{ID: "ord4", TimestampMs: 0, Amount: 4}, // no timestamp
	}
	if err := store.InsertBulk(ctx, records); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	result, err := store.GetByTimeRange(ctx, 1000, 2000)
	if err != nil {
		t.Fatalf("GetByTimeRange failed: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("Expected 2 orders, got %d", len(result))
	}
	if result[0].ID != "ord1" || result[1].ID != "ord2" {
		t.Errorf("Wrong order: %s, %s", result[0].ID, result[1].ID)
	}
}

func TestOrderStore_GetAllOrdering(t *testing.T) {
	store := NewOrderStore()
	ctx := context.Background()

	records := []*domain.OrderRecord{
		{ID: "ord9", TimestampMs: 0}, // untimestamped sorts last
		{ID: "ord2", TimestampMs: 2000},
		{ID: "ord1", TimestampMs: 1000},
	}
	if err := store.InsertBulk(ctx, records); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	result, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(result) != 3 {
		t.Fatalf("Expected 3 orders, got %d", len(result))
	}
	if result[0].ID != "ord1" || result[1].ID != "ord2" || result[2].ID != "ord9" {
		t.Errorf("Wrong order: %s, %s, %s", result[0].ID, result[1].ID, result[2].ID)
	}
}
