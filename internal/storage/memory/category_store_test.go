package memory

import (
	"context"
	"errors"
	"testing"

	"order-analytics/internal/storage"
)

func TestCategoryStore_UpsertAndGetAll(t *testing.T) {
	store := NewCategoryStore()
	ctx := context.Background()

	if err := store.Upsert(ctx, "사과 1kg", "사과"); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := store.Upsert(ctx, "사과 3kg", "사과"); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected 2 mappings, got %d", len(all))
	}
	if all["사과 1kg"] != "사과" {
		t.Errorf("Wrong category: %q", all["사과 1kg"])
	}
}

func TestCategoryStore_UpsertReplaces(t *testing.T) {
	store := NewCategoryStore()
	ctx := context.Background()

	if err := store.Upsert(ctx, "사과 1kg", "과일"); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := store.Upsert(ctx, "사과 1kg", "사과"); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if all["사과 1kg"] != "사과" {
		t.Errorf("Upsert did not replace: %q", all["사과 1kg"])
	}
}

func TestCategoryStore_InvalidInput(t *testing.T) {
	store := NewCategoryStore()
	ctx := context.Background()

	if err := store.Upsert(ctx, "", "사과"); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("empty key: expected ErrInvalidInput, got %v", err)
	}
	if err := store.Upsert(ctx, "사과 1kg", ""); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("empty category: expected ErrInvalidInput, got %v", err)
	}
}

func TestCategoryStore_GetAllReturnsCopy(t *testing.T) {
	store := NewCategoryStore()
	ctx := context.Background()

	if err := store.Upsert(ctx, "사과 1kg", "사과"); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	all, _ := store.GetAll(ctx)
	all["사과 1kg"] = "tampered"

	again, _ := store.GetAll(ctx)
	if again["사과 1kg"] != "사과" {
		t.Errorf("GetAll returned the internal map")
	}
}
