// Package main provides the order importer: it loads orders from a CSV
// export and optional item→category mappings into the configured store.
//
// Order CSV columns: id, ordered_at, amount, item, market, status.
// ordered_at accepts RFC3339, "2006-01-02 15:04:05" or an empty string
// for orders whose source row has no date.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"order-analytics/internal/domain"
	"order-analytics/internal/observability"
	"order-analytics/internal/storage"
	chstore "order-analytics/internal/storage/clickhouse"
	"order-analytics/internal/storage/migrations"
	pgstore "order-analytics/internal/storage/postgres"
)

const batchSize = 500

func main() {
	backend := flag.String("storage", envOr("STORAGE_BACKEND", "postgres"), "Storage backend: postgres or clickhouse")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	ordersFile := flag.String("orders", "", "Path to the orders CSV file")
	categoriesFile := flag.String("categories", "", "Optional path to an item,category CSV file")
	dryRun := flag.Bool("dry-run", false, "Parse and validate without writing")

	flag.Parse()

	logger := log.New(os.Stdout, "[ingest] ", log.LstdFlags|log.Lshortfile)

	if *ordersFile == "" {
		logger.Fatal("--orders is required")
	}

	ctx := context.Background()

	records, err := readOrders(*ordersFile)
	if err != nil {
		logger.Fatalf("Failed to read orders: %v", err)
	}
	logger.Printf("Parsed %d orders from %s", len(records), *ordersFile)

	var categories map[string]string
	if *categoriesFile != "" {
		categories, err = readCategories(*categoriesFile)
		if err != nil {
			logger.Fatalf("Failed to read categories: %v", err)
		}
		logger.Printf("Parsed %d category mappings from %s", len(categories), *categoriesFile)
	}

	if *dryRun {
		logger.Println("Dry run, nothing written")
		return
	}

	orderStore, categoryStore, cleanup, err := createStores(ctx, *backend, *postgresDSN, *clickhouseDSN)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	stored := 0
	for offset := 0; offset < len(records); offset += batchSize {
		end := offset + batchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[offset:end]

		if err := orderStore.InsertBulk(ctx, batch); err != nil {
			logger.Fatalf("Insert batch at offset %d: %v", offset, err)
		}
		stored += len(batch)
		observability.RecordIngest(len(batch))
	}
	logger.Printf("Stored %d orders", stored)

	if categoryStore != nil {
		for item, category := range categories {
			if err := categoryStore.Upsert(ctx, item, category); err != nil {
				logger.Fatalf("Upsert category %q: %v", item, err)
			}
		}
		if len(categories) > 0 {
			logger.Printf("Stored %d category mappings", len(categories))
		}
	}
}

// createStores wires the selected backend, applying migrations first.
// ClickHouse has no category table; mappings are skipped there.
func createStores(ctx context.Context, backend, postgresDSN, clickhouseDSN string) (storage.OrderStore, storage.CategoryStore, func(), error) {
	switch backend {
	case "postgres":
		if postgresDSN == "" {
			return nil, nil, nil, fmt.Errorf("--postgres-dsn is required with --storage=postgres")
		}
		pool, err := pgstore.NewPool(ctx, postgresDSN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("migrate postgres: %w", err)
		}
		return pgstore.NewOrderStore(pool), pgstore.NewCategoryStore(pool), pool.Close, nil

	case "clickhouse":
		if clickhouseDSN == "" {
			return nil, nil, nil, fmt.Errorf("--clickhouse-dsn is required with --storage=clickhouse")
		}
		conn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("migrate clickhouse: %w", err)
		}
		return chstore.NewOrderStore(conn), nil, func() { conn.Close() }, nil
	}

	return nil, nil, nil, fmt.Errorf("unknown storage backend %q", backend)
}

// readOrders parses the order CSV. A header row is detected and skipped.
func readOrders(path string) ([]*domain.OrderRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 6

	var records []*domain.OrderRecord
	line := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line++

		if line == 1 && strings.EqualFold(row[0], "id") {
			continue
		}

		ts, err := parseOrderTime(row[1])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		amount, err := strconv.ParseInt(strings.TrimSpace(row[2]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: parse amount %q: %w", line, row[2], err)
		}

		status := domain.OrderStatus(strings.TrimSpace(row[5]))
		if status == "" {
			status = domain.StatusRegistered
		}

		records = append(records, &domain.OrderRecord{
			ID:          strings.TrimSpace(row[0]),
			TimestampMs: ts,
			Amount:      amount,
			ItemKey:     strings.TrimSpace(row[3]),
			MarketKey:   strings.TrimSpace(row[4]),
			Status:      status,
		})
	}

	return records, nil
}

// parseOrderTime accepts RFC3339 or a plain datetime, both taken as UTC.
// Empty means the order has no date.
func parseOrderTime(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UnixMilli(), nil
		}
	}
	return 0, fmt.Errorf("parse order time %q", value)
}

// readCategories parses item,category rows. A header row is detected and skipped.
func readCategories(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 2

	categories := make(map[string]string)
	line := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line++

		if line == 1 && strings.EqualFold(row[0], "item") {
			continue
		}

		item := strings.TrimSpace(row[0])
		category := strings.TrimSpace(row[1])
		if item == "" || category == "" {
			return nil, fmt.Errorf("row %d: empty item or category", line)
		}
		categories[item] = category
	}

	return categories, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
