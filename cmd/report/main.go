// Package main generates the order analytics report for a date range and
// writes it as Markdown plus a per-period CSV.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"order-analytics/internal/calendar"
	"order-analytics/internal/domain"
	"order-analytics/internal/observability"
	"order-analytics/internal/reporting"
	"order-analytics/internal/storage"
	chstore "order-analytics/internal/storage/clickhouse"
	"order-analytics/internal/storage/migrations"
	pgstore "order-analytics/internal/storage/postgres"
)

func main() {
	backend := flag.String("storage", envOr("STORAGE_BACKEND", "postgres"), "Storage backend: postgres or clickhouse")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	start := flag.String("start", "", "Range start (YYYY-MM-DD, inclusive)")
	end := flag.String("end", "", "Range end (YYYY-MM-DD, inclusive)")
	granularity := flag.String("granularity", "day", "Aggregation granularity: day, week or month")
	offsetMinutes := flag.Int("utc-offset-minutes", calendar.KSTOffsetMinutes, "Local timezone offset from UTC in minutes")
	outputDir := flag.String("output-dir", "output", "Output directory for report files")

	flag.Parse()

	logger := log.New(os.Stdout, "[report] ", log.LstdFlags|log.Lshortfile)

	if *start == "" || *end == "" {
		logger.Fatal("--start and --end are required")
	}

	ctx := context.Background()

	orderStore, categoryStore, cleanup, err := createStores(ctx, *backend, *postgresDSN, *clickhouseDSN)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	generator := reporting.NewGenerator(orderStore, categoryStore).
		WithNormalizer(calendar.WithOffsetMinutes(*offsetMinutes))

	began := time.Now()
	report, err := generator.Generate(ctx, *start, *end, domain.Granularity(*granularity))
	if err != nil {
		logger.Fatalf("Report generation failed: %v", err)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		logger.Fatalf("Failed to create output directory: %v", err)
	}

	mdPath := filepath.Join(*outputDir, "REPORT.md")
	if err := os.WriteFile(mdPath, []byte(reporting.RenderMarkdown(report)), 0644); err != nil {
		logger.Fatalf("Failed to write %s: %v", mdPath, err)
	}

	csvPath := filepath.Join(*outputDir, "period_totals.csv")
	if err := os.WriteFile(csvPath, []byte(reporting.RenderCSV(report.PeriodTotals)), 0644); err != nil {
		logger.Fatalf("Failed to write %s: %v", csvPath, err)
	}

	observability.DefaultMetrics.ReportsGenerated.Inc()
	logger.Printf("Report generated in %v: %s, %s", time.Since(began), mdPath, csvPath)
}

// createStores wires the selected backend. Reports only read, so migrations
// are still applied to make first runs against a fresh database work.
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
		return chstore.NewOrderStore(conn), emptyCategoryStore{}, func() { conn.Close() }, nil
	}

	return nil, nil, nil, fmt.Errorf("unknown storage backend %q", backend)
}

// emptyCategoryStore satisfies the generator when the backend has no
// category table; items then rank without rollup.
type emptyCategoryStore struct{}

func (emptyCategoryStore) Upsert(context.Context, string, string) error {
	return storage.ErrInvalidInput
}

func (emptyCategoryStore) GetAll(context.Context) (map[string]string, error) {
	return nil, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
