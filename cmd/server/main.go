// Package main provides the analytics HTTP server:
// - Order ingest: POST /api/orders, POST /api/categories
// - Chart geometry: GET /api/chart
// - Dashboard rollups: GET /api/summary, /api/top-items, /api/calendar
// - Operations: /health, /status; Prometheus metrics on a separate port
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"order-analytics/internal/aggregate"
	"order-analytics/internal/calendar"
	"order-analytics/internal/chart"
	"order-analytics/internal/domain"
	"order-analytics/internal/observability"
	"order-analytics/internal/storage"
	chstore "order-analytics/internal/storage/clickhouse"
	"order-analytics/internal/storage/memory"
	"order-analytics/internal/storage/migrations"
	pgstore "order-analytics/internal/storage/postgres"
)

// Server holds the API components.
type Server struct {
	orderStore    storage.OrderStore
	categoryStore storage.CategoryStore
	builder       *chart.Builder
	normalizer    calendar.Normalizer
	holidays      map[string]bool
	displayCap    int
	logger        *log.Logger

	// State
	mu         sync.Mutex
	startedAt  time.Time
	lastIngest time.Time
	ingested   int
	charts     int
}

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	backend := flag.String("storage", envOr("STORAGE_BACKEND", "postgres"), "Storage backend: memory, postgres or clickhouse")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	listenAddr := flag.String("listen", envOr("LISTEN_ADDR", ":8080"), "HTTP listen address")
	metricsAddr := flag.String("metrics-addr", envOr("METRICS_ADDR", ":9090"), "Prometheus metrics HTTP address")
	offsetMinutes := flag.Int("utc-offset-minutes", calendar.KSTOffsetMinutes, "Local timezone offset from UTC in minutes")
	displayCap := flag.Int("display-cap", 0, "Maximum chart axis points (0 = default)")
	holidaysFile := flag.String("holidays-file", os.Getenv("HOLIDAYS_FILE"), "File with one YYYY-MM-DD holiday per line")

	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	if *backend == "postgres" && *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required with --storage=postgres")
	}
	if *backend == "clickhouse" && *clickhouseDSN == "" {
		logger.Fatal("--clickhouse-dsn is required with --storage=clickhouse")
	}

	holidays, err := loadHolidays(*holidaysFile)
	if err != nil {
		logger.Fatalf("Failed to load holidays: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	orderStore, categoryStore, cleanup, err := createStores(ctx, *backend, *postgresDSN, *clickhouseDSN)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	normalizer := calendar.WithOffsetMinutes(*offsetMinutes)
	server := &Server{
		orderStore:    orderStore,
		categoryStore: categoryStore,
		builder:       chart.NewBuilder(normalizer),
		normalizer:    normalizer,
		holidays:      holidays,
		displayCap:    *displayCap,
		logger:        logger,
		startedAt:     time.Now(),
	}

	httpServer := &http.Server{
		Addr:    *listenAddr,
		Handler: server.routes(),
	}

	go server.startMetricsServer(*metricsAddr)

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("Shutdown error: %v", err)
		}
		cancel()
	}()

	logger.Printf("Listening on %s (storage: %s)", *listenAddr, *backend)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("HTTP server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// createStores wires the selected backend, applying migrations first.
// ClickHouse has no category table, so that backend keeps categories in memory.
func createStores(ctx context.Context, backend, postgresDSN, clickhouseDSN string) (storage.OrderStore, storage.CategoryStore, func(), error) {
	switch backend {
	case "memory":
		return memory.NewOrderStore(), memory.NewCategoryStore(), func() {}, nil

	case "postgres":
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
		conn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("migrate clickhouse: %w", err)
		}
		return chstore.NewOrderStore(conn), memory.NewCategoryStore(), func() { conn.Close() }, nil
	}

	return nil, nil, nil, fmt.Errorf("unknown storage backend %q", backend)
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/status", s.handleStatus)

	mux.HandleFunc("/api/orders", s.handleOrders)
	mux.HandleFunc("/api/categories", s.handleCategories)
	mux.HandleFunc("/api/chart", s.handleChart)
	mux.HandleFunc("/api/summary", s.handleSummary)
	mux.HandleFunc("/api/top-items", s.handleTopItems)
	mux.HandleFunc("/api/calendar", s.handleCalendar)

	return mux
}

// startMetricsServer serves Prometheus metrics on its own listener so
// scrapes stay off the API port.
func (s *Server) startMetricsServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())

	s.logger.Printf("Metrics listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Printf("Metrics server error: %v", err)
	}
}

// orderPayload is the ingest wire format for one order.
type orderPayload struct {
	ID          string `json:"id"`
	TimestampMs int64  `json:"timestampMs"`
	Amount      int64  `json:"amount"`
	Item        string `json:"item"`
	Market      string `json:"market"`
	Status      string `json:"status"`
}

// handleOrders ingests a JSON array of orders.
func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var payload []orderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		observability.RecordIngestRejected("bad_json")
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	records := make([]*domain.OrderRecord, 0, len(payload))
	for _, p := range payload {
		status := domain.OrderStatus(p.Status)
		if p.Status == "" {
			status = domain.StatusRegistered
		}
		records = append(records, &domain.OrderRecord{
			ID:          p.ID,
			TimestampMs: p.TimestampMs,
			Amount:      p.Amount,
			ItemKey:     p.Item,
			MarketKey:   p.Market,
			Status:      status,
		})
	}

	if err := s.orderStore.InsertBulk(r.Context(), records); err != nil {
		switch {
		case errors.Is(err, storage.ErrDuplicateKey):
			observability.RecordIngestRejected("duplicate")
			http.Error(w, "duplicate order id", http.StatusConflict)
		case errors.Is(err, storage.ErrInvalidInput):
			observability.RecordIngestRejected("invalid")
			http.Error(w, "invalid order", http.StatusBadRequest)
		default:
			s.logger.Printf("Insert error: %v", err)
			http.Error(w, "storage error", http.StatusInternalServerError)
		}
		return
	}

	observability.RecordIngest(len(records))
	observability.DefaultMetrics.LastSuccessfulIngest.SetToCurrentTime()

	s.mu.Lock()
	s.ingested += len(records)
	s.lastIngest = time.Now()
	s.mu.Unlock()

	writeJSON(w, map[string]int{"stored": len(records)})
}

// handleCategories upserts item→category mappings from a JSON object.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		all, err := s.categoryStore.GetAll(r.Context())
		if err != nil {
			s.logger.Printf("Category load error: %v", err)
			http.Error(w, "storage error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, all)

	case http.MethodPost:
		var mapping map[string]string
		if err := json.NewDecoder(r.Body).Decode(&mapping); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		for item, category := range mapping {
			if err := s.categoryStore.Upsert(r.Context(), item, category); err != nil {
				if errors.Is(err, storage.ErrInvalidInput) {
					http.Error(w, fmt.Sprintf("invalid mapping %q", item), http.StatusBadRequest)
					return
				}
				s.logger.Printf("Category upsert error: %v", err)
				http.Error(w, "storage error", http.StatusInternalServerError)
				return
			}
		}
		writeJSON(w, map[string]int{"stored": len(mapping)})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleChart builds chart geometry for a date range.
// Query: start, end (YYYY-MM-DD), granularity (day|week|month),
// mode (per-market|total), items, markets (comma-separated filters).
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	granularity := domain.Granularity(valueOr(q.Get("granularity"), string(domain.GranularityDay)))
	mode := domain.MarketMode(valueOr(q.Get("mode"), string(domain.MarketModePerMarket)))

	req := chart.Request{
		Start:        q.Get("start"),
		End:          q.Get("end"),
		Granularity:  granularity,
		MarketMode:   mode,
		ItemFilter:   parseFilter(q.Get("items")),
		MarketFilter: parseFilter(q.Get("markets")),
		DisplayCap:   s.displayCap,
		Holidays:     s.holidays,
	}

	records, err := s.orderStore.GetAll(r.Context())
	if err != nil {
		s.logger.Printf("Order load error: %v", err)
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}

	start := time.Now()
	geo, err := s.builder.Build(records, req)
	if err != nil {
		switch {
		case errors.Is(err, chart.ErrInvalidGranularity):
			observability.RecordChartBuildError("invalid_granularity")
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, chart.ErrInvalidMarketMode):
			observability.RecordChartBuildError("invalid_mode")
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			observability.RecordChartBuildError("internal")
			s.logger.Printf("Chart build error: %v", err)
			http.Error(w, "chart build failed", http.StatusInternalServerError)
		}
		return
	}

	observability.RecordChartBuild(string(granularity), len(geo.Axis), time.Since(start).Seconds())

	s.mu.Lock()
	s.charts++
	s.mu.Unlock()

	writeJSON(w, geo)
}

// handleSummary returns headline figures plus the status breakdown.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	records, err := s.orderStore.GetAll(r.Context())
	if err != nil {
		s.logger.Printf("Order load error: %v", err)
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}

	summary := aggregate.Summarize(records, s.normalizer, time.Now().UnixMilli())
	observability.DefaultMetrics.SummariesComputed.Inc()

	writeJSON(w, map[string]any{
		"summary":  summary,
		"statuses": aggregate.StatusBreakdown(records),
	})
}

// handleTopItems returns the ranked item table with the others bucket,
// rolled up to categories when mappings exist.
func (s *Server) handleTopItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	records, err := s.orderStore.GetAll(r.Context())
	if err != nil {
		s.logger.Printf("Order load error: %v", err)
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}

	categories, err := s.categoryStore.GetAll(r.Context())
	if err != nil {
		s.logger.Printf("Category load error: %v", err)
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}

	agg := aggregate.Aggregate(records, s.normalizer.MonthKey, aggregate.Options{Categories: categories})
	observability.DefaultMetrics.RecordsAggregated.Add(float64(len(records)))

	writeJSON(w, agg.TopItems(aggregate.TopItemsCount, aggregate.DefaultOthers))
}

// handleCalendar returns per-day order cells for one local month.
// Query: year, month (1-12).
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		http.Error(w, "year is required", http.StatusBadRequest)
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		http.Error(w, "month must be 1-12", http.StatusBadRequest)
		return
	}

	records, err := s.orderStore.GetAll(r.Context())
	if err != nil {
		s.logger.Printf("Order load error: %v", err)
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}

	cells := aggregate.CalendarMonth(records, s.normalizer, year, time.Month(month))

	// Bar heights for the month view, scaled against the busiest day.
	days := make([]int, 0, len(cells))
	for d := range cells {
		days = append(days, d)
	}
	sort.Ints(days)
	amounts := make([]int64, len(days))
	for i, d := range days {
		amounts[i] = cells[d].Amount
	}
	heights := make(map[int]float64, len(days))
	for i, h := range chart.NormalizeHeights(amounts) {
		heights[days[i]] = h
	}

	writeJSON(w, calendarResponse{Cells: cells, Heights: heights})
}

// calendarResponse is the JSON response for /api/calendar.
type calendarResponse struct {
	Cells   map[int]aggregate.DayCell `json:"cells"`
	Heights map[int]float64           `json:"heights"`
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status         string    `json:"status"`
	Uptime         string    `json:"uptime"`
	StartedAt      time.Time `json:"started_at"`
	LastIngest     time.Time `json:"last_ingest,omitempty"`
	OrdersIngested int       `json:"orders_ingested"`
	ChartsBuilt    int       `json:"charts_built"`
}

// handleStatus returns server status as JSON.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	writeJSON(w, StatusResponse{
		Status:         "running",
		Uptime:         time.Since(s.startedAt).String(),
		StartedAt:      s.startedAt,
		LastIngest:     s.lastIngest,
		OrdersIngested: s.ingested,
		ChartsBuilt:    s.charts,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// parseFilter turns a comma-separated list into a set; empty means no filter.
func parseFilter(value string) map[string]bool {
	if value == "" {
		return nil
	}
	filter := make(map[string]bool)
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			filter[item] = true
		}
	}
	if len(filter) == 0 {
		return nil
	}
	return filter
}

// loadHolidays reads one YYYY-MM-DD per line; blank lines and # comments skipped.
func loadHolidays(path string) (map[string]bool, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	holidays := make(map[string]bool)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, err := time.Parse("2006-01-02", line); err != nil {
			return nil, fmt.Errorf("invalid holiday %q: %w", line, err)
		}
		holidays[line] = true
	}
	return holidays, nil
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
