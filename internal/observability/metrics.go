// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Ingestion metrics
	OrdersIngested  prometheus.Counter
	OrdersRejected  *prometheus.CounterVec
	IngestBatchSize prometheus.Histogram

	// Chart metrics
	ChartBuildsTotal  *prometheus.CounterVec
	ChartBuildErrors  *prometheus.CounterVec
	ChartBuildLatency *prometheus.HistogramVec
	AxisPointsEmitted prometheus.Histogram

	// Aggregation metrics
	RecordsAggregated prometheus.Counter
	SummariesComputed prometheus.Counter
	ReportsGenerated  prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulIngest prometheus.Gauge
	UptimeSeconds        prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "order_analytics"
	}

	return &Metrics{
		// Ingestion metrics
		OrdersIngested: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "orders_ingested_total",
			Help:      "Total number of orders stored",
		}),
		OrdersRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "orders_rejected_total",
			Help:      "Total number of orders rejected by reason",
		}, []string{"reason"}),
		IngestBatchSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "batch_size",
			Help:      "Number of orders per ingest batch",
			Buckets:   []float64{1, 10, 50, 100, 500, 1000, 5000},
		}),

		// Chart metrics
		ChartBuildsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chart",
			Name:      "builds_total",
			Help:      "Total number of chart builds by granularity",
		}, []string{"granularity"}),
		ChartBuildErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chart",
			Name:      "build_errors_total",
			Help:      "Total number of failed chart builds by reason",
		}, []string{"reason"}),
		ChartBuildLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "chart",
			Name:      "build_latency_seconds",
			Help:      "Chart build latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"granularity"}),
		AxisPointsEmitted: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "chart",
			Name:      "axis_points",
			Help:      "Number of axis points per built chart",
			Buckets:   []float64{2, 5, 10, 15, 20, 30},
		}),

		// Aggregation metrics
		RecordsAggregated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aggregate",
			Name:      "records_total",
			Help:      "Total number of order records aggregated",
		}),
		SummariesComputed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aggregate",
			Name:      "summaries_computed_total",
			Help:      "Total number of dashboard summaries computed",
		}),
		ReportsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reporting",
			Name:      "reports_generated_total",
			Help:      "Total number of reports generated",
		}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Health metrics
		LastSuccessfulIngest: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_ingest_timestamp",
			Help:      "Unix timestamp of last successful ingest",
		}),
		UptimeSeconds: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "uptime_seconds_total",
			Help:      "Total uptime in seconds",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordIngest records a stored order batch.
func RecordIngest(count int) {
	DefaultMetrics.OrdersIngested.Add(float64(count))
	DefaultMetrics.IngestBatchSize.Observe(float64(count))
}

// RecordIngestRejected records a rejected ingest by reason.
func RecordIngestRejected(reason string) {
	DefaultMetrics.OrdersRejected.WithLabelValues(reason).Inc()
}

// RecordChartBuild records one chart build.
func RecordChartBuild(granularity string, axisPoints int, seconds float64) {
	DefaultMetrics.ChartBuildsTotal.WithLabelValues(granularity).Inc()
	DefaultMetrics.ChartBuildLatency.WithLabelValues(granularity).Observe(seconds)
	DefaultMetrics.AxisPointsEmitted.Observe(float64(axisPoints))
}

// RecordChartBuildError records a failed chart build.
func RecordChartBuildError(reason string) {
	DefaultMetrics.ChartBuildErrors.WithLabelValues(reason).Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
