package reporting

import (
	"time"

	"order-analytics/internal/aggregate"
	"order-analytics/internal/domain"
)

// Report is the order analytics report over one date range.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	RangeStart  string // YYYY-MM-DD inclusive
	RangeEnd    string // YYYY-MM-DD inclusive
	Granularity domain.Granularity

	// Headline figures relative to GeneratedAt
	Summary aggregate.Summary

	// Per-period revenue over the range
	PeriodTotals []PeriodTotalRow

	// Top items with the others bucket, category-rolled when a mapping exists
	TopItems []aggregate.RankedItem

	// Per-market totals, ranked descending
	MarketTotals []aggregate.LegendEntry

	// Order counts per status across the whole snapshot
	StatusBreakdown []aggregate.StatusCount
}

// PeriodTotalRow is one period of the revenue table.
type PeriodTotalRow struct {
	PeriodKey string
	Label     string
	Amount    int64
	Count     int
}
