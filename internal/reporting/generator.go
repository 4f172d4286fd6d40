// Package reporting builds human-readable order reports on top of the
// aggregation engine, rendered as Markdown or CSV.
package reporting

import (
	"context"
	"fmt"
	"time"

	"order-analytics/internal/aggregate"
	"order-analytics/internal/calendar"
	"order-analytics/internal/domain"
	"order-analytics/internal/period"
	"order-analytics/internal/storage"
)

// Generator produces reports from stored orders.
type Generator struct {
	orderStore    storage.OrderStore
	categoryStore storage.CategoryStore
	normalizer    calendar.Normalizer
	now           func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(orderStore storage.OrderStore, categoryStore storage.CategoryStore) *Generator {
	return &Generator{
		orderStore:    orderStore,
		categoryStore: categoryStore,
		normalizer:    calendar.Default(),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// WithNormalizer overrides the timezone normalizer.
func (g *Generator) WithNormalizer(n calendar.Normalizer) *Generator {
	g.normalizer = n
	return g
}

// Generate produces a complete report for [start, end] at the given
// granularity. Headline figures and the status breakdown cover the whole
// snapshot; period totals, top items and market totals cover the range.
func (g *Generator) Generate(ctx context.Context, start, end string, granularity domain.Granularity) (*Report, error) {
	if !granularity.Valid() {
		return nil, fmt.Errorf("unsupported granularity %q", granularity)
	}
	startDay, err := period.ParseDay(start)
	if err != nil {
		return nil, err
	}
	endDay, err := period.ParseDay(end)
	if err != nil {
		return nil, err
	}
	if endDay.Before(startDay) {
		return nil, fmt.Errorf("invalid range: %s > %s", start, end)
	}

	records, err := g.orderStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}

	categories, err := g.categoryStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}

	periodFn := g.periodFunc(granularity)
	agg := aggregate.Aggregate(records, periodFn, aggregate.Options{})

	periods := period.Enumerate(startDay, endDay, granularity, period.Options{})
	totals, err := g.periodTotals(records, agg, periods, periodFn)
	if err != nil {
		return nil, err
	}

	// Item ranking rolls options up to categories when a mapping exists.
	itemAgg := agg
	if len(categories) > 0 {
		itemAgg = aggregate.Aggregate(records, periodFn, aggregate.Options{Categories: categories})
	}

	nowMs := g.now().UnixMilli()

	return &Report{
		GeneratedAt:     g.now(),
		RangeStart:      start,
		RangeEnd:        end,
		Granularity:     granularity,
		Summary:         aggregate.Summarize(records, g.normalizer, nowMs),
		PeriodTotals:    totals,
		TopItems:        itemAgg.TopItems(aggregate.TopItemsCount, aggregate.DefaultOthers),
		MarketTotals:    agg.Legend(),
		StatusBreakdown: aggregate.StatusBreakdown(records),
	}, nil
}

func (g *Generator) periodFunc(granularity domain.Granularity) aggregate.PeriodFunc {
	switch granularity {
	case domain.GranularityWeek:
		return g.normalizer.WeekKey
	case domain.GranularityMonth:
		return g.normalizer.MonthKey
	default:
		return g.normalizer.DayKey
	}
}

// periodTotals builds one labeled row per enumerated period, zero-filled.
func (g *Generator) periodTotals(records []*domain.OrderRecord, agg *aggregate.Aggregation, periods []string, periodFn aggregate.PeriodFunc) ([]PeriodTotalRow, error) {
	counts := make(map[string]int, len(periods))
	for _, r := range records {
		if !r.HasTimestamp() {
			continue
		}
		counts[periodFn(r.TimestampMs)]++
	}

	rows := make([]PeriodTotalRow, 0, len(periods))
	for _, key := range periods {
		label, err := calendar.PeriodLabel(key, calendar.Korean)
		if err != nil {
			return nil, err
		}
		rows = append(rows, PeriodTotalRow{
			PeriodKey: key,
			Label:     label,
			Amount:    agg.PeriodTotal(key),
			Count:     counts[key],
		})
	}
	return rows, nil
}
