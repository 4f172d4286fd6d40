// Package aggregate buckets order records into (period, item, market) cells
// and derives ranking and legend rollups from those cells without
// re-scanning the records. Each aggregation is a pure function of its
// inputs; nothing here is persisted or mutated incrementally.
package aggregate

import "order-analytics/internal/domain"

// Dimension sentinels. Records with a missing item or market are mapped to
// the unspecified label, never dropped from totals.
const (
	DefaultUnspecified = "미지정"
	DefaultOthers      = "기타"
)

// PeriodFunc derives a period key from a record's UTC timestamp, typically
// one of calendar.Normalizer's DayKey/WeekKey/MonthKey methods.
type PeriodFunc func(utcMs int64) string

// Options selects and reshapes the dimensions of one aggregation run.
type Options struct {
	// ItemFilter restricts the item dimension; nil admits every item.
	ItemFilter map[string]bool

	// MarketFilter restricts the market dimension; nil admits every market.
	MarketFilter map[string]bool

	// Categories optionally rolls item keys up to coarser category labels
	// before accumulation (the option→product view). Items without an entry
	// map to the unspecified sentinel.
	Categories map[string]string

	// Unspecified overrides the sentinel for missing dimensions.
	Unspecified string
}

// CellKey addresses one aggregation cell. A flat composite key replaces
// nested period→item→market maps.
type CellKey struct {
	Period string
	Item   string
	Market string
}

// Aggregation holds the cells of one run plus the first-seen order of each
// dimension, which anchors ranking tie-breaks and color assignment.
type Aggregation struct {
	cells       map[CellKey]int64
	itemOrder   []string
	marketOrder []string
}

// Aggregate accumulates record amounts into (period, item, market) cells.
// Records without a primary timestamp are excluded from time-bucketed
// aggregation; that exclusion is a documented rule, not an error.
func Aggregate(records []*domain.OrderRecord, periodFn PeriodFunc, opts Options) *Aggregation {
	unspecified := opts.Unspecified
	if unspecified == "" {
		unspecified = DefaultUnspecified
	}

	agg := &Aggregation{cells: make(map[CellKey]int64)}
	seenItem := make(map[string]bool)
	seenMarket := make(map[string]bool)

	for _, r := range records {
		if !r.HasTimestamp() {
			continue
		}

		item := r.ItemKey
		if item == "" {
			item = unspecified
		}
		if opts.Categories != nil {
			if cat, ok := opts.Categories[item]; ok && cat != "" {
				item = cat
			} else if item != unspecified {
				item = unspecified
			}
		}

		market := r.MarketKey
		if market == "" {
			market = unspecified
		}

		if opts.ItemFilter != nil && !opts.ItemFilter[item] {
			continue
		}
		if opts.MarketFilter != nil && !opts.MarketFilter[market] {
			continue
		}

		period := periodFn(r.TimestampMs)
		agg.cells[CellKey{Period: period, Item: item, Market: market}] += r.Amount

		if !seenItem[item] {
			seenItem[item] = true
			agg.itemOrder = append(agg.itemOrder, item)
		}
		if !seenMarket[market] {
			seenMarket[market] = true
			agg.marketOrder = append(agg.marketOrder, market)
		}
	}

	return agg
}

// Cell returns the accumulated amount for one (period, item, market) triple.
func (a *Aggregation) Cell(period, item, market string) int64 {
	return a.cells[CellKey{Period: period, Item: item, Market: market}]
}

// Items returns the item keys in first-seen input order.
func (a *Aggregation) Items() []string {
	return a.itemOrder
}

// Markets returns the market keys in first-seen input order.
func (a *Aggregation) Markets() []string {
	return a.marketOrder
}

// PeriodTotal sums every cell of one period across both dimensions.
func (a *Aggregation) PeriodTotal(period string) int64 {
	var total int64
	for key, amount := range a.cells {
		if key.Period == period {
			total += amount
		}
	}
	return total
}

// SeriesValues projects the cells onto a period axis, producing one value
// per axis entry. An empty item or market matches that whole dimension.
// Periods with no cells yield an explicit zero so downstream interpolation
// never sees a gap.
func (a *Aggregation) SeriesValues(periods []string, item, market string) []int64 {
	sums := make(map[string]int64, len(periods))
	for key, amount := range a.cells {
		if item != "" && key.Item != item {
			continue
		}
		if market != "" && key.Market != market {
			continue
		}
		sums[key.Period] += amount
	}

	values := make([]int64, len(periods))
	for i, p := range periods {
		values[i] = sums[p]
	}
	return values
}
