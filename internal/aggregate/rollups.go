package aggregate

import "sort"

// Palette assigns market and item colors in first-observed order.
// Taken from the dashboard's fixed chart palette.
var Palette = []string{
	"#3b82f6", "#8b5cf6", "#ec4899", "#f59e0b", "#10b981",
	"#06b6d4", "#6366f1", "#f97316", "#14b8a6", "#a855f7",
}

// Colors outside the ranked palette.
const (
	ColorOthers  = "#9ca3af" // synthetic others bucket
	ColorNeutral = "#93c5fd" // collapsed market-total series
)

// TopItemsCount is how many named items a ranking shows before the rest
// collapse into the others bucket.
const TopItemsCount = 10

// Total is one entry of a single-dimension rollup.
type Total struct {
	Key    string
	Amount int64
}

// RankedItem is one row of a top-N ranking with its share of the total.
type RankedItem struct {
	Name    string
	Amount  int64
	Percent float64
}

// LegendEntry pairs a market with its stable color, ordered for display.
type LegendEntry struct {
	Name   string
	Amount int64
	Color  string
}

// ItemTotals sums each item across all periods and markets, sorted by
// amount descending. Ties keep first-seen input order.
func (a *Aggregation) ItemTotals() []Total {
	return a.dimensionTotals(a.itemOrder, func(key CellKey) string { return key.Item })
}

// MarketTotals sums each market across all periods and items, sorted by
// amount descending. Ties keep first-seen input order.
func (a *Aggregation) MarketTotals() []Total {
	return a.dimensionTotals(a.marketOrder, func(key CellKey) string { return key.Market })
}

func (a *Aggregation) dimensionTotals(order []string, dim func(CellKey) string) []Total {
	sums := make(map[string]int64, len(order))
	for key, amount := range a.cells {
		sums[dim(key)] += amount
	}

	totals := make([]Total, 0, len(order))
	for _, name := range order {
		totals = append(totals, Total{Key: name, Amount: sums[name]})
	}

	// Stable sort preserves first-seen order among equal amounts.
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Amount > totals[j].Amount
	})
	return totals
}

// TopItems ranks items descending and collapses the (n+1)th onward into a
// single synthetic entry appended after the named rows. Percentages are
// shares of the full filtered total and sum to 100 for non-empty input.
func (a *Aggregation) TopItems(n int, othersLabel string) []RankedItem {
	if othersLabel == "" {
		othersLabel = DefaultOthers
	}

	totals := a.ItemTotals()
	var grand int64
	for _, t := range totals {
		grand += t.Amount
	}

	percent := func(amount int64) float64 {
		if grand == 0 {
			return 0
		}
		return float64(amount) / float64(grand) * 100
	}

	var ranked []RankedItem
	for i, t := range totals {
		if i >= n {
			break
		}
		ranked = append(ranked, RankedItem{Name: t.Key, Amount: t.Amount, Percent: percent(t.Amount)})
	}

	if len(totals) > n {
		var rest int64
		for _, t := range totals[n:] {
			rest += t.Amount
		}
		ranked = append(ranked, RankedItem{Name: othersLabel, Amount: rest, Percent: percent(rest)})
	}

	return ranked
}

// MarketColors assigns palette colors to markets in first-observed order.
// The color sticks to the market identity: re-ranking the legend never
// reshuffles colors.
func (a *Aggregation) MarketColors() map[string]string {
	colors := make(map[string]string, len(a.marketOrder))
	for i, market := range a.marketOrder {
		colors[market] = Palette[i%len(Palette)]
	}
	return colors
}

// Legend returns markets sorted by total descending, each with the color
// it was assigned at first observation.
func (a *Aggregation) Legend() []LegendEntry {
	colors := a.MarketColors()
	totals := a.MarketTotals()

	legend := make([]LegendEntry, 0, len(totals))
	for _, t := range totals {
		legend = append(legend, LegendEntry{Name: t.Key, Amount: t.Amount, Color: colors[t.Key]})
	}
	return legend
}
