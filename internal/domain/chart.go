package domain

// Granularity selects the calendar bucket size for time aggregation.
type Granularity string

// Supported aggregation granularities.
const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// Valid reports whether g is one of the supported granularities.
func (g Granularity) Valid() bool {
	switch g {
	case GranularityDay, GranularityWeek, GranularityMonth:
		return true
	}
	return false
}

// MarketMode selects how the market dimension is rendered.
// Modeled as a tagged variant so the item-filter x market-mode combinations
// stay a small, exhaustively testable state space.
type MarketMode string

const (
	// MarketModePerMarket renders one series per observed market.
	MarketModePerMarket MarketMode = "per-market"

	// MarketModeTotal collapses markets into neutral-style totals: one
	// series per item under an item filter, otherwise one grand total.
	MarketModeTotal MarketMode = "total"
)

// Valid reports whether m is one of the supported market modes.
func (m MarketMode) Valid() bool {
	switch m {
	case MarketModePerMarket, MarketModeTotal:
		return true
	}
	return false
}

// SeriesStyle distinguishes per-market lines from collapsed totals.
type SeriesStyle string

const (
	SeriesStyleLine SeriesStyle = "line"
	SeriesStyleFill SeriesStyle = "fill" // neutral filled style for market totals
)

// Point is a chart-space coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CubicSegment is one cubic Bezier span of a smooth curve.
// From/To interpolate input samples; Ctrl1/Ctrl2 are derived control points.
type CubicSegment struct {
	From  Point `json:"from"`
	Ctrl1 Point `json:"ctrl1"`
	Ctrl2 Point `json:"ctrl2"`
	To    Point `json:"to"`
}

// SeriesPoint is one (period, value) sample of a series, already labeled
// for the presentation layer.
type SeriesPoint struct {
	PeriodKey string `json:"periodKey"`
	Label     string `json:"label"`
	Value     int64  `json:"value"`
}

// Series is a named, colored, styled value sequence aligned to a shared
// period axis. Values are zero-filled: a period with no matching records
// carries an explicit 0, never a gap, so interpolation stays continuous.
type Series struct {
	Name   string         `json:"name"`
	Color  string         `json:"color"`
	Style  SeriesStyle    `json:"style"`
	Points []SeriesPoint  `json:"points"`
	Path   []CubicSegment `json:"path,omitempty"`
}

// AxisLabel is one tick of the display axis.
type AxisLabel struct {
	PeriodKey string `json:"periodKey"`
	Label     string `json:"label"`
	Tooltip   string `json:"tooltip,omitempty"`
}

// Geometry is the engine's output: abstract chart geometry consumable by
// any rendering surface capable of drawing paths and text.
type Geometry struct {
	Axis   []AxisLabel `json:"axis"`
	Series []Series    `json:"series"`
}
