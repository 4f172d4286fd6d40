package chart

import (
	"errors"
	"fmt"

	"order-analytics/internal/aggregate"
	"order-analytics/internal/calendar"
	"order-analytics/internal/domain"
	"order-analytics/internal/period"
)

// Request validation errors.
var (
	ErrInvalidGranularity = errors.New("chart: unsupported granularity")
	ErrInvalidMarketMode  = errors.New("chart: unsupported market mode")
)

// TotalSeriesName labels the grand-total series in market-total mode.
const TotalSeriesName = "전체"

// Request describes one chart build.
type Request struct {
	Start       string // YYYY-MM-DD inclusive
	End         string // YYYY-MM-DD inclusive
	Granularity domain.Granularity
	MarketMode  domain.MarketMode

	// ItemFilter and MarketFilter restrict the chart to selected
	// dimension values; nil means all.
	ItemFilter   map[string]bool
	MarketFilter map[string]bool

	// DisplayCap bounds the axis length; 0 uses the default.
	DisplayCap int

	// Holidays is the injected holiday table for day granularity.
	Holidays map[string]bool

	// Labels defaults to the Korean label set when zero.
	Labels calendar.LabelSet
}

// Builder assembles chart geometry from order records. It is stateless
// apart from the timezone normalizer and safe for concurrent use.
type Builder struct {
	normalizer calendar.Normalizer
}

// NewBuilder returns a Builder bucketing time in the normalizer's zone.
func NewBuilder(n calendar.Normalizer) *Builder {
	return &Builder{normalizer: n}
}

// Build runs the full pipeline: enumerate the period axis, downsample it
// to the display cap, aggregate records into zero-filled series, and
// attach labels and smooth paths.
func (b *Builder) Build(records []*domain.OrderRecord, req Request) (*domain.Geometry, error) {
	if !req.Granularity.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidGranularity, req.Granularity)
	}
	if req.MarketMode == "" {
		req.MarketMode = domain.MarketModePerMarket
	}
	if !req.MarketMode.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMarketMode, req.MarketMode)
	}
	start, err := period.ParseDay(req.Start)
	if err != nil {
		return nil, err
	}
	end, err := period.ParseDay(req.End)
	if err != nil {
		return nil, err
	}
	labels := req.Labels
	if labels == (calendar.LabelSet{}) {
		labels = calendar.Korean
	}
	cap := req.DisplayCap
	if cap == 0 {
		cap = period.DefaultDisplayCap
	}

	axis := period.Downsample(period.Enumerate(start, end, req.Granularity, period.Options{Holidays: req.Holidays}), cap)
	if len(axis) == 0 {
		// Inverted or all-holiday ranges render as an empty chart.
		return &domain.Geometry{}, nil
	}

	axisLabels, err := b.labelAxis(axis, req.Granularity, labels)
	if err != nil {
		return nil, err
	}

	agg := aggregate.Aggregate(records, b.periodFunc(req.Granularity), aggregate.Options{
		ItemFilter:   req.ItemFilter,
		MarketFilter: req.MarketFilter,
	})

	series, err := buildSeries(agg, axis, axisLabels, req.MarketMode, req.ItemFilter != nil)
	if err != nil {
		return nil, err
	}

	return &domain.Geometry{Axis: axisLabels, Series: series}, nil
}

func (b *Builder) periodFunc(g domain.Granularity) aggregate.PeriodFunc {
	switch g {
	case domain.GranularityWeek:
		return b.normalizer.WeekKey
	case domain.GranularityMonth:
		return b.normalizer.MonthKey
	default:
		return b.normalizer.DayKey
	}
}

func (b *Builder) labelAxis(axis []string, g domain.Granularity, ls calendar.LabelSet) ([]domain.AxisLabel, error) {
	out := make([]domain.AxisLabel, 0, len(axis))
	for _, key := range axis {
		label, err := calendar.PeriodLabel(key, ls)
		if err != nil {
			return nil, err
		}
		al := domain.AxisLabel{PeriodKey: key, Label: label}
		if g == domain.GranularityWeek {
			// Week ticks carry the month-relative form in the tooltip,
			// the Monday date on the axis.
			if al.Tooltip, err = calendar.WeekOfMonthLabel(key); err != nil {
				return nil, err
			}
		}
		out = append(out, al)
	}
	return out, nil
}

func buildSeries(agg *aggregate.Aggregation, axis []string, labels []domain.AxisLabel, mode domain.MarketMode, itemFiltered bool) ([]domain.Series, error) {
	if mode == domain.MarketModeTotal {
		if !itemFiltered {
			s, err := makeSeries(TotalSeriesName, aggregate.ColorNeutral, domain.SeriesStyleFill, agg.SeriesValues(axis, "", ""), labels)
			if err != nil {
				return nil, err
			}
			return []domain.Series{s}, nil
		}

		// With an item filter, markets collapse per item instead of
		// into one grand total.
		var series []domain.Series
		for _, item := range agg.Items() {
			s, err := makeSeries(item, aggregate.ColorNeutral, domain.SeriesStyleFill, agg.SeriesValues(axis, item, ""), labels)
			if err != nil {
				return nil, err
			}
			series = append(series, s)
		}
		return series, nil
	}

	// One line per market, legend-ranked, colors pinned to first
	// observation so toggling filters never recolors a market.
	var series []domain.Series
	for _, entry := range agg.Legend() {
		s, err := makeSeries(entry.Name, entry.Color, domain.SeriesStyleLine, agg.SeriesValues(axis, "", entry.Name), labels)
		if err != nil {
			return nil, err
		}
		series = append(series, s)
	}
	return series, nil
}

func makeSeries(name, color string, style domain.SeriesStyle, values []int64, labels []domain.AxisLabel) (domain.Series, error) {
	points := make([]domain.SeriesPoint, len(values))
	coords := make([]domain.Point, len(values))
	for i, v := range values {
		points[i] = domain.SeriesPoint{PeriodKey: labels[i].PeriodKey, Label: labels[i].Label, Value: v}
		coords[i] = domain.Point{X: float64(i), Y: float64(v)}
	}

	path, err := SmoothPath(coords)
	if err != nil {
		return domain.Series{}, err
	}
	return domain.Series{Name: name, Color: color, Style: style, Points: points, Path: path}, nil
}
