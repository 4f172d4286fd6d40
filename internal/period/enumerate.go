// Package period builds the chart's time axis: it enumerates calendar
// buckets over a date range and downsamples long axes to a display cap.
package period

import (
	"fmt"
	"time"

	"order-analytics/internal/calendar"
	"order-analytics/internal/domain"
)

// Options tunes the enumeration.
type Options struct {
	// Holidays lists day keys (YYYY-MM-DD) excluded at day granularity,
	// in addition to weekends. The set is injected data: there is no rule
	// that derives holidays, only a table.
	Holidays map[string]bool
}

// ParseDay parses a YYYY-MM-DD string into a UTC-midnight date.
func ParseDay(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return t, nil
}

// Enumerate returns the complete ordered list of period keys between start
// and end inclusive, strictly increasing with no duplicates.
// An inverted range yields an empty list; callers validate ordering upstream.
func Enumerate(start, end time.Time, g domain.Granularity, opts Options) []string {
	if end.Before(start) {
		return nil
	}

	switch g {
	case domain.GranularityDay:
		return enumerateDays(start, end, opts)
	case domain.GranularityWeek:
		return enumerateWeeks(start, end)
	case domain.GranularityMonth:
		return enumerateMonths(start, end)
	}
	return nil
}

// enumerateDays walks every calendar day, skipping Saturdays, Sundays and
// injected holidays.
func enumerateDays(start, end time.Time, opts Options) []string {
	var keys []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		key := d.Format("2006-01-02")
		if opts.Holidays[key] {
			continue
		}
		keys = append(keys, key)
	}
	return keys
}

// enumerateWeeks walks every day and emits each distinct week key once.
// First-seen order is chronological because the walk is chronological.
func enumerateWeeks(start, end time.Time) []string {
	var keys []string
	var last string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := calendar.WeekKeyOf(d)
		if key != last {
			keys = append(keys, key)
			last = key
		}
	}
	return keys
}

// enumerateMonths walks month by month from the start month to the end
// month inclusive.
func enumerateMonths(start, end time.Time) []string {
	var keys []string
	d := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	stop := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !d.After(stop) {
		keys = append(keys, d.Format("2006-01"))
		d = d.AddDate(0, 1, 0)
	}
	return keys
}
