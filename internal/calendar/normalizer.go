// Package calendar converts stored UTC timestamps into local calendar
// buckets: day keys, ISO-8601 week keys and month keys. The local offset is
// explicit configuration so the engine stays testable independent of
// wall-clock time and reusable outside UTC+9.
package calendar

import (
	"fmt"
	"time"
)

// KSTOffsetMinutes is the fixed offset of the dashboard's home timezone.
const KSTOffsetMinutes = 540

// Normalizer derives local calendar fields from UTC instants using a fixed
// minute offset.
type Normalizer struct {
	offset time.Duration
}

// Default returns a normalizer for the dashboard's fixed UTC+9 offset.
func Default() Normalizer {
	return WithOffsetMinutes(KSTOffsetMinutes)
}

// WithOffsetMinutes returns a normalizer for an arbitrary fixed offset.
func WithOffsetMinutes(minutes int) Normalizer {
	return Normalizer{offset: time.Duration(minutes) * time.Minute}
}

// ToLocal shifts a UTC instant by the configured offset. The result's UTC
// calendar fields are the local calendar fields of the original instant.
func (n Normalizer) ToLocal(utcMs int64) time.Time {
	return time.UnixMilli(utcMs).UTC().Add(n.offset)
}

// LocalDate returns the local calendar date of a UTC instant.
func (n Normalizer) LocalDate(utcMs int64) (year int, month time.Month, day int) {
	return n.ToLocal(utcMs).Date()
}

// DayKey returns the local calendar day as YYYY-MM-DD.
// Two instants that fall within the same local day yield identical keys,
// including instants on either side of UTC midnight.
func (n Normalizer) DayKey(utcMs int64) string {
	y, m, d := n.ToLocal(utcMs).Date()
	return fmt.Sprintf("%04d-%02d-%02d", y, int(m), d)
}

// MonthKey returns the local calendar month as YYYY-MM.
func (n Normalizer) MonthKey(utcMs int64) string {
	y, m, _ := n.ToLocal(utcMs).Date()
	return fmt.Sprintf("%04d-%02d", y, int(m))
}

// WeekKey returns the ISO-8601 week of the local date as YYYY-Www.
// The ISO year is the year of the week's Thursday, so a week spanning a
// year boundary resolves to the year holding most of it.
func (n Normalizer) WeekKey(utcMs int64) string {
	return WeekKeyOf(n.ToLocal(utcMs))
}

// WeekKeyOf computes the ISO week key for a date whose UTC calendar fields
// are already local.
func WeekKeyOf(local time.Time) string {
	// Land on the Thursday of this ISO week; its year is the ISO year and
	// its ordinal day determines the week number.
	thursday := local.AddDate(0, 0, 4-isoWeekday(local))
	week := (thursday.YearDay() + 6) / 7
	return fmt.Sprintf("%04d-W%02d", thursday.Year(), week)
}

// MondayOfWeek inverts a YYYY-Www key to the Monday date of that week.
// January 4 is always in week 1 by the ISO rule, so the Monday of week 1 is
// found from it and later weeks are whole-week offsets.
func MondayOfWeek(weekKey string) (time.Time, error) {
	var year, week int
	if _, err := fmt.Sscanf(weekKey, "%d-W%d", &year, &week); err != nil {
		return time.Time{}, fmt.Errorf("parse week key %q: %w", weekKey, err)
	}
	if week < 1 || week > 53 {
		return time.Time{}, fmt.Errorf("week key %q: week %d out of range", weekKey, week)
	}

	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	firstMonday := jan4.AddDate(0, 0, -(isoWeekday(jan4) - 1))
	return firstMonday.AddDate(0, 0, (week-1)*7), nil
}

// isoWeekday maps time.Weekday to ISO numbering: Monday=1 .. Sunday=7.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
