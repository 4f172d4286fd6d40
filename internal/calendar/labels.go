package calendar

import (
	"fmt"
	"strings"
	"time"
)

// LabelSet carries the locale-specific pieces of period labels.
type LabelSet struct {
	MonthSuffix string // appended to the month number, e.g. "월"
}

// Korean is the dashboard's default label set.
var Korean = LabelSet{MonthSuffix: "월"}

// PeriodLabel formats a period key for axis display.
// Day keys become MM/DD, week keys become the Monday of that week as MM/DD,
// month keys become MM plus the locale month suffix.
func PeriodLabel(key string, ls LabelSet) (string, error) {
	switch {
	case strings.Contains(key, "-W"):
		monday, err := MondayOfWeek(key)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%02d/%02d", int(monday.Month()), monday.Day()), nil

	case len(key) == len("2006-01-02"):
		t, err := time.Parse("2006-01-02", key)
		if err != nil {
			return "", fmt.Errorf("parse day key %q: %w", key, err)
		}
		return fmt.Sprintf("%02d/%02d", int(t.Month()), t.Day()), nil

	case len(key) == len("2006-01"):
		t, err := time.Parse("2006-01", key)
		if err != nil {
			return "", fmt.Errorf("parse month key %q: %w", key, err)
		}
		return fmt.Sprintf("%02d%s", int(t.Month()), ls.MonthSuffix), nil
	}

	return "", fmt.Errorf("unrecognized period key %q", key)
}

// WeekOfMonthLabel formats a week key for tooltips as YYYY-MM-Wn, where n
// counts Mondays starting from the Monday containing-or-preceding the first
// of the month holding the week's Monday.
func WeekOfMonthLabel(weekKey string) (string, error) {
	monday, err := MondayOfWeek(weekKey)
	if err != nil {
		return "", err
	}

	firstOfMonth := time.Date(monday.Year(), monday.Month(), 1, 0, 0, 0, 0, time.UTC)
	anchor := firstOfMonth.AddDate(0, 0, -(isoWeekday(firstOfMonth) - 1))
	n := int(monday.Sub(anchor).Hours()/(24*7)) + 1

	return fmt.Sprintf("%04d-%02d-W%d", monday.Year(), int(monday.Month()), n), nil
}
