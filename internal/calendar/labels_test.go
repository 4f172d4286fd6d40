package calendar

import "testing"

func TestPeriodLabel_Day(t *testing.T) {
	got, err := PeriodLabel("2025-01-30", Korean)
	if err != nil {
		t.Fatalf("PeriodLabel failed: %v", err)
	}
	if got != "01/30" {
		t.Errorf("expected 01/30, got %s", got)
	}
}

func TestPeriodLabel_WeekUsesMonday(t *testing.T) {
	// Week 5 of 2025 starts Monday 2025-01-27.
	got, err := PeriodLabel("2025-W05", Korean)
	if err != nil {
		t.Fatalf("PeriodLabel failed: %v", err)
	}
	if got != "01/27" {
		t.Errorf("expected 01/27, got %s", got)
	}
}

func TestPeriodLabel_Month(t *testing.T) {
	got, err := PeriodLabel("2025-03", Korean)
	if err != nil {
		t.Fatalf("PeriodLabel failed: %v", err)
	}
	if got != "03월" {
		t.Errorf("expected 03월, got %s", got)
	}

	got, err = PeriodLabel("2025-03", LabelSet{MonthSuffix: ""})
	if err != nil {
		t.Fatalf("PeriodLabel failed: %v", err)
	}
	if got != "03" {
		t.Errorf("expected bare month number, got %s", got)
	}
}

func TestPeriodLabel_Unrecognized(t *testing.T) {
	if _, err := PeriodLabel("2025", Korean); err == nil {
		t.Error("expected error for short key")
	}
}

func TestWeekOfMonthLabel(t *testing.T) {
	cases := []struct {
		weekKey string
		want    string
	}{
		// Monday 2025-01-27; Mondays counted from 2024-12-30 (the Monday
		// preceding Jan 1) make it the 5th week of January.
		{"2025-W05", "2025-01-W5"},
		// Monday 2025-02-03; the week containing Feb 1 counts as W1.
		{"2025-W06", "2025-02-W2"},
		// Monday 2024-12-30 belongs to December's counting.
		{"2025-W01", "2024-12-W6"},
	}

	for _, tc := range cases {
		got, err := WeekOfMonthLabel(tc.weekKey)
		if err != nil {
			t.Fatalf("WeekOfMonthLabel(%s) failed: %v", tc.weekKey, err)
		}
		if got != tc.want {
			t.Errorf("WeekOfMonthLabel(%s) = %s, want %s", tc.weekKey, got, tc.want)
		}
	}
}
