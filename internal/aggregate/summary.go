package aggregate

import (
	"time"

	"order-analytics/internal/calendar"
	"order-analytics/internal/domain"
)

// Summary holds the dashboard's headline figures relative to a reference
// instant (normally "now", injected for testability).
type Summary struct {
	MonthAmount     int64 // current local month
	MonthCount      int
	MonthAvg        int64 // rounded average order amount this month
	YesterdayAmount int64
	YesterdayCount  int
	TotalCount      int // every record, timestamped or not
}

// Summarize computes headline figures from a record snapshot.
func Summarize(records []*domain.OrderRecord, n calendar.Normalizer, nowUtcMs int64) Summary {
	monthKey := n.MonthKey(nowUtcMs)
	yesterdayKey := n.DayKey(nowUtcMs - 24*time.Hour.Milliseconds())

	s := Summary{TotalCount: len(records)}
	for _, r := range records {
		if !r.HasTimestamp() {
			continue
		}
		if n.MonthKey(r.TimestampMs) == monthKey {
			s.MonthAmount += r.Amount
			s.MonthCount++
		}
		if n.DayKey(r.TimestampMs) == yesterdayKey {
			s.YesterdayAmount += r.Amount
			s.YesterdayCount++
		}
	}

	if s.MonthCount > 0 {
		s.MonthAvg = (s.MonthAmount + int64(s.MonthCount)/2) / int64(s.MonthCount)
	}
	return s
}

// DayCell is one day of the month calendar view.
type DayCell struct {
	Count  int
	Amount int64
}

// CalendarMonth buckets records into the days of one local month, keyed by
// day of month. Days without orders are absent from the map.
func CalendarMonth(records []*domain.OrderRecord, n calendar.Normalizer, year int, month time.Month) map[int]DayCell {
	cells := make(map[int]DayCell)
	for _, r := range records {
		if !r.HasTimestamp() {
			continue
		}
		y, m, d := n.LocalDate(r.TimestampMs)
		if y != year || m != month {
			continue
		}
		cell := cells[d]
		cell.Count++
		cell.Amount += r.Amount
		cells[d] = cell
	}
	return cells
}

// StatusCount is one row of the status breakdown.
type StatusCount struct {
	Status  domain.OrderStatus
	Count   int
	Percent float64
}

// StatusBreakdown counts records per status, including records without a
// timestamp. Percentages are shares of the full snapshot. Statuses outside
// the known set get their own rows in first-seen order, so every record is
// accounted for and the percentages sum to 100.
func StatusBreakdown(records []*domain.OrderRecord) []StatusCount {
	known := make(map[domain.OrderStatus]bool, len(domain.Statuses))
	for _, status := range domain.Statuses {
		known[status] = true
	}

	counts := make(map[domain.OrderStatus]int)
	var extra []domain.OrderStatus
	for _, r := range records {
		if !known[r.Status] && counts[r.Status] == 0 {
			extra = append(extra, r.Status)
		}
		counts[r.Status]++
	}

	rows := make([]StatusCount, 0, len(domain.Statuses)+len(extra))
	for _, status := range append(append([]domain.OrderStatus{}, domain.Statuses...), extra...) {
		row := StatusCount{Status: status, Count: counts[status]}
		if len(records) > 0 {
			row.Percent = float64(row.Count) / float64(len(records)) * 100
		}
		rows = append(rows, row)
	}
	return rows
}
