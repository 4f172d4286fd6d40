package reporting

import (
	"context"
	"strings"
	"testing"
	"time"

	"order-analytics/internal/domain"
	"order-analytics/internal/storage/memory"
)

func seedStores(t *testing.T, records []*domain.OrderRecord, categories map[string]string) (*memory.OrderStore, *memory.CategoryStore) {
	t.Helper()
	ctx := context.Background()

	orders := memory.NewOrderStore()
	if err := orders.InsertBulk(ctx, records); err != nil {
		t.Fatalf("seed orders: %v", err)
	}

	cats := memory.NewCategoryStore()
	for item, category := range categories {
		if err := cats.Upsert(ctx, item, category); err != nil {
			t.Fatalf("seed categories: %v", err)
		}
	}
	return orders, cats
}

func fixedClock(value string) func() time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func ts(value string) int64 {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t.UnixMilli()
}

func TestGenerate_PeriodTotalsZeroFilled(t *testing.T) {
	records := []*domain.OrderRecord{
		{ID: "o1", TimestampMs: ts("2025-01-06T03:00:00Z"), Amount: 1000, ItemKey: "사과 1kg", MarketKey: "쿠팡", Status: domain.StatusConfirmed},
		{ID: "o2", TimestampMs: ts("2025-01-08T03:00:00Z"), Amount: 2000, ItemKey: "배 5kg", MarketKey: "토스", Status: domain.StatusConfirmed},
	}
	orders, cats := seedStores(t, records, nil)

	g := NewGenerator(orders, cats).WithClock(fixedClock("2025-01-10T00:00:00Z"))
	report, err := g.Generate(context.Background(), "2025-01-06", "2025-01-08", domain.GranularityDay)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(report.PeriodTotals) != 3 {
		t.Fatalf("expected 3 weekday rows, got %d", len(report.PeriodTotals))
	}
	middle := report.PeriodTotals[1]
	if middle.PeriodKey != "2025-01-07" || middle.Amount != 0 || middle.Count != 0 {
		t.Errorf("empty day not zero-filled: %+v", middle)
	}
	if report.PeriodTotals[0].Amount != 1000 || report.PeriodTotals[0].Count != 1 {
		t.Errorf("first row wrong: %+v", report.PeriodTotals[0])
	}
	if report.PeriodTotals[0].Label != "01/06" {
		t.Errorf("label wrong: %q", report.PeriodTotals[0].Label)
	}
}

func TestGenerate_TopItemsUseCategories(t *testing.T) {
	records := []*domain.OrderRecord{
		{ID: "o1", TimestampMs: ts("2025-01-06T03:00:00Z"), Amount: 1000, ItemKey: "사과 1kg", MarketKey: "쿠팡", Status: domain.StatusConfirmed},
		{ID: "o2", TimestampMs: ts("2025-01-06T04:00:00Z"), Amount: 2000, ItemKey: "사과 3kg", MarketKey: "쿠팡", Status: domain.StatusConfirmed},
	}
	orders, cats := seedStores(t, records, map[string]string{
		"사과 1kg": "사과",
		"사과 3kg": "사과",
	})

	g := NewGenerator(orders, cats).WithClock(fixedClock("2025-01-10T00:00:00Z"))
	report, err := g.Generate(context.Background(), "2025-01-06", "2025-01-06", domain.GranularityDay)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(report.TopItems) != 1 {
		t.Fatalf("expected 1 rolled-up item, got %d", len(report.TopItems))
	}
	if report.TopItems[0].Name != "사과" || report.TopItems[0].Amount != 3000 {
		t.Errorf("wrong rollup: %+v", report.TopItems[0])
	}
}

func TestGenerate_SummaryAndStatus(t *testing.T) {
	records := []*domain.OrderRecord{
		{ID: "o1", TimestampMs: ts("2025-01-06T03:00:00Z"), Amount: 1000, Status: domain.StatusConfirmed},
		{ID: "o2", TimestampMs: ts("2025-01-09T03:00:00Z"), Amount: 3000, Status: domain.StatusRegistered}, // yesterday
		{ID: "o3", Amount: 500, Status: domain.StatusCancelled},                                            // untimestamped
	}
	orders, cats := seedStores(t, records, nil)

	g := NewGenerator(orders, cats).WithClock(fixedClock("2025-01-10T03:00:00Z"))
	report, err := g.Generate(context.Background(), "2025-01-06", "2025-01-09", domain.GranularityDay)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if report.Summary.MonthAmount != 4000 || report.Summary.MonthCount != 2 {
		t.Errorf("month summary wrong: %+v", report.Summary)
	}
	if report.Summary.YesterdayAmount != 3000 || report.Summary.YesterdayCount != 1 {
		t.Errorf("yesterday summary wrong: %+v", report.Summary)
	}
	if report.Summary.TotalCount != 3 {
		t.Errorf("total count wrong: %d", report.Summary.TotalCount)
	}

	var cancelled int
	for _, s := range report.StatusBreakdown {
		if s.Status == domain.StatusCancelled {
			cancelled = s.Count
		}
	}
	if cancelled != 1 {
		t.Errorf("untimestamped order missing from status breakdown")
	}
}

func TestGenerate_InvalidInput(t *testing.T) {
	orders, cats := seedStores(t, nil, nil)
	g := NewGenerator(orders, cats)

	if _, err := g.Generate(context.Background(), "2025-01-10", "2025-01-06", domain.GranularityDay); err == nil {
		t.Error("inverted range: expected an error")
	}
	if _, err := g.Generate(context.Background(), "2025-01-06", "2025-01-10", "hour"); err == nil {
		t.Error("bad granularity: expected an error")
	}
}

func TestRenderMarkdown(t *testing.T) {
	records := []*domain.OrderRecord{
		{ID: "o1", TimestampMs: ts("2025-01-06T03:00:00Z"), Amount: 1000, ItemKey: "사과 1kg", MarketKey: "쿠팡", Status: domain.StatusConfirmed},
	}
	orders, cats := seedStores(t, records, nil)

	g := NewGenerator(orders, cats).WithClock(fixedClock("2025-01-10T00:00:00Z"))
	report, err := g.Generate(context.Background(), "2025-01-06", "2025-01-06", domain.GranularityDay)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	md := RenderMarkdown(report)
	for _, want := range []string{
		"# Order Analytics Report",
		"## Revenue by Period",
		"| 2025-01-06 | 01/06 | 1 | 1000 |",
		"| 사과 1kg | 1000 |",
		"## Order Status",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestRenderCSV(t *testing.T) {
	rows := []PeriodTotalRow{
		{PeriodKey: "2025-01-06", Label: "01/06", Amount: 1000, Count: 1},
		{PeriodKey: "2025-01-07", Label: "01/07", Amount: 0, Count: 0},
	}

	csv := RenderCSV(rows)
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "period,label,order_count,revenue" {
		t.Errorf("wrong header: %q", lines[0])
	}
	if lines[1] != "2025-01-06,01/06,1,1000" {
		t.Errorf("wrong row: %q", lines[1])
	}
}
