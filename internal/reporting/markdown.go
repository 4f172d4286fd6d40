package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Order Analytics Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Range: %s .. %s (%s)\n\n", r.RangeStart, r.RangeEnd, r.Granularity))

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Month Revenue | %d |\n", r.Summary.MonthAmount))
	sb.WriteString(fmt.Sprintf("| Month Orders | %d |\n", r.Summary.MonthCount))
	sb.WriteString(fmt.Sprintf("| Month Avg Order | %d |\n", r.Summary.MonthAvg))
	sb.WriteString(fmt.Sprintf("| Yesterday Revenue | %d |\n", r.Summary.YesterdayAmount))
	sb.WriteString(fmt.Sprintf("| Yesterday Orders | %d |\n", r.Summary.YesterdayCount))
	sb.WriteString(fmt.Sprintf("| Total Orders | %d |\n", r.Summary.TotalCount))
	sb.WriteString("\n")

	// Period totals
	sb.WriteString("## Revenue by Period\n\n")
	if len(r.PeriodTotals) > 0 {
		sb.WriteString("| Period | Label | Orders | Revenue |\n")
		sb.WriteString("|--------|-------|--------|--------|\n")
		for _, row := range r.PeriodTotals {
			sb.WriteString(fmt.Sprintf("| %s | %s | %d | %d |\n",
				row.PeriodKey, row.Label, row.Count, row.Amount))
		}
	} else {
		sb.WriteString("No periods in range.\n")
	}
	sb.WriteString("\n")

	// Top items
	sb.WriteString("## Top Items\n\n")
	if len(r.TopItems) > 0 {
		sb.WriteString("| Rank | Item | Revenue | Share |\n")
		sb.WriteString("|------|------|---------|-------|\n")
		for i, item := range r.TopItems {
			sb.WriteString(fmt.Sprintf("| %d | %s | %d | %.1f%% |\n",
				i+1, item.Name, item.Amount, item.Percent))
		}
	} else {
		sb.WriteString("No item data available.\n")
	}
	sb.WriteString("\n")

	// Market totals
	sb.WriteString("## Markets\n\n")
	if len(r.MarketTotals) > 0 {
		sb.WriteString("| Market | Revenue |\n")
		sb.WriteString("|--------|--------|\n")
		for _, m := range r.MarketTotals {
			sb.WriteString(fmt.Sprintf("| %s | %d |\n", m.Name, m.Amount))
		}
	} else {
		sb.WriteString("No market data available.\n")
	}
	sb.WriteString("\n")

	// Status breakdown
	sb.WriteString("## Order Status\n\n")
	sb.WriteString("| Status | Orders | Share |\n")
	sb.WriteString("|--------|--------|-------|\n")
	for _, s := range r.StatusBreakdown {
		sb.WriteString(fmt.Sprintf("| %s | %d | %.1f%% |\n", s.Status, s.Count, s.Percent))
	}
	sb.WriteString("\n")

	return sb.String()
}
