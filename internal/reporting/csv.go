package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders the per-period totals as CSV string.
func RenderCSV(rows []PeriodTotalRow) string {
	var sb strings.Builder

	sb.WriteString("period,label,order_count,revenue\n")

	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("%s,%s,%d,%d\n",
			row.PeriodKey,
			row.Label,
			row.Count,
			row.Amount,
		))
	}

	return sb.String()
}
