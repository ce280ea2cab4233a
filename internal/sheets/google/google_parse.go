package google

import (
	"fmt"
	"strings"

	"shoppingstats/internal/core"
)

// Header is the first row of the averages sheet.
var Header = []any{"Month", "Average total", "Average meat", "Average extra", "Total"}

// averageRow lays out one AverageRecord the way the sheet stores it.
func averageRow(month core.MonthKey, rec core.AverageRecord) []any {
	return []any{month.String(), rec.AvgTotal, rec.AvgMeat, rec.AvgExtra, rec.TotalSum}
}

// findMonthRow returns the 1-based sheet row holding month in column A, or
// 0 when the month has not been exported yet. Cells are compared after
// trimming, case-insensitively.
func findMonthRow(values [][]any, month core.MonthKey) int {
	want := month.String()
	for i, row := range values {
		if len(row) == 0 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(fmt.Sprint(row[0])), want) {
			return i + 1
		}
	}
	return 0
}
