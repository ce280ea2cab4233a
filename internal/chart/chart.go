// Package chart renders the last four memoised months as an XLSX workbook
// with a line chart of the average and total spending.
package chart

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"shoppingstats/internal/core"
	"shoppingstats/internal/ledger"
	"shoppingstats/internal/stats"
)

const (
	sheetName = "Last4Months"
	title     = "Last 4 months"
)

var ErrInsufficientHistory = errors.New("not enough months for a chart")

var columns = []string{"Month", "Average total", "Average meat", "Average extra", "Total"}

// Months returns the four months charted for r, oldest first.
func Months(r stats.Report) []core.MonthKey {
	keys := r.BaselineKeys
	return []core.MonthKey{keys[2], keys[1], keys[0], r.Month}
}

// Workbook builds the chart for report r from the averages memoised in l.
func Workbook(l *ledger.Ledger, r stats.Report, currency string) ([]byte, error) {
	months := Months(r)
	records := make([]core.AverageRecord, 0, len(months))
	for _, k := range months {
		rec, err := l.AverageFor(k)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInsufficientHistory, err)
		}
		records = append(records, rec)
	}

	f := excelize.NewFile()
	defer f.Close()

	_ = f.SetAppProps(&excelize.AppProperties{Application: "shoppingstats"})

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(sheet, sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	_ = f.SetColWidth(sheetName, "A", "A", 16)
	_ = f.SetColWidth(sheetName, "B", "E", 14)

	for i, name := range columns {
		if err := f.SetCellValue(sheetName, cell(i, 1), name); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}
	for i, k := range months {
		rec := records[i]
		row := []any{k.String(), rec.AvgTotal, rec.AvgMeat, rec.AvgExtra, rec.TotalSum}
		for col, v := range row {
			if err := f.SetCellValue(sheetName, cell(col, i+2), v); err != nil {
				return nil, fmt.Errorf("write %s: %w", k, err)
			}
		}
	}

	last := len(months) + 1
	categories := fmt.Sprintf("%s!$A$2:$A$%d", sheetName, last)
	series := make([]excelize.ChartSeries, 0, len(columns)-1)
	for col := 1; col < len(columns); col++ {
		letter, _ := excelize.ColumnNumberToName(col + 1)
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$%s$1", sheetName, letter),
			Categories: categories,
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", sheetName, letter, letter, last),
		})
	}

	err := f.AddChart(sheetName, "G2", &excelize.Chart{
		Type:   excelize.Line,
		Series: series,
		Title:  []excelize.RichTextRun{{Text: title}},
		Legend: excelize.ChartLegend{Position: "bottom"},
		XAxis: excelize.ChartAxis{
			Title: []excelize.RichTextRun{{Text: "average totals, meat, extra and total sums"}},
		},
		YAxis: excelize.ChartAxis{
			Title: []excelize.RichTextRun{{Text: currency}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("add chart: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row)
	return name
}
