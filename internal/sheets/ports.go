package sheets

import (
	"context"

	"shoppingstats/internal/core"
)

// Ports for outbound adapters.
type (
	// AverageExporter mirrors a month's AverageRecord into a spreadsheet.
	// Exporting the same month twice updates the existing row.
	AverageExporter interface {
		ExportAverage(ctx context.Context, month core.MonthKey, rec core.AverageRecord) (rowRef string, err error)
	}
)
