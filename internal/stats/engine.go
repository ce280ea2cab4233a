// Package stats turns a closed month of shopping entries into a report and
// memoises the month's averages in the ledger.
package stats

import (
	"fmt"
	"time"

	"shoppingstats/internal/core"
	"shoppingstats/internal/ledger"
)

// BaselineMonths is how many memoised months the long report compares against.
const BaselineMonths = 3

// Kind tags which of the two report variants was produced.
type Kind string

const (
	ShortForm Kind = "short"
	LongForm  Kind = "long"
)

// Params are the settings the engine needs.
type Params struct {
	Currency string
	Goal     int64
}

// Sums are the componentwise totals of a month.
type Sums struct {
	Total int64
	Meat  int64
	Extra int64
}

// Baseline is the rounded mean of the memoised averages of the three months
// before the reporting month's predecessor.
type Baseline struct {
	AvgTotal int64
	AvgMeat  int64
	AvgExtra int64
	// PreviousTotal is the total sum of the month right before the report month.
	PreviousTotal int64
}

// Report is the outcome of ComputeReport. Baseline is nil for ShortForm.
type Report struct {
	Kind  Kind
	Month core.MonthKey
	// BaselineKeys holds the months one, two and three months before Month.
	BaselineKeys [BaselineMonths]core.MonthKey
	EntryCount   int
	Sums         Sums
	Average      core.AverageRecord
	Baseline     *Baseline
	Goal         int64
	GoalMet      bool
	Currency     string
	Text         string
}

// ShouldRun reports whether the entry just recorded for today is the first
// of a new month and there is an earlier month to report on.
func ShouldRun(l *ledger.Ledger, today time.Time) bool {
	return l.EntryCount(core.MonthKeyOf(today)) == 1 && l.MonthCount() > 1
}

// ReportMonth is the month reported on when running on today.
func ReportMonth(today time.Time) core.MonthKey {
	return core.MonthKeyOf(today).AddMonths(-1)
}

// ComputeReport summarises the month before today, stores its average record
// in l (replacing any earlier one) and renders the report text.
//
// A missing report month yields a *core.MissingMonthError. Missing baseline
// months are not an error: they select the short report.
func ComputeReport(l *ledger.Ledger, p Params, today time.Time) (Report, error) {
	month := ReportMonth(today)
	entries, err := l.Entries(month)
	if err != nil {
		return Report{}, fmt.Errorf("compute report: %w", err)
	}

	r := Report{
		Kind:       ShortForm,
		Month:      month,
		EntryCount: len(entries),
		Goal:       p.Goal,
		Currency:   p.Currency,
	}
	for i := range r.BaselineKeys {
		r.BaselineKeys[i] = month.AddMonths(-(i + 1))
	}

	for _, e := range entries {
		r.Sums.Total += e.Total
		r.Sums.Meat += e.Meat
		r.Sums.Extra += e.Extra
	}

	n := int64(r.EntryCount)
	r.Average = core.AverageRecord{
		AvgTotal: core.RoundDiv(r.Sums.Total, n),
		AvgMeat:  core.RoundDiv(r.Sums.Meat, n),
		AvgExtra: core.RoundDiv(r.Sums.Extra, n),
		TotalSum: r.Sums.Total,
	}
	l.SetAverage(month, r.Average)

	r.GoalMet = r.Sums.Total <= p.Goal

	if l.HasAverages(r.BaselineKeys[:]...) {
		r.Kind = LongForm
		r.Baseline = baseline(l, r.BaselineKeys)
	}

	r.Text = Render(r)
	return r, nil
}

func baseline(l *ledger.Ledger, keys [BaselineMonths]core.MonthKey) *Baseline {
	var total, meat, extra int64
	for _, k := range keys {
		rec := l.Average[k]
		total += rec.AvgTotal
		meat += rec.AvgMeat
		extra += rec.AvgExtra
	}
	return &Baseline{
		AvgTotal:      core.RoundDiv(total, BaselineMonths),
		AvgMeat:       core.RoundDiv(meat, BaselineMonths),
		AvgExtra:      core.RoundDiv(extra, BaselineMonths),
		PreviousTotal: l.Average[keys[0]].TotalSum,
	}
}
