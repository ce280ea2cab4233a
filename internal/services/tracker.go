package services

import (
	"context"
	"fmt"
	"time"

	"shoppingstats/internal/core"
	"shoppingstats/internal/ledger"
	"shoppingstats/internal/log"
	"shoppingstats/internal/stats"
	"shoppingstats/internal/storage"
)

// Tracker records shopping days and produces the monthly report when the
// first entry of a new month arrives.
type Tracker struct {
	store      storage.LedgerStore
	dispatcher *Dispatcher
}

// NewTracker wires a store and an optional dispatcher. A nil dispatcher
// delivers nothing.
func NewTracker(store storage.LedgerStore, dispatcher *Dispatcher) *Tracker {
	return &Tracker{store: store, dispatcher: dispatcher}
}

// Record appends e for today and, when today opens a new month, computes the
// report on the month before. The ledger is saved before any delivery so a
// failing sink never costs data. A nil report means no report was due.
func (t *Tracker) Record(ctx context.Context, today time.Time, e core.Entry, p stats.Params) (*stats.Report, error) {
	logger := log.FromContext(ctx).WithComponent(log.ComponentLedger)

	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("record entry: %w", err)
	}

	l, err := t.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	l.Append(today, e)
	logger.InfoContext(ctx, "Recorded shopping day",
		log.NewFields().WithEntry(core.MonthKeyOf(today).String(), e.Total, e.Meat, e.Extra).ToSlice()...)

	var report *stats.Report
	if stats.ShouldRun(l, today) {
		r, err := stats.ComputeReport(l, p, today)
		if err != nil {
			return nil, err
		}
		report = &r
	}

	if err := t.store.Save(ctx, l); err != nil {
		return nil, fmt.Errorf("save ledger: %w", err)
	}

	if report != nil {
		t.deliver(ctx, l, *report)
	}
	return report, nil
}

// Report computes the report for the month before today on demand and
// saves the memoised average.
func (t *Tracker) Report(ctx context.Context, today time.Time, p stats.Params) (stats.Report, error) {
	l, err := t.store.Load(ctx)
	if err != nil {
		return stats.Report{}, fmt.Errorf("load ledger: %w", err)
	}

	r, err := stats.ComputeReport(l, p, today)
	if err != nil {
		return stats.Report{}, err
	}

	if err := t.store.Save(ctx, l); err != nil {
		return stats.Report{}, fmt.Errorf("save ledger: %w", err)
	}

	t.deliver(ctx, l, r)
	return r, nil
}

func (t *Tracker) deliver(ctx context.Context, l *ledger.Ledger, r stats.Report) {
	logger := log.FromContext(ctx).WithComponent(log.ComponentStats)
	logger.InfoContext(ctx, "Computed monthly report",
		log.NewFields().WithReport(r.Month.String(), string(r.Kind), r.EntryCount, r.Sums.Total, r.Goal, r.GoalMet).ToSlice()...)

	if t.dispatcher == nil {
		return
	}
	if err := t.dispatcher.Dispatch(ctx, l, r); err != nil {
		logger.WarnContext(ctx, "Report delivery incomplete", log.FieldError, err)
	}
}

// Close releases the store.
func (t *Tracker) Close() error {
	if t.store == nil {
		return nil
	}
	return t.store.Close()
}
