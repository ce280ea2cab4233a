package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoppingstats/internal/core"
	"shoppingstats/internal/ledger"
	"shoppingstats/internal/stats"
	"shoppingstats/internal/storage"
)

var (
	jan   = core.MonthKey{Year: 2019, Month: time.January}
	feb   = core.MonthKey{Year: 2019, Month: time.February}
	mar   = core.MonthKey{Year: 2019, Month: time.March}
	april = core.MonthKey{Year: 2019, Month: time.April}
	may   = core.MonthKey{Year: 2019, Month: time.May}

	params = stats.Params{Currency: "PLN", Goal: 500}
)

func historyLedger() *ledger.Ledger {
	return &ledger.Ledger{
		Weekly: map[core.MonthKey][]core.Entry{
			april: {core.NewEntry(123, 23, 23), core.NewEntry(456, 23, 34), core.NewEntry(123, 0, 23)},
		},
		Average: map[core.MonthKey]core.AverageRecord{
			jan: {AvgTotal: 120, AvgMeat: 55, AvgExtra: 44, TotalSum: 600},
			feb: {AvgTotal: 240, AvgMeat: 88, AvgExtra: 99, TotalSum: 900},
			mar: {AvgTotal: 455, AvgMeat: 12, AvgExtra: 34, TotalSum: 1600},
		},
	}
}

type recordingSink struct {
	name string
	err  error

	mu      sync.Mutex
	reports []stats.Report
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Deliver(_ context.Context, _ *ledger.Ledger, r stats.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, r)
	return s.err
}

func (s *recordingSink) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reports)
}

func newStore(t *testing.T, seed *ledger.Ledger) *storage.FileStore {
	t.Helper()
	store := storage.NewFileStore(filepath.Join(t.TempDir(), "data.json"))
	if seed != nil {
		require.NoError(t, store.Save(context.Background(), seed))
	}
	return store
}

func TestTrackerRecordFirstEntryOfMonthReports(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, historyLedger())
	ok := &recordingSink{name: "ok"}
	broken := &recordingSink{name: "broken", err: errors.New("smtp down")}
	tracker := NewTracker(store, NewDispatcher(time.Second, ok, broken))

	report, err := tracker.Record(ctx, time.Date(2019, time.May, 3, 0, 0, 0, 0, time.UTC), core.NewEntry(145, 23, 23), params)
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, stats.LongForm, report.Kind)
	assert.Equal(t, april, report.Month)
	assert.Equal(t, int64(272), report.Baseline.AvgTotal)
	assert.Contains(t, report.Text, "better luck next time")

	assert.Equal(t, 1, ok.calls())
	assert.Equal(t, 1, broken.calls(), "a failing sink still gets the report")

	saved, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.Entry{core.NewEntry(145, 23, 23)}, saved.Weekly[may])
	assert.Equal(t, core.AverageRecord{AvgTotal: 234, AvgMeat: 15, AvgExtra: 27, TotalSum: 702}, saved.Average[april])
}

func TestTrackerRecordWithoutTrigger(t *testing.T) {
	ctx := context.Background()
	seed := historyLedger()
	seed.Weekly[may] = []core.Entry{core.NewEntry(10, 1, 1)}
	store := newStore(t, seed)
	sink := &recordingSink{name: "sink"}
	tracker := NewTracker(store, NewDispatcher(0, sink))

	report, err := tracker.Record(ctx, time.Date(2019, time.May, 10, 0, 0, 0, 0, time.UTC), core.NewEntry(20, 2, 2), params)
	require.NoError(t, err)
	assert.Nil(t, report)
	assert.Zero(t, sink.calls())

	saved, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, saved.Weekly[may], 2)
	_, ok := saved.Average[april]
	assert.False(t, ok, "no average is memoised without a report")
}

func TestTrackerRecordIntoEmptyLedger(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, nil)
	tracker := NewTracker(store, nil)

	report, err := tracker.Record(ctx, time.Date(2019, time.May, 1, 0, 0, 0, 0, time.UTC), core.NewEntry(20, 2, 2), params)
	require.NoError(t, err)
	assert.Nil(t, report, "a single month has nothing to compare")

	saved, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, saved.MonthCount())
}

func TestTrackerRecordMissingReportMonthAborts(t *testing.T) {
	ctx := context.Background()
	seed := &ledger.Ledger{
		Weekly:  map[core.MonthKey][]core.Entry{mar: {core.NewEntry(1, 0, 0)}},
		Average: map[core.MonthKey]core.AverageRecord{},
	}
	store := newStore(t, seed)
	tracker := NewTracker(store, nil)

	_, err := tracker.Record(ctx, time.Date(2019, time.May, 1, 0, 0, 0, 0, time.UTC), core.NewEntry(5, 0, 0), params)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrMissingMonth)

	saved, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, seed, saved, "nothing is committed on a failed run")
}

func TestTrackerRecordRejectsNegativeEntry(t *testing.T) {
	tracker := NewTracker(newStore(t, nil), nil)

	_, err := tracker.Record(context.Background(), time.Now(), core.NewEntry(-1, 0, 0), params)
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
}

func TestTrackerReportOnDemand(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, historyLedger())
	sink := &recordingSink{name: "sink"}
	tracker := NewTracker(store, NewDispatcher(time.Second, sink))
	today := time.Date(2019, time.May, 20, 0, 0, 0, 0, time.UTC)

	first, err := tracker.Report(ctx, today, params)
	require.NoError(t, err)
	second, err := tracker.Report(ctx, today, params)
	require.NoError(t, err)

	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, 2, sink.calls())

	saved, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, saved.Average, 4)
}

func TestTrackerReportWithoutHistory(t *testing.T) {
	tracker := NewTracker(newStore(t, nil), nil)

	_, err := tracker.Report(context.Background(), time.Date(2019, time.May, 20, 0, 0, 0, 0, time.UTC), params)
	var missing *core.MissingMonthError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, april, missing.Month)
}
