package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"shoppingstats/internal/amqp"
	"shoppingstats/internal/core"
	"shoppingstats/internal/ledger"
	"shoppingstats/internal/mail"
	"shoppingstats/internal/sheets/memory"
	"shoppingstats/internal/stats"
)

func computedReport(t *testing.T, l *ledger.Ledger) stats.Report {
	t.Helper()
	r, err := stats.ComputeReport(l, params, time.Date(2019, time.May, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return r
}

func TestDispatcherJoinsSinkErrors(t *testing.T) {
	l := historyLedger()
	r := computedReport(t, l)

	boom := errors.New("boom")
	a := &recordingSink{name: "a", err: boom}
	b := &recordingSink{name: "b"}
	c := &recordingSink{name: "c", err: errors.New("bang")}
	d := NewDispatcher(time.Second, a, b, c)

	err := d.Dispatch(context.Background(), l, r)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "a: boom")
	assert.Contains(t, err.Error(), "c: bang")
	assert.Equal(t, 1, b.calls())
	assert.Equal(t, []string{"a", "b", "c"}, d.Sinks())
}

func TestDispatcherWithoutSinks(t *testing.T) {
	assert.NoError(t, NewDispatcher(time.Second).Dispatch(context.Background(), ledger.New(), stats.Report{}))
}

func TestChartSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts", "last4.xlsx")

	t.Run("skips without four months", func(t *testing.T) {
		short := &ledger.Ledger{
			Weekly:  map[core.MonthKey][]core.Entry{april: {core.NewEntry(10, 1, 1)}},
			Average: map[core.MonthKey]core.AverageRecord{},
		}
		require.NoError(t, NewChartSink(path, "PLN").Deliver(context.Background(), short, computedReport(t, short)))
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("writes workbook", func(t *testing.T) {
		l := historyLedger()
		require.NoError(t, NewChartSink(path, "PLN").Deliver(context.Background(), l, computedReport(t, l)))

		f, err := excelize.OpenFile(path)
		require.NoError(t, err)
		defer f.Close()
		assert.NotEmpty(t, f.GetSheetList())
	})
}

func TestSheetsSink(t *testing.T) {
	l := historyLedger()
	r := computedReport(t, l)
	exporter := memory.New()

	require.NoError(t, NewSheetsSink(exporter).Deliver(context.Background(), l, r))
	assert.Equal(t, map[core.MonthKey]core.AverageRecord{april: r.Average}, exporter.Averages())
}

type fakeMailer struct {
	subject, body string
}

func (m *fakeMailer) Send(_ context.Context, subject, body string) error {
	m.subject, m.body = subject, body
	return nil
}

func TestMailSink(t *testing.T) {
	l := historyLedger()
	r := computedReport(t, l)
	m := &fakeMailer{}

	require.NoError(t, NewMailSink(m).Deliver(context.Background(), l, r))
	assert.Equal(t, mail.Subject, m.subject)
	assert.Equal(t, r.Text, m.body)
}

type fakePublisher struct {
	msgs []*amqp.ReportMessage
}

func (p *fakePublisher) PublishReport(_ context.Context, msg *amqp.ReportMessage) error {
	p.msgs = append(p.msgs, msg)
	return nil
}

func TestQueueSink(t *testing.T) {
	l := historyLedger()
	r := computedReport(t, l)
	p := &fakePublisher{}

	require.NoError(t, NewQueueSink(p).Deliver(context.Background(), l, r))
	require.Len(t, p.msgs, 1)
	assert.Equal(t, "April 2019", p.msgs[0].ReportMonth)
	assert.Equal(t, "long", p.msgs[0].Kind)
	assert.Equal(t, r.Text, p.msgs[0].Body)
}
