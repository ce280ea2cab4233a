// Package ledger holds the per-month shopping entries and the memoised
// monthly averages computed from them.
package ledger

import (
	"sort"
	"time"

	"shoppingstats/internal/core"
)

const (
	TableWeekly  = "weekly"
	TableAverage = "average"
)

// Ledger maps each month to its entries, in the order they were recorded,
// and to the average record computed once the month closed.
type Ledger struct {
	Weekly  map[core.MonthKey][]core.Entry       `json:"weekly"`
	Average map[core.MonthKey]core.AverageRecord `json:"average"`
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{
		Weekly:  map[core.MonthKey][]core.Entry{},
		Average: map[core.MonthKey]core.AverageRecord{},
	}
}

// Append records e under the month of date, after any entries already
// recorded for that month.
func (l *Ledger) Append(date time.Time, e core.Entry) *Ledger {
	l.ensure()
	key := core.MonthKeyOf(date)
	l.Weekly[key] = append(l.Weekly[key], e)
	return l
}

// Entries returns the entries of a month or a MissingMonthError.
func (l *Ledger) Entries(key core.MonthKey) ([]core.Entry, error) {
	entries, ok := l.Weekly[key]
	if !ok || len(entries) == 0 {
		return nil, &core.MissingMonthError{Month: key, Table: TableWeekly}
	}
	return entries, nil
}

// EntryCount is the number of entries recorded for a month.
func (l *Ledger) EntryCount(key core.MonthKey) int {
	return len(l.Weekly[key])
}

// MonthCount is the number of distinct months with entries.
func (l *Ledger) MonthCount() int {
	return len(l.Weekly)
}

// AverageFor returns the memoised record of a month or a MissingMonthError.
func (l *Ledger) AverageFor(key core.MonthKey) (core.AverageRecord, error) {
	rec, ok := l.Average[key]
	if !ok {
		return core.AverageRecord{}, &core.MissingMonthError{Month: key, Table: TableAverage}
	}
	return rec, nil
}

// HasAverages reports whether every key has a memoised record.
func (l *Ledger) HasAverages(keys ...core.MonthKey) bool {
	for _, k := range keys {
		if _, ok := l.Average[k]; !ok {
			return false
		}
	}
	return true
}

// SetAverage stores rec for key, replacing any previous record.
func (l *Ledger) SetAverage(key core.MonthKey, rec core.AverageRecord) {
	l.ensure()
	l.Average[key] = rec
}

// Months returns the months with entries in chronological order.
func (l *Ledger) Months() []core.MonthKey {
	keys := make([]core.MonthKey, 0, len(l.Weekly))
	for k := range l.Weekly {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })
	return keys
}

// Normalize replaces nil tables with empty ones, e.g. after decoding a file
// that has no "average" key yet.
func (l *Ledger) Normalize() *Ledger {
	l.ensure()
	return l
}

func (l *Ledger) ensure() {
	if l.Weekly == nil {
		l.Weekly = map[core.MonthKey][]core.Entry{}
	}
	if l.Average == nil {
		l.Average = map[core.MonthKey]core.AverageRecord{}
	}
}
