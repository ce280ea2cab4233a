package memory

import (
	"context"
	"fmt"
	"sync"

	"shoppingstats/internal/core"
	ports "shoppingstats/internal/sheets"
)

var _ ports.AverageExporter = (*Store)(nil)

// Store keeps exported averages in memory, one row per month in export order.
type Store struct {
	mu   sync.Mutex
	rows []core.MonthKey
	recs map[core.MonthKey]core.AverageRecord
}

func New() *Store {
	return &Store{recs: map[core.MonthKey]core.AverageRecord{}}
}

// ExportAverage stores rec and returns a synthetic row reference.
func (s *Store) ExportAverage(_ context.Context, month core.MonthKey, rec core.AverageRecord) (string, error) {
	if month.IsZero() {
		return "", fmt.Errorf("export average: zero month")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	row := 0
	for i, m := range s.rows {
		if m == month {
			row = i + 1
		}
	}
	if row == 0 {
		s.rows = append(s.rows, month)
		row = len(s.rows)
	}
	s.recs[month] = rec
	return fmt.Sprintf("mem:%d", row), nil
}

// Averages returns a copy of everything exported so far.
func (s *Store) Averages() map[core.MonthKey]core.AverageRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[core.MonthKey]core.AverageRecord, len(s.recs))
	for k, v := range s.recs {
		out[k] = v
	}
	return out
}
