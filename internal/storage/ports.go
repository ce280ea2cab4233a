package storage

import (
	"context"

	"shoppingstats/internal/ledger"
)

// LedgerStore persists the whole ledger. Save overwrites previous state.
type LedgerStore interface {
	Load(ctx context.Context) (*ledger.Ledger, error)
	Save(ctx context.Context, l *ledger.Ledger) error
	Close() error
}

var (
	_ LedgerStore = (*FileStore)(nil)
	_ LedgerStore = (*SQLiteRepository)(nil)
)
