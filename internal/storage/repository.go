package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"shoppingstats/internal/core"
	"shoppingstats/internal/ledger"

	_ "modernc.org/sqlite"
)

// SQLiteRepository stores the ledger in two tables: entries, ordered by
// insertion id within a month, and averages keyed by month.
type SQLiteRepository struct {
	db   *sql.DB
	path string
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, path: dbPath}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load implements LedgerStore. An empty database yields an empty ledger.
func (r *SQLiteRepository) Load(ctx context.Context) (*ledger.Ledger, error) {
	l := ledger.New()

	rows, err := r.db.QueryContext(ctx,
		`SELECT year, month, total, meat, extra FROM entries ORDER BY year, month, id`)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			key   core.MonthKey
			month int
			e     core.Entry
		)
		if err := rows.Scan(&key.Year, &month, &e.Total, &e.Meat, &e.Extra); err != nil {
			return nil, &core.CorruptStateError{Path: r.path, Err: fmt.Errorf("scan entry: %w", err)}
		}
		key.Month = time.Month(month)
		l.Weekly[key] = append(l.Weekly[key], e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	avgRows, err := r.db.QueryContext(ctx,
		`SELECT year, month, avg_total, avg_meat, avg_extra, total_sum FROM averages`)
	if err != nil {
		return nil, fmt.Errorf("query averages: %w", err)
	}
	defer avgRows.Close()

	for avgRows.Next() {
		var (
			key   core.MonthKey
			month int
			rec   core.AverageRecord
		)
		if err := avgRows.Scan(&key.Year, &month, &rec.AvgTotal, &rec.AvgMeat, &rec.AvgExtra, &rec.TotalSum); err != nil {
			return nil, &core.CorruptStateError{Path: r.path, Err: fmt.Errorf("scan average: %w", err)}
		}
		key.Month = time.Month(month)
		l.Average[key] = rec
	}
	if err := avgRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate averages: %w", err)
	}

	slog.DebugContext(ctx, "Ledger loaded from SQLite",
		"path", r.path,
		"months", l.MonthCount(),
		"averages", len(l.Average))
	return l, nil
}

// Save implements LedgerStore by replacing both tables in one transaction.
func (r *SQLiteRepository) Save(ctx context.Context, l *ledger.Ledger) error {
	l.Normalize()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM averages`); err != nil {
		return fmt.Errorf("clear averages: %w", err)
	}

	insertEntry, err := tx.PrepareContext(ctx,
		`INSERT INTO entries (year, month, total, meat, extra) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare entry insert: %w", err)
	}
	defer insertEntry.Close()

	for _, key := range l.Months() {
		for _, e := range l.Weekly[key] {
			if _, err := insertEntry.ExecContext(ctx, key.Year, int(key.Month), e.Total, e.Meat, e.Extra); err != nil {
				return fmt.Errorf("insert entry for %s: %w", key, err)
			}
		}
	}

	insertAverage, err := tx.PrepareContext(ctx,
		`INSERT INTO averages (year, month, avg_total, avg_meat, avg_extra, total_sum) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare average insert: %w", err)
	}
	defer insertAverage.Close()

	for key, rec := range l.Average {
		if _, err := insertAverage.ExecContext(ctx, key.Year, int(key.Month), rec.AvgTotal, rec.AvgMeat, rec.AvgExtra, rec.TotalSum); err != nil {
			return fmt.Errorf("insert average for %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ledger: %w", err)
	}

	slog.DebugContext(ctx, "Ledger saved to SQLite",
		"path", r.path,
		"months", l.MonthCount(),
		"averages", len(l.Average))
	return nil
}
