package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"shoppingstats/internal/core"
	"shoppingstats/internal/ledger"
)

// FileStore keeps the ledger in a single JSON document.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string { return s.path }

// Load reads the ledger. A missing file is created with an empty ledger.
func (s *FileStore) Load(ctx context.Context) (*ledger.Ledger, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		l := ledger.New()
		if err := s.Save(ctx, l); err != nil {
			return nil, fmt.Errorf("create empty ledger: %w", err)
		}
		slog.InfoContext(ctx, "Created empty ledger", "path", s.path)
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}

	l, err := ledger.Decode(data)
	if err != nil {
		return nil, &core.CorruptStateError{Path: s.path, Err: err}
	}

	slog.DebugContext(ctx, "Ledger loaded",
		"path", s.path,
		"months", l.MonthCount(),
		"averages", len(l.Average))
	return l, nil
}

// Save replaces the file contents. The document is written next to the
// target and renamed over it so a killed run leaves the old file intact.
func (s *FileStore) Save(ctx context.Context, l *ledger.Ledger) error {
	data, err := ledger.Encode(l)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create ledger directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp ledger: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close ledger: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace ledger: %w", err)
	}

	slog.DebugContext(ctx, "Ledger saved", "path", s.path, "bytes", len(data))
	return nil
}

func (s *FileStore) Close() error { return nil }
