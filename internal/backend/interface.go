package backend

import (
	"context"

	"shoppingstats/internal/config"
	"shoppingstats/internal/services"
	"shoppingstats/internal/storage"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Factory creates the ledger store and the report delivery sinks
type Factory interface {
	// CreateStore opens the ledger store selected by config
	CreateStore(ctx context.Context, config Config) (storage.LedgerStore, error)
	// CreateDispatcher connects every optional sink the app config enables
	CreateDispatcher(ctx context.Context, appConfig *config.Config, currency string) (*services.Dispatcher, CleanupFunc)
}

// Config holds configuration for store creation
type Config struct {
	Type BackendType

	// JSON file specific
	LedgerPath string

	// SQLite specific
	SQLiteDBPath string
}

// BackendType represents the type of ledger store
type BackendType string

const (
	JSONBackend   BackendType = "json"
	SQLiteBackend BackendType = "sqlite"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case JSONBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}
