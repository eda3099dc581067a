package backend

import (
	"fmt"
	"log/slog"

	"payviu/internal/store"
	"payviu/internal/store/memory"
	"payviu/internal/storage"
)

// Type represents the data backend backing the payment store.
type Type string

const (
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Store is the full store surface a backend must provide: the lifecycle
// engine's document operations plus the sweep worker's unpaid listing.
type Store interface {
	store.PaymentStore
	store.UnpaidLister
}

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// Config holds configuration for backend creation.
type Config struct {
	Type         Type
	SQLiteDBPath string
}

// Factory creates stores based on configuration.
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// CreateStore creates the configured store and a cleanup function.
func (f *Factory) CreateStore(config Config) (Store, CleanupFunc, error) {
	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize SQLite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		return repo, repo.Close, nil
	case MemoryBackend:
		f.logger.Info("Initialized memory backend")
		return memory.New(), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}
}
