package backend

import (
	"fmt"
	"log/slog"

	"github.com/Neruaka/budget-app/internal/memory"
	"github.com/Neruaka/budget-app/internal/storage"
)

// Factory creates repository backends based on configuration.
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// CreateBackend creates the repositories for the configured backend.
func (f *Factory) CreateBackend(cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(cfg)
	case MemoryBackend:
		return f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}

func (f *Factory) createSQLiteBackend(cfg Config) (*Result, error) {
	db, err := storage.Open(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite storage: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)

	return &Result{
		Expenses: storage.NewExpenseRepository(db),
		Budgets:  storage.NewBudgetRepository(db),
		Cleanup:  db.Close,
	}, nil
}

func (f *Factory) createMemoryBackend() (*Result, error) {
	f.logger.Info("Initialized memory backend")

	return &Result{
		Expenses: memory.NewExpenseStore(),
		Budgets:  memory.NewBudgetStore(),
	}, nil
}
