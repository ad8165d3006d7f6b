package backend

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Neruaka/budget-app/internal/config"
	"github.com/Neruaka/budget-app/internal/core"
)

func TestCreateMemoryBackend(t *testing.T) {
	result, err := NewFactory(nil).CreateBackend(Config{Type: MemoryBackend})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	if result.Expenses == nil || result.Budgets == nil {
		t.Fatal("memory backend must provide both repositories")
	}
	if result.Cleanup != nil {
		t.Error("memory backend needs no cleanup")
	}
}

func TestCreateSQLiteBackend(t *testing.T) {
	cfg := Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(t.TempDir(), "budget.db"),
	}
	result, err := NewFactory(nil).CreateBackend(cfg)
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	defer result.Cleanup()

	e, err := core.NewExpense("", core.Money{Cents: 100}, "other", "u1", "", time.Now())
	if err != nil {
		t.Fatalf("new expense: %v", err)
	}
	e.DrainEvents()
	if err := result.Expenses.Save(context.Background(), e); err != nil {
		t.Fatalf("sqlite backend save: %v", err)
	}
}

func TestCreateBackendRejectsInvalidConfig(t *testing.T) {
	if _, err := NewFactory(nil).CreateBackend(Config{Type: "mongo"}); err == nil {
		t.Error("unknown backend type must be rejected")
	}
	if _, err := NewFactory(nil).CreateBackend(Config{Type: SQLiteBackend}); err == nil {
		t.Error("sqlite backend without a path must be rejected")
	}
}

func TestFromAppConfig(t *testing.T) {
	cfg, err := FromAppConfig(&config.Config{DataBackend: "sqlite", SQLiteDBPath: "/tmp/x.db"})
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if cfg.Type != SQLiteBackend || cfg.SQLiteDBPath != "/tmp/x.db" {
		t.Errorf("unexpected config: %+v", cfg)
	}

	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Error("unknown backend string must be rejected")
	}
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("nil app config must be rejected")
	}
}
