// Package backend wires a repository pair from configuration. The rest of
// the application only sees the ports interfaces and stays agnostic of
// whether data lives in memory or in SQLite.
package backend

import (
	"github.com/Neruaka/budget-app/internal/ports"
)

// Type selects a storage backend.
type Type string

const (
	MemoryBackend Type = "memory"
	SQLiteBackend Type = "sqlite"
)

func (t Type) IsValid() bool {
	switch t {
	case MemoryBackend, SQLiteBackend:
		return true
	}
	return false
}

func (t Type) String() string {
	return string(t)
}

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// Result contains the wired repositories and an optional cleanup function.
type Result struct {
	Expenses ports.ExpenseRepository
	Budgets  ports.BudgetRepository
	Cleanup  CleanupFunc
}
