// Package ports declares the outbound contracts the application services
// depend on. Adapters live in internal/memory (tests, dev), internal/storage
// (SQLite) and internal/amqp (event delivery); no service code touches a
// concrete storage technology.
package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/Neruaka/budget-app/internal/core"
)

var (
	// ErrExpenseNotFound reports a lookup miss by expense id.
	ErrExpenseNotFound = errors.New("expense not found")

	// ErrBudgetNotFound reports a lookup miss by (user, month, year).
	ErrBudgetNotFound = errors.New("budget not found")

	// ErrBudgetVersionConflict reports a stale write: the budget changed
	// between the read and the save. Callers re-read and retry.
	ErrBudgetVersionConflict = errors.New("budget modified concurrently")
)

// BudgetExistsError reports a (user, month, year) uniqueness violation on
// save. It carries the budget already occupying the period so callers can
// surface it with the conflict.
type BudgetExistsError struct {
	Existing *core.Budget
}

func (e *BudgetExistsError) Error() string {
	return fmt.Sprintf("budget already exists for %d/%d", e.Existing.Month(), e.Existing.Year())
}

type (
	// ExpenseRepository stores Expense aggregates keyed by id.
	ExpenseRepository interface {
		// Save upserts by id.
		Save(ctx context.Context, e *core.Expense) error
		// FindByID returns ErrExpenseNotFound on a miss.
		FindByID(ctx context.Context, id string) (*core.Expense, error)
		// FindByUser returns the user's expenses, most recent first,
		// capped at 50.
		FindByUser(ctx context.Context, userID string) ([]*core.Expense, error)
		// FindByUserAndPeriod filters by the calendar month and year of
		// the occurrence date, most recent first.
		FindByUserAndPeriod(ctx context.Context, userID string, month, year int) ([]*core.Expense, error)
		// Update upserts by id.
		Update(ctx context.Context, e *core.Expense) error
		// Delete is an idempotent no-op when the id is absent.
		Delete(ctx context.Context, id string) error
	}

	// BudgetRepository stores Budget aggregates and enforces the one
	// budget per (user, month, year) invariant.
	//
	// Save inserts a new budget or updates an existing one by id. A new
	// budget for an occupied period fails with *BudgetExistsError. Updates
	// are conditional on the version the aggregate was loaded at and fail
	// with ErrBudgetVersionConflict when stale.
	BudgetRepository interface {
		Save(ctx context.Context, b *core.Budget) error
		// FindByUserAndPeriod returns ErrBudgetNotFound on a miss.
		FindByUserAndPeriod(ctx context.Context, userID string, month, year int) (*core.Budget, error)
		FindByUser(ctx context.Context, userID string) ([]*core.Budget, error)
	}

	// EventPublisher hands drained domain events to a notification
	// collaborator. Delivery is best-effort; failures are logged by the
	// caller, never fatal to the use case.
	EventPublisher interface {
		Publish(ctx context.Context, ev core.Event) error
	}
)
