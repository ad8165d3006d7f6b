// Package services orchestrates the domain aggregates over the repository
// and publisher ports. Services own the use-case flow; adapters own I/O.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Neruaka/budget-app/internal/core"
	"github.com/Neruaka/budget-app/internal/ports"
)

// budgetSaveAttempts bounds the read-modify-write retry loop when two
// writers race on the same monthly budget.
const budgetSaveAttempts = 3

// ExpenseService orchestrates expense commands across storage and the
// event publisher.
type ExpenseService struct {
	expenses  ports.ExpenseRepository
	budgets   ports.BudgetRepository
	publisher ports.EventPublisher
	now       func() time.Time
}

func NewExpenseService(expenses ports.ExpenseRepository, budgets ports.BudgetRepository, publisher ports.EventPublisher) *ExpenseService {
	return &ExpenseService{
		expenses:  expenses,
		budgets:   budgets,
		publisher: publisher,
		now:       time.Now,
	}
}

// AddExpenseInput carries the create-expense command. Month and Year are
// optional; zero values resolve to the current calendar period.
type AddExpenseInput struct {
	UserID      string
	Amount      core.Money
	Category    string
	Description string
	Month       int
	Year        int
}

// AddExpenseResult is the use-case report. A validation failure is a
// normal result with Success=false; only storage faults surface as errors.
type AddExpenseResult struct {
	Success         bool                `json:"success"`
	Error           string              `json:"error,omitempty"`
	Expense         *core.ExpenseRecord `json:"expense,omitempty"`
	BudgetExceeded  bool                `json:"budgetExceeded"`
	RemainingAmount *core.Money         `json:"remainingAmount,omitempty"`
}

// AddExpense validates and persists a new expense, then charges it against
// the budget of the resolved period, if one exists. The expense save and
// the budget update are not atomic: if the budget step fails the expense
// stays persisted and the error propagates.
func (s *ExpenseService) AddExpense(ctx context.Context, in AddExpenseInput) (AddExpenseResult, error) {
	expense, err := core.NewExpense("", in.Amount, in.Category, in.UserID, in.Description, s.now())
	if err != nil {
		if core.IsValidationError(err) {
			return AddExpenseResult{Success: false, Error: err.Error()}, nil
		}
		return AddExpenseResult{}, fmt.Errorf("create expense: %w", err)
	}

	if err := s.expenses.Save(ctx, expense); err != nil {
		return AddExpenseResult{}, fmt.Errorf("save expense: %w", err)
	}
	s.publishEvents(ctx, expense.DrainEvents())

	month, year := in.Month, in.Year
	if month == 0 {
		month = int(s.now().Month())
	}
	if year == 0 {
		year = s.now().Year()
	}

	record := expense.Record()
	budget, err := s.chargeBudget(ctx, in.UserID, in.Amount, month, year)
	if err != nil {
		if errors.Is(err, ports.ErrBudgetNotFound) {
			return AddExpenseResult{Success: true, Expense: &record, BudgetExceeded: false}, nil
		}
		return AddExpenseResult{}, err
	}

	remaining := budget.Remaining()
	return AddExpenseResult{
		Success:         true,
		Expense:         &record,
		BudgetExceeded:  budget.Exceeded(),
		RemainingAmount: &remaining,
	}, nil
}

// chargeBudget loads the period budget, records the amount and saves it
// back, retrying a bounded number of times when a concurrent writer bumped
// the version in between.
func (s *ExpenseService) chargeBudget(ctx context.Context, userID string, amount core.Money, month, year int) (*core.Budget, error) {
	var lastErr error
	for attempt := 0; attempt < budgetSaveAttempts; attempt++ {
		budget, err := s.budgets.FindByUserAndPeriod(ctx, userID, month, year)
		if err != nil {
			return nil, err
		}

		if err := budget.RecordExpense(amount); err != nil {
			return nil, fmt.Errorf("record expense on budget: %w", err)
		}

		if err := s.budgets.Save(ctx, budget); err != nil {
			if errors.Is(err, ports.ErrBudgetVersionConflict) {
				lastErr = err
				slog.WarnContext(ctx, "Budget version conflict, retrying",
					"userId", userID, "month", month, "year", year, "attempt", attempt+1)
				continue
			}
			return nil, fmt.Errorf("save budget: %w", err)
		}

		s.publishEvents(ctx, budget.DrainEvents())
		return budget, nil
	}
	return nil, fmt.Errorf("save budget after %d attempts: %w", budgetSaveAttempts, lastErr)
}

// ListByUser returns the user's expenses, most recent first (the
// repository caps the result).
func (s *ExpenseService) ListByUser(ctx context.Context, userID string) ([]core.ExpenseRecord, error) {
	expenses, err := s.expenses.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return toRecords(expenses), nil
}

// ListByPeriod returns the user's expenses whose date falls in the given
// calendar month.
func (s *ExpenseService) ListByPeriod(ctx context.Context, userID string, month, year int) ([]core.ExpenseRecord, error) {
	if month < 1 || month > 12 {
		return nil, core.ErrMonthInvalid
	}
	if year < 2000 {
		return nil, core.ErrYearInvalid
	}
	expenses, err := s.expenses.FindByUserAndPeriod(ctx, userID, month, year)
	if err != nil {
		return nil, fmt.Errorf("list expenses by period: %w", err)
	}
	return toRecords(expenses), nil
}

// UpdateExpense applies a partial update to an expense owned by userID.
// An expense belonging to another user is reported as not found.
func (s *ExpenseService) UpdateExpense(ctx context.Context, userID, id string, update core.ExpenseUpdate) (core.ExpenseRecord, error) {
	expense, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return core.ExpenseRecord{}, err
	}

	updated, err := expense.Update(update)
	if err != nil {
		return core.ExpenseRecord{}, err
	}
	if err := s.expenses.Update(ctx, updated); err != nil {
		return core.ExpenseRecord{}, fmt.Errorf("update expense: %w", err)
	}
	return updated.Record(), nil
}

// DeleteExpense removes an expense owned by userID.
func (s *ExpenseService) DeleteExpense(ctx context.Context, userID, id string) error {
	if _, err := s.findOwned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.expenses.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

func (s *ExpenseService) findOwned(ctx context.Context, userID, id string) (*core.Expense, error) {
	expense, err := s.expenses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense.UserID() != userID {
		return nil, ports.ErrExpenseNotFound
	}
	return expense, nil
}

// publishEvents forwards drained aggregate events to the publisher.
// Publishing is best effort: the command already succeeded, so failures
// are logged and swallowed.
func (s *ExpenseService) publishEvents(ctx context.Context, events []core.Event) {
	if s.publisher == nil {
		if len(events) > 0 {
			slog.WarnContext(ctx, "Event publisher not available, dropping events", "count", len(events))
		}
		return
	}
	for _, ev := range events {
		if err := s.publisher.Publish(ctx, ev); err != nil {
			slog.ErrorContext(ctx, "Failed to publish event", "kind", ev.Kind, "error", err)
		}
	}
}

func toRecords(expenses []*core.Expense) []core.ExpenseRecord {
	records := make([]core.ExpenseRecord, 0, len(expenses))
	for _, e := range expenses {
		records = append(records, e.Record())
	}
	return records
}
