// Package storage implements the repositories on SQLite. Schema lives in
// embedded migrations; writes go through database/sql with the version
// check for budgets folded into the UPDATE statement.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Neruaka/budget-app/internal/core"
	"github.com/Neruaka/budget-app/internal/ports"

	_ "modernc.org/sqlite"
)

// Ensure interface conformance
var (
	_ ports.ExpenseRepository = (*ExpenseRepository)(nil)
	_ ports.BudgetRepository  = (*BudgetRepository)(nil)
)

// findByUserCap bounds FindByUser result sets.
const findByUserCap = 50

// Open prepares the database file, runs migrations and returns the shared
// handle both repositories are built on.
func Open(dbPath string) (*sql.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
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

	return db, nil
}

// ExpenseRepository stores expenses in the expenses table.
type ExpenseRepository struct {
	db *sql.DB
}

func NewExpenseRepository(db *sql.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Save(ctx context.Context, e *core.Expense) error {
	rec := e.Record()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (id, user_id, amount_cents, category, description, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			amount_cents = excluded.amount_cents,
			category = excluded.category,
			description = excluded.description,
			occurred_at = excluded.occurred_at`,
		rec.ID, rec.UserID, rec.Amount.Cents, rec.Category, rec.Description, rec.Date.UTC())
	if err != nil {
		return fmt.Errorf("save expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", rec.ID,
		"user_id", rec.UserID,
		"amount_cents", rec.Amount.Cents,
		"category", rec.Category)

	return nil
}

func (r *ExpenseRepository) FindByID(ctx context.Context, id string) (*core.Expense, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, amount_cents, category, description, occurred_at
		FROM expenses WHERE id = ?`, id)
	rec, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrExpenseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find expense by id: %w", err)
	}
	return core.ExpenseFromRecord(rec), nil
}

func (r *ExpenseRepository) FindByUser(ctx context.Context, userID string) ([]*core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, amount_cents, category, description, occurred_at
		FROM expenses WHERE user_id = ?
		ORDER BY occurred_at DESC
		LIMIT ?`, userID, findByUserCap)
	if err != nil {
		return nil, fmt.Errorf("find expenses by user: %w", err)
	}
	defer rows.Close()
	return collectExpenses(rows)
}

func (r *ExpenseRepository) FindByUserAndPeriod(ctx context.Context, userID string, month, year int) ([]*core.Expense, error) {
	// Calendar month bounds; occurred_at is stored in UTC.
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, amount_cents, category, description, occurred_at
		FROM expenses
		WHERE user_id = ? AND occurred_at >= ? AND occurred_at < ?
		ORDER BY occurred_at DESC`, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("find expenses by period: %w", err)
	}
	defer rows.Close()
	return collectExpenses(rows)
}

func (r *ExpenseRepository) Update(ctx context.Context, e *core.Expense) error {
	return r.Save(ctx, e)
}

// Delete removes the expense if present; deleting an absent id is a no-op.
func (r *ExpenseRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.ExpenseRecord, error) {
	var rec core.ExpenseRecord
	err := row.Scan(&rec.ID, &rec.UserID, &rec.Amount.Cents, &rec.Category, &rec.Description, &rec.Date)
	return rec, err
}

func collectExpenses(rows *sql.Rows) ([]*core.Expense, error) {
	var out []*core.Expense
	for rows.Next() {
		rec, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, core.ExpenseFromRecord(rec))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}

// BudgetRepository stores budgets in the budgets table. The unique index on
// (user_id, month, year) enforces the one-budget-per-period invariant; the
// version column carries the optimistic lock.
type BudgetRepository struct {
	db *sql.DB
}

func NewBudgetRepository(db *sql.DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

func (r *BudgetRepository) Save(ctx context.Context, b *core.Budget) error {
	rec := b.Record()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin budget save: %w", err)
	}
	defer tx.Rollback()

	// Conditional update first: the common path is bumping spent_cents
	// during expense reconciliation.
	res, err := tx.ExecContext(ctx, `
		UPDATE budgets
		SET max_amount_cents = ?, spent_cents = ?, version = version + 1
		WHERE id = ? AND version = ?`,
		rec.MaxAmount.Cents, rec.SpentAmount.Cents, rec.ID, rec.Version)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	if affected == 1 {
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit budget save: %w", err)
		}
		return nil
	}

	// No row matched: either the save is stale or the budget is new.
	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM budgets WHERE id = ?`, rec.ID).Scan(&exists); err != nil {
		return fmt.Errorf("check budget id: %w", err)
	}
	if exists > 0 {
		return ports.ErrBudgetVersionConflict
	}

	existing, err := scanBudgetRow(tx.QueryRowContext(ctx, `
		SELECT id, user_id, max_amount_cents, month, year, spent_cents, version
		FROM budgets WHERE user_id = ? AND month = ? AND year = ?`,
		rec.UserID, rec.Month, rec.Year))
	switch {
	case err == nil:
		return &ports.BudgetExistsError{Existing: core.BudgetFromRecord(existing)}
	case errors.Is(err, sql.ErrNoRows):
		// Period free, insert below.
	default:
		return fmt.Errorf("check budget period: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO budgets (id, user_id, max_amount_cents, month, year, spent_cents, version)
		VALUES (?, ?, ?, ?, ?, ?, 1)`,
		rec.ID, rec.UserID, rec.MaxAmount.Cents, rec.Month, rec.Year, rec.SpentAmount.Cents); err != nil {
		return fmt.Errorf("insert budget: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit budget save: %w", err)
	}

	slog.InfoContext(ctx, "Budget created",
		"id", rec.ID,
		"user_id", rec.UserID,
		"month", rec.Month,
		"year", rec.Year,
		"max_amount_cents", rec.MaxAmount.Cents)

	return nil
}

func (r *BudgetRepository) FindByUserAndPeriod(ctx context.Context, userID string, month, year int) (*core.Budget, error) {
	rec, err := scanBudgetRow(r.db.QueryRowContext(ctx, `
		SELECT id, user_id, max_amount_cents, month, year, spent_cents, version
		FROM budgets WHERE user_id = ? AND month = ? AND year = ?`,
		userID, month, year))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrBudgetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find budget by period: %w", err)
	}
	return core.BudgetFromRecord(rec), nil
}

func (r *BudgetRepository) FindByUser(ctx context.Context, userID string) ([]*core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, max_amount_cents, month, year, spent_cents, version
		FROM budgets WHERE user_id = ?
		ORDER BY year DESC, month DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("find budgets by user: %w", err)
	}
	defer rows.Close()

	var out []*core.Budget
	for rows.Next() {
		rec, err := scanBudgetRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, core.BudgetFromRecord(rec))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return out, nil
}

func scanBudgetRow(row rowScanner) (core.BudgetRecord, error) {
	var rec core.BudgetRecord
	err := row.Scan(&rec.ID, &rec.UserID, &rec.MaxAmount.Cents, &rec.Month, &rec.Year, &rec.SpentAmount.Cents, &rec.Version)
	return rec, err
}
