package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Neruaka/budget-app/internal/core"
	"github.com/Neruaka/budget-app/internal/memory"
	"github.com/Neruaka/budget-app/internal/ports"
)

func newBudgetService() (*BudgetService, *memory.BudgetStore) {
	budgets := memory.NewBudgetStore()
	return NewBudgetService(budgets), budgets
}

func TestCreateBudget(t *testing.T) {
	svc, _ := newBudgetService()

	rec, err := svc.CreateBudget(context.Background(), CreateBudgetInput{
		UserID:    "u1",
		MaxAmount: core.Money{Cents: 100_000},
		Month:     1,
		Year:      2026,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, int64(0), rec.SpentAmount.Cents)
}

func TestCreateBudgetValidation(t *testing.T) {
	svc, _ := newBudgetService()

	cases := []struct {
		name  string
		input CreateBudgetInput
		want  error
	}{
		{"blank user", CreateBudgetInput{MaxAmount: core.Money{Cents: 100}, Month: 1, Year: 2026}, core.ErrUserIDRequired},
		{"zero max", CreateBudgetInput{UserID: "u1", Month: 1, Year: 2026}, core.ErrMaxAmountInvalid},
		{"month 0", CreateBudgetInput{UserID: "u1", MaxAmount: core.Money{Cents: 100}, Month: 0, Year: 2026}, core.ErrMonthInvalid},
		{"month 13", CreateBudgetInput{UserID: "u1", MaxAmount: core.Money{Cents: 100}, Month: 13, Year: 2026}, core.ErrMonthInvalid},
		{"year 1999", CreateBudgetInput{UserID: "u1", MaxAmount: core.Money{Cents: 100}, Month: 1, Year: 1999}, core.ErrYearInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateBudget(context.Background(), tc.input)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCreateBudgetConflictCarriesExisting(t *testing.T) {
	svc, _ := newBudgetService()

	first, err := svc.CreateBudget(context.Background(), CreateBudgetInput{
		UserID:    "u1",
		MaxAmount: core.Money{Cents: 100_000},
		Month:     1,
		Year:      2026,
	})
	require.NoError(t, err)

	_, err = svc.CreateBudget(context.Background(), CreateBudgetInput{
		UserID:    "u1",
		MaxAmount: core.Money{Cents: 50_000},
		Month:     1,
		Year:      2026,
	})
	var exists *ports.BudgetExistsError
	require.ErrorAs(t, err, &exists)
	assert.Equal(t, first.ID, exists.Existing.ID())

	budgets, err := svc.ListBudgets(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, budgets, 1, "conflict must not create a duplicate")
}

func TestGetBudgetStatus(t *testing.T) {
	svc, budgets := newBudgetService()

	b, err := core.NewBudget("", "u1", core.Money{Cents: 10_000}, 1, 2026)
	require.NoError(t, err)
	require.NoError(t, b.RecordExpense(core.Money{Cents: 2_500}))
	b.DrainEvents()
	require.NoError(t, budgets.Save(context.Background(), b))

	status, err := svc.GetBudget(context.Background(), "u1", 1, 2026)
	require.NoError(t, err)
	assert.Equal(t, int64(7_500), status.Remaining.Cents)
	assert.False(t, status.Exceeded)
	assert.Equal(t, 25, status.PercentageUsed)
}

func TestGetBudgetNotFoundAndRange(t *testing.T) {
	svc, _ := newBudgetService()

	_, err := svc.GetBudget(context.Background(), "u1", 1, 2026)
	assert.ErrorIs(t, err, ports.ErrBudgetNotFound)

	_, err = svc.GetBudget(context.Background(), "u1", 0, 2026)
	assert.ErrorIs(t, err, core.ErrMonthInvalid)

	_, err = svc.GetBudget(context.Background(), "u1", 1, 100)
	assert.ErrorIs(t, err, core.ErrYearInvalid)
}
