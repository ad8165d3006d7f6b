package services

import (
	"context"
	"fmt"

	"github.com/Neruaka/budget-app/internal/core"
	"github.com/Neruaka/budget-app/internal/ports"
)

// BudgetService handles budget creation and reads.
type BudgetService struct {
	budgets ports.BudgetRepository
}

func NewBudgetService(budgets ports.BudgetRepository) *BudgetService {
	return &BudgetService{budgets: budgets}
}

// CreateBudgetInput carries the create-budget command.
type CreateBudgetInput struct {
	UserID    string
	MaxAmount core.Money
	Month     int
	Year      int
}

// BudgetStatus is a budget snapshot plus the derived fields clients render.
type BudgetStatus struct {
	Budget         core.BudgetRecord `json:"budget"`
	Remaining      core.Money        `json:"remainingAmount"`
	Exceeded       bool              `json:"isExceeded"`
	PercentageUsed int               `json:"percentageUsed"`
}

// CreateBudget creates the budget for (user, month, year). If one already
// exists the *ports.BudgetExistsError carries it so callers can offer an
// update instead.
func (s *BudgetService) CreateBudget(ctx context.Context, in CreateBudgetInput) (core.BudgetRecord, error) {
	budget, err := core.NewBudget("", in.UserID, in.MaxAmount, in.Month, in.Year)
	if err != nil {
		return core.BudgetRecord{}, err
	}
	if err := s.budgets.Save(ctx, budget); err != nil {
		return core.BudgetRecord{}, err
	}
	return budget.Record(), nil
}

// GetBudget returns the budget for the period with derived status fields.
func (s *BudgetService) GetBudget(ctx context.Context, userID string, month, year int) (BudgetStatus, error) {
	if month < 1 || month > 12 {
		return BudgetStatus{}, core.ErrMonthInvalid
	}
	if year < 2000 {
		return BudgetStatus{}, core.ErrYearInvalid
	}
	budget, err := s.budgets.FindByUserAndPeriod(ctx, userID, month, year)
	if err != nil {
		return BudgetStatus{}, err
	}
	return budgetStatus(budget), nil
}

// ListBudgets returns all budgets of the user, most recent period first.
func (s *BudgetService) ListBudgets(ctx context.Context, userID string) ([]BudgetStatus, error) {
	budgets, err := s.budgets.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	statuses := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		statuses = append(statuses, budgetStatus(b))
	}
	return statuses, nil
}

func budgetStatus(b *core.Budget) BudgetStatus {
	return BudgetStatus{
		Budget:         b.Record(),
		Remaining:      b.Remaining(),
		Exceeded:       b.Exceeded(),
		PercentageUsed: b.PercentageUsed(),
	}
}
