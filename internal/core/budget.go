package core

import (
	"math"
	"strings"
)

// Budget caps spending for one (user, month, year) period and tracks the
// running total. The only mutator is RecordExpense; everything else is
// derived on read.
type Budget struct {
	Recorder

	id        string
	userID    string
	maxAmount Money
	month     int
	year      int
	spent     Money
	version   int64
}

// BudgetRecord is the persistence snapshot of a Budget. Version is the
// optimistic-lock counter maintained by the repositories and is not part of
// the API surface.
type BudgetRecord struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	MaxAmount   Money  `json:"maxAmount"`
	Month       int    `json:"month"`
	Year        int    `json:"year"`
	SpentAmount Money  `json:"spentAmount"`
	Version     int64  `json:"-"`
}

// NewBudget validates the input and returns a fresh Budget with nothing
// spent yet. Uniqueness per (user, month, year) is the repository's job.
func NewBudget(id, userID string, maxAmount Money, month, year int) (*Budget, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUserIDRequired
	}
	if maxAmount.Cents <= 0 {
		return nil, ErrMaxAmountInvalid
	}
	if month < 1 || month > 12 {
		return nil, ErrMonthInvalid
	}
	if year < 2000 {
		return nil, ErrYearInvalid
	}
	if id == "" {
		id = NewID()
	}
	return &Budget{
		id:        id,
		userID:    userID,
		maxAmount: maxAmount,
		month:     month,
		year:      year,
	}, nil
}

// BudgetFromRecord reconstitutes a Budget from storage, carrying the
// persisted spent amount and version. The data is trusted: no validation,
// no event.
func BudgetFromRecord(r BudgetRecord) *Budget {
	return &Budget{
		id:        r.ID,
		userID:    r.UserID,
		maxAmount: r.MaxAmount,
		month:     r.Month,
		year:      r.Year,
		spent:     r.SpentAmount,
		version:   r.Version,
	}
}

func (b *Budget) ID() string         { return b.id }
func (b *Budget) UserID() string     { return b.userID }
func (b *Budget) MaxAmount() Money   { return b.maxAmount }
func (b *Budget) Month() int         { return b.month }
func (b *Budget) Year() int          { return b.year }
func (b *Budget) SpentAmount() Money { return b.spent }
func (b *Budget) Version() int64     { return b.version }

// Remaining is max minus spent; negative once the budget is exceeded.
func (b *Budget) Remaining() Money { return b.maxAmount.Sub(b.spent) }

// Exceeded reports whether spending is strictly over the cap.
func (b *Budget) Exceeded() bool { return b.spent.Cents > b.maxAmount.Cents }

// PercentageUsed is round(spent/max*100), half-up.
func (b *Budget) PercentageUsed() int {
	return int(math.Round(float64(b.spent.Cents) / float64(b.maxAmount.Cents) * 100))
}

// RecordExpense adds amount to the running total. The amount must be
// positive; passing anything else is a caller bug and is rejected instead
// of silently shrinking the total. Exactly on the transition from
// not-exceeded to exceeded one BudgetExceeded event is staged; later
// additions while already over the cap stage nothing.
func (b *Budget) RecordExpense(amount Money) error {
	if amount.Cents < 0 {
		return ErrAmountNegative
	}
	if amount.Cents == 0 {
		return ErrAmountZero
	}

	wasExceeded := b.Exceeded()
	b.spent = b.spent.Add(amount)

	if b.Exceeded() && !wasExceeded {
		b.Emit(EventBudgetExceeded, map[string]any{
			"budgetId":    b.id,
			"userId":      b.userID,
			"maxAmount":   b.maxAmount.Units(),
			"spentAmount": b.spent.Units(),
		})
	}
	return nil
}

// Record returns the persistence snapshot.
func (b *Budget) Record() BudgetRecord {
	return BudgetRecord{
		ID:          b.id,
		UserID:      b.userID,
		MaxAmount:   b.maxAmount,
		Month:       b.month,
		Year:        b.year,
		SpentAmount: b.spent,
		Version:     b.version,
	}
}
