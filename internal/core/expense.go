package core

import (
	"strings"
	"time"
)

// MaxExpenseCents caps a single expense at 100,000 units.
const MaxExpenseCents int64 = 100_000 * 100

// Expense is a validated record of one spending event. Instances are
// immutable: Update produces a copy, the receiver is never touched.
type Expense struct {
	Recorder

	id          string
	amount      Money
	description string
	category    string
	userID      string
	date        time.Time
}

// ExpenseRecord is the plain snapshot of an Expense used at persistence and
// serialization boundaries.
type ExpenseRecord struct {
	ID          string    `json:"id"`
	Amount      Money     `json:"amount"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	UserID      string    `json:"userId"`
	Date        time.Time `json:"date"`
}

// ExpenseUpdate carries the fields Update replaces. Nil means keep the
// current value.
type ExpenseUpdate struct {
	Amount      *Money
	Description *string
	Category    *string
}

// NewExpense validates the input, assigns the identifier and stages an
// ExpenseCreated event. An empty id gets a generated one; a zero date
// defaults to now.
func NewExpense(id string, amount Money, category, userID, description string, date time.Time) (*Expense, error) {
	if err := validateExpense(amount, category, userID); err != nil {
		return nil, err
	}
	if id == "" {
		id = NewID()
	}
	if date.IsZero() {
		date = time.Now()
	}

	e := &Expense{
		id:          id,
		amount:      amount,
		description: description,
		category:    category,
		userID:      userID,
		date:        date,
	}
	e.Emit(EventExpenseCreated, map[string]any{
		"expenseId": e.id,
		"amount":    e.amount.Units(),
		"category":  e.category,
		"userId":    e.userID,
	})
	return e, nil
}

// ExpenseFromRecord reconstitutes an Expense from storage. The data is
// trusted: no validation runs and no event is staged.
func ExpenseFromRecord(r ExpenseRecord) *Expense {
	return &Expense{
		id:          r.ID,
		amount:      r.Amount,
		description: r.Description,
		category:    r.Category,
		userID:      r.UserID,
		date:        r.Date,
	}
}

func (e *Expense) ID() string          { return e.id }
func (e *Expense) Amount() Money       { return e.amount }
func (e *Expense) Description() string { return e.description }
func (e *Expense) Category() string    { return e.category }
func (e *Expense) UserID() string      { return e.userID }
func (e *Expense) Date() time.Time     { return e.date }

// Update returns a new Expense with the given fields replaced. When the
// amount changes, the merged field set is re-validated in full.
func (e *Expense) Update(u ExpenseUpdate) (*Expense, error) {
	amount := e.amount
	description := e.description
	category := e.category
	if u.Amount != nil {
		amount = *u.Amount
	}
	if u.Description != nil {
		description = *u.Description
	}
	if u.Category != nil {
		category = *u.Category
	}
	if u.Amount != nil {
		if err := validateExpense(amount, category, e.userID); err != nil {
			return nil, err
		}
	}
	return &Expense{
		id:          e.id,
		amount:      amount,
		description: description,
		category:    category,
		userID:      e.userID,
		date:        e.date,
	}, nil
}

// Record returns the serialization snapshot.
func (e *Expense) Record() ExpenseRecord {
	return ExpenseRecord{
		ID:          e.id,
		Amount:      e.amount,
		Description: e.description,
		Category:    e.category,
		UserID:      e.userID,
		Date:        e.date,
	}
}

func validateExpense(amount Money, category, userID string) error {
	switch {
	case amount.Cents < 0:
		return ErrAmountNegative
	case amount.Cents == 0:
		return ErrAmountZero
	case amount.Cents > MaxExpenseCents:
		return ErrAmountTooLarge
	}
	if strings.TrimSpace(category) == "" {
		return ErrCategoryRequired
	}
	if strings.TrimSpace(userID) == "" {
		return ErrUserIDRequired
	}
	return nil
}
