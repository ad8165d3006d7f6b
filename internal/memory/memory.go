// Package memory provides mutex-guarded in-process repositories. They back
// the "memory" data backend and the service tests; durability is the only
// behavioral difference from the SQLite adapter.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Neruaka/budget-app/internal/core"
	"github.com/Neruaka/budget-app/internal/ports"
)

// findByUserCap mirrors the durable adapter's result cap.
const findByUserCap = 50

// Ensure interface conformance
var (
	_ ports.ExpenseRepository = (*ExpenseStore)(nil)
	_ ports.BudgetRepository  = (*BudgetStore)(nil)
)

// ExpenseStore keeps expense snapshots keyed by id.
type ExpenseStore struct {
	mu    sync.Mutex
	items map[string]core.ExpenseRecord
}

func NewExpenseStore() *ExpenseStore {
	return &ExpenseStore{items: make(map[string]core.ExpenseRecord)}
}

func (s *ExpenseStore) Save(_ context.Context, e *core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[e.ID()] = e.Record()
	return nil
}

func (s *ExpenseStore) FindByID(_ context.Context, id string) (*core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.items[id]
	if !ok {
		return nil, ports.ErrExpenseNotFound
	}
	return core.ExpenseFromRecord(r), nil
}

func (s *ExpenseStore) FindByUser(_ context.Context, userID string) ([]*core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var records []core.ExpenseRecord
	for _, r := range s.items {
		if r.UserID == userID {
			records = append(records, r)
		}
	}
	sortByDateDesc(records)
	if len(records) > findByUserCap {
		records = records[:findByUserCap]
	}
	return toExpenses(records), nil
}

func (s *ExpenseStore) FindByUserAndPeriod(_ context.Context, userID string, month, year int) ([]*core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var records []core.ExpenseRecord
	for _, r := range s.items {
		if r.UserID != userID {
			continue
		}
		if int(r.Date.Month()) != month || r.Date.Year() != year {
			continue
		}
		records = append(records, r)
	}
	sortByDateDesc(records)
	return toExpenses(records), nil
}

func (s *ExpenseStore) Update(ctx context.Context, e *core.Expense) error {
	return s.Save(ctx, e)
}

// Delete is a no-op when the id is absent.
func (s *ExpenseStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

// Count reports the number of stored expenses. Test helper.
func (s *ExpenseStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func sortByDateDesc(records []core.ExpenseRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date)
	})
}

func toExpenses(records []core.ExpenseRecord) []*core.Expense {
	out := make([]*core.Expense, len(records))
	for i, r := range records {
		out[i] = core.ExpenseFromRecord(r)
	}
	return out
}

// BudgetStore keeps budget snapshots keyed by id with a secondary index on
// (user, month, year) enforcing the period uniqueness invariant.
type BudgetStore struct {
	mu       sync.Mutex
	items    map[string]core.BudgetRecord
	byPeriod map[string]string // periodKey -> budget id
}

func NewBudgetStore() *BudgetStore {
	return &BudgetStore{
		items:    make(map[string]core.BudgetRecord),
		byPeriod: make(map[string]string),
	}
}

func periodKey(userID string, month, year int) string {
	return fmt.Sprintf("%s|%d|%d", userID, month, year)
}

func (s *BudgetStore) Save(_ context.Context, b *core.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := b.Record()
	if stored, ok := s.items[r.ID]; ok {
		if stored.Version != r.Version {
			return ports.ErrBudgetVersionConflict
		}
		r.Version = stored.Version + 1
		s.items[r.ID] = r
		return nil
	}

	key := periodKey(r.UserID, r.Month, r.Year)
	if existingID, taken := s.byPeriod[key]; taken {
		existing := s.items[existingID]
		return &ports.BudgetExistsError{Existing: core.BudgetFromRecord(existing)}
	}
	r.Version = 1
	s.items[r.ID] = r
	s.byPeriod[key] = r.ID
	return nil
}

func (s *BudgetStore) FindByUserAndPeriod(_ context.Context, userID string, month, year int) (*core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byPeriod[periodKey(userID, month, year)]
	if !ok {
		return nil, ports.ErrBudgetNotFound
	}
	return core.BudgetFromRecord(s.items[id]), nil
}

func (s *BudgetStore) FindByUser(_ context.Context, userID string) ([]*core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var records []core.BudgetRecord
	for _, r := range s.items {
		if r.UserID == userID {
			records = append(records, r)
		}
	}
	// Most recent period first
	sort.Slice(records, func(i, j int) bool {
		if records[i].Year != records[j].Year {
			return records[i].Year > records[j].Year
		}
		return records[i].Month > records[j].Month
	})
	out := make([]*core.Budget, len(records))
	for i, r := range records {
		out[i] = core.BudgetFromRecord(r)
	}
	return out, nil
}
