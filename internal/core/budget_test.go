package core

import (
	"errors"
	"testing"
)

func TestNewBudgetValidation(t *testing.T) {
	cases := []struct {
		name    string
		userID  string
		max     int64
		month   int
		year    int
		wantErr error
	}{
		{"blank user id", " ", 10000, 1, 2026, ErrUserIDRequired},
		{"zero max", "u1", 0, 1, 2026, ErrMaxAmountInvalid},
		{"negative max", "u1", -100, 1, 2026, ErrMaxAmountInvalid},
		{"month zero", "u1", 10000, 0, 2026, ErrMonthInvalid},
		{"month thirteen", "u1", 10000, 13, 2026, ErrMonthInvalid},
		{"year before 2000", "u1", 10000, 6, 1999, ErrYearInvalid},
		{"valid", "u1", 10000, 12, 2000, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := NewBudget("", tc.userID, Money{Cents: tc.max}, tc.month, tc.year)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if b.SpentAmount().Cents != 0 {
				t.Fatalf("fresh budget must start at zero, got %d", b.SpentAmount().Cents)
			}
			if b.ID() == "" {
				t.Fatal("expected generated id")
			}
		})
	}
}

func TestBudgetRecordExpenseAccumulates(t *testing.T) {
	b, err := NewBudget("b1", "u1", Money{Cents: 100_000}, 1, 2026)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := b.RecordExpense(Money{Cents: 30_000}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := b.RecordExpense(Money{Cents: 20_000}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if b.SpentAmount().Cents != 50_000 {
		t.Fatalf("expected spent 50000, got %d", b.SpentAmount().Cents)
	}
	if b.Remaining().Cents != 50_000 {
		t.Fatalf("expected remaining 50000, got %d", b.Remaining().Cents)
	}
	if b.Exceeded() {
		t.Fatal("budget at half use must not be exceeded")
	}
}

func TestBudgetRecordExpenseGuardsAmount(t *testing.T) {
	b, err := NewBudget("b2", "u1", Money{Cents: 10_000}, 1, 2026)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := b.RecordExpense(Money{Cents: -100}); !errors.Is(err, ErrAmountNegative) {
		t.Fatalf("expected ErrAmountNegative, got %v", err)
	}
	if err := b.RecordExpense(Money{}); !errors.Is(err, ErrAmountZero) {
		t.Fatalf("expected ErrAmountZero, got %v", err)
	}
	if b.SpentAmount().Cents != 0 {
		t.Fatalf("rejected amounts must not change spent, got %d", b.SpentAmount().Cents)
	}
}

func TestBudgetExceededEventFiresOnceOnCrossing(t *testing.T) {
	// max=100, two expenses of 60: only the second crosses the threshold.
	b, err := NewBudget("b3", "u1", Money{Cents: 10_000}, 1, 2026)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := b.RecordExpense(Money{Cents: 6_000}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if events := b.DrainEvents(); len(events) != 0 {
		t.Fatalf("no event expected before crossing, got %d", len(events))
	}

	if err := b.RecordExpense(Money{Cents: 6_000}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	events := b.DrainEvents()
	if len(events) != 1 {
		t.Fatalf("expected exactly 1 event, got %d", len(events))
	}
	ev := events[0]
	if ev.Kind != EventBudgetExceeded {
		t.Fatalf("expected %s, got %s", EventBudgetExceeded, ev.Kind)
	}
	if ev.Payload["budgetId"] != "b3" || ev.Payload["spentAmount"] != 120.0 {
		t.Fatalf("unexpected payload: %v", ev.Payload)
	}

	// Already exceeded: further additions stage nothing.
	if err := b.RecordExpense(Money{Cents: 1_000}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if events := b.DrainEvents(); len(events) != 0 {
		t.Fatalf("no event expected while already exceeded, got %d", len(events))
	}
}

func TestBudgetPercentageUsed(t *testing.T) {
	cases := []struct {
		spent int64
		max   int64
		want  int
	}{
		{2500, 10000, 25},  // 25.0 -> 25
		{3333, 10000, 33},  // 33.33 -> 33
		{5050, 10000, 51},  // 50.5 -> 51 (half-up)
		{15000, 10000, 150},
		{0, 10000, 0},
	}
	for _, tc := range cases {
		b := BudgetFromRecord(BudgetRecord{
			ID:          "b4",
			UserID:      "u1",
			MaxAmount:   Money{Cents: tc.max},
			Month:       1,
			Year:        2026,
			SpentAmount: Money{Cents: tc.spent},
		})
		if got := b.PercentageUsed(); got != tc.want {
			t.Fatalf("spent=%d max=%d expected %d%%, got %d%%", tc.spent, tc.max, tc.want, got)
		}
	}
}

func TestBudgetFromRecordCarriesSpentAndVersion(t *testing.T) {
	b := BudgetFromRecord(BudgetRecord{
		ID:          "b5",
		UserID:      "u1",
		MaxAmount:   Money{Cents: 10_000},
		Month:       3,
		Year:        2026,
		SpentAmount: Money{Cents: 12_000},
		Version:     4,
	})
	if !b.Exceeded() {
		t.Fatal("reloaded over-cap budget must report exceeded")
	}
	if b.Version() != 4 {
		t.Fatalf("expected version 4, got %d", b.Version())
	}
	if events := b.DrainEvents(); len(events) != 0 {
		t.Fatalf("reload must not stage events, got %d", len(events))
	}
}
