package export

import (
	"testing"
	"time"

	"github.com/Neruaka/budget-app/internal/core"
)

func TestExpenseRow(t *testing.T) {
	rec := core.ExpenseRecord{
		ID:          "e1",
		Amount:      core.Money{Cents: 1250},
		Description: "weekly shop",
		Category:    "groceries",
		UserID:      "u1",
		Date:        time.Date(2026, 3, 7, 18, 30, 0, 0, time.UTC),
	}

	row := expenseRow(rec)
	if len(row) != 5 {
		t.Fatalf("expected 5 columns, got %d", len(row))
	}
	if row[0] != "2026-03-07" {
		t.Errorf("date column = %v, want 2006-01-02 format", row[0])
	}
	if row[1] != "u1" || row[2] != "groceries" || row[3] != "weekly shop" {
		t.Errorf("unexpected columns: %v", row)
	}
	if row[4] != 12.5 {
		t.Errorf("amount column = %v, want 12.5", row[4])
	}
}
