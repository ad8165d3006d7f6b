package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Neruaka/budget-app/internal/core"
	"github.com/Neruaka/budget-app/internal/memory"
)

type fakeExporter struct {
	rows []core.ExpenseRecord
	err  error
}

func (f *fakeExporter) AppendExpense(_ context.Context, rec core.ExpenseRecord) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, rec)
	return nil
}

func seedExpense(t *testing.T, store *memory.ExpenseStore, id string) {
	t.Helper()
	e, err := core.NewExpense(id, core.Money{Cents: 1_500}, "groceries", "u1", "", time.Now())
	require.NoError(t, err)
	e.DrainEvents()
	require.NoError(t, store.Save(context.Background(), e))
}

func createdEvent(id string) core.Event {
	return core.Event{
		Kind:       core.EventExpenseCreated,
		Payload:    map[string]any{"expenseId": id},
		OccurredAt: time.Now(),
	}
}

func TestHandleExpenseCreatedExports(t *testing.T) {
	store := memory.NewExpenseStore()
	seedExpense(t, store, "e1")
	exporter := &fakeExporter{}
	w := NewNotificationWorker(store, exporter)

	require.NoError(t, w.HandleEvent(context.Background(), createdEvent("e1")))
	require.Len(t, exporter.rows, 1)
	assert.Equal(t, "e1", exporter.rows[0].ID)
	assert.Equal(t, int64(1_500), exporter.rows[0].Amount.Cents)
}

func TestHandleExpenseCreatedMissingExpenseIsDropped(t *testing.T) {
	w := NewNotificationWorker(memory.NewExpenseStore(), &fakeExporter{})

	// Deleted before the event was processed: ack, don't requeue.
	assert.NoError(t, w.HandleEvent(context.Background(), createdEvent("gone")))
}

func TestHandleExpenseCreatedExportFailureRequeues(t *testing.T) {
	store := memory.NewExpenseStore()
	seedExpense(t, store, "e1")
	w := NewNotificationWorker(store, &fakeExporter{err: errors.New("quota exhausted")})

	assert.Error(t, w.HandleEvent(context.Background(), createdEvent("e1")))
}

func TestHandleEventWithoutExporter(t *testing.T) {
	store := memory.NewExpenseStore()
	seedExpense(t, store, "e1")
	w := NewNotificationWorker(store, nil)

	assert.NoError(t, w.HandleEvent(context.Background(), createdEvent("e1")))
}

func TestHandleBudgetExceededAndUnknownKinds(t *testing.T) {
	w := NewNotificationWorker(memory.NewExpenseStore(), &fakeExporter{})

	exceeded := core.Event{
		Kind: core.EventBudgetExceeded,
		Payload: map[string]any{
			"budgetId":    "b1",
			"userId":      "u1",
			"maxAmount":   100.0,
			"spentAmount": 150.0,
		},
		OccurredAt: time.Now(),
	}
	assert.NoError(t, w.HandleEvent(context.Background(), exceeded))
	assert.NoError(t, w.HandleEvent(context.Background(), core.Event{Kind: "SomethingElse"}))
}
