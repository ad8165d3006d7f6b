// Package worker consumes domain events off the queue and turns them into
// notifications and spreadsheet exports.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Neruaka/budget-app/internal/core"
	"github.com/Neruaka/budget-app/internal/ports"
)

// ExpenseExporter mirrors an expense into an external reporting sink.
type ExpenseExporter interface {
	AppendExpense(ctx context.Context, rec core.ExpenseRecord) error
}

// NotificationWorker reacts to domain events. BudgetExceeded becomes an
// overspend notification; ExpenseCreated is exported to the reporting
// sheet when an exporter is configured.
type NotificationWorker struct {
	expenses ports.ExpenseRepository
	exporter ExpenseExporter
}

func NewNotificationWorker(expenses ports.ExpenseRepository, exporter ExpenseExporter) *NotificationWorker {
	return &NotificationWorker{
		expenses: expenses,
		exporter: exporter,
	}
}

// HandleEvent processes one event. Returning an error requeues the
// delivery, so only transient failures bubble up; malformed payloads and
// unknown kinds are logged and dropped.
func (w *NotificationWorker) HandleEvent(ctx context.Context, ev core.Event) error {
	switch ev.Kind {
	case core.EventBudgetExceeded:
		w.notifyBudgetExceeded(ctx, ev)
		return nil
	case core.EventExpenseCreated:
		return w.exportExpense(ctx, ev)
	default:
		slog.WarnContext(ctx, "Ignoring event of unknown kind", "kind", ev.Kind)
		return nil
	}
}

func (w *NotificationWorker) notifyBudgetExceeded(ctx context.Context, ev core.Event) {
	slog.WarnContext(ctx, "Budget exceeded",
		"budgetId", payloadString(ev, "budgetId"),
		"userId", payloadString(ev, "userId"),
		"maxAmount", ev.Payload["maxAmount"],
		"spentAmount", ev.Payload["spentAmount"],
		"occurredAt", ev.OccurredAt)
}

// exportExpense fetches the full expense from storage; the event only
// carries the id. An expense deleted before the event was processed is
// not an error.
func (w *NotificationWorker) exportExpense(ctx context.Context, ev core.Event) error {
	if w.exporter == nil {
		return nil
	}

	id := payloadString(ev, "expenseId")
	if id == "" {
		slog.ErrorContext(ctx, "ExpenseCreated event without expenseId", "payload", ev.Payload)
		return nil
	}

	expense, err := w.expenses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrExpenseNotFound) {
			slog.WarnContext(ctx, "Expense gone before export, skipping", "expenseId", id)
			return nil
		}
		return fmt.Errorf("load expense %s: %w", id, err)
	}

	if err := w.exporter.AppendExpense(ctx, expense.Record()); err != nil {
		return fmt.Errorf("export expense %s: %w", id, err)
	}

	slog.InfoContext(ctx, "Expense exported", "expenseId", id)
	return nil
}

func payloadString(ev core.Event, key string) string {
	s, _ := ev.Payload[key].(string)
	return s
}
