package core

import (
	"time"

	"github.com/google/uuid"
)

// Event kinds staged by the aggregates.
const (
	EventExpenseCreated = "ExpenseCreated"
	EventBudgetExceeded = "BudgetExceeded"
)

// Event records something that happened inside an aggregate. Events are
// staged on the aggregate and drained by the orchestrating service, which
// owns any downstream delivery.
type Event struct {
	Kind       string         `json:"kind"`
	Payload    map[string]any `json:"payload"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// Recorder accumulates pending events for an aggregate. Embed it by value;
// aggregates are handled through pointers so the pending list is shared.
type Recorder struct {
	pending []Event
}

// Emit stages an event for later collection.
func (r *Recorder) Emit(kind string, payload map[string]any) {
	r.pending = append(r.pending, Event{
		Kind:       kind,
		Payload:    payload,
		OccurredAt: time.Now(),
	})
}

// DrainEvents returns the staged events and clears the pending list.
// A second call returns nil until something new is emitted.
func (r *Recorder) DrainEvents() []Event {
	events := r.pending
	r.pending = nil
	return events
}

// NewID returns a fresh opaque identifier for an aggregate.
func NewID() string {
	return uuid.NewString()
}
