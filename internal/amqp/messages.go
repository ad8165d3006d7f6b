package amqp

import (
	"encoding/json"
	"fmt"

	"github.com/Neruaka/budget-app/internal/core"
)

// encodeEvent serializes a domain event for the wire. The payload travels
// as-is; consumers pick the fields they need by event kind.
func encodeEvent(ev core.Event) ([]byte, error) {
	if ev.Kind == "" {
		return nil, fmt.Errorf("event kind is empty")
	}
	return json.Marshal(ev)
}

func decodeEvent(data []byte) (core.Event, error) {
	var ev core.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return core.Event{}, err
	}
	if ev.Kind == "" {
		return core.Event{}, fmt.Errorf("event kind is empty")
	}
	return ev, nil
}
