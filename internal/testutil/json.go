package testutil

import (
	"encoding/json"
	"testing"

	"aw-go/internal/model"
)

// EventTypes decodes the type field of each raw event, in order.
func EventTypes(t *testing.T, events []json.RawMessage) []string {
	t.Helper()

	types := make([]string, 0, len(events))
	for _, raw := range events {
		var head struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(raw, &head); err != nil {
			t.Fatalf("failed to decode event %s: %v", raw, err)
		}
		types = append(types, head.Type)
	}
	return types
}

// FileChangeEvents decodes the file_change events out of a raw event list,
// skipping events of other types.
func FileChangeEvents(t *testing.T, events []json.RawMessage) []model.FileChangeEvent {
	t.Helper()

	var changes []model.FileChangeEvent
	for i, raw := range events {
		var head struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(raw, &head); err != nil {
			t.Fatalf("failed to decode event %d: %v", i, err)
		}
		if head.Type != model.EventFileChange {
			continue
		}
		var ev model.FileChangeEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			t.Fatalf("failed to decode file change event %d: %v", i, err)
		}
		changes = append(changes, ev)
	}
	return changes
}
