package trace

import (
	"bytes"
	"encoding/json"

	"github.com/vigil-run/vigil/internal/payload"
)

// EventType discriminates trace events.
type EventType string

const (
	EventCall        EventType = "call"
	EventReturn      EventType = "return"
	EventStateChange EventType = "state_change"
	EventCheck       EventType = "check"
	EventError       EventType = "error"
)

// ErrorInfo carries the machine code and message of an error event.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// EntityStoreSnapshot is a snapshot of entity state keyed by entity type
// and id. Reserved for state_before/state_after; the emitter's public
// operations do not populate it.
type EntityStoreSnapshot struct {
	Entities map[string]payload.Object `json:"entities"`
}

// Event is a single entry in a trace. Events are append-only; their order
// is emission order and is part of the artifact's semantics.
type Event struct {
	// ID is unique within the owning emitter and strictly increasing.
	ID string `json:"id"`

	// Type discriminates the payload shape in Data.
	Type EventType `json:"type"`

	// Timestamp is milliseconds since epoch.
	Timestamp int64 `json:"timestamp"`

	// Data is the redacted type-specific payload.
	Data payload.Object `json:"data"`

	// Behavior names the behavior this event belongs to.
	Behavior string `json:"behavior,omitempty"`

	// Input holds redacted call arguments (call events).
	Input payload.Object `json:"input,omitempty"`

	// Output holds the redacted result (return events).
	Output payload.Value `json:"output,omitempty"`

	// Error holds code and message (error events).
	Error *ErrorInfo `json:"error,omitempty"`

	StateBefore *EntityStoreSnapshot `json:"state_before,omitempty"`
	StateAfter  *EntityStoreSnapshot `json:"state_after,omitempty"`
}

// MarshalJSON implements json.Marshaler for Event. Call events always carry
// an input object, even for zero-argument calls: the artifact contract is
// `"input": {}`, which omitempty on an empty map would drop.
func (e Event) MarshalJSON() ([]byte, error) {
	type alias struct {
		ID          string               `json:"id"`
		Type        EventType            `json:"type"`
		Timestamp   int64                `json:"timestamp"`
		Data        payload.Object       `json:"data"`
		Behavior    string               `json:"behavior,omitempty"`
		Input       *payload.Object      `json:"input,omitempty"`
		Output      payload.Value        `json:"output,omitempty"`
		Error       *ErrorInfo           `json:"error,omitempty"`
		StateBefore *EntityStoreSnapshot `json:"state_before,omitempty"`
		StateAfter  *EntityStoreSnapshot `json:"state_after,omitempty"`
	}
	a := alias{
		ID:          e.ID,
		Type:        e.Type,
		Timestamp:   e.Timestamp,
		Data:        e.Data,
		Behavior:    e.Behavior,
		Output:      e.Output,
		Error:       e.Error,
		StateBefore: e.StateBefore,
		StateAfter:  e.StateAfter,
	}
	switch {
	case e.Type == EventCall:
		input := e.Input
		if input == nil {
			input = payload.Object{}
		}
		a.Input = &input
	case len(e.Input) > 0:
		a.Input = &e.Input
	}
	return json.Marshal(a)
}

// UnmarshalJSON implements json.Unmarshaler for Event.
// Output is interface-typed, so it needs explicit decoding into the
// payload union.
func (e *Event) UnmarshalJSON(data []byte) error {
	type alias struct {
		ID          string               `json:"id"`
		Type        EventType            `json:"type"`
		Timestamp   int64                `json:"timestamp"`
		Data        payload.Object       `json:"data"`
		Behavior    string               `json:"behavior"`
		Input       payload.Object       `json:"input"`
		Output      json.RawMessage      `json:"output"`
		Error       *ErrorInfo           `json:"error"`
		StateBefore *EntityStoreSnapshot `json:"state_before"`
		StateAfter  *EntityStoreSnapshot `json:"state_after"`
	}
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	e.ID = a.ID
	e.Type = a.Type
	e.Timestamp = a.Timestamp
	e.Data = a.Data
	e.Behavior = a.Behavior
	e.Input = a.Input
	e.Error = a.Error
	e.StateBefore = a.StateBefore
	e.StateAfter = a.StateAfter

	e.Output = nil
	if len(a.Output) > 0 && !bytes.Equal(a.Output, []byte("null")) {
		out, err := payload.Unmarshal(a.Output)
		if err != nil {
			return err
		}
		e.Output = out
	}
	return nil
}

// Metadata describes a finalized trace.
type Metadata struct {
	TestName       string `json:"test_name"`
	Scenario       string `json:"scenario"`
	Implementation string `json:"implementation,omitempty"`
	Version        string `json:"version"`
	Environment    string `json:"environment"`
	Passed         bool   `json:"passed"`
	FailureIndex   *int   `json:"failure_index,omitempty"`
	Duration       int64  `json:"duration"`
}

// Trace is the finalized, immutable record of one monitored execution.
// It is a value; once produced by Finalize it is never mutated.
type Trace struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Domain       string          `json:"domain"`
	StartTime    int64           `json:"start_time"`
	EndTime      int64           `json:"end_time"`
	Events       []Event         `json:"events"`
	InitialState payload.Object  `json:"initial_state"`
	Snapshots    []payload.Value `json:"snapshots"`
	Metadata     Metadata        `json:"metadata"`
}

// UnmarshalJSON implements json.Unmarshaler for Trace.
// Snapshots is a slice of the payload union and needs explicit decoding.
func (t *Trace) UnmarshalJSON(data []byte) error {
	type alias struct {
		ID           string            `json:"id"`
		Name         string            `json:"name"`
		Domain       string            `json:"domain"`
		StartTime    int64             `json:"start_time"`
		EndTime      int64             `json:"end_time"`
		Events       []Event           `json:"events"`
		InitialState payload.Object    `json:"initial_state"`
		Snapshots    []json.RawMessage `json:"snapshots"`
		Metadata     Metadata          `json:"metadata"`
	}
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	t.ID = a.ID
	t.Name = a.Name
	t.Domain = a.Domain
	t.StartTime = a.StartTime
	t.EndTime = a.EndTime
	t.Events = a.Events
	t.InitialState = a.InitialState
	t.Metadata = a.Metadata

	t.Snapshots = make([]payload.Value, 0, len(a.Snapshots))
	for _, raw := range a.Snapshots {
		v, err := payload.Unmarshal(raw)
		if err != nil {
			return err
		}
		t.Snapshots = append(t.Snapshots, v)
	}
	return nil
}
