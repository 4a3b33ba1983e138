package harness

import (
	"fmt"
	"strings"

	"github.com/vigil-run/vigil/internal/payload"
	"github.com/vigil-run/vigil/internal/trace"
)

// AssertionError is returned when an assertion fails.
// It includes expected and actual context to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// EvaluateAssertions runs all assertions against a result and returns the
// failure messages. An empty slice means every assertion held.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var failures []string
	for _, assertion := range assertions {
		var err error
		switch assertion.Type {
		case AssertEventCount:
			err = assertEventCount(result.Trace, assertion)
		case AssertContainsEvent:
			err = assertContainsEvent(result.Trace, assertion)
		case AssertTracePassed:
			err = assertTracePassed(result.Trace, assertion)
		case AssertRedacted:
			err = assertRedacted(result.Trace, assertion)
		default:
			err = fmt.Errorf("unknown assertion type %q", assertion.Type)
		}
		if err != nil {
			failures = append(failures, err.Error())
		}
	}
	return failures
}

// assertEventCount checks the trace holds exactly Count events, optionally
// restricted to one event type.
func assertEventCount(tr trace.Trace, assertion Assertion) error {
	count := 0
	for _, event := range tr.Events {
		if assertion.EventType == "" || string(event.Type) == assertion.EventType {
			count++
		}
	}

	if count != assertion.Count {
		label := "events"
		if assertion.EventType != "" {
			label = assertion.EventType + " events"
		}
		return &AssertionError{
			Type:     AssertEventCount,
			Expected: fmt.Sprintf("%d %s", assertion.Count, label),
			Actual:   fmt.Sprintf("%d %s", count, label),
		}
	}
	return nil
}

// assertContainsEvent checks an event of the given type (and optionally
// function or expression) appears in the trace.
func assertContainsEvent(tr trace.Trace, assertion Assertion) error {
	for _, event := range tr.Events {
		if string(event.Type) != assertion.EventType {
			continue
		}
		if assertion.Function != "" && !dataEquals(event.Data, "function", assertion.Function) {
			continue
		}
		if assertion.Expression != "" && !dataEquals(event.Data, "expression", assertion.Expression) {
			continue
		}
		return nil
	}

	want := assertion.EventType
	if assertion.Function != "" {
		want += " function=" + assertion.Function
	}
	if assertion.Expression != "" {
		want += " expression=" + assertion.Expression
	}
	return &AssertionError{
		Type:     AssertContainsEvent,
		Expected: fmt.Sprintf("event matching %s", want),
		Actual:   "not found in trace",
	}
}

// assertTracePassed checks the finalized verdict.
func assertTracePassed(tr trace.Trace, assertion Assertion) error {
	if tr.Metadata.Passed != assertion.Passed {
		return &AssertionError{
			Type:     AssertTracePassed,
			Expected: fmt.Sprintf("passed=%v", assertion.Passed),
			Actual:   fmt.Sprintf("passed=%v", tr.Metadata.Passed),
		}
	}
	return nil
}

// assertRedacted checks the key appears nowhere in event inputs, event data
// payloads, or the initial state snapshot. This is how scenarios prove
// sensitive keys never reach the artifact.
func assertRedacted(tr trace.Trace, assertion Assertion) error {
	if location := findKey(tr, assertion.Key); location != "" {
		return &AssertionError{
			Type:     AssertRedacted,
			Expected: fmt.Sprintf("key %q absent from artifact", assertion.Key),
			Actual:   fmt.Sprintf("found in %s", location),
		}
	}
	return nil
}

// findKey returns a human-readable location of the key in the trace, or ""
// if the key is absent.
func findKey(tr trace.Trace, key string) string {
	if objectHasKey(tr.InitialState, key) {
		return "initial_state"
	}
	for i, event := range tr.Events {
		if objectHasKey(event.Input, key) {
			return fmt.Sprintf("events[%d].input", i)
		}
		if objectHasKey(event.Data, key) {
			return fmt.Sprintf("events[%d].data", i)
		}
	}
	return ""
}

// objectHasKey reports whether the key exists anywhere in the object,
// including nested objects and arrays.
func objectHasKey(obj payload.Object, key string) bool {
	for k, v := range obj {
		if k == key {
			return true
		}
		if valueHasKey(v, key) {
			return true
		}
	}
	return false
}

func valueHasKey(v payload.Value, key string) bool {
	switch val := v.(type) {
	case payload.Object:
		return objectHasKey(val, key)
	case payload.Array:
		for _, item := range val {
			if valueHasKey(item, key) {
				return true
			}
		}
	}
	return false
}

// dataEquals reports whether data[key] is the given string.
func dataEquals(data payload.Object, key, want string) bool {
	s, ok := data[key].(payload.String)
	return ok && string(s) == want
}
