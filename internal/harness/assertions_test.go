package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigil-run/vigil/internal/payload"
	"github.com/vigil-run/vigil/internal/testutil"
	"github.com/vigil-run/vigil/internal/trace"
)

// buildResult replays a few events and wraps the finalized trace.
func buildResult(t *testing.T, passed bool) *Result {
	t.Helper()
	e := trace.NewEmitterWithOptions("Auth", "Login", trace.Options{
		Clock:   testutil.NewClock(1000, 10),
		TraceID: "trace-assert",
	})
	e.EmitCall("Login", payload.Object{"email": payload.String("a@b.co")})
	e.EmitCheck("result != null", passed, "postcondition", nil, nil, "")
	e.EmitReturn("Login", payload.Object{"ok": payload.Bool(passed)}, 5)
	return NewResult(e.Finalize(passed))
}

func TestAssertEventCount(t *testing.T) {
	result := buildResult(t, true)

	assert.NoError(t, assertEventCount(result.Trace, Assertion{Type: AssertEventCount, Count: 3}))
	assert.NoError(t, assertEventCount(result.Trace, Assertion{
		Type: AssertEventCount, EventType: "call", Count: 1,
	}))

	err := assertEventCount(result.Trace, Assertion{Type: AssertEventCount, Count: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected: 5 events")
	assert.Contains(t, err.Error(), "Actual: 3 events")
}

func TestAssertContainsEvent(t *testing.T) {
	result := buildResult(t, true)

	assert.NoError(t, assertContainsEvent(result.Trace, Assertion{
		Type: AssertContainsEvent, EventType: "call", Function: "Login",
	}))
	assert.NoError(t, assertContainsEvent(result.Trace, Assertion{
		Type: AssertContainsEvent, EventType: "check", Expression: "result != null",
	}))

	err := assertContainsEvent(result.Trace, Assertion{
		Type: AssertContainsEvent, EventType: "call", Function: "Logout",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found in trace")
}

func TestAssertTracePassed(t *testing.T) {
	passing := buildResult(t, true)
	failing := buildResult(t, false)

	assert.NoError(t, assertTracePassed(passing.Trace, Assertion{Type: AssertTracePassed, Passed: true}))
	assert.NoError(t, assertTracePassed(failing.Trace, Assertion{Type: AssertTracePassed, Passed: false}))

	err := assertTracePassed(passing.Trace, Assertion{Type: AssertTracePassed, Passed: false})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "passed=false")
}

func TestAssertRedacted(t *testing.T) {
	result := buildResult(t, true)

	// password never appears: the emitter dropped it before storage.
	assert.NoError(t, assertRedacted(result.Trace, Assertion{Type: AssertRedacted, Key: "password"}))

	// An existing key is reported with its location.
	err := assertRedacted(result.Trace, Assertion{Type: AssertRedacted, Key: "email"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "events[0].input")
}

func TestAssertRedacted_NestedKey(t *testing.T) {
	e := trace.NewEmitterWithOptions("Auth", "Login", trace.Options{
		Clock:   testutil.NewClock(1000, 10),
		TraceID: "trace-nested",
	})
	e.EmitReturn("Login", payload.Object{
		"profile": payload.Object{"nickname": payload.String("al")},
	}, 1)
	result := NewResult(e.Finalize(true))

	err := assertRedacted(result.Trace, Assertion{Type: AssertRedacted, Key: "nickname"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "events[0].data")
}

func TestEvaluateAssertions_CollectsAllFailures(t *testing.T) {
	result := buildResult(t, true)

	failures := EvaluateAssertions(result, []Assertion{
		{Type: AssertEventCount, Count: 3},                  // passes
		{Type: AssertEventCount, Count: 9},                  // fails
		{Type: AssertTracePassed, Passed: false},            // fails
		{Type: AssertRedacted, Key: "password"},             // passes
		{Type: AssertContainsEvent, EventType: "error"},     // fails
	})

	assert.Len(t, failures, 3)
}
