package trace

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigil-run/vigil/internal/payload"
	"github.com/vigil-run/vigil/internal/testutil"
)

func TestTraceJSONFieldNaming(t *testing.T) {
	e := NewEmitterWithOptions("Auth", "Login", Options{
		Clock:   testutil.NewClock(1700000000000, 10),
		TraceID: "trace_naming",
	})
	e.EmitCall("Login", payload.Object{"email": payload.String("x@y.z")})
	tr := e.Finalize(true)

	raw, err := json.Marshal(tr)
	require.NoError(t, err)

	var top map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &top))

	for _, key := range []string{
		"id", "name", "domain", "start_time", "end_time",
		"events", "initial_state", "snapshots", "metadata",
	} {
		assert.Contains(t, top, key)
	}

	var meta map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(top["metadata"], &meta))
	for _, key := range []string{
		"test_name", "scenario", "version", "environment",
		"passed", "duration",
	} {
		assert.Contains(t, meta, key)
	}

	var events []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(top["events"], &events))
	require.Len(t, events, 1)
	for _, key := range []string{"id", "type", "timestamp", "data", "behavior", "input"} {
		assert.Contains(t, events[0], key)
	}
	// Unset optional fields stay out of the encoding.
	assert.NotContains(t, events[0], "output")
	assert.NotContains(t, events[0], "error")
}

func TestCallEventKeepsEmptyInput(t *testing.T) {
	e := NewEmitterWithOptions("Health", "Ping", Options{
		Clock:   testutil.NewClock(1, 1),
		TraceID: "trace_empty_input",
	})
	e.EmitCall("Ping", payload.Object{})
	e.EmitReturn("Ping", payload.String("pong"), 1)
	tr := e.Finalize(true)

	raw, err := json.Marshal(tr)
	require.NoError(t, err)

	var top map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &top))
	var events []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(top["events"], &events))
	require.Len(t, events, 2)

	// Zero-argument calls still carry the input object.
	require.Contains(t, events[0], "input")
	assert.JSONEq(t, `{}`, string(events[0]["input"]))
	// Non-call events without one leave it out entirely.
	assert.NotContains(t, events[1], "input")
}

func TestEmptyTraceMarshalsEventsAsArray(t *testing.T) {
	e := NewEmitterWithOptions("Auth", "Login", Options{
		Clock:   testutil.NewClock(1, 1),
		TraceID: "trace_empty",
	})
	tr := e.Finalize(true)

	raw, err := json.Marshal(tr)
	require.NoError(t, err)

	assert.Contains(t, string(raw), `"events":[]`)
	assert.Contains(t, string(raw), `"snapshots":[]`)
}

func TestTraceRoundTrip(t *testing.T) {
	e := NewEmitterWithOptions("Billing", "Charge", Options{
		Clock:   testutil.NewClock(1700000000000, 7),
		TraceID: "trace_roundtrip",
	})
	e.CaptureInitialState(payload.Object{"balance": payload.Int(100)})
	e.EmitCall("Charge", payload.Object{"amount": payload.Int(25)})
	e.EmitCheck("amount > 0", true, "precondition", payload.Bool(true), payload.Bool(true), "")
	e.EmitReturn("Charge", payload.Object{"ok": payload.Bool(true)}, 3)
	e.EmitError("declined", "E_DECLINED", "")
	original := e.Finalize(false)

	raw, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Trace
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, original.ID, decoded.ID)
	assert.Equal(t, original.StartTime, decoded.StartTime)
	assert.Equal(t, original.Metadata, decoded.Metadata)
	require.Len(t, decoded.Events, len(original.Events))
	assert.Equal(t, original.Events[0].Input, decoded.Events[0].Input)
	assert.Equal(t, original.Events[2].Output, decoded.Events[2].Output)
	require.NotNil(t, decoded.Events[3].Error)
	assert.Equal(t, "E_DECLINED", decoded.Events[3].Error.Code)
	assert.Equal(t, original.InitialState, decoded.InitialState)

	// Re-encoding the decoded trace is byte-stable.
	again, err := json.Marshal(decoded)
	require.NoError(t, err)
	assert.Equal(t, string(raw), string(again))
}

func TestContentHashStable(t *testing.T) {
	make2 := func() Trace {
		e := NewEmitterWithOptions("Auth", "Login", Options{
			Clock:   testutil.NewClock(1700000000000, 5),
			TraceID: "trace_hash",
		})
		e.EmitCall("Login", payload.Object{"user": payload.String("alice")})
		return e.Finalize(true)
	}
	a := make2()
	b := make2()

	ha, err := a.ContentHash()
	require.NoError(t, err)
	hb, err := b.ContentHash()
	require.NoError(t, err)
	assert.Equal(t, ha, hb)
	assert.Len(t, ha, 64)

	c := make2()
	c.Metadata.Passed = false
	raw, err := json.Marshal(c)
	require.NoError(t, err)
	var decoded Trace
	require.NoError(t, json.Unmarshal(raw, &decoded))
	hc, err := decoded.ContentHash()
	require.NoError(t, err)
	assert.NotEqual(t, ha, hc)
}
