package trace

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/vigil-run/vigil/internal/payload"
	"github.com/vigil-run/vigil/internal/redact"
)

// Emitter accumulates trace events for one behavior execution.
//
// Emit operations never fail and never panic past the caller: they either
// append exactly one event or adjust internal bookkeeping. All payloads are
// redacted before storage.
type Emitter struct {
	traceID      string
	startTime    int64
	events       []Event
	initialState payload.Object
	domain       string
	behavior     string
	counter      Counter
	clock        Clock
}

// Options configures an Emitter beyond the defaults. The zero value gives
// production behavior: system clock, generated trace ID.
type Options struct {
	// Clock overrides the time source. Nil means SystemClock.
	Clock Clock

	// TraceID fixes the trace identifier. Empty means a generated
	// "trace_<millis>_<uuid>" id, collision-safe under concurrent
	// construction.
	TraceID string
}

// NewEmitter creates an emitter bound to one (domain, behavior) pair and
// records the start timestamp.
func NewEmitter(domain, behavior string) *Emitter {
	return NewEmitterWithOptions(domain, behavior, Options{})
}

// NewEmitterWithOptions creates an emitter with explicit options.
func NewEmitterWithOptions(domain, behavior string, opts Options) *Emitter {
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	traceID := opts.TraceID
	if traceID == "" {
		traceID = fmt.Sprintf("trace_%d_%s", clock.NowMillis(), uuid.NewString())
	}
	return &Emitter{
		traceID:      traceID,
		startTime:    clock.NowMillis(),
		events:       make([]Event, 0),
		initialState: payload.Object{},
		domain:       domain,
		behavior:     behavior,
		clock:        clock,
	}
}

// TraceID returns the identifier generated at construction.
func (e *Emitter) TraceID() string {
	return e.traceID
}

// CaptureInitialState redacts and stores a snapshot of pre-execution state.
// A later call overwrites the previous snapshot; captures do not accumulate.
func (e *Emitter) CaptureInitialState(state payload.Object) {
	e.initialState = redact.DeepObject(state)
}

// EmitCall records a function call. Arguments are deep-redacted and stored
// both in the event's input field and embedded in data.
func (e *Emitter) EmitCall(functionName string, args payload.Object) {
	redacted := redact.DeepObject(args)
	e.events = append(e.events, Event{
		ID:        e.nextEventID(),
		Type:      EventCall,
		Timestamp: e.clock.NowMillis(),
		Data: payload.Object{
			"kind":     payload.String("call"),
			"function": payload.String(functionName),
			"args":     redacted,
		},
		Behavior: e.behavior,
		Input:    redacted,
	})
}

// EmitReturn records a function return. The result is shallow-redacted and
// stored in output and data.
func (e *Emitter) EmitReturn(functionName string, result payload.Value, durationMs int64) {
	redacted := redact.Shallow(result)
	e.events = append(e.events, Event{
		ID:        e.nextEventID(),
		Type:      EventReturn,
		Timestamp: e.clock.NowMillis(),
		Data: payload.Object{
			"kind":     payload.String("return"),
			"function": payload.String(functionName),
			"result":   redacted,
			"duration": payload.Int(durationMs),
		},
		Behavior: e.behavior,
		Output:   redacted,
	})
}

// EmitStateChange records a mutation of the state path, with both values
// shallow-redacted and a free-text source label.
func (e *Emitter) EmitStateChange(path []string, oldValue, newValue payload.Value, source string) {
	pathVal := make(payload.Array, len(path))
	for i, seg := range path {
		pathVal[i] = payload.String(seg)
	}
	e.events = append(e.events, Event{
		ID:        e.nextEventID(),
		Type:      EventStateChange,
		Timestamp: e.clock.NowMillis(),
		Data: payload.Object{
			"kind":     payload.String("state_change"),
			"path":     pathVal,
			"oldValue": redact.Shallow(oldValue),
			"newValue": redact.Shallow(newValue),
			"source":   payload.String(source),
		},
		Behavior: e.behavior,
	})
}

// EmitCheck records a constraint check. The expression is opaque text; the
// category (precondition, postcondition, invariant, other) is preserved as
// metadata only. Nil expected/actual and an empty message are omitted.
func (e *Emitter) EmitCheck(expression string, passed bool, category string, expected, actual payload.Value, message string) {
	data := payload.Object{
		"kind":       payload.String("check"),
		"expression": payload.String(expression),
		"passed":     payload.Bool(passed),
		"category":   payload.String(category),
	}
	if expected != nil {
		data["expected"] = redact.Shallow(expected)
	}
	if actual != nil {
		data["actual"] = redact.Shallow(actual)
	}
	if message != "" {
		data["message"] = payload.String(message)
	}

	e.events = append(e.events, Event{
		ID:        e.nextEventID(),
		Type:      EventCheck,
		Timestamp: e.clock.NowMillis(),
		Data:      data,
		Behavior:  e.behavior,
	})
}

// EmitError records an error event. An empty code defaults to UNKNOWN. The
// stack, if present, is unstructured text and is redacted as a whole string.
func (e *Emitter) EmitError(message, code, stack string) {
	if code == "" {
		code = "UNKNOWN"
	}
	data := payload.Object{
		"kind":    payload.String("error"),
		"message": payload.String(message),
		"code":    payload.String(code),
	}
	if stack != "" {
		data["stack"] = payload.String(redact.String(stack))
	}

	e.events = append(e.events, Event{
		ID:        e.nextEventID(),
		Type:      EventError,
		Timestamp: e.clock.NowMillis(),
		Data:      data,
		Behavior:  e.behavior,
		Error:     &ErrorInfo{Code: code, Message: message},
	})
}

// Finalize assembles an immutable Trace snapshot of the emitter's state at
// this instant. Internal state is not cleared: emitting more events and
// finalizing again yields a second, longer trace without affecting the
// first.
func (e *Emitter) Finalize(passed bool) Trace {
	endTime := e.clock.NowMillis()

	events := make([]Event, len(e.events))
	copy(events, e.events)

	return Trace{
		ID:           e.traceID,
		Name:         fmt.Sprintf("%s - %s", e.domain, e.behavior),
		Domain:       e.domain,
		StartTime:    e.startTime,
		EndTime:      endTime,
		Events:       events,
		InitialState: e.initialState,
		Snapshots:    make([]payload.Value, 0),
		Metadata: Metadata{
			TestName:    fmt.Sprintf("%s::%s", e.domain, e.behavior),
			Scenario:    e.behavior,
			Version:     "1.0.0",
			Environment: "runtime",
			Passed:      passed,
			Duration:    endTime - e.startTime,
		},
	}
}

// nextEventID stamps the next counter value and the current timestamp.
func (e *Emitter) nextEventID() string {
	return fmt.Sprintf("evt_%d_%d", e.counter.Next(), e.clock.NowMillis())
}
