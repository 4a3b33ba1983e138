package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/vigil-run/vigil/internal/payload"
	"github.com/vigil-run/vigil/internal/testutil"
	"github.com/vigil-run/vigil/internal/trace"
)

// Deterministic defaults for scenario execution. Every scenario starts at
// the same epoch and ticks in fixed steps, so artifacts are reproducible.
const (
	defaultTraceID  = "trace-test-default"
	baseTimeMillis  = 1000
	clockStepMillis = 10
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success: every assertion held.
	Pass bool `json:"pass"`

	// Trace is the finalized artifact produced by the replay.
	Trace trace.Trace `json:"trace"`

	// Errors contains assertion failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result wrapping a finalized trace.
func NewResult(tr trace.Trace) *Result {
	return &Result{
		Pass:   true,
		Trace:  tr,
		Errors: []string{},
	}
}

// AddError adds an assertion failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Run executes a scenario and returns the result.
//
// Each scenario runs through a fresh emitter with a deterministic clock and
// a fixed trace ID, so repeated runs produce identical artifacts.
//
// Execution flow:
//  1. Create emitter with deterministic clock
//  2. Capture initial state if present
//  3. Replay steps in order
//  4. Finalize with the scenario's verdict
//  5. Evaluate assertions against the finalized trace
func Run(scenario *Scenario) (*Result, error) {
	traceID := scenario.TraceID
	if traceID == "" {
		traceID = defaultTraceID
	}

	emitter := trace.NewEmitterWithOptions(scenario.Domain, scenario.Behavior, trace.Options{
		Clock:   testutil.NewClock(baseTimeMillis, clockStepMillis),
		TraceID: traceID,
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests

	if scenario.InitialState != nil {
		state, err := payload.ObjectFromAny(scenario.InitialState)
		if err != nil {
			return nil, fmt.Errorf("failed to convert initial state: %w", err)
		}
		emitter.CaptureInitialState(state)
	}

	for i, step := range scenario.Steps {
		if err := replayStep(emitter, step); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Kind, err)
		}
		logger.Info("step replayed", "step", i, "kind", step.Kind)
	}

	result := NewResult(emitter.Finalize(scenario.Passed))

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}

	return result, nil
}

// replayStep dispatches one step to the matching emit operation.
func replayStep(emitter *trace.Emitter, step Step) error {
	switch step.Kind {
	case StepCall:
		args, err := payload.ObjectFromAny(step.Args)
		if err != nil {
			return fmt.Errorf("failed to convert args: %w", err)
		}
		emitter.EmitCall(step.Function, args)

	case StepReturn:
		result, err := payload.FromAny(step.Result)
		if err != nil {
			return fmt.Errorf("failed to convert result: %w", err)
		}
		emitter.EmitReturn(step.Function, result, step.Duration)

	case StepStateChange:
		oldValue, err := payload.FromAny(step.OldValue)
		if err != nil {
			return fmt.Errorf("failed to convert old_value: %w", err)
		}
		newValue, err := payload.FromAny(step.NewValue)
		if err != nil {
			return fmt.Errorf("failed to convert new_value: %w", err)
		}
		emitter.EmitStateChange(step.Path, oldValue, newValue, step.Source)

	case StepCheck:
		var expected, actual payload.Value
		if step.Expected != nil {
			v, err := payload.FromAny(step.Expected)
			if err != nil {
				return fmt.Errorf("failed to convert expected: %w", err)
			}
			expected = v
		}
		if step.Actual != nil {
			v, err := payload.FromAny(step.Actual)
			if err != nil {
				return fmt.Errorf("failed to convert actual: %w", err)
			}
			actual = v
		}
		emitter.EmitCheck(step.Expression, step.Passed, step.Category, expected, actual, step.Message)

	case StepError:
		emitter.EmitError(step.Message, step.Code, step.Stack)

	default:
		return fmt.Errorf("unknown step kind %q", step.Kind)
	}
	return nil
}
