package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
// A scenario replays one behavior execution through the emitter and asserts
// on the finalized trace.
type Scenario struct {
	// Name uniquely identifies this scenario. It is also the golden file
	// name for RunWithGolden.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Domain is the business domain the emitter is bound to.
	Domain string `yaml:"domain"`

	// Behavior is the behavior name the emitter is bound to.
	Behavior string `yaml:"behavior"`

	// TraceID is an optional fixed trace identifier for deterministic
	// artifacts. If empty, defaults to "trace-test-default".
	TraceID string `yaml:"trace_id,omitempty"`

	// InitialState is an optional pre-execution state snapshot, captured
	// (and redacted) before the steps run.
	InitialState map[string]interface{} `yaml:"initial_state,omitempty"`

	// Steps are the emit operations to replay, in order.
	Steps []Step `yaml:"steps"`

	// Passed is the verdict handed to finalize.
	Passed bool `yaml:"passed"`

	// Assertions validate the finalized trace.
	// Supported types: event_count, contains_event, trace_passed, redacted
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one emit operation. Kind selects which fields apply:
//
//	call:         function, args
//	return:       function, result, duration
//	state_change: path, old_value, new_value, source
//	check:        expression, passed, category, expected, actual, message
//	error:        message, code, stack
type Step struct {
	Kind string `yaml:"kind"`

	Function string                 `yaml:"function,omitempty"`
	Args     map[string]interface{} `yaml:"args,omitempty"`

	Result   interface{} `yaml:"result,omitempty"`
	Duration int64       `yaml:"duration,omitempty"`

	Path     []string    `yaml:"path,omitempty"`
	OldValue interface{} `yaml:"old_value,omitempty"`
	NewValue interface{} `yaml:"new_value,omitempty"`
	Source   string      `yaml:"source,omitempty"`

	Expression string      `yaml:"expression,omitempty"`
	Passed     bool        `yaml:"passed,omitempty"`
	Category   string      `yaml:"category,omitempty"`
	Expected   interface{} `yaml:"expected,omitempty"`
	Actual     interface{} `yaml:"actual,omitempty"`
	Message    string      `yaml:"message,omitempty"`

	Code  string `yaml:"code,omitempty"`
	Stack string `yaml:"stack,omitempty"`
}

// Step kind constants.
const (
	StepCall        = "call"
	StepReturn      = "return"
	StepStateChange = "state_change"
	StepCheck       = "check"
	StepError       = "error"
)

// Assertion validates the finalized trace.
type Assertion struct {
	// Type specifies the assertion type:
	// - "event_count": trace holds exactly Count events (of EventType if set)
	// - "contains_event": an event matching EventType/Function/Expression exists
	// - "trace_passed": metadata.passed equals Passed
	// - "redacted": Key appears nowhere in inputs, data, or initial state
	Type string `yaml:"type"`

	// EventType filters by event type (event_count, contains_event).
	EventType string `yaml:"event_type,omitempty"`

	// Function is the expected function name (contains_event).
	Function string `yaml:"function,omitempty"`

	// Expression is the expected check expression (contains_event).
	Expression string `yaml:"expression,omitempty"`

	// Count is the expected number of events (event_count).
	Count int `yaml:"count,omitempty"`

	// Passed is the expected verdict (trace_passed).
	Passed bool `yaml:"passed,omitempty"`

	// Key is the forbidden key (redacted).
	Key string `yaml:"key,omitempty"`
}

// Assertion type constants.
const (
	AssertEventCount    = "event_count"
	AssertContainsEvent = "contains_event"
	AssertTracePassed   = "trace_passed"
	AssertRedacted      = "redacted"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Domain == "" {
		return fmt.Errorf("domain is required")
	}

	if s.Behavior == "" {
		return fmt.Errorf("behavior is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateStep validates a single step based on its kind.
func validateStep(index int, step *Step) error {
	switch step.Kind {
	case StepCall:
		if step.Function == "" {
			return fmt.Errorf("steps[%d]: function is required for call", index)
		}
	case StepReturn:
		if step.Function == "" {
			return fmt.Errorf("steps[%d]: function is required for return", index)
		}
	case StepStateChange:
		if len(step.Path) == 0 {
			return fmt.Errorf("steps[%d]: path is required for state_change", index)
		}
	case StepCheck:
		if step.Expression == "" {
			return fmt.Errorf("steps[%d]: expression is required for check", index)
		}
	case StepError:
		if step.Message == "" {
			return fmt.Errorf("steps[%d]: message is required for error", index)
		}
	case "":
		return fmt.Errorf("steps[%d]: kind is required", index)
	default:
		return fmt.Errorf("steps[%d]: unknown step kind %q", index, step.Kind)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertEventCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for event_count", index)
		}
	case AssertContainsEvent:
		if a.EventType == "" {
			return fmt.Errorf("assertions[%d]: event_type is required for contains_event", index)
		}
	case AssertTracePassed:
		// No extra fields required; Passed defaults to false.
	case AssertRedacted:
		if a.Key == "" {
			return fmt.Errorf("assertions[%d]: key is required for redacted", index)
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
