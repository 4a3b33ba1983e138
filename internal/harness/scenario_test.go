package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenarioFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_Valid(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/login_success.yaml")
	require.NoError(t, err)

	assert.Equal(t, "login_success", scenario.Name)
	assert.Equal(t, "Auth", scenario.Domain)
	assert.Equal(t, "Login", scenario.Behavior)
	assert.Equal(t, "trace-login-success", scenario.TraceID)
	assert.Len(t, scenario.Steps, 3)
	assert.Len(t, scenario.Assertions, 4)
	assert.True(t, scenario.Passed)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadScenario_MalformedYAML(t *testing.T) {
	path := writeScenarioFile(t, "steps: [unclosed")
	_, err := LoadScenario(path)
	assert.Error(t, err)
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenarioFile(t, `
name: typo_test
description: Catches misspelled keys.
domain: Auth
behavior: Login
steps:
  - kind: call
    function: Login
passed: true
assertion:
  - type: trace_passed
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assertion")
}

func TestLoadScenario_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "no name",
			content: `
description: d
domain: Auth
behavior: Login
steps:
  - kind: call
    function: F
assertions:
  - type: trace_passed
`,
			wantErr: "name is required",
		},
		{
			name: "no domain",
			content: `
name: n
description: d
behavior: Login
steps:
  - kind: call
    function: F
assertions:
  - type: trace_passed
`,
			wantErr: "domain is required",
		},
		{
			name: "no steps",
			content: `
name: n
description: d
domain: Auth
behavior: Login
assertions:
  - type: trace_passed
`,
			wantErr: "steps list is required",
		},
		{
			name: "no assertions",
			content: `
name: n
description: d
domain: Auth
behavior: Login
steps:
  - kind: call
    function: F
`,
			wantErr: "assertions list is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScenarioFile(t, tt.content)
			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateStep_Kinds(t *testing.T) {
	tests := []struct {
		name    string
		step    Step
		wantErr string
	}{
		{"call without function", Step{Kind: StepCall}, "function is required"},
		{"return without function", Step{Kind: StepReturn}, "function is required"},
		{"state_change without path", Step{Kind: StepStateChange}, "path is required"},
		{"check without expression", Step{Kind: StepCheck}, "expression is required"},
		{"error without message", Step{Kind: StepError}, "message is required"},
		{"missing kind", Step{}, "kind is required"},
		{"unknown kind", Step{Kind: "teleport"}, "unknown step kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateStep(0, &tt.step)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateAssertion_Types(t *testing.T) {
	tests := []struct {
		name    string
		a       Assertion
		wantErr string
	}{
		{"contains_event without event_type", Assertion{Type: AssertContainsEvent}, "event_type is required"},
		{"event_count negative", Assertion{Type: AssertEventCount, Count: -1}, "count must be non-negative"},
		{"redacted without key", Assertion{Type: AssertRedacted}, "key is required"},
		{"missing type", Assertion{}, "type is required"},
		{"unknown type", Assertion{Type: "vibes"}, "unknown assertion type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAssertion(0, &tt.a)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	assert.NoError(t, validateAssertion(0, &Assertion{Type: AssertTracePassed}))
	assert.NoError(t, validateAssertion(0, &Assertion{Type: AssertEventCount, Count: 0}))
}
