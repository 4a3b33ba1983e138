package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loginScenarioYAML = `name: cli_login
description: Login call with a passing verdict.
domain: Auth
behavior: Login
steps:
  - kind: call
    function: Login
    args:
      email: alice@example.com
      password: secret123
  - kind: return
    function: Login
    result:
      session_id: abc123
    duration: 12
passed: true
assertions:
  - type: event_count
    count: 2
  - type: trace_passed
    passed: true
  - type: redacted
    key: password
`

func TestScenarioCommand_Pass(t *testing.T) {
	path := writeTempFile(t, "scenario.yaml", loginScenarioYAML)

	out, err := executeCommand(t, "scenario", path)
	require.NoError(t, err)
	assert.Contains(t, out, "cli_login passed")
}

func TestScenarioCommand_FailingAssertion(t *testing.T) {
	path := writeTempFile(t, "scenario.yaml", `name: cli_fail
description: Event count never matches.
domain: Auth
behavior: Login
steps:
  - kind: call
    function: Login
passed: true
assertions:
  - type: event_count
    count: 99
`)

	out, err := executeCommand(t, "scenario", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "cli_fail failed")
	assert.Contains(t, out, "event_count")
}

func TestScenarioCommand_JSONOutput(t *testing.T) {
	path := writeTempFile(t, "scenario.yaml", loginScenarioYAML)

	out, err := executeCommand(t, "--format", "json", "scenario", path)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "cli_login", data["name"])
	assert.Equal(t, true, data["pass"])
}

func TestScenarioCommand_WritesArtifact(t *testing.T) {
	path := writeTempFile(t, "scenario.yaml", loginScenarioYAML)
	outPath := filepath.Join(t.TempDir(), "artifact.json")

	_, err := executeCommand(t, "scenario", path, "--out", outPath)
	require.NoError(t, err)

	raw, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "trace-test-default")
	assert.NotContains(t, string(raw), "secret123")
}

func TestScenarioCommand_InvalidFile(t *testing.T) {
	path := writeTempFile(t, "scenario.yaml", "steps: [unclosed")

	_, err := executeCommand(t, "scenario", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
