package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/vigil-run/vigil/internal/payload"
)

// RunWithGolden executes a scenario and compares the finalized artifact
// against a golden file under testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Golden files are the source of truth for expected artifact shape: field
// naming, redacted values, event IDs, timestamps. A scenario whose replay
// drifts from its golden file fails the test.
//
// Returns error if scenario execution or serialization fails; assertion
// failures and golden mismatches fail t directly.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	for _, msg := range result.Errors {
		t.Error(msg)
	}

	artifactJSON, err := snapshotJSON(scenario.Name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, artifactJSON)

	return nil
}

// snapshotJSON serializes the result's trace in canonical form, wrapped
// with the scenario name.
func snapshotJSON(scenarioName string, result *Result) ([]byte, error) {
	// Round-trip through the payload union: canonical marshaling is defined
	// over payload values, not arbitrary structs.
	traceJSON, err := json.Marshal(result.Trace)
	if err != nil {
		return nil, err
	}
	traceValue, err := payload.Unmarshal(traceJSON)
	if err != nil {
		return nil, err
	}

	snapshot := payload.Object{
		"scenario_name": payload.String(scenarioName),
		"trace":         traceValue,
	}
	return payload.MarshalCanonical(snapshot)
}
