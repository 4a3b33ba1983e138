package harness

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Golden files live in testdata/golden. To regenerate after an intentional
// artifact change:
//
//	go test ./internal/harness -update

func TestRunWithGolden_LoginSuccess(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/login_success.yaml")
	require.NoError(t, err)

	require.NoError(t, RunWithGolden(t, scenario))
}

func TestRunWithGolden_TransferFailure(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/transfer_failure.yaml")
	require.NoError(t, err)

	require.NoError(t, RunWithGolden(t, scenario))
}
