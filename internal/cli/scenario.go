package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vigil-run/vigil/internal/harness"
	"github.com/vigil-run/vigil/internal/trace"
)

// ScenarioResult is the payload for the scenario command.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// NewScenarioCommand creates the scenario command.
func NewScenarioCommand(rootOpts *RootOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "scenario <scenario-file>",
		Short: "Run a conformance scenario",
		Long: `Run a conformance scenario through the trace emitter.

The scenario's steps are replayed with a deterministic clock, the trace
is finalized, and the scenario's assertions are evaluated. Exit code 1
means one or more assertions failed.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(rootOpts, args[0], outPath, cmd)
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "write the finalized trace artifact to this file")

	return cmd
}

func runScenario(opts *RootOptions, path, outPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		_ = formatter.Error("E_SCENARIO_LOAD", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}

	formatter.VerboseLog("running scenario %s (%d steps)", scenario.Name, len(scenario.Steps))

	result, err := harness.Run(scenario)
	if err != nil {
		_ = formatter.Error("E_SCENARIO_RUN", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to run scenario", err)
	}

	if outPath != "" {
		if err := trace.WriteFile(outPath, result.Trace); err != nil {
			_ = formatter.Error("E_TRACE_WRITE", err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to write trace artifact", err)
		}
		formatter.VerboseLog("wrote trace artifact to %s", outPath)
	}

	response := ScenarioResult{
		Name:   scenario.Name,
		Pass:   result.Pass,
		Errors: result.Errors,
	}

	if formatter.Format == "json" {
		if err := formatter.Success(response); err != nil {
			return err
		}
	} else if result.Pass {
		fmt.Fprintf(formatter.Writer, "✓ %s passed\n", scenario.Name)
	} else {
		fmt.Fprintf(formatter.Writer, "✗ %s failed\n", scenario.Name)
		for _, msg := range result.Errors {
			fmt.Fprintln(formatter.Writer, msg)
		}
	}

	if !result.Pass {
		return NewExitError(ExitFailure, fmt.Sprintf("scenario failed with %d assertion error(s)", len(result.Errors)))
	}
	return nil
}
