package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vigil-run/vigil/internal/trace"
)

// InspectSummary is the success payload for the inspect command.
type InspectSummary struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Domain       string         `json:"domain"`
	Passed       bool           `json:"passed"`
	Duration     int64          `json:"duration"`
	EventCount   int            `json:"event_count"`
	EventsByType map[string]int `json:"events_by_type"`
	ContentHash  string         `json:"content_hash"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <trace-file>",
		Short: "Inspect a trace artifact",
		Long: `Inspect a trace artifact written by the emitter.

Prints a summary and, in text mode, the event timeline. JSON mode emits
the summary as structured output.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runInspect(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	tr, err := trace.LoadFromFile(path)
	if err != nil {
		_ = formatter.Error("E_TRACE_READ", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load trace", err)
	}

	hash, err := tr.ContentHash()
	if err != nil {
		_ = formatter.Error("E_TRACE_HASH", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to hash trace", err)
	}

	summary := InspectSummary{
		ID:           tr.ID,
		Name:         tr.Name,
		Domain:       tr.Domain,
		Passed:       tr.Metadata.Passed,
		Duration:     tr.Metadata.Duration,
		EventCount:   len(tr.Events),
		EventsByType: map[string]int{},
		ContentHash:  hash,
	}
	for _, event := range tr.Events {
		summary.EventsByType[string(event.Type)]++
	}

	if formatter.Format == "json" {
		return formatter.Success(summary)
	}

	verdict := "passed"
	if !tr.Metadata.Passed {
		verdict = "failed"
	}
	fmt.Fprintf(formatter.Writer, "Trace %s (%s)\n", tr.ID, tr.Name)
	fmt.Fprintf(formatter.Writer, "  verdict:  %s\n", verdict)
	fmt.Fprintf(formatter.Writer, "  duration: %dms\n", tr.Metadata.Duration)
	fmt.Fprintf(formatter.Writer, "  events:   %d\n", len(tr.Events))
	fmt.Fprintf(formatter.Writer, "  hash:     %s\n", hash)

	fmt.Fprintln(formatter.Writer)
	fmt.Fprintln(formatter.Writer, "Timeline:")
	for i, event := range tr.Events {
		line := fmt.Sprintf("  [%d] %s %s", i, event.ID, event.Type)
		if event.Behavior != "" {
			line += " " + event.Behavior
		}
		if event.Error != nil {
			line += fmt.Sprintf(" (%s: %s)", event.Error.Code, event.Error.Message)
		}
		fmt.Fprintln(formatter.Writer, line)
	}

	return nil
}
