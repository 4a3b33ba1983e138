package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vigil-run/vigil/internal/store"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		dbPath string
		domain string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived traces",
		Long: `List archived traces from the trace database.

Output order is deterministic: start time ascending, then trace ID.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, dbPath, domain, cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "vigil.db", "path to the trace database")
	cmd.Flags().StringVar(&domain, "domain", "", "only list traces for this domain")

	return cmd
}

func runList(opts *RootOptions, dbPath, domain string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.Open(dbPath)
	if err != nil {
		_ = formatter.Error("E_DB_OPEN", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()

	var summaries []store.TraceSummary
	if domain != "" {
		summaries, err = st.ListTracesByDomain(ctx, domain)
	} else {
		summaries, err = st.ListTraces(ctx)
	}
	if err != nil {
		_ = formatter.Error("E_DB_READ", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to list traces", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(summaries)
	}

	if len(summaries) == 0 {
		fmt.Fprintln(formatter.Writer, "No archived traces")
		return nil
	}

	for _, summary := range summaries {
		verdict := "passed"
		if !summary.Passed {
			verdict = "failed"
		}
		fmt.Fprintf(formatter.Writer, "%s  %-30s %s  %d event(s)  %dms\n",
			summary.ID, summary.Name, verdict, summary.EventCount, summary.Duration)
	}
	return nil
}
