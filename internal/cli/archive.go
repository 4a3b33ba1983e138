package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vigil-run/vigil/internal/store"
	"github.com/vigil-run/vigil/internal/trace"
)

// ArchiveResult is the success payload for the archive command.
type ArchiveResult struct {
	Archived []string `json:"archived"`
	Skipped  []string `json:"skipped,omitempty"`
}

// NewArchiveCommand creates the archive command.
func NewArchiveCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "archive <trace-file>...",
		Short: "Archive trace artifacts into a SQLite database",
		Long: `Archive one or more trace artifacts into the trace database.

Archiving is idempotent on trace ID: an ID already present in the
database is skipped, and the stored artifact is left untouched.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArchive(rootOpts, dbPath, args, cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "vigil.db", "path to the trace database")

	return cmd
}

func runArchive(opts *RootOptions, dbPath string, paths []string, cmd *cobra.Command) error {
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
	result := ArchiveResult{Archived: []string{}, Skipped: []string{}}

	for _, path := range paths {
		tr, err := trace.LoadFromFile(path)
		if err != nil {
			_ = formatter.Error("E_TRACE_READ", err.Error(), nil)
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to load %s", path), err)
		}

		inserted, err := st.SaveTrace(ctx, *tr, time.Now().UnixMilli())
		if err != nil {
			_ = formatter.Error("E_DB_WRITE", err.Error(), nil)
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to archive %s", path), err)
		}

		if inserted {
			formatter.VerboseLog("archived %s from %s", tr.ID, path)
			result.Archived = append(result.Archived, tr.ID)
		} else {
			formatter.VerboseLog("skipped %s from %s (already archived)", tr.ID, path)
			result.Skipped = append(result.Skipped, tr.ID)
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "Archived %d trace(s), skipped %d duplicate(s)\n",
		len(result.Archived), len(result.Skipped))
	return nil
}
