package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vigil-run/vigil/internal/constraint"
)

// ValidationSummary is the success payload for the validate command.
type ValidationSummary struct {
	Valid            bool   `json:"valid"`
	Domain           string `json:"domain"`
	Behaviors        int    `json:"behaviors"`
	GlobalInvariants int    `json:"global_invariants"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var textMode bool

	cmd := &cobra.Command{
		Use:   "validate <constraints-file>",
		Short: "Validate a domain constraints file",
		Long: `Validate a domain constraints file and report its contents.

Structured files (JSON, or YAML by extension) are checked against the
constraints schema. With --text, the file is parsed as line-oriented
constraint text instead; text parsing is best-effort and never rejects
input, so validation only fails on unreadable files.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], textMode, cmd)
		},
	}

	cmd.Flags().BoolVar(&textMode, "text", false, "parse as line-oriented constraint text")

	return cmd
}

func runValidate(opts *RootOptions, path string, textMode bool, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	var (
		constraints *constraint.DomainConstraints
		err         error
	)
	if textMode {
		formatter.VerboseLog("Parsing %s as constraint text", path)
		constraints, err = constraint.ParseTextFile(path)
	} else {
		formatter.VerboseLog("Loading %s as structured constraints", path)
		loader := constraint.NewLoader()
		constraints, err = loader.LoadNormalizedFile(path)
	}
	if err != nil {
		return outputConstraintError(formatter, err)
	}

	summary := ValidationSummary{
		Valid:            true,
		Domain:           constraints.Domain,
		Behaviors:        len(constraints.Behaviors),
		GlobalInvariants: len(constraints.GlobalInvariants),
	}

	if formatter.Format == "json" {
		return formatter.Success(summary)
	}

	fmt.Fprintf(formatter.Writer, "✓ Valid constraints for domain %q\n", summary.Domain)
	fmt.Fprintf(formatter.Writer, "  behaviors:         %d\n", summary.Behaviors)
	fmt.Fprintf(formatter.Writer, "  global invariants: %d\n", summary.GlobalInvariants)
	for _, behavior := range constraints.Behaviors {
		formatter.VerboseLog("behavior %s: %d pre, %d post, %d inv",
			behavior.Name,
			len(behavior.Preconditions),
			len(behavior.Postconditions),
			len(behavior.Invariants),
		)
	}
	return nil
}

// outputConstraintError maps loader errors to exit codes: malformed input is
// a validation failure (1), unreadable files are command errors (2).
func outputConstraintError(formatter *OutputFormatter, err error) error {
	code := "E_VALIDATE"
	exitCode := ExitFailure
	if constraint.IsIOFailure(err) {
		code = string(constraint.ErrCodeIO)
		exitCode = ExitCommandError
	} else if constraint.IsMalformed(err) {
		code = string(constraint.ErrCodeMalformed)
	}

	_ = formatter.Error(code, err.Error(), nil)
	return NewExitError(exitCode, err.Error())
}
