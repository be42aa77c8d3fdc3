package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/viewloop/viewloop/internal/harness"
)

// FileValidation holds the validation outcome for one scenario file.
type FileValidation struct {
	File  string `json:"file"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// ValidationResult holds validation results for all files.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenario-file>...",
		Short: "Validate scenario files without running them",
		Long: `Validate scenario YAML against the embedded CUE schema and the strict
decoder, without executing any steps. Faster feedback than a full test run
when authoring scenarios.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidateCmd(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidateCmd(opts *RootOptions, files []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	result := ValidationResult{Valid: true}
	for _, file := range files {
		formatter.VerboseLog("Validating %s", file)

		fv := FileValidation{File: file, Valid: true}
		if _, err := harness.LoadScenario(file); err != nil {
			fv.Valid = false
			fv.Error = err.Error()
			result.Valid = false
		}
		result.Files = append(result.Files, fv)
	}

	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		for _, fv := range result.Files {
			if fv.Valid {
				fmt.Fprintf(formatter.Writer, "ok   %s\n", filepath.Base(fv.File))
			} else {
				fmt.Fprintf(formatter.Writer, "FAIL %s\n  %s\n", filepath.Base(fv.File), fv.Error)
			}
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, "one or more scenario files are invalid")
	}
	return nil
}
