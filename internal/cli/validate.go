package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/roach88/framevel/internal/builtin"
	"github.com/roach88/framevel/internal/config"
	"github.com/roach88/framevel/internal/findiff"
)

// ValidationError is one problem found in a configuration file.
type ValidationError struct {
	File    string `json:"file"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Files  int               `json:"files"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config.cue>...",
		Short: "Validate finite-difference configuration files",
		Long: `Validate CUE configuration files without transforming anything.

Checks syntax, the configuration schema, that every step is a usable
duration, and that every overridden edge is a finite-difference edge of
the builtin graph.

Exit codes:
  0 - All files valid
  1 - One or more files invalid
  2 - Command error (file not found)`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, files []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	result := ValidationResult{Valid: true, Files: len(files)}
	for _, file := range files {
		formatter.VerboseLog("Validating %s", file)

		verr, err := validateFile(file)
		if errors.Is(err, fs.ErrNotExist) {
			return formatter.Fail(ExitCommandError, ErrCodeInvalidInput, err)
		}
		if verr != nil {
			result.Valid = false
			result.Errors = append(result.Errors, *verr)
		}
	}

	if result.Valid {
		return formatter.Success(result, func(w io.Writer) {
			fmt.Fprintf(w, "✓ %d file(s) valid\n", result.Files)
		})
	}

	if opts.Format == "json" {
		first := result.Errors[0]
		if err := formatter.encode(CLIResponse{
			Status: "error",
			Data:   result,
			Error:  &CLIError{Code: first.Code, Message: first.Message},
		}); err != nil {
			return err
		}
	} else {
		writeValidationText(formatter.Writer, result)
	}

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(result.Errors)))
}

// validateFile returns a ValidationError for an invalid file, or an error
// when the file cannot be read at all.
func validateFile(file string) (*ValidationError, error) {
	cfg, err := config.Load(file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if err != nil {
		verr := &ValidationError{File: file, Message: err.Error(), Code: ErrCodeConfig}
		var cerr *config.Error
		if errors.As(err, &cerr) {
			verr.Field = cerr.Field
			verr.Message = cerr.Message
			if cerr.Pos.IsValid() {
				verr.Line = cerr.Pos.Line()
			}
		}
		var ferr *findiff.ConfigError
		if errors.As(err, &ferr) {
			verr.Code = string(ferr.Code)
		}
		return verr, nil
	}

	if _, err := builtin.NewGraph(cfg.FiniteDifference); err != nil {
		return &ValidationError{File: file, Field: "finite_difference", Message: err.Error(), Code: ErrCodeConfig}, nil
	}
	return nil, nil
}

func writeValidationText(w io.Writer, result ValidationResult) {
	fmt.Fprintln(w, "✗ Validation failed")
	fmt.Fprintln(w)

	for _, e := range result.Errors {
		loc := e.File
		if e.Line > 0 {
			loc = fmt.Sprintf("%s:%d", e.File, e.Line)
		}
		fmt.Fprintln(w, loc)
		if e.Field != "" {
			fmt.Fprintf(w, "  %s: %s: %s\n\n", e.Code, e.Field, e.Message)
		} else {
			fmt.Fprintf(w, "  %s: %s\n\n", e.Code, e.Message)
		}
	}
}
