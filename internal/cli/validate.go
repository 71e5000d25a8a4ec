package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/overlay-lang/overlay/internal/loader"
	"github.com/overlay-lang/overlay/internal/symtab"
)

// ValidationIssue is one problem found while composing a mixin tree.
type ValidationIssue struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Issues []ValidationIssue `json:"issues,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var depth int

	cmd := &cobra.Command{
		Use:   "validate <mixin-dir>",
		Short: "Check a mixin directory without evaluating it",
		Long: `Compose a directory of mixin files and report composition problems:
unresolvable or cyclic inheritance, names defined as both scope and
resource, and resources with more than one merger.

Nothing is evaluated, so missing extern values are not reported here.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], depth, cmd)
		},
	}

	cmd.Flags().IntVar(&depth, "depth", 8, "maximum traversal depth")

	return cmd
}

func runValidate(opts *RootOptions, dir string, depth int, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	defs, err := loader.Load(dir)
	if err != nil {
		code := ErrCodeParse
		if loader.IsNotFound(err) {
			code = ErrCodeNotFound
		}
		_ = formatter.Error(code, err.Error(), nil)
		// Load errors are command-level errors (exit code 2)
		return WrapExitError(ExitCommandError, "loading "+dir, err)
	}

	root := symtab.NewRoot(defs...)
	issues := CheckSymbols(root, depth)
	formatter.VerboseLog("checked %s to depth %d", dir, depth)

	if len(issues) > 0 {
		return outputValidationIssues(formatter, issues)
	}
	return outputValidateSuccess(formatter)
}

// CheckSymbols walks the composed tree and collects issues. Traversal
// does not descend past a broken symbol; one issue per path suffices.
func CheckSymbols(root *symtab.Symbol, maxDepth int) []ValidationIssue {
	var issues []ValidationIssue
	var walk func(sym *symtab.Symbol, depth int)
	walk = func(sym *symtab.Symbol, depth int) {
		if issue := checkSymbol(sym); issue != nil {
			issues = append(issues, *issue)
			return
		}
		if depth >= maxDepth {
			return
		}
		names, err := sym.Names()
		if err != nil {
			return
		}
		for _, name := range names {
			child, err := sym.Child(name)
			if err != nil {
				issues = append(issues, ValidationIssue{
					Path:    childPath(sym, name),
					Code:    ErrCodeCompose,
					Message: err.Error(),
				})
				continue
			}
			walk(child, depth+1)
		}
	}
	walk(root, 0)
	return issues
}

func checkSymbol(sym *symtab.Symbol) *ValidationIssue {
	if _, err := sym.Linearize(); err != nil {
		return &ValidationIssue{Path: sym.Path(), Code: ErrCodeCompose, Message: err.Error()}
	}
	kind, err := sym.Kind()
	if err != nil {
		return &ValidationIssue{Path: sym.Path(), Code: ErrCodeValidation, Message: err.Error()}
	}
	if kind == symtab.KindConflict {
		return &ValidationIssue{
			Path:    sym.Path(),
			Code:    ErrCodeValidation,
			Message: "defined as both scope and resource",
		}
	}
	if kind == symtab.KindResource {
		if _, err := sym.Election(); err != nil {
			return &ValidationIssue{Path: sym.Path(), Code: ErrCodeValidation, Message: err.Error()}
		}
	}
	return nil
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true})
	}

	fmt.Fprintln(formatter.Writer, "✓ Mixin tree composes cleanly")
	return nil
}

// outputValidationIssues outputs the collected issues.
func outputValidationIssues(formatter *OutputFormatter, issues []ValidationIssue) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Issues: issues},
			Error: &CLIError{
				Code:    issues[0].Code,
				Message: issues[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d issue(s)", len(issues)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, issue := range issues {
		fmt.Fprintf(formatter.Writer, "%s\n  %s: %s\n\n", issue.Path, issue.Code, issue.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d issue(s)", len(issues)))
}
