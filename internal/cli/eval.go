package cli

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/overlay-lang/overlay/internal/engine"
	"github.com/overlay-lang/overlay/internal/loader"
	"github.com/overlay-lang/overlay/internal/symtab"
)

// EvalResult is the payload returned by the eval command.
type EvalResult struct {
	Path  string   `json:"path"`
	Value any      `json:"value,omitempty"`
	Names []string `json:"names,omitempty"`
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:   "eval <mixin-dir> [path]",
		Short: "Evaluate a resource or scope from a mixin directory",
		Long: `Compose a directory of mixin files and evaluate the value at a dot path.

A path naming a resource prints its evaluated value. A path naming a
scope prints its public names. With --set, the target scope is called
with the given keyword arguments before reading it.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 1 {
				path = args[1]
			}
			return runEval(rootOpts, args[0], path, sets, cmd)
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "keyword argument key=value for calling the target scope (repeatable)")

	return cmd
}

func runEval(opts *RootOptions, dir, path string, sets []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	runID := newRunID()

	kwargs, err := parseKwargs(sets)
	if err != nil {
		_ = formatter.Error(ErrCodeBadKwarg, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}

	sc, exitErr := composeDir(formatter, dir)
	if exitErr != nil {
		return exitErr
	}
	formatter.VerboseLog("composed %s, run %s", dir, runID)

	v, err := navigate(sc, path)
	if err != nil {
		_ = formatter.Error(errCodeFor(err), err.Error(), nil)
		return WrapExitError(exitCodeFor(err), "evaluating "+displayPath(path), err)
	}

	if kwargs != nil {
		target, ok := v.(*engine.Scope)
		if !ok {
			msg := fmt.Sprintf("--set requires a scope at %s, found a resource", displayPath(path))
			_ = formatter.Error(ErrCodeBadKwarg, msg, nil)
			return NewExitError(ExitCommandError, msg)
		}
		instance, err := target.Call(kwargs)
		if err != nil {
			_ = formatter.Error(ErrCodeEvaluate, err.Error(), nil)
			return WrapExitError(ExitFailure, "calling "+displayPath(path), err)
		}
		v = instance
	}

	result := EvalResult{Path: displayPath(path)}
	if child, ok := v.(*engine.Scope); ok {
		result.Names = child.Names()
		if formatter.Format != "json" {
			for _, name := range result.Names {
				fmt.Fprintln(formatter.Writer, name)
			}
			return nil
		}
	} else {
		result.Value = v
		if formatter.Format != "json" {
			fmt.Fprintln(formatter.Writer, renderValue(v))
			return nil
		}
	}
	return formatter.SuccessWithRun(result, runID)
}

// composeDir loads a mixin directory and builds its root scope, mapping
// failures onto CLI error codes.
func composeDir(formatter *OutputFormatter, dir string) (*engine.Scope, *ExitError) {
	defs, err := loader.Load(dir)
	if err != nil {
		code := ErrCodeParse
		exit := ExitFailure
		if loader.IsNotFound(err) {
			code = ErrCodeNotFound
			exit = ExitCommandError
		}
		_ = formatter.Error(code, err.Error(), nil)
		return nil, WrapExitError(exit, "loading "+dir, err)
	}

	root := symtab.NewRoot(defs...)
	sc, err := engine.EvaluateRoot(root, engine.WithRootNamesPublic())
	if err != nil {
		_ = formatter.Error(ErrCodeCompose, err.Error(), nil)
		return nil, WrapExitError(ExitFailure, "composing "+dir, err)
	}
	return sc, nil
}

// navigate walks a dot-separated path from the root scope.
func navigate(sc *engine.Scope, path string) (any, error) {
	if path == "" {
		return sc, nil
	}
	var v any = sc
	for _, part := range strings.Split(path, ".") {
		cur, ok := v.(*engine.Scope)
		if !ok {
			return nil, fmt.Errorf("%q is a resource, cannot navigate into it", part)
		}
		next, err := cur.Get(part)
		if err != nil {
			return nil, err
		}
		v = next
	}
	return v, nil
}

// parseKwargs converts --set key=value pairs into a kwargs map.
// Values parse as YAML scalars, so --set port=8080 yields an int.
// A nil map means no --set flags were given.
func parseKwargs(sets []string) (map[string]any, error) {
	if len(sets) == 0 {
		return nil, nil
	}
	kwargs := make(map[string]any, len(sets))
	for _, s := range sets {
		key, raw, ok := strings.Cut(s, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("malformed --set %q: expected key=value", s)
		}
		var v any
		if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		kwargs[key] = v
	}
	return kwargs, nil
}

func errCodeFor(err error) string {
	if engine.IsNotFound(err) {
		return ErrCodeNotFound
	}
	return ErrCodeEvaluate
}

func exitCodeFor(err error) int {
	if engine.IsNotFound(err) {
		return ExitCommandError
	}
	return ExitFailure
}

func displayPath(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

func renderValue(v any) string {
	return fmt.Sprintf("%v", v)
}

func newRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}
