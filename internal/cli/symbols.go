package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/overlay-lang/overlay/internal/loader"
	"github.com/overlay-lang/overlay/internal/symtab"
)

// SymbolInfo describes one composed symbol for the symbols command.
type SymbolInfo struct {
	Path          string   `json:"path"`
	Kind          string   `json:"kind"`
	Public        bool     `json:"public"`
	Eager         bool     `json:"eager,omitempty"`
	Linearization []string `json:"linearization,omitempty"`
	ElectionSite  string   `json:"election_site,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// NewSymbolsCommand creates the symbols command.
func NewSymbolsCommand(rootOpts *RootOptions) *cobra.Command {
	var depth int

	cmd := &cobra.Command{
		Use:   "symbols <mixin-dir>",
		Short: "Dump the composed symbol tree",
		Long: `Compose a directory of mixin files and print every symbol with its
kind, linearization, and, for resources, the elected merger's frame.
Nothing is evaluated; the dump reflects composition only.

Mixin trees can be unboundedly deep through inheritance, so traversal
stops at --depth levels.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSymbols(rootOpts, args[0], depth, cmd)
		},
	}

	cmd.Flags().IntVar(&depth, "depth", 8, "maximum traversal depth")

	return cmd
}

func runSymbols(opts *RootOptions, dir string, depth int, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	defs, err := loader.Load(dir)
	if err != nil {
		code := ErrCodeParse
		exit := ExitFailure
		if loader.IsNotFound(err) {
			code = ErrCodeNotFound
			exit = ExitCommandError
		}
		_ = formatter.Error(code, err.Error(), nil)
		return WrapExitError(exit, "loading "+dir, err)
	}

	root := symtab.NewRoot(defs...)
	infos := DumpSymbols(root, depth)
	formatter.VerboseLog("composed %d symbol(s) from %s", len(infos), dir)

	if formatter.Format == "json" {
		return formatter.Success(infos)
	}
	fmt.Fprint(formatter.Writer, RenderSymbols(infos))
	return nil
}

// DumpSymbols walks the symbol tree breadth-first down to maxDepth and
// collects a deterministic description of each symbol. Composition
// errors surface on the symbol that caused them instead of aborting the
// walk.
func DumpSymbols(root *symtab.Symbol, maxDepth int) []SymbolInfo {
	var infos []SymbolInfo
	var walk func(sym *symtab.Symbol, depth int)
	walk = func(sym *symtab.Symbol, depth int) {
		infos = append(infos, describeSymbol(sym))
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
				infos = append(infos, SymbolInfo{
					Path:  childPath(sym, name),
					Error: err.Error(),
				})
				continue
			}
			walk(child, depth+1)
		}
	}
	walk(root, 0)
	return infos
}

func childPath(sym *symtab.Symbol, name string) string {
	if sym.Path() == "/" {
		return "/" + name
	}
	return sym.Path() + "." + name
}

func describeSymbol(sym *symtab.Symbol) SymbolInfo {
	info := SymbolInfo{Path: sym.Path()}

	public, err := sym.Public()
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.Public = public
	if eager, err := sym.EagerFlag(); err == nil {
		info.Eager = eager
	}

	kind, err := sym.Kind()
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.Kind = kind.String()

	lin, err := sym.Linearize()
	if err != nil {
		info.Error = err.Error()
		return info
	}
	if len(lin) > 1 {
		info.Linearization = make([]string, 0, len(lin))
		for _, entry := range lin {
			info.Linearization = append(info.Linearization, entry.Sym.Path())
		}
	}

	if kind == symtab.KindResource {
		site, err := sym.ElectionSite()
		if err != nil {
			info.Error = err.Error()
			return info
		}
		if site != nil {
			info.ElectionSite = site.Path()
		}
	}
	return info
}

// RenderSymbols renders the dump as stable, diffable text.
func RenderSymbols(infos []SymbolInfo) string {
	sorted := make([]SymbolInfo, len(infos))
	copy(sorted, infos)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	var b strings.Builder
	for _, info := range sorted {
		if info.Error != "" {
			fmt.Fprintf(&b, "%s  !error %s\n", info.Path, info.Error)
			continue
		}
		fmt.Fprintf(&b, "%s  %s", info.Path, info.Kind)
		if !info.Public {
			b.WriteString(" private")
		}
		if info.Eager {
			b.WriteString(" eager")
		}
		b.WriteByte('\n')
		if len(info.Linearization) > 0 {
			fmt.Fprintf(&b, "    lin: %s\n", strings.Join(info.Linearization, " -> "))
		}
		if info.ElectionSite != "" {
			fmt.Fprintf(&b, "    merger: %s\n", info.ElectionSite)
		}
	}
	return b.String()
}
