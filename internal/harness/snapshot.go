package harness

import (
	"fmt"
	"strings"

	"github.com/overlay-lang/overlay/internal/engine"
)

// DefaultDepth bounds snapshot traversal. Mixin trees can be unboundedly
// deep through inheritance.
const DefaultDepth = 8

// Render evaluates every public name reachable from sc, depth-first in
// declaration order, and renders the results as indented text. Resources
// that fail render their error in place so a snapshot can pin expected
// failures too.
func Render(sc *engine.Scope, maxDepth int) string {
	var b strings.Builder
	renderScope(&b, sc, 0, maxDepth)
	return b.String()
}

func renderScope(b *strings.Builder, sc *engine.Scope, depth, maxDepth int) {
	prefix := strings.Repeat("  ", depth)
	for _, name := range sc.Names() {
		v, err := sc.Get(name)
		if err != nil {
			fmt.Fprintf(b, "%s%s: !error %v\n", prefix, name, err)
			continue
		}
		child, ok := v.(*engine.Scope)
		if !ok {
			fmt.Fprintf(b, "%s%s: %s\n", prefix, name, renderValue(v))
			continue
		}
		fmt.Fprintf(b, "%s%s:\n", prefix, name)
		if depth+1 > maxDepth {
			fmt.Fprintf(b, "%s  ...\n", prefix)
			continue
		}
		renderScope(b, child, depth+1, maxDepth)
	}
}

func renderValue(v any) string {
	switch t := v.(type) {
	case string:
		return fmt.Sprintf("%q", t)
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = renderValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case []string:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = fmt.Sprintf("%q", e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprintf("%v", v)
	}
}
