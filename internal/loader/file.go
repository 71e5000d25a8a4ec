package loader

import (
	"log/slog"
	"strings"

	"github.com/overlay-lang/overlay/internal/ir"
)

// FileDefs parses a single mixin file into the definitions it contributes
// under its stem. A mapping at the top level becomes a scope of named
// mixins; any other top-level value follows the ordinary mixin value
// rules, so a file can be a bare reference array or even a scalar.
func FileDefs(path, stem string) ([]ir.Definition, error) {
	v, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	public := !strings.HasPrefix(stem, "_")

	obj, ok := v.(*object)
	if !ok {
		slog.Debug("mixin file has non-mapping top level", "path", path)
		p, err := parseValue(v, path)
		if err != nil {
			return nil, err
		}
		return defsFromParsed(p, public, path)
	}
	sd, err := scopeDefFromObject(obj, public, path)
	if err != nil {
		return nil, err
	}
	return []ir.Definition{sd}, nil
}
