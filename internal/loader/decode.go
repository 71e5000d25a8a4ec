package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// mixinExtensions lists the recognized mixin file suffixes. Matching is
// case-insensitive and longest-suffix-first.
var mixinExtensions = []string{
	".mixin.yaml",
	".mixin.yml",
	".mixin.json",
	".mixin.toml",
	".oyaml",
	".oyml",
	".ojson",
	".otoml",
}

// splitMixinExt splits a file name into its stem and recognized mixin
// extension. ok is false for names that are not mixin files.
func splitMixinExt(name string) (stem, ext string, ok bool) {
	lower := strings.ToLower(name)
	for _, e := range mixinExtensions {
		if strings.HasSuffix(lower, e) {
			return name[:len(name)-len(e)], e, true
		}
	}
	return "", "", false
}

// object is a key-ordered mapping decoded from a mixin source. Keys are
// NFC-normalized on insertion; a duplicate key keeps its first position
// and takes the later value.
type object struct {
	keys []string
	vals map[string]any
}

func newObject() *object {
	return &object{vals: make(map[string]any)}
}

func (o *object) set(key string, v any) {
	key = norm.NFC.String(key)
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = v
}

// decodeFile reads and decodes a mixin file into the JSON-shaped form the
// dialect operates on: scalars, []any, and *object.
func decodeFile(path string) (any, error) {
	_, ext, ok := splitMixinExt(path)
	if !ok {
		return nil, newLoadError(ErrCodeBadFormat, path,
			"unrecognized mixin file extension; expected one of %v", mixinExtensions)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, newLoadError(ErrCodeNotFound, path, "mixin file not found")
		}
		return nil, newLoadError(ErrCodeParse, path, "reading mixin file: %v", err)
	}

	switch ext {
	case ".mixin.json", ".ojson":
		return decodeJSON(data, path)
	case ".mixin.toml", ".otoml":
		return decodeTOML(data, path)
	default:
		return decodeYAML(data, path)
	}
}

// decodeYAML decodes through yaml.Node to keep mapping keys in document
// order.
func decodeYAML(data []byte, source string) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, newLoadError(ErrCodeParse, source, "%v", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}
	return fromYAMLNode(doc.Content[0], source)
}

func fromYAMLNode(n *yaml.Node, source string) (any, error) {
	switch n.Kind {
	case yaml.MappingNode:
		obj := newObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if key.Kind != yaml.ScalarNode {
				return nil, newLoadError(ErrCodeBadFormat, source,
					"line %d: mapping keys must be scalars", key.Line)
			}
			v, err := fromYAMLNode(n.Content[i+1], source)
			if err != nil {
				return nil, err
			}
			obj.set(key.Value, v)
		}
		return obj, nil

	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromYAMLNode(c, source)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil

	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, newLoadError(ErrCodeParse, source, "line %d: %v", n.Line, err)
		}
		if s, ok := v.(string); ok {
			return norm.NFC.String(s), nil
		}
		return v, nil

	case yaml.AliasNode:
		return fromYAMLNode(n.Alias, source)

	default:
		return nil, newLoadError(ErrCodeBadFormat, source, "unsupported YAML node kind %d", n.Kind)
	}
}

// decodeJSON decodes through the token stream to keep object keys in
// document order.
func decodeJSON(data []byte, source string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := readJSONValue(dec)
	if err != nil {
		return nil, newLoadError(ErrCodeParse, source, "%v", err)
	}
	return v, nil
}

func readJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := newObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T, not a string", keyTok)
				}
				v, err := readJSONValue(dec)
				if err != nil {
					return nil, err
				}
				obj.set(key, v)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return obj, nil
		case '[':
			var out []any
			for dec.More() {
				v, err := readJSONValue(dec)
				if err != nil {
					return nil, err
				}
				out = append(out, v)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			if out == nil {
				out = []any{}
			}
			return out, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", t)
		}
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return f, nil
	case string:
		return norm.NFC.String(t), nil
	default:
		// bool or nil
		return t, nil
	}
}

// decodeTOML decodes via go-toml. TOML parsing does not expose document
// order, so keys sort lexicographically for determinism.
func decodeTOML(data []byte, source string) (any, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, newLoadError(ErrCodeParse, source, "%v", err)
	}
	return fromTOMLValue(raw), nil
}

func fromTOMLValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := newObject()
		for _, k := range keys {
			obj.set(k, fromTOMLValue(t[k]))
		}
		return obj
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = fromTOMLValue(e)
		}
		return out
	case string:
		return norm.NFC.String(t)
	case int64:
		return int(t)
	default:
		return t
	}
}
