package loader

import (
	"strings"

	"github.com/overlay-lang/overlay/internal/ir"
)

// parsedValue is a mixin value split into its three component kinds.
type parsedValue struct {
	bases   []ir.Reference
	props   []*object
	scalars []any
}

// isReferenceArray reports whether a decoded array is a reference.
// Arrays in mixin files only ever denote references: either a lexical
// path of strings, or a qualified-this form [anchor, null, path...].
func isReferenceArray(v any) bool {
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return false
	}
	if len(arr) >= 2 {
		if _, ok := arr[0].(string); ok && arr[1] == nil {
			for _, e := range arr[2:] {
				if _, ok := e.(string); !ok {
					return false
				}
			}
			return true
		}
	}
	for _, e := range arr {
		if _, ok := e.(string); !ok {
			return false
		}
	}
	return true
}

// parseReference converts a reference array into an ir.Reference.
func parseReference(arr []any, source string) (ir.Reference, error) {
	if len(arr) == 0 {
		return nil, newLoadError(ErrCodeBadReference, source, "reference array must not be empty")
	}
	if len(arr) >= 2 && arr[1] == nil {
		anchor, ok := arr[0].(string)
		if !ok {
			return nil, newLoadError(ErrCodeBadReference, source,
				"qualified-this anchor must be a string, got %T", arr[0])
		}
		path := make([]string, 0, len(arr)-2)
		for _, e := range arr[2:] {
			s, ok := e.(string)
			if !ok {
				return nil, newLoadError(ErrCodeBadReference, source,
					"reference path element must be a string, got %T", e)
			}
			path = append(path, s)
		}
		return ir.QualifiedThis{Anchor: anchor, Path: path}, nil
	}
	path := make([]string, 0, len(arr))
	for _, e := range arr {
		s, ok := e.(string)
		if !ok {
			return nil, newLoadError(ErrCodeBadReference, source,
				"reference path element must be a string, got %T", e)
		}
		path = append(path, s)
	}
	return ir.Lexical{Path: path}, nil
}

// parseValue splits a decoded mixin value into bases, property objects,
// and scalar values.
func parseValue(v any, source string) (parsedValue, error) {
	switch t := v.(type) {
	case []any:
		if isReferenceArray(t) {
			ref, err := parseReference(t, source)
			if err != nil {
				return parsedValue{}, err
			}
			return parsedValue{bases: []ir.Reference{ref}}, nil
		}
		return parseArrayValue(t, source)
	case *object:
		return parsedValue{props: []*object{t}}, nil
	default:
		return parsedValue{scalars: []any{v}}, nil
	}
}

// parseArrayValue handles a mixed mixin array whose items are nested
// reference arrays, property objects, and scalars.
func parseArrayValue(items []any, source string) (parsedValue, error) {
	var p parsedValue
	for _, item := range items {
		switch t := item.(type) {
		case []any:
			ref, err := parseReference(t, source)
			if err != nil {
				return parsedValue{}, err
			}
			p.bases = append(p.bases, ref)
		case *object:
			p.props = append(p.props, t)
		default:
			if t != nil {
				p.scalars = append(p.scalars, t)
			}
		}
	}
	return p, nil
}

// defsFromValue converts a mixin value into definitions for the named
// child. Names with a leading underscore yield private definitions.
func defsFromValue(name string, v any, source string) ([]ir.Definition, error) {
	p, err := parseValue(v, source)
	if err != nil {
		return nil, err
	}
	return defsFromParsed(p, !strings.HasPrefix(name, "_"), source)
}

// defsFromParsed lowers a parsedValue into definitions. Property objects
// yield one scope origin each, with bases attached to the first origin.
// A pure scalar becomes a patchable resource holding that value. Pure
// inheritance yields a single childless scope.
func defsFromParsed(p parsedValue, public bool, source string) ([]ir.Definition, error) {
	if len(p.props) > 0 {
		defs := make([]ir.Definition, 0, len(p.props))
		for i, props := range p.props {
			sd, err := scopeDefFromObject(props, public, source)
			if err != nil {
				return nil, err
			}
			if i == 0 {
				sd.BaseRefs = p.bases
			}
			defs = append(defs, sd)
		}
		return defs, nil
	}

	if len(p.scalars) > 0 && len(p.bases) == 0 {
		var value any
		if len(p.scalars) == 1 {
			value = p.scalars[0]
		} else {
			value = p.scalars
		}
		return []ir.Definition{&ir.ResourceDef{
			IsPublic: public,
			Merge:    ir.ValueMerger(value),
		}}, nil
	}

	return []ir.Definition{&ir.ScopeDef{
		IsPublic: public,
		BaseRefs: p.bases,
	}}, nil
}

// scopeDefFromObject converts a property object into a scope definition
// with one child slot per key, in declaration order.
func scopeDefFromObject(obj *object, public bool, source string) (*ir.ScopeDef, error) {
	sd := &ir.ScopeDef{
		IsPublic: public,
		Children: make(map[string][]ir.Definition, len(obj.keys)),
		Keys:     append([]string(nil), obj.keys...),
	}
	for _, key := range obj.keys {
		defs, err := defsFromValue(key, obj.vals[key], source)
		if err != nil {
			return nil, err
		}
		sd.Children[key] = defs
	}
	return sd, nil
}
