package loader

import (
	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/overlay-lang/overlay/internal/ir"
)

// cueDefs builds the CUE instance rooted at dir and lowers its exported
// value through the mixin dialect. The top-level struct behaves like a
// mapping-at-top-level mixin file: each field names a mixin.
func cueDefs(dir string) (ir.Definition, error) {
	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir}
	instances := load.Instances([]string{"."}, cfg)
	if len(instances) == 0 {
		return nil, newLoadError(ErrCodeParse, dir, "no CUE instances loaded")
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, newLoadError(ErrCodeParse, dir, "loading CUE files: %v", inst.Err)
	}
	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, newLoadError(ErrCodeParse, dir, "building CUE value: %v", err)
	}

	v, err := fromCUEValue(value, dir)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(*object)
	if !ok {
		return nil, newLoadError(ErrCodeBadFormat, dir, "CUE instance must export a struct, got %T", v)
	}
	return scopeDefFromObject(obj, true, dir)
}

// fromCUEValue converts a concrete CUE value into the JSON-shaped form
// the dialect operates on. Struct fields keep their declaration order.
func fromCUEValue(v cue.Value, source string) (any, error) {
	switch v.Kind() {
	case cue.StructKind:
		iter, err := v.Fields()
		if err != nil {
			return nil, newLoadError(ErrCodeParse, source, "iterating CUE struct: %v", err)
		}
		obj := newObject()
		for iter.Next() {
			fv, err := fromCUEValue(iter.Value(), source)
			if err != nil {
				return nil, err
			}
			obj.set(iter.Selector().Unquoted(), fv)
		}
		return obj, nil

	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, newLoadError(ErrCodeParse, source, "iterating CUE list: %v", err)
		}
		out := []any{}
		for iter.Next() {
			ev, err := fromCUEValue(iter.Value(), source)
			if err != nil {
				return nil, err
			}
			out = append(out, ev)
		}
		return out, nil

	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, newLoadError(ErrCodeParse, source, "%v", err)
		}
		return s, nil

	case cue.IntKind:
		i, err := v.Int64()
		if err != nil {
			return nil, newLoadError(ErrCodeParse, source, "%v", err)
		}
		return int(i), nil

	case cue.FloatKind, cue.NumberKind:
		f, err := v.Float64()
		if err != nil {
			return nil, newLoadError(ErrCodeParse, source, "%v", err)
		}
		return f, nil

	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, newLoadError(ErrCodeParse, source, "%v", err)
		}
		return b, nil

	case cue.NullKind:
		return nil, nil

	default:
		return nil, newLoadError(ErrCodeBadFormat, source,
			"CUE value at %s is not concrete: %v", v.Path(), v.Kind())
	}
}
