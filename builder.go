package overlay

import "github.com/overlay-lang/overlay/internal/ir"

// ====== References ======

// Abs names a position by its absolute path from the root.
func Abs(path ...string) Reference {
	return ir.Absolute{Path: path}
}

// Rel names a position relative to an enclosing scope. Ascend 0 starts
// at the immediately enclosing scope, 1 one level further out.
func Rel(ascend int, path ...string) Reference {
	return ir.Relative{Ascend: ascend, Path: path}
}

// Lex names a position by lexical search: the first enclosing scope
// binding the head of the path wins.
func Lex(path ...string) Reference {
	return ir.Lexical{Path: path}
}

// This names a position under the nearest enclosing scope with the
// given key.
func This(anchor string, path ...string) Reference {
	return ir.QualifiedThis{Anchor: anchor, Path: path}
}

// ====== Resource builders ======

// ResourceOption adjusts a resource definition's visibility, timing, or
// dependencies.
type ResourceOption func(*ir.ResourceDef)

// WithDeps declares the names a resource computation reads through
// Deps. Names bound in the same scope resolve to siblings; anything
// else resolves lexically outward at evaluation time.
func WithDeps(names ...string) ResourceOption {
	return func(d *ir.ResourceDef) { d.DepNames = names }
}

// Private hides the resource from Names and Get.
func Private() ResourceOption {
	return func(d *ir.ResourceDef) { d.IsPublic = false }
}

// Eager forces evaluation during scope construction, in declaration
// order, instead of on first access.
func Eager() ResourceOption {
	return func(d *ir.ResourceDef) { d.IsEager = true }
}

func newResource(opts []ResourceOption) *ir.ResourceDef {
	d := &ir.ResourceDef{IsPublic: true}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Value defines a resource whose base value is the constant v. Patches
// from other contributors fold over it as endofunctions.
func Value(v any, opts ...ResourceOption) Definition {
	d := newResource(opts)
	d.Merge = ir.ValueMerger(v)
	return d
}

// Resource defines a resource computed from its dependencies. Patches
// fold over the computed result.
func Resource(fn func(deps Deps) (any, error), opts ...ResourceOption) Definition {
	d := newResource(opts)
	d.Merge = ir.ComputedMerger(fn)
	return d
}

// Merge defines the aggregating contributor of a resource: it receives
// every patch from the other contributors, raw.
func Merge(fn MergeFunc, opts ...ResourceOption) Definition {
	d := newResource(opts)
	d.Merge = fn
	return d
}

// Patch defines a contributor of a single endofunction patch.
func Patch(fn Endo, opts ...ResourceOption) Definition {
	d := newResource(opts)
	d.Patch = ir.SinglePatch(func(ir.Deps) (any, error) { return fn, nil })
	return d
}

// Patches defines a contributor of arbitrary patch values.
func Patches(fn PatchFunc, opts ...ResourceOption) Definition {
	d := newResource(opts)
	d.Patch = fn
	return d
}

// Extern defines a placeholder resource with no merger and no patches.
// Its value must arrive through the kwargs bag of an enclosing scope
// instantiation.
func Extern(opts ...ResourceOption) Definition {
	return newResource(opts)
}

// ====== Scope builder ======

// ScopeBuilder assembles a scope definition. Children keep declaration
// order; a name used twice gains a second origin.
type ScopeBuilder struct {
	def *ir.ScopeDef
}

// NewScope starts a public scope definition.
func NewScope() *ScopeBuilder {
	return &ScopeBuilder{def: &ir.ScopeDef{
		IsPublic: true,
		Children: make(map[string][]ir.Definition),
	}}
}

// Inherit appends base references.
func (b *ScopeBuilder) Inherit(refs ...Reference) *ScopeBuilder {
	b.def.BaseRefs = append(b.def.BaseRefs, refs...)
	return b
}

// Child adds definitions under name.
func (b *ScopeBuilder) Child(name string, defs ...Definition) *ScopeBuilder {
	if _, ok := b.def.Children[name]; !ok {
		b.def.Keys = append(b.def.Keys, name)
	}
	b.def.Children[name] = append(b.def.Children[name], defs...)
	return b
}

// Private hides the scope from Names and Get.
func (b *ScopeBuilder) Private() *ScopeBuilder {
	b.def.IsPublic = false
	return b
}

// Eager forces the scope's construction when its parent is built.
func (b *ScopeBuilder) Eager() *ScopeBuilder {
	b.def.IsEager = true
	return b
}

// Build returns the finished definition.
func (b *ScopeBuilder) Build() Definition {
	return b.def
}
