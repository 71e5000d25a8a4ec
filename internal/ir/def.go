package ir

// Definition is a sealed interface over the two definition shapes a
// front-end can contribute to a tree position. Only ScopeDef and
// ResourceDef implement it.
//
// A position may receive several Definitions from independent origins
// (diamond support, union mounts); the symbol table composes them. A
// Definition is immutable once handed to the engine.
type Definition interface {
	definition() // Sealed - only ScopeDef and ResourceDef implement it

	// Public reports whether the defined name is visible from outside its
	// enclosing scope. Private names stay navigable internally.
	Public() bool

	// Bases returns the inheritance references this definition composes
	// in, in declaration order.
	Bases() []Reference

	// Eager reports whether the defined mixin must be forced during scope
	// construction, before the scope is handed to any caller.
	Eager() bool
}

// ScopeDef is a scope-shaped Definition: a namespace of named child
// definitions plus zero or more inheritance references.
type ScopeDef struct {
	IsPublic bool
	IsEager  bool
	BaseRefs []Reference

	// Children maps child name to the definitions contributed for it at
	// this origin. Keys holds the declaration order; every Children key
	// appears in Keys exactly once.
	Children map[string][]Definition
	Keys     []string
}

func (*ScopeDef) definition() {}

func (d *ScopeDef) Public() bool { return d.IsPublic }

func (d *ScopeDef) Bases() []Reference { return d.BaseRefs }

func (d *ScopeDef) Eager() bool { return d.IsEager }

// ChildDefs returns the definitions contributed for name, or nil.
func (d *ScopeDef) ChildDefs(name string) []Definition {
	if d.Children == nil {
		return nil
	}
	return d.Children[name]
}

// ResourceDef is a resource-shaped Definition: a computation contributing
// to a single named value.
//
// The Merge/Patch pair determines the definition's role in merge election:
//
//   - Merge set, Patch nil: a pure merger, candidate for election.
//   - Merge nil, Patch set: a patcher, contributing to whichever merger
//     is elected.
//   - Both set: a dual; elected only when no pure merger exists, otherwise
//     it contributes its patches like any patcher.
//   - Both nil: an extern placeholder. The resource stays patcher-only and
//     requires an externally supplied base value at instantiation.
type ResourceDef struct {
	IsPublic bool
	IsEager  bool
	BaseRefs []Reference

	// DepNames lists the dependency names the computation consumes, in
	// declaration order. Each resolves lexically from the resource's
	// composed position.
	DepNames []string

	Merge MergeFunc
	Patch PatchFunc
}

func (*ResourceDef) definition() {}

func (d *ResourceDef) Public() bool { return d.IsPublic }

func (d *ResourceDef) Bases() []Reference { return d.BaseRefs }

func (d *ResourceDef) Eager() bool { return d.IsEager }

// IsMerger reports whether this definition can aggregate patches.
func (d *ResourceDef) IsMerger() bool { return d.Merge != nil }

// IsPatcher reports whether this definition contributes patches.
func (d *ResourceDef) IsPatcher() bool { return d.Patch != nil }

// IsExtern reports whether this definition is a pure placeholder.
func (d *ResourceDef) IsExtern() bool { return d.Merge == nil && d.Patch == nil }
