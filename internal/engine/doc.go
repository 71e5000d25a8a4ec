// Package engine lazily evaluates a composed symbol tree into concrete
// values.
//
// The runtime unit is the Mixin: a Symbol paired with a runtime outer
// chain and an optional externally supplied kwargs bag. Every Mixin runs
// a compute-once state machine (Unevaluated, Evaluating, Evaluated); a
// re-entry while Evaluating is a true value cycle and fails rather than
// recursing without bound. Circular structural references are fine:
// scopes wire their children in a separate phase before anything
// evaluates.
//
// Scope construction runs in four phases: create every child Mixin
// (public and private alike), wire same-scope sibling dependencies,
// force eager children in declaration order, then freeze into a Static
// or Instance Scope. Resources evaluate through merge election; a
// patcher-only resource folds its patches over an externally supplied
// base value.
//
// Evaluation is single-threaded and cooperative. Each evaluation request
// builds a fresh Mixin tree; nothing is cached across instantiations.
package engine
