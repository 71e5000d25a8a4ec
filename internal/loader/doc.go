// Package loader turns mixin files and directories into Definitions for
// the symbol table.
//
// The file dialect is deliberately small. A mixin value is one of:
//
//   - a mapping: a scope of named child mixins
//   - a reference array, [s1, s2, ...] or [anchor, null, s1, ...]: pure
//     inheritance (arrays are references, never first-class lists)
//   - a scalar: a resource evaluating to that value, patchable by later
//     origins
//   - a mixed array of the above: multiple origins at one position,
//     which is how a file spells a diamond
//
// Child names starting with "_" are private. All keys are normalized to
// NFC so visually identical names compose instead of shadowing.
//
// A directory is a scope: mixin files and subdirectories are its
// children, and a file plus a same-stem subdirectory contribute multiple
// origins to one child. Directories of CUE files load through the same
// grammar via the cuelang.org/go evaluator.
package loader
