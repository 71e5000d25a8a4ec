// Package symtab composes per-origin Definitions into the canonical,
// interned Symbol tree and resolves references against it.
//
// A Symbol is the single composed node at a structural tree position. Two
// Symbols are the same object iff they occupy the same position, so
// identity comparison is enough for diamond deduplication and cycle-safe
// traversal. Symbols are built lazily during composition, memoized, and
// immutable afterward.
//
// The package provides:
//   - Symbol construction and interning (NewRoot, Child, OwnChild)
//   - Linearization of the strict-super sequence with per-entry
//     composition frames (Linearize)
//   - The four reference-resolution algorithms (Resolve)
//   - Kind classification and merge election (Kind, Election)
package symtab
