// Package ir provides the foundational value types of the overlay engine:
// the four reference kinds mixins use to point at other mixins, and the
// Definition contracts front-ends produce for the symbol table to compose.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal. This ensures ir remains the
// foundational layer with no circular dependencies.
//
// Key design constraints:
//   - References and Definitions are immutable after construction
//   - Definition is a sealed interface: exactly ScopeDef and ResourceDef
//   - The engine never reflects over host functions; front-ends declare
//     dependencies explicitly by name
package ir
