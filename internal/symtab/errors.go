package symtab

import (
	"errors"
	"fmt"
)

// ComposeError represents an error detected while composing the symbol
// tree or resolving a reference against it.
//
// Compose errors include:
//   - Not found: a reference names a position that does not exist
//   - Inheritance cycle: a position transitively inherits from itself
//   - Ascent escape: a relative reference ascends past the global root
//   - Ambiguous merger: more than one explicit merger contributes to one
//     position
type ComposeError struct {
	// Code identifies the error category.
	Code ComposeErrorCode

	// Message is a human-readable description.
	Message string

	// Path is the symbol path where the error was detected.
	Path string

	// Name is the offending name or reference, when applicable.
	Name string
}

// ComposeErrorCode categorizes compose errors.
type ComposeErrorCode string

const (
	// ErrCodeNotFound indicates a reference resolved to no position.
	ErrCodeNotFound ComposeErrorCode = "NOT_FOUND"

	// ErrCodeInheritanceCycle indicates a position inheriting from itself.
	ErrCodeInheritanceCycle ComposeErrorCode = "INHERITANCE_CYCLE"

	// ErrCodeAscentEscape indicates a relative reference ascending past
	// the global root.
	ErrCodeAscentEscape ComposeErrorCode = "ASCENT_ESCAPE"

	// ErrCodeAmbiguousMerger indicates more than one explicit merger
	// contributing to the same position.
	ErrCodeAmbiguousMerger ComposeErrorCode = "AMBIGUOUS_MERGER"
)

// Error implements the error interface.
func (e *ComposeError) Error() string {
	if e.Path != "" && e.Name != "" {
		return fmt.Sprintf("%s: %s (at=%s, name=%s)", e.Code, e.Message, e.Path, e.Name)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (at=%s)", e.Code, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsNotFound returns true if the error is a not-found resolution error.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var ce *ComposeError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeNotFound
	}
	return false
}

// IsInheritanceCycle returns true if the error is an inheritance cycle.
// Uses errors.As to handle wrapped errors.
func IsInheritanceCycle(err error) bool {
	var ce *ComposeError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeInheritanceCycle
	}
	return false
}

// IsAmbiguousMerger returns true if the error is an ambiguous election.
// Uses errors.As to handle wrapped errors.
func IsAmbiguousMerger(err error) bool {
	var ce *ComposeError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeAmbiguousMerger
	}
	return false
}

// NewNotFoundError creates a ComposeError for a name that resolved to no
// position.
func NewNotFoundError(at *Symbol, name string) *ComposeError {
	return &ComposeError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("no mixin named %q is visible here", name),
		Path:    at.Path(),
		Name:    name,
	}
}

// NewInheritanceCycleError creates a ComposeError for a self-inheriting
// position.
func NewInheritanceCycleError(at *Symbol) *ComposeError {
	return &ComposeError{
		Code:    ErrCodeInheritanceCycle,
		Message: "position transitively inherits from itself",
		Path:    at.Path(),
	}
}

// NewAscentEscapeError creates a ComposeError for a relative reference
// that ascends past the root.
func NewAscentEscapeError(at *Symbol, ascend int) *ComposeError {
	return &ComposeError{
		Code:    ErrCodeAscentEscape,
		Message: fmt.Sprintf("relative reference ascends %d levels past the root", ascend),
		Path:    at.Path(),
	}
}

// NewAmbiguousMergerError creates a ComposeError naming the conflicting
// contributor sites.
func NewAmbiguousMergerError(at *Symbol, sites []string) *ComposeError {
	return &ComposeError{
		Code:    ErrCodeAmbiguousMerger,
		Message: fmt.Sprintf("more than one merger contributes: %v", sites),
		Path:    at.Path(),
	}
}
