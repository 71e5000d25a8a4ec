package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error detected during evaluation.
//
// Runtime errors include:
//   - Missing dependency: a declared parameter resolves to no mixin
//   - Missing base value: a patcher-only resource evaluated without an
//     externally supplied base
//   - Structural conflict: a position with both children and evaluators
//   - Value cycle: a resource transitively depending on its own
//     in-progress evaluation
//   - Not instantiable: calling an instance scope again
//   - Not found: asking a scope for an absent or private name
//
// All of these are unrecoverable at the point of evaluation: no retry,
// no partial result. Errors wrap upward annotated with the symbol path
// being evaluated, giving callers a resolvable trace through the
// composition graph.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Path is the symbol path being evaluated.
	Path string

	// Name is the dependency, kwarg, or child name involved, if any.
	Name string
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeMissingDependency indicates a parameter name with no
	// resolvable mixin behind it.
	ErrCodeMissingDependency RuntimeErrorCode = "MISSING_DEPENDENCY"

	// ErrCodeMissingBaseValue indicates a patcher-only resource without
	// an externally supplied base value.
	ErrCodeMissingBaseValue RuntimeErrorCode = "MISSING_BASE_VALUE"

	// ErrCodeStructuralConflict indicates a position composed with both
	// children and evaluators.
	ErrCodeStructuralConflict RuntimeErrorCode = "STRUCTURAL_CONFLICT"

	// ErrCodeValueCycle indicates a resource depending on its own
	// in-progress evaluation.
	ErrCodeValueCycle RuntimeErrorCode = "VALUE_CYCLE"

	// ErrCodeNotInstantiable indicates a call on an instance scope.
	ErrCodeNotInstantiable RuntimeErrorCode = "NOT_INSTANTIABLE"

	// ErrCodeNotFound indicates an absent or private name asked of a
	// scope.
	ErrCodeNotFound RuntimeErrorCode = "NOT_FOUND"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Path != "" && e.Name != "" {
		return fmt.Sprintf("%s: %s (at=%s, name=%s)", e.Code, e.Message, e.Path, e.Name)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (at=%s)", e.Code, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsMissingDependency returns true if the error is a missing dependency.
// Uses errors.As to handle wrapped errors.
func IsMissingDependency(err error) bool {
	return hasCode(err, ErrCodeMissingDependency)
}

// IsMissingBaseValue returns true if the error is a missing base value.
// Uses errors.As to handle wrapped errors.
func IsMissingBaseValue(err error) bool {
	return hasCode(err, ErrCodeMissingBaseValue)
}

// IsStructuralConflict returns true if the error is a structural
// conflict. Uses errors.As to handle wrapped errors.
func IsStructuralConflict(err error) bool {
	return hasCode(err, ErrCodeStructuralConflict)
}

// IsValueCycle returns true if the error is a value cycle.
// Uses errors.As to handle wrapped errors.
func IsValueCycle(err error) bool {
	return hasCode(err, ErrCodeValueCycle)
}

// IsNotInstantiable returns true if the error is a repeated
// instantiation. Uses errors.As to handle wrapped errors.
func IsNotInstantiable(err error) bool {
	return hasCode(err, ErrCodeNotInstantiable)
}

// IsNotFound returns true if the error is a scope lookup miss.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

func hasCode(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// NewMissingDependencyError creates a RuntimeError naming both the
// resource and the dependency it could not resolve.
func NewMissingDependencyError(path, name string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeMissingDependency,
		Message: fmt.Sprintf("resource %s depends on %q, which resolves to nothing", path, name),
		Path:    path,
		Name:    name,
	}
}

// NewMissingBaseValueError creates a RuntimeError for a patcher-only
// resource without a base value. static selects between the two causes:
// no instance scope at all, or an instance scope lacking the key.
func NewMissingBaseValueError(path, name string, static bool) *RuntimeError {
	msg := fmt.Sprintf("instance scope has no value for %q; pass it when calling the scope", name)
	if static {
		msg = fmt.Sprintf("resource %q has no aggregator; call the scope with a value for it", name)
	}
	return &RuntimeError{
		Code:    ErrCodeMissingBaseValue,
		Message: msg,
		Path:    path,
		Name:    name,
	}
}

// NewStructuralConflictError creates a RuntimeError for a position with
// both children and evaluators.
func NewStructuralConflictError(path string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeStructuralConflict,
		Message: "position defines both children and a computation",
		Path:    path,
	}
}

// NewValueCycleError creates a RuntimeError for a circular value
// dependency.
func NewValueCycleError(path string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeValueCycle,
		Message: "resource depends on its own in-progress evaluation",
		Path:    path,
	}
}

// NewNotInstantiableError creates a RuntimeError for calling an instance
// scope.
func NewNotInstantiableError(path string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeNotInstantiable,
		Message: "instance scopes cannot be called again",
		Path:    path,
	}
}

// NewNotFoundError creates a RuntimeError for an absent or private name.
func NewNotFoundError(path, name string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("scope has no accessible mixin named %q", name),
		Path:    path,
		Name:    name,
	}
}
