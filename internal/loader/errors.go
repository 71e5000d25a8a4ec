package loader

import (
	"errors"
	"fmt"
)

// LoadError represents an error raised while loading mixin sources.
type LoadError struct {
	// Code identifies the error category.
	Code LoadErrorCode

	// Message is a human-readable description.
	Message string

	// Source is the file or directory involved.
	Source string
}

// LoadErrorCode categorizes load errors.
type LoadErrorCode string

const (
	// ErrCodeNotFound indicates a missing file or directory.
	ErrCodeNotFound LoadErrorCode = "NOT_FOUND"

	// ErrCodeBadFormat indicates an unrecognized file extension or a
	// file whose top level has the wrong shape.
	ErrCodeBadFormat LoadErrorCode = "BAD_FORMAT"

	// ErrCodeBadReference indicates a malformed reference array.
	ErrCodeBadReference LoadErrorCode = "BAD_REFERENCE"

	// ErrCodeParse indicates a syntax error from the underlying format
	// parser.
	ErrCodeParse LoadErrorCode = "PARSE_ERROR"
)

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s: %s: %s", e.Source, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsNotFound returns true if the error is a missing source.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code == ErrCodeNotFound
	}
	return false
}

// IsBadReference returns true if the error is a malformed reference.
// Uses errors.As to handle wrapped errors.
func IsBadReference(err error) bool {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code == ErrCodeBadReference
	}
	return false
}

func newLoadError(code LoadErrorCode, source, format string, args ...any) *LoadError {
	return &LoadError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Source:  source,
	}
}
