package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for contract violations.
var (
	ErrInvalidBox       = errors.New("invalid bounding box")
	ErrInvalidImageSize = errors.New("invalid image size")
	ErrInvalidScore     = errors.New("invalid score")
)

// ValidationError wraps a sentinel with the offending field and value.
type ValidationError struct {
	Field   string
	Value   string
	Wrapped error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s (value=%q)", e.Wrapped, e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Wrapped }

// NewValidationError creates a ValidationError.
func NewValidationError(field, value string, wrapped error) *ValidationError {
	return &ValidationError{Field: field, Value: value, Wrapped: wrapped}
}
