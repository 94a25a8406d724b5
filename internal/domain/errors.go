package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
)

// Catalog and viewport errors. Not-found variants wrap ErrNotFound so callers
// can branch on either the specific or the generic condition.
var (
	ErrEntryNotFound   = fmt.Errorf("catalog entry %w", ErrNotFound)
	ErrBundleNotFound  = fmt.Errorf("sidecar bundle %w", ErrNotFound)
	ErrAssetNotFound   = errors.New("asset not found")
	ErrMalformedBundle = errors.New("malformed sidecar bundle")
	ErrInvalidFacet    = fmt.Errorf("invalid facet: %w", ErrValidation)
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}
