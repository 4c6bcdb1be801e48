package models

import "fmt"

// ValidationErrorKind tags why a cart mutation was refused before reaching the backend.
type ValidationErrorKind string

const (
	InsufficientQuantity ValidationErrorKind = "INSUFFICIENT_QUANTITY"
	ItemUnavailable      ValidationErrorKind = "ITEM_UNAVAILABLE"
	TimeConflict         ValidationErrorKind = "TIME_CONFLICT"
	InvalidRequest       ValidationErrorKind = "VALIDATION_ERROR"
)

// ValidationError is produced transiently to block a mutation. It is never persisted.
type ValidationError struct {
	Kind    ValidationErrorKind `json:"kind"`
	Message string              `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NewValidationError(kind ValidationErrorKind, format string, args ...interface{}) *ValidationError {
	return &ValidationError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}
