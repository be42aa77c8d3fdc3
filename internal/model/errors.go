package model

import (
	"errors"
	"fmt"
)

// InvalidInputError is returned when a view is asked to produce output from
// an absent or unusable input. It is the only failure kind a fault boundary
// observes in this tree.
//
// Failures are explicit error values, never panics: a child render returns
// (nil, *InvalidInputError) and the enclosing boundary pattern-matches on
// the error. Boundaries do not recover panics; a panic crashes the process.
type InvalidInputError struct {
	// View names the component that rejected its input.
	View string

	// Reason is a human-readable description of what was missing.
	Reason string
}

// Error implements the error interface.
func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("InvalidInput: %s: %s", e.View, e.Reason)
}

// Message is the short form displayed by fallback output.
func (e *InvalidInputError) Message() string {
	return e.Reason
}

// NewInvalidInput creates an InvalidInputError for a view.
func NewInvalidInput(view, reason string) *InvalidInputError {
	return &InvalidInputError{View: view, Reason: reason}
}

// IsInvalidInput returns true if the error is an InvalidInputError.
// Uses errors.As to handle wrapped errors.
func IsInvalidInput(err error) bool {
	var ie *InvalidInputError
	return errors.As(err, &ie)
}
