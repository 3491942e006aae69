// Package domain contains the divination model: decks, draws, readings and
// the errors a reading can fail with.
// Domain errors represent reading-level failures, NOT transport errors.
// They are infrastructure-agnostic and are mapped to exit codes by the CLI.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrValidation indicates the caller asked for something the pipeline cannot do
	// (unknown deck, non-positive or over-large draw size).
	ErrValidation = errors.New("invalid input")

	// ErrUnavailable indicates the interpretation service could not complete the call.
	ErrUnavailable = errors.New("service unavailable")

	// ErrMalformedResponse indicates the interpretation did not have the expected shape.
	ErrMalformedResponse = errors.New("malformed response")
)

// ValidationError provides context for invalid input.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}

	return "invalid input: " + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a validation error with context.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationErrorWithValue creates a validation error including the invalid value.
func NewValidationErrorWithValue(field, message string, value any) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// UnavailableError provides context for a failed call to the interpretation service.
type UnavailableError struct {
	Service string
	Reason  string
	Cause   error
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("service %q unavailable: %s", e.Service, e.Reason)
	}

	return fmt.Sprintf("service %q unavailable", e.Service)
}

// Unwrap returns the sentinel error and, when set, the cause, so callers can
// still match context.Canceled and friends.
func (e *UnavailableError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrUnavailable}
	}

	return []error{ErrUnavailable, e.Cause}
}

// NewUnavailableError creates an unavailable error with context.
func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

// NewUnavailableErrorWithCause creates an unavailable error that wraps cause.
func NewUnavailableErrorWithCause(service, reason string, cause error) error {
	return &UnavailableError{Service: service, Reason: reason, Cause: cause}
}

// MalformedResponseError records how many paragraphs the interpretation actually had.
type MalformedResponseError struct {
	Paragraphs int
	Expected   int
}

// Error implements the error interface.
func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response: expected %d paragraphs, got %d", e.Expected, e.Paragraphs)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *MalformedResponseError) Unwrap() error {
	return ErrMalformedResponse
}

// NewMalformedResponseError creates a malformed response error.
func NewMalformedResponseError(got, expected int) error {
	return &MalformedResponseError{Paragraphs: got, Expected: expected}
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsUnavailable checks if an error is an unavailable error.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsMalformedResponse checks if an error is a malformed response error.
func IsMalformedResponse(err error) bool {
	return errors.Is(err, ErrMalformedResponse)
}
