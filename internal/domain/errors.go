package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a record id is absent from the store
	ErrNotFound = errors.New("record not found")

	// ErrValidation is the sentinel matched by every ValidationError
	ErrValidation = errors.New("validation failed")

	// ErrInvalidStatus is returned when a value is outside the status enum
	ErrInvalidStatus = errors.New("invalid status")

	// ErrPreconditionFailed is the sentinel matched by every PreconditionError
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrAtTerminal is returned when advancing a Finished job
	ErrAtTerminal = errors.New("job is already at the terminal status")

	// ErrAtInitial is returned when retreating a Booked job
	ErrAtInitial = errors.New("job is already at the initial status")

	// ErrBackendUnavailable is the sentinel matched by every BackendError
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrPartialFailure is the sentinel matched by every PartialFailureError
	ErrPartialFailure = errors.New("partial failure")

	// ErrAmbiguousMatch is returned when a clock number matches more than one job
	// and the caller asked for strict matching
	ErrAmbiguousMatch = errors.New("clock number matches more than one job")
)

// ValidationError reports a missing or malformed field. No write happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a ValidationError for field
func NewValidationError(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// PreconditionError names every unmet condition of a guarded transition
type PreconditionError struct {
	Transition string
	Unmet      []string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s requires %s", ErrPreconditionFailed, e.Transition, strings.Join(e.Unmet, " and "))
}

func (e *PreconditionError) Unwrap() error {
	return ErrPreconditionFailed
}

// BackendError wraps transient store or transport failures that are safe to retry
type BackendError struct {
	Err error
}

func (e *BackendError) Error() string {
	return "backend unavailable: " + e.Err.Error()
}

func (e *BackendError) Unwrap() []error {
	return []error{ErrBackendUnavailable, e.Err}
}

// NewBackendError wraps err as a retryable backend failure
func NewBackendError(err error) error {
	if err == nil {
		return nil
	}
	return &BackendError{Err: err}
}

// PartialFailureError reports a two-step lifecycle sequence that failed after
// its first step committed. RecordID identifies what the first step wrote so
// an operator can reconcile it.
type PartialFailureError struct {
	Operation     string
	CompletedStep string
	RecordID      string
	Err           error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%s: %s completed %q (record %s) but the next step failed: %v",
		ErrPartialFailure, e.Operation, e.CompletedStep, e.RecordID, e.Err)
}

func (e *PartialFailureError) Unwrap() []error {
	return []error{ErrPartialFailure, e.Err}
}
