package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound     = errors.New("resource not found")
	ErrRunNotFound  = fmt.Errorf("%w: test run", ErrNotFound)
	ErrFormNotFound = fmt.Errorf("%w: form metadata", ErrNotFound)

	// Catalog errors
	ErrUnsupportedFieldType = errors.New("unsupported field type")

	// Per-field interaction errors (recorded, never abort a run)
	ErrElementNotFound = errors.New("element not found")
	ErrActionTimeout   = errors.New("action timed out")
	ErrValueRejected   = errors.New("value rejected by UI")

	// Run-level errors
	ErrSubmissionUnknown = errors.New("submission outcome could not be read")
	ErrRunTimeout        = errors.New("run timeout exceeded")
	ErrRunTerminal       = errors.New("test run already terminal")

	// Scheduler errors
	ErrOverloaded = errors.New("scheduler queue is full")

	// Generation errors
	ErrGenerationFailed = errors.New("value generation failed")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

func NewUnsupportedFieldTypeError(fieldType string) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedFieldType, fieldType)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsFieldLocalError(err error) bool {
	return errors.Is(err, ErrElementNotFound) ||
		errors.Is(err, ErrActionTimeout) ||
		errors.Is(err, ErrValueRejected)
}

func IsOverloadedError(err error) bool {
	return errors.Is(err, ErrOverloaded)
}
