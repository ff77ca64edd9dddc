// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
	"strings"
)

// Common application errors.
var (
	// Validation errors.
	ErrSchema        = errors.New("schema error")
	ErrInvalidFilter = errors.New("invalid filter")

	// Classification errors.
	ErrThresholdNotFound = errors.New("threshold not found")

	// Reconciliation errors.
	ErrRecordNotFound = errors.New("record not found")

	// External store errors.
	ErrTransport = errors.New("transport failure")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// SchemaError collects every schema violation found in a batch.
type SchemaError struct {
	MissingColumns   []string
	DuplicateColumns []string
	DuplicateKeys    []string
}

// HasViolations reports whether any violation was recorded.
func (e *SchemaError) HasViolations() bool {
	return len(e.MissingColumns) > 0 || len(e.DuplicateColumns) > 0 || len(e.DuplicateKeys) > 0
}

func (e *SchemaError) Error() string {
	var parts []string
	if len(e.DuplicateColumns) > 0 {
		parts = append(parts, fmt.Sprintf("duplicate columns: %s", strings.Join(e.DuplicateColumns, ", ")))
	}
	if len(e.MissingColumns) > 0 {
		parts = append(parts, fmt.Sprintf("missing columns: %s", strings.Join(e.MissingColumns, ", ")))
	}
	if len(e.DuplicateKeys) > 0 {
		parts = append(parts, fmt.Sprintf("duplicate keys: %s", strings.Join(e.DuplicateKeys, ", ")))
	}
	return ErrSchema.Error() + ": " + strings.Join(parts, "; ")
}

func (e *SchemaError) Unwrap() error {
	return ErrSchema
}

// TransportError wraps a failed call to the external store.
func TransportError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrTransport, op, err)
}
