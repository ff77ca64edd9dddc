package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/337ubaid/dci-dashboard-ssgs/internal/store"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateStore(st *store.Store) error {
	if st == nil {
		return fmt.Errorf("%w: store", ErrNilParameter)
	}
	return nil
}
