// Package common contains shared sentinel errors and small utilities used
// across Lockbox components. Callers should use errors.Is to match the
// sentinel values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Store-level errors.
	ErrNotFound = errors.New("not found")

	// Primitive-level I/O failures, distinct from "key absent".
	ErrStorageRead  = errors.New("storage read error")
	ErrStorageWrite = errors.New("storage write error")

	// ErrIndexInconsistency marks a category index that disagrees with the
	// records actually present in storage (dangling entries).
	ErrIndexInconsistency = errors.New("index inconsistency")

	// Session errors.
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrSetupIncomplete   = errors.New("setup incomplete")
	ErrInvalidPassphrase = errors.New("invalid passphrase")
)

// ValidationError reports a record field that failed its category's rules.
// It is raised before any storage I/O, so a failed validation never leaves
// partial state behind.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}
