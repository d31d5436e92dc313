// Package keychain defines the opaque secure key/value primitive the vault
// is built on: one string value per key, encrypted at rest, no native
// listing operation.
//
// On mobile targets the implementation is the OS secure store; this package
// ships a SQLite-backed emulation for desktop use and an in-memory
// implementation for tests.
package keychain

import "context"

// Keychain is the secure primitive contract. Get reports absence through
// its boolean; "key not found" is never an error.
type Keychain interface {
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Get returns the value stored under key. The boolean is false when the
	// key is absent.
	Get(ctx context.Context, key string) (string, bool, error)

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Lister is an optional extension implemented by keychains that can
// enumerate their keys. The index repair pass upgrades to it when available;
// the contract of Keychain itself deliberately has no listing operation.
type Lister interface {
	List(ctx context.Context) ([]string, error)
}
