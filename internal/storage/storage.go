// Package storage defines the backend-agnostic interface for durable key-value storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Backend names accepted in configuration.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// ErrInvalidKey is returned when a key is empty or contains path separators.
var ErrInvalidKey = errors.New("invalid storage key")

// Storage is a durable, client-local key-value store.
// The task store keeps its whole collection under a single key.
// Task code never imports a concrete backend.
type Storage interface {
	// Get returns the value stored under key.
	// found is false (with a nil error) when the key has never been written.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set replaces the entire value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Close releases backend resources.
	Close() error
}

// ValidateKey checks that key can be used by every backend.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("%w: %s", ErrInvalidKey, key)
	}
	return nil
}
