// Package kv provides the key/value store backing snapshot persistence.
//
// Two backends are available: an in-memory map for tests and ephemeral
// sessions, and a SQLite file for durable storage across restarts.
package kv

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a key has no value
var ErrNotFound = errors.New("key not found")

// Store is a flat string-keyed byte store
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Keys lists keys starting with prefix in lexical order
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Open creates a store for the named driver
func Open(driver, path string) (Store, error) {
	switch driver {
	case DriverMemory, "":
		return NewMemory(), nil
	case DriverSQLite:
		return NewSQLite(path)
	default:
		return nil, fmt.Errorf("unknown store driver: %s", driver)
	}
}
