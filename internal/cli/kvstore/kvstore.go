// Package kvstore persists small string values (the access token) behind a
// swappable backend.
package kvstore

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key has no value
var ErrNotFound = errors.New("key not found")

// Store defines the interface for key-value persistence.
// Delete of a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Closer is implemented by backends holding OS resources
type Closer interface {
	Close() error
}

// Options selects and configures a backend
type Options struct {
	Backend    string
	Path       string
	Passphrase string
}

// Open returns the backend named by opts.Backend
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case "memory":
		return NewMemory(), nil
	case "file", "":
		return NewFile(opts.Path), nil
	case "keyring":
		return NewKeyring(keyringService), nil
	case "encrypted":
		return NewSealed(opts.Path, opts.Passphrase)
	case "sqlite":
		return NewSQLite(opts.Path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q (use memory, file, keyring, encrypted or sqlite)", opts.Backend)
	}
}

// Close releases backend resources when the store holds any
func Close(s Store) error {
	if c, ok := s.(Closer); ok {
		return c.Close()
	}
	return nil
}
