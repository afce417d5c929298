package storage

import "errors"

// ErrNotLoaded is returned by operations on a store that was never initialized or loaded.
var ErrNotLoaded = errors.New("storage not loaded")

// Provider is a persistent key-value store. Each key holds one self-contained
// JSON document; Set replaces the value of a single key atomically. There are
// no multi-key transactions.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Get returns the stored value and whether the key exists.
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(key string) error
	// ListKeys returns keys starting with prefix in ascending order.
	ListKeys(prefix string) ([]string, error)

	// GetConfigPath returns the file path for file-backed stores or a
	// non-sensitive identifier for network stores.
	GetConfigPath() string
}
