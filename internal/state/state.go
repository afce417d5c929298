// Package state maps domain collections onto prefixed keys of a
// storage.Provider and decodes them with safe defaults.
package state

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/tranaapp/trana/internal/logger"
	"github.com/tranaapp/trana/internal/storage"
)

type Store struct {
	provider storage.Provider
	prefix   string

	mu     sync.Mutex
	hashes map[string]uint64
}

func New(p storage.Provider, prefix string) *Store {
	return &Store{
		provider: p,
		prefix:   prefix,
		hashes:   make(map[string]uint64),
	}
}

func (s *Store) Prefix() string { return s.prefix }

func (s *Store) Provider() storage.Provider { return s.provider }

// Key returns the full storage key for a collection suffix.
func (s *Store) Key(suffix string) string {
	return s.prefix + suffix
}

// Load decodes the collection stored under suffix. A missing key, a read
// error or an undecodable value all yield def; failures are logged.
func Load[T any](s *Store, suffix string, def T) T {
	key := s.Key(suffix)
	raw, ok, err := s.provider.Get(key)
	if err != nil {
		logger.Warn("Failed to read stored state, using default", "key", key, "error", err)
		return def
	}
	if !ok {
		return def
	}

	// Decode over the default so fields absent from older values keep it.
	v := def
	if err := json.Unmarshal(raw, &v); err != nil {
		logger.Warn("Stored state is corrupt, using default", "key", key, "error", err)
		return def
	}
	return v
}

// Save encodes v and writes it under suffix. Writing the same content twice
// touches the provider once.
func (s *Store) Save(suffix string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", suffix, err)
	}
	key := s.Key(suffix)

	sum, err := hashstructure.Hash(string(raw), hashstructure.FormatV2, nil)
	if err != nil {
		return fmt.Errorf("failed to hash %s: %w", suffix, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.hashes[key]; ok && prev == sum {
		return nil
	}
	if err := s.provider.Set(key, raw); err != nil {
		return err
	}
	s.hashes[key] = sum
	return nil
}

// Exists reports whether a value is stored under suffix.
func (s *Store) Exists(suffix string) (bool, error) {
	_, ok, err := s.provider.Get(s.Key(suffix))
	return ok, err
}

func (s *Store) Remove(suffix string) error {
	return s.RemoveKey(s.Key(suffix))
}

// RemoveKey removes a full key, which need not carry the prefix.
func (s *Store) RemoveKey(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.hashes, key)
	return s.provider.Remove(key)
}

// Keys lists every stored key carrying the prefix.
func (s *Store) Keys() ([]string, error) {
	return s.provider.ListKeys(s.prefix)
}

// Snapshot returns the raw value of every prefixed key, keyed by suffix.
func (s *Store) Snapshot() (map[string]json.RawMessage, error) {
	keys, err := s.Keys()
	if err != nil {
		return nil, err
	}
	out := make(map[string]json.RawMessage, len(keys))
	for _, k := range keys {
		raw, ok, err := s.provider.Get(k)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if !json.Valid(raw) {
			b, _ := json.Marshal(string(raw))
			raw = b
		}
		out[strings.TrimPrefix(k, s.prefix)] = raw
	}
	return out, nil
}

// Restore writes every suffix from snap, replacing what is stored.
func (s *Store) Restore(snap map[string]json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for suffix, raw := range snap {
		key := s.Key(suffix)
		delete(s.hashes, key)
		if err := s.provider.Set(key, raw); err != nil {
			return fmt.Errorf("failed to restore %s: %w", key, err)
		}
	}
	return nil
}

// Invalidate forgets cached hashes so the next Save always writes.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hashes = make(map[string]uint64)
}
