// Package redis stores the key-value state in a Redis database, one string
// value per key under a fixed namespace.
package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/tranaapp/trana/internal/constants"
	"github.com/tranaapp/trana/internal/logger"
	"github.com/tranaapp/trana/internal/storage"
)

const namespace = constants.AppName + ":"

type Store struct {
	url    string
	client *goredis.Client
}

func New(url string) *Store {
	return &Store{url: url}
}

// IsURL reports whether s is a redis:// or rediss:// URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "redis://") || strings.HasPrefix(s, "rediss://")
}

func (s *Store) connect() error {
	if s.client != nil {
		return nil
	}
	opts, err := goredis.ParseURL(s.url)
	if err != nil {
		return fmt.Errorf("invalid redis url: %w", err)
	}
	client := goredis.NewClient(opts)

	ctx, cancel := opCtx()
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	s.client = client
	logger.Debug("Connected to redis", "addr", opts.Addr, "db", opts.DB)
	return nil
}

// Init connects; Redis needs no schema.
func (s *Store) Init() error {
	return s.connect()
}

func (s *Store) Load() error {
	return s.connect()
}

func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}

func (s *Store) Get(key string) ([]byte, bool, error) {
	if s.client == nil {
		return nil, false, storage.ErrNotLoaded
	}
	ctx, cancel := opCtx()
	defer cancel()

	v, err := s.client.Get(ctx, namespace+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return v, true, nil
}

func (s *Store) Set(key string, value []byte) error {
	if s.client == nil {
		return storage.ErrNotLoaded
	}
	ctx, cancel := opCtx()
	defer cancel()

	if err := s.client.Set(ctx, namespace+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *Store) Remove(key string) error {
	if s.client == nil {
		return storage.ErrNotLoaded
	}
	ctx, cancel := opCtx()
	defer cancel()

	if err := s.client.Del(ctx, namespace+key).Err(); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

func (s *Store) ListKeys(prefix string) ([]string, error) {
	if s.client == nil {
		return nil, storage.ErrNotLoaded
	}
	ctx, cancel := opCtx()
	defer cancel()

	match := namespace + escapeGlob(prefix) + "*"
	var keys []string
	iter := s.client.Scan(ctx, 0, match, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), namespace))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) GetConfigPath() string {
	return "redis"
}

func opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), constants.StoreOpTimeout)
}

var globReplacer = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string {
	return globReplacer.Replace(s)
}
