// Package factory picks a storage.Provider from a path or connection string.
package factory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tranaapp/trana/internal/storage"
	"github.com/tranaapp/trana/internal/storage/mongo"
	"github.com/tranaapp/trana/internal/storage/postgres"
	"github.com/tranaapp/trana/internal/storage/redis"
	"github.com/tranaapp/trana/internal/storage/sqlite"
	"github.com/tranaapp/trana/internal/utils"
)

// MemoryDSN selects the in-process store.
const MemoryDSN = "memory:"

// Open returns the provider for dsn without connecting to it:
//
//	postgres://, postgresql://, host=...  PostgreSQL
//	redis://, rediss://                   Redis
//	mongodb://, mongodb+srv://            MongoDB
//	memory:                               in-process, lost on exit
//	*.json                                single JSON file
//	anything else                         SQLite file
func Open(dsn string) (storage.Provider, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("storage location cannot be empty")
	}

	switch {
	case postgres.IsConnString(dsn):
		if valid, err := postgres.ValidateConnString(dsn); !valid {
			return nil, err
		}
		return postgres.New(dsn), nil
	case redis.IsURL(dsn):
		return redis.New(dsn), nil
	case mongo.IsURI(dsn):
		return mongo.New(dsn), nil
	case dsn == MemoryDSN:
		return storage.NewMemoryStore(), nil
	}

	path, err := utils.ExpandHome(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dsn, err)
	}
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return storage.NewJSONStore(path), nil
	}
	return sqlite.NewStore(path), nil
}

// IsFileBacked reports whether dsn names a local file store.
func IsFileBacked(dsn string) bool {
	return !postgres.IsConnString(dsn) && !redis.IsURL(dsn) && !mongo.IsURI(dsn) && dsn != MemoryDSN
}
