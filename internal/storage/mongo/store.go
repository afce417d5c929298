// Package mongo stores the key-value state as documents in a MongoDB
// collection keyed by _id.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tranaapp/trana/internal/constants"
	"github.com/tranaapp/trana/internal/logger"
	"github.com/tranaapp/trana/internal/storage"
)

const collectionName = "kv"

type document struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type Store struct {
	uri    string
	client *mongo.Client
	coll   *mongo.Collection
}

func New(uri string) *Store {
	return &Store{uri: uri}
}

// IsURI reports whether s is a mongodb:// or mongodb+srv:// URI.
func IsURI(s string) bool {
	return strings.HasPrefix(s, "mongodb://") || strings.HasPrefix(s, "mongodb+srv://")
}

// databaseName takes the database from the URI path, falling back to the app name.
func databaseName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return constants.AppName
	}
	if name := strings.Trim(u.Path, "/"); name != "" {
		return name
	}
	return constants.AppName
}

func (s *Store) connect() error {
	if s.client != nil {
		return nil
	}
	ctx, cancel := opCtx()
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.uri))
	if err != nil {
		return fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("failed to reach mongodb: %w", err)
	}

	s.client = client
	s.coll = client.Database(databaseName(s.uri)).Collection(collectionName)
	logger.Debug("Connected to mongodb", "database", databaseName(s.uri))
	return nil
}

// Init connects; the collection is created on first write.
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
	ctx, cancel := opCtx()
	defer cancel()
	err := s.client.Disconnect(ctx)
	s.client = nil
	s.coll = nil
	return err
}

func (s *Store) Get(key string) ([]byte, bool, error) {
	if s.coll == nil {
		return nil, false, storage.ErrNotLoaded
	}
	ctx, cancel := opCtx()
	defer cancel()

	var doc document
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return []byte(doc.Value), true, nil
}

func (s *Store) Set(key string, value []byte) error {
	if s.coll == nil {
		return storage.ErrNotLoaded
	}
	ctx, cancel := opCtx()
	defer cancel()

	doc := document{Key: key, Value: string(value), UpdatedAt: time.Now().UTC()}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *Store) Remove(key string) error {
	if s.coll == nil {
		return storage.ErrNotLoaded
	}
	ctx, cancel := opCtx()
	defer cancel()

	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

func (s *Store) ListKeys(prefix string) ([]string, error) {
	if s.coll == nil {
		return nil, storage.ErrNotLoaded
	}
	ctx, cancel := opCtx()
	defer cancel()

	filter := bson.M{"_id": bson.M{"$regex": "^" + regexp.QuoteMeta(prefix)}}
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{"_id": 1})

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer cursor.Close(ctx)

	var keys []string
	for cursor.Next(ctx) {
		var doc struct {
			Key string `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		keys = append(keys, doc.Key)
	}
	return keys, cursor.Err()
}

func (s *Store) GetConfigPath() string {
	return "mongodb"
}

func opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), constants.StoreOpTimeout)
}
