// Package mongo implements kv.Store on a MongoDB collection. Each key is one
// document {_id, value, revision}; CompareAndSwap is an update filtered on the
// revision read earlier.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BruksfildServices01/barberbook/internal/kv"
)

const defaultCollection = "kv_entries"

type document struct {
	Key       string    `bson:"_id"`
	Value     []byte    `bson:"value"`
	Revision  int64     `bson:"revision"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// Config holds connection parameters.
type Config struct {
	URI        string
	Database   string
	Collection string
}

type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// New connects and pings the server.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo uri required")
	}
	if cfg.Database == "" {
		cfg.Database = "barberbook"
	}
	if cfg.Collection == "" {
		cfg.Collection = defaultCollection
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &Store{client: client, coll: client.Database(cfg.Database).Collection(cfg.Collection)}, nil
}

func (s *Store) Driver() kv.Driver { return kv.DriverMongo }

func (s *Store) Get(ctx context.Context, key string) (kv.Entry, error) {
	var doc document
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return kv.Entry{}, kv.ErrNotFound
	}
	if err != nil {
		return kv.Entry{}, fmt.Errorf("mongo get %s: %w", key, err)
	}
	return kv.Entry{Key: key, Value: doc.Value, Revision: strconv.FormatInt(doc.Revision, 10)}, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": key},
		bson.M{
			"$set": bson.M{"value": value, "updatedAt": time.Now().UTC()},
			"$inc": bson.M{"revision": int64(1)},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("mongo set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("mongo delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) CompareAndSwap(ctx context.Context, key, revision string, value []byte) (bool, error) {
	if revision == "" {
		_, err := s.coll.InsertOne(ctx, document{Key: key, Value: value, Revision: 1, UpdatedAt: time.Now().UTC()})
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("mongo create %s: %w", key, err)
		}
		return true, nil
	}

	rev, err := strconv.ParseInt(revision, 10, 64)
	if err != nil {
		return false, nil
	}
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": key, "revision": rev},
		bson.M{
			"$set": bson.M{"value": value, "updatedAt": time.Now().UTC()},
			"$inc": bson.M{"revision": int64(1)},
		},
	)
	if err != nil {
		return false, fmt.Errorf("mongo cas %s: %w", key, err)
	}
	return res.MatchedCount == 1, nil
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ kv.Store = (*Store)(nil)
