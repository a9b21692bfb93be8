// Package redis implements kv.Store on a Redis server. Each key is a hash with
// a "data" field holding the JSON document and a "rev" counter; CompareAndSwap
// runs inside WATCH/MULTI so a concurrent writer aborts the transaction.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/barberbook/internal/kv"
)

const (
	fieldData = "data"
	fieldRev  = "rev"
)

// Config holds connection parameters.
type Config struct {
	Addr     string
	Password string
	DB       int
}

type Store struct {
	client *redis.Client
}

// New connects and pings the server.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis addr required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Store{client: client}, nil
}

// NewFromClient wraps an existing client.
func NewFromClient(client *redis.Client) *Store { return &Store{client: client} }

// Client exposes the underlying connection for pub/sub users.
func (s *Store) Client() *redis.Client { return s.client }

func (s *Store) Driver() kv.Driver { return kv.DriverRedis }

func (s *Store) Get(ctx context.Context, key string) (kv.Entry, error) {
	vals, err := s.client.HMGet(ctx, key, fieldData, fieldRev).Result()
	if err != nil {
		return kv.Entry{}, fmt.Errorf("redis get %s: %w", key, err)
	}
	data, ok := vals[0].(string)
	if !ok {
		return kv.Entry{}, kv.ErrNotFound
	}
	rev, _ := vals[1].(string)
	return kv.Entry{Key: key, Value: []byte(data), Revision: rev}, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fieldData, value)
		pipe.HIncrBy(ctx, key, fieldRev, 1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) CompareAndSwap(ctx context.Context, key, revision string, value []byte) (bool, error) {
	swapped := false
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.HGet(ctx, key, fieldRev).Result()
		switch {
		case errors.Is(err, redis.Nil):
			current = ""
		case err != nil:
			return err
		}
		if current != revision {
			return nil
		}
		next := int64(1)
		if current != "" {
			n, err := strconv.ParseInt(current, 10, 64)
			if err != nil {
				return fmt.Errorf("corrupt revision %q: %w", current, err)
			}
			next = n + 1
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, fieldData, value, fieldRev, next)
			return nil
		})
		if err != nil {
			return err
		}
		swapped = true
		return nil
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis cas %s: %w", key, err)
	}
	return swapped, nil
}

func (s *Store) Close() error { return s.client.Close() }

var _ kv.Store = (*Store)(nil)
