// Package store builds typed, concurrency-safe collections on top of kv.Store.
//
// A collection is every record of one entity type held under one key. Mutations
// read the whole collection, change it in memory and write it back with
// CompareAndSwap; a write that lost a race is retried from a fresh read instead
// of overwriting the other writer's change.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/BruksfildServices01/barberbook/internal/kv"
	"github.com/BruksfildServices01/barberbook/internal/metrics"
)

// Storage keys. Each is independent: there are no joins at the storage layer.
const (
	KeyUsers         = "users"
	KeyUserIDCounter = "userIdCounter"
	KeyBarbers       = "barbers"
	KeyServices      = "services"
	KeyClients       = "clients"
	KeyBookings      = "bookings"
	KeyAuditLogs     = "auditLogs"
)

const DefaultMaxRetries = 8

var (
	// ErrConflict means an optimistic write kept losing to concurrent writers.
	ErrConflict = errors.New("store: write conflict, retries exhausted")
	// ErrSkipWrite lets an update function finish without writing anything.
	ErrSkipWrite = errors.New("store: skip write")
)

type Options struct {
	MaxRetries int
	Metrics    *metrics.Metrics
}

func (o Options) retries() int {
	if o.MaxRetries <= 0 {
		return DefaultMaxRetries
	}
	return o.MaxRetries
}

// GetJSON decodes the value under key into a new T. It returns nil, nil when
// the key is absent.
func GetJSON[T any](ctx context.Context, s kv.Store, key string) (*T, error) {
	e, err := s.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	var v T
	if err := json.Unmarshal(e.Value, &v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &v, nil
}

func SetJSON(ctx context.Context, s kv.Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, data); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
