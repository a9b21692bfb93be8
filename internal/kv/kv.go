// Package kv defines the key-value persistence contract every store is built on.
//
// A Store holds JSON documents under string keys. Each key is individually atomic:
// a write is all-or-nothing, but there is no transaction spanning two keys. Every
// successful write assigns a new opaque revision, which CompareAndSwap uses to
// reject writes based on a stale read.
package kv

import (
	"context"
	"errors"
)

// Driver identifies a concrete backend implementation.
type Driver string

const (
	DriverMemory   Driver = "memory"
	DriverRedis    Driver = "redis"
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
	DriverS3       Driver = "s3"
	DriverMongo    Driver = "mongo"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("kv: key not found")

// Entry is a stored value together with the revision it was read at.
type Entry struct {
	Key      string
	Value    []byte
	Revision string
}

// Store is the persistence primitive. Implementations surface backend failures
// to the caller unchanged (wrapped) and never retry.
type Store interface {
	Get(ctx context.Context, key string) (Entry, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// CompareAndSwap writes value only if the stored revision equals revision.
	// An empty revision means the key must not exist yet. It reports false,
	// without error, when the precondition does not hold.
	CompareAndSwap(ctx context.Context, key, revision string, value []byte) (bool, error)
	Driver() Driver
	Close() error
}
