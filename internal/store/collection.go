package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/BruksfildServices01/barberbook/internal/kv"
)

// Collection is the list of every T stored under one key.
type Collection[T any] struct {
	kv   kv.Store
	key  string
	opts Options
}

func NewCollection[T any](s kv.Store, key string, opts Options) *Collection[T] {
	return &Collection[T]{kv: s, key: key, opts: opts}
}

func (c *Collection[T]) Key() string { return c.key }

// Load returns the records. An absent key is an empty collection.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	items, _, _, err := c.load(ctx)
	return items, err
}

// Exists reports whether the collection key has been written.
func (c *Collection[T]) Exists(ctx context.Context) (bool, error) {
	_, _, ok, err := c.load(ctx)
	return ok, err
}

// Ensure writes initial only if the key is absent. It never touches an
// existing collection and reports whether it created one.
func (c *Collection[T]) Ensure(ctx context.Context, initial []T) (bool, error) {
	data, err := encode(initial)
	if err != nil {
		return false, fmt.Errorf("encode %s: %w", c.key, err)
	}
	ok, err := c.kv.CompareAndSwap(ctx, c.key, "", data)
	if err != nil {
		return false, fmt.Errorf("ensure %s: %w", c.key, err)
	}
	return ok, nil
}

// Update runs fn against the current records and writes its result back. When
// another writer got there first, fn runs again on the fresh records, so it
// must not keep state across calls. fn may return ErrSkipWrite to stop without
// writing; Update then returns the records fn saw and a nil error.
func (c *Collection[T]) Update(ctx context.Context, fn func(items []T) ([]T, error)) ([]T, error) {
	for attempt := 0; attempt < c.opts.retries(); attempt++ {
		items, rev, _, err := c.load(ctx)
		if err != nil {
			return nil, err
		}

		next, err := fn(items)
		if errors.Is(err, ErrSkipWrite) {
			return items, nil
		}
		if err != nil {
			return nil, err
		}

		data, err := encode(next)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", c.key, err)
		}
		ok, err := c.kv.CompareAndSwap(ctx, c.key, rev, data)
		if err != nil {
			return nil, fmt.Errorf("write %s: %w", c.key, err)
		}
		if ok {
			return next, nil
		}
		c.opts.Metrics.WriteConflict(c.key)
	}
	return nil, fmt.Errorf("%s: %w", c.key, ErrConflict)
}

func (c *Collection[T]) load(ctx context.Context) ([]T, string, bool, error) {
	e, err := c.kv.Get(ctx, c.key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, "", false, nil
	}
	if err != nil {
		return nil, "", false, fmt.Errorf("read %s: %w", c.key, err)
	}
	var items []T
	if err := json.Unmarshal(e.Value, &items); err != nil {
		return nil, "", false, fmt.Errorf("decode %s: %w", c.key, err)
	}
	return items, e.Revision, true, nil
}

// encode writes an empty array rather than null for a nil slice.
func encode[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(items)
}
