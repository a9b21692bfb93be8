package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/BruksfildServices01/barberbook/internal/kv"
)

// Counter allocates monotonically increasing integers. The key holds the next
// value to hand out.
type Counter struct {
	kv   kv.Store
	key  string
	opts Options
}

func NewCounter(s kv.Store, key string, opts Options) *Counter {
	return &Counter{kv: s, key: key, opts: opts}
}

// Next returns the current value and persists current+1. An absent counter
// starts at 1. Concurrent callers never receive the same value.
func (c *Counter) Next(ctx context.Context) (int64, error) {
	for attempt := 0; attempt < c.opts.retries(); attempt++ {
		current, rev, err := c.read(ctx)
		if err != nil {
			return 0, err
		}
		ok, err := c.kv.CompareAndSwap(ctx, c.key, rev, []byte(strconv.FormatInt(current+1, 10)))
		if err != nil {
			return 0, fmt.Errorf("write %s: %w", c.key, err)
		}
		if ok {
			return current, nil
		}
		c.opts.Metrics.WriteConflict(c.key)
	}
	return 0, fmt.Errorf("%s: %w", c.key, ErrConflict)
}

// Peek returns the value Next would hand out.
func (c *Counter) Peek(ctx context.Context) (int64, error) {
	v, _, err := c.read(ctx)
	return v, err
}

// Ensure creates the counter at start unless it already exists.
func (c *Counter) Ensure(ctx context.Context, start int64) (bool, error) {
	ok, err := c.kv.CompareAndSwap(ctx, c.key, "", []byte(strconv.FormatInt(start, 10)))
	if err != nil {
		return false, fmt.Errorf("ensure %s: %w", c.key, err)
	}
	return ok, nil
}

// Revision returns the counter's current revision, empty when it is absent.
func (c *Counter) Revision(ctx context.Context) (string, error) {
	_, rev, err := c.read(ctx)
	return rev, err
}

// ResetFrom sets the counter to start only if it is still at revision. It
// reports false when the counter moved in between.
func (c *Counter) ResetFrom(ctx context.Context, revision string, start int64) (bool, error) {
	ok, err := c.kv.CompareAndSwap(ctx, c.key, revision, []byte(strconv.FormatInt(start, 10)))
	if err != nil {
		return false, fmt.Errorf("reset %s: %w", c.key, err)
	}
	return ok, nil
}

// Reset overwrites the counter unconditionally.
func (c *Counter) Reset(ctx context.Context, start int64) error {
	if err := c.kv.Set(ctx, c.key, []byte(strconv.FormatInt(start, 10))); err != nil {
		return fmt.Errorf("reset %s: %w", c.key, err)
	}
	return nil
}

func (c *Counter) read(ctx context.Context) (int64, string, error) {
	e, err := c.kv.Get(ctx, c.key)
	if errors.Is(err, kv.ErrNotFound) {
		return 1, "", nil
	}
	if err != nil {
		return 0, "", fmt.Errorf("read %s: %w", c.key, err)
	}
	n, err := strconv.ParseInt(string(e.Value), 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("decode %s: %w", c.key, err)
	}
	return n, e.Revision, nil
}
