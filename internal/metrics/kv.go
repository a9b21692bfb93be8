package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/barberbook/internal/kv"
)

type instrumentedStore struct {
	inner   kv.Store
	metrics *Metrics
	driver  string
}

// InstrumentStore wraps inner so every operation is counted and timed.
func InstrumentStore(inner kv.Store, m *Metrics) kv.Store {
	if m == nil {
		return inner
	}
	return &instrumentedStore{inner: inner, metrics: m, driver: string(inner.Driver())}
}

func (s *instrumentedStore) observe(op string, start time.Time, err error) {
	result := "ok"
	switch {
	case errors.Is(err, kv.ErrNotFound):
		result = "not_found"
	case err != nil:
		result = "error"
	}
	s.metrics.ObserveKV(s.driver, op, result, time.Since(start))
}

func (s *instrumentedStore) Get(ctx context.Context, key string) (kv.Entry, error) {
	start := time.Now()
	e, err := s.inner.Get(ctx, key)
	s.observe("get", start, err)
	return e, err
}

func (s *instrumentedStore) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := s.inner.Set(ctx, key, value)
	s.observe("set", start, err)
	return err
}

func (s *instrumentedStore) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := s.inner.Delete(ctx, key)
	s.observe("delete", start, err)
	return err
}

func (s *instrumentedStore) CompareAndSwap(ctx context.Context, key, revision string, value []byte) (bool, error) {
	start := time.Now()
	ok, err := s.inner.CompareAndSwap(ctx, key, revision, value)
	if err == nil && !ok {
		s.metrics.ObserveKV(s.driver, "cas", "conflict", time.Since(start))
		return ok, err
	}
	s.observe("cas", start, err)
	return ok, err
}

func (s *instrumentedStore) Driver() kv.Driver { return s.inner.Driver() }

func (s *instrumentedStore) Close() error { return s.inner.Close() }
