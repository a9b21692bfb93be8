package kv_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/BruksfildServices01/barberbook/internal/kv"
	"github.com/BruksfildServices01/barberbook/internal/kv/kvtest"
)

func TestMemoryStore_Contract(t *testing.T) {
	kvtest.Run(t, kv.NewMemory())
}

func TestNamespacedStore_Contract(t *testing.T) {
	kvtest.Run(t, kv.WithNamespace(kv.NewMemory(), "barberbook"))
}

func TestNamespace_IsolatesKeys(t *testing.T) {
	ctx := context.Background()
	base := kv.NewMemory()
	a := kv.WithNamespace(base, "a")
	b := kv.WithNamespace(base, "b")

	if err := a.Set(ctx, "users", []byte(`[]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := b.Get(ctx, "users"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("namespace b must not see a's key, got %v", err)
	}
	e, err := base.Get(ctx, "a:users")
	if err != nil {
		t.Fatalf("expected prefixed key in base store: %v", err)
	}
	if e.Key != "a:users" {
		t.Fatalf("unexpected key %q", e.Key)
	}
	got, err := a.Get(ctx, "users")
	if err != nil || got.Key != "users" {
		t.Fatalf("namespaced get should report the short key: %q %v", got.Key, err)
	}
	if kv.WithNamespace(base, "") != kv.Store(base) {
		t.Fatalf("empty namespace should return the inner store")
	}
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := kv.NewMemory()
	_ = s.Set(ctx, "k", []byte("abc"))
	e, _ := s.Get(ctx, "k")
	e.Value[0] = 'z'
	again, _ := s.Get(ctx, "k")
	if string(again.Value) != "abc" {
		t.Fatalf("stored value was mutated through Get: %q", again.Value)
	}
}

func TestMemoryStore_ConcurrentCASOneWinner(t *testing.T) {
	ctx := context.Background()
	s := kv.NewMemory()
	_ = s.Set(ctx, "k", []byte("0"))
	e, _ := s.Get(ctx, "k")

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.CompareAndSwap(ctx, "k", e.Revision, []byte("1"))
			if err != nil {
				t.Errorf("cas: %v", err)
				return
			}
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}
	if s.Keys() != 1 {
		t.Fatalf("expected one key, got %d", s.Keys())
	}
}
