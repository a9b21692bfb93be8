// Package kvtest holds the contract suite every kv.Store driver must pass.
package kvtest

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barberbook/internal/kv"
)

// Run exercises store against the kv.Store contract. Keys are randomized so the
// suite can run against a shared backend.
func Run(t *testing.T, store kv.Store) {
	t.Helper()
	ctx := context.Background()
	prefix := "kvtest-" + uuid.NewString() + "-"

	t.Run("MissingKey", func(t *testing.T) {
		if _, err := store.Get(ctx, prefix+"missing"); !errors.Is(err, kv.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if err := store.Delete(ctx, prefix+"missing"); err != nil {
			t.Fatalf("delete of missing key: %v", err)
		}
	})

	t.Run("SetGetDelete", func(t *testing.T) {
		key := prefix + "plain"
		if err := store.Set(ctx, key, []byte(`{"a":1}`)); err != nil {
			t.Fatalf("set: %v", err)
		}
		e, err := store.Get(ctx, key)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if !bytes.Equal(e.Value, []byte(`{"a":1}`)) {
			t.Fatalf("unexpected value %q", e.Value)
		}
		if e.Revision == "" {
			t.Fatalf("expected a revision")
		}
		if err := store.Set(ctx, key, []byte(`{"a":2}`)); err != nil {
			t.Fatalf("overwrite: %v", err)
		}
		e2, err := store.Get(ctx, key)
		if err != nil {
			t.Fatalf("get after overwrite: %v", err)
		}
		if e2.Revision == e.Revision {
			t.Fatalf("revision did not change after write")
		}
		if err := store.Delete(ctx, key); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := store.Get(ctx, key); !errors.Is(err, kv.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("CompareAndSwap", func(t *testing.T) {
		key := prefix + "cas"
		ok, err := store.CompareAndSwap(ctx, key, "", []byte(`[1]`))
		if err != nil || !ok {
			t.Fatalf("create-only on absent key: ok=%v err=%v", ok, err)
		}
		ok, err = store.CompareAndSwap(ctx, key, "", []byte(`[2]`))
		if err != nil || ok {
			t.Fatalf("create-only on existing key must fail: ok=%v err=%v", ok, err)
		}
		e, err := store.Get(ctx, key)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		ok, err = store.CompareAndSwap(ctx, key, e.Revision, []byte(`[1,2]`))
		if err != nil || !ok {
			t.Fatalf("swap at current revision: ok=%v err=%v", ok, err)
		}
		ok, err = store.CompareAndSwap(ctx, key, e.Revision, []byte(`[1,3]`))
		if err != nil || ok {
			t.Fatalf("swap at stale revision must fail: ok=%v err=%v", ok, err)
		}
		got, err := store.Get(ctx, key)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if !bytes.Equal(got.Value, []byte(`[1,2]`)) {
			t.Fatalf("stale swap leaked: %q", got.Value)
		}
		_ = store.Delete(ctx, key)
		ok, err = store.CompareAndSwap(ctx, key, got.Revision, []byte(`[9]`))
		if err != nil || ok {
			t.Fatalf("swap on deleted key must fail: ok=%v err=%v", ok, err)
		}
	})
}
