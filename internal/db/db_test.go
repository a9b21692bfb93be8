package db

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/BruksfildServices01/barberbook/internal/config"
	"github.com/BruksfildServices01/barberbook/internal/kv"
	"github.com/BruksfildServices01/barberbook/internal/metrics"
)

func TestOpen_Memory(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{StoreDriver: "memory", StoreNamespace: "test"}
	b, err := Open(ctx, cfg, metrics.New(), zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	if b.Redis != nil {
		t.Fatalf("memory backend should not expose redis")
	}
	if err := b.Store.Set(ctx, "users", []byte("[]")); err != nil {
		t.Fatal(err)
	}
	raw := b.raw.(*kv.MemoryStore)
	if _, err := raw.Get(ctx, "test:users"); err != nil {
		t.Fatalf("namespace not applied: %v", err)
	}
}

func TestOpen_SQLite(t *testing.T) {
	cfg := &config.Config{StoreDriver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "kv.db")}
	b, err := Open(context.Background(), cfg, nil, zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	if b.Store.Driver() != kv.DriverSQLite {
		t.Fatalf("driver %s", b.Store.Driver())
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	cfg := &config.Config{StoreDriver: "etcd"}
	if _, err := Open(context.Background(), cfg, nil, zaptest.NewLogger(t)); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
