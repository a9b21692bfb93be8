package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/BruksfildServices01/barberbook/internal/kv"
	"github.com/BruksfildServices01/barberbook/internal/kv/kvtest"
)

func TestInstrumentStore_Contract(t *testing.T) {
	kvtest.Run(t, InstrumentStore(kv.NewMemory(), New()))
}

func TestInstrumentStore_CountsResults(t *testing.T) {
	ctx := context.Background()
	m := New()
	s := InstrumentStore(kv.NewMemory(), m)

	_, _ = s.Get(ctx, "missing")
	_ = s.Set(ctx, "k", []byte("1"))
	_, _ = s.CompareAndSwap(ctx, "k", "", []byte("2"))

	if got := testutil.ToFloat64(m.kvOps.WithLabelValues("memory", "get", "not_found")); got != 1 {
		t.Fatalf("expected one not_found get, got %v", got)
	}
	if got := testutil.ToFloat64(m.kvOps.WithLabelValues("memory", "set", "ok")); got != 1 {
		t.Fatalf("expected one set, got %v", got)
	}
	if got := testutil.ToFloat64(m.kvOps.WithLabelValues("memory", "cas", "conflict")); got != 1 {
		t.Fatalf("expected one cas conflict, got %v", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.Transition("client", "cancelled")
	m.WriteConflict("bookings")
	m.ObserveKV("memory", "get", "ok", 0)
	inner := kv.NewMemory()
	if InstrumentStore(inner, nil) != kv.Store(inner) {
		t.Fatalf("nil metrics should not wrap the store")
	}
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/ping", "200")); got != 1 {
		t.Fatalf("expected one recorded request, got %v", got)
	}

	m.Transition("barber", "completed")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(w.Body.String(), `booking_status_transitions_total{actor="barber",status="completed"} 1`) {
		t.Fatalf("transition metric missing from exposition")
	}
}
