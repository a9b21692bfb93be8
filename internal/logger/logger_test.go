package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/BruksfildServices01/barberbook/internal/config"
)

func TestNew_Levels(t *testing.T) {
	for _, env := range []string{"production", "development"} {
		log, err := New(&config.Config{LogLevel: "warn", Environment: env, AppRole: "client", InstanceID: "t"})
		if err != nil {
			t.Fatalf("%s: %v", env, err)
		}
		if log.Core().Enabled(zap.InfoLevel) {
			t.Fatalf("%s: info should be disabled at warn level", env)
		}
		if !log.Core().Enabled(zap.WarnLevel) {
			t.Fatalf("%s: warn should be enabled", env)
		}
	}
}

func TestMiddleware_RequestIDAndLog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	r := gin.New()
	r.Use(Middleware(base))
	r.GET("/ping", func(c *gin.Context) {
		if FromGin(c) == zap.L() {
			t.Errorf("expected request scoped logger")
		}
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get(HeaderRequestID); got != "req-1" {
		t.Fatalf("request id not echoed: %q", got)
	}
	entries := logs.FilterMessage("http request").All()
	if len(entries) != 1 {
		t.Fatalf("expected one request log, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["request_id"] != "req-1" || fields["path"] != "/ping" {
		t.Fatalf("unexpected fields %+v", fields)
	}
}
