// Package metrics owns the prometheus collectors of the process. Every method is
// safe on a nil *Metrics so stores can run without instrumentation in tests.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	kvOps      *prometheus.CounterVec
	kvDuration *prometheus.HistogramVec

	writeConflicts *prometheus.CounterVec
	transitions    *prometheus.CounterVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		kvOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kv_operations_total",
			Help: "Key-value operations by driver, operation and result",
		}, []string{"driver", "op", "result"}),
		kvDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kv_operation_duration_seconds",
			Help:    "Latency of key-value operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"driver", "op"}),
		writeConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "store_write_conflicts_total",
			Help: "Optimistic writes that lost a race and were retried",
		}, []string{"key"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_status_transitions_total",
			Help: "Applied booking status transitions by actor and target status",
		}, []string{"actor", "status"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.requestDuration,
		m.kvOps, m.kvDuration,
		m.writeConflicts, m.transitions,
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records count and latency of every request.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if m == nil {
			return
		}
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		m.requests.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) ObserveKV(driver, op, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.kvOps.WithLabelValues(driver, op, result).Inc()
	m.kvDuration.WithLabelValues(driver, op).Observe(d.Seconds())
}

func (m *Metrics) WriteConflict(key string) {
	if m == nil {
		return
	}
	m.writeConflicts.WithLabelValues(key).Inc()
}

func (m *Metrics) Transition(actor, status string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(actor, status).Inc()
}
