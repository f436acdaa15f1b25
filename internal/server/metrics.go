package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/genelayout/pkg/observability"
)

// =============================================================================
// Prometheus Metrics
// =============================================================================

// Metrics turns observability hook events into Prometheus series. It
// implements LayoutHooks, CacheHooks and ServerHooks.
type Metrics struct {
	registry *prometheus.Registry

	layoutRuns        *prometheus.CounterVec
	layoutDuration    *prometheus.HistogramVec
	layoutGenerations *prometheus.HistogramVec
	renderDuration    *prometheus.HistogramVec
	cacheEvents       *prometheus.CounterVec
	cacheBytes        *prometheus.CounterVec
	requests          *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
}

// NewMetrics registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		// Labels: kind, status (ok, error)
		layoutRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "genelayout",
			Subsystem: "layout",
			Name:      "runs_total",
			Help:      "Total layout runs by kind and outcome",
		}, []string{"kind", "status"}),

		layoutDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "genelayout",
			Subsystem: "layout",
			Name:      "duration_seconds",
			Help:      "Layout run latency in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"kind"}),

		layoutGenerations: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "genelayout",
			Subsystem: "layout",
			Name:      "generations",
			Help:      "Generations evolved per layout run",
			Buckets:   []float64{0, 1, 5, 10, 30, 100, 300, 1000},
		}, []string{"kind"}),

		// Labels: format
		renderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "genelayout",
			Subsystem: "render",
			Name:      "duration_seconds",
			Help:      "Render latency in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"format"}),

		// Labels: key_type (layout, artifact), event (hit, miss, set)
		cacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "genelayout",
			Subsystem: "cache",
			Name:      "events_total",
			Help:      "Cache hits, misses and writes",
		}, []string{"key_type", "event"}),

		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "genelayout",
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache",
		}, []string{"key_type"}),

		// Labels: method, route, code
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "genelayout",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code",
		}, []string{"method", "route", "code"}),

		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "genelayout",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP handler latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Install registers m as the global layout, cache and server hooks.
func (m *Metrics) Install() {
	observability.SetLayoutHooks(m)
	observability.SetCacheHooks(m)
	observability.SetServerHooks(m)
}

func (m *Metrics) OnLayoutStart(context.Context, string, int) {}

func (m *Metrics) OnLayoutComplete(_ context.Context, kind string, generations int, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.layoutRuns.WithLabelValues(kind, status).Inc()
	m.layoutDuration.WithLabelValues(kind).Observe(d.Seconds())
	m.layoutGenerations.WithLabelValues(kind).Observe(float64(generations))
}

func (m *Metrics) OnRenderStart(context.Context, string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, format string, d time.Duration, _ error) {
	m.renderDuration.WithLabelValues(format).Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.LayoutHooks = (*Metrics)(nil)
	_ observability.CacheHooks  = (*Metrics)(nil)
	_ observability.ServerHooks = (*Metrics)(nil)
)
