// Package metrics exposes Prometheus instrumentation for chart assembly,
// the upstream GraphQL API and the HTTP layer.
//
// Metrics are registered on a private registry so tests can build as many
// instances as they need; Handler serves it at /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fleet-console/backend/internal/application/adapter"
	"github.com/fleet-console/backend/internal/domain/entity"
	"github.com/fleet-console/backend/internal/domain/valueobject"
)

const namespace = "fleet_console"

// Breaker state gauge values.
const (
	breakerClosed   = 0
	breakerHalfOpen = 1
	breakerOpen     = 2
)

// Metrics holds every collector of the service.
type Metrics struct {
	registry *prometheus.Registry

	chartAssemblyDuration *prometheus.HistogramVec
	chartFetchFailures    *prometheus.CounterVec
	staleDiscarded        prometheus.Counter

	upstreamDuration *prometheus.HistogramVec
	upstreamCalls    *prometheus.CounterVec
	breakerState     *prometheus.GaugeVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

var (
	_ adapter.ChartMetrics    = (*Metrics)(nil)
	_ adapter.UpstreamMetrics = (*Metrics)(nil)
)

// New creates the collectors on a fresh registry, including the Go runtime
// and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		chartAssemblyDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "chart_assembly_duration_seconds",
				Help:      "Duration of chart assembly including upstream fetches",
				Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"chart", "timeframe"},
		),
		chartFetchFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "chart_fetch_failures_total",
				Help:      "Dataset fetches that failed and were rendered as zeros",
			},
			[]string{"chart", "dataset"},
		),
		staleDiscarded: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "live_stale_responses_total",
				Help:      "Live view loads discarded because a newer timeframe was selected",
			},
		),

		upstreamDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_request_duration_seconds",
				Help:      "Duration of upstream GraphQL operations",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		upstreamCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_requests_total",
				Help:      "Upstream GraphQL operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
		breakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "circuit_breaker_state",
				Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
			},
			[]string{"name"},
		),

		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveAssembly implements adapter.ChartMetrics.
func (m *Metrics) ObserveAssembly(kind entity.ChartKind, timeframe valueobject.Timeframe, duration time.Duration) {
	m.chartAssemblyDuration.WithLabelValues(string(kind), string(timeframe)).Observe(duration.Seconds())
}

// IncFetchFailure implements adapter.ChartMetrics.
func (m *Metrics) IncFetchFailure(kind entity.ChartKind, dataset string) {
	m.chartFetchFailures.WithLabelValues(string(kind), dataset).Inc()
}

// IncStaleDiscarded implements adapter.ChartMetrics.
func (m *Metrics) IncStaleDiscarded() {
	m.staleDiscarded.Inc()
}

// ObserveUpstreamCall implements adapter.UpstreamMetrics.
func (m *Metrics) ObserveUpstreamCall(operation, outcome string, duration time.Duration) {
	m.upstreamCalls.WithLabelValues(operation, outcome).Inc()
	if outcome != "rejected" {
		m.upstreamDuration.WithLabelValues(operation).Observe(duration.Seconds())
	}
}

// SetBreakerState implements adapter.UpstreamMetrics.
func (m *Metrics) SetBreakerState(name, state string) {
	value := breakerClosed
	switch state {
	case "half-open":
		value = breakerHalfOpen
	case "open":
		value = breakerOpen
	}
	m.breakerState.WithLabelValues(name).Set(float64(value))
}

// Middleware records request counts and latency per matched route.
// Unmatched routes share one label to keep cardinality bounded.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(started).Seconds())
	}
}
