// Package metrics provides Prometheus metrics for the valuation service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run outcomes recorded by RunFinished.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithHistogramBuckets sets custom buckets for the duration histograms.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.buckets = buckets
		}
	}
}

// WithRegistry sets the registry metrics are registered on and served from.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// Manager owns the service's Prometheus collectors.
type Manager struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	runs        *prometheus.CounterVec
	errors      *prometheus.CounterVec
	runDuration prometheus.Histogram

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewManager creates a Manager. Without WithRegistry it uses a private
// registry so tests can build as many managers as they need.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "valuation",
		buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	auto := promauto.With(m.registry)
	m.runs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "runs_total",
		Help:      "Valuation runs by outcome.",
	}, []string{"status"})
	m.errors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "errors_total",
		Help:      "Failed valuation runs by error kind.",
	}, []string{"kind"})
	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "run_duration_seconds",
		Help:      "Wall time of a full valuation run.",
		Buckets:   m.buckets,
	})
	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "status"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: m.buckets,
	}, []string{"route", "method"})
	return m
}

// RunFinished records one valuation run. kind is the error kind for failed
// runs and ignored for successful ones.
func (m *Manager) RunFinished(d time.Duration, kind string, err error) {
	if m == nil {
		return
	}
	m.runDuration.Observe(d.Seconds())
	if err != nil {
		m.runs.WithLabelValues(StatusError).Inc()
		if kind == "" {
			kind = "INTERNAL"
		}
		m.errors.WithLabelValues(kind).Inc()
		return
	}
	m.runs.WithLabelValues(StatusOK).Inc()
}

// ObserveHTTP records one served request.
func (m *Manager) ObserveHTTP(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// Registry exposes the underlying registry.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
