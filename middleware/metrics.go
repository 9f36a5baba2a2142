package middleware

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dmitrymomot/relay/core/handler"
)

// MetricsConfig configures the Prometheus middleware.
type MetricsConfig struct {
	// Namespace defaults to "relay".
	Namespace   string
	Subsystem   string
	ConstLabels prometheus.Labels
	// Buckets default to prometheus.DefBuckets.
	Buckets []float64
	// Registry defaults to prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus middleware.
type MetricsOption func(*MetricsConfig)

func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) { c.Namespace = namespace }
}

func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) { c.Subsystem = subsystem }
}

func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) { c.ConstLabels = labels }
}

func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) { c.Buckets = buckets }
}

// WithRegistry registers the collectors on r instead of the default registerer.
func WithRegistry(r prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) { c.Registry = r }
}

type httpMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

func newHTTPMetrics(cfg MetricsConfig) *httpMetrics {
	factory := promauto.With(cfg.Registry)

	return &httpMetrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "http_requests_total",
			Help:        "Requests handled, by method, route and status.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"method", "route", "status"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "http_request_duration_seconds",
			Help:        "Time spent in the handler chain.",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}, []string{"method", "route"}),

		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "http_requests_in_flight",
			Help:        "Requests currently in the handler chain.",
			ConstLabels: cfg.ConstLabels,
		}),
	}
}

// Metrics records request count, latency and in-flight requests. Routes are
// labelled by pattern, not by raw path, to keep cardinality bounded.
//
// Collectors are registered when Metrics is called; calling it twice with the
// same registry panics.
func Metrics(opts ...MetricsOption) handler.HandlerFunc {
	cfg := MetricsConfig{
		Namespace: "relay",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	m := newHTTPMetrics(cfg)

	return func(ctx *handler.Context, next handler.Next) error {
		m.inFlight.Inc()
		start := time.Now()

		next(nil)

		m.inFlight.Dec()
		method, route := ctx.Method(), ctx.Route()
		m.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		m.requests.WithLabelValues(method, route, strconv.Itoa(ctx.Response().StatusCode())).Inc()
		return nil
	}
}
