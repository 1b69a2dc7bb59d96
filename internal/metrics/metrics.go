// Package metrics exposes Prometheus metrics for the catalog service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-catalog-cache/catalog"
	"github.com/goliatone/go-catalog-cache/retrieval"
)

const namespace = "catalog"

// Metrics holds the collectors. It implements retrieval.Recorder.
type Metrics struct {
	CacheEventsTotal           *prometheus.CounterVec
	IndexRequestDuration       *prometheus.HistogramVec
	IndexErrorsTotal           *prometheus.CounterVec
	HTTPRequestTotal           *prometheus.CounterVec
	HTTPRequestDurationSeconds *prometheus.HistogramVec
}

var _ retrieval.Recorder = (*Metrics)(nil)

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CacheEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_events_total",
				Help:      "Cache lookups and writes by entity kind and outcome.",
			},
			[]string{"kind", "outcome"},
		),
		IndexRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "index_request_duration_seconds",
				Help:      "Index request duration in seconds.",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2.5, 10), // 1ms to ~9.3s
			},
			[]string{"index", "operation"},
		),
		IndexErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "index_errors_total",
				Help:      "Failed index requests by index and operation.",
			},
			[]string{"index", "operation"},
		),
		HTTPRequestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by method, route, and status.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds.",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2.5, 10),
			},
			[]string{"method", "route"},
		),
	}

	reg.MustRegister(
		m.CacheEventsTotal,
		m.IndexRequestDuration,
		m.IndexErrorsTotal,
		m.HTTPRequestTotal,
		m.HTTPRequestDurationSeconds,
	)
	return m
}

func (m *Metrics) CacheEvent(kind catalog.Kind, outcome retrieval.CacheOutcome) {
	m.CacheEventsTotal.WithLabelValues(kind.String(), string(outcome)).Inc()
}

func (m *Metrics) IndexRequest(index, operation string, elapsed time.Duration, err error) {
	m.IndexRequestDuration.WithLabelValues(index, operation).Observe(elapsed.Seconds())
	if err != nil {
		m.IndexErrorsTotal.WithLabelValues(index, operation).Inc()
	}
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route, status string, elapsed time.Duration) {
	m.HTTPRequestTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDurationSeconds.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
