// Package metrics provides Prometheus instrumentation for service operations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors shared across services.
type Metrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	cacheHitsTotal    *prometheus.CounterVec
}

// New creates and registers the collectors on the given registerer.
// Pass prometheus.DefaultRegisterer for the usual global registry.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "helena",
				Name:      "operations_total",
				Help:      "Service operations by name and outcome.",
			},
			[]string{"operation", "outcome"},
		),
		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "helena",
				Name:      "operation_duration_seconds",
				Help:      "Service operation latency.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		cacheHitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "helena",
				Name:      "cache_requests_total",
				Help:      "User cache lookups by result.",
			},
			[]string{"result"},
		),
	}

	reg.MustRegister(m.operationsTotal, m.operationDuration, m.cacheHitsTotal)
	return m
}

// ObserveOperation records one completed operation.
// A nil receiver is a no-op so instrumentation stays optional.
func (m *Metrics) ObserveOperation(operation string, err error, started time.Time) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.operationsTotal.WithLabelValues(operation, outcome).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

// CacheHit records a user cache hit.
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHitsTotal.WithLabelValues("hit").Inc()
}

// CacheMiss records a user cache miss.
func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheHitsTotal.WithLabelValues("miss").Inc()
}
