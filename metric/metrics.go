// Package metric provides Prometheus metrics for the gateway.
package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains the gateway's platform-level metrics
type Metrics struct {
	registry *prometheus.Registry

	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	BreakerState      *prometheus.GaugeVec
	FallbacksTotal    *prometheus.CounterVec
	EventsPublished   prometheus.Counter
	EventsDropped     prometheus.Counter
	Subscribers       prometheus.Gauge
}

// Operation outcome label values
const (
	OutcomeSuccess  = "success"
	OutcomeFallback = "fallback"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// New creates a Metrics instance backed by its own registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		OperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "shopgateway",
				Subsystem: "resolver",
				Name:      "operations_total",
				Help:      "Total resolver operations by outcome",
			},
			[]string{"operation", "outcome"},
		),

		OperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "shopgateway",
				Subsystem: "resolver",
				Name:      "operation_duration_seconds",
				Help:      "Resolver operation duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		BreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "shopgateway",
				Subsystem: "breaker",
				Name:      "state",
				Help:      "Circuit breaker state (0=closed, 1=open, 2=half_open)",
			},
			[]string{"circuit"},
		),

		FallbacksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "shopgateway",
				Subsystem: "resolver",
				Name:      "fallbacks_total",
				Help:      "Total fallback values returned in place of failed operations",
			},
			[]string{"operation"},
		),

		EventsPublished: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "shopgateway",
				Subsystem: "events",
				Name:      "published_total",
				Help:      "Total order events published to the broadcaster",
			},
		),

		EventsDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "shopgateway",
				Subsystem: "events",
				Name:      "dropped_total",
				Help:      "Total events dropped for saturated subscribers",
			},
		),

		Subscribers: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "shopgateway",
				Subsystem: "events",
				Name:      "subscribers",
				Help:      "Currently attached event subscribers",
			},
		),
	}

	m.registry.MustRegister(
		m.OperationsTotal,
		m.OperationDuration,
		m.BreakerState,
		m.FallbacksTotal,
		m.EventsPublished,
		m.EventsDropped,
		m.Subscribers,
	)
	return m
}

// Registry returns the underlying Prometheus registry for HTTP exposition
// and for sub-component registration (e.g. caches).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveOperation records one resolver operation's outcome and duration
func (m *Metrics) ObserveOperation(operation, outcome string, start time.Time) {
	m.OperationsTotal.WithLabelValues(operation, outcome).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// SetBreakerState records the state of one circuit
func (m *Metrics) SetBreakerState(circuit string, state int) {
	m.BreakerState.WithLabelValues(circuit).Set(float64(state))
}
