package resolver

import (
	"context"
	"log/slog"
	"time"

	"github.com/c360/shopgateway/downstream"
	"github.com/c360/shopgateway/errors"
	"github.com/c360/shopgateway/event"
	"github.com/c360/shopgateway/metric"
	"github.com/c360/shopgateway/pkg/breaker"
	"github.com/c360/shopgateway/pkg/resilience"
	"github.com/c360/shopgateway/pkg/retry"
)

// UserBackend is the user-service surface the resolver consumes
type UserBackend interface {
	GetAll(ctx context.Context) ([]downstream.UserResponse, error)
	GetByID(ctx context.Context, id int64) (downstream.UserResponse, error)
}

// ProductBackend is the product-service surface the resolver consumes
type ProductBackend interface {
	GetAll(ctx context.Context) ([]downstream.ProductResponse, error)
	GetByID(ctx context.Context, id int64) (downstream.ProductResponse, error)
}

// OrderBackend is the order-service surface the resolver consumes
type OrderBackend interface {
	GetAll(ctx context.Context) ([]downstream.OrderResponse, error)
	GetByID(ctx context.Context, id int64) (downstream.OrderResponse, error)
	GetByUserID(ctx context.Context, userID int64) ([]downstream.OrderResponse, error)
	Create(ctx context.Context, req downstream.CreateOrderRequest) (downstream.OrderResponse, error)
}

// PaymentBackend is the payment-service surface the resolver consumes
type PaymentBackend interface {
	GetByOrderID(ctx context.Context, orderID int64) (downstream.PaymentResponse, error)
}

// Backends bundles the four downstream clients
type Backends struct {
	Users    UserBackend
	Products ProductBackend
	Orders   OrderBackend
	Payments PaymentBackend
}

// Resolver owns the gateway's query, mutation, field, and subscription
// resolvers. It is safe for concurrent use; the breaker registry and the
// broadcaster are the only shared mutable state behind it.
type Resolver struct {
	backends    Backends
	broadcaster *event.Broadcaster
	breakers    *breaker.Registry
	caches      *Caches
	metrics     *metric.Metrics
	logger      *slog.Logger

	timeout  time.Duration
	retryCfg retry.Config
}

// Option configures a Resolver
type Option func(*Resolver)

// WithCaches enables the root-read result cache
func WithCaches(c *Caches) Option {
	return func(r *Resolver) { r.caches = c }
}

// WithMetrics enables operation metrics
func WithMetrics(m *metric.Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// WithLogger sets the resolver logger
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithCallTimeout overrides the per-attempt downstream timeout
func WithCallTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithRetry overrides the read retry configuration
func WithRetry(cfg retry.Config) Option {
	return func(r *Resolver) { r.retryCfg = cfg }
}

// WithBreakerConfig overrides the circuit breaker tuning shared by all
// (service, operation) circuits.
func WithBreakerConfig(cfg breaker.Config) Option {
	return func(r *Resolver) { r.breakers = breaker.NewRegistry(cfg) }
}

// New creates a resolver over the given backends and broadcaster
func New(backends Backends, broadcaster *event.Broadcaster, opts ...Option) *Resolver {
	r := &Resolver{
		backends:    backends,
		broadcaster: broadcaster,
		breakers:    breaker.NewRegistry(breaker.DefaultConfig()),
		logger:      slog.Default().With("component", "resolver"),
		timeout:     5 * time.Second,
		retryCfg:    retry.Fixed(3, 200*time.Millisecond),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// read returns the resilience policy for an idempotent read against one
// (service, operation) circuit.
func (r *Resolver) read(service, operation string) resilience.Policy {
	return resilience.Policy{
		Timeout: r.timeout,
		Retry:   r.retryCfg,
		Breaker: r.breakers.Get(service, operation),
	}
}

// write returns the single-attempt policy for mutations
func (r *Resolver) write(service, operation string) resilience.Policy {
	return resilience.Policy{
		Timeout: r.timeout,
		Retry:   retry.Once(),
		Breaker: r.breakers.Get(service, operation),
	}
}

// SyncBreakerMetrics exports every circuit's current state to the breaker
// state gauge. The metrics endpoint calls this before each scrape.
func (r *Resolver) SyncBreakerMetrics() {
	if r.metrics == nil {
		return
	}
	for circuit, state := range r.breakers.States() {
		r.metrics.SetBreakerState(circuit, int(state))
	}
}

// observe records the outcome of one resolver operation
func (r *Resolver) observe(operation, outcome string, start time.Time) {
	if r.metrics == nil {
		return
	}
	r.metrics.ObserveOperation(operation, outcome, start)
	if outcome == metric.OutcomeFallback {
		r.metrics.FallbacksTotal.WithLabelValues(operation).Inc()
	}
}

// readOutcome maps a read error to its metrics outcome label
func readOutcome(err error) string {
	switch {
	case err == nil:
		return metric.OutcomeSuccess
	case errors.IsNotFound(err):
		return metric.OutcomeNotFound
	default:
		return metric.OutcomeFallback
	}
}
