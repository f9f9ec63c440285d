package resilience

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/c360/shopgateway/errors"
	"github.com/c360/shopgateway/pkg/breaker"
	"github.com/c360/shopgateway/pkg/retry"
)

// Policy describes the resilience applied to one downstream operation
type Policy struct {
	// Timeout bounds each individual attempt. Zero disables the per-attempt
	// deadline (the caller's context still applies).
	Timeout time.Duration

	// Retry controls the attempt loop
	Retry retry.Config

	// Breaker is the shared circuit for this (service, operation) pair.
	// Optional; nil disables circuit breaking.
	Breaker *breaker.Breaker
}

// ReadPolicy returns the standard policy for idempotent reads: 5s timeout,
// 3 attempts with a 200ms fixed delay.
func ReadPolicy(b *breaker.Breaker) Policy {
	return Policy{
		Timeout: 5 * time.Second,
		Retry:   retry.Fixed(3, 200*time.Millisecond),
		Breaker: b,
	}
}

// WritePolicy returns the policy for writes: 5s timeout, single attempt.
// Writes are never retried automatically; a timed-out create may still have
// been persisted.
func WritePolicy(b *breaker.Breaker) Policy {
	return Policy{
		Timeout: 5 * time.Second,
		Retry:   retry.Once(),
		Breaker: b,
	}
}

// Execute runs op under the policy. Each attempt asks the breaker for
// admission, runs under its own timeout, and records one breaker outcome.
// Not-found results count as successes for the breaker and are never
// retried. The returned error is classified; use ExecuteWithFallback to
// absorb it.
func Execute[T any](ctx context.Context, p Policy, op func(context.Context) (T, error)) (T, error) {
	return retry.DoWithResult(ctx, p.Retry, func() (T, error) {
		var zero T

		if p.Breaker != nil {
			if err := p.Breaker.Allow(); err != nil {
				// Retrying inside the cool-down cannot succeed
				return zero, retry.NonRetryable(err)
			}
		}

		attemptCtx := ctx
		if p.Timeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, p.Timeout)
			defer cancel()
		}

		v, err := op(attemptCtx)
		if err != nil && stderrors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			// The attempt deadline fired, not the caller's context
			err = errors.NewDownstream("", "", errors.KindTimeout, err)
		}

		if p.Breaker != nil {
			p.Breaker.Record(err == nil || errors.IsNotFound(err))
		}

		if err != nil && errors.IsNotFound(err) {
			// Valid absence: stop the loop, let the caller map it to nil
			return zero, retry.NonRetryable(err)
		}
		return v, err
	})
}

// ExecuteWithFallback runs op under the policy and converts any exhausted
// failure into the fallback value. The fallback receives the final error so
// the caller can log and count it. Not-found is passed to the fallback like
// any other miss; callers that distinguish absence should use Execute.
func ExecuteWithFallback[T any](ctx context.Context, p Policy, op func(context.Context) (T, error), fallback func(error) T) T {
	v, err := Execute(ctx, p, op)
	if err != nil {
		return fallback(err)
	}
	return v
}
