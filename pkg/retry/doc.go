// Package retry provides bounded retry with fixed or exponential backoff.
//
// # Overview
//
// This package offers the retry half of the gateway's resilience policy:
// a bounded number of attempts with a configurable delay between them.
// Downstream read operations use a fixed delay (see Fixed); anything more
// elaborate can enable a multiplier and jitter.
//
// # Core Functions
//
//   - Do: execute a function with retry
//   - DoWithResult: generic variant returning the successful value
//
// # Non-retryable errors
//
// Wrap an error with NonRetryable to stop the loop immediately. The
// resilience layer uses this for not-found results and for open circuits,
// where further attempts are either wrong or pointless.
//
// # Context Cancellation
//
// Cancellation is honored both between attempts and during backoff sleeps.
//
// # Design Philosophy
//
// Intentionally minimal: no circuit breaker (pkg/breaker), no fallback
// values (pkg/resilience), no metrics. Just the attempt loop.
package retry
