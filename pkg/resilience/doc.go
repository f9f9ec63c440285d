// Package resilience composes the gateway's uniform downstream call policy.
//
// # Overview
//
// Every backend call goes through Execute, which layers, in order:
//
//  1. Timeout — each attempt runs under its own deadline; exceeding it is a
//     timeout failure.
//  2. Bounded retry — failed attempts are retried with a fixed delay, but
//     only for transient failures. Not-found results and open circuits stop
//     the loop immediately.
//  3. Circuit breaker — each physical attempt first asks the breaker for
//     admission and then records its outcome, so retries count as
//     individual outcomes in the breaker's window.
//  4. Fallback — ExecuteWithFallback converts any exhausted failure into a
//     component-specific default, so callers never observe a raw downstream
//     error.
//
// # Policies
//
// ReadPolicy is the standard policy for idempotent reads (5s timeout, 3
// attempts, 200ms fixed delay). WritePolicy runs a single attempt: a write
// that timed out may still have been applied, so retrying could duplicate
// it.
package resilience
