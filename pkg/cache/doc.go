// Package cache provides a generic, thread-safe TTL cache for root lookups.
//
// # Overview
//
// The gateway memoizes idempotent root reads (all-entities, entity-by-id)
// for a short TTL so repeated identical queries do not re-hit the backends.
// The cache is deliberately narrow:
//
//   - Entries expire after a fixed TTL; a background janitor removes them.
//   - GetOrCompute returns a live entry without invoking the computation;
//     otherwise it computes, stores on success only, and returns. A failed
//     computation never populates the cache.
//   - Overlapping GetOrCompute calls for the same cold key may each invoke
//     the computation: the cache protects repeat requests, not concurrent
//     first requests.
//
// Statistics are always tracked; Prometheus metrics are opt-in via
// WithMetrics.
package cache
