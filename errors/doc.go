// Package errors provides standardized error handling for the gateway.
//
// # Overview
//
// Every backend-facing failure in the gateway is expressed through this
// package so that resolvers can apply a uniform policy: classify, absorb,
// and fall back. The package offers three layers:
//
//   - Sentinel errors for well-known conditions (ErrNotFound, ErrTimeout,
//     ErrCircuitOpen, ...) usable with errors.Is.
//   - DownstreamError, a structured error carrying the backend service,
//     operation, failure kind, and HTTP status of a failed downstream call.
//   - Classification helpers (IsTransient, IsInvalid, IsFatal, IsNotFound)
//     plus Wrap/WrapTransient/WrapInvalid/WrapFatal constructors following
//     the "component.method: action failed: %w" convention.
//
// # Not-found is not a failure
//
// ErrNotFound marks a valid absent result. It is never retried, never
// recorded as a circuit-breaker failure, and resolvers translate it into a
// nil result rather than an error.
package errors
