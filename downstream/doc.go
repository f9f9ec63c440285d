// Package downstream provides typed HTTP clients for the backend services.
//
// # Overview
//
// One client per backend (user, product, order, payment), each exposing the
// operations the gateway needs: fetch-all, fetch-by-id, fetch-by-parent-id,
// create. Every call completes with the parsed typed response or a
// classified error:
//
//   - transport failure      -> DownstreamError kind "connection"
//   - 404                    -> errors.ErrNotFound (a valid absent result)
//   - other non-2xx          -> DownstreamError kind "status" with the code
//   - body deserialization   -> DownstreamError kind "decode"
//
// # Identity propagation
//
// When the request context carries an authenticated identity (see Identity
// and WithIdentity), each outbound call forwards it in the
// X-Authenticated-User header. An absent identity sends no header and never
// fails the call.
//
// # Policy-free by design
//
// No retries, caching, or circuit logic live here. The resilience wrapper
// (pkg/resilience) adds those externally so that policy stays uniform and
// independently testable.
package downstream
