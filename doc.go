// Package shopgateway is a query-aggregation gateway in front of the shop
// platform's user, product, order, and payment services.
//
// The gateway exposes a single JSON query endpoint with GraphQL-style
// responses and a websocket stream of order events. Root queries resolve
// entities from their owning backend; nested relationships (a user's
// orders, an order's products and payment) are resolved on demand, only
// when the query selects them.
//
// # Architecture
//
//	┌──────────────────────────────────────┐
//	│            gateway (HTTP)            │  query dispatch, websocket,
//	│   /query  /subscriptions  /metrics   │  playground, health
//	└──────────────────────────────────────┘
//	            ↓ dispatches to
//	┌──────────────────────────────────────┐
//	│              resolver                │  scatter-gather field
//	│  (queries, fields, mutation, subs)   │  resolution, result caching
//	└──────────────────────────────────────┘
//	            ↓ calls through
//	┌──────────────────────────────────────┐
//	│             resilience               │  per-attempt timeout, retry,
//	│   (timeout → retry → breaker)        │  shared circuit breakers
//	└──────────────────────────────────────┘
//	            ↓ reaches
//	┌──────────────────────────────────────┐
//	│             downstream               │  REST clients with identity
//	│  (user, product, order, payment)     │  header propagation
//	└──────────────────────────────────────┘
//
// # Degradation model
//
// Reads never fail a response. An exhausted downstream call degrades to
// its fallback: list queries return an empty list, single-entity lookups
// return null, and unresolvable elements of a scatter-gather fan-out are
// dropped from the result. Only the createOrder mutation surfaces errors,
// and it is never retried.
//
// # Packages
//
//   - gateway: config, HTTP server, query dispatch, websocket stream
//   - resolver: root queries, nested field resolvers, mutation, caches
//   - downstream: REST clients and DTOs for the four backends
//   - event: in-process order-event broadcaster and optional NATS bridge
//   - errors: classified error taxonomy shared by all layers
//   - metric: Prometheus registry and gateway metric set
//   - model: domain entities with exact decimal amounts
//   - pkg/resilience: generic timeout/retry/breaker execution wrapper
//   - pkg/breaker: windowed circuit breaker and per-operation registry
//   - pkg/retry: bounded backoff retry
//   - pkg/cache: generic TTL cache backing root reads
//   - pkg/timestamp: lenient backend timestamp parsing
package shopgateway
