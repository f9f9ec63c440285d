// Package gateway exposes the aggregation API over HTTP: a JSON query
// endpoint with GraphQL-style responses, a websocket stream of order
// events, a playground, health, and metrics.
package gateway
