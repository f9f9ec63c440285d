package cache

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type metricsOptions struct {
	registerer prometheus.Registerer
	prefix     string
}

// WithCleanupInterval overrides how often expired entries are collected.
// Defaults to the cache TTL.
func WithCleanupInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.cleanupInterval = d
		}
	}
}

// WithMetrics exposes cache statistics as Prometheus metrics labelled with
// the given component prefix.
func WithMetrics(reg prometheus.Registerer, prefix string) Option {
	return func(o *options) {
		if reg != nil && prefix != "" {
			o.promOpts = &metricsOptions{registerer: reg, prefix: prefix}
		}
	}
}
