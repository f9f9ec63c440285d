package cache

import (
	"github.com/prometheus/client_golang/prometheus"
)

// cacheMetrics holds Prometheus metrics for cache operations.
type cacheMetrics struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	sets      prometheus.Counter
	deletes   prometheus.Counter
	evictions prometheus.Counter
	size      prometheus.Gauge
}

// newCacheMetrics creates and registers cache metrics with the provided registerer.
func newCacheMetrics(reg prometheus.Registerer, prefix string) (*cacheMetrics, error) {
	labels := prometheus.Labels{"component": prefix}

	m := &cacheMetrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shopgateway", Subsystem: "cache", Name: "hits_total",
			ConstLabels: labels, Help: "Total number of cache hits",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shopgateway", Subsystem: "cache", Name: "misses_total",
			ConstLabels: labels, Help: "Total number of cache misses",
		}),
		sets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shopgateway", Subsystem: "cache", Name: "sets_total",
			ConstLabels: labels, Help: "Total number of cache set operations",
		}),
		deletes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shopgateway", Subsystem: "cache", Name: "deletes_total",
			ConstLabels: labels, Help: "Total number of cache delete operations",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shopgateway", Subsystem: "cache", Name: "evictions_total",
			ConstLabels: labels, Help: "Total number of expired-entry evictions",
		}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "shopgateway", Subsystem: "cache", Name: "size",
			ConstLabels: labels, Help: "Current number of cache entries",
		}),
	}

	collectors := []prometheus.Collector{m.hits, m.misses, m.sets, m.deletes, m.evictions, m.size}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *cacheMetrics) recordHit()  { m.hits.Inc() }
func (m *cacheMetrics) recordMiss() { m.misses.Inc() }

func (m *cacheMetrics) recordSet(size int) {
	m.sets.Inc()
	m.size.Set(float64(size))
}

func (m *cacheMetrics) recordDelete(size int) {
	m.deletes.Inc()
	m.size.Set(float64(size))
}

func (m *cacheMetrics) recordEvictions(n, size int) {
	m.evictions.Add(float64(n))
	m.size.Set(float64(size))
}
