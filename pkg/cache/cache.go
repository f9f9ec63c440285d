package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/c360/shopgateway/errors"
)

// entry represents a cached value with its expiry instant.
type entry[V any] struct {
	value     V
	expiresAt time.Time
}

func (e *entry[V]) isExpired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// TTL is a thread-safe cache whose entries expire after a fixed duration.
// The value type V is the cached result type.
type TTL[V any] struct {
	mu    sync.RWMutex
	ttl   time.Duration
	items map[string]*entry[V]

	stats   *Statistics // always initialized
	metrics *cacheMetrics

	// Background cleanup coordination
	cleanupInterval time.Duration
	shutdown        chan struct{}
	done            chan struct{}
	closeOnce       sync.Once
}

// Option configures a TTL cache.
type Option func(*options)

type options struct {
	cleanupInterval time.Duration
	promOpts        *metricsOptions
}

// New creates a TTL cache and starts its cleanup goroutine. Close releases it.
func New[V any](ttl time.Duration, opts ...Option) (*TTL[V], error) {
	if ttl <= 0 {
		return nil, errors.WrapInvalid(errors.ErrInvalidConfig, "cache", "New", "ttl must be positive")
	}

	o := &options{cleanupInterval: ttl}
	for _, opt := range opts {
		opt(o)
	}

	var metrics *cacheMetrics
	if o.promOpts != nil {
		var err error
		metrics, err = newCacheMetrics(o.promOpts.registerer, o.promOpts.prefix)
		if err != nil {
			return nil, errors.WrapTransient(err, "cache", "New", "metrics registration")
		}
	}

	c := &TTL[V]{
		ttl:             ttl,
		items:           make(map[string]*entry[V]),
		stats:           NewStatistics(),
		metrics:         metrics,
		cleanupInterval: o.cleanupInterval,
		shutdown:        make(chan struct{}),
		done:            make(chan struct{}),
	}
	go c.cleanup()
	return c, nil
}

// Get retrieves a value by key, treating expired entries as misses.
func (c *TTL[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, exists := c.items[key]
	c.mu.RUnlock()

	if !exists || e.isExpired(time.Now()) {
		var zero V
		c.stats.Miss()
		if c.metrics != nil {
			c.metrics.recordMiss()
		}
		return zero, false
	}

	c.stats.Hit()
	if c.metrics != nil {
		c.metrics.recordHit()
	}
	return e.value, true
}

// Set stores a value under key with the configured TTL.
func (c *TTL[V]) Set(key string, value V) error {
	if key == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "cache", "Set", "key cannot be empty")
	}

	c.mu.Lock()
	c.items[key] = &entry[V]{value: value, expiresAt: time.Now().Add(c.ttl)}
	size := len(c.items)
	c.mu.Unlock()

	c.stats.Set()
	c.stats.UpdateSize(int64(size))
	if c.metrics != nil {
		c.metrics.recordSet(size)
	}
	return nil
}

// Delete removes an entry by key, reporting whether it existed.
func (c *TTL[V]) Delete(key string) bool {
	c.mu.Lock()
	_, exists := c.items[key]
	if exists {
		delete(c.items, key)
	}
	size := len(c.items)
	c.mu.Unlock()

	if exists {
		c.stats.Delete()
		c.stats.UpdateSize(int64(size))
		if c.metrics != nil {
			c.metrics.recordDelete(size)
		}
	}
	return exists
}

// GetOrCompute returns the live entry for key, or invokes compute and
// stores its result. A failed compute is returned as-is and never cached.
// Overlapping calls for the same cold key may compute more than once.
func (c *TTL[V]) GetOrCompute(ctx context.Context, key string, compute func(context.Context) (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err := compute(ctx)
	if err != nil {
		var zero V
		return zero, err
	}

	if setErr := c.Set(key, v); setErr != nil {
		return v, setErr
	}
	return v, nil
}

// Size returns the current number of entries, including not-yet-collected
// expired ones.
func (c *TTL[V]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Stats returns the cache statistics tracker.
func (c *TTL[V]) Stats() *Statistics {
	return c.stats
}

// Close stops the background cleanup goroutine. Safe to call more than once.
func (c *TTL[V]) Close() error {
	c.closeOnce.Do(func() {
		close(c.shutdown)
		<-c.done
	})
	return nil
}

// cleanup periodically removes expired entries.
func (c *TTL[V]) cleanup() {
	defer close(c.done)

	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.shutdown:
			return
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			evicted := 0
			for key, e := range c.items {
				if e.isExpired(now) {
					delete(c.items, key)
					evicted++
				}
			}
			size := len(c.items)
			c.mu.Unlock()

			for i := 0; i < evicted; i++ {
				c.stats.Eviction()
			}
			c.stats.UpdateSize(int64(size))
			if c.metrics != nil {
				c.metrics.recordEvictions(evicted, size)
			}
		}
	}
}

// Key builds a cache key from an operation name and its argument.
func Key(operation string, arg any) string {
	if arg == nil {
		return operation
	}
	return fmt.Sprintf("%s:%v", operation, arg)
}
