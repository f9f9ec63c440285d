package resolver

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/shopgateway/model"
	"github.com/c360/shopgateway/pkg/cache"
)

// Caches holds the result caches for idempotent root reads. Order reads
// are deliberately uncached: order data is write-hot and staleness there is
// user-visible. Nested scatter-gather fetches are never cached either; they
// are keyed by a transient parent and reuse would be low-value.
type Caches struct {
	Users    *cache.TTL[[]model.User]
	User     *cache.TTL[*model.User]
	Products *cache.TTL[[]model.Product]
	Product  *cache.TTL[*model.Product]
}

// NewCaches creates the root-read caches with a shared TTL. Pass a nil
// registerer to skip Prometheus registration.
func NewCaches(ttl time.Duration, reg prometheus.Registerer) (*Caches, error) {
	var opts func(prefix string) []cache.Option
	if reg != nil {
		opts = func(prefix string) []cache.Option {
			return []cache.Option{cache.WithMetrics(reg, prefix)}
		}
	} else {
		opts = func(string) []cache.Option { return nil }
	}

	users, err := cache.New[[]model.User](ttl, opts("users-cache")...)
	if err != nil {
		return nil, err
	}
	user, err := cache.New[*model.User](ttl, opts("user-cache")...)
	if err != nil {
		return nil, err
	}
	products, err := cache.New[[]model.Product](ttl, opts("products-cache")...)
	if err != nil {
		return nil, err
	}
	product, err := cache.New[*model.Product](ttl, opts("product-cache")...)
	if err != nil {
		return nil, err
	}

	return &Caches{Users: users, User: user, Products: products, Product: product}, nil
}

// Close releases every cache's cleanup goroutine
func (c *Caches) Close() {
	if c == nil {
		return
	}
	_ = c.Users.Close()
	_ = c.User.Close()
	_ = c.Products.Close()
	_ = c.Product.Close()
}
