package gateway

import (
	"fmt"
	"time"

	"github.com/c360/shopgateway/errors"
)

// Config holds configuration for the gateway HTTP server
type Config struct {
	// BindAddress is the HTTP bind address (default: ":8080")
	BindAddress string `json:"bind_address"`

	// Path is the query endpoint path (default: "/query")
	Path string `json:"path"`

	// SubscriptionPath is the websocket endpoint path (default: "/subscriptions")
	SubscriptionPath string `json:"subscription_path"`

	// EnablePlayground enables the playground UI at / (default: true)
	EnablePlayground bool `json:"enable_playground"`

	// EnableCORS enables CORS headers (default: true)
	EnableCORS bool `json:"enable_cors"`

	// CORSOrigins lists allowed CORS origins (default: ["*"])
	CORSOrigins []string `json:"cors_origins,omitempty"`

	// TimeoutStr is the per-request timeout (default: "30s")
	TimeoutStr string `json:"timeout,omitempty"`

	// UserServiceURL is the user backend base URL (required)
	UserServiceURL string `json:"user_service_url"`

	// ProductServiceURL is the product backend base URL (required)
	ProductServiceURL string `json:"product_service_url"`

	// OrderServiceURL is the order backend base URL (required)
	OrderServiceURL string `json:"order_service_url"`

	// PaymentServiceURL is the payment backend base URL (required)
	PaymentServiceURL string `json:"payment_service_url"`

	// CacheTTLStr is the root-read cache entry lifetime (default: "30s")
	CacheTTLStr string `json:"cache_ttl,omitempty"`

	// NATSURL, when set, enables the order-event bridge to NATS
	NATSURL string `json:"nats_url,omitempty"`

	// NATSSubject is the bridge subject (default: "orders.created")
	NATSSubject string `json:"nats_subject,omitempty"`

	// timeout and cacheTTL are the parsed durations (internal use)
	timeout  time.Duration
	cacheTTL time.Duration
}

// Validate ensures the configuration is valid and applies defaults
func (c *Config) Validate() error {
	if c.BindAddress == "" {
		c.BindAddress = ":8080"
	}

	if c.Path == "" {
		c.Path = "/query"
	}
	if c.Path[0] != '/' {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			"path must start with /")
	}

	if c.SubscriptionPath == "" {
		c.SubscriptionPath = "/subscriptions"
	}
	if c.SubscriptionPath[0] != '/' {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			"subscription_path must start with /")
	}

	for name, url := range map[string]string{
		"user_service_url":    c.UserServiceURL,
		"product_service_url": c.ProductServiceURL,
		"order_service_url":   c.OrderServiceURL,
		"payment_service_url": c.PaymentServiceURL,
	} {
		if url == "" {
			return errors.WrapInvalid(errors.ErrMissingConfig, "Config", "Validate",
				fmt.Sprintf("%s is required", name))
		}
	}

	if c.TimeoutStr == "" {
		c.timeout = 30 * time.Second
	} else {
		timeout, err := time.ParseDuration(c.TimeoutStr)
		if err != nil {
			return errors.WrapInvalid(err, "Config", "Validate",
				fmt.Sprintf("invalid timeout format: %s", c.TimeoutStr))
		}
		if timeout < 100*time.Millisecond || timeout > 5*time.Minute {
			return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
				"timeout must be between 100ms and 5m")
		}
		c.timeout = timeout
	}

	if c.CacheTTLStr == "" {
		c.cacheTTL = 30 * time.Second
	} else {
		ttl, err := time.ParseDuration(c.CacheTTLStr)
		if err != nil {
			return errors.WrapInvalid(err, "Config", "Validate",
				fmt.Sprintf("invalid cache_ttl format: %s", c.CacheTTLStr))
		}
		if ttl <= 0 {
			return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
				"cache_ttl must be positive")
		}
		c.cacheTTL = ttl
	}

	if c.NATSSubject == "" {
		c.NATSSubject = "orders.created"
	}

	if c.EnableCORS && len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{"*"}
	}

	return nil
}

// Timeout returns the parsed request timeout
func (c *Config) Timeout() time.Duration {
	return c.timeout
}

// CacheTTL returns the parsed cache entry lifetime
func (c *Config) CacheTTL() time.Duration {
	return c.cacheTTL
}

// DefaultConfig returns default gateway configuration. Backend URLs have no
// defaults and must be supplied.
func DefaultConfig() Config {
	return Config{
		BindAddress:      ":8080",
		Path:             "/query",
		SubscriptionPath: "/subscriptions",
		EnablePlayground: true,
		EnableCORS:       true,
		CORSOrigins:      []string{"*"},
		TimeoutStr:       "30s",
		CacheTTLStr:      "30s",
		NATSSubject:      "orders.created",
	}
}
