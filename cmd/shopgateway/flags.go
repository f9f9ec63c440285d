package main

import (
	"flag"
	"fmt"
	"os"
	"time"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	BindAddress       string
	UserServiceURL    string
	ProductService    string
	OrderService      string
	PaymentService    string
	NATSURL           string
	CacheTTL          string
	Timeout           string
	LogLevel          string
	LogFormat         string
	ShutdownTimeout   time.Duration
	DisablePlayground bool
	ShowVersion       bool
	ShowHelp          bool
}

func parseFlags() *CLIConfig {
	cfg := &CLIConfig{}

	flag.StringVar(&cfg.BindAddress, "bind",
		getEnv("SHOPGATEWAY_BIND", ":8080"),
		"HTTP bind address (env: SHOPGATEWAY_BIND)")

	flag.StringVar(&cfg.UserServiceURL, "user-service",
		getEnv("SHOPGATEWAY_USER_SERVICE", "http://localhost:8081"),
		"User service base URL (env: SHOPGATEWAY_USER_SERVICE)")

	flag.StringVar(&cfg.ProductService, "product-service",
		getEnv("SHOPGATEWAY_PRODUCT_SERVICE", "http://localhost:8082"),
		"Product service base URL (env: SHOPGATEWAY_PRODUCT_SERVICE)")

	flag.StringVar(&cfg.OrderService, "order-service",
		getEnv("SHOPGATEWAY_ORDER_SERVICE", "http://localhost:8083"),
		"Order service base URL (env: SHOPGATEWAY_ORDER_SERVICE)")

	flag.StringVar(&cfg.PaymentService, "payment-service",
		getEnv("SHOPGATEWAY_PAYMENT_SERVICE", "http://localhost:8084"),
		"Payment service base URL (env: SHOPGATEWAY_PAYMENT_SERVICE)")

	flag.StringVar(&cfg.NATSURL, "nats-url",
		getEnv("SHOPGATEWAY_NATS_URL", ""),
		"NATS server URL for the event bridge, empty to disable (env: SHOPGATEWAY_NATS_URL)")

	flag.StringVar(&cfg.CacheTTL, "cache-ttl",
		getEnv("SHOPGATEWAY_CACHE_TTL", "30s"),
		"Root-read cache TTL (env: SHOPGATEWAY_CACHE_TTL)")

	flag.StringVar(&cfg.Timeout, "timeout",
		getEnv("SHOPGATEWAY_TIMEOUT", "30s"),
		"Request timeout (env: SHOPGATEWAY_TIMEOUT)")

	flag.StringVar(&cfg.LogLevel, "log-level",
		getEnv("SHOPGATEWAY_LOG_LEVEL", "info"),
		"Log level: debug, info, warn, error (env: SHOPGATEWAY_LOG_LEVEL)")

	flag.StringVar(&cfg.LogFormat, "log-format",
		getEnv("SHOPGATEWAY_LOG_FORMAT", "json"),
		"Log format: json, text (env: SHOPGATEWAY_LOG_FORMAT)")

	flag.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout",
		getEnvDuration("SHOPGATEWAY_SHUTDOWN_TIMEOUT", 30*time.Second),
		"Graceful shutdown timeout (env: SHOPGATEWAY_SHUTDOWN_TIMEOUT)")

	flag.BoolVar(&cfg.DisablePlayground, "no-playground", false, "Disable the playground UI")
	flag.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	flag.BoolVar(&cfg.ShowVersion, "v", false, "Show version information")
	flag.BoolVar(&cfg.ShowHelp, "help", false, "Show help information")
	flag.BoolVar(&cfg.ShowHelp, "h", false, "Show help information")

	flag.Parse()
	return cfg
}

func validateFlags(cfg *CLIConfig) error {
	if cfg.ShowVersion || cfg.ShowHelp {
		return nil
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, cfg.LogLevel) {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}

	validFormats := []string{"json", "text"}
	if !contains(validFormats, cfg.LogFormat) {
		return fmt.Errorf("invalid log format: %s", cfg.LogFormat)
	}

	return nil
}

func printHelp() {
	_, _ = fmt.Fprintf(os.Stderr, `%s - shop aggregation gateway

Usage: %s [options]

Options:
`, appName, os.Args[0])
	flag.PrintDefaults()
	_, _ = fmt.Fprintf(os.Stderr, `
Examples:
  # Run against local backends
  %s --bind=:8080

  # Run with environment variables
  export SHOPGATEWAY_ORDER_SERVICE=http://order-service:8083
  export SHOPGATEWAY_NATS_URL=nats://localhost:4222
  %s
`, os.Args[0], os.Args[0])
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
