// Package main implements the entry point for the shop gateway, an
// aggregation layer in front of the user, product, order and payment
// services.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/c360/shopgateway/downstream"
	"github.com/c360/shopgateway/event"
	"github.com/c360/shopgateway/gateway"
	"github.com/c360/shopgateway/metric"
	"github.com/c360/shopgateway/resolver"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "shopgateway"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Application failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil
	}
	if cliCfg.ShowHelp {
		printHelp()
		return nil
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	slog.Info("Starting shop gateway",
		"version", Version,
		"build_time", BuildTime,
		"bind", cliCfg.BindAddress)

	cfg := gateway.DefaultConfig()
	cfg.BindAddress = cliCfg.BindAddress
	cfg.UserServiceURL = cliCfg.UserServiceURL
	cfg.ProductServiceURL = cliCfg.ProductService
	cfg.OrderServiceURL = cliCfg.OrderService
	cfg.PaymentServiceURL = cliCfg.PaymentService
	cfg.NATSURL = cliCfg.NATSURL
	cfg.CacheTTLStr = cliCfg.CacheTTL
	cfg.TimeoutStr = cliCfg.Timeout
	cfg.EnablePlayground = !cliCfg.DisablePlayground
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	metrics := metric.New()

	backends, err := buildBackends(cfg)
	if err != nil {
		return err
	}

	caches, err := resolver.NewCaches(cfg.CacheTTL(), metrics.Registry())
	if err != nil {
		return fmt.Errorf("cache setup: %w", err)
	}
	defer caches.Close()

	broadcaster := event.New(logger, event.WithDropObserver(func(string) {
		metrics.EventsDropped.Inc()
	}))
	defer broadcaster.Close()

	if cfg.NATSURL != "" {
		nc, err := nats.Connect(cfg.NATSURL,
			nats.Name(appName),
			nats.MaxReconnects(-1),
			nats.ReconnectWait(2*time.Second))
		if err != nil {
			return fmt.Errorf("NATS connect: %w", err)
		}
		defer nc.Close()

		bridge := event.NewBridge(broadcaster, nc, cfg.NATSSubject, logger)
		defer bridge.Close()
		logger.Info("Order event bridge enabled", "url", cfg.NATSURL, "subject", cfg.NATSSubject)
	}

	res := resolver.New(backends, broadcaster,
		resolver.WithCaches(caches),
		resolver.WithMetrics(metrics),
		resolver.WithLogger(logger))

	server, err := gateway.NewServer(cfg, res, broadcaster, metrics, logger)
	if err != nil {
		return err
	}
	if err := server.Setup(); err != nil {
		return err
	}

	return runWithSignalHandling(server, cliCfg.ShutdownTimeout, logger)
}

// buildBackends constructs the four downstream clients
func buildBackends(cfg gateway.Config) (resolver.Backends, error) {
	users, err := downstream.NewUserClient(downstream.Config{BaseURL: cfg.UserServiceURL})
	if err != nil {
		return resolver.Backends{}, fmt.Errorf("user client: %w", err)
	}
	products, err := downstream.NewProductClient(downstream.Config{BaseURL: cfg.ProductServiceURL})
	if err != nil {
		return resolver.Backends{}, fmt.Errorf("product client: %w", err)
	}
	orders, err := downstream.NewOrderClient(downstream.Config{BaseURL: cfg.OrderServiceURL})
	if err != nil {
		return resolver.Backends{}, fmt.Errorf("order client: %w", err)
	}
	payments, err := downstream.NewPaymentClient(downstream.Config{BaseURL: cfg.PaymentServiceURL})
	if err != nil {
		return resolver.Backends{}, fmt.Errorf("payment client: %w", err)
	}

	return resolver.Backends{
		Users:    users,
		Products: products,
		Orders:   orders,
		Payments: payments,
	}, nil
}

// runWithSignalHandling starts the server and blocks until a termination
// signal arrives or the server fails.
func runWithSignalHandling(server *gateway.Server, shutdownTimeout time.Duration, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	ready := make(chan struct{})
	go func() {
		errChan <- server.Start(ctx, ready)
	}()

	select {
	case <-ready:
		logger.Info("Gateway ready")
	case err := <-errChan:
		return err
	}

	select {
	case sig := <-sigChan:
		logger.Info("Received signal, shutting down", "signal", sig.String())
		if err := server.Stop(shutdownTimeout); err != nil {
			return err
		}
		cancel()
		return <-errChan

	case err := <-errChan:
		return err
	}
}
