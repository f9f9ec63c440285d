package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/c360/shopgateway/downstream"
	"github.com/c360/shopgateway/errors"
	"github.com/c360/shopgateway/event"
	"github.com/c360/shopgateway/metric"
	"github.com/c360/shopgateway/resolver"
)

// Server manages the gateway HTTP server: query dispatch, the websocket
// event stream, playground, health, and metrics exposition.
type Server struct {
	config      Config
	resolver    *resolver.Resolver
	broadcaster *event.Broadcaster
	metrics     *metric.Metrics
	logger      *slog.Logger
	httpServer  *http.Server
	mux         *http.ServeMux

	// Lifecycle
	running  bool
	mu       sync.RWMutex
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewServer creates the gateway server over a resolver and broadcaster
func NewServer(config Config, res *resolver.Resolver, b *event.Broadcaster, m *metric.Metrics, logger *slog.Logger) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.WrapInvalid(err, "Server", "NewServer", "config validation")
	}

	if res == nil {
		return nil, errors.WrapFatal(fmt.Errorf("resolver is nil"), "Server", "NewServer",
			"resolver is required")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		config:      config,
		resolver:    res,
		broadcaster: b,
		metrics:     m,
		logger:      logger,
		mux:         http.NewServeMux(),
		stopChan:    make(chan struct{}),
	}, nil
}

// Setup configures the HTTP server and routes
func (s *Server) Setup() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc(s.config.Path, s.handleQuery)

	if s.broadcaster != nil {
		s.mux.HandleFunc(s.config.SubscriptionPath, s.handleSubscription)
	}

	if s.metrics != nil {
		metricsHandler := s.metrics.Handler()
		s.mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
			s.resolver.SyncBreakerMetrics()
			metricsHandler.ServeHTTP(w, r)
		})
	}

	if s.config.EnablePlayground {
		s.mux.Handle("/", playground.Handler("Shop Gateway", s.config.Path))
		s.logger.Info("Playground enabled",
			"url", fmt.Sprintf("http://%s/", s.config.BindAddress))
	}

	var handler http.Handler = s.mux
	handler = s.identityMiddleware(handler)
	if s.config.EnableCORS {
		handler = s.corsMiddleware(handler)
	}

	s.httpServer = &http.Server{
		Addr:         s.config.BindAddress,
		Handler:      handler,
		ReadTimeout:  s.config.Timeout(),
		WriteTimeout: s.config.Timeout(),
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Server configured",
		"address", s.config.BindAddress,
		"path", s.config.Path,
		"timeout", s.config.Timeout())

	return nil
}

// Start starts the HTTP server
// The ready channel is closed when the server is ready to accept connections
func (s *Server) Start(ctx context.Context, ready chan<- struct{}) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.WrapFatal(errors.ErrAlreadyStarted, "Server", "Start", "server already running")
	}
	s.running = true
	server := s.httpServer
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		defer close(errChan)
		s.logger.Info("Server starting", "address", s.config.BindAddress)

		// ListenAndServe blocks after binding the socket, so signal
		// ready immediately before the call
		if ready != nil {
			close(ready)
		}

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", "error", err)
			select {
			case errChan <- err:
			case <-ctx.Done():
			case <-s.stopChan:
			}
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Server context cancelled, shutting down")
		return s.Stop(30 * time.Second)

	case <-s.stopChan:
		s.logger.Info("Server stop requested")
		return nil

	case err := <-errChan:
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return errors.WrapFatal(err, "Server", "Start", "HTTP server failed")
	}
}

// Stop gracefully shuts down the HTTP server
func (s *Server) Stop(timeout time.Duration) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	server := s.httpServer
	s.mu.Unlock()

	s.logger.Info("Server stopping")

	s.stopOnce.Do(func() {
		close(s.stopChan)
	})

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		s.logger.Error("Failed to shutdown server gracefully", "error", err)
		return errors.WrapTransient(err, "Server", "Stop", "graceful shutdown failed")
	}

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	s.logger.Info("Server stopped")
	return nil
}

// Handler returns the configured HTTP handler. Setup must have been
// called. Used by tests to serve through httptest.
func (s *Server) Handler() http.Handler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.httpServer == nil {
		return s.mux
	}
	return s.httpServer.Handler
}

// handleQuery accepts a POST JSON query envelope and responds with a
// GraphQL-style data/errors document.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResponse(w, http.StatusBadRequest, queryResponse{
			Errors: gqlerror.List{badRequest("malformed request body", "")},
		})
		return
	}
	if req.Operation == "" {
		writeResponse(w, http.StatusBadRequest, queryResponse{
			Errors: gqlerror.List{badRequest("operation is required", "")},
		})
		return
	}

	data, gqlErr := s.dispatch(r.Context(), req)
	if gqlErr != nil {
		s.logger.Warn("query failed", "operation", req.Operation, "error", gqlErr.Message)
		writeResponse(w, http.StatusOK, queryResponse{Errors: gqlerror.List{gqlErr}})
		return
	}
	writeResponse(w, http.StatusOK, queryResponse{Data: data})
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	running := s.running
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if !running {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"unavailable"}`))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// identityMiddleware lifts the caller identity header into the request
// context so downstream clients can propagate it.
func (s *Server) identityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get(downstream.IdentityHeader); id != "" {
			r = r.WithContext(downstream.WithIdentity(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware adds CORS headers to responses
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		allowed := false
		for _, allowedOrigin := range s.config.CORSOrigins {
			if allowedOrigin == "*" || allowedOrigin == origin {
				allowed = true
				break
			}
		}

		if allowed && origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+downstream.IdentityHeader)
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeResponse(w http.ResponseWriter, status int, resp queryResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
