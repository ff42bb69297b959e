// Package server provides the HTTP server for the AI service.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"hunterhq/relay/pkg/api/handlers"
	"hunterhq/relay/pkg/api/middleware"
	"hunterhq/relay/pkg/config"
	"hunterhq/relay/pkg/quota"
	"hunterhq/relay/pkg/telemetry/metrics"
	"hunterhq/relay/pkg/telemetry/tracing"
)

const defaultMetricsPath = "/metrics"

// Server is the HTTP server for the AI service.
type Server struct {
	config       *config.ServerConfig
	ai           *handlers.AIHandler
	collector    *metrics.Collector
	metricsPath  string
	tracker      *quota.Tracker
	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// Options carries the optional server dependencies. A nil field disables
// the corresponding feature.
type Options struct {
	// Collector observes request metrics and serves the metrics
	// endpoint. Nil disables both.
	Collector *metrics.Collector

	// MetricsPath is where the metrics endpoint is mounted. Empty
	// defaults to /metrics.
	MetricsPath string

	// Tracker enforces the per-client daily request quota. Nil
	// disables quota enforcement.
	Tracker *quota.Tracker
}

// New creates a server. Call Start to begin serving.
func New(cfg *config.ServerConfig, ai *handlers.AIHandler, opts Options) *Server {
	metricsPath := opts.MetricsPath
	if metricsPath == "" {
		metricsPath = defaultMetricsPath
	}

	return &Server{
		config:       cfg,
		ai:           ai,
		collector:    opts.Collector,
		metricsPath:  metricsPath,
		tracker:      opts.Tracker,
		shutdownChan: make(chan struct{}),
		isRunning:    false,
	}
}

// Start starts the HTTP server and blocks until the context is cancelled,
// Shutdown is called, or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	handler := s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:           s.config.ListenAddress,
		Handler:        handler,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting HTTP server", "address", s.config.ListenAddress)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		return err
	case <-s.shutdownChan:
		return nil
	}
}

// Shutdown gracefully shuts down the server. It is safe to call from a
// goroutine other than the one blocked in Start.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		running := s.isRunning
		s.mu.Unlock()
		if !running {
			return
		}

		slog.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		close(s.shutdownChan)

		slog.Info("server stopped")
	})

	return shutdownErr
}

// setupRoutes configures HTTP routes and the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/ai/generate", s.ai.Generate)
	mux.HandleFunc("/api/ai/sentiment", s.ai.Sentiment)
	mux.HandleFunc("/api/ai/intent", s.ai.Intent)
	mux.HandleFunc("/api/ai/generate-response", s.ai.GenerateResponse)
	mux.HandleFunc("/api/ai/summarize-conversation", s.ai.SummarizeConversation)
	mux.HandleFunc("/api/ai/providers", s.ai.Providers)
	mux.HandleFunc("/api/ai/health", s.ai.Health)
	mux.HandleFunc("/healthz", handlers.Healthz)

	if s.collector != nil {
		mux.Handle(s.metricsPath, s.collector.Handler())
	}

	// Apply middleware, innermost first.
	var handler http.Handler = mux

	handler = middleware.TimeoutMiddleware(s.config.RequestTimeout)(handler)
	handler = middleware.CORSMiddleware(s.config.CORS)(handler)
	handler = middleware.QuotaMiddleware(s.tracker)(handler)
	handler = middleware.RequestIDMiddleware(handler)
	if s.collector != nil {
		handler = s.collector.RequestMiddleware(handler)
	}
	handler = tracing.HTTPMiddleware(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.RecoveryMiddleware(handler)

	return handler
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}
