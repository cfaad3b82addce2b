// Package http exposes the search and indexing services over a JSON API.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/plexashare/plexa-core/internal/core/ports/driving"
	"github.com/plexashare/plexa-core/internal/runtime"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string
	logger     *slog.Logger

	// Services
	searchService   driving.SearchService
	indexingService driving.IndexingService
	services        *runtime.Services

	// Infrastructure
	db          Pinger // PostgreSQL health check
	redisClient Pinger // Redis health check (optional)
}

// Config holds server configuration
type Config struct {
	Host    string
	Port    int
	Version string

	// AdminToken guards the administrative endpoints. When empty the
	// admin surface is open, which is only acceptable in development.
	AdminToken string

	Logger *slog.Logger
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:    "0.0.0.0",
		Port:    8080,
		Version: "dev",
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	searchService driving.SearchService,
	indexingService driving.IndexingService,
	services *runtime.Services,
	db Pinger,
	redisClient Pinger, // can be nil
) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		router:          http.NewServeMux(),
		version:         cfg.Version,
		logger:          logger,
		searchService:   searchService,
		indexingService: indexingService,
		services:        services,
		db:              db,
		redisClient:     redisClient,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.setupRoutes(cfg.AdminToken)
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(adminToken string) {
	admin := NewAdminMiddleware(adminToken, s.logger)

	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// Search endpoints (public)
	s.router.HandleFunc("POST /api/v1/search", s.handleSearch)
	s.router.HandleFunc("GET /api/v1/search/status", s.handleSearchStatus)

	// Indexing endpoints (admin-only)
	s.router.Handle("POST /api/v1/index",
		admin.Require(http.HandlerFunc(s.handleStartIndexing)))
	s.router.Handle("GET /api/v1/index/triggers/{id}",
		admin.Require(http.HandlerFunc(s.handleGetTrigger)))
	s.router.Handle("DELETE /api/v1/index",
		admin.Require(http.HandlerFunc(s.handleClearIndex)))

	// Settings endpoints (admin-only)
	s.router.Handle("GET /api/v1/settings/search",
		admin.Require(http.HandlerFunc(s.handleGetSearchSettings)))
	s.router.Handle("PUT /api/v1/settings/search",
		admin.Require(http.HandlerFunc(s.handleUpdateSearchSettings)))
}

// Start runs the server until an interrupt or termination signal arrives,
// then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.logger.Info("starting server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the underlying router, used by tests
func (s *Server) Handler() http.Handler {
	return s.router
}
