package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"vegly/internal/config"
	"vegly/internal/core"
	"vegly/internal/llm"
	"vegly/internal/logger"
	"vegly/internal/review"
	"vegly/internal/vectorstore"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// MenuService classifies whole menus into confidence buckets.
type MenuService interface {
	ClassifyItems(ctx context.Context, items []core.MenuItem, requestID string) core.ClassifyResult
}

// Deps bundles the collaborators the HTTP handlers dispatch to.
type Deps struct {
	Service  MenuService
	Store    vectorstore.Store
	Provider llm.Provider
	Reviews  *review.Store
	Feedback *review.FeedbackLog
}

// Server represents the HTTP server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	deps       Deps
	config     config.Server
	log        *slog.Logger
}

// New creates a new HTTP server instance
func New(deps Deps, cfg config.Server) *Server {
	s := &Server{
		router: chi.NewRouter(),
		deps:   deps,
		config: cfg,
		log:    logger.Get(),
	}

	// Setup middleware
	s.setupMiddleware()

	// Setup routes
	s.setupRoutes()

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeoutDuration(),
		WriteTimeout: cfg.WriteTimeoutDuration(),
	}

	return s
}

// setupMiddleware configures middleware for the server
func (s *Server) setupMiddleware() {
	// Request ID middleware
	s.router.Use(middleware.RequestID)

	// Real IP middleware
	s.router.Use(middleware.RealIP)

	// Logging middleware
	s.router.Use(middleware.Logger)

	// Recovery middleware (recover from panics)
	s.router.Use(middleware.Recoverer)

	// Request timeout middleware
	s.router.Use(middleware.Timeout(60 * time.Second))

	// CORS middleware
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any major browsers
	}))
}

// setupRoutes configures routes for the server
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.Get("/health", s.handleHealth)

	// Status endpoint
	s.router.Get("/api/status", s.handleStatus)

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		// Classification API
		r.Post("/classify", s.handleClassify)

		// Review API
		r.Route("/review", func(r chi.Router) {
			r.Post("/", s.handleSubmitReview)
			r.Get("/feedback/stats", s.handleFeedbackStats)
			r.Get("/{requestID}", s.handleGetReview)
		})

		// Knowledge base search (debug surface)
		r.Post("/search", s.handleSearch)

		// Parse-assist for upstream menu parsers
		r.Post("/parse", s.handleParse)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info("Starting HTTP server",
		"addr", s.httpServer.Addr,
		"read_timeout", s.config.ReadTimeout,
		"write_timeout", s.config.WriteTimeout,
	)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed to start: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server gracefully...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.log.Info("HTTP server stopped")
	return nil
}

// Router returns the chi router instance (useful for testing)
func (s *Server) Router() *chi.Mux {
	return s.router
}
