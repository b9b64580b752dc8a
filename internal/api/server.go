// Package api provides the HTTP API server and handlers for the Kansou application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/kansouapp/kansou-server/internal/http/response"
	"github.com/kansouapp/kansou-server/internal/ratelimit"
	"github.com/kansouapp/kansou-server/internal/service"
	"github.com/kansouapp/kansou-server/internal/session"
)

// Per-client request budget. Generous for interactive browsing, tight
// enough to stop a runaway client from starving the tokenizer.
const (
	requestsPerSecond = 20
	requestBurst      = 40
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	searchService   *service.SearchService
	bookService     *service.BookService
	suggestService  *service.SuggestService
	metadataService *service.MetadataService
	sessions        *session.Manager
	limiter         *ratelimit.KeyedRateLimiter
	router          *chi.Mux
	logger          *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(searchService *service.SearchService, bookService *service.BookService, suggestService *service.SuggestService, metadataService *service.MetadataService, sessions *session.Manager, logger *slog.Logger) *Server {
	s := &Server{
		searchService:   searchService,
		bookService:     bookService,
		suggestService:  suggestService,
		metadataService: metadataService,
		sessions:        sessions,
		limiter:         ratelimit.New(requestsPerSecond, requestBurst),
		router:          chi.NewRouter(),
		logger:          logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	s.router.Use(s.rateLimit)
}

// rateLimit rejects clients that exceed the per-IP request budget.
// Runs after RealIP so RemoteAddr reflects the originating client.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow(r.RemoteAddr) {
			response.Error(w, http.StatusTooManyRequests, "too many requests", s.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/corpus", s.handleCorpusSummary)
		r.Get("/genres", s.handleListGenres)
		r.Get("/suggest", s.handleSuggest)

		// Books (corpus-indexed, read only).
		r.Route("/books", func(r chi.Router) {
			r.Get("/{index}", s.handleGetBookDetail)
			r.Get("/{index}/metadata", s.handleGetBookMetadata)
		})

		// Sessions drive the search/results/detail navigation loop.
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Get("/{id}", s.handleGetSession)
			r.Get("/{id}/results", s.handleGetResults)
			r.Post("/{id}/search", s.handleSearch)
			r.Post("/{id}/select", s.handleSelect)
			r.Post("/{id}/back", s.handleBack)
		})
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
