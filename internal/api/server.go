// Package api provides the HTTP server exposing the leaderboard core to the
// browser game.
package api

import (
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sheikhAI44/flapppybirdd/internal/errors"
	"github.com/sheikhAI44/flapppybirdd/internal/http/response"
	"github.com/sheikhAI44/flapppybirdd/internal/ratelimit"
	"github.com/sheikhAI44/flapppybirdd/internal/service"
)

// Config holds the HTTP surface settings.
type Config struct {
	AllowedOrigins []string
	// RequestsPerSecond / Burst bound inbound API requests per client IP.
	RequestsPerSecond float64
	Burst             int
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	reconciliation *service.ReconciliationService
	leaderboard    *service.LeaderboardService
	router         *chi.Mux
	api            huma.API
	limiter        *ratelimit.KeyedRateLimiter
	logger         *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(reconciliation *service.ReconciliationService, leaderboard *service.LeaderboardService, cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 20
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 40
	}
	s := &Server{
		reconciliation: reconciliation,
		leaderboard:    leaderboard,
		router:         chi.NewRouter(),
		limiter:        ratelimit.New(cfg.RequestsPerSecond, cfg.Burst),
		logger:         logger,
	}

	s.setupMiddleware(cfg.AllowedOrigins)

	humaConfig := huma.DefaultConfig("Flappy Bird Leaderboard", "1.0.0")
	humaConfig.Info.Description = "Score submission and leaderboard API with offline reconciliation"
	s.api = humachi.New(s.router, humaConfig)

	s.setupRoutes()
	s.registerScoreRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack. CORS is wide enough for
// the browser game, which may be served from another origin during
// development.
func (s *Server) setupMiddleware(allowedOrigins []string) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	s.router.Use(s.rateLimit)
}

// rateLimit bounds API requests per client IP. Static assets and the
// health check pass through; only /api/ paths consume tokens.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/") {
			next.ServeHTTP(w, r)
			return
		}
		if !s.limiter.Allow(clientKey(r)) {
			response.HandleError(w, errors.RateLimited("too many requests, please slow down"), s.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey buckets requests by client IP. RealIP middleware has already
// resolved proxy headers into RemoteAddr by the time this runs.
func clientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// setupRoutes configures the plain chi routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/player", s.handleGetPlayer)
		r.Get("/scores/local/stats", s.handleLocalStats)
		r.Delete("/scores/local", s.handleClearLocal)
	})

	s.setupWebRoutes()
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}

// handleGetPlayer returns the last identifier used for submission, for
// pre-filling the submission form.
func (s *Server) handleGetPlayer(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"email": s.leaderboard.LastEmail(),
	}, s.logger)
}

// handleLocalStats returns local score store statistics.
func (s *Server) handleLocalStats(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, s.leaderboard.LocalStats(), s.logger)
}

// handleClearLocal empties the local score store.
func (s *Server) handleClearLocal(w http.ResponseWriter, _ *http.Request) {
	cleared := s.leaderboard.ClearLocal()
	s.logger.Info("local scores cleared", "removed_any", cleared)
	response.Success(w, map[string]bool{
		"cleared": cleared,
	}, s.logger)
}
