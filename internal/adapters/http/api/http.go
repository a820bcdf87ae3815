// Package api declares the HTTP contracts and routes of the matching service.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/okian/skillhive/internal/domain/catalog"
	"github.com/okian/skillhive/internal/domain/model"
	"github.com/okian/skillhive/internal/domain/types"
	"github.com/okian/skillhive/pkg/logger"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	Recommend(ctx context.Context, userID string) ([]model.MatchResult[model.Hackathon], error)
	MatchTeammates(ctx context.Context, userID string, filter catalog.TeammateFilter) ([]model.MatchResult[model.Profile], error)
	ListHackathons(ctx context.Context, userID string, filter catalog.HackathonFilter) ([]catalog.Listing, error)
	Enroll(ctx context.Context, userID, hackathonID string) (types.EnrollmentResult, error)
	IsEnrolled(ctx context.Context, userID, hackathonID string) (bool, error)
	Dashboard(ctx context.Context, userID string) (types.Dashboard, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	deps          Dependencies
	healthHandler *HealthHandler
	statsHandler  *StatsHandler

	allowedOrigins []string
	enrollLimit    int
	enrollWindow   time.Duration
	requestTimeout time.Duration
	logger         logger.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithAllowedOrigins sets the CORS allow list.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.allowedOrigins = origins
		}
	}
}

// WithEnrollRateLimit caps enrollment requests per user per window.
// A non-positive limit disables the cap.
func WithEnrollRateLimit(limit int, window time.Duration) Option {
	return func(s *Server) {
		s.enrollLimit = limit
		if window > 0 {
			s.enrollWindow = window
		}
	}
}

// WithRequestTimeout bounds each handler's call into the service.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.requestTimeout = d
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		deps:           deps,
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		allowedOrigins: []string{"*"},
		enrollLimit:    30,
		enrollWindow:   time.Minute,
		requestTimeout: 10 * time.Second,
		logger:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes builds the chi router. Callers may mount more routes on it.
func (s *Server) Routes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
	r.Use(MetricsMiddleware)
	r.Use(RequestLogger(s.logger))

	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Get("/metrics", s.healthHandler.HandleHealth)
	r.Get("/stats", s.statsHandler.HandleStats)

	r.Get("/hackathons", s.handleListHackathons)

	r.Route("/users/{userID}", func(r chi.Router) {
		r.Get("/recommendations", s.handleRecommendations)
		r.Get("/teammates", s.handleTeammates)
		r.Get("/dashboard", s.handleDashboard)
		r.With(s.enrollRateLimit()).Post("/enrollments", s.handleEnroll)
		r.Get("/enrollments/{hackathonID}", s.handleEnrollmentStatus)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeBadRequest, nil)
	})

	return r
}

// enrollRateLimit limits enrollment writes per client IP and user.
func (s *Server) enrollRateLimit() func(http.Handler) http.Handler {
	if s.enrollLimit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(s.enrollLimit, s.enrollWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP, keyByUser),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			writeError(w, http.StatusTooManyRequests, codeRateLimited, nil)
		}),
	)
}

func keyByUser(r *http.Request) (string, error) {
	return chi.URLParam(r, "userID"), nil
}

// callContext derives the context a handler passes to the service.
func (s *Server) callContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.requestTimeout)
}
