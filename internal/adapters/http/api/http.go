// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/okian/wodboard/internal/adapters/repository"
	"github.com/okian/wodboard/pkg/logger"
)

const (
	defaultMaxLimit  = 1000
	defaultRateLimit = "6-M"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	LeaderboardDependencies
	RankDependencies
	EventDependencies
	WorkoutDependencies
	RefreshDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	leaderboardHandler *LeaderboardHandler
	rankHandler        *RankHandler
	eventsHandler      *EventsHandler
	workoutsHandler    *WorkoutsHandler
	refreshHandler     *RefreshHandler

	allowedOrigins []string
	rateLimit      string
	refreshLimiter *limiter.Limiter
	logger         logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithAllowedOrigins sets the CORS origins; "*" allows any.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.allowedOrigins = origins
		}
	}
}

// WithRefreshRateLimit sets the POST /refresh budget in limiter format, e.g. "6-M".
func WithRefreshRateLimit(rate string) Option {
	return func(s *Server) {
		if rate != "" {
			s.rateLimit = rate
		}
	}
}

// WithLogger sets a custom logger for the server.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) (*Server, error) {
	s := &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		leaderboardHandler: NewLeaderboardHandler(deps, defaultMaxLimit),
		rankHandler:        NewRankHandler(deps),
		eventsHandler:      NewEventsHandler(deps),
		workoutsHandler:    NewWorkoutsHandler(deps),
		refreshHandler:     NewRefreshHandler(deps),
		allowedOrigins:     []string{"*"},
		rateLimit:          defaultRateLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("api")
	}

	rate, err := limiter.NewRateFromFormatted(s.rateLimit)
	if err != nil {
		return nil, WrapKind("api.new_server", ErrBadRequest, err)
	}
	s.refreshLimiter = limiter.New(memory.NewStore(), rate)
	return s, nil
}

// Router builds the chi router with every route and middleware attached.
func (s *Server) Router(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	s.Register(ctx, r)
	return r
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(LoggingMiddleware(s.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:         300,
	}))

	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/metrics", s.healthHandler.HandleMetrics)
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	r.Get("/workouts", MetricsMiddleware(s.workoutsHandler.HandleGetWorkouts, "workouts"))
	r.Get("/leaderboard/{category}", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	r.Get("/leaderboard/{category}/{name}", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
	r.Get("/events/{eventID}/{category}", MetricsMiddleware(s.eventsHandler.HandleGetEvent, "events"))
	r.Post("/refresh", MetricsMiddleware(RateLimitMiddleware(s.refreshLimiter, s.refreshHandler.HandlePostRefresh), "refresh"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeLookupError maps store errors to HTTP statuses.
func writeLookupError(w http.ResponseWriter, err error) {
	switch {
	case isNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// isNotFound allows the API to translate upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrUnknownCategory)
}
