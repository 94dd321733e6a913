package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hongminglow/nebula-be/internal/auth"
	"github.com/hongminglow/nebula-be/internal/config"
	"github.com/hongminglow/nebula-be/internal/http/handlers"
	"github.com/hongminglow/nebula-be/internal/metrics"
	"github.com/hongminglow/nebula-be/internal/middleware"
	"github.com/hongminglow/nebula-be/internal/storage"
)

// Deps are the collaborators constructed in main and shared by every handler.
type Deps struct {
	Store   storage.Store
	Hasher  *auth.PasswordHasher
	Tokens  *auth.TokenManager
	Guard   auth.ResetGuard
	Limiter middleware.Limiter
	Avatars handlers.AvatarUploader
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, deps Deps) *Server {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           NewRouter(cfg, deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.RequestTimeout,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return &Server{inner: httpServer}
}

// NewRouter builds the full route tree.
func NewRouter(cfg config.Config, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(deps.Logger, deps.Metrics))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(chimw.Timeout(cfg.RequestTimeout))

	handlers.NewHealthHandler(time.Now(), deps.Store).Register(r)
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Handler())
	}

	authn := middleware.Authenticate(deps.Tokens)
	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(ar chi.Router) {
			if deps.Limiter != nil {
				ar.Use(middleware.RateLimit(deps.Limiter, deps.Logger))
			}
			handlers.NewAuthHandler(deps.Store, deps.Hasher, deps.Tokens, deps.Guard, deps.Metrics, &cfg, deps.Logger).Register(ar, authn)
		})

		api.Group(func(pr chi.Router) {
			pr.Use(authn)
			pr.Route("/users", handlers.NewUserHandler(deps.Store, deps.Avatars, deps.Logger).Register)
			pr.Route("/content", handlers.NewContentHandler(deps.Store, deps.Logger).Register)
			pr.Route("/courses", handlers.NewCourseHandler(deps.Store, deps.Logger).Register)
			pr.Route("/events", handlers.NewEventHandler(deps.Store, deps.Logger).Register)
			pr.Route("/groups", handlers.NewGroupHandler(deps.Store, deps.Logger).Register)
			pr.Route("/calendar", handlers.NewCalendarHandler(deps.Store, deps.Logger).Register)
			pr.Route("/checkins", handlers.NewCheckinHandler(deps.Store, deps.Logger).Register)
		})
	})
	return r
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
