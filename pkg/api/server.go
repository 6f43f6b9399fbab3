package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/platinummonkey/backoffice/pkg/auth"
	"github.com/platinummonkey/backoffice/pkg/guard"
	"github.com/platinummonkey/backoffice/pkg/middleware"
	"github.com/platinummonkey/backoffice/pkg/notify"
	"github.com/platinummonkey/backoffice/pkg/observability"
	"github.com/platinummonkey/backoffice/pkg/service"
)

// Limiter is the pluggable rate-limit middleware; the in-memory and the
// Redis-backed implementations both satisfy it.
type Limiter interface {
	Handler(next http.Handler) http.Handler
}

// Deps collects everything the gateway HTTP surface needs
type Deps struct {
	Manager  *auth.Manager
	Services *service.Registry
	Notify   *notify.Center
	Chain    *guard.Chain
	Logger   *observability.Logger
	Metrics  *observability.Metrics
	Limiter  Limiter
}

// Server is the gateway HTTP server: guarded page navigation, the entity data
// API, auth session endpoints, and the notification feed.
type Server struct {
	deps   Deps
	router *mux.Router
}

// NewServer creates the gateway server and mounts all routes
func NewServer(deps Deps) *Server {
	s := &Server{
		deps:   deps,
		router: mux.NewRouter(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	if s.deps.Metrics != nil {
		s.router.Use(s.deps.Metrics.HTTPMiddleware)
	}
	if s.deps.Limiter != nil {
		s.router.Use(s.deps.Limiter.Handler)
	}

	NewAuthHandlers(s.deps.Manager, s.deps.Logger).RegisterRoutes(s.router)
	NewNotificationHandlers(s.deps.Notify).RegisterRoutes(s.router)

	apiRouter := s.router.PathPrefix("/api").Subrouter()
	s.deps.Services.Register(apiRouter)

	// Page navigations go through the guard chain; everything the table does
	// not declare falls through to a 404.
	pages := NewPageHandlers(s.deps.Manager, s.deps.Logger)
	s.router.PathPrefix("/").Handler(s.deps.Chain.Middleware(pages))
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Router exposes the underlying router
func (s *Server) Router() *mux.Router {
	return s.router
}
