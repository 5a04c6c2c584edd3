// Package api exposes the query pipeline over HTTP. One conversational
// endpoint plus direct structured endpoints for callers that already know
// what they want.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"playcall/internal"
	"playcall/internal/config"
	"playcall/internal/executor"
	"playcall/internal/router"
	"playcall/internal/session"
)

// Server is the HTTP application.
type Server struct {
	mux      *chi.Mux
	cfg      *config.Config
	router   *router.Router
	executor *executor.Executor
	sessions *session.Store
	logger   *internal.Logger
}

// NewServer wires the HTTP surface over a router and executor.
func NewServer(cfg *config.Config, rt *router.Router, exec *executor.Executor, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{
		mux:      chi.NewRouter(),
		cfg:      cfg,
		router:   rt,
		executor: exec,
		sessions: session.NewStore(),
		logger:   logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.mux.Use(middleware.RequestID)
	s.mux.Use(middleware.RealIP)
	s.mux.Use(middleware.Logger)
	s.mux.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.mux.Get("/health", s.handleHealth)

	// Conversational entry point
	s.mux.Post("/api/query", s.handleQuery)

	// Structured endpoints bypass the language router entirely
	s.mux.Post("/api/situation", s.handleSituation)
	s.mux.Post("/api/decision", s.handleDecision)
	s.mux.Get("/api/teams/{team}/profile", s.handleTeamProfile)
	s.mux.Get("/api/ep-table", s.handleEPTable)
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe starts the server on the configured port.
func (s *Server) ListenAndServe() error {
	addr := ":" + s.cfg.Server.Port
	s.logger.Info("Listening on %s", addr)
	return http.ListenAndServe(addr, s.mux)
}
