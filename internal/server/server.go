// Package server exposes the tutor, suggestion, follow-up and PDF parsing
// endpoints over HTTP.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/abhisek/codecoach/internal/config"
	"github.com/abhisek/codecoach/internal/llm"
	"github.com/abhisek/codecoach/internal/store"
	"github.com/abhisek/codecoach/internal/tutor"
)

// Server wires the tutor services to HTTP handlers.
type Server struct {
	cfg        *config.Config
	configured bool
	tutor      *tutor.Service
	starters   *tutor.StarterService
	followups  *tutor.FollowupService
	router     chi.Router
}

// New builds a server. provider may be nil, in which case the LLM endpoints
// report a configuration error while the rest of the server keeps working.
// history may also be nil.
func New(cfg *config.Config, provider llm.Provider, history store.ConversationRepo) *Server {
	s := &Server{
		cfg:        cfg,
		configured: provider != nil,
		tutor:      tutor.NewService(provider, history),
		starters:   tutor.NewStarterService(provider),
		followups:  tutor.NewFollowupService(provider, history),
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if s.cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/health"))
	r.Use(CORS(s.cfg.AllowedOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))
		r.Post("/tutor", s.handleTutor)
		r.Post("/suggestions", s.handleSuggestions)
		r.Post("/followups", s.handleFollowups)
		r.Post("/parse-pdf", s.handleParsePDF)
	})

	return r
}
