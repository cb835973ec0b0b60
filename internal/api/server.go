// Package api exposes document sessions over HTTP: open a document,
// stream content updates into it, and read back the computed reading
// time annotations.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nick-skriabin/readtime/internal/config"
	"github.com/nick-skriabin/readtime/internal/session"
)

// Server is the HTTP API server for readtime.
type Server struct {
	router chi.Router
	store  *session.Store
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(store *session.Store, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		store: store,
		log:   log,
		cfg:   cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// API endpoints, behind bearer auth when a key is configured.
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/documents", s.handleCreateDocument)
		r.Post("/api/documents/upload", s.handleUploadDocument)
		r.Get("/api/documents", s.handleListDocuments)
		r.Get("/api/documents/{docID}", s.handleGetDocument)
		r.Put("/api/documents/{docID}/content", s.handleUpdateContent)
		r.Delete("/api/documents/{docID}", s.handleDeleteDocument)

		r.Get("/api/documents/{docID}/timeline", s.handleTimeline)
		r.Patch("/api/documents/{docID}/config", s.handleConfigure)
		r.Post("/api/documents/{docID}/toggle", s.handleToggle)
		r.Post("/api/documents/{docID}/recompute", s.handleRecompute)

		r.Get("/api/stats", s.handlePassStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
