package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nick-skriabin/readtime/internal/session"
)

// handleTimeline returns the last computed timeline plus the per-row
// annotation texts a host would splice into its gutter.
func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	sess := s.store.Get(chi.URLParam(r, "docID"))
	if sess == nil {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"enabled":     sess.Enabled(),
		"timeline":    sess.Timeline(),
		"annotations": sess.Annotations(),
	})
}

// handleConfigure applies partial config updates. Rejected values come
// back as warnings; the response config shows what is actually in
// effect.
func (s *Server) handleConfigure(w http.ResponseWriter, r *http.Request) {
	sess := s.store.Get(chi.URLParam(r, "docID"))
	if sess == nil {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}

	var upd session.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	warnings := sess.Configure(upd)
	if warnings == nil {
		warnings = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"config":   sess.Config(),
		"enabled":  sess.Enabled(),
		"warnings": warnings,
	})
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	sess := s.store.Get(chi.URLParam(r, "docID"))
	if sess == nil {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"enabled": sess.Toggle()})
}

// handleRecompute forces a pass right now, bypassing the settle window.
func (s *Server) handleRecompute(w http.ResponseWriter, r *http.Request) {
	sess := s.store.Get(chi.URLParam(r, "docID"))
	if sess == nil {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}

	tl := sess.Recompute()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"enabled":  sess.Enabled(),
		"timeline": tl,
	})
}
