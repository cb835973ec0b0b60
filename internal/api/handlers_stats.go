package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handlePassStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"sessions": s.store.Count(),
		"passes":   s.store.Stats(),
	})
}
