package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/nick-skriabin/readtime/internal/document"
	"github.com/nick-skriabin/readtime/internal/importer"
	"github.com/nick-skriabin/readtime/internal/session"
	"github.com/nick-skriabin/readtime/internal/timeline"
)

type createDocumentRequest struct {
	Name           string   `json:"name"`
	Content        string   `json:"content"`
	WordsPerMinute *float64 `json:"words_per_minute"`
	Format         *string  `json:"format"`
}

// handleCreateDocument opens a session for inline content. The first
// pass runs before the response, so the reply already carries counts.
func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	var req createDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	name := req.Name
	if name == "" {
		name = "untitled.md"
	}
	name = sanitizeFilename(name)

	cfg := s.sessionConfig(req.WordsPerMinute, req.Format)
	sess := s.store.Open(name, document.KindForName(name), req.Content, cfg, session.Options{})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(sess.Snapshot())
}

// handleUploadDocument opens a session from an uploaded file. The
// importer for the file type rewrites it as markdown first.
func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !importer.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	imp, err := importer.ForFile(filename)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if p, ok := imp.(*importer.PDFImporter); ok {
		p.FallbackPdftotext = s.cfg.PDFFallbackPdftotext
	}
	content, err := imp.Import(bytes.NewReader(data), filename)
	if err != nil {
		jsonError(w, "failed to import file: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	// Parse optional config overrides.
	var wpm *float64
	if v := r.FormValue("words_per_minute"); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			wpm = &n
		}
	}
	var format *string
	if v := r.FormValue("format"); v != "" {
		format = &v
	}
	cfg := s.sessionConfig(wpm, format)

	sess := s.store.Open(filename, importer.KindFor(filename), content, cfg, session.Options{})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(sess.Snapshot())
}

// handleListDocuments lists all open sessions.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	snaps := s.store.List()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"documents": snaps})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	sess := s.store.Get(chi.URLParam(r, "docID"))
	if sess == nil {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sess.Snapshot())
}

type updateContentRequest struct {
	Content string `json:"content"`
}

// handleUpdateContent replaces document content. A real change answers
// 202 and lands in the annotations once the settle window passes;
// identical content short-circuits with 200.
func (s *Server) handleUpdateContent(w http.ResponseWriter, r *http.Request) {
	sess := s.store.Get(chi.URLParam(r, "docID"))
	if sess == nil {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	var req updateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	scheduled := sess.Changed(req.Content)
	snap := sess.Document().Snapshot()

	w.Header().Set("Content-Type", "application/json")
	status := "unchanged"
	if scheduled {
		status = "scheduled"
		w.WriteHeader(http.StatusAccepted)
	}
	json.NewEncoder(w).Encode(map[string]any{
		"status":  status,
		"version": snap.Version,
		"hash":    snap.Hash,
	})
}

// handleDeleteDocument closes a session and drops its annotations.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	if !s.store.Delete(docID) {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"deleted": docID})
}

// sessionConfig builds a session config from the service defaults,
// applying valid per-request overrides and ignoring the rest.
func (s *Server) sessionConfig(wpm *float64, format *string) timeline.Config {
	cfg := timeline.Config{
		WordsPerMinute: s.cfg.WordsPerMinute,
		Format:         timeline.Format(s.cfg.Format),
	}
	if wpm != nil && *wpm > 0 {
		cfg.WordsPerMinute = *wpm
	}
	if format != nil {
		if f, err := timeline.ParseFormat(*format); err == nil {
			cfg.Format = f
		}
	}
	return cfg
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
