// Package api exposes the HTTP interface for the article search service.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/omrzgit/medium-scraper-search/internal/metrics"
	"github.com/omrzgit/medium-scraper-search/internal/search"
)

// Server wires HTTP handlers to the search engine. The engine may be
// nil when the snapshot failed to load at startup; every handler treats
// that as the not-ready condition rather than a crash.
type Server struct {
	router chi.Router
	engine *search.Engine
	logger *zap.Logger
}

// NewServer constructs a Server with middleware and routes. engine may
// be nil when no corpus could be loaded.
func NewServer(engine *search.Engine, logger *zap.Logger) *Server {
	metrics.Init()
	s := &Server{
		engine: engine,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	r.Use(timeoutMiddleware(30 * time.Second))

	r.Get("/search_articles", s.searchArticles)
	r.Get("/health", s.health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	count := 0
	if s.engine != nil {
		count = s.engine.Size()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"data_loaded":   s.engine != nil,
		"article_count": count,
	})
}

func (s *Server) searchArticles(w http.ResponseWriter, r *http.Request) {
	if s.engine == nil {
		metrics.ObserveQuery("not_ready")
		writeError(w, http.StatusServiceUnavailable,
			"data not loaded; check that the snapshot file exists")
		return
	}

	query := r.URL.Query().Get("query")
	if query == "" {
		metrics.ObserveQuery("bad_request")
		writeError(w, http.StatusBadRequest, "query parameter is required")
		return
	}

	topN, err := parseTopN(r.URL.Query().Get("top_n"))
	if err != nil {
		metrics.ObserveQuery("bad_request")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	results := s.engine.Rank(query, topN)
	metrics.ObserveQuery("ok")
	writeJSON(w, http.StatusOK, results)
}

func parseTopN(raw string) (int, error) {
	if raw == "" {
		return search.DefaultTopN, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("top_n must be an integer")
	}
	if n < 1 || n > search.MaxTopN {
		return 0, fmt.Errorf("top_n must be between 1 and %d", search.MaxTopN)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("write JSON failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
