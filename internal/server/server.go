// Package server exposes the read-side HTTP API: the matched-stories
// snapshot, live per-bias lists, the source registry, and health/metrics.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"triada/internal/cache"
	"triada/internal/metrics"
	"triada/internal/snapshot"
	"triada/internal/sources"
)

const (
	defaultGroupLimit = 15
	maxGroupLimit     = 25
	defaultBiasLimit  = 15
	maxBiasLimit      = 50

	byBiasCacheTTL = 30 * time.Second
)

type Server struct {
	svc       *snapshot.Service
	registry  *sources.Registry
	respCache *cache.Cache
}

func New(svc *snapshot.Service, registry *sources.Registry) *Server {
	return &Server{
		svc:       svc,
		registry:  registry,
		respCache: cache.New(),
	}
}

// Router wires all routes and shared middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)

	r.Route("/api", func(r chi.Router) {
		r.Get("/news/matched", s.handleNewsMatched)
		r.Get("/news/by-bias", s.handleNewsByBias)
		r.Get("/sources", s.handleSources)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	status := "ok"
	code := http.StatusOK
	if healthy, _ := stats["is_healthy"].(bool); !healthy {
		status = "error"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]interface{}{
		"status":     status,
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, metrics.Global.GetStats())
}

// handleNewsMatched serves the latest snapshot, optionally sliced. Reads are
// cheap: the expensive fetch+match cycle only runs here on a cold start.
func (s *Server) handleNewsMatched(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, defaultGroupLimit, maxGroupLimit)

	payload, err := s.svc.Latest(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to load matched news",
		})
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

// handleNewsByBias serves live per-bias article lists with a short response
// cache, since every call fans out to the configured feeds.
func (s *Server) handleNewsByBias(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, defaultBiasLimit, maxBiasLimit)

	cacheKey := strconv.Itoa(limit)
	if cached, ok := s.respCache.Get(cacheKey); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	byBias := s.svc.NewsByBias(r.Context(), limit)
	s.respCache.Set(cacheKey, byBias, byBiasCacheTTL)
	writeJSON(w, http.StatusOK, byBias)
}

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.All())
}

func queryLimit(r *http.Request, def, max int) int {
	limit := def
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > max {
		limit = max
	}
	return limit
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
