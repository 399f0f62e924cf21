// Package server exposes the resolution, injury, and projection operations
// over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/XavierBriggs/courtline/internal/resolver"
	"github.com/XavierBriggs/courtline/internal/service"
	"github.com/XavierBriggs/courtline/pkg/models"
)

// Server wraps the prop service with an HTTP API
type Server struct {
	svc    *service.PropService
	router chi.Router
}

// New creates a Server with routing and middleware configured
func New(svc *service.PropService) *Server {
	s := &Server{svc: svc}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/props/resolve", s.handleResolve)
		r.Get("/injuries/{team}", s.handleInjuries)
		r.Get("/adjustment", s.handleAdjustment)
		r.Get("/providers", s.handleProviders)
	})

	s.router = r
	return s
}

// Handler returns the configured HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleResolve resolves a prop line for a player.
// GET /api/v1/props/resolve?player=LeBron+James&team=LAL&opponent=GSW&market=player_points
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	player := r.URL.Query().Get("player")
	if player == "" {
		writeError(w, http.StatusBadRequest, "player parameter is required")
		return
	}

	query := models.PropQuery{
		PlayerName: player,
		Market:     r.URL.Query().Get("market"),
	}
	if team := r.URL.Query().Get("team"); team != "" {
		query.Game = &models.GameContext{
			TeamAbbrev:     team,
			OpponentAbbrev: r.URL.Query().Get("opponent"),
		}
	}

	resolved, err := s.svc.ResolveProp(r.Context(), query)
	if err != nil {
		switch {
		case errors.Is(err, resolver.ErrNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			log.Printf("[server] resolve failed for %q: %v", player, err)
			writeError(w, http.StatusBadGateway, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, resolved)
}

// handleInjuries returns the current injury report for a team.
// GET /api/v1/injuries/LAL
func (s *Server) handleInjuries(w http.ResponseWriter, r *http.Request) {
	team := chi.URLParam(r, "team")

	report, err := s.svc.TeamInjuries(r.Context(), team)
	if err != nil {
		log.Printf("[server] injury lookup failed for %q: %v", team, err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// handleAdjustment returns an injury-adjusted projection.
// GET /api/v1/adjustment?player=LeBron+James&team=LAL&projection=26.5
func (s *Server) handleAdjustment(w http.ResponseWriter, r *http.Request) {
	player := r.URL.Query().Get("player")
	team := r.URL.Query().Get("team")
	if player == "" || team == "" {
		writeError(w, http.StatusBadRequest, "player and team parameters are required")
		return
	}

	projection, err := strconv.ParseFloat(r.URL.Query().Get("projection"), 64)
	if err != nil || projection <= 0 {
		writeError(w, http.StatusBadRequest, "projection must be a positive number")
		return
	}

	writeJSON(w, http.StatusOK, s.svc.AdjustedProjection(r.Context(), player, team, projection))
}

// handleProviders lists the configured providers in fallback order
func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"providers": s.svc.Providers(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[server] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
