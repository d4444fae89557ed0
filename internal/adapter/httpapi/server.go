// Package httpapi exposes the risk engine over a JSON HTTP API, along with
// health, readiness, and metrics endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gaga2159318-del/KalawFloodMap/internal/domain"
	"github.com/gaga2159318-del/KalawFloodMap/internal/engine"
)

// Server routes API traffic to the engine and the store.
type Server struct {
	httpServer *http.Server
	engine     *engine.Engine
	store      domain.Store
	logger     *slog.Logger
}

// NewServer builds the router and wraps it in an http.Server with sane
// timeouts.
func NewServer(addr string, eng *engine.Engine, store domain.Store, allowedOrigins []string, logger *slog.Logger) *Server {
	s := &Server{
		engine: eng,
		store:  store,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/risk/score", s.handleScoreRisk)

		r.Get("/areas", s.handleListAreas)
		r.Post("/areas", s.handleCreateArea)
		r.Delete("/areas/{id}", s.handleDeleteArea)

		r.Get("/weather", s.handleWeather)
		r.Get("/forecast", s.handleForecast)
		r.Post("/refresh", s.handleRefresh)

		r.Post("/simulation", s.handleApplySimulation)
		r.Delete("/simulation", s.handleResetSimulation)
		r.Put("/simulation/auto", s.handleSetAutoSimulation)

		r.Get("/notifications", s.handleListNotifications)
		r.Post("/notifications/resolve", s.handleResolve)

		r.Get("/records/floods", s.handleListFloodRecords)
		r.Get("/records/disregards", s.handleListDisregardRecords)

		r.Post("/flood-events", s.handleCreateFloodEvent)
		r.Get("/flood-events", s.handleListFloodEvents)

		r.Get("/preferences/theme", s.handleGetTheme)
		r.Put("/preferences/theme", s.handleSetTheme)
	})

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.engine.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleScoreRisk(w http.ResponseWriter, r *http.Request) {
	var in domain.RiskInput
	if !s.decode(w, r, &in) {
		return
	}
	writeJSON(w, http.StatusOK, domain.CalculateFloodRisk(in))
}

func (s *Server) handleListAreas(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Areas())
}

func (s *Server) handleCreateArea(w http.ResponseWriter, r *http.Request) {
	var req domain.NewAreaRequest
	if !s.decode(w, r, &req) {
		return
	}
	area, err := s.engine.CreateArea(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, area)
}

func (s *Server) handleDeleteArea(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.DeleteArea(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// weatherResponse bundles the snapshot with the simulation state so the map
// header renders from one request.
type weatherResponse struct {
	Weather         domain.WeatherSnapshot `json:"weather"`
	ActiveCondition domain.Condition       `json:"activeCondition,omitempty"`
	AutoSimulation  bool                   `json:"autoSimulation"`
	Available       bool                   `json:"available"`
}

func (s *Server) handleWeather(w http.ResponseWriter, _ *http.Request) {
	snapshot, _, available := s.engine.Weather()
	active, auto := s.engine.ActiveCondition()
	writeJSON(w, http.StatusOK, weatherResponse{
		Weather:         snapshot,
		ActiveCondition: active,
		AutoSimulation:  auto,
		Available:       available,
	})
}

func (s *Server) handleForecast(w http.ResponseWriter, _ *http.Request) {
	_, forecast, _ := s.engine.Weather()
	writeJSON(w, http.StatusOK, forecast)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.RefreshWeather(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleApplySimulation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Condition domain.Condition `json:"condition"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.engine.ApplySimulation(r.Context(), req.Condition, true); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"condition": string(req.Condition)})
}

func (s *Server) handleResetSimulation(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.ResetSimulation(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetAutoSimulation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	s.engine.SetAutoSimulation(r.Context(), req.Enabled)
	writeJSON(w, http.StatusOK, map[string]bool{"enabled": req.Enabled})
}

// notificationsResponse pairs the feed with its unread badge count.
type notificationsResponse struct {
	Notifications []domain.Notification `json:"notifications"`
	Badge         int                   `json:"badge"`
}

func (s *Server) handleListNotifications(w http.ResponseWriter, _ *http.Request) {
	notifications, badge := s.engine.Notifications()
	writeJSON(w, http.StatusOK, notificationsResponse{Notifications: notifications, Badge: badge})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req engine.ResolveRequest
	if !s.decode(w, r, &req) {
		return
	}
	result, err := s.engine.Resolve(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListFloodRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.LoadFloodRecords(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleListDisregardRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.LoadDisregardRecords(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleCreateFloodEvent(w http.ResponseWriter, r *http.Request) {
	var report domain.FloodEventReport
	if !s.decode(w, r, &report) {
		return
	}
	if report.AreaID == "" {
		s.writeError(w, fmt.Errorf("%w: areaId is required", domain.ErrValidation))
		return
	}
	report = domain.PrepareFloodEventReport(report)
	id, err := s.store.AppendFloodEventReport(r.Context(), report)
	if err != nil {
		s.writeError(w, err)
		return
	}
	report.ID = id
	writeJSON(w, http.StatusCreated, report)
}

func (s *Server) handleListFloodEvents(w http.ResponseWriter, r *http.Request) {
	reports, err := s.store.LoadFloodEventReports(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := s.store.LoadThemePreference(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if theme == "" {
		theme = "light"
	}
	writeJSON(w, http.StatusOK, map[string]string{"theme": theme})
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Theme string `json:"theme"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if req.Theme != "light" && req.Theme != "dark" {
		s.writeError(w, fmt.Errorf("%w: theme must be light or dark", domain.ErrValidation))
		return
	}
	if err := s.store.SaveThemePreference(r.Context(), req.Theme); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"theme": req.Theme})
}

// decode unmarshals the request body, answering 400 on malformed JSON.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

// writeError maps domain errors to HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, engine.ErrAreaNotFound), errors.Is(err, engine.ErrNotificationNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}
