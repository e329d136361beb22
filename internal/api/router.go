package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Location endpoints (read-only; the location set is fixed at startup)
		r.Route("/locations", func(r chi.Router) {
			r.Get("/", s.handleListLocations)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetLocation)
				r.Get("/devices", s.handleListLocationDevices)
				r.Get("/bounds", s.handleLocationBounds)
				r.Post("/analysis", s.handleAnalyzeLocation)
			})
		})

		// Device endpoints
		r.Route("/devices", func(r chi.Router) {
			r.Get("/", s.handleListDevices)
			r.Post("/", s.handleCreateDevice)
			r.Get("/stats", s.handleDeviceStats)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetDevice)
				r.Put("/", s.handleUpdateDevice)
				r.Delete("/", s.handleDeleteDevice)
			})
		})

		// Device change log
		r.Get("/events", s.handleListEvents)

		// WebSocket for live device events
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	mqttStatus := "disabled"
	if s.mqtt != nil {
		mqttStatus = "disconnected"
		if s.mqtt.HealthCheck(r.Context()) == nil {
			mqttStatus = "connected"
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"mqtt":    mqttStatus,
	})
}
