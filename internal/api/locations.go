package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/assetplan/assetmap-core/internal/location"
	"github.com/assetplan/assetmap-core/internal/planar"
)

// handleListLocations returns all locations in their configured order.
func (s *Server) handleListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := s.locations.List(r.Context())
	if err != nil {
		s.logger.Error("failed to list locations", "error", err)
		writeInternalError(w, "failed to list locations")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"locations": locations,
		"count":     len(locations),
	})
}

// handleGetLocation returns a single location.
func (s *Server) handleGetLocation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	loc, err := s.locations.GetByID(r.Context(), id)
	if errors.Is(err, location.ErrLocationNotFound) {
		writeNotFound(w, "location not found: "+id)
		return
	}
	if err != nil {
		s.logger.Error("failed to get location", "location_id", id, "error", err)
		writeInternalError(w, "failed to get location")
		return
	}

	writeJSON(w, http.StatusOK, loc)
}

// handleListLocationDevices returns every device placed in a location.
// An empty list is a valid response for a location with no assets yet.
func (s *Server) handleListLocationDevices(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := s.locations.GetByID(r.Context(), id); err != nil {
		if errors.Is(err, location.ErrLocationNotFound) {
			writeNotFound(w, "location not found: "+id)
			return
		}
		s.logger.Error("failed to get location", "location_id", id, "error", err)
		writeInternalError(w, "failed to get location")
		return
	}

	devices, err := s.devices.ListByLocation(r.Context(), id)
	if err != nil {
		s.logger.Error("failed to list devices", "location_id", id, "error", err)
		writeInternalError(w, "failed to list devices")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"devices": devices,
		"count":   len(devices),
	})
}

// handleLocationBounds returns the planar extent of a location's floor
// plan and the padded pan bounds viewers should clamp to.
func (s *Server) handleLocationBounds(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	loc, err := s.locations.GetByID(r.Context(), id)
	if errors.Is(err, location.ErrLocationNotFound) {
		writeNotFound(w, "location not found: "+id)
		return
	}
	if err != nil {
		s.logger.Error("failed to get location", "location_id", id, "error", err)
		writeInternalError(w, "failed to get location")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"extent":     planar.Extent(loc),
		"pan_bounds": planar.PanBounds(loc),
	})
}

// handleAnalyzeLocation runs the AI health assessment over the
// location's current assets. The analyzer absorbs its own failures
// into a fallback result, so this handler only fails on store errors.
func (s *Server) handleAnalyzeLocation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	loc, err := s.locations.GetByID(r.Context(), id)
	if errors.Is(err, location.ErrLocationNotFound) {
		writeNotFound(w, "location not found: "+id)
		return
	}
	if err != nil {
		s.logger.Error("failed to get location", "location_id", id, "error", err)
		writeInternalError(w, "failed to get location")
		return
	}

	devices, err := s.devices.ListByLocation(r.Context(), id)
	if err != nil {
		s.logger.Error("failed to list devices for analysis", "location_id", id, "error", err)
		writeInternalError(w, "failed to list devices")
		return
	}

	result := s.analyzer.Analyze(r.Context(), loc.Name, devices)
	writeJSON(w, http.StatusOK, result)
}
