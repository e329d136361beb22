package api

import (
	"net/http"
	"strconv"

	"github.com/assetplan/assetmap-core/internal/audit"
)

// handleListEvents returns the device change log, most recent first.
// Supports action, device_id, location_id, limit and offset query
// parameters.
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	if s.events == nil {
		writeNotFound(w, "event log not enabled")
		return
	}

	q := r.URL.Query()
	filter := audit.Filter{
		Action:     q.Get("action"),
		DeviceID:   q.Get("device_id"),
		LocationID: q.Get("location_id"),
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeBadRequest(w, "invalid limit")
			return
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeBadRequest(w, "invalid offset")
			return
		}
		filter.Offset = n
	}

	result, err := s.events.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("failed to list device events", "error", err)
		writeInternalError(w, "failed to list device events")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// recordEvent appends to the device change log. Logging the change is
// best-effort: a write failure never fails the request that caused it.
func (s *Server) recordEvent(r *http.Request, action, deviceID, locationID string, details map[string]any) {
	if s.events == nil {
		return
	}

	event := &audit.Event{
		Action:     action,
		DeviceID:   deviceID,
		LocationID: locationID,
		Source:     audit.SourceAPI,
		Details:    details,
	}
	if err := s.events.Record(r.Context(), event); err != nil {
		s.logger.Error("failed to record device event",
			"action", action,
			"device_id", deviceID,
			"error", err,
		)
	}
}
