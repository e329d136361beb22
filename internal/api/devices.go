package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/assetplan/assetmap-core/internal/audit"
	"github.com/assetplan/assetmap-core/internal/device"
	"github.com/assetplan/assetmap-core/internal/location"
)

// handleListDevices returns all devices across every location.
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := s.devices.List(r.Context())
	if err != nil {
		s.logger.Error("failed to list devices", "error", err)
		writeInternalError(w, "failed to list devices")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"devices": devices,
		"count":   len(devices),
	})
}

// handleGetDevice returns a single device.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	d, err := s.devices.GetByID(r.Context(), id)
	if errors.Is(err, device.ErrDeviceNotFound) {
		writeNotFound(w, "device not found: "+id)
		return
	}
	if err != nil {
		s.logger.Error("failed to get device", "device_id", id, "error", err)
		writeInternalError(w, "failed to get device")
		return
	}

	writeJSON(w, http.StatusOK, d)
}

// handleCreateDevice stores a new device. The store assigns the ID;
// any ID in the request body is rejected to keep generation
// store-side.
func (s *Server) handleCreateDevice(w http.ResponseWriter, r *http.Request) {
	var d device.Device
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if d.ID != "" {
		writeBadRequest(w, "id is assigned by the store and must be empty")
		return
	}

	if err := device.ValidateDevice(&d); err != nil {
		writeValidationError(w, err.Error())
		return
	}

	if _, err := s.locations.GetByID(r.Context(), d.LocationID); err != nil {
		if errors.Is(err, location.ErrLocationNotFound) {
			writeValidationError(w, "unknown location: "+d.LocationID)
			return
		}
		s.logger.Error("failed to resolve location", "location_id", d.LocationID, "error", err)
		writeInternalError(w, "failed to resolve location")
		return
	}

	if err := s.devices.Create(r.Context(), &d); err != nil {
		if errors.Is(err, device.ErrDeviceExists) {
			writeConflict(w, "device already exists")
			return
		}
		s.logger.Error("failed to create device", "error", err)
		writeInternalError(w, "failed to create device")
		return
	}

	s.logger.Info("device created", "device_id", d.ID, "location_id", d.LocationID)
	s.recordEvent(r, audit.ActionCreate, d.ID, d.LocationID, map[string]any{"name": d.Name, "type": string(d.Type)})
	if s.hub != nil {
		s.hub.DeviceCreated(d)
	}
	writeJSON(w, http.StatusCreated, d)
}

// handleUpdateDevice replaces a device record wholesale. Unlike the
// dashboard's form submit, the REST surface reports a vanished ID as
// 404 so API clients can tell the difference.
func (s *Server) handleUpdateDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var d device.Device
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if d.ID != "" && d.ID != id {
		writeBadRequest(w, "body id does not match URL")
		return
	}
	d.ID = id

	if err := device.ValidateDevice(&d); err != nil {
		writeValidationError(w, err.Error())
		return
	}

	if err := s.devices.Update(r.Context(), &d); err != nil {
		if errors.Is(err, device.ErrDeviceNotFound) {
			writeNotFound(w, "device not found: "+id)
			return
		}
		s.logger.Error("failed to update device", "device_id", id, "error", err)
		writeInternalError(w, "failed to update device")
		return
	}

	s.logger.Info("device updated", "device_id", id)
	s.recordEvent(r, audit.ActionUpdate, id, d.LocationID, map[string]any{"name": d.Name, "status": string(d.Status)})
	if s.hub != nil {
		s.hub.DeviceUpdated(d)
	}
	writeJSON(w, http.StatusOK, d)
}

// handleDeleteDevice removes a device. Deleting an unknown ID is a
// no-op and still returns 204.
func (s *Server) handleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	// Resolve the location before the row disappears; an unknown ID
	// just skips the change log entry.
	existing, err := s.devices.GetByID(r.Context(), id)
	existed := err == nil

	if err := s.devices.Delete(r.Context(), id); err != nil {
		s.logger.Error("failed to delete device", "device_id", id, "error", err)
		writeInternalError(w, "failed to delete device")
		return
	}

	s.logger.Info("device deleted", "device_id", id)
	if existed {
		s.recordEvent(r, audit.ActionDelete, id, existing.LocationID, nil)
	}
	if s.hub != nil {
		s.hub.DeviceDeleted(id)
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDeviceStats returns device counts grouped by type and status.
func (s *Server) handleDeviceStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.devices.Stats(r.Context())
	if err != nil {
		s.logger.Error("failed to get device stats", "error", err)
		writeInternalError(w, "failed to get device stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
