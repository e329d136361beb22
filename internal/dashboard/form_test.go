package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/assetplan/assetmap-core/internal/device"
	"github.com/assetplan/assetmap-core/internal/planar"
)

func selectLoc(t *testing.T, ctrl *Controller, id string) {
	t.Helper()
	if err := ctrl.SelectLocation(context.Background(), id); err != nil {
		t.Fatalf("SelectLocation %s: %v", id, err)
	}
}

func TestMapClickCreatesDevice(t *testing.T) {
	ctrl, _ := newTestController(t, newFakeDeviceRepo(seedDevices()...))
	selectLoc(t, ctrl, "loc-a")

	if err := ctrl.BeginPlacement(planar.PositionFromClick(150, 150)); err != nil {
		t.Fatalf("BeginPlacement: %v", err)
	}

	snap := ctrl.Snapshot()
	if snap.Form == nil || snap.Form.Mode != FormCreate {
		t.Fatalf("form = %+v, want open create form", snap.Form)
	}
	if snap.Form.Draft.LocationID != "loc-a" {
		t.Errorf("draft location = %q, want loc-a", snap.Form.Draft.LocationID)
	}

	if err := ctrl.UpdateDraft(device.Device{
		Name:       "Test Cam",
		Type:       device.TypeCamera,
		IPAddress:  "10.0.0.9",
		LocationID: "loc-a",
		Lat:        150,
		Lng:        150,
		Status:     device.StatusOnline,
	}); err != nil {
		t.Fatalf("UpdateDraft: %v", err)
	}

	created, err := ctrl.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if created.ID == "" || created.ID == "d1" || created.ID == "d2" {
		t.Errorf("created id = %q, want a fresh id", created.ID)
	}
	if created.Lat != 150 || created.Lng != 150 {
		t.Errorf("created position = (%v,%v), want (150,150)", created.Lat, created.Lng)
	}

	snap = ctrl.Snapshot()
	if snap.Form != nil {
		t.Error("form still open after successful submit")
	}
	if len(snap.Devices) != 3 {
		t.Errorf("list length = %d, want 3", len(snap.Devices))
	}
}

func TestCreatedIDsAreUnique(t *testing.T) {
	ctrl, _ := newTestController(t, newFakeDeviceRepo())
	selectLoc(t, ctrl, "loc-a")

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		if err := ctrl.BeginPlacement(planar.Position{Lat: 10, Lng: 10}); err != nil {
			t.Fatalf("BeginPlacement: %v", err)
		}
		if err := ctrl.UpdateDraft(device.Device{
			Name:       "Printer",
			Type:       device.TypePrinter,
			IPAddress:  "10.0.0.50",
			LocationID: "loc-a",
			Status:     device.StatusOnline,
		}); err != nil {
			t.Fatalf("UpdateDraft: %v", err)
		}
		created, err := ctrl.Submit(context.Background())
		if err != nil {
			t.Fatalf("Submit %d: %v", i, err)
		}
		if seen[created.ID] {
			t.Fatalf("duplicate id %q after %d creates", created.ID, i)
		}
		seen[created.ID] = true
	}
}

func TestEditReplacesWholesale(t *testing.T) {
	ctrl, _ := newTestController(t, newFakeDeviceRepo(seedDevices()...))
	selectLoc(t, ctrl, "loc-b")

	if err := ctrl.BeginEdit("d3"); err != nil {
		t.Fatalf("BeginEdit: %v", err)
	}
	snap := ctrl.Snapshot()
	if snap.Form == nil || snap.Form.Mode != FormEdit {
		t.Fatalf("form = %+v, want open edit form", snap.Form)
	}
	if snap.Form.Draft.Status != device.StatusMaintenance {
		t.Errorf("draft status = %q, want pre-filled maintenance", snap.Form.Draft.Status)
	}

	draft := snap.Form.Draft
	draft.Status = device.StatusOnline
	if err := ctrl.UpdateDraft(draft); err != nil {
		t.Fatalf("UpdateDraft: %v", err)
	}

	updated, err := ctrl.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if updated.ID != "d3" || updated.Status != device.StatusOnline {
		t.Errorf("updated = %+v, want d3 online", updated)
	}
	if updated.Name != "Dock Scanner" || updated.Lat != 100 {
		t.Errorf("unedited fields changed: %+v", updated)
	}

	snap = ctrl.Snapshot()
	if len(snap.Devices) != 1 || snap.Devices[0].Status != device.StatusOnline {
		t.Errorf("list after update = %+v", snap.Devices)
	}
}

func TestBeginEditUnknownDevice(t *testing.T) {
	ctrl, _ := newTestController(t, newFakeDeviceRepo(seedDevices()...))
	selectLoc(t, ctrl, "loc-a")

	err := ctrl.BeginEdit("missing")
	if !errors.Is(err, device.ErrDeviceNotFound) {
		t.Errorf("err = %v, want ErrDeviceNotFound", err)
	}
}

func TestBeginPlacementWithoutSelection(t *testing.T) {
	ctrl, _ := newTestController(t, newFakeDeviceRepo())
	if err := ctrl.BeginPlacement(planar.Position{}); !errors.Is(err, ErrNoSelection) {
		t.Errorf("err = %v, want ErrNoSelection", err)
	}
}

func TestSubmitValidationKeepsFormOpen(t *testing.T) {
	ctrl, _ := newTestController(t, newFakeDeviceRepo())
	selectLoc(t, ctrl, "loc-a")

	if err := ctrl.BeginPlacement(planar.Position{Lat: 5, Lng: 5}); err != nil {
		t.Fatalf("BeginPlacement: %v", err)
	}
	// Name left empty.
	if err := ctrl.UpdateDraft(device.Device{
		Type:       device.TypeServer,
		IPAddress:  "10.0.0.1",
		LocationID: "loc-a",
		Status:     device.StatusOnline,
	}); err != nil {
		t.Fatalf("UpdateDraft: %v", err)
	}

	_, err := ctrl.Submit(context.Background())
	if !errors.Is(err, device.ErrInvalidName) {
		t.Fatalf("Submit err = %v, want ErrInvalidName", err)
	}

	snap := ctrl.Snapshot()
	if snap.Form == nil {
		t.Fatal("form closed after validation failure")
	}
	if snap.Form.LastErr == "" {
		t.Error("form error not recorded")
	}
	if len(snap.Devices) != 0 {
		t.Errorf("store touched despite validation failure: %v", snap.Devices)
	}
}

func TestUpdateMissingDeviceIsSilentNoOp(t *testing.T) {
	ctrl, _ := newTestController(t, newFakeDeviceRepo(seedDevices()...))
	selectLoc(t, ctrl, "loc-a")

	if err := ctrl.BeginEdit("d1"); err != nil {
		t.Fatalf("BeginEdit: %v", err)
	}

	// The record vanishes from the store while the form is open.
	if err := ctrl.devices.Delete(context.Background(), "d1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	draft := ctrl.Snapshot().Form.Draft
	draft.Name = "Renamed"
	if err := ctrl.UpdateDraft(draft); err != nil {
		t.Fatalf("UpdateDraft: %v", err)
	}

	updated, err := ctrl.Submit(context.Background())
	if err != nil {
		t.Errorf("Submit err = %v, want silent no-op", err)
	}
	if updated != nil {
		t.Errorf("updated = %+v, want nil for a no-op", updated)
	}
	if ctrl.Snapshot().Form != nil {
		t.Error("form still open after no-op update")
	}
}

func TestOutOfBoundsPositionIsAccepted(t *testing.T) {
	ctrl, _ := newTestController(t, newFakeDeviceRepo())
	selectLoc(t, ctrl, "loc-a")

	// Well outside the 1000x800 extent of loc-a.
	if err := ctrl.BeginPlacement(planar.Position{Lat: 5000, Lng: -300}); err != nil {
		t.Fatalf("BeginPlacement: %v", err)
	}
	if err := ctrl.UpdateDraft(device.Device{
		Name:       "Roof Camera",
		Type:       device.TypeCamera,
		IPAddress:  "10.0.0.77",
		LocationID: "loc-a",
		Lat:        5000,
		Lng:        -300,
		Status:     device.StatusOnline,
	}); err != nil {
		t.Fatalf("UpdateDraft: %v", err)
	}
	created, err := ctrl.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if created.Lat != 5000 || created.Lng != -300 {
		t.Errorf("position = (%v,%v), want stored verbatim", created.Lat, created.Lng)
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	ctrl, _ := newTestController(t, newFakeDeviceRepo(seedDevices()...))
	selectLoc(t, ctrl, "loc-a")

	ctrl.RequestDelete("d1")
	if got := ctrl.Snapshot(); got.PendingID != "d1" || len(got.Devices) != 2 {
		t.Fatalf("after request: pending=%q devices=%d", got.PendingID, len(got.Devices))
	}

	ctrl.CancelDelete()
	if got := ctrl.Snapshot(); got.PendingID != "" || len(got.Devices) != 2 {
		t.Fatalf("after cancel: pending=%q devices=%d", got.PendingID, len(got.Devices))
	}

	ctrl.RequestDelete("d1")
	if err := ctrl.ConfirmDelete(context.Background()); err != nil {
		t.Fatalf("ConfirmDelete: %v", err)
	}
	snap := ctrl.Snapshot()
	if snap.PendingID != "" {
		t.Errorf("pending = %q after confirm", snap.PendingID)
	}
	ids := deviceIDs(snap.Devices)
	if len(ids) != 1 || ids["d1"] {
		t.Errorf("devices = %v, want d1 removed", snap.Devices)
	}
}

func TestConfirmDeleteNonexistentIsNoOp(t *testing.T) {
	ctrl, _ := newTestController(t, newFakeDeviceRepo(seedDevices()...))
	selectLoc(t, ctrl, "loc-a")

	ctrl.RequestDelete("ghost")
	if err := ctrl.ConfirmDelete(context.Background()); err != nil {
		t.Errorf("ConfirmDelete: %v, want no-op", err)
	}
	if got := len(ctrl.Snapshot().Devices); got != 2 {
		t.Errorf("devices = %d, want list unchanged", got)
	}
}

func TestConfirmDeleteWithoutRequest(t *testing.T) {
	ctrl, _ := newTestController(t, newFakeDeviceRepo())
	if err := ctrl.ConfirmDelete(context.Background()); !errors.Is(err, ErrNoPendingDelete) {
		t.Errorf("err = %v, want ErrNoPendingDelete", err)
	}
}

func TestCancelFormDiscardsDraft(t *testing.T) {
	ctrl, _ := newTestController(t, newFakeDeviceRepo())
	selectLoc(t, ctrl, "loc-a")

	if err := ctrl.BeginPlacement(planar.Position{Lat: 1, Lng: 2}); err != nil {
		t.Fatalf("BeginPlacement: %v", err)
	}
	ctrl.CancelForm()
	if ctrl.Snapshot().Form != nil {
		t.Error("form still open after cancel")
	}
	if _, err := ctrl.Submit(context.Background()); !errors.Is(err, ErrNoForm) {
		t.Errorf("Submit err = %v, want ErrNoForm", err)
	}
}
