package device

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := `
	CREATE TABLE devices (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		type        TEXT NOT NULL,
		ip_address  TEXT NOT NULL,
		location_id TEXT NOT NULL,
		lat         REAL NOT NULL DEFAULT 0,
		lng         REAL NOT NULL DEFAULT 0,
		status      TEXT NOT NULL DEFAULT 'online',
		created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
		updated_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
	);`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	return NewSQLiteRepository(db)
}

func testDevice(id string) *Device {
	return &Device{
		ID:         id,
		Name:       "Edge Router",
		Type:       TypeRouter,
		IPAddress:  "10.0.0.1",
		LocationID: "loc-a",
		Lat:        120,
		Lng:        340,
		Status:     StatusOnline,
	}
}

func TestCreateAssignsID(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	d := testDevice("")
	if err := repo.Create(ctx, d); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if d.ID == "" {
		t.Fatal("Create() did not assign an ID")
	}

	got, err := repo.GetByID(ctx, d.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.Name != "Edge Router" || got.Lat != 120 || got.Lng != 340 {
		t.Errorf("stored device = %+v", got)
	}
}

func TestCreateRejectsDuplicateID(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, testDevice("d1")); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	err := repo.Create(ctx, testDevice("d1"))
	if !errors.Is(err, ErrDeviceExists) {
		t.Errorf("Create() duplicate error = %v, want ErrDeviceExists", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.GetByID(context.Background(), "dev-ghost")
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("GetByID() error = %v, want ErrDeviceNotFound", err)
	}
}

func TestListByLocationScopes(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	a := testDevice("d1")
	b := testDevice("d2")
	b.LocationID = "loc-b"
	for _, d := range []*Device{a, b} {
		if err := repo.Create(ctx, d); err != nil {
			t.Fatalf("Create(%s) error: %v", d.ID, err)
		}
	}

	devices, err := repo.ListByLocation(ctx, "loc-a")
	if err != nil {
		t.Fatalf("ListByLocation() error: %v", err)
	}
	if len(devices) != 1 || devices[0].ID != "d1" {
		t.Errorf("ListByLocation(loc-a) = %+v", devices)
	}

	empty, err := repo.ListByLocation(ctx, "loc-empty")
	if err != nil {
		t.Fatalf("ListByLocation() error: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("ListByLocation(loc-empty) = %+v, want empty", empty)
	}
}

func TestUpdateReplacesWholesale(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	d := testDevice("d1")
	if err := repo.Create(ctx, d); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	d.Name = "Core Router"
	d.Status = StatusMaintenance
	d.Lat = -50
	d.Lng = 9000
	if err := repo.Update(ctx, d); err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	got, err := repo.GetByID(ctx, "d1")
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.Name != "Core Router" || got.Status != StatusMaintenance {
		t.Errorf("updated device = %+v", got)
	}
	// Positions are stored verbatim, even outside any floor plan.
	if got.Lat != -50 || got.Lng != 9000 {
		t.Errorf("position = (%v, %v), want (-50, 9000)", got.Lat, got.Lng)
	}
}

func TestUpdateMissingDevice(t *testing.T) {
	repo := setupTestRepo(t)

	err := repo.Update(context.Background(), testDevice("dev-ghost"))
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("Update() error = %v, want ErrDeviceNotFound", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, testDevice("d1")); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if err := repo.Delete(ctx, "d1"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if err := repo.Delete(ctx, "d1"); err != nil {
		t.Errorf("repeat Delete() error = %v, want nil", err)
	}
	if err := repo.Delete(ctx, "dev-never-existed"); err != nil {
		t.Errorf("Delete(unknown) error = %v, want nil", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	d := testDevice("d1")
	if err := repo.Create(ctx, d); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if err := repo.UpdateStatus(ctx, "d1", StatusOffline); err != nil {
		t.Fatalf("UpdateStatus() error: %v", err)
	}

	got, err := repo.GetByID(ctx, "d1")
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.Status != StatusOffline {
		t.Errorf("status = %q, want offline", got.Status)
	}
	if got.Name != "Edge Router" {
		t.Errorf("name = %q, want untouched", got.Name)
	}

	if err := repo.UpdateStatus(ctx, "dev-ghost", StatusOffline); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("UpdateStatus(unknown) error = %v, want ErrDeviceNotFound", err)
	}
}

func TestStatsGroupsByTypeAndStatus(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	seed := []struct {
		id     string
		typ    DeviceType
		status DeviceStatus
	}{
		{"d1", TypeRouter, StatusOnline},
		{"d2", TypeRouter, StatusOffline},
		{"d3", TypeCamera, StatusOnline},
	}
	for _, s := range seed {
		d := testDevice(s.id)
		d.Type = s.typ
		d.Status = s.status
		if err := repo.Create(ctx, d); err != nil {
			t.Fatalf("Create(%s) error: %v", s.id, err)
		}
	}

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error: %v", err)
	}
	if stats.Total != 3 {
		t.Errorf("total = %d, want 3", stats.Total)
	}
	if stats.ByType[TypeRouter] != 2 || stats.ByType[TypeCamera] != 1 {
		t.Errorf("by_type = %v", stats.ByType)
	}
	if stats.ByStatus[StatusOnline] != 2 || stats.ByStatus[StatusOffline] != 1 {
		t.Errorf("by_status = %v", stats.ByStatus)
	}
}
