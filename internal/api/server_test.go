package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/assetplan/assetmap-core/internal/analysis"
	"github.com/assetplan/assetmap-core/internal/audit"
	"github.com/assetplan/assetmap-core/internal/device"
	"github.com/assetplan/assetmap-core/internal/infrastructure/config"
	"github.com/assetplan/assetmap-core/internal/infrastructure/logging"
	"github.com/assetplan/assetmap-core/internal/location"
)

// testAnalyzer returns a fixed result, or the fallback when result is nil.
type testAnalyzer struct {
	result       *analysis.Result
	lastLocation string
	lastDevices  int
}

func (a *testAnalyzer) Analyze(_ context.Context, locationName string, devices []device.Device) *analysis.Result {
	a.lastLocation = locationName
	a.lastDevices = len(devices)
	if a.result != nil {
		return a.result
	}
	return analysis.Fallback()
}

// setupTestDB creates an in-memory SQLite database with the full schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := `
	CREATE TABLE locations (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		map_image_url TEXT NOT NULL DEFAULT '',
		width         INTEGER NOT NULL,
		height        INTEGER NOT NULL,
		sort_order    INTEGER NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
		updated_at    TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
	);
	CREATE TABLE devices (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		type        TEXT NOT NULL,
		ip_address  TEXT NOT NULL,
		location_id TEXT NOT NULL REFERENCES locations(id),
		lat         REAL NOT NULL DEFAULT 0,
		lng         REAL NOT NULL DEFAULT 0,
		status      TEXT NOT NULL DEFAULT 'online',
		created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
		updated_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
	);
	CREATE TABLE device_events (
		id          TEXT PRIMARY KEY,
		action      TEXT NOT NULL,
		device_id   TEXT NOT NULL,
		location_id TEXT NOT NULL DEFAULT '',
		source      TEXT NOT NULL,
		details     TEXT,
		created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
	);`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	return db
}

// testServer creates a Server backed by in-memory SQLite and returns
// an httptest server wrapping its router.
func testServer(t *testing.T) (*httptest.Server, *Server, *testAnalyzer) {
	t.Helper()

	db := setupTestDB(t)
	devices := device.NewSQLiteRepository(db)
	locations := location.NewSQLiteRepository(db)
	events := audit.NewSQLiteRepository(db)
	analyzer := &testAnalyzer{}

	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")

	srv, err := New(Deps{
		Config: config.APIConfig{
			Host: "127.0.0.1",
			Port: 0,
			Timeouts: config.APITimeoutConfig{
				Read:  5,
				Write: 5,
				Idle:  5,
			},
		},
		WS: config.WebSocketConfig{
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Logger:    log,
		Devices:   devices,
		Locations: locations,
		Analyzer:  analyzer,
		Events:    events,
		Version:   "test",
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	srv.hub = NewHub(srv.wsCfg, log)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go srv.hub.Run(ctx)

	ts := httptest.NewServer(srv.buildRouter())
	t.Cleanup(ts.Close)

	seedLocations(t, locations)
	return ts, srv, analyzer
}

func seedLocations(t *testing.T, repo location.Repository) {
	t.Helper()
	for i, loc := range []location.Location{
		{ID: "loc-hq", Name: "HQ Floor 1", MapImageURL: "https://maps.example.com/hq1.png", Width: 1000, Height: 800},
		{ID: "loc-wh", Name: "Warehouse", MapImageURL: "https://maps.example.com/wh.png", Width: 2000, Height: 1200},
	} {
		loc.SortOrder = i + 1
		if err := repo.Create(context.Background(), &loc); err != nil {
			t.Fatalf("seed location %s: %v", loc.ID, err)
		}
	}
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}

func TestNewRequiresDependencies(t *testing.T) {
	log := logging.Default()
	db := setupTestDB(t)
	devices := device.NewSQLiteRepository(db)
	locations := location.NewSQLiteRepository(db)
	analyzer := &testAnalyzer{}

	tests := []struct {
		name string
		deps Deps
	}{
		{"missing logger", Deps{Devices: devices, Locations: locations, Analyzer: analyzer}},
		{"missing devices", Deps{Logger: log, Locations: locations, Analyzer: analyzer}},
		{"missing locations", Deps{Logger: log, Devices: devices, Analyzer: analyzer}},
		{"missing analyzer", Deps{Logger: log, Devices: devices, Locations: locations}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.deps); err == nil {
				t.Error("New() accepted incomplete dependencies")
			}
		})
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts, _, _ := testServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]any
	decodeBody(t, resp, &body)
	if body["status"] != "ok" {
		t.Errorf("status field = %v", body["status"])
	}
	if body["mqtt"] != "disabled" {
		t.Errorf("mqtt field = %v, want disabled without a broker", body["mqtt"])
	}
}

func TestRequestIDHeader(t *testing.T) {
	ts, _, _ := testServer(t)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("X-Request-ID"); got != "req-123" {
		t.Errorf("X-Request-ID = %q, want echoed back", got)
	}
}
