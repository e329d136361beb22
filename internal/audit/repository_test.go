package audit

import (
	"context"
	"database/sql"
	"testing"
	"time"

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

	return NewSQLiteRepository(db)
}

func TestRecordGeneratesIDAndTimestamp(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	event := &Event{
		Action:   ActionCreate,
		DeviceID: "dev-1",
		Source:   SourceAPI,
	}
	if err := repo.Record(ctx, event); err != nil {
		t.Fatalf("Record() error: %v", err)
	}

	if event.ID == "" {
		t.Error("Record() did not assign an ID")
	}
	if event.CreatedAt.IsZero() {
		t.Error("Record() did not assign CreatedAt")
	}
}

func TestRecordPreservesDetails(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	event := &Event{
		Action:     ActionStatus,
		DeviceID:   "dev-1",
		LocationID: "loc-a",
		Source:     SourceMQTT,
		Details:    map[string]any{"from": "online", "to": "offline"},
	}
	if err := repo.Record(ctx, event); err != nil {
		t.Fatalf("Record() error: %v", err)
	}

	result, err := repo.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(result.Events) != 1 {
		t.Fatalf("got %d events, want 1", len(result.Events))
	}

	got := result.Events[0]
	if got.Details["from"] != "online" || got.Details["to"] != "offline" {
		t.Errorf("details = %v", got.Details)
	}
	if got.Source != SourceMQTT {
		t.Errorf("source = %q, want mqtt", got.Source)
	}
}

func TestListFilters(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	seed := []Event{
		{Action: ActionCreate, DeviceID: "dev-1", LocationID: "loc-a", Source: SourceAPI},
		{Action: ActionUpdate, DeviceID: "dev-1", LocationID: "loc-a", Source: SourceAPI},
		{Action: ActionStatus, DeviceID: "dev-2", LocationID: "loc-b", Source: SourceMQTT},
		{Action: ActionDelete, DeviceID: "dev-3", LocationID: "loc-b", Source: SourceAPI},
	}
	for i := range seed {
		if err := repo.Record(ctx, &seed[i]); err != nil {
			t.Fatalf("seed event %d: %v", i, err)
		}
	}

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"no filter", Filter{}, 4},
		{"by action", Filter{Action: ActionStatus}, 1},
		{"by device", Filter{DeviceID: "dev-1"}, 2},
		{"by location", Filter{LocationID: "loc-b"}, 2},
		{"combined", Filter{DeviceID: "dev-1", Action: ActionUpdate}, 1},
		{"no match", Filter{DeviceID: "dev-9"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := repo.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List() error: %v", err)
			}
			if result.Total != tt.want {
				t.Errorf("total = %d, want %d", result.Total, tt.want)
			}
			if len(result.Events) != tt.want {
				t.Errorf("got %d events, want %d", len(result.Events), tt.want)
			}
		})
	}
}

func TestListOrdersMostRecentFirst(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, action := range []string{ActionCreate, ActionUpdate, ActionDelete} {
		event := &Event{
			Action:    action,
			DeviceID:  "dev-1",
			Source:    SourceAPI,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Record(ctx, event); err != nil {
			t.Fatalf("seed %s: %v", action, err)
		}
	}

	result, err := repo.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}

	want := []string{ActionDelete, ActionUpdate, ActionCreate}
	for i, action := range want {
		if result.Events[i].Action != action {
			t.Errorf("events[%d].Action = %q, want %q", i, result.Events[i].Action, action)
		}
	}
}

func TestListPagination(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		event := &Event{
			Action:    ActionUpdate,
			DeviceID:  "dev-1",
			Source:    SourceAPI,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := repo.Record(ctx, event); err != nil {
			t.Fatalf("seed event %d: %v", i, err)
		}
	}

	result, err := repo.List(ctx, Filter{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if result.Total != 5 {
		t.Errorf("total = %d, want 5", result.Total)
	}
	if len(result.Events) != 2 {
		t.Errorf("page size = %d, want 2", len(result.Events))
	}
	if result.Limit != 2 || result.Offset != 2 {
		t.Errorf("echo limit/offset = %d/%d, want 2/2", result.Limit, result.Offset)
	}
}

func TestListClampsLimit(t *testing.T) {
	repo := setupTestRepo(t)

	result, err := repo.List(context.Background(), Filter{Limit: 1000, Offset: -5})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if result.Limit != 200 {
		t.Errorf("limit = %d, want clamped to 200", result.Limit)
	}
	if result.Offset != 0 {
		t.Errorf("offset = %d, want clamped to 0", result.Offset)
	}
	if result.Events == nil {
		t.Error("events is nil, want empty slice")
	}
}
