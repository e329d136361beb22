package location

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines the interface for location persistence operations.
type Repository interface {
	// List returns all locations in their configured order.
	// The order is stable and caller-independent.
	List(ctx context.Context) ([]Location, error)

	// GetByID returns a single location.
	// Returns ErrLocationNotFound if the ID does not exist.
	GetByID(ctx context.Context, id string) (*Location, error)

	// Create inserts a new location. Only used during seeding; the
	// location set is fixed once the application is serving.
	Create(ctx context.Context, loc *Location) error

	// Count returns the number of known locations.
	Count(ctx context.Context) (int, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed location repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// List returns all locations ordered by sort_order then name.
func (r *SQLiteRepository) List(ctx context.Context) ([]Location, error) {
	const query = `SELECT id, name, map_image_url, width, height, sort_order, created_at, updated_at
		FROM locations ORDER BY sort_order, name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying locations: %w", err)
	}
	defer rows.Close()

	var locations []Location
	for rows.Next() {
		var loc Location
		var createdAt, updatedAt string
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.MapImageURL,
			&loc.Width, &loc.Height, &loc.SortOrder, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning location row: %w", err)
		}
		loc.CreatedAt = parseTime(createdAt)
		loc.UpdatedAt = parseTime(updatedAt)
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating location rows: %w", err)
	}
	return locations, nil
}

// GetByID returns a single location by ID.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Location, error) {
	const query = `SELECT id, name, map_image_url, width, height, sort_order, created_at, updated_at
		FROM locations WHERE id = ?`

	var loc Location
	var createdAt, updatedAt string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&loc.ID, &loc.Name,
		&loc.MapImageURL, &loc.Width, &loc.Height, &loc.SortOrder, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("scanning location: %w", err)
	}
	loc.CreatedAt = parseTime(createdAt)
	loc.UpdatedAt = parseTime(updatedAt)
	return &loc, nil
}

// Create inserts a new location.
func (r *SQLiteRepository) Create(ctx context.Context, loc *Location) error {
	now := time.Now().UTC()
	if loc.CreatedAt.IsZero() {
		loc.CreatedAt = now
	}
	loc.UpdatedAt = now

	const query = `INSERT INTO locations (id, name, map_image_url, width, height, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		loc.ID, loc.Name, loc.MapImageURL, loc.Width, loc.Height, loc.SortOrder,
		formatTime(loc.CreatedAt), formatTime(loc.UpdatedAt))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: %s", ErrLocationExists, loc.ID)
		}
		return fmt.Errorf("inserting location %s: %w", loc.ID, err)
	}
	return nil
}

// Count returns the number of locations.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM locations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting locations: %w", err)
	}
	return n, nil
}

// parseTime parses an RFC3339-ish SQLite timestamp, tolerating the
// space-separated form SQLite defaults produce.
func parseTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05Z"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// formatTime renders a timestamp in the canonical stored form.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
