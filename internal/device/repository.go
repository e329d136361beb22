package device

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines the interface for device persistence operations.
// The abstraction allows different implementations (SQLite, fakes) and
// keeps the dashboard testable without a database.
type Repository interface {
	// GetByID retrieves a device by its unique identifier.
	// Returns ErrDeviceNotFound if the device does not exist.
	GetByID(ctx context.Context, id string) (*Device, error)

	// List retrieves all devices.
	List(ctx context.Context) ([]Device, error)

	// ListByLocation retrieves every device whose LocationID matches.
	// An empty result is valid for a location with no assets yet.
	ListByLocation(ctx context.Context, locationID string) ([]Device, error)

	// Create inserts a new device. The store assigns a fresh unique ID
	// when the device has none; the stored record (with ID) is what the
	// caller receives back through the same pointer.
	// Returns ErrDeviceExists if an explicit ID already exists.
	Create(ctx context.Context, device *Device) error

	// Update replaces the stored record with the matching ID wholesale.
	// Returns ErrDeviceNotFound if no record with that ID exists.
	Update(ctx context.Context, device *Device) error

	// Delete removes the record with the given ID.
	// Deleting a nonexistent ID is a no-op, not an error.
	Delete(ctx context.Context, id string) error

	// UpdateStatus changes only the status field of a device.
	// Used by the status feed for frequent health transitions.
	// Returns ErrDeviceNotFound if the device does not exist.
	UpdateStatus(ctx context.Context, id string, status DeviceStatus) error

	// Stats returns device counts grouped by type and status.
	Stats(ctx context.Context) (*Stats, error)
}

// Stats holds device counts for monitoring and the analysis panel.
type Stats struct {
	Total    int                  `json:"total"`
	ByType   map[DeviceType]int   `json:"by_type"`
	ByStatus map[DeviceStatus]int `json:"by_status"`
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed device repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const deviceColumns = `id, name, type, ip_address, location_id, lat, lng, status, created_at, updated_at`

// GetByID retrieves a device by its unique identifier.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE id = ?`

	d, err := scanDevice(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("querying device by id: %w", err)
	}
	return d, nil
}

// List retrieves all devices ordered by creation time.
func (r *SQLiteRepository) List(ctx context.Context) ([]Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices ORDER BY created_at, id`
	return r.queryDevices(ctx, query)
}

// ListByLocation retrieves every device placed at a location.
func (r *SQLiteRepository) ListByLocation(ctx context.Context, locationID string) ([]Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE location_id = ? ORDER BY created_at, id`
	return r.queryDevices(ctx, query, locationID)
}

// Create inserts a new device, assigning an ID when none is set.
func (r *SQLiteRepository) Create(ctx context.Context, device *Device) error {
	if device.ID == "" {
		device.ID = GenerateID()
	}

	now := time.Now().UTC()
	if device.CreatedAt.IsZero() {
		device.CreatedAt = now
	}
	device.UpdatedAt = now

	query := `INSERT INTO devices (` + deviceColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		device.ID, device.Name, string(device.Type), device.IPAddress,
		device.LocationID, device.Lat, device.Lng, string(device.Status),
		formatTime(device.CreatedAt), formatTime(device.UpdatedAt))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: %s", ErrDeviceExists, device.ID)
		}
		return fmt.Errorf("inserting device: %w", err)
	}
	return nil
}

// Update replaces the stored record wholesale.
func (r *SQLiteRepository) Update(ctx context.Context, device *Device) error {
	device.UpdatedAt = time.Now().UTC()

	query := `UPDATE devices
		SET name = ?, type = ?, ip_address = ?, location_id = ?, lat = ?, lng = ?, status = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		device.Name, string(device.Type), device.IPAddress, device.LocationID,
		device.Lat, device.Lng, string(device.Status),
		formatTime(device.UpdatedAt), device.ID)
	if err != nil {
		return fmt.Errorf("updating device %s: %w", device.ID, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if rows == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

// Delete removes a device. A missing ID is a no-op.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM devices WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting device %s: %w", id, err)
	}
	return nil
}

// UpdateStatus changes only the status field.
func (r *SQLiteRepository) UpdateStatus(ctx context.Context, id string, status DeviceStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE devices SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), formatTime(time.Now().UTC()), id)
	if err != nil {
		return fmt.Errorf("updating device status %s: %w", id, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking status update result: %w", err)
	}
	if rows == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

// Stats returns device counts grouped by type and status.
func (r *SQLiteRepository) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		ByType:   make(map[DeviceType]int),
		ByStatus: make(map[DeviceStatus]int),
	}

	rows, err := r.db.QueryContext(ctx, `SELECT type, status, COUNT(*) FROM devices GROUP BY type, status`)
	if err != nil {
		return nil, fmt.Errorf("querying device stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var typ, status string
		var count int
		if err := rows.Scan(&typ, &status, &count); err != nil {
			return nil, fmt.Errorf("scanning stats row: %w", err)
		}
		stats.ByType[DeviceType(typ)] += count
		stats.ByStatus[DeviceStatus(status)] += count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stats rows: %w", err)
	}
	return stats, nil
}

// queryDevices executes a query and scans the result set.
func (r *SQLiteRepository) queryDevices(ctx context.Context, query string, args ...any) ([]Device, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying devices: %w", err)
	}
	defer rows.Close()

	var devices []Device
	for rows.Next() {
		d, err := scanDeviceRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning device row: %w", err)
		}
		devices = append(devices, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating device rows: %w", err)
	}
	return devices, nil
}

// scanDevice scans a single row (for QueryRow).
func scanDevice(row *sql.Row) (*Device, error) {
	var d Device
	var typ, status, createdAt, updatedAt string
	err := row.Scan(&d.ID, &d.Name, &typ, &d.IPAddress, &d.LocationID,
		&d.Lat, &d.Lng, &status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	d.Type = DeviceType(typ)
	d.Status = DeviceStatus(status)
	d.CreatedAt = parseTime(createdAt)
	d.UpdatedAt = parseTime(updatedAt)
	return &d, nil
}

// scanDeviceRow scans a device from a Rows cursor.
func scanDeviceRow(rows *sql.Rows) (*Device, error) {
	var d Device
	var typ, status, createdAt, updatedAt string
	err := rows.Scan(&d.ID, &d.Name, &typ, &d.IPAddress, &d.LocationID,
		&d.Lat, &d.Lng, &status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	d.Type = DeviceType(typ)
	d.Status = DeviceStatus(status)
	d.CreatedAt = parseTime(createdAt)
	d.UpdatedAt = parseTime(updatedAt)
	return &d, nil
}

func parseTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05Z"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
