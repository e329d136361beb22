package dashboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/assetplan/assetmap-core/internal/analysis"
	"github.com/assetplan/assetmap-core/internal/device"
	"github.com/assetplan/assetmap-core/internal/infrastructure/logging"
	"github.com/assetplan/assetmap-core/internal/location"
)

// State describes where the controller is in the selection lifecycle.
type State string

const (
	// StateIdle means no location is selected.
	StateIdle State = "idle"

	// StateLoading means a device fetch is in flight for the current
	// selection.
	StateLoading State = "loading"

	// StateReady means the device list for the current selection is
	// installed and authoritative.
	StateReady State = "ready"
)

// Notifier receives device change events for fan-out to live
// consumers. Implementations must not block; the websocket hub
// buffers internally.
type Notifier interface {
	DeviceCreated(d device.Device)
	DeviceUpdated(d device.Device)
	DeviceDeleted(id string)
}

// Controller ties location selection to device loading and keeps the
// in-memory device list consistent with applied mutations.
//
// Thread Safety:
//   - All methods are safe for concurrent use. Fetches run outside
//     the lock; their results are installed under it, guarded by the
//     epoch check.
type Controller struct {
	devices   device.Repository
	locations location.Repository
	analyzer  analysis.Analyzer
	notifier  Notifier
	logger    *logging.Logger

	mu       sync.Mutex
	state    State
	selected string
	epoch    uint64
	current  []device.Device
	result   *analysis.Result
	form     *Form
	pending  string // device id awaiting delete confirmation
}

// NewController creates a controller over the given collaborators.
// notifier may be nil when no live consumers exist (tests, CLI use).
func NewController(devices device.Repository, locations location.Repository, analyzer analysis.Analyzer, notifier Notifier, logger *logging.Logger) *Controller {
	return &Controller{
		devices:   devices,
		locations: locations,
		analyzer:  analyzer,
		notifier:  notifier,
		logger:    logger.With("component", "dashboard"),
		state:     StateIdle,
	}
}

// Snapshot is a point-in-time copy of the controller's visible state.
type Snapshot struct {
	State      State
	LocationID string
	Devices    []device.Device
	Analysis   *analysis.Result
	Form       *Form
	PendingID  string
}

// Snapshot returns a copy of the current state. The device slice is
// cloned so callers can hold it across later mutations.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	devices := make([]device.Device, len(c.current))
	copy(devices, c.current)

	var form *Form
	if c.form != nil {
		f := *c.form
		form = &f
	}

	return Snapshot{
		State:      c.state,
		LocationID: c.selected,
		Devices:    devices,
		Analysis:   c.result,
		Form:       form,
		PendingID:  c.pending,
	}
}

// Locations lists all known locations in their configured order.
func (c *Controller) Locations(ctx context.Context) ([]location.Location, error) {
	return c.locations.List(ctx)
}

// SelectLocation switches the dashboard to a new location and loads
// its devices. Selecting while a previous fetch is still in flight
// supersedes that fetch: its result is dropped on arrival. The
// location-scoped analysis result is discarded immediately, before
// the fetch begins.
func (c *Controller) SelectLocation(ctx context.Context, locationID string) error {
	c.mu.Lock()
	c.epoch++
	epoch := c.epoch
	c.selected = locationID
	c.state = StateLoading
	c.current = nil
	c.result = nil
	c.form = nil
	c.pending = ""
	c.mu.Unlock()

	devices, err := c.devices.ListByLocation(ctx, locationID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch {
		// A newer selection superseded this fetch. Its outcome,
		// success or failure, belongs to a location no longer shown.
		c.logger.Debug("discarding stale device fetch", "location_id", locationID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load devices for location %s: %w", locationID, err)
	}
	c.current = devices
	c.state = StateReady
	c.logger.Info("location selected", "location_id", locationID, "devices", len(devices))
	return nil
}

// ClearSelection returns the dashboard to the idle state. Any
// in-flight fetch is superseded.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.selected = ""
	c.state = StateIdle
	c.current = nil
	c.result = nil
	c.form = nil
	c.pending = ""
}

// Analyze requests a health assessment for the currently selected
// location. The result is installed only if the selection has not
// changed while the assessment was running. Returns the assessment;
// a failure inside the collaborator already degrades to the fallback,
// so the only errors here are "nothing selected" and lookup failures.
func (c *Controller) Analyze(ctx context.Context) (*analysis.Result, error) {
	c.mu.Lock()
	if c.selected == "" {
		c.mu.Unlock()
		return nil, fmt.Errorf("analyze: no location selected")
	}
	epoch := c.epoch
	locationID := c.selected
	devices := make([]device.Device, len(c.current))
	copy(devices, c.current)
	c.mu.Unlock()

	loc, err := c.locations.GetByID(ctx, locationID)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	result := c.analyzer.Analyze(ctx, loc.Name, devices)

	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch == c.epoch {
		c.result = result
	}
	return result, nil
}

// applyCreate appends the stored record to the current list when it
// belongs to the selected location.
func (c *Controller) applyCreate(d device.Device) {
	if d.LocationID == c.selected {
		c.current = append(c.current, d)
	}
	if c.notifier != nil {
		c.notifier.DeviceCreated(d)
	}
}

// applyUpdate replaces the record with a matching ID in place. A
// record not present in the current list is left alone; the update
// already succeeded in the store.
func (c *Controller) applyUpdate(d device.Device) {
	for i := range c.current {
		if c.current[i].ID == d.ID {
			c.current[i] = d
			break
		}
	}
	if c.notifier != nil {
		c.notifier.DeviceUpdated(d)
	}
}

// applyDelete removes the record with a matching ID.
func (c *Controller) applyDelete(id string) {
	for i := range c.current {
		if c.current[i].ID == id {
			c.current = append(c.current[:i], c.current[i+1:]...)
			break
		}
	}
	if c.notifier != nil {
		c.notifier.DeviceDeleted(id)
	}
}
