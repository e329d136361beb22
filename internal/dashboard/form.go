package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/assetplan/assetmap-core/internal/device"
	"github.com/assetplan/assetmap-core/internal/planar"
)

// FormMode distinguishes placing a new device from editing an
// existing one.
type FormMode string

const (
	// FormCreate is a new-device draft started from a map click or
	// the add action.
	FormCreate FormMode = "create"

	// FormEdit is a draft of an existing record started from a
	// marker click.
	FormEdit FormMode = "edit"
)

// Form is an open editing intent. The store is only touched on
// Submit; until then the draft lives entirely in the controller.
type Form struct {
	Mode    FormMode
	Draft   device.Device
	LastErr string
}

// ErrNoSelection is returned by form operations that require a
// selected location.
var ErrNoSelection = errors.New("dashboard: no location selected")

// ErrNoForm is returned by Submit when no form is open.
var ErrNoForm = errors.New("dashboard: no form open")

// ErrNoPendingDelete is returned by ConfirmDelete when no delete is
// awaiting confirmation.
var ErrNoPendingDelete = errors.New("dashboard: no pending delete")

// BeginPlacement opens a create form pre-filled with the clicked
// position and the current location. The position is taken as-is; it
// is never checked against the location extent.
func (c *Controller) BeginPlacement(pos planar.Position) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == "" {
		return ErrNoSelection
	}
	c.form = &Form{
		Mode: FormCreate,
		Draft: device.Device{
			Type:       device.TypeWorkstation,
			Status:     device.StatusOnline,
			LocationID: c.selected,
			Lat:        pos.Lat,
			Lng:        pos.Lng,
		},
	}
	return nil
}

// BeginEdit opens an edit form pre-filled with the full current
// record of the clicked device.
func (c *Controller) BeginEdit(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.current {
		if c.current[i].ID == id {
			c.form = &Form{Mode: FormEdit, Draft: c.current[i]}
			return nil
		}
	}
	return fmt.Errorf("begin edit %s: %w", id, device.ErrDeviceNotFound)
}

// UpdateDraft replaces the open form's draft with edited field
// values, keeping mode and identity.
func (c *Controller) UpdateDraft(draft device.Device) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.form == nil {
		return ErrNoForm
	}
	draft.ID = c.form.Draft.ID
	c.form.Draft = draft
	return nil
}

// CancelForm discards the open form without touching the store.
func (c *Controller) CancelForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = nil
}

// Submit validates the open draft and routes it to the store: a draft
// with an ID updates, one without creates. On success the form
// closes and the device list is reconciled in place. On failure the
// form stays open with the error recorded, awaiting an explicit
// retry.
//
// An update whose ID has vanished from the store is treated as a
// silent no-op: the form closes, the list is untouched and no error
// surfaces.
func (c *Controller) Submit(ctx context.Context) (*device.Device, error) {
	c.mu.Lock()
	if c.form == nil {
		c.mu.Unlock()
		return nil, ErrNoForm
	}
	draft := c.form.Draft
	c.mu.Unlock()

	if err := device.ValidateDevice(&draft); err != nil {
		c.recordFormError(err)
		return nil, err
	}

	if draft.ID == "" {
		if err := c.devices.Create(ctx, &draft); err != nil {
			c.recordFormError(err)
			return nil, fmt.Errorf("create device: %w", err)
		}
		c.mu.Lock()
		c.applyCreate(draft)
		c.form = nil
		c.mu.Unlock()
		c.logger.Info("device created", "device_id", draft.ID, "location_id", draft.LocationID)
		return &draft, nil
	}

	err := c.devices.Update(ctx, &draft)
	switch {
	case errors.Is(err, device.ErrDeviceNotFound):
		c.mu.Lock()
		c.form = nil
		c.mu.Unlock()
		c.logger.Warn("update targeted a missing device, ignoring", "device_id", draft.ID)
		return nil, nil
	case err != nil:
		c.recordFormError(err)
		return nil, fmt.Errorf("update device %s: %w", draft.ID, err)
	}

	c.mu.Lock()
	c.applyUpdate(draft)
	c.form = nil
	c.mu.Unlock()
	c.logger.Info("device updated", "device_id", draft.ID)
	return &draft, nil
}

// RequestDelete marks a device for deletion. Nothing is removed until
// ConfirmDelete.
func (c *Controller) RequestDelete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = id
}

// CancelDelete abandons a pending delete, leaving all state untouched.
func (c *Controller) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = ""
}

// ConfirmDelete removes the pending device from the store and the
// current list. Deleting an ID the store no longer has is a no-op in
// the store, so the pending ID is cleared either way.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	id := c.pending
	c.mu.Unlock()
	if id == "" {
		return ErrNoPendingDelete
	}

	if err := c.devices.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete device %s: %w", id, err)
	}

	c.mu.Lock()
	c.applyDelete(id)
	c.pending = ""
	c.mu.Unlock()
	c.logger.Info("device deleted", "device_id", id)
	return nil
}

func (c *Controller) recordFormError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.form != nil {
		c.form.LastErr = err.Error()
	}
}
