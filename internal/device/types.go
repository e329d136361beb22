package device

import "time"

// Device represents a trackable IT asset placed on a location's floor
// plan. Lat and Lng are planar, image-relative coordinates (Lat is the
// vertical axis, Lng the horizontal one); they carry no geographic
// meaning and are never validated against the location's extent.
type Device struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Type       DeviceType   `json:"type"`
	IPAddress  string       `json:"ip_address"`
	LocationID string       `json:"location_id"`
	Lat        float64      `json:"lat"`
	Lng        float64      `json:"lng"`
	Status     DeviceStatus `json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// DeviceType classifies the kind of asset.
type DeviceType string //nolint:revive // device.DeviceType is clearer than device.Type in calling code

// DeviceType constants.
const (
	TypeWorkstation DeviceType = "workstation"
	TypeCamera      DeviceType = "camera"
	TypePrinter     DeviceType = "printer"
	TypeRouter      DeviceType = "router"
	TypeServer      DeviceType = "server"
)

// AllDeviceTypes returns all valid device type values.
func AllDeviceTypes() []DeviceType {
	return []DeviceType{TypeWorkstation, TypeCamera, TypePrinter, TypeRouter, TypeServer}
}

// DeviceStatus represents the operational state of an asset.
type DeviceStatus string //nolint:revive // mirrors DeviceType naming

// DeviceStatus constants.
const (
	StatusOnline      DeviceStatus = "online"
	StatusOffline     DeviceStatus = "offline"
	StatusMaintenance DeviceStatus = "maintenance"
)

// AllDeviceStatuses returns all valid device status values.
func AllDeviceStatuses() []DeviceStatus {
	return []DeviceStatus{StatusOnline, StatusOffline, StatusMaintenance}
}
