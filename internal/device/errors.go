package device

import "errors"

// Domain errors for the device package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, device.ErrDeviceNotFound) {
//	    // handle not found case
//	}
var (
	// ErrDeviceNotFound is returned when a device ID does not exist.
	ErrDeviceNotFound = errors.New("device: not found")

	// ErrDeviceExists is returned when creating a device with an ID that already exists.
	ErrDeviceExists = errors.New("device: already exists")

	// ErrInvalidDevice is returned when device validation fails.
	ErrInvalidDevice = errors.New("device: invalid")

	// ErrInvalidName is returned when a device name is empty or too long.
	ErrInvalidName = errors.New("device: invalid name")

	// ErrInvalidIPAddress is returned when the IP address field is empty.
	// The value itself is free-form and not validated as a real IP.
	ErrInvalidIPAddress = errors.New("device: invalid ip address")

	// ErrInvalidDeviceType is returned when a device type is not recognised.
	ErrInvalidDeviceType = errors.New("device: invalid type")

	// ErrInvalidDeviceStatus is returned when a status value is not recognised.
	ErrInvalidDeviceStatus = errors.New("device: invalid status")

	// ErrMissingLocation is returned when a device has no location reference.
	ErrMissingLocation = errors.New("device: location id required")
)
