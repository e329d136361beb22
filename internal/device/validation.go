package device

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// maxNameLength bounds device names to keep list views and broker
// payloads sane.
const maxNameLength = 100

// Pre-computed validation sets for O(1) lookups.
var (
	validDeviceTypes    map[DeviceType]struct{}
	validDeviceStatuses map[DeviceStatus]struct{}
)

func init() {
	validDeviceTypes = make(map[DeviceType]struct{}, len(AllDeviceTypes()))
	for _, t := range AllDeviceTypes() {
		validDeviceTypes[t] = struct{}{}
	}

	validDeviceStatuses = make(map[DeviceStatus]struct{}, len(AllDeviceStatuses()))
	for _, s := range AllDeviceStatuses() {
		validDeviceStatuses[s] = struct{}{}
	}
}

// ValidateDevice checks a device before it reaches the store.
// Returns an error describing the first validation failure found.
//
// Positions are intentionally not range-checked: placement outside the
// location extent is permitted.
func ValidateDevice(d *Device) error {
	if d == nil {
		return ErrInvalidDevice
	}
	if err := ValidateName(d.Name); err != nil {
		return err
	}
	if strings.TrimSpace(d.IPAddress) == "" {
		return fmt.Errorf("%w: must not be empty", ErrInvalidIPAddress)
	}
	if err := ValidateDeviceType(d.Type); err != nil {
		return err
	}
	if err := ValidateDeviceStatus(d.Status); err != nil {
		return err
	}
	if d.LocationID == "" {
		return ErrMissingLocation
	}
	return nil
}

// ValidateName checks that a device name is non-empty and within limits.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("%w: must not be empty", ErrInvalidName)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: exceeds %d characters", ErrInvalidName, maxNameLength)
	}
	return nil
}

// ValidateDeviceType checks that a type is one of the closed enumeration.
func ValidateDeviceType(t DeviceType) error {
	if _, ok := validDeviceTypes[t]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidDeviceType, t)
	}
	return nil
}

// ValidateDeviceStatus checks that a status is one of the closed enumeration.
func ValidateDeviceStatus(s DeviceStatus) error {
	if _, ok := validDeviceStatuses[s]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidDeviceStatus, s)
	}
	return nil
}

// GenerateID returns a fresh unique device identifier.
// UUIDs guarantee uniqueness across the process lifetime; IDs are never
// reused.
func GenerateID() string {
	return uuid.New().String()
}
