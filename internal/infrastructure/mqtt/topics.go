package mqtt

import (
	"fmt"
	"strings"
)

// Topics builds the topic tree rooted at the configured prefix.
//
// Layout:
//
//	<prefix>/system/status           retained liveness announcement
//	<prefix>/status/<device-id>      per-device status transitions
//	<prefix>/status/+                subscription pattern for the feed
type Topics struct {
	// Prefix is the tree root, e.g. "assetmap". Empty falls back to
	// the default prefix.
	Prefix string
}

const defaultTopicPrefix = "assetmap"

func (t Topics) prefix() string {
	if t.Prefix == "" {
		return defaultTopicPrefix
	}
	return t.Prefix
}

// SystemStatus returns the retained liveness topic for the service.
func (t Topics) SystemStatus() string {
	return t.prefix() + "/system/status"
}

// DeviceStatus returns the status topic for a single device.
func (t Topics) DeviceStatus(deviceID string) string {
	return fmt.Sprintf("%s/status/%s", t.prefix(), deviceID)
}

// AllDeviceStatuses returns the wildcard pattern covering every
// device status topic.
func (t Topics) AllDeviceStatuses() string {
	return t.prefix() + "/status/+"
}

// DeviceIDFromStatusTopic extracts the device ID from a status topic.
// Returns an empty string when the topic does not match the tree.
func (t Topics) DeviceIDFromStatusTopic(topic string) string {
	prefix := t.prefix() + "/status/"
	if !strings.HasPrefix(topic, prefix) {
		return ""
	}
	id := strings.TrimPrefix(topic, prefix)
	if id == "" || strings.Contains(id, "/") {
		return ""
	}
	return id
}
