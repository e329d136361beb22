package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteStatusTransition records a device status change.
//
// The write is non-blocking; data is batched and sent asynchronously.
// Tags carry the identifying dimensions, the field carries the new
// status so range queries can reconstruct per-device availability.
func (c *Client) WriteStatusTransition(deviceID, locationID, status string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"device_status",
		map[string]string{
			"device_id":   deviceID,
			"location_id": locationID,
		},
		map[string]interface{}{
			"status": status,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and
// fields. Use for measurements that do not fit the helpers.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}
