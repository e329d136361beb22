// Package influxdb records device status history in InfluxDB v2.
//
// Every status transition the status feed applies is mirrored here as
// a time-series point, giving operators an availability history per
// device without burdening the SQLite store with append-only rows.
// Writes are batched and non-blocking; the sink is optional and the
// dashboard is fully functional without it.
package influxdb
