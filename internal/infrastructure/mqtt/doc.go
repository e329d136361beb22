// Package mqtt wraps paho.mqtt.golang for the optional device status
// feed.
//
// Field agents publish status transitions to
// <prefix>/status/<device-id>; the status feed subscribes and applies
// them to the store. The client handles connection management,
// automatic reconnection with subscription restoration, a Last Will
// announcement on the system status topic and panic-safe handler
// dispatch.
//
// The feed is entirely optional: when mqtt.enabled is false in the
// configuration nothing in this package runs and the dashboard works
// from manually entered statuses alone.
package mqtt
