// Package statusfeed applies externally reported device status
// transitions to the store.
//
// Field agents (monitoring probes, SNMP pollers) publish transitions
// to <prefix>/status/<device-id> as small JSON payloads. The feed
// subscribes with a wildcard, validates each payload against the
// closed status enumeration, updates the device record and mirrors
// the transition into the optional history sink. Reports for unknown
// device IDs are dropped with a log line; an agent may know about
// hardware that was never mapped.
package statusfeed
