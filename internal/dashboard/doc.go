// Package dashboard coordinates location selection, device loading and
// the asset form.
//
// The Controller is the single authoritative view of "what the
// dashboard shows right now": the selected location, its device list,
// the current analysis result and any open form. It is a small state
// machine (Idle, Loading, Ready) whose one hard ordering guarantee is
// that a device fetch superseded by a newer selection never overwrites
// newer state. Every selection change bumps an internal epoch and
// results carrying a stale epoch are dropped on arrival.
//
// Mutations reconcile the in-memory device list by ID rather than
// re-fetching: create appends, update replaces, delete removes. The
// mutation result already carries the canonical record, so a round
// trip would only add latency.
package dashboard
