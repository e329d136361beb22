// Package device provides the device store for the asset map.
//
// A Device is a trackable IT asset (workstation, camera, printer,
// router, server) pinned at a planar position within a Location. The
// store is the single authoritative source of truth for devices: the
// dashboard, the REST API, and the status feed all mutate through it.
//
// # Architecture
//
//   - Repository (repository.go): SQLite persistence. Strict contract:
//     Update reports ErrDeviceNotFound, Delete of a missing ID is a
//     no-op by design.
//   - Validation (validation.go): closed-enum and required-field checks
//     applied before any write reaches the store.
//   - Types (types.go): Device plus the DeviceType and DeviceStatus
//     enumerations.
//
// All repository operations take a context.Context and may block or
// fail; callers must treat them as remote calls even when the backing
// store is a local file.
//
// # Thread Safety
//
// SQLiteRepository is safe for concurrent use from multiple goroutines.
package device
