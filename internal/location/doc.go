// Package location provides the catalogue of physical sites shown on
// the asset map.
//
// A Location is a floor or site with a background floor-plan image and a
// planar extent (width x height) that bounds the coordinate space devices
// are placed in. The set of locations is fixed at startup: it is seeded
// from configuration and read-only afterwards.
//
// The package provides a Repository interface with a SQLite
// implementation. Listing order is stable and caller-independent
// (sort_order, then name).
package location
