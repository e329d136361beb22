// Package config loads and validates the assetmapd configuration.
//
// Configuration comes from a YAML file with hardcoded defaults
// underneath and environment variable overrides (ASSETMAP_SECTION_KEY)
// on top. Seed data for locations and demo devices lives in the same
// file so a deployment is a single document.
package config
