// Package logging provides structured logging for assetmapd.
//
// It wraps log/slog with config-driven level, format, and output
// selection, and stamps every record with the service name and version.
package logging
