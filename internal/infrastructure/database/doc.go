// Package database manages the SQLite connection backing the asset
// store.
//
// It wraps database/sql with WAL-mode setup, connection pool tuning for
// SQLite's single-writer model, and a versioned migration runner fed
// from an embedded filesystem (see the migrations package at the
// repository root).
package database
