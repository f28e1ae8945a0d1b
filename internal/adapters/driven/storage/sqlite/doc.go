// Package sqlite provides a SQLite-backed implementation of driven.ScanCache.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Scan records live in the processed_sites table keyed by url_hash.
//
// # Data Location
//
// The database file is scans.db inside the directory passed to NewStore.
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
