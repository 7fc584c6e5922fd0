// Package sqlite provides a SQLite-backed commit journal.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Every snapshot a mapping writes is appended to the
// commits table, so the history of a backing file can be listed after the
// process restarts.
//
// # Schema
//
// The schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files and records itself in schema_migrations.
//
// # Thread Safety
//
// All operations are safe for concurrent use. The database runs in WAL mode
// with a busy timeout.
package sqlite
