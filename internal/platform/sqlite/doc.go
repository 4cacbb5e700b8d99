// Package sqlite provides an embedded SQLite implementation of the
// store.ProgressStore interface, built on sqlx and the pure-Go modernc
// driver. It backs single-user installs and the test suites; the schema
// mirrors the PostgreSQL one with times stored as Unix nanoseconds and
// documents as JSON text.
package sqlite
