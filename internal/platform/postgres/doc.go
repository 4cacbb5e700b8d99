// Package postgres provides the PostgreSQL implementation of the
// store.ProgressStore interface. Profiles are stored as one row with JSONB
// documents for progress and streak state; review items live in their own
// table so due reviews can be indexed by time.
package postgres
