// Package store defines the persistence boundary of the progression engine.
// The ProgressStore interface abstracts where learner state lives so the
// engine and services stay independent of any database technology.
package store
