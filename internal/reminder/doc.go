// Package reminder runs the periodic job that tells learners their reviews
// are waiting. Reminders are published as events.TypeReviewsDue events and
// delivered by whatever handlers are registered on the emitter.
package reminder
