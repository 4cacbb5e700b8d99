// Package streak tracks consecutive days of learning activity.
//
// Activity is deduplicated per calendar day in the location of the supplied
// time. A gap of more than one day breaks the streak unless a protection
// bridges it: cultural-rest forgives a single missed day once a week for
// streaks of at least a week, and travel-mode bridges any gap that started
// while it was switched on. Every function is pure and returns a new state.
package streak
