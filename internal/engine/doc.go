// Package engine composes the scheduler, streak tracker, progression gate
// and achievement evaluator into one ordered update pipeline.
//
// Every operation takes a ProfileState and returns a new one together with
// a Result describing what happened; the input is never modified and no
// operation performs I/O. Stages always run in the same order: the activity
// itself, then the streak, then XP and level, then achievements. The final
// stage collects events in priority order for the caller to present.
package engine
