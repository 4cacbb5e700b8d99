package engine

import (
	"fmt"
	"math"
)

// PracticeKind identifies a practice activity outside the lesson chain.
type PracticeKind string

// Practice kinds
const (
	PracticeScenario     PracticeKind = "scenario"
	PracticeModule       PracticeKind = "module"
	PracticeSpeedDrill   PracticeKind = "speed_drill"
	PracticeAnimeReading PracticeKind = "anime_reading"
)

// MaxAnimeWords caps the words credited by a single anime reading session.
const MaxAnimeWords = 10000

// Practice is one completed practice session.
type Practice struct {
	Kind PracticeKind
	// Count is the number of words read; only used by anime reading.
	Count int
	// Seconds is the drill time; only used by speed drills.
	Seconds float64
}

// Validate checks the session carries what its kind needs.
func (p Practice) Validate() error {
	switch p.Kind {
	case PracticeScenario, PracticeModule:
		return nil
	case PracticeSpeedDrill:
		if p.Seconds <= 0 || math.IsNaN(p.Seconds) || math.IsInf(p.Seconds, 0) {
			return fmt.Errorf("%w: speed drill needs a positive time", ErrInvalidPractice)
		}
		return nil
	case PracticeAnimeReading:
		if p.Count < 1 {
			return fmt.Errorf("%w: anime reading needs at least one word", ErrInvalidPractice)
		}
		if p.Count > MaxAnimeWords {
			return fmt.Errorf("%w: anime reading is limited to %d words", ErrInvalidPractice, MaxAnimeWords)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidPractice, p.Kind)
	}
}
