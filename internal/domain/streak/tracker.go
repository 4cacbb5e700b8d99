package streak

import (
	"time"

	"github.com/kofadam/asahi-x-family/internal/domain"
)

const (
	// CulturalRestMinStreak is the streak length required before a rest
	// day can be taken.
	CulturalRestMinStreak = 7
	// CulturalRestCooldownDays is the rolling window in which cultural-rest
	// can be used at most once.
	CulturalRestCooldownDays = 7
)

// Outcome describes what a call to RecordActivity did.
type Outcome struct {
	// SameDay is set when the day was already counted; the state is unchanged.
	SameDay bool
	// FirstActivity is set for the learner's first-ever activity.
	FirstActivity bool
	// StreakBroken is set when a gap reset the streak to 1.
	StreakBroken bool
	// PreviousStreak is the streak length before this activity.
	PreviousStreak int
	// Protection is the protection that bridged a gap, if any.
	Protection *domain.ProtectionUse
	// Milestone is set when the new streak length is a milestone.
	Milestone *Milestone
}

// Counted reports whether the activity changed the streak.
func (o Outcome) Counted() bool {
	return !o.SameDay
}

// RecordActivity registers learning activity at now.
func RecordActivity(state domain.StreakState, now time.Time) (domain.StreakState, Outcome) {
	today := domain.DateOf(now)
	outcome := Outcome{PreviousStreak: state.Current}

	if state.LastStudyDate.IsZero() {
		next := state.Clone()
		next.Current = 1
		outcome.FirstActivity = true
		return finish(next, today), withMilestone(outcome, next.Current)
	}

	gap := state.LastStudyDate.DaysUntil(today)
	if gap <= 0 {
		// Same day, or a clock that moved backwards.
		outcome.SameDay = true
		return state, outcome
	}

	next := state.Clone()
	switch {
	case gap == 1:
		next.Current++
	default:
		if use, ok := findProtection(state, today, gap); ok {
			next.Current++
			next.ProtectionsUsed = append(next.ProtectionsUsed, use)
			for d := 1; d <= use.BridgedDays; d++ {
				next.History = append(next.History, domain.StreakHistoryEntry{
					Date:      state.LastStudyDate.AddDays(d),
					Protected: true,
					Reason:    domain.HistoryReason(use.Kind),
				})
			}
			outcome.Protection = &use
		} else {
			next.Current = 1
			outcome.StreakBroken = true
		}
	}

	next = finish(next, today)
	return next, withMilestone(outcome, next.Current)
}

func finish(next domain.StreakState, today domain.Date) domain.StreakState {
	next.LastStudyDate = today
	next.History = append(next.History, domain.StreakHistoryEntry{
		Date:      today,
		Completed: true,
		Reason:    domain.ReasonStudy,
	})
	if next.Current > next.Longest {
		next.Longest = next.Current
	}
	next.Availability = availability(next, today)
	return next
}

func withMilestone(outcome Outcome, current int) Outcome {
	if m, ok := MilestoneFor(current); ok {
		outcome.Milestone = &m
	}
	return outcome
}

// findProtection returns the first protection, in declared order, that can
// bridge a gap of the given number of days ending today.
func findProtection(state domain.StreakState, today domain.Date, gap int) (domain.ProtectionUse, bool) {
	missed := gap - 1

	if missed == 1 && culturalRestAvailable(state, today) {
		return domain.ProtectionUse{
			Kind:        domain.ProtectionCulturalRest,
			UsedOn:      today,
			BridgedDays: 1,
		}, true
	}

	firstMissed := state.LastStudyDate.AddDays(1)
	if travelModeCovers(state, firstMissed) {
		return domain.ProtectionUse{
			Kind:        domain.ProtectionTravelMode,
			UsedOn:      today,
			BridgedDays: missed,
		}, true
	}

	return domain.ProtectionUse{}, false
}

func culturalRestAvailable(state domain.StreakState, today domain.Date) bool {
	if state.Current < CulturalRestMinStreak {
		return false
	}
	last, ok := state.LastProtectionUse(domain.ProtectionCulturalRest)
	return !ok || last.UsedOn.DaysUntil(today) >= CulturalRestCooldownDays
}

// travelModeCovers reports whether travel mode was already on when the gap
// began.
func travelModeCovers(state domain.StreakState, firstMissed domain.Date) bool {
	if !state.TravelMode.Active {
		return false
	}
	return state.TravelMode.ActivatedOn.IsZero() || !firstMissed.Before(state.TravelMode.ActivatedOn)
}

func availability(state domain.StreakState, today domain.Date) domain.ProtectionAvailability {
	return domain.ProtectionAvailability{
		CulturalRestAvailable: culturalRestAvailable(state, today),
		TravelModeActive:      state.TravelMode.Active,
	}
}

// Availability reports which protections could apply at now.
func Availability(state domain.StreakState, now time.Time) domain.ProtectionAvailability {
	return availability(state, domain.DateOf(now))
}

// ActivateTravelMode switches travel mode on from the calendar day of now.
// The boolean is false when it was already active.
func ActivateTravelMode(state domain.StreakState, now time.Time) (domain.StreakState, bool) {
	if state.TravelMode.Active {
		return state, false
	}
	next := state.Clone()
	next.TravelMode = domain.TravelMode{Active: true, ActivatedOn: domain.DateOf(now)}
	next.Availability = Availability(next, now)
	return next, true
}

// DeactivateTravelMode switches travel mode off. The boolean is false when it
// was not active.
func DeactivateTravelMode(state domain.StreakState, now time.Time) (domain.StreakState, bool) {
	if !state.TravelMode.Active {
		return state, false
	}
	next := state.Clone()
	next.TravelMode = domain.TravelMode{}
	next.Availability = Availability(next, now)
	return next, true
}

// IsActive reports whether the streak would survive activity at now. It is
// meant for display; the stored streak only changes through RecordActivity.
func IsActive(state domain.StreakState, now time.Time) bool {
	if state.LastStudyDate.IsZero() || state.Current == 0 {
		return false
	}
	today := domain.DateOf(now)
	gap := state.LastStudyDate.DaysUntil(today)
	if gap <= 1 {
		return true
	}
	_, ok := findProtection(state, today, gap)
	return ok
}

// DisplayCount is the streak to show at now: the stored count while the
// streak is alive, zero once it has lapsed.
func DisplayCount(state domain.StreakState, now time.Time) int {
	if !IsActive(state, now) {
		return 0
	}
	return state.Current
}
