package engine

import (
	"slices"

	"github.com/kofadam/asahi-x-family/internal/domain"
	"github.com/kofadam/asahi-x-family/internal/domain/achievement"
	"github.com/kofadam/asahi-x-family/internal/domain/streak"
)

// EventType identifies a presentable event.
type EventType string

// Event types, from highest to lowest presentation priority.
const (
	EventLevelUp             EventType = "level_up"
	EventAchievementUnlocked EventType = "achievement_unlocked"
	EventStreakMilestone     EventType = "streak_milestone"
	EventProtectionUsed      EventType = "protection_used"
	EventStreakBroken        EventType = "streak_broken"
)

var eventPriority = []EventType{
	EventLevelUp,
	EventAchievementUnlocked,
	EventStreakMilestone,
	EventProtectionUsed,
	EventStreakBroken,
}

// Priority returns the rank of t; lower is more important.
func (t EventType) Priority() int {
	if i := slices.Index(eventPriority, t); i >= 0 {
		return i
	}
	return len(eventPriority)
}

// Event is one thing the presentation layer may show. Exactly one of the
// pointer fields is set, matching Type.
type Event struct {
	Type           EventType             `json:"type"`
	LevelUp        *achievement.LevelUp  `json:"level_up,omitempty"`
	Achievement    *achievement.Unlocked `json:"achievement,omitempty"`
	Milestone      *streak.Milestone     `json:"milestone,omitempty"`
	Protection     *domain.ProtectionUse `json:"protection,omitempty"`
	PreviousStreak int                   `json:"previous_streak,omitempty"`
}

// collectEvents builds the priority-ordered event list of one update. A
// level-up suppresses achievement events from the same update; the
// achievements themselves are still recorded in Result.Earned.
func collectEvents(levelUp *achievement.LevelUp, earned []achievement.Unlocked, outcome streak.Outcome) []Event {
	var events []Event

	if levelUp != nil {
		events = append(events, Event{Type: EventLevelUp, LevelUp: levelUp})
	} else {
		for i := range earned {
			events = append(events, Event{Type: EventAchievementUnlocked, Achievement: &earned[i]})
		}
	}
	if outcome.Milestone != nil {
		events = append(events, Event{Type: EventStreakMilestone, Milestone: outcome.Milestone})
	}
	if outcome.Protection != nil {
		events = append(events, Event{Type: EventProtectionUsed, Protection: outcome.Protection})
	}
	if outcome.StreakBroken {
		events = append(events, Event{Type: EventStreakBroken, PreviousStreak: outcome.PreviousStreak})
	}

	slices.SortStableFunc(events, func(a, b Event) int {
		return a.Type.Priority() - b.Type.Priority()
	})
	return events
}
