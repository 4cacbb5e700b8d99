package engine

import (
	"testing"

	"github.com/kofadam/asahi-x-family/internal/domain"
	"github.com/kofadam/asahi-x-family/internal/domain/achievement"
	"github.com/kofadam/asahi-x-family/internal/domain/streak"
	"github.com/stretchr/testify/assert"
)

func TestCollectEventsOrdering(t *testing.T) {
	milestone, _ := streak.MilestoneFor(7)
	protection := domain.ProtectionUse{Kind: domain.ProtectionCulturalRest, BridgedDays: 1}
	earned := []achievement.Unlocked{{ID: "a"}, {ID: "b"}}
	outcome := streak.Outcome{Milestone: &milestone, Protection: &protection}

	events := collectEvents(nil, earned, outcome)
	assert.Equal(t, []EventType{
		EventAchievementUnlocked,
		EventAchievementUnlocked,
		EventStreakMilestone,
		EventProtectionUsed,
	}, eventTypes(events))
	assert.Equal(t, "a", events[0].Achievement.ID)
	assert.Equal(t, "b", events[1].Achievement.ID)
}

func TestCollectEventsLevelUpSuppressesAchievements(t *testing.T) {
	up := achievement.LevelUp{OldLevel: 1, NewLevel: 2, LevelsGained: 1}
	events := collectEvents(&up, []achievement.Unlocked{{ID: "a"}}, streak.Outcome{StreakBroken: true, PreviousStreak: 4})

	assert.Equal(t, []EventType{EventLevelUp, EventStreakBroken}, eventTypes(events))
	assert.Equal(t, 4, events[1].PreviousStreak)
}

func TestCollectEventsEmpty(t *testing.T) {
	assert.Empty(t, collectEvents(nil, nil, streak.Outcome{SameDay: true}))
}

func TestEventTypePriority(t *testing.T) {
	assert.Less(t, EventLevelUp.Priority(), EventAchievementUnlocked.Priority())
	assert.Less(t, EventProtectionUsed.Priority(), EventStreakBroken.Priority())
	assert.Equal(t, len(eventPriority), EventType("unknown").Priority())
}
