package domain

import "fmt"

// AchievementCategory groups achievements for display.
type AchievementCategory string

// Achievement categories
const (
	CategoryStreak   AchievementCategory = "streak"
	CategoryLesson   AchievementCategory = "lesson"
	CategoryMastery  AchievementCategory = "mastery"
	CategoryPractice AchievementCategory = "practice"
	CategorySpecial  AchievementCategory = "special"
)

// Stat names a numeric field of the combined profile, progress and streak
// snapshot.
type Stat string

// Known stats
const (
	StatStreakCount        Stat = "streakCount"
	StatLongestStreak      Stat = "longestStreak"
	StatTotalXP            Stat = "totalXP"
	StatLevel              Stat = "level"
	StatLessonsCompleted   Stat = "lessonsCompleted"
	StatScenariosCompleted Stat = "scenariosCompleted"
	StatModulesCompleted   Stat = "modulesCompleted"
	StatAnimeWordsRead     Stat = "animeWordsRead"
)

// Flag names a boolean field of the snapshot.
type Flag string

// Known flags
const (
	// FlagPerfectScore means the learner finished a lesson with full accuracy.
	FlagPerfectScore   Flag = "hasPerfectScore"
	FlagFastSpeedDrill Flag = "fastSpeedDrill"
)

// Requirement is the predicate an achievement is earned by. It is a closed
// set: ThresholdOnStat, BooleanFlag or CompositeAnd.
type Requirement interface {
	isRequirement()
	fmt.Stringer
}

// ThresholdOnStat holds when the stat is at least Min.
type ThresholdOnStat struct {
	Stat Stat
	Min  float64
}

// BooleanFlag holds when the flag is set.
type BooleanFlag struct {
	Flag Flag
}

// CompositeAnd holds when every component holds. Components must be
// thresholds or flags.
type CompositeAnd struct {
	Of []Requirement
}

func (ThresholdOnStat) isRequirement() {}
func (BooleanFlag) isRequirement()     {}
func (CompositeAnd) isRequirement()    {}

func (r ThresholdOnStat) String() string {
	return fmt.Sprintf("%s >= %g", r.Stat, r.Min)
}

func (r BooleanFlag) String() string {
	return string(r.Flag)
}

func (r CompositeAnd) String() string {
	out := ""
	for i, c := range r.Of {
		if i > 0 {
			out += " && "
		}
		out += c.String()
	}
	return out
}

// AchievementDefinition declares one achievement and the XP it grants.
type AchievementDefinition struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Category    AchievementCategory `json:"category"`
	XPReward    int                 `json:"xp_reward"`
	Requirement Requirement         `json:"-"`
}
