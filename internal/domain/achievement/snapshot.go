package achievement

import "github.com/kofadam/asahi-x-family/internal/domain"

// FastSpeedDrillSeconds is the speed drill time at or under which the
// fastSpeedDrill flag is set.
const FastSpeedDrillSeconds = 15

var knownStats = map[domain.Stat]bool{
	domain.StatStreakCount:        true,
	domain.StatLongestStreak:      true,
	domain.StatTotalXP:            true,
	domain.StatLevel:              true,
	domain.StatLessonsCompleted:   true,
	domain.StatScenariosCompleted: true,
	domain.StatModulesCompleted:   true,
	domain.StatAnimeWordsRead:     true,
}

var knownFlags = map[domain.Flag]bool{
	domain.FlagPerfectScore:   true,
	domain.FlagFastSpeedDrill: true,
}

// Snapshot is the flattened view of a learner that requirements are
// matched against.
type Snapshot struct {
	Stats map[domain.Stat]float64
	Flags map[domain.Flag]bool
}

// NewSnapshot combines profile, progress and streak into a Snapshot.
func NewSnapshot(profile domain.UserProfile, progress domain.Progress, streak domain.StreakState) Snapshot {
	drill := progress.BestSpeedDrillSeconds
	return Snapshot{
		Stats: map[domain.Stat]float64{
			domain.StatStreakCount:        float64(streak.Current),
			domain.StatLongestStreak:      float64(streak.Longest),
			domain.StatTotalXP:            float64(profile.TotalXP),
			domain.StatLevel:              float64(Level(profile.TotalXP)),
			domain.StatLessonsCompleted:   float64(progress.TotalLessonsCompleted),
			domain.StatScenariosCompleted: float64(progress.TotalScenariosCompleted),
			domain.StatModulesCompleted:   float64(progress.TotalModulesCompleted),
			domain.StatAnimeWordsRead:     float64(progress.AnimeWordsRead),
		},
		Flags: map[domain.Flag]bool{
			domain.FlagPerfectScore:   progress.HasPerfectScore,
			domain.FlagFastSpeedDrill: drill > 0 && drill <= FastSpeedDrillSeconds,
		},
	}
}

// Holds reports whether req is satisfied by snap. Unknown stats and flags
// never hold.
func Holds(req domain.Requirement, snap Snapshot) bool {
	switch r := req.(type) {
	case domain.ThresholdOnStat:
		v, ok := snap.Stats[r.Stat]
		return ok && v >= r.Min
	case domain.BooleanFlag:
		return snap.Flags[r.Flag]
	case domain.CompositeAnd:
		if len(r.Of) == 0 {
			return false
		}
		for _, c := range r.Of {
			if !Holds(c, snap) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
