package achievement

import "math"

// MaxLevel is the highest reachable level.
const MaxLevel = 20

// levelThresholds[i] is the total XP needed to reach level i+1.
var levelThresholds = [MaxLevel]int{
	0, 100, 300, 600, 1000, 1500, 2200, 3000, 4000, 5200,
	6600, 8200, 10000, 12000, 14500, 17500, 21000, 25000, 30000, 36000,
}

// Level returns the level reached with totalXP: one plus the greatest index
// whose threshold does not exceed totalXP.
func Level(totalXP int) int {
	level := 1
	for i, threshold := range levelThresholds {
		if threshold <= totalXP {
			level = i + 1
		}
	}
	return level
}

// ThresholdFor returns the XP needed for level, or false outside 1..MaxLevel.
func ThresholdFor(level int) (int, bool) {
	if level < 1 || level > MaxLevel {
		return 0, false
	}
	return levelThresholds[level-1], true
}

// LevelUp is emitted when a single update crosses one or more levels.
type LevelUp struct {
	OldLevel     int `json:"old_level"`
	NewLevel     int `json:"new_level"`
	LevelsGained int `json:"levels_gained"`
}

// CheckLevelUp compares the levels of oldXP and newXP. It reports a single
// LevelUp however many levels were crossed.
func CheckLevelUp(oldXP, newXP int) (LevelUp, bool) {
	oldLevel, newLevel := Level(oldXP), Level(newXP)
	if oldLevel == newLevel {
		return LevelUp{}, false
	}
	return LevelUp{OldLevel: oldLevel, NewLevel: newLevel, LevelsGained: newLevel - oldLevel}, true
}

// LevelProgress describes how far a learner is through their current level.
type LevelProgress struct {
	Level      int     `json:"level"`
	Title      string  `json:"title"`
	XPInLevel  int     `json:"xp_in_level"`
	XPToNext   int     `json:"xp_to_next"` // XP span of the current level; 0 at max level
	Percentage float64 `json:"percentage"`
	IsMaxLevel bool    `json:"is_max_level"`
}

// ProgressFor computes LevelProgress for totalXP.
func ProgressFor(totalXP int) LevelProgress {
	level := Level(totalXP)
	floor := levelThresholds[level-1]
	progress := LevelProgress{
		Level:     level,
		Title:     Title(level),
		XPInLevel: totalXP - floor,
	}
	if totalXP < 0 {
		progress.XPInLevel = 0
	}

	if level >= MaxLevel {
		progress.IsMaxLevel = true
		progress.Percentage = 100
		return progress
	}

	span := levelThresholds[level] - floor
	progress.XPToNext = span
	progress.Percentage = math.Min(100, float64(progress.XPInLevel)/float64(span)*100)
	return progress
}

var titles = []struct {
	upTo  int
	title string
}{
	{1, "新人 Newbie"},
	{3, "学生 Student"},
	{5, "初心者 Beginner"},
	{8, "中級者 Intermediate"},
	{12, "上級者 Advanced"},
	{15, "先輩 Senpai"},
	{18, "先生 Sensei"},
}

// Title is the display title for a level.
func Title(level int) string {
	for _, t := range titles {
		if level <= t.upTo {
			return t.title
		}
	}
	return "伝説 Legend"
}
