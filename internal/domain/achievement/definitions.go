package achievement

import "github.com/kofadam/asahi-x-family/internal/domain"

func threshold(stat domain.Stat, atLeast float64) domain.Requirement {
	return domain.ThresholdOnStat{Stat: stat, Min: atLeast}
}

// DefaultDefinitions is the built-in achievement table, in evaluation order.
func DefaultDefinitions() []domain.AchievementDefinition {
	return []domain.AchievementDefinition{
		{
			ID: "otaku-dedication-1", Title: "Dedicated Otaku", Category: domain.CategoryStreak, XPReward: 150,
			Description: "Complete lessons for 3 consecutive days",
			Requirement: threshold(domain.StatStreakCount, 3),
		},
		{
			ID: "otaku-dedication-7", Title: "Weekly Warrior", Category: domain.CategoryStreak, XPReward: 300,
			Description: "Maintain a 7-day learning streak",
			Requirement: threshold(domain.StatStreakCount, 7),
		},
		{
			ID: "otaku-dedication-30", Title: "Legendary Senpai", Category: domain.CategoryStreak, XPReward: 1000,
			Description: "Study for 30 consecutive days",
			Requirement: threshold(domain.StatStreakCount, 30),
		},
		{
			ID: "first-lesson", Title: "Hajimari - First Steps", Category: domain.CategoryLesson, XPReward: 100,
			Description: "Complete your first lesson",
			Requirement: threshold(domain.StatLessonsCompleted, 1),
		},
		{
			ID: "katakana-novice", Title: "Katakana Kouhai", Category: domain.CategoryLesson, XPReward: 250,
			Description: "Complete 3 katakana lessons",
			Requirement: threshold(domain.StatLessonsCompleted, 3),
		},
		{
			ID: "katakana-master", Title: "Katakana Sensei", Category: domain.CategoryLesson, XPReward: 500,
			Description: "Complete all katakana lessons",
			Requirement: threshold(domain.StatLessonsCompleted, 6),
		},
		{
			ID: "xp-collector-500", Title: "Rising Hero", Category: domain.CategoryMastery, XPReward: 200,
			Description: "Earn 500 experience points",
			Requirement: threshold(domain.StatTotalXP, 500),
		},
		{
			ID: "xp-collector-1000", Title: "Elite Student", Category: domain.CategoryMastery, XPReward: 300,
			Description: "Reach 1000 experience points",
			Requirement: threshold(domain.StatTotalXP, 1000),
		},
		{
			ID: "xp-collector-2500", Title: "Otaku Legend", Category: domain.CategoryMastery, XPReward: 500,
			Description: "Accumulate 2500 experience points",
			Requirement: threshold(domain.StatTotalXP, 2500),
		},
		{
			ID: "level-up-5", Title: "Beginner Graduate", Category: domain.CategoryMastery, XPReward: 250,
			Description: "Reach level 5",
			Requirement: threshold(domain.StatLevel, 5),
		},
		{
			ID: "level-up-10", Title: "Intermediate Otaku", Category: domain.CategoryMastery, XPReward: 400,
			Description: "Reach level 10",
			Requirement: threshold(domain.StatLevel, 10),
		},
		{
			ID: "level-up-15", Title: "Advanced Senpai", Category: domain.CategoryMastery, XPReward: 600,
			Description: "Reach level 15",
			Requirement: threshold(domain.StatLevel, 15),
		},
		{
			ID: "anime-reader", Title: "Anime Title Reader", Category: domain.CategorySpecial, XPReward: 300,
			Description: "Successfully read 5 anime titles in katakana",
			Requirement: threshold(domain.StatAnimeWordsRead, 5),
		},
		{
			ID: "perfect-score", Title: "Perfectionist", Category: domain.CategorySpecial, XPReward: 200,
			Description: "Get 100% accuracy on any lesson",
			Requirement: domain.BooleanFlag{Flag: domain.FlagPerfectScore},
		},
		{
			ID: "speed-demon", Title: "Lightning Reader", Category: domain.CategorySpecial, XPReward: 250,
			Description: "Complete a speed drill in under 15 seconds",
			Requirement: domain.BooleanFlag{Flag: domain.FlagFastSpeedDrill},
		},
		{
			ID: "culture-explorer", Title: "Culture Explorer", Category: domain.CategoryPractice, XPReward: 400,
			Description: "Complete all scenario practices",
			Requirement: threshold(domain.StatScenariosCompleted, 4),
		},
		{
			ID: "complete-module", Title: "Module Master", Category: domain.CategoryPractice, XPReward: 500,
			Description: "Complete the full bowing etiquette module",
			Requirement: threshold(domain.StatModulesCompleted, 1),
		},
	}
}
