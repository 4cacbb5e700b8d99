package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// ProgressRecord is the learner's state for a single lesson.
type ProgressRecord struct {
	LessonID      string      `json:"lesson_id"`
	Completed     bool        `json:"completed"`
	AccuracyScore float64     `json:"accuracy_score"` // [0, 1], best attempt
	CompletedAt   time.Time   `json:"completed_at"`   // first completion
	Attempts      int         `json:"attempts"`
	ReviewItemIDs []uuid.UUID `json:"review_item_ids"`
}

// Progress aggregates lesson records with the practice counters used by
// achievement requirements.
type Progress struct {
	Lessons                 map[string]ProgressRecord `json:"lessons"`
	TotalLessonsCompleted   int                       `json:"total_lessons_completed"`
	TotalScenariosCompleted int                       `json:"total_scenarios_completed"`
	TotalModulesCompleted   int                       `json:"total_modules_completed"`
	AnimeWordsRead          int                       `json:"anime_words_read"`
	BestSpeedDrillSeconds   float64                   `json:"best_speed_drill_seconds"` // 0 means never attempted
	HasPerfectScore         bool                      `json:"has_perfect_score"`
}

// NewProgress returns empty progress for a new learner.
func NewProgress() Progress {
	return Progress{Lessons: map[string]ProgressRecord{}}
}

// IsCompleted reports whether the lesson has been completed at least once.
func (p Progress) IsCompleted(lessonID string) bool {
	return p.Lessons[lessonID].Completed
}

// Clone returns a deep copy of the progress.
func (p Progress) Clone() Progress {
	lessons := make(map[string]ProgressRecord, len(p.Lessons))
	for id, rec := range p.Lessons {
		rec.ReviewItemIDs = slices.Clone(rec.ReviewItemIDs)
		lessons[id] = rec
	}
	p.Lessons = lessons
	return p
}
