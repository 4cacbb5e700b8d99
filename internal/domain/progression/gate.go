package progression

import (
	"math"

	"github.com/kofadam/asahi-x-family/internal/domain"
	"github.com/samber/lo"
)

// LessonStatus pairs a lesson with the learner's access to it.
type LessonStatus struct {
	Lesson
	Unlocked  bool    `json:"unlocked"`
	Completed bool    `json:"completed"`
	Accuracy  float64 `json:"accuracy"`
}

// Stats summarizes course progress.
type Stats struct {
	Total     int `json:"total"`
	Unlocked  int `json:"unlocked"`
	Completed int `json:"completed"`
	Percent   int `json:"percent"`
}

// Gate answers unlock questions against a catalog.
type Gate struct {
	catalog *Catalog
}

// NewGate creates a Gate over catalog.
func NewGate(catalog *Catalog) *Gate {
	if catalog == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("catalog cannot be nil for Gate")
	}
	return &Gate{catalog: catalog}
}

// Catalog returns the catalog the gate was built with.
func (g *Gate) Catalog() *Catalog {
	return g.catalog
}

// IsUnlocked reports whether the learner may open lessonID. Unknown lessons
// are locked.
func (g *Gate) IsUnlocked(lessonID string, progress domain.Progress) bool {
	i, ok := g.catalog.index[lessonID]
	if !ok {
		return false
	}
	return g.unlockedAt(i, progress)
}

func (g *Gate) unlockedAt(i int, progress domain.Progress) bool {
	if g.catalog.lessons[i].UnlockedByDefault {
		return true
	}
	if i == 0 {
		return false
	}
	return progress.IsCompleted(g.catalog.lessons[i-1].ID)
}

// NextRecommended returns the first unlocked lesson not yet completed. The
// boolean is false when the learner is caught up.
func (g *Gate) NextRecommended(progress domain.Progress) (Lesson, bool) {
	for i, l := range g.catalog.lessons {
		if g.unlockedAt(i, progress) && !progress.IsCompleted(l.ID) {
			return l, true
		}
	}
	return Lesson{}, false
}

// Statuses lists every lesson with its unlock and completion state.
func (g *Gate) Statuses(progress domain.Progress) []LessonStatus {
	return lo.Map(g.catalog.lessons, func(l Lesson, i int) LessonStatus {
		rec := progress.Lessons[l.ID]
		return LessonStatus{
			Lesson:    l,
			Unlocked:  g.unlockedAt(i, progress),
			Completed: rec.Completed,
			Accuracy:  rec.AccuracyScore,
		}
	})
}

// Stats counts unlocked and completed lessons.
func (g *Gate) Stats(progress domain.Progress) Stats {
	statuses := g.Statuses(progress)
	stats := Stats{
		Total:     len(statuses),
		Unlocked:  lo.CountBy(statuses, func(s LessonStatus) bool { return s.Unlocked }),
		Completed: lo.CountBy(statuses, func(s LessonStatus) bool { return s.Completed }),
	}
	if stats.Total > 0 {
		stats.Percent = int(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
	}
	return stats
}

// CulturalCompetency is the mean accuracy of completed lessons on a 0-100
// scale, or 0 when nothing is completed.
func CulturalCompetency(progress domain.Progress) int {
	completed := lo.Filter(lo.Values(progress.Lessons), func(r domain.ProgressRecord, _ int) bool {
		return r.Completed
	})
	if len(completed) == 0 {
		return 0
	}
	total := lo.SumBy(completed, func(r domain.ProgressRecord) float64 { return r.AccuracyScore })
	return int(math.Round(total / float64(len(completed)) * 100))
}
