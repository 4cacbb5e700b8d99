// Package progression decides which lessons a learner may open. Lessons form
// a strict linear chain: a lesson is unlocked when it is seeded as unlocked
// by default or when the lesson right before it has been completed.
package progression

import (
	"errors"
	"fmt"
	"strings"
)

// Catalog errors
var (
	ErrEmptyCatalog     = errors.New("catalog must contain at least one lesson")
	ErrDuplicateLesson  = errors.New("duplicate lesson id")
	ErrEmptyLessonID    = errors.New("lesson id cannot be empty")
	ErrNegativeXPReward = errors.New("lesson XP reward cannot be negative")
)

// DefaultLessonXP is awarded for a lesson that does not declare its own reward.
const DefaultLessonXP = 50

// Lesson is a read-only descriptor of a catalog entry.
type Lesson struct {
	ID                string `json:"id" mapstructure:"id"`
	Title             string `json:"title" mapstructure:"title"`
	UnlockedByDefault bool   `json:"unlocked_by_default" mapstructure:"unlocked_by_default"`
	XPReward          int    `json:"xp_reward" mapstructure:"xp_reward"`
}

// Catalog is the ordered list of lessons. It is never mutated after
// construction.
type Catalog struct {
	lessons []Lesson
	index   map[string]int
}

// NewCatalog validates and indexes lessons in their declared order.
func NewCatalog(lessons []Lesson) (*Catalog, error) {
	if len(lessons) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		lessons: make([]Lesson, 0, len(lessons)),
		index:   make(map[string]int, len(lessons)),
	}
	for _, l := range lessons {
		if strings.TrimSpace(l.ID) == "" {
			return nil, ErrEmptyLessonID
		}
		if _, exists := c.index[l.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateLesson, l.ID)
		}
		if l.XPReward < 0 {
			return nil, fmt.Errorf("%w: %s", ErrNegativeXPReward, l.ID)
		}
		if l.XPReward == 0 {
			l.XPReward = DefaultLessonXP
		}
		c.index[l.ID] = len(c.lessons)
		c.lessons = append(c.lessons, l)
	}

	return c, nil
}

// DefaultLessons is the built-in katakana course.
func DefaultLessons() []Lesson {
	return []Lesson{
		{ID: "lesson-001", Title: "Katakana Vowels", UnlockedByDefault: true},
		{ID: "lesson-002", Title: "Katakana K-Sounds", UnlockedByDefault: true},
		{ID: "lesson-003", Title: "Anime Words"},
		{ID: "lesson-004", Title: "Katakana S-Sounds"},
		{ID: "lesson-005", Title: "Anime Character Greetings"},
		{ID: "lesson-006", Title: "Katakana T-Sounds"},
	}
}

// DefaultCatalog returns the catalog of DefaultLessons.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultLessons())
	if err != nil {
		// ALLOW-PANIC: built-in catalog is static and covered by tests
		panic(err)
	}
	return c
}

// Lessons returns a copy of the lessons in declared order.
func (c *Catalog) Lessons() []Lesson {
	out := make([]Lesson, len(c.lessons))
	copy(out, c.lessons)
	return out
}

// Lookup returns the lesson with the given id.
func (c *Catalog) Lookup(id string) (Lesson, bool) {
	i, ok := c.index[id]
	if !ok {
		return Lesson{}, false
	}
	return c.lessons[i], true
}

// Len is the number of lessons in the catalog.
func (c *Catalog) Len() int {
	return len(c.lessons)
}
