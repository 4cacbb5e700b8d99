// Package progress orchestrates the learning engine for one learner at a
// time: it loads the learner's state from the Progress Store, runs an engine
// operation, saves the result and publishes the resulting events.
package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kofadam/asahi-x-family/internal/domain"
	"github.com/kofadam/asahi-x-family/internal/domain/achievement"
	"github.com/kofadam/asahi-x-family/internal/domain/progression"
	"github.com/kofadam/asahi-x-family/internal/engine"
)

// ProgressService is the application boundary of the engine.
type ProgressService interface {
	// Profile returns the learner's profile with derived level and streak
	// display values. Learners without stored state get a fresh profile.
	Profile(ctx context.Context, profileID uuid.UUID) (*ProfileView, error)

	// CompleteLesson records a lesson completion.
	//
	// Returns engine.ErrLessonNotFound, engine.ErrLessonLocked or
	// engine.ErrInvalidAccuracy (wrapped) for rejected input; the stored
	// state is unchanged in that case.
	CompleteLesson(ctx context.Context, profileID uuid.UUID, lessonID string, accuracy float64) (*Outcome, error)

	// SubmitReview schedules a review item with the given rating.
	//
	// Returns domain.ErrInvalidRating or engine.ErrItemNotFound (wrapped)
	// for rejected input.
	SubmitReview(ctx context.Context, profileID, itemID uuid.UUID, rating domain.Rating) (*Outcome, error)

	// RecordPractice records a practice session.
	RecordPractice(ctx context.Context, profileID uuid.UUID, practice engine.Practice) (*Outcome, error)

	// SetTravelMode switches travel mode on or off.
	SetTravelMode(ctx context.Context, profileID uuid.UUID, active bool) (*ProfileView, error)

	// UpdatePreferences replaces the learner's preferences.
	UpdatePreferences(ctx context.Context, profileID uuid.UUID, prefs domain.Preferences) (*ProfileView, error)

	// DueReviews lists the items due now, most overdue first. Store
	// failures are logged and reported as nothing due.
	DueReviews(ctx context.Context, profileID uuid.UUID) ([]DueReview, error)

	// Lessons returns every lesson with its status and course statistics.
	Lessons(ctx context.Context, profileID uuid.UUID) (*LessonsView, error)

	// NextLesson returns the lesson to study next.
	NextLesson(ctx context.Context, profileID uuid.UUID) (*NextLessonView, error)

	// Achievements lists every achievement with the learner's progress.
	Achievements(ctx context.Context, profileID uuid.UUID) ([]AchievementView, error)
}

// StreakView is the streak as shown to the learner.
type StreakView struct {
	Current               int         `json:"current"`
	Longest               int         `json:"longest"`
	Active                bool        `json:"active"`
	LastStudyDate         domain.Date `json:"last_study_date"`
	TravelModeActive      bool        `json:"travel_mode_active"`
	CulturalRestAvailable bool        `json:"cultural_rest_available"`
}

// ProfileView is the learner profile with values derived at read time.
type ProfileView struct {
	ID                 uuid.UUID                 `json:"id"`
	TotalXP            int                       `json:"total_xp"`
	Level              achievement.LevelProgress `json:"level"`
	Streak             StreakView                `json:"streak"`
	Achievements       []string                  `json:"achievements"`
	Preferences        domain.Preferences        `json:"preferences"`
	LessonsCompleted   int                       `json:"lessons_completed"`
	CulturalCompetency int                       `json:"cultural_competency"`
	DueCount           int                       `json:"due_count"`
	CreatedAt          time.Time                 `json:"created_at"`
	UpdatedAt          time.Time                 `json:"updated_at"`
}

// Outcome is the result of a learning activity.
type Outcome struct {
	engine.Result
	Profile ProfileView `json:"profile"`
}

// DueReview is a review item ready to be studied.
type DueReview struct {
	ID             uuid.UUID        `json:"id"`
	ContentRef     string           `json:"content_ref"`
	Title          string           `json:"title"`
	State          domain.ItemState `json:"state"`
	NextReviewAt   time.Time        `json:"next_review_at"`
	Retrievability float64          `json:"retrievability"`
	ReviewCount    int              `json:"review_count"`
	Lapses         int              `json:"lapses"`
}

// LessonsView is the course overview.
type LessonsView struct {
	Lessons            []progression.LessonStatus `json:"lessons"`
	Stats              progression.Stats          `json:"stats"`
	CulturalCompetency int                        `json:"cultural_competency"`
}

// NextLessonView holds the recommended lesson, or CaughtUp when every
// unlocked lesson is complete.
type NextLessonView struct {
	Lesson   *progression.Lesson `json:"lesson,omitempty"`
	CaughtUp bool                `json:"caught_up"`
}

// AchievementView is one achievement definition with the learner's progress.
type AchievementView struct {
	domain.AchievementDefinition
	Earned   bool                            `json:"earned"`
	Progress achievement.RequirementProgress `json:"progress"`
}

// ErrStoreUnavailable indicates the Progress Store could not be read or written.
var ErrStoreUnavailable = errors.New("progress store unavailable")

// ServiceError wraps errors from the progress service with the operation
// that failed.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "complete_lesson")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
