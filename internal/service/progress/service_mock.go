package progress

import (
	"context"

	"github.com/google/uuid"
	"github.com/kofadam/asahi-x-family/internal/domain"
	"github.com/kofadam/asahi-x-family/internal/engine"
)

// MockProgressService is a mock implementation of the ProgressService
// interface for testing. Unset functions return zero values.
type MockProgressService struct {
	ProfileFn           func(ctx context.Context, profileID uuid.UUID) (*ProfileView, error)
	CompleteLessonFn    func(ctx context.Context, profileID uuid.UUID, lessonID string, accuracy float64) (*Outcome, error)
	SubmitReviewFn      func(ctx context.Context, profileID, itemID uuid.UUID, rating domain.Rating) (*Outcome, error)
	RecordPracticeFn    func(ctx context.Context, profileID uuid.UUID, practice engine.Practice) (*Outcome, error)
	SetTravelModeFn     func(ctx context.Context, profileID uuid.UUID, active bool) (*ProfileView, error)
	UpdatePreferencesFn func(ctx context.Context, profileID uuid.UUID, prefs domain.Preferences) (*ProfileView, error)
	DueReviewsFn        func(ctx context.Context, profileID uuid.UUID) ([]DueReview, error)
	LessonsFn           func(ctx context.Context, profileID uuid.UUID) (*LessonsView, error)
	NextLessonFn        func(ctx context.Context, profileID uuid.UUID) (*NextLessonView, error)
	AchievementsFn      func(ctx context.Context, profileID uuid.UUID) ([]AchievementView, error)
}

var _ ProgressService = (*MockProgressService)(nil)

// Profile implements ProgressService.
func (m *MockProgressService) Profile(ctx context.Context, profileID uuid.UUID) (*ProfileView, error) {
	if m.ProfileFn != nil {
		return m.ProfileFn(ctx, profileID)
	}
	return &ProfileView{ID: profileID}, nil
}

// CompleteLesson implements ProgressService.
func (m *MockProgressService) CompleteLesson(
	ctx context.Context,
	profileID uuid.UUID,
	lessonID string,
	accuracy float64,
) (*Outcome, error) {
	if m.CompleteLessonFn != nil {
		return m.CompleteLessonFn(ctx, profileID, lessonID, accuracy)
	}
	return &Outcome{}, nil
}

// SubmitReview implements ProgressService.
func (m *MockProgressService) SubmitReview(
	ctx context.Context,
	profileID, itemID uuid.UUID,
	rating domain.Rating,
) (*Outcome, error) {
	if m.SubmitReviewFn != nil {
		return m.SubmitReviewFn(ctx, profileID, itemID, rating)
	}
	return &Outcome{}, nil
}

// RecordPractice implements ProgressService.
func (m *MockProgressService) RecordPractice(
	ctx context.Context,
	profileID uuid.UUID,
	practice engine.Practice,
) (*Outcome, error) {
	if m.RecordPracticeFn != nil {
		return m.RecordPracticeFn(ctx, profileID, practice)
	}
	return &Outcome{}, nil
}

// SetTravelMode implements ProgressService.
func (m *MockProgressService) SetTravelMode(ctx context.Context, profileID uuid.UUID, active bool) (*ProfileView, error) {
	if m.SetTravelModeFn != nil {
		return m.SetTravelModeFn(ctx, profileID, active)
	}
	return &ProfileView{ID: profileID}, nil
}

// UpdatePreferences implements ProgressService.
func (m *MockProgressService) UpdatePreferences(
	ctx context.Context,
	profileID uuid.UUID,
	prefs domain.Preferences,
) (*ProfileView, error) {
	if m.UpdatePreferencesFn != nil {
		return m.UpdatePreferencesFn(ctx, profileID, prefs)
	}
	return &ProfileView{ID: profileID, Preferences: prefs}, nil
}

// DueReviews implements ProgressService.
func (m *MockProgressService) DueReviews(ctx context.Context, profileID uuid.UUID) ([]DueReview, error) {
	if m.DueReviewsFn != nil {
		return m.DueReviewsFn(ctx, profileID)
	}
	return []DueReview{}, nil
}

// Lessons implements ProgressService.
func (m *MockProgressService) Lessons(ctx context.Context, profileID uuid.UUID) (*LessonsView, error) {
	if m.LessonsFn != nil {
		return m.LessonsFn(ctx, profileID)
	}
	return &LessonsView{}, nil
}

// NextLesson implements ProgressService.
func (m *MockProgressService) NextLesson(ctx context.Context, profileID uuid.UUID) (*NextLessonView, error) {
	if m.NextLessonFn != nil {
		return m.NextLessonFn(ctx, profileID)
	}
	return &NextLessonView{CaughtUp: true}, nil
}

// Achievements implements ProgressService.
func (m *MockProgressService) Achievements(ctx context.Context, profileID uuid.UUID) ([]AchievementView, error) {
	if m.AchievementsFn != nil {
		return m.AchievementsFn(ctx, profileID)
	}
	return []AchievementView{}, nil
}
