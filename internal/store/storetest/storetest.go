// Package storetest holds the behavioral test suite every
// store.ProgressStore implementation must pass.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kofadam/asahi-x-family/internal/domain"
	"github.com/kofadam/asahi-x-family/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty store for one subtest.
type Factory func(t *testing.T) store.ProgressStore

// base is truncated to microseconds, the coarsest precision of any backend.
var base = time.Date(2024, 4, 1, 9, 30, 0, 0, time.UTC)

// NewState builds a populated profile state with one review item.
func NewState(t *testing.T) *domain.ProfileState {
	t.Helper()

	state, err := domain.NewProfileState(uuid.New(), base)
	require.NoError(t, err)

	item := domain.ReviewItem{
		ID:                uuid.New(),
		ContentRef:        "lesson-001",
		State:             domain.ItemStateReview,
		Difficulty:        0.42,
		Stability:         3.5,
		ElapsedDays:       1.25,
		ScheduledInterval: 3.7,
		LastReviewedAt:    base,
		NextReviewAt:      base.Add(96 * time.Hour),
		ReviewCount:       3,
		Lapses:            1,
	}

	state.Profile.TotalXP = 260
	state.Profile.Level = 2
	state.Profile.StreakCount = 3
	state.Profile.LastActivityDate = domain.DateOf(base)
	state.Profile.Achievements = []string{"first-lesson", "otaku-dedication-1"}
	state.Profile.Preferences.TimeZone = "Europe/Berlin"
	state.Profile.UpdatedAt = base.Add(time.Hour)
	state.Progress.Lessons["lesson-001"] = domain.ProgressRecord{
		LessonID:      "lesson-001",
		Completed:     true,
		AccuracyScore: 0.9,
		CompletedAt:   base,
		Attempts:      1,
		ReviewItemIDs: []uuid.UUID{item.ID},
	}
	state.Progress.TotalLessonsCompleted = 1
	state.Streak = domain.StreakState{
		Current:       3,
		Longest:       5,
		LastStudyDate: domain.DateOf(base),
		History: []domain.StreakHistoryEntry{
			{Date: domain.DateOf(base), Completed: true, Reason: domain.ReasonStudy},
		},
	}
	state.Items = []domain.ReviewItem{item}

	return state
}

// AssertStateEqual compares two states, tolerating time zone differences.
func AssertStateEqual(t *testing.T, want, got *domain.ProfileState) {
	t.Helper()

	assert.Equal(t, want.Profile.ID, got.Profile.ID)
	assert.Equal(t, want.Profile.TotalXP, got.Profile.TotalXP)
	assert.Equal(t, want.Profile.Level, got.Profile.Level)
	assert.Equal(t, want.Profile.StreakCount, got.Profile.StreakCount)
	assert.Equal(t, want.Profile.LastActivityDate, got.Profile.LastActivityDate)
	assert.Equal(t, want.Profile.Achievements, got.Profile.Achievements)
	assert.Equal(t, want.Profile.Preferences, got.Profile.Preferences)
	assert.True(t, want.Profile.CreatedAt.Equal(got.Profile.CreatedAt), "created_at")
	assert.True(t, want.Profile.UpdatedAt.Equal(got.Profile.UpdatedAt), "updated_at")

	assert.Equal(t, want.Progress.TotalLessonsCompleted, got.Progress.TotalLessonsCompleted)
	assert.Equal(t, len(want.Progress.Lessons), len(got.Progress.Lessons))
	for id, rec := range want.Progress.Lessons {
		gotRec, ok := got.Progress.Lessons[id]
		if assert.True(t, ok, "lesson %s", id) {
			assert.Equal(t, rec.ReviewItemIDs, gotRec.ReviewItemIDs)
			assert.Equal(t, rec.Attempts, gotRec.Attempts)
			assert.True(t, rec.CompletedAt.Equal(gotRec.CompletedAt))
		}
	}

	assert.Equal(t, want.Streak, got.Streak)
	assert.Equal(t, want.Version, got.Version)

	require.Len(t, got.Items, len(want.Items))
	for i := range want.Items {
		w, g := want.Items[i], got.Items[i]
		assert.Equal(t, w.ID, g.ID)
		assert.Equal(t, w.ContentRef, g.ContentRef)
		assert.Equal(t, w.State, g.State)
		assert.InDelta(t, w.Difficulty, g.Difficulty, 1e-12)
		assert.InDelta(t, w.Stability, g.Stability, 1e-12)
		assert.InDelta(t, w.ElapsedDays, g.ElapsedDays, 1e-12)
		assert.InDelta(t, w.ScheduledInterval, g.ScheduledInterval, 1e-12)
		assert.True(t, w.LastReviewedAt.Equal(g.LastReviewedAt), "last_reviewed_at")
		assert.True(t, w.NextReviewAt.Equal(g.NextReviewAt), "next_review_at")
		assert.Equal(t, w.ReviewCount, g.ReviewCount)
		assert.Equal(t, w.Lapses, g.Lapses)
	}
}

// RunProgressStoreTests runs the suite against stores built by newStore.
func RunProgressStoreTests(t *testing.T, newStore Factory) {
	ctx := context.Background()

	t.Run("load unknown profile", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Load(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrProfileNotFound)
		assert.True(t, store.IsNotFoundError(err))
	})

	t.Run("save then load", func(t *testing.T) {
		s := newStore(t)
		state := NewState(t)

		require.NoError(t, s.Save(ctx, state))
		assert.Equal(t, 1, state.Version)

		got, err := s.Load(ctx, state.Profile.ID)
		require.NoError(t, err)
		AssertStateEqual(t, state, got)
	})

	t.Run("fresh profile without activity", func(t *testing.T) {
		s := newStore(t)
		state, err := domain.NewProfileState(uuid.New(), base)
		require.NoError(t, err)

		require.NoError(t, s.Save(ctx, state))
		got, err := s.Load(ctx, state.Profile.ID)
		require.NoError(t, err)

		assert.True(t, got.Profile.LastActivityDate.IsZero())
		assert.NotNil(t, got.Profile.Achievements)
		assert.NotNil(t, got.Progress.Lessons)
		assert.Empty(t, got.Items)
	})

	t.Run("save replaces items", func(t *testing.T) {
		s := newStore(t)
		state := NewState(t)
		require.NoError(t, s.Save(ctx, state))

		second := state.Items[0]
		second.ID = uuid.New()
		second.ContentRef = "lesson-002"
		second.NextReviewAt = base.Add(time.Hour)
		state.Items = []domain.ReviewItem{second}
		state.Profile.TotalXP = 300
		require.NoError(t, s.Save(ctx, state))
		assert.Equal(t, 2, state.Version)

		got, err := s.Load(ctx, state.Profile.ID)
		require.NoError(t, err)
		require.Len(t, got.Items, 1)
		assert.Equal(t, second.ID, got.Items[0].ID)
		assert.Equal(t, 300, got.Profile.TotalXP)
	})

	t.Run("items load in due order", func(t *testing.T) {
		s := newStore(t)
		state := NewState(t)
		early := state.Items[0]
		early.ID = uuid.New()
		early.NextReviewAt = base.Add(-time.Hour)
		state.Items = append(state.Items, early)
		require.NoError(t, s.Save(ctx, state))

		got, err := s.Load(ctx, state.Profile.ID)
		require.NoError(t, err)
		require.Len(t, got.Items, 2)
		assert.Equal(t, early.ID, got.Items[0].ID)
	})

	t.Run("stale version is rejected", func(t *testing.T) {
		s := newStore(t)
		state := NewState(t)
		require.NoError(t, s.Save(ctx, state))

		stale := *state
		stale.Version = 0
		stale.Profile.TotalXP = 999
		err := s.Save(ctx, &stale)
		assert.ErrorIs(t, err, store.ErrConflict)
		assert.Equal(t, 0, stale.Version)

		got, err := s.Load(ctx, state.Profile.ID)
		require.NoError(t, err)
		assert.Equal(t, state.Profile.TotalXP, got.Profile.TotalXP)
	})

	t.Run("failed save leaves no partial write", func(t *testing.T) {
		s := newStore(t)
		owner := NewState(t)
		require.NoError(t, s.Save(ctx, owner))

		thief := NewState(t)
		thief.Items = append(thief.Items, owner.Items[0])
		err := s.Save(ctx, thief)
		assert.True(t, store.IsDuplicateError(err), "got %v", err)

		_, err = s.Load(ctx, thief.Profile.ID)
		assert.ErrorIs(t, err, store.ErrProfileNotFound)
	})

	t.Run("invalid profile is rejected", func(t *testing.T) {
		s := newStore(t)
		state := NewState(t)
		state.Profile.TotalXP = -5

		err := s.Save(ctx, state)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.ErrorIs(t, s.Save(ctx, nil), store.ErrInvalidEntity)
	})

	t.Run("list profile ids", func(t *testing.T) {
		s := newStore(t)
		a, b := NewState(t), NewState(t)
		require.NoError(t, s.Save(ctx, a))
		require.NoError(t, s.Save(ctx, b))

		ids, err := s.ListProfileIDs(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, a.Profile.ID)
		assert.Contains(t, ids, b.Profile.ID)
	})
}
