package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kofadam/asahi-x-family/internal/domain"
	"github.com/kofadam/asahi-x-family/internal/domain/achievement"
	"github.com/kofadam/asahi-x-family/internal/domain/progression"
	"github.com/kofadam/asahi-x-family/internal/domain/streak"
	"github.com/kofadam/asahi-x-family/internal/engine"
	"github.com/kofadam/asahi-x-family/internal/events"
	"github.com/kofadam/asahi-x-family/internal/platform/logger"
	"github.com/kofadam/asahi-x-family/internal/store"
	"github.com/samber/lo"
)

// Verify interface compliance at compile time
var _ ProgressService = (*progressServiceImpl)(nil)

// Option configures a progress service.
type Option func(*progressServiceImpl)

// WithClock replaces time.Now as the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(s *progressServiceImpl) {
		s.timeFunc = now
	}
}

// WithEmitter publishes engine events through emitter.
func WithEmitter(emitter events.EventEmitter) Option {
	return func(s *progressServiceImpl) {
		s.emitter = emitter
	}
}

type progressServiceImpl struct {
	store    store.ProgressStore
	engine   *engine.Engine
	emitter  events.EventEmitter
	locks    *profileLocks
	timeFunc func() time.Time
	logger   *slog.Logger
}

// errUnchanged is returned by a txFn when the loaded state needs no save.
var errUnchanged = errors.New("unchanged")

// txFn is an engine operation applied to a loaded state.
type txFn func(state domain.ProfileState, now time.Time) (domain.ProfileState, engine.Result, error)

// NewProgressService creates a ProgressService.
func NewProgressService(
	progressStore store.ProgressStore,
	eng *engine.Engine,
	logger *slog.Logger,
	opts ...Option,
) ProgressService {
	if progressStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("progressStore cannot be nil")
	}
	if eng == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("engine cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &progressServiceImpl{
		store:    progressStore,
		engine:   eng,
		locks:    newProfileLocks(),
		timeFunc: time.Now,
		logger:   logger.With(slog.String("component", "progress_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *progressServiceImpl) now() time.Time {
	return s.timeFunc().UTC()
}

// load returns the stored state of profileID, or a fresh state for a
// learner seen for the first time.
func (s *progressServiceImpl) load(
	ctx context.Context,
	op string,
	profileID uuid.UUID,
	now time.Time,
) (domain.ProfileState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	state, err := s.store.Load(ctx, profileID)
	if errors.Is(err, store.ErrProfileNotFound) {
		log.Info("creating profile on first use", slog.String("profile_id", profileID.String()))
		fresh, err := domain.NewProfileState(profileID, now)
		if err != nil {
			return domain.ProfileState{}, NewServiceError(op, "failed to create profile", err)
		}
		return *fresh, nil
	}
	if err != nil {
		log.Error("failed to load progress",
			slog.String("error", err.Error()),
			slog.String("profile_id", profileID.String()))
		return domain.ProfileState{}, NewServiceError(op, "failed to load progress",
			fmt.Errorf("%w: %w", ErrStoreUnavailable, err))
	}

	clean, fixed := engine.Sanitize(*state)
	if len(fixed) > 0 {
		log.Warn("corrected corrupt review items",
			slog.String("profile_id", profileID.String()),
			slog.Any("item_ids", fixed))
	}
	return clean, nil
}

// loadForDisplay loads the learner's state for a read-only view. When the
// store cannot be read it logs the failure and falls back to a fresh state,
// so views show nothing due and nothing earned.
func (s *progressServiceImpl) loadForDisplay(
	ctx context.Context,
	op string,
	profileID uuid.UUID,
	now time.Time,
) (domain.ProfileState, error) {
	state, err := s.load(ctx, op, profileID, now)
	if err == nil || !errors.Is(err, ErrStoreUnavailable) {
		return state, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Warn("showing default progress after load failure",
		slog.String("operation", op),
		slog.String("profile_id", profileID.String()),
		slog.String("error", err.Error()))

	fresh, freshErr := domain.NewProfileState(profileID, now)
	if freshErr != nil {
		return domain.ProfileState{}, err
	}
	return *fresh, nil
}

// update runs fn against the learner's state and persists the result. Writers
// for the same profile are serialized.
func (s *progressServiceImpl) update(
	ctx context.Context,
	op string,
	profileID uuid.UUID,
	fn txFn,
) (*Outcome, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("operation", op),
		slog.String("profile_id", profileID.String()))

	unlock := s.locks.lock(profileID)
	defer unlock()

	now := s.now()
	state, err := s.load(ctx, op, profileID, now)
	if err != nil {
		return nil, err
	}

	next, result, err := fn(state, now)
	if errors.Is(err, errUnchanged) {
		return &Outcome{Profile: s.profileView(state, now)}, nil
	}
	if err != nil {
		log.Debug("engine rejected update", slog.String("error", err.Error()))
		return nil, NewServiceError(op, "update rejected", err)
	}

	if err := s.store.Save(ctx, &next); err != nil {
		log.Error("failed to save progress", slog.String("error", err.Error()))
		return nil, NewServiceError(op, "failed to save progress",
			fmt.Errorf("%w: %w", ErrStoreUnavailable, err))
	}

	log.Debug("progress updated",
		slog.Int("xp_gained", result.XPGained),
		slog.Int("events", len(result.Events)),
		slog.Int("version", next.Version))

	s.emit(ctx, profileID, result.Events, now)

	return &Outcome{Result: result, Profile: s.profileView(next, now)}, nil
}

// emit publishes engine events. Delivery failures never undo a saved update.
func (s *progressServiceImpl) emit(ctx context.Context, profileID uuid.UUID, evs []engine.Event, now time.Time) {
	if s.emitter == nil {
		return
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, ev := range evs {
		event, err := events.NewEvent(events.TypeProgressPrefix+string(ev.Type), profileID, ev, now)
		if err != nil {
			log.Error("failed to build event", slog.String("error", err.Error()))
			continue
		}
		if err := s.emitter.EmitEvent(ctx, event); err != nil {
			log.Warn("event handler failed",
				slog.String("event_type", event.Type),
				slog.String("error", err.Error()))
		}
	}
}

// CompleteLesson implements ProgressService.CompleteLesson
func (s *progressServiceImpl) CompleteLesson(
	ctx context.Context,
	profileID uuid.UUID,
	lessonID string,
	accuracy float64,
) (*Outcome, error) {
	return s.update(ctx, "complete_lesson", profileID,
		func(state domain.ProfileState, now time.Time) (domain.ProfileState, engine.Result, error) {
			return s.engine.CompleteLesson(state, lessonID, accuracy, now)
		})
}

// SubmitReview implements ProgressService.SubmitReview
func (s *progressServiceImpl) SubmitReview(
	ctx context.Context,
	profileID, itemID uuid.UUID,
	rating domain.Rating,
) (*Outcome, error) {
	return s.update(ctx, "submit_review", profileID,
		func(state domain.ProfileState, now time.Time) (domain.ProfileState, engine.Result, error) {
			return s.engine.SubmitReview(state, itemID, rating, now)
		})
}

// RecordPractice implements ProgressService.RecordPractice
func (s *progressServiceImpl) RecordPractice(
	ctx context.Context,
	profileID uuid.UUID,
	practice engine.Practice,
) (*Outcome, error) {
	return s.update(ctx, "record_practice", profileID,
		func(state domain.ProfileState, now time.Time) (domain.ProfileState, engine.Result, error) {
			return s.engine.RecordPractice(state, practice, now)
		})
}

// SetTravelMode implements ProgressService.SetTravelMode
func (s *progressServiceImpl) SetTravelMode(
	ctx context.Context,
	profileID uuid.UUID,
	active bool,
) (*ProfileView, error) {
	outcome, err := s.update(ctx, "set_travel_mode", profileID,
		func(state domain.ProfileState, now time.Time) (domain.ProfileState, engine.Result, error) {
			next, changed := s.engine.SetTravelMode(state, active, now)
			if !changed {
				return state, engine.Result{}, errUnchanged
			}
			return next, engine.Result{}, nil
		})
	if err != nil {
		return nil, err
	}
	return &outcome.Profile, nil
}

// UpdatePreferences implements ProgressService.UpdatePreferences
func (s *progressServiceImpl) UpdatePreferences(
	ctx context.Context,
	profileID uuid.UUID,
	prefs domain.Preferences,
) (*ProfileView, error) {
	if err := prefs.Validate(); err != nil {
		return nil, NewServiceError("update_preferences", "invalid preferences", err)
	}

	outcome, err := s.update(ctx, "update_preferences", profileID,
		func(state domain.ProfileState, now time.Time) (domain.ProfileState, engine.Result, error) {
			next := state.Clone()
			next.Profile.Preferences = prefs
			next.Profile.UpdatedAt = now
			return next, engine.Result{}, nil
		})
	if err != nil {
		return nil, err
	}
	return &outcome.Profile, nil
}

// Profile implements ProgressService.Profile
func (s *progressServiceImpl) Profile(ctx context.Context, profileID uuid.UUID) (*ProfileView, error) {
	now := s.now()
	state, err := s.load(ctx, "get_profile", profileID, now)
	if err != nil {
		return nil, err
	}
	view := s.profileView(state, now)
	return &view, nil
}

func (s *progressServiceImpl) profileView(state domain.ProfileState, now time.Time) ProfileView {
	local := now.In(state.Profile.Preferences.Location())
	availability := streak.Availability(state.Streak, local)

	return ProfileView{
		ID:      state.Profile.ID,
		TotalXP: state.Profile.TotalXP,
		Level:   achievement.ProgressFor(state.Profile.TotalXP),
		Streak: StreakView{
			Current:               streak.DisplayCount(state.Streak, local),
			Longest:               state.Streak.Longest,
			Active:                streak.IsActive(state.Streak, local),
			LastStudyDate:         state.Streak.LastStudyDate,
			TravelModeActive:      availability.TravelModeActive,
			CulturalRestAvailable: availability.CulturalRestAvailable,
		},
		Achievements:       state.Profile.Achievements,
		Preferences:        state.Profile.Preferences,
		LessonsCompleted:   state.Progress.TotalLessonsCompleted,
		CulturalCompetency: progression.CulturalCompetency(state.Progress),
		DueCount:           len(s.engine.DueItems(state, now)),
		CreatedAt:          state.Profile.CreatedAt,
		UpdatedAt:          state.Profile.UpdatedAt,
	}
}

// DueReviews implements ProgressService.DueReviews
func (s *progressServiceImpl) DueReviews(ctx context.Context, profileID uuid.UUID) ([]DueReview, error) {
	now := s.now()
	state, err := s.load(ctx, "due_reviews", profileID, now)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("reporting no due reviews after load failure",
			slog.String("profile_id", profileID.String()),
			slog.String("error", err.Error()))
		return []DueReview{}, nil
	}

	catalog := s.engine.Gate().Catalog()
	scheduler := s.engine.Scheduler()

	return lo.Map(s.engine.DueItems(state, now), func(item domain.ReviewItem, _ int) DueReview {
		title := item.ContentRef
		if lesson, ok := catalog.Lookup(item.ContentRef); ok {
			title = lesson.Title
		}
		return DueReview{
			ID:             item.ID,
			ContentRef:     item.ContentRef,
			Title:          title,
			State:          item.State,
			NextReviewAt:   item.NextReviewAt,
			Retrievability: scheduler.Retrievability(item, now),
			ReviewCount:    item.ReviewCount,
			Lapses:         item.Lapses,
		}
	}), nil
}

// Lessons implements ProgressService.Lessons
func (s *progressServiceImpl) Lessons(ctx context.Context, profileID uuid.UUID) (*LessonsView, error) {
	state, err := s.loadForDisplay(ctx, "list_lessons", profileID, s.now())
	if err != nil {
		return nil, err
	}

	gate := s.engine.Gate()
	return &LessonsView{
		Lessons:            gate.Statuses(state.Progress),
		Stats:              gate.Stats(state.Progress),
		CulturalCompetency: progression.CulturalCompetency(state.Progress),
	}, nil
}

// NextLesson implements ProgressService.NextLesson
func (s *progressServiceImpl) NextLesson(ctx context.Context, profileID uuid.UUID) (*NextLessonView, error) {
	state, err := s.loadForDisplay(ctx, "next_lesson", profileID, s.now())
	if err != nil {
		return nil, err
	}

	lesson, ok := s.engine.Gate().NextRecommended(state.Progress)
	if !ok {
		return &NextLessonView{CaughtUp: true}, nil
	}
	return &NextLessonView{Lesson: &lesson}, nil
}

// Achievements implements ProgressService.Achievements
func (s *progressServiceImpl) Achievements(ctx context.Context, profileID uuid.UUID) ([]AchievementView, error) {
	state, err := s.loadForDisplay(ctx, "list_achievements", profileID, s.now())
	if err != nil {
		return nil, err
	}

	snap := achievement.NewSnapshot(state.Profile, state.Progress, state.Streak)
	return lo.Map(s.engine.Evaluator().Definitions(),
		func(def domain.AchievementDefinition, _ int) AchievementView {
			earned := state.Profile.HasAchievement(def.ID)
			progress := achievement.ProgressOf(def, snap)
			if earned {
				progress.Completed = true
			}
			return AchievementView{
				AchievementDefinition: def,
				Earned:                earned,
				Progress:              progress,
			}
		}), nil
}
