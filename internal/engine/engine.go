package engine

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/kofadam/asahi-x-family/internal/domain"
	"github.com/kofadam/asahi-x-family/internal/domain/achievement"
	"github.com/kofadam/asahi-x-family/internal/domain/progression"
	"github.com/kofadam/asahi-x-family/internal/domain/srs"
	"github.com/kofadam/asahi-x-family/internal/domain/streak"
)

// Result describes everything one update produced.
type Result struct {
	// Events is the priority-ordered list to present.
	Events []Event `json:"events"`
	// Earned lists every achievement earned by the update, including those
	// whose events were suppressed by a level-up.
	Earned   []achievement.Unlocked `json:"earned"`
	XPGained int                    `json:"xp_gained"`
	Streak   streak.Outcome         `json:"-"`
	// Item is the review item created or rescheduled by the update.
	Item     *domain.ReviewItem `json:"item,omitempty"`
	DueCount int                `json:"due_count"`
}

// Engine runs the update pipeline. It holds no per-learner state and is safe
// for concurrent use.
type Engine struct {
	scheduler srs.Service
	gate      *progression.Gate
	evaluator *achievement.Evaluator
	xp        XPRules
}

// New creates an Engine. Zero XP rules fall back to DefaultXPRules.
func New(
	scheduler srs.Service,
	gate *progression.Gate,
	evaluator *achievement.Evaluator,
	xp XPRules,
) *Engine {
	if scheduler == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("scheduler cannot be nil for Engine")
	}
	if gate == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("gate cannot be nil for Engine")
	}
	if evaluator == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("evaluator cannot be nil for Engine")
	}
	return &Engine{
		scheduler: scheduler,
		gate:      gate,
		evaluator: evaluator,
		xp:        xp.withDefaults(),
	}
}

// NewDefault creates an Engine with the built-in catalog, achievements,
// scheduler parameters and XP rules.
func NewDefault() *Engine {
	return New(
		srs.NewDefaultService(),
		progression.NewGate(progression.DefaultCatalog()),
		achievement.DefaultEvaluator(),
		DefaultXPRules(),
	)
}

// Gate returns the progression gate.
func (e *Engine) Gate() *progression.Gate { return e.gate }

// Evaluator returns the achievement evaluator.
func (e *Engine) Evaluator() *achievement.Evaluator { return e.evaluator }

// Scheduler returns the review scheduler.
func (e *Engine) Scheduler() srs.Service { return e.scheduler }

// CompleteLesson records a lesson completion with the given accuracy. The
// first completion creates the lesson's review item.
func (e *Engine) CompleteLesson(
	state domain.ProfileState,
	lessonID string,
	accuracy float64,
	now time.Time,
) (domain.ProfileState, Result, error) {
	lesson, ok := e.gate.Catalog().Lookup(lessonID)
	if !ok {
		return state, Result{}, ErrLessonNotFound
	}
	if !e.gate.IsUnlocked(lessonID, state.Progress) {
		return state, Result{}, ErrLessonLocked
	}
	if math.IsNaN(accuracy) || accuracy < 0 || accuracy > 1 {
		return state, Result{}, ErrInvalidAccuracy
	}

	next := state.Clone()
	var result Result

	rec := next.Progress.Lessons[lessonID]
	rec.LessonID = lessonID
	rec.Attempts++
	if accuracy > rec.AccuracyScore {
		rec.AccuracyScore = accuracy
	}
	if !rec.Completed {
		item, err := e.scheduler.InitializeItem(lessonID, now)
		if err != nil {
			return state, Result{}, err
		}
		rec.Completed = true
		rec.CompletedAt = now
		rec.ReviewItemIDs = append(rec.ReviewItemIDs, item.ID)
		next.Items = append(next.Items, item)
		next.Progress.TotalLessonsCompleted++
		result.Item = &item
	}
	if accuracy >= 1 {
		next.Progress.HasPerfectScore = true
	}
	next.Progress.Lessons[lessonID] = rec

	next, result = e.pipeline(state, next, lesson.XPReward, true, now, result)
	return next, result, nil
}

// SubmitReview schedules a review item with rating.
func (e *Engine) SubmitReview(
	state domain.ProfileState,
	itemID uuid.UUID,
	rating domain.Rating,
	now time.Time,
) (domain.ProfileState, Result, error) {
	if !rating.IsValid() {
		return state, Result{}, domain.ErrInvalidRating
	}
	idx, ok := state.FindItem(itemID)
	if !ok {
		return state, Result{}, ErrItemNotFound
	}

	item, err := e.scheduler.Schedule(state.Items[idx], rating, now)
	if err != nil {
		return state, Result{}, err
	}

	next := state.Clone()
	next.Items[idx] = item

	xp := e.xp.ReviewSuccess
	if rating.IsLapse() {
		xp = e.xp.ReviewLapse
	}

	next, result := e.pipeline(state, next, xp, false, now, Result{Item: &item})
	return next, result, nil
}

// RecordPractice records a practice session outside the lesson chain.
func (e *Engine) RecordPractice(
	state domain.ProfileState,
	practice Practice,
	now time.Time,
) (domain.ProfileState, Result, error) {
	if err := practice.Validate(); err != nil {
		return state, Result{}, err
	}

	next := state.Clone()
	var xp int

	switch practice.Kind {
	case PracticeScenario:
		next.Progress.TotalScenariosCompleted++
		xp = e.xp.Scenario
	case PracticeModule:
		next.Progress.TotalModulesCompleted++
		xp = e.xp.Module
	case PracticeSpeedDrill:
		best := next.Progress.BestSpeedDrillSeconds
		if best == 0 || practice.Seconds < best {
			next.Progress.BestSpeedDrillSeconds = practice.Seconds
		}
		xp = e.xp.SpeedDrill
	case PracticeAnimeReading:
		next.Progress.AnimeWordsRead += practice.Count
		xp = e.xp.AnimeWord * practice.Count
	}

	next, result := e.pipeline(state, next, xp, false, now, Result{})
	return next, result, nil
}

// SetTravelMode switches travel mode on or off. It is not learning
// activity: no XP is awarded and the streak count does not change. The
// boolean is false when the mode was already in the requested position.
func (e *Engine) SetTravelMode(state domain.ProfileState, active bool, now time.Time) (domain.ProfileState, bool) {
	local := now.In(state.Profile.Preferences.Location())

	var (
		updated domain.StreakState
		changed bool
	)
	if active {
		updated, changed = streak.ActivateTravelMode(state.Streak, local)
	} else {
		updated, changed = streak.DeactivateTravelMode(state.Streak, local)
	}
	if !changed {
		return state, false
	}

	next := state.Clone()
	next.Streak = updated
	next.Profile.UpdatedAt = now
	return next, true
}

// DueItems returns the learner's items due at now, most overdue first.
func (e *Engine) DueItems(state domain.ProfileState, now time.Time) []domain.ReviewItem {
	return e.scheduler.DueItems(state.Items, now)
}

// Sanitize clamps corrupt review items loaded from storage and returns the
// ids of the items that had to be corrected.
func Sanitize(state domain.ProfileState) (domain.ProfileState, []uuid.UUID) {
	var fixedIDs []uuid.UUID
	next := state.Clone()
	for i, item := range next.Items {
		clean, fixed := item.Sanitize()
		if fixed {
			next.Items[i] = clean
			fixedIDs = append(fixedIDs, item.ID)
		}
	}
	if len(fixedIDs) == 0 {
		return state, nil
	}
	return next, fixedIDs
}

// pipeline runs the stages that follow an activity: streak, XP and level,
// achievements, events. before is the state at the start of the update and
// next already carries the activity.
func (e *Engine) pipeline(
	before, next domain.ProfileState,
	baseXP int,
	streakBonus bool,
	now time.Time,
	result Result,
) (domain.ProfileState, Result) {
	local := now.In(next.Profile.Preferences.Location())

	// streak
	var outcome streak.Outcome
	next.Streak, outcome = streak.RecordActivity(next.Streak, local)
	next.Profile.StreakCount = next.Streak.Current
	next.Profile.LastActivityDate = next.Streak.LastStudyDate
	result.Streak = outcome

	// XP and level
	gained := baseXP
	if streakBonus {
		gained += streak.Bonus(next.Streak.Current)
	}
	next.Profile.TotalXP += gained
	next.Profile.Level = achievement.Level(next.Profile.TotalXP)

	// achievements
	earned := e.evaluator.Evaluate(next.Profile, next.Progress, next.Streak)
	next.Profile, result.Earned = achievement.Award(next.Profile, earned, now)
	for _, u := range result.Earned {
		gained += u.XPReward
	}
	next.Profile.UpdatedAt = now
	result.XPGained = gained

	// events
	var levelUp *achievement.LevelUp
	if up, ok := achievement.CheckLevelUp(before.Profile.TotalXP, next.Profile.TotalXP); ok {
		levelUp = &up
	}
	result.Events = collectEvents(levelUp, result.Earned, outcome)
	result.DueCount = len(e.scheduler.DueItems(next.Items, now))

	return next, result
}
