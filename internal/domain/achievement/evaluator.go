package achievement

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/kofadam/asahi-x-family/internal/domain"
	"github.com/samber/lo"
)

// Definition errors
var (
	ErrDuplicateAchievement = errors.New("duplicate achievement id")
	ErrEmptyAchievementID   = errors.New("achievement id cannot be empty")
)

// Unlocked is the record of an achievement being earned.
type Unlocked struct {
	ID       string                     `json:"id"`
	Title    string                     `json:"title"`
	Category domain.AchievementCategory `json:"category"`
	XPReward int                        `json:"xp_reward"`
	EarnedAt time.Time                  `json:"earned_at"`
}

// RequirementProgress describes how close a learner is to an achievement.
type RequirementProgress struct {
	Current    float64 `json:"current"`
	Target     float64 `json:"target"`
	Percentage float64 `json:"percentage"`
	Completed  bool    `json:"completed"`
}

// Evaluator matches a fixed list of achievement definitions.
type Evaluator struct {
	definitions []domain.AchievementDefinition
	index       map[string]int
}

// NewEvaluator validates definitions and keeps them in declared order.
func NewEvaluator(definitions []domain.AchievementDefinition) (*Evaluator, error) {
	e := &Evaluator{
		definitions: make([]domain.AchievementDefinition, 0, len(definitions)),
		index:       make(map[string]int, len(definitions)),
	}
	for _, def := range definitions {
		if def.ID == "" {
			return nil, ErrEmptyAchievementID
		}
		if _, exists := e.index[def.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAchievement, def.ID)
		}
		if err := ValidateRequirement(def.Requirement); err != nil {
			return nil, fmt.Errorf("achievement %s: %w", def.ID, err)
		}
		if def.XPReward < 0 {
			return nil, fmt.Errorf("achievement %s: %w: negative xp reward", def.ID, domain.ErrValidation)
		}
		e.index[def.ID] = len(e.definitions)
		e.definitions = append(e.definitions, def)
	}
	return e, nil
}

// DefaultEvaluator returns an evaluator over DefaultDefinitions.
func DefaultEvaluator() *Evaluator {
	e, err := NewEvaluator(DefaultDefinitions())
	if err != nil {
		// ALLOW-PANIC: built-in definitions are static and covered by tests
		panic(err)
	}
	return e
}

// ValidateRequirement checks that req is one of the supported shapes and
// only references known fields.
func ValidateRequirement(req domain.Requirement) error {
	switch r := req.(type) {
	case domain.ThresholdOnStat:
		if !knownStats[r.Stat] {
			return fmt.Errorf("%w: unknown stat %q", domain.ErrInvalidRequirement, r.Stat)
		}
		if r.Min < 0 || math.IsNaN(r.Min) {
			return fmt.Errorf("%w: threshold on %s must be non-negative", domain.ErrInvalidRequirement, r.Stat)
		}
	case domain.BooleanFlag:
		if !knownFlags[r.Flag] {
			return fmt.Errorf("%w: unknown flag %q", domain.ErrInvalidRequirement, r.Flag)
		}
	case domain.CompositeAnd:
		if len(r.Of) == 0 {
			return fmt.Errorf("%w: empty composite", domain.ErrInvalidRequirement)
		}
		for _, c := range r.Of {
			if _, nested := c.(domain.CompositeAnd); nested {
				return fmt.Errorf("%w: composites cannot be nested", domain.ErrInvalidRequirement)
			}
			if err := ValidateRequirement(c); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: unsupported requirement %T", domain.ErrInvalidRequirement, req)
	}
	return nil
}

// Definitions returns a copy of the definitions in declared order.
func (e *Evaluator) Definitions() []domain.AchievementDefinition {
	out := make([]domain.AchievementDefinition, len(e.definitions))
	copy(out, e.definitions)
	return out
}

// Lookup returns the definition with the given id.
func (e *Evaluator) Lookup(id string) (domain.AchievementDefinition, bool) {
	i, ok := e.index[id]
	if !ok {
		return domain.AchievementDefinition{}, false
	}
	return e.definitions[i], true
}

// Evaluate returns, in declared order, the achievements whose requirements
// hold and that the profile does not already have.
func (e *Evaluator) Evaluate(
	profile domain.UserProfile,
	progress domain.Progress,
	streak domain.StreakState,
) []domain.AchievementDefinition {
	snap := NewSnapshot(profile, progress, streak)
	return lo.Filter(e.definitions, func(def domain.AchievementDefinition, _ int) bool {
		return !profile.HasAchievement(def.ID) && Holds(def.Requirement, snap)
	})
}

// Award returns a copy of profile with each earned achievement recorded and
// its XP credited. Achievements already on the profile are skipped so an
// id and its XP are always applied together exactly once.
func Award(
	profile domain.UserProfile,
	earned []domain.AchievementDefinition,
	now time.Time,
) (domain.UserProfile, []Unlocked) {
	next := profile.Clone()
	unlocked := make([]Unlocked, 0, len(earned))

	for _, def := range earned {
		if next.HasAchievement(def.ID) {
			continue
		}
		next.Achievements = append(next.Achievements, def.ID)
		next.TotalXP += def.XPReward
		unlocked = append(unlocked, Unlocked{
			ID:       def.ID,
			Title:    def.Title,
			Category: def.Category,
			XPReward: def.XPReward,
			EarnedAt: now,
		})
	}

	if len(unlocked) > 0 {
		next.Level = Level(next.TotalXP)
		next.UpdatedAt = now
	}
	return next, unlocked
}

// ProgressOf reports how close snap is to satisfying def.
func ProgressOf(def domain.AchievementDefinition, snap Snapshot) RequirementProgress {
	switch r := def.Requirement.(type) {
	case domain.ThresholdOnStat:
		current := snap.Stats[r.Stat]
		p := RequirementProgress{Current: current, Target: r.Min, Completed: current >= r.Min}
		p.Percentage = 100
		if r.Min > 0 {
			p.Percentage = math.Min(100, current/r.Min*100)
		}
		return p
	case domain.BooleanFlag:
		if snap.Flags[r.Flag] {
			return RequirementProgress{Current: 1, Target: 1, Percentage: 100, Completed: true}
		}
		return RequirementProgress{Target: 1}
	case domain.CompositeAnd:
		met := lo.CountBy(r.Of, func(c domain.Requirement) bool { return Holds(c, snap) })
		p := RequirementProgress{Current: float64(met), Target: float64(len(r.Of))}
		if len(r.Of) > 0 {
			p.Percentage = float64(met) / float64(len(r.Of)) * 100
			p.Completed = met == len(r.Of)
		}
		return p
	default:
		return RequirementProgress{}
	}
}
