package domain

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

// ItemState is the scheduling phase of a review item.
type ItemState string

// Possible item states. There is no terminal state: items are reviewed
// indefinitely.
const (
	ItemStateNew        ItemState = "new"
	ItemStateLearning   ItemState = "learning"
	ItemStateReview     ItemState = "review"
	ItemStateRelearning ItemState = "relearning"
)

// IsValid reports whether s is a known item state.
func (s ItemState) IsValid() bool {
	switch s {
	case ItemStateNew, ItemStateLearning, ItemStateReview, ItemStateRelearning:
		return true
	default:
		return false
	}
}

// MinStability is the floor applied to every stability value.
const MinStability = 0.1

// Validation errors for ReviewItem
var (
	ErrEmptyItemID          = errors.New("review item ID cannot be empty")
	ErrEmptyContentRef      = errors.New("review item content reference cannot be empty")
	ErrDifficultyOutOfRange = errors.New("difficulty must be within [0, 1]")
	ErrNonPositiveStability = errors.New("stability must be greater than 0")
	ErrReviewBeforeLast     = errors.New("next review cannot precede last review")
)

// ReviewItem holds the spaced repetition state of one piece of content for
// one learner. It is created when its owning lesson is first completed and
// is only ever changed by scheduling.
type ReviewItem struct {
	ID                uuid.UUID `json:"id"`
	ContentRef        string    `json:"content_ref"`
	State             ItemState `json:"state"`
	Difficulty        float64   `json:"difficulty"`
	Stability         float64   `json:"stability"`          // days
	ElapsedDays       float64   `json:"elapsed_days"`       // days since the previous review, as of the last scheduling
	ScheduledInterval float64   `json:"scheduled_interval"` // days
	LastReviewedAt    time.Time `json:"last_reviewed_at"`
	NextReviewAt      time.Time `json:"next_review_at"`
	ReviewCount       int       `json:"review_count"`
	Lapses            int       `json:"lapses"`
}

// Validate checks the structural invariants of the item.
func (i *ReviewItem) Validate() error {
	if i.ID == uuid.Nil {
		return ErrEmptyItemID
	}
	if i.ContentRef == "" {
		return ErrEmptyContentRef
	}
	if !i.State.IsValid() {
		return ErrInvalidItemState
	}
	if i.Difficulty < 0 || i.Difficulty > 1 {
		return ErrDifficultyOutOfRange
	}
	if i.Stability <= 0 {
		return ErrNonPositiveStability
	}
	if i.NextReviewAt.Before(i.LastReviewedAt) {
		return ErrReviewBeforeLast
	}
	return nil
}

// IsDue reports whether the item should be reviewed at now.
func (i ReviewItem) IsDue(now time.Time) bool {
	return !i.NextReviewAt.After(now)
}

// Sanitize returns a copy of the item with out-of-range memory parameters
// clamped back into their valid ranges. The boolean reports whether anything
// had to be corrected.
func (i ReviewItem) Sanitize() (ReviewItem, bool) {
	fixed := false
	if math.IsNaN(i.Stability) || i.Stability < MinStability {
		i.Stability = MinStability
		fixed = true
	}
	switch {
	case math.IsNaN(i.Difficulty):
		i.Difficulty = 0.5
		fixed = true
	case i.Difficulty < 0:
		i.Difficulty = 0
		fixed = true
	case i.Difficulty > 1:
		i.Difficulty = 1
		fixed = true
	}
	if !i.State.IsValid() {
		i.State = ItemStateReview
		fixed = true
	}
	if i.NextReviewAt.Before(i.LastReviewedAt) {
		i.NextReviewAt = i.LastReviewedAt
		fixed = true
	}
	return i, fixed
}
