package srs

import (
	"math"
	"time"

	"github.com/kofadam/asahi-x-family/internal/domain"
)

const day = 24 * time.Hour

// nextState advances the item state machine for one review.
func nextState(current domain.ItemState, rating domain.Rating) domain.ItemState {
	switch current {
	case domain.ItemStateNew:
		return domain.ItemStateLearning
	case domain.ItemStateLearning:
		if rating.IsLapse() {
			return domain.ItemStateLearning
		}
		return domain.ItemStateReview
	default:
		if rating.IsLapse() {
			return domain.ItemStateRelearning
		}
		return domain.ItemStateReview
	}
}

// elapsedDays is the fractional number of days between two instants, never
// negative.
func elapsedDays(last, now time.Time) float64 {
	if last.IsZero() || !now.After(last) {
		return 0
	}
	return now.Sub(last).Hours() / 24
}

// calculateNextItem is a pure function returning the item as it stands
// after being reviewed with rating at now. The input is not modified.
func calculateNextItem(
	item domain.ReviewItem,
	rating domain.Rating,
	now time.Time,
	params *Params,
) domain.ReviewItem {
	next := item
	elapsed := elapsedDays(item.LastReviewedAt, now)

	next.Difficulty, next.Stability = nextMemoryState(
		item.Difficulty,
		item.Stability,
		elapsed,
		rating,
		params,
	)

	interval := nextInterval(next.Stability, params)
	next.ElapsedDays = elapsed
	next.ScheduledInterval = interval
	next.LastReviewedAt = now
	next.NextReviewAt = now.Add(time.Duration(math.Ceil(interval)) * day)
	next.ReviewCount = item.ReviewCount + 1
	if rating.IsLapse() {
		next.Lapses = item.Lapses + 1
	}
	next.State = nextState(item.State, rating)

	return next
}
