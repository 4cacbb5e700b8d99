package srs

import (
	"math"

	"github.com/kofadam/asahi-x-family/internal/domain"
)

// retrievability estimates recall probability after elapsedDays for a
// memory of the given stability. Same-day reviews recall with certainty.
func retrievability(elapsedDays, stability float64, params *Params) float64 {
	if elapsedDays <= 0 {
		return 1
	}
	return math.Exp(params.Decay * elapsedDays / stability)
}

// nextDifficulty moves difficulty by (w6 - (grade-3)) * factor and clamps it
// into [0, 1].
func nextDifficulty(difficulty float64, rating domain.Rating, params *Params) float64 {
	delta := params.W[6] - float64(rating.Grade()-3)
	return clamp(difficulty+delta*params.Factor, 0, 1)
}

// forgetStability is the stability after a lapse. It is recomputed from the
// forgetting curve and capped so that a lapse always loses memory.
func forgetStability(difficulty, stability, r float64, params *Params) float64 {
	w := params.W
	curve := w[11] * math.Pow(difficulty, w[12]) * math.Pow(stability, w[13]) * math.Exp(w[14]*(1-r))
	return math.Min(curve, stability/params.lapseDivisor())
}

// recallStability is the stability after a successful review.
func recallStability(difficulty, stability, r float64, rating domain.Rating, params *Params) float64 {
	w := params.W

	hardPenalty := 1.0
	if rating == domain.RatingHard {
		hardPenalty = w[15]
	}
	easyBonus := 1.0
	if rating == domain.RatingEasy {
		easyBonus = w[16]
	}

	growth := math.Exp(w[8]) *
		math.Pow(difficulty, w[9]) *
		math.Pow(stability, w[10]) *
		(math.Exp((1-r)*w[7]) - 1) *
		hardPenalty * easyBonus

	return stability * (1 + growth)
}

// nextMemoryState applies one review to (difficulty, stability). Both
// stability formulas see the difficulty from before the review.
func nextMemoryState(
	difficulty, stability, elapsedDays float64,
	rating domain.Rating,
	params *Params,
) (float64, float64) {
	r := retrievability(elapsedDays, stability, params)

	var newStability float64
	if rating.IsLapse() {
		newStability = forgetStability(difficulty, stability, r, params)
	} else {
		newStability = recallStability(difficulty, stability, r, rating, params)
	}

	if math.IsNaN(newStability) || newStability < params.StabilityFloor {
		newStability = params.StabilityFloor
	}

	return nextDifficulty(difficulty, rating, params), newStability
}

// nextInterval converts stability into days until the next review at the
// requested retention, clamped to [1, MaximumInterval].
func nextInterval(stability float64, params *Params) float64 {
	interval := stability * math.Log(params.RequestRetention) / math.Log(0.9)
	return clamp(interval, 1, float64(params.MaximumInterval))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
