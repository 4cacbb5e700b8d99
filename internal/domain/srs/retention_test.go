package srs

import (
	"math"
	"testing"

	"github.com/kofadam/asahi-x-family/internal/domain"
	"github.com/stretchr/testify/assert"
)

var allRatings = []domain.Rating{
	domain.RatingAgain,
	domain.RatingHard,
	domain.RatingGood,
	domain.RatingEasy,
}

func TestRetrievability(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	assert.Equal(t, 1.0, retrievability(0, 5, params), "same-day review recalls with certainty")
	assert.Equal(t, 1.0, retrievability(-2, 5, params))
	assert.InDelta(t, math.Exp(-0.5), retrievability(3, 3, params), 1e-12)
	assert.Less(t, retrievability(10, 3, params), retrievability(5, 3, params))
}

func TestNextDifficulty(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name       string
		difficulty float64
		rating     domain.Rating
		expected   float64
	}{
		{"good moves by w6 * factor", 0.3, domain.RatingGood, 0.3 + 0.86*19.0/81.0},
		{"easy moves by (w6 - 1) * factor", 0.5, domain.RatingEasy, 0.5 + (0.86-1)*19.0/81.0},
		{"again clamps at 1", 0.9, domain.RatingAgain, 1},
		{"easy clamps at 0", 0.01, domain.RatingEasy, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, nextDifficulty(tc.difficulty, tc.rating, params), 1e-12)
		})
	}
}

func TestRecallStabilityMatchesFormula(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	w := params.W

	d, s, r := 0.4, 3.0, 0.8
	base := math.Exp(w[8]) * math.Pow(d, w[9]) * math.Pow(s, w[10]) * (math.Exp((1-r)*w[7]) - 1)

	assert.InDelta(t, s*(1+base), recallStability(d, s, r, domain.RatingGood, params), 1e-12)
	assert.InDelta(t, s*(1+base*w[15]), recallStability(d, s, r, domain.RatingHard, params), 1e-12)
	assert.InDelta(t, s*(1+base*w[16]), recallStability(d, s, r, domain.RatingEasy, params), 1e-12)
}

func TestForgetStabilityUsesCurveWhenLower(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	w := params.W

	// A long-lived memory forgotten after a long gap falls to the curve.
	d, s, r := 0.5, 200.0, 0.1
	curve := w[11] * math.Pow(d, w[12]) * math.Pow(s, w[13]) * math.Exp(w[14]*(1-r))

	assert.Less(t, curve, s/params.lapseDivisor())
	assert.InDelta(t, curve, forgetStability(d, s, r, params), 1e-12)
}

func TestStabilityPropertiesAcrossGrid(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	difficulties := []float64{0, 0.1, 0.3, 0.5, 0.8, 1}
	stabilities := []float64{0.1, 0.5, 1, 2.5, 10, 90, 365, 5000}
	elapsed := []float64{0, 0.5, 1, 3, 30, 400}

	for _, d := range difficulties {
		for _, s := range stabilities {
			for _, e := range elapsed {
				for _, rating := range allRatings {
					newD, newS := nextMemoryState(d, s, e, rating, params)

					assert.GreaterOrEqual(t, newD, 0.0)
					assert.LessOrEqual(t, newD, 1.0)
					assert.GreaterOrEqual(t, newS, params.StabilityFloor)

					switch rating {
					case domain.RatingGood, domain.RatingEasy, domain.RatingHard:
						assert.GreaterOrEqual(t, newS, s, "success never lowers stability (d=%v s=%v e=%v %v)", d, s, e, rating)
					case domain.RatingAgain:
						if s > params.StabilityFloor {
							assert.Less(t, newS, s, "lapse lowers stability (d=%v s=%v e=%v)", d, s, e)
						} else {
							assert.Equal(t, params.StabilityFloor, newS)
						}
					}

					interval := nextInterval(newS, params)
					assert.GreaterOrEqual(t, interval, 1.0)
					assert.LessOrEqual(t, interval, float64(params.MaximumInterval))
				}
			}
		}
	}
}

func TestNextIntervalClamps(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	assert.Equal(t, 1.0, nextInterval(0.1, params))
	assert.InDelta(t, 12.5, nextInterval(12.5, params), 1e-9, "retention 0.9 makes interval equal stability")
	assert.Equal(t, 36500.0, nextInterval(1e9, params))

	lower := NewParams(ParamsConfig{RequestRetention: 0.8})
	assert.Greater(t, nextInterval(10, lower), 10.0, "lower retention target stretches intervals")
}
