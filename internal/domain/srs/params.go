package srs

import (
	"errors"
	"fmt"
	"math"

	"github.com/kofadam/asahi-x-family/internal/domain"
)

// Weights is the fixed 17-component weight vector of the retention model.
// Schedules are only comparable between implementations that share it.
type Weights [17]float64

// DefaultWeights is the weight table every schedule is computed with.
var DefaultWeights = Weights{
	0.4, 0.6, 2.4, 5.8, 4.93, 0.94, 0.86, 0.01, 1.49,
	0.14, 0.94, 2.18, 0.05, 0.34, 1.26, 0.29, 2.61,
}

// ErrInvalidParams is returned when parameters are outside their valid ranges.
var ErrInvalidParams = errors.New("invalid scheduler parameters")

// Params defines all configurable parameters for the scheduler
type Params struct {
	W Weights

	// Decay is the exponent of the forgetting curve.
	Decay float64
	// Factor scales difficulty updates.
	Factor float64

	// ShortTermW17 and ShortTermW18 bound the stability left after a lapse:
	// a lapse never leaves more than stability / exp(w17*w18).
	ShortTermW17 float64
	ShortTermW18 float64

	RequestRetention float64
	MaximumInterval  int // days
	StabilityFloor   float64
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance. Zero values keep the defaults.
type ParamsConfig struct {
	RequestRetention float64
	MaximumInterval  int
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		W:                DefaultWeights,
		Decay:            -0.5,
		Factor:           19.0 / 81.0,
		ShortTermW17:     0.5034,
		ShortTermW18:     0.6567,
		RequestRetention: 0.9,
		MaximumInterval:  36500,
		StabilityFloor:   domain.MinStability,
	}
}

// NewParams creates a Params instance with custom values, falling back to
// the defaults for any zero value in cfg.
func NewParams(cfg ParamsConfig) *Params {
	params := NewDefaultParams()

	if cfg.RequestRetention != 0 {
		params.RequestRetention = cfg.RequestRetention
	}
	if cfg.MaximumInterval != 0 {
		params.MaximumInterval = cfg.MaximumInterval
	}

	return params
}

// Validate checks the parameters can produce finite, positive intervals.
func (p *Params) Validate() error {
	if p.RequestRetention <= 0 || p.RequestRetention >= 1 {
		return fmt.Errorf("%w: request retention %v must be within (0, 1)", ErrInvalidParams, p.RequestRetention)
	}
	if p.MaximumInterval < 1 {
		return fmt.Errorf("%w: maximum interval %d must be at least 1 day", ErrInvalidParams, p.MaximumInterval)
	}
	if p.StabilityFloor <= 0 {
		return fmt.Errorf("%w: stability floor must be positive", ErrInvalidParams)
	}
	if p.Decay >= 0 {
		return fmt.Errorf("%w: decay must be negative", ErrInvalidParams)
	}
	return nil
}

// lapseDivisor is exp(w17*w18).
func (p *Params) lapseDivisor() float64 {
	return math.Exp(p.ShortTermW17 * p.ShortTermW18)
}
