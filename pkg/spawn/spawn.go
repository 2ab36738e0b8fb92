// Package spawn scatters a random population of bodies across an arena.
package spawn

import (
	"fmt"
	"math/rand/v2"

	"github.com/opd-ai/go-ballpit/pkg/entity"
	"github.com/opd-ai/go-ballpit/pkg/physics"
)

// Options describes the population.
type Options struct {
	Count     int
	MinRadius float64
	MaxRadius float64
	MaxSpeed  float64
}

// Validate checks that every body of the population fits inside arena.
func (o Options) Validate(arena physics.Bounds) error {
	switch {
	case o.Count < 0:
		return fmt.Errorf("count must not be negative, got %d", o.Count)
	case o.MinRadius <= 0:
		return fmt.Errorf("min radius must be positive, got %g", o.MinRadius)
	case o.MaxRadius < o.MinRadius:
		return fmt.Errorf("max radius %g is below min radius %g", o.MaxRadius, o.MinRadius)
	case 2*o.MaxRadius >= arena.Width() || 2*o.MaxRadius >= arena.Height():
		return fmt.Errorf("radius %g does not fit in %v", o.MaxRadius, arena)
	case o.MaxSpeed < 0:
		return fmt.Errorf("max speed must not be negative, got %g", o.MaxSpeed)
	}
	return nil
}

// NewRand returns a PCG generator for seed, so equal seeds replay the same
// population.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Population creates o.Count bodies with uniform radii in [MinRadius,
// MaxRadius], velocity components in [-MaxSpeed, MaxSpeed] and positions that
// keep each whole disc inside arena. Bodies may overlap one another; the
// first step separates them.
func Population(rng *rand.Rand, arena physics.Bounds, o Options) ([]*entity.Body, error) {
	if err := o.Validate(arena); err != nil {
		return nil, err
	}
	bodies := make([]*entity.Body, 0, o.Count)
	for i := 0; i < o.Count; i++ {
		r := between(rng, o.MinRadius, o.MaxRadius)
		pos := physics.Vec(
			between(rng, arena.Left()+r, arena.Right()-r),
			between(rng, arena.Top()+r, arena.Bottom()-r),
		)
		vel := physics.Vec(
			between(rng, -o.MaxSpeed, o.MaxSpeed),
			between(rng, -o.MaxSpeed, o.MaxSpeed),
		)
		bodies = append(bodies, entity.NewBody(pos, vel, r))
	}
	return bodies, nil
}

func between(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
