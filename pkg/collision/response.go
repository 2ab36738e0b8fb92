package collision

import (
	"github.com/opd-ai/go-ballpit/pkg/entity"
	"github.com/opd-ai/go-ballpit/pkg/physics"
)

// Bounce applies a perfectly elastic impulse between a and b along the unit
// normal pointing from a to b. Bodies without mass are left alone.
func Bounce(a, b *entity.Body, normal physics.Vector2D) {
	total := a.Mass() + b.Mass()
	if total == 0 {
		return
	}
	k := a.Velocity.Sub(b.Velocity)
	p := 2 * normal.Dot(k) / total

	a.Velocity = a.Velocity.Sub(normal.Scale(p * b.Mass()))
	b.Velocity = b.Velocity.Add(normal.Scale(p * a.Mass()))
}

// Resolve bounces every pair in order. lookup maps ids back to bodies; pairs
// whose bodies have gone missing are skipped and counted in the result.
func Resolve(pairs []Pair, lookup func(id uint64) (*entity.Body, bool)) (skipped int) {
	for _, pair := range pairs {
		a, okA := lookup(pair.A)
		b, okB := lookup(pair.B)
		if !okA || !okB {
			skipped++
			continue
		}
		Bounce(a, b, pair.Normal)
	}
	return skipped
}
