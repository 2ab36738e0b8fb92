// Package collision detects and resolves contacts between bodies and
// against the arena walls.
package collision

import (
	"math"

	"github.com/opd-ai/go-ballpit/pkg/entity"
	"github.com/opd-ai/go-ballpit/pkg/physics"
)

// Pair is one detected contact. Normal is the unit vector from A towards B
// taken before the overlap was corrected.
type Pair struct {
	A      uint64
	B      uint64
	Normal physics.Vector2D
}

type pairKey struct{ lo, hi uint64 }

func keyOf(a, b uint64) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// fallbackAxis separates bodies whose centers coincide exactly.
var fallbackAxis = physics.Vec(1, 0)

// Collisions accumulates the contacts of one broad-phase pass. Overlaps are
// corrected as they are found; velocities are left for Bounce once the pass
// is over.
type Collisions struct {
	pairs []Pair
	seen  map[pairKey]struct{}
}

// NewCollisions creates an accumulator sized for capacity pairs.
func NewCollisions(capacity int) *Collisions {
	if capacity < 0 {
		capacity = 0
	}
	return &Collisions{pairs: make([]Pair, 0, capacity)}
}

// WithDedup makes the accumulator ignore a pair of ids it has already
// recorded. Bodies straddling a split line share several leaves, so without
// this the same contact can be recorded, and later bounced, more than once.
func (c *Collisions) WithDedup() *Collisions {
	if c.seen == nil {
		c.seen = make(map[pairKey]struct{})
	}
	return c
}

// Check tests a against b. When they overlap, each is pushed back by half
// the penetration along the line of centers and the pair is recorded.
func (c *Collisions) Check(a, b *entity.Body) bool {
	if a.ID() == b.ID() {
		return false
	}
	if c.seen != nil {
		if _, done := c.seen[keyOf(a.ID(), b.ID())]; done {
			return false
		}
	}

	d := a.Position.Sub(b.Position)
	r := a.Radius() + b.Radius()
	distSq := d.LengthSquared()
	if distSq > r*r {
		return false
	}

	dist := math.Sqrt(distSq)
	u := fallbackAxis
	if dist > 0 {
		u = physics.Vec(d.X/dist, d.Y/dist)
	}
	// overlap is negative: dist <= r.
	overlap := (dist - r) * 0.5
	a.Position = a.Position.Sub(u.Scale(overlap))
	b.Position = b.Position.Add(u.Scale(overlap))

	c.pairs = append(c.pairs, Pair{A: a.ID(), B: b.ID(), Normal: u.Neg()})
	if c.seen != nil {
		c.seen[keyOf(a.ID(), b.ID())] = struct{}{}
	}
	return true
}

// CheckRegion checks every unordered pair of bodies once and returns how many
// contacts it recorded.
func (c *Collisions) CheckRegion(bodies []*entity.Body) int {
	found := 0
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			if c.Check(bodies[i], bodies[j]) {
				found++
			}
		}
	}
	return found
}

// Pairs returns the recorded contacts in detection order.
func (c *Collisions) Pairs() []Pair {
	return c.pairs
}

// Len is the number of recorded contacts.
func (c *Collisions) Len() int {
	return len(c.pairs)
}
