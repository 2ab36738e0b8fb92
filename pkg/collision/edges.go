package collision

import (
	"strings"

	"github.com/opd-ai/go-ballpit/pkg/entity"
	"github.com/opd-ai/go-ballpit/pkg/physics"
)

// WallHits records which walls a body bounced off in one check.
type WallHits uint8

const (
	HitLeft WallHits = 1 << iota
	HitRight
	HitTop
	HitBottom
)

// Any reports whether at least one wall was hit.
func (h WallHits) Any() bool { return h != 0 }

func (h WallHits) String() string {
	if h == 0 {
		return "none"
	}
	var names []string
	for _, w := range []struct {
		hit  WallHits
		name string
	}{{HitLeft, "left"}, {HitRight, "right"}, {HitTop, "top"}, {HitBottom, "bottom"}} {
		if h&w.hit != 0 {
			names = append(names, w.name)
		}
	}
	return strings.Join(names, "|")
}

// Edges bounces bodies off the inside of an arena. A body that crossed a
// wall is mirrored back by its overshoot and its velocity across that wall
// is reversed.
type Edges struct {
	Bounds physics.Bounds
}

// NewEdges creates wall checks for arena.
func NewEdges(arena physics.Bounds) Edges {
	return Edges{Bounds: arena}
}

// Left handles the wall at the smallest X.
func (e Edges) Left(b *entity.Body) bool {
	limit := e.Bounds.Left() + b.Radius()
	if b.Position.X > limit {
		return false
	}
	b.Position.X = limit + (limit - b.Position.X)
	b.Velocity.X *= -1
	return true
}

// Right handles the wall at the largest X.
func (e Edges) Right(b *entity.Body) bool {
	limit := e.Bounds.Right() - b.Radius()
	if b.Position.X < limit {
		return false
	}
	b.Position.X = limit - (b.Position.X - limit)
	b.Velocity.X *= -1
	return true
}

// Top handles the wall at the smallest Y.
func (e Edges) Top(b *entity.Body) bool {
	limit := e.Bounds.Top() + b.Radius()
	if b.Position.Y > limit {
		return false
	}
	b.Position.Y = limit + (limit - b.Position.Y)
	b.Velocity.Y *= -1
	return true
}

// Bottom handles the wall at the largest Y.
func (e Edges) Bottom(b *entity.Body) bool {
	limit := e.Bounds.Bottom() - b.Radius()
	if b.Position.Y < limit {
		return false
	}
	b.Position.Y = limit - (b.Position.Y - limit)
	b.Velocity.Y *= -1
	return true
}

// Resolve checks one wall per axis: the right wall is skipped when the left
// one bounced the body, and likewise bottom after top.
func (e Edges) Resolve(b *entity.Body) WallHits {
	var hits WallHits
	if e.Left(b) {
		hits |= HitLeft
	} else if e.Right(b) {
		hits |= HitRight
	}
	if e.Top(b) {
		hits |= HitTop
	} else if e.Bottom(b) {
		hits |= HitBottom
	}
	return hits
}
