package physics

import (
	"fmt"
	"math"
)

// Bounds is an axis-aligned rectangle described by its center and half
// extents. Half extents are never negative.
type Bounds struct {
	center      Vector2D
	halfExtents Vector2D
}

// NewBounds creates bounds from the top-left corner and a size.
func NewBounds(topLeft Vector2D, width, height float64) Bounds {
	half := Vector2D{X: math.Abs(width) * 0.5, Y: math.Abs(height) * 0.5}
	return BoundsFromCenter(topLeft.Add(half), half)
}

// BoundsFromCenter creates bounds around center. Negative half extents are
// taken by absolute value.
func BoundsFromCenter(center, halfExtents Vector2D) Bounds {
	return Bounds{
		center:      center,
		halfExtents: Vector2D{X: math.Abs(halfExtents.X), Y: math.Abs(halfExtents.Y)},
	}
}

// BoundsFromCorners creates bounds spanning topLeft to bottomRight.
func BoundsFromCorners(topLeft, bottomRight Vector2D) Bounds {
	return NewBounds(topLeft, bottomRight.X-topLeft.X, bottomRight.Y-topLeft.Y)
}

func (b Bounds) Center() Vector2D      { return b.center }
func (b Bounds) HalfExtents() Vector2D { return b.halfExtents }
func (b Bounds) Width() float64        { return b.halfExtents.X * 2 }
func (b Bounds) Height() float64       { return b.halfExtents.Y * 2 }
func (b Bounds) Left() float64         { return b.center.X - b.halfExtents.X }
func (b Bounds) Right() float64        { return b.center.X + b.halfExtents.X }
func (b Bounds) Top() float64          { return b.center.Y - b.halfExtents.Y }
func (b Bounds) Bottom() float64       { return b.center.Y + b.halfExtents.Y }

func (b Bounds) TopLeft() Vector2D     { return Vector2D{X: b.Left(), Y: b.Top()} }
func (b Bounds) TopRight() Vector2D    { return Vector2D{X: b.Right(), Y: b.Top()} }
func (b Bounds) BottomRight() Vector2D { return Vector2D{X: b.Right(), Y: b.Bottom()} }
func (b Bounds) BottomLeft() Vector2D  { return Vector2D{X: b.Left(), Y: b.Bottom()} }

// Corners returns the corners clockwise from the top-left one.
func (b Bounds) Corners() [4]Vector2D {
	return [4]Vector2D{b.TopLeft(), b.TopRight(), b.BottomRight(), b.BottomLeft()}
}

// Contains reports whether point lies inside b. All four edges are inclusive.
func (b Bounds) Contains(point Vector2D) bool {
	return point.X >= b.Left() &&
		point.X <= b.Right() &&
		point.Y >= b.Top() &&
		point.Y <= b.Bottom()
}

// Intersects reports whether any corner of area lies inside b.
//
// This is not a full overlap test: a thin horizontal strip crossing a thin
// vertical one overlaps it without either holding a corner of the other, and
// an area that swallows b entirely is not reported either. The quadtree relies
// on exactly this behaviour to decide which quadrants receive an area entry.
func (b Bounds) Intersects(area Bounds) bool {
	return b.Contains(area.TopLeft()) ||
		b.Contains(area.TopRight()) ||
		b.Contains(area.BottomRight()) ||
		b.Contains(area.BottomLeft())
}

// Overlaps is the exact interval test, inclusive on touching edges.
func (b Bounds) Overlaps(other Bounds) bool {
	return b.Left() <= other.Right() && b.Right() >= other.Left() &&
		b.Top() <= other.Bottom() && b.Bottom() >= other.Top()
}

// Quadrants splits b around its center, in NW, NE, SE, SW order.
func (b Bounds) Quadrants() [4]Bounds {
	c := b.center
	return [4]Bounds{
		BoundsFromCorners(b.TopLeft(), c),
		BoundsFromCorners(Vector2D{X: c.X, Y: b.Top()}, Vector2D{X: b.Right(), Y: c.Y}),
		BoundsFromCorners(c, b.BottomRight()),
		BoundsFromCorners(Vector2D{X: b.Left(), Y: c.Y}, Vector2D{X: c.X, Y: b.Bottom()}),
	}
}

func (b Bounds) String() string {
	return fmt.Sprintf("Bounds{center: %v, top_left: %v, width: %g, height: %g}",
		b.center, b.TopLeft(), b.Width(), b.Height())
}
