package physics

import "fmt"

// LocationKind tells which variant a Location holds.
type LocationKind uint8

const (
	// KindPoint is a zero-size probe.
	KindPoint LocationKind = iota
	// KindArea is a footprint with a non-zero extent.
	KindArea
)

func (k LocationKind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindArea:
		return "area"
	default:
		return fmt.Sprintf("LocationKind(%d)", uint8(k))
	}
}

// Location is what the spatial index stores and is queried with: either a
// point or an area. The zero value is the point at the origin.
type Location struct {
	kind  LocationKind
	point Vector2D
	area  Bounds
}

// PointLocation wraps p.
func PointLocation(p Vector2D) Location {
	return Location{kind: KindPoint, point: p}
}

// AreaLocation wraps b.
func AreaLocation(b Bounds) Location {
	return Location{kind: KindArea, area: b}
}

// NewLocation returns a point when width and height are both zero and an
// area of that size centred on center otherwise.
func NewLocation(center Vector2D, width, height float64) Location {
	if width == 0 && height == 0 {
		return PointLocation(center)
	}
	return AreaLocation(BoundsFromCenter(center, Vector2D{X: width * 0.5, Y: height * 0.5}))
}

func (l Location) Kind() LocationKind { return l.kind }
func (l Location) IsPoint() bool      { return l.kind == KindPoint }
func (l Location) IsArea() bool       { return l.kind == KindArea }

// Point returns the wrapped point; ok is false for areas.
func (l Location) Point() (p Vector2D, ok bool) {
	return l.point, l.kind == KindPoint
}

// Area returns the wrapped bounds; ok is false for points.
func (l Location) Area() (b Bounds, ok bool) {
	return l.area, l.kind == KindArea
}

// Center is the point itself, or the center of the area.
func (l Location) Center() Vector2D {
	if l.kind == KindArea {
		return l.area.Center()
	}
	return l.point
}

// SetCenter moves the location, keeping an area's extents.
func (l *Location) SetCenter(center Vector2D) {
	switch l.kind {
	case KindPoint:
		l.point = center
	case KindArea:
		l.area = BoundsFromCenter(center, l.area.HalfExtents())
	}
}

// Within reports whether l lies in, or for areas intersects, b.
func (l Location) Within(b Bounds) bool {
	if l.kind == KindArea {
		return b.Intersects(l.area)
	}
	return b.Contains(l.point)
}

func (l Location) String() string {
	if l.kind == KindArea {
		return "Area(" + l.area.String() + ")"
	}
	return "Point" + l.point.String()
}
