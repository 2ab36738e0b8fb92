package physics

import "testing"

func TestNewLocation(t *testing.T) {
	t.Run("zero_size_is_point", func(t *testing.T) {
		loc := NewLocation(Vec(5, 5), 0, 0)
		if !loc.IsPoint() {
			t.Fatalf("expected point, got %v", loc.Kind())
		}
		if p, ok := loc.Point(); !ok || p != Vec(5, 5) {
			t.Errorf("Point() = %v, %v", p, ok)
		}
		if _, ok := loc.Area(); ok {
			t.Error("point location reported an area")
		}
	})

	t.Run("sized_is_area_centred", func(t *testing.T) {
		loc := NewLocation(Vec(50, 40), 10, 20)
		b, ok := loc.Area()
		if !ok {
			t.Fatalf("expected area, got %v", loc.Kind())
		}
		if b.Center() != Vec(50, 40) || b.Width() != 10 || b.Height() != 20 {
			t.Errorf("area = %v", b)
		}
	})

	t.Run("one_dimension_is_area", func(t *testing.T) {
		if !NewLocation(Vec(0, 0), 0, 3).IsArea() {
			t.Error("expected area for non-zero height")
		}
	})
}

func TestLocation_SetCenter(t *testing.T) {
	p := PointLocation(Vec(1, 1))
	p.SetCenter(Vec(7, 8))
	if p.Center() != Vec(7, 8) {
		t.Errorf("point center = %v", p.Center())
	}

	a := NewLocation(Vec(0, 0), 4, 6)
	a.SetCenter(Vec(10, 10))
	b, _ := a.Area()
	if b.Center() != Vec(10, 10) || b.Width() != 4 || b.Height() != 6 {
		t.Errorf("moved area = %v", b)
	}
}

func TestLocation_Within(t *testing.T) {
	arena := NewBounds(Vec(0, 0), 100, 100)

	tests := []struct {
		name     string
		loc      Location
		expected bool
	}{
		{"point_inside", PointLocation(Vec(50, 50)), true},
		{"point_outside", PointLocation(Vec(-1, -1)), false},
		{"area_straddling_edge", NewLocation(Vec(0, 50), 10, 10), true},
		{"area_outside", NewLocation(Vec(-20, -20), 10, 10), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loc.Within(arena); got != tt.expected {
				t.Errorf("Within() = %v, expected %v", got, tt.expected)
			}
		})
	}
}
