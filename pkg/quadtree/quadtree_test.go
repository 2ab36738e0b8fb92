package quadtree

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/opd-ai/go-ballpit/pkg/physics"
)

func arena() physics.Bounds {
	return physics.NewBounds(physics.Vec(0, 0), 100, 100)
}

func point(x, y float64) physics.Location {
	return physics.PointLocation(physics.Vec(x, y))
}

func TestNew_StartsEmpty(t *testing.T) {
	qt := New(arena(), DefaultOptions())

	if !qt.IsEmpty() || qt.IsLeaf() || qt.IsNode() {
		t.Error("new tree should be empty")
	}
	if qt.Depth() != 0 {
		t.Errorf("root depth = %d, expected 0", qt.Depth())
	}
	if len(qt.Regions()) != 0 {
		t.Errorf("empty tree yielded %d regions", len(qt.Regions()))
	}
	if qt.Count() != 0 {
		t.Errorf("Count() = %d, expected 0", qt.Count())
	}
}

func TestInsert_EmptyBecomesLeaf(t *testing.T) {
	qt := New(arena(), DefaultOptions())

	if err := qt.Insert(point(10, 10), 7); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if !qt.IsLeaf() {
		t.Fatal("expected a leaf after first insert")
	}
	entries := qt.Entries()
	if len(entries) != 1 || entries[0].ID != 7 {
		t.Errorf("Entries() = %v", entries)
	}
}

func TestInsert_OutOfBounds(t *testing.T) {
	t.Run("empty_tree_unchanged", func(t *testing.T) {
		qt := New(arena(), DefaultOptions())

		err := qt.Insert(point(-1, -1), 1)
		if err == nil {
			t.Fatal("expected out of bounds error")
		}
		if !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("errors.Is(err, ErrOutOfBounds) = false for %v", err)
		}
		var oob *OutOfBoundsError
		if !errors.As(err, &oob) {
			t.Fatalf("expected *OutOfBoundsError, got %T", err)
		}
		if oob.Bounds != qt.Bounds() {
			t.Errorf("error bounds = %v", oob.Bounds)
		}
		if p, ok := oob.Location.Point(); !ok || p != physics.Vec(-1, -1) {
			t.Errorf("error location = %v", oob.Location)
		}
		if !qt.IsEmpty() {
			t.Error("tree modified by rejected insert")
		}
	})

	t.Run("leaf_unchanged", func(t *testing.T) {
		qt := New(arena(), DefaultOptions())
		_ = qt.Insert(point(5, 5), 1)

		if err := qt.Insert(physics.NewLocation(physics.Vec(-50, -50), 10, 10), 2); err == nil {
			t.Fatal("expected out of bounds error for distant area")
		}
		if qt.Count() != 1 || !qt.IsLeaf() {
			t.Errorf("leaf changed: count %d", qt.Count())
		}
	})
}

func TestInsert_SplitsOverCapacity(t *testing.T) {
	qt := New(arena(), Options{Capacity: 2})
	_ = qt.Insert(point(10, 10), 1)
	_ = qt.Insert(point(90, 10), 2)
	if !qt.IsLeaf() {
		t.Fatal("tree split before exceeding capacity")
	}

	_ = qt.Insert(point(90, 90), 3)
	if !qt.IsNode() {
		t.Fatal("tree did not split over capacity")
	}
	if qt.Entries() != nil {
		t.Error("split node still exposes entries")
	}

	expect := map[Quadrant]uint64{NorthWest: 1, NorthEast: 2, SouthEast: 3}
	for q, id := range expect {
		child := qt.Region(q)
		if child == nil {
			t.Fatalf("missing %v child", q)
		}
		if child.Depth() != 1 {
			t.Errorf("%v depth = %d, expected 1", q, child.Depth())
		}
		entries := child.Entries()
		if len(entries) != 1 || entries[0].ID != id {
			t.Errorf("%v entries = %v, expected id %d", q, entries, id)
		}
	}
	if !qt.Region(SouthWest).IsEmpty() {
		t.Error("south-west should be empty")
	}
}

func TestSplit_ChildrenTileParent(t *testing.T) {
	parent := physics.NewBounds(physics.Vec(-20, 10), 80, 60)
	qt := New(parent, Options{Capacity: 1})
	_ = qt.Insert(point(-10, 20), 1)
	_ = qt.Insert(point(50, 60), 2)

	var area float64
	for q := NorthWest; q <= SouthWest; q++ {
		b := qt.Region(q).Bounds()
		area += b.Width() * b.Height()
		if b.Left() < parent.Left() || b.Right() > parent.Right() ||
			b.Top() < parent.Top() || b.Bottom() > parent.Bottom() {
			t.Errorf("%v bounds %v escape parent %v", q, b, parent)
		}
	}
	if area != parent.Width()*parent.Height() {
		t.Errorf("children cover %v, parent %v", area, parent.Width()*parent.Height())
	}
	c := parent.Center()
	if qt.Region(NorthWest).Bounds().BottomRight() != c || qt.Region(SouthEast).Bounds().TopLeft() != c {
		t.Error("children do not meet at the parent center")
	}
}

func TestInsert_StraddlingAreaDuplicated(t *testing.T) {
	qt := New(arena(), Options{Capacity: 1})
	_ = qt.Insert(physics.NewLocation(physics.Vec(50, 50), 10, 10), 1)
	_ = qt.Insert(point(10, 10), 2)

	if qt.Count() != 5 {
		t.Fatalf("Count() = %d, expected 5 (area in four quadrants plus point)", qt.Count())
	}

	regions := qt.Regions()
	var got []uint64
	for _, r := range regions {
		for _, e := range r.Entries() {
			got = append(got, e.ID)
		}
	}
	expected := []uint64{2, 1, 1, 1, 1}
	if len(got) != len(expected) {
		t.Fatalf("region ids = %v, expected %v", got, expected)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("region ids = %v, expected %v", got, expected)
			break
		}
	}
}

func TestInsert_NodeSkipsNonOverlappingChildren(t *testing.T) {
	qt := New(arena(), Options{Capacity: 1})
	_ = qt.Insert(point(10, 10), 1)
	_ = qt.Insert(point(90, 90), 2)

	if err := qt.Insert(point(80, 20), 3); err != nil {
		t.Fatalf("Insert() into node error = %v", err)
	}
	if qt.Count() != 3 {
		t.Errorf("Count() = %d, expected 3", qt.Count())
	}
	if ne := qt.Region(NorthEast).Entries(); len(ne) != 1 || ne[0].ID != 3 {
		t.Errorf("north-east entries = %v", ne)
	}
}

func TestInsert_MaxDepthStopsSplitting(t *testing.T) {
	qt := New(arena(), Options{Capacity: 1}.WithMaxDepth(0))
	for i := 0; i < 5; i++ {
		_ = qt.Insert(point(float64(i*10), float64(i*10)), uint64(i))
	}
	if !qt.IsLeaf() || qt.Len() != 5 {
		t.Errorf("expected single over-capacity leaf, got leaf=%v len=%d", qt.IsLeaf(), qt.Len())
	}

	qt = New(arena(), Options{Capacity: 1}.WithMaxDepth(2))
	for i := 0; i < 20; i++ {
		_ = qt.Insert(point(1+float64(i)*0.1, 1), uint64(i))
	}
	for _, leaf := range qt.Regions() {
		if leaf.Depth() > 2 {
			t.Errorf("leaf at depth %d exceeds max depth 2", leaf.Depth())
		}
	}
}

func TestInsert_MinSizeStopsSplitting(t *testing.T) {
	qt := New(arena(), Options{Capacity: 1}.WithMinSize(50, 50))
	_ = qt.Insert(point(10, 10), 1)
	_ = qt.Insert(point(90, 90), 2)
	if !qt.IsLeaf() {
		t.Error("100x100 region split despite 50x50 min size")
	}

	qt = New(arena(), Options{Capacity: 1}.WithMinSize(20, 20))
	for i := 0; i < 10; i++ {
		_ = qt.Insert(point(1+float64(i), 1), uint64(i))
	}
	for _, leaf := range qt.Regions() {
		if leaf.Bounds().Width() < 20 || leaf.Bounds().Height() < 20 {
			t.Errorf("leaf %v smaller than min size", leaf.Bounds())
		}
	}
}

func TestInsert_IdenticalLocationsStayInOneLeaf(t *testing.T) {
	qt := New(arena(), Options{Capacity: 2})
	for i := 0; i < 6; i++ {
		if err := qt.Insert(point(33, 33), uint64(i)); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}
	if !qt.IsLeaf() || qt.Len() != 6 {
		t.Errorf("expected one leaf of 6, got leaf=%v len=%d", qt.IsLeaf(), qt.Len())
	}
}

func TestInsert_SharedCornerStopsAtFloatPrecision(t *testing.T) {
	bounds := physics.NewBounds(physics.Vec(0, 0), 1024, 768)
	tests := []struct {
		name string
		a, b physics.Location
	}{
		{
			name: "same top-left corner",
			a:    physics.AreaLocation(physics.NewBounds(physics.Vec(50, 50), 10, 10)),
			b:    physics.AreaLocation(physics.NewBounds(physics.Vec(50, 55), 10, 20)),
		},
		{
			name: "bodies of different radius",
			a:    physics.NewLocation(physics.Vec(50, 50), 10, 10),
			b:    physics.NewLocation(physics.Vec(55, 55), 20, 20),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qt := New(bounds, Options{Capacity: 1})
			if err := qt.Insert(tt.a, 1); err != nil {
				t.Fatal(err)
			}
			if err := qt.Insert(tt.b, 2); err != nil {
				t.Fatal(err)
			}

			leaves := qt.Regions()
			if len(leaves) > 64 {
				t.Fatalf("tree grew to %d leaves", len(leaves))
			}
			for _, leaf := range leaves {
				if leaf.Depth() >= 64 {
					t.Errorf("leaf at depth %d, want below float64 precision", leaf.Depth())
				}
				if leaf.Len() > 1 && leaf.splitShrinks() {
					t.Errorf("leaf %v over capacity but still splittable", leaf.Bounds())
				}
			}
		})
	}
}

func TestSplitShrinks(t *testing.T) {
	tiny := physics.BoundsFromCorners(physics.Vec(50, 50), physics.Vec(math.Nextafter(50, 100), math.Nextafter(50, 100)))
	tests := []struct {
		name   string
		bounds physics.Bounds
		want   bool
	}{
		{"arena", physics.NewBounds(physics.Vec(0, 0), 1024, 768), true},
		{"one ulp wide", tiny, false},
		{"zero size", physics.NewBounds(physics.Vec(5, 5), 0, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qt := New(tt.bounds, DefaultOptions())
			if got := qt.splitShrinks(); got != tt.want {
				t.Errorf("splitShrinks() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCapacityProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	bounds := physics.NewBounds(physics.Vec(0, 0), 1024, 768)

	for _, capacity := range []int{1, 2, 4, 8} {
		qt := New(bounds, Options{Capacity: capacity})
		for i := 0; i < 500; i++ {
			var loc physics.Location
			if i%2 == 0 {
				loc = point(rng.Float64()*1024, rng.Float64()*768)
			} else {
				r := 3 + rng.Float64()*9
				loc = physics.NewLocation(physics.Vec(r+rng.Float64()*(1024-2*r), r+rng.Float64()*(768-2*r)), 2*r, 2*r)
			}
			if err := qt.Insert(loc, uint64(i)); err != nil {
				t.Fatalf("Insert() error = %v", err)
			}
		}

		for _, leaf := range qt.Regions() {
			entries := leaf.Entries()
			if len(entries) <= capacity || !leaf.splitShrinks() {
				continue
			}
			for _, e := range entries[1:] {
				if e.Location != entries[0].Location {
					t.Errorf("capacity %d: leaf %v holds %d distinct entries", capacity, leaf.Bounds(), len(entries))
					break
				}
			}
		}
	}
}

func TestRegions_OnlyNonEmptyLeavesInFixedOrder(t *testing.T) {
	qt := New(arena(), Options{Capacity: 1})
	_ = qt.Insert(point(10, 90), 4) // south-west
	_ = qt.Insert(point(90, 10), 2) // north-east
	_ = qt.Insert(point(10, 10), 1) // north-west

	regions := qt.Regions()
	if len(regions) != 3 {
		t.Fatalf("Regions() returned %d leaves, expected 3", len(regions))
	}
	expected := []uint64{1, 2, 4}
	for i, r := range regions {
		if !r.IsLeaf() {
			t.Errorf("region %d is not a leaf", i)
		}
		if id := r.Entries()[0].ID; id != expected[i] {
			t.Errorf("region %d id = %d, expected %d", i, id, expected[i])
		}
	}
}

func TestWalk_StopsEarly(t *testing.T) {
	qt := New(arena(), Options{Capacity: 1})
	_ = qt.Insert(point(10, 10), 1)
	_ = qt.Insert(point(90, 10), 2)
	_ = qt.Insert(point(90, 90), 3)

	visited := 0
	completed := qt.Walk(func(*QuadTree) bool {
		visited++
		return visited < 2
	})
	if completed || visited != 2 {
		t.Errorf("Walk() completed=%v visited=%d", completed, visited)
	}
}

func TestQuery(t *testing.T) {
	qt := New(arena(), Options{Capacity: 1})
	_ = qt.Insert(physics.NewLocation(physics.Vec(50, 50), 10, 10), 1)
	_ = qt.Insert(point(10, 10), 2)
	_ = qt.Insert(point(90, 90), 3)

	ids := qt.Query(physics.NewBounds(physics.Vec(40, 40), 60, 60))
	if len(ids) != 2 {
		t.Fatalf("Query() = %v, expected ids 1 and 3", ids)
	}
	seen := map[uint64]bool{}
	for _, id := range ids {
		seen[id] = true
	}
	if !seen[1] || !seen[3] || seen[2] {
		t.Errorf("Query() = %v", ids)
	}

	if ids := qt.Query(physics.NewBounds(physics.Vec(200, 200), 5, 5)); len(ids) != 0 {
		t.Errorf("Query() outside tree = %v", ids)
	}
}

func TestRegion_NilWhenNotSplit(t *testing.T) {
	qt := New(arena(), DefaultOptions())
	if qt.Region(NorthWest) != nil {
		t.Error("Region() on empty tree should be nil")
	}
	_ = qt.Insert(point(1, 1), 1)
	if qt.Region(SouthEast) != nil {
		t.Error("Region() on leaf should be nil")
	}
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		options Options
		wantErr bool
	}{
		{"default", DefaultOptions(), false},
		{"zero_capacity", Options{Capacity: 0}, true},
		{"negative_depth", Options{Capacity: 1}.WithMaxDepth(-1), true},
		{"negative_min_size", Options{Capacity: 1}.WithMinSize(-1, 2), true},
		{"limited", DefaultOptions().WithMaxDepth(6).WithMinSize(8, 8), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.options.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func BenchmarkBuild(b *testing.B) {
	rng := rand.New(rand.NewPCG(1, 1))
	bounds := physics.NewBounds(physics.Vec(0, 0), 1024, 768)
	locs := make([]physics.Location, 200)
	for i := range locs {
		r := 3 + rng.Float64()*9
		locs[i] = physics.NewLocation(physics.Vec(r+rng.Float64()*(1024-2*r), r+rng.Float64()*(768-2*r)), 2*r, 2*r)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		qt := New(bounds, DefaultOptions())
		for id, loc := range locs {
			_ = qt.Insert(loc, uint64(id))
		}
		_ = qt.Regions()
	}
}
