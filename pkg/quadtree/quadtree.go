// Package quadtree implements the region quadtree used as the broad phase of
// the collision pipeline.
//
// A tree is built from scratch every tick: it is filled with Insert, read
// with Regions, then dropped. Area entries that straddle a split line are
// stored in every quadrant they reach, so two bodies close to a boundary
// still share at least one leaf.
package quadtree

import (
	"github.com/opd-ai/go-ballpit/pkg/physics"
)

// Entry is one indexed location and the id of the body it belongs to.
type Entry struct {
	Location physics.Location
	ID       uint64
}

// Quadrant names a child of a split node.
type Quadrant int

const (
	NorthWest Quadrant = iota
	NorthEast
	SouthEast
	SouthWest
)

func (q Quadrant) String() string {
	switch q {
	case NorthWest:
		return "north-west"
	case NorthEast:
		return "north-east"
	case SouthEast:
		return "south-east"
	case SouthWest:
		return "south-west"
	default:
		return "unknown"
	}
}

// body is the node state: emptyBody, *leafBody or *nodeBody.
type body interface {
	isBody()
}

type emptyBody struct{}

type leafBody struct {
	entries []Entry
}

type nodeBody struct {
	children [4]*QuadTree
}

func (emptyBody) isBody() {}
func (*leafBody) isBody() {}
func (*nodeBody) isBody() {}

// QuadTree is one node of the tree. The value returned by New is the root.
type QuadTree struct {
	bounds  physics.Bounds
	options Options
	depth   int
	body    body
}

// New creates an empty tree covering bounds.
func New(bounds physics.Bounds, options Options) *QuadTree {
	return newNode(bounds, options, 0)
}

func newNode(bounds physics.Bounds, options Options, depth int) *QuadTree {
	return &QuadTree{
		bounds:  bounds,
		options: options,
		depth:   depth,
		body:    emptyBody{},
	}
}

// Bounds is the region this node covers.
func (qt *QuadTree) Bounds() physics.Bounds { return qt.bounds }

// Options returns the options the tree was built with.
func (qt *QuadTree) Options() Options { return qt.options }

// Depth is 0 for the root and grows by one per level.
func (qt *QuadTree) Depth() int { return qt.depth }

// IsEmpty reports whether nothing was ever inserted into this node.
func (qt *QuadTree) IsEmpty() bool {
	switch qt.body.(type) {
	case emptyBody, nil:
		return true
	}
	return false
}

// IsLeaf reports whether this node holds entries directly.
func (qt *QuadTree) IsLeaf() bool {
	_, ok := qt.body.(*leafBody)
	return ok
}

// IsNode reports whether this node has been split.
func (qt *QuadTree) IsNode() bool {
	_, ok := qt.body.(*nodeBody)
	return ok
}

// Contains reports whether loc lies inside the node's bounds. Areas count
// when one of their corners does.
func (qt *QuadTree) Contains(loc physics.Location) bool {
	return loc.Within(qt.bounds)
}

// Insert adds id at loc. It fails with *OutOfBoundsError, leaving the tree
// untouched, when loc does not overlap the tree.
func (qt *QuadTree) Insert(loc physics.Location, id uint64) error {
	if !qt.Contains(loc) {
		return &OutOfBoundsError{Bounds: qt.bounds, Location: loc}
	}
	qt.insert(Entry{Location: loc, ID: id})
	return nil
}

func (qt *QuadTree) insert(e Entry) {
	switch b := qt.body.(type) {
	case emptyBody, nil:
		entries := make([]Entry, 0, qt.options.Capacity)
		qt.body = &leafBody{entries: append(entries, e)}

	case *leafBody:
		b.entries = append(b.entries, e)
		if qt.canSplit(b.entries) {
			qt.split(b.entries)
		}

	case *nodeBody:
		// Children that do not overlap e simply skip it.
		for _, child := range b.children {
			if child.Contains(e.Location) {
				child.insert(e)
			}
		}
	}
}

// canSplit decides whether a leaf holding entries should become a node.
func (qt *QuadTree) canSplit(entries []Entry) bool {
	if len(entries) <= qt.options.Capacity {
		return false
	}
	if qt.depth >= qt.options.depthLimit() {
		return false
	}
	if !qt.splitShrinks() {
		return false
	}
	if size := qt.options.MinSize; size != nil {
		if qt.bounds.Width() <= size.X*2 || qt.bounds.Height() <= size.Y*2 {
			return false
		}
	}
	// Entries sharing one location land in the same quadrants at every
	// level, so splitting them never brings a leaf back under capacity.
	first := entries[0].Location
	for _, e := range entries[1:] {
		if e.Location != first {
			return true
		}
	}
	return false
}

// splitShrinks reports whether every quadrant is strictly smaller than qt.
// Past float64 precision the center collapses onto an edge and the children
// come out identical to the parent, so entries sharing a corner would be
// copied into all four at every level.
func (qt *QuadTree) splitShrinks() bool {
	b := qt.bounds
	c := b.Center()
	if !(c.X > b.Left() && c.X < b.Right() && c.Y > b.Top() && c.Y < b.Bottom()) {
		return false
	}
	for _, q := range b.Quadrants() {
		if !(q.Width() < b.Width() && q.Height() < b.Height()) {
			return false
		}
	}
	return true
}

func (qt *QuadTree) split(entries []Entry) {
	var node nodeBody
	for i, b := range qt.bounds.Quadrants() {
		node.children[i] = newNode(b, qt.options, qt.depth+1)
	}
	qt.body = &node
	for _, e := range entries {
		for _, child := range node.children {
			if child.Contains(e.Location) {
				child.insert(e)
			}
		}
	}
}

// Region returns the child in quadrant q, or nil when the node is not split.
func (qt *QuadTree) Region(q Quadrant) *QuadTree {
	node, ok := qt.body.(*nodeBody)
	if !ok || q < NorthWest || q > SouthWest {
		return nil
	}
	return node.children[q]
}

// Entries returns a copy of a leaf's entries, or nil for empty and split
// nodes.
func (qt *QuadTree) Entries() []Entry {
	leaf, ok := qt.body.(*leafBody)
	if !ok {
		return nil
	}
	out := make([]Entry, len(leaf.entries))
	copy(out, leaf.entries)
	return out
}

// Len is the number of entries held directly by a leaf.
func (qt *QuadTree) Len() int {
	if leaf, ok := qt.body.(*leafBody); ok {
		return len(leaf.entries)
	}
	return 0
}

// Count totals the entries of all leaves. Duplicated entries are counted
// once per leaf holding them.
func (qt *QuadTree) Count() int {
	count := 0
	qt.Walk(func(leaf *QuadTree) bool {
		count += leaf.Len()
		return true
	})
	return count
}

// Regions returns the non-empty leaves depth first, visiting children in
// north-west, north-east, south-east, south-west order.
func (qt *QuadTree) Regions() []*QuadTree {
	var leaves []*QuadTree
	qt.Walk(func(leaf *QuadTree) bool {
		leaves = append(leaves, leaf)
		return true
	})
	return leaves
}

// Walk calls fn for every non-empty leaf in Regions order until fn returns
// false. It reports whether the walk ran to completion.
func (qt *QuadTree) Walk(fn func(leaf *QuadTree) bool) bool {
	switch b := qt.body.(type) {
	case *leafBody:
		return fn(qt)
	case *nodeBody:
		for _, child := range b.children {
			if !child.Walk(fn) {
				return false
			}
		}
	}
	return true
}

// Query returns the ids of entries overlapping area, each id once, in
// traversal order. Unlike Insert it uses the exact overlap test.
func (qt *QuadTree) Query(area physics.Bounds) []uint64 {
	var ids []uint64
	seen := make(map[uint64]struct{})
	qt.query(area, func(e Entry) {
		if _, dup := seen[e.ID]; dup {
			return
		}
		seen[e.ID] = struct{}{}
		ids = append(ids, e.ID)
	})
	return ids
}

func (qt *QuadTree) query(area physics.Bounds, found func(Entry)) {
	if !qt.bounds.Overlaps(area) {
		return
	}
	switch b := qt.body.(type) {
	case *leafBody:
		for _, e := range b.entries {
			if overlaps(e.Location, area) {
				found(e)
			}
		}
	case *nodeBody:
		for _, child := range b.children {
			child.query(area, found)
		}
	}
}

func overlaps(loc physics.Location, area physics.Bounds) bool {
	if b, ok := loc.Area(); ok {
		return area.Overlaps(b)
	}
	return area.Contains(loc.Center())
}
