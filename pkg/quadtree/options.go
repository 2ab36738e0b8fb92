package quadtree

import (
	"fmt"

	"github.com/opd-ai/go-ballpit/pkg/physics"
)

// DefaultCapacity is the leaf capacity used by DefaultOptions.
const DefaultCapacity = 4

// DefaultDepthCeiling bounds trees that have no MaxDepth. In practice a tree
// stops well short of it: a region stops splitting once float64 can no longer
// halve it, around 53 levels below the root.
const DefaultDepthCeiling = 255

// Options tunes when a leaf splits.
type Options struct {
	// Capacity is the number of entries a leaf holds before it tries to
	// split. A leaf may hold more once MaxDepth or MinSize stop the split.
	Capacity int

	// MaxDepth caps the depth of any node; the root is at depth 0.
	MaxDepth *int

	// MinSize refuses splits that would produce regions narrower or shorter
	// than this.
	MinSize *physics.Vector2D
}

// DefaultOptions returns a capacity of 4 with no depth or size limit.
func DefaultOptions() Options {
	return Options{Capacity: DefaultCapacity}
}

// WithMaxDepth returns a copy of o limited to depth.
func (o Options) WithMaxDepth(depth int) Options {
	o.MaxDepth = &depth
	return o
}

// WithMinSize returns a copy of o that never splits below width x height.
func (o Options) WithMinSize(width, height float64) Options {
	size := physics.Vec(width, height)
	o.MinSize = &size
	return o
}

// Validate checks the options before a tree is built with them.
func (o Options) Validate() error {
	if o.Capacity <= 0 {
		return fmt.Errorf("capacity must be positive, got %d", o.Capacity)
	}
	if o.MaxDepth != nil && *o.MaxDepth < 0 {
		return fmt.Errorf("max depth must not be negative, got %d", *o.MaxDepth)
	}
	if o.MinSize != nil && (o.MinSize.X < 0 || o.MinSize.Y < 0) {
		return fmt.Errorf("min size must not be negative, got %v", *o.MinSize)
	}
	return nil
}

func (o Options) depthLimit() int {
	if o.MaxDepth != nil {
		return *o.MaxDepth
	}
	return DefaultDepthCeiling
}
