package quadtree

import (
	"errors"
	"fmt"

	"github.com/opd-ai/go-ballpit/pkg/physics"
)

// ErrOutOfBounds is matched by every *OutOfBoundsError through errors.Is.
var ErrOutOfBounds = errors.New("out of bounds")

// OutOfBoundsError is returned by Insert when a location does not overlap the
// tree's region. It is recoverable: the tree is left unchanged.
type OutOfBoundsError struct {
	Bounds   physics.Bounds
	Location physics.Location
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("%s: %v not in %v", ErrOutOfBounds, e.Location, e.Bounds)
}

// Is lets errors.Is(err, ErrOutOfBounds) succeed.
func (e *OutOfBoundsError) Is(target error) bool {
	return target == ErrOutOfBounds
}
