// pkg/entity/entity.go
package entity

import (
	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-ballpit/pkg/physics"
)

// Body is a circular rigid body. Its id comes from the embedded
// ecs.BasicEntity so a host ecs.World can address it directly.
type Body struct {
	ecs.BasicEntity

	Position physics.Vector2D
	Velocity physics.Vector2D

	radius float64
	mass   float64
}

// NewBody creates a body with a fresh entity id. Mass is radius squared, a
// stand-in proportional to the disc area.
func NewBody(position, velocity physics.Vector2D, radius float64) *Body {
	return WithEntity(ecs.NewBasic(), position, velocity, radius)
}

// WithEntity creates a body for an entity that already exists in a world.
func WithEntity(basic ecs.BasicEntity, position, velocity physics.Vector2D, radius float64) *Body {
	return &Body{
		BasicEntity: basic,
		Position:    position,
		Velocity:    velocity,
		radius:      radius,
		mass:        radius * radius,
	}
}

// Radius returns the body's radius
func (b *Body) Radius() float64 { return b.radius }

// Mass returns the body's mass
func (b *Body) Mass() float64 { return b.mass }

// Footprint is the square of side 2r around the body, as indexed by the
// quadtree.
func (b *Body) Footprint() physics.Location {
	return physics.NewLocation(b.Position, b.radius*2, b.radius*2)
}

// Move advances the position by velocity * dt.
func (b *Body) Move(dt float64) {
	b.Position = b.Position.Add(b.Velocity.Scale(dt))
}

// ApplyFriction slows the body by coefficient * velocity * dt. A zero
// coefficient leaves it untouched.
func (b *Body) ApplyFriction(coefficient, dt float64) {
	if coefficient == 0 {
		return
	}
	b.Velocity = b.Velocity.Sub(b.Velocity.Scale(coefficient * dt))
}

// Momentum is mass * velocity.
func (b *Body) Momentum() physics.Vector2D {
	return b.Velocity.Scale(b.mass)
}

// KineticEnergy is 1/2 m |v|^2.
func (b *Body) KineticEnergy() float64 {
	return 0.5 * b.mass * b.Velocity.LengthSquared()
}
