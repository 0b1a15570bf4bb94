package physics

import (
	"github.com/google/uuid"
	"github.com/tomz197/arviewer/internal/collision"
	"github.com/tomz197/arviewer/internal/vecmath"
)

// Body is a dynamic sphere collider.
type Body struct {
	ID                uuid.UUID
	Category          collision.Category
	ContactTest       collision.Mask // Categories this body wants contact events for
	Mass              float64
	Radius            float64
	Position          vecmath.Vec3
	Velocity          vecmath.Vec3
	AffectedByGravity bool
}

// NewBody creates a body of the given category with its default contact-test
// mask and unit mass.
func NewBody(id uuid.UUID, category collision.Category, radius float64) *Body {
	return &Body{
		ID:          id,
		Category:    category,
		ContactTest: collision.DefaultContactTest(category),
		Mass:        1,
		Radius:      radius,
	}
}

// ApplyForce changes the body's velocity. An impulse is applied instantly
// (Δv = f/m); a continuous force is applied over dt seconds.
func (b *Body) ApplyForce(f vecmath.Vec3, impulse bool, dt float64) {
	mass := b.Mass
	if mass <= 0 {
		mass = 1
	}
	if impulse {
		b.Velocity = b.Velocity.Add(f.Scale(1 / mass))
		return
	}
	b.Velocity = b.Velocity.Add(f.Scale(dt / mass))
}
