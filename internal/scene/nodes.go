package scene

import (
	"math"

	"github.com/tomz197/arviewer/internal/collision"
	"github.com/tomz197/arviewer/internal/vecmath"
)

// NewShip creates an enemy ship: a floating cube with a ship-category body.
func NewShip(size float64) *Node {
	n := NewNode(KindShip, "ship", Box{Width: size, Height: size, Length: size})
	n.AttachBody(collision.Ship, size/2)
	return n
}

// NewBullet creates a projectile: a small sphere with a bullet-category body.
func NewBullet(radius, mass float64) *Node {
	n := NewNode(KindBullet, "bullet", Sphere{Radius: radius})
	b := n.AttachBody(collision.Bullet, radius)
	b.Mass = mass
	return n
}

// NewTarget creates the defended target at position p. It is a tiny box
// scaled by scale, with a target-category body of the given radius.
func NewTarget(p vecmath.Vec3, size, scale, radius float64) *Node {
	n := NewNode(KindTarget, "princess", Box{Width: size, Height: size, Length: size})
	n.Scale = vecmath.V3(scale, scale, scale)
	n.AttachBody(collision.Target, radius)
	n.SetPosition(p)
	return n
}

// NewPlane creates a horizontal surface visualization of the given extent
// centered at p.
func NewPlane(p vecmath.Vec3, width, length float64, material string) *Node {
	n := NewNode(KindPlane, "plane", Plane{Width: width, Length: length, Material: material})
	// Plane geometry is vertical in local space; lay it flat.
	n.Rotation = vecmath.RotationX(-math.Pi / 2)
	n.SetPosition(p)
	return n
}

// NewLine creates a node holding a line segment from a to b.
func NewLine(a, b vecmath.Vec3, color vecmath.Color) *Node {
	seg := vecmath.Line(a, b, color)
	n := NewNode(KindLine, "line", LineGeometry{Segment: seg})
	n.SetPosition(seg.Midpoint())
	return n
}

// NewExplosion creates a particle burst at p.
func NewExplosion(p vecmath.Vec3, count int, speed, lifetime float64) *Node {
	n := NewNode(KindExplosion, "explosion", NewParticleSystem(p, count, speed, lifetime))
	n.SetPosition(p)
	return n
}
