// Package scene is the in-process scene graph: nodes with optional geometry
// and physics bodies, stepped once per frame.
package scene

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tomz197/arviewer/internal/collision"
	"github.com/tomz197/arviewer/internal/physics"
	"github.com/tomz197/arviewer/internal/vecmath"
)

// Kind identifies what a node represents.
type Kind int

const (
	KindShip Kind = iota + 1
	KindBullet
	KindTarget
	KindPlane
	KindExplosion
	KindLine
)

func (k Kind) String() string {
	switch k {
	case KindShip:
		return "ship"
	case KindBullet:
		return "bullet"
	case KindTarget:
		return "target"
	case KindPlane:
		return "plane"
	case KindExplosion:
		return "explosion"
	case KindLine:
		return "line"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Geometry is the renderable shape attached to a node.
type Geometry interface {
	isGeometry()
}

// Box is an axis-aligned box centered on the node.
type Box struct {
	Width, Height, Length float64
}

// Sphere is a sphere centered on the node.
type Sphere struct {
	Radius float64
}

// Plane is a flat rectangle lying in the node's local XZ plane.
type Plane struct {
	Width, Length float64
	Material      string
}

// LineGeometry wraps a line segment built by vecmath.Line.
type LineGeometry struct {
	Segment vecmath.LineSegment
}

func (Box) isGeometry()             {}
func (Sphere) isGeometry()          {}
func (Plane) isGeometry()           {}
func (LineGeometry) isGeometry()    {}
func (*ParticleSystem) isGeometry() {}

// Node is a scene entity. A node with a physics body takes its position from
// the body, so the simulation moves it.
type Node struct {
	ID       uuid.UUID
	Name     string
	Kind     Kind
	Geometry Geometry
	Body     *physics.Body
	Scale    vecmath.Vec3
	Rotation vecmath.Mat4 // Orientation only; translation is ignored
	Age      time.Duration

	position vecmath.Vec3
}

// NewNode creates a node with identity orientation and unit scale.
func NewNode(kind Kind, name string, geometry Geometry) *Node {
	return &Node{
		ID:       uuid.New(),
		Name:     name,
		Kind:     kind,
		Geometry: geometry,
		Scale:    vecmath.V3(1, 1, 1),
		Rotation: vecmath.Identity(),
	}
}

// Position returns the node's world position.
func (n *Node) Position() vecmath.Vec3 {
	if n.Body != nil {
		return n.Body.Position
	}
	return n.position
}

// SetPosition moves the node (and its body).
func (n *Node) SetPosition(p vecmath.Vec3) {
	n.position = p
	if n.Body != nil {
		n.Body.Position = p
	}
}

// AttachBody gives the node a physics body of the given category. The body
// shares the node's ID and starts at the node's position.
func (n *Node) AttachBody(category collision.Category, radius float64) *physics.Body {
	b := physics.NewBody(n.ID, category, radius)
	b.Position = n.position
	n.Body = b
	return b
}

// Category returns the collision category of the node's body.
func (n *Node) Category() (collision.Category, bool) {
	if n.Body == nil {
		return 0, false
	}
	return n.Body.Category, true
}

func (n *Node) String() string {
	return fmt.Sprintf("%s(%s)", n.Kind, n.ID.String()[:8])
}
