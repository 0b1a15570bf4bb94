package scene

import (
	"time"

	"github.com/google/uuid"
	"github.com/tomz197/arviewer/internal/physics"
	"github.com/tomz197/arviewer/internal/vecmath"
)

// ContactDelegate receives begin-contact events after each physics step.
type ContactDelegate interface {
	ContactBegan(a, b *Node)
}

// Scene holds the nodes of one game and the physics world simulating them.
type Scene struct {
	nodes    []*Node
	byID     map[uuid.UUID]*Node
	world    *physics.World
	delegate ContactDelegate

	// Bullets farther than this from the origin are dropped. Zero disables culling.
	playRadius float64
}

// Option configures a Scene.
type Option func(*Scene)

// WithPlayRadius sets the distance beyond which bullets are removed.
func WithPlayRadius(r float64) Option {
	return func(s *Scene) {
		s.playRadius = r
	}
}

// WithGravity overrides the physics world's gravity.
func WithGravity(g vecmath.Vec3) Option {
	return func(s *Scene) {
		s.world.Gravity = g
	}
}

// New creates an empty scene.
func New(opts ...Option) *Scene {
	s := &Scene{
		byID:  make(map[uuid.UUID]*Node),
		world: physics.NewWorld(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetContactDelegate registers the receiver of contact events.
func (s *Scene) SetContactDelegate(d ContactDelegate) {
	s.delegate = d
}

// PhysicsWorld exposes the underlying simulation.
func (s *Scene) PhysicsWorld() *physics.World {
	return s.world
}

// Add inserts a node. Adding a node twice is a no-op.
func (s *Scene) Add(n *Node) {
	if _, ok := s.byID[n.ID]; ok {
		return
	}
	s.nodes = append(s.nodes, n)
	s.byID[n.ID] = n
	if n.Body != nil {
		s.world.Add(n.Body)
	}
}

// Remove takes a node out of the scene. Returns false if it was not present.
func (s *Scene) Remove(n *Node) bool {
	if n == nil {
		return false
	}
	if _, ok := s.byID[n.ID]; !ok {
		return false
	}
	delete(s.byID, n.ID)
	if n.Body != nil {
		s.world.Remove(n.ID)
	}
	kept := s.nodes[:0]
	for _, other := range s.nodes {
		if other != n {
			kept = append(kept, other)
		}
	}
	clear(s.nodes[len(kept):])
	s.nodes = kept
	return true
}

// Contains reports whether n is in the scene.
func (s *Scene) Contains(n *Node) bool {
	if n == nil {
		return false
	}
	_, ok := s.byID[n.ID]
	return ok
}

// Find returns the node with the given id.
func (s *Scene) Find(id uuid.UUID) (*Node, bool) {
	n, ok := s.byID[id]
	return n, ok
}

// Nodes returns the nodes in insertion order. The slice is only valid until
// the scene is next modified.
func (s *Scene) Nodes() []*Node {
	return s.nodes
}

// CountKind returns how many nodes of kind k are in the scene.
func (s *Scene) CountKind(k Kind) int {
	count := 0
	for _, n := range s.nodes {
		if n.Kind == k {
			count++
		}
	}
	return count
}

// Len returns the number of nodes.
func (s *Scene) Len() int {
	return len(s.nodes)
}

// Update advances the scene by dt: steps physics, ages effects, culls stray
// bullets, then delivers begin-contact events to the delegate. Contacts whose
// nodes were removed by an earlier event in the same step are dropped.
func (s *Scene) Update(dt time.Duration) {
	contacts := s.world.Step(dt)
	secs := dt.Seconds()

	var expired []*Node
	for _, n := range s.nodes {
		n.Age += dt
		switch n.Kind {
		case KindExplosion:
			if ps, ok := n.Geometry.(*ParticleSystem); ok && ps.Update(secs) {
				expired = append(expired, n)
			}
		case KindBullet:
			if s.playRadius > 0 && n.Position().Magnitude() > s.playRadius {
				expired = append(expired, n)
			}
		}
	}
	for _, n := range expired {
		s.Remove(n)
	}

	if s.delegate == nil {
		return
	}
	for _, c := range contacts {
		a, okA := s.byID[c.A.ID]
		b, okB := s.byID[c.B.ID]
		if !okA || !okB {
			continue
		}
		s.delegate.ContactBegan(a, b)
	}
}

// Clear removes every node, releasing pooled effect resources.
func (s *Scene) Clear() {
	for _, n := range s.nodes {
		if ps, ok := n.Geometry.(*ParticleSystem); ok {
			ps.Release()
		}
	}
	for len(s.nodes) > 0 {
		s.Remove(s.nodes[len(s.nodes)-1])
	}
}
