package physics

import (
	"cmp"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/tomz197/arviewer/internal/collision"
	"github.com/tomz197/arviewer/internal/vecmath"
)

// StandardGravity is the default downward acceleration in m/s².
var StandardGravity = vecmath.V3(0, -9.8, 0)

// Contact reports two bodies that began touching during a step.
// A is the body that was added to the world first.
type Contact struct {
	A, B *Body
}

type pairKey struct {
	a, b uuid.UUID
}

// World owns the simulated bodies.
type World struct {
	Gravity vecmath.Vec3

	bodies []*Body
	index  map[uuid.UUID]int

	// Pairs touching at the end of the previous step; only new pairs are reported.
	touching map[pairKey]struct{}
	current  map[pairKey]struct{}

	grid *SpatialGrid
}

// NewWorld creates an empty world with standard gravity.
func NewWorld() *World {
	return &World{
		Gravity:  StandardGravity,
		index:    make(map[uuid.UUID]int),
		touching: make(map[pairKey]struct{}),
		current:  make(map[pairKey]struct{}),
		grid:     NewSpatialGrid(1),
	}
}

// Add inserts a body. Adding a body twice is a no-op.
func (w *World) Add(b *Body) {
	if _, ok := w.index[b.ID]; ok {
		return
	}
	w.index[b.ID] = len(w.bodies)
	w.bodies = append(w.bodies, b)
}

// Remove deletes the body with the given id. Returns false if it was not present.
func (w *World) Remove(id uuid.UUID) bool {
	i, ok := w.index[id]
	if !ok {
		return false
	}
	copy(w.bodies[i:], w.bodies[i+1:])
	w.bodies[len(w.bodies)-1] = nil
	w.bodies = w.bodies[:len(w.bodies)-1]
	delete(w.index, id)
	for j := i; j < len(w.bodies); j++ {
		w.index[w.bodies[j].ID] = j
	}
	for k := range w.touching {
		if k.a == id || k.b == id {
			delete(w.touching, k)
		}
	}
	return true
}

// Body returns the body with the given id.
func (w *World) Body(id uuid.UUID) (*Body, bool) {
	i, ok := w.index[id]
	if !ok {
		return nil, false
	}
	return w.bodies[i], true
}

// Len returns the number of bodies.
func (w *World) Len() int {
	return len(w.bodies)
}

// FixedStep is the longest interval integrated between overlap tests.
const FixedStep = time.Second / 60

// maxStep caps the time simulated for one long frame; time beyond it is dropped.
const maxStep = time.Second

// Step advances the simulation by dt in fixed substeps and returns the
// contacts that began during this step, in body insertion order. A pair is
// reported at most once per step.
func (w *World) Step(dt time.Duration) []Contact {
	dt = max(0, min(dt, maxStep))
	n := max(1, int((dt+FixedStep-1)/FixedStep))
	sub := dt / time.Duration(n)

	var contacts []Contact
	seen := make(map[pairKey]struct{})
	for i := range n {
		d := sub
		if i == n-1 {
			d = dt - sub*time.Duration(n-1)
		}
		for _, c := range w.substep(d.Seconds()) {
			key := pairKey{c.A.ID, c.B.ID}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			contacts = append(contacts, c)
		}
	}

	// Grid iteration order is by cell; report in insertion order of A then B.
	sortContacts(contacts, w.index)
	return contacts
}

func (w *World) substep(secs float64) []Contact {
	maxRadius := 0.0
	for _, b := range w.bodies {
		if b.AffectedByGravity {
			b.Velocity = b.Velocity.Add(w.Gravity.Scale(secs))
		}
		b.Position = b.Position.Add(b.Velocity.Scale(secs))
		if b.Radius > maxRadius {
			maxRadius = b.Radius
		}
	}

	// Cell size must cover the largest possible contact distance.
	if need := maxRadius * 2; need > w.grid.CellSize() {
		w.grid = NewSpatialGrid(need)
	}
	w.grid.Clear()
	for i, b := range w.bodies {
		w.grid.Insert(b.Position, i)
	}

	clear(w.current)
	var contacts []Contact
	for i, a := range w.bodies {
		w.grid.QueryAround(a.Position, func(j int) bool {
			if j <= i {
				return false // Skip self and already-checked pairs
			}
			b := w.bodies[j]
			if !collision.ShouldReport(a.Category, a.ContactTest, b.Category, b.ContactTest) {
				return false
			}
			if !SpheresOverlap(a.Position, a.Radius, b.Position, b.Radius) {
				return false
			}
			key := pairKey{a.ID, b.ID}
			w.current[key] = struct{}{}
			if _, was := w.touching[key]; !was {
				contacts = append(contacts, Contact{A: a, B: b})
			}
			return false
		})
	}
	w.touching, w.current = w.current, w.touching
	return contacts
}

func sortContacts(contacts []Contact, index map[uuid.UUID]int) {
	slices.SortFunc(contacts, func(x, y Contact) int {
		if c := cmp.Compare(index[x.A.ID], index[y.A.ID]); c != 0 {
			return c
		}
		return cmp.Compare(index[x.B.ID], index[y.B.ID])
	})
}
