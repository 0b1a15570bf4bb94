package scene

import (
	"math"
	"math/rand"
	"sync"

	"github.com/tomz197/arviewer/internal/vecmath"
)

// particlePool reuses Particle values between explosions.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived point of an explosion.
type Particle struct {
	Position    vecmath.Vec3
	Velocity    vecmath.Vec3
	Lifetime    float64 // Seconds remaining
	MaxLifetime float64 // Initial lifetime (for fade calculation)
	Drag        float64 // Velocity decay (1.0 = no drag)
}

// Faded reports whether the particle is in the last quarter of its life.
func (p *Particle) Faded() bool {
	return p.MaxLifetime > 0 && p.Lifetime/p.MaxLifetime < 0.25
}

// ParticleSystem is a burst of particles emitted from one point.
type ParticleSystem struct {
	Particles []*Particle
}

// NewParticleSystem emits count particles in random directions on the unit
// sphere, with speed and lifetime varied per particle.
func NewParticleSystem(origin vecmath.Vec3, count int, speed, lifetime float64) *ParticleSystem {
	ps := &ParticleSystem{Particles: make([]*Particle, 0, count)}
	for i := 0; i < count; i++ {
		// Uniform direction on the sphere
		z := rand.Float64()*2 - 1
		theta := rand.Float64() * 2 * math.Pi
		r := math.Sqrt(1 - z*z)
		dir := vecmath.V3(r*math.Cos(theta), r*math.Sin(theta), z)

		// Speed 50% to 150%, lifetime 50% to 100%
		spd := speed * (0.5 + rand.Float64())
		life := lifetime * (0.5 + rand.Float64()*0.5)

		p := particlePool.Get().(*Particle)
		p.Position = origin
		p.Velocity = dir.Scale(spd)
		p.Lifetime = life
		p.MaxLifetime = life
		p.Drag = 0.95
		ps.Particles = append(ps.Particles, p)
	}
	return ps
}

// Update ages and moves the particles, releasing expired ones. It returns
// true once every particle has expired.
func (ps *ParticleSystem) Update(dt float64) bool {
	kept := ps.Particles[:0]
	for _, p := range ps.Particles {
		p.Lifetime -= dt
		if p.Lifetime <= 0 {
			particlePool.Put(p)
			continue
		}
		// Normalize drag to ~60fps
		p.Velocity = p.Velocity.Scale(math.Pow(p.Drag, dt*60))
		p.Position = p.Position.Add(p.Velocity.Scale(dt))
		kept = append(kept, p)
	}
	clear(ps.Particles[len(kept):])
	ps.Particles = kept
	return len(ps.Particles) == 0
}

// Release returns all remaining particles to the pool.
func (ps *ParticleSystem) Release() {
	for _, p := range ps.Particles {
		particlePool.Put(p)
	}
	clear(ps.Particles)
	ps.Particles = ps.Particles[:0]
}
