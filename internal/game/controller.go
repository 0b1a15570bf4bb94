// Package game holds the arcade rules: spawning ships toward the target,
// firing bullets from the camera and reacting to contacts.
package game

import (
	"math/rand"
	"strconv"

	"go.uber.org/zap"

	"github.com/tomz197/arviewer/internal/audio"
	"github.com/tomz197/arviewer/internal/collision"
	"github.com/tomz197/arviewer/internal/config"
	"github.com/tomz197/arviewer/internal/dispatch"
	"github.com/tomz197/arviewer/internal/scene"
	"github.com/tomz197/arviewer/internal/tracking"
	"github.com/tomz197/arviewer/internal/ui"
	"github.com/tomz197/arviewer/internal/vecmath"
)

// PlaneMaterial is the surface material of detected planes.
const PlaneMaterial = "grass"

// Default camera pose used when the session has no frame yet.
var (
	defaultDirection = vecmath.V3(0, 0, -1)
	defaultPosition  = vecmath.V3(0, 0, -0.2)
)

// TapHandler receives screen taps.
type TapHandler interface {
	Tap()
}

// Status describes what the player should be told about tracking.
type Status int

const (
	StatusStarting Status = iota
	StatusSearching
	StatusReady
	StatusLimited
	StatusInterrupted
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSearching:
		return "Move around to find a surface"
	case StatusReady:
		return ""
	case StatusLimited:
		return "Tracking limited to orientation"
	case StatusInterrupted:
		return "Session interrupted"
	case StatusFailed:
		return "Session failed"
	default:
		return "Starting"
	}
}

// Options holds the collaborators of a Controller.
type Options struct {
	Config  config.Game
	Scene   *scene.Scene
	Session tracking.Session
	Audio   audio.Service
	Label   ui.Label
	Queue   *dispatch.Queue
	Logger  *zap.Logger
	Rand    *rand.Rand // nil uses a time-seeded source
}

// Controller runs one game. Apart from Close, its methods must be called
// from the game loop goroutine.
type Controller struct {
	cfg     config.Game
	scene   *scene.Scene
	session tracking.Session
	audio   audio.Service
	label   ui.Label
	queue   *dispatch.Queue
	logger  *zap.Logger
	rng     *rand.Rand

	target *scene.Node
	plane  *scene.Node
	score  int
	status Status

	timers []*dispatch.Timer
	closed bool
}

// Compile-time checks for the event interfaces.
var (
	_ tracking.Delegate     = (*Controller)(nil)
	_ scene.ContactDelegate = (*Controller)(nil)
	_ TapHandler            = (*Controller)(nil)
)

// NewController creates a controller and registers it as the scene's
// contact delegate. The score label starts at zero.
func NewController(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	c := &Controller{
		cfg:     opts.Config,
		scene:   opts.Scene,
		session: opts.Session,
		audio:   opts.Audio,
		label:   opts.Label,
		queue:   opts.Queue,
		logger:  logger.Named("game"),
		rng:     rng,
	}
	c.scene.SetContactDelegate(c)
	c.setScore(0)
	return c
}

// ConfigureSession runs world tracking with horizontal plane detection when
// the device supports it, and orientation tracking otherwise.
func (c *Controller) ConfigureSession() {
	if c.session.Supports(tracking.WorldTracking) {
		c.status = StatusSearching
		c.session.Run(tracking.Configuration{
			Kind:           tracking.WorldTracking,
			PlaneDetection: tracking.PlaneDetectionHorizontal,
		})
		return
	}
	c.status = StatusLimited
	c.session.Run(tracking.Configuration{Kind: tracking.OrientationTracking})
}

// Score returns the current score.
func (c *Controller) Score() int {
	return c.score
}

// Status returns the tracking status shown to the player.
func (c *Controller) Status() Status {
	return c.status
}

// Target returns the target node, or nil before the first plane is found.
func (c *Controller) Target() *scene.Node {
	return c.target
}

// PendingReplacements returns how many ship replacements are scheduled.
func (c *Controller) PendingReplacements() int {
	c.pruneTimers()
	return len(c.timers)
}

// setScore stores the score and posts the label update to the main queue.
func (c *Controller) setScore(v int) {
	c.score = v
	text := strconv.Itoa(v)
	if err := c.queue.Async(func() { c.label.SetText(text) }); err != nil {
		c.logger.Debug("score label update dropped", zap.Error(err))
	}
}

// SessionFailed implements tracking.Delegate.
func (c *Controller) SessionFailed(err error) {
	c.status = StatusFailed
	c.logger.Error("session failed", zap.Error(err))
}

// SessionInterrupted implements tracking.Delegate.
func (c *Controller) SessionInterrupted() {
	c.status = StatusInterrupted
	c.logger.Info("session interrupted")
}

// SessionInterruptionEnded implements tracking.Delegate.
func (c *Controller) SessionInterruptionEnded() {
	switch {
	case c.target != nil:
		c.status = StatusReady
	case c.session.Supports(tracking.WorldTracking):
		c.status = StatusSearching
	default:
		c.status = StatusLimited
	}
	c.logger.Info("session interruption ended")
}

// AnchorAdded implements tracking.Delegate. Each plane anchor gets a plane
// node; the first one also places the target and spawns the first ship.
func (c *Controller) AnchorAdded(anchor tracking.Anchor) {
	plane, ok := anchor.(tracking.PlaneAnchor)
	if !ok || c.closed {
		return
	}

	pos := vecmath.PositionFromTransform(plane.Transform)
	c.plane = scene.NewPlane(pos, plane.Extent.X, plane.Extent.Z, PlaneMaterial)
	c.scene.Add(c.plane)
	c.logger.Debug("surface detected", zap.Stringer("anchor", plane.ID))

	if c.target != nil {
		return
	}
	c.target = scene.NewTarget(pos, c.cfg.TargetSize, c.cfg.TargetScale, c.cfg.TargetRadius)
	c.scene.Add(c.target)
	c.status = StatusReady
	c.AddNewShip()
}

// Tap implements TapHandler: it fires a bullet from the camera in the
// direction the camera faces.
func (c *Controller) Tap() {
	if c.closed {
		return
	}
	c.audio.Play(audio.Torpedo)

	bullet := scene.NewBullet(c.cfg.BulletRadius, c.cfg.BulletMass)
	dir, pos := c.UserVector()
	bullet.SetPosition(pos)
	bullet.Body.ApplyForce(dir.Scale(c.cfg.BulletImpulse), true, 0)
	c.scene.Add(bullet)
}

// UserVector returns the camera's facing direction and position in world
// space, or a default pose when the session has no frame.
func (c *Controller) UserVector() (dir, pos vecmath.Vec3) {
	frame, ok := c.session.CurrentFrame()
	if !ok {
		return defaultDirection, defaultPosition
	}
	m := frame.Camera.Transform
	return m.Forward(), vecmath.PositionFromTransform(m)
}

// AddNewShip spawns a ship at a random spot in front of the player, flying
// toward the target.
func (c *Controller) AddNewShip() {
	if c.closed {
		return
	}
	r := c.cfg.ShipSpawnRange
	ship := scene.NewShip(c.cfg.ShipSize)
	ship.SetPosition(vecmath.V3(c.floatBetween(-r, r), c.floatBetween(-r, r), c.cfg.ShipSpawnDepth))

	var aim vecmath.Vec3
	if c.target != nil {
		aim = c.target.Position()
	}
	ship.Body.Velocity = aim.Sub(ship.Position()).Normalized().Scale(c.cfg.ShipSpeed)
	c.scene.Add(ship)
}

// RemoveNode removes node from the scene, optionally with an explosion where
// it was.
func (c *Controller) RemoveNode(node *scene.Node, explosion bool) {
	c.audio.Play(audio.Collision)

	if explosion {
		c.audio.Play(audio.Explosion)
		c.scene.Add(scene.NewExplosion(
			node.Position(),
			c.cfg.ExplosionParticles,
			c.cfg.ExplosionSpeed,
			c.cfg.ExplosionLifetime.Seconds(),
		))
	}

	c.scene.Remove(node)
}

// ContactBegan implements scene.ContactDelegate.
func (c *Controller) ContactBegan(a, b *scene.Node) {
	if c.closed {
		return
	}
	catA, okA := a.Category()
	catB, okB := b.Category()
	if !okA || !okB {
		return
	}

	nodes := [2]*scene.Node{collision.SideA: a, collision.SideB: b}
	for _, action := range collision.Dispatch(collision.Contact{A: catA, B: catB}) {
		switch act := action.(type) {
		case collision.Remove:
			c.RemoveNode(nodes[act.Side], act.Explosion)
		case collision.Score:
			c.setScore(c.score + act.Delta)
		case collision.ReplaceShip:
			c.replaceShip(nodes[act.Side])
		}
	}
}

// replaceShip removes ship with an explosion after the configured delay and
// spawns a new one.
func (c *Controller) replaceShip(ship *scene.Node) {
	c.logger.Debug("ship hit", zap.Stringer("ship", ship))

	timer, err := c.queue.AsyncAfter(c.cfg.ShipReplaceDelay, func() {
		c.RemoveNode(ship, true)
		c.AddNewShip()
	})
	if err != nil {
		c.logger.Debug("ship replacement dropped", zap.Error(err))
		return
	}
	c.pruneTimers()
	c.timers = append(c.timers, timer)
}

func (c *Controller) pruneTimers() {
	kept := c.timers[:0]
	for _, t := range c.timers {
		if t.Pending() {
			kept = append(kept, t)
		}
	}
	clear(c.timers[len(kept):])
	c.timers = kept
}

// Close cancels every pending ship replacement and stops reacting to events.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	for _, t := range c.timers {
		t.Cancel()
	}
	c.timers = nil
}

// floatBetween returns a random value in [lo, hi].
func (c *Controller) floatBetween(lo, hi float64) float64 {
	return lo + c.rng.Float64()*(hi-lo)
}
