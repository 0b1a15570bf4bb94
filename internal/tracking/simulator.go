package tracking

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/tomz197/arviewer/internal/vecmath"
)

// Look is the camera steering requested for one frame.
type Look struct {
	Left, Right, Up, Down bool
}

// SimulatorOptions configures a Simulator.
type SimulatorOptions struct {
	WorldTrackingSupported bool
	CameraPosition         vecmath.Vec3
	LookSpeed              float64       // Radians per second
	PlaneDetectionDelay    time.Duration // Time until the first plane is found
	PlanePosition          vecmath.Vec3
	PlaneExtent            vecmath.Vec3
}

// Simulator is a Session driven by keyboard look input instead of a camera.
// It detects one horizontal plane after a delay when world tracking with
// plane detection is running.
type Simulator struct {
	opts     SimulatorOptions
	delegate Delegate

	running     bool
	config      Configuration
	interrupted bool
	elapsed     time.Duration
	planeFound  bool

	yaw, pitch float64
}

// Compile-time check that Simulator implements Session.
var _ Session = (*Simulator)(nil)

// NewSimulator creates a simulated session reporting to d.
func NewSimulator(opts SimulatorOptions, d Delegate) *Simulator {
	return &Simulator{opts: opts, delegate: d}
}

// SetDelegate replaces the receiver of session events.
func (s *Simulator) SetDelegate(d Delegate) {
	s.delegate = d
}

// Supports implements Session.
func (s *Simulator) Supports(kind Kind) bool {
	if kind == WorldTracking {
		return s.opts.WorldTrackingSupported
	}
	return true
}

// Run implements Session. Running an unsupported configuration reports
// ErrUnsupportedConfiguration to the delegate and leaves the session stopped.
func (s *Simulator) Run(cfg Configuration) {
	if !s.Supports(cfg.Kind) {
		s.running = false
		if s.delegate != nil {
			s.delegate.SessionFailed(fmt.Errorf("run %s tracking: %w", cfg.Kind, ErrUnsupportedConfiguration))
		}
		return
	}
	s.config = cfg
	s.running = true
}

// Pause implements Session.
func (s *Simulator) Pause() {
	s.running = false
}

// Running reports whether the session is tracking.
func (s *Simulator) Running() bool {
	return s.running
}

// Interrupted reports whether tracking is currently interrupted.
func (s *Simulator) Interrupted() bool {
	return s.interrupted
}

// Configuration returns the configuration of the last successful Run.
func (s *Simulator) Configuration() Configuration {
	return s.config
}

// SetInterrupted starts or ends an interruption, notifying the delegate on change.
func (s *Simulator) SetInterrupted(v bool) {
	if v == s.interrupted {
		return
	}
	s.interrupted = v
	if s.delegate == nil {
		return
	}
	if v {
		s.delegate.SessionInterrupted()
	} else {
		s.delegate.SessionInterruptionEnded()
	}
}

// CurrentFrame implements Session. No frames are produced while stopped or
// interrupted.
func (s *Simulator) CurrentFrame() (Frame, bool) {
	if !s.running || s.interrupted {
		return Frame{}, false
	}
	return Frame{Camera: Camera{Transform: s.cameraTransform()}}, true
}

// Update advances the simulation by dt, applying look input and detecting
// the plane when it is due.
func (s *Simulator) Update(dt time.Duration, look Look) {
	if !s.running || s.interrupted {
		return
	}
	s.elapsed += dt

	step := s.opts.LookSpeed * dt.Seconds()
	if look.Left {
		s.yaw += step
	}
	if look.Right {
		s.yaw -= step
	}
	if look.Up {
		s.pitch += step
	}
	if look.Down {
		s.pitch -= step
	}
	// Keep the camera from flipping over.
	limit := math.Pi/2 - 0.01
	s.pitch = math.Max(-limit, math.Min(limit, s.pitch))

	if s.planeFound || s.config.Kind != WorldTracking || s.config.PlaneDetection != PlaneDetectionHorizontal {
		return
	}
	if s.elapsed < s.opts.PlaneDetectionDelay {
		return
	}
	s.planeFound = true
	if s.delegate != nil {
		s.delegate.AnchorAdded(PlaneAnchor{
			ID:        uuid.New(),
			Transform: vecmath.Translation(s.opts.PlanePosition),
			Extent:    s.opts.PlaneExtent,
		})
	}
}

// Yaw returns the camera heading in radians; positive turns left.
func (s *Simulator) Yaw() float64 { return s.yaw }

// Pitch returns the camera elevation in radians; positive looks up.
func (s *Simulator) Pitch() float64 { return s.pitch }

func (s *Simulator) cameraTransform() vecmath.Mat4 {
	// Orientation-only tracking pins the camera at the origin.
	pos := s.opts.CameraPosition
	if s.config.Kind == OrientationTracking {
		pos = vecmath.Zero()
	}
	return vecmath.Translation(pos).
		Mul(vecmath.RotationY(s.yaw)).
		Mul(vecmath.RotationX(s.pitch))
}
