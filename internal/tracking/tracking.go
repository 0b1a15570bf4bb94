// Package tracking defines the AR tracking provider the game consumes and a
// simulated provider that runs without a camera.
package tracking

import (
	"errors"

	"github.com/google/uuid"
	"github.com/tomz197/arviewer/internal/vecmath"
)

// ErrUnsupportedConfiguration is reported when a session is run with a
// tracking kind the device cannot provide.
var ErrUnsupportedConfiguration = errors.New("tracking: configuration not supported")

// Kind is the tracking quality a configuration asks for.
type Kind int

const (
	// WorldTracking tracks position and orientation and can detect planes.
	WorldTracking Kind = iota
	// OrientationTracking tracks only device orientation.
	OrientationTracking
)

func (k Kind) String() string {
	if k == WorldTracking {
		return "world"
	}
	return "orientation"
}

// PlaneDetection selects which surfaces world tracking looks for.
type PlaneDetection int

const (
	PlaneDetectionNone PlaneDetection = iota
	PlaneDetectionHorizontal
)

// Configuration describes how a session should track.
type Configuration struct {
	Kind           Kind
	PlaneDetection PlaneDetection
}

// Camera is the device camera pose in world space.
type Camera struct {
	Transform vecmath.Mat4
}

// Frame is one tracked camera frame.
type Frame struct {
	Camera Camera
}

// Anchor is a tracked real-world feature.
type Anchor interface {
	AnchorID() uuid.UUID
	AnchorTransform() vecmath.Mat4
}

// PlaneAnchor is a detected flat surface.
type PlaneAnchor struct {
	ID        uuid.UUID
	Transform vecmath.Mat4
	Center    vecmath.Vec3 // Relative to Transform
	Extent    vecmath.Vec3 // Width in X, length in Z
}

// AnchorID implements Anchor.
func (p PlaneAnchor) AnchorID() uuid.UUID { return p.ID }

// AnchorTransform implements Anchor.
func (p PlaneAnchor) AnchorTransform() vecmath.Mat4 { return p.Transform }

// Session is a running tracking session.
type Session interface {
	// Supports reports whether the device can run the given tracking kind.
	Supports(kind Kind) bool
	// Run starts or reconfigures tracking.
	Run(cfg Configuration)
	// Pause stops tracking until the next Run.
	Pause()
	// CurrentFrame returns the latest frame, if tracking has produced one.
	CurrentFrame() (Frame, bool)
}

// Delegate receives session and anchor events. All calls are made on the
// game loop goroutine.
type Delegate interface {
	SessionFailed(err error)
	SessionInterrupted()
	SessionInterruptionEnded()
	AnchorAdded(anchor Anchor)
}
