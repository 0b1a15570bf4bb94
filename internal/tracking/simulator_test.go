package tracking

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomz197/arviewer/internal/vecmath"
)

type recorder struct {
	failures      []error
	interruptions int
	resumed       int
	anchors       []Anchor
}

func (r *recorder) SessionFailed(err error)   { r.failures = append(r.failures, err) }
func (r *recorder) SessionInterrupted()       { r.interruptions++ }
func (r *recorder) SessionInterruptionEnded() { r.resumed++ }
func (r *recorder) AnchorAdded(a Anchor)      { r.anchors = append(r.anchors, a) }

func testOptions() SimulatorOptions {
	return SimulatorOptions{
		WorldTrackingSupported: true,
		LookSpeed:              math.Pi / 2,
		PlaneDetectionDelay:    time.Second,
		PlanePosition:          vecmath.V3(0, -0.5, -1),
		PlaneExtent:            vecmath.V3(1, 0, 1),
	}
}

func worldConfig() Configuration {
	return Configuration{Kind: WorldTracking, PlaneDetection: PlaneDetectionHorizontal}
}

func TestNoFrameBeforeRun(t *testing.T) {
	s := NewSimulator(testOptions(), nil)
	_, ok := s.CurrentFrame()
	assert.False(t, ok)
}

func TestUnsupportedWorldTrackingFails(t *testing.T) {
	opts := testOptions()
	opts.WorldTrackingSupported = false
	rec := &recorder{}
	s := NewSimulator(opts, rec)

	assert.False(t, s.Supports(WorldTracking))
	assert.True(t, s.Supports(OrientationTracking))

	s.Run(worldConfig())
	require.Len(t, rec.failures, 1)
	assert.ErrorIs(t, rec.failures[0], ErrUnsupportedConfiguration)
	assert.False(t, s.Running())
}

func TestPlaneDetectedOnceAfterDelay(t *testing.T) {
	rec := &recorder{}
	s := NewSimulator(testOptions(), rec)
	s.Run(worldConfig())

	s.Update(500*time.Millisecond, Look{})
	assert.Empty(t, rec.anchors)

	s.Update(500*time.Millisecond, Look{})
	require.Len(t, rec.anchors, 1)
	plane, ok := rec.anchors[0].(PlaneAnchor)
	require.True(t, ok)
	assert.Equal(t, vecmath.V3(0, -0.5, -1), vecmath.PositionFromTransform(plane.AnchorTransform()))

	s.Update(time.Second, Look{})
	assert.Len(t, rec.anchors, 1)
}

func TestOrientationTrackingNeverFindsPlanes(t *testing.T) {
	rec := &recorder{}
	s := NewSimulator(testOptions(), rec)
	s.Run(Configuration{Kind: OrientationTracking})
	s.Update(10*time.Second, Look{})
	assert.Empty(t, rec.anchors)

	frame, ok := s.CurrentFrame()
	require.True(t, ok)
	assert.Equal(t, vecmath.Zero(), vecmath.PositionFromTransform(frame.Camera.Transform))
}

func TestLookTurnsCamera(t *testing.T) {
	s := NewSimulator(testOptions(), nil)
	s.Run(worldConfig())

	s.Update(time.Second, Look{Left: true})
	frame, ok := s.CurrentFrame()
	require.True(t, ok)
	assert.True(t, frame.Camera.Transform.Forward().ApproxEqual(vecmath.V3(-1, 0, 0), 1e-9))

	s.Update(10*time.Second, Look{Up: true})
	assert.Less(t, s.Pitch(), math.Pi/2)
}

func TestInterruption(t *testing.T) {
	rec := &recorder{}
	s := NewSimulator(testOptions(), rec)
	s.Run(worldConfig())

	s.SetInterrupted(true)
	s.SetInterrupted(true)
	_, ok := s.CurrentFrame()
	assert.False(t, ok)

	// Time does not advance while interrupted.
	s.Update(5*time.Second, Look{})
	assert.Empty(t, rec.anchors)

	s.SetInterrupted(false)
	assert.Equal(t, 1, rec.interruptions)
	assert.Equal(t, 1, rec.resumed)
	_, ok = s.CurrentFrame()
	assert.True(t, ok)
}

func TestPause(t *testing.T) {
	s := NewSimulator(testOptions(), nil)
	s.Run(worldConfig())
	s.Pause()
	_, ok := s.CurrentFrame()
	assert.False(t, ok)
}
