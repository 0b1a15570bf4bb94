// Package render draws the scene from the tracked camera onto a terminal canvas.
package render

import (
	"math"

	"github.com/fogleman/fauxgl"

	"github.com/tomz197/arviewer/internal/draw"
	"github.com/tomz197/arviewer/internal/vecmath"
)

// DefaultFOV is the horizontal field of view in degrees.
const DefaultFOV = 70.0

const (
	nearPlane = 0.01 // Closest drawn camera-space depth, in meters
	farPlane  = 100.0
)

// Camera is a perspective projection from a world-space pose onto the logical
// canvas.
type Camera struct {
	pose vecmath.Mat4
	view fauxgl.Matrix
	proj fauxgl.Matrix

	halfW, halfH float64
}

// NewCamera creates a camera at pose projecting onto a logical canvas of the
// given size with a horizontal field of view of fov degrees. A pose without a
// facing direction is treated as the identity.
func NewCamera(pose vecmath.Mat4, width, height, fov float64) Camera {
	if pose.Forward().IsZero() || pose.Up().IsZero() {
		pose = vecmath.Identity()
	}
	eye := vecmath.PositionFromTransform(pose)
	aspect := width / height
	// fauxgl takes the vertical field of view.
	tanHalf := math.Tan(vecmath.DegreesToRadians(fov) / 2)
	fovy := vecmath.RadiansToDegrees(2 * math.Atan(tanHalf/aspect))

	return Camera{
		pose:  pose,
		view:  fauxgl.LookAt(eye.Vector(), eye.Add(pose.Forward()).Vector(), pose.Up().Vector()),
		proj:  fauxgl.Perspective(fovy, aspect, nearPlane, farPlane),
		halfW: width / 2,
		halfH: height / 2,
	}
}

// Pose returns the camera transform.
func (c Camera) Pose() vecmath.Mat4 {
	return c.pose
}

// Center returns the logical canvas point the camera looks through.
func (c Camera) Center() draw.Point {
	return draw.Point{X: c.halfW, Y: c.halfH}
}

// toView converts a world point to camera space. The camera looks down -Z.
func (c Camera) toView(p vecmath.Vec3) fauxgl.Vector {
	return c.view.MulPosition(p.Vector())
}

func (c Camera) projectView(v fauxgl.Vector) draw.Point {
	clip := c.proj.MulPositionW(v)
	return draw.Point{
		X: c.halfW + c.halfW*clip.X/clip.W,
		Y: c.halfH - c.halfH*clip.Y/clip.W,
	}
}

// Project maps a world point to the canvas. ok is false for points behind
// the camera. depth is the distance along the view direction.
func (c Camera) Project(p vecmath.Vec3) (pt draw.Point, depth float64, ok bool) {
	v := c.toView(p)
	if -v.Z < nearPlane {
		return draw.Point{}, 0, false
	}
	return c.projectView(v), -v.Z, true
}

// ProjectSegment maps a world segment to the canvas, clipping it at the near
// plane. ok is false when the whole segment is behind the camera.
func (c Camera) ProjectSegment(a, b vecmath.Vec3) (pa, pb draw.Point, ok bool) {
	va, vb := vecmath.FromVector(c.toView(a)), vecmath.FromVector(c.toView(b))
	da, db := -va.Z, -vb.Z

	switch {
	case da < nearPlane && db < nearPlane:
		return draw.Point{}, draw.Point{}, false
	case da < nearPlane:
		va = vecmath.Lerp(va, vb, (nearPlane-da)/(db-da))
	case db < nearPlane:
		vb = vecmath.Lerp(vb, va, (nearPlane-db)/(da-db))
	}
	return c.projectView(va.Vector()), c.projectView(vb.Vector()), true
}

// ProjectedSize returns how many logical units a world length covers at the
// given depth.
func (c Camera) ProjectedSize(length, depth float64) float64 {
	if depth <= 0 {
		return 0
	}
	return c.proj.X00 * c.halfW * length / depth
}
