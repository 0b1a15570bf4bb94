// Package physics provides a small contact-only rigid body world: bodies move
// under their velocity (and optionally gravity) and report when they begin
// touching. There is no collision response.
package physics

import "github.com/tomz197/arviewer/internal/vecmath"

// SpheresOverlap checks if two spheres overlap.
func SpheresOverlap(c1 vecmath.Vec3, r1 float64, c2 vecmath.Vec3, r2 float64) bool {
	minDist := r1 + r2
	return vecmath.DistanceSquared(c1, c2) < minDist*minDist
}

// PointInSphere checks if a point is within radius of a center.
func PointInSphere(p, center vecmath.Vec3, radius float64) bool {
	return vecmath.DistanceSquared(p, center) <= radius*radius
}
