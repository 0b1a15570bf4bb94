// Package vecmath provides the 3D vector and transform math used by the scene.
package vecmath

import (
	"errors"
	"math"
)

// ErrZeroLength is returned when a direction is requested from a zero-length vector.
var ErrZeroLength = errors.New("vecmath: zero-length vector")

// Vec3 is an immutable 3D vector. Positions are in meters.
type Vec3 struct {
	X, Y, Z float64
}

// V3 creates a new Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Zero returns the zero vector.
func Zero() Vec3 {
	return Vec3{}
}

// Add returns the component-wise sum v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns the component-wise difference v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale multiplies every component by k.
func (v Vec3) Scale(k float64) Vec3 {
	return Vec3{v.X * k, v.Y * k, v.Z * k}
}

// Negate returns -v.
func (v Vec3) Negate() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Dot returns the dot product v · o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the right-handed cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// MagnitudeSquared returns x²+y²+z². Use it to compare lengths without the sqrt.
func (v Vec3) MagnitudeSquared() float64 {
	return v.Dot(v)
}

// Magnitude returns the Euclidean length of v.
func (v Vec3) Magnitude() float64 {
	return math.Sqrt(v.Dot(v))
}

// IsZero reports whether all components are exactly zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Normalized returns the unit vector pointing the same way as v.
// The zero vector has no direction and normalizes to the zero vector.
func (v Vec3) Normalized() Vec3 {
	n, err := v.NormalizedChecked()
	if err != nil {
		return Vec3{}
	}
	return n
}

// NormalizedChecked is Normalized for callers that need to know the input
// was degenerate. It returns ErrZeroLength for the zero vector.
func (v Vec3) NormalizedChecked() (Vec3, error) {
	mag := v.Magnitude()
	if mag == 0 {
		return Vec3{}, ErrZeroLength
	}
	inv := 1 / mag
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}, nil
}

// AngleBetween returns the angle between v and o in radians, in [0, π].
// Returns 0 when either vector has zero length.
func (v Vec3) AngleBetween(o Vec3) float64 {
	denom := v.Magnitude() * o.Magnitude()
	if denom == 0 {
		return 0
	}
	return math.Acos(clampUnit(v.Dot(o) / denom))
}

// AngleAt returns the angle in degrees formed at vertex mid by the rays
// toward start and end. Returns 0 if either ray is degenerate.
func AngleAt(start, mid, end Vec3) float64 {
	a, errA := start.Sub(mid).NormalizedChecked()
	b, errB := end.Sub(mid).NormalizedChecked()
	if errA != nil || errB != nil {
		return 0
	}
	return RadiansToDegrees(math.Acos(clampUnit(a.Dot(b))))
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Vec3) float64 {
	return a.Sub(b).Magnitude()
}

// DistanceSquared returns the squared distance between a and b.
func DistanceSquared(a, b Vec3) float64 {
	return a.Sub(b).MagnitudeSquared()
}

// Lerp interpolates linearly from a (t=0) to b (t=1).
func Lerp(a, b Vec3, t float64) Vec3 {
	return a.Add(b.Sub(a).Scale(t))
}

// Equal reports exact component-wise equality.
func (v Vec3) Equal(o Vec3) bool {
	return v == o
}

// ApproxEqual reports whether every component differs by at most eps.
func (v Vec3) ApproxEqual(o Vec3, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps &&
		math.Abs(v.Y-o.Y) <= eps &&
		math.Abs(v.Z-o.Z) <= eps
}

// RadiansToDegrees converts an angle from radians to degrees.
func RadiansToDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// DegreesToRadians converts an angle from degrees to radians.
func DegreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// clampUnit keeps rounding error from pushing a cosine outside acos's domain.
func clampUnit(c float64) float64 {
	if c > 1 {
		return 1
	}
	if c < -1 {
		return -1
	}
	return c
}
