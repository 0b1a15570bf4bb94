package vecmath

import (
	"math"

	"github.com/fogleman/fauxgl"
)

// Mat4 is a 4x4 affine transform acting on column vectors.
// Columns 0-2 hold the local right, up and back axes; column 3 holds the
// translation.
type Mat4 fauxgl.Matrix

// Identity returns the identity transform.
func Identity() Mat4 {
	return Mat4(fauxgl.Identity())
}

// Translation returns a transform that moves points by t.
func Translation(t Vec3) Mat4 {
	return Mat4(fauxgl.Translate(t.Vector()))
}

// RotationX returns a rotation of angle radians about the X axis.
// Positive angles turn the forward axis up.
func RotationX(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	return Mat4{
		X00: 1,
		X11: c, X12: -s,
		X21: s, X22: c,
		X33: 1,
	}
}

// RotationY returns a rotation of angle radians about the Y axis.
// Positive angles turn the forward axis left.
func RotationY(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	return Mat4{
		X00: c, X02: s,
		X11: 1,
		X20: -s, X22: c,
		X33: 1,
	}
}

// Matrix returns m as a fauxgl matrix.
func (m Mat4) Matrix() fauxgl.Matrix {
	return fauxgl.Matrix(m)
}

// Mul returns m applied after o.
func (m Mat4) Mul(o Mat4) Mat4 {
	return Mat4(m.Matrix().Mul(o.Matrix()))
}

// Column returns the first three components of column i.
func (m Mat4) Column(i int) Vec3 {
	switch i {
	case 0:
		return Vec3{m.X00, m.X10, m.X20}
	case 1:
		return Vec3{m.X01, m.X11, m.X21}
	case 2:
		return Vec3{m.X02, m.X12, m.X22}
	default:
		return Vec3{m.X03, m.X13, m.X23}
	}
}

// Right returns the local X axis in world space.
func (m Mat4) Right() Vec3 { return m.Column(0) }

// Up returns the local Y axis in world space.
func (m Mat4) Up() Vec3 { return m.Column(1) }

// Back returns the local Z axis in world space.
func (m Mat4) Back() Vec3 { return m.Column(2) }

// Forward returns the direction the transform faces: the negated local Z axis.
func (m Mat4) Forward() Vec3 { return m.Back().Negate() }

// PositionFromTransform extracts the translation of m.
func PositionFromTransform(m Mat4) Vec3 {
	return m.Column(3)
}

// TransformPoint maps p from local to world space.
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	return FromVector(m.Matrix().MulPosition(p.Vector()))
}

// Vector returns v as a fauxgl vector.
func (v Vec3) Vector() fauxgl.Vector {
	return fauxgl.Vector{X: v.X, Y: v.Y, Z: v.Z}
}

// FromVector converts a fauxgl vector.
func FromVector(v fauxgl.Vector) Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}
