package vecmath

// Color is an RGB color with components in [0, 1].
type Color struct {
	R, G, B float64
}

// Common colors.
var (
	White  = Color{1, 1, 1}
	Red    = Color{1, 0, 0}
	Green  = Color{0, 1, 0}
	Yellow = Color{1, 1, 0}
)

// Primitive identifies how geometry indices are assembled.
type Primitive int

const (
	PrimitiveLine Primitive = iota
	PrimitiveTriangles
	PrimitivePoint
)

// LineSegment is renderable geometry for a single line: two vertices, one
// line element indexing them, and one color attribute.
type LineSegment struct {
	Vertices  [2]Vec3
	Indices   [2]int32
	Primitive Primitive
	Color     Color
}

// Line builds the geometry for a segment from a to b.
func Line(a, b Vec3, color Color) LineSegment {
	return LineSegment{
		Vertices:  [2]Vec3{a, b},
		Indices:   [2]int32{0, 1},
		Primitive: PrimitiveLine,
		Color:     color,
	}
}

// Length returns the distance between the segment's endpoints.
func (l LineSegment) Length() float64 {
	return Distance(l.Vertices[l.Indices[0]], l.Vertices[l.Indices[1]])
}

// Midpoint returns the point halfway along the segment.
func (l LineSegment) Midpoint() Vec3 {
	return Lerp(l.Vertices[0], l.Vertices[1], 0.5)
}
