package render

import (
	"github.com/tomz197/arviewer/internal/draw"
	"github.com/tomz197/arviewer/internal/scene"
	"github.com/tomz197/arviewer/internal/vecmath"
)

// Marker sizes in logical canvas units.
const (
	targetMarkerSize = 3.0
	crosshairSize    = 2.0
)

// cubeEdges lists the corner index pairs of a box wireframe. Corner i has
// bit 0 for +X, bit 1 for +Y and bit 2 for +Z.
var cubeEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7}, // along X
	{0, 2}, {1, 3}, {4, 6}, {5, 7}, // along Y
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // along Z
}

// DrawScene draws every node visible from cam.
func DrawScene(canvas *draw.Canvas, cam Camera, nodes []*scene.Node) {
	for _, n := range nodes {
		DrawNode(canvas, cam, n)
	}
}

// DrawNode draws one node.
func DrawNode(canvas *draw.Canvas, cam Camera, n *scene.Node) {
	switch g := n.Geometry.(type) {
	case scene.Box:
		if n.Kind == scene.KindTarget {
			drawTarget(canvas, cam, n.Position())
			return
		}
		half := vecmath.V3(g.Width*n.Scale.X, g.Height*n.Scale.Y, g.Length*n.Scale.Z).Scale(0.5)
		drawBox(canvas, cam, n.Position(), half, n.Rotation)
	case scene.Sphere:
		drawSphere(canvas, cam, n.Position(), g.Radius*n.Scale.X)
	case scene.Plane:
		drawPlane(canvas, cam, n.Position(), g.Width*n.Scale.X, g.Length*n.Scale.Z, n.Rotation)
	case scene.LineGeometry:
		drawSegment(canvas, cam, g.Segment.Vertices[0], g.Segment.Vertices[1])
	case *scene.ParticleSystem:
		for _, p := range g.Particles {
			if p.Lifetime <= 0 {
				continue
			}
			if pt, _, ok := cam.Project(p.Position); ok {
				canvas.SetFloat(pt.X, pt.Y)
			}
		}
	}
}

func drawSegment(canvas *draw.Canvas, cam Camera, a, b vecmath.Vec3) {
	if pa, pb, ok := cam.ProjectSegment(a, b); ok {
		canvas.DrawLine(pa, pb)
	}
}

// drawBox draws a wireframe box with the given half extents, oriented by rot.
func drawBox(canvas *draw.Canvas, cam Camera, center, half vecmath.Vec3, rot vecmath.Mat4) {
	var corners [8]vecmath.Vec3
	for i := range corners {
		local := vecmath.V3(-half.X, -half.Y, -half.Z)
		if i&1 != 0 {
			local.X = half.X
		}
		if i&2 != 0 {
			local.Y = half.Y
		}
		if i&4 != 0 {
			local.Z = half.Z
		}
		corners[i] = rot.TransformPoint(local).Add(center)
	}
	for _, e := range cubeEdges {
		drawSegment(canvas, cam, corners[e[0]], corners[e[1]])
	}
}

// drawSphere draws a small diamond, or a single pixel when the sphere is
// too far away to cover one.
func drawSphere(canvas *draw.Canvas, cam Camera, center vecmath.Vec3, radius float64) {
	pt, depth, ok := cam.Project(center)
	if !ok {
		return
	}
	r := cam.ProjectedSize(radius, depth)
	if r < 1 {
		canvas.SetFloat(pt.X, pt.Y)
		return
	}
	canvas.DrawPolygon(diamond(canvas, pt, r), true)
}

// drawTarget draws the target as a filled diamond of fixed screen size so
// it stays visible regardless of its model scale.
func drawTarget(canvas *draw.Canvas, cam Camera, center vecmath.Vec3) {
	pt, _, ok := cam.Project(center)
	if !ok {
		return
	}
	canvas.DrawPolygon(diamond(canvas, pt, targetMarkerSize), true)
}

func diamond(canvas *draw.Canvas, c draw.Point, r float64) []draw.Point {
	pts := canvas.BorrowPoints(4)
	pts[0] = draw.Point{X: c.X, Y: c.Y - r}
	pts[1] = draw.Point{X: c.X + r, Y: c.Y}
	pts[2] = draw.Point{X: c.X, Y: c.Y + r}
	pts[3] = draw.Point{X: c.X - r, Y: c.Y}
	return pts
}

// drawPlane outlines a plane. The geometry lies in the node's local XY
// plane and rot lays it flat.
func drawPlane(canvas *draw.Canvas, cam Camera, center vecmath.Vec3, width, length float64, rot vecmath.Mat4) {
	hw, hl := width/2, length/2
	local := [4]vecmath.Vec3{
		vecmath.V3(-hw, -hl, 0),
		vecmath.V3(hw, -hl, 0),
		vecmath.V3(hw, hl, 0),
		vecmath.V3(-hw, hl, 0),
	}
	var world [4]vecmath.Vec3
	for i, p := range local {
		world[i] = rot.TransformPoint(p).Add(center)
	}
	for i := range world {
		drawSegment(canvas, cam, world[i], world[(i+1)%len(world)])
	}
}

// DrawCrosshair marks the point bullets are fired through.
func DrawCrosshair(canvas *draw.Canvas, cam Camera) {
	c := cam.Center()
	canvas.DrawLine(draw.Point{X: c.X - crosshairSize, Y: c.Y}, draw.Point{X: c.X + crosshairSize, Y: c.Y})
	canvas.DrawLine(draw.Point{X: c.X, Y: c.Y - crosshairSize}, draw.Point{X: c.X, Y: c.Y + crosshairSize})
}
