package physics

import (
	"math"

	"github.com/tomz197/arviewer/internal/vecmath"
)

// SpatialGrid is an unbounded uniform grid for broad-phase collision detection.
// Objects are inserted by position and index, then nearby objects can be
// queried through the 3x3x3 neighborhood of cells around a point.
//
// Cell size must be >= the maximum interaction distance between any two
// colliding objects so that all potential collisions are found within
// the neighborhood.
type SpatialGrid struct {
	cellSize    float64
	invCellSize float64 // 1 / cellSize (precomputed to avoid division)
	cells       map[cellKey][]int
}

type cellKey struct {
	x, y, z int
}

// NewSpatialGrid creates a grid with the given cell size.
func NewSpatialGrid(cellSize float64) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &SpatialGrid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		cells:       make(map[cellKey][]int),
	}
}

// CellSize returns the edge length of a cell.
func (g *SpatialGrid) CellSize() float64 {
	return g.cellSize
}

// Clear removes all items while keeping cell slices for reuse.
func (g *SpatialGrid) Clear() {
	for k, items := range g.cells {
		g.cells[k] = items[:0]
	}
}

// Insert adds an item (identified by index) at the given position.
func (g *SpatialGrid) Insert(p vecmath.Vec3, index int) {
	k := g.posToCell(p)
	g.cells[k] = append(g.cells[k], index)
}

// QueryAround calls fn for each item index in the 3x3x3 cell neighborhood
// around p. If fn returns true, iteration stops early.
func (g *SpatialGrid) QueryAround(p vecmath.Vec3, fn func(index int) bool) {
	c := g.posToCell(p)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				for _, idx := range g.cells[cellKey{c.x + dx, c.y + dy, c.z + dz}] {
					if fn(idx) {
						return
					}
				}
			}
		}
	}
}

func (g *SpatialGrid) posToCell(p vecmath.Vec3) cellKey {
	return cellKey{
		x: int(math.Floor(p.X * g.invCellSize)),
		y: int(math.Floor(p.Y * g.invCellSize)),
		z: int(math.Floor(p.Z * g.invCellSize)),
	}
}
