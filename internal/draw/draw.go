// Package draw renders half-block pixel graphics and text to a terminal.
package draw

// Point represents a 2D coordinate in logical canvas space.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Max render resolution. Larger terminals get a centered, bordered area.
const (
	MaxTermWidth  = 200
	MaxTermHeight = 60
)

// FitTerm clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func FitTerm(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(max(termWidth, 1), MaxTermWidth)
	renderHeight = min(max(termHeight, 1), MaxTermHeight)
	offsetCol = max((termWidth-renderWidth)/2, 0)
	offsetRow = max((termHeight-renderHeight)/2, 0)
	return
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
