package draw

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitTerm(t *testing.T) {
	w, h, col, row := FitTerm(80, 24)
	assert.Equal(t, []int{80, 24, 0, 0}, []int{w, h, col, row})

	w, h, col, row = FitTerm(MaxTermWidth+10, MaxTermHeight+4)
	assert.Equal(t, []int{MaxTermWidth, MaxTermHeight, 5, 2}, []int{w, h, col, row})
}

func TestDrawLineSetsEndpoints(t *testing.T) {
	c := NewScaledCanvas(10, 5, 10, 10)
	c.DrawLine(Point{0, 0}, Point{9, 9})

	assert.True(t, c.Pixel(0, 0))
	assert.True(t, c.Pixel(9, 9))
	assert.True(t, c.Pixel(5, 5))
	assert.False(t, c.Pixel(9, 0))
}

func TestDrawLineClipsFarEndpoints(t *testing.T) {
	c := NewScaledCanvas(10, 5, 10, 10)
	c.DrawLine(Point{-1e12, 5}, Point{1e12, 5})

	for x := 0.0; x < 10; x++ {
		assert.True(t, c.Pixel(x, 5), "x=%v", x)
	}

	c.Clear()
	c.DrawLine(Point{-50, -50}, Point{-10, -40})
	assert.Empty(t, renderString(c))
}

func TestClipLine(t *testing.T) {
	x1, y1, x2, y2, ok := clipLine(-10, 5, 20, 5, 0, 0, 10, 10)
	require.True(t, ok)
	assert.InDeltaSlice(t, []float64{0, 5, 10, 5}, []float64{x1, y1, x2, y2}, 1e-9)

	_, _, _, _, ok = clipLine(-10, -10, -5, -1, 0, 0, 10, 10)
	assert.False(t, ok)
}

func TestFilledPolygon(t *testing.T) {
	c := NewScaledCanvas(10, 5, 10, 10)
	c.DrawPolygon([]Point{{2, 2}, {7, 2}, {7, 7}, {2, 7}}, true)

	assert.True(t, c.Pixel(4, 4))
	assert.False(t, c.Pixel(8, 8))
}

func TestRenderOnlyEmitsChanges(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 0, 0)

	// First render paints every cell.
	c.SetFloat(0, 0)
	assert.Equal(t, 8, c.Render(cw))
	require.NoError(t, cw.Flush())
	assert.Contains(t, out.String(), string(BlockUpperHalf))

	// Nothing changed.
	assert.Equal(t, 0, c.Render(cw))

	// Clearing the pixel rewrites exactly that cell.
	c.Clear()
	assert.Equal(t, 1, c.Render(cw))

	c.Invalidate(2, 2, 10)
	assert.Equal(t, 3, c.Render(cw))

	c.ForceRedraw()
	assert.Equal(t, 8, c.Render(cw))
}

func TestRenderBorderOnlyWithOffset(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	var buf bytes.Buffer
	c.RenderBorder(&buf)
	assert.Empty(t, buf.String())

	c.SetOffset(1, 1)
	c.RenderBorder(&buf)
	assert.Contains(t, buf.String(), "┌────┐")
	assert.Contains(t, buf.String(), "└────┘")
	assert.Equal(t, 4, strings.Count(buf.String(), "│"))
}

func TestChunkWriterAppliesOffset(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 3, 2)
	cw.WriteAt(1, 1, "hi")
	assert.Equal(t, len("\033[3;4Hhi"), cw.Len())
	require.NoError(t, cw.Flush())
	assert.Equal(t, "\033[3;4Hhi", out.String())
	assert.Zero(t, cw.Len())
}

// renderString renders set pixels only, ignoring cleared cells.
func renderString(c *Canvas) string {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 0, 0)
	c.Render(cw)
	_ = cw.Flush()
	return strings.Map(func(r rune) rune {
		if r == BlockFull || r == BlockUpperHalf || r == BlockLowerHalf {
			return r
		}
		return -1
	}, out.String())
}
