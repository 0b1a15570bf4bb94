package render

import (
	"fmt"
	"unicode/utf8"

	"github.com/tomz197/arviewer/internal/draw"
	"github.com/tomz197/arviewer/internal/ui"
)

// Stats are the engine statistics shown when enabled.
type Stats struct {
	FPS   float64
	Nodes int
}

// HUD draws text overlays on top of the canvas.
type HUD struct {
	Score          *ui.TextLabel
	ShowStatistics bool
	Help           string
}

// NewHUD creates a HUD with a score label in the top left corner.
func NewHUD(showStatistics bool) *HUD {
	return &HUD{
		Score:          ui.NewTextLabel(2, 1, "Score: "),
		ShowStatistics: showStatistics,
		Help:           "space: fire  arrows/wasd: look  p: pause  q: quit",
	}
}

// Draw writes the overlays. Text is written over canvas cells, which are
// invalidated so the next frame repaints them.
func (h *HUD) Draw(cw *draw.ChunkWriter, canvas *draw.Canvas, stats Stats, status string) error {
	width := canvas.TerminalWidth()
	height := canvas.TerminalHeight()

	// The label positions itself absolutely, so include the canvas offset.
	h.Score.X = canvas.OffsetCol() + 2
	h.Score.Y = canvas.OffsetRow() + 1
	if err := h.Score.Draw(cw); err != nil {
		return err
	}
	canvas.Invalidate(2, 1, utf8.RuneCountInString(h.Score.Prefix+h.Score.Text()))

	if h.ShowStatistics {
		text := fmt.Sprintf("%3.0f fps  %3d nodes", stats.FPS, stats.Nodes)
		writeOverlay(cw, canvas, width-utf8.RuneCountInString(text), 1, text)
	}

	if status != "" {
		writeOverlay(cw, canvas, (width-utf8.RuneCountInString(status))/2+1, height/2-2, status)
	}

	if h.Help != "" && height > 2 {
		writeOverlay(cw, canvas, 2, height, h.Help)
	}
	return nil
}

// writeOverlay writes text at a 1-based canvas position, truncated to the
// canvas width.
func writeOverlay(cw *draw.ChunkWriter, canvas *draw.Canvas, col, row int, text string) {
	col = max(col, 1)
	room := canvas.TerminalWidth() - col + 1
	if room <= 0 || row < 1 {
		return
	}
	if runes := []rune(text); len(runes) > room {
		text = string(runes[:room])
	}
	cw.WriteAt(col, row, text)
	canvas.Invalidate(col, row, utf8.RuneCountInString(text))
}
