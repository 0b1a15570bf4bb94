// Package loop runs a game for one terminal: it reads keys, advances the
// tracking session and the scene, and draws frames.
package loop

import (
	"bufio"
	"context"
	"io"
	"io/fs"
	"time"

	"go.uber.org/zap"

	"github.com/tomz197/arviewer/internal/audio"
	"github.com/tomz197/arviewer/internal/config"
	"github.com/tomz197/arviewer/internal/draw"
	"github.com/tomz197/arviewer/internal/logging"
)

// Options configures a game.
type Options struct {
	Config       config.Game
	Logger       *zap.Logger // Nil uses the process logger
	Sounds       fs.FS      // Sound effect bundle; nil plays nothing
	Sink         audio.Sink // Nil rings the terminal bell
	TermSizeFunc draw.TermSizeFunc
	Registry     *Registry // Optional; receives shutdown notices
	Username     string
	Now          func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Config.TargetFPS <= 0 {
		o.Config = config.Default()
	}
	if o.Logger == nil {
		o.Logger = logging.Provide()
	}
	if o.TermSizeFunc == nil {
		o.TermSizeFunc = draw.DefaultTermSizeFunc
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Run plays one game until the player quits or ctx is cancelled.
func Run(ctx context.Context, r *bufio.Reader, w io.Writer, opts Options) error {
	return NewClient(r, w, opts).Run(ctx)
}
