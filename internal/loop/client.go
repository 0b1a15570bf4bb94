package loop

import (
	"bufio"
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/tomz197/arviewer/internal/audio"
	"github.com/tomz197/arviewer/internal/config"
	"github.com/tomz197/arviewer/internal/dispatch"
	"github.com/tomz197/arviewer/internal/draw"
	"github.com/tomz197/arviewer/internal/game"
	"github.com/tomz197/arviewer/internal/input"
	"github.com/tomz197/arviewer/internal/render"
	"github.com/tomz197/arviewer/internal/scene"
	"github.com/tomz197/arviewer/internal/tracking"
	"github.com/tomz197/arviewer/internal/vecmath"
)

// Client runs one game for a single terminal.
type Client struct {
	cfg      config.Game
	logger   *zap.Logger
	state    *ClientState
	registry *Registry
	handle   *Handle

	queue   *dispatch.Queue
	scene   *scene.Scene
	session *tracking.Simulator
	player  *audio.Player
	ctrl    *game.Controller
	hud     *render.HUD

	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates frame output for chunked writes
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc
	now          func() time.Time

	pose vecmath.Mat4 // Last tracked camera pose
}

// NewClient builds a game reading keys from r and drawing to w.
func NewClient(r *bufio.Reader, w io.Writer, opts Options) *Client {
	opts = opts.withDefaults()

	termSizeFunc := opts.TermSizeFunc
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := draw.FitTerm(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, config.ViewWidth, config.ViewHeight)
	canvas.SetOffset(offsetCol, offsetRow)
	chunkWriter := draw.NewChunkWriter(w, offsetCol, offsetRow)

	c := &Client{
		cfg:          opts.Config,
		logger:       opts.Logger,
		state:        NewClientState(opts.Now()),
		registry:     opts.Registry,
		queue:        dispatch.New(dispatch.WithClock(opts.Now)),
		canvas:       canvas,
		chunkWriter:  chunkWriter,
		writer:       w,
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
		now:          opts.Now,
		pose:         vecmath.Identity(),
	}
	if c.registry != nil {
		c.handle = c.registry.Register(opts.Username)
		c.logger = c.logger.With(zap.String("session", c.handle.ID.String()))
	}

	c.scene = scene.New(scene.WithPlayRadius(c.cfg.PlayRadius))
	c.session = tracking.NewSimulator(tracking.SimulatorOptions{
		WorldTrackingSupported: c.cfg.WorldTrackingSupported,
		CameraPosition:         c.cfg.CameraPosition.Vec(),
		LookSpeed:              c.cfg.LookSpeed,
		PlaneDetectionDelay:    c.cfg.PlaneDetectionDelay,
		PlanePosition:          c.cfg.PlanePosition.Vec(),
		PlaneExtent:            c.cfg.PlaneExtent.Vec(),
	}, nil)

	sink := opts.Sink
	if sink == nil {
		sink = audio.NewBellSink(queuedWriter{queue: c.queue, cw: chunkWriter})
	}
	c.player = audio.NewPlayer(opts.Sounds, sink, c.logger)

	c.hud = render.NewHUD(c.cfg.ShowStatistics)
	c.ctrl = game.NewController(game.Options{
		Config:  c.cfg,
		Scene:   c.scene,
		Session: c.session,
		Audio:   c.player,
		Label:   c.hud.Score,
		Queue:   c.queue,
		Logger:  c.logger,
	})
	c.session.SetDelegate(c.ctrl)
	return c
}

// Controller exposes the game rules driven by this client.
func (c *Client) Controller() *game.Controller {
	return c.ctrl
}

// Scene exposes the scene of this client's game.
func (c *Client) Scene() *scene.Scene {
	return c.scene
}

// Run starts the client loop. Blocks until the player quits, the context
// is cancelled or drawing fails.
func (c *Client) Run(ctx context.Context) error {
	defer c.close()

	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	c.logger.Info("game started")
	c.ctrl.ConfigureSession()

	frameTime := c.cfg.FrameTime()
	lastTime := c.now()

	for c.state.Running {
		frameStart := c.now()
		dt := frameStart.Sub(lastTime)
		lastTime = frameStart

		c.step(input.ReadInput(c.inputStream), dt)
		c.updateScreen()

		if err := c.drawFrame(); err != nil {
			return err
		}

		// Frame timing
		wait := frameTime - c.now().Sub(frameStart)
		if wait <= 0 {
			wait = time.Millisecond
		}
		select {
		case <-ctx.Done():
			c.state.Running = false
		case <-time.After(wait):
		}
	}

	draw.ClearScreen(c.writer)
	c.logger.Info("game ended", zap.Int("score", c.ctrl.Score()))
	return nil
}

// step runs the update phase of one frame: input, tracking, taps, physics
// and contacts, then the main queue.
func (c *Client) step(in input.Input, dt time.Duration) {
	c.state.observeFrame(dt)
	c.processInput(in)
	c.processServerEvents()
	c.update(dt)
}

// processInput applies one frame of key presses.
func (c *Client) processInput(in input.Input) {
	now := c.now()
	if len(in.Pressed) > 0 {
		c.state.lastInput = now
		c.state.isInactive = false
	} else if idle := now.Sub(c.state.lastInput); idle > InactivityDisconnectUser {
		c.logger.Info("disconnecting idle player", zap.Duration("idle", idle))
		c.state.Running = false
	} else if idle > InactivityWarnUser {
		c.state.isInactive = true
	}

	if in.Quit {
		c.state.Running = false
		return
	}

	if in.Interrupts%2 == 1 {
		c.session.SetInterrupted(!c.session.Interrupted())
	}

	c.session.Update(c.state.delta, tracking.Look{
		Left:  in.Left,
		Right: in.Right,
		Up:    in.Up,
		Down:  in.Down,
	})

	for range in.Taps {
		c.ctrl.Tap()
	}
}

// processServerEvents handles events from the registry.
func (c *Client) processServerEvents() {
	if c.handle == nil {
		return
	}
	for {
		select {
		case event := <-c.handle.Events:
			if event.Type == EventServerShutdown && !c.state.shuttingDown {
				c.state.shuttingDown = true
				c.state.shutdownTimer = ShutdownDisplay
			}
		default:
			return
		}
	}
}

// update advances the world by dt and runs the work queued for this frame.
func (c *Client) update(dt time.Duration) {
	if c.state.shuttingDown {
		c.state.shutdownTimer -= dt
		if c.state.shutdownTimer <= 0 {
			c.state.Running = false
		}
	}

	c.scene.Update(dt)
	c.queue.Drain()

	if frame, ok := c.session.CurrentFrame(); ok {
		c.pose = frame.Camera.Transform
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := draw.FitTerm(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// status returns the message shown in the middle of the screen.
func (c *Client) status() string {
	switch {
	case c.state.shuttingDown:
		return "Server shutting down"
	case c.state.isInactive:
		return "Still there? Press any key"
	default:
		return c.ctrl.Status().String()
	}
}

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	status := c.status()
	if status != c.state.lastStatus {
		// Old overlay text is not tracked by the canvas.
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.lastStatus = status
	}

	c.canvas.Clear()
	cam := render.NewCamera(c.pose, c.canvas.LogicalWidth(), c.canvas.LogicalHeight(), render.DefaultFOV)
	render.DrawScene(c.canvas, cam, c.scene.Nodes())
	render.DrawCrosshair(c.canvas, cam)

	c.canvas.Render(c.chunkWriter)
	c.canvas.RenderBorder(c.chunkWriter)

	stats := render.Stats{FPS: c.state.fps, Nodes: c.scene.Len()}
	if err := c.hud.Draw(c.chunkWriter, c.canvas, stats, status); err != nil {
		return err
	}
	return c.chunkWriter.Flush()
}

// close tears the game down: pending ship replacements are cancelled before
// the queue and the audio worker stop.
func (c *Client) close() {
	c.inputStream.Stop()
	c.ctrl.Close()
	c.player.Close()
	c.queue.Close()
	c.session.Pause()
	c.scene.Clear()
	if c.handle != nil {
		c.registry.Unregister(c.handle.ID)
	}
}

// queuedWriter forwards writes to the chunk writer on the loop goroutine.
type queuedWriter struct {
	queue *dispatch.Queue
	cw    *draw.ChunkWriter
}

func (w queuedWriter) Write(p []byte) (int, error) {
	data := string(p)
	if err := w.queue.Async(func() { w.cw.WriteString(data) }); err != nil {
		return 0, err
	}
	return len(p), nil
}
