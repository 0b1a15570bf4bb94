package loop

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/arviewer/internal/audio"
	"github.com/tomz197/arviewer/internal/config"
	"github.com/tomz197/arviewer/internal/draw"
	"github.com/tomz197/arviewer/internal/game"
	"github.com/tomz197/arviewer/internal/input"
	"github.com/tomz197/arviewer/internal/logging"
	"github.com/tomz197/arviewer/internal/scene"
)

const frame = 16 * time.Millisecond

// syncBuffer is a bytes.Buffer safe to read while Run writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func testConfig() config.Game {
	cfg := config.Default()
	cfg.PlaneDetectionDelay = 0
	return cfg
}

func newTestClient(t *testing.T, opts Options) (*Client, *bytes.Buffer, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Unix(1000, 0)}
	out := &bytes.Buffer{}
	if opts.Config.TargetFPS == 0 {
		opts.Config = testConfig()
	}
	opts.TermSizeFunc = draw.FixedTermSize(80, 24)
	opts.Now = clock.Now
	if opts.Sink == nil {
		opts.Sink = audio.NopSink{}
	}

	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })
	c := NewClient(bufio.NewReader(pr), out, opts)
	t.Cleanup(c.close)
	return c, out, clock
}

func TestFirstFramesPlaceTargetAndShip(t *testing.T) {
	c, _, _ := newTestClient(t, Options{})
	c.ctrl.ConfigureSession()

	c.step(input.Input{}, frame)
	assert.NotNil(t, c.Controller().Target())
	assert.Equal(t, 1, c.Scene().CountKind(scene.KindShip))
	assert.Equal(t, 1, c.Scene().CountKind(scene.KindPlane))
	assert.Equal(t, game.StatusReady, c.Controller().Status())
	assert.Equal(t, "0", c.hud.Score.Text())
}

func TestTapFiresBullet(t *testing.T) {
	c, _, _ := newTestClient(t, Options{})
	c.ctrl.ConfigureSession()

	c.step(input.Input{Taps: 2, Pressed: []byte("  ")}, frame)
	assert.Equal(t, 2, c.Scene().CountKind(scene.KindBullet))
}

func TestInterruptToggle(t *testing.T) {
	c, _, _ := newTestClient(t, Options{})
	c.ctrl.ConfigureSession()

	c.step(input.Input{Interrupts: 1, Pressed: []byte("p")}, frame)
	assert.True(t, c.session.Interrupted())
	assert.Equal(t, "Session interrupted", c.status())

	// Two presses in one frame cancel out.
	c.step(input.Input{Interrupts: 2, Pressed: []byte("pp")}, frame)
	assert.True(t, c.session.Interrupted())

	c.step(input.Input{Interrupts: 1, Pressed: []byte("p")}, frame)
	assert.False(t, c.session.Interrupted())
}

func TestQuitStopsLoop(t *testing.T) {
	c, _, _ := newTestClient(t, Options{})
	c.step(input.Input{Quit: true, Pressed: []byte("q")}, frame)
	assert.False(t, c.state.Running)
}

func TestIdlePlayer(t *testing.T) {
	c, _, clock := newTestClient(t, Options{})

	clock.Advance(InactivityWarnUser + time.Second)
	c.step(input.Input{}, frame)
	assert.True(t, c.state.Running)
	assert.Contains(t, c.status(), "Still there")

	c.step(input.Input{Pressed: []byte("x")}, frame)
	assert.NotContains(t, c.status(), "Still there")

	clock.Advance(InactivityDisconnectUser + time.Second)
	c.step(input.Input{}, frame)
	assert.False(t, c.state.Running)
}

func TestServerShutdownEndsGame(t *testing.T) {
	reg := NewRegistry()
	c, _, _ := newTestClient(t, Options{Registry: reg, Username: "alice"})
	require.Equal(t, 1, reg.Count())

	c.handle.Events <- Event{Type: EventServerShutdown}
	c.step(input.Input{}, frame)
	assert.True(t, c.state.Running)
	assert.Equal(t, "Server shutting down", c.status())

	c.step(input.Input{}, ShutdownDisplay)
	assert.False(t, c.state.Running)

	c.close()
	assert.Equal(t, 0, reg.Count())
}

func TestDrawFrame(t *testing.T) {
	c, out, _ := newTestClient(t, Options{})
	c.ctrl.ConfigureSession()
	c.step(input.Input{}, frame)

	require.NoError(t, c.drawFrame())
	s := out.String()
	assert.Contains(t, s, "Score: 0")
	assert.True(t, strings.ContainsAny(s, "▀▄█"), "crosshair and scene pixels")

	// An unchanged frame writes only the overlays.
	out.Reset()
	require.NoError(t, c.drawFrame())
	assert.NotContains(t, out.String(), "\033[H\033[2J")
}

func TestBellRingsOnLoopGoroutine(t *testing.T) {
	sounds := fstest.MapFS{"torpedo.mp3": {Data: []byte("t")}}
	c, out, _ := newTestClient(t, Options{Sounds: sounds})
	// newTestClient installs NopSink; swap in the bell.
	c.player.Close()
	c.player = audio.NewPlayer(sounds, audio.NewBellSink(queuedWriter{queue: c.queue, cw: c.chunkWriter}), c.logger)

	c.player.Play(audio.Torpedo)
	assert.Eventually(t, func() bool {
		c.queue.Drain()
		_ = c.chunkWriter.Flush()
		return strings.Contains(out.String(), "\a")
	}, time.Second, 5*time.Millisecond)
}

func TestRunQuitsOnKey(t *testing.T) {
	out := &syncBuffer{}
	err := Run(context.Background(), bufio.NewReader(strings.NewReader("q")), out, Options{
		Config:       testConfig(),
		Sink:         audio.NopSink{},
		TermSizeFunc: draw.FixedTermSize(80, 24),
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "\033[?25l")
	assert.Contains(t, out.String(), "\033[?25h")
}

func TestRunStopsOnContextCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, bufio.NewReader(pr), io.Discard, Options{
			Config:       testConfig(),
			Sink:         audio.NopSink{},
			TermSizeFunc: draw.FixedTermSize(80, 24),
		})
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestRegistryShutdown(t *testing.T) {
	reg := NewRegistry()
	h := reg.Register("bob")

	go func() {
		<-h.Events
		reg.Unregister(h.ID)
	}()
	assert.True(t, reg.Shutdown(time.Second))
	assert.Zero(t, reg.Count())

	reg.Register("carol")
	assert.False(t, reg.Shutdown(20*time.Millisecond))
}

func TestMissingLoggerUsesProcessLogger(t *testing.T) {
	_, err := logging.New(logging.Options{Output: filepath.Join(t.TempDir(), "game.log")})
	require.NoError(t, err)
	assert.Same(t, logging.Provide(), Options{}.withDefaults().Logger)
}
