package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	wishlogging "github.com/charmbracelet/wish/logging"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/arviewer/internal/config"
	"github.com/tomz197/arviewer/internal/draw"
	"github.com/tomz197/arviewer/internal/logging"
	"github.com/tomz197/arviewer/internal/loop"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
)

// Shutdown budget: players get the shutdown notice first, then the listener closes.
const (
	playerShutdownTimeout = loop.ShutdownDisplay + 5*time.Second
	serverShutdownTimeout = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "arviewer-ssh: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger, err := logging.New(logging.Options{
		Level:  config.GetEnv("ARVIEWER_LOG_LEVEL", "info"),
		Format: "json",
		Output: config.GetEnv("ARVIEWER_LOG_FILE", ""),
	})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)

	cfg, err := config.LoadOrDefault(config.GetEnv("ARVIEWER_CONFIG", ""))
	if err != nil {
		return err
	}
	soundDir := config.GetEnv("ARVIEWER_SOUNDS", "sounds")

	logger.Info("ssh config",
		zap.String("host", host),
		zap.String("port", port),
		zap.String("hostKeyPath", hostKeyPath),
		zap.String("sounds", soundDir),
	)

	games := &gameHandler{
		cfg:      cfg,
		sounds:   os.DirFS(soundDir),
		registry: loop.NewRegistry(),
		logger:   logger.Named("session"),
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			games.middleware,
			activeterm.Middleware(),
			wishlogging.MiddlewareWithLogger(zap.NewStdLog(logger.Named("ssh"))),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(sigCtx)

	g.Go(func() error {
		logger.Info("starting ssh server", zap.String("addr", net.JoinHostPort(host, port)))
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down server", zap.Int("games", games.registry.Count()))

		// Notify players and wait for them to disconnect
		if !games.registry.Shutdown(playerShutdownTimeout) {
			logger.Warn("players still connected at shutdown", zap.Int("games", games.registry.Count()))
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// gameHandler runs one game per SSH session.
type gameHandler struct {
	cfg      config.Game
	sounds   fs.FS
	registry *loop.Registry
	logger   *zap.Logger
}

// middleware handles SSH sessions and runs the game client.
func (h *gameHandler) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		logger := h.logger.With(zap.String("user", sess.User()))
		logger.Info("new game session",
			zap.String("terminal", pty.Term),
			zap.Int("width", pty.Window.Width),
			zap.Int("height", pty.Window.Height),
		)

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)

		// Listen for window size changes in a goroutine
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		err := loop.Run(sess.Context(), bufio.NewReader(sess), sess, loop.Options{
			Config:       h.cfg,
			Logger:       logger,
			Sounds:       h.sounds,
			TermSizeFunc: sizeTracker.getSize,
			Registry:     h.registry,
			Username:     sess.User(),
		})
		if err != nil {
			logger.Error("game error", zap.Error(err))
		}

		logger.Info("session ended")
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
