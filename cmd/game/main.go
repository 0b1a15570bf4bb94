package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/tomz197/arviewer/internal/config"
	"github.com/tomz197/arviewer/internal/logging"
	"github.com/tomz197/arviewer/internal/loop"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "arviewer: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// The terminal belongs to the game, so logs go to a file.
	logger, err := logging.New(logging.Options{
		Level:  config.GetEnv("ARVIEWER_LOG_LEVEL", "info"),
		Format: "json",
		Output: config.GetEnv("ARVIEWER_LOG_FILE", "arviewer.log"),
	})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.LoadOrDefault(config.GetEnv("ARVIEWER_CONFIG", ""))
	if err != nil {
		return err
	}
	soundDir := config.GetEnv("ARVIEWER_SOUNDS", "sounds")

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting local game", zap.String("sounds", soundDir), zap.Int("fps", cfg.TargetFPS))
	reader := bufio.NewReader(os.Stdin)
	err = loop.Run(ctx, reader, os.Stdout, loop.Options{
		Config:   cfg,
		Logger:   logger,
		Sounds:   os.DirFS(soundDir),
		Username: os.Getenv("USER"),
	})
	if err != nil {
		return fmt.Errorf("game error: %w", err)
	}
	return nil
}
