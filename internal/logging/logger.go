// Package logging builds the process logger. The terminal belongs to the game,
// so logs go to stderr or a file, never stdout.
package logging

import (
	"fmt"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var innerLogger atomic.Pointer[zap.Logger]

// Options configures the logger.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // json or console
	Output string // file path; empty means stderr
}

// New builds a zap logger. The first logger built becomes the one returned
// by Provide.
func New(opts Options) (*zap.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	encoding := "json"
	if strings.EqualFold(opts.Format, "console") {
		encoding = "console"
	}

	output := "stderr"
	if opts.Output != "" {
		output = opts.Output
	}

	config := zap.Config{
		Level:       zap.NewAtomicLevelAt(level),
		Development: false,
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
		Encoding:         encoding,
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
		DisableCaller:    true,
	}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	innerLogger.CompareAndSwap(nil, logger)
	return logger, nil
}

// Provide returns the first logger built by New, or a no-op logger.
// It is safe to call from any goroutine.
func Provide() *zap.Logger {
	if l := innerLogger.Load(); l != nil {
		return l
	}
	return zap.NewNop()
}

// ParseLevel converts a level name to a zap level. Empty means info.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zap.DebugLevel, nil
	case "", "info":
		return zap.InfoLevel, nil
	case "warn", "warning":
		return zap.WarnLevel, nil
	case "error":
		return zap.ErrorLevel, nil
	default:
		return zap.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}
