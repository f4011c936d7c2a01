// Package logging builds the zap logger. The TUI owns the terminal, so logs
// go to a dated file instead of stderr.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const appName = "majordomo"

// FilePath returns {dir}/majordomo_YYYYMMDD.log for the given day
func FilePath(dir string, day time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.log", appName, day.Format("20060102")))
}

// New creates a JSON file logger in dir. debug forces the debug level.
func New(dir, level string, debug bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if debug {
		lvl = zapcore.DebugLevel
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{FilePath(dir, time.Now())}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.Sampling = nil

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Named(appName), nil
}

// Nop returns a logger that discards everything
func Nop() *zap.Logger {
	return zap.NewNop()
}
