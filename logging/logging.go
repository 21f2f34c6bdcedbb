// Package logging builds the zap logger; output goes to a file because the terminal is owned by the screen
package logging

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lixenwraith/starfield/config"
	"github.com/lixenwraith/starfield/parameter"
)

// New returns a debug-level JSON logger writing to <dir>/starfield.log when debug is on,
// otherwise a no-op logger. The returned flush func is always safe to call.
func New(cfg config.LogConfig) (*zap.Logger, func(), error) {
	if !cfg.Debug {
		return zap.NewNop(), func() {}, nil
	}

	dir := cfg.Dir
	if dir == "" {
		dir = parameter.LogDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log dir: %w", err)
	}

	path := filepath.Join(dir, parameter.LogFileName)
	if _, err := Rotate(path, parameter.MaxLogSize, time.Now()); err != nil {
		return nil, nil, err
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	zc.Sampling = nil
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.OutputPaths = []string{path}
	zc.ErrorOutputPaths = []string{path}

	logger, err := zc.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, func() { _ = logger.Sync() }, nil
}

// Rotate renames path to a timestamped sibling when it exceeds limit bytes
// Returns the new name, or "" when nothing was rotated
func Rotate(path string, limit int64, now time.Time) (string, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to stat log: %w", err)
	}
	if info.Size() <= limit {
		return "", nil
	}

	ext := filepath.Ext(path)
	rotated := strings.TrimSuffix(path, ext) + "-" + now.Format("20060102-150405") + ext
	if err := os.Rename(path, rotated); err != nil {
		return "", fmt.Errorf("failed to rotate log: %w", err)
	}
	return rotated, nil
}
