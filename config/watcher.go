package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/lixenwraith/starfield/core"
	"github.com/lixenwraith/starfield/parameter"
)

// Watcher reloads a config file when it changes and hands valid results to a callback
// The parent directory is watched so editors that replace the file by rename are seen
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	envFiles []string
	debounce time.Duration
	onChange func(Config)
	logger   *zap.Logger

	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
	closed  bool

	reloads int
}

// WatcherOption configures a Watcher
type WatcherOption func(*Watcher)

func WithWatcherLogger(l *zap.Logger) WatcherOption {
	return func(w *Watcher) { w.logger = l.Named("config") }
}

// WithDebounce sets how long the file must stay quiet before it is reloaded
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithEnvFiles forwards dotenv files to every reload
func WithEnvFiles(files ...string) WatcherOption {
	return func(w *Watcher) { w.envFiles = files }
}

// NewWatcher creates a stopped watcher for path, onChange runs on the watcher goroutine
func NewWatcher(path string, onChange func(Config), opts ...WatcherOption) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	w := &Watcher{
		watcher:  fw,
		path:     abs,
		debounce: parameter.ConfigReloadDebounce,
		onChange: onChange,
		logger:   zap.NewNop(),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start watches the config directory until ctx ends or Stop is called, non-blocking
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running || w.closed {
		return nil
	}

	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.running = true
	w.logger.Debug("watching", zap.String("path", w.path))

	core.Go(func() { w.run(ctx) })
	return nil
}

// Stop ends the watch loop, waits for it and releases the OS watcher, safe to call repeatedly
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	wasRunning := w.running
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	if wasRunning {
		<-w.doneCh
	}
	if err := w.watcher.Close(); err != nil {
		w.logger.Warn("close watcher", zap.Error(err))
	}
}

// Reloads returns the number of configs delivered to the callback
func (w *Watcher) Reloads() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-timer.C:
			w.reload()
		}
	}
}

// reload skips a file that was moved or removed, Load would otherwise fall back to defaults
func (w *Watcher) reload() {
	if _, err := os.Stat(w.path); errors.Is(err, fs.ErrNotExist) {
		w.logger.Info("config file gone, keeping current config", zap.String("path", w.path))
		return
	}

	cfg, err := Load(w.path, w.envFiles...)
	if err != nil {
		w.logger.Warn("reload rejected, keeping current config", zap.Error(err))
		return
	}

	w.mu.Lock()
	w.reloads++
	w.mu.Unlock()

	w.logger.Info("config reloaded", zap.String("path", w.path))
	if w.onChange != nil {
		w.onChange(cfg)
	}
}
