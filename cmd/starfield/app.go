package main

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/starfield/audio"
	"github.com/lixenwraith/starfield/config"
	"github.com/lixenwraith/starfield/cursor"
	"github.com/lixenwraith/starfield/frame"
	"github.com/lixenwraith/starfield/starfield"
	"github.com/lixenwraith/starfield/status"
	"github.com/lixenwraith/starfield/surface"
	"github.com/lixenwraith/starfield/terminal"
	"github.com/lixenwraith/starfield/vmath"
)

// hudKeys are shown on the status line
var hudKeys = []string{
	status.KeyFPS,
	status.KeyPoints,
	status.KeyStreaks,
	status.KeyStreaksSpawned,
	status.KeyScale,
	status.KeyColorMode,
	status.KeyConfigReloads,
}

// app wires the animator to the terminal; everything below the loop runs on its goroutine
type app struct {
	cfg    config.Config
	logger *zap.Logger
	reg    *status.Registry

	loop      *frame.Loop
	host      *terminal.Host
	canvas    *surface.Canvas
	anim      *starfield.Animator
	follower  *cursor.Follower
	player    *audio.Player
	presenter *terminal.Presenter
	watcher   *config.Watcher

	screen tcell.Screen
	hud    bool
	unhook func()

	// overlay re-applies command line overrides to reloaded configs
	overlay func(config.Config) config.Config
}

func newApp(cfg config.Config, screen tcell.Screen, seed uint64, logger *zap.Logger, audioOpts ...audio.PlayerOption) *app {
	a := &app{
		cfg:      cfg,
		logger:   logger,
		reg:      status.NewRegistry(),
		canvas:   surface.NewCanvas(0, 0),
		follower: cursor.New(),
		screen:   screen,
		hud:      cfg.Terminal.HUD || cfg.Log.Debug,
		overlay:  func(c config.Config) config.Config { return c },
	}

	a.loop = frame.NewLoop(cfg.Terminal.FPS, frame.WithLogger(logger), frame.WithStatus(a.reg))
	a.player = audio.NewPlayer(cfg.Audio, append([]audio.PlayerOption{audio.WithPlayerLogger(logger)}, audioOpts...)...)

	a.host = terminal.NewHost(screen, a.loop, cfg.Terminal,
		terminal.WithHostLogger(logger),
		terminal.WithActions(terminal.Actions{
			TogglePause:  func() { a.loop.SetPaused(!a.loop.Paused()) },
			Reseed:       func() { a.anim.Reseed() },
			ToggleAudio:  a.toggleAudio,
			ToggleHUD:    func() { a.hud = !a.hud },
			Pointer:      a.pointer,
			PointerLeave: a.follower.Hide,
		}),
	)

	opts := []starfield.Option{
		starfield.WithRand(vmath.NewFastRand(seed)),
		starfield.WithLogger(logger),
		starfield.WithStatus(a.reg),
		starfield.WithStreakListener(a.player.OnStreak),
		starfield.WithResizeSource(a.host),
		starfield.WithDevicePixelRatio(a.host.DevicePixelRatio),
	}
	if cfg.Terminal.Pointer {
		opts = append(opts, starfield.WithOverlay(a.follower))
	}
	a.anim = starfield.New(cfg.Animation, a.loop, opts...)
	return a
}

// start takes over the screen and begins animating
// The color mode is resolved here since tcell learns the terminal's capabilities in Init
func (a *app) start() error {
	if err := a.host.Init(); err != nil {
		return err
	}
	mode, err := a.host.ColorMode()
	if err != nil {
		a.host.Fini()
		return err
	}
	a.reg.Strings.Get(status.KeyColorMode).Store(mode.String())
	a.presenter = terminal.NewPresenter(a.screen, a.canvas, mode, terminal.WithHUD(a.hudLine))

	if err := a.player.Init(); err != nil {
		a.logger.Warn("continuing without audio", zap.Error(err))
	}

	a.unhook = a.loop.AfterFrame(a.presenter.Present)
	a.loop.Post(func() {
		w, h := a.host.Viewport()
		a.anim.Start(a.canvas, w, h)
	})
	a.loop.Start()
	a.host.Run()
	return nil
}

// watch reloads path into the running animation until ctx ends
func (a *app) watch(ctx context.Context, path string) {
	w, err := config.NewWatcher(path, func(c config.Config) {
		a.loop.Post(func() { a.applyConfig(c) })
	}, config.WithWatcherLogger(a.logger))
	if err != nil {
		a.logger.Warn("config reload disabled", zap.Error(err))
		return
	}
	if err := w.Start(ctx); err != nil {
		a.logger.Warn("config reload disabled", zap.Error(err))
		w.Stop()
		return
	}
	a.watcher = w
}

// wait blocks until the user quits or ctx ends
func (a *app) wait(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-a.host.Done():
	}
}

// stop tears down in reverse dependency order; the loop is stopped before the animator
// so Stop runs with no frame in flight
func (a *app) stop() {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	a.loop.Stop()
	a.anim.Stop()
	if a.unhook != nil {
		a.unhook()
	}
	a.player.Close()
	a.host.Fini()
	a.logger.Info("shutdown", zap.Any("status", a.reg.Snapshot()))
}

// applyConfig runs on the loop goroutine
func (a *app) applyConfig(c config.Config) {
	c = a.overlay(c)
	a.anim.ApplyConfig(c.Animation)
	a.player.SetVolume(c.Audio.Volume)
	a.hud = c.Terminal.HUD || c.Log.Debug
	a.reg.Ints.Get(status.KeyConfigReloads).Add(1)
}

func (a *app) pointer(x, y float64, pressed bool) {
	a.follower.Move(x, y)
	a.follower.Hover(pressed)
}

func (a *app) toggleAudio() {
	if a.player.Ready() {
		a.player.SetEnabled(false)
		return
	}
	a.player.SetEnabled(true)
	if err := a.player.Init(); err != nil {
		a.logger.Warn("audio toggle failed", zap.Error(err))
	}
}

func (a *app) hudLine() string {
	if !a.hud {
		return ""
	}
	line := a.reg.Line(hudKeys...)
	if a.loop.Paused() {
		line = "paused " + line
	}
	return line
}
