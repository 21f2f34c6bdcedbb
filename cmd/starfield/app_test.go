package main

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lixenwraith/starfield/config"
	"github.com/lixenwraith/starfield/status"
	"github.com/lixenwraith/starfield/terminal"
)

func newSimApp(t *testing.T) (*app, tcell.SimulationScreen) {
	t.Helper()
	cfg := config.Default()
	cfg.Terminal.FPS = 120
	cfg.Terminal.Color = config.ColorTrueColor
	cfg.Audio.Enabled = false

	screen := tcell.NewSimulationScreen("UTF-8")
	a := newApp(cfg, screen, 42, zap.NewNop())
	require.NoError(t, a.start())
	t.Cleanup(a.stop)
	return a, screen
}

func litCells(screen tcell.SimulationScreen) int {
	cells, _, _ := screen.GetContents()
	n := 0
	for _, c := range cells {
		if len(c.Runes) > 0 && c.Runes[0] == '▀' {
			n++
		}
	}
	return n
}

func TestAppAnimatesIntoScreen(t *testing.T) {
	a, screen := newSimApp(t)

	frames := a.reg.Ints.Get(status.KeyFrames)
	require.Eventually(t, func() bool { return frames.Load() >= 5 }, 5*time.Second, 10*time.Millisecond)
	assert.True(t, a.reg.Bools.Get(status.KeyRunning).Load())
	assert.Positive(t, a.reg.Ints.Get(status.KeyPoints).Load())
	require.Eventually(t, func() bool { return litCells(screen) > 0 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, "truecolor", a.reg.Strings.Get(status.KeyColorMode).Load())
}

func TestAppKeysPauseAndQuit(t *testing.T) {
	a, screen := newSimApp(t)

	require.NoError(t, screen.PostEvent(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone)))
	paused := a.reg.Bools.Get(status.KeyPaused)
	require.Eventually(t, paused.Load, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, screen.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	done := make(chan struct{})
	go func() {
		a.wait(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("quit key did not end the wait")
	}
}

func TestAppAppliesReloadedConfig(t *testing.T) {
	a, _ := newSimApp(t)

	next := config.Default()
	next.Animation.MaxStreaks = 1
	next.Terminal.HUD = true
	a.loop.Post(func() { a.applyConfig(next) })

	reloads := a.reg.Ints.Get(status.KeyConfigReloads)
	require.Eventually(t, func() bool { return reloads.Load() == 1 }, 5*time.Second, 10*time.Millisecond)

	got := make(chan string, 1)
	a.loop.Post(func() { got <- a.hudLine() })
	select {
	case line := <-got:
		assert.Contains(t, line, "reloads=1")
		assert.Contains(t, line, "points=")
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not run posted task")
	}
}

// onLoop runs fn on the frame loop and waits for it
func onLoop[T any](t *testing.T, a *app, fn func() T) T {
	t.Helper()
	got := make(chan T, 1)
	a.loop.Post(func() { got <- fn() })
	select {
	case v := <-got:
		return v
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not run posted task")
	}
	var zero T
	return zero
}

func TestAppReloadKeepsDebugFlag(t *testing.T) {
	flags := &rootFlags{debug: true}
	changed := func(name string) bool { return name == "debug" }

	cfg := config.Default()
	cfg.Terminal.FPS = 120
	cfg.Audio.Enabled = false
	cfg = flags.apply(cfg, changed)
	require.True(t, cfg.Terminal.HUD)

	a := newApp(cfg, tcell.NewSimulationScreen("UTF-8"), 5, zap.NewNop())
	a.overlay = func(c config.Config) config.Config { return flags.apply(c, changed) }
	require.NoError(t, a.start())
	t.Cleanup(a.stop)
	require.NotEmpty(t, onLoop(t, a, a.hudLine))

	// A reloaded file knows nothing about --debug
	reloaded := config.Default()
	require.False(t, reloaded.Log.Debug)
	require.False(t, reloaded.Terminal.HUD)

	line := onLoop(t, a, func() string {
		a.applyConfig(reloaded)
		return a.hudLine()
	})
	assert.NotEmpty(t, line)
	assert.Contains(t, line, "reloads=1")
}

func TestAppColorModeResolvedFromScreen(t *testing.T) {
	cfg := config.Default()
	cfg.Terminal.Color = config.ColorAuto
	cfg.Audio.Enabled = false

	a := newApp(cfg, tcell.NewSimulationScreen("UTF-8"), 3, zap.NewNop())
	require.NoError(t, a.start())
	t.Cleanup(a.stop)

	// The simulation screen reports 256 colors
	assert.Equal(t, "256", a.reg.Strings.Get(status.KeyColorMode).Load())
	assert.Equal(t, terminal.ColorMode256, a.presenter.Mode())
}

func TestAppStopIsFinal(t *testing.T) {
	cfg := config.Default()
	cfg.Terminal.FPS = 120
	screen := tcell.NewSimulationScreen("UTF-8")
	a := newApp(cfg, screen, 1, zap.NewNop())
	require.NoError(t, a.start())

	frames := a.reg.Ints.Get(status.KeyFrames)
	require.Eventually(t, func() bool { return frames.Load() >= 2 }, 5*time.Second, 10*time.Millisecond)

	a.stop()
	assert.False(t, a.reg.Bools.Get(status.KeyRunning).Load())
	n := frames.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, n, frames.Load())
}
