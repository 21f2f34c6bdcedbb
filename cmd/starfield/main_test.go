package main

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/starfield/config"
	"github.com/lixenwraith/starfield/starfield"
	"github.com/lixenwraith/starfield/terminal"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func missingConfig(t *testing.T) string {
	return filepath.Join(t.TempDir(), "none.yaml")
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "starfield dev")
}

func TestConfigCmdMergesFileAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "starfield.yaml")
	require.NoError(t, os.WriteFile(path, []byte("terminal:\n  fps: 30\n"), 0o644))

	out, err := execute(t, "config", "--config", path, "--color", "256", "--debug")
	require.NoError(t, err)
	assert.Contains(t, out, "fps: 30")
	assert.Contains(t, out, `color: "256"`)
	assert.Contains(t, out, "debug: true")
	assert.Contains(t, out, "hud: true")
}

func TestConfigCmdRejectsBadColorFlag(t *testing.T) {
	_, err := execute(t, "config", "--config", missingConfig(t), "--color", "sixel")
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrInvalid))
}

func TestSnapshotWritesPNG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "field.png")
	stdout, err := execute(t, "snapshot",
		"--config", missingConfig(t),
		"--width", "320", "--height", "200",
		"--frames", "30", "--seed", "7", "--dpr", "2",
		"--out", out,
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "wrote "+out)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)

	// Pixel ratio 2 is capped at 1.75
	assert.Equal(t, 560, img.Bounds().Dx())
	assert.Equal(t, 350, img.Bounds().Dy())

	lit := 0
	for y := 0; y < img.Bounds().Dy(); y++ {
		for x := 0; x < img.Bounds().Dx(); x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a > 0 {
				lit++
			}
		}
	}
	assert.Greater(t, lit, 0)
}

func TestRenderSnapshotIsDeterministic(t *testing.T) {
	flags := snapshotFlags{width: 200, height: 100, frames: 40, dpr: 1}
	cfg := starfield.DefaultConfig()
	cfg.StreakChance = 0.5

	a, sa, err := renderSnapshot(cfg, flags, 99)
	require.NoError(t, err)
	b, sb, err := renderSnapshot(cfg, flags, 99)
	require.NoError(t, err)

	assert.Equal(t, sa, sb)
	assert.Equal(t, a.Image().Pix, b.Image().Pix)
	assert.Equal(t, uint64(40), sa.Frames)
	assert.Positive(t, sa.StreaksSpawned)
}

func TestSnapshotRejectsZeroFrames(t *testing.T) {
	_, err := execute(t, "snapshot", "--config", missingConfig(t), "--frames", "0", "--out", filepath.Join(t.TempDir(), "x.png"))
	require.ErrorIs(t, err, errNoFrames)
}

func TestRunRequiresTerminal(t *testing.T) {
	orig := requireTerminal
	t.Cleanup(func() { requireTerminal = orig })
	requireTerminal = func(fd uintptr) error {
		return fmt.Errorf("fd %d: %w", fd, terminal.ErrNotTerminal)
	}

	_, err := execute(t, "--config", missingConfig(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, terminal.ErrNotTerminal))
}
