package config

import (
	"fmt"
	"strconv"
)

// Environment variable names
const (
	EnvFPS           = "STARFIELD_FPS"
	EnvColor         = "STARFIELD_COLOR"
	EnvPixelRatio    = "STARFIELD_PIXEL_RATIO"
	EnvCellWidth     = "STARFIELD_CELL_WIDTH"
	EnvCellHeight    = "STARFIELD_CELL_HEIGHT"
	EnvPointer       = "STARFIELD_POINTER"
	EnvHUD           = "STARFIELD_HUD"
	EnvAudio         = "STARFIELD_AUDIO"
	EnvVolume        = "STARFIELD_VOLUME"
	EnvDebug         = "STARFIELD_DEBUG"
	EnvLogDir        = "STARFIELD_LOG_DIR"
	EnvReducedMotion = "STARFIELD_REDUCED_MOTION"
	EnvMaxPoints     = "STARFIELD_MAX_POINTS"
	EnvStreakChance  = "STARFIELD_STREAK_CHANCE"
	EnvMaxDPR        = "STARFIELD_MAX_DPR"
)

type lookupFunc func(key string) (string, bool)

func applyEnvOverrides(cfg *Config, lookup lookupFunc) error {
	strs := []struct {
		key string
		dst *string
	}{
		{EnvColor, &cfg.Terminal.Color},
		{EnvLogDir, &cfg.Log.Dir},
	}
	for _, s := range strs {
		if v, ok := lookup(s.key); ok && v != "" {
			*s.dst = v
		}
	}

	ints := []struct {
		key string
		dst *int
	}{
		{EnvFPS, &cfg.Terminal.FPS},
		{EnvMaxPoints, &cfg.Animation.MaxPoints},
	}
	for _, s := range ints {
		v, ok := lookup(s.key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalid, s.key, v, err)
		}
		*s.dst = n
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{EnvPixelRatio, &cfg.Terminal.PixelRatio},
		{EnvCellWidth, &cfg.Terminal.CellWidth},
		{EnvCellHeight, &cfg.Terminal.CellHeight},
		{EnvVolume, &cfg.Audio.Volume},
		{EnvStreakChance, &cfg.Animation.StreakChance},
		{EnvMaxDPR, &cfg.Animation.MaxDevicePixelRatio},
	}
	for _, s := range floats {
		v, ok := lookup(s.key)
		if !ok || v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalid, s.key, v, err)
		}
		*s.dst = f
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{EnvPointer, &cfg.Terminal.Pointer},
		{EnvHUD, &cfg.Terminal.HUD},
		{EnvAudio, &cfg.Audio.Enabled},
		{EnvDebug, &cfg.Log.Debug},
		{EnvReducedMotion, &cfg.Animation.ReducedMotion},
	}
	for _, s := range bools {
		v, ok := lookup(s.key)
		if !ok || v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalid, s.key, v, err)
		}
		*s.dst = b
	}
	return nil
}
