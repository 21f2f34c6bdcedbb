package starfield

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/starfield/parameter"
)

// ErrInvalidConfig is wrapped by every Validate failure
var ErrInvalidConfig = errors.New("invalid animation config")

// Config holds animator tuning, defaults come from parameter
type Config struct {
	// Surface
	MaxDevicePixelRatio float64 `yaml:"max_device_pixel_ratio"`
	MinLogicalSize      float64 `yaml:"min_logical_size"`

	// Ambient points
	PointSpacing     float64 `yaml:"point_spacing"`
	MaxPoints        int     `yaml:"max_points"`
	PointRadiusMin   float64 `yaml:"point_radius_min"`
	PointRadiusMax   float64 `yaml:"point_radius_max"`
	PointOpacityMin  float64 `yaml:"point_opacity_min"`
	PointOpacityMax  float64 `yaml:"point_opacity_max"`
	PhaseStep        float64 `yaml:"phase_step"`
	TwinkleAmplitude float64 `yaml:"twinkle_amplitude"`

	// Glow
	GlowChance       float64 `yaml:"glow_chance"`
	GlowIntensityMin float64 `yaml:"glow_intensity_min"`
	GlowIntensityMax float64 `yaml:"glow_intensity_max"`
	GlowPhaseStep    float64 `yaml:"glow_phase_step"`
	GlowPhaseJitter  float64 `yaml:"glow_phase_jitter"`
	GlowFloor        float64 `yaml:"glow_floor"`
	GlowBlur         float64 `yaml:"glow_blur"`

	// Streaks
	StreakChance    float64 `yaml:"streak_chance"`
	MaxStreaks      int     `yaml:"max_streaks"`
	StreakStartX    float64 `yaml:"streak_start_x"`
	StreakSpawnBand float64 `yaml:"streak_spawn_band"`
	StreakVXMin     float64 `yaml:"streak_vx_min"`
	StreakVXMax     float64 `yaml:"streak_vx_max"`
	StreakVYMin     float64 `yaml:"streak_vy_min"`
	StreakVYMax     float64 `yaml:"streak_vy_max"`
	StreakDecay     float64 `yaml:"streak_decay"`
	StreakMargin    float64 `yaml:"streak_margin"`
	TrailLength     float64 `yaml:"trail_length"`
	TrailWidth      float64 `yaml:"trail_width"`
	TrailOpacity    float64 `yaml:"trail_opacity"`
	HeadRadius      float64 `yaml:"head_radius"`

	// ReducedMotion freezes twinkle and glow phases and suppresses streaks
	ReducedMotion bool `yaml:"reduced_motion"`
}

// DefaultConfig returns the stock tuning
func DefaultConfig() Config {
	return Config{
		MaxDevicePixelRatio: parameter.MaxDevicePixelRatio,
		MinLogicalSize:      parameter.MinLogicalSize,

		PointSpacing:     parameter.PointSpacing,
		MaxPoints:        parameter.MaxPoints,
		PointRadiusMin:   parameter.PointRadiusMin,
		PointRadiusMax:   parameter.PointRadiusMax,
		PointOpacityMin:  parameter.PointOpacityMin,
		PointOpacityMax:  parameter.PointOpacityMax,
		PhaseStep:        parameter.PointPhaseStep,
		TwinkleAmplitude: parameter.PointTwinkleAmplitude,

		GlowChance:       parameter.GlowChance,
		GlowIntensityMin: parameter.GlowIntensityMin,
		GlowIntensityMax: parameter.GlowIntensityMax,
		GlowPhaseStep:    parameter.GlowPhaseStep,
		GlowPhaseJitter:  parameter.GlowPhaseJitter,
		GlowFloor:        parameter.GlowFloor,
		GlowBlur:         parameter.GlowBlur,

		StreakChance:    parameter.StreakChance,
		MaxStreaks:      parameter.MaxStreaks,
		StreakStartX:    parameter.StreakStartX,
		StreakSpawnBand: parameter.StreakSpawnBand,
		StreakVXMin:     parameter.StreakVXMin,
		StreakVXMax:     parameter.StreakVXMax,
		StreakVYMin:     parameter.StreakVYMin,
		StreakVYMax:     parameter.StreakVYMax,
		StreakDecay:     parameter.StreakDecay,
		StreakMargin:    parameter.StreakMargin,
		TrailLength:     parameter.StreakTrailLength,
		TrailWidth:      parameter.StreakTrailWidth,
		TrailOpacity:    parameter.StreakTrailOpacity,
		HeadRadius:      parameter.StreakHeadRadius,
	}
}

// Validate checks ranges, the first violation is returned wrapping ErrInvalidConfig
func (c Config) Validate() error {
	checks := []struct {
		ok  bool
		msg string
	}{
		{c.MaxDevicePixelRatio > 0, "max_device_pixel_ratio must be positive"},
		{c.MinLogicalSize > 0, "min_logical_size must be positive"},
		{c.PointSpacing > 0, "point_spacing must be positive"},
		{c.MaxPoints >= 0, "max_points must not be negative"},
		{c.PointRadiusMin > 0 && c.PointRadiusMin <= c.PointRadiusMax, "point radius range must be positive and ordered"},
		{inUnit(c.PointOpacityMin) && inUnit(c.PointOpacityMax) && c.PointOpacityMin <= c.PointOpacityMax, "point opacity range must be ordered within [0,1]"},
		{inUnit(c.GlowChance), "glow_chance must be within [0,1]"},
		{inUnit(c.GlowIntensityMin) && inUnit(c.GlowIntensityMax) && c.GlowIntensityMin <= c.GlowIntensityMax, "glow intensity range must be ordered within [0,1]"},
		{inUnit(c.GlowFloor), "glow_floor must be within [0,1]"},
		{c.GlowBlur >= 0 && c.GlowPhaseJitter >= 0, "glow blur and jitter must not be negative"},
		{inUnit(c.StreakChance), "streak_chance must be within [0,1]"},
		{c.MaxStreaks >= 0, "max_streaks must not be negative"},
		{inUnit(c.StreakSpawnBand), "streak_spawn_band must be within [0,1]"},
		{c.StreakVXMin <= c.StreakVXMax && c.StreakVYMin <= c.StreakVYMax, "streak velocity ranges must be ordered"},
		{c.StreakDecay > 0, "streak_decay must be positive"},
		{c.StreakMargin >= 0, "streak_margin must not be negative"},
		{c.TrailLength >= 0 && c.TrailWidth >= 0 && c.HeadRadius >= 0, "trail geometry must not be negative"},
		{inUnit(c.TrailOpacity), "trail_opacity must be within [0,1]"},
	}
	for _, chk := range checks {
		if !chk.ok {
			return fmt.Errorf("%w: %s", ErrInvalidConfig, chk.msg)
		}
	}
	return nil
}

func inUnit(v float64) bool {
	return v >= 0 && v <= 1
}
