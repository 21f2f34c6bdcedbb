package starfield

import "github.com/lixenwraith/starfield/surface"

// AmbientPoint is a fixed-position twinkling dot
// Opacity and GlowLevel hold the values drawn on the last frame
type AmbientPoint struct {
	X, Y        float64
	Radius      float64
	BaseOpacity float64
	Phase       float64
	Opacity     float64

	Glow          bool
	GlowIntensity float64
	GlowPhase     float64
	GlowLevel     float64
}

// StreakEffect is a shooting star, Life runs from 1 down to 0
type StreakEffect struct {
	X, Y   float64
	VX, VY float64
	Life   float64
}

// SurfaceState is the logical viewport and the capped device scale applied to it
type SurfaceState struct {
	Width, Height float64
	Scale         float64
	DeviceWidth   int
	DeviceHeight  int
}

// ResizeSource notifies viewport changes in logical px
type ResizeSource interface {
	OnResize(fn func(width, height float64)) (unsubscribe func())
}

// Overlay draws on top of the field each frame, after streaks
type Overlay interface {
	Draw(ctx surface.Context, state SurfaceState)
}

// Stats counts animator activity since construction
type Stats struct {
	Frames         uint64
	DrawCalls      uint64
	StreaksSpawned uint64
	Resizes        uint64
}
