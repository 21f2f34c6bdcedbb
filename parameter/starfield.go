package parameter

import "math"

// Surface
const (
	// MaxDevicePixelRatio caps the raster scale to bound per-frame draw cost
	MaxDevicePixelRatio = 1.75

	// MinLogicalSize is the smallest logical width/height a surface is sized to, zero-area resizes clamp here
	MinLogicalSize = 1.0
)

// Ambient Points
const (
	// PointSpacing is logical px of viewport width per ambient point
	PointSpacing = 6.0
	// MaxPoints caps the ambient point count regardless of viewport width
	MaxPoints = 160

	PointRadiusMin  = 0.2
	PointRadiusMax  = 1.8
	PointOpacityMin = 0.2
	PointOpacityMax = 0.8

	// PointPhaseStep is the twinkle phase advance per frame (rad)
	PointPhaseStep = 0.02
	// PointTwinkleAmplitude is the opacity swing around base opacity
	PointTwinkleAmplitude = 0.15

	// GlowChance is the probability a point is created with a glow halo
	GlowChance       = 0.25
	GlowIntensityMin = 0.15
	GlowIntensityMax = 0.65

	// GlowPhaseStep is the base glow phase advance per frame, GlowPhaseJitter is added uniformly on top
	GlowPhaseStep   = 0.03
	GlowPhaseJitter = 0.01

	// GlowFloor keeps flickering halos from fully vanishing: intensity * (GlowFloor + flicker * (1 - GlowFloor))
	GlowFloor = 0.4
	// GlowBlur is the halo radius in logical px
	GlowBlur = 4.0
)

// Streak Effects
const (
	// StreakChance is the per-frame spawn probability
	StreakChance = 0.005
	// MaxStreaks bounds concurrently live streaks
	MaxStreaks = 2

	// StreakStartX is the spawn x, left of the visible surface
	StreakStartX = -40.0
	// StreakSpawnBand is the fraction of surface height (from the top) streaks spawn in
	StreakSpawnBand = 0.5

	StreakVXMin = 8.0
	StreakVXMax = 12.0
	StreakVYMin = 2.0
	StreakVYMax = 4.0

	// StreakDecay is life lost per frame, life starts at 1
	StreakDecay = 0.012
	// StreakMargin is how far past the right/bottom edge a streak may travel before removal
	StreakMargin = 40.0

	// StreakTrailLength is the trail length in multiples of the velocity vector
	StreakTrailLength = 3.0
	StreakTrailWidth  = 2.0
	// StreakTrailOpacity is the alpha at the head end of the trail gradient
	StreakTrailOpacity = 0.9
	StreakHeadRadius   = 2.5
)

// TwoPi is the upper bound for random phases
const TwoPi = 2 * math.Pi
