// Package starfield renders a twinkling field of ambient points with occasional
// shooting-star streaks, one update-and-draw pass per animation frame.
//
// An Animator is single-threaded: Start, Stop, Resize and frame callbacks must
// all run on the scheduler's goroutine (or before its loop starts).
package starfield

import (
	"math"
	"slices"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/starfield/frame"
	"github.com/lixenwraith/starfield/parameter"
	"github.com/lixenwraith/starfield/status"
	"github.com/lixenwraith/starfield/surface"
	"github.com/lixenwraith/starfield/vmath"
)

// Animator owns the drawable surface and every entity drawn on it
type Animator struct {
	cfg    Config
	sched  frame.Scheduler
	rng    vmath.Source
	logger *zap.Logger

	devicePixelRatio func() float64
	resizeSource     ResizeSource
	onStreak         func(StreakEffect)
	overlays         []Overlay

	el    surface.Element
	ctx   surface.Context
	state SurfaceState

	points  []AmbientPoint
	streaks []StreakEffect

	running     bool
	handle      frame.Handle
	unsubscribe func()
	stats       Stats

	// Cached metric pointers
	statPoints  *atomic.Int64
	statStreaks *atomic.Int64
	statSpawned *atomic.Int64
	statDraws   *atomic.Int64
	statResizes *atomic.Int64
	statScale   *status.AtomicFloat
	statRunning *atomic.Bool
}

// Option configures an Animator
type Option func(*Animator)

// WithRand replaces the random source, tests pass a seeded one
func WithRand(src vmath.Source) Option {
	return func(a *Animator) { a.rng = src }
}

func WithLogger(l *zap.Logger) Option {
	return func(a *Animator) { a.logger = l.Named("animator") }
}

// WithStatus publishes animator metrics to reg
func WithStatus(reg *status.Registry) Option {
	return func(a *Animator) { a.bindStatus(reg) }
}

// WithStreakListener is called on the frame goroutine each time a streak spawns
func WithStreakListener(fn func(StreakEffect)) Option {
	return func(a *Animator) { a.onStreak = fn }
}

// WithResizeSource subscribes to viewport changes on Start and unsubscribes on Stop
func WithResizeSource(src ResizeSource) Option {
	return func(a *Animator) { a.resizeSource = src }
}

// WithDevicePixelRatio sets the host pixel ratio provider, read on every resize
func WithDevicePixelRatio(fn func() float64) Option {
	return func(a *Animator) { a.devicePixelRatio = fn }
}

// WithOverlay adds a drawer run at the end of every frame
func WithOverlay(o Overlay) Option {
	return func(a *Animator) { a.overlays = append(a.overlays, o) }
}

// New creates a stopped animator
func New(cfg Config, sched frame.Scheduler, opts ...Option) *Animator {
	a := &Animator{
		cfg:              cfg,
		sched:            sched,
		rng:              vmath.NewFastRand(uint64(time.Now().UnixNano())),
		logger:           zap.NewNop(),
		devicePixelRatio: func() float64 { return 1 },
		streaks:          make([]StreakEffect, 0, max(cfg.MaxStreaks, 0)),
	}
	a.bindStatus(status.NewRegistry())
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Animator) bindStatus(reg *status.Registry) {
	a.statPoints = reg.Ints.Get(status.KeyPoints)
	a.statStreaks = reg.Ints.Get(status.KeyStreaks)
	a.statSpawned = reg.Ints.Get(status.KeyStreaksSpawned)
	a.statDraws = reg.Ints.Get(status.KeyDrawCalls)
	a.statResizes = reg.Ints.Get(status.KeyResizes)
	a.statScale = reg.Floats.Get(status.KeyScale)
	a.statRunning = reg.Bools.Get(status.KeyRunning)
}

// ===== LIFECYCLE =====

// Start sizes the surface, generates the field and schedules the first frame
// No-op while running; silently does nothing when el or its context is unavailable
func (a *Animator) Start(el surface.Element, viewportWidth, viewportHeight float64) {
	if a.running {
		a.logger.Debug("start ignored, already running")
		return
	}
	if el == nil {
		a.logger.Debug("start skipped, no surface")
		return
	}
	ctx := el.Context()
	if ctx == nil {
		a.logger.Debug("start skipped, no drawing context")
		return
	}

	a.el = el
	a.ctx = ctx
	a.applySize(viewportWidth, viewportHeight)
	a.points = a.generatePoints(PointCount(a.cfg, a.state.Width))
	a.streaks = a.streaks[:0]

	if a.resizeSource != nil {
		a.unsubscribe = a.resizeSource.OnResize(a.Resize)
	}

	a.running = true
	a.statRunning.Store(true)
	a.statPoints.Store(int64(len(a.points)))
	a.statStreaks.Store(0)
	a.handle = a.sched.RequestFrame(a.frame)

	a.logger.Debug("started",
		zap.Float64("width", a.state.Width),
		zap.Float64("height", a.state.Height),
		zap.Float64("scale", a.state.Scale),
		zap.Int("points", len(a.points)),
	)
}

// Stop cancels the pending frame and detaches the resize listener, safe to call repeatedly
// No draw call happens after Stop returns
func (a *Animator) Stop() {
	if !a.running {
		return
	}
	a.running = false
	a.statRunning.Store(false)

	if a.handle != 0 {
		a.sched.CancelFrame(a.handle)
		a.handle = 0
	}
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	a.logger.Debug("stopped", zap.Uint64("frames", a.stats.Frames))
}

// Running reports whether the frame loop is active
func (a *Animator) Running() bool {
	return a.running
}

// Resize recomputes the device size for a new logical viewport and reapplies the transform
// Points keep their logical positions
func (a *Animator) Resize(width, height float64) {
	if !a.running {
		return
	}
	a.applySize(width, height)
	a.stats.Resizes++
	a.statResizes.Add(1)
}

// Reseed regenerates point positions for the current viewport, keeping the count
func (a *Animator) Reseed() {
	if !a.running {
		return
	}
	a.points = a.generatePoints(len(a.points))
}

// ApplyConfig swaps tuning in place, point count and sizing apply from the next Start or Resize
func (a *Animator) ApplyConfig(cfg Config) {
	a.cfg = cfg
	if len(a.streaks) > max(cfg.MaxStreaks, 0) {
		a.streaks = a.streaks[:max(cfg.MaxStreaks, 0)]
	}
}

// ===== GEOMETRY =====

// PointCount returns min(MaxPoints, floor(width / PointSpacing))
func PointCount(cfg Config, width float64) int {
	if cfg.PointSpacing <= 0 || width <= 0 {
		return 0
	}
	return min(cfg.MaxPoints, int(math.Floor(width/cfg.PointSpacing)))
}

// CappedScale bounds the device pixel ratio to limit, non-positive or NaN ratios count as 1
func CappedScale(dpr, limit float64) float64 {
	if !(dpr > 0) || math.IsInf(dpr, 0) {
		dpr = 1
	}
	if limit > 0 && dpr > limit {
		return limit
	}
	return dpr
}

func (a *Animator) applySize(width, height float64) {
	minSize := a.cfg.MinLogicalSize
	if !(minSize > 0) {
		minSize = parameter.MinLogicalSize
	}
	// NaN, infinite and sub-minimum sizes all collapse to the minimum
	if !(width >= minSize) || math.IsInf(width, 0) {
		width = minSize
	}
	if !(height >= minSize) || math.IsInf(height, 0) {
		height = minSize
	}

	scale := CappedScale(a.devicePixelRatio(), a.cfg.MaxDevicePixelRatio)
	a.state = SurfaceState{
		Width:        width,
		Height:       height,
		Scale:        scale,
		DeviceWidth:  max(int(math.Floor(width*scale)), 1),
		DeviceHeight: max(int(math.Floor(height*scale)), 1),
	}

	// Resizing a raster resets its context state, so the transform goes on after
	a.el.SetSize(a.state.DeviceWidth, a.state.DeviceHeight)
	a.ctx.SetTransform(scale, 0, 0, scale, 0, 0)
	a.statScale.Store(scale)
}

func (a *Animator) generatePoints(n int) []AmbientPoint {
	cfg := a.cfg
	points := make([]AmbientPoint, n)
	for i := range points {
		p := AmbientPoint{
			X:           a.rng.Float64() * a.state.Width,
			Y:           a.rng.Float64() * a.state.Height,
			Radius:      vmath.Uniform(a.rng, cfg.PointRadiusMin, cfg.PointRadiusMax),
			BaseOpacity: vmath.Uniform(a.rng, cfg.PointOpacityMin, cfg.PointOpacityMax),
			Phase:       vmath.Uniform(a.rng, 0, parameter.TwoPi),
			Glow:        vmath.Chance(a.rng, cfg.GlowChance),
		}
		p.Opacity = vmath.Clamp01(p.BaseOpacity)
		if p.Glow {
			p.GlowIntensity = vmath.Uniform(a.rng, cfg.GlowIntensityMin, cfg.GlowIntensityMax)
			p.GlowPhase = vmath.Uniform(a.rng, 0, parameter.TwoPi)
		}
		points[i] = p
	}
	return points
}

// ===== FRAME =====

func (a *Animator) frame(time.Time) {
	a.handle = 0
	if !a.running {
		return
	}

	draws := a.drawPoints()
	a.maybeSpawnStreak()
	draws += a.updateStreaks()

	for _, o := range a.overlays {
		o.Draw(a.ctx, a.state)
	}

	a.ctx.SetGlobalAlpha(1)
	a.ctx.SetShadow(0, surface.Transparent)

	a.stats.Frames++
	a.stats.DrawCalls += uint64(draws)
	a.statDraws.Add(int64(draws))
	a.statStreaks.Store(int64(len(a.streaks)))

	// An overlay or listener may have stopped us mid-frame
	if a.running {
		a.handle = a.sched.RequestFrame(a.frame)
	}
}

// drawPoints clears the surface and draws every ambient point, returns draw calls made
func (a *Animator) drawPoints() int {
	cfg := a.cfg
	ctx := a.ctx
	animate := !cfg.ReducedMotion

	ctx.ClearRect(0, 0, a.state.Width, a.state.Height)
	ctx.SetFillColor(surface.White)

	shadowOn := false
	for i := range a.points {
		p := &a.points[i]
		if animate {
			p.Phase += cfg.PhaseStep
		}
		p.Opacity = vmath.Clamp01(p.BaseOpacity + math.Sin(p.Phase)*cfg.TwinkleAmplitude)
		ctx.SetGlobalAlpha(p.Opacity)

		if p.Glow {
			if animate {
				p.GlowPhase += cfg.GlowPhaseStep + a.rng.Float64()*cfg.GlowPhaseJitter
			}
			flicker := (math.Sin(p.GlowPhase) + 1) / 2
			p.GlowLevel = vmath.Clamp01(p.GlowIntensity * (cfg.GlowFloor + flicker*(1-cfg.GlowFloor)))
			ctx.SetShadow(cfg.GlowBlur, surface.GlowPink.WithAlpha(p.GlowLevel))
			shadowOn = true
		} else if shadowOn {
			ctx.SetShadow(0, surface.Transparent)
			shadowOn = false
		}

		ctx.FillCircle(p.X, p.Y, p.Radius)
	}
	if shadowOn {
		ctx.SetShadow(0, surface.Transparent)
	}
	return len(a.points)
}

func (a *Animator) maybeSpawnStreak() {
	cfg := a.cfg
	if cfg.ReducedMotion || len(a.streaks) >= cfg.MaxStreaks {
		return
	}
	if !vmath.Chance(a.rng, cfg.StreakChance) {
		return
	}

	s := StreakEffect{
		X:    cfg.StreakStartX,
		Y:    a.rng.Float64() * a.state.Height * cfg.StreakSpawnBand,
		VX:   vmath.Uniform(a.rng, cfg.StreakVXMin, cfg.StreakVXMax),
		VY:   vmath.Uniform(a.rng, cfg.StreakVYMin, cfg.StreakVYMax),
		Life: 1,
	}
	a.streaks = append(a.streaks, s)
	a.stats.StreaksSpawned++
	a.statSpawned.Add(1)

	if a.onStreak != nil {
		a.onStreak(s)
	}
}

// updateStreaks advances, draws and culls streaks in reverse so removal is safe mid-pass
func (a *Animator) updateStreaks() int {
	cfg := a.cfg
	ctx := a.ctx
	trailHead := surface.White.WithAlpha(cfg.TrailOpacity)
	maxX := a.state.Width + cfg.StreakMargin
	maxY := a.state.Height + cfg.StreakMargin

	draws := 0
	for i := len(a.streaks) - 1; i >= 0; i-- {
		s := &a.streaks[i]
		s.X += s.VX
		s.Y += s.VY
		s.Life -= cfg.StreakDecay

		if alpha := vmath.Clamp01(s.Life); alpha > 0 {
			ctx.SetGlobalAlpha(alpha)
			ctx.StrokeGradientLine(
				s.X-s.VX*cfg.TrailLength, s.Y-s.VY*cfg.TrailLength,
				s.X, s.Y,
				cfg.TrailWidth, surface.Transparent, trailHead,
			)
			ctx.SetFillColor(surface.White)
			ctx.FillCircle(s.X, s.Y, cfg.HeadRadius)
			draws += 2
		}

		if s.Life <= 0 || s.X > maxX || s.Y > maxY {
			a.streaks = slices.Delete(a.streaks, i, i+1)
		}
	}
	return draws
}

// ===== ACCESSORS =====

// Points returns a copy of the ambient points
func (a *Animator) Points() []AmbientPoint {
	return slices.Clone(a.points)
}

// Streaks returns a copy of the live streaks
func (a *Animator) Streaks() []StreakEffect {
	return slices.Clone(a.streaks)
}

func (a *Animator) State() SurfaceState {
	return a.state
}

func (a *Animator) Stats() Stats {
	return a.stats
}

func (a *Animator) Config() Config {
	return a.cfg
}
