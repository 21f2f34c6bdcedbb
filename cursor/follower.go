// Package cursor draws a ring that eases toward the pointer each frame.
package cursor

import (
	"github.com/lixenwraith/starfield/parameter"
	"github.com/lixenwraith/starfield/starfield"
	"github.com/lixenwraith/starfield/surface"
	"github.com/lixenwraith/starfield/vmath"
)

// Follower is a starfield overlay, idle until the first pointer event
// Move and Hover are called from the frame goroutine like every other animator input
type Follower struct {
	ease    float64
	radius  float64
	hoverR  float64
	opacity float64

	targetX, targetY   float64
	currentX, currentY float64
	active             bool
	hover              bool
}

// New creates a follower with default easing and radii
func New() *Follower {
	return &Follower{
		ease:    parameter.CursorEase,
		radius:  parameter.CursorRadius,
		hoverR:  parameter.CursorHoverRadius,
		opacity: parameter.CursorOpacity,
	}
}

// SetEase changes the fraction of remaining distance covered per frame, clamped to (0,1]
func (f *Follower) SetEase(ease float64) {
	if ease <= 0 {
		return
	}
	f.ease = vmath.Clamp(ease, 0, 1)
}

// Move sets the target in logical px, the first call snaps the ring to it
func (f *Follower) Move(x, y float64) {
	f.targetX, f.targetY = x, y
	if !f.active {
		f.currentX, f.currentY = x, y
		f.active = true
	}
}

// Hover grows the ring while the pointer is over something interactive
func (f *Follower) Hover(on bool) {
	f.hover = on
}

// Hide parks the follower until the next Move
func (f *Follower) Hide() {
	f.active = false
}

// Position returns the eased position
func (f *Follower) Position() (x, y float64) {
	return f.currentX, f.currentY
}

// Active reports whether the ring is drawn
func (f *Follower) Active() bool {
	return f.active
}

// Step eases toward the target once, Draw calls it
func (f *Follower) Step() {
	f.currentX += (f.targetX - f.currentX) * f.ease
	f.currentY += (f.targetY - f.currentY) * f.ease
}

// Draw implements starfield.Overlay
func (f *Follower) Draw(ctx surface.Context, _ starfield.SurfaceState) {
	if !f.active {
		return
	}
	f.Step()

	r := f.radius
	if f.hover {
		r = f.hoverR
	}
	ctx.SetGlobalAlpha(f.opacity)
	ctx.SetFillColor(surface.White)
	ctx.FillCircle(f.currentX, f.currentY, r)
}

var _ starfield.Overlay = (*Follower)(nil)
