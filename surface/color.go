package surface

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Color is a straight (non-premultiplied) RGBA color
type Color struct {
	RGB colorful.Color
	A   float64
}

// RGBA builds a color from 8-bit channels and an alpha in [0,1]
func RGBA(r, g, b uint8, a float64) Color {
	return Color{
		RGB: colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255},
		A:   a,
	}
}

var (
	White       = RGBA(255, 255, 255, 1)
	Transparent = RGBA(255, 255, 255, 0)
	// GlowPink is the halo tint of glowing ambient points
	GlowPink = RGBA(255, 160, 255, 1)
)

// WithAlpha returns c with alpha replaced
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}
