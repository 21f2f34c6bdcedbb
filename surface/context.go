// Package surface defines the 2D drawing contract the animator renders through
// and a software raster implementing it.
//
// Coordinates passed to a Context are logical; the current transform maps them
// to device pixels. All alpha values are clamped to [0,1] on entry.
package surface

import "math"

// Context is a 2D raster drawing context
// Not safe for concurrent use, a single frame loop is the sole writer
type Context interface {
	// ClearRect resets the rectangle to fully transparent
	ClearRect(x, y, w, h float64)
	// SetTransform replaces the current affine transform (a b c d e f, canvas order)
	SetTransform(a, b, c, d, e, f float64)
	// SetGlobalAlpha multiplies every subsequent draw
	SetGlobalAlpha(alpha float64)
	SetFillColor(c Color)
	// SetShadow sets a halo drawn under subsequent fills, zero blur disables it
	SetShadow(blur float64, c Color)
	FillCircle(x, y, r float64)
	// StrokeGradientLine strokes a segment whose color runs from 'from' at (x0,y0) to 'to' at (x1,y1)
	StrokeGradientLine(x0, y0, x1, y1, width float64, from, to Color)
}

// Element is a sizable drawable, the canvas element of the host
type Element interface {
	// SetSize resizes the backing raster in device pixels and resets context state
	SetSize(width, height int)
	Size() (width, height int)
	// Context returns the 2D context or nil when the element cannot provide one
	Context() Context
}

// Transform is an affine matrix in canvas order
//
//	| a c e |
//	| b d f |
type Transform struct {
	A, B, C, D, E, F float64
}

// Identity is the default transform of a fresh context
var Identity = Transform{A: 1, D: 1}

// Apply maps a logical point to device space
func (t Transform) Apply(x, y float64) (float64, float64) {
	return t.A*x + t.C*y + t.E, t.B*x + t.D*y + t.F
}

// Scale returns the uniform length scale (sqrt of the determinant)
func (t Transform) Scale() float64 {
	det := t.A*t.D - t.B*t.C
	if det < 0 {
		det = -det
	}
	return math.Sqrt(det)
}
