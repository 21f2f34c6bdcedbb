package surface

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/starfield/vmath"
)

// haloStops is the number of gradient stops sampling the halo falloff past the disc edge
const haloStops = 6

// Canvas is an Element and Context backed by a gg raster
// gg owns paths, the transform and anti-aliasing; global alpha and the shadow are applied here
type Canvas struct {
	img *image.RGBA
	dc  *gg.Context

	transform Transform
	alpha     float64
	fill      Color

	shadowBlur  float64
	shadowColor Color
}

// NewCanvas creates a canvas with the given device size
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.SetSize(width, height)
	return c
}

// SetSize clears the raster, reallocating only when the size changes, and resets state
func (c *Canvas) SetSize(width, height int) {
	width = max(width, 0)
	height = max(height, 0)
	if c.img != nil && c.img.Rect.Dx() == width && c.img.Rect.Dy() == height {
		clear(c.img.Pix)
	} else {
		c.img = image.NewRGBA(image.Rect(0, 0, width, height))
		c.dc = gg.NewContextForRGBA(c.img)
		c.dc.SetLineCap(gg.LineCapButt)
	}
	c.reset()
}

func (c *Canvas) reset() {
	c.transform = Identity
	c.dc.Identity()
	c.alpha = 1
	c.fill = White
	c.shadowBlur = 0
	c.shadowColor = Transparent
}

func (c *Canvas) Size() (int, int) {
	return c.img.Rect.Dx(), c.img.Rect.Dy()
}

// Context returns the canvas itself
func (c *Canvas) Context() Context {
	return c
}

func (c *Canvas) empty() bool {
	return c.img.Rect.Empty()
}

// ===== CONTEXT API =====

// ClearRect clears the device-space bounds of the transformed rectangle
func (c *Canvas) ClearRect(x, y, w, h float64) {
	x0, y0 := c.transform.Apply(x, y)
	x1, y1 := c.transform.Apply(x+w, y+h)
	r := image.Rect(
		int(math.Floor(math.Min(x0, x1))), int(math.Floor(math.Min(y0, y1))),
		int(math.Ceil(math.Max(x0, x1))), int(math.Ceil(math.Max(y0, y1))),
	).Intersect(c.img.Rect)
	if r.Empty() {
		return
	}
	draw.Draw(c.img, r, image.Transparent, image.Point{}, draw.Src)
}

// SetTransform loads the matrix into gg as translate, rotate, shear and scale
func (c *Canvas) SetTransform(a, b, cc, d, e, f float64) {
	c.transform = Transform{A: a, B: b, C: cc, D: d, E: e, F: f}
	c.dc.Identity()
	c.dc.Translate(e, f)

	sx := math.Hypot(a, b)
	if sx == 0 {
		c.dc.Scale(0, 0)
		return
	}
	cos, sin := a/sx, b/sx
	sy := d*cos - cc*sin
	c.dc.Rotate(math.Atan2(b, a))
	if sy != 0 {
		c.dc.Shear((cc*cos+d*sin)/sy, 0)
	}
	c.dc.Scale(sx, sy)
}

func (c *Canvas) SetGlobalAlpha(alpha float64) {
	c.alpha = vmath.Clamp01(alpha)
}

func (c *Canvas) SetFillColor(col Color) {
	col.A = vmath.Clamp01(col.A)
	c.fill = col
}

func (c *Canvas) SetShadow(blur float64, col Color) {
	col.A = vmath.Clamp01(col.A)
	c.shadowBlur = math.Max(blur, 0)
	c.shadowColor = col
}

// FillCircle draws the shadow halo (if any) then the disc
func (c *Canvas) FillCircle(x, y, r float64) {
	if r <= 0 || c.alpha <= 0 || c.empty() {
		return
	}
	if c.shadowBlur > 0 && c.shadowColor.A > 0 {
		c.fillHalo(x, y, r)
	}

	a := c.fill.A * c.alpha
	if a <= 0 {
		return
	}
	c.dc.SetColor(nrgba(c.fill.RGB, a))
	c.dc.DrawCircle(x, y, r)
	c.dc.Fill()
}

// fillHalo fills a radial gradient under the disc: full shadow color out to the
// disc edge, then a gaussian falloff reaching zero at blur past it
func (c *Canvas) fillHalo(x, y, r float64) {
	a := c.shadowColor.A * c.alpha * c.fill.A
	if a <= 0 {
		return
	}
	reach := r + c.shadowBlur
	sigma := c.shadowBlur / 2
	edge := r / reach

	// Gradients are evaluated per device pixel, so the geometry is mapped first
	cx, cy := c.dc.TransformPoint(x, y)
	grad := gg.NewRadialGradient(cx, cy, 0, cx, cy, reach*c.transform.Scale())
	grad.AddColorStop(0, nrgba(c.shadowColor.RGB, a))
	for i := 0; i <= haloStops; i++ {
		t := float64(i) / haloStops
		d := t * c.shadowBlur
		falloff := math.Exp(-(d * d) / (2 * sigma * sigma))
		if i == haloStops {
			falloff = 0
		}
		grad.AddColorStop(edge+(1-edge)*t, nrgba(c.shadowColor.RGB, a*falloff))
	}

	c.dc.SetFillStyle(grad)
	c.dc.DrawCircle(x, y, reach)
	c.dc.Fill()
}

// StrokeGradientLine strokes with butt caps; gg does not transform line width so it is scaled here
func (c *Canvas) StrokeGradientLine(x0, y0, x1, y1, width float64, from, to Color) {
	if width <= 0 || c.alpha <= 0 || c.empty() || (x0 == x1 && y0 == y1) {
		return
	}
	ax, ay := c.dc.TransformPoint(x0, y0)
	bx, by := c.dc.TransformPoint(x1, y1)
	grad := gg.NewLinearGradient(ax, ay, bx, by)
	grad.AddColorStop(0, nrgba(from.RGB, vmath.Clamp01(from.A)*c.alpha))
	grad.AddColorStop(1, nrgba(to.RGB, vmath.Clamp01(to.A)*c.alpha))

	c.dc.SetStrokeStyle(grad)
	c.dc.SetLineWidth(width * c.transform.Scale())
	c.dc.DrawLine(x0, y0, x1, y1)
	c.dc.Stroke()
}

// nrgba converts a straight color and alpha to the 8-bit form gg takes
func nrgba(rgb colorful.Color, a float64) color.NRGBA {
	r, g, b := rgb.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(vmath.Clamp01(a)*255 + 0.5)}
}

// ===== READBACK =====

// Pixel returns the straight color at device coordinates, transparent when out of bounds
func (c *Canvas) Pixel(x, y int) Color {
	if !image.Pt(x, y).In(c.img.Rect) {
		return Transparent
	}
	p := c.img.RGBAAt(x, y)
	if p.A == 0 {
		return Transparent
	}
	n := color.NRGBAModel.Convert(p).(color.NRGBA)
	return RGBA(n.R, n.G, n.B, float64(p.A)/255)
}

// OverBlack returns the pixel composited over black, which is the premultiplied color
func (c *Canvas) OverBlack(x, y int) colorful.Color {
	if !image.Pt(x, y).In(c.img.Rect) {
		return colorful.Color{}
	}
	p := c.img.RGBAAt(x, y)
	return colorful.Color{R: float64(p.R) / 255, G: float64(p.G) / 255, B: float64(p.B) / 255}
}

// Image returns the backing premultiplied raster, valid until the next SetSize
func (c *Canvas) Image() *image.RGBA {
	return c.img
}
