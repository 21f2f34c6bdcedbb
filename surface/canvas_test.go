package surface

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanvasSetSizeResetsState(t *testing.T) {
	c := NewCanvas(10, 10)
	c.SetTransform(2, 0, 0, 2, 0, 0)
	c.SetGlobalAlpha(0.3)
	c.FillCircle(2, 2, 1)

	c.SetSize(20, 8)
	w, h := c.Size()
	assert.Equal(t, 20, w)
	assert.Equal(t, 8, h)
	assert.Equal(t, Identity, c.transform)
	assert.Equal(t, 1.0, c.alpha)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			require.Zero(t, c.Pixel(x, y).A, "pixel %d,%d not cleared", x, y)
		}
	}
}

func TestFillCircleCoverage(t *testing.T) {
	c := NewCanvas(20, 20)
	c.SetFillColor(White)
	c.FillCircle(10, 10, 4)

	center := c.Pixel(10, 10)
	assert.InDelta(t, 1.0, center.A, 1e-6)
	assert.Zero(t, c.Pixel(0, 0).A)
	assert.Zero(t, c.Pixel(19, 19).A)

	// Edge pixels are partially covered
	edge := c.Pixel(13, 10)
	assert.Greater(t, edge.A, 0.0)
	assert.Less(t, edge.A, 1.0)
}

func TestFillCircleSubPixel(t *testing.T) {
	c := NewCanvas(4, 4)
	c.FillCircle(1.5, 1.5, 0.2)
	// A disc inside one pixel deposits roughly its area as coverage
	p := c.Pixel(1, 1)
	assert.InDelta(t, math.Pi*0.04, p.A, 0.02)
	assert.Zero(t, c.Pixel(2, 2).A)
}

func TestTransformScalesDrawing(t *testing.T) {
	c := NewCanvas(20, 20)
	c.SetTransform(2, 0, 0, 2, 0, 0)
	c.FillCircle(5, 5, 1)
	// Logical (5,5) lands on device (10,10)
	assert.Greater(t, c.Pixel(10, 10).A, 0.9)
	assert.Zero(t, c.Pixel(5, 5).A)
}

func TestSetTransformMatchesAffine(t *testing.T) {
	tests := []struct {
		name string
		m    Transform
	}{
		{"identity", Identity},
		{"device scale", Transform{A: 1.75, D: 1.75}},
		{"translate", Transform{A: 1, D: 1, E: 3, F: -2}},
		{"rotate quarter", Transform{A: 0, B: 1, C: -1, D: 0, E: 10}},
		{"shear", Transform{A: 1, C: 1, D: 1}},
		{"flip y", Transform{A: 1, D: -1, F: 10}},
		{"general", Transform{A: 2, B: 0.5, C: -0.3, D: 1.2, E: 4, F: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanvas(16, 16)
			m := tt.m
			c.SetTransform(m.A, m.B, m.C, m.D, m.E, m.F)
			for _, pt := range [][2]float64{{0, 0}, {1, 0}, {0, 1}, {3, 4}, {-2, 5}} {
				wx, wy := m.Apply(pt[0], pt[1])
				gx, gy := c.dc.TransformPoint(pt[0], pt[1])
				assert.InDelta(t, wx, gx, 1e-9, "x of %v", pt)
				assert.InDelta(t, wy, gy, 1e-9, "y of %v", pt)
			}
		})
	}
}

func TestRotatedDrawingLandsOnDevicePoint(t *testing.T) {
	c := NewCanvas(12, 12)
	// Quarter turn then 10px right: logical (2,3) maps to device (7,2)
	c.SetTransform(0, 1, -1, 0, 10, 0)
	c.FillCircle(2, 3, 1.5)
	assert.Greater(t, c.Pixel(7, 2).A, 0.9)
	assert.Zero(t, c.Pixel(2, 3).A)
}

func TestSetSizeSameDimensionsClears(t *testing.T) {
	c := NewCanvas(8, 8)
	img := c.Image()
	c.FillCircle(4, 4, 3)
	require.Greater(t, c.Pixel(4, 4).A, 0.0)

	c.SetSize(8, 8)
	assert.Same(t, img, c.Image())
	assert.Zero(t, c.Pixel(4, 4).A)
}

func TestGlobalAlphaClamped(t *testing.T) {
	c := NewCanvas(8, 8)
	c.SetGlobalAlpha(1.7)
	assert.Equal(t, 1.0, c.alpha)
	c.SetGlobalAlpha(-3)
	assert.Equal(t, 0.0, c.alpha)
	c.FillCircle(4, 4, 2)
	assert.Zero(t, c.Pixel(4, 4).A)
}

func TestClearRect(t *testing.T) {
	c := NewCanvas(10, 10)
	c.SetTransform(2, 0, 0, 2, 0, 0)
	c.FillCircle(2.5, 2.5, 2)
	require.Greater(t, c.Pixel(5, 5).A, 0.0)

	c.ClearRect(0, 0, 5, 5)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			require.Zero(t, c.Pixel(x, y).A)
		}
	}
}

func TestShadowHaloExtendsBeyondDisc(t *testing.T) {
	plain := NewCanvas(30, 30)
	plain.FillCircle(15, 15, 1)

	glow := NewCanvas(30, 30)
	glow.SetShadow(4, GlowPink.WithAlpha(0.6))
	glow.FillCircle(15, 15, 1)

	assert.Zero(t, plain.Pixel(18, 15).A)
	halo := glow.Pixel(18, 15)
	assert.Greater(t, halo.A, 0.0)
	// Halo tint is pink: more red than green
	assert.Greater(t, halo.RGB.R, halo.RGB.G)
}

func TestStrokeGradientLineFades(t *testing.T) {
	c := NewCanvas(40, 10)
	c.StrokeGradientLine(2, 5, 38, 5, 2, Transparent, White.WithAlpha(0.9))

	tail := c.Pixel(3, 5).A
	head := c.Pixel(37, 5).A
	assert.Less(t, tail, head)
	assert.InDelta(t, 0.9, head, 0.05)
	assert.Zero(t, c.Pixel(20, 0).A)
}

func TestImageExport(t *testing.T) {
	c := NewCanvas(6, 6)
	c.FillCircle(3, 3, 2)
	img := c.Image()
	assert.Equal(t, 6, img.Bounds().Dx())
	assert.Equal(t, uint8(255), img.RGBAAt(3, 3).A)
	assert.Equal(t, uint8(0), img.RGBAAt(0, 0).A)
}

func TestNRGBAFoldsAlpha(t *testing.T) {
	c := nrgba(GlowPink.RGB, 0.5)
	assert.Equal(t, uint8(255), c.R)
	assert.Equal(t, uint8(160), c.G)
	assert.Equal(t, uint8(128), c.A)
	assert.Equal(t, uint8(255), nrgba(White.RGB, 3).A)
	assert.Zero(t, nrgba(White.RGB, -1).A)
}

func TestRecorderCounts(t *testing.T) {
	r := NewRecorder()
	ctx := r.Context()
	require.NotNil(t, ctx)
	ctx.SetGlobalAlpha(0.5)
	ctx.SetFillColor(White.WithAlpha(0.5))
	ctx.FillCircle(1, 1, 1)
	ctx.StrokeGradientLine(0, 0, 1, 1, 2, Transparent, White)

	assert.Equal(t, 4, r.Count())
	assert.Equal(t, 2, r.Count(OpCircle, OpLine))
	ops := r.Ops()
	assert.InDelta(t, 0.25, ops[2].Alpha, 1e-9)

	r.Reset()
	assert.Zero(t, r.Count())
	assert.Nil(t, NewUnavailableRecorder().Context())
}
