package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/starfield/config"
	"github.com/lixenwraith/starfield/parameter"
)

// ColorMode indicates terminal color capability
type ColorMode uint8

const (
	ColorMode256       ColorMode = iota // xterm-256 palette
	ColorModeTrueColor                  // 24-bit RGB
)

func (m ColorMode) String() string {
	if m == ColorModeTrueColor {
		return config.ColorTrueColor
	}
	return config.Color256
}

// ResolveColorMode maps a configured name to a mode, auto uses the color count
// reported by an initialized tcell screen
func ResolveColorMode(name string, screenColors int) (ColorMode, error) {
	switch name {
	case config.ColorTrueColor:
		return ColorModeTrueColor, nil
	case config.Color256:
		return ColorMode256, nil
	case config.ColorAuto, "":
		if screenColors >= parameter.TrueColorThreshold {
			return ColorModeTrueColor, nil
		}
		return ColorMode256, nil
	}
	return ColorMode256, fmt.Errorf("unknown color mode %q", name)
}

// palette256 is the 6x6x6 cube and gray ramp
// The 16 ANSI colors are left out, terminals theme them
var palette256 = func() []tcell.Color {
	p := make([]tcell.Color, 0, 240)
	for i := 16; i < 256; i++ {
		p = append(p, tcell.PaletteColor(i))
	}
	return p
}()

// colorFitter converts composited colors to tcell colors
// In 256 mode the tcell.FindColor match is memoized, it scans the whole palette
type colorFitter struct {
	mode  ColorMode
	cache map[tcell.Color]tcell.Color
}

func newColorFitter(mode ColorMode) *colorFitter {
	return &colorFitter{mode: mode, cache: make(map[tcell.Color]tcell.Color)}
}

func (f *colorFitter) fit(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	rgb := tcell.NewRGBColor(int32(r), int32(g), int32(b))
	if f.mode == ColorModeTrueColor {
		return rgb
	}
	if v, ok := f.cache[rgb]; ok {
		return v
	}
	if len(f.cache) >= parameter.PaletteCacheSize {
		clear(f.cache)
	}
	v := tcell.FindColor(rgb, palette256)
	f.cache[rgb] = v
	return v
}

// luma is relative luminance in linear light
func luma(c colorful.Color) float64 {
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}
