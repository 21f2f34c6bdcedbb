package terminal

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/starfield/surface"
)

// halfBlock shows the upper half in the foreground and the lower half in the background
const halfBlock = '▀'

// Presenter copies the raster to the screen after each frame
// Each cell covers a device-pixel block split into upper and lower halves, and
// each half shows its brightest pixel so sub-cell stars are not averaged away
type Presenter struct {
	screen tcell.Screen
	canvas *surface.Canvas
	colors *colorFitter
	hud    func() string

	hudStyle tcell.Style
	black    tcell.Color
}

type PresenterOption func(*Presenter)

// WithHUD draws fn's text on the bottom row, fn returning "" hides it
func WithHUD(fn func() string) PresenterOption {
	return func(p *Presenter) { p.hud = fn }
}

func NewPresenter(screen tcell.Screen, canvas *surface.Canvas, mode ColorMode, opts ...PresenterOption) *Presenter {
	p := &Presenter{
		screen: screen,
		canvas: canvas,
		colors: newColorFitter(mode),
	}
	p.black = p.colors.fit(colorful.Color{})
	p.hudStyle = tcell.StyleDefault.Background(p.black).Foreground(p.colors.fit(colorful.Color{R: 0.8, G: 0.8, B: 0.8}))
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Mode returns the color mode cells are fitted to
func (p *Presenter) Mode() ColorMode {
	return p.colors.mode
}

// Present is a frame.Loop after-frame hook
func (p *Presenter) Present(time.Time) {
	cols, rows := p.screen.Size()
	if cols <= 0 || rows <= 0 {
		return
	}

	w, h := p.canvas.Size()
	blank := tcell.StyleDefault.Background(p.black).Foreground(p.black)
	for cy := 0; cy < rows; cy++ {
		y0, y1 := span(cy, rows, h)
		mid := y0 + (y1-y0+1)/2
		for cx := 0; cx < cols; cx++ {
			x0, x1 := span(cx, cols, w)
			upper, lu := p.brightest(x0, x1, y0, mid)
			lower, ll := p.brightest(x0, x1, mid, y1)
			if lu == 0 && ll == 0 {
				p.screen.SetContent(cx, cy, ' ', nil, blank)
				continue
			}
			style := tcell.StyleDefault.
				Foreground(p.colors.fit(upper)).
				Background(p.colors.fit(lower))
			p.screen.SetContent(cx, cy, halfBlock, nil, style)
		}
	}

	if p.hud != nil {
		if text := p.hud(); text != "" {
			p.drawText(0, rows-1, cols, text)
		}
	}
	p.screen.Show()
}

// span maps cell i of n onto [0,size), never empty while size >= n
func span(i, n, size int) (int, int) {
	lo := i * size / n
	hi := (i + 1) * size / n
	return lo, min(hi, size)
}

// brightest returns the max-luma pixel of the block and its luma, black for empty blocks
func (p *Presenter) brightest(x0, x1, y0, y1 int) (colorful.Color, float64) {
	var best colorful.Color
	bestL := 0.0
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			c := p.canvas.OverBlack(x, y)
			if l := luma(c); l > bestL {
				best, bestL = c, l
			}
		}
	}
	return best, bestL
}

// drawText writes text from column x, truncated to width cells with wide runes accounted for
func (p *Presenter) drawText(x, y, width int, text string) {
	text = runewidth.Truncate(text, width, "…")
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if x+rw > width {
			break
		}
		p.screen.SetContent(x, y, r, nil, p.hudStyle)
		x += rw
	}
}
