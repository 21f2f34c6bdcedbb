// Package terminal hosts the animation in a tcell screen: it reports the viewport,
// turns tcell events into frame-loop tasks and presents the raster as half-block cells.
package terminal

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/starfield/config"
	"github.com/lixenwraith/starfield/core"
)

// Poster runs fn on the frame goroutine, frame.Loop implements it
type Poster interface {
	Post(fn func())
}

// Actions are invoked on the frame goroutine, nil entries are ignored
type Actions struct {
	TogglePause func()
	Reseed      func()
	ToggleAudio func()
	ToggleHUD   func()
	// Pointer receives the pointer in logical px; pressed stands in for hover
	Pointer func(x, y float64, pressed bool)
	// PointerLeave fires when the terminal loses focus
	PointerLeave func()
}

// Host owns the tcell screen
// Viewport, OnResize subscribers and Cells are touched on the frame goroutine only
type Host struct {
	screen  tcell.Screen
	poster  Poster
	cfg     config.TerminalConfig
	actions Actions
	logger  *zap.Logger

	cols, rows int
	subs       map[int]func(w, h float64)
	subSeq     int

	quitCh   chan struct{}
	quitOnce sync.Once
	finiOnce sync.Once
	pumpDone chan struct{}
	pumping  bool

	unregisterCrash func()
}

type HostOption func(*Host)

func WithHostLogger(l *zap.Logger) HostOption {
	return func(h *Host) { h.logger = l.Named("terminal") }
}

// WithActions binds key and mouse handlers
func WithActions(a Actions) HostOption {
	return func(h *Host) { h.actions = a }
}

// NewHost wraps screen without initializing it
func NewHost(screen tcell.Screen, poster Poster, cfg config.TerminalConfig, opts ...HostOption) *Host {
	h := &Host{
		screen:   screen,
		poster:   poster,
		cfg:      cfg,
		logger:   zap.NewNop(),
		subs:     make(map[int]func(w, h float64)),
		quitCh:   make(chan struct{}),
		pumpDone: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Init takes over the terminal and registers screen teardown for crashes
func (h *Host) Init() error {
	if err := h.screen.Init(); err != nil {
		return fmt.Errorf("failed to init screen: %w", err)
	}
	h.unregisterCrash = core.OnCrash(h.screen.Fini)

	h.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	h.screen.HideCursor()
	if h.cfg.Pointer {
		h.screen.EnableMouse(tcell.MouseMotionEvents)
		h.screen.EnableFocus()
	}
	h.screen.Clear()
	h.cols, h.rows = h.screen.Size()

	h.logger.Debug("screen ready", zap.Int("cols", h.cols), zap.Int("rows", h.rows))
	return nil
}

// Fini restores the terminal and waits for the event pump, safe to call repeatedly
func (h *Host) Fini() {
	h.finiOnce.Do(func() {
		if h.unregisterCrash != nil {
			h.unregisterCrash()
		}
		h.screen.Fini()
		if h.pumping {
			<-h.pumpDone
		}
	})
}

// Run starts the event pump; it ends when the screen is finalized
func (h *Host) Run() {
	if h.pumping {
		return
	}
	h.pumping = true
	core.Go(h.pump)
}

// Done is closed when the user asks to quit
func (h *Host) Done() <-chan struct{} {
	return h.quitCh
}

// Quit closes Done, safe to call repeatedly
func (h *Host) Quit() {
	h.quitOnce.Do(func() { close(h.quitCh) })
}

// Cells returns the terminal size in cells
func (h *Host) Cells() (cols, rows int) {
	return h.cols, h.rows
}

// Viewport returns the logical size covered by the screen
func (h *Host) Viewport() (width, height float64) {
	return float64(h.cols) * h.cfg.CellWidth, float64(h.rows) * h.cfg.CellHeight
}

// DevicePixelRatio is the configured raster density
func (h *Host) DevicePixelRatio() float64 {
	return h.cfg.PixelRatio
}

// ColorMode resolves the configured color mode against the screen, call after Init
func (h *Host) ColorMode() (ColorMode, error) {
	return ResolveColorMode(h.cfg.Color, h.screen.Colors())
}

// OnResize implements starfield.ResizeSource
func (h *Host) OnResize(fn func(w, h float64)) func() {
	h.subSeq++
	id := h.subSeq
	h.subs[id] = fn
	return func() { delete(h.subs, id) }
}

// Subscribers returns the number of live resize subscriptions
func (h *Host) Subscribers() int {
	return len(h.subs)
}

func (h *Host) pump() {
	defer close(h.pumpDone)
	for {
		ev := h.screen.PollEvent()
		if ev == nil {
			return
		}
		h.handleEvent(ev)
	}
}

// handleEvent runs on the pump goroutine and forwards work to the frame goroutine
func (h *Host) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		cols, rows := ev.Size()
		h.poster.Post(func() { h.resize(cols, rows) })

	case *tcell.EventKey:
		h.handleKey(ev)

	case *tcell.EventMouse:
		if !h.cfg.Pointer || h.actions.Pointer == nil {
			return
		}
		cx, cy := ev.Position()
		x := (float64(cx) + 0.5) * h.cfg.CellWidth
		y := (float64(cy) + 0.5) * h.cfg.CellHeight
		pressed := ev.Buttons()&tcell.ButtonPrimary != 0
		h.poster.Post(func() { h.actions.Pointer(x, y, pressed) })

	case *tcell.EventFocus:
		if !ev.Focused && h.actions.PointerLeave != nil {
			h.poster.Post(h.actions.PointerLeave)
		}
	}
}

func (h *Host) handleKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		h.Quit()
		return
	case tcell.KeyRune:
	default:
		return
	}

	var action func()
	switch ev.Rune() {
	case 'q', 'Q':
		h.Quit()
		return
	case ' ':
		action = h.actions.TogglePause
	case 'r', 'R':
		action = h.actions.Reseed
	case 'm', 'M':
		action = h.actions.ToggleAudio
	case 'h', 'H':
		action = h.actions.ToggleHUD
	}
	if action != nil {
		h.poster.Post(action)
	}
}

// resize runs on the frame goroutine
func (h *Host) resize(cols, rows int) {
	h.cols, h.rows = cols, rows
	h.screen.Sync()

	w, hh := h.Viewport()
	h.logger.Debug("resize", zap.Int("cols", cols), zap.Int("rows", rows))
	for _, fn := range h.subs {
		fn(w, hh)
	}
}
