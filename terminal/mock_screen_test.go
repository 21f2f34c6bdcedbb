package terminal

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

type cell struct {
	r     rune
	style tcell.Style
}

// MockScreen is a minimal tcell.Screen recording cell writes and feeding queued events
type MockScreen struct {
	tcell.Screen

	mu            sync.Mutex
	width, height int
	cells         map[[2]int]cell
	shows         int
	syncs         int
	mouse         bool
	colors        int
	finalized     bool
	events        chan tcell.Event
	finiOnce      sync.Once
}

func newMockScreen(w, h int) *MockScreen {
	return &MockScreen{
		width:  w,
		height: h,
		cells:  make(map[[2]int]cell),
		colors: 256,
		events: make(chan tcell.Event, 16),
	}
}

func (m *MockScreen) Size() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.width, m.height
}

func (m *MockScreen) Colors() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.colors
}

func (m *MockScreen) Init() error          { return nil }
func (m *MockScreen) Clear()               {}
func (m *MockScreen) HideCursor()          {}
func (m *MockScreen) SetStyle(tcell.Style) {}
func (m *MockScreen) EnableFocus()         {}
func (m *MockScreen) EnableMouse(...tcell.MouseFlags) {
	m.mu.Lock()
	m.mouse = true
	m.mu.Unlock()
}

func (m *MockScreen) Show() {
	m.mu.Lock()
	m.shows++
	m.mu.Unlock()
}

func (m *MockScreen) Sync() {
	m.mu.Lock()
	m.syncs++
	m.mu.Unlock()
}

func (m *MockScreen) SetContent(x, y int, mainc rune, combc []rune, style tcell.Style) {
	m.mu.Lock()
	m.cells[[2]int{x, y}] = cell{r: mainc, style: style}
	m.mu.Unlock()
}

func (m *MockScreen) PollEvent() tcell.Event {
	ev, ok := <-m.events
	if !ok {
		return nil
	}
	return ev
}

func (m *MockScreen) Fini() {
	m.finiOnce.Do(func() {
		m.mu.Lock()
		m.finalized = true
		m.mu.Unlock()
		close(m.events)
	})
}

func (m *MockScreen) cellAt(x, y int) cell {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cells[[2]int{x, y}]
}

func (m *MockScreen) resize(w, h int) {
	m.mu.Lock()
	m.width, m.height = w, h
	m.mu.Unlock()
}

// syncPoster runs posted tasks inline and counts them
type syncPoster struct {
	mu    sync.Mutex
	posts int
}

func (p *syncPoster) Post(fn func()) {
	p.mu.Lock()
	p.posts++
	p.mu.Unlock()
	fn()
}

func (p *syncPoster) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.posts
}
