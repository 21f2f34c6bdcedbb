package surface

import (
	"sync"

	"github.com/lixenwraith/starfield/vmath"
)

// OpKind identifies a recorded context call
type OpKind uint8

const (
	OpClear OpKind = iota
	OpTransform
	OpGlobalAlpha
	OpFillColor
	OpShadow
	OpCircle
	OpLine
)

// Op is one recorded context call with the state in effect when it was made
// Alpha is the effective alpha of draw ops (global alpha times color alpha), Value carries the raw argument of state ops
type Op struct {
	Kind  OpKind
	X, Y  float64
	R     float64
	Alpha float64
	Value float64
}

// Recorder is an Element and Context that records calls instead of rasterizing
// Safe for concurrent use so tests can inspect it while a frame loop runs
type Recorder struct {
	mu          sync.Mutex
	ops         []Op
	width       int
	height      int
	alpha       float64
	fill        Color
	transform   Transform
	unavailable bool
}

// NewRecorder creates a recorder with an available context
func NewRecorder() *Recorder {
	return &Recorder{alpha: 1, fill: White, transform: Identity}
}

// NewUnavailableRecorder creates an element whose Context is nil
func NewUnavailableRecorder() *Recorder {
	r := NewRecorder()
	r.unavailable = true
	return r
}

func (r *Recorder) SetSize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = width, height
	r.alpha = 1
	r.fill = White
	r.transform = Identity
}

func (r *Recorder) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *Recorder) Context() Context {
	if r.unavailable {
		return nil
	}
	return r
}

func (r *Recorder) record(op Op) {
	r.mu.Lock()
	r.ops = append(r.ops, op)
	r.mu.Unlock()
}

func (r *Recorder) ClearRect(x, y, w, h float64) {
	r.record(Op{Kind: OpClear, X: x, Y: y, R: w, Value: h})
}

func (r *Recorder) SetTransform(a, b, c, d, e, f float64) {
	r.mu.Lock()
	r.transform = Transform{A: a, B: b, C: c, D: d, E: e, F: f}
	r.mu.Unlock()
	r.record(Op{Kind: OpTransform, Value: a})
}

func (r *Recorder) SetGlobalAlpha(alpha float64) {
	r.mu.Lock()
	r.alpha = alpha
	r.mu.Unlock()
	r.record(Op{Kind: OpGlobalAlpha, Value: alpha})
}

func (r *Recorder) SetFillColor(c Color) {
	r.mu.Lock()
	r.fill = c
	r.mu.Unlock()
	r.record(Op{Kind: OpFillColor, Value: c.A})
}

func (r *Recorder) SetShadow(blur float64, c Color) {
	r.record(Op{Kind: OpShadow, R: blur, Value: c.A})
}

func (r *Recorder) FillCircle(x, y, radius float64) {
	r.mu.Lock()
	a := r.alpha * r.fill.A
	r.mu.Unlock()
	r.record(Op{Kind: OpCircle, X: x, Y: y, R: radius, Alpha: a})
}

func (r *Recorder) StrokeGradientLine(x0, y0, x1, y1, width float64, from, to Color) {
	r.mu.Lock()
	a := r.alpha * vmath.Clamp01(max(from.A, to.A))
	r.mu.Unlock()
	r.record(Op{Kind: OpLine, X: x1, Y: y1, R: width, Alpha: a})
}

// Ops returns a copy of all recorded calls
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Op, len(r.ops))
	copy(out, r.ops)
	return out
}

// Count returns the number of recorded calls of the given kinds, all calls when none given
func (r *Recorder) Count(kinds ...OpKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(kinds) == 0 {
		return len(r.ops)
	}
	n := 0
	for _, op := range r.ops {
		for _, k := range kinds {
			if op.Kind == k {
				n++
				break
			}
		}
	}
	return n
}

// Transform returns the transform currently in effect
func (r *Recorder) Transform() Transform {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.transform
}

// Reset discards recorded calls, state is kept
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.ops = r.ops[:0]
	r.mu.Unlock()
}
