package status

import (
	"math"
	"strconv"
	"sync/atomic"
)

// AtomicFloat is a float64 stored as bits, zero value reads 0.0
type AtomicFloat struct {
	bits atomic.Uint64
}

func (f *AtomicFloat) Store(val float64) {
	f.bits.Store(math.Float64bits(val))
}

func (f *AtomicFloat) Load() float64 {
	return math.Float64frombits(f.bits.Load())
}

// MaxLabelLen bounds stored labels so the status line keeps its width
const MaxLabelLen = 24

// AtomicString holds a short label, zero value reads ""
type AtomicString struct {
	ptr atomic.Pointer[string]
}

// Store sets the value, cut to MaxLabelLen bytes
func (s *AtomicString) Store(val string) {
	if len(val) > MaxLabelLen {
		val = val[:MaxLabelLen]
	}
	s.ptr.Store(&val)
}

func (s *AtomicString) Load() string {
	if p := s.ptr.Load(); p != nil {
		return *p
	}
	return ""
}

// Renderers used by the registry for each metric kind

func renderBool(b *atomic.Bool) string    { return strconv.FormatBool(b.Load()) }
func renderInt(i *atomic.Int64) string    { return strconv.FormatInt(i.Load(), 10) }
func renderFloat(f *AtomicFloat) string   { return strconv.FormatFloat(f.Load(), 'f', 2, 64) }
func renderString(s *AtomicString) string { return s.Load() }
