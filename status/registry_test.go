package status

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetReturnsStablePointer(t *testing.T) {
	r := NewRegistry()
	a := r.Ints.Get(KeyFrames)
	b := r.Ints.Get(KeyFrames)
	assert.Same(t, a, b)
	assert.True(t, r.Ints.Has(KeyFrames))
	assert.False(t, r.Ints.Has(KeyDrawCalls))
}

func TestConcurrentRegistration(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Ints.Get(KeyDrawCalls).Add(1)
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(32), r.Ints.Get(KeyDrawCalls).Load())
	assert.Equal(t, 1, r.Ints.Len())
}

func TestAtomicStringCutsLongLabels(t *testing.T) {
	var s AtomicString
	assert.Equal(t, "", s.Load())
	s.Store("truecolor")
	assert.Equal(t, "truecolor", s.Load())
	s.Store("a-very-long-label-that-exceeds-the-limit")
	assert.Len(t, s.Load(), MaxLabelLen)
}

func TestSnapshotAndLine(t *testing.T) {
	r := NewRegistry()
	r.Ints.Get(KeyFrames).Store(120)
	r.Ints.Get(KeyStreaks).Store(1)
	r.Floats.Get(KeyFPS).Store(59.94)
	r.Bools.Get(KeyRunning).Store(true)
	r.Strings.Get(KeyColorMode).Store("256")

	snap := r.Snapshot()
	assert.Equal(t, "120", snap[KeyFrames])
	assert.Equal(t, "59.94", snap[KeyFPS])
	assert.Equal(t, "true", snap[KeyRunning])
	assert.Equal(t, "256", snap[KeyColorMode])
	assert.Equal(t, 5, r.Len())
	assert.Len(t, snap, 5)

	assert.Equal(t, "fps=59.94 streaks=1 color_mode=256", r.Line(KeyFPS, KeyStreaks, "missing.key", KeyColorMode))
	// Line only reads, it never registers
	assert.False(t, r.Ints.Has("missing.key"))
}

func TestLineTracksLiveValues(t *testing.T) {
	r := NewRegistry()
	points := r.Ints.Get(KeyPoints)
	points.Store(10)
	assert.Equal(t, "points=10", r.Line(KeyPoints))
	points.Store(11)
	assert.Equal(t, "points=11", r.Line(KeyPoints))
	assert.Empty(t, r.Line())
}
