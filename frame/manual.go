package frame

import (
	"sync"
	"time"
)

// Manual is a Scheduler advanced explicitly, for deterministic tests and headless rendering
type Manual struct {
	mu       sync.Mutex
	q        queue
	now      time.Time
	interval time.Duration
	frames   int
}

// NewManual creates a scheduler whose clock starts at start and advances interval per Step
func NewManual(start time.Time, interval time.Duration) *Manual {
	return &Manual{now: start, interval: interval}
}

func (m *Manual) RequestFrame(cb Callback) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.q.add(cb)
}

func (m *Manual) CancelFrame(h Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.q.cancel(h)
}

// Step advances the clock one interval and runs the callbacks pending at call time
// Returns the number of callbacks run
func (m *Manual) Step() int {
	m.mu.Lock()
	m.now = m.now.Add(m.interval)
	now := m.now
	batch := m.q.take()
	m.frames++
	m.mu.Unlock()

	ran := 0
	for _, r := range batch {
		m.mu.Lock()
		live := m.q.live(r.handle)
		m.mu.Unlock()
		if live {
			r.cb(now)
			ran++
		}
	}

	m.mu.Lock()
	m.q.finish()
	m.mu.Unlock()
	return ran
}

// Steps runs n frames and returns the total callbacks run
func (m *Manual) Steps(n int) int {
	total := 0
	for i := 0; i < n; i++ {
		total += m.Step()
	}
	return total
}

// Pending returns the number of queued requests
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.q.len()
}

// Now returns the scheduler clock
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Frames returns the number of Step calls
func (m *Manual) Frames() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frames
}
