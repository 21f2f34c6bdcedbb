package frame

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/starfield/core"
	"github.com/lixenwraith/starfield/status"
)

// Loop drives frames from a drift-corrected timer on its own goroutine
// Frame callbacks, posted tasks and after-frame hooks all run on that goroutine, so state they share needs no locking
type Loop struct {
	mu         sync.Mutex
	q          queue
	tasks      []func()
	afterFrame map[int]func(now time.Time)
	hookSeq    int

	interval time.Duration
	logger   *zap.Logger

	paused   atomic.Bool
	running  atomic.Bool
	stopCh   chan struct{}
	stopOnce sync.Once
	wakeCh   chan struct{}
	wg       sync.WaitGroup

	// Cached metric pointers
	statFrames   *atomic.Int64
	statOverruns *atomic.Int64
	statFPS      *status.AtomicFloat
	statPaused   *atomic.Bool
}

// LoopOption configures a Loop
type LoopOption func(*Loop)

// WithLogger sets the loop logger
func WithLogger(l *zap.Logger) LoopOption {
	return func(lp *Loop) { lp.logger = l.Named("frame") }
}

// WithStatus publishes frame metrics to reg
func WithStatus(reg *status.Registry) LoopOption {
	return func(lp *Loop) {
		lp.statFrames = reg.Ints.Get(status.KeyFrames)
		lp.statOverruns = reg.Ints.Get(status.KeyFrameOverruns)
		lp.statFPS = reg.Floats.Get(status.KeyFPS)
		lp.statPaused = reg.Bools.Get(status.KeyPaused)
	}
}

// NewLoop creates a loop ticking at fps, non-positive fps falls back to 60
func NewLoop(fps int, opts ...LoopOption) *Loop {
	if fps <= 0 {
		fps = 60
	}
	l := &Loop{
		afterFrame: make(map[int]func(time.Time)),
		interval:   time.Second / time.Duration(fps),
		logger:     zap.NewNop(),
		stopCh:     make(chan struct{}),
		wakeCh:     make(chan struct{}, 1),
	}
	WithStatus(status.NewRegistry())(l)
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Interval returns the frame period
func (l *Loop) Interval() time.Duration {
	return l.interval
}

func (l *Loop) RequestFrame(cb Callback) Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.q.add(cb)
}

func (l *Loop) CancelFrame(h Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.q.cancel(h)
}

// Pending reports whether h is still queued
func (l *Loop) Pending(h Handle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.q.has(h)
}

// Post queues fn to run on the loop goroutine before the next frame
// Event sources (resize, input, config reload) deliver through Post
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()
	select {
	case l.wakeCh <- struct{}{}:
	default:
	}
}

// AfterFrame registers a hook run after each frame's callbacks, the repaint step
func (l *Loop) AfterFrame(fn func(now time.Time)) (unregister func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := l.hookSeq
	l.hookSeq++
	l.afterFrame[id] = fn
	return func() {
		l.mu.Lock()
		delete(l.afterFrame, id)
		l.mu.Unlock()
	}
}

// SetPaused holds frame callbacks while paused, posted tasks still run
func (l *Loop) SetPaused(paused bool) {
	l.paused.Store(paused)
	l.statPaused.Store(paused)
	select {
	case l.wakeCh <- struct{}{}:
	default:
	}
}

func (l *Loop) Paused() bool {
	return l.paused.Load()
}

// Start launches the loop goroutine, repeated calls are ignored
func (l *Loop) Start() {
	if l.running.CompareAndSwap(false, true) {
		l.wg.Add(1)
		core.Go(l.run)
	}
}

// Stop halts the loop and waits for the goroutine to exit
// A frame in progress completes; nothing runs afterwards
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopCh)
		if l.running.Load() {
			l.wg.Wait()
		}
	})
}

func (l *Loop) run() {
	defer l.wg.Done()

	timer := time.NewTimer(l.interval)
	defer timer.Stop()

	nextDeadline := time.Now().Add(l.interval)
	fpsWindowStart := time.Now()
	fpsFrames := 0

	for {
		select {
		case <-l.stopCh:
			return
		case <-l.wakeCh:
			l.runTasks()
			continue
		case <-timer.C:
		}

		l.runTasks()

		now := time.Now()
		if !l.paused.Load() {
			l.runFrame(now)
			fpsFrames++
		}

		if elapsed := now.Sub(fpsWindowStart); elapsed >= time.Second {
			l.statFPS.Store(float64(fpsFrames) / elapsed.Seconds())
			fpsWindowStart = now
			fpsFrames = 0
		}

		nextDeadline = nextDeadline.Add(l.interval)
		// Frame work ran long: skip missed ticks instead of bursting to catch up
		if behind := time.Since(nextDeadline); behind > l.interval {
			l.statOverruns.Add(1)
			l.logger.Debug("frame overrun", zap.Duration("behind", behind))
			nextDeadline = time.Now().Add(l.interval)
		}
		timer.Reset(max(time.Until(nextDeadline), 0))
	}
}

func (l *Loop) runTasks() {
	l.mu.Lock()
	tasks := l.tasks
	l.tasks = nil
	l.mu.Unlock()

	for _, fn := range tasks {
		fn()
	}
}

func (l *Loop) runFrame(now time.Time) {
	l.mu.Lock()
	batch := l.q.take()
	hooks := make([]func(time.Time), 0, len(l.afterFrame))
	for id := 0; id < l.hookSeq; id++ {
		if fn, ok := l.afterFrame[id]; ok {
			hooks = append(hooks, fn)
		}
	}
	l.mu.Unlock()

	for _, r := range batch {
		l.mu.Lock()
		live := l.q.live(r.handle)
		l.mu.Unlock()
		if live {
			r.cb(now)
		}
	}
	l.mu.Lock()
	l.q.finish()
	l.mu.Unlock()

	for _, fn := range hooks {
		fn(now)
	}
	l.statFrames.Add(1)
}
