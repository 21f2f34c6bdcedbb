// Package frame provides animation-frame scheduling: callbacks requested for the
// next refresh tick, run once, serially, on a single goroutine.
package frame

import (
	"time"
)

// Handle identifies a pending frame request, zero is never issued
type Handle uint64

// Callback receives the frame timestamp
type Callback func(now time.Time)

// Scheduler is the requestAnimationFrame contract
// A callback requested during a frame runs on the following frame, never the current one
type Scheduler interface {
	RequestFrame(cb Callback) Handle
	// CancelFrame drops a pending request, stale or unknown handles are ignored
	CancelFrame(h Handle)
}

type request struct {
	handle Handle
	cb     Callback
}

// queue holds pending requests in request order, callers synchronize
// inflight tracks the batch being run so a callback can cancel a later one in the same frame
type queue struct {
	last     Handle
	pending  []request
	inflight map[Handle]bool
}

func (q *queue) add(cb Callback) Handle {
	q.last++
	q.pending = append(q.pending, request{handle: q.last, cb: cb})
	return q.last
}

func (q *queue) cancel(h Handle) {
	for i, r := range q.pending {
		if r.handle == h {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
	if _, ok := q.inflight[h]; ok {
		q.inflight[h] = false
	}
}

// take detaches the current batch so requests made while it runs land in the next frame
func (q *queue) take() []request {
	batch := q.pending
	q.pending = nil
	q.inflight = make(map[Handle]bool, len(batch))
	for _, r := range batch {
		q.inflight[r.handle] = true
	}
	return batch
}

// live reports whether a request of the running batch has not been cancelled
func (q *queue) live(h Handle) bool {
	return q.inflight[h]
}

func (q *queue) finish() {
	q.inflight = nil
}

func (q *queue) has(h Handle) bool {
	for _, r := range q.pending {
		if r.handle == h {
			return true
		}
	}
	return false
}

func (q *queue) len() int {
	return len(q.pending)
}
