package dblog

import (
	"sync"
	"sync/atomic"
)

// engine is the producer side of the double buffer
// All buffer slots and the pending queue are guarded by mu. The writer is woken
// through wake, a single-slot channel that only carries buffer rollover signals.
type engine struct {
	mu       sync.Mutex
	current  *buffer
	standby  *buffer
	pending  bufferList
	capacity int

	wake   chan struct{}
	closed bool // set by the writer's last cycle, appends are rejected after it

	slowAllocs atomic.Uint64 // Buffers allocated on the append path
	rollovers  atomic.Uint64 // Current buffer promotions caused by overflow
}

// newEngine creates an engine with a current and a standby buffer of the given capacity
func newEngine(capacity int) *engine {
	return &engine{
		current:  newBuffer(capacity),
		standby:  newBuffer(capacity),
		capacity: capacity,
		wake:     make(chan struct{}, 1),
	}
}

// append copies line into the current buffer
// The common path only copies under the lock. On overflow the full buffer is
// queued, the standby is promoted and the writer is signaled once.
// Returns false if the line can never fit a buffer or the writer has finished.
func (e *engine) append(line []byte) bool {
	if len(line) > e.capacity {
		return false
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return false
	}
	if e.current.fits(len(line)) {
		e.current.write(line)
		e.mu.Unlock()
		return true
	}

	e.pending.pushBack(e.current)
	if e.standby != nil {
		e.current = e.standby
		e.standby = nil
	} else {
		// Standby exhausted by sustained overflow, allocate synchronously
		e.current = newBuffer(e.capacity)
		e.slowAllocs.Add(1)
	}
	e.current.write(line)
	e.rollovers.Add(1)
	e.mu.Unlock()

	e.signal()
	return true
}

// signal wakes the writer without blocking, coalescing with an unconsumed signal
func (e *engine) signal() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

// handoffLocked moves the current buffer and the pending queue into a batch
// fresh becomes the new current buffer; spare fills the standby slot when it is empty.
// Reports whether spare was taken. Caller must hold e.mu.
func (e *engine) handoffLocked(fresh, spare *buffer) (bufferList, bool) {
	if fresh == nil {
		fresh = newBuffer(e.capacity)
	}

	e.pending.pushBack(e.current)
	e.current = fresh
	batch := e.pending.takeAll()

	spareTaken := false
	if e.standby == nil {
		if spare == nil {
			spare = newBuffer(e.capacity)
		}
		e.standby = spare
		spareTaken = true
	}
	return batch, spareTaken
}

// hasPendingLocked reports whether full buffers await the writer. Caller must hold e.mu.
func (e *engine) hasPendingLocked() bool {
	return !e.pending.empty()
}

// closeIfDrained closes the engine when nothing was appended after the last handoff
// Reports whether the engine is closed.
func (e *engine) closeIfDrained() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current.used > 0 || e.hasPendingLocked() {
		return false
	}
	e.closed = true
	return true
}
