// --- File: processor.go ---
package dblog

import (
	"time"
)

// writerSettings are the writer's settings, fixed for one Start
type writerSettings struct {
	dropThreshold int
	syncOnFlush   bool
	flushInterval time.Duration
	heartbeat     time.Duration // 0 disables heartbeats
}

// newWriterSettings snapshots the writer settings of cfg
func newWriterSettings(cfg *Config) writerSettings {
	return writerSettings{
		dropThreshold: int(cfg.DropThreshold),
		syncOnFlush:   cfg.SyncOnFlush,
		flushInterval: cfg.flushInterval(),
		heartbeat:     cfg.heartbeatInterval(),
	}
}

// processBuffers is the writer loop running in its own goroutine
// It owns r and the spare buffers; everything shared with producers is reached
// through e under e.mu.
func (l *Logger) processBuffers(e *engine, r *roller, ws writerSettings, quit <-chan struct{}, done chan<- struct{}) {
	l.state.ProcessorExited.Store(false)
	defer func() {
		l.state.ProcessorExited.Store(true)
		close(done)
	}()

	spares := [2]*buffer{newBuffer(e.capacity), newBuffer(e.capacity)}

	timer := time.NewTimer(ws.flushInterval)
	defer timer.Stop()

	lastHeartbeat := l.clock.Now()
	stopping := false
	var confirms []chan struct{}

	for {
		e.mu.Lock()
		if !e.hasPendingLocked() && !stopping && len(confirms) == 0 {
			e.mu.Unlock()
			waitTimer(timer, ws.flushInterval)
			select {
			case <-e.wake:
			case <-timer.C:
			case ch := <-l.state.flushRequests:
				confirms = append(confirms, ch)
			case <-quit:
				stopping = true
			}
			e.mu.Lock()
		}

		// Stop and flush requests arriving while the writer was busy
		if !stopping {
			select {
			case <-quit:
				stopping = true
			default:
			}
		}
		confirms = drainFlushRequests(l.state.flushRequests, confirms)

		if r.needsDayRoll() {
			l.rollFile(r)
		}

		batch, spareTaken := e.handoffLocked(spares[0], spares[1])
		spares[0] = nil
		if spareTaken {
			spares[1] = nil
		}
		e.mu.Unlock()

		l.writeBatch(e, r, ws, &batch)

		// Reuse written buffers as spares, the rest go to the garbage collector
		for i := range spares {
			if spares[i] != nil {
				continue
			}
			b := batch.popFront()
			if b == nil {
				b = newBuffer(e.capacity)
			} else {
				b.reset()
			}
			spares[i] = b
		}
		batch = bufferList{}

		for _, ch := range confirms {
			close(ch)
		}
		confirms = confirms[:0]

		if ws.heartbeat > 0 && !stopping {
			if now := l.clock.Now(); now.Sub(lastHeartbeat) >= ws.heartbeat {
				l.logHeartbeat(e)
				lastHeartbeat = now
			}
		}

		if stopping && e.closeIfDrained() {
			r.flush(ws.syncOnFlush)
			return
		}
	}
}

// writeBatch applies the drop policy, writes the batch in order and rolls on size
func (l *Logger) writeBatch(e *engine, r *roller, ws writerSettings, batch *bufferList) {
	if batch.count > ws.dropThreshold {
		dropped := batch.keepNewest(dropKeepBuffers)
		notice := dropNotice(l.clock.Now(), dropped)
		l.state.DroppedBuffers.Add(uint64(dropped))
		l.state.DropEvents.Add(1)
		l.internalLog("%s", notice)
		e.append(notice)
	}

	for b := batch.head; b != nil; b = b.next {
		r.write(b.bytes())
	}
	r.flush(ws.syncOnFlush)

	if r.needsSizeRoll() {
		l.rollFile(r)
	}
}

// rollFile rolls r, treating an unusable log directory as fatal
func (l *Logger) rollFile(r *roller) {
	if err := r.roll(); err != nil {
		l.fatal(err.Error())
	}
}

// drainFlushRequests collects queued flush confirmations without blocking
func drainFlushRequests(requests chan chan struct{}, confirms []chan struct{}) []chan struct{} {
	for {
		select {
		case ch := <-requests:
			confirms = append(confirms, ch)
		default:
			return confirms
		}
	}
}
