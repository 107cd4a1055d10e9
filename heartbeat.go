// FILE: lixenwraith/dblog/heartbeat.go
package dblog

import (
	"fmt"
	"time"
)

// Stats is a point-in-time snapshot of logger counters
type Stats struct {
	Uptime           time.Duration
	Records          uint64 // Records accepted into a buffer
	DiscardedRecords uint64 // Over-length records rejected
	DroppedBuffers   uint64 // Buffers discarded under overload
	DropEvents       uint64
	BytesWritten     uint64
	Rotations        uint64
	Deletions        uint64
	Compressions     uint64
	BufferRollovers  uint64 // Current buffer promotions on overflow
	SlowAllocations  uint64 // Buffers allocated on the append path
	CurrentFile      string // Empty when writing to stdout or stopped
	CurrentFileSize  int64
	ConsoleFallback  bool
}

// Stats returns the current counters
func (l *Logger) Stats() Stats {
	s := Stats{
		Records:          l.state.TotalRecords.Load(),
		DiscardedRecords: l.state.DiscardedRecords.Load(),
		DroppedBuffers:   l.state.DroppedBuffers.Load(),
		DropEvents:       l.state.DropEvents.Load(),
		BytesWritten:     l.state.TotalBytesWritten.Load(),
		Rotations:        l.state.TotalRotations.Load(),
		Deletions:        l.state.TotalDeletions.Load(),
		Compressions:     l.state.TotalCompressions.Load(),
		CurrentFileSize:  l.state.CurrentSize.Load(),
		ConsoleFallback:  l.state.ConsoleFallbackHit.Load(),
	}
	if startTime, ok := l.state.LoggerStartTime.Load().(time.Time); ok && !startTime.IsZero() {
		s.Uptime = time.Since(startTime)
	}
	if name, ok := l.state.CurrentFile.Load().(string); ok {
		s.CurrentFile = name
	}
	if e := l.engine.Load(); e != nil {
		s.BufferRollovers = e.rollovers.Load()
		s.SlowAllocations = e.slowAllocs.Load()
	}
	return s
}

// logHeartbeat appends a SKY record with the logger's counters
func (l *Logger) logHeartbeat(e *engine) {
	s := l.Stats()
	sequence := l.state.HeartbeatSequence.Add(1)

	msg := fmt.Sprintf("heartbeat sequence=%d uptime_hours=%.2f records=%d discarded=%d dropped_buffers=%d rotations=%d bytes_written=%d",
		sequence, s.Uptime.Hours(), s.Records, s.DiscardedRecords, s.DroppedBuffers, s.Rotations, s.BytesWritten)

	bb := make([]byte, 0, len(msg)+64)
	bb = appendRecordPrefix(bb, l.clock.Now(), LevelSky)
	bb = append(bb, msg...)
	bb = append(bb, '\n')
	e.append(bb)
}
