// FILE: state.go
package dblog

import (
	"io"
	"sync"
	"sync/atomic"
)

// State encapsulates the runtime state of the logger
type State struct {
	IsInitialized   atomic.Bool
	Started         atomic.Bool
	ProcessorExited atomic.Bool // Tracks if the writer goroutine is running or has exited

	flushRequests chan chan struct{} // Channel to request a write cycle
	flushMutex    sync.Mutex         // Protect concurrent Flush calls

	CurrentFile atomic.Value // stores string, path of the open log file ("" for console)
	CurrentSize atomic.Int64 // Bytes written to the current log file

	StdoutWriter atomic.Value // stores *sink (os.Stdout, os.Stderr, or io.Discard)

	// Statistics
	LoggerStartTime    atomic.Value  // stores time.Time for uptime calculation
	HeartbeatSequence  atomic.Uint64 // Counter for heartbeat sequence numbers
	TotalRecords       atomic.Uint64 // Records accepted into a buffer
	DiscardedRecords   atomic.Uint64 // Over-length records rejected by the formatter
	DroppedBuffers     atomic.Uint64 // Buffers discarded by the drop policy
	DropEvents         atomic.Uint64 // Times the drop policy fired
	TotalBytesWritten  atomic.Uint64 // Bytes written across all files
	TotalRotations     atomic.Uint64 // Successful file rolls, including the first
	TotalDeletions     atomic.Uint64 // Rolled files removed by total size cleanup
	TotalCompressions  atomic.Uint64 // Rolled files compressed
	ConsoleFallbackHit atomic.Bool   // Set once file output fell back to stdout
}

// sink is a wrapper around an io.Writer, atomic value type change workaround
type sink struct {
	w io.Writer
}
