// FILE: lixenwraith/dblog/constant.go
package dblog

import (
	"time"
)

// Log level constants, numbered as exposed to embedding bindings
const (
	LevelDebug   int64 = 0
	LevelInfo    int64 = 1
	LevelWarning int64 = 2
	LevelError   int64 = 3
	LevelFatal   int64 = 4
	LevelSky     int64 = 5 // Framework/host messages, never gated
)

// Sizes
const (
	// Size multiplier for KB, MB
	sizeMultiplier int64 = 1024
	// Messages of this length or longer are discarded
	maxMessageSize = 4 * 1024
	// Smallest accepted buffer, must hold the longest formatted record
	minBufferSizeKB int64 = 8
	// Batch buffers kept when the drop policy fires
	dropKeepBuffers = 2
	// Candidate names tried by a single roll before falling back to stdout
	maxRollAttempts = 64
)

// Timers
const (
	// Minimum wait time used throughout the package
	minWaitTime = 10 * time.Millisecond
	// Extra grace added to the default shutdown timeout
	shutdownGrace = time.Second
)

// Layouts
const (
	recordTimeLayout  = "2006-01-02 15:04:05.000"
	fileTimeLayout    = "20060102_150405"
	dropNoticeLayout  = "20060102-150405"
	defaultLogFileExt = ".log"
)
