// FILE: lixenwraith/dblog/logger.go
package dblog

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/valyala/bytebufferpool"
)

// Logger is an asynchronous, double-buffered, rolling file logger
// Producers append formatted records to an in-memory buffer; a single writer
// goroutine drains full buffers to disk.
type Logger struct {
	currentConfig atomic.Value // stores *Config
	state         State
	initMu        sync.Mutex

	engine atomic.Pointer[engine]
	roller *roller        // guarded by initMu, owned by the writer while started
	writer writerSettings // guarded by initMu, snapshot taken by Start
	quit   chan struct{}  // closed to stop the writer
	done   chan struct{}  // closed by the writer on exit

	clock        Clock
	openFile     func(path string) (logFile, error) // nil selects openLogFile
	fatalHandler atomic.Value                       // stores func(msg string)
}

// NewLogger creates a new Logger instance with default settings
func NewLogger() *Logger {
	l := &Logger{clock: systemClock{}}

	l.currentConfig.Store(DefaultConfig())
	l.fatalHandler.Store(func(msg string) {
		os.Exit(1)
	})

	l.state.IsInitialized.Store(false)
	l.state.Started.Store(false)
	l.state.ProcessorExited.Store(true)
	l.state.CurrentFile.Store("")
	l.state.LoggerStartTime.Store(time.Now())
	l.state.StdoutWriter.Store(&sink{w: io.Discard})

	l.state.flushRequests = make(chan chan struct{}, 1)

	return l
}

// SetFatalHandler replaces the action taken after a fatal record or a fatal
// internal error. The default exits the process with status 1.
func (l *Logger) SetFatalHandler(handler func(msg string)) {
	if handler == nil {
		return
	}
	l.fatalHandler.Store(handler)
}

// ApplyConfig validates and stores a configuration
// Level and console settings take effect immediately. File, buffer, drop,
// sync and timer settings are read by the next Start.
func (l *Logger) ApplyConfig(cfg *Config) error {
	if cfg == nil {
		return fmtErrorf("configuration cannot be nil")
	}

	cfg = cfg.Clone()
	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return fmtErrorf("invalid configuration: %w", err)
	}

	l.initMu.Lock()
	defer l.initMu.Unlock()

	l.currentConfig.Store(cfg)

	var writer io.Writer = io.Discard
	if cfg.EnableStdout {
		if cfg.StdoutTarget == "stderr" {
			writer = os.Stderr
		} else {
			writer = os.Stdout
		}
	}
	l.state.StdoutWriter.Store(&sink{w: writer})

	l.state.IsInitialized.Store(true)
	return nil
}

// GetConfig returns a copy of current configuration
func (l *Logger) GetConfig() *Config {
	return l.getConfig().Clone()
}

// Start opens the first log file and launches the writer goroutine
// Safe to call multiple times. A log directory that cannot be created is
// returned as an error.
func (l *Logger) Start() error {
	if !l.state.IsInitialized.Load() {
		return fmtErrorf("logger not initialized, call ApplyConfig first")
	}

	l.initMu.Lock()
	defer l.initMu.Unlock()

	if l.state.Started.Load() {
		return nil
	}

	cfg := l.getConfig()

	r := newRoller(l, cfg)
	if err := r.roll(); err != nil {
		return fmtErrorf("failed to open initial log file: %w", err)
	}

	e := newEngine(cfg.bufferCapacity())
	l.roller = r
	l.writer = newWriterSettings(cfg)
	l.quit = make(chan struct{})
	l.done = make(chan struct{})
	l.engine.Store(e)
	l.state.LoggerStartTime.Store(time.Now())

	l.state.ProcessorExited.Store(false)
	l.state.Started.Store(true)
	go l.processBuffers(e, r, l.writer, l.quit, l.done)

	return nil
}

// Shutdown stops the writer after a final write cycle and closes the log file
// If no timeout is provided, uses 2x flush interval plus a second of grace.
// Returns nil if the logger is not running.
func (l *Logger) Shutdown(timeout ...time.Duration) error {
	l.initMu.Lock()
	defer l.initMu.Unlock()

	if !l.state.Started.CompareAndSwap(true, false) {
		return nil
	}

	effectiveTimeout := 2*l.writer.flushInterval + shutdownGrace
	if len(timeout) > 0 && timeout[0] > 0 {
		effectiveTimeout = timeout[0]
	}

	close(l.quit)

	select {
	case <-l.done:
	case <-time.After(effectiveTimeout):
		// Writer still owns the file, leave it open
		return fmtErrorf("writer did not exit within timeout (%v)", effectiveTimeout)
	}

	l.engine.Store(nil)
	err := l.roller.closeFile()
	l.roller.compressing.Wait()
	l.state.CurrentFile.Store("")
	l.roller = nil

	return err
}

// Flush requests an immediate write cycle and waits for it to complete
func (l *Logger) Flush(timeout time.Duration) error {
	l.state.flushMutex.Lock()
	defer l.state.flushMutex.Unlock()

	if !l.state.Started.Load() {
		return fmtErrorf("logger not started")
	}

	confirmChan := make(chan struct{})

	select {
	case l.state.flushRequests <- confirmChan:
		// Request sent
	case <-time.After(minWaitTime): // Short timeout to prevent blocking if writer is stuck
		return fmtErrorf("failed to send flush request to writer (possible deadlock or high load)")
	}

	select {
	case <-confirmChan:
		return nil
	case <-time.After(timeout):
		return fmtErrorf("timeout waiting for flush confirmation (%v)", timeout)
	}
}

// Log writes message at level
// Messages of 4096 bytes or more are discarded. DEBUG through ERROR are subject
// to the configured level; FATAL and SKY are always written. Log never terminates
// the process, use Fatal for that.
func (l *Logger) Log(level int64, message string) {
	if !l.enabled(level) {
		return
	}

	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)

	if !formatRecord(bb, l.clock.Now(), level, message) {
		l.state.DiscardedRecords.Add(1)
		return
	}
	l.commit(bb.B)
}

// Debug logs a message at debug level
func (l *Logger) Debug(args ...any) {
	l.log(LevelDebug, args)
}

// Info logs a message at info level
func (l *Logger) Info(args ...any) {
	l.log(LevelInfo, args)
}

// Warning logs a message at warning level
func (l *Logger) Warning(args ...any) {
	l.log(LevelWarning, args)
}

// Error logs a message at error level
func (l *Logger) Error(args ...any) {
	l.log(LevelError, args)
}

// Sky logs a message from the hosting framework, regardless of level
func (l *Logger) Sky(args ...any) {
	l.log(LevelSky, args)
}

// Fatal logs a message regardless of level, shuts the logger down so the
// record reaches the file, then runs the fatal handler
func (l *Logger) Fatal(args ...any) {
	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)

	var msg string
	if formatArgs(bb, l.clock.Now(), LevelFatal, args) {
		if l.state.Started.Load() {
			l.commit(bb.B)
		}
		msg = strings.TrimSuffix(string(bb.B), "\n")
	} else {
		l.state.DiscardedRecords.Add(1)
		msg = fmt.Sprintf("fatal record discarded: message of %d bytes or more", maxMessageSize)
		l.internalLog("%s\n", msg)
	}

	if err := l.Shutdown(); err != nil {
		l.internalLog("shutdown after fatal record failed: %v\n", err)
	}
	l.runFatalHandler(msg)
}

// getConfig returns the current configuration (thread-safe)
func (l *Logger) getConfig() *Config {
	return l.currentConfig.Load().(*Config)
}

// enabled reports whether a record at level would be accepted
func (l *Logger) enabled(level int64) bool {
	if !l.state.Started.Load() {
		return false
	}
	if level == LevelFatal || level == LevelSky {
		return true
	}
	return level >= l.getConfig().Level
}

// log formats args as one record and appends it
func (l *Logger) log(level int64, args []any) {
	if !l.enabled(level) {
		return
	}

	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)

	if !formatArgs(bb, l.clock.Now(), level, args) {
		l.state.DiscardedRecords.Add(1)
		return
	}
	l.commit(bb.B)
}

// commit copies a formatted line into the active buffer and mirrors it to the console
func (l *Logger) commit(line []byte) {
	e := l.engine.Load()
	if e == nil {
		return
	}
	if !e.append(line) {
		l.state.DiscardedRecords.Add(1)
		return
	}
	l.state.TotalRecords.Add(1)

	if s, ok := l.state.StdoutWriter.Load().(*sink); ok {
		_, _ = s.w.Write(line)
	}
}

// fatal reports an unrecoverable internal error and runs the fatal handler
func (l *Logger) fatal(msg string) {
	fmt.Fprintf(os.Stderr, "dblog: fatal: %s\n", strings.TrimPrefix(msg, "dblog: "))
	l.runFatalHandler(msg)
}

// runFatalHandler calls the installed fatal handler
func (l *Logger) runFatalHandler(msg string) {
	handler := l.fatalHandler.Load().(func(msg string))
	handler(msg)
}
