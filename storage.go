// FILE: storage.go
package dblog

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// logFile is the handle the roller writes to; *os.File satisfies it
type logFile interface {
	io.Writer
	Sync() error
	Close() error
	Name() string
}

// openLogFile opens path for appending, creating it if needed
func openLogFile(path string) (logFile, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// roller owns the open log file and decides when to roll it
// Only the writer goroutine touches a roller once the logger is started.
type roller struct {
	l *Logger

	dir      string
	name     string
	rollSize int64
	maxTotal int64 // bytes, 0 disables cleanup

	compression string
	compressing sync.WaitGroup

	openFile func(path string) (logFile, error)

	file    logFile
	path    string
	console bool // file is a console stream, rolling is disabled
	written int64
	rollDay int
	index   int
}

// newRoller snapshots the file settings of cfg
func newRoller(l *Logger, cfg *Config) *roller {
	open := l.openFile
	if open == nil {
		open = openLogFile
	}
	return &roller{
		l:        l,
		dir:      cfg.Directory,
		name:     cfg.Name,
		rollSize: cfg.rollSize(),
		maxTotal: cfg.MaxTotalSizeMB * sizeMultiplier * sizeMultiplier,
		openFile: open,

		compression: cfg.Compression,
	}
}

// nextFileName generates <name>_<YYYYMMDD>_<HHMMSS>_<index>.log and advances the index
func (r *roller) nextFileName() string {
	ts := r.l.clock.Now().Local().Format(fileTimeLayout)
	fileName := fmt.Sprintf("%s_%s_%d%s", r.name, ts, r.index, defaultLogFileExt)
	r.index++
	return fileName
}

// roll closes the open file and opens a fresh one
// Returns an error only when the log directory cannot be used; open failures
// fall back to stdout.
func (r *roller) roll() error {
	if r.console {
		return nil
	}

	prev := r.path
	r.closeFile()

	if err := ensureDir(r.dir); err != nil {
		return err
	}

	for attempt := 0; attempt < maxRollAttempts; attempt++ {
		path := filepath.Join(r.dir, r.nextFileName())
		f, err := r.openFile(path)
		if err != nil {
			r.l.internalLog("failed to open log file '%s', writing to stdout: %v\n", path, err)
			r.useConsole()
			return nil
		}

		// Same-second name reuse appends to an older file, skip it if already over the limit
		size := existingSize(f)
		if size > r.rollSize {
			_ = f.Close()
			continue
		}

		r.file = f
		r.path = path
		r.written = size
		r.rollDay = dayKey(r.l.clock.Now())
		r.l.state.CurrentFile.Store(path)
		r.l.state.CurrentSize.Store(size)
		r.l.state.TotalRotations.Add(1)

		if prev != "" && prev != path && r.compression != CompressionNone {
			r.compressAsync(prev)
		}

		if r.maxTotal > 0 {
			if err := r.cleanOldLogs(path); err != nil {
				r.l.internalLog("log cleanup failed: %v\n", err)
			}
		}
		return nil
	}

	r.l.internalLog("no usable log file name after %d attempts in '%s', writing to stdout\n", maxRollAttempts, r.dir)
	r.useConsole()
	return nil
}

// useConsole switches output to stdout for the rest of the logger's life
func (r *roller) useConsole() {
	r.file = os.Stdout
	r.path = ""
	r.console = true
	r.written = 0
	r.rollDay = dayKey(r.l.clock.Now())
	r.l.state.CurrentFile.Store("")
	r.l.state.CurrentSize.Store(0)
	r.l.state.ConsoleFallbackHit.Store(true)
}

// needsDayRoll reports whether the calendar day changed since the last roll
func (r *roller) needsDayRoll() bool {
	return !r.console && dayKey(r.l.clock.Now()) != r.rollDay
}

// needsSizeRoll reports whether the bytes written exceed the roll size
func (r *roller) needsSizeRoll() bool {
	return r.written > r.rollSize
}

// write appends p to the open file, tracking bytes written
func (r *roller) write(p []byte) {
	if r.file == nil || len(p) == 0 {
		return
	}
	n, err := r.file.Write(p)
	r.written += int64(n)
	r.l.state.TotalBytesWritten.Add(uint64(n))
	if err != nil {
		r.l.internalLog("failed to write %d bytes to '%s': %v\n", len(p), r.file.Name(), err)
	}
}

// flush completes a write cycle, syncing to disk when requested
func (r *roller) flush(sync bool) {
	if r.file == nil {
		return
	}
	r.l.state.CurrentSize.Store(r.written)
	if !sync || r.console {
		return
	}
	if err := r.file.Sync(); err != nil {
		r.l.internalLog("failed to sync log file '%s': %v\n", r.file.Name(), err)
	}
}

// closeFile syncs and closes the open file; console streams are left open
func (r *roller) closeFile() error {
	if r.file == nil || r.console {
		return nil
	}
	f := r.file
	r.file = nil
	r.path = ""

	var err error
	if errSync := f.Sync(); errSync != nil {
		err = fmtErrorf("failed to sync log file '%s': %w", f.Name(), errSync)
	}
	if errClose := f.Close(); errClose != nil {
		err = combineErrors(err, fmtErrorf("failed to close log file '%s': %w", f.Name(), errClose))
	}
	if err != nil {
		r.l.internalLog("%v\n", err)
	}
	return err
}

// ensureDir makes sure dir exists, creating it when it does not
func ensureDir(dir string) error {
	info, err := os.Stat(dir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return fmtErrorf("log path '%s' is not a directory", dir)
		}
		return nil
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmtErrorf("failed to create log directory '%s': %w", dir, err)
		}
		return nil
	default:
		return fmtErrorf("failed to access log directory '%s': %w", dir, err)
	}
}

// existingSize returns the size of an opened file, zero if it cannot be determined
func existingSize(f logFile) int64 {
	st, ok := f.(interface{ Stat() (os.FileInfo, error) })
	if !ok {
		return 0
	}
	info, err := st.Stat()
	if err != nil {
		return 0
	}
	return info.Size()
}

// cleanOldLogs removes the oldest rolled files of this logger until the total
// size of its files fits maxTotal. The active file is never removed.
func (r *roller) cleanOldLogs(activePath string) error {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return fmtErrorf("failed to read log directory '%s' for cleanup: %w", r.dir, err)
	}

	type logFileMeta struct {
		name string
		info os.FileInfo
	}
	var logs []logFileMeta
	var total int64
	activeName := filepath.Base(activePath)
	prefix := r.name + "_"
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		fname := entry.Name()
		if !strings.HasPrefix(fname, prefix) || !isLogFileName(fname) {
			continue
		}
		info, errInfo := entry.Info()
		if errInfo != nil {
			continue
		}
		total += info.Size()
		if fname == activeName {
			continue
		}
		logs = append(logs, logFileMeta{name: fname, info: info})
	}

	if total <= r.maxTotal {
		return nil
	}

	sort.Slice(logs, func(i, j int) bool {
		ti, tj := logs[i].info.ModTime(), logs[j].info.ModTime()
		if ti.Equal(tj) {
			return logs[i].name < logs[j].name
		}
		return ti.Before(tj)
	})

	for _, log := range logs {
		if total <= r.maxTotal {
			break
		}
		filePath := filepath.Join(r.dir, log.name)
		if err := os.Remove(filePath); err != nil {
			r.l.internalLog("failed to remove old log file '%s': %v\n", filePath, err)
			continue
		}
		total -= log.info.Size()
		r.l.state.TotalDeletions.Add(1)
	}

	if total > r.maxTotal {
		return fmtErrorf("could not bring '%s' under %d bytes, %d bytes remain", r.dir, r.maxTotal, total)
	}
	return nil
}

// isLogFileName reports whether fname is a log file, compressed or not
func isLogFileName(fname string) bool {
	for _, ext := range []string{"", compressedExt(CompressionGzip), compressedExt(CompressionZstd)} {
		if strings.HasSuffix(fname, defaultLogFileExt+ext) {
			return true
		}
	}
	return false
}
