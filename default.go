// --- File: default.go ---
package dblog

import (
	"sync"
)

// Global instance for the package-level entry points used by embedding bindings
var (
	defaultLogger = NewLogger()
	defaultInitMu sync.Mutex // Serializes Init calls
)

// Default returns the process-wide logger for injection into components
func Default() *Logger {
	return defaultLogger
}

// Init configures and starts the process-wide logger
// Non-positive rollSizeMB and flushIntervalS select the defaults (1 GiB, 5 s);
// empty dirname and basename select "." and "default". Failure to start is fatal.
// A second Init shuts the running instance down first.
func Init(level int64, rollSizeMB int64, flushIntervalS int64, printToConsole bool, dirname, basename string) {
	defaultInitMu.Lock()
	defer defaultInitMu.Unlock()

	if err := defaultLogger.Shutdown(); err != nil {
		defaultLogger.internalLog("shutdown of previous instance failed: %v\n", err)
	}

	cfg := DefaultConfig()
	cfg.Level = min(max(level, LevelDebug), LevelSky)
	cfg.MaxSizeKB = rollSizeMB * sizeMultiplier
	cfg.FlushIntervalMs = flushIntervalS * 1000
	cfg.EnableStdout = printToConsole
	cfg.Directory = dirname
	cfg.Name = basename

	if err := defaultLogger.ApplyConfig(cfg); err != nil {
		defaultLogger.fatal(err.Error())
		return
	}
	if err := defaultLogger.Start(); err != nil {
		defaultLogger.fatal(err.Error())
	}
}

// Exit stops the process-wide logger, writing everything logged so far
func Exit() {
	if err := Default().Shutdown(); err != nil {
		Default().internalLog("shutdown failed: %v\n", err)
	}
}

// Debug logs message at debug level
func Debug(message string) {
	Default().Log(LevelDebug, message)
}

// Info logs message at info level
func Info(message string) {
	Default().Log(LevelInfo, message)
}

// Warning logs message at warning level
func Warning(message string) {
	Default().Log(LevelWarning, message)
}

// Error logs message at error level
func Error(message string) {
	Default().Log(LevelError, message)
}

// Sky logs a message from the hosting framework, regardless of level
func Sky(message string) {
	Default().Log(LevelSky, message)
}

// Fatal logs message, stops the logger and terminates the process
func Fatal(message string) {
	Default().Fatal(message)
}
