// FILE: lixenwraith/dblog/builder.go
package dblog

// Builder provides a fluent API for building logger configurations.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg *Config
	err error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build creates a new Logger instance with the specified configuration.
// The logger is configured but not started.
func (b *Builder) Build() (*Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	logger := NewLogger()

	if err := logger.ApplyConfig(b.cfg); err != nil {
		return nil, err
	}

	return logger, nil
}

// Level sets the log level.
func (b *Builder) Level(level int64) *Builder {
	b.cfg.Level = level
	return b
}

// LevelString sets the log level from a string.
func (b *Builder) LevelString(level string) *Builder {
	if b.err != nil {
		return b
	}
	levelVal, err := Level(level)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg.Level = levelVal
	return b
}

// Name sets the base name of log files.
func (b *Builder) Name(name string) *Builder {
	b.cfg.Name = name
	return b
}

// Directory sets the log directory.
func (b *Builder) Directory(dir string) *Builder {
	b.cfg.Directory = dir
	return b
}

// BufferSizeKB sets the capacity of each write buffer in KB.
func (b *Builder) BufferSizeKB(size int64) *Builder {
	b.cfg.BufferSizeKB = size
	return b
}

// MaxSizeKB sets the roll size of a log file in KB.
func (b *Builder) MaxSizeKB(size int64) *Builder {
	b.cfg.MaxSizeKB = size
	return b
}

// MaxSizeMB sets the roll size of a log file in MB. Convenience.
func (b *Builder) MaxSizeMB(size int64) *Builder {
	b.cfg.MaxSizeKB = size * sizeMultiplier
	return b
}

// MaxTotalSizeMB caps the total size of this logger's files, 0 for unlimited.
func (b *Builder) MaxTotalSizeMB(size int64) *Builder {
	b.cfg.MaxTotalSizeMB = size
	return b
}

// DropThreshold sets the batch size in buffers above which buffers are dropped.
func (b *Builder) DropThreshold(buffers int64) *Builder {
	b.cfg.DropThreshold = buffers
	return b
}

// FlushIntervalMs sets the writer's idle wake interval.
func (b *Builder) FlushIntervalMs(interval int64) *Builder {
	b.cfg.FlushIntervalMs = interval
	return b
}

// EnableStdout enables mirroring records to stdout/stderr.
func (b *Builder) EnableStdout(enable bool) *Builder {
	b.cfg.EnableStdout = enable
	return b
}

// SyncOnFlush makes every write cycle end with an fsync.
func (b *Builder) SyncOnFlush(enable bool) *Builder {
	b.cfg.SyncOnFlush = enable
	return b
}

// Compression sets the algorithm applied to rolled files: none, gzip or zstd.
func (b *Builder) Compression(algorithm string) *Builder {
	b.cfg.Compression = algorithm
	return b
}

// HeartbeatIntervalS sets the heartbeat record interval, 0 disables heartbeats.
func (b *Builder) HeartbeatIntervalS(interval int64) *Builder {
	b.cfg.HeartbeatIntervalS = interval
	return b
}

// Example usage:
// logger, err := dblog.NewBuilder().
//
//	Directory("/var/log/app").
//	Name("app").
//	LevelString("warning").
//	MaxSizeMB(256).
//	Build()
//
// if err == nil && logger.Start() == nil {
//
//	 defer logger.Shutdown()
//	 logger.Warning("Logger initialized successfully")
//
// }
