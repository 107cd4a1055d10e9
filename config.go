// FILE: config.go
package dblog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/lixenwraith/config"
)

// Config holds all logger configuration values
type Config struct {
	// Basic settings
	Level     int64  `toml:"level"`
	Name      string `toml:"name"` // Base name for log files
	Directory string `toml:"directory"`

	// Buffer and size limits
	BufferSizeKB   int64 `toml:"buffer_size_kb"`    // Capacity of each write buffer
	MaxSizeKB      int64 `toml:"max_size_kb"`       // Roll the file once this much was written
	MaxTotalSizeMB int64 `toml:"max_total_size_mb"` // Max total size of rolled files (0=unlimited)
	DropThreshold  int64 `toml:"drop_threshold"`    // Batch size in buffers that triggers dropping

	// Timers
	FlushIntervalMs    int64 `toml:"flush_interval_ms"`    // Writer wake interval when idle
	HeartbeatIntervalS int64 `toml:"heartbeat_interval_s"` // Heartbeat record interval (0=disabled)

	// Stdout/console output settings
	EnableStdout bool   `toml:"enable_stdout"` // Mirror records to stdout/stderr
	StdoutTarget string `toml:"stdout_target"` // "stdout" or "stderr"

	// File settings
	SyncOnFlush bool   `toml:"sync_on_flush"` // fsync after every write cycle
	Compression string `toml:"compression"`   // Rolled file compression: "none", "gzip", "zstd"

	// Internal error handling
	InternalErrorsToStderr bool `toml:"internal_errors_to_stderr"` // Write internal errors to stderr
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	// Basic settings
	Level:     LevelInfo,
	Name:      "default",
	Directory: ".",

	// Buffer and size limits
	BufferSizeKB:   4 * 1024,    // 4 MiB
	MaxSizeKB:      1024 * 1024, // 1 GiB
	MaxTotalSizeMB: 0,
	DropThreshold:  25,

	// Timers
	FlushIntervalMs:    5000,
	HeartbeatIntervalS: 0,

	// Stdout settings
	EnableStdout: false,
	StdoutTarget: "stdout",

	// File settings
	SyncOnFlush: false,
	Compression: CompressionNone,

	// Internal error handling
	InternalErrorsToStderr: true,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	// Create a copy to prevent modifications to the original
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads configuration from a TOML file and returns a validated Config
// Keys are read from the [dblog] table.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	// Use lixenwraith/config as a loader
	loader := config.New()

	// Register the struct to enable proper unmarshaling
	if err := loader.RegisterStruct("dblog.", *cfg); err != nil {
		return nil, fmtErrorf("failed to register config struct: %w", err)
	}

	// Load from file (handles file not found gracefully)
	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmtErrorf("failed to load config from %s: %w", path, err)
	}

	if err := extractConfig(loader, "dblog.", cfg); err != nil {
		return nil, fmtErrorf("failed to extract config values: %w", err)
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewConfigFromDefaults creates a Config with default values and applies overrides
func NewConfigFromDefaults(overrides map[string]any) (*Config, error) {
	cfg := DefaultConfig()

	if err := applyOverrides(cfg, overrides); err != nil {
		return nil, fmtErrorf("failed to apply overrides: %w", err)
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// extractConfig copies values found by the loader into cfg, keyed by toml tag
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		val, found := loader.Get(prefix + tomlTag)
		if !found {
			continue // Use default value
		}

		if err := setFieldValue(v.Field(i), val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

// applyOverrides applies a map of overrides to the Config struct
func applyOverrides(cfg *Config, overrides map[string]any) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	fieldMap := make(map[string]reflect.Value)
	for i := 0; i < t.NumField(); i++ {
		if tomlTag := t.Field(i).Tag.Get("toml"); tomlTag != "" {
			fieldMap[tomlTag] = v.Field(i)
		}
	}

	for key, value := range overrides {
		fieldValue, exists := fieldMap[key]
		if !exists {
			return fmt.Errorf("unknown config key: %s", key)
		}

		if err := setFieldValue(fieldValue, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	return nil
}

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

// normalize replaces missing or non-positive values that have a documented default
func (c *Config) normalize() {
	if c.MaxSizeKB <= 0 {
		c.MaxSizeKB = defaultConfig.MaxSizeKB
	}
	if c.FlushIntervalMs <= 0 {
		c.FlushIntervalMs = defaultConfig.FlushIntervalMs
	}
	if strings.TrimSpace(c.Directory) == "" {
		c.Directory = defaultConfig.Directory
	}
	if strings.TrimSpace(c.Name) == "" {
		c.Name = defaultConfig.Name
	}
	if c.BufferSizeKB <= 0 {
		c.BufferSizeKB = defaultConfig.BufferSizeKB
	}
	if c.DropThreshold <= 0 {
		c.DropThreshold = defaultConfig.DropThreshold
	}
	if c.StdoutTarget == "" {
		c.StdoutTarget = defaultConfig.StdoutTarget
	}
	if c.Compression == "" {
		c.Compression = defaultConfig.Compression
	}
}

// validate performs validation on a normalized configuration
func (c *Config) validate() error {
	if c.Level < LevelDebug || c.Level > LevelSky {
		return fmtErrorf("level must be between %d and %d: %d", LevelDebug, LevelSky, c.Level)
	}

	if strings.ContainsAny(c.Name, `/\`) {
		return fmtErrorf("log name cannot contain path separators: %s", c.Name)
	}

	if c.StdoutTarget != "stdout" && c.StdoutTarget != "stderr" {
		return fmtErrorf("invalid stdout_target: '%s' (use stdout or stderr)", c.StdoutTarget)
	}

	switch c.Compression {
	case CompressionNone, CompressionGzip, CompressionZstd:
	default:
		return fmtErrorf("invalid compression: '%s' (use none, gzip or zstd)", c.Compression)
	}

	if c.BufferSizeKB < minBufferSizeKB {
		return fmtErrorf("buffer_size_kb must be at least %d: %d", minBufferSizeKB, c.BufferSizeKB)
	}

	if c.DropThreshold < dropKeepBuffers {
		return fmtErrorf("drop_threshold must be at least %d: %d", dropKeepBuffers, c.DropThreshold)
	}

	if c.MaxTotalSizeMB < 0 {
		return fmtErrorf("max_total_size_mb cannot be negative: %d", c.MaxTotalSizeMB)
	}

	if c.HeartbeatIntervalS < 0 {
		return fmtErrorf("heartbeat_interval_s cannot be negative: %d", c.HeartbeatIntervalS)
	}

	return nil
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}

// rollSize returns the roll threshold in bytes
func (c *Config) rollSize() int64 {
	return c.MaxSizeKB * sizeMultiplier
}

// bufferCapacity returns the capacity of one write buffer in bytes
func (c *Config) bufferCapacity() int {
	return int(c.BufferSizeKB * sizeMultiplier)
}
