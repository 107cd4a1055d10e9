// FILE: override.go
package dblog

import (
	"fmt"
	"strconv"
	"strings"
)

// ApplyConfigString applies string key-value overrides to the logger's current configuration.
// Each override should be in the format "key=value".
// The configuration is cloned before modification to ensure thread safety.
//
// Example:
//
//	logger := dblog.NewLogger()
//	err := logger.ApplyConfigString(
//	    "directory=/var/log/app",
//	    "level=warning",
//	    "max_size_kb=65536",
//	)
func (l *Logger) ApplyConfigString(overrides ...string) error {
	cfg := l.getConfig().Clone()

	var errors []error

	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errors = append(errors, err)
			continue
		}

		if err := applyConfigField(cfg, key, value); err != nil {
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return combineConfigErrors(errors)
	}

	return l.ApplyConfig(cfg)
}

// combineConfigErrors combines multiple configuration errors into a single error.
func combineConfigErrors(errors []error) error {
	if len(errors) == 0 {
		return nil
	}
	if len(errors) == 1 {
		return errors[0]
	}

	var sb strings.Builder
	sb.WriteString("dblog: multiple configuration errors:")
	for i, err := range errors {
		errMsg := strings.TrimPrefix(err.Error(), "dblog: ")
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return fmt.Errorf("%s", sb.String())
}

// applyConfigField applies a single key-value override to a Config.
func applyConfigField(cfg *Config, key, value string) error {
	switch key {
	case "level":
		// Accept both numeric and named values
		if numVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			cfg.Level = numVal
		} else {
			levelVal, err := Level(value)
			if err != nil {
				return fmtErrorf("invalid level value '%s': %w", value, err)
			}
			cfg.Level = levelVal
		}
	case "name":
		cfg.Name = value
	case "directory":
		cfg.Directory = value
	case "stdout_target":
		cfg.StdoutTarget = value
	case "compression":
		cfg.Compression = value

	case "buffer_size_kb":
		return setInt(&cfg.BufferSizeKB, key, value)
	case "max_size_kb":
		return setInt(&cfg.MaxSizeKB, key, value)
	case "max_total_size_mb":
		return setInt(&cfg.MaxTotalSizeMB, key, value)
	case "drop_threshold":
		return setInt(&cfg.DropThreshold, key, value)
	case "flush_interval_ms":
		return setInt(&cfg.FlushIntervalMs, key, value)
	case "heartbeat_interval_s":
		return setInt(&cfg.HeartbeatIntervalS, key, value)

	case "enable_stdout":
		return setBool(&cfg.EnableStdout, key, value)
	case "sync_on_flush":
		return setBool(&cfg.SyncOnFlush, key, value)
	case "internal_errors_to_stderr":
		return setBool(&cfg.InternalErrorsToStderr, key, value)

	default:
		return fmtErrorf("unknown configuration key '%s'", key)
	}

	return nil
}

// setInt parses an integer override into dst
func setInt(dst *int64, key, value string) error {
	intVal, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmtErrorf("invalid integer value for %s '%s': %w", key, value, err)
	}
	*dst = intVal
	return nil
}

// setBool parses a boolean override into dst
func setBool(dst *bool, key, value string) error {
	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return fmtErrorf("invalid boolean value for %s '%s': %w", key, value, err)
	}
	*dst = boolVal
	return nil
}
