// FILE: lixenwraith/dblog/storage_test.go
package dblog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextFileName(t *testing.T) {
	logger := NewLogger()
	logger.clock = newFakeClock(time.Date(2024, 5, 14, 7, 8, 9, 0, time.Local))
	cfg := DefaultConfig()
	cfg.Name = "app"

	r := newRoller(logger, cfg)
	assert.Equal(t, "app_20240514_070809_0.log", r.nextFileName())
	assert.Equal(t, "app_20240514_070809_1.log", r.nextFileName())
}

func TestEnsureDir(t *testing.T) {
	tmpDir := t.TempDir()

	nested := filepath.Join(tmpDir, "a", "b")
	require.NoError(t, ensureDir(nested))
	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Existing directory is accepted as is
	assert.NoError(t, ensureDir(nested))

	file := filepath.Join(tmpDir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	err = ensureDir(file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestStartCreatesDirectory(t *testing.T) {
	var dir string
	logger, _ := newTestLogger(t, func(l *Logger, cfg *Config) {
		dir = filepath.Join(cfg.Directory, "nested", "logs")
		cfg.Directory = dir
	})

	logger.Info("created")
	require.NoError(t, logger.Shutdown())

	lines := readLogLines(t, dir, "test")
	require.Len(t, lines, 1)
}

func TestStartFailsOnFileAsDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	logger := NewLogger()
	cfg := DefaultConfig()
	cfg.Directory = path
	require.NoError(t, logger.ApplyConfig(cfg))

	err := logger.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
	assert.False(t, logger.state.Started.Load())
}

func TestSizeRollover(t *testing.T) {
	logger, tmpDir := newTestLogger(t, func(l *Logger, cfg *Config) {
		cfg.MaxSizeKB = 1
	})

	// Each round is written by one cycle, so a file overshoots by at most one round
	prefixLen := len(appendRecordPrefix(nil, time.Now(), LevelInfo))
	payload := strings.Repeat("p", 100)
	var maxRound int64
	for round := 0; round < 4; round++ {
		var roundBytes int64
		for i := 0; i < 12; i++ {
			msg := fmt.Sprintf("round=%d i=%d %s", round, i, payload)
			roundBytes += int64(prefixLen + len(msg) + 1)
			logger.Info(msg)
		}
		maxRound = max(maxRound, roundBytes)
		require.NoError(t, logger.Flush(time.Second))
	}
	require.NoError(t, logger.Shutdown())

	files := logFiles(t, tmpDir, "test")
	assert.GreaterOrEqual(t, len(files), 3)
	assert.Equal(t, uint64(len(files)), logger.Stats().Rotations)

	// A file is only rolled after exceeding the roll size
	for _, path := range files[:len(files)-1] {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(1024), "%s rolled early", filepath.Base(path))
		assert.LessOrEqual(t, info.Size(), int64(1024)+maxRound, "%s rolled late", filepath.Base(path))
	}

	lines := readLogLines(t, tmpDir, "test")
	require.Len(t, lines, 48)
	assert.Contains(t, lines[0], "round=0 i=0 ")
	assert.Contains(t, lines[47], "round=3 i=11 ")
}

func TestDayRollover(t *testing.T) {
	clk := newFakeClock(time.Date(2024, 5, 14, 23, 59, 59, 0, time.Local))
	logger, tmpDir := newTestLogger(t, func(l *Logger, cfg *Config) {
		l.clock = clk
	})

	logger.Info("before midnight")
	require.NoError(t, logger.Flush(time.Second))

	clk.Advance(2 * time.Second)
	logger.Info("after midnight")
	require.NoError(t, logger.Flush(time.Second))
	require.NoError(t, logger.Shutdown())

	files := logFiles(t, tmpDir, "test")
	require.Len(t, files, 2)
	assert.Equal(t, "test_20240514_235959_0.log", filepath.Base(files[0]))
	assert.Equal(t, "test_20240515_000001_1.log", filepath.Base(files[1]))

	first, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(first), "before midnight")
	assert.NotContains(t, string(first), "after midnight")

	second, err := os.ReadFile(files[1])
	require.NoError(t, err)
	assert.Contains(t, string(second), "[2024-05-15 00:00:01.000] [INFO] after midnight")
}

func TestDirectoryLostIsFatal(t *testing.T) {
	var fatals fatalRecorder
	var dir string
	clk := newFakeClock(time.Date(2024, 5, 14, 12, 0, 0, 0, time.Local))
	logger, _ := newTestLogger(t, func(l *Logger, cfg *Config) {
		dir = filepath.Join(cfg.Directory, "logs")
		cfg.Directory = dir
		l.clock = clk
		l.SetFatalHandler(fatals.handle)
	})

	require.NoError(t, os.RemoveAll(dir))
	require.NoError(t, os.WriteFile(dir, []byte("not a directory"), 0644))

	clk.Advance(24 * time.Hour)
	logger.Info("nowhere to go")
	require.NoError(t, logger.Flush(time.Second))

	msgs := fatals.messages()
	require.NotEmpty(t, msgs)
	assert.Contains(t, msgs[0], "not a directory")
}

func TestStdoutFallback(t *testing.T) {
	var attempts int
	logger, tmpDir := newTestLogger(t, func(l *Logger, cfg *Config) {
		cfg.MaxSizeKB = 1
		l.openFile = func(path string) (logFile, error) {
			attempts++
			return nil, errors.New("permission denied")
		}
	})

	stats := logger.Stats()
	assert.True(t, stats.ConsoleFallback)
	assert.Empty(t, stats.CurrentFile)

	// Rolling stays disabled once on stdout
	logger.Info(strings.Repeat("s", 2000))
	require.NoError(t, logger.Flush(time.Second))
	require.NoError(t, logger.Shutdown())

	assert.Equal(t, 1, attempts)
	assert.Empty(t, logFiles(t, tmpDir, "test"))
	assert.Zero(t, logger.Stats().Rotations)
}

func TestReopenedFileOverLimitIsSkipped(t *testing.T) {
	clk := newFakeClock(time.Date(2024, 5, 14, 12, 0, 0, 0, time.Local))
	var dir string
	logger, _ := newTestLogger(t, func(l *Logger, cfg *Config) {
		dir = cfg.Directory
		cfg.MaxSizeKB = 1
		l.clock = clk

		// Left over by an earlier instance within the same second
		stale := filepath.Join(dir, "test_20240514_120000_0.log")
		require.NoError(t, os.WriteFile(stale, []byte(strings.Repeat("o", 2048)), 0644))
	})

	assert.Equal(t, filepath.Join(dir, "test_20240514_120000_1.log"), logger.Stats().CurrentFile)
	assert.Zero(t, logger.Stats().CurrentFileSize)
}

func TestReopenedFileUnderLimitIsReused(t *testing.T) {
	clk := newFakeClock(time.Date(2024, 5, 14, 12, 0, 0, 0, time.Local))
	var dir string
	logger, _ := newTestLogger(t, func(l *Logger, cfg *Config) {
		dir = cfg.Directory
		cfg.MaxSizeKB = 1
		l.clock = clk

		existing := filepath.Join(dir, "test_20240514_120000_0.log")
		require.NoError(t, os.WriteFile(existing, []byte("earlier\n"), 0644))
	})

	path := filepath.Join(dir, "test_20240514_120000_0.log")
	assert.Equal(t, path, logger.Stats().CurrentFile)
	assert.Equal(t, int64(8), logger.Stats().CurrentFileSize)

	logger.Info("appended")
	require.NoError(t, logger.Shutdown())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "earlier\n"))
	assert.Contains(t, string(content), "appended")
}

func TestCleanOldLogs(t *testing.T) {
	var dir string
	logger, _ := newTestLogger(t, func(l *Logger, cfg *Config) {
		dir = cfg.Directory
		cfg.MaxTotalSizeMB = 1

		chunk := make([]byte, 600*1024)
		base := time.Now().Add(-time.Hour)
		for i := 0; i < 3; i++ {
			path := filepath.Join(dir, fmt.Sprintf("test_20200101_00000%d_0.log", i))
			require.NoError(t, os.WriteFile(path, chunk, 0644))
			mt := base.Add(time.Duration(i) * time.Minute)
			require.NoError(t, os.Chtimes(path, mt, mt))
		}
		// Files of other loggers are never touched
		require.NoError(t, os.WriteFile(filepath.Join(dir, "other_20200101_000000_0.log"), chunk, 0644))
	})

	assert.Equal(t, uint64(2), logger.Stats().Deletions)

	_, err := os.Stat(filepath.Join(dir, "test_20200101_000000_0.log"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "test_20200101_000001_0.log"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "test_20200101_000002_0.log"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "other_20200101_000000_0.log"))
	assert.NoError(t, err)
	_, err = os.Stat(logger.Stats().CurrentFile)
	assert.NoError(t, err)
}

func TestSyncOnFlush(t *testing.T) {
	file := newMemFile("mem.log")
	logger, _ := newTestLogger(t, func(l *Logger, cfg *Config) {
		cfg.SyncOnFlush = true
		l.openFile = func(path string) (logFile, error) {
			return file, nil
		}
	})

	logger.Info("durable")
	require.NoError(t, logger.Flush(time.Second))
	assert.GreaterOrEqual(t, file.syncCount(), 1)

	require.NoError(t, logger.Shutdown())
	assert.Contains(t, file.String(), "[INFO] durable")
	assert.True(t, file.closed)
}
