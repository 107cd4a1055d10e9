package compat

import (
	"bufio"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lixenwraith/dblog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestCompatBuilder creates a standard setup for compatibility adapter tests
func createTestCompatBuilder(t *testing.T) (*Builder, *dblog.Logger, string) {
	t.Helper()
	tmpDir := t.TempDir()
	appLogger, err := dblog.NewBuilder().
		Directory(tmpDir).
		Name("compat").
		LevelString("debug").
		BufferSizeKB(8).
		FlushIntervalMs(10).
		Build()
	require.NoError(t, err)

	err = appLogger.Start()
	require.NoError(t, err)

	builder := NewBuilder().WithLogger(appLogger)
	return builder, appLogger, tmpDir
}

// readLogFile reads the single log file in dir, retrying briefly to await async writes
func readLogFile(t *testing.T, dir string, expectedLines int) []string {
	t.Helper()
	var err error

	for i := 0; i < 50; i++ {
		var files []string
		files, err = filepath.Glob(filepath.Join(dir, "compat_*.log"))
		if err == nil && len(files) > 0 {
			var logFile *os.File
			logFile, err = os.Open(files[0])
			if err == nil {
				scanner := bufio.NewScanner(logFile)
				var readLines []string
				for scanner.Scan() {
					readLines = append(readLines, scanner.Text())
				}
				logFile.Close()
				if len(readLines) >= expectedLines {
					return readLines
				}
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("Failed to read %d log lines from directory %s. Last error: %v", expectedLines, dir, err)
	return nil
}

// TestCompatBuilder verifies the compatibility builder can be initialized correctly
func TestCompatBuilder(t *testing.T) {
	t.Run("with existing logger", func(t *testing.T) {
		builder, logger, _ := createTestCompatBuilder(t)
		defer logger.Shutdown()

		gnetAdapter, err := builder.BuildGnet()
		require.NoError(t, err)
		assert.NotNil(t, gnetAdapter)
		assert.Equal(t, logger, gnetAdapter.logger)

		fasthttpAdapter, err := builder.BuildFastHTTP()
		require.NoError(t, err)
		assert.Equal(t, logger, fasthttpAdapter.logger)
	})

	t.Run("with config", func(t *testing.T) {
		logCfg := dblog.DefaultConfig()
		logCfg.Directory = t.TempDir()
		logCfg.BufferSizeKB = 8

		builder := NewBuilder().WithConfig(logCfg)
		fasthttpAdapter, err := builder.BuildFastHTTP()
		require.NoError(t, err)
		assert.NotNil(t, fasthttpAdapter)

		logger, err := builder.GetLogger()
		require.NoError(t, err)
		assert.Equal(t, logger, fasthttpAdapter.logger)
		assert.NoError(t, logger.Shutdown())
	})

	t.Run("nil logger", func(t *testing.T) {
		_, err := NewBuilder().WithLogger(nil).BuildGnet()
		assert.Error(t, err)
	})
}

// TestGnetAdapter tests the gnet adapter's logging output and fatal handling
func TestGnetAdapter(t *testing.T) {
	builder, logger, tmpDir := createTestCompatBuilder(t)
	defer logger.Shutdown()

	var fatalCalled bool
	var fatalMsg string
	adapter, err := builder.BuildGnet(WithFatalHandler(func(msg string) {
		fatalCalled = true
		fatalMsg = msg
	}))
	require.NoError(t, err)

	adapter.Debugf("gnet debug id=%d", 1)
	adapter.Infof("gnet info id=%d", 2)
	adapter.Warnf("gnet warn id=%d", 3)
	adapter.Errorf("gnet error id=%d", 4)
	adapter.Fatalf("gnet fatal id=%d", 5)

	require.NoError(t, logger.Flush(time.Second))
	lines := readLogFile(t, tmpDir, 5)

	expected := []struct{ level, msg string }{
		{"[DEBUG]", "gnet: gnet debug id=1"},
		{"[INFO]", "gnet: gnet info id=2"},
		{"[WARNING]", "gnet: gnet warn id=3"},
		{"[ERROR]", "gnet: gnet error id=4"},
		{"[ERROR]", "gnet: gnet fatal id=5 (fatal)"},
	}
	require.Len(t, lines, 5)
	for i, line := range lines {
		assert.Contains(t, line, expected[i].level)
		assert.Contains(t, line, expected[i].msg)
	}

	assert.True(t, fatalCalled)
	assert.Equal(t, "gnet fatal id=5", fatalMsg)
}

// TestFastHTTPAdapter tests the fasthttp adapter's level detection
func TestFastHTTPAdapter(t *testing.T) {
	builder, logger, tmpDir := createTestCompatBuilder(t)
	defer logger.Shutdown()

	adapter, err := builder.BuildFastHTTP()
	require.NoError(t, err)

	testMessages := []string{
		"this is some informational message",
		"a debug message for the developers",
		"warning: something might be wrong",
		"an error occurred while processing",
	}
	for _, msg := range testMessages {
		adapter.Printf("%s", msg)
	}

	require.NoError(t, logger.Flush(time.Second))
	lines := readLogFile(t, tmpDir, len(testMessages))
	require.Len(t, lines, len(testMessages))

	expectedLevels := []string{"[INFO]", "[DEBUG]", "[WARNING]", "[ERROR]"}
	for i, line := range lines {
		assert.Contains(t, line, expectedLevels[i])
		assert.Contains(t, line, "fasthttp: "+testMessages[i])
	}
}

func TestDetectLogLevel(t *testing.T) {
	assert.Equal(t, dblog.LevelError, DetectLogLevel("connection FAILED"))
	assert.Equal(t, dblog.LevelWarning, DetectLogLevel("deprecated option"))
	assert.Equal(t, dblog.LevelDebug, DetectLogLevel("trace enabled"))
	assert.Equal(t, dblog.LevelInfo, DetectLogLevel("served 200"))
}
