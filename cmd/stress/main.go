package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/dblog"
)

var levels = []int64{
	dblog.LevelDebug,
	dblog.LevelInfo,
	dblog.LevelWarning,
	dblog.LevelError,
}

func generateRandomMessage(size int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 "
	var sb strings.Builder
	sb.Grow(size)
	for i := 0; i < size; i++ {
		sb.WriteByte(chars[rand.Intn(len(chars))])
	}
	return sb.String()
}

func main() {
	workers := flag.Int("workers", 64, "concurrent producers")
	perWorker := flag.Int("records", 20000, "records per producer")
	maxMessage := flag.Int("max-message", 2000, "largest message size")
	dir := flag.String("dir", "./stress_logs", "log directory")
	flag.Parse()

	fmt.Println("--- Logger Stress Test ---")
	_ = os.RemoveAll(*dir)

	// Small buffers and a low drop threshold make overload visible
	logger, err := dblog.NewBuilder().
		Directory(*dir).
		Name("stress").
		LevelString("debug").
		BufferSizeKB(64).
		DropThreshold(8).
		MaxSizeMB(4).
		MaxTotalSizeMB(64).
		Compression(dblog.CompressionZstd).
		FlushIntervalMs(50).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start logger: %v\n", err)
		os.Exit(1)
	}

	var sent atomic.Int64
	var wg sync.WaitGroup
	start := time.Now()
	for w := 0; w < *workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < *perWorker; i++ {
				msg := generateRandomMessage(rand.Intn(*maxMessage) + 10)
				logger.Log(levels[rand.Intn(len(levels))], fmt.Sprintf("wkr=%d seq=%d %s", id, i, msg))
				sent.Add(1)
			}
		}(w)
	}
	wg.Wait()
	elapsed := time.Since(start)

	if err := logger.Shutdown(10 * time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "Logger shutdown error: %v\n", err)
	}

	stats := logger.Stats()
	fmt.Printf("Sent %d records in %v (%.0f/s)\n", sent.Load(), elapsed, float64(sent.Load())/elapsed.Seconds())
	fmt.Printf("Accepted: %d, discarded: %d\n", stats.Records, stats.DiscardedRecords)
	fmt.Printf("Dropped buffers: %d in %d events\n", stats.DroppedBuffers, stats.DropEvents)
	fmt.Printf("Rotations: %d, compressions: %d, deletions: %d, bytes written: %d\n", stats.Rotations, stats.Compressions, stats.Deletions, stats.BytesWritten)
}
