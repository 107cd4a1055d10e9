package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lixenwraith/dblog"
)

func main() {
	logger := dblog.NewLogger()

	err := logger.ApplyConfigString(
		"directory=./logs",
		"name=heartbeat",
		"level=debug",
		"flush_interval_ms=500",
		"heartbeat_interval_s=1",
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to configure logger: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start logger: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Logging for 5 seconds with a heartbeat every second...")
	deadline := time.Now().Add(5 * time.Second)
	for i := 0; time.Now().Before(deadline); i++ {
		logger.Info("tick", i)
		time.Sleep(100 * time.Millisecond)
	}

	stats := logger.Stats()
	if err := logger.Shutdown(); err != nil {
		fmt.Fprintf(os.Stderr, "Logger shutdown error: %v\n", err)
	}

	fmt.Printf("Records: %d, bytes written: %d, file: %s\n", stats.Records, stats.BytesWritten, stats.CurrentFile)
}
