package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/lixenwraith/dblog"
)

const configFile = "simple_config.toml"

// Example TOML content
var tomlContent = `
# Example simple_config.toml
[dblog]
  level = 0 # Debug
  name = "simple"
  directory = "./simple_logs"
  buffer_size_kb = 64
  max_size_kb = 1024
  flush_interval_ms = 200
  enable_stdout = true
`

func main() {
	fmt.Println("--- Simple Logger Example ---")

	err := os.WriteFile(configFile, []byte(tomlContent), 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write dummy config: %v\n", err)
	} else {
		fmt.Printf("Created dummy config file: %s\n", configFile)
	}

	// Missing file falls back to defaults
	cfg, err := dblog.NewConfigFromFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := dblog.NewLogger()
	if err := logger.ApplyConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to configure logger: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start logger: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Logger started.")

	logger.Debug("This is a debug message.", "user_id", 123)
	logger.Info("Application starting...")
	logger.Warning("Potential issue detected.", "threshold", 0.95)
	logger.Error("An error occurred!", "code", 500)
	logger.Sky("service bootstrap finished")

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger.Info("Goroutine started", "id", id)
			time.Sleep(time.Duration(50+id*50) * time.Millisecond)
			logger.Info("Goroutine finished", "id", id)
		}(i)
	}
	wg.Wait()

	fmt.Println("Shutting down logger...")
	if err := logger.Shutdown(2 * time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "Logger shutdown error: %v\n", err)
	} else {
		fmt.Println("Logger shutdown complete.")
	}

	fmt.Println("--- Example Finished ---")
	fmt.Printf("Check log files in './simple_logs' and the config '%s'.\n", configFile)
}
