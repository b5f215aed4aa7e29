package walkthrough

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/okian/calibra/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "walkthrough_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the walkthrough tool.
func ShowHelp() {
	os.Stdout.WriteString(`Calibra Interview Walkthrough
=============================

Drives scripted calibration interviews against a running service and
verifies the terminal contract of every session.

Usage:
  go run cmd/walkthrough/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -sessions int
        Number of interviews to run (default 10)
  -workers int
        Number of concurrent workers (default 4)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Output file for terminal sessions (default: none)
  -log string
        Log file for walkthrough output (default: walkthrough_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Run with default settings
  go run cmd/walkthrough/main.go

  # Run a single verbose interview
  go run cmd/walkthrough/main.go -sessions 1 -verbose

  # Stress the per-session serialization with many concurrent interviews
  go run cmd/walkthrough/main.go -sessions 200 -workers 16
`)
}
