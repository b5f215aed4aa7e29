package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/calibra/internal/walkthrough"
)

// Default configuration constants.
const (
	defaultSessions   = 10
	defaultWorkers    = 4
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		sessions   = flag.Int("sessions", defaultSessions, "Number of interviews to run")
		workers    = flag.Int("workers", defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Output file for terminal sessions")
		logFile    = flag.String("log", "", "Log file for walkthrough output (default: walkthrough_log_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		walkthrough.ShowHelp()
		return
	}

	if err := walkthrough.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &walkthrough.Config{
		BaseURL:    *baseURL,
		Sessions:   *sessions,
		Workers:    *workers,
		Timeout:    *timeout,
		OutputFile: *outputFile,
		LogFile:    *logFile,
		Verbose:    *verbose,
	}

	if err := walkthrough.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Walkthrough failed: " + err.Error() + "\n")
		return
	}
}
