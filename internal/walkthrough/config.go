package walkthrough

import "time"

// Config holds configuration for the interview walkthrough.
type Config struct {
	BaseURL    string        // Base URL of the service
	Sessions   int           // Number of interviews to run
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Output file for final sessions
	LogFile    string        // Log file for walkthrough output
	Verbose    bool          // Enable verbose logging
}

// Stats holds walkthrough statistics.
type Stats struct {
	SessionsStarted   int
	SessionsCompleted int
	SessionsFailed    int
	DispatchCalls     int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
