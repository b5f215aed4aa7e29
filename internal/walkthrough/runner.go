package walkthrough

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/calibra/internal/domain/session"
	"github.com/okian/calibra/pkg/logger"
)

// HTTP status code constants.
const (
	statusOK = 200
)

// Run executes the configured number of scripted interviews.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting calibration walkthrough",
		logger.String("baseURL", config.BaseURL),
		logger.Int("sessions", config.Sessions),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Any("verbose", config.Verbose))

	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	finals, err := runInterviews(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("interview run failed: %w", err)
	}

	if err := verifyResults(ctx, config, finals, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	if config.OutputFile != "" {
		if err := saveSessionsToFile(ctx, config, finals); err != nil {
			logger.Get().Warn(ctx, "failed to save sessions to file", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	logger.Get().Info(ctx, "walkthrough completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != statusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// runInterviews drives the interviews concurrently and collects the
// terminal sessions.
func runInterviews(ctx context.Context, config *Config, stats *Stats) ([]*session.Session, error) {
	var (
		dispatches int64
		failed     int64
	)

	workers := config.Workers
	if workers > config.Sessions {
		workers = config.Sessions
	}

	jobs := make(chan int, config.Sessions)
	finals := make([]*session.Session, config.Sessions)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			client := newHTTPClient(config.Timeout)
			for idx := range jobs {
				final, calls, err := runSingleInterview(ctx, client, config)
				atomic.AddInt64(&dispatches, int64(calls))
				if err != nil {
					atomic.AddInt64(&failed, 1)
					logger.Get().Error(ctx, "interview failed", logger.Int("interview", idx), logger.Error(err))
					continue
				}
				finals[idx] = final
				if config.Verbose {
					logger.Get().Info(ctx, "interview completed",
						logger.Int("interview", idx),
						logger.String("sessionId", final.ID),
						logger.String("workingTitle", final.Synthesis.WorkingTitle))
				}
			}
		}()
	}

	for i := 0; i < config.Sessions; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	completed := make([]*session.Session, 0, config.Sessions)
	for _, f := range finals {
		if f != nil {
			completed = append(completed, f)
		}
	}

	stats.SessionsStarted = config.Sessions
	stats.SessionsCompleted = len(completed)
	stats.SessionsFailed = int(atomic.LoadInt64(&failed))
	stats.DispatchCalls = int(atomic.LoadInt64(&dispatches))

	if len(completed) == 0 {
		return nil, fmt.Errorf("no interview reached completion")
	}
	return completed, nil
}

// runSingleInterview drives one session from creation to completion,
// returning the terminal session and the number of dispatch calls spent.
func runSingleInterview(ctx context.Context, client *HTTPClient, config *Config) (*session.Session, int, error) {
	calls := 1
	s, err := client.dispatch(ctx, config.BaseURL, session.RawEvent{Type: session.TypeCreateSession})
	if err != nil {
		return nil, calls, err
	}

	for steps := 0; s.State != session.StateTerminalComplete; steps++ {
		if steps >= maxSteps {
			return nil, calls, fmt.Errorf("interview stuck in state %s after %d steps", s.State, steps)
		}
		if err := ctx.Err(); err != nil {
			return nil, calls, fmt.Errorf("interview canceled: %w", err)
		}

		raw, err := nextEvent(s)
		if err != nil {
			return nil, calls, err
		}
		calls++
		s, err = client.dispatch(ctx, config.BaseURL, raw)
		if err != nil {
			return nil, calls, err
		}
	}
	return s, calls, nil
}

// displayFinalStats prints the final walkthrough statistics.
func displayFinalStats(stats *Stats) {
	var completionRate, dispatchesPerSecond float64

	if stats.SessionsStarted > 0 {
		completionRate = float64(stats.SessionsCompleted) / float64(stats.SessionsStarted) * 100
	}
	if stats.Duration > 0 {
		dispatchesPerSecond = float64(stats.DispatchCalls) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("sessionsStarted", stats.SessionsStarted),
		logger.Int("sessionsCompleted", stats.SessionsCompleted),
		logger.Int("sessionsFailed", stats.SessionsFailed),
		logger.Int("dispatchCalls", stats.DispatchCalls),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("completionRate", completionRate),
		logger.Float64("dispatchesPerSecond", dispatchesPerSecond))
}
