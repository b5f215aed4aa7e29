package walkthrough

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/okian/calibra/internal/domain/session"
	"github.com/okian/calibra/pkg/logger"
)

// File permission constants.
const (
	outputFilePermission = 0600
)

// verifyResults checks every completed session against the terminal
// contract: locked vector, five title candidates, a full scoring result.
func verifyResults(ctx context.Context, config *Config, finals []*session.Session, stats *Stats) error {
	logger.Get().Info(ctx, "verifying completed sessions", logger.Int("count", len(finals)))

	for _, s := range finals {
		if err := verifySession(s); err != nil {
			return fmt.Errorf("session %s: %w", s.ID, err)
		}
		if config.Verbose {
			logger.Get().Info(ctx, "session verified",
				logger.String("sessionId", s.ID),
				logger.String("workingTitle", s.Synthesis.WorkingTitle),
				logger.Float64("alignmentScore", s.Result.Alignment.Score),
				logger.Int("skillMatch", s.Result.SkillMatch.FinalScore),
				logger.String("stretchBand", s.Result.StretchLoad.Band))
		}
	}

	logger.Get().Info(ctx, "all sessions verified")
	return nil
}

// verifySession checks one terminal session.
func verifySession(s *session.Session) error {
	if s.State != session.StateTerminalComplete {
		return fmt.Errorf("unexpected final state %s", s.State)
	}
	if !s.PersonVector.Locked {
		return fmt.Errorf("person vector is not locked")
	}
	for i, v := range s.PersonVector.Values {
		if v < 0 || v > 2 {
			return fmt.Errorf("person vector dimension %d out of range: %d", i, v)
		}
	}
	if s.Synthesis.PatternSummary == "" {
		return fmt.Errorf("missing pattern summary")
	}
	if got := len(s.Synthesis.TitleCandidates); got != 5 {
		return fmt.Errorf("expected 5 title candidates, got %d", got)
	}
	if s.Synthesis.WorkingTitle == "" {
		return fmt.Errorf("missing working title")
	}
	if s.Job == nil || !s.Job.Completed {
		return fmt.Errorf("job ingest did not complete")
	}
	if s.Result == nil {
		return fmt.Errorf("missing scoring result")
	}
	if s.Result.Alignment.Score < 0 || s.Result.Alignment.Score > 10 {
		return fmt.Errorf("alignment score out of range: %.2f", s.Result.Alignment.Score)
	}
	if s.Result.SkillMatch.FinalScore < 0 || s.Result.SkillMatch.FinalScore > 100 {
		return fmt.Errorf("skill match score out of range: %d", s.Result.SkillMatch.FinalScore)
	}
	if s.Result.StretchLoad.Band == "" {
		return fmt.Errorf("missing stretch load band")
	}
	return nil
}

// saveSessionsToFile writes the terminal sessions as a JSON array.
func saveSessionsToFile(ctx context.Context, config *Config, finals []*session.Session) error {
	if len(finals) == 0 {
		return fmt.Errorf("no sessions to save")
	}

	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "walkthrough_sessions_" + timestamp + ".json"
	}

	data, err := json.MarshalIndent(finals, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sessions: %w", err)
	}
	if err := os.WriteFile(filename, data, outputFilePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Get().Info(ctx, "sessions saved to file", logger.String("filename", filename))
	return nil
}
