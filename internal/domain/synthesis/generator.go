package synthesis

import (
	"context"
	"strings"

	"github.com/okian/calibra/pkg/logger"
	"github.com/okian/calibra/pkg/metrics"
)

// Prompt carries everything a generator may condition on. Runners thread
// Avoid terms into the second attempt so regeneration steers away from
// flagged drift.
type Prompt struct {
	PersonVector [6]int
	SignalTerms  []string
	SkillTerms   []string
	Avoid        []string
}

// Generator produces one candidate summary per call. Implementations may
// be remote; the runner treats any error as a spent attempt.
type Generator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
}

// TemplateGenerator is the default deterministic generator. It assembles a
// candidate from the anchor terms and the vector's fallback material, so
// the service runs fully offline.
type TemplateGenerator struct{}

func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{}
}

func (g *TemplateGenerator) Generate(_ context.Context, p Prompt) (string, error) {
	d := primaryDimension(p.PersonVector)
	lines := make([]string, 0, 4)

	if len(p.SignalTerms) > 0 {
		lines = append(lines, "You gravitate toward "+p.SignalTerms[0]+", not toward staying comfortable.")
	} else {
		lines = append(lines, safeFallbacks[d][0])
	}
	if len(p.SkillTerms) > 0 {
		lines = append(lines, "You step in through "+p.SkillTerms[0]+" when the situation resists.")
	} else {
		lines = append(lines, safeFallbacks[d][1])
	}
	lines = append(lines, constructionLine(p.PersonVector))

	return strings.Join(lines, "\n"), nil
}

// Runner drives generation and validation, bounded to two attempts. The
// second attempt happens only on a retry verdict; anything else, including
// a generator error, resolves immediately.
type Runner struct {
	gen Generator
	log logger.Logger
}

type RunnerOption func(*Runner)

func WithGenerator(g Generator) RunnerOption {
	return func(r *Runner) {
		if g != nil {
			r.gen = g
		}
	}
}

func WithLogger(l logger.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		gen: NewTemplateGenerator(),
		log: logger.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Synthesize resolves a prompt to a final validated summary. It never
// errors: a failed generation or an exhausted retry lands on the safe
// fallback for the prompt's vector.
func (r *Runner) Synthesize(ctx context.Context, p Prompt, allowedAnchors []string) Result {
	cand, err := r.gen.Generate(ctx, p)
	if err != nil {
		r.log.Warn(ctx, "generation failed, using fallback", logger.Error(err))
		metrics.RecordGenerationAttempt("1", "error")
		res := fallback(p.PersonVector, OutcomeFallbackStructureInvalid)
		metrics.RecordValidatorOutcome(string(res.Outcome))
		return res
	}
	metrics.RecordGenerationAttempt("1", "ok")

	res := Validate(Input{
		Candidate:      cand,
		PersonVector:   p.PersonVector,
		AllowedAnchors: allowedAnchors,
	})
	if res.Outcome != OutcomeRetryRequired {
		metrics.RecordValidatorOutcome(string(res.Outcome))
		return res
	}

	retry := p
	retry.Avoid = appendMissing(res.DriftTerms, missingAnchors(cand, allowedAnchors))
	r.log.Debug(ctx, "drift detected, regenerating",
		logger.Any("avoid", retry.Avoid))

	cand, err = r.gen.Generate(ctx, retry)
	if err != nil {
		r.log.Warn(ctx, "regeneration failed, using fallback", logger.Error(err))
		metrics.RecordGenerationAttempt("2", "error")
		res = fallback(p.PersonVector, OutcomeFallbackStructureInvalid)
		metrics.RecordValidatorOutcome(string(res.Outcome))
		return res
	}
	metrics.RecordGenerationAttempt("2", "ok")

	res = Validate(Input{
		Candidate:      cand,
		PersonVector:   p.PersonVector,
		AllowedAnchors: allowedAnchors,
		RetryPass:      true,
	})
	metrics.RecordValidatorOutcome(string(res.Outcome))
	return res
}

// missingAnchors lists allowed anchors absent from the candidate text the
// first pass saw, so regeneration instructions mention them explicitly.
func missingAnchors(candidate string, allowed []string) []string {
	lower := strings.ToLower(candidate)
	var out []string
	for _, a := range allowed {
		if !strings.Contains(lower, strings.ToLower(a)) {
			out = append(out, a)
		}
	}
	return out
}

func appendMissing(base, extra []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(base)+len(extra))
	for _, s := range base {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range extra {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
