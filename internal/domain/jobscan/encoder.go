package jobscan

import (
	"fmt"
	"regexp"
	"strings"
)

// Encoding thresholds.
const (
	minJobTextLength = 40
	maxEvidence      = 6
)

// DimensionEvidence is the winning level for one dimension plus the matched
// snippets that justify it.
type DimensionEvidence struct {
	Level    int      `json:"level"`
	Evidence []string `json:"evidence"`
}

// Object is the derived view of one submitted job description. Created once
// per ingestion and never mutated; resubmission replaces it wholesale.
type Object struct {
	JobText        string                       `json:"jobText"`
	NormalizedText string                       `json:"normalizedText"`
	RoleVector     [6]int                       `json:"roleVector"`
	Evidence       map[string]DimensionEvidence `json:"dimensionEvidence"`
}

var whitespace = regexp.MustCompile(`\s+`)

// Normalize lowercases and collapses whitespace for rule matching.
func Normalize(text string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(text)), " ")
}

// Ingest encodes job text into a role vector. Only full coverage of all six
// dimensions produces an Object; every failure mode is a typed error.
func Ingest(jobText string) (*Object, error) {
	if len(strings.TrimSpace(jobText)) < minJobTextLength {
		return nil, ErrMissingJobText
	}
	normalized := Normalize(jobText)

	obj := &Object{
		JobText:        jobText,
		NormalizedText: normalized,
		Evidence:       make(map[string]DimensionEvidence, len(Dimensions)),
	}

	var missing []string
	totalEvidence := 0
	for i, dim := range Dimensions {
		level, evidence, found := encodeDimension(dim, normalized)
		if !found {
			missing = append(missing, dim)
			continue
		}
		obj.RoleVector[i] = level
		obj.Evidence[dim] = DimensionEvidence{Level: level, Evidence: evidence}
		totalEvidence += len(evidence)
	}

	if totalEvidence == 0 {
		return nil, ErrNoSignal
	}
	if len(missing) > 0 {
		return nil, &IncompleteCoverageError{Missing: missing}
	}
	return obj, nil
}

// encodeDimension evaluates one dimension's rule sets, highest level first.
// The first level with at least one match wins.
func encodeDimension(dim, normalized string) (level int, evidence []string, found bool) {
	rules := ruleTable[dim]
	for _, tier := range []struct {
		level    int
		patterns []*regexp.Regexp
	}{
		{2, rules.level2},
		{1, rules.level1},
		{0, rules.level0},
	} {
		snippets := collectMatches(tier.patterns, normalized)
		if len(snippets) > 0 {
			return tier.level, snippets, true
		}
	}
	return 0, nil, false
}

// collectMatches gathers matched snippets across patterns, deduplicated in
// first-seen order and capped at maxEvidence.
func collectMatches(patterns []*regexp.Regexp, text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, p := range patterns {
		for _, m := range p.FindAllString(text, -1) {
			if seen[m] {
				continue
			}
			seen[m] = true
			out = append(out, m)
			if len(out) >= maxEvidence {
				return out
			}
		}
	}
	return out
}

// IncompleteCoverageError reports which dimensions produced no evidence, in
// canonical dimension order, for user-facing messaging.
type IncompleteCoverageError struct {
	Missing []string
}

func (e *IncompleteCoverageError) Error() string {
	return fmt.Sprintf("incomplete dimension coverage: missing %s", strings.Join(e.Missing, ", "))
}

// Unwrap allows errors.Is against ErrIncompleteCoverage.
func (e *IncompleteCoverageError) Unwrap() error {
	return ErrIncompleteCoverage
}
