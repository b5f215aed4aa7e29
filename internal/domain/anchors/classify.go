package anchors

import "sort"

// Classification labels.
const (
	ClassSignal  = "signal"
	ClassSkill   = "skill"
	ClassNeutral = "neutral"
)

// Classification reason codes, one per rule.
const (
	ReasonBreakdownTwoPlus      = "SIG_BREAKDOWN_X2PLUS"
	ReasonBreakdownSingleSource = "NEU_BREAKDOWN_SINGLE_SOURCE"
	ReasonResumeNoBreakdown     = "SK_RESUME_NO_BREAKDOWN"
	ReasonPromptOnly            = "NEU_Q_ONLY"
	ReasonNoBreakdown           = "NEU_NO_BREAKDOWN"
)

// Occurrence sources and context types.
const (
	SourceResume = "resume"

	ContextBreakdown              = "breakdown"
	ContextConstraintConstruction = "constraint_construction"
	ContextIncentiveDistortion    = "incentive_distortion"
	ContextNeutral                = "neutral"
)

// Occurrence is one sighting of a term in a source with a context type.
type Occurrence struct {
	Term    string `json:"term"`
	Source  string `json:"source"`  // "resume" or "q1".."q5"
	Context string `json:"context_type"`
}

// Record is the aggregated, classified view of one anchor term. Immutable
// after construction; re-derivable byte-for-byte from the occurrence list.
type Record struct {
	Term            string         `json:"term"`
	TotalCount      int            `json:"totalCount"`
	DistinctSources []string       `json:"distinctSources"`
	ContextCounts   map[string]int `json:"contextCounts"`
	Classification  string         `json:"classification"`
	Reason          string         `json:"reason"`
}

// Classify aggregates occurrences for each term and applies the rule ladder.
// Terms with zero occurrences still produce a record (neutral, all counts
// zero). Output is sorted (totalCount desc, term asc).
func Classify(terms []string, occurrences []Occurrence) []Record {
	byTerm := make(map[string][]Occurrence)
	for _, occ := range occurrences {
		byTerm[occ.Term] = append(byTerm[occ.Term], occ)
	}

	records := make([]Record, 0, len(terms))
	seen := make(map[string]bool, len(terms))
	for _, term := range terms {
		if seen[term] {
			continue
		}
		seen[term] = true
		records = append(records, build(term, byTerm[term]))
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].TotalCount != records[j].TotalCount {
			return records[i].TotalCount > records[j].TotalCount
		}
		return records[i].Term < records[j].Term
	})
	return records
}

// build aggregates one term and classifies it by rule priority.
func build(term string, occs []Occurrence) Record {
	sourceSet := make(map[string]bool)
	contexts := make(map[string]int)
	inResume := false
	for _, occ := range occs {
		sourceSet[occ.Source] = true
		contexts[occ.Context]++
		if occ.Source == SourceResume {
			inResume = true
		}
	}

	sources := make([]string, 0, len(sourceSet))
	for s := range sourceSet {
		sources = append(sources, s)
	}
	sort.Strings(sources)

	rec := Record{
		Term:            term,
		TotalCount:      len(occs),
		DistinctSources: sources,
		ContextCounts:   contexts,
	}

	hasBreakdown := contexts[ContextBreakdown] > 0
	switch {
	case hasBreakdown && len(sources) >= 2:
		rec.Classification = ClassSignal
		rec.Reason = ReasonBreakdownTwoPlus
	case hasBreakdown:
		rec.Classification = ClassNeutral
		rec.Reason = ReasonBreakdownSingleSource
	case inResume:
		rec.Classification = ClassSkill
		rec.Reason = ReasonResumeNoBreakdown
	case len(occs) > 0:
		rec.Classification = ClassNeutral
		rec.Reason = ReasonPromptOnly
	default:
		rec.Classification = ClassNeutral
		rec.Reason = ReasonNoBreakdown
	}
	return rec
}

// SignalTerms returns the terms classified as signal, preserving record order.
func SignalTerms(records []Record) []string {
	var out []string
	for _, r := range records {
		if r.Classification == ClassSignal {
			out = append(out, r.Term)
		}
	}
	return out
}

// SkillTerms returns the terms classified as skill, preserving record order.
func SkillTerms(records []Record) []string {
	var out []string
	for _, r := range records {
		if r.Classification == ClassSkill {
			out = append(out, r.Term)
		}
	}
	return out
}
