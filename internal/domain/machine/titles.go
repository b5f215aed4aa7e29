package machine

import (
	"sort"
	"strings"

	"github.com/okian/calibra/internal/domain/session"
)

// Title affinity weights.
const (
	titleExactMatch   = 15
	titleNearMatch    = 7
	titleKeywordBonus = 5
	titleScoreMax     = 100
	titleKeep         = 5
)

// bankEntry pairs a working title with its reference vector profile and the
// keywords that earn a lexical bonus when present in the transcript.
type bankEntry struct {
	Title    string
	Profile  session.Vector
	Keywords []string
}

// titleBank is versioned data. Declaration order is the tie-break for equal
// affinity scores, so entries must not be reordered casually.
var titleBank = []bankEntry{
	{"Systems Rebuilder", session.Vector{2, 1, 0, 1, 1, 1}, []string{"systems", "rebuilder"}},
	{"Operations Stabilizer", session.Vector{1, 1, 0, 1, 0, 2}, []string{"operations", "stabilizer"}},
	{"Product Navigator", session.Vector{1, 1, 2, 2, 1, 1}, []string{"product", "navigator"}},
	{"Platform Steward", session.Vector{2, 0, 0, 0, 2, 1}, []string{"platform", "steward"}},
	{"Growth Mechanic", session.Vector{1, 1, 2, 1, 1, 0}, []string{"growth", "mechanic"}},
	{"Integration Broker", session.Vector{1, 1, 1, 1, 2, 2}, []string{"integration", "broker"}},
	{"Ambiguity Wrangler", session.Vector{0, 1, 1, 2, 1, 1}, []string{"ambiguity", "wrangler"}},
	{"Delivery Anchor", session.Vector{1, 2, 1, 0, 0, 1}, []string{"delivery", "anchor"}},
	{"Quality Gatekeeper", session.Vector{2, 1, 0, 0, 0, 0}, []string{"quality", "gatekeeper"}},
	{"Bridge Translator", session.Vector{1, 0, 1, 1, 2, 2}, []string{"bridge", "translator"}},
}

// TitleBankSize reports how many titles the bank carries.
func TitleBankSize() int {
	return len(titleBank)
}

// RankTitles scores every bank entry against the person vector and the
// transcript text, returning the top candidates in descending affinity with
// bank order as tie-break.
func RankTitles(person session.Vector, transcript string) []session.TitleCandidate {
	lower := strings.ToLower(transcript)

	scored := make([]session.TitleCandidate, 0, len(titleBank))
	order := make(map[string]int, len(titleBank))
	for i, entry := range titleBank {
		order[entry.Title] = i
		scored = append(scored, session.TitleCandidate{
			Title: entry.Title,
			Score: affinity(entry, person, lower),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return order[scored[i].Title] < order[scored[j].Title]
	})

	if len(scored) > titleKeep {
		scored = scored[:titleKeep]
	}
	return scored
}

func affinity(entry bankEntry, person session.Vector, lowerTranscript string) int {
	score := 0
	for i := 0; i < session.VectorDimensions; i++ {
		d := person[i] - entry.Profile[i]
		if d < 0 {
			d = -d
		}
		switch d {
		case 0:
			score += titleExactMatch
		case 1:
			score += titleNearMatch
		}
	}

	lowerTitle := strings.ToLower(entry.Title)
	for _, kw := range entry.Keywords {
		if strings.Contains(lowerTitle, kw) && strings.Contains(lowerTranscript, kw) {
			score += titleKeywordBonus
		}
	}

	if score > titleScoreMax {
		score = titleScoreMax
	}
	if score < 0 {
		score = 0
	}
	return score
}
