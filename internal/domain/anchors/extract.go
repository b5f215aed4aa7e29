// Package anchors extracts and classifies lexical anchor terms from resume
// and prompt text. Everything here is rule-based and deterministic: the same
// input always yields byte-identical output.
package anchors

import (
	"sort"
	"strings"
)

// Extraction thresholds.
const (
	minTokenLength = 3
	minTermCount   = 2
)

// stopwords filters common words that add noise to anchor extraction.
var stopwords = map[string]bool{
	"and": true, "the": true, "for": true, "with": true, "you": true,
	"are": true, "have": true, "will": true, "this": true, "that": true,
	"from": true, "our": true, "your": true, "their": true, "they": true,
	"about": true, "which": true, "what": true, "who": true, "how": true,
	"can": true, "not": true, "but": true, "all": true, "also": true,
	"more": true, "than": true, "into": true, "has": true, "its": true,
	"was": true, "were": true, "been": true, "each": true, "when": true,
	"where": true, "while": true, "would": true, "could": true, "there": true,
	"then": true, "them": true, "had": true, "did": true, "does": true,
	"because": true, "very": true, "just": true, "over": true, "under": true,
}

// verbSuffixes mark a token as a verb candidate.
var verbSuffixes = []string{"ing", "ed", "ize", "ise"}

// nounSuffixes mark a token as a noun candidate.
var nounSuffixes = []string{"tion", "sion", "ment", "ness", "ship", "ity", "ance", "ence"}

// Candidate is one counted anchor term.
type Candidate struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
	Kind  string `json:"kind"` // "verb" or "noun"
}

// Extract tokenizes resume plus prompt text and returns counted verb and
// noun candidates. Ordering is deterministic: count desc, term asc, with
// verbs listed before nouns.
func Extract(resumeText, promptText string) []Candidate {
	counts := tokenCounts(resumeText + " " + promptText)

	var verbs, nouns []Candidate
	for term, count := range counts {
		if count < minTermCount {
			continue
		}
		switch {
		case hasAnySuffix(term, verbSuffixes):
			verbs = append(verbs, Candidate{Term: term, Count: count, Kind: "verb"})
		case hasAnySuffix(term, nounSuffixes):
			nouns = append(nouns, Candidate{Term: term, Count: count, Kind: "noun"})
		}
	}

	sortCandidates(verbs)
	sortCandidates(nouns)
	return append(verbs, nouns...)
}

// TermCounts reports how often each given term occurs in text, using the
// same tokenization as Extract. Terms absent from the text map to zero.
func TermCounts(text string, terms []string) map[string]int {
	counts := tokenCounts(text)
	out := make(map[string]int, len(terms))
	for _, t := range terms {
		out[t] = counts[t]
	}
	return out
}

// tokenCounts lowercases, strips non-alphanumerics, and counts unigrams that
// survive the stopword and length filters.
func tokenCounts(text string) map[string]int {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	counts := make(map[string]int)
	for _, tok := range strings.Fields(b.String()) {
		if len(tok) < minTokenLength || stopwords[tok] {
			continue
		}
		counts[tok]++
	}
	return counts
}

func hasAnySuffix(term string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(term, s) && len(term) > len(s) {
			return true
		}
	}
	return false
}

func sortCandidates(cs []Candidate) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Count != cs[j].Count {
			return cs[i].Count > cs[j].Count
		}
		return cs[i].Term < cs[j].Term
	})
}
