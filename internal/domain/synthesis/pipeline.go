package synthesis

import (
	"regexp"
	"strings"
)

// Outcome names the terminal state of a validation pass.
type Outcome string

const (
	OutcomePass                     Outcome = "PASS"
	OutcomeRepairApplied            Outcome = "REPAIR_APPLIED"
	OutcomeRetryRequired            Outcome = "RETRY_REQUIRED"
	OutcomeFallbackBlacklistPhrase  Outcome = "FALLBACK_BLACKLIST_PHRASE"
	OutcomeFallbackUnrepairable     Outcome = "FALLBACK_UNREPAIRABLE"
	OutcomeFallbackStructureInvalid Outcome = "FALLBACK_STRUCTURE_INVALID"
)

// Input is one candidate summary presented for validation.
type Input struct {
	// Candidate is the raw generated text, three or four lines.
	Candidate string
	// PersonVector selects fallback material via its first non-neutral
	// dimension.
	PersonVector [6]int
	// AllowedAnchors suppress drift terms that the person actually used.
	AllowedAnchors []string
	// RetryPass marks the second and final validation pass. Drift found
	// on a retry pass forces the fallback instead of another retry.
	RetryPass bool
}

// Result is the resolved summary after one validation pass.
type Result struct {
	Lines     []string
	Outcome   Outcome
	DidRepair bool
	// DriftTerms is populated only for OutcomeRetryRequired and carries
	// the terms the regeneration must avoid.
	DriftTerms []string
}

// Text joins the resolved lines into the final summary.
func (r Result) Text() string {
	return strings.Join(r.Lines, "\n")
}

const (
	minLines            = 3
	maxLines            = 4
	maxConsequenceWords = 7
	minContentWordLen   = 5
)

var (
	constructionRe = regexp.MustCompile(`^You ([a-z]+), ([a-z]+), and ([a-z]+)\.$`)
	wordRe         = regexp.MustCompile(`[A-Za-z][A-Za-z'-]*`)
	spaceRe        = regexp.MustCompile(`\s+`)
)

// Validate runs one deterministic pass over a candidate. It never errors:
// every input resolves to a Result, worst case the safe fallback.
func Validate(in Input) Result {
	lines := splitLines(in.Candidate)
	if len(lines) < minLines || len(lines) > maxLines {
		return fallback(in.PersonVector, OutcomeFallbackStructureInvalid)
	}

	// Phrase hits are unrepairable regardless of where they sit, so the
	// scan runs before any repair could mask or mangle the phrase.
	if containsBlacklistPhrase(lines) {
		return fallback(in.PersonVector, OutcomeFallbackBlacklistPhrase)
	}

	repaired := false

	for i := range lines {
		clean, changed := stripPraise(lines[i])
		if changed {
			repaired = true
		}
		clean, changed = substituteMarketing(clean)
		if changed {
			repaired = true
		}
		lines[i] = clean
	}

	if !validConstruction(lines[2]) {
		lines[2] = constructionLine(in.PersonVector)
		repaired = true
	}

	if len(lines) == maxLines {
		if !consequenceAllowed(lines[3], lines[0], lines[1]) {
			lines = lines[:3]
			repaired = true
		}
	}

	lines, ok, changed := resolveRepetition(lines)
	if !ok {
		return fallback(in.PersonVector, OutcomeFallbackUnrepairable)
	}
	if changed {
		repaired = true
	}

	// Substitutions rewrite one word at a time and can assemble a phrase
	// no input line contained, e.g. "working model" after the repetition
	// table turns "working" into "operating". A post-repair hit is as
	// unrepairable as a pre-repair one.
	if repaired && containsBlacklistPhrase(lines) {
		return fallback(in.PersonVector, OutcomeFallbackBlacklistPhrase)
	}

	if drift := scanDrift(lines, in.AllowedAnchors); len(drift) > 0 {
		if in.RetryPass {
			return fallback(in.PersonVector, OutcomeFallbackStructureInvalid)
		}
		return Result{Lines: lines, Outcome: OutcomeRetryRequired, DriftTerms: drift}
	}

	if repaired {
		return Result{Lines: lines, Outcome: OutcomeRepairApplied, DidRepair: true}
	}
	return Result{Lines: lines, Outcome: OutcomePass}
}

func splitLines(s string) []string {
	var out []string
	for _, ln := range strings.Split(s, "\n") {
		ln = strings.TrimSpace(spaceRe.ReplaceAllString(ln, " "))
		if ln != "" {
			out = append(out, ln)
		}
	}
	return out
}

// primaryDimension is the index of the first non-neutral vector value.
// A fully neutral vector falls back to dimension zero.
func primaryDimension(vec [6]int) int {
	for i, v := range vec {
		if v != 1 {
			return i
		}
	}
	return 0
}

func fallback(vec [6]int, outcome Outcome) Result {
	d := primaryDimension(vec)
	lines := make([]string, len(safeFallbacks[d]))
	copy(lines, safeFallbacks[d][:])
	return Result{Lines: lines, Outcome: outcome, DidRepair: true}
}

func constructionLine(vec [6]int) string {
	t := fallbackTriples[primaryDimension(vec)]
	return "You " + t[0] + ", " + t[1] + ", and " + t[2] + "."
}

func validConstruction(line string) bool {
	m := constructionRe.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	return allowedVerbs[m[1]] && allowedVerbs[m[2]] && allowedVerbs[m[3]]
}

func containsBlacklistPhrase(lines []string) bool {
	joined := strings.ToLower(strings.Join(lines, "\n"))
	for _, p := range blacklistPhrases {
		if strings.Contains(joined, p) {
			return true
		}
	}
	return false
}

func stripPraise(line string) (string, bool) {
	changed := false
	out := wordRe.ReplaceAllStringFunc(line, func(w string) string {
		lw := strings.ToLower(w)
		for _, adj := range praiseAdjectives {
			if lw == adj {
				changed = true
				return ""
			}
		}
		return w
	})
	if !changed {
		return line, false
	}
	return strings.TrimSpace(spaceRe.ReplaceAllString(out, " ")), true
}

func substituteMarketing(line string) (string, bool) {
	changed := false
	out := wordRe.ReplaceAllStringFunc(line, func(w string) string {
		repl, ok := marketingSynonyms[strings.ToLower(w)]
		if !ok {
			return w
		}
		changed = true
		return matchCase(w, repl)
	})
	return out, changed
}

// matchCase carries an initial capital from the replaced word onto its
// substitute so sentence starts stay well formed.
func matchCase(orig, repl string) string {
	if orig == "" || repl == "" {
		return repl
	}
	if orig[0] >= 'A' && orig[0] <= 'Z' {
		return strings.ToUpper(repl[:1]) + repl[1:]
	}
	return repl
}

func consequenceAllowed(line, first, second string) bool {
	words := wordRe.FindAllString(line, -1)
	if len(words) > maxConsequenceWords {
		return false
	}
	lower := strings.ToLower(line)
	for _, w := range blacklistWords {
		if containsWord(lower, w) {
			return false
		}
	}
	for _, p := range blacklistPhrases {
		if strings.Contains(lower, p) {
			return false
		}
	}
	seen := map[string]bool{}
	for _, w := range contentWords(first) {
		seen[w] = true
	}
	for _, w := range contentWords(second) {
		seen[w] = true
	}
	for _, w := range contentWords(line) {
		if seen[w] {
			return false
		}
	}
	return true
}

func contentWords(line string) []string {
	var out []string
	for _, w := range wordRe.FindAllString(line, -1) {
		lw := strings.ToLower(w)
		if len(lw) < minContentWordLen || connectiveWords[lw] {
			continue
		}
		out = append(out, lw)
	}
	return out
}

// resolveRepetition rewrites content words that repeat across lines. The
// first occurrence stays; later ones are substituted from the synonym
// table. A repeat with no synonym, or one that still repeats after
// substitution, cannot be repaired.
func resolveRepetition(lines []string) ([]string, bool, bool) {
	changed := false
	for pass := 0; pass < 2; pass++ {
		seen := map[string]int{}
		conflict := false
		for i, ln := range lines {
			for _, w := range contentWords(ln) {
				if prev, ok := seen[w]; ok && prev != i {
					repl, has := repetitionSynonyms[w]
					if !has || pass == 1 {
						return lines, false, changed
					}
					lines[i] = replaceWord(lines[i], w, repl)
					changed = true
					conflict = true
				} else {
					seen[w] = i
				}
			}
		}
		if !conflict {
			break
		}
	}
	return lines, true, changed
}

func replaceWord(line, word, repl string) string {
	return wordRe.ReplaceAllStringFunc(line, func(w string) string {
		if strings.ToLower(w) == word {
			return matchCase(w, repl)
		}
		return w
	})
}

func containsWord(lower, term string) bool {
	idx := 0
	for {
		i := strings.Index(lower[idx:], term)
		if i < 0 {
			return false
		}
		i += idx
		before := i == 0 || !isLetter(lower[i-1])
		afterIdx := i + len(term)
		after := afterIdx >= len(lower) || !isLetter(lower[afterIdx])
		if before && after {
			return true
		}
		idx = i + 1
	}
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// scanDrift reports drift terms present in the text and absent from the
// allowed anchor set, ordered archetype, praise, identity inflation, and
// alphabetically within a category by list order.
func scanDrift(lines []string, allowed []string) []string {
	joined := strings.ToLower(strings.Join(lines, "\n"))
	allow := map[string]bool{}
	for _, a := range allowed {
		allow[strings.ToLower(a)] = true
	}
	var out []string
	scan := func(terms []string) {
		for _, t := range terms {
			if allow[t] {
				continue
			}
			if strings.Contains(t, " ") || strings.Contains(t, "-") {
				if strings.Contains(joined, t) {
					out = append(out, t)
				}
				continue
			}
			if containsWord(joined, t) {
				out = append(out, t)
			}
		}
	}
	scan(driftArchetypes)
	scan(driftPraise)
	scan(driftIdentityPhrases)
	return out
}
