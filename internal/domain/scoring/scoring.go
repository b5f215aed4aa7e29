// Package scoring holds the three pure fit formulas: alignment, terrain
// skill match, and stretch load. No randomness, no external calls; identical
// vectors always produce identical results.
package scoring

import "math"

// Vector length shared by person and role encodings.
const Dimensions = 6

// Alignment weighting constants.
const (
	severeWeight   = 1.0
	moderateWeight = 0.35
	maxScore       = 10.0
)

// Terrain classifications for skill match.
const (
	TerrainGrounded = "grounded"
	TerrainAdjacent = "adjacent"
	TerrainNew      = "new"
)

// Terrain base scores.
const (
	baseGrounded = 9
	baseAdjacent = 6
	baseNew      = 3
)

// Stretch load bands.
const (
	BandLow      = "low"
	BandModerate = "moderate"
	BandHigh     = "high"
	BandSevere   = "severe"
)

// bandNotes are the fixed explanatory sentences per band.
var bandNotes = map[string]string{
	BandLow:      "The role sits close to demonstrated patterns; expect a settling-in period, not a rebuild.",
	BandModerate: "Parts of the role demand patterns not yet demonstrated; expect sustained effort in those areas.",
	BandHigh:     "Much of the role sits outside demonstrated patterns; expect a long adaptation curve.",
	BandSevere:   "The role demands a largely undemonstrated pattern set; treat this as a deliberate rebuild.",
}

// Alignment is the vector-distance fit between person and role.
type Alignment struct {
	Score    float64
	Severe   int
	Moderate int
}

// SkillMatch is the terrain classification with authority adjustment.
type SkillMatch struct {
	Terrain           string
	BaseScore         int
	AuthorityModifier int
	FinalScore        int
}

// StretchLoad is the inverse of skill match, banded for messaging.
type StretchLoad struct {
	Numeric int
	Band    string
	Note    string
}

// ComputeAlignment scores per-dimension distance between person and role.
// Symmetric under |P−R|: ComputeAlignment(p, r) == ComputeAlignment(r, p).
func ComputeAlignment(person, role [Dimensions]int) Alignment {
	severe, moderate := 0, 0
	for i := 0; i < Dimensions; i++ {
		switch abs(person[i] - role[i]) {
		case 2:
			severe++
		case 1:
			moderate++
		}
	}
	weighted := severeWeight*float64(severe) + moderateWeight*float64(moderate)
	score := round1(maxScore * (1 - weighted/Dimensions))
	return Alignment{
		Score:    clampFloat(score, 0, maxScore),
		Severe:   severe,
		Moderate: moderate,
	}
}

// ComputeSkillMatch classifies how far the role's demands sit from
// demonstrated experience and applies the authority modifier.
// authorityIndex selects the authority-scope dimension.
func ComputeSkillMatch(role, experience [Dimensions]int, authorityIndex int) SkillMatch {
	terrain := TerrainGrounded
	for i := 0; i < Dimensions; i++ {
		delta := role[i] - experience[i]
		if delta >= 2 {
			terrain = TerrainNew
			break
		}
		if delta == 1 {
			terrain = TerrainAdjacent
		}
	}

	base := baseGrounded
	switch terrain {
	case TerrainAdjacent:
		base = baseAdjacent
	case TerrainNew:
		base = baseNew
	}

	modifier := 0
	switch authorityDelta := role[authorityIndex] - experience[authorityIndex]; {
	case authorityDelta >= 2:
		modifier = -2
	case authorityDelta == 1:
		modifier = -1
	}

	return SkillMatch{
		Terrain:           terrain,
		BaseScore:         base,
		AuthorityModifier: modifier,
		FinalScore:        clampInt(base+modifier, 0, 10),
	}
}

// ComputeStretchLoad derives the stretch band from a final skill score.
func ComputeStretchLoad(finalSkillScore int) StretchLoad {
	numeric := clampInt(10-finalSkillScore, 0, 10)
	score := 10 - numeric

	band := BandSevere
	switch {
	case score >= 8:
		band = BandLow
	case score >= 5:
		band = BandModerate
	case score >= 3:
		band = BandHigh
	}

	return StretchLoad{
		Numeric: numeric,
		Band:    band,
		Note:    bandNotes[band],
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}

func clampFloat(f, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, f))
}

func clampInt(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
