// Package session contains the calibration session record and the typed
// events that drive it. The record is plain data: all transition authority
// lives in the machine package.
package session

import "time"

// State identifies one position in the calibration lifecycle.
type State string

// Lifecycle states, in interview order.
const (
	StateResumeIngest         State = "RESUME_INGEST"
	StateConsolidationPending State = "CONSOLIDATION_PENDING"
	StateConsolidationRitual  State = "CONSOLIDATION_RITUAL"
	StateEncodingRitual       State = "ENCODING_RITUAL"
	StatePatternSynthesis     State = "PATTERN_SYNTHESIS"
	StateTitleHypothesis      State = "TITLE_HYPOTHESIS"
	StateTitleDialogue        State = "TITLE_DIALOGUE"
	StateJobIngest            State = "JOB_INGEST"
	StateAlignmentOutput      State = "ALIGNMENT_OUTPUT"
	StateTerminalComplete     State = "TERMINAL_COMPLETE"

	// Reserved absorbing states. Declared for contract completeness; no
	// transition currently reaches them.
	StateProcessing State = "PROCESSING"
	StateError      State = "ERROR"
)

// PromptCount is the number of structured interview prompts.
const PromptCount = 5

// Prompt states are derived, not enumerated, so the prompt count stays the
// single source of truth.

// PromptState returns the state for prompt n (1-based).
func PromptState(n int) State {
	return State("PROMPT_" + digit(n))
}

// ClarifierState returns the clarifier state for prompt n (1-based).
func ClarifierState(n int) State {
	return State("PROMPT_" + digit(n) + "_CLARIFIER")
}

func digit(n int) string {
	return string(rune('0' + n))
}

// PromptIndex reports which prompt a state belongs to (1-based) and whether
// the state is the prompt or its clarifier. ok is false for non-prompt states.
func PromptIndex(s State) (n int, clarifier, ok bool) {
	for i := 1; i <= PromptCount; i++ {
		switch s {
		case PromptState(i):
			return i, false, true
		case ClarifierState(i):
			return i, true, true
		}
	}
	return 0, false, false
}

// States enumerates every reachable lifecycle state, prompts and clarifiers
// included, in interview order.
func States() []State {
	out := []State{StateResumeIngest}
	for i := 1; i <= PromptCount; i++ {
		out = append(out, PromptState(i), ClarifierState(i))
	}
	return append(out,
		StateConsolidationPending,
		StateConsolidationRitual,
		StateEncodingRitual,
		StatePatternSynthesis,
		StateTitleHypothesis,
		StateTitleDialogue,
		StateJobIngest,
		StateAlignmentOutput,
		StateTerminalComplete,
	)
}

// VectorDimensions is the length of person and role vectors.
const VectorDimensions = 6

// Vector is a 6-dimension encoding with values in {0,1,2}.
type Vector [VectorDimensions]int

// Resume holds the raw resume text and its derived boolean signals.
type Resume struct {
	Text             string `json:"text"`
	HasBullets       bool   `json:"hasBullets"`
	HasDates         bool   `json:"hasDates"`
	HasTitleKeywords bool   `json:"hasTitleKeywords"`
	CharLength       int    `json:"charLength"`
}

// Clarifier is the optional one-shot clarifier sub-record of a prompt slot.
type Clarifier struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Used     bool   `json:"used"`
}

// PromptSlot is one of the five structured prompts. Answer and Frozen are
// write-once: no event may overwrite an accepted answer.
type PromptSlot struct {
	Question  string     `json:"question"`
	Answer    string     `json:"answer"`
	Accepted  bool       `json:"accepted"`
	Frozen    bool       `json:"frozen"`
	Clarifier *Clarifier `json:"clarifier,omitempty"`
}

// PersonVector is the locked 6-dimension encoding of the person.
type PersonVector struct {
	Values Vector `json:"values"`
	Locked bool   `json:"locked"`
}

// Ritual tracks the consolidation ritual's progress counter.
type Ritual struct {
	Progress  int    `json:"progress"`
	Message   string `json:"message"`
	Completed bool   `json:"completed"`
}

// TitleCandidate is one scored entry from the title bank.
type TitleCandidate struct {
	Title string `json:"title"`
	Score int    `json:"score"`
}

// Synthesis holds the validated pattern summary and title material.
type Synthesis struct {
	PatternSummary   string           `json:"patternSummary"`
	OperateBest      []string         `json:"operateBest"`
	LoseEnergy       []string         `json:"loseEnergy"`
	ValidatorOutcome string           `json:"validatorOutcome"`
	DidRepair        bool             `json:"didRepair"`
	TitleCandidates  []TitleCandidate `json:"titleCandidates,omitempty"`
	WorkingTitle     string           `json:"workingTitle,omitempty"`
}

// DimensionEvidence is a role-vector level with its supporting snippets.
type DimensionEvidence struct {
	Level    int      `json:"level"`
	Evidence []string `json:"evidence"`
}

// JobIngest is the derived view of a submitted job description. It is
// replaced wholesale on resubmission, never mutated.
type JobIngest struct {
	JobText        string                       `json:"jobText"`
	NormalizedText string                       `json:"normalizedText"`
	RoleVector     Vector                       `json:"roleVector"`
	Evidence       map[string]DimensionEvidence `json:"dimensionEvidence"`
	Completed      bool                         `json:"completed"`
}

// AlignmentResult is the alignment portion of the final contract.
type AlignmentResult struct {
	Score    float64 `json:"score"`
	Severe   int     `json:"severeMismatches"`
	Moderate int     `json:"moderateMismatches"`
}

// SkillMatchResult is the terrain-based skill portion of the final contract.
type SkillMatchResult struct {
	Terrain           string `json:"terrain"`
	BaseScore         int    `json:"baseScore"`
	AuthorityModifier int    `json:"authorityModifier"`
	FinalScore        int    `json:"finalScore"`
}

// StretchLoadResult is the derived stretch portion of the final contract.
type StretchLoadResult struct {
	Numeric int    `json:"numeric"`
	Band    string `json:"band"`
	Note    string `json:"note"`
}

// Result is the final scoring contract.
type Result struct {
	Alignment   AlignmentResult   `json:"alignment"`
	SkillMatch  SkillMatchResult  `json:"skillMatch"`
	StretchLoad StretchLoadResult `json:"stretchLoad"`
}

// Transition is one append-only history entry.
type Transition struct {
	From  State     `json:"from"`
	To    State     `json:"to"`
	Event string    `json:"event"`
	At    time.Time `json:"at"`
}

// Session is the single unit of calibration state, keyed by ID.
type Session struct {
	ID           string                  `json:"sessionId"`
	State        State                   `json:"state"`
	Resume       Resume                  `json:"resume"`
	Prompts      [PromptCount]PromptSlot `json:"prompts"`
	PersonVector PersonVector            `json:"personVector"`
	Ritual       Ritual                  `json:"consolidationRitual"`
	Synthesis    Synthesis               `json:"synthesis"`
	Job          *JobIngest              `json:"job,omitempty"`
	Result       *Result                 `json:"result,omitempty"`
	History      []Transition            `json:"history"`
	CreatedAt    time.Time               `json:"createdAt"`
	UpdatedAt    time.Time               `json:"updatedAt"`
}

// AllPromptsAccepted reports whether every prompt slot has been accepted.
func (s *Session) AllPromptsAccepted() bool {
	for i := range s.Prompts {
		if !s.Prompts[i].Accepted {
			return false
		}
	}
	return true
}

// AnswerText concatenates accepted prompt answers in prompt order.
func (s *Session) AnswerText() string {
	var out string
	for i := range s.Prompts {
		if !s.Prompts[i].Accepted {
			continue
		}
		if out != "" {
			out += "\n"
		}
		out += s.Prompts[i].Answer
	}
	return out
}

// Clone returns a deep copy of the session. The machine transitions copies so
// callers never observe partial mutation of a stored record.
func (s *Session) Clone() *Session {
	out := *s
	if s.Job != nil {
		job := *s.Job
		job.Evidence = make(map[string]DimensionEvidence, len(s.Job.Evidence))
		for k, v := range s.Job.Evidence {
			ev := make([]string, len(v.Evidence))
			copy(ev, v.Evidence)
			job.Evidence[k] = DimensionEvidence{Level: v.Level, Evidence: ev}
		}
		out.Job = &job
	}
	if s.Result != nil {
		res := *s.Result
		out.Result = &res
	}
	for i := range s.Prompts {
		if s.Prompts[i].Clarifier != nil {
			c := *s.Prompts[i].Clarifier
			out.Prompts[i].Clarifier = &c
		}
	}
	out.History = make([]Transition, len(s.History))
	copy(out.History, s.History)
	out.Synthesis.OperateBest = append([]string(nil), s.Synthesis.OperateBest...)
	out.Synthesis.LoseEnergy = append([]string(nil), s.Synthesis.LoseEnergy...)
	out.Synthesis.TitleCandidates = append([]TitleCandidate(nil), s.Synthesis.TitleCandidates...)
	return &out
}
