// Package machine is the calibration state machine. It is the only
// component with transition authority: every external event flows through
// Dispatch, which applies at most one state transition per call against a
// clone of the stored session, so callers never observe partial mutation.
package machine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/calibra/internal/domain/anchors"
	"github.com/okian/calibra/internal/domain/jobscan"
	"github.com/okian/calibra/internal/domain/scoring"
	"github.com/okian/calibra/internal/domain/session"
	"github.com/okian/calibra/internal/domain/synthesis"
	"github.com/okian/calibra/pkg/logger"
)

// Machine applies calibration events to sessions. It holds no session
// state itself; storage and per-session serialization are the caller's
// concern.
type Machine struct {
	runner *synthesis.Runner
	log    logger.Logger
	now    func() time.Time
	newID  func() string
}

// Option configures a Machine.
type Option func(*Machine)

// WithRunner sets the synthesis runner used during the encoding ritual.
func WithRunner(r *synthesis.Runner) Option {
	return func(m *Machine) {
		if r != nil {
			m.runner = r
		}
	}
}

// WithLogger sets the machine logger.
func WithLogger(l logger.Logger) Option {
	return func(m *Machine) {
		if l != nil {
			m.log = l
		}
	}
}

// WithClock sets the time source for history entries. Tests inject a fixed
// clock so replayed event sequences produce identical histories.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		if now != nil {
			m.now = now
		}
	}
}

// WithIDGenerator sets the session id source.
func WithIDGenerator(gen func() string) Option {
	return func(m *Machine) {
		if gen != nil {
			m.newID = gen
		}
	}
}

// NewMachine builds a Machine with the deterministic template generator.
func NewMachine(opts ...Option) *Machine {
	m := &Machine{
		runner: synthesis.NewRunner(),
		log:    logger.NewNop(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Dispatch applies one event. On success it returns a new session value
// with exactly one appended history entry; the input session is never
// mutated. On failure the returned error carries a stable code and the
// input session is the authoritative state.
func (m *Machine) Dispatch(ctx context.Context, sess *session.Session, ev session.Event) (*session.Session, *Error) {
	if _, ok := ev.(session.CreateSession); ok {
		return m.create(), nil
	}
	if sess == nil {
		return nil, newError(CodeSessionNotFound, "session %q not found", ev.SessionID())
	}

	next := sess.Clone()
	to, derr := m.apply(ctx, next, ev)
	if derr != nil {
		return nil, derr
	}

	at := m.now()
	next.History = append(next.History, session.Transition{
		From:  sess.State,
		To:    to,
		Event: ev.Type(),
		At:    at,
	})
	next.State = to
	next.UpdatedAt = at
	return next, nil
}

func (m *Machine) create() *session.Session {
	at := m.now()
	s := &session.Session{
		ID:        m.newID(),
		State:     session.StateResumeIngest,
		CreatedAt: at,
		UpdatedAt: at,
	}
	for i := range s.Prompts {
		s.Prompts[i].Question = promptQuestions[i]
	}
	s.History = append(s.History, session.Transition{
		From:  session.StateResumeIngest,
		To:    session.StateResumeIngest,
		Event: session.TypeCreateSession,
		At:    at,
	})
	return s
}

// apply mutates the cloned session per the event and returns the target
// state. Any error leaves the stored session untouched because the clone
// is discarded.
func (m *Machine) apply(ctx context.Context, s *session.Session, ev session.Event) (session.State, *Error) {
	if n, clarifier, ok := session.PromptIndex(s.State); ok {
		if clarifier {
			return m.applyClarifier(s, n, ev)
		}
		return m.applyPrompt(s, n, ev)
	}

	switch s.State {
	case session.StateResumeIngest:
		switch e := ev.(type) {
		case session.SubmitResume:
			s.Resume = deriveResume(e.Text)
			return s.State, nil
		case session.Advance:
			if strings.TrimSpace(s.Resume.Text) == "" {
				return "", newError(CodeBadRequest, "resume must be submitted before advancing")
			}
			return session.PromptState(1), nil
		}

	case session.StateConsolidationPending:
		if _, ok := ev.(session.Advance); ok {
			if !s.AllPromptsAccepted() {
				return "", newError(CodeRitualNotReady, "all %d prompts must be accepted before the ritual", session.PromptCount)
			}
			s.Ritual = session.Ritual{}
			return session.StateConsolidationRitual, nil
		}

	case session.StateConsolidationRitual:
		if _, ok := ev.(session.Advance); ok {
			s.Ritual.Progress += ritualStep
			if s.Ritual.Progress > ritualComplete {
				s.Ritual.Progress = ritualComplete
			}
			s.Ritual.Message = ritualMessage(s.Ritual.Progress)
			if s.Ritual.Progress >= ritualComplete {
				s.Ritual.Completed = true
				return session.StateEncodingRitual, nil
			}
			return s.State, nil
		}

	case session.StateEncodingRitual:
		if _, ok := ev.(session.Advance); ok {
			m.runEncoding(ctx, s)
			return session.StatePatternSynthesis, nil
		}

	case session.StatePatternSynthesis:
		if _, ok := ev.(session.Advance); ok {
			if len(s.Synthesis.TitleCandidates) == 0 {
				cands := RankTitles(s.PersonVector.Values, s.Resume.Text+"\n"+s.AnswerText())
				s.Synthesis.TitleCandidates = cands
				if len(cands) > 0 {
					s.Synthesis.WorkingTitle = cands[0].Title
				}
			}
			return session.StateTitleHypothesis, nil
		}

	case session.StateTitleHypothesis:
		switch e := ev.(type) {
		case session.TitleFeedback:
			if t := strings.TrimSpace(e.Title); t != "" {
				s.Synthesis.WorkingTitle = t
			}
			return session.StateTitleDialogue, nil
		case session.Advance:
			return session.StateTitleDialogue, nil
		}

	case session.StateTitleDialogue:
		switch e := ev.(type) {
		case session.TitleFeedback:
			if t := strings.TrimSpace(e.Title); t != "" {
				s.Synthesis.WorkingTitle = t
			}
			return s.State, nil
		case session.SubmitJobText:
			if derr := m.ingestJob(ctx, s, e.Text); derr != nil {
				return "", derr
			}
			return session.StateJobIngest, nil
		case session.Advance:
			return advancePastJob(s)
		}

	case session.StateJobIngest:
		switch e := ev.(type) {
		case session.SubmitJobText:
			if derr := m.ingestJob(ctx, s, e.Text); derr != nil {
				return "", derr
			}
			return s.State, nil
		case session.Advance:
			return advancePastJob(s)
		}

	case session.StateAlignmentOutput:
		if _, ok := ev.(session.ComputeAlignmentOutput); ok {
			if derr := computeResult(s); derr != nil {
				return "", derr
			}
			return session.StateTerminalComplete, nil
		}
	}

	return "", newError(CodeInvalidEventForState, "event %s is not valid in state %s", ev.Type(), s.State)
}

func (m *Machine) applyPrompt(s *session.Session, n int, ev session.Event) (session.State, *Error) {
	e, ok := ev.(session.SubmitPromptAnswer)
	if !ok {
		return "", newError(CodeInvalidEventForState, "event %s is not valid in state %s", ev.Type(), s.State)
	}

	slot := &s.Prompts[n-1]
	if slot.Frozen {
		return "", newError(CodePromptFrozen, "prompt %d already has an accepted answer", n)
	}

	if len(strings.TrimSpace(e.Text)) < signalThreshold && !clarifierUsed(slot) {
		slot.Clarifier = &session.Clarifier{Question: clarifierQuestion, Used: true}
		return session.ClarifierState(n), nil
	}

	acceptAnswer(slot, e.Text)
	return nextPromptState(n), nil
}

func (m *Machine) applyClarifier(s *session.Session, n int, ev session.Event) (session.State, *Error) {
	e, ok := ev.(session.SubmitPromptClarifierAnswer)
	if !ok {
		return "", newError(CodeInvalidEventForState, "event %s is not valid in state %s", ev.Type(), s.State)
	}

	slot := &s.Prompts[n-1]
	if slot.Frozen {
		return "", newError(CodePromptFrozen, "prompt %d already has an accepted answer", n)
	}
	if len(strings.TrimSpace(e.Text)) < signalThreshold {
		return "", newError(CodeInsufficientSignalAfterClarifier,
			"clarifier answer for prompt %d is still under %d characters", n, signalThreshold)
	}

	if slot.Clarifier != nil {
		slot.Clarifier.Answer = e.Text
	}
	acceptAnswer(slot, e.Text)
	return nextPromptState(n), nil
}

func clarifierUsed(slot *session.PromptSlot) bool {
	return slot.Clarifier != nil && slot.Clarifier.Used
}

func acceptAnswer(slot *session.PromptSlot, text string) {
	slot.Answer = text
	slot.Accepted = true
	slot.Frozen = true
}

func nextPromptState(n int) session.State {
	if n >= session.PromptCount {
		return session.StateConsolidationPending
	}
	return session.PromptState(n + 1)
}

// runEncoding locks the person vector (idempotent) and runs the synthesis
// pipeline exactly once, in the same ADVANCE call.
func (m *Machine) runEncoding(ctx context.Context, s *session.Session) {
	answers := s.AnswerText()
	transcript := s.Resume.Text + "\n" + answers

	if !s.PersonVector.Locked {
		s.PersonVector = session.PersonVector{Values: EncodeVector(transcript), Locked: true}
	}

	cands := anchors.Extract(s.Resume.Text, answers)
	terms := make([]string, 0, len(cands))
	for _, c := range cands {
		terms = append(terms, c.Term)
	}
	records := anchors.Classify(terms, collectOccurrences(s, terms))
	signal := anchors.SignalTerms(records)
	skill := anchors.SkillTerms(records)

	allowed := make([]string, 0, len(signal)+len(skill))
	allowed = append(allowed, signal...)
	allowed = append(allowed, skill...)

	res := m.runner.Synthesize(ctx, synthesis.Prompt{
		PersonVector: [session.VectorDimensions]int(s.PersonVector.Values),
		SignalTerms:  signal,
		SkillTerms:   skill,
	}, allowed)

	s.Synthesis.PatternSummary = res.Text()
	s.Synthesis.ValidatorOutcome = string(res.Outcome)
	s.Synthesis.DidRepair = res.DidRepair
	s.Synthesis.OperateBest = operateBullets(skill)
	s.Synthesis.LoseEnergy = loseBullets(signal)
}

// collectOccurrences builds the flat occurrence list the classifier
// aggregates, one entry per token sighting, iterated in term order so the
// list is deterministic.
func collectOccurrences(s *session.Session, terms []string) []anchors.Occurrence {
	var occs []anchors.Occurrence
	add := func(text, source, context string) {
		counts := anchors.TermCounts(text, terms)
		for _, term := range terms {
			for i := 0; i < counts[term]; i++ {
				occs = append(occs, anchors.Occurrence{Term: term, Source: source, Context: context})
			}
		}
	}

	add(s.Resume.Text, anchors.SourceResume, anchors.ContextNeutral)
	for i := range s.Prompts {
		if !s.Prompts[i].Accepted {
			continue
		}
		add(s.Prompts[i].Answer, fmt.Sprintf("q%d", i+1), promptContexts[i])
	}
	return occs
}

const maxSynthesisBullets = 3

func operateBullets(skill []string) []string {
	if len(skill) == 0 {
		return []string{"Work with clear ownership and a concrete surface."}
	}
	out := make([]string, 0, maxSynthesisBullets)
	for _, term := range skill {
		out = append(out, "Work that draws on "+term+".")
		if len(out) == maxSynthesisBullets {
			break
		}
	}
	return out
}

func loseBullets(signal []string) []string {
	if len(signal) == 0 {
		return []string{"Long stretches with no visible effect."}
	}
	out := make([]string, 0, maxSynthesisBullets)
	for _, term := range signal {
		out = append(out, "Situations that keep surfacing "+term+".")
		if len(out) == maxSynthesisBullets {
			break
		}
	}
	return out
}

// ingestJob encodes the job text and replaces the session's job record
// wholesale. A replaced job invalidates any previously computed result.
func (m *Machine) ingestJob(ctx context.Context, s *session.Session, text string) *Error {
	obj, err := jobscan.Ingest(text)
	if err != nil {
		var incomplete *jobscan.IncompleteCoverageError
		switch {
		case errors.Is(err, jobscan.ErrMissingJobText):
			return newError(CodeMissingJobText, "job text must be at least 40 characters")
		case errors.As(err, &incomplete):
			return newError(CodeIncompleteDimensionCoverage,
				"no evidence found for: %s", strings.Join(incomplete.Missing, ", "))
		case errors.Is(err, jobscan.ErrNoSignal):
			return newError(CodeUnableToExtractAnySignal, "no dimension signal could be extracted from the job text")
		default:
			m.log.Error(ctx, "job ingestion failed", logger.Error(err))
			return newError(CodeInternal, "internal error")
		}
	}

	evidence := make(map[string]session.DimensionEvidence, len(obj.Evidence))
	for dim, ev := range obj.Evidence {
		evidence[dim] = session.DimensionEvidence{
			Level:    ev.Level,
			Evidence: append([]string(nil), ev.Evidence...),
		}
	}
	s.Job = &session.JobIngest{
		JobText:        obj.JobText,
		NormalizedText: obj.NormalizedText,
		RoleVector:     session.Vector(obj.RoleVector),
		Evidence:       evidence,
		Completed:      true,
	}
	s.Result = nil
	return nil
}

func advancePastJob(s *session.Session) (session.State, *Error) {
	if s.Job == nil {
		return "", newError(CodeJobRequired, "a job description must be submitted first")
	}
	if !s.Job.Completed {
		return "", newError(CodeJobEncodingIncomplete, "job encoding did not complete")
	}
	if s.Result == nil {
		return session.StateAlignmentOutput, nil
	}
	return session.StateTerminalComplete, nil
}

func computeResult(s *session.Session) *Error {
	if s.Job == nil || !s.Job.Completed {
		return newError(CodeJobRequired, "a job description must be submitted first")
	}

	person := [session.VectorDimensions]int(s.PersonVector.Values)
	role := [session.VectorDimensions]int(s.Job.RoleVector)

	alignment := scoring.ComputeAlignment(person, role)
	skillMatch := scoring.ComputeSkillMatch(role, person, jobscan.AuthorityIndex)
	stretch := scoring.ComputeStretchLoad(skillMatch.FinalScore)

	s.Result = &session.Result{
		Alignment: session.AlignmentResult{
			Score:    alignment.Score,
			Severe:   alignment.Severe,
			Moderate: alignment.Moderate,
		},
		SkillMatch: session.SkillMatchResult{
			Terrain:           skillMatch.Terrain,
			BaseScore:         skillMatch.BaseScore,
			AuthorityModifier: skillMatch.AuthorityModifier,
			FinalScore:        skillMatch.FinalScore,
		},
		StretchLoad: session.StretchLoadResult{
			Numeric: stretch.Numeric,
			Band:    stretch.Band,
			Note:    stretch.Note,
		},
	}
	return nil
}
