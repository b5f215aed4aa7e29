package walkthrough

import (
	"fmt"

	"github.com/okian/calibra/internal/domain/session"
)

// Fixture texts driving one complete interview. The resume carries bullets,
// dates and a title keyword; every answer clears the signal threshold; the
// job text covers all six dimensions.
const scriptResume = `Senior engineer.
- Led debugging efforts across distributed systems from 2016 to 2024.
- Improved deployment reliability and incident management processes.`

var scriptAnswers = [session.PromptCount]string{
	"The deployment pipeline broke during a release and I started debugging the failing stage immediately, tracing the logs end to end.",
	"We could not remove the legacy billing constraint, so I shaped the migration around it, building an adapter layer that kept both sides working.",
	"A bonus tied to ticket counts pushed the team toward closing easy tickets; I noticed when the backlog of hard debugging work stopped moving.",
	"I keep volunteering for the messy integration problems nobody owns, the ones that sit between two teams and their systems.",
	"I rebuilt our incident management runbook after a bad outage; it was mine because every step came from something that actually happened.",
}

const scriptJob = `We are a mature organization with established processes.
You will have full ownership and set the strategy for the commercial group,
carrying revenue targets and a sales pipeline. Expect ambiguous, undefined scope:
there is no playbook. The role is a generalist one with end-to-end ownership,
working with many stakeholders including the executive team and external clients.`

// maxSteps bounds one interview; the ritual needs five advances, everything
// else one event per transition.
const maxSteps = 40

// nextEvent picks the event the script sends from the current session state.
// It drives the interview forward deterministically, answering prompts in
// order and preferring the second title candidate when one exists.
func nextEvent(s *session.Session) (session.RawEvent, error) {
	switch s.State {
	case session.StateResumeIngest:
		if s.Resume.Text == "" {
			return session.RawEvent{Type: session.TypeSubmitResume, SessionID: s.ID, Text: scriptResume}, nil
		}
		return session.RawEvent{Type: session.TypeAdvance, SessionID: s.ID}, nil
	case session.StateConsolidationPending,
		session.StateConsolidationRitual,
		session.StateEncodingRitual,
		session.StatePatternSynthesis:
		return session.RawEvent{Type: session.TypeAdvance, SessionID: s.ID}, nil
	case session.StateTitleHypothesis:
		title := s.Synthesis.WorkingTitle
		if len(s.Synthesis.TitleCandidates) > 1 {
			title = s.Synthesis.TitleCandidates[1].Title
		}
		return session.RawEvent{Type: session.TypeTitleFeedback, SessionID: s.ID, Title: title, Note: "closer to how I describe the work"}, nil
	case session.StateTitleDialogue:
		return session.RawEvent{Type: session.TypeSubmitJobText, SessionID: s.ID, Text: scriptJob}, nil
	case session.StateJobIngest:
		return session.RawEvent{Type: session.TypeAdvance, SessionID: s.ID}, nil
	case session.StateAlignmentOutput:
		return session.RawEvent{Type: session.TypeComputeAlignmentOutput, SessionID: s.ID}, nil
	default:
		if idx := promptIndex(s.State); idx >= 0 {
			return session.RawEvent{Type: session.TypeSubmitPromptAnswer, SessionID: s.ID, Text: scriptAnswers[idx]}, nil
		}
		return session.RawEvent{}, fmt.Errorf("no scripted event for state %s", s.State)
	}
}

// promptIndex returns the zero-based prompt slot for a prompt state, -1 for
// any other state.
func promptIndex(st session.State) int {
	for i := 1; i <= session.PromptCount; i++ {
		if st == session.PromptState(i) {
			return i - 1
		}
	}
	return -1
}
