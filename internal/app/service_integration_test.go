package service_test

import (
	"context"
	"testing"

	"github.com/okian/calibra/internal/domain/session"
	. "github.com/smartystreets/goconvey/convey"
)

const integrationResume = `Senior engineer.
- Led debugging efforts across distributed systems from 2016 to 2024.
- Improved deployment reliability and incident management processes.`

var integrationAnswers = [session.PromptCount]string{
	"The deployment pipeline broke during a release and I started debugging the failing stage immediately, tracing the logs end to end.",
	"We could not remove the legacy billing constraint, so I shaped the migration around it, building an adapter layer that kept both sides working.",
	"A bonus tied to ticket counts pushed the team toward closing easy tickets; I noticed when the backlog of hard debugging work stopped moving.",
	"I keep volunteering for the messy integration problems nobody owns, the ones that sit between two teams and their systems.",
	"I rebuilt our incident management runbook after a bad outage; it was mine because every step came from something that actually happened.",
}

const integrationJob = `We are a mature organization with established processes.
You will have full ownership and set the strategy for the commercial group,
carrying revenue targets and a sales pipeline. Expect ambiguous, undefined scope:
there is no playbook. The role is a generalist one with end-to-end ownership,
working with many stakeholders including the executive team and external clients.`

func TestFullInterview(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		svc := startedService(t)

		step := func(s *session.Session, ev session.Event) *session.Session {
			next, derr := svc.Dispatch(ctx, ev)
			So(derr, ShouldBeNil)
			return next
		}

		Convey("A complete interview should reach TERMINAL_COMPLETE with a result", func() {
			s := step(nil, session.CreateSession{})
			s = step(s, session.SubmitResume{Session: s.ID, Text: integrationResume})
			s = step(s, session.Advance{Session: s.ID})

			for i := 0; i < session.PromptCount; i++ {
				s = step(s, session.SubmitPromptAnswer{Session: s.ID, Text: integrationAnswers[i]})
			}
			So(s.State, ShouldEqual, session.StateConsolidationPending)

			s = step(s, session.Advance{Session: s.ID})
			for s.State == session.StateConsolidationRitual {
				s = step(s, session.Advance{Session: s.ID})
			}
			So(s.State, ShouldEqual, session.StateEncodingRitual)

			s = step(s, session.Advance{Session: s.ID})
			So(s.PersonVector.Locked, ShouldBeTrue)
			So(s.Synthesis.PatternSummary, ShouldNotBeEmpty)

			s = step(s, session.Advance{Session: s.ID})
			So(s.Synthesis.TitleCandidates, ShouldHaveLength, 5)

			s = step(s, session.TitleFeedback{Session: s.ID, Title: s.Synthesis.TitleCandidates[1].Title})
			So(s.State, ShouldEqual, session.StateTitleDialogue)
			So(s.Synthesis.WorkingTitle, ShouldEqual, s.Synthesis.TitleCandidates[1].Title)

			s = step(s, session.SubmitJobText{Session: s.ID, Text: integrationJob})
			So(s.State, ShouldEqual, session.StateJobIngest)
			So(s.Job.Completed, ShouldBeTrue)

			s = step(s, session.Advance{Session: s.ID})
			So(s.State, ShouldEqual, session.StateAlignmentOutput)

			s = step(s, session.ComputeAlignmentOutput{Session: s.ID})
			So(s.State, ShouldEqual, session.StateTerminalComplete)
			So(s.Result, ShouldNotBeNil)
			So(s.Result.Alignment.Score, ShouldBeBetweenOrEqual, 0, 10)

			stored, err := svc.GetSession(ctx, s.ID)
			So(err, ShouldBeNil)
			So(stored.State, ShouldEqual, session.StateTerminalComplete)
		})
	})
}
