package walkthrough

import (
	"context"
	"testing"

	"github.com/okian/calibra/internal/domain/machine"
	"github.com/okian/calibra/internal/domain/session"
	. "github.com/smartystreets/goconvey/convey"
)

func TestScriptReachesTerminal(t *testing.T) {
	ctx := context.Background()

	Convey("Given the scripted interview and a fresh machine", t, func() {
		m := machine.NewMachine()

		s, derr := m.Dispatch(ctx, nil, session.CreateSession{})
		So(derr, ShouldBeNil)

		Convey("When the script drives the session to completion", func() {
			steps := 0
			for s.State != session.StateTerminalComplete {
				So(steps, ShouldBeLessThan, maxSteps)

				raw, err := nextEvent(s)
				So(err, ShouldBeNil)

				ev, err := session.DecodeEvent(raw)
				So(err, ShouldBeNil)

				s, derr = m.Dispatch(ctx, s, ev)
				So(derr, ShouldBeNil)
				steps++
			}

			Convey("Then the terminal session satisfies the contract", func() {
				So(verifySession(s), ShouldBeNil)
			})
		})
	})
}

func TestPromptIndex(t *testing.T) {
	Convey("Given the prompt states", t, func() {
		Convey("Then each maps to its zero-based answer slot", func() {
			for i := 1; i <= session.PromptCount; i++ {
				So(promptIndex(session.PromptState(i)), ShouldEqual, i-1)
			}
		})

		Convey("And non-prompt states map to -1", func() {
			So(promptIndex(session.StateResumeIngest), ShouldEqual, -1)
			So(promptIndex(session.StateTerminalComplete), ShouldEqual, -1)
		})
	})
}
