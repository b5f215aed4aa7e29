package anchors_test

import (
	"testing"

	"github.com/okian/calibra/internal/domain/anchors"
	. "github.com/smartystreets/goconvey/convey"
)

func TestExtract(t *testing.T) {
	Convey("Given resume and prompt text", t, func() {
		resume := "Led migration planning. Migration required planning and testing, testing, testing."
		prompts := "The migration broke. I kept testing the rollout and the planning assumptions."

		Convey("When extracting anchor candidates", func() {
			got := anchors.Extract(resume, prompts)

			Convey("Then only repeated suffix-matching tokens survive", func() {
				terms := map[string]anchors.Candidate{}
				for _, c := range got {
					terms[c.Term] = c
				}
				So(terms["testing"].Count, ShouldEqual, 4)
				So(terms["testing"].Kind, ShouldEqual, "verb")
				So(terms["planning"].Count, ShouldEqual, 3)
				So(terms["migration"].Count, ShouldEqual, 3)
				So(terms["migration"].Kind, ShouldEqual, "noun")
				// "broke" has no qualifying suffix; "required" appears once.
				So(terms, ShouldNotContainKey, "broke")
				So(terms, ShouldNotContainKey, "required")
			})

			Convey("Then verbs come before nouns, each sorted count desc then term asc", func() {
				var sawNoun bool
				for _, c := range got {
					if c.Kind == "noun" {
						sawNoun = true
					}
					if sawNoun {
						So(c.Kind, ShouldEqual, "noun")
					}
				}
			})
		})

		Convey("When extracting twice from identical input", func() {
			a := anchors.Extract(resume, prompts)
			b := anchors.Extract(resume, prompts)

			Convey("Then the output is identical", func() {
				So(a, ShouldResemble, b)
			})
		})
	})
}

func TestClassify(t *testing.T) {
	Convey("Given a term set and occurrences", t, func() {
		terms := []string{"planning", "migration", "testing", "ghost"}
		occs := []anchors.Occurrence{
			{Term: "planning", Source: "resume", Context: anchors.ContextNeutral},
			{Term: "planning", Source: "q2", Context: anchors.ContextBreakdown},
			{Term: "migration", Source: "q1", Context: anchors.ContextBreakdown},
			{Term: "testing", Source: "resume", Context: anchors.ContextNeutral},
		}

		Convey("When classifying", func() {
			got := anchors.Classify(terms, occs)
			byTerm := map[string]anchors.Record{}
			for _, r := range got {
				byTerm[r.Term] = r
			}

			Convey("Then breakdown across two sources is a signal", func() {
				So(byTerm["planning"].Classification, ShouldEqual, anchors.ClassSignal)
				So(byTerm["planning"].Reason, ShouldEqual, anchors.ReasonBreakdownTwoPlus)
				So(byTerm["planning"].DistinctSources, ShouldResemble, []string{"q2", "resume"})
			})

			Convey("Then breakdown confined to one source is neutral", func() {
				So(byTerm["migration"].Classification, ShouldEqual, anchors.ClassNeutral)
				So(byTerm["migration"].Reason, ShouldEqual, anchors.ReasonBreakdownSingleSource)
			})

			Convey("Then resume-only without breakdown is a skill", func() {
				So(byTerm["testing"].Classification, ShouldEqual, anchors.ClassSkill)
				So(byTerm["testing"].Reason, ShouldEqual, anchors.ReasonResumeNoBreakdown)
			})

			Convey("Then a declared term with zero occurrences is neutral with zero counts", func() {
				So(byTerm["ghost"].Classification, ShouldEqual, anchors.ClassNeutral)
				So(byTerm["ghost"].Reason, ShouldEqual, anchors.ReasonNoBreakdown)
				So(byTerm["ghost"].TotalCount, ShouldEqual, 0)
				So(len(byTerm["ghost"].DistinctSources), ShouldEqual, 0)
				So(len(byTerm["ghost"].ContextCounts), ShouldEqual, 0)
			})

			Convey("Then records are sorted count desc then term asc", func() {
				So(got[0].Term, ShouldEqual, "planning")
				So(got[len(got)-1].Term, ShouldEqual, "ghost")
			})
		})

		Convey("When classifying twice with the same occurrence list", func() {
			a := anchors.Classify(terms, occs)
			b := anchors.Classify(terms, occs)

			Convey("Then the output is deep-equal", func() {
				So(a, ShouldResemble, b)
			})
		})

		Convey("When a term appears only in prompt answers without breakdown", func() {
			got := anchors.Classify([]string{"rhythm"}, []anchors.Occurrence{
				{Term: "rhythm", Source: "q3", Context: anchors.ContextNeutral},
			})

			Convey("Then it is neutral with the prompt-only reason", func() {
				So(got[0].Classification, ShouldEqual, anchors.ClassNeutral)
				So(got[0].Reason, ShouldEqual, anchors.ReasonPromptOnly)
			})
		})
	})
}
