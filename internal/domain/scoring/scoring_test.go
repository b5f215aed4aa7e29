package scoring_test

import (
	"testing"

	"github.com/okian/calibra/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestComputeAlignment(t *testing.T) {
	Convey("Given identical person and role vectors", t, func() {
		v := [6]int{1, 1, 1, 1, 1, 1}

		Convey("When computing alignment", func() {
			got := scoring.ComputeAlignment(v, v)

			Convey("Then the score is a perfect 10.0 with no mismatches", func() {
				So(got.Score, ShouldEqual, 10.0)
				So(got.Severe, ShouldEqual, 0)
				So(got.Moderate, ShouldEqual, 0)
			})
		})
	})

	Convey("Given vectors with mixed mismatches", t, func() {
		person := [6]int{0, 1, 2, 1, 1, 1}
		role := [6]int{2, 1, 1, 1, 1, 1}

		Convey("When computing alignment", func() {
			got := scoring.ComputeAlignment(person, role)

			Convey("Then severe and moderate mismatches are counted and weighted", func() {
				So(got.Severe, ShouldEqual, 1)
				So(got.Moderate, ShouldEqual, 1)
				// W = 1.0*1 + 0.35*1 = 1.35; 10*(1-1.35/6) = 7.75 -> 7.8
				So(got.Score, ShouldEqual, 7.8)
			})
		})

		Convey("When swapping the arguments", func() {
			a := scoring.ComputeAlignment(person, role)
			b := scoring.ComputeAlignment(role, person)

			Convey("Then the score is symmetric under |P-R|", func() {
				So(a, ShouldResemble, b)
			})
		})
	})

	Convey("Given maximally mismatched vectors", t, func() {
		Convey("When computing alignment", func() {
			got := scoring.ComputeAlignment([6]int{0, 0, 0, 0, 0, 0}, [6]int{2, 2, 2, 2, 2, 2})

			Convey("Then the score clamps at zero", func() {
				So(got.Score, ShouldEqual, 0.0)
				So(got.Severe, ShouldEqual, 6)
			})
		})
	})
}

func TestComputeSkillMatch(t *testing.T) {
	Convey("Given a role one step above experience in one dimension", t, func() {
		role := [6]int{2, 1, 1, 1, 1, 1}
		exp := [6]int{1, 1, 1, 1, 1, 1}

		Convey("When computing skill match", func() {
			got := scoring.ComputeSkillMatch(role, exp, 1)

			Convey("Then terrain is adjacent with no authority penalty", func() {
				So(got.Terrain, ShouldEqual, scoring.TerrainAdjacent)
				So(got.BaseScore, ShouldEqual, 6)
				So(got.AuthorityModifier, ShouldEqual, 0)
				So(got.FinalScore, ShouldEqual, 6)
			})
		})
	})

	Convey("Given a role two steps above experience somewhere", t, func() {
		role := [6]int{1, 1, 2, 1, 1, 1}
		exp := [6]int{1, 1, 0, 1, 1, 1}

		Convey("When computing skill match", func() {
			got := scoring.ComputeSkillMatch(role, exp, 1)

			Convey("Then terrain is new", func() {
				So(got.Terrain, ShouldEqual, scoring.TerrainNew)
				So(got.BaseScore, ShouldEqual, 3)
				So(got.FinalScore, ShouldEqual, 3)
			})
		})
	})

	Convey("Given an authority gap", t, func() {
		Convey("When the authority delta is one", func() {
			got := scoring.ComputeSkillMatch([6]int{1, 2, 1, 1, 1, 1}, [6]int{1, 1, 1, 1, 1, 1}, 1)

			Convey("Then one point is deducted", func() {
				So(got.AuthorityModifier, ShouldEqual, -1)
				So(got.FinalScore, ShouldEqual, 5)
			})
		})

		Convey("When the authority delta is two", func() {
			got := scoring.ComputeSkillMatch([6]int{1, 2, 1, 1, 1, 1}, [6]int{1, 0, 1, 1, 1, 1}, 1)

			Convey("Then two points are deducted from a new-terrain base", func() {
				So(got.Terrain, ShouldEqual, scoring.TerrainNew)
				So(got.AuthorityModifier, ShouldEqual, -2)
				So(got.FinalScore, ShouldEqual, 1)
			})
		})
	})

	Convey("Given matching vectors", t, func() {
		v := [6]int{1, 1, 1, 1, 1, 1}

		Convey("When computing skill match", func() {
			got := scoring.ComputeSkillMatch(v, v, 1)

			Convey("Then terrain is grounded with the full base score", func() {
				So(got.Terrain, ShouldEqual, scoring.TerrainGrounded)
				So(got.FinalScore, ShouldEqual, 9)
			})
		})
	})
}

func TestComputeStretchLoad(t *testing.T) {
	Convey("Given a range of final skill scores", t, func() {
		cases := []struct {
			skill   int
			numeric int
			band    string
		}{
			{9, 1, scoring.BandLow},
			{8, 2, scoring.BandLow},
			{6, 4, scoring.BandModerate},
			{5, 5, scoring.BandModerate},
			{4, 6, scoring.BandHigh},
			{3, 7, scoring.BandHigh},
			{2, 8, scoring.BandSevere},
			{0, 10, scoring.BandSevere},
		}

		for _, tc := range cases {
			Convey("When the final skill score is "+string(rune('0'+tc.skill)), func() {
				got := scoring.ComputeStretchLoad(tc.skill)

				Convey("Then the numeric and band follow the inverse formula", func() {
					So(got.Numeric, ShouldEqual, tc.numeric)
					So(got.Band, ShouldEqual, tc.band)
					So(got.Note, ShouldNotBeEmpty)
				})
			})
		}
	})
}
