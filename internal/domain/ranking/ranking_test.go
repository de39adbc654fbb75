package ranking_test

import (
	"testing"
	"time"

	"github.com/okian/vantage/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRank(t *testing.T) {
	jan := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	Convey("Given rows with distinct points", t, func() {
		placed := ranking.Rank([]ranking.Row{
			{ID: 1, Points: 10, FirstEvent: jan},
			{ID: 2, Points: 30, FirstEvent: jan},
			{ID: 3, Points: 20, FirstEvent: jan},
		})

		Convey("Positions follow points descending", func() {
			So(placed[0].ID, ShouldEqual, 2)
			So(placed[0].Rank, ShouldEqual, 1)
			So(placed[1].ID, ShouldEqual, 3)
			So(placed[1].Rank, ShouldEqual, 2)
			So(placed[2].ID, ShouldEqual, 1)
			So(placed[2].Rank, ShouldEqual, 3)
		})
	})

	Convey("Given tied points", t, func() {
		placed := ranking.Rank([]ranking.Row{
			{ID: 5, Points: 20, FirstEvent: mar},
			{ID: 4, Points: 20, FirstEvent: jan},
			{ID: 6, Points: 10, FirstEvent: jan},
		})

		Convey("Tied rows share a dense position", func() {
			So(placed[0].Rank, ShouldEqual, 1)
			So(placed[1].Rank, ShouldEqual, 1)
			So(placed[2].Rank, ShouldEqual, 2)
		})

		Convey("The earlier first event lists first", func() {
			So(placed[0].ID, ShouldEqual, 4)
			So(placed[1].ID, ShouldEqual, 5)
		})
	})

	Convey("Given ties on points and first event", t, func() {
		placed := ranking.Rank([]ranking.Row{
			{ID: 9, Points: 20, FirstEvent: jan},
			{ID: 3, Points: 20, FirstEvent: jan},
		})

		Convey("The lower ID lists first", func() {
			So(placed[0].ID, ShouldEqual, 3)
			So(placed[1].ID, ShouldEqual, 9)
		})
	})

	Convey("Given the same rows in a different input order", t, func() {
		rows := []ranking.Row{
			{ID: 1, Points: 20, FirstEvent: jan},
			{ID: 2, Points: 20, FirstEvent: jan},
			{ID: 3, Points: 5, FirstEvent: mar},
		}
		reversed := []ranking.Row{rows[2], rows[1], rows[0]}

		Convey("The output is identical", func() {
			So(ranking.Rank(reversed), ShouldResemble, ranking.Rank(rows))
		})
	})

	Convey("Given no rows", t, func() {
		So(ranking.Rank(nil), ShouldBeEmpty)
	})
}
