package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/vantage/internal/adapters/snapshot"
	"github.com/okian/vantage/internal/domain/model"
	"github.com/okian/vantage/internal/engine"
	. "github.com/smartystreets/goconvey/convey"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// fixtureDataset holds one private crunch with three ranked users, two
// of them affiliated with the same university, plus submission counts.
func fixtureDataset() *model.Dataset {
	return &model.Dataset{
		Competitions: []model.Competition{
			{ID: 1, Name: "alpha", Mode: model.ModeOffline, PrizePoolUSD: 100_000},
		},
		Targets:  []model.Target{{ID: 1, CompetitionID: 1, PrizeShareUSD: 100_000}},
		Rounds:   []model.Round{{ID: 1, CompetitionID: 1}},
		Phases:   []model.Phase{{ID: 1, RoundID: 1, Kind: model.PhaseOutOfSample}},
		Crunches: []model.Crunch{{ID: 1, PhaseID: 1, Number: 1, End: day(2024, time.May, 1)}},
		Boards: []model.Board{
			{CrunchID: 1, TargetID: 1, Size: 100, Entries: []model.RankingEntry{
				{CrunchID: 1, TargetID: 1, UserID: 10, Rank: 1},
				{CrunchID: 1, TargetID: 1, UserID: 11, Rank: 2},
				{CrunchID: 1, TargetID: 1, UserID: 12, Rank: 3},
			}},
		},
		Users: []model.User{
			{ID: 10, Login: "ada"},
			{ID: 11, Login: "grace"},
			{ID: 12, Login: "alan"},
			{ID: 13, Login: "idle"},
		},
		Universities: []model.University{
			{Name: "ETH Zurich", URL: "https://ethz.ch", Country: "CH"},
		},
		Participations: []model.Participation{
			{UserID: 11, CompetitionID: 1, University: "ETH Zurich", CreatedAt: day(2024, time.April, 1)},
			{UserID: 12, CompetitionID: 1, University: "ETH Zurich", CreatedAt: day(2024, time.April, 2)},
			// Registered but never scored; one registration postdates May 10.
			{UserID: 11, CompetitionID: 2, University: "ETH Zurich", CreatedAt: day(2024, time.April, 15)},
			{UserID: 11, CompetitionID: 3, University: "ETH Zurich", CreatedAt: day(2024, time.June, 1)},
		},
		Submissions: []model.DailySubmissionCount{
			{UserID: 10, Date: day(2024, time.April, 20), Count: 4},
			{UserID: 10, Date: day(2024, time.June, 1), Count: 9},
		},
	}
}

func newEngine(data *model.Dataset, store snapshot.HistoryStore) *engine.Engine {
	e, err := engine.New(snapshot.NewStaticSource(data), store, engine.WithWorkerCount(4))
	So(err, ShouldBeNil)
	return e
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	asOf := day(2024, time.May, 10)

	Convey("Given the fixture dataset", t, func() {
		store := snapshot.NewMemoryStore()
		eng := newEngine(fixtureDataset(), store)

		Convey("A run commits one snapshot with ranked users", func() {
			report, err := eng.Run(ctx, asOf)
			So(err, ShouldBeNil)
			So(report.Replaced, ShouldBeFalse)
			So(report.Users, ShouldEqual, 3)
			So(report.Events, ShouldEqual, 3)

			snap, ok, err := store.LatestBefore(ctx, asOf.AddDate(0, 0, 1))
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)

			Convey("Positions follow leaderboard order", func() {
				So(snap.Users[0].UserID, ShouldEqual, model.UserID(10))
				So(snap.Users[0].Rank, ShouldEqual, 1)
				So(snap.Users[1].UserID, ShouldEqual, model.UserID(11))
				So(snap.Users[2].UserID, ShouldEqual, model.UserID(12))
				So(snap.Users[0].Points, ShouldBeGreaterThan, snap.Users[1].Points)
			})

			Convey("The user without events is absent", func() {
				for _, u := range snap.Users {
					So(u.UserID, ShouldNotEqual, model.UserID(13))
				}
			})

			Convey("Affiliated users share an institution with member ranks", func() {
				So(snap.Institutions, ShouldHaveLength, 1)
				inst := snap.Institutions[0]
				So(inst.Rank, ShouldEqual, 1)
				So(inst.MemberCount, ShouldEqual, 2)
				So(inst.MemberPoints, ShouldEqual, snap.Users[1].Points+snap.Users[2].Points)
				So(inst.Points, ShouldBeLessThan, inst.MemberPoints)
				So(inst.TopUserIDs, ShouldResemble, []model.UserID{11, 12})

				So(snap.Users[1].InstitutionID, ShouldEqual, inst.InstitutionID)
				So(snap.Users[1].InstitutionMemberRank, ShouldEqual, 1)
				So(snap.Users[2].InstitutionMemberRank, ShouldEqual, 2)
				So(snap.Users[0].InstitutionID, ShouldEqual, model.InstitutionID(0))
			})

			Convey("Participation summaries name the best ranked member", func() {
				So(snap.Participations, ShouldHaveLength, 1)
				part := snap.Participations[0]
				So(part.CompetitionID, ShouldEqual, model.CompetitionID(1))
				So(part.BestUserID, ShouldEqual, model.UserID(11))
				So(part.BestUserRank, ShouldEqual, 2)
				So(part.MemberCount, ShouldEqual, 2)
			})

			Convey("Submission counts only include dates up to as-of", func() {
				So(snap.Users[0].SubmissionCount, ShouldEqual, 4)
			})

			Convey("Participation counts follow registrations up to as-of", func() {
				// User 10 scored without registering; user 11 registered
				// for two competitions by May 10, scoring in one.
				So(snap.Users[0].ParticipationCount, ShouldEqual, 0)
				So(snap.Users[1].ParticipationCount, ShouldEqual, 2)
				So(snap.Users[2].ParticipationCount, ShouldEqual, 1)
			})

			Convey("The institution counts as newly created", func() {
				So(report.NewInstitutions, ShouldEqual, 1)
			})
		})

		Convey("Re-running the same date replaces the snapshot with identical content", func() {
			_, err := eng.Run(ctx, asOf)
			So(err, ShouldBeNil)
			first, _, _ := store.LatestBefore(ctx, asOf.AddDate(0, 0, 1))

			report, err := eng.Run(ctx, asOf)
			So(err, ShouldBeNil)
			So(report.Replaced, ShouldBeTrue)

			second, _, _ := store.LatestBefore(ctx, asOf.AddDate(0, 0, 1))
			So(second.Users, ShouldResemble, first.Users)
			So(second.Institutions, ShouldResemble, first.Institutions)
			So(second.Participations, ShouldResemble, first.Participations)
			So(store.Dates(), ShouldHaveLength, 1)

			Convey("The day's institutions are not announced again", func() {
				So(report.NewInstitutions, ShouldEqual, 0)
			})
		})

		Convey("A run dated before the crunch sees no events", func() {
			report, err := eng.Run(ctx, day(2024, time.April, 1))
			So(err, ShouldBeNil)
			So(report.Users, ShouldEqual, 0)
			So(report.Events, ShouldEqual, 3)
		})

		Convey("A cancelled context aborts before the commit point", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			_, err := eng.Run(cancelled, asOf)
			So(err, ShouldNotBeNil)
			So(store.Dates(), ShouldBeEmpty)
		})
	})
}

func TestInstitutionParticipationRanks(t *testing.T) {
	ctx := context.Background()

	Convey("Given affiliated members ranked 4 and 5 on the board", t, func() {
		data := fixtureDataset()
		data.Boards[0].Entries = []model.RankingEntry{
			{CrunchID: 1, TargetID: 1, UserID: 10, Rank: 1},
			{CrunchID: 1, TargetID: 1, UserID: 11, Rank: 4},
			{CrunchID: 1, TargetID: 1, UserID: 12, Rank: 5},
		}

		store := snapshot.NewMemoryStore()
		eng := newEngine(data, store)
		_, err := eng.Run(ctx, day(2024, time.May, 10))
		So(err, ShouldBeNil)

		snap, ok, _ := store.LatestBefore(ctx, day(2024, time.May, 11))
		So(ok, ShouldBeTrue)

		Convey("The summary holds the member's leaderboard rank", func() {
			So(snap.Participations, ShouldHaveLength, 1)
			part := snap.Participations[0]
			So(part.BestUserID, ShouldEqual, model.UserID(11))
			// Board rank, not the member's global position (2).
			So(part.BestUserRank, ShouldEqual, 4)
		})
	})
}

func TestBestRankCarryForward(t *testing.T) {
	ctx := context.Background()

	Convey("Given a previous snapshot where a user ranked better", t, func() {
		store := snapshot.NewMemoryStore()
		prev := model.GlobalSnapshot{
			AsOf: day(2024, time.May, 5),
			Users: []model.UserPosition{
				{UserID: 11, Rank: 1, BestRank: 1, Points: 999},
			},
		}
		_, err := store.Commit(ctx, prev)
		So(err, ShouldBeNil)

		eng := newEngine(fixtureDataset(), store)

		Convey("The better historical rank survives a worse current one", func() {
			_, err := eng.Run(ctx, day(2024, time.May, 10))
			So(err, ShouldBeNil)

			snap, ok, _ := store.LatestBefore(ctx, day(2024, time.May, 11))
			So(ok, ShouldBeTrue)

			var user11 model.UserPosition
			for _, u := range snap.Users {
				if u.UserID == 11 {
					user11 = u
				}
			}
			So(user11.Rank, ShouldEqual, 2)
			So(user11.BestRank, ShouldEqual, 1)
		})
	})
}

func TestBackfill(t *testing.T) {
	ctx := context.Background()

	Convey("Given a three day backfill window", t, func() {
		store := snapshot.NewMemoryStore()
		eng := newEngine(fixtureDataset(), store)

		reports, err := eng.Backfill(ctx, day(2024, time.May, 9), day(2024, time.May, 11))
		So(err, ShouldBeNil)

		Convey("One snapshot per date is committed, oldest first", func() {
			So(reports, ShouldHaveLength, 3)
			So(store.Dates(), ShouldHaveLength, 3)
			So(reports[0].AsOf.Before(reports[1].AsOf), ShouldBeTrue)
		})

		Convey("Later dates hold fewer or equal points due to decay", func() {
			first, _, _ := store.LatestBefore(ctx, day(2024, time.May, 10))
			last, _, _ := store.LatestBefore(ctx, day(2024, time.May, 12))
			So(last.Users[0].Points, ShouldBeLessThanOrEqualTo, first.Users[0].Points)
		})
	})
}
