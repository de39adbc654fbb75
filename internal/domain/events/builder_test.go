package events_test

import (
	"testing"
	"time"

	"github.com/okian/vantage/internal/domain/eligibility"
	"github.com/okian/vantage/internal/domain/events"
	"github.com/okian/vantage/internal/domain/model"
	"github.com/okian/vantage/internal/domain/points"
	"github.com/okian/vantage/internal/domain/weights"
	. "github.com/smartystreets/goconvey/convey"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newBuilder(data *model.Dataset) *events.Builder {
	ranks := weights.NewRankModel(1.0)
	phases, _ := weights.NewPhaseModel(0.1, 0.9)
	return events.NewBuilder(
		data,
		eligibility.NewFilter(500),
		phases,
		points.NewModernCalculator(ranks),
		points.NewLegacyCalculator(ranks, 0.9, 260),
		52,
	)
}

// oneCrunchDataset builds a competition with a single private crunch
// and a single target, the smallest shape that produces events.
func oneCrunchDataset(entries []model.RankingEntry, size int) *model.Dataset {
	return &model.Dataset{
		Competitions: []model.Competition{
			{ID: 1, Name: "alpha", Mode: model.ModeOffline, PrizePoolUSD: 100_000},
		},
		Targets: []model.Target{
			{ID: 1, CompetitionID: 1, Name: "main", PrizeShareUSD: 100_000},
		},
		Rounds:   []model.Round{{ID: 1, CompetitionID: 1}},
		Phases:   []model.Phase{{ID: 1, RoundID: 1, Kind: model.PhaseOutOfSample}},
		Crunches: []model.Crunch{{ID: 1, PhaseID: 1, Number: 1, End: day(2024, time.May, 1)}},
		Boards: []model.Board{
			{CrunchID: 1, TargetID: 1, Size: size, Entries: entries},
		},
		Users: []model.User{{ID: 10, Login: "solo"}},
	}
}

func TestOfflineEvents(t *testing.T) {
	Convey("Given a solo rank-1 user on a one-crunch private competition", t, func() {
		data := oneCrunchDataset([]model.RankingEntry{
			{CrunchID: 1, TargetID: 1, UserID: 10, Rank: 1},
		}, 100)
		b := newBuilder(data)

		stats := events.NewStats()
		evs := b.Determine(data.Users[0], stats)

		Convey("Exactly one event is produced", func() {
			So(evs, ShouldHaveLength, 1)
			So(stats.Events, ShouldEqual, 1)
		})

		Convey("Raw points follow pool x rankWeight x targetWeight x phaseWeight", func() {
			ranks := weights.NewRankModel(1.0)
			want := 100_000 * ranks.Weight(1, 100) * 1.0 * 0.9
			So(evs[0].RawPoints, ShouldAlmostEqual, want, 1e-9)
		})

		Convey("The event starts on the crunch end date", func() {
			So(evs[0].Start.Equal(day(2024, time.May, 1)), ShouldBeTrue)
			So(evs[0].Phase, ShouldEqual, model.PhaseOutOfSample)
		})
	})

	Convey("Given a user ranked 600", t, func() {
		data := oneCrunchDataset([]model.RankingEntry{
			{CrunchID: 1, TargetID: 1, UserID: 10, Rank: 600},
		}, 1000)
		b := newBuilder(data)

		stats := events.NewStats()
		evs := b.Determine(data.Users[0], stats)

		Convey("No event is produced and the rejection is counted", func() {
			So(evs, ShouldBeEmpty)
			So(stats.Ineligible[eligibility.ReasonRankCutoff], ShouldEqual, 1)
		})
	})

	Convey("Given a duplicate-flagged entry", t, func() {
		data := oneCrunchDataset([]model.RankingEntry{
			{CrunchID: 1, TargetID: 1, UserID: 10, Rank: 1, Duplicate: true},
		}, 100)
		b := newBuilder(data)

		stats := events.NewStats()
		evs := b.Determine(data.Users[0], stats)

		So(evs, ShouldBeEmpty)
		So(stats.Ineligible[eligibility.ReasonDuplicate], ShouldEqual, 1)
	})
}

func TestTeamAsymmetry(t *testing.T) {
	// One round, a public crunch and a private crunch. Only user 10
	// appears on the public board; both members appear on the private
	// board with ranks 5 and 50.
	data := &model.Dataset{
		Competitions: []model.Competition{
			{ID: 1, Name: "teamed", Mode: model.ModeOffline, PrizePoolUSD: 100_000},
		},
		Targets: []model.Target{{ID: 1, CompetitionID: 1, PrizeShareUSD: 100_000}},
		Rounds:  []model.Round{{ID: 1, CompetitionID: 1}},
		Phases: []model.Phase{
			{ID: 1, RoundID: 1, Kind: model.PhaseSubmission},
			{ID: 2, RoundID: 1, Kind: model.PhaseOutOfSample},
		},
		Crunches: []model.Crunch{
			{ID: 1, PhaseID: 1, Number: 1, End: day(2024, time.April, 1)},
			{ID: 2, PhaseID: 2, Number: 1, End: day(2024, time.May, 1)},
		},
		Boards: []model.Board{
			{CrunchID: 1, TargetID: 1, Size: 100, Entries: []model.RankingEntry{
				{CrunchID: 1, TargetID: 1, UserID: 10, TeamID: 7, Rank: 5},
			}},
			{CrunchID: 2, TargetID: 1, Size: 100, Entries: []model.RankingEntry{
				{CrunchID: 2, TargetID: 1, UserID: 10, TeamID: 7, Rank: 5},
				{CrunchID: 2, TargetID: 1, UserID: 11, TeamID: 7, Rank: 50},
			}},
		},
		Teams:       []model.Team{{ID: 7, CompetitionID: 1}},
		TeamMembers: []model.TeamMember{{TeamID: 7, UserID: 10}, {TeamID: 7, UserID: 11}},
		Users:       []model.User{{ID: 10, Login: "ace"}, {ID: 11, Login: "mate"}},
	}

	Convey("Given two teammates and a public/private crunch pair", t, func() {
		b := newBuilder(data)

		Convey("The appearing member scores both crunches from rank 5", func() {
			evs := b.Determine(data.Users[0], events.NewStats())
			So(evs, ShouldHaveLength, 2)
			for _, ev := range evs {
				So(ev.Rank, ShouldEqual, 5)
			}
		})

		Convey("The absent member scores only the private crunch, at the team's rank", func() {
			evs := b.Determine(data.Users[1], events.NewStats())
			So(evs, ShouldHaveLength, 1)
			So(evs[0].Rank, ShouldEqual, 5)
			So(evs[0].Phase, ShouldEqual, model.PhaseOutOfSample)
			So(evs[0].CrunchID, ShouldEqual, model.CrunchID(2))
		})

		Convey("Both teammates earn identical private-crunch raw points", func() {
			evs10 := b.Determine(data.Users[0], events.NewStats())
			evs11 := b.Determine(data.Users[1], events.NewStats())

			var private10 float64
			for _, ev := range evs10 {
				if ev.CrunchID == 2 {
					private10 = ev.RawPoints
				}
			}
			So(evs11[0].RawPoints, ShouldEqual, private10)
			So(private10, ShouldBeGreaterThan, 0)
		})
	})
}

func TestOutOfSampleFinalCrunchOnly(t *testing.T) {
	Convey("Given an out-of-sample phase with three crunches", t, func() {
		data := &model.Dataset{
			Competitions: []model.Competition{{ID: 1, Mode: model.ModeOffline, PrizePoolUSD: 10_000}},
			Targets:      []model.Target{{ID: 1, CompetitionID: 1, PrizeShareUSD: 10_000}},
			Rounds:       []model.Round{{ID: 1, CompetitionID: 1}},
			Phases:       []model.Phase{{ID: 1, RoundID: 1, Kind: model.PhaseOutOfSample}},
			Crunches: []model.Crunch{
				{ID: 1, PhaseID: 1, Number: 1, End: day(2024, time.March, 1)},
				{ID: 2, PhaseID: 1, Number: 2, End: day(2024, time.March, 8)},
				{ID: 3, PhaseID: 1, Number: 3, End: day(2024, time.March, 15)},
			},
			Boards: []model.Board{
				{CrunchID: 1, TargetID: 1, Size: 10, Entries: []model.RankingEntry{{CrunchID: 1, TargetID: 1, UserID: 10, Rank: 1}}},
				{CrunchID: 2, TargetID: 1, Size: 10, Entries: []model.RankingEntry{{CrunchID: 2, TargetID: 1, UserID: 10, Rank: 1}}},
				{CrunchID: 3, TargetID: 1, Size: 10, Entries: []model.RankingEntry{{CrunchID: 3, TargetID: 1, UserID: 10, Rank: 1}}},
			},
			Users: []model.User{{ID: 10}},
		}
		b := newBuilder(data)

		evs := b.Determine(data.Users[0], events.NewStats())

		Convey("Only the final crunch scores", func() {
			So(evs, ShouldHaveLength, 1)
			So(evs[0].CrunchID, ShouldEqual, model.CrunchID(3))
		})
	})
}

func TestVirtualTargetShadowing(t *testing.T) {
	Convey("Given a competition with plain and virtual targets", t, func() {
		data := oneCrunchDataset(nil, 10)
		data.Targets = []model.Target{
			{ID: 1, CompetitionID: 1, Name: "plain", PrizeShareUSD: 50_000},
			{ID: 2, CompetitionID: 1, Name: "virtual", PrizeShareUSD: 100_000, Virtual: true},
		}
		data.Boards = []model.Board{
			{CrunchID: 1, TargetID: 1, Size: 10, Entries: []model.RankingEntry{{CrunchID: 1, TargetID: 1, UserID: 10, Rank: 1}}},
			{CrunchID: 1, TargetID: 2, Size: 10, Entries: []model.RankingEntry{{CrunchID: 1, TargetID: 2, UserID: 10, Rank: 1}}},
		}
		b := newBuilder(data)

		evs := b.Determine(data.Users[0], events.NewStats())

		Convey("Only the virtual target produces events", func() {
			So(evs, ShouldHaveLength, 1)
			So(evs[0].TargetID, ShouldEqual, model.TargetID(2))
		})
	})
}

func TestRealTimeEvents(t *testing.T) {
	Convey("Given a real-time competition with a paid checkpoint", t, func() {
		data := &model.Dataset{
			Competitions: []model.Competition{
				{ID: 2, Name: "stream", Mode: model.ModeRealTime, PrizePoolUSD: 200_000},
			},
			Payouts: []model.Payout{
				{ID: 1, CompetitionID: 2, Date: day(2024, time.June, 1), Size: 80},
			},
			PayoutRecipients: []model.PayoutRecipient{
				{PayoutID: 1, UserID: 10, Rank: 3},
				{PayoutID: 1, UserID: 11, Rank: 700},
			},
			Users: []model.User{{ID: 10}, {ID: 11}},
		}
		b := newBuilder(data)

		Convey("The recipient scores by payout rank with an annualized phase weight", func() {
			evs := b.Determine(data.Users[0], events.NewStats())
			So(evs, ShouldHaveLength, 1)
			So(evs[0].Rank, ShouldEqual, 3)

			ranks := weights.NewRankModel(1.0)
			want := 200_000 * ranks.Weight(3, 80) * 1.0 * (0.9 / 52)
			So(evs[0].RawPoints, ShouldAlmostEqual, want, 1e-9)
		})

		Convey("A payout rank beyond the cutoff earns nothing", func() {
			stats := events.NewStats()
			evs := b.Determine(data.Users[1], stats)
			So(evs, ShouldBeEmpty)
			So(stats.Ineligible[eligibility.ReasonRankCutoff], ShouldEqual, 1)
		})
	})
}

func TestLegacyEvents(t *testing.T) {
	Convey("Given the legacy competition with archived entries", t, func() {
		data := &model.Dataset{
			Competitions: []model.Competition{
				{ID: 3, Name: "datacrunch-legacy", Legacy: true, PrizePoolUSD: 50_000},
			},
			LegacyEntries: []model.LegacyEntry{
				{UserID: 10, CrunchDate: day(2020, time.January, 15), CrunchSize: 300, Rank: 2},
				{UserID: 10, CrunchDate: day(2020, time.January, 16), CrunchSize: 300, Rank: 4},
			},
			Users: []model.User{{ID: 10}},
		}
		b := newBuilder(data)

		evs := b.Determine(data.Users[0], events.NewStats())

		Convey("Each archived appearance becomes an event via the fixed table", func() {
			So(evs, ShouldHaveLength, 2)

			ranks := weights.NewRankModel(1.0)
			want := 50_000 * ranks.Weight(2, 300) * 0.9 / 260
			So(evs[0].RawPoints, ShouldAlmostEqual, want, 1e-9)
		})
	})
}

func TestBadMetadataDegradesToZero(t *testing.T) {
	Convey("Given a competition with a zero prize pool", t, func() {
		data := oneCrunchDataset([]model.RankingEntry{
			{CrunchID: 1, TargetID: 1, UserID: 10, Rank: 1},
		}, 100)
		data.Competitions[0].PrizePoolUSD = 0
		b := newBuilder(data)

		stats := events.NewStats()
		evs := b.Determine(data.Users[0], stats)

		Convey("The event exists with zero raw points and a warning", func() {
			So(evs, ShouldHaveLength, 1)
			So(evs[0].RawPoints, ShouldEqual, 0)
			So(stats.Warnings[events.WarnPrizePool], ShouldEqual, 1)
		})
	})
}
