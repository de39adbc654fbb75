package points_test

import (
	"math"
	"testing"

	"github.com/okian/vantage/internal/domain/model"
	"github.com/okian/vantage/internal/domain/points"
	"github.com/okian/vantage/internal/domain/weights"
	. "github.com/smartystreets/goconvey/convey"
)

func TestModernCalculator(t *testing.T) {
	Convey("Given the modern calculator", t, func() {
		ranks := weights.NewRankModel(1.0)
		calc := points.NewModernCalculator(ranks)

		comp := model.Competition{ID: 1, PrizePoolUSD: 100_000}

		Convey("A solo rank-1 private win on a single-target one-crunch competition", func() {
			in := points.Input{
				Competition:     comp,
				Rank:            1,
				BoardSize:       100,
				TargetWeight:    1,
				PerCrunchWeight: 0.9,
			}

			raw := calc.Raw(in)
			want := 100_000 * ranks.Weight(1, 100) * 1 * 0.9
			So(raw, ShouldAlmostEqual, want, 1e-9)
			So(raw, ShouldBeGreaterThan, 0)
		})

		Convey("Raw points decrease with rank", func() {
			prev := math.Inf(1)
			for r := 1; r <= 50; r++ {
				in := points.Input{
					Competition:     comp,
					Rank:            float64(r),
					BoardSize:       50,
					TargetWeight:    0.5,
					PerCrunchWeight: 0.09,
				}
				raw := calc.Raw(in)
				So(raw, ShouldBeGreaterThan, 0)
				So(raw, ShouldBeLessThan, prev)
				prev = raw
			}
		})

		Convey("A zero prize pool yields exactly 0, never NaN or negative", func() {
			in := points.Input{
				Competition:     model.Competition{ID: 2, PrizePoolUSD: 0},
				Rank:            1,
				BoardSize:       10,
				TargetWeight:    1,
				PerCrunchWeight: 0.9,
			}
			raw := calc.Raw(in)
			So(raw, ShouldEqual, 0)
			So(math.IsNaN(raw), ShouldBeFalse)
		})

		Convey("A negative prize pool yields 0", func() {
			in := points.Input{
				Competition:     model.Competition{ID: 3, PrizePoolUSD: -100},
				Rank:            1,
				BoardSize:       10,
				TargetWeight:    1,
				PerCrunchWeight: 0.9,
			}
			So(calc.Raw(in), ShouldEqual, 0)
		})

		Convey("A zero phase weight (zero duration) yields 0", func() {
			in := points.Input{
				Competition:     comp,
				Rank:            1,
				BoardSize:       10,
				TargetWeight:    1,
				PerCrunchWeight: 0,
			}
			So(calc.Raw(in), ShouldEqual, 0)
		})

		Convey("A rank beyond the board yields 0", func() {
			in := points.Input{
				Competition:     comp,
				Rank:            11,
				BoardSize:       10,
				TargetWeight:    1,
				PerCrunchWeight: 0.9,
			}
			So(calc.Raw(in), ShouldEqual, 0)
		})
	})
}

func TestLegacyCalculator(t *testing.T) {
	Convey("Given the legacy calculator", t, func() {
		ranks := weights.NewRankModel(1.0)
		calc := points.NewLegacyCalculator(ranks, 0.9, 260)

		comp := model.Competition{ID: 9, Name: "datacrunch-legacy", Legacy: true, PrizePoolUSD: 50_000}

		Convey("It scores from its fixed table, ignoring target and phase inputs", func() {
			base := points.Input{Competition: comp, Rank: 3, BoardSize: 120}

			withNoise := base
			withNoise.TargetWeight = 0.123
			withNoise.PerCrunchWeight = 0.456

			So(calc.Raw(base), ShouldEqual, calc.Raw(withNoise))
			So(calc.Raw(base), ShouldAlmostEqual, 50_000*ranks.Weight(3, 120)*0.9/260, 1e-9)
		})

		Convey("Bad metadata still degrades to 0", func() {
			in := points.Input{Competition: model.Competition{Legacy: true, PrizePoolUSD: 0}, Rank: 1, BoardSize: 10}
			So(calc.Raw(in), ShouldEqual, 0)
		})

		Convey("A zero annualization divisor degrades to 0", func() {
			broken := points.NewLegacyCalculator(ranks, 0.9, 0)
			in := points.Input{Competition: comp, Rank: 1, BoardSize: 10}
			So(broken.Raw(in), ShouldEqual, 0)
		})
	})
}

func TestSelect(t *testing.T) {
	Convey("The competition's legacy flag picks the calculator", t, func() {
		ranks := weights.NewRankModel(1.0)
		modern := points.NewModernCalculator(ranks)
		legacy := points.NewLegacyCalculator(ranks, 0.9, 260)

		So(points.Select(model.Competition{Legacy: true}, modern, legacy), ShouldEqual, legacy)
		So(points.Select(model.Competition{Legacy: false}, modern, legacy), ShouldEqual, modern)
	})
}
