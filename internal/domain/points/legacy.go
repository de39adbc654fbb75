package points

import "github.com/okian/vantage/internal/domain/weights"

// LegacyCalculator scores the pre-platform legacy competition. The
// legacy era had a single implicit target and daily private crunches, so
// the Target/Phase models do not apply: the calculator carries its own
// calibrated rank table and a fixed per-crunch weight, preserving the
// historical standing of early participants.
type LegacyCalculator struct {
	ranks     *weights.RankModel
	perCrunch float64
}

// NewLegacyCalculator builds the legacy calculator. privateBase is the
// private phase base weight and crunchesPerYear the legacy annualization
// divisor (daily crunches over trading days).
func NewLegacyCalculator(ranks *weights.RankModel, privateBase float64, crunchesPerYear int) *LegacyCalculator {
	perCrunch := 0.0
	if crunchesPerYear > 0 {
		perCrunch = privateBase / float64(crunchesPerYear)
	}
	return &LegacyCalculator{ranks: ranks, perCrunch: perCrunch}
}

// Raw computes raw points from the calibrated table. The legacy
// competition has one global target, so Input.TargetWeight and
// Input.PerCrunchWeight are ignored.
func (c *LegacyCalculator) Raw(in Input) float64 {
	if in.Competition.PrizePoolUSD <= 0 || c.perCrunch <= 0 {
		return 0
	}

	rankWeight := c.ranks.Weight(in.Rank, in.BoardSize)
	if rankWeight <= 0 {
		return 0
	}

	return in.Competition.PrizePoolUSD * rankWeight * c.perCrunch
}
