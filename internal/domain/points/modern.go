package points

import "github.com/okian/vantage/internal/domain/weights"

// ModernCalculator implements the current weighting model:
// raw = prizePool x rankWeight x targetWeight x perCrunchPhaseWeight.
type ModernCalculator struct {
	ranks *weights.RankModel
}

// NewModernCalculator builds the modern calculator on top of a rank
// weight model.
func NewModernCalculator(ranks *weights.RankModel) *ModernCalculator {
	return &ModernCalculator{ranks: ranks}
}

// Raw computes the raw point value. Zero or negative prize pools, target
// weights or phase weights yield 0 rather than an error: the caller
// records the data-quality warning.
func (c *ModernCalculator) Raw(in Input) float64 {
	if in.Competition.PrizePoolUSD <= 0 {
		return 0
	}
	if in.TargetWeight <= 0 || in.PerCrunchWeight <= 0 {
		return 0
	}

	rankWeight := c.ranks.Weight(in.Rank, in.BoardSize)
	if rankWeight <= 0 {
		return 0
	}

	return in.Competition.PrizePoolUSD * rankWeight * in.TargetWeight * in.PerCrunchWeight
}
