package weights

import "github.com/okian/vantage/internal/domain/model"

// TargetWeight is the target's share of the competition prize pool.
// A competition with a single target yields 1. Competitions with a
// non-positive prize pool yield 0; the points calculator treats that as
// a data-quality problem, not an error.
func TargetWeight(t model.Target, c model.Competition) float64 {
	if c.PrizePoolUSD <= 0 || t.PrizeShareUSD < 0 {
		return 0
	}
	return t.PrizeShareUSD / c.PrizePoolUSD
}

// SumTargetWeights totals the weights of the given targets against one
// competition. For well-formed metadata the sum is 1 within tolerance.
func SumTargetWeights(targets []model.Target, c model.Competition) float64 {
	sum := 0.0
	for _, t := range targets {
		sum += TargetWeight(t, c)
	}
	return sum
}
