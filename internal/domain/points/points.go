// Package points computes raw point values for effective events. The
// legacy competition uses a separately calibrated fixed table behind the
// same Calculator contract, so the rest of the pipeline never branches
// on the event's source.
package points

import "github.com/okian/vantage/internal/domain/model"

// Input carries everything a calculator needs for one event candidate.
type Input struct {
	Competition model.Competition
	// Rank is the resolved group rank (payout rank for real-time
	// competitions).
	Rank      float64
	BoardSize int
	// TargetWeight and PerCrunchWeight come from the weight models; the
	// legacy calculator ignores them.
	TargetWeight    float64
	PerCrunchWeight float64
}

// Calculator turns an event candidate into raw points. Implementations
// must be pure and must never return negative or non-finite values;
// malformed metadata yields 0.
type Calculator interface {
	Raw(in Input) float64
}

// Select returns the calculator matching the competition's era.
func Select(c model.Competition, modern, legacy Calculator) Calculator {
	if c.Legacy {
		return legacy
	}
	return modern
}
