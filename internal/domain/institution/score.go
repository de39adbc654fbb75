package institution

import "math"

// ScoreModel combines member totals into an institution score using a
// sub-linear member-count exponent: score = total * N^(gamma-1) with
// gamma in (0, 1]. N equal members therefore score above a single
// member but below N times one.
type ScoreModel struct {
	gamma float64
}

// DefaultGamma is the member-count exponent used when none is
// configured.
const DefaultGamma = 0.75

// NewScoreModel validates gamma, substituting DefaultGamma for values
// outside (0, 1].
func NewScoreModel(gamma float64) *ScoreModel {
	if gamma <= 0 || gamma > 1 {
		gamma = DefaultGamma
	}
	return &ScoreModel{gamma: gamma}
}

// Combine returns the institution score for a plain sum of member
// points. Zero members or non-positive totals score zero.
func (m *ScoreModel) Combine(memberTotal float64, memberCount int) float64 {
	if memberCount <= 0 || memberTotal <= 0 {
		return 0
	}
	return memberTotal * math.Pow(float64(memberCount), m.gamma-1)
}
