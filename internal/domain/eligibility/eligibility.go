// Package eligibility decides whether a leaderboard appearance produces
// an effective event.
package eligibility

// Reasons an appearance is rejected, used as metric labels.
const (
	ReasonRankCutoff = "rank_cutoff"
	ReasonDuplicate  = "duplicate"
)

// Filter gates event creation. It is a pure function of its inputs.
type Filter struct {
	maxRewardRank int
}

// NewFilter builds a filter with the given reward-rank cutoff.
func NewFilter(maxRewardRank int) *Filter {
	if maxRewardRank < 1 {
		maxRewardRank = 1
	}
	return &Filter{maxRewardRank: maxRewardRank}
}

// Check reports whether an appearance with the given resolved group rank
// and duplicate-submission verdict is effective. The second return names
// the rejection reason, empty when effective.
func (f *Filter) Check(groupRank float64, duplicate bool) (bool, string) {
	if duplicate {
		return false, ReasonDuplicate
	}
	if groupRank < 1 || groupRank > float64(f.maxRewardRank) {
		return false, ReasonRankCutoff
	}
	return true, ""
}

// MaxRewardRank exposes the configured cutoff.
func (f *Filter) MaxRewardRank() int { return f.maxRewardRank }
