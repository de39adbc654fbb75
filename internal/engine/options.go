package engine

import (
	"github.com/okian/vantage/internal/adapters/sitegen"
	"github.com/okian/vantage/pkg/logger"
)

// Option configures the engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithWorkerCount sets the number of scoring workers.
func WithWorkerCount(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workerCount = n
		}
	}
}

// WithQueueSize bounds the per-user job queue.
func WithQueueSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.queueSize = n
		}
	}
}

// WithSitegen wires the institution-creation trigger.
func WithSitegen(t *sitegen.Trigger) Option {
	return func(e *Engine) { e.sitegen = t }
}

// WithMaxRewardRank sets the eligibility rank cutoff.
func WithMaxRewardRank(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxRewardRank = n
		}
	}
}

// WithRankAlpha sets the power-law exponent for current competitions.
func WithRankAlpha(alpha float64) Option {
	return func(e *Engine) {
		if alpha > 0 {
			e.rankAlpha = alpha
		}
	}
}

// WithLegacyRankAlpha sets the power-law exponent for the legacy
// competition era.
func WithLegacyRankAlpha(alpha float64) Option {
	return func(e *Engine) {
		if alpha > 0 {
			e.legacyRankAlpha = alpha
		}
	}
}

// WithDecayConstantDays sets the exponential decay constant.
func WithDecayConstantDays(days float64) Option {
	return func(e *Engine) {
		if days > 0 {
			e.decayConstantDays = days
		}
	}
}

// WithPhaseWeights sets the public/private base weights. They must sum
// to one.
func WithPhaseWeights(public, private float64) Option {
	return func(e *Engine) {
		e.publicPhaseWeight = public
		e.privatePhaseWeight = private
	}
}

// WithRealTimeCrunchesPerYear sets the annualization divisor for paid
// checkpoint payouts.
func WithRealTimeCrunchesPerYear(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.realTimeCrunchesPerYear = n
		}
	}
}

// WithLegacyCrunchesPerYear sets the annualization divisor for the
// legacy daily boards.
func WithLegacyCrunchesPerYear(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.legacyCrunchesPerYear = n
		}
	}
}

// WithInstitutionGamma sets the sub-linear member-count exponent.
func WithInstitutionGamma(gamma float64) Option {
	return func(e *Engine) { e.institutionGamma = gamma }
}
