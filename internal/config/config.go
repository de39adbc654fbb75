// Package config defines engine configuration structures and loading.
//
// Conventions follow the rest of the codebase: New() returns defaults,
// Load() layers an optional YAML file and VANTAGE_-prefixed environment
// variables on top, and every calibration parameter of the scoring model
// lives here rather than in code.
package config

import "runtime"

// Config contains process configuration for the scoring pipeline.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format"`

	// OpsAddr is the listen address for /healthz and /metrics.
	OpsAddr string `koanf:"ops_addr"`

	// DatabaseDSN points at the competition-platform postgres instance.
	// Empty means the in-memory stores (tests, synthetic runs).
	DatabaseDSN string `koanf:"database_dsn"`

	// WorkerCount sets the per-user scoring fan-out width.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the scoring job queue.
	QueueSize int `koanf:"queue_size"`

	// RunIntervalMinutes schedules recurring runs; 0 runs once and exits.
	RunIntervalMinutes int `koanf:"run_interval_minutes"`

	// BackfillDays recomputes that many trailing days in one run.
	BackfillDays int `koanf:"backfill_days"`

	// MaxRewardRank is the eligibility cutoff: appearances ranked deeper
	// produce no event.
	MaxRewardRank int `koanf:"max_reward_rank"`

	// RankAlpha is the power-law exponent of the rank weight model.
	RankAlpha float64 `koanf:"rank_alpha"`

	// LegacyRankAlpha is the exponent used for the legacy competition era.
	LegacyRankAlpha float64 `koanf:"legacy_rank_alpha"`

	// DecayConstantDays is the e-folding time of point decay, in days.
	DecayConstantDays float64 `koanf:"decay_constant_days"`

	// PublicPhaseWeight and PrivatePhaseWeight are the base phase weights
	// before duration normalization. They must sum to 1.
	PublicPhaseWeight  float64 `koanf:"public_phase_weight"`
	PrivatePhaseWeight float64 `koanf:"private_phase_weight"`

	// RealTimeCrunchesPerYear annualizes real-time competitions (weekly
	// checkpoints). LegacyCrunchesPerYear annualizes the legacy daily
	// competition (trading days).
	RealTimeCrunchesPerYear int `koanf:"real_time_crunches_per_year"`
	LegacyCrunchesPerYear   int `koanf:"legacy_crunches_per_year"`

	// InstitutionGamma is the sub-linear aggregation exponent in (0, 1].
	InstitutionGamma float64 `koanf:"institution_gamma"`

	// SitegenURL is the external description-generation endpoint for new
	// institutions. Empty disables the trigger.
	SitegenURL string `koanf:"sitegen_url"`

	// SitegenTimeoutSeconds bounds each fire-and-forget request.
	SitegenTimeoutSeconds int `koanf:"sitegen_timeout_seconds"`
}

// New returns the default configuration.
func New() *Config {
	return &Config{
		LogLevel:                "info",
		LogFormat:               "text",
		OpsAddr:                 ":9090",
		DatabaseDSN:             "",
		WorkerCount:             runtime.NumCPU() * 2,
		QueueSize:               10_000,
		RunIntervalMinutes:      0,
		BackfillDays:            0,
		MaxRewardRank:           500,
		RankAlpha:               1.0,
		LegacyRankAlpha:         1.0,
		DecayConstantDays:       365,
		PublicPhaseWeight:       0.1,
		PrivatePhaseWeight:      0.9,
		RealTimeCrunchesPerYear: 52,
		LegacyCrunchesPerYear:   260,
		InstitutionGamma:        0.75,
		SitegenURL:              "",
		SitegenTimeoutSeconds:   30,
	}
}
