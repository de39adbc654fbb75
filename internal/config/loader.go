package config

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const phaseWeightTolerance = 1e-9

// Load builds a Config by layering defaults, an optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if VANTAGE_CONFIG is set
//  3. env (prefix VANTAGE_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("VANTAGE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// VANTAGE_MAX_REWARD_RANK -> max_reward_rank, preserving underscores
	// to match the koanf tags on the struct.
	envProvider := env.Provider("VANTAGE_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "vantage_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations that would break scoring invariants.
func (c *Config) Validate() error {
	switch {
	case c.MaxRewardRank < 1:
		return fmt.Errorf("%w: max_reward_rank must be positive", ErrInvalidConfig)
	case c.RankAlpha <= 0 || c.LegacyRankAlpha <= 0:
		return fmt.Errorf("%w: rank alpha exponents must be positive", ErrInvalidConfig)
	case c.DecayConstantDays <= 0:
		return fmt.Errorf("%w: decay_constant_days must be positive", ErrInvalidConfig)
	case c.PublicPhaseWeight < 0 || c.PrivatePhaseWeight < 0:
		return fmt.Errorf("%w: phase weights must not be negative", ErrInvalidConfig)
	case math.Abs(c.PublicPhaseWeight+c.PrivatePhaseWeight-1) > phaseWeightTolerance:
		return fmt.Errorf("%w: phase weights must sum to 1", ErrInvalidConfig)
	case c.InstitutionGamma <= 0 || c.InstitutionGamma > 1:
		return fmt.Errorf("%w: institution_gamma must be in (0, 1]", ErrInvalidConfig)
	case c.RealTimeCrunchesPerYear < 1 || c.LegacyCrunchesPerYear < 1:
		return fmt.Errorf("%w: annualized crunch counts must be positive", ErrInvalidConfig)
	case c.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.QueueSize < 1:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	}
	return nil
}
