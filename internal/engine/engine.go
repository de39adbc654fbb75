// Package engine runs the scoring pipeline: load the input dataset,
// determine and score events per user, decay them against the as-of
// date, aggregate institutions, rank everything and commit one global
// snapshot through the history store.
package engine

import (
	"fmt"
	"runtime"

	"github.com/okian/vantage/internal/adapters/sitegen"
	"github.com/okian/vantage/internal/adapters/snapshot"
	"github.com/okian/vantage/internal/domain/decay"
	"github.com/okian/vantage/internal/domain/eligibility"
	"github.com/okian/vantage/internal/domain/institution"
	"github.com/okian/vantage/internal/domain/points"
	"github.com/okian/vantage/internal/domain/weights"
	"github.com/okian/vantage/pkg/logger"
)

// Calibration defaults, overridable per option.
const (
	defaultMaxRewardRank           = 500
	defaultRankAlpha               = 1.0
	defaultDecayConstantDays       = 365.0
	defaultPublicPhaseWeight       = 0.1
	defaultPrivatePhaseWeight      = 0.9
	defaultRealTimeCrunchesPerYear = 52
	defaultLegacyCrunchesPerYear   = 260
)

// Engine owns the configured scoring models and the storage ports.
type Engine struct {
	source  snapshot.Source
	store   snapshot.HistoryStore
	sitegen *sitegen.Trigger
	log     logger.Logger

	workerCount int
	queueSize   int

	maxRewardRank           int
	rankAlpha               float64
	legacyRankAlpha         float64
	decayConstantDays       float64
	publicPhaseWeight       float64
	privatePhaseWeight      float64
	realTimeCrunchesPerYear int
	legacyCrunchesPerYear   int
	institutionGamma        float64

	filter    *eligibility.Filter
	phases    *weights.PhaseModel
	modern    points.Calculator
	legacy    points.Calculator
	decay     *decay.Engine
	instScore *institution.ScoreModel
}

// New assembles an engine around a dataset source and a history store.
func New(source snapshot.Source, store snapshot.HistoryStore, opts ...Option) (*Engine, error) {
	e := &Engine{
		source:                  source,
		store:                   store,
		log:                     logger.Get().Named("engine"),
		workerCount:             runtime.NumCPU() * 2,
		queueSize:               defaultQueueCapacity,
		maxRewardRank:           defaultMaxRewardRank,
		rankAlpha:               defaultRankAlpha,
		legacyRankAlpha:         defaultRankAlpha,
		decayConstantDays:       defaultDecayConstantDays,
		publicPhaseWeight:       defaultPublicPhaseWeight,
		privatePhaseWeight:      defaultPrivatePhaseWeight,
		realTimeCrunchesPerYear: defaultRealTimeCrunchesPerYear,
		legacyCrunchesPerYear:   defaultLegacyCrunchesPerYear,
		institutionGamma:        institution.DefaultGamma,
	}

	for _, opt := range opts {
		opt(e)
	}

	phases, err := weights.NewPhaseModel(e.publicPhaseWeight, e.privatePhaseWeight)
	if err != nil {
		return nil, fmt.Errorf("phase weights: %w", err)
	}

	ranks := weights.NewRankModel(e.rankAlpha)
	legacyRanks := weights.NewRankModel(e.legacyRankAlpha)

	e.filter = eligibility.NewFilter(e.maxRewardRank)
	e.phases = phases
	e.modern = points.NewModernCalculator(ranks)
	e.legacy = points.NewLegacyCalculator(legacyRanks, e.privatePhaseWeight, e.legacyCrunchesPerYear)
	e.decay = decay.NewEngine(e.decayConstantDays)
	e.instScore = institution.NewScoreModel(e.institutionGamma)

	return e, nil
}
