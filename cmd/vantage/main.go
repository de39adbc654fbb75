package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/vantage/internal/adapters/http/ops"
	"github.com/okian/vantage/internal/adapters/sitegen"
	"github.com/okian/vantage/internal/adapters/snapshot"
	"github.com/okian/vantage/internal/config"
	"github.com/okian/vantage/internal/engine"
	"github.com/okian/vantage/internal/synthetic"
	"github.com/okian/vantage/pkg/logger"
	"github.com/okian/vantage/pkg/metrics"
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env).
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogFormat); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Ops listener: /healthz and /metrics.
	ops.NewServer(cfg.OpsAddr, metrics.Default(), log).Start(ctx)

	source, store, cleanup, err := buildStores(cfg, log)
	if err != nil {
		log.Error(ctx, "storage setup failed", logger.Error(err))
		return
	}
	defer cleanup()

	trigger := sitegen.New(cfg.SitegenURL, time.Duration(cfg.SitegenTimeoutSeconds)*time.Second, log)

	eng, err := engine.New(source, store,
		engine.WithLogger(log),
		engine.WithWorkerCount(cfg.WorkerCount),
		engine.WithQueueSize(cfg.QueueSize),
		engine.WithSitegen(trigger),
		engine.WithMaxRewardRank(cfg.MaxRewardRank),
		engine.WithRankAlpha(cfg.RankAlpha),
		engine.WithLegacyRankAlpha(cfg.LegacyRankAlpha),
		engine.WithDecayConstantDays(cfg.DecayConstantDays),
		engine.WithPhaseWeights(cfg.PublicPhaseWeight, cfg.PrivatePhaseWeight),
		engine.WithRealTimeCrunchesPerYear(cfg.RealTimeCrunchesPerYear),
		engine.WithLegacyCrunchesPerYear(cfg.LegacyCrunchesPerYear),
		engine.WithInstitutionGamma(cfg.InstitutionGamma),
	)
	if err != nil {
		log.Error(ctx, "engine setup failed", logger.Error(err))
		return
	}

	if err := execute(ctx, cfg, eng, log); err != nil && ctx.Err() == nil {
		log.Error(ctx, "run failed", logger.Error(err))
		return
	}

	log.Info(ctx, "engine stopped")
}

// buildStores wires postgres when a DSN is configured, or the
// in-memory pair over a synthetic dataset otherwise.
func buildStores(cfg *config.Config, log logger.Logger) (snapshot.Source, snapshot.HistoryStore, func(), error) {
	if cfg.DatabaseDSN == "" {
		log.Warn(context.Background(), "no database_dsn configured; using synthetic data and in-memory history")
		source := snapshot.NewStaticSource(synthetic.Generate(synthetic.DefaultConfig()))
		return source, snapshot.NewMemoryStore(), func() {}, nil
	}

	pg, err := snapshot.Connect(cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, nil, err
	}

	store := snapshot.NewPostgresStore(pg, log)
	if err := store.Migrate(context.Background()); err != nil {
		_ = pg.Close()
		return nil, nil, nil, err
	}

	cleanup := func() { _ = pg.Close() }
	return snapshot.NewPostgresSource(pg, log), store, cleanup, nil
}

// execute performs an optional backfill, one immediate run, and then
// recurring runs when an interval is configured.
func execute(ctx context.Context, cfg *config.Config, eng *engine.Engine, log logger.Logger) error {
	now := time.Now().UTC()

	if cfg.BackfillDays > 0 {
		from := now.AddDate(0, 0, -cfg.BackfillDays)
		if _, err := eng.Backfill(ctx, from, now.AddDate(0, 0, -1)); err != nil {
			log.Error(ctx, "backfill failed", logger.Error(err))
			return err
		}
	}

	if _, err := eng.Run(ctx, now); err != nil {
		return err
	}

	if cfg.RunIntervalMinutes <= 0 {
		return nil
	}

	ticker := time.NewTicker(time.Duration(cfg.RunIntervalMinutes) * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := eng.Run(ctx, time.Now().UTC()); err != nil {
				// Keep the schedule; the next tick retries from scratch.
				log.Error(ctx, "scheduled run failed", logger.Error(err))
			}
		}
	}
}
