// Package metrics provides Prometheus metrics for the Vantage scoring pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector used by the pipeline.
type Manager struct {
	namespace string
	registry  *prometheus.Registry

	// Run lifecycle
	runsStarted   prometheus.Counter
	runsCompleted prometheus.Counter
	runsFailed    prometheus.Counter
	runDuration   prometheus.Histogram
	stageDuration *prometheus.HistogramVec
	lastRunUnix   prometheus.Gauge

	// Scoring
	eventsComputed    prometheus.Counter
	eventsIneligible  *prometheus.CounterVec
	decayEvaluations  prometheus.Counter
	zeroPointEvents   prometheus.Counter
	dataQualityIssues *prometheus.CounterVec

	// Aggregation and ranking
	usersRanked         prometheus.Gauge
	institutionsRanked  prometheus.Gauge
	institutionsCreated prometheus.Counter

	// History store
	snapshotWrites        prometheus.Counter
	snapshotReplacements  prometheus.Counter
	snapshotWriteDuration prometheus.Histogram
}

// NewManager creates a manager and registers all collectors on its registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "vantage",
		registry:  prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	factory := promauto.With(m.registry)

	m.runsStarted = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "runs_started_total",
		Help:      "Pipeline runs started.",
	})
	m.runsCompleted = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "runs_completed_total",
		Help:      "Pipeline runs that committed a snapshot.",
	})
	m.runsFailed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "runs_failed_total",
		Help:      "Pipeline runs aborted before the commit point.",
	})
	m.runDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "run_duration_seconds",
		Help:      "Wall time of a full pipeline run.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
	})
	m.stageDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "stage_duration_seconds",
		Help:      "Wall time per pipeline stage.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
	}, []string{"stage"})
	m.lastRunUnix = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "last_completed_run_unix",
		Help:      "Unix time of the last committed run.",
	})

	m.eventsComputed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "events_computed_total",
		Help:      "Effective events produced across all runs.",
	})
	m.eventsIneligible = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "events_ineligible_total",
		Help:      "Leaderboard appearances rejected by the eligibility filter.",
	}, []string{"reason"})
	m.decayEvaluations = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "decay_evaluations_total",
		Help:      "Decay factor evaluations performed.",
	})
	m.zeroPointEvents = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "zero_point_events_total",
		Help:      "Events that produced zero raw points due to bad metadata.",
	})
	m.dataQualityIssues = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "data_quality_warnings_total",
		Help:      "Non-fatal input data problems by kind.",
	}, []string{"kind"})

	m.usersRanked = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "users_ranked",
		Help:      "Users present in the most recent snapshot.",
	})
	m.institutionsRanked = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "institutions_ranked",
		Help:      "Institutions present in the most recent snapshot.",
	})
	m.institutionsCreated = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "institutions_created_total",
		Help:      "Institutions created from first-time university participations.",
	})

	m.snapshotWrites = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "snapshot_writes_total",
		Help:      "Snapshot commits to the history store.",
	})
	m.snapshotReplacements = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "snapshot_replacements_total",
		Help:      "Commits that replaced an existing snapshot for the same date.",
	})
	m.snapshotWriteDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "snapshot_write_duration_seconds",
		Help:      "Wall time of a snapshot commit.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
	})

	return m
}

// Registry exposes the manager's registry for the ops HTTP handler.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

var defaultManager = NewManager()

// Default returns the process-wide manager.
func Default() *Manager { return defaultManager }

// Package-level recording helpers, mirroring the manager API on the
// default instance.

func RecordRunStarted() { defaultManager.runsStarted.Inc() }

func RecordRunCompleted(d time.Duration) {
	defaultManager.runsCompleted.Inc()
	defaultManager.runDuration.Observe(d.Seconds())
	defaultManager.lastRunUnix.SetToCurrentTime()
}

func RecordRunFailed() { defaultManager.runsFailed.Inc() }

func ObserveStage(stage string, d time.Duration) {
	defaultManager.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func AddEventsComputed(n int) { defaultManager.eventsComputed.Add(float64(n)) }

func RecordIneligible(reason string) {
	defaultManager.eventsIneligible.WithLabelValues(reason).Inc()
}

func AddIneligible(reason string, n int) {
	defaultManager.eventsIneligible.WithLabelValues(reason).Add(float64(n))
}

func AddDecayEvaluations(n int) { defaultManager.decayEvaluations.Add(float64(n)) }

func RecordZeroPointEvent() { defaultManager.zeroPointEvents.Inc() }

func RecordDataQualityWarning(kind string) {
	defaultManager.dataQualityIssues.WithLabelValues(kind).Inc()
}

func AddDataQualityWarnings(kind string, n int) {
	defaultManager.dataQualityIssues.WithLabelValues(kind).Add(float64(n))
}

func SetUsersRanked(n int) { defaultManager.usersRanked.Set(float64(n)) }

func SetInstitutionsRanked(n int) { defaultManager.institutionsRanked.Set(float64(n)) }

func RecordInstitutionCreated() { defaultManager.institutionsCreated.Inc() }

func RecordSnapshotWrite(d time.Duration, replaced bool) {
	defaultManager.snapshotWrites.Inc()
	defaultManager.snapshotWriteDuration.Observe(d.Seconds())
	if replaced {
		defaultManager.snapshotReplacements.Inc()
	}
}
