// Package snapshot holds the engine's storage ports: the input dataset
// source and the position-history store, with in-memory and postgres
// implementations.
package snapshot

import (
	"context"
	"time"

	"github.com/okian/vantage/internal/domain/model"
)

// Source loads one read-only input dataset for a run.
type Source interface {
	Load(ctx context.Context) (*model.Dataset, error)
}

// HistoryStore persists global snapshots, one per as-of date. History
// is append-only across dates: committing a date that already exists
// replaces that date wholesale, prior dates are never touched.
type HistoryStore interface {
	// Commit atomically writes the snapshot. The returned flag reports
	// whether an existing snapshot for the same date was replaced.
	Commit(ctx context.Context, snap model.GlobalSnapshot) (replaced bool, err error)

	// LatestBefore returns the most recent committed snapshot strictly
	// before asOf, with false when none exists.
	LatestBefore(ctx context.Context, asOf time.Time) (model.GlobalSnapshot, bool, error)
}

// DateKey normalizes an as-of timestamp to its UTC calendar date, the
// granularity the history store keys on.
func DateKey(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
