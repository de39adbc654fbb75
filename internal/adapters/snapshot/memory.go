package snapshot

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/okian/vantage/internal/domain/model"
)

// StaticSource serves a fixed dataset, used by tests and the synthetic
// generator.
type StaticSource struct {
	data *model.Dataset
}

// NewStaticSource wraps a dataset as a Source.
func NewStaticSource(data *model.Dataset) *StaticSource {
	return &StaticSource{data: data}
}

// Load returns the wrapped dataset.
func (s *StaticSource) Load(ctx context.Context) (*model.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.data, nil
}

// MemoryStore is an in-process HistoryStore keyed by UTC date.
type MemoryStore struct {
	mu     sync.RWMutex
	byDate map[time.Time]model.GlobalSnapshot
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byDate: make(map[time.Time]model.GlobalSnapshot)}
}

// Commit stores the snapshot under its date, replacing any snapshot
// already held for that date.
func (s *MemoryStore) Commit(ctx context.Context, snap model.GlobalSnapshot) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	key := DateKey(snap.AsOf)

	s.mu.Lock()
	defer s.mu.Unlock()

	_, replaced := s.byDate[key]
	s.byDate[key] = snap
	return replaced, nil
}

// LatestBefore returns the newest snapshot dated strictly before asOf.
func (s *MemoryStore) LatestBefore(ctx context.Context, asOf time.Time) (model.GlobalSnapshot, bool, error) {
	if err := ctx.Err(); err != nil {
		return model.GlobalSnapshot{}, false, err
	}

	cutoff := DateKey(asOf)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		best  time.Time
		found bool
	)
	for date := range s.byDate {
		if !date.Before(cutoff) {
			continue
		}
		if !found || date.After(best) {
			best = date
			found = true
		}
	}
	if !found {
		return model.GlobalSnapshot{}, false, nil
	}
	return s.byDate[best], true, nil
}

// Dates returns every committed date in ascending order.
func (s *MemoryStore) Dates() []time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]time.Time, 0, len(s.byDate))
	for date := range s.byDate {
		out = append(out, date)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

var (
	_ Source       = (*StaticSource)(nil)
	_ HistoryStore = (*MemoryStore)(nil)
)
