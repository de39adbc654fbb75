// Package weights implements the three weight models that shape a raw
// point value: rank (power law over the leaderboard), target (prize-pool
// share) and phase (public/private base weight normalized by duration).
package weights

import (
	"math"
	"sync"
)

// RankModel assigns a power-law weight to a leaderboard rank:
// w(r) proportional to r^-alpha, normalized so the weights of a board
// sum to 1. Distributions are cached per board size.
type RankModel struct {
	alpha float64

	mu    sync.RWMutex
	cache map[int][]float64
}

// NewRankModel creates a rank model with the given exponent. Alpha must
// be positive; larger values concentrate weight at the top ranks.
func NewRankModel(alpha float64) *RankModel {
	if alpha <= 0 {
		alpha = 1.0
	}
	return &RankModel{
		alpha: alpha,
		cache: make(map[int][]float64),
	}
}

// Weight returns the normalized weight of the given 1-based rank on a
// board of the given size. Ranks outside [1, size] weigh nothing.
// Fractional ranks (shared reward ranks) truncate to their position.
func (m *RankModel) Weight(rank float64, boardSize int) float64 {
	if boardSize < 1 || rank < 1 {
		return 0
	}
	idx := int(rank) - 1
	if idx >= boardSize {
		return 0
	}
	return m.distribution(boardSize)[idx]
}

func (m *RankModel) distribution(size int) []float64 {
	m.mu.RLock()
	dist, ok := m.cache[size]
	m.mu.RUnlock()
	if ok {
		return dist
	}

	dist = make([]float64, size)
	sum := 0.0
	for i := range dist {
		w := 1 / math.Pow(float64(i+1), m.alpha)
		dist[i] = w
		sum += w
	}
	for i := range dist {
		dist[i] /= sum
	}

	m.mu.Lock()
	m.cache[size] = dist
	m.mu.Unlock()

	return dist
}
