// Package groups resolves effective ranks per group on one leaderboard.
// A team scores with the best (lowest) rank among its members appearing
// on the board; members absent from a private board inherit that rank,
// members absent from a public board do not.
package groups

import "github.com/okian/vantage/internal/domain/model"

// Resolution is one user's effective appearance on one board.
type Resolution struct {
	Rank      float64
	Duplicate bool
	// Inherited marks ranks taken from a teammate's entry rather than
	// the user's own appearance.
	Inherited bool
}

// Resolver answers effective-rank queries against one board. Build one
// per (crunch, target) leaderboard.
type Resolver struct {
	board       model.Board
	entryByUser map[model.UserID]model.RankingEntry
	bestByTeam  map[model.TeamID]int
}

// NewResolver indexes a board. Multiple entries for the same user merge
// to the best clean one, falling back to the best duplicate-flagged
// entry when no clean entry exists; team bests ignore entries flagged
// as duplicates.
func NewResolver(board model.Board) *Resolver {
	r := &Resolver{
		board:       board,
		entryByUser: make(map[model.UserID]model.RankingEntry, len(board.Entries)),
		bestByTeam:  make(map[model.TeamID]int),
	}

	for _, e := range board.Entries {
		if prev, ok := r.entryByUser[e.UserID]; !ok || betterEntry(e, prev) {
			r.entryByUser[e.UserID] = e
		}

		if e.TeamID != 0 && !e.Duplicate {
			if best, ok := r.bestByTeam[e.TeamID]; !ok || e.Rank < best {
				r.bestByTeam[e.TeamID] = e.Rank
			}
		}
	}

	return r
}

// betterEntry prefers clean entries over duplicate-flagged ones, then
// the lower rank.
func betterEntry(e, prev model.RankingEntry) bool {
	if e.Duplicate != prev.Duplicate {
		return !e.Duplicate
	}
	return e.Rank < prev.Rank
}

// Size returns the board size used for rank weighting.
func (r *Resolver) Size() int { return r.board.Size }

// Resolve returns the user's effective rank on the board. teamID is the
// user's team for the competition (zero for solo); private enables the
// absent-member inheritance rule. The second return is false when the
// user has no effective appearance on this board.
func (r *Resolver) Resolve(userID model.UserID, teamID model.TeamID, private bool) (Resolution, bool) {
	if entry, ok := r.entryByUser[userID]; ok {
		rank := entry.Rank
		if entry.TeamID != 0 {
			if best, ok := r.bestByTeam[entry.TeamID]; ok && best < rank {
				rank = best
			}
		}
		return Resolution{Rank: float64(rank), Duplicate: entry.Duplicate}, true
	}

	if private && teamID != 0 {
		if best, ok := r.bestByTeam[teamID]; ok {
			return Resolution{Rank: float64(best), Inherited: true}, true
		}
	}

	return Resolution{}, false
}
