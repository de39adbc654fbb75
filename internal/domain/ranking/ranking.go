// Package ranking orders scored entities and assigns positions. The
// same rules rank users globally, institutions globally and members
// inside an institution.
package ranking

import (
	"sort"
	"time"
)

// Row is one rankable entity. FirstEvent is the entity's earliest
// scored event date, used to break point ties in favour of longer
// participation.
type Row struct {
	ID         int64
	Points     int64
	FirstEvent time.Time
}

// Placed is a row with its assigned position.
type Placed struct {
	Row
	Rank int
}

// Rank sorts the rows and assigns dense 1-based positions: points
// descending, ties broken by earliest first event then lowest ID. Rows
// with equal points share a position and the next distinct total takes
// the next integer. The order is total, so output is deterministic for
// a given input set regardless of input order.
func Rank(rows []Row) []Placed {
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })

	out := make([]Placed, len(sorted))
	rank := 0
	for i, r := range sorted {
		if i == 0 || r.Points != sorted[i-1].Points {
			rank++
		}
		out[i] = Placed{Row: r, Rank: rank}
	}
	return out
}

func less(a, b Row) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	if !a.FirstEvent.Equal(b.FirstEvent) {
		return a.FirstEvent.Before(b.FirstEvent)
	}
	return a.ID < b.ID
}
