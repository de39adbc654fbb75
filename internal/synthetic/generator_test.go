package synthetic_test

import (
	"testing"

	"github.com/okian/vantage/internal/domain/model"
	"github.com/okian/vantage/internal/synthetic"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerate(t *testing.T) {
	Convey("Given the default config", t, func() {
		cfg := synthetic.DefaultConfig()
		data := synthetic.Generate(cfg)

		Convey("Counts match the config", func() {
			So(data.Users, ShouldHaveLength, cfg.Users)
			So(data.Universities, ShouldHaveLength, cfg.Universities)
			// Offline competitions plus the real-time and legacy ones.
			So(data.Competitions, ShouldHaveLength, cfg.Competitions+2)
		})

		Convey("The same seed reproduces the dataset exactly", func() {
			So(synthetic.Generate(cfg), ShouldResemble, data)
		})

		Convey("A different seed produces a different dataset", func() {
			other := cfg
			other.Seed = 99
			So(synthetic.Generate(other).Boards[0].Entries, ShouldNotResemble, data.Boards[0].Entries)
		})

		Convey("Boards carry unique users with dense ranks", func() {
			board := data.Boards[0]
			So(board.Size, ShouldEqual, len(board.Entries))

			seen := make(map[model.UserID]bool)
			for i, e := range board.Entries {
				So(e.Rank, ShouldEqual, i+1)
				So(seen[e.UserID], ShouldBeFalse)
				seen[e.UserID] = true
			}
		})

		Convey("Exactly one legacy competition exists", func() {
			legacy := 0
			for _, c := range data.Competitions {
				if c.Legacy {
					legacy++
				}
			}
			So(legacy, ShouldEqual, 1)
			So(data.LegacyEntries, ShouldNotBeEmpty)
		})

		Convey("Participations reference declared universities only", func() {
			byID := make(map[model.UserID]model.User)
			for _, u := range data.Users {
				byID[u.ID] = u
			}
			So(data.Participations, ShouldNotBeEmpty)
			for _, p := range data.Participations {
				So(p.University, ShouldEqual, byID[p.UserID].University)
			}
		})

		Convey("Crunch end dates are strictly increasing per competition", func() {
			// Crunches are appended in generation order inside each
			// competition; verify the first competition's sequence.
			var prev model.Crunch
			for _, c := range data.Crunches[:cfg.CrunchesPerPhase*2] {
				if prev.ID != 0 {
					So(c.End.After(prev.End), ShouldBeTrue)
				}
				prev = c
			}
		})
	})
}
