// Package synthetic generates plausible input datasets for load tests
// and backfill rehearsals. Generation is fully deterministic for a
// given seed.
package synthetic

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/okian/vantage/internal/domain/model"
)

// Config sizes the generated dataset.
type Config struct {
	Seed                int64
	Users               int
	Universities        int
	Competitions        int
	RoundsPerComp       int
	CrunchesPerPhase    int
	BoardShare          float64 // fraction of users appearing per board
	AffiliationShare    float64 // fraction of users declaring a university
	TeamShare           float64 // fraction of board entries on teams
	RealTimePayouts     int
	LegacyEntriesPerDay int
	LegacyDays          int
	BaseDate            time.Time
}

// DefaultConfig returns a small but structurally complete dataset
// shape.
func DefaultConfig() Config {
	return Config{
		Seed:                1,
		Users:               500,
		Universities:        25,
		Competitions:        4,
		RoundsPerComp:       2,
		CrunchesPerPhase:    3,
		BoardShare:          0.4,
		AffiliationShare:    0.6,
		TeamShare:           0.2,
		RealTimePayouts:     8,
		LegacyEntriesPerDay: 50,
		LegacyDays:          10,
		BaseDate:            time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Generate builds a dataset. Calling it twice with the same config
// yields identical output.
func Generate(cfg Config) *model.Dataset {
	rng := rand.New(rand.NewSource(cfg.Seed))
	data := &model.Dataset{}

	genUniversities(cfg, data)
	genUsers(cfg, rng, data)

	ids := &idCounter{}
	for c := 0; c < cfg.Competitions; c++ {
		genOfflineCompetition(cfg, rng, data, ids, c)
	}
	genRealTimeCompetition(cfg, rng, data, ids)
	genLegacyCompetition(cfg, rng, data, ids)

	genSubmissions(cfg, rng, data)
	return data
}

type idCounter struct {
	competition, target, round, phase, crunch, team, payout int64
}

func genUniversities(cfg Config, data *model.Dataset) {
	for i := 1; i <= cfg.Universities; i++ {
		data.Universities = append(data.Universities, model.University{
			Name:    fmt.Sprintf("University %d", i),
			URL:     fmt.Sprintf("https://u%d.example.edu", i),
			Country: []string{"CH", "US", "DE", "FR", "JP"}[i%5],
		})
	}
}

func genUsers(cfg Config, rng *rand.Rand, data *model.Dataset) {
	for i := 1; i <= cfg.Users; i++ {
		u := model.User{
			ID:    model.UserID(i),
			Login: fmt.Sprintf("cruncher-%04d", i),
		}
		switch {
		case rng.Float64() < cfg.AffiliationShare && cfg.Universities > 0:
			u.University = fmt.Sprintf("University %d", rng.Intn(cfg.Universities)+1)
		case rng.Float64() < 0.3:
			u.University = "Self Taught"
		}
		data.Users = append(data.Users, u)
	}
}

func genOfflineCompetition(cfg Config, rng *rand.Rand, data *model.Dataset, ids *idCounter, n int) {
	ids.competition++
	comp := model.Competition{
		ID:           model.CompetitionID(ids.competition),
		Name:         fmt.Sprintf("crunch-%d", ids.competition),
		Mode:         model.ModeOffline,
		PrizePoolUSD: float64(50_000 + rng.Intn(15)*10_000),
		Start:        cfg.BaseDate.AddDate(0, n*2, 0),
	}
	data.Competitions = append(data.Competitions, comp)

	targetCount := 1 + rng.Intn(3)
	share := comp.PrizePoolUSD / float64(targetCount)
	var targets []model.Target
	for t := 0; t < targetCount; t++ {
		ids.target++
		target := model.Target{
			ID:            model.TargetID(ids.target),
			CompetitionID: comp.ID,
			Name:          fmt.Sprintf("target-%d", ids.target),
			PrizeShareUSD: share,
		}
		data.Targets = append(data.Targets, target)
		targets = append(targets, target)
	}

	teams := genTeams(cfg, rng, data, ids, comp.ID)

	end := comp.Start
	for r := 0; r < cfg.RoundsPerComp; r++ {
		ids.round++
		round := model.Round{ID: model.RoundID(ids.round), CompetitionID: comp.ID}

		for _, kind := range []model.PhaseKind{model.PhaseSubmission, model.PhaseOutOfSample} {
			ids.phase++
			phase := model.Phase{ID: model.PhaseID(ids.phase), RoundID: round.ID, Kind: kind}
			data.Phases = append(data.Phases, phase)

			for c := 1; c <= cfg.CrunchesPerPhase; c++ {
				ids.crunch++
				end = end.AddDate(0, 0, 7)
				crunch := model.Crunch{
					ID:      model.CrunchID(ids.crunch),
					PhaseID: phase.ID,
					Number:  c,
					End:     end,
				}
				data.Crunches = append(data.Crunches, crunch)

				for _, target := range targets {
					genBoard(cfg, rng, data, crunch.ID, target.ID, teams)
				}
			}
		}

		round.End = end
		data.Rounds = append(data.Rounds, round)
	}

	genParticipations(cfg, rng, data, comp)
}

func genTeams(cfg Config, rng *rand.Rand, data *model.Dataset, ids *idCounter, compID model.CompetitionID) map[model.UserID]model.TeamID {
	byUser := make(map[model.UserID]model.TeamID)
	teamCount := int(float64(cfg.Users) * cfg.TeamShare / 3)

	next := 1
	for t := 0; t < teamCount && next+2 <= cfg.Users; t++ {
		ids.team++
		teamID := model.TeamID(ids.team)
		data.Teams = append(data.Teams, model.Team{ID: teamID, CompetitionID: compID})

		size := 2 + rng.Intn(2)
		for m := 0; m < size && next <= cfg.Users; m++ {
			userID := model.UserID(next)
			next++
			data.TeamMembers = append(data.TeamMembers, model.TeamMember{TeamID: teamID, UserID: userID})
			byUser[userID] = teamID
		}
	}
	return byUser
}

func genBoard(cfg Config, rng *rand.Rand, data *model.Dataset, crunchID model.CrunchID, targetID model.TargetID, teams map[model.UserID]model.TeamID) {
	size := int(float64(cfg.Users) * cfg.BoardShare)
	if size < 1 {
		size = 1
	}

	perm := rng.Perm(cfg.Users)
	board := model.Board{CrunchID: crunchID, TargetID: targetID, Size: size}
	for rank := 1; rank <= size; rank++ {
		userID := model.UserID(perm[rank-1] + 1)
		board.Entries = append(board.Entries, model.RankingEntry{
			CrunchID:  crunchID,
			TargetID:  targetID,
			UserID:    userID,
			TeamID:    teams[userID],
			Rank:      rank,
			Duplicate: rng.Float64() < 0.01,
		})
	}
	data.Boards = append(data.Boards, board)
}

func genParticipations(cfg Config, rng *rand.Rand, data *model.Dataset, comp model.Competition) {
	for _, u := range data.Users {
		if u.University == "" || rng.Float64() > 0.7 {
			continue
		}
		data.Participations = append(data.Participations, model.Participation{
			UserID:        u.ID,
			CompetitionID: comp.ID,
			University:    u.University,
			CreatedAt:     comp.Start.AddDate(0, 0, -rng.Intn(14)),
		})
	}
}

func genRealTimeCompetition(cfg Config, rng *rand.Rand, data *model.Dataset, ids *idCounter) {
	if cfg.RealTimePayouts == 0 {
		return
	}

	ids.competition++
	comp := model.Competition{
		ID:           model.CompetitionID(ids.competition),
		Name:         "stream",
		Mode:         model.ModeRealTime,
		PrizePoolUSD: 200_000,
		Start:        cfg.BaseDate,
	}
	data.Competitions = append(data.Competitions, comp)

	for p := 0; p < cfg.RealTimePayouts; p++ {
		ids.payout++
		size := 50 + rng.Intn(100)
		payout := model.Payout{
			ID:            model.PayoutID(ids.payout),
			CompetitionID: comp.ID,
			Date:          cfg.BaseDate.AddDate(0, 0, 7*p),
			Size:          size,
		}
		data.Payouts = append(data.Payouts, payout)

		perm := rng.Perm(cfg.Users)
		recipients := size / 5
		for rank := 1; rank <= recipients && rank <= cfg.Users; rank++ {
			data.PayoutRecipients = append(data.PayoutRecipients, model.PayoutRecipient{
				PayoutID: payout.ID,
				UserID:   model.UserID(perm[rank-1] + 1),
				Rank:     rank,
			})
		}
	}
}

func genLegacyCompetition(cfg Config, rng *rand.Rand, data *model.Dataset, ids *idCounter) {
	if cfg.LegacyDays == 0 {
		return
	}

	ids.competition++
	data.Competitions = append(data.Competitions, model.Competition{
		ID:           model.CompetitionID(ids.competition),
		Name:         "datacrunch-legacy",
		Legacy:       true,
		PrizePoolUSD: 50_000,
		Start:        cfg.BaseDate.AddDate(-3, 0, 0),
	})

	for d := 0; d < cfg.LegacyDays; d++ {
		date := cfg.BaseDate.AddDate(-3, 0, d)
		perm := rng.Perm(cfg.Users)
		size := cfg.LegacyEntriesPerDay
		for rank := 1; rank <= size && rank <= cfg.Users; rank++ {
			data.LegacyEntries = append(data.LegacyEntries, model.LegacyEntry{
				UserID:     model.UserID(perm[rank-1] + 1),
				CrunchDate: date,
				CrunchSize: size,
				Rank:       rank,
			})
		}
	}
}

func genSubmissions(cfg Config, rng *rand.Rand, data *model.Dataset) {
	for _, u := range data.Users {
		days := rng.Intn(20)
		for d := 0; d < days; d++ {
			data.Submissions = append(data.Submissions, model.DailySubmissionCount{
				UserID: u.ID,
				Date:   cfg.BaseDate.AddDate(0, 0, d),
				Count:  1 + rng.Intn(5),
			})
		}
	}
}
