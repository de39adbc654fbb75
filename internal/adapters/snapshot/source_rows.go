package snapshot

import (
	"time"

	"github.com/okian/vantage/internal/domain/model"
)

type competitionRow struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	Name         string    `gorm:"column:name"`
	Mode         string    `gorm:"column:mode"`
	Legacy       bool      `gorm:"column:legacy"`
	PrizePoolUSD float64   `gorm:"column:prize_pool_usd"`
	Start        time.Time `gorm:"column:start_date"`
}

func (competitionRow) TableName() string { return "competitions" }

func (r competitionRow) toModel() model.Competition {
	return model.Competition{
		ID:           model.CompetitionID(r.ID),
		Name:         r.Name,
		Mode:         model.CompetitionMode(r.Mode),
		Legacy:       r.Legacy,
		PrizePoolUSD: r.PrizePoolUSD,
		Start:        r.Start.UTC(),
	}
}

type targetRow struct {
	ID            int64   `gorm:"column:id;primaryKey"`
	CompetitionID int64   `gorm:"column:competition_id"`
	Name          string  `gorm:"column:name"`
	PrizeShareUSD float64 `gorm:"column:prize_share_usd"`
	Virtual       bool    `gorm:"column:virtual"`
}

func (targetRow) TableName() string { return "targets" }

func (r targetRow) toModel() model.Target {
	return model.Target{
		ID:            model.TargetID(r.ID),
		CompetitionID: model.CompetitionID(r.CompetitionID),
		Name:          r.Name,
		PrizeShareUSD: r.PrizeShareUSD,
		Virtual:       r.Virtual,
	}
}

type roundRow struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	CompetitionID int64     `gorm:"column:competition_id"`
	End           time.Time `gorm:"column:end_date"`
}

func (roundRow) TableName() string { return "rounds" }

func (r roundRow) toModel() model.Round {
	return model.Round{
		ID:            model.RoundID(r.ID),
		CompetitionID: model.CompetitionID(r.CompetitionID),
		End:           r.End.UTC(),
	}
}

type phaseRow struct {
	ID      int64  `gorm:"column:id;primaryKey"`
	RoundID int64  `gorm:"column:round_id"`
	Kind    string `gorm:"column:kind"`
}

func (phaseRow) TableName() string { return "phases" }

func (r phaseRow) toModel() model.Phase {
	return model.Phase{
		ID:      model.PhaseID(r.ID),
		RoundID: model.RoundID(r.RoundID),
		Kind:    model.PhaseKind(r.Kind),
	}
}

type crunchRow struct {
	ID      int64     `gorm:"column:id;primaryKey"`
	PhaseID int64     `gorm:"column:phase_id"`
	Number  int       `gorm:"column:number"`
	End     time.Time `gorm:"column:end_date"`
}

func (crunchRow) TableName() string { return "crunches" }

func (r crunchRow) toModel() model.Crunch {
	return model.Crunch{
		ID:      model.CrunchID(r.ID),
		PhaseID: model.PhaseID(r.PhaseID),
		Number:  r.Number,
		End:     r.End.UTC(),
	}
}

type rankingEntryRow struct {
	CrunchID  int64 `gorm:"column:crunch_id"`
	TargetID  int64 `gorm:"column:target_id"`
	UserID    int64 `gorm:"column:user_id"`
	TeamID    int64 `gorm:"column:team_id"`
	Rank      int   `gorm:"column:rank"`
	Duplicate bool  `gorm:"column:duplicate"`
}

func (rankingEntryRow) TableName() string { return "ranking_entries" }

func (r rankingEntryRow) toModel() model.RankingEntry {
	return model.RankingEntry{
		CrunchID:  model.CrunchID(r.CrunchID),
		TargetID:  model.TargetID(r.TargetID),
		UserID:    model.UserID(r.UserID),
		TeamID:    model.TeamID(r.TeamID),
		Rank:      r.Rank,
		Duplicate: r.Duplicate,
	}
}

type boardSizeRow struct {
	CrunchID int64 `gorm:"column:crunch_id"`
	TargetID int64 `gorm:"column:target_id"`
	Size     int   `gorm:"column:size"`
}

func (boardSizeRow) TableName() string { return "board_sizes" }

type teamRow struct {
	ID            int64 `gorm:"column:id;primaryKey"`
	CompetitionID int64 `gorm:"column:competition_id"`
}

func (teamRow) TableName() string { return "teams" }

func (r teamRow) toModel() model.Team {
	return model.Team{
		ID:            model.TeamID(r.ID),
		CompetitionID: model.CompetitionID(r.CompetitionID),
	}
}

type teamMemberRow struct {
	TeamID int64 `gorm:"column:team_id"`
	UserID int64 `gorm:"column:user_id"`
}

func (teamMemberRow) TableName() string { return "team_members" }

func (r teamMemberRow) toModel() model.TeamMember {
	return model.TeamMember{
		TeamID: model.TeamID(r.TeamID),
		UserID: model.UserID(r.UserID),
	}
}

type payoutRow struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	CompetitionID int64     `gorm:"column:competition_id"`
	Date          time.Time `gorm:"column:paid_at"`
	Size          int       `gorm:"column:size"`
}

func (payoutRow) TableName() string { return "payouts" }

func (r payoutRow) toModel() model.Payout {
	return model.Payout{
		ID:            model.PayoutID(r.ID),
		CompetitionID: model.CompetitionID(r.CompetitionID),
		Date:          r.Date.UTC(),
		Size:          r.Size,
	}
}

type payoutRecipientRow struct {
	PayoutID int64 `gorm:"column:payout_id"`
	UserID   int64 `gorm:"column:user_id"`
	Rank     int   `gorm:"column:rank"`
}

func (payoutRecipientRow) TableName() string { return "payout_recipients" }

func (r payoutRecipientRow) toModel() model.PayoutRecipient {
	return model.PayoutRecipient{
		PayoutID: model.PayoutID(r.PayoutID),
		UserID:   model.UserID(r.UserID),
		Rank:     r.Rank,
	}
}

type legacyEntryRow struct {
	UserID     int64     `gorm:"column:user_id"`
	CrunchDate time.Time `gorm:"column:crunch_date"`
	CrunchSize int       `gorm:"column:crunch_size"`
	Rank       int       `gorm:"column:rank"`
}

func (legacyEntryRow) TableName() string { return "legacy_entries" }

func (r legacyEntryRow) toModel() model.LegacyEntry {
	return model.LegacyEntry{
		UserID:     model.UserID(r.UserID),
		CrunchDate: r.CrunchDate.UTC(),
		CrunchSize: r.CrunchSize,
		Rank:       r.Rank,
	}
}

type userRow struct {
	ID         int64  `gorm:"column:id;primaryKey"`
	Login      string `gorm:"column:login"`
	University string `gorm:"column:university"`
}

func (userRow) TableName() string { return "users" }

func (r userRow) toModel() model.User {
	return model.User{
		ID:         model.UserID(r.ID),
		Login:      r.Login,
		University: r.University,
	}
}

type universityRow struct {
	Name    string `gorm:"column:name;primaryKey"`
	URL     string `gorm:"column:url"`
	Country string `gorm:"column:country"`
}

func (universityRow) TableName() string { return "universities" }

func (r universityRow) toModel() model.University {
	return model.University{
		Name:    r.Name,
		URL:     r.URL,
		Country: r.Country,
	}
}

type participationRow struct {
	UserID        int64     `gorm:"column:user_id"`
	CompetitionID int64     `gorm:"column:competition_id"`
	University    string    `gorm:"column:university"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (participationRow) TableName() string { return "participations" }

func (r participationRow) toModel() model.Participation {
	return model.Participation{
		UserID:        model.UserID(r.UserID),
		CompetitionID: model.CompetitionID(r.CompetitionID),
		University:    r.University,
		CreatedAt:     r.CreatedAt.UTC(),
	}
}

type submissionCountRow struct {
	UserID int64     `gorm:"column:user_id"`
	Date   time.Time `gorm:"column:date"`
	Count  int       `gorm:"column:count"`
}

func (submissionCountRow) TableName() string { return "daily_submission_counts" }

func (r submissionCountRow) toModel() model.DailySubmissionCount {
	return model.DailySubmissionCount{
		UserID: model.UserID(r.UserID),
		Date:   r.Date.UTC(),
		Count:  r.Count,
	}
}
