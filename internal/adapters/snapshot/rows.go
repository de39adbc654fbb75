package snapshot

import (
	"time"

	"github.com/okian/vantage/internal/domain/model"
)

type snapshotRow struct {
	AsOf             time.Time `gorm:"column:as_of;primaryKey"`
	UserCount        int       `gorm:"column:user_count"`
	InstitutionCount int       `gorm:"column:institution_count"`
	CreatedAt        time.Time `gorm:"column:created_at"`
}

func (snapshotRow) TableName() string { return "global_snapshots" }

func snapshotRowFrom(snap model.GlobalSnapshot, date time.Time) snapshotRow {
	created := snap.CreatedAt.UTC()
	if created.IsZero() {
		created = time.Now().UTC()
	}
	return snapshotRow{
		AsOf:             date,
		UserCount:        snap.UserCount,
		InstitutionCount: snap.InstitutionCount,
		CreatedAt:        created,
	}
}

func (r snapshotRow) toModel() model.GlobalSnapshot {
	return model.GlobalSnapshot{
		AsOf:             r.AsOf.UTC(),
		UserCount:        r.UserCount,
		InstitutionCount: r.InstitutionCount,
		CreatedAt:        r.CreatedAt.UTC(),
	}
}

type userPositionRow struct {
	AsOf                  time.Time `gorm:"column:as_of;primaryKey"`
	UserID                int64     `gorm:"column:user_id;primaryKey"`
	InstitutionID         int64     `gorm:"column:institution_id"`
	Rank                  int       `gorm:"column:rank"`
	InstitutionMemberRank int       `gorm:"column:institution_member_rank"`
	Points                int64     `gorm:"column:points"`
	BestRank              int       `gorm:"column:best_rank"`
	FirstEventDate        time.Time `gorm:"column:first_event_date"`
	ParticipationCount    int       `gorm:"column:participation_count"`
	SubmissionCount       int       `gorm:"column:submission_count"`
}

func (userPositionRow) TableName() string { return "global_user_positions" }

func userPositionRowsFrom(positions []model.UserPosition, date time.Time) []userPositionRow {
	rows := make([]userPositionRow, 0, len(positions))
	for _, p := range positions {
		rows = append(rows, userPositionRow{
			AsOf:                  date,
			UserID:                int64(p.UserID),
			InstitutionID:         int64(p.InstitutionID),
			Rank:                  p.Rank,
			InstitutionMemberRank: p.InstitutionMemberRank,
			Points:                p.Points,
			BestRank:              p.BestRank,
			FirstEventDate:        p.FirstEventDate.UTC(),
			ParticipationCount:    p.ParticipationCount,
			SubmissionCount:       p.SubmissionCount,
		})
	}
	return rows
}

func (r userPositionRow) toModel() model.UserPosition {
	return model.UserPosition{
		UserID:                model.UserID(r.UserID),
		InstitutionID:         model.InstitutionID(r.InstitutionID),
		Rank:                  r.Rank,
		InstitutionMemberRank: r.InstitutionMemberRank,
		Points:                r.Points,
		BestRank:              r.BestRank,
		FirstEventDate:        r.FirstEventDate.UTC(),
		ParticipationCount:    r.ParticipationCount,
		SubmissionCount:       r.SubmissionCount,
	}
}

type institutionPositionRow struct {
	AsOf                   time.Time      `gorm:"column:as_of;primaryKey"`
	InstitutionID          int64          `gorm:"column:institution_id;primaryKey"`
	Rank                   int            `gorm:"column:rank"`
	Points                 int64          `gorm:"column:points"`
	MemberPoints           int64          `gorm:"column:member_points"`
	MemberCount            int            `gorm:"column:member_count"`
	TopUserIDs             []model.UserID `gorm:"column:top_user_ids;serializer:json"`
	AveragePointsPerMember int64          `gorm:"column:average_points_per_member"`
}

func (institutionPositionRow) TableName() string { return "global_institution_positions" }

func institutionPositionRowsFrom(positions []model.InstitutionPosition, date time.Time) []institutionPositionRow {
	rows := make([]institutionPositionRow, 0, len(positions))
	for _, p := range positions {
		rows = append(rows, institutionPositionRow{
			AsOf:                   date,
			InstitutionID:          int64(p.InstitutionID),
			Rank:                   p.Rank,
			Points:                 p.Points,
			MemberPoints:           p.MemberPoints,
			MemberCount:            p.MemberCount,
			TopUserIDs:             p.TopUserIDs,
			AveragePointsPerMember: p.AveragePointsPerMember,
		})
	}
	return rows
}

func (r institutionPositionRow) toModel() model.InstitutionPosition {
	return model.InstitutionPosition{
		InstitutionID:          model.InstitutionID(r.InstitutionID),
		Rank:                   r.Rank,
		Points:                 r.Points,
		MemberPoints:           r.MemberPoints,
		MemberCount:            r.MemberCount,
		TopUserIDs:             r.TopUserIDs,
		AveragePointsPerMember: r.AveragePointsPerMember,
	}
}

type institutionParticipationRow struct {
	AsOf          time.Time `gorm:"column:as_of;primaryKey"`
	InstitutionID int64     `gorm:"column:institution_id;primaryKey"`
	CompetitionID int64     `gorm:"column:competition_id;primaryKey"`
	BestUserID    int64     `gorm:"column:best_user_id"`
	BestUserRank  int       `gorm:"column:best_user_rank"`
	MemberCount   int       `gorm:"column:member_count"`
	TotalPoints   int64     `gorm:"column:total_points"`
}

func (institutionParticipationRow) TableName() string { return "global_institution_participations" }

func institutionParticipationRowsFrom(parts []model.InstitutionParticipation, date time.Time) []institutionParticipationRow {
	rows := make([]institutionParticipationRow, 0, len(parts))
	for _, p := range parts {
		rows = append(rows, institutionParticipationRow{
			AsOf:          date,
			InstitutionID: int64(p.InstitutionID),
			CompetitionID: int64(p.CompetitionID),
			BestUserID:    int64(p.BestUserID),
			BestUserRank:  p.BestUserRank,
			MemberCount:   p.MemberCount,
			TotalPoints:   p.TotalPoints,
		})
	}
	return rows
}

func (r institutionParticipationRow) toModel() model.InstitutionParticipation {
	return model.InstitutionParticipation{
		InstitutionID: model.InstitutionID(r.InstitutionID),
		CompetitionID: model.CompetitionID(r.CompetitionID),
		BestUserID:    model.UserID(r.BestUserID),
		BestUserRank:  r.BestUserRank,
		MemberCount:   r.MemberCount,
		TotalPoints:   r.TotalPoints,
	}
}
