package model

import "time"

// UserPosition is one user's row in a global snapshot.
type UserPosition struct {
	UserID        UserID
	InstitutionID InstitutionID // zero when unaffiliated
	Rank          int
	// InstitutionMemberRank orders the user inside their institution;
	// zero when unaffiliated.
	InstitutionMemberRank int
	Points                int64
	// BestRank is the best global rank the user ever held, carried
	// forward across snapshots.
	BestRank       int
	FirstEventDate time.Time
	// ParticipationCount counts competitions the user registered for up
	// to the as-of date, scored or not.
	ParticipationCount int
	SubmissionCount    int
}

// InstitutionPosition is one institution's row in a global snapshot.
type InstitutionPosition struct {
	InstitutionID InstitutionID
	Rank          int
	// Points is the sub-linear aggregate; MemberPoints the plain sum of
	// ranked member points.
	Points                 int64
	MemberPoints           int64
	MemberCount            int
	TopUserIDs             []UserID // up to three, best first
	AveragePointsPerMember int64
}

// InstitutionParticipation summarizes one institution's engagement with
// one competition within a snapshot. BestUserRank is the best
// leaderboard rank any member reached inside that competition, not the
// member's global position.
type InstitutionParticipation struct {
	InstitutionID InstitutionID
	CompetitionID CompetitionID
	BestUserID    UserID
	BestUserRank  int
	MemberCount   int
	TotalPoints   int64
}

// GlobalSnapshot is the atomic unit the history store commits: every
// position record for one as-of date.
type GlobalSnapshot struct {
	AsOf             time.Time
	UserCount        int
	InstitutionCount int
	Users            []UserPosition
	Institutions     []InstitutionPosition
	Participations   []InstitutionParticipation
	CreatedAt        time.Time
}
