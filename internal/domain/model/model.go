// Package model contains the domain entities of the global leaderboard
// engine. Everything here is plain data; behaviour lives in the domain
// packages that consume it.
package model

import "time"

// Typed identifiers, matching the platform's numeric primary keys.
type (
	UserID        int64
	CompetitionID int64
	TargetID      int64
	RoundID       int64
	PhaseID       int64
	CrunchID      int64
	TeamID        int64
	PayoutID      int64
	InstitutionID int64
)

// CompetitionMode distinguishes crunch-based competitions from
// continuously-scored ones.
type CompetitionMode string

const (
	ModeOffline  CompetitionMode = "OFFLINE"
	ModeRealTime CompetitionMode = "REAL_TIME"
)

// PhaseKind is the scoring window of a crunch: submission leaderboards
// are public, out-of-sample leaderboards are private.
type PhaseKind string

const (
	PhaseSubmission  PhaseKind = "SUBMISSION"
	PhaseOutOfSample PhaseKind = "OUT_OF_SAMPLE"
)

// Competition is a single competition on the platform.
type Competition struct {
	ID           CompetitionID
	Name         string
	Mode         CompetitionMode
	Legacy       bool
	PrizePoolUSD float64
	Start        time.Time
}

// Target is one prediction objective of a competition with its share of
// the prize pool. When any virtual target exists for a competition, only
// virtual targets are usable for scoring.
type Target struct {
	ID            TargetID
	CompetitionID CompetitionID
	Name          string
	PrizeShareUSD float64
	Virtual       bool
}

// Round groups phases inside a competition.
type Round struct {
	ID            RoundID
	CompetitionID CompetitionID
	End           time.Time
}

// Phase is a scoring window inside a round.
type Phase struct {
	ID      PhaseID
	RoundID RoundID
	Kind    PhaseKind
}

// Crunch is a single scored deadline inside a phase.
type Crunch struct {
	ID      CrunchID
	PhaseID PhaseID
	Number  int
	End     time.Time
}

// RankingEntry is one user's appearance on a crunch-target leaderboard.
// TeamID is zero for solo entries. Duplicate carries the external
// duplicate-submission verdict.
type RankingEntry struct {
	CrunchID  CrunchID
	TargetID  TargetID
	UserID    UserID
	TeamID    TeamID
	Rank      int
	Duplicate bool
}

// Board is a materialized leaderboard for one (crunch, target) pair.
// Size may exceed len(Entries) when trailing ranks were truncated at
// export time.
type Board struct {
	CrunchID CrunchID
	TargetID TargetID
	Size     int
	Entries  []RankingEntry
}

// Team and TeamMember describe competition team membership.
type Team struct {
	ID            TeamID
	CompetitionID CompetitionID
}

type TeamMember struct {
	TeamID TeamID
	UserID UserID
}

// Payout is a paid checkpoint of a real-time competition; recipients are
// scored by payout rank instead of leaderboard rank.
type Payout struct {
	ID            PayoutID
	CompetitionID CompetitionID
	Date          time.Time
	Size          int
}

type PayoutRecipient struct {
	PayoutID PayoutID
	UserID   UserID
	Rank     int
}

// LegacyEntry is an appearance on the pre-platform legacy competition.
type LegacyEntry struct {
	UserID     UserID
	CrunchDate time.Time
	CrunchSize int
	Rank       int
}

// User is a platform account. University is the display name the user
// selected, empty when none.
type User struct {
	ID         UserID
	Login      string
	University string
}

// University is a registry entry used to resolve user-declared names.
type University struct {
	Name    string
	URL     string
	Country string
}

// Participation records a user registering for a competition while
// affiliated with a university.
type Participation struct {
	UserID        UserID
	CompetitionID CompetitionID
	University    string
	CreatedAt     time.Time
}

// Institution aggregates users affiliated with the same university.
// About and the media fields are populated out-of-band by the external
// description service and pass through this engine untouched.
type Institution struct {
	ID          InstitutionID
	Name        string
	DisplayName string
	Country     string
	WebsiteURL  string
	About       string
	CreatedAt   time.Time
}

// DailySubmissionCount is one user's submission count on one date, used
// to attach cumulative submission counts to positions.
type DailySubmissionCount struct {
	UserID UserID
	Date   time.Time
	Count  int
}

// Event is one scored appearance: derived, immutable once raw points are
// computed, re-decayed against each evaluation date.
type Event struct {
	UserID        UserID
	CompetitionID CompetitionID
	TargetID      TargetID
	CrunchID      CrunchID
	Start         time.Time
	Rank          float64
	BoardSize     int
	Phase         PhaseKind
	RawPoints     float64
}

// Dataset is the read-only, versioned input snapshot a run operates on.
type Dataset struct {
	Competitions     []Competition
	Targets          []Target
	Rounds           []Round
	Phases           []Phase
	Crunches         []Crunch
	Boards           []Board
	Teams            []Team
	TeamMembers      []TeamMember
	Payouts          []Payout
	PayoutRecipients []PayoutRecipient
	LegacyEntries    []LegacyEntry
	Users            []User
	Universities     []University
	Participations   []Participation
	Submissions      []DailySubmissionCount
}
