package events

import (
	"sort"

	"github.com/okian/vantage/internal/domain/groups"
	"github.com/okian/vantage/internal/domain/model"
)

type boardKey struct {
	crunch model.CrunchID
	target model.TargetID
}

// index precomputes the lookups event determination needs. It is built
// once per run from the input dataset and read concurrently by workers.
type index struct {
	competitions []model.Competition

	targetsByCompetition  map[model.CompetitionID][]model.Target
	roundsByCompetition   map[model.CompetitionID][]model.Round
	phasesByRound         map[model.RoundID][]model.Phase
	crunchesByPhase       map[model.PhaseID][]model.Crunch
	resolverByBoard       map[boardKey]*groups.Resolver
	teamByCompetitionUser map[model.CompetitionID]map[model.UserID]model.TeamID
	payoutsByCompetition  map[model.CompetitionID][]model.Payout
	recipientByPayoutUser map[model.PayoutID]map[model.UserID]model.PayoutRecipient
	legacyEntriesByUser   map[model.UserID][]model.LegacyEntry

	// durationByCompetition counts the scored crunches of each offline
	// competition: every submission crunch scores, an out-of-sample
	// phase scores only its final crunch.
	durationByCompetition map[model.CompetitionID]int
}

func newIndex(data *model.Dataset) *index {
	idx := &index{
		competitions:          data.Competitions,
		targetsByCompetition:  make(map[model.CompetitionID][]model.Target),
		roundsByCompetition:   make(map[model.CompetitionID][]model.Round),
		phasesByRound:         make(map[model.RoundID][]model.Phase),
		crunchesByPhase:       make(map[model.PhaseID][]model.Crunch),
		resolverByBoard:       make(map[boardKey]*groups.Resolver),
		teamByCompetitionUser: make(map[model.CompetitionID]map[model.UserID]model.TeamID),
		payoutsByCompetition:  make(map[model.CompetitionID][]model.Payout),
		recipientByPayoutUser: make(map[model.PayoutID]map[model.UserID]model.PayoutRecipient),
		legacyEntriesByUser:   make(map[model.UserID][]model.LegacyEntry),
		durationByCompetition: make(map[model.CompetitionID]int),
	}

	for _, t := range data.Targets {
		idx.targetsByCompetition[t.CompetitionID] = append(idx.targetsByCompetition[t.CompetitionID], t)
	}
	// Virtual targets shadow plain ones: when a competition defines any,
	// only virtual targets are usable.
	for compID, targets := range idx.targetsByCompetition {
		var virtual []model.Target
		for _, t := range targets {
			if t.Virtual {
				virtual = append(virtual, t)
			}
		}
		if len(virtual) > 0 {
			idx.targetsByCompetition[compID] = virtual
		}
	}

	for _, r := range data.Rounds {
		idx.roundsByCompetition[r.CompetitionID] = append(idx.roundsByCompetition[r.CompetitionID], r)
	}
	for _, p := range data.Phases {
		idx.phasesByRound[p.RoundID] = append(idx.phasesByRound[p.RoundID], p)
	}
	for _, c := range data.Crunches {
		idx.crunchesByPhase[c.PhaseID] = append(idx.crunchesByPhase[c.PhaseID], c)
	}
	for _, crunches := range idx.crunchesByPhase {
		sort.Slice(crunches, func(i, j int) bool { return crunches[i].Number < crunches[j].Number })
	}

	for i := range data.Boards {
		b := &data.Boards[i]
		idx.resolverByBoard[boardKey{crunch: b.CrunchID, target: b.TargetID}] = groups.NewResolver(*b)
	}

	teamComp := make(map[model.TeamID]model.CompetitionID, len(data.Teams))
	for _, t := range data.Teams {
		teamComp[t.ID] = t.CompetitionID
	}
	for _, m := range data.TeamMembers {
		compID, ok := teamComp[m.TeamID]
		if !ok {
			continue
		}
		byUser := idx.teamByCompetitionUser[compID]
		if byUser == nil {
			byUser = make(map[model.UserID]model.TeamID)
			idx.teamByCompetitionUser[compID] = byUser
		}
		byUser[m.UserID] = m.TeamID
	}

	for _, p := range data.Payouts {
		idx.payoutsByCompetition[p.CompetitionID] = append(idx.payoutsByCompetition[p.CompetitionID], p)
	}
	for _, r := range data.PayoutRecipients {
		byUser := idx.recipientByPayoutUser[r.PayoutID]
		if byUser == nil {
			byUser = make(map[model.UserID]model.PayoutRecipient)
			idx.recipientByPayoutUser[r.PayoutID] = byUser
		}
		byUser[r.UserID] = r
	}

	for _, e := range data.LegacyEntries {
		idx.legacyEntriesByUser[e.UserID] = append(idx.legacyEntriesByUser[e.UserID], e)
	}

	for _, comp := range data.Competitions {
		idx.durationByCompetition[comp.ID] = idx.scoredCrunchCount(comp.ID)
	}

	return idx
}

func (idx *index) scoredCrunchCount(compID model.CompetitionID) int {
	count := 0
	for _, round := range idx.roundsByCompetition[compID] {
		for _, phase := range idx.phasesByRound[round.ID] {
			crunches := idx.crunchesByPhase[phase.ID]
			if len(crunches) == 0 {
				continue
			}
			if phase.Kind == model.PhaseOutOfSample {
				count++
			} else {
				count += len(crunches)
			}
		}
	}
	return count
}

func (idx *index) teamFor(compID model.CompetitionID, userID model.UserID) model.TeamID {
	if byUser, ok := idx.teamByCompetitionUser[compID]; ok {
		return byUser[userID]
	}
	return 0
}

func (idx *index) resolver(crunchID model.CrunchID, targetID model.TargetID) *groups.Resolver {
	return idx.resolverByBoard[boardKey{crunch: crunchID, target: targetID}]
}
