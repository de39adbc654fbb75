// Package events turns the input dataset into scored events, one per
// effective leaderboard appearance. Offline competitions walk rounds,
// phases, crunches and targets; real-time competitions score paid
// checkpoint payouts; the legacy competition scores its archived daily
// boards. All three sources produce the same model.Event shape.
package events

import (
	"time"

	"github.com/okian/vantage/internal/domain/eligibility"
	"github.com/okian/vantage/internal/domain/model"
	"github.com/okian/vantage/internal/domain/points"
	"github.com/okian/vantage/internal/domain/weights"
)

// Data-quality warning kinds.
const (
	WarnPrizePool     = "prize_pool"
	WarnZeroDuration  = "zero_duration"
	WarnMissingBoard  = "missing_board"
	WarnZeroRawPoints = "zero_raw_points"
)

// Stats accumulates per-run observations for metrics and logs. Not
// goroutine-safe; each worker keeps its own and the engine merges them.
type Stats struct {
	Events     int
	Ineligible map[string]int
	Warnings   map[string]int
}

// NewStats returns an empty Stats.
func NewStats() *Stats {
	return &Stats{
		Ineligible: make(map[string]int),
		Warnings:   make(map[string]int),
	}
}

// Merge folds other into s.
func (s *Stats) Merge(other *Stats) {
	if other == nil {
		return
	}
	s.Events += other.Events
	for k, v := range other.Ineligible {
		s.Ineligible[k] += v
	}
	for k, v := range other.Warnings {
		s.Warnings[k] += v
	}
}

func (s *Stats) warn(kind string)     { s.Warnings[kind]++ }
func (s *Stats) reject(reason string) { s.Ineligible[reason]++ }

// Builder determines events for users against one indexed dataset.
type Builder struct {
	idx    *index
	filter *eligibility.Filter
	phases *weights.PhaseModel
	modern points.Calculator
	legacy points.Calculator

	realTimeCrunchesPerYear int
}

// NewBuilder indexes the dataset and wires the scoring models.
func NewBuilder(
	data *model.Dataset,
	filter *eligibility.Filter,
	phases *weights.PhaseModel,
	modern, legacy points.Calculator,
	realTimeCrunchesPerYear int,
) *Builder {
	return &Builder{
		idx:                     newIndex(data),
		filter:                  filter,
		phases:                  phases,
		modern:                  modern,
		legacy:                  legacy,
		realTimeCrunchesPerYear: realTimeCrunchesPerYear,
	}
}

// Determine produces every event for one user across all competitions,
// with raw points already computed. Safe for concurrent use.
func (b *Builder) Determine(user model.User, stats *Stats) []model.Event {
	var out []model.Event

	for _, comp := range b.idx.competitions {
		switch {
		case comp.Legacy:
			out = b.legacyEvents(comp, user, out, stats)
		case comp.Mode == model.ModeRealTime:
			out = b.realTimeEvents(comp, user, out, stats)
		default:
			out = b.offlineEvents(comp, user, out, stats)
		}
	}

	stats.Events += len(out)
	return out
}

func (b *Builder) offlineEvents(comp model.Competition, user model.User, out []model.Event, stats *Stats) []model.Event {
	duration := b.idx.durationByCompetition[comp.ID]
	if duration == 0 {
		return out
	}

	teamID := b.idx.teamFor(comp.ID, user.ID)

	for _, round := range b.idx.roundsByCompetition[comp.ID] {
		for _, phase := range b.idx.phasesByRound[round.ID] {
			private := phase.Kind == model.PhaseOutOfSample

			crunches := b.idx.crunchesByPhase[phase.ID]
			if private && len(crunches) > 1 {
				// Only the final out-of-sample crunch scores.
				crunches = crunches[len(crunches)-1:]
			}

			for _, crunch := range crunches {
				for _, target := range b.idx.targetsByCompetition[comp.ID] {
					resolver := b.idx.resolver(crunch.ID, target.ID)
					if resolver == nil {
						stats.warn(WarnMissingBoard)
						continue
					}

					res, ok := resolver.Resolve(user.ID, teamID, private)
					if !ok {
						continue
					}

					effective, reason := b.filter.Check(res.Rank, res.Duplicate)
					if !effective {
						stats.reject(reason)
						continue
					}

					in := points.Input{
						Competition:     comp,
						Rank:            res.Rank,
						BoardSize:       resolver.Size(),
						TargetWeight:    weights.TargetWeight(target, comp),
						PerCrunchWeight: b.phases.PerCrunch(phase.Kind, duration),
					}

					out = append(out, b.newEvent(user, comp, target.ID, crunch.ID, crunch.End, res.Rank, resolver.Size(), phase.Kind, in, stats))
				}
			}
		}
	}

	return out
}

func (b *Builder) realTimeEvents(comp model.Competition, user model.User, out []model.Event, stats *Stats) []model.Event {
	perCrunch := 0.0
	if b.realTimeCrunchesPerYear > 0 {
		perCrunch = b.phases.Base(model.PhaseOutOfSample) / float64(b.realTimeCrunchesPerYear)
	}

	for _, payout := range b.idx.payoutsByCompetition[comp.ID] {
		recipient, ok := b.idx.recipientByPayoutUser[payout.ID][user.ID]
		if !ok {
			continue
		}

		rank := float64(recipient.Rank)
		effective, reason := b.filter.Check(rank, false)
		if !effective {
			stats.reject(reason)
			continue
		}

		in := points.Input{
			Competition:     comp,
			Rank:            rank,
			BoardSize:       payout.Size,
			TargetWeight:    1,
			PerCrunchWeight: perCrunch,
		}

		out = append(out, b.newEvent(user, comp, 0, 0, payout.Date, rank, payout.Size, model.PhaseOutOfSample, in, stats))
	}

	return out
}

func (b *Builder) legacyEvents(comp model.Competition, user model.User, out []model.Event, stats *Stats) []model.Event {
	for _, entry := range b.idx.legacyEntriesByUser[user.ID] {
		rank := float64(entry.Rank)
		effective, reason := b.filter.Check(rank, false)
		if !effective {
			stats.reject(reason)
			continue
		}

		in := points.Input{
			Competition: comp,
			Rank:        rank,
			BoardSize:   entry.CrunchSize,
		}

		out = append(out, b.newEvent(user, comp, 0, 0, entry.CrunchDate, rank, entry.CrunchSize, model.PhaseOutOfSample, in, stats))
	}

	return out
}

func (b *Builder) newEvent(
	user model.User,
	comp model.Competition,
	targetID model.TargetID,
	crunchID model.CrunchID,
	start time.Time,
	rank float64,
	boardSize int,
	phase model.PhaseKind,
	in points.Input,
	stats *Stats,
) model.Event {
	raw := points.Select(comp, b.modern, b.legacy).Raw(in)
	if raw <= 0 {
		switch {
		case comp.PrizePoolUSD <= 0:
			stats.warn(WarnPrizePool)
		case !comp.Legacy && in.PerCrunchWeight <= 0:
			stats.warn(WarnZeroDuration)
		default:
			stats.warn(WarnZeroRawPoints)
		}
	}

	return model.Event{
		UserID:        user.ID,
		CompetitionID: comp.ID,
		TargetID:      targetID,
		CrunchID:      crunchID,
		Start:         start,
		Rank:          rank,
		BoardSize:     boardSize,
		Phase:         phase,
		RawPoints:     raw,
	}
}
