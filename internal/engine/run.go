package engine

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/vantage/internal/adapters/snapshot"
	"github.com/okian/vantage/internal/domain/events"
	"github.com/okian/vantage/internal/domain/institution"
	"github.com/okian/vantage/internal/domain/model"
	"github.com/okian/vantage/internal/domain/ranking"
	"github.com/okian/vantage/pkg/logger"
	"github.com/okian/vantage/pkg/metrics"
)

// Report summarizes one committed run.
type Report struct {
	RunID           string
	AsOf            time.Time
	Users           int
	Institutions    int
	Events          int
	NewInstitutions int
	Replaced        bool
	Took            time.Duration
}

// userScore accumulates one user's state through the pipeline stages.
type userScore struct {
	user       model.User
	events     []model.Event
	points     int64
	firstEvent time.Time
}

type instAgg struct {
	inst         model.Institution
	members      []*userScore
	memberPoints int64
	points       int64
	firstEvent   time.Time
}

// Run executes one full pipeline pass for the given as-of date and
// commits the resulting snapshot. Cancelling the context aborts the run
// before the commit point.
func (e *Engine) Run(ctx context.Context, asOf time.Time) (Report, error) {
	runID := uuid.NewString()
	date := snapshot.DateKey(asOf)
	started := time.Now()

	metrics.RecordRunStarted()
	e.log.Info(ctx, "run starting",
		logger.String("run_id", runID),
		logger.Date("as_of", date))

	fail := func(stage string, err error) (Report, error) {
		metrics.RecordRunFailed()
		e.log.Error(ctx, "run failed",
			logger.String("run_id", runID),
			logger.String("stage", stage),
			logger.Error(err))
		return Report{}, fmt.Errorf("%s: %w", stage, err)
	}

	stageStart := time.Now()
	data, err := e.source.Load(ctx)
	if err != nil {
		return fail("load", err)
	}
	metrics.ObserveStage("load", time.Since(stageStart))

	stageStart = time.Now()
	scores, stats, err := e.determineAll(ctx, data)
	if err != nil {
		return fail("events", err)
	}
	metrics.AddEventsComputed(stats.Events)
	for reason, n := range stats.Ineligible {
		metrics.AddIneligible(reason, n)
	}
	for kind, n := range stats.Warnings {
		metrics.AddDataQualityWarnings(kind, n)
		e.log.Warn(ctx, "data quality issues",
			logger.String("run_id", runID),
			logger.String("kind", kind),
			logger.Int("count", n))
	}
	metrics.ObserveStage("events", time.Since(stageStart))

	stageStart = time.Now()
	scores = e.decayTotals(scores, date)
	metrics.ObserveStage("decay", time.Since(stageStart))

	stageStart = time.Now()
	registry := institution.NewRegistry(data.Universities)
	directory := institution.BuildDirectory(registry, data.Users, data.Participations, date)
	aggs := e.aggregateInstitutions(scores, directory)
	metrics.ObserveStage("aggregate", time.Since(stageStart))

	prevBest, knownInsts, err := e.loadHistory(ctx, date)
	if err != nil {
		return fail("history", err)
	}

	stageStart = time.Now()
	snap := e.buildSnapshot(date, data, scores, aggs, prevBest)
	metrics.SetUsersRanked(len(snap.Users))
	metrics.SetInstitutionsRanked(len(snap.Institutions))
	metrics.ObserveStage("rank", time.Since(stageStart))

	if err := ctx.Err(); err != nil {
		return fail("commit", err)
	}

	commitStart := time.Now()
	replaced, err := e.store.Commit(ctx, snap)
	if err != nil {
		return fail("commit", err)
	}
	metrics.RecordSnapshotWrite(time.Since(commitStart), replaced)
	metrics.ObserveStage("commit", time.Since(commitStart))

	created := e.notifyCreated(data, aggs, snap, knownInsts)

	took := time.Since(started)
	metrics.RecordRunCompleted(took)
	e.log.Info(ctx, "run committed",
		logger.String("run_id", runID),
		logger.Date("as_of", date),
		logger.Int("users", len(snap.Users)),
		logger.Int("institutions", len(snap.Institutions)),
		logger.Int("events", stats.Events),
		logger.Int("new_institutions", created),
		logger.Bool("replaced", replaced),
		logger.Duration("took", took))

	return Report{
		RunID:           runID,
		AsOf:            date,
		Users:           len(snap.Users),
		Institutions:    len(snap.Institutions),
		Events:          stats.Events,
		NewInstitutions: created,
		Replaced:        replaced,
		Took:            took,
	}, nil
}

// Backfill runs once per calendar date from from through to, oldest
// first, so best-rank carry-forward sees each prior day.
func (e *Engine) Backfill(ctx context.Context, from, to time.Time) ([]Report, error) {
	start := snapshot.DateKey(from)
	end := snapshot.DateKey(to)

	var reports []Report
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		report, err := e.Run(ctx, date)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// determineAll fans users out over the worker pool and collects their
// scored events.
func (e *Engine) determineAll(ctx context.Context, data *model.Dataset) ([]*userScore, *events.Stats, error) {
	builder := events.NewBuilder(data, e.filter, e.phases, e.modern, e.legacy, e.realTimeCrunchesPerYear)

	type workerOut struct {
		scores []*userScore
		stats  *events.Stats
	}

	queue := newJobQueue(e.queueSize)
	outCh := make(chan workerOut, e.workerCount)

	var wg sync.WaitGroup
	for i := 0; i < e.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out := workerOut{stats: events.NewStats()}
			for user := range queue.dequeue() {
				evs := builder.Determine(user, out.stats)
				if len(evs) == 0 {
					continue
				}
				out.scores = append(out.scores, &userScore{
					user:   user,
					events: evs,
				})
			}
			outCh <- out
		}()
	}

	go func() {
		for _, user := range data.Users {
			if !queue.enqueue(ctx, user) {
				break
			}
		}
		queue.close()
	}()

	wg.Wait()
	close(outCh)

	stats := events.NewStats()
	var scores []*userScore
	for out := range outCh {
		stats.Merge(out.stats)
		scores = append(scores, out.scores...)
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	sort.Slice(scores, func(i, j int) bool { return scores[i].user.ID < scores[j].user.ID })
	return scores, stats, nil
}

// decayTotals re-evaluates every event against the as-of date and sums
// per-user totals. Events dated after the as-of date do not exist yet
// from that date's point of view and are dropped, which is what makes
// backfilled dates faithful.
func (e *Engine) decayTotals(scores []*userScore, date time.Time) []*userScore {
	kept := scores[:0]
	evaluations := 0

	for _, s := range scores {
		visible := s.events[:0]
		for _, ev := range s.events {
			if ev.Start.After(date) {
				continue
			}
			visible = append(visible, ev)

			pts := e.decay.Points(ev.RawPoints, ev.Start, date)
			if pts == 0 {
				metrics.RecordZeroPointEvent()
			}
			s.points += pts
			if s.firstEvent.IsZero() || ev.Start.Before(s.firstEvent) {
				s.firstEvent = ev.Start
			}
		}
		evaluations += len(visible)
		s.events = visible

		if len(visible) > 0 {
			kept = append(kept, s)
		}
	}

	metrics.AddDecayEvaluations(evaluations)
	return kept
}

func (e *Engine) aggregateInstitutions(scores []*userScore, directory *institution.Directory) map[model.InstitutionID]*instAgg {
	instByID := make(map[model.InstitutionID]model.Institution)
	for _, inst := range directory.Institutions() {
		instByID[inst.ID] = inst
	}

	aggs := make(map[model.InstitutionID]*instAgg)
	for _, s := range scores {
		instID, ok := directory.MemberOf(s.user.ID)
		if !ok {
			continue
		}
		agg := aggs[instID]
		if agg == nil {
			agg = &instAgg{inst: instByID[instID]}
			aggs[instID] = agg
		}
		agg.members = append(agg.members, s)
		agg.memberPoints += s.points
		if agg.firstEvent.IsZero() || s.firstEvent.Before(agg.firstEvent) {
			agg.firstEvent = s.firstEvent
		}
	}

	for _, agg := range aggs {
		combined := e.instScore.Combine(float64(agg.memberPoints), len(agg.members))
		agg.points = int64(math.Ceil(combined))
	}
	return aggs
}

func (e *Engine) loadHistory(ctx context.Context, date time.Time) (map[model.UserID]int, map[model.InstitutionID]struct{}, error) {
	prevBest := make(map[model.UserID]int)
	knownInsts := make(map[model.InstitutionID]struct{})

	prev, ok, err := e.store.LatestBefore(ctx, date)
	if err != nil {
		return nil, nil, err
	}
	if ok {
		for _, u := range prev.Users {
			prevBest[u.UserID] = u.BestRank
		}
		for _, inst := range prev.Institutions {
			knownInsts[inst.InstitutionID] = struct{}{}
		}
	}

	// A same-date snapshot about to be replaced also counts as known, so
	// an idempotent re-run does not re-announce the day's creations.
	same, ok, err := e.store.LatestBefore(ctx, date.AddDate(0, 0, 1))
	if err != nil {
		return nil, nil, err
	}
	if ok {
		for _, inst := range same.Institutions {
			knownInsts[inst.InstitutionID] = struct{}{}
		}
	}

	return prevBest, knownInsts, nil
}

func (e *Engine) buildSnapshot(
	date time.Time,
	data *model.Dataset,
	scores []*userScore,
	aggs map[model.InstitutionID]*instAgg,
	prevBest map[model.UserID]int,
) model.GlobalSnapshot {
	scoreByID := make(map[model.UserID]*userScore, len(scores))
	userRows := make([]ranking.Row, 0, len(scores))
	for _, s := range scores {
		scoreByID[s.user.ID] = s
		userRows = append(userRows, ranking.Row{
			ID:         int64(s.user.ID),
			Points:     s.points,
			FirstEvent: s.firstEvent,
		})
	}
	placedUsers := ranking.Rank(userRows)

	// Member ranks and top members inside each institution.
	memberRank := make(map[model.UserID]int)
	instOf := make(map[model.UserID]model.InstitutionID)
	topByInst := make(map[model.InstitutionID][]model.UserID)
	for instID, agg := range aggs {
		rows := make([]ranking.Row, 0, len(agg.members))
		for _, s := range agg.members {
			rows = append(rows, ranking.Row{
				ID:         int64(s.user.ID),
				Points:     s.points,
				FirstEvent: s.firstEvent,
			})
			instOf[s.user.ID] = instID
		}
		for i, p := range ranking.Rank(rows) {
			memberRank[model.UserID(p.ID)] = p.Rank
			if i < 3 {
				topByInst[instID] = append(topByInst[instID], model.UserID(p.ID))
			}
		}
	}

	submissions := make(map[model.UserID]int)
	for _, sub := range data.Submissions {
		if !sub.Date.After(date) {
			submissions[sub.UserID] += sub.Count
		}
	}

	// Registrations up to the as-of date, whether or not they scored.
	registrations := make(map[model.UserID]map[model.CompetitionID]struct{})
	for _, p := range data.Participations {
		if p.CreatedAt.After(date) {
			continue
		}
		set := registrations[p.UserID]
		if set == nil {
			set = make(map[model.CompetitionID]struct{})
			registrations[p.UserID] = set
		}
		set[p.CompetitionID] = struct{}{}
	}

	snap := model.GlobalSnapshot{AsOf: date, CreatedAt: time.Now().UTC()}

	for _, p := range placedUsers {
		userID := model.UserID(p.ID)
		s := scoreByID[userID]

		pos := model.UserPosition{
			UserID:                userID,
			InstitutionID:         instOf[userID],
			Rank:                  p.Rank,
			InstitutionMemberRank: memberRank[userID],
			Points:                p.Points,
			BestRank:              p.Rank,
			FirstEventDate:        s.firstEvent,
			ParticipationCount:    len(registrations[userID]),
			SubmissionCount:       submissions[userID],
		}
		if best, ok := prevBest[userID]; ok && best > 0 && best < pos.BestRank {
			pos.BestRank = best
		}
		snap.Users = append(snap.Users, pos)
	}

	instRows := make([]ranking.Row, 0, len(aggs))
	for instID, agg := range aggs {
		instRows = append(instRows, ranking.Row{
			ID:         int64(instID),
			Points:     agg.points,
			FirstEvent: agg.firstEvent,
		})
	}
	for _, p := range ranking.Rank(instRows) {
		instID := model.InstitutionID(p.ID)
		agg := aggs[instID]

		avg := int64(0)
		if len(agg.members) > 0 {
			avg = agg.memberPoints / int64(len(agg.members))
		}
		snap.Institutions = append(snap.Institutions, model.InstitutionPosition{
			InstitutionID:          instID,
			Rank:                   p.Rank,
			Points:                 agg.points,
			MemberPoints:           agg.memberPoints,
			MemberCount:            len(agg.members),
			TopUserIDs:             topByInst[instID],
			AveragePointsPerMember: avg,
		})
	}

	snap.Participations = e.institutionParticipations(date, aggs)
	snap.UserCount = len(snap.Users)
	snap.InstitutionCount = len(snap.Institutions)
	return snap
}

// institutionParticipations summarizes each institution's engagement
// per competition: how many members competed, their combined decayed
// points and the member holding the best leaderboard rank within that
// competition.
func (e *Engine) institutionParticipations(
	date time.Time,
	aggs map[model.InstitutionID]*instAgg,
) []model.InstitutionParticipation {
	var out []model.InstitutionParticipation

	for instID, agg := range aggs {
		type compAgg struct {
			members  map[model.UserID]struct{}
			points   int64
			best     model.UserID
			bestRank int
		}
		byComp := make(map[model.CompetitionID]*compAgg)

		for _, s := range agg.members {
			for _, ev := range s.events {
				ca := byComp[ev.CompetitionID]
				if ca == nil {
					ca = &compAgg{members: make(map[model.UserID]struct{})}
					byComp[ev.CompetitionID] = ca
				}
				ca.members[s.user.ID] = struct{}{}
				ca.points += e.decay.Points(ev.RawPoints, ev.Start, date)

				rank := int(ev.Rank)
				if ca.best == 0 || rank < ca.bestRank ||
					(rank == ca.bestRank && s.user.ID < ca.best) {
					ca.best = s.user.ID
					ca.bestRank = rank
				}
			}
		}

		for compID, ca := range byComp {
			out = append(out, model.InstitutionParticipation{
				InstitutionID: instID,
				CompetitionID: compID,
				BestUserID:    ca.best,
				BestUserRank:  ca.bestRank,
				MemberCount:   len(ca.members),
				TotalPoints:   ca.points,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].InstitutionID != out[j].InstitutionID {
			return out[i].InstitutionID < out[j].InstitutionID
		}
		return out[i].CompetitionID < out[j].CompetitionID
	})
	return out
}

// notifyCreated counts ranked institutions absent from every known
// snapshot and fires the sitegen trigger for each.
func (e *Engine) notifyCreated(
	data *model.Dataset,
	aggs map[model.InstitutionID]*instAgg,
	snap model.GlobalSnapshot,
	known map[model.InstitutionID]struct{},
) int {
	loginByID := make(map[model.UserID]string, len(data.Users))
	for _, u := range data.Users {
		loginByID[u.ID] = u.Login
	}

	created := 0
	for _, pos := range snap.Institutions {
		if _, ok := known[pos.InstitutionID]; ok {
			continue
		}
		agg := aggs[pos.InstitutionID]
		if agg == nil {
			continue
		}

		created++
		metrics.RecordInstitutionCreated()

		if e.sitegen == nil || !e.sitegen.Enabled() {
			continue
		}

		logins := make([]string, 0, len(pos.TopUserIDs))
		for _, id := range pos.TopUserIDs {
			if login := loginByID[id]; login != "" {
				logins = append(logins, login)
			}
		}
		e.sitegen.NotifyCreated(agg.inst, logins)
	}
	return created
}
