package snapshot

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/okian/vantage/internal/domain/model"
	"github.com/okian/vantage/pkg/logger"
)

// PostgresSource loads the input dataset from the platform's replicated
// tables. All reads are plain full-table scans; the dataset is small
// enough to hold in memory and a run wants one consistent view of it.
type PostgresSource struct {
	db  *gorm.DB
	log logger.Logger
}

// NewPostgresSource wires the source onto an open connection.
func NewPostgresSource(pg *Postgres, log logger.Logger) *PostgresSource {
	return &PostgresSource{db: pg.DB, log: log.Named("source")}
}

// Load reads every input table into one dataset.
func (s *PostgresSource) Load(ctx context.Context) (*model.Dataset, error) {
	started := time.Now()
	data := &model.Dataset{}

	var competitions []competitionRow
	if err := s.find(ctx, &competitions, "competitions"); err != nil {
		return nil, err
	}
	for _, r := range competitions {
		data.Competitions = append(data.Competitions, r.toModel())
	}

	var targets []targetRow
	if err := s.find(ctx, &targets, "targets"); err != nil {
		return nil, err
	}
	for _, r := range targets {
		data.Targets = append(data.Targets, r.toModel())
	}

	var rounds []roundRow
	if err := s.find(ctx, &rounds, "rounds"); err != nil {
		return nil, err
	}
	for _, r := range rounds {
		data.Rounds = append(data.Rounds, r.toModel())
	}

	var phases []phaseRow
	if err := s.find(ctx, &phases, "phases"); err != nil {
		return nil, err
	}
	for _, r := range phases {
		data.Phases = append(data.Phases, r.toModel())
	}

	var crunches []crunchRow
	if err := s.find(ctx, &crunches, "crunches"); err != nil {
		return nil, err
	}
	for _, r := range crunches {
		data.Crunches = append(data.Crunches, r.toModel())
	}

	if err := s.loadBoards(ctx, data); err != nil {
		return nil, err
	}

	var teams []teamRow
	if err := s.find(ctx, &teams, "teams"); err != nil {
		return nil, err
	}
	for _, r := range teams {
		data.Teams = append(data.Teams, r.toModel())
	}

	var members []teamMemberRow
	if err := s.find(ctx, &members, "team members"); err != nil {
		return nil, err
	}
	for _, r := range members {
		data.TeamMembers = append(data.TeamMembers, r.toModel())
	}

	var payouts []payoutRow
	if err := s.find(ctx, &payouts, "payouts"); err != nil {
		return nil, err
	}
	for _, r := range payouts {
		data.Payouts = append(data.Payouts, r.toModel())
	}

	var recipients []payoutRecipientRow
	if err := s.find(ctx, &recipients, "payout recipients"); err != nil {
		return nil, err
	}
	for _, r := range recipients {
		data.PayoutRecipients = append(data.PayoutRecipients, r.toModel())
	}

	var legacy []legacyEntryRow
	if err := s.find(ctx, &legacy, "legacy entries"); err != nil {
		return nil, err
	}
	for _, r := range legacy {
		data.LegacyEntries = append(data.LegacyEntries, r.toModel())
	}

	var users []userRow
	if err := s.find(ctx, &users, "users"); err != nil {
		return nil, err
	}
	for _, r := range users {
		data.Users = append(data.Users, r.toModel())
	}

	var universities []universityRow
	if err := s.find(ctx, &universities, "universities"); err != nil {
		return nil, err
	}
	for _, r := range universities {
		data.Universities = append(data.Universities, r.toModel())
	}

	var participations []participationRow
	if err := s.find(ctx, &participations, "participations"); err != nil {
		return nil, err
	}
	for _, r := range participations {
		data.Participations = append(data.Participations, r.toModel())
	}

	var submissions []submissionCountRow
	if err := s.find(ctx, &submissions, "submission counts"); err != nil {
		return nil, err
	}
	for _, r := range submissions {
		data.Submissions = append(data.Submissions, r.toModel())
	}

	s.log.Info(ctx, "dataset loaded",
		logger.Int("competitions", len(data.Competitions)),
		logger.Int("boards", len(data.Boards)),
		logger.Int("users", len(data.Users)),
		logger.Duration("took", time.Since(started)))
	return data, nil
}

func (s *PostgresSource) find(ctx context.Context, dest interface{}, what string) error {
	if err := s.db.WithContext(ctx).Find(dest).Error; err != nil {
		return fmt.Errorf("load %s: %w", what, err)
	}
	return nil
}

// loadBoards groups ranking entries into per-(crunch, target) boards.
// Board size is the entry count; truncated exports carry an explicit
// size row instead.
func (s *PostgresSource) loadBoards(ctx context.Context, data *model.Dataset) error {
	var entries []rankingEntryRow
	if err := s.db.WithContext(ctx).
		Order("crunch_id ASC, target_id ASC, rank ASC").
		Find(&entries).Error; err != nil {
		return fmt.Errorf("load ranking entries: %w", err)
	}

	var sizes []boardSizeRow
	if err := s.db.WithContext(ctx).Find(&sizes).Error; err != nil {
		return fmt.Errorf("load board sizes: %w", err)
	}
	sizeBy := make(map[[2]int64]int, len(sizes))
	for _, r := range sizes {
		sizeBy[[2]int64{r.CrunchID, r.TargetID}] = r.Size
	}

	type key struct {
		crunch model.CrunchID
		target model.TargetID
	}
	grouped := make(map[key][]model.RankingEntry)
	var order []key
	for _, r := range entries {
		k := key{crunch: model.CrunchID(r.CrunchID), target: model.TargetID(r.TargetID)}
		if _, ok := grouped[k]; !ok {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], r.toModel())
	}

	for _, k := range order {
		board := model.Board{
			CrunchID: k.crunch,
			TargetID: k.target,
			Entries:  grouped[k],
		}
		board.Size = len(board.Entries)
		if size, ok := sizeBy[[2]int64{int64(k.crunch), int64(k.target)}]; ok && size > board.Size {
			board.Size = size
		}
		data.Boards = append(data.Boards, board)
	}
	return nil
}

var _ Source = (*PostgresSource)(nil)
