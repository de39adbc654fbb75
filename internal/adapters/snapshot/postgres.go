package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/okian/vantage/internal/domain/model"
	"github.com/okian/vantage/pkg/logger"
)

// Postgres wraps the shared database handle.
type Postgres struct {
	DB *gorm.DB
}

// Connect opens and pings a postgres connection.
func Connect(dsn string) (*Postgres, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open gorm postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("resolve postgres sql db handle: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Postgres{DB: db}, nil
}

// Close releases the underlying connection pool.
func (p *Postgres) Close() error {
	if p == nil || p.DB == nil {
		return nil
	}
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// PostgresStore is the durable HistoryStore.
type PostgresStore struct {
	db  *gorm.DB
	log logger.Logger
}

// NewPostgresStore wires the store onto an open connection.
func NewPostgresStore(pg *Postgres, log logger.Logger) *PostgresStore {
	return &PostgresStore{db: pg.DB, log: log.Named("history")}
}

// Migrate creates or updates the history tables.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(
		&snapshotRow{},
		&userPositionRow{},
		&institutionPositionRow{},
		&institutionParticipationRow{},
	)
}

const insertBatchSize = 500

// Commit writes the snapshot in one transaction, deleting any rows
// already present for the same date first.
func (s *PostgresStore) Commit(ctx context.Context, snap model.GlobalSnapshot) (bool, error) {
	date := DateKey(snap.AsOf)
	replaced := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("as_of = ?", date).Delete(&snapshotRow{})
		if res.Error != nil {
			return fmt.Errorf("delete snapshot header: %w", res.Error)
		}
		replaced = res.RowsAffected > 0

		for _, m := range []interface{}{&userPositionRow{}, &institutionPositionRow{}, &institutionParticipationRow{}} {
			if err := tx.Where("as_of = ?", date).Delete(m).Error; err != nil {
				return fmt.Errorf("delete snapshot rows: %w", err)
			}
		}

		header := snapshotRowFrom(snap, date)
		if err := tx.Create(&header).Error; err != nil {
			return fmt.Errorf("insert snapshot header: %w", err)
		}

		users := userPositionRowsFrom(snap.Users, date)
		if len(users) > 0 {
			if err := tx.CreateInBatches(users, insertBatchSize).Error; err != nil {
				return fmt.Errorf("insert user positions: %w", err)
			}
		}

		insts := institutionPositionRowsFrom(snap.Institutions, date)
		if len(insts) > 0 {
			if err := tx.CreateInBatches(insts, insertBatchSize).Error; err != nil {
				return fmt.Errorf("insert institution positions: %w", err)
			}
		}

		parts := institutionParticipationRowsFrom(snap.Participations, date)
		if len(parts) > 0 {
			if err := tx.CreateInBatches(parts, insertBatchSize).Error; err != nil {
				return fmt.Errorf("insert institution participations: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		s.log.Error(ctx, "snapshot commit failed",
			logger.Date("as_of", date),
			logger.Error(err))
		return false, err
	}

	s.log.Info(ctx, "snapshot committed",
		logger.Date("as_of", date),
		logger.Bool("replaced", replaced),
		logger.Int("users", len(snap.Users)),
		logger.Int("institutions", len(snap.Institutions)))
	return replaced, nil
}

// LatestBefore loads the newest snapshot dated strictly before asOf.
func (s *PostgresStore) LatestBefore(ctx context.Context, asOf time.Time) (model.GlobalSnapshot, bool, error) {
	var header snapshotRow
	err := s.db.WithContext(ctx).
		Where("as_of < ?", DateKey(asOf)).
		Order("as_of DESC").
		First(&header).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.GlobalSnapshot{}, false, nil
		}
		return model.GlobalSnapshot{}, false, fmt.Errorf("load snapshot header: %w", err)
	}

	snap := header.toModel()

	var users []userPositionRow
	if err := s.db.WithContext(ctx).
		Where("as_of = ?", header.AsOf).
		Order("rank ASC, user_id ASC").
		Find(&users).Error; err != nil {
		return model.GlobalSnapshot{}, false, fmt.Errorf("load user positions: %w", err)
	}
	for _, row := range users {
		snap.Users = append(snap.Users, row.toModel())
	}

	var insts []institutionPositionRow
	if err := s.db.WithContext(ctx).
		Where("as_of = ?", header.AsOf).
		Order("rank ASC, institution_id ASC").
		Find(&insts).Error; err != nil {
		return model.GlobalSnapshot{}, false, fmt.Errorf("load institution positions: %w", err)
	}
	for _, row := range insts {
		snap.Institutions = append(snap.Institutions, row.toModel())
	}

	var parts []institutionParticipationRow
	if err := s.db.WithContext(ctx).
		Where("as_of = ?", header.AsOf).
		Order("institution_id ASC, competition_id ASC").
		Find(&parts).Error; err != nil {
		return model.GlobalSnapshot{}, false, fmt.Errorf("load institution participations: %w", err)
	}
	for _, row := range parts {
		snap.Participations = append(snap.Participations, row.toModel())
	}

	return snap, true, nil
}

var _ HistoryStore = (*PostgresStore)(nil)
