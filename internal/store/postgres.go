package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/DoyleJ11/golf-draft-backend/internal/engine"
)

type DraftSnapshot struct {
	ID         string `gorm:"primaryKey;size:64"`
	Tournament string `gorm:"size:255"`
	Format     string `gorm:"size:64"`
	Snapshot   []byte `gorm:"type:jsonb;not null"`
	UpdatedAt  time.Time
}

func (DraftSnapshot) TableName() string { return "draft_snapshots" }

type Postgres struct {
	db *gorm.DB
}

// OpenPostgres connects with the given DSN and migrates the snapshot table.
func OpenPostgres(dsn string, verbose bool) (*Postgres, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if verbose {
		cfg.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(postgres.Open(dsn), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return NewPostgres(db)
}

func NewPostgres(db *gorm.DB) (*Postgres, error) {
	if err := db.AutoMigrate(&DraftSnapshot{}); err != nil {
		return nil, fmt.Errorf("failed to migrate draft_snapshots: %w", err)
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) Save(ctx context.Context, d engine.Draft) error {
	data, err := encode(d)
	if err != nil {
		return err
	}
	row := DraftSnapshot{ID: d.ID, Tournament: d.Tournament, Format: d.Format, Snapshot: data}
	err = p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"tournament", "format", "snapshot", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save draft %s: %w", d.ID, err)
	}
	return nil
}

func (p *Postgres) Load(ctx context.Context, id string) (engine.Draft, error) {
	var row DraftSnapshot
	err := p.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return engine.Draft{}, engine.ErrDraftNotFound
	}
	if err != nil {
		return engine.Draft{}, fmt.Errorf("failed to load draft %s: %w", id, err)
	}
	return decode(row.Snapshot)
}

func (p *Postgres) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
