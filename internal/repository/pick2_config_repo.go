package repository

import (
	"context"
	"errors"

	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Pick2ConfigRepository reads and writes the singleton Pick-2 configuration row.
type Pick2ConfigRepository interface {
	// Get returns the config, or a disabled zero-value config when none exists yet.
	Get(ctx context.Context) (*model.Pick2Config, error)
	Save(ctx context.Context, cfg *model.Pick2Config) error
}

type pick2ConfigRepo struct{ db *gorm.DB }

func NewPick2ConfigRepository(db *gorm.DB) Pick2ConfigRepository { return &pick2ConfigRepo{db: db} }

func (r *pick2ConfigRepo) Get(ctx context.Context) (*model.Pick2Config, error) {
	var cfg model.Pick2Config
	err := r.db.WithContext(ctx).First(&cfg, "id = ?", model.Pick2ConfigID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.Pick2Config{ID: model.Pick2ConfigID}, nil
	}
	return &cfg, err
}

func (r *pick2ConfigRepo) Save(ctx context.Context, cfg *model.Pick2Config) error {
	cfg.ID = model.Pick2ConfigID
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(cfg).Error
}
