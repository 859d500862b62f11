package repository

import (
	"context"

	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogOptionRepository is the data access contract for the public mirror
// collection. Upsert carries merge semantics: only the columns named in
// mergeColumns are touched on conflict, everything else is left as stored —
// this is what keeps shadow-record Pick-2 metadata intact across republishes.
type CatalogOptionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.CatalogOption, error)
	ListAll(ctx context.Context) ([]model.CatalogOption, error)
	ListPublished(ctx context.Context) ([]model.CatalogOption, error)
	ListPick2Eligible(ctx context.Context) ([]model.CatalogOption, error)

	Upsert(ctx context.Context, opt *model.CatalogOption, mergeColumns []string) error
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
}

type catalogRepo struct{ db *gorm.DB }

func NewCatalogOptionRepository(db *gorm.DB) CatalogOptionRepository { return &catalogRepo{db: db} }

func (r *catalogRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CatalogOption, error) {
	var opt model.CatalogOption
	err := r.db.WithContext(ctx).First(&opt, "id = ?", id).Error
	return &opt, err
}

func (r *catalogRepo) ListAll(ctx context.Context) ([]model.CatalogOption, error) {
	var opts []model.CatalogOption
	err := r.db.WithContext(ctx).Find(&opts).Error
	return opts, err
}

func (r *catalogRepo) ListPublished(ctx context.Context) ([]model.CatalogOption, error) {
	var opts []model.CatalogOption
	err := r.db.WithContext(ctx).
		Where("is_published = true").
		Order("position ASC NULLS LAST, name ASC").
		Find(&opts).Error
	return opts, err
}

func (r *catalogRepo) ListPick2Eligible(ctx context.Context) ([]model.CatalogOption, error) {
	var opts []model.CatalogOption
	err := r.db.WithContext(ctx).
		Where("pick2_eligible = true").
		Order("pick2_sort ASC, name ASC").
		Find(&opts).Error
	return opts, err
}

func (r *catalogRepo) Upsert(ctx context.Context, opt *model.CatalogOption, mergeColumns []string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(mergeColumns),
	}).Create(opt).Error
}

func (r *catalogRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.CatalogOption{}).Where("id = ?", id).Updates(fields).Error
}
