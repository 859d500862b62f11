package repository

import (
	"context"

	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeatureRepository defines the data access contract for authoring records.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type FeatureRepository interface {
	Create(ctx context.Context, f *model.Feature) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Feature, error)
	ListAll(ctx context.Context) ([]model.Feature, error)
	Save(ctx context.Context, f *model.Feature) error

	// UpdateFields applies a partial per-field update — the document-store
	// primitive PlacementController persists single-field changes through.
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
}

type featureRepo struct{ db *gorm.DB }

func NewFeatureRepository(db *gorm.DB) FeatureRepository { return &featureRepo{db: db} }

func (r *featureRepo) Create(ctx context.Context, f *model.Feature) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *featureRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Feature, error) {
	var f model.Feature
	err := r.db.WithContext(ctx).First(&f, "id = ?", id).Error
	return &f, err
}

func (r *featureRepo) ListAll(ctx context.Context) ([]model.Feature, error) {
	var features []model.Feature
	err := r.db.WithContext(ctx).
		Order("package_column ASC NULLS LAST, position ASC NULLS LAST, name ASC").
		Find(&features).Error
	return features, err
}

func (r *featureRepo) Save(ctx context.Context, f *model.Feature) error {
	return r.db.WithContext(ctx).Save(f).Error
}

func (r *featureRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Feature{}).Where("id = ?", id).Updates(fields).Error
}
