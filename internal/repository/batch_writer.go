package repository

import (
	"context"
	"fmt"

	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/batch"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/model"

	"gorm.io/gorm"
)

// gormBatchWriter implements batch.Writer: one chunk becomes one transaction,
// giving the atomic multi-document commit the batch layer is built on.
type gormBatchWriter struct{ db *gorm.DB }

func NewBatchWriter(db *gorm.DB) batch.Writer { return &gormBatchWriter{db: db} }

func (w *gormBatchWriter) ApplyBatch(ctx context.Context, updates []batch.FieldUpdate) error {
	return w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			target, err := modelFor(u.Collection)
			if err != nil {
				return err
			}
			if err := tx.Model(target).Where("id = ?", u.ID).Updates(u.Fields).Error; err != nil {
				return fmt.Errorf("%s/%s: %w", u.Collection, u.ID, err)
			}
		}
		return nil
	})
}

func modelFor(collection string) (interface{}, error) {
	switch collection {
	case batch.CollectionFeatures:
		return &model.Feature{}, nil
	case batch.CollectionCatalogOptions:
		return &model.CatalogOption{}, nil
	default:
		return nil, fmt.Errorf("unknown collection %q", collection)
	}
}
