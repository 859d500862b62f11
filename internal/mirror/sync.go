// Package mirror keeps the public catalog_options collection in lockstep with
// the authoring features collection. The two records share one id; price,
// name, warranty, "new" flag, and placement must never disagree. Publishing
// is a merge-upsert (unspecified fields are left as stored), unpublishing is
// a tombstone — the record is soft-retired, never deleted, so Pick-2 metadata
// and history survive.
package mirror

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/model"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ErrPriceRequired rejects a publish whose effective price (override, falling
// back to the feature's catalog price) is missing or negative. Raised before
// any write.
var ErrPriceRequired = errors.New("publish requires a non-negative price")

// Overrides are the per-publish knobs; nil fields fall back to the feature.
type Overrides struct {
	Price    *decimal.Decimal
	Warranty *string
	IsNew    *bool
}

// Pick2Meta is the bundle metadata carried on the mirror record.
type Pick2Meta struct {
	Eligible   bool
	Sort       int
	ShortValue *string
	Highlights []string
}

// CacheInvalidator drops cached public reads after a mirror write. Optional.
type CacheInvalidator interface {
	InvalidateCatalog(ctx context.Context)
}

// Syncer is the cross-collection consistency layer.
type Syncer struct {
	options repository.CatalogOptionRepository
	cache   CacheInvalidator
}

func NewSyncer(options repository.CatalogOptionRepository, cache CacheInvalidator) *Syncer {
	return &Syncer{options: options, cache: cache}
}

// Publish upserts the mirror for a feature with merge semantics and marks it
// published. Idempotent: publishing twice with the same inputs stores the
// same record.
func (s *Syncer) Publish(ctx context.Context, f *model.Feature, ov Overrides) (*model.CatalogOption, error) {
	price := ov.Price
	if price == nil {
		price = f.CatalogPrice
	}
	if price == nil || price.IsNegative() {
		return nil, ErrPriceRequired
	}

	warranty := ov.Warranty
	if warranty == nil {
		warranty = f.CatalogWarrantyOverride
	}
	isNew := f.IsNew
	if ov.IsNew != nil {
		isNew = *ov.IsNew
	}

	opt := &model.CatalogOption{
		ID:          f.ID,
		Name:        f.Name,
		Price:       *price,
		Cost:        f.Cost,
		Description: f.Description,
		Warranty:    warranty,
		IsNew:       isNew,
		IsPublished: true,
	}
	mergeCols := []string{
		"name", "price", "cost", "description", "warranty", "is_new",
		"is_published", "updated_at",
	}
	if err := s.options.Upsert(ctx, opt, mergeCols); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	log.Info().Str("option_id", f.ID.String()).Msg("mirror: published")
	return opt, nil
}

// PublishPlacement is the placement-driven publish: it additionally aligns
// display column and position, and takes its price from the feature's
// catalog price — or, when that is unset, leaves an existing stored price
// untouched (merge semantics).
func (s *Syncer) PublishPlacement(ctx context.Context, f *model.Feature, displayColumn, position *int) (*model.CatalogOption, error) {
	price := f.CatalogPrice
	mergeCols := []string{
		"name", "cost", "description", "warranty", "is_new",
		"is_published", "display_column", "position", "updated_at",
	}

	insertPrice := f.RetailPrice
	if price != nil {
		if price.IsNegative() {
			return nil, ErrPriceRequired
		}
		insertPrice = *price
		mergeCols = append(mergeCols, "price")
	}

	opt := &model.CatalogOption{
		ID:            f.ID,
		Name:          f.Name,
		Price:         insertPrice,
		Cost:          f.Cost,
		Description:   f.Description,
		Warranty:      f.CatalogWarrantyOverride,
		IsNew:         f.IsNew,
		IsPublished:   true,
		DisplayColumn: displayColumn,
		Position:      position,
	}
	if err := s.options.Upsert(ctx, opt, mergeCols); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return opt, nil
}

// Unpublish tombstones the mirror: is_published=false, everything else —
// including Pick-2 metadata — stays. A missing record counts as success;
// the desired state already holds.
func (s *Syncer) Unpublish(ctx context.Context, id uuid.UUID) error {
	err := s.options.UpdateFields(ctx, id, map[string]interface{}{"is_published": false})
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	log.Info().Str("option_id", id.String()).Msg("mirror: unpublished")
	return nil
}

// SyncPlacement realigns the mirrored display column and position after a
// reorder inside a published lane.
func (s *Syncer) SyncPlacement(ctx context.Context, id uuid.UUID, displayColumn, position *int) error {
	err := s.options.UpdateFields(ctx, id, map[string]interface{}{
		"display_column": displayColumn,
		"position":       position,
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// SetPick2Eligibility writes bundle metadata onto the mirror, minting a
// shadow record (is_published=false) when the feature has never been
// published — an item sold only inside a package can still join the Pick-2
// promotion.
func (s *Syncer) SetPick2Eligibility(ctx context.Context, f *model.Feature, meta Pick2Meta) (*model.CatalogOption, error) {
	highlights, err := marshalHighlights(meta.Highlights)
	if err != nil {
		return nil, err
	}

	price := f.RetailPrice
	if f.CatalogPrice != nil {
		price = *f.CatalogPrice
	}
	opt := &model.CatalogOption{
		ID:            f.ID,
		Name:          f.Name,
		Price:         price,
		Cost:          f.Cost,
		Description:   f.Description,
		Warranty:      f.CatalogWarrantyOverride,
		IsNew:         f.IsNew,
		Pick2Eligible: meta.Eligible,
		Pick2Sort:     meta.Sort,
		ShortValue:    meta.ShortValue,
		Highlights:    highlights,
	}
	mergeCols := []string{
		"pick2_eligible", "pick2_sort", "short_value", "highlights", "updated_at",
	}
	if err := s.options.Upsert(ctx, opt, mergeCols); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	log.Info().
		Str("option_id", f.ID.String()).
		Bool("eligible", meta.Eligible).
		Msg("mirror: pick-2 eligibility updated")
	return opt, nil
}

func (s *Syncer) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateCatalog(ctx)
	}
}

func marshalHighlights(highlights []string) (datatypes.JSON, error) {
	if highlights == nil {
		return nil, nil
	}
	if len(highlights) > 2 {
		highlights = highlights[:2]
	}
	b, err := json.Marshal(highlights)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
