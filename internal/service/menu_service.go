package service

import (
	"context"
	"fmt"

	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/batch"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/dto"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/mirror"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/model"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/placement"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// laneOrder fixes the lane iteration order for board views.
var laneOrder = []placement.Lane{
	placement.LanePackage1,
	placement.LanePackage2,
	placement.LanePackage3,
	placement.LaneFeatured,
	placement.LaneCatalog,
	placement.LaneUnassigned,
}

// MenuService is the authoring surface: feature CRUD, placement intents, and
// catalog publishing. It owns the in-memory board and keeps it, the features
// table, and the public mirror consistent with each other.
type MenuService struct {
	features   repository.FeatureRepository
	options    repository.CatalogOptionRepository
	syncer     *mirror.Syncer
	controller *placement.Controller
	committer  placement.Committer
}

func NewMenuService(
	features repository.FeatureRepository,
	options repository.CatalogOptionRepository,
	syncer *mirror.Syncer,
	controller *placement.Controller,
	committer placement.Committer,
) *MenuService {
	return &MenuService{
		features:   features,
		options:    options,
		syncer:     syncer,
		controller: controller,
		committer:  committer,
	}
}

// LoadBoard hydrates the board from the store and persists the one-time
// normalization pass: any position drift found while loading (legacy gaps,
// duplicates, nil positions) is written back so stored order matches display
// order from then on. A failed drift write is logged, not fatal — the board
// is already normalized in memory and the next successful move re-persists it.
func (s *MenuService) LoadBoard(ctx context.Context) error {
	features, err := s.features.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("load features: %w", err)
	}
	options, err := s.options.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("load catalog options: %w", err)
	}

	drift := s.controller.Board().Load(features, options)
	log.Info().
		Int("features", len(features)).
		Int("options", len(options)).
		Int("drift_ops", len(drift)).
		Msg("board loaded")

	if len(drift) > 0 {
		if _, err := s.committer.Commit(ctx, drift); err != nil {
			log.Warn().Err(err).Msg("board: normalization pass not fully persisted")
		}
	}
	return nil
}

// GetBoard returns every lane's members in display order.
func (s *MenuService) GetBoard(_ context.Context) *dto.BoardResponse {
	lanes := make(map[string][]dto.FeatureResponse, len(laneOrder))
	for _, lane := range laneOrder {
		members := s.controller.Board().Members(lane)
		out := make([]dto.FeatureResponse, 0, len(members))
		for _, e := range members {
			out = append(out, toFeatureResponse(e, lane))
		}
		lanes[lane.String()] = out
	}
	return &dto.BoardResponse{Lanes: lanes}
}

// ListFeatures returns all features, lane by lane in display order.
func (s *MenuService) ListFeatures(_ context.Context) *dto.FeatureListResponse {
	var data []dto.FeatureResponse
	for _, lane := range laneOrder {
		for _, e := range s.controller.Board().Members(lane) {
			data = append(data, toFeatureResponse(e, lane))
		}
	}
	return &dto.FeatureListResponse{Data: data, Total: len(data)}
}

// GetFeature returns one feature by id.
func (s *MenuService) GetFeature(_ context.Context, id uuid.UUID) (*dto.FeatureResponse, error) {
	e, ok := s.controller.Board().Get(id)
	if !ok {
		return nil, placement.ErrFeatureNotFound
	}
	lane, _ := s.controller.Board().LaneOf(id)
	resp := toFeatureResponse(e, lane)
	return &resp, nil
}

// CreateFeature creates an authoring record. New features start unassigned;
// placement is a separate intent.
func (s *MenuService) CreateFeature(ctx context.Context, req dto.CreateFeatureRequest) (*dto.FeatureResponse, error) {
	f := model.Feature{
		ID:                      uuid.New(),
		Name:                    req.Name,
		RetailPrice:             req.RetailPrice,
		Cost:                    req.Cost,
		Description:             req.Description,
		Points:                  encodeStrings(req.Points),
		Connector:               model.ConnectorAnd,
		CatalogPrice:            req.CatalogPrice,
		CatalogWarrantyOverride: req.CatalogWarrantyOverride,
		IsNew:                   req.IsNew,
	}
	if err := s.features.Create(ctx, &f); err != nil {
		return nil, fmt.Errorf("create feature: %w", err)
	}

	s.persistDrift(ctx, s.controller.Board().Put(placement.Entry{Feature: f}))

	lane, _ := s.controller.Board().LaneOf(f.ID)
	e, _ := s.controller.Board().Get(f.ID)
	resp := toFeatureResponse(e, lane)
	return &resp, nil
}

// UpdateFeature applies a partial edit. When the feature is published, the
// shared fields are re-synced to the public mirror in the same call so the
// two collections never disagree.
func (s *MenuService) UpdateFeature(ctx context.Context, id uuid.UUID, req dto.UpdateFeatureRequest) (*dto.FeatureResponse, error) {
	e, ok := s.controller.Board().Get(id)
	if !ok {
		return nil, placement.ErrFeatureNotFound
	}
	f := e.Feature

	if req.Name != nil {
		f.Name = *req.Name
	}
	if req.RetailPrice != nil {
		f.RetailPrice = *req.RetailPrice
	}
	if req.Cost != nil {
		f.Cost = *req.Cost
	}
	if req.Description != nil {
		f.Description = req.Description
	}
	if req.Points != nil {
		f.Points = encodeStrings(req.Points)
	}
	if req.CatalogPrice != nil {
		f.CatalogPrice = req.CatalogPrice
	}
	if req.CatalogWarrantyOverride != nil {
		f.CatalogWarrantyOverride = req.CatalogWarrantyOverride
	}
	if req.IsNew != nil {
		f.IsNew = *req.IsNew
	}

	// Re-sync the mirror before the feature row is written, through the same
	// merge-upsert a placement publish uses: when the feature carries no
	// catalog price the stored price is left untouched instead of demanded,
	// so an edit can never fail validation after part of it has persisted.
	opt := e.Option
	if opt != nil && opt.IsPublished {
		if _, err := s.syncer.PublishPlacement(ctx, &f, opt.DisplayColumn, opt.Position); err != nil {
			return nil, fmt.Errorf("re-sync mirror: %w", err)
		}
		opt.Name = f.Name
		opt.Cost = f.Cost
		opt.Description = f.Description
		opt.Warranty = f.CatalogWarrantyOverride
		opt.IsNew = f.IsNew
		if f.CatalogPrice != nil {
			opt.Price = *f.CatalogPrice
		}
	}

	if err := s.features.Save(ctx, &f); err != nil {
		return nil, fmt.Errorf("update feature: %w", err)
	}

	s.persistDrift(ctx, s.controller.Board().Put(placement.Entry{Feature: f, Option: opt}))

	lane, _ := s.controller.Board().LaneOf(id)
	fresh, _ := s.controller.Board().Get(id)
	resp := toFeatureResponse(fresh, lane)
	return &resp, nil
}

// Move relocates a feature to a lane and slot.
func (s *MenuService) Move(ctx context.Context, req dto.MoveRequest) (*dto.MoveResponse, error) {
	id, err := uuid.Parse(req.FeatureID)
	if err != nil {
		return nil, fmt.Errorf("parse feature id: %w", err)
	}
	lane, err := placement.ParseLane(req.TargetLane)
	if err != nil {
		return nil, err
	}
	index := -1
	if req.TargetIndex != nil {
		index = *req.TargetIndex
	}

	report, err := s.controller.Move(ctx, id, lane, index)
	if err != nil {
		return nil, err
	}
	return moveResponse(report), nil
}

// Reorder moves a feature between two slots of the same lane.
func (s *MenuService) Reorder(ctx context.Context, req dto.ReorderRequest) (*dto.MoveResponse, error) {
	lane, err := placement.ParseLane(req.Lane)
	if err != nil {
		return nil, err
	}
	report, err := s.controller.Reorder(ctx, lane, req.FromIndex, req.ToIndex)
	if err != nil {
		return nil, err
	}
	return moveResponse(report), nil
}

// ToggleConnector flips the AND/OR connector on a feature.
func (s *MenuService) ToggleConnector(ctx context.Context, id uuid.UUID) (*dto.ConnectorResponse, error) {
	next, err := s.controller.ToggleConnector(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.ConnectorResponse{FeatureID: id.String(), Connector: next}, nil
}

// Publish pushes a feature to the public catalog with optional per-publish
// overrides. Publishing clears any package column — a feature lives in one
// lane at a time.
func (s *MenuService) Publish(ctx context.Context, id uuid.UUID, req dto.PublishRequest) (*dto.CatalogOptionResponse, error) {
	e, ok := s.controller.Board().Get(id)
	if !ok {
		return nil, placement.ErrFeatureNotFound
	}
	f := e.Feature

	fields := map[string]interface{}{
		"publish_to_catalog": true,
		"package_column":     nil,
	}
	if req.Price != nil {
		f.CatalogPrice = req.Price
		fields["catalog_price"] = *req.Price
	}
	if req.Warranty != nil {
		f.CatalogWarrantyOverride = req.Warranty
		fields["catalog_warranty_override"] = *req.Warranty
	}
	if req.IsNew != nil {
		f.IsNew = *req.IsNew
		fields["is_new"] = *req.IsNew
	}

	opt, err := s.syncer.Publish(ctx, &f, mirror.Overrides{
		Price:    req.Price,
		Warranty: req.Warranty,
		IsNew:    req.IsNew,
	})
	if err != nil {
		return nil, err
	}

	if err := s.features.UpdateFields(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("publish feature: %w", err)
	}

	f.PublishToCatalog = true
	f.PackageColumn = nil
	if e.Option != nil {
		opt.DisplayColumn = e.Option.DisplayColumn
		opt.Position = e.Option.Position
		opt.Pick2Eligible = e.Option.Pick2Eligible
		opt.Pick2Sort = e.Option.Pick2Sort
		opt.ShortValue = e.Option.ShortValue
		opt.Highlights = e.Option.Highlights
	}
	s.persistDrift(ctx, s.controller.Board().Put(placement.Entry{Feature: f, Option: opt}))

	resp := toOptionResponse(*opt)
	return &resp, nil
}

// Unpublish tombstones the public mirror. Idempotent: unpublishing a feature
// that never reached the catalog still succeeds.
func (s *MenuService) Unpublish(ctx context.Context, id uuid.UUID) error {
	e, ok := s.controller.Board().Get(id)
	if !ok {
		return placement.ErrFeatureNotFound
	}

	if err := s.syncer.Unpublish(ctx, id); err != nil {
		return err
	}
	if err := s.features.UpdateFields(ctx, id, map[string]interface{}{"publish_to_catalog": false}); err != nil {
		return fmt.Errorf("unpublish feature: %w", err)
	}

	f := e.Feature
	f.PublishToCatalog = false
	opt := e.Option
	if opt != nil {
		opt.IsPublished = false
	}
	s.persistDrift(ctx, s.controller.Board().Put(placement.Entry{Feature: f, Option: opt}))
	return nil
}

// SetPick2Meta writes Pick-2 bundle metadata onto the feature's mirror,
// minting a shadow record when the feature has never been published.
func (s *MenuService) SetPick2Meta(ctx context.Context, id uuid.UUID, req dto.Pick2MetaRequest) (*dto.CatalogOptionResponse, error) {
	e, ok := s.controller.Board().Get(id)
	if !ok {
		return nil, placement.ErrFeatureNotFound
	}

	opt, err := s.syncer.SetPick2Eligibility(ctx, &e.Feature, mirror.Pick2Meta{
		Eligible:   req.Eligible,
		Sort:       req.Sort,
		ShortValue: req.ShortValue,
		Highlights: req.Highlights,
	})
	if err != nil {
		return nil, err
	}

	// Merge semantics on the store leave the published state as is; mirror the
	// same merge on the in-memory entry.
	if e.Option != nil {
		e.Option.Pick2Eligible = opt.Pick2Eligible
		e.Option.Pick2Sort = opt.Pick2Sort
		e.Option.ShortValue = opt.ShortValue
		e.Option.Highlights = opt.Highlights
		opt = e.Option
	}
	s.controller.Board().SetOption(id, opt)

	resp := toOptionResponse(*opt)
	return &resp, nil
}

// persistDrift writes renormalization updates produced by a board mutation.
// Failures are logged, not surfaced: the mutation itself already succeeded
// and positions re-converge on the next successful write.
func (s *MenuService) persistDrift(ctx context.Context, drift []batch.FieldUpdate) {
	if len(drift) == 0 {
		return
	}
	if _, err := s.committer.Commit(ctx, drift); err != nil {
		log.Warn().Err(err).Int("ops", len(drift)).Msg("board: drift not fully persisted")
	}
}

func moveResponse(r *placement.MoveReport) *dto.MoveResponse {
	return &dto.MoveResponse{
		NoOp:      r.NoOp,
		FeatureID: r.FeatureID.String(),
		From:      r.From.String(),
		To:        r.To.String(),
		Ops:       r.Ops,
	}
}
