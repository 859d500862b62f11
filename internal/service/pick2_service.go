package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/dto"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/model"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/pick2"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

var (
	// ErrPromotionDisabled rejects shopper selection calls while the Pick-2
	// promotion is switched off.
	ErrPromotionDisabled = errors.New("the pick-2 promotion is not enabled")
	// ErrNotEligible rejects selecting an option that is not Pick-2 eligible.
	ErrNotEligible = errors.New("option is not pick-2 eligible")
	// ErrPresetNotFound rejects applying a preset label that is not configured.
	ErrPresetNotFound = errors.New("no recommended pair with that label")
)

// Pick2Service runs the Pick-2 promotion: admin configuration and the
// per-session bounded selection state machine.
type Pick2Service struct {
	config   repository.Pick2ConfigRepository
	options  repository.CatalogOptionRepository
	cache    *CatalogCache
	sessions *pick2.SessionStore
}

func NewPick2Service(
	config repository.Pick2ConfigRepository,
	options repository.CatalogOptionRepository,
	cache *CatalogCache,
	sessions *pick2.SessionStore,
) *Pick2Service {
	return &Pick2Service{config: config, options: options, cache: cache, sessions: sessions}
}

// ─── Configuration ───────────────────────────────────────────────────────────

// GetConfig returns the promotion configuration.
func (s *Pick2Service) GetConfig(ctx context.Context) (*dto.Pick2ConfigResponse, error) {
	cfg, err := s.config.Get(ctx)
	if err != nil {
		return nil, err
	}
	return toConfigResponse(cfg)
}

// SaveConfig validates and stores the promotion configuration. Every
// recommended pair must reference two distinct, currently eligible options.
func (s *Pick2Service) SaveConfig(ctx context.Context, req dto.Pick2ConfigRequest) (*dto.Pick2ConfigResponse, error) {
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("bundle price must not be negative")
	}

	pairs := make([]model.RecommendedPair, 0, len(req.RecommendedPairs))
	for _, p := range req.RecommendedPairs {
		pairs = append(pairs, model.RecommendedPair{Label: p.Label, OptionIDs: p.OptionIDs})
	}
	eligible, err := s.eligibleSet(ctx)
	if err != nil {
		return nil, err
	}
	if err := pick2.ValidatePairs(pairs, eligible); err != nil {
		return nil, err
	}

	cfg := &model.Pick2Config{
		ID:                  model.Pick2ConfigID,
		Enabled:             req.Enabled,
		Price:               req.Price,
		Title:               req.Title,
		Subtitle:            req.Subtitle,
		RecommendedPairs:    encodePairs(pairs),
		PresetOrder:         encodeStrings(req.PresetOrder),
		FeaturedPresetLabel: req.FeaturedPresetLabel,
	}
	if err := s.config.Save(ctx, cfg); err != nil {
		return nil, err
	}
	s.cache.InvalidateCatalog(ctx)
	return toConfigResponse(cfg)
}

// ─── Shopper-facing reads ────────────────────────────────────────────────────

// ListOptions returns the eligible options in their curated sort order, cached.
func (s *Pick2Service) ListOptions(ctx context.Context) (*dto.CatalogListResponse, error) {
	opts, err := s.eligibleOptions(ctx)
	if err != nil {
		return nil, err
	}
	return toCatalogList(opts), nil
}

// ─── Session selection ───────────────────────────────────────────────────────

// Select adds one option to the session's bundle. A pick at capacity is not
// an error to the caller: the state comes back blocked, selection untouched.
func (s *Pick2Service) Select(ctx context.Context, sessionID string, optionID uuid.UUID) (*dto.SelectionResponse, error) {
	cfg, byID, err := s.selectionWorld(ctx)
	if err != nil {
		return nil, err
	}
	if opt, ok := byID[optionID]; !ok || !opt.Pick2Eligible {
		return nil, ErrNotEligible
	}

	sel := s.sessions.Get(sessionID)
	if err := sel.Select(optionID); err != nil && !errors.Is(err, pick2.ErrAtCapacity) {
		return nil, err
	}
	s.sessions.Save(sessionID, sel)
	return buildSelectionResponse(sel, cfg, byID), nil
}

// Remove drops one option from the bundle.
func (s *Pick2Service) Remove(ctx context.Context, sessionID string, optionID uuid.UUID) (*dto.SelectionResponse, error) {
	cfg, byID, err := s.selectionWorld(ctx)
	if err != nil {
		return nil, err
	}
	sel := s.sessions.Get(sessionID)
	sel.Remove(optionID)
	s.sessions.Save(sessionID, sel)
	return buildSelectionResponse(sel, cfg, byID), nil
}

// Swap exchanges one held option for another in a single step.
func (s *Pick2Service) Swap(ctx context.Context, sessionID string, removeID, addID uuid.UUID) (*dto.SelectionResponse, error) {
	cfg, byID, err := s.selectionWorld(ctx)
	if err != nil {
		return nil, err
	}
	if opt, ok := byID[addID]; !ok || !opt.Pick2Eligible {
		return nil, ErrNotEligible
	}

	sel := s.sessions.Get(sessionID)
	if err := sel.Swap(removeID, addID); err != nil && !errors.Is(err, pick2.ErrAtCapacity) {
		return nil, err
	}
	s.sessions.Save(sessionID, sel)
	return buildSelectionResponse(sel, cfg, byID), nil
}

// ApplyPreset replaces the whole bundle with an admin-curated pair. The pair
// is re-validated against current eligibility at apply time: a preset that
// references a since-retired option must not fill a shopper's bundle.
func (s *Pick2Service) ApplyPreset(ctx context.Context, sessionID, label string) (*dto.SelectionResponse, error) {
	cfg, byID, err := s.selectionWorld(ctx)
	if err != nil {
		return nil, err
	}

	pairs, err := pick2.DecodePairs(cfg.RecommendedPairs)
	if err != nil {
		return nil, err
	}
	var pair *model.RecommendedPair
	for i := range pairs {
		if pairs[i].Label == label {
			pair = &pairs[i]
			break
		}
	}
	if pair == nil {
		return nil, ErrPresetNotFound
	}

	first, second, err := pick2.ParsePair(*pair)
	if err != nil {
		return nil, err
	}
	for _, id := range []uuid.UUID{first, second} {
		if opt, ok := byID[id]; !ok || !opt.Pick2Eligible {
			return nil, ErrNotEligible
		}
	}

	sel := s.sessions.Get(sessionID)
	if err := sel.ApplyPreset(first, second); err != nil {
		return nil, err
	}
	s.sessions.Save(sessionID, sel)
	return buildSelectionResponse(sel, cfg, byID), nil
}

// Clear empties the session's bundle.
func (s *Pick2Service) Clear(ctx context.Context, sessionID string) (*dto.SelectionResponse, error) {
	cfg, byID, err := s.selectionWorld(ctx)
	if err != nil {
		return nil, err
	}
	sel := s.sessions.Get(sessionID)
	sel.Clear()
	s.sessions.Save(sessionID, sel)
	return buildSelectionResponse(sel, cfg, byID), nil
}

// State returns the session's current bundle without mutating it.
func (s *Pick2Service) State(ctx context.Context, sessionID string) (*dto.SelectionResponse, error) {
	cfg, byID, err := s.selectionWorld(ctx)
	if err != nil {
		return nil, err
	}
	return buildSelectionResponse(s.sessions.Get(sessionID), cfg, byID), nil
}

// ─── Internals ───────────────────────────────────────────────────────────────

// selectionWorld loads everything a selection mutation needs: an enabled
// config and the eligible options by id.
func (s *Pick2Service) selectionWorld(ctx context.Context) (*model.Pick2Config, map[uuid.UUID]model.CatalogOption, error) {
	cfg, err := s.config.Get(ctx)
	if err != nil {
		return nil, nil, err
	}
	if !cfg.Enabled {
		return nil, nil, ErrPromotionDisabled
	}
	opts, err := s.eligibleOptions(ctx)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[uuid.UUID]model.CatalogOption, len(opts))
	for _, opt := range opts {
		byID[opt.ID] = opt
	}
	return cfg, byID, nil
}

func (s *Pick2Service) eligibleOptions(ctx context.Context) ([]model.CatalogOption, error) {
	if opts, ok := s.cache.GetPick2(ctx); ok {
		return opts, nil
	}
	opts, err := s.options.ListPick2Eligible(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetPick2(ctx, opts)
	return opts, nil
}

func (s *Pick2Service) eligibleSet(ctx context.Context) (map[uuid.UUID]bool, error) {
	opts, err := s.eligibleOptions(ctx)
	if err != nil {
		return nil, err
	}
	set := make(map[uuid.UUID]bool, len(opts))
	for _, opt := range opts {
		set[opt.ID] = true
	}
	return set, nil
}

// buildSelectionResponse derives the view: held items in pick order, the
// exactly-once bundle contribution, and the savings versus buying both
// individually.
func buildSelectionResponse(sel *pick2.Selection, cfg *model.Pick2Config, byID map[uuid.UUID]model.CatalogOption) *dto.SelectionResponse {
	ids := sel.IDs()
	selectedIDs := make([]string, 0, len(ids))
	items := make([]dto.CatalogOptionResponse, 0, len(ids))
	individual := decimal.Zero
	for _, id := range ids {
		selectedIDs = append(selectedIDs, id.String())
		if opt, ok := byID[id]; ok {
			items = append(items, toOptionResponse(opt))
			individual = individual.Add(opt.Price)
		}
	}

	contribution := sel.TotalContribution(cfg.Price)
	savings := decimal.Zero
	if sel.Complete() {
		savings = individual.Sub(cfg.Price)
	}

	return &dto.SelectionResponse{
		SelectedIDs:       selectedIDs,
		Items:             items,
		Complete:          sel.Complete(),
		Blocked:           sel.Status() != "",
		Status:            sel.Status(),
		BundlePrice:       cfg.Price,
		TotalContribution: contribution,
		IndividualTotal:   individual,
		Savings:           savings,
	}
}

func toConfigResponse(cfg *model.Pick2Config) (*dto.Pick2ConfigResponse, error) {
	pairs, err := pick2.DecodePairs(cfg.RecommendedPairs)
	if err != nil {
		return nil, err
	}
	dtoPairs := make([]dto.RecommendedPairDTO, 0, len(pairs))
	for _, p := range pairs {
		dtoPairs = append(dtoPairs, dto.RecommendedPairDTO{Label: p.Label, OptionIDs: p.OptionIDs})
	}
	return &dto.Pick2ConfigResponse{
		Enabled:             cfg.Enabled,
		Price:               cfg.Price,
		Title:               cfg.Title,
		Subtitle:            cfg.Subtitle,
		RecommendedPairs:    dtoPairs,
		PresetOrder:         decodeStrings(cfg.PresetOrder),
		FeaturedPresetLabel: cfg.FeaturedPresetLabel,
	}, nil
}

func encodePairs(pairs []model.RecommendedPair) datatypes.JSON {
	if pairs == nil {
		return nil
	}
	b, err := json.Marshal(pairs)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}
