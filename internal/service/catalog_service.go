package service

import (
	"context"

	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/dto"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/model"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/repository"

	"github.com/google/uuid"
)

// CatalogService serves the shopper-facing read side of the public catalog.
type CatalogService struct {
	options repository.CatalogOptionRepository
	cache   *CatalogCache
}

func NewCatalogService(options repository.CatalogOptionRepository, cache *CatalogCache) *CatalogService {
	return &CatalogService{options: options, cache: cache}
}

// ListPublished returns the published catalog in display order, cached.
func (s *CatalogService) ListPublished(ctx context.Context) (*dto.CatalogListResponse, error) {
	opts, ok := s.cache.GetPublished(ctx)
	if !ok {
		var err error
		opts, err = s.options.ListPublished(ctx)
		if err != nil {
			return nil, err
		}
		s.cache.SetPublished(ctx, opts)
	}
	return toCatalogList(opts), nil
}

// GetOption returns one catalog option by id, published or not — the
// authoring UI shows shadow records too.
func (s *CatalogService) GetOption(ctx context.Context, id uuid.UUID) (*dto.CatalogOptionResponse, error) {
	opt, err := s.options.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toOptionResponse(*opt)
	return &resp, nil
}

func toCatalogList(opts []model.CatalogOption) *dto.CatalogListResponse {
	data := make([]dto.CatalogOptionResponse, 0, len(opts))
	for _, opt := range opts {
		data = append(data, toOptionResponse(opt))
	}
	return &dto.CatalogListResponse{Data: data, Total: len(data)}
}
