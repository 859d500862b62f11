package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateFeatureRequest struct {
	Name                    string           `json:"name"         validate:"required,min=2,max=120"`
	RetailPrice             decimal.Decimal  `json:"retail_price" validate:"required"`
	Cost                    decimal.Decimal  `json:"cost"`
	Description             *string          `json:"description"`
	Points                  []string         `json:"points"`
	CatalogPrice            *decimal.Decimal `json:"catalog_price"`
	CatalogWarrantyOverride *string          `json:"catalog_warranty_override"`
	IsNew                   bool             `json:"is_new"`
}

type UpdateFeatureRequest struct {
	Name                    *string          `json:"name" validate:"omitempty,min=2,max=120"`
	RetailPrice             *decimal.Decimal `json:"retail_price"`
	Cost                    *decimal.Decimal `json:"cost"`
	Description             *string          `json:"description"`
	Points                  []string         `json:"points"`
	CatalogPrice            *decimal.Decimal `json:"catalog_price"`
	CatalogWarrantyOverride *string          `json:"catalog_warranty_override"`
	IsNew                   *bool            `json:"is_new"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type FeatureResponse struct {
	ID                      string           `json:"id"`
	Name                    string           `json:"name"`
	RetailPrice             decimal.Decimal  `json:"retail_price"`
	Cost                    decimal.Decimal  `json:"cost"`
	Description             *string          `json:"description"`
	Points                  []string         `json:"points"`
	Lane                    string           `json:"lane"`
	PackageColumn           *int             `json:"column"`
	Position                *int             `json:"position"`
	Connector               string           `json:"connector"`
	PublishToCatalog        bool             `json:"publish_to_catalog"`
	CatalogPrice            *decimal.Decimal `json:"catalog_price"`
	CatalogWarrantyOverride *string          `json:"catalog_warranty_override"`
	IsNew                   bool             `json:"is_new"`
}

type FeatureListResponse struct {
	Data  []FeatureResponse `json:"data"`
	Total int               `json:"total"`
}
