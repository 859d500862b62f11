package dto

import "github.com/shopspring/decimal"

type RecommendedPairDTO struct {
	Label     string   `json:"label"     validate:"required,max=60"`
	OptionIDs []string `json:"optionIds" validate:"len=2,dive,uuid"`
}

type Pick2ConfigRequest struct {
	Enabled             bool                 `json:"enabled"`
	Price               decimal.Decimal      `json:"price" validate:"required"`
	Title               *string              `json:"title"`
	Subtitle            *string              `json:"subtitle"`
	RecommendedPairs    []RecommendedPairDTO `json:"recommended_pairs" validate:"max=4,dive"`
	PresetOrder         []string             `json:"preset_order"`
	FeaturedPresetLabel *string              `json:"featured_preset_label"`
}

type Pick2ConfigResponse struct {
	Enabled             bool                 `json:"enabled"`
	Price               decimal.Decimal      `json:"price"`
	Title               *string              `json:"title"`
	Subtitle            *string              `json:"subtitle"`
	RecommendedPairs    []RecommendedPairDTO `json:"recommended_pairs"`
	PresetOrder         []string             `json:"preset_order"`
	FeaturedPresetLabel *string              `json:"featured_preset_label"`
}

type SelectRequest struct {
	OptionID string `json:"option_id" validate:"required,uuid"`
}

type SwapRequest struct {
	RemoveID string `json:"remove_id" validate:"required,uuid"`
	AddID    string `json:"add_id"    validate:"required,uuid"`
}

type ApplyPresetRequest struct {
	Label string `json:"label" validate:"required"`
}

// SelectionResponse is the derived view of one shopper's bundle: what is
// held, whether it is complete, and what it contributes to the total.
type SelectionResponse struct {
	SelectedIDs []string                `json:"selected_ids"`
	Items       []CatalogOptionResponse `json:"items"`
	Complete    bool                    `json:"complete"`
	Blocked     bool                    `json:"blocked"`
	Status      string                  `json:"status"`
	BundlePrice decimal.Decimal         `json:"bundle_price"`
	// TotalContribution is zero until the bundle is complete, then exactly
	// the flat bundle price — never the sum of the item prices.
	TotalContribution decimal.Decimal `json:"total_contribution"`
	IndividualTotal   decimal.Decimal `json:"individual_total"`
	Savings           decimal.Decimal `json:"savings"`
}
