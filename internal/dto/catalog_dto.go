package dto

import "github.com/shopspring/decimal"

type PublishRequest struct {
	Price    *decimal.Decimal `json:"price"`
	Warranty *string          `json:"warranty"`
	IsNew    *bool            `json:"is_new"`
}

type Pick2MetaRequest struct {
	Eligible   bool     `json:"eligible"`
	Sort       int      `json:"sort"`
	ShortValue *string  `json:"short_value"`
	Highlights []string `json:"highlights" validate:"max=2"`
}

type CatalogOptionResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Description   *string         `json:"description"`
	Warranty      *string         `json:"warranty"`
	IsNew         bool            `json:"is_new"`
	IsPublished   bool            `json:"is_published"`
	DisplayColumn *int            `json:"column"`
	Position      *int            `json:"position"`
	Pick2Eligible bool            `json:"pick2_eligible"`
	Pick2Sort     int             `json:"pick2_sort"`
	ShortValue    *string         `json:"short_value"`
	Highlights    []string        `json:"highlights"`
}

type CatalogListResponse struct {
	Data  []CatalogOptionResponse `json:"data"`
	Total int                     `json:"total"`
}
