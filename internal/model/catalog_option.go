package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// DisplayColumn values a CatalogOption may carry. The numbering reuses the
// package column space deliberately, to stay wire-compatible with stored data:
// 3 marks a gold-package tie-in, 4 means "featured/popular" — not a package.
const (
	ColumnGoldTieIn = 3
	ColumnFeatured  = 4
)

// CatalogOption is the customer-facing mirror of a Feature, one-to-one by
// shared id. It is created lazily on first publish (or first Pick-2
// eligibility flag), updated on every Feature mutation that touches shared
// fields, and soft-retired on unpublish — never deleted by the engine.
//
// A "shadow" record (Pick2Eligible=true, IsPublished=false) is legal: it
// carries Pick-2 metadata for an item otherwise sold only inside a package.
type CatalogOption struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"` // same id as the paired Feature
	Name        string          `gorm:"not null"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Cost        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Description *string
	Warranty    *string
	IsNew       bool `gorm:"not null;default:false"`

	IsPublished   bool `gorm:"not null;default:false;index"`
	DisplayColumn *int `gorm:"column:display_column"`
	Position      *int

	// Pick-2 bundle metadata
	Pick2Eligible bool `gorm:"not null;default:false;index"`
	Pick2Sort     int  `gorm:"not null;default:0"`
	ShortValue    *string
	// Highlights holds up to two short selling points for the Pick-2 card.
	Highlights datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CatalogOption) TableName() string { return "catalog_options" }
