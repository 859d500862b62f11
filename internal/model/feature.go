package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Connector values displayed between two features in the same package column.
const (
	ConnectorAnd = "AND"
	ConnectorOr  = "OR"
)

// Feature is the authoring record for a sellable protection item. Admins edit
// features; shoppers never see this table directly — the public mirror is
// CatalogOption, which shares the same id.
//
// A feature lives in at most one display lane at a time: a package column
// (PackageColumn 1–3), the public catalog (PublishToCatalog), or unassigned.
// Position is the zero-based rank within whichever lane holds the feature.
type Feature struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string          `gorm:"index;not null"`
	RetailPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Cost        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Description *string
	// Points is the ordered list of bullet points shown under the feature name.
	Points datatypes.JSON `gorm:"type:jsonb"`

	// Placement. PackageColumn is nil when the feature is not in a package lane.
	PackageColumn *int `gorm:"column:package_column;index"`
	Position      *int
	Connector     string `gorm:"not null;default:'AND'"` // AND | OR toward the next feature in the same column

	// Catalog publishing
	PublishToCatalog        bool             `gorm:"not null;default:false"`
	CatalogPrice            *decimal.Decimal `gorm:"type:decimal(10,2)"`
	CatalogWarrantyOverride *string
	IsNew                   bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Feature) TableName() string { return "features" }
