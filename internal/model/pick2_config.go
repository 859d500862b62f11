package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Pick2ConfigID is the key of the singleton configuration row.
const Pick2ConfigID = "pick2"

// MaxRecommendedPairs caps how many preset pairs the admin may configure.
const MaxRecommendedPairs = 4

// RecommendedPair is an admin-curated preset: a label plus exactly two
// CatalogOption ids. A pair is valid only when both ids are distinct and
// currently Pick-2 eligible.
type RecommendedPair struct {
	Label     string   `json:"label"`
	OptionIDs []string `json:"optionIds"`
}

// Pick2Config is the singleton document controlling the Pick-2 promotion:
// one flat bundle price for any two eligible options.
type Pick2Config struct {
	ID       string          `gorm:"primaryKey;size:32"`
	Enabled  bool            `gorm:"not null;default:false"`
	Price    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Title    *string
	Subtitle *string
	// RecommendedPairs is a JSON array of RecommendedPair, at most 4 entries.
	RecommendedPairs datatypes.JSON `gorm:"type:jsonb"`
	// PresetOrder lists preset labels in display order.
	PresetOrder         datatypes.JSON `gorm:"type:jsonb"`
	FeaturedPresetLabel *string

	UpdatedAt time.Time
}

func (Pick2Config) TableName() string { return "pick2_configs" }
