// Command seed loads a demo protection menu: three package columns, a couple
// of published catalog options, and an enabled Pick-2 promotion.
package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/config"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/infra"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/mirror"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/model"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	features := repository.NewFeatureRepository(db)
	options := repository.NewCatalogOptionRepository(db)
	pick2Configs := repository.NewPick2ConfigRepository(db)
	syncer := mirror.NewSyncer(options, nil)

	type seedRow struct {
		name      string
		retail    string
		cost      string
		column    *int
		position  int
		connector string
		catalog   *string // catalog price; non-nil means publish
		pick2     bool
		short     *string
	}

	col := func(n int) *int { return &n }
	str := func(s string) *string { return &s }

	rows := []seedRow{
		{name: "Paint & Fabric Protection", retail: "899.00", cost: "210.00", column: col(1), position: 0, connector: model.ConnectorAnd},
		{name: "Wheel & Tire Coverage", retail: "799.00", cost: "185.00", column: col(1), position: 1, connector: model.ConnectorOr},
		{name: "Windshield Protection", retail: "499.00", cost: "95.00", column: col(2), position: 0, connector: model.ConnectorAnd},
		{name: "Key Replacement", retail: "399.00", cost: "70.00", column: col(2), position: 1, connector: model.ConnectorAnd},
		{name: "Dent & Ding Repair", retail: "699.00", cost: "160.00", column: col(3), position: 0, connector: model.ConnectorAnd},
		{name: "Interior Shield", retail: "299.00", cost: "55.00", catalog: str("275.00"), pick2: true, short: str("Spill and stain coverage")},
		{name: "Nitrogen Tire Fill", retail: "189.00", cost: "30.00", catalog: str("275.00"), pick2: true, short: str("Longer tread life")},
		{name: "Cargo Liner", retail: "249.00", cost: "60.00", catalog: str("225.00")},
	}

	var pick2IDs []string
	for _, row := range rows {
		points, _ := json.Marshal([]string{"Installed at delivery", "Transferable on private sale"})
		pos := row.position
		f := model.Feature{
			ID:            uuid.New(),
			Name:          row.name,
			RetailPrice:   decimal.RequireFromString(row.retail),
			Cost:          decimal.RequireFromString(row.cost),
			Points:        datatypes.JSON(points),
			PackageColumn: row.column,
			Position:      &pos,
			Connector:     row.connector,
		}
		if row.connector == "" {
			f.Connector = model.ConnectorAnd
		}
		if row.catalog != nil {
			p := decimal.RequireFromString(*row.catalog)
			f.CatalogPrice = &p
			f.PublishToCatalog = true
		}
		if err := features.Create(ctx, &f); err != nil {
			log.Fatal().Err(err).Str("name", row.name).Msg("seed feature")
		}

		if row.catalog != nil {
			if _, err := syncer.Publish(ctx, &f, mirror.Overrides{}); err != nil {
				log.Fatal().Err(err).Str("name", row.name).Msg("seed publish")
			}
		}
		if row.pick2 {
			meta := mirror.Pick2Meta{
				Eligible:   true,
				Sort:       len(pick2IDs),
				ShortValue: row.short,
				Highlights: []string{"Covered for 5 years", "No deductible"},
			}
			if _, err := syncer.SetPick2Eligibility(ctx, &f, meta); err != nil {
				log.Fatal().Err(err).Str("name", row.name).Msg("seed pick2 meta")
			}
			pick2IDs = append(pick2IDs, f.ID.String())
		}
	}

	if len(pick2IDs) >= 2 {
		pairs, _ := json.Marshal([]model.RecommendedPair{
			{Label: "Most Popular", OptionIDs: pick2IDs[:2]},
		})
		title := "Pick Any 2"
		subtitle := "Bundle any two eligible protections for one price"
		featured := "Most Popular"
		cfg := &model.Pick2Config{
			ID:                  model.Pick2ConfigID,
			Enabled:             true,
			Price:               decimal.RequireFromString("500.00"),
			Title:               &title,
			Subtitle:            &subtitle,
			RecommendedPairs:    datatypes.JSON(pairs),
			FeaturedPresetLabel: &featured,
		}
		if err := pick2Configs.Save(ctx, cfg); err != nil {
			log.Fatal().Err(err).Msg("seed pick2 config")
		}
	}

	log.Info().Int("features", len(rows)).Msg("seed complete")
}
