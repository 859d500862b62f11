package service

import (
	"encoding/json"

	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/dto"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/model"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/placement"

	"gorm.io/datatypes"
)

func toFeatureResponse(e placement.Entry, lane placement.Lane) dto.FeatureResponse {
	f := e.Feature
	return dto.FeatureResponse{
		ID:                      f.ID.String(),
		Name:                    f.Name,
		RetailPrice:             f.RetailPrice,
		Cost:                    f.Cost,
		Description:             f.Description,
		Points:                  decodeStrings(f.Points),
		Lane:                    lane.String(),
		PackageColumn:           f.PackageColumn,
		Position:                f.Position,
		Connector:               f.Connector,
		PublishToCatalog:        f.PublishToCatalog,
		CatalogPrice:            f.CatalogPrice,
		CatalogWarrantyOverride: f.CatalogWarrantyOverride,
		IsNew:                   f.IsNew,
	}
}

func toOptionResponse(opt model.CatalogOption) dto.CatalogOptionResponse {
	return dto.CatalogOptionResponse{
		ID:            opt.ID.String(),
		Name:          opt.Name,
		Price:         opt.Price,
		Description:   opt.Description,
		Warranty:      opt.Warranty,
		IsNew:         opt.IsNew,
		IsPublished:   opt.IsPublished,
		DisplayColumn: opt.DisplayColumn,
		Position:      opt.Position,
		Pick2Eligible: opt.Pick2Eligible,
		Pick2Sort:     opt.Pick2Sort,
		ShortValue:    opt.ShortValue,
		Highlights:    decodeStrings(opt.Highlights),
	}
}

func decodeStrings(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func encodeStrings(values []string) datatypes.JSON {
	if values == nil {
		return nil
	}
	b, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}
