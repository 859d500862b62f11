package placement

import (
	"fmt"

	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/model"
)

// Lane is one of the mutually exclusive display destinations for a feature:
// one of three package columns, the featured/popular slot, the general
// à-la-carte catalog, or unassigned.
type Lane int

const (
	LaneUnassigned Lane = iota
	LanePackage1
	LanePackage2
	LanePackage3
	LaneFeatured
	LaneCatalog
)

// PackageLane returns the lane for package column n (1–3).
func PackageLane(n int) Lane {
	switch n {
	case 1:
		return LanePackage1
	case 2:
		return LanePackage2
	case 3:
		return LanePackage3
	}
	return LaneUnassigned
}

// IsPackage reports whether l is one of the three package columns.
func (l Lane) IsPackage() bool {
	return l == LanePackage1 || l == LanePackage2 || l == LanePackage3
}

// PackageNumber returns the column number for a package lane, 0 otherwise.
func (l Lane) PackageNumber() int {
	switch l {
	case LanePackage1:
		return 1
	case LanePackage2:
		return 2
	case LanePackage3:
		return 3
	}
	return 0
}

// Published reports whether members of l carry a published catalog mirror.
func (l Lane) Published() bool {
	return l == LaneCatalog || l == LaneFeatured
}

func (l Lane) String() string {
	switch l {
	case LanePackage1:
		return "package1"
	case LanePackage2:
		return "package2"
	case LanePackage3:
		return "package3"
	case LaneFeatured:
		return "featured"
	case LaneCatalog:
		return "catalog"
	default:
		return "unassigned"
	}
}

// ParseLane converts the wire name of a lane back into a Lane.
func ParseLane(s string) (Lane, error) {
	switch s {
	case "package1":
		return LanePackage1, nil
	case "package2":
		return LanePackage2, nil
	case "package3":
		return LanePackage3, nil
	case "featured":
		return LaneFeatured, nil
	case "catalog":
		return LaneCatalog, nil
	case "unassigned":
		return LaneUnassigned, nil
	}
	return LaneUnassigned, fmt.Errorf("unknown lane %q", s)
}

// Classify maps a feature and its paired catalog option (may be nil) to
// exactly one lane. It is pure and total: every feature lands somewhere,
// which is what makes per-lane membership lists well-defined.
//
// Precedence mirrors the authoring rules: a package column wins, then a
// published mirror (featured when its display column is 4, otherwise the
// general catalog), and everything else is unassigned.
func Classify(f *model.Feature, opt *model.CatalogOption) Lane {
	if f.PackageColumn != nil {
		if l := PackageLane(*f.PackageColumn); l.IsPackage() {
			return l
		}
	}
	if opt != nil && opt.IsPublished {
		if opt.DisplayColumn != nil && *opt.DisplayColumn == model.ColumnFeatured {
			return LaneFeatured
		}
		return LaneCatalog
	}
	return LaneUnassigned
}
