package placement

import (
	"testing"

	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/batch"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func packagedFeature(name string, column, position int) model.Feature {
	return model.Feature{
		ID:            uuid.New(),
		Name:          name,
		RetailPrice:   decimal.RequireFromString("100.00"),
		PackageColumn: intPtr(column),
		Position:      intPtr(position),
		Connector:     model.ConnectorAnd,
	}
}

func TestLoadClassifiesAndOrders(t *testing.T) {
	f1 := packagedFeature("alpha", 1, 1)
	f2 := packagedFeature("beta", 1, 0)
	f3 := model.Feature{ID: uuid.New(), Name: "gamma", PublishToCatalog: true}
	opt3 := model.CatalogOption{ID: f3.ID, Name: "gamma", IsPublished: true, Position: intPtr(0)}

	b := NewBoard()
	b.Load([]model.Feature{f1, f2, f3}, []model.CatalogOption{opt3})

	pkg1 := b.Members(LanePackage1)
	require.Len(t, pkg1, 2)
	assert.Equal(t, "beta", pkg1[0].Feature.Name)
	assert.Equal(t, "alpha", pkg1[1].Feature.Name)

	catalog := b.Members(LaneCatalog)
	require.Len(t, catalog, 1)
	assert.Equal(t, "gamma", catalog[0].Feature.Name)

	lane, ok := b.LaneOf(f3.ID)
	require.True(t, ok)
	assert.Equal(t, LaneCatalog, lane)
}

func TestLoadEmitsDriftForGapsAndNils(t *testing.T) {
	// Stored positions 5 and 12: both must be rewritten to 0 and 1.
	f1 := packagedFeature("alpha", 1, 5)
	f2 := packagedFeature("beta", 1, 12)
	// Already contiguous: no drift.
	f3 := packagedFeature("gamma", 2, 0)

	b := NewBoard()
	drift := b.Load([]model.Feature{f1, f2, f3}, nil)

	require.Len(t, drift, 2)
	byID := make(map[uuid.UUID]batch.FieldUpdate)
	for _, u := range drift {
		byID[u.ID] = u
	}
	assert.Equal(t, 0, byID[f1.ID].Fields["position"])
	assert.Equal(t, 1, byID[f2.ID].Fields["position"])

	// A second load of the normalized state finds nothing to fix.
	members := b.Members(LanePackage1)
	features := []model.Feature{members[0].Feature, members[1].Feature, f3}
	features[2].Position = intPtr(0)
	again := NewBoard().Load(features, nil)
	assert.Empty(t, again)
}

func TestLoadEmitsOptionDriftForPublishedLanes(t *testing.T) {
	f := model.Feature{ID: uuid.New(), Name: "alpha", PublishToCatalog: true, Position: intPtr(3)}
	opt := model.CatalogOption{ID: f.ID, Name: "alpha", IsPublished: true, Position: intPtr(7)}

	b := NewBoard()
	drift := b.Load([]model.Feature{f}, []model.CatalogOption{opt})

	collections := make(map[string]int)
	for _, u := range drift {
		collections[u.Collection] = u.Fields["position"].(int)
	}
	assert.Equal(t, 0, collections[batch.CollectionFeatures])
	assert.Equal(t, 0, collections[batch.CollectionCatalogOptions])
}

func TestPutReclassifiesBetweenLanes(t *testing.T) {
	f := packagedFeature("alpha", 1, 0)
	b := NewBoard()
	b.Load([]model.Feature{f}, nil)

	// Clearing the package column moves the entry to unassigned.
	moved := f
	moved.PackageColumn = nil
	b.Put(Entry{Feature: moved})

	assert.Empty(t, b.Members(LanePackage1))
	require.Len(t, b.Members(LaneUnassigned), 1)

	lane, _ := b.LaneOf(f.ID)
	assert.Equal(t, LaneUnassigned, lane)
}

func TestEntryIsInExactlyOneLane(t *testing.T) {
	f := packagedFeature("alpha", 1, 0)
	f.PublishToCatalog = true // conflicting flags: package column must win
	opt := model.CatalogOption{ID: f.ID, Name: "alpha", IsPublished: true}

	b := NewBoard()
	b.Load([]model.Feature{f}, []model.CatalogOption{opt})

	total := 0
	for _, lane := range []Lane{LaneUnassigned, LanePackage1, LanePackage2, LanePackage3, LaneFeatured, LaneCatalog} {
		total += len(b.Members(lane))
	}
	assert.Equal(t, 1, total)
	assert.Len(t, b.Members(LanePackage1), 1)
}

func TestFlipConnector(t *testing.T) {
	f := packagedFeature("alpha", 1, 0)
	b := NewBoard()
	b.Load([]model.Feature{f}, nil)

	old, next, err := b.FlipConnector(f.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ConnectorAnd, old)
	assert.Equal(t, model.ConnectorOr, next)

	_, next, err = b.FlipConnector(f.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ConnectorAnd, next)

	_, _, err = b.FlipConnector(uuid.New())
	assert.ErrorIs(t, err, ErrFeatureNotFound)
}

func TestBeginMoveInFlightGuard(t *testing.T) {
	f1 := packagedFeature("alpha", 1, 0)
	f2 := packagedFeature("beta", 1, 1)
	b := NewBoard()
	b.Load([]model.Feature{f1, f2}, nil)

	change, err := b.BeginMove(f1.ID, LanePackage2, -1)
	require.NoError(t, err)
	require.NotNil(t, change)

	// The same feature cannot start a second move until the first settles.
	_, err = b.BeginMove(f1.ID, LanePackage3, -1)
	assert.ErrorIs(t, err, ErrMoveInFlight)

	// Other features are unaffected.
	other, err := b.BeginMove(f2.ID, LanePackage3, -1)
	require.NoError(t, err)
	b.Finish(other)

	b.Finish(change)
	change, err = b.BeginMove(f1.ID, LanePackage3, -1)
	require.NoError(t, err)
	require.NotNil(t, change)
	b.Finish(change)
}

func TestBeginMoveNoOp(t *testing.T) {
	f1 := packagedFeature("alpha", 1, 0)
	f2 := packagedFeature("beta", 1, 1)
	b := NewBoard()
	b.Load([]model.Feature{f1, f2}, nil)

	// Dropping onto the exact slot it already occupies.
	change, err := b.BeginMove(f1.ID, LanePackage1, 0)
	require.NoError(t, err)
	assert.Nil(t, change)

	// Negative index means end; moving the last item to the end is a no-op too.
	change, err = b.BeginMove(f2.ID, LanePackage1, -1)
	require.NoError(t, err)
	assert.Nil(t, change)

	// A no-op leaves no in-flight guard behind.
	change, err = b.BeginMove(f1.ID, LanePackage1, 1)
	require.NoError(t, err)
	require.NotNil(t, change)
	b.Finish(change)
}

func TestRollbackRestoresBothLanes(t *testing.T) {
	f1 := packagedFeature("alpha", 1, 0)
	f2 := packagedFeature("beta", 1, 1)
	f3 := packagedFeature("gamma", 2, 0)
	b := NewBoard()
	b.Load([]model.Feature{f1, f2, f3}, nil)

	change, err := b.BeginMove(f1.ID, LanePackage2, 0)
	require.NoError(t, err)
	require.NotNil(t, change)

	// Optimistically applied.
	assert.Len(t, b.Members(LanePackage1), 1)
	assert.Len(t, b.Members(LanePackage2), 2)

	b.Rollback(change)

	pkg1 := b.Members(LanePackage1)
	require.Len(t, pkg1, 2)
	assert.Equal(t, "alpha", pkg1[0].Feature.Name)
	assert.Equal(t, 0, *pkg1[0].Feature.Position)
	assert.Equal(t, "beta", pkg1[1].Feature.Name)
	assert.Equal(t, 1, *pkg1[1].Feature.Position)

	pkg2 := b.Members(LanePackage2)
	require.Len(t, pkg2, 1)
	assert.Equal(t, "gamma", pkg2[0].Feature.Name)

	// Lane-determining fields restored on the moved entry.
	e, _ := b.Get(f1.ID)
	require.NotNil(t, e.Feature.PackageColumn)
	assert.Equal(t, 1, *e.Feature.PackageColumn)

	// Guard released: a new move may start.
	change, err = b.BeginMove(f1.ID, LanePackage2, -1)
	require.NoError(t, err)
	require.NotNil(t, change)
}
