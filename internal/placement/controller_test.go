package placement

import (
	"context"
	"errors"
	"testing"

	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/batch"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

type stubMirror struct {
	published   []uuid.UUID
	unpublished []uuid.UUID
	publishErr  error

	placementSynced []uuid.UUID
	syncedColumn    *int
	syncedPosition  *int
	syncErr         error
}

func (m *stubMirror) PublishPlacement(_ context.Context, f *model.Feature, displayColumn, position *int) (*model.CatalogOption, error) {
	if m.publishErr != nil {
		return nil, m.publishErr
	}
	m.published = append(m.published, f.ID)
	return &model.CatalogOption{
		ID:            f.ID,
		Name:          f.Name,
		IsPublished:   true,
		DisplayColumn: displayColumn,
		Position:      position,
	}, nil
}

func (m *stubMirror) SyncPlacement(_ context.Context, id uuid.UUID, displayColumn, position *int) error {
	if m.syncErr != nil {
		return m.syncErr
	}
	m.placementSynced = append(m.placementSynced, id)
	m.syncedColumn = displayColumn
	m.syncedPosition = position
	return nil
}

func (m *stubMirror) Unpublish(_ context.Context, id uuid.UUID) error {
	m.unpublished = append(m.unpublished, id)
	return nil
}

type stubCommitter struct {
	commits [][]batch.FieldUpdate
	err     error
}

func (s *stubCommitter) Commit(_ context.Context, updates []batch.FieldUpdate) (*batch.CommitReport, error) {
	s.commits = append(s.commits, updates)
	if s.err != nil {
		return &batch.CommitReport{TotalOps: len(updates)}, s.err
	}
	return &batch.CommitReport{
		TotalOps:      len(updates),
		AppliedChunks: 1,
		AppliedOps:    len(updates),
	}, nil
}

type stubUpdater struct {
	fields map[string]interface{}
	err    error
}

func (s *stubUpdater) UpdateFields(_ context.Context, _ uuid.UUID, fields map[string]interface{}) error {
	if s.err != nil {
		return s.err
	}
	s.fields = fields
	return nil
}

func newTestController(features []model.Feature, options []model.CatalogOption) (*Controller, *stubMirror, *stubCommitter, *stubUpdater) {
	board := NewBoard()
	board.Load(features, options)
	mirror := &stubMirror{}
	committer := &stubCommitter{}
	updater := &stubUpdater{}
	return NewController(board, mirror, committer, updater), mirror, committer, updater
}

func updatesFor(commits [][]batch.FieldUpdate, id uuid.UUID) map[string]interface{} {
	for _, commit := range commits {
		for _, u := range commit {
			if u.ID == id && u.Collection == batch.CollectionFeatures {
				return u.Fields
			}
		}
	}
	return nil
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestMoveBetweenPackageLanes(t *testing.T) {
	f1 := packagedFeature("alpha", 1, 0)
	f2 := packagedFeature("beta", 1, 1)
	c, mirror, committer, _ := newTestController([]model.Feature{f1, f2}, nil)

	report, err := c.Move(context.Background(), f1.ID, LanePackage2, -1)
	require.NoError(t, err)
	assert.False(t, report.NoOp)
	assert.Equal(t, LanePackage1, report.From)
	assert.Equal(t, LanePackage2, report.To)

	// Source lane closed ranks: beta is now position 0.
	pkg1 := c.Board().Members(LanePackage1)
	require.Len(t, pkg1, 1)
	assert.Equal(t, "beta", pkg1[0].Feature.Name)
	assert.Equal(t, 0, *pkg1[0].Feature.Position)

	pkg2 := c.Board().Members(LanePackage2)
	require.Len(t, pkg2, 1)
	assert.Equal(t, "alpha", pkg2[0].Feature.Name)
	assert.Equal(t, 0, *pkg2[0].Feature.Position)

	// Persisted tuples: alpha gets its new column, beta its new position.
	require.Len(t, committer.commits, 1)
	alphaFields := updatesFor(committer.commits, f1.ID)
	require.NotNil(t, alphaFields)
	assert.Equal(t, 2, alphaFields["package_column"])
	betaFields := updatesFor(committer.commits, f2.ID)
	require.NotNil(t, betaFields)
	assert.Equal(t, 0, betaFields["position"])

	// No published lane involved, no mirror traffic.
	assert.Empty(t, mirror.published)
	assert.Empty(t, mirror.unpublished)
}

func TestMoveNoOpWritesNothing(t *testing.T) {
	f1 := packagedFeature("alpha", 1, 0)
	f2 := packagedFeature("beta", 1, 1)
	c, _, committer, _ := newTestController([]model.Feature{f1, f2}, nil)

	report, err := c.Move(context.Background(), f1.ID, LanePackage1, 0)
	require.NoError(t, err)
	assert.True(t, report.NoOp)
	assert.Empty(t, committer.commits)
}

func TestMoveUnknownFeature(t *testing.T) {
	c, _, _, _ := newTestController(nil, nil)
	_, err := c.Move(context.Background(), uuid.New(), LanePackage1, 0)
	assert.ErrorIs(t, err, ErrFeatureNotFound)
}

func TestMoveIntoCatalogPublishesMirror(t *testing.T) {
	f := packagedFeature("alpha", 1, 0)
	price := decimal.RequireFromString("249.00")
	f.CatalogPrice = &price
	c, mirror, committer, _ := newTestController([]model.Feature{f}, nil)

	report, err := c.Move(context.Background(), f.ID, LaneCatalog, -1)
	require.NoError(t, err)
	assert.Equal(t, LaneCatalog, report.To)
	assert.Equal(t, []uuid.UUID{f.ID}, mirror.published)

	e, _ := c.Board().Get(f.ID)
	require.NotNil(t, e.Option)
	assert.True(t, e.Option.IsPublished)
	assert.Nil(t, e.Feature.PackageColumn)
	assert.True(t, e.Feature.PublishToCatalog)

	fields := updatesFor(committer.commits, f.ID)
	require.NotNil(t, fields)
	assert.Equal(t, true, fields["publish_to_catalog"])
	assert.Nil(t, fields["package_column"])
}

func TestMoveIntoCatalogRequiresPrice(t *testing.T) {
	f := packagedFeature("alpha", 1, 0)
	c, mirror, committer, _ := newTestController([]model.Feature{f}, nil)

	_, err := c.Move(context.Background(), f.ID, LaneCatalog, -1)
	assert.ErrorIs(t, err, ErrCatalogPriceRequired)

	// Nothing was touched: the feature is still in its package lane.
	lane, _ := c.Board().LaneOf(f.ID)
	assert.Equal(t, LanePackage1, lane)
	assert.Empty(t, mirror.published)
	assert.Empty(t, committer.commits)
}

func TestMoveIntoFeaturedSetsDisplayColumn(t *testing.T) {
	f := packagedFeature("alpha", 1, 0)
	price := decimal.RequireFromString("249.00")
	f.CatalogPrice = &price
	c, _, _, _ := newTestController([]model.Feature{f}, nil)

	_, err := c.Move(context.Background(), f.ID, LaneFeatured, -1)
	require.NoError(t, err)

	e, _ := c.Board().Get(f.ID)
	require.NotNil(t, e.Option)
	require.NotNil(t, e.Option.DisplayColumn)
	assert.Equal(t, model.ColumnFeatured, *e.Option.DisplayColumn)
}

func TestMoveOutOfCatalogTombstones(t *testing.T) {
	f := model.Feature{ID: uuid.New(), Name: "alpha", PublishToCatalog: true, Position: intPtr(0)}
	opt := model.CatalogOption{ID: f.ID, Name: "alpha", IsPublished: true, Position: intPtr(0)}
	c, mirror, _, _ := newTestController([]model.Feature{f}, []model.CatalogOption{opt})

	_, err := c.Move(context.Background(), f.ID, LanePackage1, -1)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{f.ID}, mirror.unpublished)

	e, _ := c.Board().Get(f.ID)
	require.NotNil(t, e.Option)
	assert.False(t, e.Option.IsPublished)
	assert.False(t, e.Feature.PublishToCatalog)
	require.NotNil(t, e.Feature.PackageColumn)
	assert.Equal(t, 1, *e.Feature.PackageColumn)
}

func TestMoveRollsBackOnCommitFailure(t *testing.T) {
	f1 := packagedFeature("alpha", 1, 0)
	f2 := packagedFeature("beta", 1, 1)
	c, _, committer, _ := newTestController([]model.Feature{f1, f2}, nil)
	committer.err = errors.New("store down")

	before := c.Board().Members(LanePackage1)

	_, err := c.Move(context.Background(), f1.ID, LanePackage2, -1)
	require.Error(t, err)

	after := c.Board().Members(LanePackage1)
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].Feature.ID, after[i].Feature.ID)
		assert.Equal(t, *before[i].Feature.Position, *after[i].Feature.Position)
	}
	assert.Empty(t, c.Board().Members(LanePackage2))

	// The guard is released; retrying after recovery succeeds.
	committer.err = nil
	_, err = c.Move(context.Background(), f1.ID, LanePackage2, -1)
	require.NoError(t, err)
}

func TestMoveRollsBackOnMirrorFailure(t *testing.T) {
	f := packagedFeature("alpha", 1, 0)
	price := decimal.RequireFromString("249.00")
	f.CatalogPrice = &price
	c, mirror, committer, _ := newTestController([]model.Feature{f}, nil)
	mirror.publishErr = errors.New("store down")

	_, err := c.Move(context.Background(), f.ID, LaneCatalog, -1)
	require.Error(t, err)

	lane, _ := c.Board().LaneOf(f.ID)
	assert.Equal(t, LanePackage1, lane)
	e, _ := c.Board().Get(f.ID)
	assert.Nil(t, e.Option)
	assert.Empty(t, committer.commits)
}

func TestReorderWithinLane(t *testing.T) {
	f1 := packagedFeature("alpha", 1, 0)
	f2 := packagedFeature("beta", 1, 1)
	f3 := packagedFeature("gamma", 1, 2)
	c, _, committer, _ := newTestController([]model.Feature{f1, f2, f3}, nil)

	report, err := c.Reorder(context.Background(), LanePackage1, 0, 2)
	require.NoError(t, err)
	assert.False(t, report.NoOp)

	got := c.Board().Members(LanePackage1)
	names := []string{got[0].Feature.Name, got[1].Feature.Name, got[2].Feature.Name}
	assert.Equal(t, []string{"beta", "gamma", "alpha"}, names)
	for i, e := range got {
		assert.Equal(t, i, *e.Feature.Position)
	}

	// All three positions changed, one commit.
	require.Len(t, committer.commits, 1)
	assert.Len(t, committer.commits[0], 3)
}

func TestReorderInsideCatalogRealignsMirrorPlacement(t *testing.T) {
	f1 := model.Feature{ID: uuid.New(), Name: "alpha", PublishToCatalog: true, Position: intPtr(0)}
	f2 := model.Feature{ID: uuid.New(), Name: "beta", PublishToCatalog: true, Position: intPtr(1)}
	opts := []model.CatalogOption{
		{ID: f1.ID, Name: "alpha", IsPublished: true, Position: intPtr(0)},
		{ID: f2.ID, Name: "beta", IsPublished: true, Position: intPtr(1)},
	}
	c, mirror, committer, _ := newTestController([]model.Feature{f1, f2}, opts)

	_, err := c.Reorder(context.Background(), LaneCatalog, 0, 1)
	require.NoError(t, err)

	// The moved item's mirror placement goes through the sync path, not a
	// publish: no upsert, one realign with the post-reorder position.
	assert.Empty(t, mirror.published)
	assert.Equal(t, []uuid.UUID{f1.ID}, mirror.placementSynced)
	require.NotNil(t, mirror.syncedPosition)
	assert.Equal(t, 1, *mirror.syncedPosition)
	assert.Nil(t, mirror.syncedColumn)

	// The rest of the lane still persists through the batch tuples.
	require.Len(t, committer.commits, 1)

	// A failing realign rolls the reorder back like any persistence failure.
	mirror.syncErr = errors.New("store down")
	_, err = c.Reorder(context.Background(), LaneCatalog, 0, 1)
	require.Error(t, err)
	got := c.Board().Members(LaneCatalog)
	require.Len(t, got, 2)
	assert.Equal(t, "beta", got[0].Feature.Name)
	assert.Equal(t, "alpha", got[1].Feature.Name)
}

func TestReorderIndexOutOfRange(t *testing.T) {
	f := packagedFeature("alpha", 1, 0)
	c, _, _, _ := newTestController([]model.Feature{f}, nil)

	_, err := c.Reorder(context.Background(), LanePackage1, 5, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestToggleConnectorPersistsAndRollsBack(t *testing.T) {
	f := packagedFeature("alpha", 1, 0)
	c, _, _, updater := newTestController([]model.Feature{f}, nil)

	next, err := c.ToggleConnector(context.Background(), f.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ConnectorOr, next)
	assert.Equal(t, model.ConnectorOr, updater.fields["connector"])

	// Persistence failure restores the old value.
	updater.err = errors.New("store down")
	_, err = c.ToggleConnector(context.Background(), f.ID)
	require.Error(t, err)
	e, _ := c.Board().Get(f.ID)
	assert.Equal(t, model.ConnectorOr, e.Feature.Connector)
}
