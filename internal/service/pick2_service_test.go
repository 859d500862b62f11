package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/dto"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/model"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/pick2"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type stubConfigRepo struct{ cfg *model.Pick2Config }

func (r *stubConfigRepo) Get(context.Context) (*model.Pick2Config, error) { return r.cfg, nil }
func (r *stubConfigRepo) Save(_ context.Context, cfg *model.Pick2Config) error {
	r.cfg = cfg
	return nil
}

type stubCatalogRepo struct{ opts []model.CatalogOption }

func (r *stubCatalogRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CatalogOption, error) {
	for i := range r.opts {
		if r.opts[i].ID == id {
			return &r.opts[i], nil
		}
	}
	return nil, nil
}
func (r *stubCatalogRepo) ListAll(context.Context) ([]model.CatalogOption, error) {
	return r.opts, nil
}
func (r *stubCatalogRepo) ListPublished(context.Context) ([]model.CatalogOption, error) {
	var out []model.CatalogOption
	for _, o := range r.opts {
		if o.IsPublished {
			out = append(out, o)
		}
	}
	return out, nil
}
func (r *stubCatalogRepo) ListPick2Eligible(context.Context) ([]model.CatalogOption, error) {
	var out []model.CatalogOption
	for _, o := range r.opts {
		if o.Pick2Eligible {
			out = append(out, o)
		}
	}
	return out, nil
}
func (r *stubCatalogRepo) Upsert(context.Context, *model.CatalogOption, []string) error { return nil }
func (r *stubCatalogRepo) UpdateFields(context.Context, uuid.UUID, map[string]interface{}) error {
	return nil
}

func eligibleOption(name, price string) model.CatalogOption {
	return model.CatalogOption{
		ID:            uuid.New(),
		Name:          name,
		Price:         decimal.RequireFromString(price),
		Pick2Eligible: true,
	}
}

func newPick2Service(cfg *model.Pick2Config, opts []model.CatalogOption) *Pick2Service {
	return NewPick2Service(
		&stubConfigRepo{cfg: cfg},
		&stubCatalogRepo{opts: opts},
		NewCatalogCache(nil, time.Minute), // nil client: cache disabled
		pick2.NewSessionStore(time.Hour),
	)
}

func enabledConfig(price string) *model.Pick2Config {
	return &model.Pick2Config{
		ID:      model.Pick2ConfigID,
		Enabled: true,
		Price:   decimal.RequireFromString(price),
	}
}

func TestSelectFlowChargesBundleOnce(t *testing.T) {
	a := eligibleOption("Interior Shield", "275.00")
	b := eligibleOption("Nitrogen Fill", "275.00")
	svc := newPick2Service(enabledConfig("500.00"), []model.CatalogOption{a, b})
	ctx := context.Background()

	state, err := svc.Select(ctx, "s1", a.ID)
	require.NoError(t, err)
	assert.False(t, state.Complete)
	assert.True(t, state.TotalContribution.IsZero())

	state, err = svc.Select(ctx, "s1", b.ID)
	require.NoError(t, err)
	assert.True(t, state.Complete)
	assert.True(t, state.TotalContribution.Equal(decimal.RequireFromString("500.00")))
	assert.True(t, state.IndividualTotal.Equal(decimal.RequireFromString("550.00")))
	assert.True(t, state.Savings.Equal(decimal.RequireFromString("50.00")))
	require.Len(t, state.Items, 2)
}

func TestSelectThirdOptionReturnsBlockedState(t *testing.T) {
	a := eligibleOption("A", "100.00")
	b := eligibleOption("B", "100.00")
	c := eligibleOption("C", "100.00")
	svc := newPick2Service(enabledConfig("150.00"), []model.CatalogOption{a, b, c})
	ctx := context.Background()

	_, err := svc.Select(ctx, "s1", a.ID)
	require.NoError(t, err)
	_, err = svc.Select(ctx, "s1", b.ID)
	require.NoError(t, err)

	// The block is a domain outcome, not a transport error.
	state, err := svc.Select(ctx, "s1", c.ID)
	require.NoError(t, err)
	assert.True(t, state.Blocked)
	assert.Equal(t, pick2.StatusAtCapacity, state.Status)
	assert.Equal(t, []string{a.ID.String(), b.ID.String()}, state.SelectedIDs)
}

func TestSelectIneligibleOption(t *testing.T) {
	a := eligibleOption("A", "100.00")
	svc := newPick2Service(enabledConfig("150.00"), []model.CatalogOption{a})

	_, err := svc.Select(context.Background(), "s1", uuid.New())
	assert.ErrorIs(t, err, ErrNotEligible)
}

func TestSelectWhileDisabled(t *testing.T) {
	a := eligibleOption("A", "100.00")
	cfg := enabledConfig("150.00")
	cfg.Enabled = false
	svc := newPick2Service(cfg, []model.CatalogOption{a})

	_, err := svc.Select(context.Background(), "s1", a.ID)
	assert.ErrorIs(t, err, ErrPromotionDisabled)
}

func TestSessionsAreIndependent(t *testing.T) {
	a := eligibleOption("A", "100.00")
	svc := newPick2Service(enabledConfig("150.00"), []model.CatalogOption{a})
	ctx := context.Background()

	_, err := svc.Select(ctx, "s1", a.ID)
	require.NoError(t, err)

	state, err := svc.State(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, state.SelectedIDs)
}

func TestApplyPresetRevalidatesEligibility(t *testing.T) {
	a := eligibleOption("A", "100.00")
	b := eligibleOption("B", "100.00")
	retired := eligibleOption("Retired", "100.00")
	retired.Pick2Eligible = false

	cfg := enabledConfig("150.00")
	pairs, err := json.Marshal([]model.RecommendedPair{
		{Label: "Good", OptionIDs: []string{a.ID.String(), b.ID.String()}},
		{Label: "Stale", OptionIDs: []string{a.ID.String(), retired.ID.String()}},
	})
	require.NoError(t, err)
	cfg.RecommendedPairs = datatypes.JSON(pairs)

	svc := newPick2Service(cfg, []model.CatalogOption{a, b, retired})
	ctx := context.Background()

	state, err := svc.ApplyPreset(ctx, "s1", "Good")
	require.NoError(t, err)
	assert.True(t, state.Complete)

	_, err = svc.ApplyPreset(ctx, "s1", "Stale")
	assert.ErrorIs(t, err, ErrNotEligible)

	_, err = svc.ApplyPreset(ctx, "s1", "Missing")
	assert.ErrorIs(t, err, ErrPresetNotFound)
}

func TestSwapAndClearFlow(t *testing.T) {
	a := eligibleOption("A", "100.00")
	b := eligibleOption("B", "100.00")
	c := eligibleOption("C", "100.00")
	svc := newPick2Service(enabledConfig("150.00"), []model.CatalogOption{a, b, c})
	ctx := context.Background()

	_, err := svc.Select(ctx, "s1", a.ID)
	require.NoError(t, err)
	_, err = svc.Select(ctx, "s1", b.ID)
	require.NoError(t, err)

	state, err := svc.Swap(ctx, "s1", a.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID.String(), c.ID.String()}, state.SelectedIDs)
	assert.True(t, state.Complete)

	state, err = svc.Clear(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, state.SelectedIDs)
	assert.True(t, state.TotalContribution.IsZero())
}

func TestSaveConfigValidatesPairs(t *testing.T) {
	a := eligibleOption("A", "100.00")
	b := eligibleOption("B", "100.00")
	svc := newPick2Service(enabledConfig("150.00"), []model.CatalogOption{a, b})
	ctx := context.Background()

	req := configRequest("500.00", [][2]string{{a.ID.String(), b.ID.String()}})
	resp, err := svc.SaveConfig(ctx, req)
	require.NoError(t, err)
	require.Len(t, resp.RecommendedPairs, 1)

	bad := configRequest("500.00", [][2]string{{a.ID.String(), uuid.NewString()}})
	_, err = svc.SaveConfig(ctx, bad)
	assert.Error(t, err)
}

func configRequest(price string, pairs [][2]string) dto.Pick2ConfigRequest {
	req := dto.Pick2ConfigRequest{
		Enabled: true,
		Price:   decimal.RequireFromString(price),
	}
	for i, p := range pairs {
		req.RecommendedPairs = append(req.RecommendedPairs, dto.RecommendedPairDTO{
			Label:     fmt.Sprintf("Pair %d", i+1),
			OptionIDs: []string{p[0], p[1]},
		})
	}
	return req
}
