package placement

import (
	"context"
	"errors"
	"fmt"

	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/batch"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrCatalogPriceRequired rejects a move into a published lane for a feature
// with no catalog price — validated before any state is touched.
var ErrCatalogPriceRequired = errors.New("a catalog price is required before publishing")

// CatalogMirror is the slice of cross-collection sync the controller needs:
// upsert the public mirror when a feature enters a published lane, realign
// its placement when it reorders inside one, tombstone it when it leaves.
type CatalogMirror interface {
	PublishPlacement(ctx context.Context, f *model.Feature, displayColumn, position *int) (*model.CatalogOption, error)
	SyncPlacement(ctx context.Context, id uuid.UUID, displayColumn, position *int) error
	Unpublish(ctx context.Context, id uuid.UUID) error
}

// Committer persists the changed field tuples of a move as bounded atomic
// batches.
type Committer interface {
	Commit(ctx context.Context, updates []batch.FieldUpdate) (*batch.CommitReport, error)
}

// FieldUpdater persists a single-field change on one feature document.
type FieldUpdater interface {
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
}

// Controller orchestrates placement intents: it computes the new per-lane
// ordering, applies it optimistically to the board, persists through the
// mirror and the batch committer, and rolls the board back if persistence
// fails. The UI therefore reflects a move before the network round-trip and
// is restored to the pre-move state when that round-trip ultimately fails.
type Controller struct {
	board     *Board
	mirror    CatalogMirror
	committer Committer
	features  FieldUpdater
}

func NewController(board *Board, mirror CatalogMirror, committer Committer, features FieldUpdater) *Controller {
	return &Controller{board: board, mirror: mirror, committer: committer, features: features}
}

// Board exposes the in-memory store for read-side consumers.
func (c *Controller) Board() *Board { return c.board }

// MoveReport summarizes a completed (or no-op) move.
type MoveReport struct {
	NoOp      bool
	FeatureID uuid.UUID
	From, To  Lane
	Ops       int
	Commit    *batch.CommitReport
}

// Move relocates a feature to targetLane at targetIndex (negative index =
// end). Lane-determining fields are rewritten, both affected lanes are
// re-normalized, and every changed tuple is persisted. A move that would
// change nothing performs no write.
func (c *Controller) Move(ctx context.Context, featureID uuid.UUID, target Lane, targetIndex int) (*MoveReport, error) {
	entry, ok := c.board.Get(featureID)
	if !ok {
		return nil, ErrFeatureNotFound
	}

	// Entering a published lane with no existing mirror requires a catalog
	// price to mint one — fail before any state is touched. An existing
	// mirror already carries a price, and merge semantics keep it.
	if target.Published() && entry.Option == nil {
		if entry.Feature.CatalogPrice == nil || entry.Feature.CatalogPrice.IsNegative() {
			return nil, ErrCatalogPriceRequired
		}
	}

	change, err := c.board.BeginMove(featureID, target, targetIndex)
	if err != nil {
		return nil, err
	}
	if change == nil {
		return &MoveReport{NoOp: true, FeatureID: featureID, From: target, To: target}, nil
	}

	report, err := c.persistMove(ctx, change)
	if err != nil {
		c.board.Rollback(change)
		log.Warn().
			Str("feature_id", featureID.String()).
			Str("from", change.From.String()).
			Str("to", change.To.String()).
			Err(err).
			Msg("placement: move rolled back after persistence failure")
		return nil, fmt.Errorf("move %s to %s failed and was rolled back: %w",
			change.From, change.To, err)
	}
	c.board.Finish(change)

	return &MoveReport{
		FeatureID: featureID,
		From:      change.From,
		To:        change.To,
		Ops:       len(change.Updates),
		Commit:    report,
	}, nil
}

// persistMove runs the cross-collection sync for the moved item, then the
// batched field updates. A mirror write that lands before a failed batch is
// part of the documented store/in-memory divergence window — the rollback
// restores the board, not the store.
func (c *Controller) persistMove(ctx context.Context, change *MoveChange) (*batch.CommitReport, error) {
	if change.Unpublish {
		if err := c.mirror.Unpublish(ctx, change.FeatureID); err != nil {
			return nil, fmt.Errorf("unpublish mirror: %w", err)
		}
	}
	if change.Publish {
		opt := change.Moved.Option
		canonical, err := c.mirror.PublishPlacement(ctx, &change.Moved.Feature, opt.DisplayColumn, opt.Position)
		if err != nil {
			return nil, fmt.Errorf("publish mirror: %w", err)
		}
		c.board.SetOption(change.FeatureID, canonical)
	} else if change.To.Published() {
		// Reorder inside a published lane: no publish state changed, but the
		// moved item's mirrored placement did, and the public cache must drop.
		if opt := change.Moved.Option; opt != nil && opt.IsPublished {
			if err := c.mirror.SyncPlacement(ctx, change.FeatureID, opt.DisplayColumn, opt.Position); err != nil {
				return nil, fmt.Errorf("sync mirror placement: %w", err)
			}
		}
	}

	return c.committer.Commit(ctx, change.Updates)
}

// Reorder moves the feature at fromIndex of a lane to toIndex of the same
// lane — the same-lane special case of Move: no lane-determining field
// changes, but the lane is still re-normalized and persisted.
func (c *Controller) Reorder(ctx context.Context, lane Lane, fromIndex, toIndex int) (*MoveReport, error) {
	id, err := c.board.IDAt(lane, fromIndex)
	if err != nil {
		return nil, err
	}
	return c.Move(ctx, id, lane, toIndex)
}

// ToggleConnector flips the AND/OR connector shown between a feature and the
// next one in its package column. Persisted as a single-field update; lane
// and position are untouched.
func (c *Controller) ToggleConnector(ctx context.Context, featureID uuid.UUID) (string, error) {
	old, next, err := c.board.FlipConnector(featureID)
	if err != nil {
		return "", err
	}
	if err := c.features.UpdateFields(ctx, featureID, map[string]interface{}{"connector": next}); err != nil {
		c.board.SetConnector(featureID, old)
		return "", fmt.Errorf("connector persist failed and was rolled back: %w", err)
	}
	return next, nil
}
