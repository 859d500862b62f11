package placement

import (
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/batch"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/model"

	"github.com/google/uuid"
)

// MoveChange is everything a committed move needs downstream: the field
// updates to persist, whether the mirror must be published or tombstoned, and
// the snapshot that undoes the optimistic apply if persistence fails.
type MoveChange struct {
	FeatureID uuid.UUID
	From, To  Lane
	// Updates covers every member of both affected lanes whose stored
	// position (or lane-determining field) changed.
	Updates []batch.FieldUpdate
	// Publish: the moved feature entered a published lane; its mirror must be
	// upserted. Unpublish: it left one; the mirror must be soft-retired.
	Publish   bool
	Unpublish bool
	// Moved is the post-move, post-normalization state of the moved entry.
	Moved Entry

	snap *boardSnapshot
}

// boardSnapshot captures the affected slice of the board before a move.
type boardSnapshot struct {
	lanes   map[Lane][]uuid.UUID
	laneOf  map[uuid.UUID]Lane
	entries map[uuid.UUID]Entry
}

// capture copies the membership and entries of the given lanes. Callers must
// hold b.mu.
func (b *Board) capture(laneSet ...Lane) *boardSnapshot {
	snap := &boardSnapshot{
		lanes:   make(map[Lane][]uuid.UUID),
		laneOf:  make(map[uuid.UUID]Lane),
		entries: make(map[uuid.UUID]Entry),
	}
	for _, lane := range laneSet {
		if _, done := snap.lanes[lane]; done {
			continue
		}
		ids := make([]uuid.UUID, len(b.lanes[lane]))
		copy(ids, b.lanes[lane])
		snap.lanes[lane] = ids
		for _, id := range ids {
			snap.laneOf[id] = lane
			snap.entries[id] = b.entries[id].clone()
		}
	}
	return snap
}

// BeginMove validates and optimistically applies a move, returning the change
// set for persistence. A (nil, nil) return means the move is a no-op — the
// item would land exactly where it already is — and nothing was applied, so
// nothing must be written.
//
// The feature is marked in-flight until Finish or Rollback is called; a
// second move of the same feature in that window fails with ErrMoveInFlight.
func (b *Board) BeginMove(id uuid.UUID, target Lane, targetIndex int) (*MoveChange, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.entries[id]
	if !ok {
		return nil, ErrFeatureNotFound
	}
	if _, busy := b.inflight[id]; busy {
		return nil, ErrMoveInFlight
	}

	source := b.laneOf[id]
	srcIDs := b.lanes[source]

	// No-op detection: simulate the membership the move would produce and
	// compare. Dropping an item onto itself, or onto the slot it already
	// occupies, must not write anything.
	if target == source {
		without := removeID(copyIDs(srcIDs), id)
		after := insertID(without, id, clampInsert(targetIndex, len(without)))
		if equalIDs(after, srcIDs) {
			return nil, nil
		}
	}

	snap := b.capture(source, target)

	b.lanes[source] = removeID(b.lanes[source], id)
	b.lanes[target] = insertID(b.lanes[target], id, clampInsert(targetIndex, len(b.lanes[target])))
	b.laneOf[id] = target

	change := &MoveChange{FeatureID: id, From: source, To: target, snap: snap}

	var laneFields map[string]interface{}
	if target != source {
		laneFields = b.applyLaneFields(e, change, target)
	}

	updates := b.renormalizeLane(target)
	if source != target {
		updates = append(updates, b.renormalizeLane(source)...)
	}
	if len(laneFields) > 0 {
		updates = append(updates, batch.FieldUpdate{
			Collection: batch.CollectionFeatures,
			ID:         id,
			Fields:     laneFields,
		})
	}
	change.Updates = mergeUpdates(updates)
	change.Moved = b.entries[id].clone()

	b.inflight[id] = struct{}{}
	return change, nil
}

// applyLaneFields rewrites the moved entry's lane-determining fields for its
// new home and flags the mirror work. Callers must hold b.mu.
func (b *Board) applyLaneFields(e *Entry, change *MoveChange, target Lane) map[string]interface{} {
	wasPublished := e.Option != nil && e.Option.IsPublished

	fields := make(map[string]interface{})
	switch {
	case target.IsPackage():
		n := target.PackageNumber()
		e.Feature.PackageColumn = &n
		e.Feature.PublishToCatalog = false
		if e.Option != nil {
			e.Option.IsPublished = false
			e.Option.DisplayColumn = nil
		}
		change.Unpublish = wasPublished
		fields["package_column"] = n
		fields["publish_to_catalog"] = false

	case target == LaneCatalog, target == LaneFeatured:
		e.Feature.PackageColumn = nil
		e.Feature.PublishToCatalog = true
		if e.Option == nil {
			e.Option = mirrorSeed(&e.Feature)
		}
		e.Option.IsPublished = true
		if target == LaneFeatured {
			col := model.ColumnFeatured
			e.Option.DisplayColumn = &col
		} else {
			e.Option.DisplayColumn = nil
		}
		change.Publish = true
		fields["package_column"] = nil
		fields["publish_to_catalog"] = true

	default: // LaneUnassigned
		e.Feature.PackageColumn = nil
		e.Feature.PublishToCatalog = false
		if e.Option != nil {
			e.Option.IsPublished = false
			e.Option.DisplayColumn = nil
		}
		change.Unpublish = wasPublished
		fields["package_column"] = nil
		fields["publish_to_catalog"] = false
	}
	return fields
}

// mirrorSeed builds the optimistic in-memory mirror for a feature entering a
// published lane before the store round-trip completes. The price is the
// catalog price — Move pre-validates that it is set.
func mirrorSeed(f *model.Feature) *model.CatalogOption {
	price := f.RetailPrice
	if f.CatalogPrice != nil {
		price = *f.CatalogPrice
	}
	return &model.CatalogOption{
		ID:          f.ID,
		Name:        f.Name,
		Price:       price,
		Cost:        f.Cost,
		Description: f.Description,
		Warranty:    f.CatalogWarrantyOverride,
		IsNew:       f.IsNew,
	}
}

// Finish releases the in-flight guard after a successful persistence round.
func (b *Board) Finish(change *MoveChange) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.inflight, change.FeatureID)
}

// Rollback restores the pre-move snapshot — the full undo of the optimistic
// apply — and releases the in-flight guard. Documents already durably written
// by earlier chunks are NOT un-committed; that divergence is reported, not
// hidden.
func (b *Board) Rollback(change *MoveChange) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for lane, ids := range change.snap.lanes {
		restored := make([]uuid.UUID, len(ids))
		copy(restored, ids)
		b.lanes[lane] = restored
	}
	for id, lane := range change.snap.laneOf {
		b.laneOf[id] = lane
	}
	for id, e := range change.snap.entries {
		restored := e.clone()
		b.entries[id] = &restored
	}
	delete(b.inflight, change.FeatureID)
}

// mergeUpdates folds multiple field updates against the same document into
// one operation, so a chunk never writes the same document twice.
func mergeUpdates(updates []batch.FieldUpdate) []batch.FieldUpdate {
	type key struct {
		collection string
		id         uuid.UUID
	}
	index := make(map[key]int)
	var out []batch.FieldUpdate
	for _, u := range updates {
		k := key{u.Collection, u.ID}
		if i, ok := index[k]; ok {
			for f, v := range u.Fields {
				out[i].Fields[f] = v
			}
			continue
		}
		index[k] = len(out)
		out = append(out, u)
	}
	return out
}

func clampInsert(index, max int) int {
	if index < 0 || index > max {
		return max
	}
	return index
}

func copyIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, len(ids))
	copy(out, ids)
	return out
}

func equalIDs(a, b []uuid.UUID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
