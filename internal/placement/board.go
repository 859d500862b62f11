package placement

import (
	"errors"
	"sort"
	"sync"

	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/batch"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/model"

	"github.com/google/uuid"
)

var (
	// ErrFeatureNotFound is returned when an operation names an unknown feature.
	ErrFeatureNotFound = errors.New("feature not found on board")
	// ErrMoveInFlight is returned when a feature's previous move is still being
	// persisted. First move wins; the caller retries once it settles.
	ErrMoveInFlight = errors.New("a move for this feature is still in flight")
	// ErrIndexOutOfRange is returned when a reorder names a slot that does not exist.
	ErrIndexOutOfRange = errors.New("index out of range for lane")
)

// Entry pairs an authoring record with its public mirror (nil until the
// feature has ever been published or flagged Pick-2 eligible).
type Entry struct {
	Feature model.Feature
	Option  *model.CatalogOption
}

// clone returns a deep copy of the pointer fields the board mutates, so a
// held snapshot cannot be changed through the live entry.
func (e Entry) clone() Entry {
	out := e
	if e.Feature.Position != nil {
		p := *e.Feature.Position
		out.Feature.Position = &p
	}
	if e.Feature.PackageColumn != nil {
		c := *e.Feature.PackageColumn
		out.Feature.PackageColumn = &c
	}
	if e.Option != nil {
		opt := *e.Option
		if e.Option.Position != nil {
			p := *e.Option.Position
			opt.Position = &p
		}
		if e.Option.DisplayColumn != nil {
			c := *e.Option.DisplayColumn
			opt.DisplayColumn = &c
		}
		out.Option = &opt
	}
	return out
}

// Board is the single owned in-memory store the UI reads: every feature
// paired with its mirror, indexed by id and by lane. All mutations happen
// behind one mutex — the engine has exactly one logical mutator.
type Board struct {
	mu       sync.Mutex
	entries  map[uuid.UUID]*Entry
	lanes    map[Lane][]uuid.UUID
	laneOf   map[uuid.UUID]Lane
	inflight map[uuid.UUID]struct{}
}

func NewBoard() *Board {
	return &Board{
		entries:  make(map[uuid.UUID]*Entry),
		lanes:    make(map[Lane][]uuid.UUID),
		laneOf:   make(map[uuid.UUID]Lane),
		inflight: make(map[uuid.UUID]struct{}),
	}
}

// Load replaces the board contents from store rows, classifies every feature
// into its lane, and re-normalizes every lane. It returns the field updates
// needed to persist any position drift it found — the one-time normalization
// pass that retires legacy gap-ridden orderings at startup.
func (b *Board) Load(features []model.Feature, options []model.CatalogOption) []batch.FieldUpdate {
	b.mu.Lock()
	defer b.mu.Unlock()

	optByID := make(map[uuid.UUID]*model.CatalogOption, len(options))
	for i := range options {
		optByID[options[i].ID] = &options[i]
	}

	b.entries = make(map[uuid.UUID]*Entry, len(features))
	b.lanes = make(map[Lane][]uuid.UUID)
	b.laneOf = make(map[uuid.UUID]Lane, len(features))
	b.inflight = make(map[uuid.UUID]struct{})

	for i := range features {
		f := features[i]
		var opt *model.CatalogOption
		if o, ok := optByID[f.ID]; ok {
			c := *o
			opt = &c
		}
		e := Entry{Feature: f, Option: opt}.clone()
		lane := Classify(&e.Feature, e.Option)
		b.entries[f.ID] = &e
		b.laneOf[f.ID] = lane
		b.lanes[lane] = append(b.lanes[lane], f.ID)
	}

	var drift []batch.FieldUpdate
	for lane, ids := range b.lanes {
		b.sortByStoredPosition(ids)
		drift = append(drift, b.renormalizeLane(lane)...)
	}
	return drift
}

// sortByStoredPosition orders lane members by their persisted position,
// nil positions last, name as tie-break. Stable for equal keys.
func (b *Board) sortByStoredPosition(ids []uuid.UUID) {
	sort.SliceStable(ids, func(i, j int) bool {
		fi, fj := b.entries[ids[i]].Feature, b.entries[ids[j]].Feature
		pi, pj := fi.Position, fj.Position
		switch {
		case pi != nil && pj != nil && *pi != *pj:
			return *pi < *pj
		case pi != nil && pj == nil:
			return true
		case pi == nil && pj != nil:
			return false
		}
		return fi.Name < fj.Name
	})
}

// renormalizeLane runs the position normalizer over one lane, writes the
// fresh entries back, and returns the field updates for every member whose
// stored position actually changed. Callers must hold b.mu.
func (b *Board) renormalizeLane(lane Lane) []batch.FieldUpdate {
	ids := b.lanes[lane]
	members := make([]Entry, len(ids))
	for i, id := range ids {
		members[i] = *b.entries[id]
	}

	var updates []batch.FieldUpdate
	for i, fresh := range Normalize(members) {
		prev := b.entries[ids[i]]
		if prev.Feature.Position == nil || *prev.Feature.Position != *fresh.Feature.Position {
			updates = append(updates, batch.FieldUpdate{
				Collection: batch.CollectionFeatures,
				ID:         fresh.Feature.ID,
				Fields:     map[string]interface{}{"position": *fresh.Feature.Position},
			})
		}
		if lane.Published() && prev.Option != nil &&
			(prev.Option.Position == nil || *prev.Option.Position != *fresh.Option.Position) {
			updates = append(updates, batch.FieldUpdate{
				Collection: batch.CollectionCatalogOptions,
				ID:         fresh.Feature.ID,
				Fields:     map[string]interface{}{"position": *fresh.Option.Position},
			})
		}
		fe := fresh
		*b.entries[ids[i]] = fe
	}
	return updates
}

// ── Reads ─────────────────────────────────────────────────────────────────────

// Get returns a copy of the entry for id.
func (b *Board) Get(id uuid.UUID) (Entry, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[id]
	if !ok {
		return Entry{}, false
	}
	return e.clone(), true
}

// LaneOf returns the lane currently holding id.
func (b *Board) LaneOf(id uuid.UUID) (Lane, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	lane, ok := b.laneOf[id]
	return lane, ok
}

// Members returns copies of a lane's entries in display order.
func (b *Board) Members(lane Lane) []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Entry, 0, len(b.lanes[lane]))
	for _, id := range b.lanes[lane] {
		out = append(out, b.entries[id].clone())
	}
	return out
}

// IDAt resolves the feature occupying a slot, for index-addressed reorders.
func (b *Board) IDAt(lane Lane, index int) (uuid.UUID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := b.lanes[lane]
	if index < 0 || index >= len(ids) {
		return uuid.Nil, ErrIndexOutOfRange
	}
	return ids[index], nil
}

// ── Mutations ─────────────────────────────────────────────────────────────────

// Put inserts or replaces an entry (feature create / edit), classifying it
// into its lane at the end, and re-normalizes that lane. Returns the drift
// updates the caller persists.
func (b *Board) Put(e Entry) []batch.FieldUpdate {
	b.mu.Lock()
	defer b.mu.Unlock()

	fresh := e.clone()
	id := fresh.Feature.ID
	newLane := Classify(&fresh.Feature, fresh.Option)

	if old, ok := b.entries[id]; ok {
		oldLane := b.laneOf[id]
		*old = fresh
		if oldLane == newLane {
			return b.renormalizeLane(newLane)
		}
		b.lanes[oldLane] = removeID(b.lanes[oldLane], id)
		b.lanes[newLane] = append(b.lanes[newLane], id)
		b.laneOf[id] = newLane
		return append(b.renormalizeLane(oldLane), b.renormalizeLane(newLane)...)
	}

	b.entries[id] = &fresh
	b.laneOf[id] = newLane
	b.lanes[newLane] = append(b.lanes[newLane], id)
	return b.renormalizeLane(newLane)
}

// SetOption replaces the mirror record of an entry (after a publish round-trip
// returned the canonical stored option).
func (b *Board) SetOption(id uuid.UUID, opt *model.CatalogOption) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if e, ok := b.entries[id]; ok {
		if opt == nil {
			e.Option = nil
			return
		}
		c := *opt
		e.Option = &c
	}
}

// FlipConnector toggles AND↔OR on a feature and returns (old, new). The flip
// is applied optimistically; the caller restores old on persistence failure.
func (b *Board) FlipConnector(id uuid.UUID) (string, string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[id]
	if !ok {
		return "", "", ErrFeatureNotFound
	}
	old := e.Feature.Connector
	next := model.ConnectorAnd
	if old == model.ConnectorAnd {
		next = model.ConnectorOr
	}
	e.Feature.Connector = next
	return old, next, nil
}

// SetConnector force-sets a connector value (rollback path).
func (b *Board) SetConnector(id uuid.UUID, connector string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if e, ok := b.entries[id]; ok {
		e.Feature.Connector = connector
	}
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func insertID(ids []uuid.UUID, id uuid.UUID, index int) []uuid.UUID {
	if index < 0 || index > len(ids) {
		index = len(ids)
	}
	out := make([]uuid.UUID, 0, len(ids)+1)
	out = append(out, ids[:index]...)
	out = append(out, id)
	out = append(out, ids[index:]...)
	return out
}
