// Package pick2 implements the bounded selection state machine for the
// Pick-2 promotion: a shopper holds at most two eligible options and, once
// both slots are filled, pays one flat bundle price — never the sum of the
// two individual prices, and never the bundle price twice.
package pick2

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Capacity is the fixed size of a complete bundle selection.
const Capacity = 2

// StatusAtCapacity is the transient message shown when a third pick is
// attempted: the shopper must remove one item to swap.
const StatusAtCapacity = "Your bundle is full — remove one selection to swap."

var (
	// ErrAtCapacity rejects a third pick; the selection is left untouched.
	ErrAtCapacity = errors.New("selection already holds two options")
	// ErrSamePreset rejects a preset whose two ids are not distinct.
	ErrSamePreset = errors.New("a preset must reference two distinct options")
)

// Selection is one shopper's in-progress bundle: an ordered set of at most
// two option ids plus a cached blocked-status message. It lives only in
// memory; nothing here is persisted.
type Selection struct {
	ids    []uuid.UUID
	status string
}

func NewSelection() *Selection {
	return &Selection{}
}

// IDs returns a copy of the selected option ids in pick order.
func (s *Selection) IDs() []uuid.UUID {
	out := make([]uuid.UUID, len(s.ids))
	copy(out, s.ids)
	return out
}

// Contains reports whether id is currently selected.
func (s *Selection) Contains(id uuid.UUID) bool {
	for _, v := range s.ids {
		if v == id {
			return true
		}
	}
	return false
}

// Complete reports whether both slots are filled.
func (s *Selection) Complete() bool { return len(s.ids) == Capacity }

// Status returns the transient blocked message, empty when none.
func (s *Selection) Status() string { return s.status }

// Select adds an option. Selecting an id that is already held leaves the
// selection unchanged; any successful pick clears a stale blocked status.
// At capacity the pick is rejected, the selection is not mutated, and the
// "remove one to swap" status is set.
func (s *Selection) Select(id uuid.UUID) error {
	if s.Contains(id) {
		s.status = ""
		return nil
	}
	if len(s.ids) == Capacity {
		s.status = StatusAtCapacity
		return ErrAtCapacity
	}
	s.ids = append(s.ids, id)
	s.status = ""
	return nil
}

// Remove drops an option if present and clears any blocked status (and with
// it the "complete" state).
func (s *Selection) Remove(id uuid.UUID) {
	out := s.ids[:0]
	for _, v := range s.ids {
		if v != id {
			out = append(out, v)
		}
	}
	s.ids = out
	s.status = ""
}

// Swap exchanges one held option for another. It is exactly Remove followed
// by Select — no shortcut state exists.
func (s *Selection) Swap(removeID, addID uuid.UUID) error {
	s.Remove(removeID)
	return s.Select(addID)
}

// ApplyPreset replaces the whole selection with a curated pair in one step.
// A full replacement, not an increment, so the capacity block does not apply.
func (s *Selection) ApplyPreset(first, second uuid.UUID) error {
	if first == second {
		return ErrSamePreset
	}
	s.ids = []uuid.UUID{first, second}
	s.status = ""
	return nil
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = nil
	s.status = ""
}

// TotalContribution is the bundle's contribution to the shopper's total:
// zero while incomplete, exactly the flat bundle price once both slots are
// filled — counted once no matter how the selection was reached.
func (s *Selection) TotalContribution(bundlePrice decimal.Decimal) decimal.Decimal {
	if !s.Complete() {
		return decimal.Zero
	}
	return bundlePrice
}
