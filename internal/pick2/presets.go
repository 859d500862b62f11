package pick2

import (
	"encoding/json"
	"fmt"

	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/model"

	"github.com/google/uuid"
)

// DecodePairs unmarshals the stored recommended-pair presets.
func DecodePairs(raw []byte) ([]model.RecommendedPair, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var pairs []model.RecommendedPair
	if err := json.Unmarshal(raw, &pairs); err != nil {
		return nil, fmt.Errorf("decode recommended pairs: %w", err)
	}
	return pairs, nil
}

// ParsePair extracts the two option ids of a preset, enforcing shape:
// exactly two well-formed, distinct ids.
func ParsePair(p model.RecommendedPair) (uuid.UUID, uuid.UUID, error) {
	if len(p.OptionIDs) != Capacity {
		return uuid.Nil, uuid.Nil, fmt.Errorf("preset %q must hold exactly %d option ids", p.Label, Capacity)
	}
	first, err := uuid.Parse(p.OptionIDs[0])
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("preset %q: %w", p.Label, err)
	}
	second, err := uuid.Parse(p.OptionIDs[1])
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("preset %q: %w", p.Label, err)
	}
	if first == second {
		return uuid.Nil, uuid.Nil, fmt.Errorf("preset %q: %w", p.Label, ErrSamePreset)
	}
	return first, second, nil
}

// ValidatePairs checks every preset against the current eligible set: a
// preset is valid only when both of its ids are distinct and currently
// Pick-2 eligible.
func ValidatePairs(pairs []model.RecommendedPair, eligible map[uuid.UUID]bool) error {
	if len(pairs) > model.MaxRecommendedPairs {
		return fmt.Errorf("at most %d recommended pairs are allowed", model.MaxRecommendedPairs)
	}
	for _, p := range pairs {
		first, second, err := ParsePair(p)
		if err != nil {
			return err
		}
		if !eligible[first] || !eligible[second] {
			return fmt.Errorf("preset %q references an option that is not pick-2 eligible", p.Label)
		}
	}
	return nil
}
