package placement

// Normalize returns a copy of the given lane members with contiguous
// zero-based positions in the order given (position = index). The inputs are
// treated as immutable: fresh Entry values are returned even when every
// position already matches, which makes the function idempotent on values.
//
// It is used both for a reorder within one lane and, after a cross-lane move,
// once per affected lane.
func Normalize(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i := range entries {
		e := entries[i].clone()
		pos := i
		e.Feature.Position = &pos
		if e.Option != nil {
			optPos := i
			e.Option.Position = &optPos
		}
		out[i] = e
	}
	return out
}
