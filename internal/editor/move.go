// Package editor holds the in-memory editing state of a form: question list
// manipulation, drag reordering and the selection bookkeeping that goes with it.
package editor

import "github.com/Saravana-31/Form-Builder/internal/model"

// NoSelection marks that no question is selected.
const NoSelection = -1

// Move returns a copy of seq with the element at from moved to index to.
// Other elements keep their relative order. Out-of-range indices leave the
// order unchanged.
func Move[T any](seq []T, from, to int) []T {
	out := make([]T, len(seq))
	copy(out, seq)
	if from == to || from < 0 || to < 0 || from >= len(seq) || to >= len(seq) {
		return out
	}

	item := out[from]
	if from < to {
		copy(out[from:to], out[from+1:to+1])
	} else {
		copy(out[to+1:from+1], out[to:from])
	}
	out[to] = item
	return out
}

// RemapSelection returns where the selected index ends up after moving the
// element at from to to. The moved element carries the selection with it;
// a selection inside the moved span shifts one place against the move.
func RemapSelection(selected, from, to int) int {
	switch {
	case selected == NoSelection:
		return NoSelection
	case selected == from:
		return to
	case from < selected && to >= selected:
		return selected - 1
	case from > selected && to <= selected:
		return selected + 1
	}
	return selected
}

// IndexOf returns the position of the question with the given id, or -1.
func IndexOf(qs []model.Question, id string) int {
	for i, q := range qs {
		if q.ID == id {
			return i
		}
	}
	return -1
}
