// Package history provides the committed element store: an ordered element
// list versioned as a linear stack of immutable snapshots with a cursor.
package history

import (
	"sketchpad/internal/element"
)

// Store holds the committed element list and its snapshot history. A new
// store starts with a single empty snapshot so the cursor always indexes a
// valid state. Undo and redo at the stack boundaries are silent no-ops.
type Store struct {
	snapshots [][]element.Element
	cursor    int
}

// NewStore creates a store containing one empty snapshot.
func NewStore() *Store {
	return &Store{snapshots: [][]element.Element{nil}}
}

// Current returns the live committed list. Callers must not mutate the
// returned elements; use Commit with a new list instead.
func (s *Store) Current() []element.Element {
	return s.snapshots[s.cursor]
}

// Commit discards any redo tail, appends a deep copy of the list as a new
// snapshot, and advances the cursor to it.
func (s *Store) Commit(list []element.Element) {
	s.snapshots = append(s.snapshots[:s.cursor+1], element.CloneList(list))
	s.cursor = len(s.snapshots) - 1
}

// Undo steps the cursor back one snapshot. No-op at the first snapshot.
func (s *Store) Undo() {
	if s.cursor > 0 {
		s.cursor--
	}
}

// Redo steps the cursor forward one snapshot. No-op at the last snapshot.
func (s *Store) Redo() {
	if s.cursor < len(s.snapshots)-1 {
		s.cursor++
	}
}

// Clear commits an empty list, preserving the prior history for undo.
func (s *Store) Clear() {
	s.Commit(nil)
}

// CanUndo reports whether an undo would change the live list.
func (s *Store) CanUndo() bool {
	return s.cursor > 0
}

// CanRedo reports whether a redo would change the live list.
func (s *Store) CanRedo() bool {
	return s.cursor < len(s.snapshots)-1
}

// Len returns the number of snapshots, including the initial empty one.
func (s *Store) Len() int {
	return len(s.snapshots)
}
