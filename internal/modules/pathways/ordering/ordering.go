// Package ordering holds the pure sequencing rules for pathway steps.
//
// Positions are 1-based. Canonical order is (position ASC, updated_at DESC,
// id ASC): when two steps claim the same slot, the one written last keeps it
// and the other is pushed behind it.
package ordering

import (
	"bytes"
	"sort"
	"time"

	"github.com/google/uuid"
)

type Item struct {
	ID        uuid.UUID
	Position  int
	UpdatedAt time.Time
}

// Move is a position change the caller must persist.
type Move struct {
	ID   uuid.UUID
	From int
	To   int
}

func less(a, b Item) bool {
	if a.Position != b.Position {
		return a.Position < b.Position
	}
	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.UpdatedAt.After(b.UpdatedAt)
	}
	return bytes.Compare(a.ID[:], b.ID[:]) < 0
}

// Canonical returns a sorted copy of items.
func Canonical(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// Resequence assigns positions 1..N in canonical order and returns only the
// items whose position differs from what they hold now. Applying the moves
// and calling Resequence again yields no moves.
func Resequence(items []Item) []Move {
	var moves []Move
	for i, it := range Canonical(items) {
		want := i + 1
		if it.Position != want {
			moves = append(moves, Move{ID: it.ID, From: it.Position, To: want})
		}
	}
	return moves
}

// Apply returns items with moves applied.
func Apply(items []Item, moves []Move) []Item {
	to := make(map[uuid.UUID]int, len(moves))
	for _, m := range moves {
		to[m.ID] = m.To
	}
	out := make([]Item, len(items))
	for i, it := range items {
		if p, ok := to[it.ID]; ok {
			it.Position = p
		}
		out[i] = it
	}
	return out
}

// InsertSlot is where a new step lands in a pathway that currently has n
// steps. Zero, negative or past-the-end requests append.
func InsertSlot(requested, n int) int {
	if requested <= 0 || requested > n+1 {
		return n + 1
	}
	return requested
}

// Shift describes a contiguous block of positions [Lo, Hi] that must move by
// Delta to open a slot.
type Shift struct {
	Lo, Hi, Delta int
}

func (s Shift) Empty() bool { return s.Delta == 0 || s.Lo > s.Hi }

// MoveSlot computes the target slot and the neighbour shift for moving a step
// from position from to requested, in a pathway of n steps.
func MoveSlot(from, requested, n int) (int, Shift) {
	to := requested
	if to <= 0 {
		return from, Shift{}
	}
	if to > n {
		to = n
	}
	switch {
	case to < from:
		return to, Shift{Lo: to, Hi: from - 1, Delta: 1}
	case to > from:
		return to, Shift{Lo: from + 1, Hi: to, Delta: -1}
	default:
		return to, Shift{}
	}
}
