package ordering

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func positions(items []Item) []int {
	out := make([]int, 0, len(items))
	for _, it := range Canonical(items) {
		out = append(out, it.Position)
	}
	return out
}

func requireContiguous(t *testing.T, items []Item) {
	t.Helper()
	for i, p := range positions(items) {
		require.Equal(t, i+1, p, "positions=%v", positions(items))
	}
}

func TestResequenceEmptyIsNoop(t *testing.T) {
	require.Empty(t, Resequence(nil))
}

func TestResequenceSkipsCorrectSteps(t *testing.T) {
	base := time.Now()
	items := []Item{
		{ID: uuid.New(), Position: 1, UpdatedAt: base},
		{ID: uuid.New(), Position: 2, UpdatedAt: base},
		{ID: uuid.New(), Position: 5, UpdatedAt: base},
	}
	moves := Resequence(items)
	require.Len(t, moves, 1)
	require.Equal(t, items[2].ID, moves[0].ID)
	require.Equal(t, 5, moves[0].From)
	require.Equal(t, 3, moves[0].To)
}

func TestResequenceContestedSlotGoesToNewestWrite(t *testing.T) {
	base := time.Now()
	older := Item{ID: uuid.New(), Position: 2, UpdatedAt: base}
	newer := Item{ID: uuid.New(), Position: 2, UpdatedAt: base.Add(time.Second)}
	first := Item{ID: uuid.New(), Position: 1, UpdatedAt: base}

	after := Apply([]Item{older, first, newer}, Resequence([]Item{older, first, newer}))
	got := map[uuid.UUID]int{}
	for _, it := range after {
		got[it.ID] = it.Position
	}
	require.Equal(t, 1, got[first.ID])
	require.Equal(t, 2, got[newer.ID])
	require.Equal(t, 3, got[older.ID])
}

func TestResequenceIsIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	base := time.Now()
	for round := 0; round < 50; round++ {
		n := rng.Intn(12)
		items := make([]Item, n)
		for i := range items {
			items[i] = Item{
				ID:        uuid.New(),
				Position:  rng.Intn(8) - 1,
				UpdatedAt: base.Add(time.Duration(rng.Intn(5)) * time.Second),
			}
		}
		once := Apply(items, Resequence(items))
		requireContiguous(t, once)
		require.Empty(t, Resequence(once), "second pass must not move anything")
	}
}

func TestCreateInAnyOrderStaysContiguous(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	var items []Item
	clock := time.Now()
	for i := 0; i < 20; i++ {
		clock = clock.Add(time.Millisecond)
		slot := InsertSlot(rng.Intn(len(items)+3)-1, len(items))
		for j := range items {
			if items[j].Position >= slot {
				items[j].Position++
			}
		}
		items = append(items, Item{ID: uuid.New(), Position: slot, UpdatedAt: clock})
		items = Apply(items, Resequence(items))
		requireContiguous(t, items)
	}
	require.Len(t, items, 20)
}

func TestDeleteFromMiddleClosesGap(t *testing.T) {
	base := time.Now()
	items := make([]Item, 5)
	for i := range items {
		items[i] = Item{ID: uuid.New(), Position: i + 1, UpdatedAt: base}
	}
	rest := append(append([]Item{}, items[:2]...), items[3:]...)
	rest = Apply(rest, Resequence(rest))
	require.Len(t, rest, 4)
	requireContiguous(t, rest)
	require.Equal(t, items[3].ID, Canonical(rest)[2].ID)
}

func TestInsertSlot(t *testing.T) {
	require.Equal(t, 4, InsertSlot(0, 3))
	require.Equal(t, 4, InsertSlot(-2, 3))
	require.Equal(t, 4, InsertSlot(9, 3))
	require.Equal(t, 2, InsertSlot(2, 3))
	require.Equal(t, 1, InsertSlot(1, 0))
}

func TestMoveSlot(t *testing.T) {
	to, sh := MoveSlot(4, 2, 5)
	require.Equal(t, 2, to)
	require.Equal(t, Shift{Lo: 2, Hi: 3, Delta: 1}, sh)

	to, sh = MoveSlot(2, 5, 5)
	require.Equal(t, 5, to)
	require.Equal(t, Shift{Lo: 3, Hi: 5, Delta: -1}, sh)

	to, sh = MoveSlot(2, 9, 5)
	require.Equal(t, 5, to)
	require.Equal(t, -1, sh.Delta)

	to, sh = MoveSlot(3, 0, 5)
	require.Equal(t, 3, to)
	require.True(t, sh.Empty())

	_, sh = MoveSlot(3, 3, 5)
	require.True(t, sh.Empty())
}
