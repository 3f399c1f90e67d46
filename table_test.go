// Copyright 2026 The Discrete Map Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package discretemap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// buildTable populates a fresh table from explicit (slot, dense) pairs.
func buildTable(capacity int, entries map[int]int) table {
	t := makeTable(capacity)
	for s, d := range entries {
		t.set(s, d)
	}
	return t
}

func TestSeek(t *testing.T) {
	// Cluster at buckets 2..4 referencing dense positions 10, 11, 12.
	tbl := buildTable(8, map[int]int{2: 10, 3: 11, 4: 12})
	probe := LinearProbing{}

	matchDense := func(want int) func(int) bool {
		return func(d int) bool { return d == want }
	}

	// A match mid-cluster stops at its slot.
	s, d, ok := tbl.seek(2, probe, matchDense(11))
	require.True(t, ok)
	require.EqualValues(t, 3, s)
	require.EqualValues(t, 11, d)

	// No match walks to the empty slot terminating the cluster; the returned
	// slot is the insertion point.
	s, d, ok = tbl.seek(2, probe, matchDense(99))
	require.False(t, ok)
	require.EqualValues(t, 5, s)
	require.EqualValues(t, emptySlot, d)

	// Starting at an empty slot stops immediately.
	s, _, ok = tbl.seek(6, probe, matchDense(10))
	require.False(t, ok)
	require.EqualValues(t, 6, s)
}

func TestSeekWrapsAround(t *testing.T) {
	tbl := buildTable(8, map[int]int{6: 0, 7: 1, 0: 2})
	probe := LinearProbing{}

	s, d, ok := tbl.seek(6, probe, func(d int) bool { return d == 2 })
	require.True(t, ok)
	require.EqualValues(t, 0, s)
	require.EqualValues(t, 2, d)

	s, _, ok = tbl.seek(6, probe, func(int) bool { return false })
	require.False(t, ok)
	require.EqualValues(t, 1, s)
}

func TestSeekFullTablePanics(t *testing.T) {
	tbl := makeTable(8)
	for s := range tbl.slots {
		tbl.set(s, s)
	}
	require.Panics(t, func() {
		tbl.seek(0, LinearProbing{}, func(int) bool { return false })
	})
}

// removeScenario runs table.remove over a hand-built cluster. buckets maps a
// dense position to its natural bucket; relocations are recorded in order.
func removeScenario(capacity, s0 int, entries, buckets map[int]int) (table, [][2]int) {
	tbl := buildTable(capacity, entries)
	var relocated [][2]int
	tbl.remove(s0, LinearProbing{}, func(d int) int {
		return buckets[d]
	}, func(d, s int) {
		relocated = append(relocated, [2]int{d, s})
	})
	return tbl, relocated
}

func TestRemoveShiftsChain(t *testing.T) {
	// Three entries all hashing to bucket 2, occupying slots 2, 3, 4.
	// Removing the head shifts both followers back by one.
	tbl, relocated := removeScenario(8, 2,
		map[int]int{2: 0, 3: 1, 4: 2},
		map[int]int{0: 2, 1: 2, 2: 2})

	require.EqualValues(t, 1, tbl.slots[2])
	require.EqualValues(t, 2, tbl.slots[3])
	require.EqualValues(t, emptySlot, tbl.slots[4])
	require.Equal(t, [][2]int{{1, 2}, {2, 3}}, relocated)
}

func TestRemoveRespectsOwnBucket(t *testing.T) {
	// The entry after the hole sits in its own natural bucket; moving it
	// into the hole would skip it past that bucket, so it must stay put and
	// the scan must continue to the entry behind it.
	tbl, relocated := removeScenario(8, 2,
		map[int]int{2: 0, 3: 1, 4: 2},
		map[int]int{0: 2, 1: 3, 2: 2})

	// Dense 1 stays in its bucket at slot 3; dense 2 (bucket 2) jumps the
	// stationary entry into the hole at slot 2.
	require.EqualValues(t, 2, tbl.slots[2])
	require.EqualValues(t, 1, tbl.slots[3])
	require.EqualValues(t, emptySlot, tbl.slots[4])
	require.Equal(t, [][2]int{{2, 2}}, relocated)
}

func TestRemoveStopsAtEmpty(t *testing.T) {
	// An empty slot immediately after the hole means nothing can have probed
	// through it; no repair is needed.
	tbl, relocated := removeScenario(8, 2,
		map[int]int{2: 0, 4: 1},
		map[int]int{0: 2, 1: 4})

	require.EqualValues(t, emptySlot, tbl.slots[2])
	require.EqualValues(t, 1, tbl.slots[4])
	require.Empty(t, relocated)
}

func TestRemoveWrapsAround(t *testing.T) {
	// A cluster spanning the wrap: bucket 6 entries at slots 6, 7, 0.
	// Removing the head shifts the followers across the boundary.
	tbl, relocated := removeScenario(8, 6,
		map[int]int{6: 0, 7: 1, 0: 2},
		map[int]int{0: 6, 1: 6, 2: 6})

	require.EqualValues(t, 1, tbl.slots[6])
	require.EqualValues(t, 2, tbl.slots[7])
	require.EqualValues(t, emptySlot, tbl.slots[0])
	require.Equal(t, [][2]int{{1, 6}, {2, 7}}, relocated)
}

func TestRemoveMigratesHole(t *testing.T) {
	// After a move, the hole continues migrating from the moved entry's old
	// slot: removing slot 1 with a long mixed cluster exercises repeated
	// moves separated by stationary entries.
	//
	// Layout: slots 1..5 hold dense 0..4; buckets: d0->1, d1->2, d2->1,
	// d3->4, d4->1.
	tbl, relocated := removeScenario(8, 1,
		map[int]int{1: 0, 2: 1, 3: 2, 4: 3, 5: 4},
		map[int]int{0: 1, 1: 2, 2: 1, 3: 4, 4: 1})

	// d1 sits at its own bucket so it stays; d2 (bucket 1) moves into the
	// hole at slot 1 and the hole migrates to slot 3. d3 likewise stays at
	// its bucket; d4 (bucket 1) moves into slot 3 and the hole ends at 5.
	require.EqualValues(t, 2, tbl.slots[1])
	require.EqualValues(t, 1, tbl.slots[2])
	require.EqualValues(t, 4, tbl.slots[3])
	require.EqualValues(t, 3, tbl.slots[4])
	require.EqualValues(t, emptySlot, tbl.slots[5])
	require.Equal(t, [][2]int{{2, 1}, {4, 3}}, relocated)
}
