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

import "fmt"

// emptySlot marks a slot that holds no dense index.
const emptySlot = -1

// table is the open-addressing slot array. Each slot holds either emptySlot
// or the dense position of a live entry. The table never stores keys or
// values itself; collision resolution is entirely a matter of walking slot
// indices, which is what keeps it separate from the dense storage.
type table struct {
	slots []int
}

func makeTable(capacity int) table {
	t := table{slots: make([]int, capacity)}
	for i := range t.slots {
		t.slots[i] = emptySlot
	}
	return t
}

func (t *table) capacity() int {
	return len(t.slots)
}

// seek walks the probe sequence from bucket, applying match to the dense
// index of every occupied slot. It stops at the first occupied slot whose
// entry matches, returning (slot, dense, true), or at the first empty slot,
// returning (slot, -1, false). The returned empty slot is the insertion
// point for a key that hashes to bucket.
//
// The walk visiting every slot without finding an empty one means the table
// is full. Insertion grows the table before that can happen, so a full walk
// is a bug in the engine, not a caller error.
func (t *table) seek(bucket int, probe ProbeStrategy, match func(d int) bool) (s, d int, ok bool) {
	s = bucket
	for n := 0; n < len(t.slots); n++ {
		d = t.slots[s]
		if d == emptySlot {
			return s, emptySlot, false
		}
		if match(d) {
			return s, d, true
		}
		s = probe.Next(s, len(t.slots))
	}
	panic(fmt.Sprintf("discretemap: probe from bucket %d cycled through %d slots without finding an empty slot",
		bucket, len(t.slots)))
}

// set points slot s at dense position d.
func (t *table) set(s, d int) {
	t.slots[s] = d
}

// remove clears slot s0 and repairs probe-chain reachability by backward
// shifting: any entry further along the probe chain whose own bucket lies at
// or before the hole is moved into the hole, leaving a new hole at its old
// slot, until an empty slot ends the chain. Without this repair, clearing
// s0 would strand every entry that probes through s0 behind the hole,
// making it unreachable even though it is still stored.
//
// bucketFor returns the natural bucket of the entry at dense position d.
// relocated is invoked with (d, s) whenever the entry at dense position d is
// moved to slot s, so the caller can keep its reverse mapping current.
func (t *table) remove(s0 int, probe ProbeStrategy, bucketFor func(d int) int, relocated func(d, s int)) {
	capacity := len(t.slots)
	s := s0
	t.slots[s] = emptySlot
	j := probe.Next(s, capacity)
	for n := 0; n < capacity; n++ {
		d := t.slots[j]
		if d == emptySlot {
			return
		}
		// The entry at j may move into the hole at s only if doing so does
		// not skip it past its own bucket: s must lie in the cyclic probe
		// interval [b, j).
		b := bucketFor(d)
		if probe.Offset(b, s, capacity) < probe.Offset(b, j, capacity) {
			t.slots[s] = d
			relocated(d, s)
			t.slots[j] = emptySlot
			s = j
		}
		j = probe.Next(j, capacity)
	}
	panic(fmt.Sprintf("discretemap: deletion repair from slot %d cycled through %d slots without finding an empty slot",
		s0, capacity))
}
