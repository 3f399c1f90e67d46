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

// dense holds the live entries as two parallel, insertion-ordered sequences,
// plus the reverse mapping from each dense position to the slot that
// currently references it. The reverse mapping is what makes erase O(1) on
// the slot-table side: given a dense position we can reach its slot without
// probing.
//
// Invariant: len(keys) == len(values) == len(slotOf), and for every dense
// position d, the slot table has slots[slotOf[d]] == d.
type dense[K comparable, V any] struct {
	keys   []K
	values []V
	slotOf []int
}

func (ds *dense[K, V]) len() int {
	return len(ds.keys)
}

// append adds an entry referenced by slot s and returns its dense position.
func (ds *dense[K, V]) append(key K, value V, s int) int {
	d := len(ds.keys)
	ds.keys = append(ds.keys, key)
	ds.values = append(ds.values, value)
	ds.slotOf = append(ds.slotOf, s)
	return d
}

// removeAt erases dense position d while preserving the insertion order of
// the remaining entries. Every entry past d shifts down by one, so every
// slot referencing a shifted entry must have its stored dense index
// decremented; shifted reports each such slot to the caller. Forgetting that
// reindexing step leaves the slot table pointing one past every shifted
// entry, which is the classic stale-index bug this method exists to avoid.
func (ds *dense[K, V]) removeAt(d int, shifted func(s int)) {
	last := len(ds.keys) - 1
	copy(ds.keys[d:], ds.keys[d+1:])
	copy(ds.values[d:], ds.values[d+1:])
	copy(ds.slotOf[d:], ds.slotOf[d+1:])
	ds.truncate(last)
	for i := d; i < last; i++ {
		shifted(ds.slotOf[i])
	}
}

// swapRemoveAt erases dense position d in O(1) by moving the last entry into
// its place, sacrificing insertion order. If an entry moved, moved is
// invoked with its referencing slot and new dense position so the caller can
// update the slot table.
func (ds *dense[K, V]) swapRemoveAt(d int, moved func(s, newD int)) {
	last := len(ds.keys) - 1
	if d != last {
		ds.keys[d] = ds.keys[last]
		ds.values[d] = ds.values[last]
		ds.slotOf[d] = ds.slotOf[last]
		moved(ds.slotOf[d], d)
	}
	ds.truncate(last)
}

func (ds *dense[K, V]) truncate(n int) {
	// Zero the tail so the truncated entries do not pin memory.
	var zeroK K
	var zeroV V
	for i := n; i < len(ds.keys); i++ {
		ds.keys[i] = zeroK
		ds.values[i] = zeroV
	}
	ds.keys = ds.keys[:n]
	ds.values = ds.values[:n]
	ds.slotOf = ds.slotOf[:n]
}
