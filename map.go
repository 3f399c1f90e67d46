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

// Package discretemap implements a hash table whose collision-resolution
// structure is kept discrete from its entry storage.
//
// # Discrete maps
//
// A discrete map is an open-addressing hash table split into two parts. The
// slot table is an array of optional dense indices: the hash of a key selects
// a bucket in the slot table and linear probing from that bucket resolves
// collisions, exactly as in a conventional open-addressing table, except that
// a slot never holds a key or a value, only the index of an entry. The dense
// storage holds the entries themselves as two parallel, contiguous sequences
// of keys and values, in insertion order. Lookup is therefore a probe walk
// over small integers followed by a single indexed load, and iteration is a
// linear scan of two plain slices with no empty slots to skip.
//
// The split buys two properties that a conventional layout cannot offer at
// the same time. First, iteration order is insertion order and is stable
// across growth: rehashing rebuilds only the slot table and never reorders
// the dense sequences. Second, the dense sequences can be exposed to callers
// (Keys, Values) without revealing anything about probing or capacity.
//
// # Probing and deletion
//
// The slot table uses pure linear probing over a power-of-two capacity:
// probing visits bucket, bucket+1, ..., wrapping at the end of the table, and
// a lookup stops at the first empty slot. Capacity doubles before an insert
// would push the load factor above the threshold (0.75 by default), so a
// probe always terminates at an empty slot.
//
// Deletion uses backward shifting rather than tombstones. Clearing a slot in
// a linear-probing table can cut the probe chain of every entry that had to
// walk through that slot, leaving live entries unreachable behind the hole.
// Backward-shift deletion repairs the chain at erase time: entries after the
// hole are moved into it when the move does not carry them before their own
// bucket, and the hole migrates forward until the chain's terminating empty
// slot is reached. The table consequently never accumulates tombstones and
// lookups never pay for prior deletions.
//
// Erasing an entry also compacts the dense storage. The ordered erase
// (Delete) shifts the tail of the sequences down by one, preserving
// insertion order at O(n) cost; a constant-time alternative
// (DeleteUnordered) swaps the last entry into the vacated position,
// surrendering order. Both rely on a reverse mapping from dense positions to
// slots so the slot table can be fixed up without probing.
//
// # Caveats
//
// The sizing and ordering decisions are pluggable (GrowthPolicy,
// ProbeStrategy) but only the bitwise/linear defaults are provided. A Map is
// NOT goroutine-safe: mutating operations require exclusive access, matching
// the sharing discipline of Go's builtin map. This package favors being
// demonstrably correct about open-addressing deletion and resizing over
// competing with heavily tuned tables such as the runtime map.
package discretemap

import (
	"errors"
	"fmt"
	"hash/maphash"
	"strings"
)

const debug = false

// ErrNotFound is returned by At for keys that are not present.
var ErrNotFound = errors.New("discretemap: key not found")

// Map is an insertion-ordered map from keys to values built on a slot table
// for collision resolution and dense storage for the entries. By default a
// Map[K,V] hashes with hash/maphash and compares keys with ==; both are
// configurable with the WithHash and WithEqual options.
//
// A Map is NOT goroutine-safe.
type Map[K comparable, V any] struct {
	// The hash function applied to keys of type K, with the map's seed.
	hash func(key K, seed maphash.Seed) uint64
	// The key equality predicate. Must agree with hash on equal keys.
	equal func(a, b K) bool
	seed  maphash.Seed
	// policy sizes the slot table and maps hashes to buckets; probe orders
	// the collision scan and owns the growth threshold.
	policy GrowthPolicy
	probe  ProbeStrategy
	table  table
	dense  dense[K, V]
}

// New constructs a Map with capacity for at least initialCapacity entries
// without growing. The zero value for a Map is not usable.
func New[K comparable, V any](initialCapacity int, options ...Option[K, V]) *Map[K, V] {
	m := &Map[K, V]{
		hash: func(key K, seed maphash.Seed) uint64 {
			return maphash.Comparable(seed, key)
		},
		equal:  func(a, b K) bool { return a == b },
		seed:   maphash.MakeSeed(),
		policy: BitwiseGrowth{},
		probe:  LinearProbing{},
	}
	for _, op := range options {
		op.apply(m)
	}

	capacity := m.policy.MinCapacity()
	for m.overloaded(initialCapacity, capacity) {
		capacity = m.grownCapacity(capacity)
	}
	m.table = makeTable(capacity)
	m.checkInvariants()
	return m
}

// Insert adds an entry to the map if the key is not already present and
// reports the entry's dense position. If the key is present the existing
// value is left unchanged and inserted is false; use Assign to overwrite.
func (m *Map[K, V]) Insert(key K, value V) (d int, inserted bool) {
	s, d, ok := m.findSlot(key)
	if ok {
		return d, false
	}
	return m.insertAt(s, key, value), true
}

// Assign sets the value for key, overwriting any existing value, and returns
// the entry's dense position.
func (m *Map[K, V]) Assign(key K, value V) int {
	s, d, ok := m.findSlot(key)
	if ok {
		m.dense.values[d] = value
		return d
	}
	return m.insertAt(s, key, value)
}

// insertAt commits a key known to be absent, using the empty slot s
// discovered by the probe that established absence. Growth invalidates s, in
// which case the insertion point is rediscovered under the new capacity.
func (m *Map[K, V]) insertAt(s int, key K, value V) int {
	if m.overloaded(m.dense.len()+1, m.table.capacity()) {
		m.resize(m.grownCapacity(m.table.capacity()))
		s, _, _ = m.findSlot(key)
	}
	d := m.dense.append(key, value, s)
	m.table.set(s, d)
	if debug {
		fmt.Printf("insert(%v): slot=%d dense=%d len=%d/%d\n",
			key, s, d, m.dense.len(), m.table.capacity())
	}
	m.checkInvariants()
	return d
}

// Get retrieves the value for the specified key, returning ok=false if the
// key is not present.
func (m *Map[K, V]) Get(key K) (value V, ok bool) {
	_, d, ok := m.findSlot(key)
	if !ok {
		return value, false
	}
	return m.dense.values[d], true
}

// Find returns the dense position of the entry for key, or ok=false if the
// key is not present. Dense positions index into Keys and Values and remain
// valid until the next ordered erase or Clear.
func (m *Map[K, V]) Find(key K) (d int, ok bool) {
	_, d, ok = m.findSlot(key)
	return d, ok
}

// At retrieves the value for the specified key, returning ErrNotFound if the
// key is not present. It is the present-or-fail counterpart of Get for
// callers that treat absence as a failure rather than a routine outcome.
func (m *Map[K, V]) At(key K) (V, error) {
	value, ok := m.Get(key)
	if !ok {
		return value, ErrNotFound
	}
	return value, nil
}

// GetOrInsert returns a pointer to the value for key, inserting a zero value
// if the key is not present. The pointer aliases the map's dense storage: it
// is valid for reading and writing until the next mutating operation.
func (m *Map[K, V]) GetOrInsert(key K) *V {
	var zero V
	d, _ := m.Insert(key, zero)
	return &m.dense.values[d]
}

// Delete removes the entry for key, preserving the insertion order of the
// remaining entries, and reports whether an entry was removed. Deleting an
// absent key is a no-op.
//
// Delete shifts every dense position after the removed entry down by one,
// which is O(n) in the number of entries that follow it. DeleteUnordered is
// the O(1) alternative for callers that do not need insertion order.
func (m *Map[K, V]) Delete(key K) bool {
	s, d, ok := m.findSlot(key)
	if !ok {
		return false
	}
	if debug {
		fmt.Printf("delete(%v): slot=%d dense=%d\n", key, s, d)
	}
	m.table.remove(s, m.probe, m.denseBucket, func(d2, s2 int) {
		m.dense.slotOf[d2] = s2
	})
	m.dense.removeAt(d, func(s2 int) {
		m.table.slots[s2]--
	})
	m.checkInvariants()
	return true
}

// DeleteUnordered removes the entry for key in O(1) by moving the last
// entry, in dense order, into the removed entry's position. It reports
// whether an entry was removed. Unlike Delete it does not preserve insertion
// order.
func (m *Map[K, V]) DeleteUnordered(key K) bool {
	s, d, ok := m.findSlot(key)
	if !ok {
		return false
	}
	m.table.remove(s, m.probe, m.denseBucket, func(d2, s2 int) {
		m.dense.slotOf[d2] = s2
	})
	m.dense.swapRemoveAt(d, func(s2, newD int) {
		m.table.set(s2, newD)
	})
	m.checkInvariants()
	return true
}

// Rehash grows the slot table to hold at least capacity slots, rounded up to
// the growth policy's sizing. It is a no-op if the map's capacity is already
// sufficient; a Map never shrinks. Iteration order is unaffected.
func (m *Map[K, V]) Rehash(capacity int) {
	target := m.normalizedCapacity(capacity)
	if target <= m.table.capacity() {
		return
	}
	m.resize(target)
	m.checkInvariants()
}

// Len returns the number of entries in the map.
func (m *Map[K, V]) Len() int {
	return m.dense.len()
}

// Empty reports whether the map has no entries.
func (m *Map[K, V]) Empty() bool {
	return m.dense.len() == 0
}

// Cap returns the current slot-table capacity.
func (m *Map[K, V]) Cap() int {
	return m.table.capacity()
}

// MaxLen returns the largest number of entries the map can hold at the
// growth policy's maximum capacity without exceeding the load threshold.
func (m *Map[K, V]) MaxLen() int {
	return int(m.probe.Threshold() * float64(m.policy.MaxCapacity()))
}

// LoadFactor returns the ratio of entries to slot-table capacity.
func (m *Map[K, V]) LoadFactor() float64 {
	return float64(m.dense.len()) / float64(m.table.capacity())
}

// All calls yield sequentially for each key and value present in the map, in
// dense order, which is insertion order unless DeleteUnordered has been
// used. If yield returns false, iteration stops. The map must not be mutated
// during iteration.
func (m *Map[K, V]) All(yield func(key K, value V) bool) {
	for d := range m.dense.keys {
		if !yield(m.dense.keys[d], m.dense.values[d]) {
			return
		}
	}
}

// Keys returns the keys in dense order. The returned slice aliases the map's
// storage: it must not be modified, and it is valid until the next mutating
// operation.
func (m *Map[K, V]) Keys() []K {
	return m.dense.keys
}

// Values returns the values in dense order, parallel to Keys. The returned
// slice aliases the map's storage: it must not be modified, and it is valid
// until the next mutating operation.
func (m *Map[K, V]) Values() []V {
	return m.dense.values
}

// Clear removes all entries from the map, retaining its current capacity.
func (m *Map[K, V]) Clear() {
	for i := range m.table.slots {
		m.table.slots[i] = emptySlot
	}
	m.dense.truncate(0)
	m.checkInvariants()
}

// findSlot probes for key, returning its slot and dense position if present.
// If absent, the returned slot is the empty slot that terminated the probe,
// which is where an insertion of key belongs.
func (m *Map[K, V]) findSlot(key K) (s, d int, ok bool) {
	b := m.policy.Bucket(m.hash(key, m.seed), m.table.capacity())
	return m.table.seek(b, m.probe, func(d int) bool {
		return m.equal(key, m.dense.keys[d])
	})
}

// denseBucket returns the natural bucket of the entry at dense position d
// under the current capacity.
func (m *Map[K, V]) denseBucket(d int) int {
	return m.policy.Bucket(m.hash(m.dense.keys[d], m.seed), m.table.capacity())
}

// overloaded reports whether n entries would push the load factor of a table
// of the given capacity strictly above the threshold. The load factor may
// land exactly on the threshold; growth happens before it is exceeded.
func (m *Map[K, V]) overloaded(n, capacity int) bool {
	return float64(n) > m.probe.Threshold()*float64(capacity)
}

// grownCapacity returns the policy's next capacity, with exhaustion of the
// policy's range treated as fatal (allocation at such sizes cannot succeed
// anyway).
func (m *Map[K, V]) grownCapacity(capacity int) int {
	if capacity >= m.policy.MaxCapacity() {
		panic(fmt.Sprintf("discretemap: capacity %d cannot grow beyond the policy maximum %d",
			capacity, m.policy.MaxCapacity()))
	}
	return m.policy.NextCapacity(capacity)
}

// normalizedCapacity rounds a requested capacity up to the growth policy's
// sizing sequence.
func (m *Map[K, V]) normalizedCapacity(capacity int) int {
	c := m.policy.MinCapacity()
	for c < capacity {
		c = m.grownCapacity(c)
	}
	return c
}

// resize replaces the slot table with one of newCapacity slots, reinserting
// every live dense position in dense order via insertion-point discovery.
// Dense order keeps iteration order independent of growth history; discovery
// rather than lookup suffices because the dense keys contain no duplicates.
// The new table only becomes the map's table once fully built.
func (m *Map[K, V]) resize(newCapacity int) {
	if debug {
		fmt.Printf("resize: capacity=%d->%d len=%d\n",
			m.table.capacity(), newCapacity, m.dense.len())
	}
	nt := makeTable(newCapacity)
	for d := 0; d < m.dense.len(); d++ {
		b := m.policy.Bucket(m.hash(m.dense.keys[d], m.seed), newCapacity)
		s, _, _ := nt.seek(b, m.probe, func(int) bool { return false })
		nt.set(s, d)
		m.dense.slotOf[d] = s
	}
	m.table = nt
}

func (m *Map[K, V]) checkInvariants() {
	if !invariants {
		return
	}

	capacity := m.table.capacity()
	if capacity < m.policy.MinCapacity() || capacity&(capacity-1) != 0 {
		panic(fmt.Sprintf("invariant failed: capacity %d is not a power of two >= %d\n%s",
			capacity, m.policy.MinCapacity(), m.debugString()))
	}
	if m.overloaded(m.dense.len(), capacity) {
		panic(fmt.Sprintf("invariant failed: load factor %f exceeds threshold %f\n%s",
			m.LoadFactor(), m.probe.Threshold(), m.debugString()))
	}
	if len(m.dense.keys) != len(m.dense.values) || len(m.dense.keys) != len(m.dense.slotOf) {
		panic(fmt.Sprintf("invariant failed: dense sequences diverge: keys=%d values=%d slotOf=%d",
			len(m.dense.keys), len(m.dense.values), len(m.dense.slotOf)))
	}

	// Count the occupied slots and verify each references a live dense
	// position whose reverse mapping points back at it.
	var occupied int
	for s, d := range m.table.slots {
		if d == emptySlot {
			continue
		}
		occupied++
		if d < 0 || d >= m.dense.len() {
			panic(fmt.Sprintf("invariant failed: slot %d references dense position %d of %d\n%s",
				s, d, m.dense.len(), m.debugString()))
		}
		if m.dense.slotOf[d] != s {
			panic(fmt.Sprintf("invariant failed: slot %d references dense position %d, but slotOf[%d]=%d\n%s",
				s, d, d, m.dense.slotOf[d], m.debugString()))
		}
	}
	if occupied != m.dense.len() {
		panic(fmt.Sprintf("invariant failed: %d occupied slots for %d entries\n%s",
			occupied, m.dense.len(), m.debugString()))
	}

	// Every entry must be reachable by probing from its bucket before any
	// empty slot. findSlot stops at the first empty slot, so reachability is
	// exactly "findSlot finds it".
	for d := range m.dense.keys {
		if _, found, ok := m.findSlot(m.dense.keys[d]); !ok || found != d {
			panic(fmt.Sprintf("invariant failed: dense position %d (%v) not reachable from its bucket\n%s",
				d, m.dense.keys[d], m.debugString()))
		}
	}
}

func (m *Map[K, V]) debugString() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "capacity=%d len=%d\n", m.table.capacity(), m.dense.len())
	for s, d := range m.table.slots {
		if d == emptySlot {
			fmt.Fprintf(&buf, "  %4d: empty\n", s)
			continue
		}
		if d >= 0 && d < m.dense.len() {
			fmt.Fprintf(&buf, "  %4d: dense=%d key=%v bucket=%d\n", s, d, m.dense.keys[d], m.denseBucket(d))
		} else {
			fmt.Fprintf(&buf, "  %4d: dense=%d (out of range)\n", s, d)
		}
	}
	return buf.String()
}
