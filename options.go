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

import "hash/maphash"

// Option provides an interface to do work on Map while it is being created.
type Option[K comparable, V any] interface {
	apply(m *Map[K, V])
}

type hashOption[K comparable, V any] struct {
	hash func(key K, seed maphash.Seed) uint64
}

func (op hashOption[K, V]) apply(m *Map[K, V]) {
	m.hash = op.hash
}

// WithHash is an option to specify the hash function to use for a Map[K,V].
// The default is hash/maphash's hash for comparable types. A caller-supplied
// hash must be consistent with the map's equality function: equal keys must
// hash identically.
func WithHash[K comparable, V any](hash func(key K, seed maphash.Seed) uint64) Option[K, V] {
	return hashOption[K, V]{hash}
}

type equalOption[K comparable, V any] struct {
	equal func(a, b K) bool
}

func (op equalOption[K, V]) apply(m *Map[K, V]) {
	m.equal = op.equal
}

// WithEqual is an option to specify the key equality predicate for a
// Map[K,V]. The default is ==. A caller-supplied predicate must be
// consistent with the map's hash function: equal keys must hash identically.
func WithEqual[K comparable, V any](equal func(a, b K) bool) Option[K, V] {
	return equalOption[K, V]{equal}
}

type growthPolicyOption[K comparable, V any] struct {
	policy GrowthPolicy
}

func (op growthPolicyOption[K, V]) apply(m *Map[K, V]) {
	m.policy = op.policy
}

// WithGrowthPolicy is an option to substitute the capacity sizing and
// hash-to-bucket mapping of a Map[K,V]. The default is BitwiseGrowth.
func WithGrowthPolicy[K comparable, V any](policy GrowthPolicy) Option[K, V] {
	return growthPolicyOption[K, V]{policy}
}

type probeStrategyOption[K comparable, V any] struct {
	probe ProbeStrategy
}

func (op probeStrategyOption[K, V]) apply(m *Map[K, V]) {
	m.probe = op.probe
}

// WithProbeStrategy is an option to substitute the collision resolution
// order and growth threshold of a Map[K,V]. The default is LinearProbing.
func WithProbeStrategy[K comparable, V any](probe ProbeStrategy) Option[K, V] {
	return probeStrategyOption[K, V]{probe}
}
