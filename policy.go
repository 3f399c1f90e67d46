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

import "math/bits"

// GrowthPolicy decides the capacity of the slot table and how a hash value is
// mapped to a bucket within it. Implementations must be stateless: every
// method is a pure function of its arguments. The policy is consulted on
// every operation so implementations should be cheap.
//
// Only BitwiseGrowth is provided, but the interface is the extension point
// for alternative sizing schemes (e.g. prime-modulus capacities).
type GrowthPolicy interface {
	// Bucket maps a hash value to a slot index in [0, capacity).
	Bucket(hash uint64, capacity int) int
	// NextCapacity returns the capacity to grow to from capacity.
	NextCapacity(capacity int) int
	// MinCapacity returns the smallest capacity the slot table may have.
	MinCapacity() int
	// MaxCapacity returns the largest capacity the slot table may have.
	MaxCapacity() int
}

// ProbeStrategy decides the order in which candidate slots are visited when
// resolving a bucket's collisions, and the load factor at which the table
// grows. The strategy only supplies the ordering; what "found" or "stop"
// means is up to the caller walking the sequence, which keeps one ordering
// reusable for lookup, insertion-point discovery, and deletion repair.
type ProbeStrategy interface {
	// Next returns the slot visited after slot i. The sequence starting at
	// any bucket must be a full cyclic permutation of [0, capacity).
	Next(i, capacity int) int
	// Offset returns the position of slot i within the probe sequence that
	// starts at bucket, i.e. the number of steps from bucket to i.
	Offset(bucket, i, capacity int) int
	// Threshold returns the load factor, in (0,1), above which the table
	// grows.
	Threshold() float64
}

const (
	minCapacity      = 8
	defaultThreshold = 0.75
)

// BitwiseGrowth is the power-of-two growth policy: buckets are the low bits
// of the hash and growth doubles the capacity. It is the only GrowthPolicy
// compatible with capacities that are powers of two, which the bucket mask
// requires.
type BitwiseGrowth struct{}

func (BitwiseGrowth) Bucket(hash uint64, capacity int) int {
	return int(hash & uint64(capacity-1))
}

func (BitwiseGrowth) NextCapacity(capacity int) int {
	return capacity << 1
}

func (BitwiseGrowth) MinCapacity() int {
	return minCapacity
}

func (BitwiseGrowth) MaxCapacity() int {
	// The largest power of two an int can hold.
	return 1 << (bits.UintSize - 2)
}

// LinearProbing visits slots in circular order: bucket, bucket+1, ...,
// capacity-1, 0, ..., bucket-1. Backward-shift deletion (see table.go)
// depends on this ordering. Like BitwiseGrowth, LinearProbing requires the
// capacity to be a power of two; pairing it with a growth policy that sizes
// tables otherwise produces wrong probe sequences.
type LinearProbing struct{}

func (LinearProbing) Next(i, capacity int) int {
	return (i + 1) & (capacity - 1)
}

func (LinearProbing) Offset(bucket, i, capacity int) int {
	return (i - bucket) & (capacity - 1)
}

func (LinearProbing) Threshold() float64 {
	return defaultThreshold
}
