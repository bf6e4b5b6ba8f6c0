// Copyright (c) 2023 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package exthash provides an in-memory associative container built on
// extendible hashing. A directory of 2^G slots maps the low G bits of a
// key's hash to fixed-capacity buckets; a bucket that overflows splits
// into two siblings of one greater local depth, doubling the directory
// when the overflowing bucket already distinguishes all G bits. Growth
// never rehashes the whole table, only the entries of the bucket being
// split. The intended use is the identifier-to-location index of a
// buffer pool or similar cache.
package exthash

import "fmt"

// initialGlobalDepth is the directory depth a Hash constructed with New
// starts at: four slots, each backed by its own bucket.
const initialGlobalDepth = 2

// maxGlobalDepth bounds directory growth so the signature masks stay
// well inside the hash width.
const maxGlobalDepth = 32

// Hash is an extendible-hash index from K to V, parameterized by a
// hash function and an equality function over K. The hash must have
// well-distributed low bits; for integral keys such as page
// identifiers, IdentityHash usually suffices.
//
// Hash is not safe for concurrent use. Locked provides a synchronized
// wrapper.
type Hash[K, V any] struct {
	directory   []*bucket[K, V]
	globalDepth int
	capacity    int
	length      int
	hash        func(K) uint64
	equal       func(K, K) bool
}

type bucket[K, V any] struct {
	localDepth int
	slots      []slot[K, V]
}

// A slot is empty unless occupied is set. Remove clears the whole slot
// so removed keys and values do not pin their referents.
type slot[K, V any] struct {
	key      K
	value    V
	occupied bool
}

// New returns an empty index holding at most capacity entries per
// bucket. New panics if capacity is not positive.
func New[K, V any](capacity int, hash func(K) uint64, equal func(K, K) bool) *Hash[K, V] {
	return NewWithDepth(capacity, initialGlobalDepth, hash, equal)
}

// NewWithDepth is New with an explicit initial global depth. Depth 0
// gives a single-slot directory backed by one bucket. NewWithDepth
// panics if capacity is not positive or globalDepth is outside
// [0, 32].
func NewWithDepth[K, V any](capacity, globalDepth int,
	hash func(K) uint64, equal func(K, K) bool) *Hash[K, V] {
	if capacity < 1 {
		panic(fmt.Sprintf("exthash: bucket capacity %d, need at least 1", capacity))
	}
	if globalDepth < 0 || globalDepth > maxGlobalDepth {
		panic(fmt.Sprintf("exthash: initial global depth %d outside [0, %d]",
			globalDepth, maxGlobalDepth))
	}
	h := &Hash[K, V]{
		directory:   make([]*bucket[K, V], 1<<globalDepth),
		globalDepth: globalDepth,
		capacity:    capacity,
		hash:        hash,
		equal:       equal,
	}
	// Each initial slot gets its own bucket of local depth G, so every
	// bucket starts referenced by exactly 2^(G-L) = 1 slot.
	for i := range h.directory {
		h.directory[i] = &bucket[K, V]{
			localDepth: globalDepth,
			slots:      make([]slot[K, V], capacity),
		}
	}
	return h
}

// position returns the directory slot for a hash value: its low
// globalDepth bits.
func (h *Hash[K, V]) position(hash uint64) int {
	return int(hash & (1<<h.globalDepth - 1))
}

// Find returns the value associated with k, if any.
func (h *Hash[K, V]) Find(k K) (V, bool) {
	b := h.directory[h.position(h.hash(k))]
	for i := range b.slots {
		s := &b.slots[i]
		if s.occupied && h.equal(s.key, k) {
			return s.value, true
		}
	}
	var zero V
	return zero, false
}

// Insert associates k with v, overwriting any existing value for k.
// Inserting into a full bucket splits it, doubling the directory when
// required; a single Insert can trigger a chain of splits when the
// resident keys agree on many low hash bits.
func (h *Hash[K, V]) Insert(k K, v V) {
	hv := h.hash(k)
	for {
		i := h.position(hv)
		b := h.directory[i]
		free := -1
		for s := range b.slots {
			e := &b.slots[s]
			if !e.occupied {
				if free == -1 {
					free = s
				}
			} else if h.equal(e.key, k) {
				e.value = v
				return
			}
		}
		if free != -1 {
			b.slots[free] = slot[K, V]{key: k, value: v, occupied: true}
			h.length++
			return
		}
		h.split(b, i)
	}
}

// split divides the full bucket b, reached through directory slot i,
// into itself and a new sibling of one greater local depth. When every
// entry of b agrees on the newly consulted bit they all end up in one of
// the two buckets, which stays full; if the key being inserted resolves
// to that bucket as well, the caller's retry splits again.
func (h *Hash[K, V]) split(b *bucket[K, V], i int) {
	if b.localDepth == h.globalDepth {
		if h.globalDepth == maxGlobalDepth {
			panic(fmt.Sprintf("exthash: cannot grow directory beyond 2^%d slots",
				maxGlobalDepth))
		}
		// Mirror the slot table into the appended half: slot 2^G+j
		// refers to the same bucket as slot j.
		h.directory = append(h.directory, h.directory...)
		h.globalDepth++
	}

	sibling := &bucket[K, V]{
		localDepth: b.localDepth + 1,
		slots:      make([]slot[K, V], h.capacity),
	}
	// The slots sharing b agree with it on the low localDepth bits and
	// now split on the next bit: those with it set move to the sibling.
	high := i&(1<<b.localDepth-1) | 1<<b.localDepth
	mask := 1<<(b.localDepth+1) - 1
	for j, cur := range h.directory {
		if cur == b && j&mask == high {
			h.directory[j] = sibling
		}
	}
	b.localDepth++

	next := 0
	for s := range b.slots {
		e := &b.slots[s]
		if !e.occupied {
			continue
		}
		if h.position(h.hash(e.key))&mask == high {
			sibling.slots[next] = *e
			next++
			*e = slot[K, V]{}
		}
	}
}

// Remove deletes the entry for k and reports whether one existed.
// Buckets are never merged or freed; an emptied bucket stays in place.
func (h *Hash[K, V]) Remove(k K) bool {
	b := h.directory[h.position(h.hash(k))]
	for i := range b.slots {
		s := &b.slots[i]
		if s.occupied && h.equal(s.key, k) {
			*s = slot[K, V]{}
			h.length--
			return true
		}
	}
	return false
}

// GlobalDepth returns the number of low hash bits the directory
// consults.
func (h *Hash[K, V]) GlobalDepth() int {
	return h.globalDepth
}

// LocalDepth returns the local depth of the bucket behind directory
// slot i. It panics if i is not a valid directory slot.
func (h *Hash[K, V]) LocalDepth(i int) int {
	if i < 0 || i >= len(h.directory) {
		panic(fmt.Sprintf("exthash: directory slot %d out of range [0, %d)",
			i, len(h.directory)))
	}
	return h.directory[i].localDepth
}

// NumBuckets returns the directory slot count 2^G. Distinct buckets
// may be fewer, since slots share any bucket whose local depth is
// below G.
func (h *Hash[K, V]) NumBuckets() int {
	return 1 << h.globalDepth
}

// Len returns the number of entries in the index.
func (h *Hash[K, V]) Len() int {
	return h.length
}
