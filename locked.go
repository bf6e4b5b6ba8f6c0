// Copyright (c) 2023 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package exthash

import "sync"

// Locked wraps a Hash behind a reader-writer lock for use from
// multiple goroutines. Individual operations are atomic; sequences of
// operations are not, so a caller needing read-modify-write semantics
// still has to synchronize externally.
type Locked[K, V any] struct {
	mu sync.RWMutex
	h  *Hash[K, V]
}

// NewLocked returns a synchronized index with at most capacity entries
// per bucket. It panics if capacity is not positive.
func NewLocked[K, V any](capacity int,
	hash func(K) uint64, equal func(K, K) bool) *Locked[K, V] {
	return &Locked[K, V]{h: New[K, V](capacity, hash, equal)}
}

// Find returns the value associated with k, if any.
func (l *Locked[K, V]) Find(k K) (V, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.h.Find(k)
}

// Insert associates k with v, overwriting any existing value for k.
func (l *Locked[K, V]) Insert(k K, v V) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.h.Insert(k, v)
}

// Remove deletes the entry for k and reports whether one existed.
func (l *Locked[K, V]) Remove(k K) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.h.Remove(k)
}

// GlobalDepth returns the number of low hash bits the directory
// consults.
func (l *Locked[K, V]) GlobalDepth() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.h.GlobalDepth()
}

// LocalDepth returns the local depth of the bucket behind directory
// slot i.
func (l *Locked[K, V]) LocalDepth(i int) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.h.LocalDepth(i)
}

// NumBuckets returns the directory slot count 2^G.
func (l *Locked[K, V]) NumBuckets() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.h.NumBuckets()
}

// Len returns the number of entries in the index.
func (l *Locked[K, V]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.h.Len()
}
