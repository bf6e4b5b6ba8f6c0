// Copyright (c) 2023 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package exthash

import (
	"hash/maphash"
	"unsafe"

	"golang.org/x/exp/constraints"
)

var seed = maphash.MakeSeed()

// IdentityHash hashes an integral key to itself. It suits keys such as
// page identifiers whose low bits are already well distributed. Keys
// clustered at multiples of a large power of two defeat the directory
// and want a real hash instead.
func IdentityHash[K constraints.Integer](k K) uint64 {
	return uint64(k)
}

// StringHash hashes s with a process-wide maphash seed.
func StringHash(s string) uint64 {
	return maphash.String(seed, s)
}

// BytesHash hashes b with a process-wide maphash seed.
func BytesHash(b []byte) uint64 {
	return maphash.Bytes(seed, b)
}

// PointerHash hashes a pointer key by address, shifted right by three
// bits, which are zero for any 8-byte-aligned object; pointers to less
// strictly aligned objects that differ only in those bits share a hash
// value. Useful when the index maps live objects,
// e.g. resident frames of a buffer pool, to bookkeeping state.
func PointerHash[T any](p *T) uint64 {
	return uint64(uintptr(unsafe.Pointer(p)) >> 3)
}

// EqualComparable is the equality function for keys that support ==.
func EqualComparable[K comparable](a, b K) bool {
	return a == b
}

// Hashable represents a key that carries its own hash and equality,
// for key types that cannot natively be hashed.
type Hashable interface {
	Hash() uint64
	Equal(other interface{}) bool
}

// HashableHash adapts a Hashable key type for use as a Hash hash
// function.
func HashableHash[K Hashable](k K) uint64 {
	return k.Hash()
}

// HashableEqual adapts a Hashable key type for use as a Hash equality
// function.
func HashableEqual[K Hashable](a, b K) bool {
	return a.Equal(b)
}
