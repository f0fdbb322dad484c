/*
Package hashing provides deterministic hash functions for map keys.

A hash array mapped trie consumes the hash of a key in 5-bit fragments. The only requirement
for a hash function is that it is deterministic for the lifetime of a process: equal keys must
always produce equal hashes. Hashes are not required to be stable between runs, and clients
must not assume they are.

Keys of built-in string and integer types are hashed with 64-bit murmur3, which additionally
makes the iteration order of maps with such keys reproducible from run to run. Keys implementing
Hashable hash themselves. Every other comparable key type is hashed with hash/maphash, using
a seed chosen once per process.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package hashing

import (
	"encoding/binary"
	"hash/maphash"

	"github.com/spaolacci/murmur3"
)

// Hasher is a function computing a 64-bit hash for a key.
type Hasher[K any] func(K) uint64

// Hashable is an interface for key types which provide their own hash function.
type Hashable interface {
	Hash() uint64
}

var seed = maphash.MakeSeed()

// String hashes a string.
func String(s string) uint64 {
	return murmur3.Sum64([]byte(s))
}

// Bytes hashes a byte slice.
func Bytes(b []byte) uint64 {
	return murmur3.Sum64(b)
}

// Uint64 hashes an unsigned integer.
func Uint64(n uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], n)
	return murmur3.Sum64(buf[:])
}

// Int64 hashes a signed integer.
func Int64(n int64) uint64 {
	return Uint64(uint64(n))
}

// Comparable hashes an arbitrary comparable value with a per-process seed.
// It panics for interface values with a dynamic type which is not comparable,
// just as == would.
func Comparable[K comparable](key K) uint64 {
	return maphash.Comparable(seed, key)
}

// For selects a hasher for keys of type K.
func For[K comparable]() Hasher[K] {
	var zero K
	if _, ok := any(zero).(Hashable); ok {
		return func(key K) uint64 {
			return any(key).(Hashable).Hash()
		}
	}
	switch any(zero).(type) {
	case string:
		return func(key K) uint64 { return String(any(key).(string)) }
	case int:
		return func(key K) uint64 { return Int64(int64(any(key).(int))) }
	case int64:
		return func(key K) uint64 { return Int64(any(key).(int64)) }
	case int32:
		return func(key K) uint64 { return Int64(int64(any(key).(int32))) }
	case uint:
		return func(key K) uint64 { return Uint64(uint64(any(key).(uint))) }
	case uint64:
		return func(key K) uint64 { return Uint64(any(key).(uint64)) }
	case uint32:
		return func(key K) uint64 { return Uint64(uint64(any(key).(uint32))) }
	}
	return Comparable[K]
}
