/*
Package bitmap provides the bit utilities shared by the tries of this module.

Both tries consume keys in 5-bit fragments, selecting one of 32 potential children per node.
Sparse nodes record which of the 32 slots are occupied in a 32-bit presence mask and store
occupied children densely. The position of a child within the dense array is the number of
occupied slots below its fragment, i.e. the population count of the masked bitmap:

    bitmap   = 0b…0010_0101    // children for fragments 0, 2 and 5
    Index(5) = popcount(bitmap & 0b1_1111) = 2

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package bitmap

import (
	"fmt"
	"math/bits"
)

const (
	Bits     uint = 5         // number of bits consumed per trie level
	Width    uint = 1 << Bits // branching factor, 2 ^ 5 = 32
	Mask     uint = Width - 1 // bit pattern with trailing 1s of length Bits
	HashBits uint = 64        // width of key hashes

	// MaxLevels is the number of trie levels a 64-bit hash can be split into.
	MaxLevels uint = (HashBits + Bits - 1) / Bits
)

// Bitmap is a presence mask for the 32 potential children of a trie node.
type Bitmap uint32

// Has is true if the slot for fragment f is occupied.
func (bm Bitmap) Has(f uint) bool {
	return bm&(1<<f) != 0
}

// Set returns a copy of bm with the slot for fragment f occupied.
func (bm Bitmap) Set(f uint) Bitmap {
	return bm | (1 << f)
}

// Clear returns a copy of bm with the slot for fragment f vacated.
func (bm Bitmap) Clear(f uint) Bitmap {
	return bm &^ (1 << f)
}

// Count returns the number of occupied slots.
func (bm Bitmap) Count() int {
	return bits.OnesCount32(uint32(bm))
}

// Index returns the position of the child for fragment f within a densely packed
// array of children. If f is not occupied, Index returns the position where a
// child for f would have to be inserted.
func (bm Bitmap) Index(f uint) int {
	return bits.OnesCount32(uint32(bm) & (1<<f - 1))
}

func (bm Bitmap) String() string {
	return fmt.Sprintf("%032b", uint32(bm))
}

// Fragment extracts the 5-bit fragment of hash for trie level `level`, starting with the
// least significant bits at level 0. For levels beyond the width of the hash, Fragment
// returns 0.
func Fragment(hash uint64, level uint) uint {
	shift := level * Bits
	if shift >= HashBits {
		return 0
	}
	return uint(hash>>shift) & Mask
}
