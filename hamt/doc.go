/*
Package hamt implements an immutable persistent map as a hash array mapped trie (HAMT).

A HAMT splits the 64-bit hash of a key into 5-bit fragments, one per level of the trie,
starting with the least significant bits. Inner nodes are sparse: a 32-bit bitmap records
which of the 32 potential children exist, and children are stored densely, positioned by the
population count of the bitmap below their fragment. Keys are kept in leaf buckets of up to 16
entries. Overflowing a bucket splits it into an inner node, distributing its entries by their
hash fragment at the bucket's level. Buckets at the maximum depth of 13 levels never split;
they hold entries with fully colliding hashes and compare keys by equality.

Every “modification” (Set, Erase) creates a new version of the map by copying the nodes on the
path from the root to the bucket in question, sharing all other nodes with the original. Maps
are therefore inherently concurrency-safe.

Iteration order is implementation-defined: it follows the bitmap order of inner nodes and the
order of entries within buckets. It is neither insertion order nor sorted order, but it is
deterministic for a given version of a map.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package hamt

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'persistent.hamt'.
func tracer() tracing.Trace {
	return tracing.Select("persistent.hamt")
}
