/*
Package vector implements an immutable persistent vector, designed for use-cases
similar to Go slices.

An immutable persistent vector has copy-on-write behaviour: Each “modification” of the vector
(replacement, appending or removing the last element) creates a copy, leaving the original
unmodified. Under the hood, copy-on-write retains most of the memory held by the original, and
creates a new incarnation of parts of the structure only. Thus, most of the structure/memory
is shared between original and copy, transparently to clients.

Vectors are implemented as bitmapped vector tries: trees of nodes with 32 slots each, where
leaf nodes hold up to 32 elements. An index is split into 5-bit fragments, the most significant
fragment selecting a child of the root, and so on down to a leaf. The depth of a vector's trie
grows by one level whenever appending hits the capacity of the current root (32, 1024, 32768, …),
and shrinks again if removing the last element leaves the root with a single relevant child.

Immutable vectors are inherently concurrency-safe.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package vector

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'persistent.vector'.
func tracer() tracing.Trace {
	return tracing.Select("persistent.vector")
}
