/*
Package persistent is the root of a small family of immutable persistent data structures.
Immutable persistent data structures are data structures which can be copied and modified
efficiently, leaving the original unchanged. Functional programming languages like Lisp have long
relied on using them.

Two collections are offered, both built on 32-way branching tries:

   vector.Vector[T]    // integer-indexed sequence (bitmapped vector trie)
   hamt.Map[K, V]      // key-indexed associative structure (hash array mapped trie)

Every “modification” returns a new version in O(log₃₂ n) time and space, while all previously
returned versions stay valid and unchanged. *Persistent* immutable data-structures offer
structural sharing: a new version re-creates the nodes along a single path from the root to the
edited slot and references every other subtree of its predecessor. Nodes are never mutated after
a version has been handed out, therefore any number of goroutines may read (or derive new
versions from) the same version without synchronization.

This package holds the error kinds shared by all collections. Clients check for them with
errors.Is:

    _, err := vec.Get(17)
    if errors.Is(err, persistent.ErrIndexOutOfRange) {
        …
    }

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package persistent
