package hamt

import (
	"fmt"
	"strings"

	"github.com/npillmayer/persistent/bitmap"
)

// bucketSize is the maximum number of entries of a leaf bucket above the maximum
// depth of the trie: half the branching factor.
const bucketSize = int(bitmap.Width / 2)

type nodeKind uint8

const (
	branchNode nodeKind = iota // bitmap + dense children
	leafNode                   // bucket of entries
)

// entry is a key/value pair. We remember the hash of the key to avoid re-hashing
// when a bucket is split.
type entry[K comparable, V any] struct {
	hash  uint64
	key   K
	value V
}

func (e entry[K, V]) String() string {
	return fmt.Sprintf("%v:%v", e.key, e.value)
}

// hnode is a node of the trie, tagged with its kind. Branch nodes use bitmap and
// children, leaf nodes use entries only.
type hnode[K comparable, V any] struct {
	kind     nodeKind
	bitmap   bitmap.Bitmap
	children []*hnode[K, V]
	entries  []entry[K, V]
}

func newBucket[K comparable, V any](entries ...entry[K, V]) *hnode[K, V] {
	es := make([]entry[K, V], len(entries), len(entries)+1)
	copy(es, entries)
	return &hnode[K, V]{kind: leafNode, entries: es}
}

func (node *hnode[K, V]) isLeaf() bool {
	return node.kind == leafNode
}

// clone creates a shallow copy of a node.
func (node *hnode[K, V]) clone() *hnode[K, V] {
	assertThat(node != nil, "attempt to clone an uninitialized node")
	n := &hnode[K, V]{kind: node.kind, bitmap: node.bitmap}
	if node.isLeaf() {
		n.entries = make([]entry[K, V], len(node.entries), len(node.entries)+1)
		copy(n.entries, node.entries)
	} else {
		n.children = make([]*hnode[K, V], len(node.children))
		copy(n.children, node.children)
	}
	return n
}

// --- Branch nodes ----------------------------------------------------------

// child returns the child for fragment f, or nil.
func (node *hnode[K, V]) child(f uint) *hnode[K, V] {
	if !node.bitmap.Has(f) {
		return nil
	}
	return node.children[node.bitmap.Index(f)]
}

// withInsertedChild returns a copy of a branch node with a child for a previously
// vacant fragment f.
func (node *hnode[K, V]) withInsertedChild(f uint, child *hnode[K, V]) *hnode[K, V] {
	assertThat(!node.isLeaf(), "attempt to insert child into leaf bucket")
	assertThat(!node.bitmap.Has(f), "attempt to insert child for occupied fragment %d", f)
	inx := node.bitmap.Index(f)
	cow := &hnode[K, V]{kind: branchNode, bitmap: node.bitmap.Set(f)}
	cow.children = make([]*hnode[K, V], len(node.children)+1)
	copy(cow.children, node.children[:inx])
	cow.children[inx] = child
	copy(cow.children[inx+1:], node.children[inx:])
	return cow
}

// withoutChild returns a copy of a branch node with the child for fragment f removed.
func (node *hnode[K, V]) withoutChild(f uint) *hnode[K, V] {
	assertThat(!node.isLeaf(), "attempt to remove child from leaf bucket")
	assertThat(node.bitmap.Has(f), "attempt to remove child for vacant fragment %d", f)
	inx := node.bitmap.Index(f)
	cow := &hnode[K, V]{kind: branchNode, bitmap: node.bitmap.Clear(f)}
	cow.children = make([]*hnode[K, V], 0, len(node.children)-1)
	cow.children = append(cow.children, node.children[:inx]...)
	cow.children = append(cow.children, node.children[inx+1:]...)
	return cow
}

// --- Leaf buckets ----------------------------------------------------------

// indexOf returns the position of key in a bucket, or -1.
func (node *hnode[K, V]) indexOf(hash uint64, key K) int {
	for i, e := range node.entries {
		if e.hash == hash && e.key == key {
			return i
		}
	}
	return -1
}

// withEntry returns a copy of a bucket at trie level `level` containing e. The copy may
// be a branch node if the bucket has overflowed. The boolean result is true if the
// key of e has not been present in the bucket.
func (node *hnode[K, V]) withEntry(e entry[K, V], level uint) (*hnode[K, V], bool) {
	assertThat(node.isLeaf(), "attempt to add entry to branch node")
	if i := node.indexOf(e.hash, e.key); i >= 0 {
		cow := node.clone()
		cow.entries[i] = e
		return cow, false
	}
	if len(node.entries) < bucketSize || level >= bitmap.MaxLevels {
		cow := node.clone()
		cow.entries = append(cow.entries, e)
		return cow, true
	}
	es := make([]entry[K, V], 0, len(node.entries)+1)
	es = append(es, node.entries...)
	es = append(es, e)
	return split(es, level), true
}

// split distributes entries into a new branch node at trie level `level`, keyed by
// their hash fragments for this level. Entries are re-inserted at level+1, which
// may split again if all of them share a fragment.
func split[K comparable, V any](entries []entry[K, V], level uint) *hnode[K, V] {
	tracer().Debugf("splitting bucket of %d entries at level %d", len(entries), level)
	branch := &hnode[K, V]{kind: branchNode}
	for _, e := range entries {
		f := bitmap.Fragment(e.hash, level)
		if !branch.bitmap.Has(f) {
			branch = branch.withInsertedChild(f, newBucket(e))
			continue
		}
		inx := branch.bitmap.Index(f)
		// branch is not yet published, therefore we may link the new child in place
		branch.children[inx], _ = branch.children[inx].withEntry(e, level+1)
	}
	return branch
}

// withoutEntry returns a copy of a bucket with the entry at position i removed.
func (node *hnode[K, V]) withoutEntry(i int) *hnode[K, V] {
	assertThat(node.isLeaf(), "attempt to remove entry from branch node")
	cow := &hnode[K, V]{kind: leafNode}
	cow.entries = make([]entry[K, V], 0, len(node.entries)-1)
	cow.entries = append(cow.entries, node.entries[:i]...)
	cow.entries = append(cow.entries, node.entries[i+1:]...)
	return cow
}

func (node hnode[K, V]) String() string {
	b := strings.Builder{}
	if node.isLeaf() {
		b.WriteByte('{')
		for i, e := range node.entries {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(e.String())
		}
		b.WriteByte('}')
		return b.String()
	}
	b.WriteByte('[')
	b.WriteString(node.bitmap.String())
	b.WriteByte(']')
	return b.String()
}

// --- Helpers ---------------------------------------------------------------

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("persistent.hamt: "+msg, msgargs...)
		panic(msg)
	}
}
