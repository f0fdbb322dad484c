package hamt

import (
	"fmt"
	"iter"
	"strings"

	"github.com/npillmayer/persistent"
	"github.com/npillmayer/persistent/bitmap"
	"github.com/npillmayer/persistent/hashing"
	"github.com/npillmayer/persistent/maybe"
)

// Map is an immutable persistent map. An empty instance is usable as an empty map,
// i.e. this is legal:
//
//     m := hamt.Map[string, int]{}.Set("a", 1)
//
// Maps are values: they are cheap to copy and each copy denotes the same version.
type Map[K comparable, V any] struct {
	props[K]
	root *hnode[K, V]
	size int
}

// Entry is a key/value pair of a map.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// Immutable creates an empty map, configured by options.
func Immutable[K comparable, V any](opts ...Option[K]) Map[K, V] {
	m := Map[K, V]{}
	for _, option := range opts {
		m.props = option.config(m.props)
	}
	m.props = m.props.init()
	return m
}

// Option is a type to help initializing maps at creation time.
type Option[K comparable] struct {
	config func(props[K]) props[K]
}

// WithHasher configures a map to use h as the hash function for keys. h must be
// deterministic, i.e. equal keys must always hash to equal values. If h is nil, the
// default hasher for K is used.
func WithHasher[K comparable](h func(K) uint64) Option[K] {
	conf := func(p props[K]) props[K] {
		p.hasher = h
		return p
	}
	return Option[K]{config: conf}
}

// From creates a map containing entries. Later entries overwrite earlier entries
// with an equal key.
func From[K comparable, V any](entries ...Entry[K, V]) Map[K, V] {
	m := Immutable[K, V]()
	for _, e := range entries {
		m = m.Set(e.Key, e.Value)
	}
	return m
}

// Collect creates a map containing the key/value pairs of seq, configured by options.
// Later pairs overwrite earlier pairs with an equal key.
func Collect[K comparable, V any](seq iter.Seq2[K, V], opts ...Option[K]) Map[K, V] {
	m := Immutable[K, V](opts...)
	for k, v := range seq {
		m = m.Set(k, v)
	}
	return m
}

// props holds the configuration of a map, carried over to every derived map.
type props[K comparable] struct {
	hasher hashing.Hasher[K]
}

func (p props[K]) init() props[K] {
	if p.hasher == nil {
		p.hasher = hashing.For[K]()
	}
	return p
}

// --- API -------------------------------------------------------------------

// Len returns the number of entries in m.
func (m Map[K, V]) Len() int {
	return m.size
}

// IsEmpty is true if m does not contain any entry.
func (m Map[K, V]) IsEmpty() bool {
	return m.size == 0
}

// Clear returns an empty map with the configuration of m.
func (m Map[K, V]) Clear() Map[K, V] {
	return Map[K, V]{props: m.props}
}

// Contains is true if m holds an entry for key.
func (m Map[K, V]) Contains(key K) bool {
	_, found := m.Get(key)
	return found
}

// Get returns the value stored for key, and true if key has been found.
// If key is not present, the zero value of V and false are returned.
func (m Map[K, V]) Get(key K) (V, bool) {
	if m.root == nil {
		var none V
		return none, false
	}
	m.props = m.props.init()
	h := m.hasher(key)
	node := m.root
	for level := uint(0); !node.isLeaf(); level++ {
		if node = node.child(bitmap.Fragment(h, level)); node == nil {
			var none V
			return none, false
		}
	}
	if i := node.indexOf(h, key); i >= 0 {
		return node.entries[i].value, true
	}
	var none V
	return none, false
}

// Lookup returns the value stored for key, if any.
func (m Map[K, V]) Lookup(key K) maybe.Maybe[V] {
	value, found := m.Get(key)
	return maybe.Of(value, found)
}

// At returns the value stored for key. If key is not present, an error
// ErrKeyNotFound is returned.
func (m Map[K, V]) At(key K) (V, error) {
	if value, found := m.Get(key); found {
		return value, nil
	}
	var none V
	return none, persistent.KeyNotFound(key)
}

// Set returns a copy of m with value stored for key. If key is already present
// in m, its value will be replaced.
func (m Map[K, V]) Set(key K, value V) Map[K, V] {
	m.props = m.props.init()
	e := entry[K, V]{hash: m.hasher(key), key: key, value: value}
	if m.root == nil {
		return Map[K, V]{props: m.props, root: newBucket(e), size: 1}
	}
	var pathBuf [bitmap.MaxLevels]slot[K, V]
	path, node, level := m.locate(e.hash, pathBuf[:0])
	tracer().Debugf("hamt.Set: slot path = %s", path)
	var top slot[K, V]
	added := true
	if node == nil { // vacant fragment in last branch node
		parent := path.last()
		cow := parent.node.withInsertedChild(parent.frag, newBucket(e))
		top = path.dropLast().foldR(cloneSeam[K, V], slot[K, V]{node: cow, frag: parent.frag, index: parent.index})
	} else {
		var bucket *hnode[K, V]
		bucket, added = node.withEntry(e, level)
		top = path.foldR(cloneSeam[K, V], slot[K, V]{node: bucket})
	}
	size := m.size
	if added {
		size++
	}
	return Map[K, V]{props: m.props, root: top.node, size: size}
}

// Erase returns a copy of m without an entry for key. If key is not present in m,
// m is returned.
func (m Map[K, V]) Erase(key K) Map[K, V] {
	if m.root == nil {
		return m
	}
	m.props = m.props.init()
	h := m.hasher(key)
	var pathBuf [bitmap.MaxLevels]slot[K, V]
	path, node, _ := m.locate(h, pathBuf[:0])
	if node == nil {
		return m
	}
	i := node.indexOf(h, key)
	if i < 0 {
		return m
	}
	var bucket *hnode[K, V] // nil if the bucket vanishes
	if len(node.entries) > 1 {
		bucket = node.withoutEntry(i)
	}
	top := path.foldR(pruneSeam[K, V], slot[K, V]{node: bucket})
	if top.node == nil {
		assertThat(m.size == 1, "inconsistency: map with %d entries lost its root", m.size)
		return m.Clear()
	}
	return Map[K, V]{props: m.props, root: top.node, size: m.size - 1}
}

// locate descends from the root along the fragments of hash, collecting branch nodes
// in path. It returns the path, the leaf bucket the descent ends at and the bucket's
// level. If the descent ends at a vacant fragment of a branch node, the bucket is nil.
func (m Map[K, V]) locate(hash uint64, path slotPath[K, V]) (slotPath[K, V], *hnode[K, V], uint) {
	node := m.root
	level := uint(0)
	for !node.isLeaf() {
		f := bitmap.Fragment(hash, level)
		path = append(path, slot[K, V]{node: node, frag: f, index: node.bitmap.Index(f)})
		level++
		if node = node.child(f); node == nil {
			return path, nil, level
		}
	}
	return path, node, level
}

func (m Map[K, V]) String() string {
	var sb = strings.Builder{}
	sb.WriteString("map[")
	first := true
	for k, v := range m.All() {
		if !first {
			sb.WriteByte(' ')
		}
		first = false
		sb.WriteString(fmt.Sprintf("%v:%v", k, v))
	}
	sb.WriteByte(']')
	return sb.String()
}
