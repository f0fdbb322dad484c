package hamt

import (
	"iter"

	"github.com/npillmayer/persistent/bitmap"
)

// frame is a stack entry of a trie walk: a node and the position of the next child
// to visit.
type frame[K comparable, V any] struct {
	node *hnode[K, V]
	next int
}

// All returns an iterator over the key/value pairs of m. Iteration order is the
// bitmap order of branch nodes, then the order of entries within buckets. It is
// stable for a given version of a map.
func (m Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if m.root == nil {
			return
		}
		stack := make([]frame[K, V], 1, bitmap.MaxLevels+1)
		stack[0] = frame[K, V]{node: m.root}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.node.isLeaf() {
				for _, e := range top.node.entries {
					if !yield(e.key, e.value) {
						return
					}
				}
				stack = stack[:len(stack)-1]
				continue
			}
			if top.next == len(top.node.children) {
				stack = stack[:len(stack)-1]
				continue
			}
			child := top.node.children[top.next]
			top.next++
			stack = append(stack, frame[K, V]{node: child})
		}
	}
}

// Keys returns an iterator over the keys of m, in the order of All.
func (m Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range m.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Values returns an iterator over the values of m, in the order of All.
func (m Map[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range m.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// Entries copies the entries of m into a new slice, in the order of All.
func (m Map[K, V]) Entries() []Entry[K, V] {
	entries := make([]Entry[K, V], 0, m.size)
	for k, v := range m.All() {
		entries = append(entries, Entry[K, V]{Key: k, Value: v})
	}
	return entries
}
