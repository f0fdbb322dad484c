package vector

import (
	"fmt"
	"iter"

	"github.com/npillmayer/persistent"
	"github.com/npillmayer/persistent/maybe"
)

// Vector is an immutable persistent vector. An empty instance is usable as an empty
// vector, i.e. this is legal:
//
//     vec := vector.Vector[int]{}.Append(42)
//
// Vectors are values: they are cheap to copy and each copy denotes the same version.
type Vector[T any] struct {
	length int
	shift  uint // we do not store the height h of the tree, but rather bits*h
	root   *vnode[T]
}

// Immutable creates an empty vector.
func Immutable[T any]() Vector[T] {
	return Vector[T]{}
}

// From creates a vector containing items, in order.
// This is equivalent to appending each item to an empty vector.
func From[T any](items ...T) Vector[T] {
	v := Vector[T]{}
	for _, x := range items {
		v = v.Append(x)
	}
	return v
}

// Collect creates a vector containing the values of seq, in order.
func Collect[T any](seq iter.Seq[T]) Vector[T] {
	v := Vector[T]{}
	for x := range seq {
		v = v.Append(x)
	}
	return v
}

// --- API -------------------------------------------------------------------

// Len returns the number of elements in v.
func (v Vector[T]) Len() int {
	return v.length
}

// IsEmpty is true if v does not contain any element.
func (v Vector[T]) IsEmpty() bool {
	return v.length == 0
}

// Clear returns an empty vector.
func (v Vector[T]) Clear() Vector[T] {
	return Vector[T]{}
}

// Get returns the element at index i. If i is not a valid index, an error
// ErrIndexOutOfRange is returned.
func (v Vector[T]) Get(i int) (T, error) {
	if i < 0 || i >= v.length {
		var none T
		return none, persistent.IndexOutOfRange(i, v.length)
	}
	return v.leafFor(i).leafs[slot(i, 0)], nil
}

// Front returns the first element of v, or ErrEmptyCollection.
func (v Vector[T]) Front() (T, error) {
	if v.length == 0 {
		var none T
		return none, persistent.EmptyCollection("front of vector")
	}
	return v.leafFor(0).leafs[0], nil
}

// Back returns the last element of v, or ErrEmptyCollection.
func (v Vector[T]) Back() (T, error) {
	if v.length == 0 {
		var none T
		return none, persistent.EmptyCollection("back of vector")
	}
	i := v.length - 1
	return v.leafFor(i).leafs[slot(i, 0)], nil
}

// First returns the first element of v, if any.
func (v Vector[T]) First() maybe.Maybe[T] {
	x, err := v.Front()
	return maybe.Of(x, err == nil)
}

// Last returns the last element of v, if any.
func (v Vector[T]) Last() maybe.Maybe[T] {
	x, err := v.Back()
	return maybe.Of(x, err == nil)
}

// Set returns a copy of v with the element at index i replaced by value.
// If i is not a valid index, v is returned together with an error ErrIndexOutOfRange.
func (v Vector[T]) Set(i int, value T) (Vector[T], error) {
	if i < 0 || i >= v.length {
		return v, persistent.IndexOutOfRange(i, v.length)
	}
	newRoot := v.root.clone(false)
	node := newRoot
	for level := v.shift; level > 0; level -= bits {
		subidx := slot(i, level)
		child := node.children[subidx].clone(false)
		node.children[subidx] = child
		node = child
	}
	node.leafs[slot(i, 0)] = value
	return Vector[T]{length: v.length, shift: v.shift, root: newRoot}, nil
}

// Append returns a copy of v with value appended at index v.Len().
func (v Vector[T]) Append(value T) Vector[T] {
	if v.root == nil {
		return Vector[T]{length: 1, root: newLeaf(value)}
	}
	var newRoot *vnode[T]
	shift := v.shift
	if v.length == capacity(shift) { // root is full ⇒ new root one level up
		newRoot = newBranch(v.root)
		shift += bits
		tracer().Debugf("vector of length %d grows to shift=%d", v.length, shift)
	} else {
		newRoot = v.root.clone(true)
	}
	i := v.length
	node := newRoot
	for level := shift; level > 0; level -= bits {
		subidx := slot(i, level)
		if subidx == len(node.children) { // no subtree for i yet
			node.children = append(node.children, newPath(level-bits, value))
			return Vector[T]{length: v.length + 1, shift: shift, root: newRoot}
		}
		assertThat(subidx == len(node.children)-1, "inconsistency: append not at rightmost path")
		child := node.children[subidx].clone(true)
		node.children[subidx] = child
		node = child
	}
	assertThat(node.leaf, "inconsistency: path for append does not end in a leaf")
	node.leafs = append(node.leafs, value)
	return Vector[T]{length: v.length + 1, shift: shift, root: newRoot}
}

// Push is a synonym for Append.
func (v Vector[T]) Push(value T) Vector[T] {
	return v.Append(value)
}

// PopBack returns a copy of v with the last element removed.
// If v is empty, v is returned together with an error ErrEmptyCollection.
func (v Vector[T]) PopBack() (Vector[T], error) {
	if v.length == 0 {
		return v, persistent.EmptyCollection("pop-back from vector")
	}
	if v.length == 1 {
		return Vector[T]{}, nil
	}
	// collect the rightmost path; the last element lives in its leaf
	path := make([]*vnode[T], 0, 8)
	node := v.root
	for level := v.shift; level > 0; level -= bits {
		path = append(path, node)
		node = node.lastChild()
	}
	var child *vnode[T] // nil if the leaf vanishes
	if len(node.leafs) > 1 {
		child = node.clone(false)
		child.leafs = child.leafs[:len(child.leafs)-1]
	}
	for k := len(path) - 1; k >= 0; k-- {
		last := len(path[k].children) - 1
		if child == nil && last == 0 {
			continue // parent would be empty, too
		}
		cow := path[k].clone(false)
		if child == nil {
			cow.children = cow.children[:last]
		} else {
			cow.children[last] = child
		}
		child = cow
	}
	assertThat(child != nil, "inconsistency: non-empty vector lost its root")
	w := Vector[T]{length: v.length - 1, shift: v.shift, root: child}
	for w.shift > 0 && w.length <= capacity(w.shift-bits) { // root has a single relevant child
		assertThat(len(w.root.children) == 1, "inconsistency: collapsing root with %d children",
			len(w.root.children))
		w.root = w.root.children[0]
		w.shift -= bits
		tracer().Debugf("vector of length %d shrinks to shift=%d", w.length, w.shift)
	}
	return w, nil
}

// --- Iteration and conversion ----------------------------------------------

// All returns an iterator over the index/element pairs of v, in index order.
func (v Vector[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for base := 0; base < v.length; base += int(degree) {
			leaf := v.leafFor(base)
			for j, x := range leaf.leafs {
				if !yield(base+j, x) {
					return
				}
			}
		}
	}
}

// Values returns an iterator over the elements of v, in index order.
func (v Vector[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, x := range v.All() {
			if !yield(x) {
				return
			}
		}
	}
}

// ToSlice copies the elements of v into a new slice.
func (v Vector[T]) ToSlice() []T {
	s := make([]T, 0, v.length)
	for x := range v.Values() {
		s = append(s, x)
	}
	return s
}

func (v Vector[T]) String() string {
	return fmt.Sprintf("%v", v.ToSlice())
}

// Equal is true if v and w have equal length and equal elements at every index.
// Subtrees shared between v and w are not visited.
func Equal[T comparable](v, w Vector[T]) bool {
	if v.length != w.length {
		return false
	}
	if v.root == w.root {
		return true
	}
	for base := 0; base < v.length; base += int(degree) {
		lv, lw := v.leafFor(base), w.leafFor(base)
		if lv == lw {
			continue
		}
		for j := range lv.leafs {
			if lv.leafs[j] != lw.leafs[j] {
				return false
			}
		}
	}
	return true
}

// leafFor descends to the leaf containing index i, which must be a valid index.
func (v Vector[T]) leafFor(i int) *vnode[T] {
	node := v.root
	for level := v.shift; level > 0; level -= bits {
		node = node.children[slot(i, level)]
	}
	assertThat(node.leaf, "inconsistency: descent for index %d ended at inner node", i)
	return node
}
