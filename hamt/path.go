package hamt

import (
	"fmt"
	"strconv"
	"strings"
)

// --- Slot ------------------------------------------------------------------

// slot holds a step of a path: a branch node, the hash fragment used to leave it and
// the position of the child for this fragment.
type slot[K comparable, V any] struct {
	node  *hnode[K, V]
	frag  uint
	index int
}

func (s slot[K, V]) String() string {
	if s.node == nil {
		return "∅"
	}
	return strconv.Itoa(s.index) + "@" + s.node.String()
}

// --- Path ------------------------------------------------------------------

type slotPath[K comparable, V any] []slot[K, V]

func (path slotPath[K, V]) String() string {
	var sb = strings.Builder{}
	sb.WriteRune('[')
	for _, s := range path {
		sb.WriteString(fmt.Sprintf("⟨%s⟩", s))
	}
	sb.WriteRune(']')
	return sb.String()
}

func (path slotPath[K, V]) last() slot[K, V] {
	if len(path) == 0 {
		return slot[K, V]{}
	}
	return path[len(path)-1]
}

func (path slotPath[K, V]) foldR(f func(slot[K, V], slot[K, V]) slot[K, V], zero slot[K, V]) slot[K, V] {
	if len(path) == 0 {
		return zero
	}
	r := zero
	for i := len(path) - 1; i >= 0; i-- {
		r = f(path[i], r)
	}
	return r
}

func (path slotPath[K, V]) dropLast() slotPath[K, V] {
	if len(path) == 0 {
		return path
	}
	return path[:len(path)-1]
}

// --- Seams -----------------------------------------------------------------

// cloneSeam links a new version of a child into a copy of its parent.
func cloneSeam[K comparable, V any](parent, child slot[K, V]) slot[K, V] {
	cow := parent.node.clone()
	cow.children[parent.index] = child.node
	return slot[K, V]{node: cow, frag: parent.frag, index: parent.index}
}

// pruneSeam is like cloneSeam, except that a vanished child (child.node == nil) is
// removed from the copy of its parent. A parent losing its last child vanishes, too.
func pruneSeam[K comparable, V any](parent, child slot[K, V]) slot[K, V] {
	if child.node != nil {
		return cloneSeam(parent, child)
	}
	if len(parent.node.children) == 1 {
		tracer().Debugf("prune: branch %s vanishes", parent.node)
		return slot[K, V]{}
	}
	cow := parent.node.withoutChild(parent.frag)
	tracer().Debugf("prune: removed child for fragment %d from %s", parent.frag, parent.node)
	return slot[K, V]{node: cow, frag: parent.frag, index: parent.index}
}
