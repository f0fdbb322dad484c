package vector

import (
	"fmt"
	"strings"

	"github.com/npillmayer/persistent/bitmap"
)

const (
	bits   = bitmap.Bits  // will produce nodes with degree  2 ^ 5 = 32
	degree = bitmap.Width // number of slots of a node
	mask   = bitmap.Mask  // bit pattern with trailing 1s of length 'bits'
)

// vnode represents a node in the tree a vector is made of. A node is either an inner
// node, holding references to child nodes, or a leaf, holding elements. Vectors fill
// their tree from left to right, therefore both slices are densely packed and are
// never longer than the degree of the tree.
type vnode[T any] struct {
	leaf     bool
	children []*vnode[T]
	leafs    []T
}

func newBranch[T any](children ...*vnode[T]) *vnode[T] {
	ch := make([]*vnode[T], len(children), len(children)+1)
	copy(ch, children)
	return &vnode[T]{children: ch}
}

func newLeaf[T any](values ...T) *vnode[T] {
	l := make([]T, len(values), len(values)+1)
	copy(l, values)
	return &vnode[T]{leaf: true, leafs: l}
}

// newPath creates a left-branching path of inner nodes down to a new leaf containing
// a single value. levels is the shift of the top-most node of the path.
func newPath[T any](levels uint, value T) *vnode[T] {
	top := newLeaf(value)
	for level := levels; level > 0; level -= bits {
		top = newBranch(top)
	}
	return top
}

// clone creates a shallow copy of a node. If extend is true, the copy will have room
// for one more child/element.
func (node *vnode[T]) clone(extend bool) *vnode[T] {
	assertThat(node != nil, "attempt to clone an uninitialized node")
	ext := 0
	if extend {
		ext = 1
	}
	n := &vnode[T]{leaf: node.leaf}
	if node.leaf {
		n.leafs = make([]T, len(node.leafs), len(node.leafs)+ext)
		copy(n.leafs, node.leafs)
	} else {
		n.children = make([]*vnode[T], len(node.children), len(node.children)+ext)
		copy(n.children, node.children)
	}
	return n
}

func (node *vnode[T]) lastChild() *vnode[T] {
	assertThat(!node.leaf && len(node.children) > 0, "attempt to get last child of leaf or empty node")
	return node.children[len(node.children)-1]
}

func (node vnode[T]) String() string {
	b := strings.Builder{}
	b.WriteByte('[')
	if node.leaf {
		for i, l := range node.leafs {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(fmt.Sprintf("%v", l))
		}
	} else {
		for i, c := range node.children {
			if i > 0 {
				b.WriteByte(',')
			}
			if c == nil {
				b.WriteByte('_')
			} else {
				b.WriteString("▪︎")
			}
		}
	}
	b.WriteByte(']')
	return b.String()
}

// slot returns the index of the child of a node at level `level` on the path to element i.
func slot(i int, level uint) int {
	return int((uint(i) >> level) & mask)
}

// capacity returns the number of elements a tree with a root at level `shift` is able
// to hold, i.e. 32^(shift/5 + 1).
func capacity(shift uint) int {
	return 1 << (shift + bits)
}

// --- Helpers ---------------------------------------------------------------

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("persistent.vector: "+msg, msgargs...)
		panic(msg)
	}
}
