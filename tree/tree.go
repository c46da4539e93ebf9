// Package tree implements the packed preorder tree container described by
// the engine: a genome lives as a single array of nodes in preorder, each
// carrying the size of the subtree it roots, so that subtree extraction and
// splicing are bulk slice operations instead of pointer surgery.
package tree

import (
	"fmt"

	"github.com/nihei9/typedgp/gperr"
)

// NodeValue is the dense integer code a grammar assigns to a definition.
// Any value in a definition's [code, code+weight) range denotes that
// definition; only the definition's own code is canonical.
type NodeValue uint32

// NodeStorage is one preorder slot: a node's grammar-assigned value, its
// direct child count, and the size (in nodes) of the subtree it roots.
type NodeStorage struct {
	Value       NodeValue
	ChildCount  int
	SubtreeSize int
}

// Tree is an ordered, preorder array of nodes. For any index i, the
// contiguous slice nodes[i : i+SubtreeSize[i]] is exactly the subtree
// rooted at i. The root, if the tree is non-empty, is at index 0 and its
// SubtreeSize equals the node count.
type Tree struct {
	nodes []NodeStorage
}

// Len returns the total number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Empty reports whether the tree has no nodes.
func (t *Tree) Empty() bool {
	return len(t.nodes) == 0
}

// Root returns a view of the node at index 0. Calling Root on an empty tree
// panics; callers must check Empty first.
func (t *Tree) Root() Node {
	if t.Empty() {
		panic("tree: Root called on an empty tree")
	}
	return Node{t: t, i: 0}
}

// NodeAt returns a view of the node at index i.
func (t *Tree) NodeAt(i int) (Node, error) {
	if i < 0 || i >= len(t.nodes) {
		return Node{}, fmt.Errorf("%w: index %d, node count %d", gperr.ErrTreeIndexOutOfRange, i, len(t.nodes))
	}
	return Node{t: t, i: i}, nil
}

// Clone returns an independent deep copy of the tree.
func (t *Tree) Clone() *Tree {
	nodes := make([]NodeStorage, len(t.nodes))
	copy(nodes, t.nodes)
	return &Tree{nodes: nodes}
}

// GetSubtree returns an independent copy of the subtree rooted at i. The
// sizes stored in the returned tree are already correct since they are
// relative offsets within the extracted slice.
func (t *Tree) GetSubtree(i int) (*Tree, error) {
	if i < 0 || i >= len(t.nodes) {
		return nil, fmt.Errorf("%w: index %d, node count %d", gperr.ErrTreeIndexOutOfRange, i, len(t.nodes))
	}
	size := t.nodes[i].SubtreeSize
	nodes := make([]NodeStorage, size)
	copy(nodes, t.nodes[i:i+size])
	return &Tree{nodes: nodes}, nil
}

// Replace deletes the subtree rooted at i and splices sub in its place,
// then recomputes subtree sizes along every ancestor. Child counts are
// unaffected: the replaced node's role as one child of its parent is
// preserved. sub is treated as read-only and is copied before splicing, so
// it is safe to pass a subtree extracted from t itself (including the
// whole tree being replaced).
func (t *Tree) Replace(i int, sub *Tree) error {
	if i < 0 || i >= len(t.nodes) {
		return fmt.Errorf("%w: index %d, node count %d", gperr.ErrTreeIndexOutOfRange, i, len(t.nodes))
	}
	oldSize := t.nodes[i].SubtreeSize

	grafted := make([]NodeStorage, len(sub.nodes))
	copy(grafted, sub.nodes)

	spliced := make([]NodeStorage, 0, len(t.nodes)-oldSize+len(grafted))
	spliced = append(spliced, t.nodes[:i]...)
	spliced = append(spliced, grafted...)
	spliced = append(spliced, t.nodes[i+oldSize:]...)
	t.nodes = spliced

	recomputeSizes(t.nodes)
	return nil
}

// recomputeSizes reconstructs every node's SubtreeSize from the preorder
// value/ChildCount layout alone, by walking the array in preorder and
// unwinding the recursion to total up each subtree as it closes. This is
// the array-splice analogue of the Builder's push/add/pop bookkeeping:
// after a splice, only the value/ChildCount sequence is trustworthy, and a
// single top-down pass is enough to re-derive every size from it.
func recomputeSizes(nodes []NodeStorage) {
	if len(nodes) == 0 {
		return
	}
	pos := 0
	var visit func() int
	visit = func() int {
		i := pos
		pos++
		size := 1
		for c := 0; c < nodes[i].ChildCount; c++ {
			size += visit()
		}
		nodes[i].SubtreeSize = size
		return size
	}
	visit()
}
