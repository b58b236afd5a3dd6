package graph

import (
	"cmp"
	"iter"

	"github.com/google/btree"
)

// btreeDegree is the branching factor used for node and adjacency trees.
const btreeDegree = 16

// OrderedRepr indexes nodes and adjacency in B-trees keyed by id.
//
// Lookups cost O(log n) instead of O(1), in exchange for iteration in
// ascending id order on every pass. Tests and callers that compare traversal
// output should use this representation.
type OrderedRepr[I cmp.Ordered, N, E any] struct {
	nodes *btree.BTreeG[*ordEntry[I, N, E]]
}

type ordEntry[I cmp.Ordered, N, E any] struct {
	id   I
	node N
	adj  *btree.BTreeG[*ordEdge[I, E]]
}

type ordEdge[I cmp.Ordered, E any] struct {
	to   I
	edge E
}

// NewOrderedRepr returns an empty OrderedRepr.
func NewOrderedRepr[I cmp.Ordered, N, E any]() *OrderedRepr[I, N, E] {
	return &OrderedRepr[I, N, E]{
		nodes: btree.NewG(btreeDegree, func(a, b *ordEntry[I, N, E]) bool {
			return cmp.Less(a.id, b.id)
		}),
	}
}

func newAdjTree[I cmp.Ordered, E any]() *btree.BTreeG[*ordEdge[I, E]] {
	return btree.NewG(btreeDegree, func(a, b *ordEdge[I, E]) bool {
		return cmp.Less(a.to, b.to)
	})
}

func (r *OrderedRepr[I, N, E]) entry(id I) (*ordEntry[I, N, E], bool) {
	return r.nodes.Get(&ordEntry[I, N, E]{id: id})
}

func (r *OrderedRepr[I, N, E]) edge(from, to I) (*ordEdge[I, E], bool) {
	e, ok := r.entry(from)
	if !ok {
		return nil, false
	}
	return e.adj.Get(&ordEdge[I, E]{to: to})
}

// AddNode implements Repr.
func (r *OrderedRepr[I, N, E]) AddNode(id I, node N) error {
	if e, ok := r.entry(id); ok {
		e.node = node
		return nil
	}
	r.nodes.ReplaceOrInsert(&ordEntry[I, N, E]{id: id, node: node, adj: newAdjTree[I, E]()})
	return nil
}

// RemoveNode implements Repr.
func (r *OrderedRepr[I, N, E]) RemoveNode(id I) (N, bool) {
	e, ok := r.nodes.Delete(&ordEntry[I, N, E]{id: id})
	if !ok {
		var zero N
		return zero, false
	}
	key := &ordEdge[I, E]{to: id}
	r.nodes.Ascend(func(other *ordEntry[I, N, E]) bool {
		other.adj.Delete(key)
		return true
	})
	return e.node, true
}

// AddEdge implements Repr.
func (r *OrderedRepr[I, N, E]) AddEdge(from, to I, edge E) error {
	e, ok := r.entry(from)
	if !ok || !r.nodes.Has(&ordEntry[I, N, E]{id: to}) {
		return ErrEdgeEndpointMissing
	}
	if existing, ok := e.adj.Get(&ordEdge[I, E]{to: to}); ok {
		existing.edge = edge
		return nil
	}
	e.adj.ReplaceOrInsert(&ordEdge[I, E]{to: to, edge: edge})
	return nil
}

// RemoveEdge implements Repr.
func (r *OrderedRepr[I, N, E]) RemoveEdge(from, to I) (E, bool) {
	var zero E
	e, ok := r.entry(from)
	if !ok {
		return zero, false
	}
	old, ok := e.adj.Delete(&ordEdge[I, E]{to: to})
	if !ok {
		return zero, false
	}
	return old.edge, true
}

// ContainsNode implements Repr.
func (r *OrderedRepr[I, N, E]) ContainsNode(id I) bool {
	return r.nodes.Has(&ordEntry[I, N, E]{id: id})
}

// ContainsEdge implements Repr.
func (r *OrderedRepr[I, N, E]) ContainsEdge(from, to I) bool {
	_, ok := r.edge(from, to)
	return ok
}

// Node implements Repr.
func (r *OrderedRepr[I, N, E]) Node(id I) (N, bool) {
	if e, ok := r.entry(id); ok {
		return e.node, true
	}
	var zero N
	return zero, false
}

// NodeMut implements Repr.
func (r *OrderedRepr[I, N, E]) NodeMut(id I) (*N, bool) {
	if e, ok := r.entry(id); ok {
		return &e.node, true
	}
	return nil, false
}

// Edge implements Repr.
func (r *OrderedRepr[I, N, E]) Edge(from, to I) (E, bool) {
	if p, ok := r.edge(from, to); ok {
		return p.edge, true
	}
	var zero E
	return zero, false
}

// EdgeMut implements Repr.
func (r *OrderedRepr[I, N, E]) EdgeMut(from, to I) (*E, bool) {
	if p, ok := r.edge(from, to); ok {
		return &p.edge, true
	}
	return nil, false
}

// ClearNodes implements Repr.
func (r *OrderedRepr[I, N, E]) ClearNodes() {
	r.nodes.Clear(false)
}

// ClearEdges implements Repr.
func (r *OrderedRepr[I, N, E]) ClearEdges() {
	r.nodes.Ascend(func(e *ordEntry[I, N, E]) bool {
		e.adj.Clear(false)
		return true
	})
}

// Nodes implements Repr. Ids are visited in ascending order.
func (r *OrderedRepr[I, N, E]) Nodes() iter.Seq2[I, N] {
	return func(yield func(I, N) bool) {
		r.nodes.Ascend(func(e *ordEntry[I, N, E]) bool {
			return yield(e.id, e.node)
		})
	}
}

// Neighbors implements Repr. Neighbor ids are visited in ascending order.
func (r *OrderedRepr[I, N, E]) Neighbors(id I) iter.Seq2[I, E] {
	return func(yield func(I, E) bool) {
		e, ok := r.entry(id)
		if !ok {
			return
		}
		e.adj.Ascend(func(p *ordEdge[I, E]) bool {
			return yield(p.to, p.edge)
		})
	}
}

// Order implements Repr.
func (r *OrderedRepr[I, N, E]) Order() int {
	return r.nodes.Len()
}

// Degree implements Repr.
func (r *OrderedRepr[I, N, E]) Degree(id I) int {
	if e, ok := r.entry(id); ok {
		return e.adj.Len()
	}
	return 0
}
