package graph

import (
	"cmp"
	"iter"
)

// HashedRepr indexes nodes and each node's adjacency with Go maps.
//
// Lookups are O(1). Iteration order is unspecified: a single pass over Nodes
// or Neighbors is internally consistent, but two passes may differ. Use
// OrderedRepr when traversal output must be reproducible.
type HashedRepr[I cmp.Ordered, N, E any] struct {
	nodes map[I]*hashEntry[I, N, E]
}

type hashEntry[I comparable, N, E any] struct {
	node N
	adj  map[I]*E
}

// NewHashedRepr returns an empty HashedRepr.
func NewHashedRepr[I cmp.Ordered, N, E any]() *HashedRepr[I, N, E] {
	return &HashedRepr[I, N, E]{nodes: make(map[I]*hashEntry[I, N, E])}
}

// AddNode implements Repr.
func (r *HashedRepr[I, N, E]) AddNode(id I, node N) error {
	if e, ok := r.nodes[id]; ok {
		e.node = node
		return nil
	}
	r.nodes[id] = &hashEntry[I, N, E]{node: node, adj: make(map[I]*E)}
	return nil
}

// RemoveNode implements Repr. The node's adjacency map is dropped wholesale
// and every other node forgets its edge into id.
func (r *HashedRepr[I, N, E]) RemoveNode(id I) (N, bool) {
	e, ok := r.nodes[id]
	if !ok {
		var zero N
		return zero, false
	}
	delete(r.nodes, id)
	for _, other := range r.nodes {
		delete(other.adj, id)
	}
	return e.node, true
}

// AddEdge implements Repr.
func (r *HashedRepr[I, N, E]) AddEdge(from, to I, edge E) error {
	e, ok := r.nodes[from]
	if !ok {
		return ErrEdgeEndpointMissing
	}
	if _, ok := r.nodes[to]; !ok {
		return ErrEdgeEndpointMissing
	}
	e.adj[to] = &edge
	return nil
}

// RemoveEdge implements Repr.
func (r *HashedRepr[I, N, E]) RemoveEdge(from, to I) (E, bool) {
	var zero E
	e, ok := r.nodes[from]
	if !ok {
		return zero, false
	}
	p, ok := e.adj[to]
	if !ok {
		return zero, false
	}
	delete(e.adj, to)
	return *p, true
}

// ContainsNode implements Repr.
func (r *HashedRepr[I, N, E]) ContainsNode(id I) bool {
	_, ok := r.nodes[id]
	return ok
}

// ContainsEdge implements Repr.
func (r *HashedRepr[I, N, E]) ContainsEdge(from, to I) bool {
	_, ok := r.EdgeMut(from, to)
	return ok
}

// Node implements Repr.
func (r *HashedRepr[I, N, E]) Node(id I) (N, bool) {
	if e, ok := r.nodes[id]; ok {
		return e.node, true
	}
	var zero N
	return zero, false
}

// NodeMut implements Repr.
func (r *HashedRepr[I, N, E]) NodeMut(id I) (*N, bool) {
	if e, ok := r.nodes[id]; ok {
		return &e.node, true
	}
	return nil, false
}

// Edge implements Repr.
func (r *HashedRepr[I, N, E]) Edge(from, to I) (E, bool) {
	if p, ok := r.EdgeMut(from, to); ok {
		return *p, true
	}
	var zero E
	return zero, false
}

// EdgeMut implements Repr.
func (r *HashedRepr[I, N, E]) EdgeMut(from, to I) (*E, bool) {
	e, ok := r.nodes[from]
	if !ok {
		return nil, false
	}
	p, ok := e.adj[to]
	return p, ok
}

// ClearNodes implements Repr.
func (r *HashedRepr[I, N, E]) ClearNodes() {
	clear(r.nodes)
}

// ClearEdges implements Repr.
func (r *HashedRepr[I, N, E]) ClearEdges() {
	for _, e := range r.nodes {
		clear(e.adj)
	}
}

// Nodes implements Repr.
func (r *HashedRepr[I, N, E]) Nodes() iter.Seq2[I, N] {
	return func(yield func(I, N) bool) {
		for id, e := range r.nodes {
			if !yield(id, e.node) {
				return
			}
		}
	}
}

// Neighbors implements Repr.
func (r *HashedRepr[I, N, E]) Neighbors(id I) iter.Seq2[I, E] {
	return func(yield func(I, E) bool) {
		e, ok := r.nodes[id]
		if !ok {
			return
		}
		for to, p := range e.adj {
			if !yield(to, *p) {
				return
			}
		}
	}
}

// Order implements Repr.
func (r *HashedRepr[I, N, E]) Order() int {
	return len(r.nodes)
}

// Degree implements Repr.
func (r *HashedRepr[I, N, E]) Degree(id I) int {
	if e, ok := r.nodes[id]; ok {
		return len(e.adj)
	}
	return 0
}
