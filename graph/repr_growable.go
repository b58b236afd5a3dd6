package graph

import (
	"iter"
	"slices"
)

// GrowableRepr stores nodes in a slice indexed by int id. Inserting past the
// end grows the slice and leaves the skipped slots empty. Each entry keeps
// its outgoing edges as an adjacency list in insertion order.
type GrowableRepr[N, E any] struct {
	entries []*growEntry[N, E]
	order   int
}

type growEntry[N, E any] struct {
	node N
	adj  []adjPair[E]
}

type adjPair[E any] struct {
	to   int
	edge E
}

// NewGrowableRepr returns an empty GrowableRepr.
func NewGrowableRepr[N, E any]() *GrowableRepr[N, E] {
	return &GrowableRepr[N, E]{}
}

func (r *GrowableRepr[N, E]) entry(id int) *growEntry[N, E] {
	if id < 0 || id >= len(r.entries) {
		return nil
	}
	return r.entries[id]
}

// find returns the index of to in the adjacency list of e, or -1.
func (e *growEntry[N, E]) find(to int) int {
	return slices.IndexFunc(e.adj, func(p adjPair[E]) bool { return p.to == to })
}

// AddNode implements Repr. Negative ids cannot be addressed.
func (r *GrowableRepr[N, E]) AddNode(id int, node N) error {
	if id < 0 {
		return ErrNodeOutOfRange
	}
	if id >= len(r.entries) {
		r.entries = append(r.entries, make([]*growEntry[N, E], id-len(r.entries)+1)...)
	}
	if e := r.entries[id]; e != nil {
		e.node = node
		return nil
	}
	r.entries[id] = &growEntry[N, E]{node: node}
	r.order++
	return nil
}

// RemoveNode implements Repr.
func (r *GrowableRepr[N, E]) RemoveNode(id int) (N, bool) {
	e := r.entry(id)
	if e == nil {
		var zero N
		return zero, false
	}
	r.entries[id] = nil
	r.order--
	for _, other := range r.entries {
		if other == nil {
			continue
		}
		if i := other.find(id); i >= 0 {
			other.adj = slices.Delete(other.adj, i, i+1)
		}
	}
	return e.node, true
}

// AddEdge implements Repr.
func (r *GrowableRepr[N, E]) AddEdge(from, to int, edge E) error {
	e := r.entry(from)
	if e == nil || r.entry(to) == nil {
		return ErrEdgeEndpointMissing
	}
	if i := e.find(to); i >= 0 {
		e.adj[i].edge = edge
		return nil
	}
	e.adj = append(e.adj, adjPair[E]{to: to, edge: edge})
	return nil
}

// RemoveEdge implements Repr.
func (r *GrowableRepr[N, E]) RemoveEdge(from, to int) (E, bool) {
	var zero E
	e := r.entry(from)
	if e == nil {
		return zero, false
	}
	i := e.find(to)
	if i < 0 {
		return zero, false
	}
	old := e.adj[i].edge
	e.adj = slices.Delete(e.adj, i, i+1)
	return old, true
}

// ContainsNode implements Repr.
func (r *GrowableRepr[N, E]) ContainsNode(id int) bool {
	return r.entry(id) != nil
}

// ContainsEdge implements Repr.
func (r *GrowableRepr[N, E]) ContainsEdge(from, to int) bool {
	e := r.entry(from)
	return e != nil && e.find(to) >= 0
}

// Node implements Repr.
func (r *GrowableRepr[N, E]) Node(id int) (N, bool) {
	if e := r.entry(id); e != nil {
		return e.node, true
	}
	var zero N
	return zero, false
}

// NodeMut implements Repr.
func (r *GrowableRepr[N, E]) NodeMut(id int) (*N, bool) {
	if e := r.entry(id); e != nil {
		return &e.node, true
	}
	return nil, false
}

// Edge implements Repr.
func (r *GrowableRepr[N, E]) Edge(from, to int) (E, bool) {
	if p, ok := r.EdgeMut(from, to); ok {
		return *p, true
	}
	var zero E
	return zero, false
}

// EdgeMut implements Repr.
func (r *GrowableRepr[N, E]) EdgeMut(from, to int) (*E, bool) {
	e := r.entry(from)
	if e == nil {
		return nil, false
	}
	i := e.find(to)
	if i < 0 {
		return nil, false
	}
	return &e.adj[i].edge, true
}

// ClearNodes implements Repr.
func (r *GrowableRepr[N, E]) ClearNodes() {
	r.entries = nil
	r.order = 0
}

// ClearEdges implements Repr.
func (r *GrowableRepr[N, E]) ClearEdges() {
	for _, e := range r.entries {
		if e != nil {
			e.adj = nil
		}
	}
}

// Nodes implements Repr. Entries are visited in ascending id order.
func (r *GrowableRepr[N, E]) Nodes() iter.Seq2[int, N] {
	return func(yield func(int, N) bool) {
		for id, e := range r.entries {
			if e == nil {
				continue
			}
			if !yield(id, e.node) {
				return
			}
		}
	}
}

// Neighbors implements Repr. Edges are visited in insertion order.
func (r *GrowableRepr[N, E]) Neighbors(id int) iter.Seq2[int, E] {
	return func(yield func(int, E) bool) {
		e := r.entry(id)
		if e == nil {
			return
		}
		for _, p := range e.adj {
			if !yield(p.to, p.edge) {
				return
			}
		}
	}
}

// Order implements Repr.
func (r *GrowableRepr[N, E]) Order() int {
	return r.order
}

// Degree implements Repr.
func (r *GrowableRepr[N, E]) Degree(id int) int {
	if e := r.entry(id); e != nil {
		return len(e.adj)
	}
	return 0
}
