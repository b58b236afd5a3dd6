package graph

import "iter"

// FixedRepr stores up to a fixed number of nodes in a preallocated slot
// array and keeps edges in a capacity×capacity matrix indexed by slot.
//
// Node ids are ints in [0, capacity). Capacity never changes after
// construction; ids outside the range fail with ErrNodeOutOfRange on insert
// and are simply absent on lookup.
type FixedRepr[N, E any] struct {
	nodes []slot[N]
	edges [][]slot[E] // edges[from][to]
	order int
}

// NewFixedRepr allocates a FixedRepr with the given capacity.
// A negative capacity is treated as zero.
func NewFixedRepr[N, E any](capacity int) *FixedRepr[N, E] {
	if capacity < 0 {
		capacity = 0
	}
	edges := make([][]slot[E], capacity)
	for i := range edges {
		edges[i] = make([]slot[E], capacity)
	}
	return &FixedRepr[N, E]{
		nodes: make([]slot[N], capacity),
		edges: edges,
	}
}

// Capacity returns the number of addressable slots.
func (r *FixedRepr[N, E]) Capacity() int {
	return len(r.nodes)
}

func (r *FixedRepr[N, E]) inRange(id int) bool {
	return id >= 0 && id < len(r.nodes)
}

// AddNode implements Repr.
func (r *FixedRepr[N, E]) AddNode(id int, node N) error {
	if !r.inRange(id) {
		return ErrNodeOutOfRange
	}
	if !r.nodes[id].ok {
		r.order++
	}
	r.nodes[id] = slot[N]{val: node, ok: true}
	return nil
}

// RemoveNode implements Repr. Both the row and the column of the edge
// matrix are cleared so nothing can point at the freed slot.
func (r *FixedRepr[N, E]) RemoveNode(id int) (N, bool) {
	var zero N
	if !r.inRange(id) || !r.nodes[id].ok {
		return zero, false
	}
	old := r.nodes[id].val
	r.nodes[id] = slot[N]{}
	r.order--
	for i := range r.edges {
		r.edges[id][i] = slot[E]{}
		r.edges[i][id] = slot[E]{}
	}
	return old, true
}

// AddEdge implements Repr.
func (r *FixedRepr[N, E]) AddEdge(from, to int, edge E) error {
	if !r.ContainsNode(from) || !r.ContainsNode(to) {
		return ErrEdgeEndpointMissing
	}
	r.edges[from][to] = slot[E]{val: edge, ok: true}
	return nil
}

// RemoveEdge implements Repr.
func (r *FixedRepr[N, E]) RemoveEdge(from, to int) (E, bool) {
	var zero E
	if !r.ContainsEdge(from, to) {
		return zero, false
	}
	old := r.edges[from][to].val
	r.edges[from][to] = slot[E]{}
	return old, true
}

// ContainsNode implements Repr.
func (r *FixedRepr[N, E]) ContainsNode(id int) bool {
	return r.inRange(id) && r.nodes[id].ok
}

// ContainsEdge implements Repr.
func (r *FixedRepr[N, E]) ContainsEdge(from, to int) bool {
	return r.inRange(from) && r.inRange(to) && r.edges[from][to].ok
}

// Node implements Repr.
func (r *FixedRepr[N, E]) Node(id int) (N, bool) {
	if !r.ContainsNode(id) {
		var zero N
		return zero, false
	}
	return r.nodes[id].val, true
}

// NodeMut implements Repr.
func (r *FixedRepr[N, E]) NodeMut(id int) (*N, bool) {
	if !r.ContainsNode(id) {
		return nil, false
	}
	return &r.nodes[id].val, true
}

// Edge implements Repr.
func (r *FixedRepr[N, E]) Edge(from, to int) (E, bool) {
	if !r.ContainsEdge(from, to) {
		var zero E
		return zero, false
	}
	return r.edges[from][to].val, true
}

// EdgeMut implements Repr.
func (r *FixedRepr[N, E]) EdgeMut(from, to int) (*E, bool) {
	if !r.ContainsEdge(from, to) {
		return nil, false
	}
	return &r.edges[from][to].val, true
}

// ClearNodes implements Repr by filling every slot with empty.
func (r *FixedRepr[N, E]) ClearNodes() {
	clear(r.nodes)
	r.ClearEdges()
	r.order = 0
}

// ClearEdges implements Repr.
func (r *FixedRepr[N, E]) ClearEdges() {
	for i := range r.edges {
		clear(r.edges[i])
	}
}

// Nodes implements Repr. Slots are visited in ascending id order.
func (r *FixedRepr[N, E]) Nodes() iter.Seq2[int, N] {
	return func(yield func(int, N) bool) {
		for id, s := range r.nodes {
			if !s.ok {
				continue
			}
			if !yield(id, s.val) {
				return
			}
		}
	}
}

// Neighbors implements Repr. Columns are visited in ascending id order.
func (r *FixedRepr[N, E]) Neighbors(id int) iter.Seq2[int, E] {
	return func(yield func(int, E) bool) {
		if !r.ContainsNode(id) {
			return
		}
		for to, s := range r.edges[id] {
			if !s.ok {
				continue
			}
			if !yield(to, s.val) {
				return
			}
		}
	}
}

// Order implements Repr.
func (r *FixedRepr[N, E]) Order() int {
	return r.order
}

// Degree implements Repr.
func (r *FixedRepr[N, E]) Degree(id int) int {
	if !r.ContainsNode(id) {
		return 0
	}
	n := 0
	for _, s := range r.edges[id] {
		if s.ok {
			n++
		}
	}
	return n
}
