package graph

// Structural predicates. All of them are pure and look only at which node
// and edge entries exist.

// Order returns the number of nodes.
func (g *Graph[I, N, E]) Order() int {
	return g.repr.Order()
}

// Size returns the number of edges.
//
// Directed graphs count every stored edge once, so a reciprocal pair a->b,
// b->a counts as two. Undirected graphs store each edge in both directions
// and count the pair once; a self-loop is stored once and counts once.
func (g *Graph[I, N, E]) Size() int {
	if g.cfg.direction == Undirected {
		return g.undirectedSize()
	}
	return g.directedSize()
}

func (g *Graph[I, N, E]) directedSize() int {
	n := 0
	for id := range g.repr.Nodes() {
		n += g.repr.Degree(id)
	}
	return n
}

func (g *Graph[I, N, E]) undirectedSize() int {
	pairs, loops := 0, 0
	for id := range g.repr.Nodes() {
		for to := range g.repr.Neighbors(id) {
			if to == id {
				loops++
			} else {
				pairs++
			}
		}
	}
	return pairs/2 + loops
}

// IsNull reports whether the graph has no nodes.
func (g *Graph[I, N, E]) IsNull() bool {
	return g.repr.Order() == 0
}

// IsEmpty reports whether the graph has nodes but no edges. A null graph is
// not empty.
func (g *Graph[I, N, E]) IsEmpty() bool {
	if g.repr.Order() == 0 {
		return false
	}
	for id := range g.repr.Nodes() {
		if g.repr.Degree(id) > 0 {
			return false
		}
	}
	return true
}

// IsTrivial reports whether the graph has exactly one node and that node
// has no outgoing edges.
func (g *Graph[I, N, E]) IsTrivial() bool {
	if g.repr.Order() != 1 {
		return false
	}
	for id := range g.repr.Nodes() {
		return g.repr.Degree(id) == 0
	}
	return false
}

// IsComplete reports whether every pair of distinct nodes is joined by an
// edge: every ordered pair for directed graphs, every unordered pair for
// undirected ones. Self-loops are ignored. Null and single-node graphs are
// complete.
func (g *Graph[I, N, E]) IsComplete() bool {
	want := g.repr.Order() - 1
	for id := range g.repr.Nodes() {
		if g.distinctNeighbors(id) != want {
			return false
		}
	}
	return true
}

// distinctNeighbors counts the outgoing edges of id that are not self-loops.
func (g *Graph[I, N, E]) distinctNeighbors(id I) int {
	n := 0
	for to := range g.repr.Neighbors(id) {
		if to != id {
			n++
		}
	}
	return n
}

// IsChildNode reports whether id is a node of the graph.
func (g *Graph[I, N, E]) IsChildNode(id I) bool {
	return g.repr.ContainsNode(id)
}

// AreAdjacentNodes reports whether the edge a -> b exists.
func (g *Graph[I, N, E]) AreAdjacentNodes(a, b I) bool {
	return g.repr.ContainsEdge(a, b)
}

// AreAdjacentEdges reports whether a -> b and b -> c both exist.
func (g *Graph[I, N, E]) AreAdjacentEdges(a, b, c I) bool {
	return g.repr.ContainsEdge(a, b) && g.repr.ContainsEdge(b, c)
}

// IsSubgraph reports whether sub is a subgraph of g: every node of sub is a
// node of g, and every outgoing neighbor of such a node in sub is also a
// neighbor of it in g.
func (g *Graph[I, N, E]) IsSubgraph(sub *Graph[I, N, E]) bool {
	for id := range sub.repr.Nodes() {
		if !g.repr.ContainsNode(id) {
			return false
		}
		for to := range sub.repr.Neighbors(id) {
			if !g.repr.ContainsEdge(id, to) {
				return false
			}
		}
	}
	return true
}

// IsProperSubgraph reports whether sub is a subgraph of g and the two differ
// in structure.
func (g *Graph[I, N, E]) IsProperSubgraph(sub *Graph[I, N, E]) bool {
	return g.IsSubgraph(sub) && !g.sameStructure(sub)
}

// IsImproperSubgraph reports whether sub and g have identical structure:
// the same node set and the same neighbor set for every node.
func (g *Graph[I, N, E]) IsImproperSubgraph(sub *Graph[I, N, E]) bool {
	return g.sameStructure(sub)
}

// IsSpanningSubgraph reports whether sub is a subgraph of g with the same
// number of nodes.
func (g *Graph[I, N, E]) IsSpanningSubgraph(sub *Graph[I, N, E]) bool {
	return g.repr.Order() == sub.repr.Order() && g.IsSubgraph(sub)
}

// sameStructure is mutual containment with matching counts.
func (g *Graph[I, N, E]) sameStructure(other *Graph[I, N, E]) bool {
	if g.repr.Order() != other.repr.Order() {
		return false
	}
	for id := range g.repr.Nodes() {
		if g.repr.Degree(id) != other.repr.Degree(id) {
			return false
		}
	}
	return g.IsSubgraph(other)
}
