package graph

// Merge adds every node and edge of other to g, giving the union of the two
// graphs. Nodes and edges g already has keep their payloads.
//
// Merge goes through AddNode and AddEdge, so it works across
// representations and follows g's direction: an edge merged into an
// undirected graph is stored both ways. It stops at the first insertion g
// rejects (for example an id outside a fixed graph's capacity) and returns
// that error with the nodes and edges added so far left in place.
func (g *Graph[I, N, E]) Merge(other *Graph[I, N, E]) error {
	if other == nil || other == g {
		return nil
	}
	for id, node := range other.Nodes() {
		if g.repr.ContainsNode(id) {
			continue
		}
		if err := g.AddNode(id, node); err != nil {
			return err
		}
	}
	for from := range other.Nodes() {
		for to, edge := range other.Neighbors(from) {
			if g.repr.ContainsEdge(from, to) {
				continue
			}
			if err := g.AddEdge(from, to, edge); err != nil {
				return err
			}
		}
	}
	return nil
}

// Subtract removes every edge of other from g, giving the difference of the
// two graphs. A node other also has is removed once it is left with no edge
// into or out of it; nodes other does not have are never removed.
//
// Edges are removed through RemoveEdge, so subtracting from an undirected
// graph drops both directions.
func (g *Graph[I, N, E]) Subtract(other *Graph[I, N, E]) {
	if other == nil {
		return
	}

	type pair struct{ from, to I }
	var edges []pair
	var shared []I
	for from := range other.Nodes() {
		if g.repr.ContainsNode(from) {
			shared = append(shared, from)
		}
		for to := range other.Neighbors(from) {
			edges = append(edges, pair{from, to})
		}
	}

	for _, e := range edges {
		if g.repr.ContainsEdge(e.from, e.to) {
			g.RemoveEdge(e.from, e.to)
		}
	}

	if len(shared) == 0 {
		return
	}
	touched := make(map[I]bool)
	for id := range g.repr.Nodes() {
		for to := range g.repr.Neighbors(id) {
			touched[id] = true
			touched[to] = true
		}
	}
	for _, id := range shared {
		if !touched[id] {
			g.RemoveNode(id)
		}
	}
}
