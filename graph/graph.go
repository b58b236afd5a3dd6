// Package graph provides a generic graph contract over interchangeable
// storage strategies, structural predicates, and a BFS/DFS traversal engine
// that other packages specialize with their own node action and edge
// eligibility rule.
package graph

import (
	"cmp"
	"iter"
)

// Direction selects directed or undirected edge semantics.
type Direction int

const (
	// Directed graphs store each edge once, from -> to. This is the default.
	Directed Direction = iota

	// Undirected graphs store every edge in both directions.
	Undirected
)

// String returns "directed" or "undirected".
func (d Direction) String() string {
	if d == Undirected {
		return "undirected"
	}
	return "directed"
}

// Option configures a Graph at construction.
type Option func(*config)

type config struct {
	direction Direction
	strict    bool
}

// WithDirection sets the edge semantics. Defaults to Directed.
func WithDirection(d Direction) Option {
	return func(c *config) {
		c.direction = d
	}
}

// WithStrictInsert makes AddNode fail with ErrDuplicateNode instead of
// overwriting an existing node.
func WithStrictInsert() Option {
	return func(c *config) {
		c.strict = true
	}
}

// Graph is a mapping from node id to node payload plus, per node, a mapping
// from neighbor id to edge payload.
//
// Graph owns exactly one Repr selected at construction and delegates all
// storage to it. Payloads are opaque: every structural query is answered by
// presence or absence of entries, never by payload content.
//
// Type parameters:
//   - I: node identifier, any ordered type
//   - N: node payload
//   - E: edge payload
//
// A Graph is not safe for concurrent use. Callers that traverse from several
// goroutines must provide their own exclusion.
//
// Example:
//
//	g := graph.NewOrdered[string, int, float64]()
//	_ = g.AddNode("a", 1)
//	_ = g.AddNode("b", 2)
//	if err := g.AddEdge("a", "b", 0.5); err != nil {
//	    return err
//	}
//	for id, n := range g.Nodes() {
//	    fmt.Println(id, n)
//	}
type Graph[I cmp.Ordered, N, E any] struct {
	repr Repr[I, N, E]
	cfg  config
}

// New wraps an existing representation.
func New[I cmp.Ordered, N, E any](repr Repr[I, N, E], opts ...Option) *Graph[I, N, E] {
	g := &Graph[I, N, E]{repr: repr}
	for _, opt := range opts {
		opt(&g.cfg)
	}
	return g
}

// NewFixed returns a graph backed by a FixedRepr with room for capacity nodes.
func NewFixed[N, E any](capacity int, opts ...Option) *Graph[int, N, E] {
	return New[int, N, E](NewFixedRepr[N, E](capacity), opts...)
}

// NewGrowable returns a graph backed by a GrowableRepr.
func NewGrowable[N, E any](opts ...Option) *Graph[int, N, E] {
	return New[int, N, E](NewGrowableRepr[N, E](), opts...)
}

// NewHashed returns a graph backed by a HashedRepr.
func NewHashed[I cmp.Ordered, N, E any](opts ...Option) *Graph[I, N, E] {
	return New[I, N, E](NewHashedRepr[I, N, E](), opts...)
}

// NewOrdered returns a graph backed by an OrderedRepr.
func NewOrdered[I cmp.Ordered, N, E any](opts ...Option) *Graph[I, N, E] {
	return New[I, N, E](NewOrderedRepr[I, N, E](), opts...)
}

// Repr returns the underlying representation.
func (g *Graph[I, N, E]) Repr() Repr[I, N, E] {
	return g.repr
}

// Direction returns the edge semantics the graph was built with.
func (g *Graph[I, N, E]) Direction() Direction {
	return g.cfg.direction
}

// AddNode inserts the node, or overwrites its payload when id already
// exists. An overwritten node keeps its outgoing edges.
//
// Returns a *GraphError wrapping ErrDuplicateNode under WithStrictInsert, or
// ErrNodeOutOfRange when an int-indexed representation cannot address id.
func (g *Graph[I, N, E]) AddNode(id I, node N) error {
	if g.cfg.strict && g.repr.ContainsNode(id) {
		return newGraphError(ErrDuplicateNode, "node %v already exists", id)
	}
	if err := g.repr.AddNode(id, node); err != nil {
		return newGraphError(err, "add node %v", id)
	}
	return nil
}

// RemoveNode deletes the node and every edge into or out of it, returning
// the removed payload.
func (g *Graph[I, N, E]) RemoveNode(id I) (N, bool) {
	return g.repr.RemoveNode(id)
}

// AddEdge inserts or overwrites the edge from -> to. Undirected graphs also
// store to -> from.
//
// Returns a *GraphError wrapping ErrEdgeEndpointMissing when either endpoint
// is absent; in that case the graph is unchanged.
func (g *Graph[I, N, E]) AddEdge(from, to I, edge E) error {
	if !g.repr.ContainsNode(from) || !g.repr.ContainsNode(to) {
		return newGraphError(ErrEdgeEndpointMissing, "edge %v -> %v", from, to)
	}
	if err := g.repr.AddEdge(from, to, edge); err != nil {
		return newGraphError(err, "edge %v -> %v", from, to)
	}
	if g.cfg.direction == Undirected && from != to {
		if err := g.repr.AddEdge(to, from, edge); err != nil {
			return newGraphError(err, "edge %v -> %v", to, from)
		}
	}
	return nil
}

// RemoveEdge deletes the edge from -> to (and to -> from when undirected).
func (g *Graph[I, N, E]) RemoveEdge(from, to I) (E, bool) {
	e, ok := g.repr.RemoveEdge(from, to)
	if g.cfg.direction == Undirected && from != to {
		g.repr.RemoveEdge(to, from)
	}
	return e, ok
}

// ContainsNode reports whether id is a node.
func (g *Graph[I, N, E]) ContainsNode(id I) bool {
	return g.repr.ContainsNode(id)
}

// ContainsEdge reports whether the edge from -> to exists.
func (g *Graph[I, N, E]) ContainsEdge(from, to I) bool {
	return g.repr.ContainsEdge(from, to)
}

// Node returns the payload stored at id.
func (g *Graph[I, N, E]) Node(id I) (N, bool) {
	return g.repr.Node(id)
}

// NodeMut returns a pointer to the payload stored at id. The pointer must
// not be retained across structural mutations.
func (g *Graph[I, N, E]) NodeMut(id I) (*N, bool) {
	return g.repr.NodeMut(id)
}

// Edge returns the payload of the edge from -> to.
func (g *Graph[I, N, E]) Edge(from, to I) (E, bool) {
	return g.repr.Edge(from, to)
}

// EdgeMut returns a pointer to the payload of the edge from -> to. Writes
// through it affect only that direction, even on undirected graphs.
func (g *Graph[I, N, E]) EdgeMut(from, to I) (*E, bool) {
	return g.repr.EdgeMut(from, to)
}

// ClearNodes removes every node and edge.
func (g *Graph[I, N, E]) ClearNodes() {
	g.repr.ClearNodes()
}

// ClearEdges removes every edge and keeps the nodes.
func (g *Graph[I, N, E]) ClearEdges() {
	g.repr.ClearEdges()
}

// Nodes returns a restartable sequence of (id, payload) pairs.
func (g *Graph[I, N, E]) Nodes() iter.Seq2[I, N] {
	return g.repr.Nodes()
}

// Neighbors returns a restartable sequence of the outgoing
// (neighbor id, edge payload) pairs of id.
func (g *Graph[I, N, E]) Neighbors(id I) iter.Seq2[I, E] {
	return g.repr.Neighbors(id)
}

// NodeIDs collects the node ids in iteration order.
func (g *Graph[I, N, E]) NodeIDs() []I {
	ids := make([]I, 0, g.repr.Order())
	for id := range g.repr.Nodes() {
		ids = append(ids, id)
	}
	return ids
}
