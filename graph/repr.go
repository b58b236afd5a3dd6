package graph

import (
	"cmp"
	"iter"
)

// Repr is the storage strategy behind a Graph.
//
// Four implementations ship with this package:
//   - FixedRepr: preallocated slots plus an N×N edge matrix, int ids in [0, N)
//   - GrowableRepr: a slice of (payload, adjacency list) entries that grows on insert
//   - HashedRepr: hash maps for nodes and per-node adjacency, any ordered id
//   - OrderedRepr: B-tree indexed nodes and adjacency, ascending iteration
//
// Every implementation must hold the same invariant: an edge entry exists only
// while both of its endpoints exist. AddEdge returns ErrEdgeEndpointMissing
// when that would be violated and RemoveNode drops incoming as well as
// outgoing edges.
//
// A Repr is not safe for concurrent use. The Graph that owns it is the only
// intended caller.
type Repr[I cmp.Ordered, N, E any] interface {
	// AddNode inserts or overwrites the payload at id. Outgoing edges of an
	// overwritten node are kept.
	AddNode(id I, node N) error

	// RemoveNode deletes the node and every edge touching it.
	RemoveNode(id I) (N, bool)

	// AddEdge inserts or overwrites the edge from -> to.
	AddEdge(from, to I, edge E) error

	// RemoveEdge deletes the edge from -> to.
	RemoveEdge(from, to I) (E, bool)

	ContainsNode(id I) bool
	ContainsEdge(from, to I) bool

	Node(id I) (N, bool)
	Edge(from, to I) (E, bool)

	// NodeMut and EdgeMut return pointers into the representation's storage.
	// They stay valid until the next structural mutation.
	NodeMut(id I) (*N, bool)
	EdgeMut(from, to I) (*E, bool)

	// ClearNodes removes all nodes and therefore all edges.
	ClearNodes()

	// ClearEdges removes all edges and keeps every node.
	ClearEdges()

	// Nodes yields (id, payload) pairs in representation order.
	Nodes() iter.Seq2[I, N]

	// Neighbors yields the outgoing (neighbor id, edge payload) pairs of id.
	// It yields nothing for an unknown id.
	Neighbors(id I) iter.Seq2[I, E]

	// Order returns the node count.
	Order() int

	// Degree returns the number of outgoing edges of id, 0 when absent.
	Degree(id I) int
}

// slot is an optional value in array-backed storage.
type slot[T any] struct {
	val T
	ok  bool
}
