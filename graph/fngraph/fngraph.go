// Package fngraph executes dataflow graphs of operations.
//
// A FnGraph is a graph whose nodes carry an *Operation and whose edges carry
// a bool enable flag. Running the graph is a BFS or DFS from a start node in
// which visiting a node executes its operation and only enabled edges are
// followed. Operations communicate exclusively through Variables: shared
// cells guarded by a reader/writer lock, or owned cells bound to exactly one
// operation. A sub-graph is an owned Variable holding another *FnGraph;
// channel endpoints are owned Variables holding a Sender or Receiver.
//
// Example, computing ((0 + 2) * 4) - 1:
//
//	x := fngraph.Shared(0)
//	fg, _ := fngraph.NewOrdered[string]()
//	_ = fg.AddOperation("add", []fngraph.Binding{fngraph.Bind("x", x)}, addTwo)
//	_ = fg.AddOperation("mul", []fngraph.Binding{fngraph.Bind("x", x)}, timesFour)
//	_ = fg.AddOperation("sub", []fngraph.Binding{fngraph.Bind("x", x)}, minusOne)
//	_ = fg.AddEdge("add", "mul", true)
//	_ = fg.AddEdge("mul", "sub", true)
//
//	run, err := fg.BFS(ctx, "add")
//	v, _ := fngraph.Load[int](x) // 7
package fngraph

import (
	"cmp"
	"context"
	"fmt"

	"github.com/dshills/fngraph/graph"
)

// FnGraph is a function graph keyed by I.
//
// A FnGraph is not safe for concurrent mutation, and must not be mutated
// while a run is in progress. Distinct FnGraphs, including sub-graphs run
// from inside an operation, may run concurrently; they synchronise only
// through shared Variables.
type FnGraph[I cmp.Ordered] struct {
	g   *graph.Graph[I, *Operation, bool]
	cfg *config
}

// New wraps a representation in a FnGraph.
func New[I cmp.Ordered](repr graph.Repr[I, *Operation, bool], opts ...Option) (*FnGraph[I], error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("fngraph: %w", err)
		}
	}
	return &FnGraph[I]{
		g:   graph.New(repr, cfg.graphOpts...),
		cfg: cfg,
	}, nil
}

// NewOrdered returns a FnGraph over an ordered representation. Neighbors
// are expanded in ascending id order, which makes runs reproducible.
func NewOrdered[I cmp.Ordered](opts ...Option) (*FnGraph[I], error) {
	return New[I](graph.NewOrderedRepr[I, *Operation, bool](), opts...)
}

// NewHashed returns a FnGraph over a hashed representation. Neighbor order,
// and therefore the order sibling operations run in, is unspecified.
func NewHashed[I cmp.Ordered](opts ...Option) (*FnGraph[I], error) {
	return New[I](graph.NewHashedRepr[I, *Operation, bool](), opts...)
}

// Graph returns the underlying graph for structural queries.
func (fg *FnGraph[I]) Graph() *graph.Graph[I, *Operation, bool] {
	return fg.g
}

// AddNode places op at id. Replacing an existing operation releases the
// replaced operation's owned variables. A nil op is accepted; running
// into it fails with ErrNoOperation.
func (fg *FnGraph[I]) AddNode(id I, op *Operation) error {
	old, had := fg.g.Node(id)
	if err := fg.g.AddNode(id, op); err != nil {
		return err
	}
	if had && old != nil && old != op {
		old.release()
	}
	return nil
}

// AddOperation constructs an Operation from bindings and body and places it
// at id.
func (fg *FnGraph[I]) AddOperation(id I, bindings []Binding, body Body) error {
	op, err := NewOperation(bindings, body)
	if err != nil {
		return fmt.Errorf("operation %v: %w", id, err)
	}
	if err := fg.AddNode(id, op); err != nil {
		op.release()
		return err
	}
	return nil
}

// Operation returns the operation at id.
func (fg *FnGraph[I]) Operation(id I) (*Operation, bool) {
	return fg.g.Node(id)
}

// RemoveOperation removes the node at id with its incoming and outgoing
// edges and releases its owned variables.
func (fg *FnGraph[I]) RemoveOperation(id I) (*Operation, bool) {
	op, ok := fg.g.RemoveNode(id)
	if ok && op != nil {
		op.release()
	}
	return op, ok
}

// AddEdge connects from to to. A disabled edge is kept in the graph but
// not followed.
func (fg *FnGraph[I]) AddEdge(from, to I, enabled bool) error {
	return fg.g.AddEdge(from, to, enabled)
}

// SetEdge changes the enable flag of an existing edge. It returns a
// *graph.GraphError wrapping graph.ErrEdgeNotFound when there is none.
//
// Operations may call SetEdge on their own graph while it runs: the flag
// of an edge is read when its source node is expanded, so toggling an edge
// out of a node that has not run yet takes effect in the current run.
func (fg *FnGraph[I]) SetEdge(from, to I, enabled bool) error {
	p, ok := fg.g.EdgeMut(from, to)
	if !ok {
		return &graph.GraphError{
			Code:    "EDGE_NOT_FOUND",
			Message: fmt.Sprintf("no edge %v -> %v", from, to),
			Err:     graph.ErrEdgeNotFound,
		}
	}
	*p = enabled
	if fg.g.Direction() == graph.Undirected && from != to {
		if q, ok := fg.g.EdgeMut(to, from); ok {
			*q = enabled
		}
	}
	return nil
}

// EnableEdge is SetEdge(from, to, true).
func (fg *FnGraph[I]) EnableEdge(from, to I) error {
	return fg.SetEdge(from, to, true)
}

// DisableEdge is SetEdge(from, to, false).
func (fg *FnGraph[I]) DisableEdge(from, to I) error {
	return fg.SetEdge(from, to, false)
}

// EdgeEnabled reports whether the edge exists and is enabled.
func (fg *FnGraph[I]) EdgeEnabled(from, to I) bool {
	on, ok := fg.g.Edge(from, to)
	return ok && on
}

// RemoveEdge removes the edge from -> to.
func (fg *FnGraph[I]) RemoveEdge(from, to I) bool {
	_, ok := fg.g.RemoveEdge(from, to)
	return ok
}

// Traverser returns a graph.Traverser configured the way runs are: the
// visitor executes the node's operation, only enabled edges are followed,
// and the configured error policy applies. It emits no events and records
// nothing; use it to drive traversal step by step with BFSStep or DFSStep.
func (fg *FnGraph[I]) Traverser() *graph.Traverser[I, *Operation, bool] {
	return graph.NewTraverser(fg.g).
		WithVisitor(func(ctx context.Context, id I, op *Operation) error {
			return fg.execute(ctx, id, op)
		}).
		WithEdgeFilter(enabledOnly[I]).
		WithErrorPolicy(fg.cfg.policy)
}

func enabledOnly[I cmp.Ordered](_, _ I, enabled bool) bool {
	return enabled
}

// execute runs op for node id and stamps the node id on the failure.
func (fg *FnGraph[I]) execute(ctx context.Context, id I, op *Operation) error {
	nodeID := fmt.Sprint(id)
	if op == nil {
		return &OperationError{NodeID: nodeID, Code: "NO_OPERATION", Cause: ErrNoOperation}
	}

	opCtx := ctx
	if fg.cfg.opTimeout > 0 {
		var cancel context.CancelFunc
		opCtx, cancel = context.WithTimeout(ctx, fg.cfg.opTimeout)
		defer cancel()
	}

	err := op.Execute(opCtx)
	if err == nil {
		return nil
	}
	operr, ok := err.(*OperationError)
	if !ok {
		operr = &OperationError{Code: classify(err), Cause: err}
	}
	operr.NodeID = nodeID
	if ctx.Err() == nil && opCtx.Err() == context.DeadlineExceeded {
		operr.Code = "OPERATION_TIMEOUT"
	}
	return operr
}
