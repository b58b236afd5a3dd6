package graph

import (
	"cmp"
	"context"
	"errors"
)

// Visitor is the action a Traverser runs on each node, once, the first time
// the node is popped from the frontier.
type Visitor[I cmp.Ordered, N any] func(ctx context.Context, id I, node N) error

// EdgeFilter reports whether the edge from -> to may be followed. It is
// consulted once per edge, when from is expanded.
type EdgeFilter[I cmp.Ordered, E any] func(from, to I, edge E) bool

// Traverser drives BFS and DFS over one graph.
//
// The traversal algorithm is fixed; callers specialize it by supplying the
// node action and the edge eligibility rule. With neither set, a traversal
// simply reports which nodes are reachable from the start and in what order.
//
// The single-step primitives BFSStep and DFSStep expose one iteration of the
// loop so callers can interleave traversal with their own control, such as
// a step budget or cancellation between nodes.
//
// Example:
//
//	t := graph.NewTraverser(g).
//	    WithVisitor(func(ctx context.Context, id string, n int) error {
//	        fmt.Println("visit", id)
//	        return nil
//	    }).
//	    WithEdgeFilter(func(from, to string, w float64) bool { return w > 0 })
//
//	order, err := t.BFS(ctx, "a")
type Traverser[I cmp.Ordered, N, E any] struct {
	g        *Graph[I, N, E]
	visit    Visitor[I, N]
	eligible EdgeFilter[I, E]
	policy   ErrorPolicy
}

// NewTraverser binds a traverser to g. The graph must not be mutated while a
// traversal is in progress.
func NewTraverser[I cmp.Ordered, N, E any](g *Graph[I, N, E]) *Traverser[I, N, E] {
	return &Traverser[I, N, E]{g: g}
}

// WithVisitor sets the node action and returns t.
func (t *Traverser[I, N, E]) WithVisitor(v Visitor[I, N]) *Traverser[I, N, E] {
	t.visit = v
	return t
}

// WithEdgeFilter sets the edge eligibility rule and returns t.
func (t *Traverser[I, N, E]) WithEdgeFilter(f EdgeFilter[I, E]) *Traverser[I, N, E] {
	t.eligible = f
	return t
}

// WithErrorPolicy sets how visitor failures are handled and returns t.
func (t *Traverser[I, N, E]) WithErrorPolicy(p ErrorPolicy) *Traverser[I, N, E] {
	t.policy = p
	return t
}

// Graph returns the bound graph.
func (t *Traverser[I, N, E]) Graph() *Graph[I, N, E] {
	return t.g
}

// ErrorPolicy returns the configured failure policy.
func (t *Traverser[I, N, E]) ErrorPolicy() ErrorPolicy {
	return t.policy
}

// BFS visits every node reachable from start through eligible edges in
// breadth-first order and returns the ids in visit order.
//
// Under Abort the first visitor error ends the traversal; the returned ids
// include the failing node. Under Continue every reachable node is visited
// and the visitor errors are returned joined. A cancelled ctx stops the
// traversal between nodes and returns ctx.Err().
func (t *Traverser[I, N, E]) BFS(ctx context.Context, start I) ([]I, error) {
	return t.Walk(ctx, NewQueue(start))
}

// DFS is BFS with a LIFO frontier.
func (t *Traverser[I, N, E]) DFS(ctx context.Context, start I) ([]I, error) {
	return t.Walk(ctx, NewStack(start))
}

// Traverse runs BFS or DFS according to order.
func (t *Traverser[I, N, E]) Traverse(ctx context.Context, start I, order Order) ([]I, error) {
	if order == DepthFirst {
		return t.DFS(ctx, start)
	}
	return t.BFS(ctx, start)
}

// Walk drains an already seeded frontier.
func (t *Traverser[I, N, E]) Walk(ctx context.Context, f Frontier[I]) ([]I, error) {
	visited := NewVisited[I]()
	var (
		trace []I
		errs  []error
	)
	for {
		if err := ctx.Err(); err != nil {
			return trace, errors.Join(append(errs, err)...)
		}
		id, ok, err := t.Step(ctx, f, visited)
		if !ok {
			break
		}
		trace = append(trace, id)
		if err != nil {
			if t.policy == Abort {
				return trace, err
			}
			errs = append(errs, err)
		}
	}
	return trace, errors.Join(errs...)
}

// BFSStep performs one breadth-first iteration over q.
func (t *Traverser[I, N, E]) BFSStep(ctx context.Context, q *Queue[I], visited Visited[I]) (I, bool, error) {
	return t.Step(ctx, q, visited)
}

// DFSStep performs one depth-first iteration over s.
func (t *Traverser[I, N, E]) DFSStep(ctx context.Context, s *Stack[I], visited Visited[I]) (I, bool, error) {
	return t.Step(ctx, s, visited)
}

// Step performs one iteration: pop ids until one is found that is a node
// and has not been visited, mark it, run the visitor on it, then push every
// unvisited neighbor reachable through an eligible edge. It returns the
// visited id and the visitor's error.
//
// Step returns false once the frontier holds nothing left to visit. Under
// Abort a node whose visitor fails is not expanded.
func (t *Traverser[I, N, E]) Step(ctx context.Context, f Frontier[I], visited Visited[I]) (I, bool, error) {
	for {
		id, ok := f.Pop()
		if !ok {
			var zero I
			return zero, false, nil
		}
		if visited.Has(id) {
			continue
		}
		node, ok := t.g.Node(id)
		if !ok {
			continue
		}
		visited.Mark(id)

		var err error
		if t.visit != nil {
			err = t.visit(ctx, id, node)
		}
		if err != nil && t.policy == Abort {
			return id, true, err
		}
		t.expand(id, f, visited)
		return id, true, err
	}
}

func (t *Traverser[I, N, E]) expand(id I, f Frontier[I], visited Visited[I]) {
	for to, edge := range t.g.Neighbors(id) {
		if visited.Has(to) {
			continue
		}
		if t.eligible != nil && !t.eligible(id, to, edge) {
			continue
		}
		f.Push(to)
	}
}

// Reachable returns the set of ids reachable from start through eligible
// edges, start included when it is a node. No visitor is run.
func (t *Traverser[I, N, E]) Reachable(start I) Visited[I] {
	probe := &Traverser[I, N, E]{g: t.g, eligible: t.eligible}
	visited := NewVisited[I]()
	q := NewQueue(start)
	for {
		if _, ok, _ := probe.Step(context.Background(), q, visited); !ok {
			return visited
		}
	}
}
