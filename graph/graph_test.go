package graph

import (
	"errors"
	"slices"
	"testing"
)

// reprCase builds an int-keyed graph for one representation.
type reprCase struct {
	name string
	new  func(opts ...Option) *Graph[int, string, int]
}

func allReprs() []reprCase {
	return []reprCase{
		{"fixed", func(opts ...Option) *Graph[int, string, int] { return NewFixed[string, int](16, opts...) }},
		{"growable", func(opts ...Option) *Graph[int, string, int] { return NewGrowable[string, int](opts...) }},
		{"hashed", func(opts ...Option) *Graph[int, string, int] { return NewHashed[int, string, int](opts...) }},
		{"ordered", func(opts ...Option) *Graph[int, string, int] { return NewOrdered[int, string, int](opts...) }},
	}
}

// mustAddNodes inserts the ids with payload "n<id>".
func mustAddNodes(t *testing.T, g *Graph[int, string, int], ids ...int) {
	t.Helper()
	for _, id := range ids {
		if err := g.AddNode(id, "n"+string(rune('0'+id))); err != nil {
			t.Fatalf("AddNode(%d) failed: %v", id, err)
		}
	}
}

func mustAddEdges(t *testing.T, g *Graph[int, string, int], pairs ...[2]int) {
	t.Helper()
	for _, p := range pairs {
		if err := g.AddEdge(p[0], p[1], p[0]*10+p[1]); err != nil {
			t.Fatalf("AddEdge(%d, %d) failed: %v", p[0], p[1], err)
		}
	}
}

// TestGraph_NodeRoundTrip verifies adding then removing a node restores
// ContainsNode and Order on every representation.
func TestGraph_NodeRoundTrip(t *testing.T) {
	for _, rc := range allReprs() {
		t.Run(rc.name, func(t *testing.T) {
			g := rc.new()
			mustAddNodes(t, g, 1, 2)
			before := g.Order()

			if err := g.AddNode(5, "five"); err != nil {
				t.Fatalf("AddNode failed: %v", err)
			}
			if !g.ContainsNode(5) {
				t.Fatal("expected node 5 to exist after AddNode")
			}
			if g.Order() != before+1 {
				t.Errorf("expected order %d, got %d", before+1, g.Order())
			}

			got, ok := g.RemoveNode(5)
			if !ok || got != "five" {
				t.Errorf("expected RemoveNode to return (five, true), got (%q, %v)", got, ok)
			}
			if g.ContainsNode(5) {
				t.Error("expected node 5 to be gone")
			}
			if g.Order() != before {
				t.Errorf("expected order %d, got %d", before, g.Order())
			}

			if _, ok := g.RemoveNode(5); ok {
				t.Error("expected second RemoveNode to report false")
			}
		})
	}
}

// TestGraph_EdgeRoundTrip verifies adding then removing an edge leaves both
// endpoints in place.
func TestGraph_EdgeRoundTrip(t *testing.T) {
	for _, rc := range allReprs() {
		t.Run(rc.name, func(t *testing.T) {
			g := rc.new()
			mustAddNodes(t, g, 1, 2)

			if err := g.AddEdge(1, 2, 7); err != nil {
				t.Fatalf("AddEdge failed: %v", err)
			}
			if !g.ContainsEdge(1, 2) {
				t.Fatal("expected edge 1->2")
			}
			if g.ContainsEdge(2, 1) {
				t.Error("directed graph should not contain 2->1")
			}

			e, ok := g.RemoveEdge(1, 2)
			if !ok || e != 7 {
				t.Errorf("expected RemoveEdge to return (7, true), got (%d, %v)", e, ok)
			}
			if g.ContainsEdge(1, 2) {
				t.Error("expected edge 1->2 to be gone")
			}
			if !g.ContainsNode(1) || !g.ContainsNode(2) {
				t.Error("removing an edge must not remove its endpoints")
			}
		})
	}
}

// TestGraph_AddEdgeMissingEndpoint verifies every representation rejects an
// edge whose endpoint is absent with ErrEdgeEndpointMissing.
func TestGraph_AddEdgeMissingEndpoint(t *testing.T) {
	for _, rc := range allReprs() {
		t.Run(rc.name, func(t *testing.T) {
			g := rc.new()
			mustAddNodes(t, g, 1)

			tests := []struct {
				name     string
				from, to int
			}{
				{"missing target", 1, 3},
				{"missing source", 3, 1},
				{"both missing", 3, 4},
			}
			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					err := g.AddEdge(tt.from, tt.to, 0)
					if !errors.Is(err, ErrEdgeEndpointMissing) {
						t.Fatalf("expected ErrEdgeEndpointMissing, got %v", err)
					}
					var gerr *GraphError
					if !errors.As(err, &gerr) {
						t.Fatalf("expected *GraphError, got %T", err)
					}
					if gerr.Code != "EDGE_ENDPOINT_MISSING" {
						t.Errorf("expected code EDGE_ENDPOINT_MISSING, got %q", gerr.Code)
					}
				})
			}
			if g.Size() != 0 {
				t.Errorf("failed inserts must leave the graph unchanged, size = %d", g.Size())
			}
		})
	}
}

// TestGraph_RemoveNodeDropsIncomingEdges verifies no dangling edge survives
// node removal.
func TestGraph_RemoveNodeDropsIncomingEdges(t *testing.T) {
	for _, rc := range allReprs() {
		t.Run(rc.name, func(t *testing.T) {
			g := rc.new()
			mustAddNodes(t, g, 0, 1, 2)
			mustAddEdges(t, g, [2]int{0, 1}, [2]int{2, 1}, [2]int{1, 2})

			g.RemoveNode(1)

			if g.ContainsEdge(0, 1) || g.ContainsEdge(2, 1) {
				t.Error("incoming edges to a removed node must be dropped")
			}
			if g.Size() != 0 {
				t.Errorf("expected size 0, got %d", g.Size())
			}

			// Re-adding the id must not resurrect old edges.
			mustAddNodes(t, g, 1)
			if g.ContainsEdge(1, 2) || g.ContainsEdge(0, 1) {
				t.Error("re-added node must start without edges")
			}
		})
	}
}

// TestGraph_OverwriteKeepsEdges verifies AddNode on an existing id replaces
// the payload and keeps outgoing edges.
func TestGraph_OverwriteKeepsEdges(t *testing.T) {
	for _, rc := range allReprs() {
		t.Run(rc.name, func(t *testing.T) {
			g := rc.new()
			mustAddNodes(t, g, 1, 2)
			mustAddEdges(t, g, [2]int{1, 2})

			if err := g.AddNode(1, "replaced"); err != nil {
				t.Fatalf("overwrite failed: %v", err)
			}
			if n, _ := g.Node(1); n != "replaced" {
				t.Errorf("expected payload %q, got %q", "replaced", n)
			}
			if !g.ContainsEdge(1, 2) {
				t.Error("overwrite must keep outgoing edges")
			}
			if g.Order() != 2 {
				t.Errorf("expected order 2, got %d", g.Order())
			}
		})
	}
}

// TestGraph_StrictInsert verifies WithStrictInsert rejects duplicates.
func TestGraph_StrictInsert(t *testing.T) {
	for _, rc := range allReprs() {
		t.Run(rc.name, func(t *testing.T) {
			g := rc.new(WithStrictInsert())
			mustAddNodes(t, g, 1)

			err := g.AddNode(1, "again")
			if !errors.Is(err, ErrDuplicateNode) {
				t.Fatalf("expected ErrDuplicateNode, got %v", err)
			}
			if n, _ := g.Node(1); n == "again" {
				t.Error("rejected insert must not change the payload")
			}
		})
	}
}

// TestGraph_Lookups verifies misses are reported through the bool result.
func TestGraph_Lookups(t *testing.T) {
	for _, rc := range allReprs() {
		t.Run(rc.name, func(t *testing.T) {
			g := rc.new()
			mustAddNodes(t, g, 1, 2)
			mustAddEdges(t, g, [2]int{1, 2})

			if _, ok := g.Node(9); ok {
				t.Error("expected miss for node 9")
			}
			if _, ok := g.NodeMut(9); ok {
				t.Error("expected miss for NodeMut(9)")
			}
			if _, ok := g.Edge(2, 1); ok {
				t.Error("expected miss for edge 2->1")
			}
			if _, ok := g.EdgeMut(2, 1); ok {
				t.Error("expected miss for EdgeMut(2, 1)")
			}

			p, ok := g.NodeMut(1)
			if !ok {
				t.Fatal("expected NodeMut(1) to succeed")
			}
			*p = "mutated"
			if n, _ := g.Node(1); n != "mutated" {
				t.Errorf("expected write through NodeMut, got %q", n)
			}

			e, ok := g.EdgeMut(1, 2)
			if !ok {
				t.Fatal("expected EdgeMut(1, 2) to succeed")
			}
			*e = 99
			if v, _ := g.Edge(1, 2); v != 99 {
				t.Errorf("expected write through EdgeMut, got %d", v)
			}
		})
	}
}

// TestGraph_Clear verifies ClearEdges keeps nodes and ClearNodes drops all.
func TestGraph_Clear(t *testing.T) {
	for _, rc := range allReprs() {
		t.Run(rc.name, func(t *testing.T) {
			g := rc.new()
			mustAddNodes(t, g, 0, 1, 2)
			mustAddEdges(t, g, [2]int{0, 1}, [2]int{1, 2})

			g.ClearEdges()
			if g.Order() != 3 || g.Size() != 0 {
				t.Errorf("after ClearEdges expected order 3 size 0, got %d/%d", g.Order(), g.Size())
			}
			if !g.IsEmpty() {
				t.Error("graph with nodes and no edges should be empty")
			}

			mustAddEdges(t, g, [2]int{0, 1})
			g.ClearNodes()
			if !g.IsNull() {
				t.Error("expected null graph after ClearNodes")
			}
			if g.ContainsEdge(0, 1) {
				t.Error("ClearNodes must drop edges")
			}
		})
	}
}

// TestGraph_Iteration verifies Nodes and Neighbors are restartable and
// that ordered representations yield ascending ids.
func TestGraph_Iteration(t *testing.T) {
	for _, rc := range allReprs() {
		t.Run(rc.name, func(t *testing.T) {
			g := rc.new()
			mustAddNodes(t, g, 3, 1, 2)
			mustAddEdges(t, g, [2]int{1, 3}, [2]int{1, 2})

			first := g.NodeIDs()
			second := g.NodeIDs()
			slices.Sort(first)
			slices.Sort(second)
			if !slices.Equal(first, []int{1, 2, 3}) || !slices.Equal(first, second) {
				t.Errorf("expected ids [1 2 3] on both passes, got %v and %v", first, second)
			}

			var nbrs []int
			for to, e := range g.Neighbors(1) {
				if e != 10+to {
					t.Errorf("edge 1->%d payload = %d, want %d", to, e, 10+to)
				}
				nbrs = append(nbrs, to)
			}
			slices.Sort(nbrs)
			if !slices.Equal(nbrs, []int{2, 3}) {
				t.Errorf("expected neighbors [2 3], got %v", nbrs)
			}

			for range g.Neighbors(42) {
				t.Error("unknown id must yield no neighbors")
			}

			// Early break must be honoured.
			count := 0
			for range g.Nodes() {
				count++
				break
			}
			if count != 1 {
				t.Errorf("expected early break after 1 node, got %d", count)
			}
		})
	}

	t.Run("ordered ascending", func(t *testing.T) {
		g := NewOrdered[string, int, bool]()
		for _, id := range []string{"c", "a", "b"} {
			_ = g.AddNode(id, 0)
		}
		if got := g.NodeIDs(); !slices.Equal(got, []string{"a", "b", "c"}) {
			t.Errorf("expected ascending ids, got %v", got)
		}
	})
}

// TestFixed_Capacity verifies out-of-range ids fail on insert and miss on
// lookup.
func TestFixed_Capacity(t *testing.T) {
	g := NewFixed[string, int](2)

	if err := g.AddNode(2, "x"); !errors.Is(err, ErrNodeOutOfRange) {
		t.Errorf("expected ErrNodeOutOfRange for id 2, got %v", err)
	}
	if err := g.AddNode(-1, "x"); !errors.Is(err, ErrNodeOutOfRange) {
		t.Errorf("expected ErrNodeOutOfRange for id -1, got %v", err)
	}
	if g.ContainsNode(5) {
		t.Error("out-of-range lookup must miss")
	}
	if r, ok := g.Repr().(*FixedRepr[string, int]); !ok || r.Capacity() != 2 {
		t.Error("expected FixedRepr with capacity 2")
	}
}

// TestGrowable_Grows verifies sparse inserts leave gaps that are not nodes.
func TestGrowable_Grows(t *testing.T) {
	g := NewGrowable[string, int]()
	if err := g.AddNode(10, "ten"); err != nil {
		t.Fatalf("AddNode(10) failed: %v", err)
	}
	if g.Order() != 1 {
		t.Errorf("expected order 1, got %d", g.Order())
	}
	if g.ContainsNode(5) {
		t.Error("gap slot must not be a node")
	}
	if err := g.AddNode(-1, "neg"); !errors.Is(err, ErrNodeOutOfRange) {
		t.Errorf("expected ErrNodeOutOfRange, got %v", err)
	}
}

// TestGraph_Undirected verifies undirected edges are stored both ways and
// removed both ways.
func TestGraph_Undirected(t *testing.T) {
	for _, rc := range allReprs() {
		t.Run(rc.name, func(t *testing.T) {
			g := rc.new(WithDirection(Undirected))
			mustAddNodes(t, g, 1, 2)
			mustAddEdges(t, g, [2]int{1, 2})

			if !g.ContainsEdge(2, 1) {
				t.Fatal("undirected edge must be visible from both ends")
			}
			g.RemoveEdge(2, 1)
			if g.ContainsEdge(1, 2) {
				t.Error("undirected removal must drop both directions")
			}
			if g.Direction().String() != "undirected" {
				t.Errorf("expected undirected, got %s", g.Direction())
			}
		})
	}
}
