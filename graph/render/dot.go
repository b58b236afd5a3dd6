// Package render turns graphs into Graphviz DOT and SVG.
//
// Rendering only reads the graph through Nodes and Neighbors, so any
// representation can be drawn. Output is sorted by node id, which keeps DOT
// text stable across runs for hashed graphs.
package render

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/dshills/fngraph/graph"
	"github.com/dshills/fngraph/graph/fngraph"
)

// Options configures DOT output. Nil callbacks fall back to defaults.
type Options[I cmp.Ordered, N, E any] struct {
	// Name is the graph name. Default: "G".
	Name string

	// NodeLabel returns the label of a node. Default: the id.
	NodeLabel func(id I, node N) string

	// EdgeAttrs returns extra attributes for an edge, e.g.
	// []string{`color="red"`}. Default: none.
	EdgeAttrs func(from, to I, edge E) []string
}

// DOT writes g as a Graphviz digraph, or graph when g is undirected.
//
// Undirected graphs store each edge in both directions; only the pair with
// from <= to is written.
func DOT[I cmp.Ordered, N, E any](g *graph.Graph[I, N, E], opts Options[I, N, E]) string {
	name := opts.Name
	if name == "" {
		name = "G"
	}
	kind, arrow := "digraph", "->"
	undirected := g.Direction() == graph.Undirected
	if undirected {
		kind, arrow = "graph", "--"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s %q {\n", kind, name)
	buf.WriteString("  node [shape=box, style=rounded];\n")

	ids := g.NodeIDs()
	slices.Sort(ids)

	for _, id := range ids {
		node, _ := g.Node(id)
		label := fmt.Sprint(id)
		if opts.NodeLabel != nil {
			label = opts.NodeLabel(id, node)
		}
		fmt.Fprintf(&buf, "  %q [label=%q];\n", fmt.Sprint(id), label)
	}

	buf.WriteString("\n")
	for _, from := range ids {
		type out struct {
			to   I
			edge E
		}
		var outs []out
		for to, edge := range g.Neighbors(from) {
			if undirected && to < from {
				continue
			}
			outs = append(outs, out{to, edge})
		}
		slices.SortFunc(outs, func(a, b out) int { return cmp.Compare(a.to, b.to) })

		for _, o := range outs {
			var attrs []string
			if opts.EdgeAttrs != nil {
				attrs = opts.EdgeAttrs(from, o.to, o.edge)
			}
			fmt.Fprintf(&buf, "  %q %s %q", fmt.Sprint(from), arrow, fmt.Sprint(o.to))
			if len(attrs) > 0 {
				fmt.Fprintf(&buf, " [%s]", strings.Join(attrs, ", "))
			}
			buf.WriteString(";\n")
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// FnDOT draws a function graph. Enabled edges are blue, disabled edges
// red and dashed. Node labels list the operation's bindings.
func FnDOT[I cmp.Ordered](fg *fngraph.FnGraph[I]) string {
	return DOT(fg.Graph(), Options[I, *fngraph.Operation, bool]{
		NodeLabel: operationLabel[I],
		EdgeAttrs: func(_, _ I, enabled bool) []string {
			if enabled {
				return []string{`color="blue"`}
			}
			return []string{`color="red"`, `style="dashed"`}
		},
	})
}

func operationLabel[I cmp.Ordered](id I, op *fngraph.Operation) string {
	label := fmt.Sprint(id)
	if op == nil {
		return label + "\n(no operation)"
	}
	for _, name := range op.Names() {
		v, _ := op.Variable(name)
		label += "\n" + name + ": " + v.String()
	}
	return label
}

// SVG renders DOT text with the embedded Graphviz.
func SVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
