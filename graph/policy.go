package graph

import (
	"fmt"
	"strings"
)

// ErrorPolicy decides what a traversal does when the visitor fails on a node.
type ErrorPolicy int

const (
	// Abort stops the traversal at the first failing node. The failing node
	// counts as visited but its neighbors are not expanded. This is the
	// default.
	Abort ErrorPolicy = iota

	// Continue records the failure, expands the failing node's neighbors as
	// usual, and keeps going until the frontier is exhausted. All failures
	// are returned together, joined with errors.Join.
	Continue
)

// String returns "abort" or "continue".
func (p ErrorPolicy) String() string {
	switch p {
	case Abort:
		return "abort"
	case Continue:
		return "continue"
	default:
		return fmt.Sprintf("ErrorPolicy(%d)", int(p))
	}
}

// ParseErrorPolicy converts "abort" or "continue" (case-insensitive) to an
// ErrorPolicy. An empty string yields Abort.
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "abort":
		return Abort, nil
	case "continue":
		return Continue, nil
	default:
		return Abort, fmt.Errorf("unknown error policy %q", s)
	}
}

// Order selects the frontier discipline of a full traversal.
type Order int

const (
	// BreadthFirst uses a FIFO queue. This is the default.
	BreadthFirst Order = iota

	// DepthFirst uses a LIFO stack.
	DepthFirst
)

// String returns "bfs" or "dfs".
func (o Order) String() string {
	if o == DepthFirst {
		return "dfs"
	}
	return "bfs"
}

// ParseOrder converts "bfs" or "dfs" (case-insensitive) to an Order. An
// empty string yields BreadthFirst.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bfs":
		return BreadthFirst, nil
	case "dfs":
		return DepthFirst, nil
	default:
		return BreadthFirst, fmt.Errorf("unknown traversal order %q", s)
	}
}
