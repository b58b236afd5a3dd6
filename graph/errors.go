package graph

import (
	"errors"
	"fmt"
)

// ErrNodeNotFound indicates that an operation referenced a node id that is
// not present in the graph.
var ErrNodeNotFound = errors.New("node not found")

// ErrEdgeNotFound indicates that an operation referenced an edge that is not
// present in the graph.
var ErrEdgeNotFound = errors.New("edge not found")

// ErrEdgeEndpointMissing indicates that AddEdge was called while one or both
// endpoints are absent. Every representation reports this uniformly; an edge
// is never stored without both of its nodes.
var ErrEdgeEndpointMissing = errors.New("edge endpoint missing")

// ErrDuplicateNode indicates that AddNode targeted an existing id on a graph
// built with WithStrictInsert.
var ErrDuplicateNode = errors.New("duplicate node")

// ErrNodeOutOfRange indicates that an integer id falls outside the slots a
// fixed or growable representation can address.
var ErrNodeOutOfRange = errors.New("node id out of range")

// GraphError describes a failed structural mutation.
//
// Lookups never produce a GraphError; a missing id on Node, Edge or
// ContainsNode is reported through the boolean result. GraphError is only
// returned by mutations (AddNode, AddEdge, SetEdge-style helpers) so callers
// can tell a programming error in graph construction from an ordinary miss.
//
// Err always holds one of the sentinel errors in this file, so
// errors.Is(err, ErrEdgeEndpointMissing) works through any wrapping layer.
type GraphError struct {
	// Code is a stable machine-readable identifier (e.g. "EDGE_ENDPOINT_MISSING").
	Code string

	// Message describes the failure, including the ids involved.
	Message string

	// Err is the sentinel this error wraps.
	Err error
}

// Error implements the error interface.
func (e *GraphError) Error() string {
	return e.Code + ": " + e.Message
}

// Unwrap returns the wrapped sentinel for errors.Is / errors.As.
func (e *GraphError) Unwrap() error {
	return e.Err
}

// errorCode maps a sentinel to its GraphError code.
func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrNodeNotFound):
		return "NODE_NOT_FOUND"
	case errors.Is(err, ErrEdgeNotFound):
		return "EDGE_NOT_FOUND"
	case errors.Is(err, ErrEdgeEndpointMissing):
		return "EDGE_ENDPOINT_MISSING"
	case errors.Is(err, ErrDuplicateNode):
		return "DUPLICATE_NODE"
	case errors.Is(err, ErrNodeOutOfRange):
		return "NODE_OUT_OF_RANGE"
	default:
		return "GRAPH_ERROR"
	}
}

// newGraphError wraps a sentinel with a formatted message.
func newGraphError(err error, format string, args ...any) *GraphError {
	return &GraphError{
		Code:    errorCode(err),
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}
