package fngraph

import (
	"context"
	"errors"

	"github.com/dshills/fngraph/graph"
)

// ErrOwnedVariableBound indicates an owned variable was bound to a second
// operation. Owned variables move into exactly one binding.
var ErrOwnedVariableBound = errors.New("owned variable already bound")

// ErrDuplicateBinding indicates two bindings of one operation share a name.
var ErrDuplicateBinding = errors.New("duplicate binding name")

// ErrNilVariable indicates a binding with a nil variable, or a nil body.
var ErrNilVariable = errors.New("nil variable")

// ErrUnboundVariable indicates a body asked for a name it was not bound to.
var ErrUnboundVariable = errors.New("unbound variable")

// ErrTypeMismatch indicates a body projected a variable onto the wrong type.
var ErrTypeMismatch = errors.New("variable type mismatch")

// ErrLockUpgrade indicates a body asked to write a variable it already holds
// for reading in the same execution. Honouring the request would deadlock.
var ErrLockUpgrade = errors.New("cannot upgrade read access to write access")

// ErrOperationPanic indicates the operation body panicked.
var ErrOperationPanic = errors.New("operation panicked")

// ErrMaxStepsExceeded indicates a run hit its WithMaxSteps budget with
// operations still pending.
var ErrMaxStepsExceeded = errors.New("execution exceeded maximum steps limit")

// ErrNoOperation indicates a node of the function graph carries a nil
// operation.
var ErrNoOperation = errors.New("node has no operation")

// OperationError is the single failure type that reaches the scheduler from
// an operation.
//
// Every failure inside Execute is wrapped: errors returned by the body,
// graph mutation failures (*graph.GraphError), channel errors, type
// mismatches and recovered panics. The original cause is preserved for
// errors.Is / errors.As.
type OperationError struct {
	// NodeID is the node the operation is bound to, set by the executor.
	// Empty when the operation runs outside a graph.
	NodeID string

	// Code classifies the failure: "GRAPH_ERROR", "TYPE_MISMATCH",
	// "UNBOUND_VARIABLE", "LOCK_UPGRADE", "CHANNEL_ERROR", "PANIC",
	// "CANCELLED", "OPERATION_TIMEOUT", "NO_OPERATION" or "BODY_FAILED".
	Code string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *OperationError) Error() string {
	msg := e.Code
	if e.NodeID != "" {
		msg += " at node " + e.NodeID
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the cause.
func (e *OperationError) Unwrap() error {
	return e.Cause
}

// classify picks the OperationError code for a body failure.
func classify(err error) string {
	var gerr *graph.GraphError
	switch {
	case errors.As(err, &gerr):
		return "GRAPH_ERROR"
	case errors.Is(err, ErrTypeMismatch):
		return "TYPE_MISMATCH"
	case errors.Is(err, ErrUnboundVariable):
		return "UNBOUND_VARIABLE"
	case errors.Is(err, ErrLockUpgrade):
		return "LOCK_UPGRADE"
	case errors.Is(err, ErrChannelClosed), errors.Is(err, ErrChannelFull):
		return "CHANNEL_ERROR"
	case errors.Is(err, ErrOperationPanic):
		return "PANIC"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "CANCELLED"
	default:
		return "BODY_FAILED"
	}
}
