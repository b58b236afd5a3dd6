package fngraph

import (
	"context"
	"fmt"
	"runtime/debug"
)

// Binding associates a local name with a Variable for one operation.
type Binding struct {
	Name string
	Var  *Variable
}

// Bind is shorthand for Binding{Name: name, Var: v}.
func Bind(name string, v *Variable) Binding {
	return Binding{Name: name, Var: v}
}

// Body is the computation of an Operation. It reaches its variables only
// through the Scope, by the local names given at construction.
type Body func(ctx context.Context, s *Scope) error

// BodyFunc adapts a body that ignores the context.
func BodyFunc(fn func(s *Scope) error) Body {
	return func(_ context.Context, s *Scope) error { return fn(s) }
}

// Operation is a unit of computation: a fixed set of named variable bindings
// and a body that reads and writes them.
//
// Bindings are resolved once, at construction. Every execution sees the same
// Variable handles, so state carries over between runs of a graph.
// Operations are immutable; only the variables they reference change.
//
// Example:
//
//	x := fngraph.Shared(0)
//	inc, err := fngraph.NewOperation(
//	    []fngraph.Binding{fngraph.Bind("x", x)},
//	    func(ctx context.Context, s *fngraph.Scope) error {
//	        p, err := fngraph.WriteAs[int](s, "x")
//	        if err != nil {
//	            return err
//	        }
//	        *p += 2
//	        return nil
//	    },
//	)
type Operation struct {
	names    []string
	bindings map[string]*Variable
	body     Body
}

// NewOperation constructs an Operation.
//
// It fails with ErrDuplicateBinding when two bindings share a name,
// ErrNilVariable for a nil variable or body, and ErrOwnedVariableBound when
// an owned variable is already bound elsewhere. On failure no variable is
// left claimed.
func NewOperation(bindings []Binding, body Body) (*Operation, error) {
	if body == nil {
		return nil, fmt.Errorf("%w: operation body", ErrNilVariable)
	}
	op := &Operation{
		names:    make([]string, 0, len(bindings)),
		bindings: make(map[string]*Variable, len(bindings)),
		body:     body,
	}
	for _, b := range bindings {
		var err error
		switch {
		case b.Var == nil:
			err = fmt.Errorf("%w: binding %q", ErrNilVariable, b.Name)
		case op.bindings[b.Name] != nil:
			err = fmt.Errorf("%w: %q", ErrDuplicateBinding, b.Name)
		case !b.Var.claim():
			err = fmt.Errorf("%w: %q holds %s", ErrOwnedVariableBound, b.Name, b.Var.TypeName())
		}
		if err != nil {
			op.release()
			return nil, err
		}
		op.names = append(op.names, b.Name)
		op.bindings[b.Name] = b.Var
	}
	return op, nil
}

// MustOperation is NewOperation that panics on error. Intended for static
// graph construction in tests and examples.
func MustOperation(bindings []Binding, body Body) *Operation {
	op, err := NewOperation(bindings, body)
	if err != nil {
		panic(err)
	}
	return op
}

// Names returns the binding names in construction order.
func (op *Operation) Names() []string {
	return append([]string(nil), op.names...)
}

// Variable returns the variable bound to name.
func (op *Operation) Variable(name string) (*Variable, bool) {
	v, ok := op.bindings[name]
	return v, ok
}

// release frees the operation's owned variables so they can be bound again.
func (op *Operation) release() {
	for _, v := range op.bindings {
		v.unclaim()
	}
}

// Execute runs the body once with a Scope over this operation's bindings.
//
// Views the body leaves open are released when it returns. Any failure,
// including a panic, comes back as *OperationError; nothing unwinds past
// Execute.
func (op *Operation) Execute(ctx context.Context) (err error) {
	s := newScope(op)
	defer s.releaseAll()
	defer func() {
		if r := recover(); r != nil {
			err = &OperationError{
				Code:  "PANIC",
				Cause: fmt.Errorf("%w: %v\n%s", ErrOperationPanic, r, debug.Stack()),
			}
		}
	}()

	if err := op.body(ctx, s); err != nil {
		if operr, ok := err.(*OperationError); ok && operr.NodeID == "" {
			return operr
		}
		return &OperationError{Code: classify(err), Cause: err}
	}
	return nil
}
