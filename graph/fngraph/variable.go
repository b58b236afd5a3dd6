package fngraph

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Mode is the ownership mode of a Variable.
type Mode int

const (
	// ModeShared variables are guarded by a reader/writer lock and may be
	// bound by any number of operations, across graphs.
	ModeShared Mode = iota

	// ModeOwned variables belong to exactly one operation binding. They
	// take no lock because only their holder may touch them.
	ModeOwned
)

// String returns "shared" or "owned".
func (m Mode) String() string {
	if m == ModeOwned {
		return "owned"
	}
	return "shared"
}

// Variable is an independently managed cell holding one value of a type
// fixed at construction.
//
// A Variable is handled by pointer; its lifetime is that of the longest
// holder, which may be several operations in several graphs. Access goes
// through views:
//
//	v := fngraph.Shared(0)
//
//	r := v.Read()
//	n, ok := fngraph.As[int](r) // ok is false when v does not hold an int
//	r.Release()
//
//	w := v.Write()
//	if p, ok := fngraph.AsMut[int](w); ok {
//	    *p = n + 1
//	}
//	w.Release()
//
// Read blocks while a writer holds a shared variable; Write blocks while any
// reader or writer holds it. Lock acquisition never fails. Type projection
// failure is an ordinary false result, never a panic.
type Variable struct {
	mode     Mode
	mu       sync.RWMutex
	value    any // always a *T
	typeName string
	claimed  atomic.Bool
}

// Shared creates a lock-guarded variable holding value.
func Shared[T any](value T) *Variable {
	return newVariable(ModeShared, value)
}

// Owned creates an exclusively held variable holding value. It can be bound
// to one operation only; see ErrOwnedVariableBound.
func Owned[T any](value T) *Variable {
	return newVariable(ModeOwned, value)
}

func newVariable[T any](mode Mode, value T) *Variable {
	return &Variable{
		mode:     mode,
		value:    &value,
		typeName: fmt.Sprintf("%T", &value)[1:],
	}
}

// Mode returns the ownership mode.
func (v *Variable) Mode() Mode {
	return v.mode
}

// IsOwned reports whether v is an owned variable.
func (v *Variable) IsOwned() bool {
	return v.mode == ModeOwned
}

// TypeName returns the Go type of the stored value, e.g. "int" or
// "*fngraph.FnGraph[string]".
func (v *Variable) TypeName() string {
	return v.typeName
}

// String implements fmt.Stringer for debugging and rendering.
func (v *Variable) String() string {
	return v.mode.String() + "(" + v.typeName + ")"
}

// claim marks an owned variable as bound. Shared variables are never
// claimed.
func (v *Variable) claim() bool {
	if v.mode != ModeOwned {
		return true
	}
	return v.claimed.CompareAndSwap(false, true)
}

func (v *Variable) unclaim() {
	if v.mode == ModeOwned {
		v.claimed.Store(false)
	}
}

// Read acquires read access and returns a view that must be released.
func (v *Variable) Read() *ReadView {
	if v.mode == ModeShared {
		v.mu.RLock()
	}
	return &ReadView{v: v, locked: v.mode == ModeShared}
}

// Write acquires exclusive access and returns a view that must be released.
func (v *Variable) Write() *WriteView {
	if v.mode == ModeShared {
		v.mu.Lock()
	}
	return &WriteView{v: v, locked: v.mode == ModeShared}
}

// ReadView is read access to a Variable.
type ReadView struct {
	v      *Variable
	locked bool
	done   bool
}

// Release gives up read access. Calling it more than once is harmless.
func (r *ReadView) Release() {
	if r.done {
		return
	}
	r.done = true
	if r.locked {
		r.v.mu.RUnlock()
	}
}

// Variable returns the variable the view reads.
func (r *ReadView) Variable() *Variable {
	return r.v
}

// WriteView is exclusive access to a Variable.
type WriteView struct {
	v      *Variable
	locked bool
	done   bool
}

// Release gives up write access. Calling it more than once is harmless.
func (w *WriteView) Release() {
	if w.done {
		return
	}
	w.done = true
	if w.locked {
		w.v.mu.Unlock()
	}
}

// Variable returns the variable the view writes.
func (w *WriteView) Variable() *Variable {
	return w.v
}

// As projects a read view onto T and returns a copy of the value. It
// reports false when the variable does not hold a T or the view has been
// released.
func As[T any](r *ReadView) (T, bool) {
	var zero T
	if r == nil || r.done {
		return zero, false
	}
	p, ok := r.v.value.(*T)
	if !ok {
		return zero, false
	}
	return *p, true
}

// AsMut projects a write view onto T and returns a pointer to the stored
// value. The pointer must not be used after the view is released.
func AsMut[T any](w *WriteView) (*T, bool) {
	if w == nil || w.done {
		return nil, false
	}
	p, ok := w.v.value.(*T)
	return p, ok
}

// Load reads v as T under a short-lived read lock.
func Load[T any](v *Variable) (T, bool) {
	r := v.Read()
	defer r.Release()
	return As[T](r)
}

// Store replaces the value of v under a short-lived write lock. It reports
// false, leaving v unchanged, when v does not hold a T.
func Store[T any](v *Variable, value T) bool {
	return Update(v, func(p *T) { *p = value })
}

// Update applies fn to the value of v under a short-lived write lock. It
// reports false, without calling fn, when v does not hold a T.
func Update[T any](v *Variable, fn func(*T)) bool {
	w := v.Write()
	defer w.Release()
	p, ok := AsMut[T](w)
	if !ok {
		return false
	}
	fn(p)
	return true
}
