package fngraph

import "fmt"

// Scope gives an operation body access to exactly that operation's
// bindings, by local name.
//
// Views obtained through Read and Write are tracked per variable and stay
// held until the body returns, unless released earlier with Release. Asking
// again for a variable already held, under any of its bound names, returns
// the held view. Asking to write a variable held for reading fails with
// ErrLockUpgrade instead of deadlocking.
//
// A Scope is valid only for the duration of one Execute call and must not
// be used from other goroutines.
type Scope struct {
	op     *Operation
	reads  map[*Variable]*ReadView
	writes map[*Variable]*WriteView
}

func newScope(op *Operation) *Scope {
	return &Scope{op: op}
}

// Variable returns the variable bound to name, without acquiring it.
func (s *Scope) Variable(name string) (*Variable, error) {
	v, ok := s.op.bindings[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnboundVariable, name)
	}
	return v, nil
}

// Read returns read access to name. If the body already holds the variable
// for writing, the returned view reads through that write access.
func (s *Scope) Read(name string) (*ReadView, error) {
	v, err := s.Variable(name)
	if err != nil {
		return nil, err
	}
	if r, ok := s.reads[v]; ok {
		return r, nil
	}
	if _, ok := s.writes[v]; ok {
		return &ReadView{v: v}, nil
	}
	r := v.Read()
	if s.reads == nil {
		s.reads = make(map[*Variable]*ReadView)
	}
	s.reads[v] = r
	return r, nil
}

// Write returns exclusive access to name.
func (s *Scope) Write(name string) (*WriteView, error) {
	v, err := s.Variable(name)
	if err != nil {
		return nil, err
	}
	if w, ok := s.writes[v]; ok {
		return w, nil
	}
	if _, ok := s.reads[v]; ok {
		return nil, fmt.Errorf("%w: %q", ErrLockUpgrade, name)
	}
	w := v.Write()
	if s.writes == nil {
		s.writes = make(map[*Variable]*WriteView)
	}
	s.writes[v] = w
	return w, nil
}

// Release gives up whatever access the body holds on the variable bound to
// name.
func (s *Scope) Release(name string) {
	v, ok := s.op.bindings[name]
	if !ok {
		return
	}
	if r, ok := s.reads[v]; ok {
		r.Release()
		delete(s.reads, v)
	}
	if w, ok := s.writes[v]; ok {
		w.Release()
		delete(s.writes, v)
	}
}

func (s *Scope) releaseAll() {
	for _, r := range s.reads {
		r.Release()
	}
	for _, w := range s.writes {
		w.Release()
	}
	s.reads, s.writes = nil, nil
}

// ReadAs returns a copy of the value bound to name as T.
//
// Unless the body already holds the variable, the read lock is taken and
// released around the copy, so a later Write of the same name is allowed.
func ReadAs[T any](s *Scope, name string) (T, error) {
	var zero T
	v, err := s.Variable(name)
	if err != nil {
		return zero, err
	}

	var r *ReadView
	switch {
	case s.reads[v] != nil:
		r = s.reads[v]
	case s.writes[v] != nil:
		r = &ReadView{v: v}
	default:
		r = v.Read()
		defer r.Release()
	}

	val, ok := As[T](r)
	if !ok {
		return zero, mismatch[T](name, v)
	}
	return val, nil
}

// WriteAs returns a pointer to the value bound to name as T. Write access
// is held until the body returns or Release(name) is called.
func WriteAs[T any](s *Scope, name string) (*T, error) {
	w, err := s.Write(name)
	if err != nil {
		return nil, err
	}
	p, ok := AsMut[T](w)
	if !ok {
		return nil, mismatch[T](name, w.v)
	}
	return p, nil
}

func mismatch[T any](name string, v *Variable) error {
	var want T
	return fmt.Errorf("%w: %q holds %s, not %s", ErrTypeMismatch, name, v.TypeName(), fmt.Sprintf("%T", &want)[1:])
}
