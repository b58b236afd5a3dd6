package fngraph

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"
)

// apply returns a body replacing the int bound to "x" with fn(x).
func apply(fn func(int) int) Body {
	return func(_ context.Context, s *Scope) error {
		p, err := WriteAs[int](s, "x")
		if err != nil {
			return err
		}
		*p = fn(*p)
		return nil
	}
}

func noop(context.Context, *Scope) error { return nil }

// TestNewOperation_Validation verifies construction failures.
func TestNewOperation_Validation(t *testing.T) {
	x := Shared(0)

	tests := []struct {
		name     string
		bindings []Binding
		body     Body
		want     error
	}{
		{"nil body", []Binding{Bind("x", x)}, nil, ErrNilVariable},
		{"nil variable", []Binding{Bind("x", nil)}, noop, ErrNilVariable},
		{"duplicate name", []Binding{Bind("x", x), Bind("x", Shared(1))}, noop, ErrDuplicateBinding},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := NewOperation(tt.bindings, tt.body)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if op != nil {
				t.Error("expected nil operation on error")
			}
		})
	}

	t.Run("same shared variable under two names", func(t *testing.T) {
		op, err := NewOperation([]Binding{Bind("a", x), Bind("b", x)}, noop)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !slices.Equal(op.Names(), []string{"a", "b"}) {
			t.Errorf("unexpected names %v", op.Names())
		}
	})
}

// TestNewOperation_OwnedOnce verifies an owned variable binds to one
// operation only and is released by a failed construction.
func TestNewOperation_OwnedOnce(t *testing.T) {
	own := Owned(1)

	if _, err := NewOperation([]Binding{Bind("o", own), Bind("o", Shared(0))}, noop); !errors.Is(err, ErrDuplicateBinding) {
		t.Fatalf("expected duplicate binding, got %v", err)
	}

	first, err := NewOperation([]Binding{Bind("o", own)}, noop)
	if err != nil {
		t.Fatalf("owned variable must be free after failed construction: %v", err)
	}
	if _, err := NewOperation([]Binding{Bind("o", own)}, noop); !errors.Is(err, ErrOwnedVariableBound) {
		t.Fatalf("expected ErrOwnedVariableBound, got %v", err)
	}
	if _, err := NewOperation([]Binding{Bind("a", own), Bind("b", own)}, noop); !errors.Is(err, ErrOwnedVariableBound) {
		t.Fatalf("expected ErrOwnedVariableBound for double binding, got %v", err)
	}

	first.release()
	if _, err := NewOperation([]Binding{Bind("o", own)}, noop); err != nil {
		t.Fatalf("expected rebinding after release, got %v", err)
	}
}

// TestOperation_Execute verifies success and error wrapping.
func TestOperation_Execute(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	tests := []struct {
		name  string
		body  Body
		code  string
		cause error
	}{
		{"body error", func(context.Context, *Scope) error { return boom }, "BODY_FAILED", boom},
		{"panic", func(context.Context, *Scope) error { panic("bad") }, "PANIC", ErrOperationPanic},
		{"unbound name", func(_ context.Context, s *Scope) error {
			_, err := ReadAs[int](s, "missing")
			return err
		}, "UNBOUND_VARIABLE", ErrUnboundVariable},
		{"type mismatch", func(_ context.Context, s *Scope) error {
			_, err := WriteAs[string](s, "x")
			return err
		}, "TYPE_MISMATCH", ErrTypeMismatch},
		{"lock upgrade", func(_ context.Context, s *Scope) error {
			if _, err := s.Read("x"); err != nil {
				return err
			}
			_, err := s.Write("x")
			return err
		}, "LOCK_UPGRADE", ErrLockUpgrade},
		{"cancelled", func(ctx context.Context, _ *Scope) error {
			return context.Canceled
		}, "CANCELLED", context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := Shared(1)
			op := MustOperation([]Binding{Bind("x", x)}, tt.body)
			err := op.Execute(ctx)

			var operr *OperationError
			if !errors.As(err, &operr) {
				t.Fatalf("expected *OperationError, got %T: %v", err, err)
			}
			if operr.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, operr.Code)
			}
			if !errors.Is(err, tt.cause) {
				t.Errorf("expected cause %v in %v", tt.cause, err)
			}
			if operr.NodeID != "" {
				t.Errorf("expected empty node id outside a graph, got %q", operr.NodeID)
			}

			// Every view must be released after Execute, even on failure.
			if !Store(x, 2) {
				t.Error("variable unusable after failed execution")
			}
		})
	}

	t.Run("success reuses bindings", func(t *testing.T) {
		x := Shared(0)
		op := MustOperation([]Binding{Bind("x", x)}, apply(func(n int) int { return n + 2 }))
		for range 2 {
			if err := op.Execute(ctx); err != nil {
				t.Fatalf("Execute failed: %v", err)
			}
		}
		if n, _ := Load[int](x); n != 4 {
			t.Errorf("expected 4, got %d", n)
		}
	})
}

// TestScope_Access verifies view reuse and release within one execution.
func TestScope_Access(t *testing.T) {
	ctx := context.Background()

	t.Run("read through write", func(t *testing.T) {
		x := Shared(1)
		op := MustOperation([]Binding{Bind("x", x)}, func(_ context.Context, s *Scope) error {
			p, err := WriteAs[int](s, "x")
			if err != nil {
				return err
			}
			*p = 10
			n, err := ReadAs[int](s, "x")
			if err != nil {
				return err
			}
			if n != 10 {
				return errors.New("read did not observe write")
			}
			r, err := s.Read("x")
			if err != nil {
				return err
			}
			if v, _ := As[int](r); v != 10 {
				return errors.New("read view did not observe write")
			}
			return nil
		})
		if err := op.Execute(ctx); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("short read then write", func(t *testing.T) {
		x := Shared(3)
		op := MustOperation([]Binding{Bind("x", x)}, func(_ context.Context, s *Scope) error {
			n, err := ReadAs[int](s, "x")
			if err != nil {
				return err
			}
			p, err := WriteAs[int](s, "x")
			if err != nil {
				return err
			}
			*p = n * n
			return nil
		})
		if err := op.Execute(ctx); err != nil {
			t.Fatal(err)
		}
		if n, _ := Load[int](x); n != 9 {
			t.Errorf("expected 9, got %d", n)
		}
	})

	t.Run("release then write", func(t *testing.T) {
		x := Shared(1)
		op := MustOperation([]Binding{Bind("x", x)}, func(_ context.Context, s *Scope) error {
			r1, err := s.Read("x")
			if err != nil {
				return err
			}
			r2, _ := s.Read("x")
			if r1 != r2 {
				return errors.New("expected held view to be reused")
			}
			s.Release("x")
			_, err = WriteAs[int](s, "x")
			return err
		})
		if err := op.Execute(ctx); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("owned variable", func(t *testing.T) {
		own := Owned([]string{"a"})
		op := MustOperation([]Binding{Bind("log", own)}, func(_ context.Context, s *Scope) error {
			p, err := WriteAs[[]string](s, "log")
			if err != nil {
				return err
			}
			*p = append(*p, "b")
			return nil
		})
		if err := op.Execute(ctx); err != nil {
			t.Fatal(err)
		}
		if got, _ := Load[[]string](own); !slices.Equal(got, []string{"a", "b"}) {
			t.Errorf("unexpected owned value %v", got)
		}
		if v, ok := op.Variable("log"); !ok || v != own {
			t.Error("Variable lookup did not return the bound variable")
		}
	})
}

// TestScope_AliasedVariable verifies access is tracked per variable when one
// shared variable is bound under two names.
func TestScope_AliasedVariable(t *testing.T) {
	ctx := context.Background()

	run := func(t *testing.T, body Body) error {
		t.Helper()
		x := Shared(5)
		op := MustOperation([]Binding{Bind("a", x), Bind("b", x)}, body)
		done := make(chan error, 1)
		go func() { done <- op.Execute(ctx) }()
		select {
		case err := <-done:
			if !Store(x, 0) {
				t.Error("variable unusable after execution")
			}
			return err
		case <-time.After(time.Second):
			t.Fatal("Execute did not return")
			return nil
		}
	}

	t.Run("read then write other name", func(t *testing.T) {
		err := run(t, func(_ context.Context, s *Scope) error {
			if _, err := s.Read("a"); err != nil {
				return err
			}
			_, err := WriteAs[int](s, "b")
			return err
		})
		if !errors.Is(err, ErrLockUpgrade) {
			t.Fatalf("expected ErrLockUpgrade, got %v", err)
		}
	})

	t.Run("write then read other name", func(t *testing.T) {
		err := run(t, func(_ context.Context, s *Scope) error {
			p, err := WriteAs[int](s, "a")
			if err != nil {
				return err
			}
			*p = 7
			n, err := ReadAs[int](s, "b")
			if err != nil {
				return err
			}
			if n != 7 {
				return errors.New("alias did not observe write")
			}
			q, err := WriteAs[int](s, "b")
			if err != nil {
				return err
			}
			if p != q {
				return errors.New("expected the held write view")
			}
			return nil
		})
		if err != nil {
			t.Fatal(err)
		}
	})

	t.Run("release through alias", func(t *testing.T) {
		err := run(t, func(_ context.Context, s *Scope) error {
			if _, err := s.Read("a"); err != nil {
				return err
			}
			s.Release("b")
			_, err := WriteAs[int](s, "a")
			return err
		})
		if err != nil {
			t.Fatal(err)
		}
	})
}

// TestOperationError_Message verifies the error text includes node and cause.
func TestOperationError_Message(t *testing.T) {
	err := &OperationError{NodeID: "b", Code: "BODY_FAILED", Cause: errors.New("boom")}
	if got, want := err.Error(), "BODY_FAILED at node b: boom"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	bare := &OperationError{Code: "PANIC"}
	if bare.Error() != "PANIC" {
		t.Errorf("unexpected message %q", bare.Error())
	}
}
