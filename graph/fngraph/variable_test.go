package fngraph

import (
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

// TestVariable_Modes verifies mode and type introspection.
func TestVariable_Modes(t *testing.T) {
	tests := []struct {
		name     string
		v        *Variable
		mode     Mode
		typeName string
		str      string
	}{
		{"shared int", Shared(1), ModeShared, "int", "shared(int)"},
		{"owned string", Owned("x"), ModeOwned, "string", "owned(string)"},
		{"shared slice", Shared([]float64{1}), ModeShared, "[]float64", "shared([]float64)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.v.Mode() != tt.mode {
				t.Errorf("expected mode %v, got %v", tt.mode, tt.v.Mode())
			}
			if tt.v.IsOwned() != (tt.mode == ModeOwned) {
				t.Errorf("IsOwned mismatch for %v", tt.mode)
			}
			if tt.v.TypeName() != tt.typeName {
				t.Errorf("expected type %q, got %q", tt.typeName, tt.v.TypeName())
			}
			if tt.v.String() != tt.str {
				t.Errorf("expected %q, got %q", tt.str, tt.v.String())
			}
		})
	}
}

// TestVariable_Projection verifies typed access and mismatch handling.
func TestVariable_Projection(t *testing.T) {
	v := Shared(41)

	t.Run("matching type", func(t *testing.T) {
		w := v.Write()
		p, ok := AsMut[int](w)
		if !ok {
			t.Fatal("expected int projection to succeed")
		}
		*p++
		w.Release()

		r := v.Read()
		defer r.Release()
		if n, ok := As[int](r); !ok || n != 42 {
			t.Errorf("expected 42, got %d (ok=%v)", n, ok)
		}
	})

	t.Run("mismatched type", func(t *testing.T) {
		r := v.Read()
		defer r.Release()
		if s, ok := As[string](r); ok || s != "" {
			t.Errorf("expected failed projection, got %q", s)
		}
		if _, ok := As[int64](r); ok {
			t.Error("int64 must not project from int")
		}
	})

	t.Run("released view", func(t *testing.T) {
		r := v.Read()
		r.Release()
		r.Release()
		if _, ok := As[int](r); ok {
			t.Error("released read view must not project")
		}
		w := v.Write()
		w.Release()
		if _, ok := AsMut[int](w); ok {
			t.Error("released write view must not project")
		}
	})

	t.Run("helpers", func(t *testing.T) {
		if !Store(v, 7) {
			t.Fatal("Store failed")
		}
		if !Update(v, func(p *int) { *p *= 3 }) {
			t.Fatal("Update failed")
		}
		if n, _ := Load[int](v); n != 21 {
			t.Errorf("expected 21, got %d", n)
		}
		if Store(v, "nope") {
			t.Error("Store of wrong type must fail")
		}
		if n, _ := Load[int](v); n != 21 {
			t.Errorf("failed Store must leave value, got %d", n)
		}
	})
}

// TestVariable_WriterWaitsForReader verifies a writer blocks until an
// outstanding reader releases.
func TestVariable_WriterWaitsForReader(t *testing.T) {
	v := Shared(0)
	r := v.Read()

	var wrote atomic.Bool
	var g errgroup.Group
	g.Go(func() error {
		w := v.Write()
		defer w.Release()
		p, _ := AsMut[int](w)
		*p = 1
		wrote.Store(true)
		return nil
	})

	time.Sleep(20 * time.Millisecond)
	if wrote.Load() {
		t.Fatal("writer acquired access while a reader held the variable")
	}
	if n, _ := As[int](r); n != 0 {
		t.Errorf("reader saw %d before writer ran", n)
	}
	r.Release()

	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	if n, _ := Load[int](v); n != 1 {
		t.Errorf("expected 1 after write, got %d", n)
	}
}

// TestVariable_ReaderWaitsForWriter verifies a reader blocks while a
// writer holds the variable.
func TestVariable_ReaderWaitsForWriter(t *testing.T) {
	v := Shared("before")
	w := v.Write()

	seen := make(chan string, 1)
	var g errgroup.Group
	g.Go(func() error {
		s, _ := Load[string](v)
		seen <- s
		return nil
	})

	select {
	case s := <-seen:
		t.Fatalf("reader returned %q while writer held the variable", s)
	case <-time.After(20 * time.Millisecond):
	}

	p, _ := AsMut[string](w)
	*p = "after"
	w.Release()

	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	if s := <-seen; s != "after" {
		t.Errorf("expected reader to see %q, got %q", "after", s)
	}
}

// TestVariable_ConcurrentReaders verifies readers do not exclude each other.
func TestVariable_ConcurrentReaders(t *testing.T) {
	v := Shared(5)
	r1 := v.Read()
	r2 := v.Read()
	a, _ := As[int](r1)
	b, _ := As[int](r2)
	r1.Release()
	r2.Release()
	if a != 5 || b != 5 {
		t.Errorf("expected both readers to see 5, got %d and %d", a, b)
	}
}

// TestVariable_ConcurrentUpdates verifies writes are serialized.
func TestVariable_ConcurrentUpdates(t *testing.T) {
	v := Shared(0)
	const workers = 50

	var g errgroup.Group
	for range workers {
		g.Go(func() error {
			Update(v, func(p *int) { *p++ })
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	if n, _ := Load[int](v); n != workers {
		t.Errorf("expected %d, got %d", workers, n)
	}
}
