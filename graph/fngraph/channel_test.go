package fngraph

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

// TestChannel_Poll verifies non-blocking send and receive.
func TestChannel_Poll(t *testing.T) {
	tx, rx := NewChannel[int](2)
	if tx.Cap() != 2 {
		t.Errorf("expected capacity 2, got %d", tx.Cap())
	}

	if _, ok, err := rx.TryRecv(); ok || err != nil {
		t.Fatalf("expected empty poll, got ok=%v err=%v", ok, err)
	}

	for _, v := range []int{1, 2} {
		if err := tx.TrySend(v); err != nil {
			t.Fatalf("TrySend(%d) failed: %v", v, err)
		}
	}
	if err := tx.TrySend(3); !errors.Is(err, ErrChannelFull) {
		t.Fatalf("expected ErrChannelFull, got %v", err)
	}
	if rx.Len() != 2 || tx.Len() != 2 {
		t.Errorf("expected 2 buffered, got %d", rx.Len())
	}

	tx.Close()
	tx.Close()
	if err := tx.TrySend(4); !errors.Is(err, ErrChannelClosed) {
		t.Fatalf("expected ErrChannelClosed, got %v", err)
	}

	// Buffered values drain after close.
	for _, want := range []int{1, 2} {
		got, ok, err := rx.TryRecv()
		if err != nil || !ok || got != want {
			t.Fatalf("expected %d, got %d ok=%v err=%v", want, got, ok, err)
		}
	}
	if _, _, err := rx.TryRecv(); !errors.Is(err, ErrChannelClosed) {
		t.Fatalf("expected ErrChannelClosed after drain, got %v", err)
	}
}

// TestChannel_Blocking verifies Send and Recv across goroutines.
func TestChannel_Blocking(t *testing.T) {
	tx, rx := NewChannel[string](0)
	ctx := context.Background()

	var g errgroup.Group
	g.Go(func() error {
		defer tx.Close()
		for _, s := range []string{"a", "b"} {
			if err := tx.Send(ctx, s); err != nil {
				return err
			}
		}
		return nil
	})

	var got []string
	for {
		s, err := rx.Recv(ctx)
		if errors.Is(err, ErrChannelClosed) {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, s)
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("unexpected values %v", got)
	}
}

// TestChannel_ContextDone verifies blocking calls honour ctx.
func TestChannel_ContextDone(t *testing.T) {
	tx, rx := NewChannel[int](0)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := rx.Recv(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded on Recv, got %v", err)
	}
	if err := tx.Send(ctx, 1); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded on Send, got %v", err)
	}
}
