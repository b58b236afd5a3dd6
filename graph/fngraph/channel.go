package fngraph

import (
	"context"
	"errors"
	"sync"
)

// ErrChannelFull is returned by TrySend when the buffer is full.
var ErrChannelFull = errors.New("channel full")

// ErrChannelClosed is returned when sending on, or draining, a closed channel.
var ErrChannelClosed = errors.New("channel closed")

// NewChannel creates a bounded channel and returns its two endpoints.
//
// Endpoints are meant to be stored as owned variables, one per operation, so
// that values can cross between operations independently of edge order:
//
//	tx, rx := fngraph.NewChannel[int](1)
//	fg.AddOperation("produce", []fngraph.Binding{fngraph.Bind("tx", fngraph.Owned(tx))}, ...)
//	fg.AddOperation("consume", []fngraph.Binding{fngraph.Bind("rx", fngraph.Owned(rx))}, ...)
//
// Executors only poll (TrySend, TryRecv). Blocking Send and Recv exist for
// bodies that talk to goroutines outside the graph; calling them with no
// counterpart running stalls the traversal until ctx is done.
func NewChannel[T any](capacity int) (*Sender[T], *Receiver[T]) {
	if capacity < 0 {
		capacity = 0
	}
	c := &channel[T]{ch: make(chan T, capacity)}
	return &Sender[T]{c: c}, &Receiver[T]{c: c}
}

type channel[T any] struct {
	ch     chan T
	mu     sync.RWMutex // guards closed against concurrent sends
	closed bool
}

// Sender is the sending half of a channel.
type Sender[T any] struct {
	c *channel[T]
}

// TrySend delivers v without blocking.
func (s *Sender[T]) TrySend(v T) error {
	s.c.mu.RLock()
	defer s.c.mu.RUnlock()
	if s.c.closed {
		return ErrChannelClosed
	}
	select {
	case s.c.ch <- v:
		return nil
	default:
		return ErrChannelFull
	}
}

// Send delivers v, blocking until there is room or ctx is done. Close
// waits for blocked senders to finish.
func (s *Sender[T]) Send(ctx context.Context, v T) error {
	s.c.mu.RLock()
	defer s.c.mu.RUnlock()
	if s.c.closed {
		return ErrChannelClosed
	}
	select {
	case s.c.ch <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close closes the channel. Receivers drain buffered values and then get
// ErrChannelClosed. Closing twice is harmless.
func (s *Sender[T]) Close() {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()
	if !s.c.closed {
		s.c.closed = true
		close(s.c.ch)
	}
}

// Len returns the number of buffered values.
func (s *Sender[T]) Len() int {
	return len(s.c.ch)
}

// Cap returns the buffer capacity.
func (s *Sender[T]) Cap() int {
	return cap(s.c.ch)
}

// Receiver is the receiving half of a channel.
type Receiver[T any] struct {
	c *channel[T]
}

// TryRecv polls for a value. It returns (v, true, nil) when one was
// waiting, (zero, false, nil) when none has arrived yet, and
// ErrChannelClosed once the channel is closed and drained.
func (r *Receiver[T]) TryRecv() (T, bool, error) {
	var zero T
	select {
	case v, ok := <-r.c.ch:
		if !ok {
			return zero, false, ErrChannelClosed
		}
		return v, true, nil
	default:
		return zero, false, nil
	}
}

// Recv blocks until a value arrives, the channel is closed and drained, or
// ctx is done.
func (r *Receiver[T]) Recv(ctx context.Context) (T, error) {
	var zero T
	select {
	case v, ok := <-r.c.ch:
		if !ok {
			return zero, ErrChannelClosed
		}
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Len returns the number of buffered values.
func (r *Receiver[T]) Len() int {
	return len(r.c.ch)
}
