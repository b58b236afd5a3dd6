package journal

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// MemJournal keeps entries in memory. Suitable for tests and short-lived
// processes; nothing survives a restart.
type MemJournal struct {
	mu      sync.RWMutex
	entries map[string][]Entry // runID -> entries sorted by Seq
	closed  bool
}

// NewMemJournal returns an empty MemJournal.
func NewMemJournal() *MemJournal {
	return &MemJournal{entries: make(map[string][]Entry)}
}

// Append implements Journal.
func (m *MemJournal) Append(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}

	run := m.entries[e.RunID]
	i, found := slices.BinarySearchFunc(run, e.Seq, func(x Entry, seq int) int { return x.Seq - seq })
	if found {
		return fmt.Errorf("%w: run %s seq %d", ErrDuplicateEntry, e.RunID, e.Seq)
	}
	m.entries[e.RunID] = slices.Insert(run, i, e)
	return nil
}

// Entries implements Journal.
func (m *MemJournal) Entries(_ context.Context, runID string) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	return append([]Entry{}, m.entries[runID]...), nil
}

// Latest implements Journal.
func (m *MemJournal) Latest(_ context.Context, runID string) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return Entry{}, ErrClosed
	}
	run := m.entries[runID]
	if len(run) == 0 {
		return Entry{}, ErrNotFound
	}
	return run[len(run)-1], nil
}

// Close implements Journal.
func (m *MemJournal) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.entries = nil
	return nil
}
