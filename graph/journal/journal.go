// Package journal records which operations a function graph run executed.
//
// A journal is an execution log layered on top of traversal, not a
// persistence format for graphs: it stores one Entry per executed operation
// and never the graph structure or variable contents.
package journal

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Latest when a run has no entries.
var ErrNotFound = errors.New("journal: not found")

// ErrClosed is returned by any call on a closed journal.
var ErrClosed = errors.New("journal: closed")

// ErrDuplicateEntry is returned when an entry with the same (RunID, Seq)
// already exists.
var ErrDuplicateEntry = errors.New("journal: duplicate entry")

// Status is the outcome of one executed operation.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// Entry is one executed operation.
type Entry struct {
	// RunID identifies the traversal.
	RunID string `json:"run_id"`

	// Seq is the 1-based execution position within the run.
	Seq int `json:"seq"`

	// NodeID is the operation's node id rendered with fmt.Sprint.
	NodeID string `json:"node_id"`

	Status Status `json:"status"`

	// Error holds the failure text when Status is StatusError.
	Error string `json:"error,omitempty"`

	// Duration is the wall time the operation body took.
	Duration time.Duration `json:"duration"`

	// At is when the operation finished.
	At time.Time `json:"at"`
}

// Journal stores entries per run.
//
// Implementations must be safe for concurrent use. Entries returns entries
// ordered by Seq regardless of append order.
type Journal interface {
	// Append stores e. A second entry with the same RunID and Seq fails.
	Append(ctx context.Context, e Entry) error

	// Entries returns every entry of runID ordered by Seq. An unknown run
	// yields an empty slice and no error.
	Entries(ctx context.Context, runID string) ([]Entry, error)

	// Latest returns the entry with the highest Seq, or ErrNotFound.
	Latest(ctx context.Context, runID string) (Entry, error)

	// Close releases resources. Further calls return ErrClosed.
	Close() error
}
