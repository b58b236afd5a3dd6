package fngraph

import (
	"errors"
	"time"

	"github.com/dshills/fngraph/graph"
	"github.com/dshills/fngraph/graph/emit"
	"github.com/dshills/fngraph/graph/journal"
	"github.com/google/uuid"
)

// Option is a functional option for configuring a FnGraph.
//
// Example:
//
//	fg, err := fngraph.NewOrdered[string](
//	    fngraph.WithErrorPolicy(graph.Continue),
//	    fngraph.WithMaxSteps(100),
//	    fngraph.WithEmitter(emit.NewLogEmitter(os.Stderr, emit.FormatText)),
//	)
type Option func(*config) error

type config struct {
	policy     graph.ErrorPolicy
	order      graph.Order
	emitter    emit.Emitter
	metrics    *Metrics
	journal    journal.Journal
	maxSteps   int
	opTimeout  time.Duration
	runTimeout time.Duration
	runID      func() string
	graphOpts  []graph.Option
}

func defaultConfig() *config {
	return &config{
		policy:  graph.Abort,
		order:   graph.BreadthFirst,
		emitter: emit.NewNullEmitter(),
		runID:   uuid.NewString,
	}
}

// WithErrorPolicy sets how a failing operation affects the run.
//
// Default: graph.Abort. The run stops at the first failure and returns its
// *OperationError. With graph.Continue the remaining frontier is still
// executed and every failure is returned joined.
func WithErrorPolicy(p graph.ErrorPolicy) Option {
	return func(cfg *config) error {
		cfg.policy = p
		return nil
	}
}

// WithOrder sets the traversal order used by Run. BFS and DFS ignore it.
//
// Default: graph.BreadthFirst.
func WithOrder(o graph.Order) Option {
	return func(cfg *config) error {
		cfg.order = o
		return nil
	}
}

// WithEmitter sets the event sink. Combine several with emit.Multi.
//
// Default: emit.NullEmitter.
func WithEmitter(e emit.Emitter) Option {
	return func(cfg *config) error {
		if e == nil {
			return errors.New("emitter cannot be nil")
		}
		cfg.emitter = e
		return nil
	}
}

// WithMetrics enables Prometheus metrics collection.
func WithMetrics(m *Metrics) Option {
	return func(cfg *config) error {
		cfg.metrics = m
		return nil
	}
}

// WithJournal records one entry per executed operation.
//
// A failing Append does not fail the run; it is reported as a
// journal_error event.
func WithJournal(j journal.Journal) Option {
	return func(cfg *config) error {
		cfg.journal = j
		return nil
	}
}

// WithMaxSteps limits how many operations one run may execute.
//
// Default: 0 (no limit). Edges may form cycles, but each node runs at most
// once per traversal, so a run is already bounded by the node count. The
// budget is for graphs large enough that a partial run is preferable.
//
// When the budget is spent with operations still pending, the run ends with
// ErrMaxStepsExceeded.
func WithMaxSteps(n int) Option {
	return func(cfg *config) error {
		if n < 0 {
			return errors.New("max steps must be >= 0")
		}
		cfg.maxSteps = n
		return nil
	}
}

// WithOperationTimeout bounds each operation body.
//
// Default: 0 (no timeout). The body's ctx expires after d; bodies that
// honour ctx fail with an OperationError coded "OPERATION_TIMEOUT".
func WithOperationTimeout(d time.Duration) Option {
	return func(cfg *config) error {
		if d < 0 {
			return errors.New("operation timeout must be >= 0")
		}
		cfg.opTimeout = d
		return nil
	}
}

// WithRunTimeout bounds a whole run.
//
// Default: 0 (no timeout). When exceeded the traversal stops between
// operations and the run returns context.DeadlineExceeded.
func WithRunTimeout(d time.Duration) Option {
	return func(cfg *config) error {
		if d < 0 {
			return errors.New("run timeout must be >= 0")
		}
		cfg.runTimeout = d
		return nil
	}
}

// WithRunIDFunc replaces the run id generator.
//
// Default: uuid.NewString.
func WithRunIDFunc(fn func() string) Option {
	return func(cfg *config) error {
		if fn == nil {
			return errors.New("run id func cannot be nil")
		}
		cfg.runID = fn
		return nil
	}
}

// WithGraphOptions passes options to the underlying graph, e.g.
// graph.WithStrictInsert.
func WithGraphOptions(opts ...graph.Option) Option {
	return func(cfg *config) error {
		cfg.graphOpts = append(cfg.graphOpts, opts...)
		return nil
	}
}
