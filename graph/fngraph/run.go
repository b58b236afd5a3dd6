package fngraph

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dshills/fngraph/graph"
	"github.com/dshills/fngraph/graph/emit"
	"github.com/dshills/fngraph/graph/journal"
)

// Run is the outcome of one traversal of a FnGraph.
type Run[I any] struct {
	// ID identifies the run in events and journal entries.
	ID string

	// Order is the traversal discipline used.
	Order graph.Order

	// Visited lists the nodes whose operations ran, in execution order,
	// failed ones included.
	Visited []I

	// Failed lists the nodes whose operations returned an error.
	Failed []I

	// Steps is the number of operations executed.
	Steps int

	// Err is the run's failure: the first *OperationError under Abort, every
	// failure joined under Continue, ErrMaxStepsExceeded, or a context error.
	Err error

	// Duration is the wall time from the first step to completion.
	Duration time.Duration
}

// BFS executes the operations reachable from start through enabled edges in
// breadth-first order.
//
// Each reachable operation runs exactly once, even when several enabled
// paths lead to it. A start id that is not a node runs nothing. The
// returned Run is never nil; its Err is also returned.
func (fg *FnGraph[I]) BFS(ctx context.Context, start I) (*Run[I], error) {
	return fg.drive(ctx, fg.NewStepper(start, graph.BreadthFirst))
}

// DFS is BFS in depth-first order.
func (fg *FnGraph[I]) DFS(ctx context.Context, start I) (*Run[I], error) {
	return fg.drive(ctx, fg.NewStepper(start, graph.DepthFirst))
}

// Run executes from start in the order set by WithOrder.
func (fg *FnGraph[I]) Run(ctx context.Context, start I) (*Run[I], error) {
	return fg.drive(ctx, fg.NewStepper(start, fg.cfg.order))
}

func (fg *FnGraph[I]) drive(ctx context.Context, s *Stepper[I]) (*Run[I], error) {
	for {
		if _, ok, _ := s.Next(ctx); !ok {
			break
		}
	}
	return s.Run(), s.Run().Err
}

// Stepper executes a run one operation at a time.
//
// It carries the frontier and visited set between calls so callers can
// interleave execution with their own control flow: inspect variables
// between operations, toggle edges, or stop early. Every observer
// configured on the FnGraph (emitter, metrics, journal) sees the same
// events as for BFS and DFS.
//
//	s := fg.NewStepper("start", graph.BreadthFirst)
//	for {
//	    id, ok, err := s.Next(ctx)
//	    if !ok {
//	        break
//	    }
//	    log.Println("ran", id, err)
//	}
//	run := s.Run()
type Stepper[I cmp.Ordered] struct {
	fg       *FnGraph[I]
	t        *graph.Traverser[I, *Operation, bool]
	frontier graph.Frontier[I]
	visited  graph.Visited[I]
	run      *Run[I]

	started  bool
	done     bool
	began    time.Time
	deadline time.Time
	errs     []error
}

// NewStepper prepares a run from start in the given order. Nothing executes
// until the first call to Next.
func (fg *FnGraph[I]) NewStepper(start I, order graph.Order) *Stepper[I] {
	s := &Stepper[I]{
		fg:      fg,
		visited: graph.NewVisited[I](),
		run:     &Run[I]{ID: fg.cfg.runID(), Order: order},
	}
	if order == graph.DepthFirst {
		s.frontier = graph.NewStack(start)
	} else {
		s.frontier = graph.NewQueue(start)
	}
	s.t = graph.NewTraverser(fg.g).
		WithVisitor(s.visit).
		WithEdgeFilter(enabledOnly[I]).
		WithErrorPolicy(fg.cfg.policy)
	return s
}

// Run returns the run record. It is complete once Next has returned false.
func (s *Stepper[I]) Run() *Run[I] {
	return s.run
}

// Done reports whether the run has finished.
func (s *Stepper[I]) Done() bool {
	return s.done
}

// Pending returns the number of ids waiting in the frontier, including ids
// that will be skipped as already visited.
func (s *Stepper[I]) Pending() int {
	return s.frontier.Len()
}

// Next executes the next operation and returns its node id and error.
//
// Next returns false once the run is over. Under Abort the failing
// operation is still returned with ok == true; the following call returns
// false. Run().Err holds the final outcome.
func (s *Stepper[I]) Next(ctx context.Context) (I, bool, error) {
	var zero I
	if s.done {
		return zero, false, nil
	}
	if !s.started {
		s.begin()
	}
	if !s.deadline.IsZero() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, s.deadline)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		s.finish(errors.Join(append(s.errs, err)...))
		return zero, false, nil
	}

	id, ok, err := s.t.Step(ctx, s.frontier, s.visited)
	if !ok {
		s.finish(errors.Join(s.errs...))
		return zero, false, nil
	}
	if err == ErrMaxStepsExceeded {
		s.fg.cfg.emitter.Emit(emit.Event{
			RunID: s.run.ID,
			Step:  s.run.Steps,
			Msg:   emit.MsgMaxStepsExceeded,
			Meta:  map[string]any{"max_steps": s.fg.cfg.maxSteps},
		})
		s.finish(errors.Join(append(s.errs, ErrMaxStepsExceeded)...))
		return zero, false, nil
	}

	s.run.Visited = append(s.run.Visited, id)
	s.fg.cfg.metrics.UpdateFrontierDepth(s.frontier.Len())
	if err != nil {
		s.run.Failed = append(s.run.Failed, id)
		if s.fg.cfg.policy == graph.Abort {
			s.finish(err)
			return id, true, err
		}
		s.errs = append(s.errs, err)
	}
	return id, true, err
}

func (s *Stepper[I]) begin() {
	s.started = true
	s.began = time.Now()
	if s.fg.cfg.runTimeout > 0 {
		s.deadline = s.began.Add(s.fg.cfg.runTimeout)
	}
	s.fg.cfg.emitter.Emit(emit.Event{
		RunID: s.run.ID,
		Msg:   emit.MsgRunStart,
		Meta:  map[string]any{"order": s.run.Order.String()},
	})
}

// visit is the traverser's node action: enforce the step budget, execute
// the operation, and report it.
func (s *Stepper[I]) visit(ctx context.Context, id I, op *Operation) error {
	cfg := s.fg.cfg
	if cfg.maxSteps > 0 && s.run.Steps >= cfg.maxSteps {
		return ErrMaxStepsExceeded
	}
	s.run.Steps++
	step := s.run.Steps
	nodeID := fmt.Sprint(id)

	cfg.emitter.Emit(emit.Event{RunID: s.run.ID, Step: step, NodeID: nodeID, Msg: emit.MsgNodeStart})
	began := time.Now()
	err := s.fg.execute(ctx, id, op)
	took := time.Since(began)

	meta := map[string]any{"duration_ms": took.Milliseconds()}
	entry := journal.Entry{
		RunID:    s.run.ID,
		Seq:      step,
		NodeID:   nodeID,
		Status:   journal.StatusOK,
		Duration: took,
		At:       began.Add(took),
	}
	msg, status := emit.MsgNodeEnd, "ok"
	if err != nil {
		msg, status = emit.MsgNodeError, "error"
		meta["error"] = err.Error()
		entry.Status = journal.StatusError
		entry.Error = err.Error()
	}
	cfg.emitter.Emit(emit.Event{RunID: s.run.ID, Step: step, NodeID: nodeID, Msg: msg, Meta: meta})
	cfg.metrics.RecordOperation(nodeID, took, status)

	if cfg.journal != nil {
		if jerr := cfg.journal.Append(context.WithoutCancel(ctx), entry); jerr != nil {
			cfg.emitter.Emit(emit.Event{
				RunID:  s.run.ID,
				Step:   step,
				NodeID: nodeID,
				Msg:    emit.MsgJournalError,
				Meta:   map[string]any{"error": jerr.Error()},
			})
		}
	}
	return err
}

func (s *Stepper[I]) finish(err error) {
	s.done = true
	s.run.Err = err
	if !s.started {
		s.began = time.Now()
	}
	s.run.Duration = time.Since(s.began)

	status := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrMaxStepsExceeded):
		status = "max_steps"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = "cancelled"
	default:
		status = "error"
	}
	s.fg.cfg.metrics.RecordRun(s.run.Order.String(), status)

	meta := map[string]any{
		"visited":     len(s.run.Visited),
		"failed":      len(s.run.Failed),
		"duration_ms": s.run.Duration.Milliseconds(),
		"status":      status,
	}
	msg := emit.MsgRunEnd
	if err != nil {
		msg = emit.MsgRunError
		meta["error"] = err.Error()
	}
	s.fg.cfg.emitter.Emit(emit.Event{RunID: s.run.ID, Step: s.run.Steps, Msg: msg, Meta: meta})
}
