package emit

import "sync"

// BufferedEmitter keeps every event in memory, grouped by run id.
//
// Useful in tests and for post-run inspection. Nothing is ever evicted; call
// Clear when a run's history is no longer needed. Safe for concurrent use.
type BufferedEmitter struct {
	mu     sync.RWMutex
	events map[string][]Event
}

// HistoryFilter narrows GetHistoryWithFilter. Zero-valued fields match
// anything; set fields are combined with AND.
type HistoryFilter struct {
	NodeID string
	Msg    string
}

// NewBufferedEmitter creates an empty BufferedEmitter.
func NewBufferedEmitter() *BufferedEmitter {
	return &BufferedEmitter{events: make(map[string][]Event)}
}

// Emit appends the event to its run's history.
func (b *BufferedEmitter) Emit(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events[event.RunID] = append(b.events[event.RunID], event)
}

// GetHistory returns a copy of the events recorded for runID, in emission
// order. Unknown runs yield an empty slice.
func (b *BufferedEmitter) GetHistory(runID string) []Event {
	return b.GetHistoryWithFilter(runID, HistoryFilter{})
}

// GetHistoryWithFilter returns the events of runID matching filter.
func (b *BufferedEmitter) GetHistoryWithFilter(runID string, filter HistoryFilter) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := []Event{}
	for _, e := range b.events[runID] {
		if filter.NodeID != "" && e.NodeID != filter.NodeID {
			continue
		}
		if filter.Msg != "" && e.Msg != filter.Msg {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Runs returns the run ids with recorded events, in no particular order.
func (b *BufferedEmitter) Runs() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ids := make([]string, 0, len(b.events))
	for id := range b.events {
		ids = append(ids, id)
	}
	return ids
}

// Clear drops the history of runID, or of every run when runID is empty.
func (b *BufferedEmitter) Clear(runID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if runID == "" {
		b.events = make(map[string][]Event)
		return
	}
	delete(b.events, runID)
}
