package emit

// Event messages emitted by the function graph executor.
const (
	MsgRunStart         = "run_start"
	MsgRunEnd           = "run_end"
	MsgRunError         = "run_error"
	MsgNodeStart        = "node_start"
	MsgNodeEnd          = "node_end"
	MsgNodeError        = "node_error"
	MsgMaxStepsExceeded = "max_steps_exceeded"
	MsgJournalError     = "journal_error"
)

// Event is one observation from a function graph run.
//
// Run-level events carry an empty NodeID. run_start carries Step 0;
// run_end, run_error and max_steps_exceeded carry the number of operations
// executed when they were emitted. Node-level events carry the 1-based
// position of the operation in the run and the node id rendered with
// fmt.Sprint.
type Event struct {
	// RunID identifies the traversal that emitted the event.
	RunID string

	// Step is the 1-based operation count within the run, or the count so
	// far for run-level events.
	Step int

	// NodeID is the operation's node id, empty for run-level events.
	NodeID string

	// Msg is one of the Msg* constants.
	Msg string

	// Meta holds event-specific data. Common keys:
	//   - "order": "bfs" or "dfs" (run_start)
	//   - "duration_ms": operation or run duration in milliseconds
	//   - "error": failure text (node_error, run_error)
	//   - "visited": number of operations executed (run_end)
	Meta map[string]any
}

// Err returns Meta["error"] as a string, or "" when absent.
func (e Event) Err() string {
	s, _ := e.Meta["error"].(string)
	return s
}
