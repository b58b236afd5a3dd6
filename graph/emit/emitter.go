// Package emit provides event emission and observability for function graph
// runs.
package emit

// Emitter receives observability events from a function graph run.
//
// The executor calls Emit synchronously between operations, so
// implementations should return quickly:
//   - LogEmitter writes one structured log line per event
//   - OTelEmitter turns each event into a span
//   - BufferedEmitter keeps events in memory for inspection
//   - NullEmitter discards everything
//
// Emit must not panic. A backend that cannot accept an event should drop it.
type Emitter interface {
	Emit(event Event)
}

// Multi fans every event out to each of the given emitters in order.
// Nil entries are skipped.
func Multi(emitters ...Emitter) Emitter {
	out := make(multiEmitter, 0, len(emitters))
	for _, e := range emitters {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

type multiEmitter []Emitter

func (m multiEmitter) Emit(event Event) {
	for _, e := range m {
		e.Emit(event)
	}
}
