package emit

import (
	"io"
	"os"
	"slices"

	"github.com/charmbracelet/log"
)

// Format selects the LogEmitter line format.
type Format string

const (
	// FormatText writes human-readable colourless lines. This is the default.
	FormatText Format = "text"

	// FormatJSON writes one JSON object per line.
	FormatJSON Format = "json"

	// FormatLogfmt writes key=value lines.
	FormatLogfmt Format = "logfmt"
)

// LogEmitter writes each event as a structured log line through
// charmbracelet/log.
//
// Node and run failures are logged at error level, everything else at info
// level, so a logger set to error level only reports failures.
//
// Example text output:
//
//	INFO node_end run_id=6f1c... step=2 node_id=b duration_ms=0
//
// Example JSON output:
//
//	{"level":"info","msg":"node_end","run_id":"6f1c...","step":2,"node_id":"b","duration_ms":0}
//
// Usage:
//
//	emitter := emit.NewLogEmitter(os.Stderr, emit.FormatJSON)
//	fg, _ := fngraph.NewOrdered[string](fngraph.WithEmitter(emitter))
type LogEmitter struct {
	logger *log.Logger
}

// NewLogEmitter creates a LogEmitter writing to w (stdout when nil) in the
// given format.
func NewLogEmitter(w io.Writer, format Format) *LogEmitter {
	if w == nil {
		w = os.Stdout
	}
	opts := log.Options{
		Level:     log.InfoLevel,
		Formatter: log.TextFormatter,
	}
	switch format {
	case FormatJSON:
		opts.Formatter = log.JSONFormatter
	case FormatLogfmt:
		opts.Formatter = log.LogfmtFormatter
	}
	return &LogEmitter{logger: log.NewWithOptions(w, opts)}
}

// NewLogEmitterWithLogger wraps an existing logger, keeping its level,
// formatter and prefix.
func NewLogEmitterWithLogger(logger *log.Logger) *LogEmitter {
	return &LogEmitter{logger: logger}
}

// SetLevel changes the minimum level written. Levels are parsed with
// log.ParseLevel ("debug", "info", "warn", "error").
func (l *LogEmitter) SetLevel(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	l.logger.SetLevel(lvl)
	return nil
}

// Logger returns the underlying logger.
func (l *LogEmitter) Logger() *log.Logger {
	return l.logger
}

// Emit writes the event.
func (l *LogEmitter) Emit(event Event) {
	kv := []any{"run_id", event.RunID}
	if event.Step > 0 {
		kv = append(kv, "step", event.Step)
	}
	if event.NodeID != "" {
		kv = append(kv, "node_id", event.NodeID)
	}

	// Sorted for stable output.
	keys := make([]string, 0, len(event.Meta))
	for k := range event.Meta {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		kv = append(kv, k, event.Meta[k])
	}

	switch event.Msg {
	case MsgNodeError, MsgRunError, MsgMaxStepsExceeded, MsgJournalError:
		l.logger.Error(event.Msg, kv...)
	default:
		l.logger.Info(event.Msg, kv...)
	}
}
