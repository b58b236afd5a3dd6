package emit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys set on every span.
const (
	AttrRunID  = "fngraph.run_id"
	AttrStep   = "fngraph.step"
	AttrNodeID = "fngraph.node_id"
)

// OTelEmitter turns each event into an OpenTelemetry span.
//
// Each span is named after event.Msg, carries the run id, step and node id
// as fngraph.* attributes plus every Meta entry, and is ended immediately.
// Events with Meta["error"] get an Error status and a recorded error.
//
// Usage:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
//	emitter := emit.NewOTelEmitter(otel.Tracer("fngraph"))
type OTelEmitter struct {
	tracer trace.Tracer
}

// NewOTelEmitter creates an emitter using tracer. A nil tracer falls back to
// the global provider's "fngraph" tracer.
func NewOTelEmitter(tracer trace.Tracer) *OTelEmitter {
	if tracer == nil {
		tracer = otel.Tracer("fngraph")
	}
	return &OTelEmitter{tracer: tracer}
}

// Emit creates and ends one span for the event.
func (o *OTelEmitter) Emit(event Event) {
	_, span := o.tracer.Start(context.Background(), event.Msg)
	defer span.End()

	span.SetAttributes(
		attribute.String(AttrRunID, event.RunID),
		attribute.Int(AttrStep, event.Step),
		attribute.String(AttrNodeID, event.NodeID),
	)
	for key, value := range event.Meta {
		span.SetAttributes(metaAttribute(key, value))
	}

	if msg := event.Err(); msg != "" {
		span.SetStatus(codes.Error, msg)
		span.RecordError(errors.New(msg))
	}
}

// Flush forces export of pending spans when the global provider supports it.
func (o *OTelEmitter) Flush(ctx context.Context) error {
	type flusher interface {
		ForceFlush(context.Context) error
	}
	if f, ok := otel.GetTracerProvider().(flusher); ok {
		return f.ForceFlush(ctx)
	}
	return nil
}

// metaAttribute converts a Meta value to the closest attribute type.
// Durations become milliseconds; unknown types use their fmt representation.
func metaAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	case time.Duration:
		return attribute.Int64(key, v.Milliseconds())
	default:
		return attribute.String(key, fmt.Sprint(v))
	}
}
