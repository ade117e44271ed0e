// Package tracer provides a lightweight tracing abstraction for the estimation service.
//
// Callers depend on the Tracer and Span interfaces rather than on OpenTelemetry
// directly. NoopTracer serves tests; OTelTracer adapts the global
// OpenTelemetry provider in production.
package tracer

import (
	"context"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span, marking it failed when err is non-nil.
	// End must be called exactly once, typically via defer.
	End(err error)

	SetAttributes(attrs ...Attribute)

	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	// Start creates a span and returns a context carrying it.
	//
	// Example:
	//   ctx, span := t.Start(ctx, tracer.SpanEstimateQuick,
	//       tracer.String(tracer.AttrActivityType, "sport"),
	//   )
	//   defer span.End(nil)
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

// String creates a string attribute.
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute.
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int creates an integer attribute.
func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: int64(value)}
}

// Float64 creates a float64 attribute.
func Float64(key string, value float64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names.
const (
	SpanEstimateQuick = "estimate.quick"
	SpanEstimateFull  = "estimate.full"
	SpanEstimateBatch = "estimate.quick_batch"
	SpanSnapshotSave  = "snapshot.save"
	SpanSnapshotFind  = "snapshot.find"
)

// Attribute keys.
const (
	AttrSessionHash    = "session.hash"
	AttrActivityType   = "activity.type"
	AttrPeriod         = "activity.period"
	AttrDepartment     = "child.department"
	AttrConfirmedCount = "aid.confirmed_count"
	AttrPotentialCount = "aid.potential_count"
	AttrCapped         = "aid.capped"
	AttrBatchSize      = "batch.size"
)

// Event names.
const (
	EventSnapshotSkipped = "snapshot.skipped"
)
