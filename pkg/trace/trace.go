package trace

import (
	"context"

	"github.com/google/uuid"
)

const TraceIDKey = "trace_id"

// GenerateTraceID creates a new trace ID.
func GenerateTraceID() string {
	return uuid.NewString()
}

// FromContext returns the trace_id stored in ctx, if any.
func FromContext(ctx context.Context) string {
	if traceID, ok := ctx.Value(TraceIDKey).(string); ok {
		return traceID
	}
	return ""
}

// WithContext stores a trace_id in ctx.
func WithContext(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// HeaderName is the HTTP header trace IDs travel in.
func HeaderName() string {
	return "X-Trace-ID"
}
