package context

import (
	"context"

	"github.com/google/uuid"
)

// TraceContext identifies one request across log lines and spans.
// TraceID may arrive from an upstream proxy; RequestID is always assigned
// per request.
type TraceContext struct {
	TraceID   string
	SpanID    string
	RequestID string
}

type traceContextKey struct{}

// WithTrace stores trace identifiers in ctx.
func WithTrace(ctx context.Context, trace *TraceContext) context.Context {
	return context.WithValue(ctx, traceContextKey{}, trace)
}

// GetTrace returns the TraceContext from ctx, or nil outside a request.
func GetTrace(ctx context.Context) *TraceContext {
	v, _ := ctx.Value(traceContextKey{}).(*TraceContext)
	return v
}

// GetTraceID returns the trace ID from ctx. Callers outside a request get
// a fresh one so log correlation still works for background jobs.
func GetTraceID(ctx context.Context) string {
	if t := GetTrace(ctx); t != nil {
		return t.TraceID
	}
	return uuid.New().String()
}

// GetRequestID returns the request ID from ctx, or empty.
func GetRequestID(ctx context.Context) string {
	if t := GetTrace(ctx); t != nil {
		return t.RequestID
	}
	return ""
}

// NewTraceContext generates a full set of identifiers. Used where no
// upstream trace headers exist.
func NewTraceContext() *TraceContext {
	traceID := uuid.New().String()
	return &TraceContext{
		TraceID:   traceID,
		SpanID:    traceID[:16],
		RequestID: uuid.New().String(),
	}
}
