package logtrace

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const (
	// CorrelationIDKey holds the id tying together the log lines of one call.
	CorrelationIDKey ctxKey = "correlation_id"
	originKey        ctxKey = "origin"
)

// CtxWithCorrelationID returns a child context carrying id. An empty id is
// replaced by a fresh uuid.
func CtxWithCorrelationID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if id == "" {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, CorrelationIDKey, id)
}

// EnsureCorrelationID keeps an existing correlation id or assigns a new one.
func EnsureCorrelationID(ctx context.Context) context.Context {
	if extractCorrelationID(ctx) != "unknown" {
		return ctx
	}
	return CtxWithCorrelationID(ctx, "")
}

// CtxWithOrigin tags the context with the phase that produced the logs.
func CtxWithOrigin(ctx context.Context, origin string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, originKey, origin)
}

// OriginFromContext returns the origin set by CtxWithOrigin, if any.
func OriginFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(originKey).(string); ok {
		return v
	}
	return ""
}

func extractCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return "unknown"
	}
	if v, ok := ctx.Value(CorrelationIDKey).(string); ok && v != "" {
		return v
	}
	return "unknown"
}

// CorrelationIDFromContext returns the correlation id of ctx, or "unknown".
func CorrelationIDFromContext(ctx context.Context) string {
	return extractCorrelationID(ctx)
}
