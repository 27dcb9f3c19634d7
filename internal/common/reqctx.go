package common

import "context"

// RequestMeta carries per-request identifiers for logging. Nothing in it is persisted.
type RequestMeta struct {
	CorrelationID string
	UserID        string
}

type contextKey int

const requestMetaKey contextKey = iota

// WithRequestMeta stores request identifiers in the context.
func WithRequestMeta(ctx context.Context, meta *RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey, meta)
}

// RequestMetaFromContext retrieves the RequestMeta from context, or nil if absent.
func RequestMetaFromContext(ctx context.Context) *RequestMeta {
	meta, _ := ctx.Value(requestMetaKey).(*RequestMeta)
	return meta
}

// ResolveCorrelationID returns the correlation ID from context, or "-" when absent.
func ResolveCorrelationID(ctx context.Context) string {
	if meta := RequestMetaFromContext(ctx); meta != nil && meta.CorrelationID != "" {
		return meta.CorrelationID
	}
	return "-"
}

// ResolveUserID returns the caller-supplied user ID, or "anonymous".
func ResolveUserID(ctx context.Context) string {
	if meta := RequestMetaFromContext(ctx); meta != nil && meta.UserID != "" {
		return meta.UserID
	}
	return "anonymous"
}
