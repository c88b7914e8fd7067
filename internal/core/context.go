package core

import "context"

type contextKey string

const ctxKeySessionID contextKey = "cart_session"

// ContextWithSessionID attaches the visitor's cart session id.
func ContextWithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeySessionID, id)
}

// SessionIDFromContext returns the cart session id, or "" if none is set.
func SessionIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeySessionID).(string); ok {
		return v
	}
	return ""
}
