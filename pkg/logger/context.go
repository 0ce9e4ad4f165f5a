package logger

import (
	"context"
	"log/slog"
)

type sessionKey struct{}

// WithSessionID stores the step-up session identifier in ctx so that every
// record logged with that context carries it.
func WithSessionID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionIDFromContext returns the session identifier stored by WithSessionID.
func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// SessionExtractor injects "session_id" from the context.
func SessionExtractor() ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id := SessionIDFromContext(ctx); id != "" {
			return SessionID(id), true
		}
		return slog.Attr{}, false
	}
}
