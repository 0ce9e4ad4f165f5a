package logger

import (
	"context"
	"log/slog"
)

// ContextExtractor derives an attribute from the context a record is logged with.
// It reports false when the context carries nothing to log.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// extractingHandler appends extractor attributes to each record before
// handing it to the wrapped handler.
type extractingHandler struct {
	inner      slog.Handler
	extractors []ContextExtractor
}

func newExtractingHandler(inner slog.Handler, extractors []ContextExtractor) slog.Handler {
	var kept []ContextExtractor
	for _, fn := range extractors {
		if fn != nil {
			kept = append(kept, fn)
		}
	}
	if len(kept) == 0 {
		return inner
	}
	return &extractingHandler{inner: inner, extractors: kept}
}

func (h *extractingHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.inner.Enabled(ctx, lvl)
}

func (h *extractingHandler) Handle(ctx context.Context, rec slog.Record) error {
	if ctx != nil {
		for _, fn := range h.extractors {
			if attr, ok := fn(ctx); ok {
				rec.AddAttrs(attr)
			}
		}
	}
	return h.inner.Handle(ctx, rec)
}

func (h *extractingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &extractingHandler{inner: h.inner.WithAttrs(attrs), extractors: h.extractors}
}

func (h *extractingHandler) WithGroup(name string) slog.Handler {
	return &extractingHandler{inner: h.inner.WithGroup(name), extractors: h.extractors}
}
