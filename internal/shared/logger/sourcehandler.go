package logger

import (
	"context"
	"log/slog"
	"runtime"
)

type sourceHandler struct {
	handler   slog.Handler
	threshold slog.Level
}

// NewSourceHandler wraps a handler so that records at or above threshold
// carry their source location. The wrapped handler should be created with
// AddSource: false.
//
// Example:
//
//	handler := NewSourceHandler(tint.NewHandler(os.Stdout, opts), slog.LevelWarn)
func NewSourceHandler(handler slog.Handler, threshold slog.Level) slog.Handler {
	return &sourceHandler{
		handler:   handler,
		threshold: threshold,
	}
}

func (h *sourceHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.threshold && r.PC != 0 {
		fs := runtime.CallersFrames([]uintptr{r.PC})
		f, _ := fs.Next()
		r.AddAttrs(slog.Any(slog.SourceKey, &slog.Source{
			Function: f.Function,
			File:     f.File,
			Line:     f.Line,
		}))
	}

	return h.handler.Handle(ctx, r)
}

func (h *sourceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &sourceHandler{handler: h.handler.WithAttrs(attrs), threshold: h.threshold}
}

func (h *sourceHandler) WithGroup(name string) slog.Handler {
	return &sourceHandler{handler: h.handler.WithGroup(name), threshold: h.threshold}
}

func (h *sourceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}
