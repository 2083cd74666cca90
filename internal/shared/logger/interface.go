package logger

import (
	"io"
	"log/slog"
)

// Interface is the structured logger injected into every component.
// The w-suffixed methods take alternating keys and values.
type Interface interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Interface
	// Named scopes the logger; nested names are joined with dots.
	Named(name string) Interface

	Debugw(msg string, keysAndValues ...any)
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)
}

type slogLogger struct {
	logger *slog.Logger
	// unnamed is logger without the "logger" attribute, so nested Named
	// calls replace the name instead of repeating the key.
	unnamed *slog.Logger
	name    string
}

func newSlogLogger(unnamed *slog.Logger, name string) *slogLogger {
	l := &slogLogger{logger: unnamed, unnamed: unnamed, name: name}
	if name != "" {
		l.logger = unnamed.With("logger", name)
	}
	return l
}

// NewLogger wraps the process logger set up by Init.
func NewLogger() Interface {
	return newSlogLogger(Get(), "")
}

// NewNopLogger returns a logger that discards everything. Used by tests.
func NewNopLogger() Interface {
	return newSlogLogger(slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1})), "")
}

func (l *slogLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *slogLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *slogLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

func (l *slogLogger) Debugw(msg string, keysAndValues ...any) { l.logger.Debug(msg, keysAndValues...) }
func (l *slogLogger) Infow(msg string, keysAndValues ...any)  { l.logger.Info(msg, keysAndValues...) }
func (l *slogLogger) Warnw(msg string, keysAndValues ...any)  { l.logger.Warn(msg, keysAndValues...) }
func (l *slogLogger) Errorw(msg string, keysAndValues ...any) { l.logger.Error(msg, keysAndValues...) }

func (l *slogLogger) With(args ...any) Interface {
	return newSlogLogger(l.unnamed.With(args...), l.name)
}

func (l *slogLogger) Named(name string) Interface {
	if l.name != "" {
		name = l.name + "." + name
	}
	return newSlogLogger(l.unnamed, name)
}
