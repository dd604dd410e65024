// Package observability carries per-call logging context (source file, comment
// block) so nested components log with consistent attributes.
package observability

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/doccollect/internal/logfields"
)

// LogContext holds structured logging context information.
type LogContext struct {
	File      string
	BlockLine int
	Tag       string
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// WithFile records the source file being collected.
func WithFile(ctx context.Context, path string) context.Context {
	lc := extractLogContext(ctx)
	lc.File = path
	return context.WithValue(ctx, logContextKey, lc)
}

// WithBlockLine records the 1-based line where the current comment block starts.
func WithBlockLine(ctx context.Context, line int) context.Context {
	lc := extractLogContext(ctx)
	lc.BlockLine = line
	return context.WithValue(ctx, logContextKey, lc)
}

// WithTag records the tag currently being dispatched.
func WithTag(ctx context.Context, tag string) context.Context {
	lc := extractLogContext(ctx)
	lc.Tag = tag
	return context.WithValue(ctx, logContextKey, lc)
}

// GetContext returns the structured log context from the provided context.
func GetContext(ctx context.Context) LogContext {
	return extractLogContext(ctx)
}

func extractLogContext(ctx context.Context) LogContext {
	if ctx == nil {
		return LogContext{}
	}
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

// Attrs returns slog attributes for the context's LogContext.
func Attrs(ctx context.Context) []slog.Attr {
	lc := extractLogContext(ctx)
	attrs := make([]slog.Attr, 0, 3)
	if lc.File != "" {
		attrs = append(attrs, logfields.File(lc.File))
	}
	if lc.BlockLine > 0 {
		attrs = append(attrs, logfields.Line(lc.BlockLine))
	}
	if lc.Tag != "" {
		attrs = append(attrs, logfields.Tag(lc.Tag))
	}
	return attrs
}

// Log writes msg through logger (slog.Default when nil) with the context attributes prepended.
func Log(ctx context.Context, logger *slog.Logger, level slog.Level, msg string, attrs ...slog.Attr) {
	if logger == nil {
		logger = slog.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if !logger.Enabled(ctx, level) {
		return
	}
	all := append(Attrs(ctx), attrs...)
	logger.LogAttrs(ctx, level, msg, all...)
}

// DebugContext logs a debug message with context information.
func DebugContext(ctx context.Context, logger *slog.Logger, msg string, attrs ...slog.Attr) {
	Log(ctx, logger, slog.LevelDebug, msg, attrs...)
}

// InfoContext logs an info message with context information.
func InfoContext(ctx context.Context, logger *slog.Logger, msg string, attrs ...slog.Attr) {
	Log(ctx, logger, slog.LevelInfo, msg, attrs...)
}

// WarnContext logs a warning message with context information.
func WarnContext(ctx context.Context, logger *slog.Logger, msg string, attrs ...slog.Attr) {
	Log(ctx, logger, slog.LevelWarn, msg, attrs...)
}
