// Package observability provides logging, metrics, and tracing.
package observability

import (
	"context"
	"log/slog"
	"os"
)

// Logger is the global structured logger instance used throughout the application.
var Logger *slog.Logger

// LogContextKey is a type for context keys used by the logging package.
type LogContextKey string

// Context keys picked up by the context-aware handler.
const (
	RequestIDKey  LogContextKey = "request_id"
	UserHandleKey LogContextKey = "user_handle"
	TraceIDKey    LogContextKey = "trace_id"
)

// ctxHandler is a slog.Handler that adds context values to the log record.
type ctxHandler struct {
	slog.Handler
}

// Handle adds context values to the record before passing it to the underlying handler.
func (h *ctxHandler) Handle(ctx context.Context, r slog.Record) error {
	if rid, ok := ctx.Value(RequestIDKey).(string); ok {
		r.AddAttrs(slog.String("request_id", rid))
	}
	if handle, ok := ctx.Value(UserHandleKey).(string); ok {
		r.AddAttrs(slog.String("user_handle", handle))
	}
	if tid, ok := ctx.Value(TraceIDKey).(string); ok {
		r.AddAttrs(slog.String("trace_id", tid))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ctxHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ctxHandler{h.Handler.WithAttrs(attrs)}
}

func (h *ctxHandler) WithGroup(name string) slog.Handler {
	return &ctxHandler{h.Handler.WithGroup(name)}
}

func init() {
	var handler slog.Handler
	level := slog.LevelInfo

	if os.Getenv("APP_ENV") == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	Logger = slog.New(&ctxHandler{handler})
}

// WithUserHandle returns a context whose log records carry the acting user.
func WithUserHandle(ctx context.Context, handle string) context.Context {
	return context.WithValue(ctx, UserHandleKey, handle)
}

// WithTraceID returns a context whose log records carry traceID. A context
// that already has one, such as a request context, keeps it.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	if traceID == "" {
		return ctx
	}
	if _, ok := ctx.Value(TraceIDKey).(string); ok {
		return ctx
	}
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// LogReactionStart logs the start of a change reaction.
func LogReactionStart(ctx context.Context, event string, fields map[string]interface{}) {
	attrs := []any{
		slog.String("event", event),
		slog.String("type", "reaction_start"),
	}
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	Logger.DebugContext(ctx, "reaction started", attrs...)
}

// LogReactionEnd logs the completion of a change reaction.
func LogReactionEnd(ctx context.Context, event, outcome string, fields map[string]interface{}) {
	attrs := []any{
		slog.String("event", event),
		slog.String("type", "reaction_end"),
		slog.String("outcome", outcome),
	}
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	Logger.InfoContext(ctx, "reaction completed", attrs...)
}

// LogReactionError logs a failed change reaction.
func LogReactionError(ctx context.Context, event string, err error, fields map[string]interface{}) {
	attrs := []any{
		slog.String("event", event),
		slog.String("type", "reaction_error"),
		slog.String("error", err.Error()),
	}
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	Logger.ErrorContext(ctx, "reaction failed", attrs...)
}

// RepoLogger provides structured logging for repository operations.
type RepoLogger struct {
	tableName string
}

// NewRepoLogger creates a new RepoLogger for the given table.
func NewRepoLogger(tableName string) *RepoLogger {
	return &RepoLogger{tableName: tableName}
}

// LogBatch logs a committed atomic batch.
func (l *RepoLogger) LogBatch(ctx context.Context, writes, chunks int) {
	Logger.InfoContext(ctx, "repository batch committed",
		slog.String("table", l.tableName),
		slog.Int("writes", writes),
		slog.Int("chunks", chunks),
	)
}

// LogError logs a repository error.
func (l *RepoLogger) LogError(ctx context.Context, err error, operation string) {
	Logger.ErrorContext(ctx, "repository error",
		slog.String("table", l.tableName),
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}
