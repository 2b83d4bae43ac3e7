package logger_i

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/m-mizutani/goerr/v2"
)

// Logger resolves slog.Default at call time so package-level loggers pick
// up the handler installed by Init.
type Logger struct {
	section string
	args    []any
}

// Init installs the process-wide handler. Text in development, JSON in production.
func Init(prod bool, level slog.Level) {
	options := &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
	}

	var handler slog.Handler
	if prod {
		handler = slog.NewJSONHandler(os.Stdout, options)
	} else {
		handler = slog.NewTextHandler(os.Stdout, options)
	}
	slog.SetDefault(slog.New(handler))
}

// InitStderr is used by stdio binaries where stdout carries protocol traffic.
func InitStderr(level slog.Level) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func NewLogger(section string) *Logger {
	return &Logger{section: section}
}

func (l *Logger) inner() *slog.Logger {
	return slog.Default().With("component", l.section).With(l.args...)
}

func (l *Logger) Info(msg string, args ...any) {
	l.logWithSource(slog.LevelInfo, msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.logWithSource(slog.LevelError, msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.logWithSource(slog.LevelWarn, msg, args...)
}

func (l *Logger) Debug(msg string, args ...any) {
	l.logWithSource(slog.LevelDebug, msg, args...)
}

// Err logs err at error level, expanding goerr values so the context
// attached along the call chain shows up as fields.
func (l *Logger) Err(msg string, err error, args ...any) {
	if err == nil {
		return
	}
	args = append(args, "error", err.Error())
	var ge *goerr.Error
	if errors.As(err, &ge) {
		args = append(args, "values", ge.Values())
	}
	l.logWithSource(slog.LevelError, msg, args...)
}

func (l *Logger) logWithSource(level slog.Level, msg string, args ...any) {
	ctx := context.Background()
	inner := l.inner()
	if !inner.Enabled(ctx, level) {
		return
	}
	var pcs [1]uintptr
	// Skip 3 levels: runtime.Callers, logWithSource, and the level wrapper
	runtime.Callers(3, pcs[:])
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.Add(args...)
	_ = inner.Handler().Handle(ctx, r)
}

func (l *Logger) With(args ...any) *Logger {
	merged := make([]any, 0, len(l.args)+len(args))
	merged = append(merged, l.args...)
	merged = append(merged, args...)
	return &Logger{section: l.section, args: merged}
}

// WithTrace tags the logger with the request trace id carried in ctx, if any.
func (l *Logger) WithTrace(ctx context.Context) *Logger {
	traceID, ok := ctx.Value(config.TRACE_ID_KEY).(string)
	if !ok || traceID == "" {
		return l
	}
	return l.With(config.TRACE_ID_KEY, traceID)
}
