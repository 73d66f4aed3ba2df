package logger

import (
	"fmt"
	"log/slog"
	"os"
)

// Logger wraps slog with the package/function naming convention used across
// the codebase. Loggers are values; Function and File return derived copies
// so a method-scoped logger never leaks its attributes upward.
type Logger struct {
	handler *slog.Logger
}

var defaultHandler = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
	Level: slog.LevelDebug,
}))

func New(pkg string) Logger {
	return Logger{handler: defaultHandler.With("package", pkg)}
}

func (l Logger) Function(name string) Logger {
	return Logger{handler: l.handler.With("function", name)}
}

func (l Logger) File(name string) Logger {
	return Logger{handler: l.handler.With("file", name)}
}

func (l Logger) With(args ...any) Logger {
	return Logger{handler: l.handler.With(args...)}
}

func (l Logger) Debug(msg string, args ...any) {
	l.handler.Debug(msg, args...)
}

func (l Logger) Info(msg string, args ...any) {
	l.handler.Info(msg, args...)
}

func (l Logger) Warn(msg string, args ...any) {
	l.handler.Warn(msg, args...)
}

// Er logs an error without returning one. Use it where the caller already
// owns an error value or the failure is non-fatal.
func (l Logger) Er(msg string, err error, args ...any) {
	l.handler.Error(msg, append([]any{"error", err}, args...)...)
}

// Err logs and returns a wrapped error so call sites can do
// `return log.Err("failed to ...", err, "key", value)` in one line.
func (l Logger) Err(msg string, err error, args ...any) error {
	l.Er(msg, err, args...)
	return fmt.Errorf("%s: %w", msg, err)
}

// Error logs and returns a new error built from msg alone.
func (l Logger) Error(msg string, args ...any) error {
	l.handler.Error(msg, args...)
	return fmt.Errorf("%s", msg)
}

// ErrMsg is Error without structured context.
func (l Logger) ErrMsg(msg string) error {
	l.handler.Error(msg)
	return fmt.Errorf("%s", msg)
}
