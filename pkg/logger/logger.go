// Package logger provides structured logging for su2cfg.
package logger

import (
	"context"
	"io"
	"log/slog"
)

// LogFilePermissions defines the file permissions for log files (owner read/write only).
const LogFilePermissions = 0o600

// Logger provides structured logging interface.
type Logger interface {
	// Debug logs debug-level messages with optional key-value pairs.
	Debug(msg string, keysAndValues ...any)

	// Info logs info-level messages with optional key-value pairs.
	Info(msg string, keysAndValues ...any)

	// Error logs error-level messages with optional key-value pairs.
	Error(msg string, keysAndValues ...any)

	// With returns a new logger with additional key-value pairs.
	With(keysAndValues ...any) Logger
}

// SlogAdapter implements Logger on top of log/slog.
type SlogAdapter struct {
	logger  *slog.Logger
	handler *CustomHandler
}

// NewSlogAdapter wraps an arbitrary slog handler.
func NewSlogAdapter(h slog.Handler) *SlogAdapter {
	custom, _ := h.(*CustomHandler)

	return &SlogAdapter{logger: slog.New(h), handler: custom}
}

// NewWriterLogger creates a logger writing to w. The level is derived from
// the debug and trace flags with LevelFromFlags.
func NewWriterLogger(w io.Writer, debug, trace bool) *SlogAdapter {
	return NewSlogAdapter(NewWriterHandler(w, LevelFromFlags(debug, trace)))
}

// NewFileLogger creates a logger appending to the file at path.
func NewFileLogger(path string, debug, trace bool) (*SlogAdapter, error) {
	h, err := NewFileHandler(path, LevelFromFlags(debug, trace))
	if err != nil {
		return nil, err
	}

	return NewSlogAdapter(h), nil
}

// Debug logs debug-level messages.
func (l *SlogAdapter) Debug(msg string, keysAndValues ...any) {
	l.logger.Log(context.Background(), slog.LevelDebug, msg, keysAndValues...)
}

// Info logs info-level messages.
func (l *SlogAdapter) Info(msg string, keysAndValues ...any) {
	l.logger.Log(context.Background(), slog.LevelInfo, msg, keysAndValues...)
}

// Error logs error-level messages.
func (l *SlogAdapter) Error(msg string, keysAndValues ...any) {
	l.logger.Log(context.Background(), slog.LevelError, msg, keysAndValues...)
}

// With returns a new logger with additional base key-value pairs.
//
//nolint:ireturn // With is intended to return an interface for chaining
func (l *SlogAdapter) With(keysAndValues ...any) Logger {
	return &SlogAdapter{logger: l.logger.With(keysAndValues...), handler: l.handler}
}

// Close releases the log file, if any.
func (l *SlogAdapter) Close() error {
	if l.handler == nil {
		return nil
	}

	return l.handler.Close()
}

// NoOpLogger discards everything.
type NoOpLogger struct{}

// NewNoOpLogger creates a new NoOpLogger.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

// Debug does nothing.
func (*NoOpLogger) Debug(string, ...any) {}

// Info does nothing.
func (*NoOpLogger) Info(string, ...any) {}

// Error does nothing.
func (*NoOpLogger) Error(string, ...any) {}

// With returns the same logger.
//
//nolint:ireturn // With is intended to return an interface for chaining
func (n *NoOpLogger) With(...any) Logger {
	return n
}
