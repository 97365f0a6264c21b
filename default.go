package rotlog

import (
	"context"
	"io"
	"sync"
)

var (
	defaultService = NewService()
	defaultMu      sync.RWMutex
)

// Default returns the process-wide service used by the package-level
// functions.
func Default() *Service {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultService
}

// SetDefault replaces the process-wide service. The previous service is
// not stopped.
func SetDefault(s *Service) {
	if s == nil {
		return
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultService = s
}

// Package-level convenience functions using the default service

// StartLogging starts the default state of the default service.
func StartLogging(cfg Config) error {
	return Default().StartLogging(cfg)
}

// StartLoggingToStream logs to w, which the default service never closes.
func StartLoggingToStream(w io.Writer, level Level, prefix string) error {
	return Default().StartLoggingToStream(w, level, prefix)
}

// StartLoggingStdout logs to standard output.
func StartLoggingStdout(level Level, prefix string) error {
	return Default().StartLoggingStdout(level, prefix)
}

// StartLoggingStderr logs to standard error.
func StartLoggingStderr(level Level, prefix string) error {
	return Default().StartLoggingStderr(level, prefix)
}

// StartLoggingFromEnvironment starts from the ROTLOG_* variables.
func StartLoggingFromEnvironment() error {
	return Default().StartLoggingFromEnvironment()
}

// StopLogging closes the default state.
func StopLogging() error {
	return Default().StopLogging()
}

// StartLoggingForContext gives id its own state.
func StartLoggingForContext(id ContextID, cfg Config) error {
	return Default().StartLoggingForContext(id, cfg)
}

// StopLoggingForContext closes the override of id.
func StopLoggingForContext(id ContextID) error {
	return Default().StopLoggingForContext(id)
}

// Context returns the logger for id.
func Context(id ContextID) *ContextLogger {
	return Default().Context(id)
}

// FromContext returns the logger for the id carried by ctx.
func FromContext(ctx context.Context) *ContextLogger {
	return Default().FromContext(ctx)
}

// Log writes msg at level to the default state.
func Log(level Level, msg string) error {
	return Default().Log(level, msg)
}

// Logf formats and writes a message at level to the default state.
func Logf(level Level, format string, args ...interface{}) error {
	return Default().Logf(level, format, args...)
}

// Debug writes msg at LevelDebug to the default state.
func Debug(msg string) error { return Default().Debug(msg) }

// Info writes msg at LevelInfo to the default state.
func Info(msg string) error { return Default().Info(msg) }

// Warning writes msg at LevelWarning to the default state.
func Warning(msg string) error { return Default().Warning(msg) }

// Error writes msg at LevelError to the default state.
func Error(msg string) error { return Default().Error(msg) }

// Critical writes msg at LevelCritical to the default state.
func Critical(msg string) error { return Default().Critical(msg) }

// Trace writes msg at LevelNone to the default state.
func Trace(msg string) error { return Default().Trace(msg) }

// LoggingLevel returns the default threshold, or LevelNone when logging is
// not active.
func LoggingLevel() Level {
	return Default().Level()
}

// SetLoggingLevel changes the default threshold.
func SetLoggingLevel(level Level) error {
	return Default().SetLevel(level)
}

// IsLoggingStarted reports whether the default state is active.
func IsLoggingStarted() bool {
	return Default().IsActive()
}
