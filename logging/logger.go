package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// LogLevel represents different logging levels.
// LogLevel is a thin enum for user friendly level configuration decoupled from slog.
type LogLevel int

const (
	// LogLevelDebug is the debug logging level.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is the informational logging level.
	LogLevelInfo
	// LogLevelWarn is the warning logging level.
	LogLevelWarn
	// LogLevelError is the error logging level.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config string ("debug", "info", "warn", "error") to a LogLevel.
// Unknown values default to info.
func ParseLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LogLevelDebug
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// Logger defines the minimal logging interface used across the module.
// This allows users to provide their own logger implementation or use the built-in adapters.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// Debug logs a debug message.
func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }

// Info logs an informational message.
func (s *SlogAdapter) Info(msg string, args ...any) { s.Logger.Info(msg, args...) }

// Warn logs a warning message.
func (s *SlogAdapter) Warn(msg string, args ...any) { s.Logger.Warn(msg, args...) }

// Error logs an error message.
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NewDefaultSlogLogger creates a Logger using slog.Default().
func NewDefaultSlogLogger() Logger {
	return NewSlogAdapter(slog.Default())
}

// NoOpLogger discards all log output. Useful as a default so agents never need
// nil checks around their logger.
type NoOpLogger struct{}

// Debug does nothing.
func (NoOpLogger) Debug(msg string, args ...any) {}

// Info does nothing.
func (NoOpLogger) Info(msg string, args ...any) {}

// Warn does nothing.
func (NoOpLogger) Warn(msg string, args ...any) {}

// Error does nothing.
func (NoOpLogger) Error(msg string, args ...any) {}

// ColonyLogger wraps slog.Logger adding contextual cloning helpers for the
// moving parts of a colony run (component name, planning day, iteration).
// It should be cheap to copy via With* methods.
type ColonyLogger struct {
	logger    *slog.Logger
	level     LogLevel
	context   map[string]any
	component string
	day       int
	iteration int
}

// LoggerConfig configures construction of a ColonyLogger.
type LoggerConfig struct {
	Level     LogLevel
	Format    string // json or text
	Output    io.Writer
	AddSource bool
	Component string
}

// DefaultLoggerConfig returns a baseline text info level configuration.
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{Level: LogLevelInfo, Format: "text", Output: os.Stdout}
}

// NewLogger builds a ColonyLogger from a config (or defaults if nil).
func NewLogger(cfg *LoggerConfig) *ColonyLogger {
	if cfg == nil {
		cfg = DefaultLoggerConfig()
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: slogLevel(cfg.Level), AddSource: cfg.AddSource}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	} else {
		handler = slog.NewTextHandler(cfg.Output, opts)
	}
	return &ColonyLogger{logger: slog.New(handler), level: cfg.Level, context: map[string]any{}, component: cfg.Component}
}

func slogLevel(l LogLevel) slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *ColonyLogger) clone() *ColonyLogger {
	nl := *l
	nl.context = map[string]any{}
	for k, v := range l.context {
		nl.context[k] = v
	}
	return &nl
}

// WithContext adds a key/value attribute that will be attached to every log entry.
func (l *ColonyLogger) WithContext(key string, value any) *ColonyLogger {
	nl := l.clone()
	nl.context[key] = value
	return nl
}

// WithComponent sets the logical component (ant, manager, coordinator, colony).
func (l *ColonyLogger) WithComponent(c string) *ColonyLogger {
	nl := l.clone()
	nl.component = c
	return nl
}

// WithDay attaches the planning day.
func (l *ColonyLogger) WithDay(day int) *ColonyLogger {
	nl := l.clone()
	nl.day = day
	return nl
}

// WithIteration attaches the current iteration id.
func (l *ColonyLogger) WithIteration(iter int) *ColonyLogger {
	nl := l.clone()
	nl.iteration = iter
	return nl
}

func (l *ColonyLogger) buildAttrs() []any {
	attrs := make([]any, 0, len(l.context)+3)
	if l.component != "" {
		attrs = append(attrs, slog.String("component", l.component))
	}
	if l.day > 0 {
		attrs = append(attrs, slog.Int("day", l.day))
	}
	if l.iteration > 0 {
		attrs = append(attrs, slog.Int("iteration", l.iteration))
	}
	for k, v := range l.context {
		attrs = append(attrs, slog.Any(k, v))
	}
	return attrs
}

func (l *ColonyLogger) log(level slog.Level, allowed bool, msg string, args ...any) {
	if !allowed {
		return
	}
	l.logger.With(l.buildAttrs()...).Log(context.Background(), level, msg, args...)
}

// Debug logs at debug level.
func (l *ColonyLogger) Debug(msg string, args ...any) {
	l.log(slog.LevelDebug, l.level <= LogLevelDebug, msg, args...)
}

// Info logs at info level.
func (l *ColonyLogger) Info(msg string, args ...any) {
	l.log(slog.LevelInfo, l.level <= LogLevelInfo, msg, args...)
}

// Warn logs at warn level.
func (l *ColonyLogger) Warn(msg string, args ...any) {
	l.log(slog.LevelWarn, l.level <= LogLevelWarn, msg, args...)
}

// Error logs at error level.
func (l *ColonyLogger) Error(msg string, args ...any) {
	l.log(slog.LevelError, l.level <= LogLevelError, msg, args...)
}
