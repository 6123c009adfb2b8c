package testutil

import (
	"fmt"
	"strings"
	"sync"
)

// RecordingLogger captures log calls so tests can assert on degraded-mode
// warnings without parsing real log output. Safe for concurrent use.
type RecordingLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

// LogEntry is one captured log call.
type LogEntry struct {
	Level string
	Msg   string
	Args  []any
}

// NewRecordingLogger creates an empty recorder.
func NewRecordingLogger() *RecordingLogger { return &RecordingLogger{} }

func (l *RecordingLogger) record(level, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Level: level, Msg: msg, Args: args})
}

// Debug records a debug entry.
func (l *RecordingLogger) Debug(msg string, args ...any) { l.record("debug", msg, args...) }

// Info records an info entry.
func (l *RecordingLogger) Info(msg string, args ...any) { l.record("info", msg, args...) }

// Warn records a warn entry.
func (l *RecordingLogger) Warn(msg string, args ...any) { l.record("warn", msg, args...) }

// Error records an error entry.
func (l *RecordingLogger) Error(msg string, args ...any) { l.record("error", msg, args...) }

// Entries returns a copy of everything recorded so far.
func (l *RecordingLogger) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]LogEntry(nil), l.entries...)
}

// HasWarnContaining reports whether any warn entry's message contains substr.
func (l *RecordingLogger) HasWarnContaining(substr string) bool {
	for _, e := range l.Entries() {
		if e.Level == "warn" && strings.Contains(e.Msg, substr) {
			return true
		}
	}
	return false
}

// String renders the captured entries for failure messages.
func (l *RecordingLogger) String() string {
	var sb strings.Builder
	for _, e := range l.Entries() {
		fmt.Fprintf(&sb, "[%s] %s %v\n", e.Level, e.Msg, e.Args)
	}
	return sb.String()
}
