package common

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
)

// Logger provides leveled logging for sweep and command handlers
type Logger interface {
	Log(level, message string, metadata map[string]interface{})
}

// Context keys for passing logger through context
type contextKey int

const (
	loggerKey contextKey = iota
)

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext extracts the logger from context, or returns a
// no-op logger if not found
func LoggerFromContext(ctx context.Context) Logger {
	if logger, ok := ctx.Value(loggerKey).(Logger); ok {
		return logger
	}
	return &noOpLogger{}
}

// noOpLogger is a logger that does nothing (fallback when no logger in context)
type noOpLogger struct{}

func (l *noOpLogger) Log(level, message string, metadata map[string]interface{}) {
}

// StdLogger writes leveled lines to the standard library logger, with
// the metadata keys sorted for stable output
type StdLogger struct {
	MinLevel string
}

var levelRank = map[string]int{"DEBUG": 0, "INFO": 1, "WARN": 2, "ERROR": 3}

// NewStdLogger creates a StdLogger filtering below minLevel
func NewStdLogger(minLevel string) *StdLogger {
	if _, ok := levelRank[minLevel]; !ok {
		minLevel = "INFO"
	}
	return &StdLogger{MinLevel: minLevel}
}

func (l *StdLogger) Log(level, message string, metadata map[string]interface{}) {
	if levelRank[level] < levelRank[l.MinLevel] {
		return
	}
	if len(metadata) == 0 {
		log.Printf("[%s] %s", level, message)
		return
	}
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, metadata[k]))
	}
	log.Printf("[%s] %s %s", level, message, strings.Join(parts, " "))
}
