// ============================================================================
// jackc - Jack Syntax Analyzer
// ============================================================================
//
// Package:     logging
// Description: Key-value logger wrapper around the foundation logger
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package logging

import (
	mdwlog "github.com/msto63/jackc/foundation/core/log"
)

// Logger wraps the foundation logger with key-value convenience methods.
type Logger struct {
	*mdwlog.Logger
	name string
}

// New creates a named logger using the process-wide logger configuration.
func New(name string) *Logger {
	return Wrap(mdwlog.GetDefault().WithName(name))
}

// Wrap adapts an existing foundation logger.
func Wrap(l *mdwlog.Logger) *Logger {
	return &Logger{Logger: l, name: l.Name()}
}

// Named returns a child logger with a different name.
func (l *Logger) Named(name string) *Logger {
	return &Logger{Logger: l.Logger.WithName(name), name: name}
}

// With returns a child logger carrying the given key-value pairs.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{Logger: l.Logger.WithFields(toFields(keysAndValues...)), name: l.name}
}

// Base returns the underlying foundation logger.
func (l *Logger) Base() *mdwlog.Logger {
	return l.Logger
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.Logger.Debug(msg, toFields(keysAndValues...))
}

func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.Logger.Info(msg, toFields(keysAndValues...))
}

func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.Logger.Warn(msg, toFields(keysAndValues...))
}

func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.Logger.Error(msg, toFields(keysAndValues...))
}

// toFields converts key-value pairs to mdwlog.Fields. Non-string keys and
// a trailing key without value are dropped.
func toFields(keysAndValues ...interface{}) mdwlog.Fields {
	if len(keysAndValues) == 0 {
		return nil
	}

	fields := make(mdwlog.Fields)
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
