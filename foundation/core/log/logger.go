// File: logger.go
// Title: Logger
// Description: Leveled structured logger. Child loggers share the output and
//              its lock and carry their own name, source and fields.
// Author: msto63
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging
// - 2026-10-17 v0.3.0: Default output is stderr, source locations, severity
//                      driven levels for structured errors

package log

import (
	"errors"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	mdwerror "github.com/msto63/jackc/foundation/core/error"
)

// Config configures NewWithConfig
type Config struct {
	Level  Level
	Format Format
	// Output defaults to os.Stderr
	Output io.Writer
	Name   string
}

// sink is the part of a logger shared by all of its children.
type sink struct {
	mu        sync.Mutex
	out       io.Writer
	formatter Formatter
	level     atomic.Int32
}

func (s *sink) write(e *Entry) {
	line := s.formatter.Format(e)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.out.Write(line)
}

// Logger writes entries at or above its level. A Logger is immutable apart
// from SetLevel, which affects all loggers derived from the same root.
type Logger struct {
	sink   *sink
	name   string
	source string
	fields Fields
}

// New returns a text logger on stderr at info level
func New() *Logger {
	return NewWithConfig(Config{Level: LevelInfo, Format: FormatText})
}

// NewWithConfig returns a root logger for cfg
func NewWithConfig(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	s := &sink{out: out, formatter: FormatterFor(cfg.Format)}
	s.level.Store(int32(cfg.Level))
	return &Logger{sink: s, name: cfg.Name}
}

func (l *Logger) derive() *Logger {
	child := *l
	return &child
}

// WithName returns a child logger reporting as name
func (l *Logger) WithName(name string) *Logger {
	child := l.derive()
	child.name = name
	return child
}

// WithSource returns a child logger whose entries refer to the input file
// path, optionally followed by ":line".
func (l *Logger) WithSource(path string) *Logger {
	child := l.derive()
	child.source = path
	return child
}

// WithField returns a child logger adding key to every entry
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.WithFields(Fields{key: value})
}

// WithFields returns a child logger adding fields to every entry
func (l *Logger) WithFields(fields Fields) *Logger {
	child := l.derive()
	child.fields = l.fields.with(fields)
	return child
}

// Name returns the component name
func (l *Logger) Name() string { return l.name }

// GetLevel returns the current threshold
func (l *Logger) GetLevel() Level { return Level(l.sink.level.Load()) }

// SetLevel changes the threshold of this logger and its whole family
func (l *Logger) SetLevel(level Level) { l.sink.level.Store(int32(level)) }

// IsLevelEnabled reports whether messages at level are written
func (l *Logger) IsLevelEnabled(level Level) bool {
	return level.Enabled(l.GetLevel())
}

func (l *Logger) Trace(msg string, fields ...Fields) { l.emit(LevelTrace, msg, nil, fields) }
func (l *Logger) Debug(msg string, fields ...Fields) { l.emit(LevelDebug, msg, nil, fields) }
func (l *Logger) Info(msg string, fields ...Fields)  { l.emit(LevelInfo, msg, nil, fields) }
func (l *Logger) Warn(msg string, fields ...Fields)  { l.emit(LevelWarn, msg, nil, fields) }
func (l *Logger) Error(msg string, fields ...Fields) { l.emit(LevelError, msg, nil, fields) }

// LogError writes err with its code and details as fields. The level
// follows the error severity: defects in user input are reported at info,
// unclassified errors at warn and everything else at error.
func (l *Logger) LogError(msg string, err error, fields ...Fields) {
	if err == nil {
		return
	}
	extra := Fields{}
	var e *mdwerror.Error
	if errors.As(err, &e) {
		extra["code"] = string(e.Code())
		for k, v := range e.Details() {
			extra[k] = v
		}
	}
	l.emit(LevelForError(err), msg, err, append(fields, extra))
}

// LevelForError maps the severity of err to a log level
func LevelForError(err error) Level {
	switch mdwerror.GetSeverity(err) {
	case mdwerror.SeverityLow:
		return LevelInfo
	case mdwerror.SeverityMedium:
		return LevelWarn
	default:
		return LevelError
	}
}

func (l *Logger) emit(level Level, msg string, err error, fields []Fields) {
	if !l.IsLevelEnabled(level) {
		return
	}
	l.sink.write(&Entry{
		Time:    time.Now(),
		Level:   level,
		Message: msg,
		Logger:  l.name,
		Source:  l.source,
		Fields:  l.fields.with(fields...),
		Err:     err,
	})
}

var defaultLogger atomic.Pointer[Logger]

func init() {
	defaultLogger.Store(New())
}

// GetDefault returns the process-wide logger
func GetDefault() *Logger { return defaultLogger.Load() }

// SetDefault replaces the process-wide logger. A nil logger is ignored.
func SetDefault(l *Logger) {
	if l != nil {
		defaultLogger.Store(l)
	}
}
