// File: timer.go
// Title: Operation Timer
// Description: Measures one operation and writes a single completion entry.
// Author: msto63
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2026-10-17

package log

import (
	"sync/atomic"
	"time"
)

// Timer measures an operation started by Logger.StartTimer. Only the first
// call to Stop or Fail writes an entry.
type Timer struct {
	logger    *Logger
	operation string
	start     time.Time
	done      atomic.Bool
}

// StartTimer starts timing operation
func (l *Logger) StartTimer(operation string) *Timer {
	return &Timer{logger: l, operation: operation, start: time.Now()}
}

// Elapsed returns the time since the timer started
func (t *Timer) Elapsed() time.Duration { return time.Since(t.start) }

// Running reports whether neither Stop nor Fail has been called
func (t *Timer) Running() bool { return !t.done.Load() }

// Stop writes "<operation> completed" at debug level. It returns the
// elapsed time, or 0 if the timer was already finished.
func (t *Timer) Stop(fields ...Fields) time.Duration {
	if !t.done.CompareAndSwap(false, true) {
		return 0
	}
	elapsed := t.Elapsed()
	t.logger.emit(LevelDebug, t.operation+" completed", nil, append(fields, t.timing(elapsed)))
	return elapsed
}

// Fail writes "<operation> failed" at the level LogError would pick for err.
func (t *Timer) Fail(err error, fields ...Fields) time.Duration {
	if !t.done.CompareAndSwap(false, true) {
		return 0
	}
	elapsed := t.Elapsed()
	t.logger.LogError(t.operation+" failed", err, append(fields, t.timing(elapsed))...)
	return elapsed
}

func (t *Timer) timing(elapsed time.Duration) Fields {
	return Fields{"elapsed_ms": float64(elapsed.Microseconds()) / 1000}
}
