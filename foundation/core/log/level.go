// File: level.go
// Title: Log Levels
// Description: Level type, its spellings and the minimum-level check.
// Author: msto63
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with standard log levels
// - 2026-10-17 v0.3.0: Table driven names, audit and fatal levels removed

package log

import (
	"fmt"
	"strings"
)

// Level orders log messages by importance
type Level int

const (
	// LevelTrace reports every token the parser consumes
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	// LevelOff suppresses all output
	LevelOff
)

type levelSpelling struct {
	name  string
	short string
	color string
}

var levelSpellings = [...]levelSpelling{
	LevelTrace: {"trace", "TRC", "\033[90m"},
	LevelDebug: {"debug", "DBG", "\033[36m"},
	LevelInfo:  {"info", "INF", "\033[32m"},
	LevelWarn:  {"warn", "WRN", "\033[33m"},
	LevelError: {"error", "ERR", "\033[31m"},
	LevelOff:   {"off", "OFF", ""},
}

var levelAliases = map[string]Level{
	"":        LevelInfo,
	"warning": LevelWarn,
	"err":     LevelError,
	"none":    LevelOff,
	"quiet":   LevelOff,
}

func (l Level) spelling() levelSpelling {
	if l < LevelTrace || l > LevelOff {
		return levelSpelling{"unknown", "???", ""}
	}
	return levelSpellings[l]
}

// String returns the lower-case name used in configuration files
func (l Level) String() string { return l.spelling().name }

// Short returns the three letter tag of text output
func (l Level) Short() string { return l.spelling().short }

// Enabled reports whether a message at l passes threshold
func (l Level) Enabled(threshold Level) bool {
	return l != LevelOff && l >= threshold
}

// ParseLevel accepts level names, their short tags and a few aliases.
// On failure it returns LevelInfo together with the error.
func ParseLevel(s string) (Level, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if lvl, ok := levelAliases[key]; ok {
		return lvl, nil
	}
	for lvl, sp := range levelSpellings {
		if key == sp.name || key == strings.ToLower(sp.short) {
			return Level(lvl), nil
		}
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}
