// File: entry.go
// Title: Log Entries
// Description: A single log record and the Fields map attached to it.
// Author: msto63
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation
// - 2026-10-17 v0.3.0: Source location replaces the request ID

package log

import (
	"sort"
	"time"
)

// Fields holds structured key-value data of an entry
type Fields map[string]interface{}

// Entry is one record handed to a Formatter
type Entry struct {
	Time    time.Time
	Level   Level
	Message string
	// Logger is the name of the emitting component
	Logger string
	// Source is the input file the message is about, if any
	Source string
	Fields Fields
	Err    error
}

// with returns a copy of f extended by every map in more. Later keys win.
func (f Fields) with(more ...Fields) Fields {
	n := len(f)
	for _, m := range more {
		n += len(m)
	}
	out := make(Fields, n)
	for k, v := range f {
		out[k] = v
	}
	for _, m := range more {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// sortedKeys returns the field names in lexical order so that text output
// is stable between runs.
func (f Fields) sortedKeys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
