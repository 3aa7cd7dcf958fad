// File: encode.go
// Title: Output Formats
// Description: Formatters turning entries into json, text, console or logfmt
//              lines.
// Author: msto63
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with multiple output formats
// - 2026-10-17 v0.3.0: Shared key=value writer, stable field order

package log

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Format selects a Formatter
type Format int

const (
	FormatJSON Format = iota
	FormatText
	FormatConsole
	FormatLogfmt
)

var formatNames = map[Format]string{
	FormatJSON:    "json",
	FormatText:    "text",
	FormatConsole: "console",
	FormatLogfmt:  "logfmt",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// ParseFormat maps a format name to its Format. The empty string means
// text. On failure it returns FormatText together with the error.
func ParseFormat(s string) (Format, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return FormatText, nil
	}
	for f, name := range formatNames {
		if name == key {
			return f, nil
		}
	}
	return FormatText, fmt.Errorf("unknown log format %q", s)
}

// Formatter renders one entry as a newline terminated line
type Formatter interface {
	Format(e *Entry) []byte
}

// FormatterFor returns the formatter of f
func FormatterFor(f Format) Formatter {
	switch f {
	case FormatJSON:
		return jsonFormatter{}
	case FormatConsole:
		return textFormatter{color: true}
	case FormatLogfmt:
		return logfmtFormatter{}
	default:
		return textFormatter{}
	}
}

type jsonFormatter struct{}

func (jsonFormatter) Format(e *Entry) []byte {
	obj := make(map[string]interface{}, len(e.Fields)+6)
	for k, v := range e.Fields {
		obj[k] = plain(v)
	}
	obj["time"] = e.Time.Format(time.RFC3339Nano)
	obj["level"] = e.Level.String()
	obj["msg"] = e.Message
	if e.Logger != "" {
		obj["logger"] = e.Logger
	}
	if e.Source != "" {
		obj["source"] = e.Source
	}
	if e.Err != nil {
		obj["error"] = e.Err.Error()
	}

	line, err := json.Marshal(obj)
	if err != nil {
		line, _ = json.Marshal(map[string]string{
			"level": e.Level.String(),
			"msg":   e.Message,
			"error": "unencodable fields: " + err.Error(),
		})
	}
	return append(line, '\n')
}

// textFormatter writes "15:04:05 INF {name} source: message k=v ...".
type textFormatter struct {
	color bool
}

func (f textFormatter) Format(e *Entry) []byte {
	var b strings.Builder
	if f.color {
		b.WriteString(e.Level.spelling().color)
	}
	b.WriteString(e.Time.Format("15:04:05"))
	b.WriteString(" ")
	b.WriteString(e.Level.Short())
	if e.Logger != "" {
		b.WriteString(" {" + e.Logger + "}")
	}
	b.WriteString(" ")
	if e.Source != "" {
		b.WriteString(e.Source + ": ")
	}
	b.WriteString(e.Message)
	writePairs(&b, e.Fields, e.Err)
	if f.color {
		b.WriteString("\033[0m")
	}
	b.WriteString("\n")
	return []byte(b.String())
}

type logfmtFormatter struct{}

func (logfmtFormatter) Format(e *Entry) []byte {
	var b strings.Builder
	b.WriteString("time=" + e.Time.Format(time.RFC3339))
	b.WriteString(" level=" + e.Level.String())
	if e.Logger != "" {
		b.WriteString(" logger=" + quote(e.Logger))
	}
	if e.Source != "" {
		b.WriteString(" source=" + quote(e.Source))
	}
	b.WriteString(" msg=" + strconv.Quote(e.Message))
	writePairs(&b, e.Fields, e.Err)
	b.WriteString("\n")
	return []byte(b.String())
}

// writePairs appends " key=value" for every field in key order and the
// error last.
func writePairs(b *strings.Builder, fields Fields, err error) {
	for _, k := range fields.sortedKeys() {
		b.WriteString(" " + k + "=" + quote(plain(fields[k])))
	}
	if err != nil {
		b.WriteString(" error=" + strconv.Quote(err.Error()))
	}
}

// plain flattens values that have no useful JSON or %v rendering.
func plain(v interface{}) interface{} {
	switch x := v.(type) {
	case error:
		return x.Error()
	case time.Duration:
		return x.String()
	case fmt.Stringer:
		return x.String()
	}
	return v
}

// quote renders v, quoting strings that contain blanks, quotes or '='.
func quote(v interface{}) string {
	s, ok := v.(string)
	if !ok {
		return fmt.Sprint(v)
	}
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}
