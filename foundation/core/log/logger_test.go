// File: logger_test.go
// Title: Logger Tests
// Description: Levels, formats, derived loggers, timers and error levels.
// Author: msto63
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2026-10-17

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	mdwerror "github.com/msto63/jackc/foundation/core/error"
)

func newBufferLogger(format Format, level Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewWithConfig(Config{Level: level, Format: format, Output: &buf, Name: "test"}), &buf
}

func TestNew(t *testing.T) {
	logger := New()
	if logger.GetLevel() != LevelInfo {
		t.Errorf("New() level = %v, want %v", logger.GetLevel(), LevelInfo)
	}
	if logger.sink.out == nil {
		t.Error("New() should default the output")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(FormatText, LevelWarn)

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("output contains filtered message: %q", out)
	}
	if !strings.Contains(out, "WRN {test} shown") {
		t.Errorf("output misses warning: %q", out)
	}
}

func TestLogger_SetLevelAffectsChildren(t *testing.T) {
	logger, buf := newBufferLogger(FormatText, LevelInfo)
	child := logger.WithName("parser")

	logger.SetLevel(LevelDebug)
	child.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("output = %q, want child debug line", buf.String())
	}

	logger.SetLevel(LevelOff)
	child.Error("dropped")
	if strings.Contains(buf.String(), "dropped") {
		t.Errorf("output = %q, LevelOff should drop errors", buf.String())
	}
}

func TestLogger_ChildrenDoNotLeakFields(t *testing.T) {
	logger, buf := newBufferLogger(FormatLogfmt, LevelInfo)
	a := logger.WithField("run", 1)
	b := a.WithField("file", "Main.jack")

	a.Info("first")
	b.Info("second")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), buf.String())
	}
	if strings.Contains(lines[0], "file=") {
		t.Errorf("parent line %q carries child field", lines[0])
	}
	if !strings.Contains(lines[1], "file=Main.jack") || !strings.Contains(lines[1], "run=1") {
		t.Errorf("child line = %q", lines[1])
	}
}

func TestLogger_JSON(t *testing.T) {
	logger, buf := newBufferLogger(FormatJSON, LevelDebug)

	logger.WithField("component", "parser").WithSource("src/Main.jack").
		Info("parsed", Fields{"tokens": 42, "took": 3 * time.Millisecond})

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v, output %q", err, buf.String())
	}

	checks := map[string]interface{}{
		"msg":       "parsed",
		"level":     "info",
		"logger":    "test",
		"component": "parser",
		"source":    "src/Main.jack",
		"tokens":    float64(42),
		"took":      "3ms",
	}
	for k, want := range checks {
		if decoded[k] != want {
			t.Errorf("%s = %v, want %v", k, decoded[k], want)
		}
	}
}

func TestFormatters(t *testing.T) {
	entry := &Entry{
		Time:    time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC),
		Level:   LevelWarn,
		Message: "skipped file",
		Logger:  "analyzer",
		Source:  "Main.jack:3",
		Fields:  Fields{"b": 2, "a": "two words"},
		Err:     errors.New("boom"),
	}

	tests := []struct {
		format Format
		want   string
	}{
		{FormatText, `15:04:05 WRN {analyzer} Main.jack:3: skipped file a="two words" b=2 error="boom"` + "\n"},
		{FormatLogfmt, `time=2026-01-02T15:04:05Z level=warn logger=analyzer source=Main.jack:3 msg="skipped file" a="two words" b=2 error="boom"` + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			got := string(FormatterFor(tt.format).Format(entry))
			if got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}

	console := string(FormatterFor(FormatConsole).Format(entry))
	if !strings.HasPrefix(console, "\033[33m") || !strings.HasSuffix(console, "\033[0m\n") {
		t.Errorf("console output = %q, want colored line", console)
	}
}

func TestLogger_LogError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantLevel string
		wantField string
	}{
		{
			name:      "source error logs at info",
			err:       mdwerror.New("bad literal").WithCode(mdwerror.CodeValueOutOfRange).WithDetail("line", 3),
			wantLevel: "INF",
			wantField: "line=3",
		},
		{
			name:      "wrapped io error logs at error",
			err:       mdwerror.Wrap(mdwerror.New("cannot open").WithCode(mdwerror.CodeIOError), "Main.jack"),
			wantLevel: "ERR",
			wantField: "code=IO_ERROR",
		},
		{
			name:      "plain error logs at warn",
			err:       errors.New("plain"),
			wantLevel: "WRN",
			wantField: `error="plain"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger(FormatText, LevelTrace)
			logger.LogError("analysis failed", tt.err)

			out := buf.String()
			if !strings.Contains(out, " "+tt.wantLevel+" ") {
				t.Errorf("output = %q, want level %s", out, tt.wantLevel)
			}
			if !strings.Contains(out, tt.wantField) {
				t.Errorf("output = %q, want %q", out, tt.wantField)
			}
		})
	}
}

func TestTimer(t *testing.T) {
	logger, buf := newBufferLogger(FormatText, LevelDebug)

	timer := logger.StartTimer("parse")
	if !timer.Running() {
		t.Error("Running() = false after start")
	}
	timer.Stop(Fields{"tokens": 7})
	if timer.Stop() != 0 || timer.Fail(errors.New("late")) != 0 {
		t.Error("a finished timer should not log again")
	}

	out := buf.String()
	if strings.Count(out, "\n") != 1 {
		t.Fatalf("expected exactly one line, got %q", out)
	}
	for _, want := range []string{"parse completed", "tokens=7", "elapsed_ms="} {
		if !strings.Contains(out, want) {
			t.Errorf("output = %q, want %q", out, want)
		}
	}
}

func TestTimer_FailUsesSeverity(t *testing.T) {
	logger, buf := newBufferLogger(FormatText, LevelDebug)

	logger.StartTimer("parse").Fail(mdwerror.New("expected ';'").WithCode(mdwerror.CodeSyntax))

	if out := buf.String(); !strings.Contains(out, " INF ") || !strings.Contains(out, "parse failed") {
		t.Errorf("output = %q, want info level failure", out)
	}
}

func TestParseLevelAndFormat(t *testing.T) {
	levels := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{" WARN ", LevelWarn, false},
		{"wrn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"quiet", LevelOff, false},
		{"", LevelInfo, false},
		{"loud", LevelInfo, true},
	}
	for _, tt := range levels {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}

	formats := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"Logfmt", FormatLogfmt, false},
		{"", FormatText, false},
		{"yaml", FormatText, true},
	}
	for _, tt := range formats {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, %v", tt.in, got, err)
		}
	}
}
