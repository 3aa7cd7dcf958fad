// File: error.go
// Title: Structured Errors
// Description: The Error type: a message with a code, a severity, details
//              and an optional cause.
// Author: msto63
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors
// - 2026-10-17 v0.3.0: Source positions, %+v formatting; stack traces,
//                      timestamps and localization removed

package error

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
)

// Error is a classified error. The With methods modify the receiver and
// return it for chaining; they are meant for construction only.
type Error struct {
	msg       string
	cause     error
	code      Code
	severity  Severity
	operation string
	details   map[string]interface{}
}

// New returns an unclassified error
func New(msg string) *Error {
	return &Error{msg: msg, code: CodeUnknown, severity: SeverityMedium}
}

// Newf is New with fmt.Sprintf formatting
func Newf(format string, args ...interface{}) *Error {
	return New(fmt.Sprintf(format, args...))
}

// Wrap prefixes err with msg. The result inherits code, severity and
// details from the nearest *Error in the chain, or the code of an error
// with a Code method. Wrap(nil, ...) is nil.
func Wrap(err error, msg string) *Error {
	if err == nil {
		return nil
	}
	w := New(msg)
	w.cause = err

	var inner *Error
	var coded interface{ Code() Code }
	if errors.As(err, &inner) {
		w.code, w.severity = inner.code, inner.severity
		for k, v := range inner.details {
			w.setDetail(k, v)
		}
	} else if errors.As(err, &coded) {
		w.WithCode(coded.Code())
	}
	return w
}

func (e *Error) setDetail(key string, value interface{}) {
	if e.details == nil {
		e.details = make(map[string]interface{})
	}
	e.details[key] = value
}

// WithCode classifies e; the severity follows from the code
func (e *Error) WithCode(code Code) *Error {
	e.code = code
	e.severity = GetSeverityFromCode(code)
	return e
}

// WithSeverity overrides the severity derived from the code
func (e *Error) WithSeverity(s Severity) *Error {
	e.severity = s
	return e
}

// WithDetail attaches a key-value pair
func (e *Error) WithDetail(key string, value interface{}) *Error {
	e.setDetail(key, value)
	return e
}

// WithOperation names the step that failed, e.g. "lex" or "parse"
func (e *Error) WithOperation(op string) *Error {
	e.operation = op
	return e
}

// At records a 1-based source position as the details line and column
func (e *Error) At(line, column int) *Error {
	e.setDetail("line", line)
	e.setDetail("column", column)
	return e
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return e.msg + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error { return e.cause }

// Message returns the message without the cause
func (e *Error) Message() string { return e.msg }

func (e *Error) Code() Code { return e.code }

func (e *Error) Severity() Severity { return e.severity }

func (e *Error) Operation() string { return e.operation }

// Details returns a copy of the attached key-value pairs
func (e *Error) Details() map[string]interface{} {
	out := make(map[string]interface{}, len(e.details))
	for k, v := range e.details {
		out[k] = v
	}
	return out
}

// Detail returns one attached value
func (e *Error) Detail(key string) (interface{}, bool) {
	v, ok := e.details[key]
	return v, ok
}

// Format implements fmt.Formatter. %+v adds code, operation and details in
// key order to the plain message.
func (e *Error) Format(s fmt.State, verb rune) {
	switch {
	case verb == 'v' && s.Flag('+'):
		fmt.Fprintf(s, "[%s] %s", e.code, e.Error())
		if e.operation != "" {
			fmt.Fprintf(s, " (op=%s)", e.operation)
		}
		keys := make([]string, 0, len(e.details))
		for k := range e.details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(s, " %s=%v", k, e.details[k])
		}
	case verb == 'q':
		fmt.Fprintf(s, "%q", e.Error())
	default:
		io.WriteString(s, e.Error())
	}
}

// MarshalJSON renders the error for structured log output
func (e *Error) MarshalJSON() ([]byte, error) {
	obj := struct {
		Message   string                 `json:"message"`
		Code      Code                   `json:"code"`
		Severity  string                 `json:"severity"`
		Operation string                 `json:"operation,omitempty"`
		Details   map[string]interface{} `json:"details,omitempty"`
		Cause     string                 `json:"cause,omitempty"`
	}{
		Message:   e.msg,
		Code:      e.code,
		Severity:  e.severity.String(),
		Operation: e.operation,
		Details:   e.details,
	}
	if e.cause != nil {
		obj.Cause = e.cause.Error()
	}
	return json.Marshal(obj)
}

// HasCode reports whether any *Error in the chain of err carries code
func HasCode(err error, code Code) bool {
	for ; err != nil; err = errors.Unwrap(err) {
		if e, ok := err.(*Error); ok && e.code == code {
			return true
		}
	}
	return false
}

// GetCode returns the code of the outermost *Error, or of the outermost
// error with a Code method, in the chain of err. It is CodeUnknown when
// neither exists.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.code
	}
	var coded interface{ Code() Code }
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return CodeUnknown
}

// GetSeverity returns the severity of the outermost *Error in the chain,
// or SeverityMedium
func GetSeverity(err error) Severity {
	var e *Error
	if errors.As(err, &e) {
		return e.severity
	}
	return SeverityMedium
}
