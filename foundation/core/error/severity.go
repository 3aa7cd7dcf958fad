// File: severity.go
// Title: Error Severity
// Description: Severity classes; the logger derives its level from them.
// Author: msto63
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2026-10-17

package error

// Severity says who has to act on an error
type Severity int

const (
	// SeverityLow: the input is wrong, e.g. a malformed source file
	SeverityLow Severity = iota
	// SeverityMedium: unclassified
	SeverityMedium
	// SeverityHigh: the environment is wrong, e.g. an unreadable file
	SeverityHigh
	// SeverityCritical: jackc itself is broken
	SeverityCritical
)

var severityNames = [...]string{"low", "medium", "high", "critical"}

func (s Severity) String() string {
	if s < SeverityLow || s > SeverityCritical {
		return "unknown"
	}
	return severityNames[s]
}

// GetSeverityFromCode returns the severity implied by code. Defects in
// the analyzed source and in user requests are low, environment failures
// high.
func GetSeverityFromCode(code Code) Severity {
	switch {
	case code == CodeInternal:
		return SeverityCritical
	case code.IsSourceError(), code == CodeInvalidInput, code == CodeNotFound, code == CodeCanceled:
		return SeverityLow
	case code == CodeUnknown || !code.IsValid():
		return SeverityMedium
	default:
		return SeverityHigh
	}
}
