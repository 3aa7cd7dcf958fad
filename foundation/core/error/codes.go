// File: codes.go
// Title: Error Codes
// Description: Codes classifying lexical, syntactic, I/O, storage, network
//              and configuration failures.
// Author: msto63
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2026-10-17 v0.3.0: Reduced to the codes of the Jack analyzer

package error

// Code classifies an Error. Codes travel over gRPC as message prefixes and
// are stored in the run history, so their spelling is stable.
type Code string

const (
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeCanceled     Code = "CANCELED"

	// Lexical errors in a source file
	CodeValueOutOfRange   Code = "VALUE_OUT_OF_RANGE"
	CodeInvalidIdentifier Code = "INVALID_IDENTIFIER"
	CodeUnterminatedToken Code = "UNTERMINATED_TOKEN"
	CodeIllegalCharacter  Code = "ILLEGAL_CHARACTER"

	// CodeSyntax marks a grammar violation in a source file
	CodeSyntax Code = "JACK_SYNTAX"

	CodeIOError            Code = "IO_ERROR"
	CodeDatabaseError      Code = "DATABASE_ERROR"
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"
	CodeNetworkError       Code = "NETWORK_ERROR"
	CodeConfigError        Code = "CONFIG_ERROR"
	CodeInvalidConfig      Code = "INVALID_CONFIG"
)

var codeCategories = map[Code]string{
	CodeUnknown:            "generic",
	CodeInternal:           "generic",
	CodeNotFound:           "generic",
	CodeInvalidInput:       "generic",
	CodeCanceled:           "generic",
	CodeValueOutOfRange:    "lexical",
	CodeInvalidIdentifier:  "lexical",
	CodeUnterminatedToken:  "lexical",
	CodeIllegalCharacter:   "lexical",
	CodeSyntax:             "syntax",
	CodeIOError:            "io",
	CodeDatabaseError:      "database",
	CodeServiceUnavailable: "service",
	CodeNetworkError:       "service",
	CodeConfigError:        "configuration",
	CodeInvalidConfig:      "configuration",
}

func (c Code) String() string { return string(c) }

// IsValid reports whether c is one of the codes above
func (c Code) IsValid() bool {
	_, ok := codeCategories[c]
	return ok
}

// Category groups codes: lexical, syntax, io, database, service,
// configuration or generic. Unknown codes are generic.
func (c Code) Category() string {
	if cat, ok := codeCategories[c]; ok {
		return cat
	}
	return "generic"
}

// IsSourceError reports whether c describes a defect in the analyzed source
func (c Code) IsSourceError() bool {
	cat := c.Category()
	return cat == "lexical" || cat == "syntax"
}
