// ============================================================================
// jackc - Jack Syntax Analyzer
// ============================================================================
//
// Package: token
// Description: Lexical token model of the Jack language
// Author: Mike Stoffels
// Created: 2025-12-04
// License: MIT
// ============================================================================

// Package token defines the tokens produced by the Jack lexer.
package token

import (
	"fmt"
	"strconv"
	"strings"

	mdwerror "github.com/msto63/jackc/foundation/core/error"
)

// MaxInt is the largest integer constant Jack can represent.
const MaxInt = 32767

// Kind is the variant of a token.
type Kind int

const (
	KindKeyword Kind = iota + 1
	KindSymbol
	KindIntegerConstant
	KindStringConstant
	KindIdentifier
)

// TagName returns the tag used for terminals of this kind.
func (k Kind) TagName() string {
	switch k {
	case KindKeyword:
		return "keyword"
	case KindSymbol:
		return "symbol"
	case KindIntegerConstant:
		return "integerConstant"
	case KindStringConstant:
		return "stringConstant"
	case KindIdentifier:
		return "identifier"
	default:
		return "unknown"
	}
}

// String returns the tag name of the kind.
func (k Kind) String() string {
	return k.TagName()
}

// Pos is the line and column (both 1-based) at which a token starts.
type Pos struct {
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is an immutable lexical unit. Text holds the source spelling:
// the keyword, the symbol character, the digits of an integer constant,
// the contents of a string constant without quotes, or the identifier.
type Token struct {
	Kind    Kind
	Keyword Keyword
	Symbol  Symbol
	Int     uint16
	Text    string
	Pos     Pos
}

// NewKeyword returns a keyword token.
func NewKeyword(kw Keyword, pos Pos) Token {
	return Token{Kind: KindKeyword, Keyword: kw, Text: kw.String(), Pos: pos}
}

// NewSymbol returns a symbol token.
func NewSymbol(sym Symbol, pos Pos) Token {
	return Token{Kind: KindSymbol, Symbol: sym, Text: string(rune(sym)), Pos: pos}
}

// NewIntegerConstant parses digits into an integer constant. Values above
// MaxInt fail with CodeValueOutOfRange.
func NewIntegerConstant(digits string, pos Pos) (Token, error) {
	v, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			return Token{}, outOfRange(digits, pos)
		}
		return Token{}, newError(mdwerror.CodeInvalidInput, fmt.Sprintf("malformed integer constant %q", digits), pos)
	}
	if v > MaxInt {
		return Token{}, outOfRange(digits, pos)
	}
	return Token{Kind: KindIntegerConstant, Int: uint16(v), Text: digits, Pos: pos}, nil
}

// NewStringConstant returns a string constant. The text must not contain a
// newline or a double quote.
func NewStringConstant(text string, pos Pos) (Token, error) {
	if strings.ContainsAny(text, "\"\n") {
		return Token{}, newError(mdwerror.CodeInvalidInput, "string constant contains a newline or a quote", pos)
	}
	return Token{Kind: KindStringConstant, Text: text, Pos: pos}, nil
}

// NewIdentifier returns an identifier token. Names that are empty, start
// with a digit or contain characters other than letters, digits and
// underscores fail with CodeInvalidIdentifier.
func NewIdentifier(name string, pos Pos) (Token, error) {
	if !IsIdentifier(name) {
		return Token{}, newError(mdwerror.CodeInvalidIdentifier, fmt.Sprintf("invalid identifier %q", name), pos)
	}
	return Token{Kind: KindIdentifier, Text: name, Pos: pos}, nil
}

// IsIdentifier reports whether name is a well-formed identifier.
func IsIdentifier(name string) bool {
	if name == "" || IsDigit(rune(name[0])) {
		return false
	}
	for _, r := range name {
		if !IsIdentChar(r) {
			return false
		}
	}
	return true
}

// IsLetter reports whether r may start an identifier.
func IsLetter(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '_'
}

// IsDigit reports whether r is a decimal digit.
func IsDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// IsIdentChar reports whether r may continue an identifier.
func IsIdentChar(r rune) bool {
	return IsLetter(r) || IsDigit(r)
}

// TagName returns the tag of the terminal.
func (t Token) TagName() string {
	return t.Kind.TagName()
}

// IsKeyword reports whether t is one of the given keywords.
func (t Token) IsKeyword(kws ...Keyword) bool {
	if t.Kind != KindKeyword {
		return false
	}
	for _, kw := range kws {
		if t.Keyword == kw {
			return true
		}
	}
	return false
}

// IsSymbol reports whether t is one of the given symbols.
func (t Token) IsSymbol(syms ...Symbol) bool {
	if t.Kind != KindSymbol {
		return false
	}
	for _, s := range syms {
		if t.Symbol == s {
			return true
		}
	}
	return false
}

// IsOp reports whether t is a binary operator.
func (t Token) IsOp() bool {
	return t.Kind == KindSymbol && t.Symbol.IsOp()
}

// IsUnaryOp reports whether t is a unary operator.
func (t Token) IsUnaryOp() bool {
	return t.IsSymbol(Minus, Tilde)
}

// String describes the token for error messages, e.g. symbol '='.
func (t Token) String() string {
	switch t.Kind {
	case KindStringConstant:
		return fmt.Sprintf("%s %q", t.Kind, t.Text)
	case 0:
		return "no token"
	default:
		return fmt.Sprintf("%s '%s'", t.Kind, t.Text)
	}
}

func outOfRange(digits string, pos Pos) error {
	return newError(mdwerror.CodeValueOutOfRange,
		fmt.Sprintf("integer constant %s exceeds %d", digits, MaxInt), pos)
}

func newError(code mdwerror.Code, msg string, pos Pos) error {
	if pos.Line > 0 {
		msg = fmt.Sprintf("%s at line %d, column %d", msg, pos.Line, pos.Column)
	}
	return mdwerror.New(msg).
		WithCode(code).
		WithOperation("lex").
		At(pos.Line, pos.Column)
}
