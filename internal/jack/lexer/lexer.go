// ============================================================================
// jackc - Jack Syntax Analyzer
// ============================================================================
//
// Package: lexer
// Description: Pull-based tokenizer for Jack source text
// Author: Mike Stoffels
// Created: 2025-12-04
// License: MIT
// ============================================================================

// Package lexer turns a stream of characters into Jack tokens.
//
// The lexer keeps one accumulation buffer. After every character appended to
// it the buffer is classified again: whitespace and comments are discarded,
// symbols are emitted at once, words and numbers are emitted as soon as the
// next unread character can no longer extend them.
package lexer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	mdwerror "github.com/msto63/jackc/foundation/core/error"
	"github.com/msto63/jackc/internal/jack/token"
)

// Lexer produces tokens on demand. It is not safe for concurrent use.
type Lexer struct {
	r *bufio.Reader

	// line and col locate the next unread character.
	line int
	col  int

	buf   strings.Builder
	start token.Pos
	first rune // first character in buf
	runes int  // characters in buf
	count int
	err   error
}

// New returns a lexer reading from r.
func New(r io.Reader) *Lexer {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Lexer{r: br, line: 1, col: 1}
}

// Count returns the number of tokens produced so far.
func (l *Lexer) Count() int {
	return l.count
}

// Next returns the next token. At the end of input it returns io.EOF; any
// other error is sticky and returned by every later call.
func (l *Lexer) Next() (token.Token, error) {
	if l.err != nil {
		return token.Token{}, l.err
	}
	tok, err := l.scan()
	if err != nil {
		l.err = err
		return token.Token{}, err
	}
	l.count++
	return tok, nil
}

func (l *Lexer) scan() (token.Token, error) {
	l.reset()

	for {
		pos := token.Pos{Line: l.line, Column: l.col}
		r, err := l.read()
		if err == io.EOF {
			return token.Token{}, io.EOF
		}
		if err != nil {
			return token.Token{}, l.ioError(err)
		}
		if l.runes == 0 {
			l.start, l.first = pos, r
		}
		l.buf.WriteRune(r)
		l.runes++

		tok, done, err := l.classify()
		if err != nil || done {
			return tok, err
		}
	}
}

// classify inspects the buffer after a character was appended. It reports
// done when a token is complete; an empty buffer afterwards means the
// characters were discarded.
func (l *Lexer) classify() (token.Token, bool, error) {
	first, single := l.first, l.runes == 1

	switch {
	case single && isSpace(first):
		l.reset()
		return token.Token{}, false, nil

	case single && first == '/':
		next, ok, err := l.peek()
		if err != nil {
			return token.Token{}, false, err
		}
		switch {
		case ok && next == '/':
			l.reset()
			return token.Token{}, false, l.skipLineComment()
		case ok && next == '*':
			l.reset()
			return token.Token{}, false, l.skipBlockComment()
		}
		return token.NewSymbol(token.Slash, l.start), true, nil

	case single && first == '"':
		tok, err := l.readString()
		return tok, err == nil, err
	}

	if single {
		if sym, ok := token.LookupSymbol(first); ok {
			return token.NewSymbol(sym, l.start), true, nil
		}
		if !token.IsIdentChar(first) {
			return token.Token{}, false, l.errorAt(mdwerror.CodeIllegalCharacter,
				fmt.Sprintf("illegal character %q", first), l.start)
		}
	}

	next, ok, err := l.peek()
	if err != nil {
		return token.Token{}, false, err
	}

	if token.IsDigit(first) {
		if ok && token.IsDigit(next) {
			return token.Token{}, false, nil
		}
		tok, err := token.NewIntegerConstant(l.buf.String(), l.start)
		return tok, err == nil, err
	}

	if ok && token.IsIdentChar(next) {
		return token.Token{}, false, nil
	}
	text := l.buf.String()
	if kw, isKeyword := token.LookupKeyword(text); isKeyword {
		return token.NewKeyword(kw, l.start), true, nil
	}
	tok, err := token.NewIdentifier(text, l.start)
	return tok, err == nil, err
}

func (l *Lexer) reset() {
	l.buf.Reset()
	l.runes = 0
}

// isSpace matches the separators of the language. Other Unicode spaces are
// illegal characters.
func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func (l *Lexer) skipLineComment() error {
	for {
		r, err := l.read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return l.ioError(err)
		}
		if r == '\n' {
			return nil
		}
	}
}

// skipBlockComment consumes the '*' after the opening slash and everything
// through the closing "*/". Documentation comments need no special case.
func (l *Lexer) skipBlockComment() error {
	if _, err := l.read(); err != nil {
		return l.ioError(err)
	}
	star := false
	for {
		r, err := l.read()
		if err == io.EOF {
			return l.errorAt(mdwerror.CodeUnterminatedToken, "unterminated block comment", l.start)
		}
		if err != nil {
			return l.ioError(err)
		}
		if star && r == '/' {
			return nil
		}
		star = r == '*'
	}
}

func (l *Lexer) readString() (token.Token, error) {
	var sb strings.Builder
	for {
		r, err := l.read()
		if err == io.EOF {
			return token.Token{}, l.errorAt(mdwerror.CodeUnterminatedToken, "unterminated string constant", l.start)
		}
		if err != nil {
			return token.Token{}, l.ioError(err)
		}
		switch r {
		case '"':
			return token.NewStringConstant(sb.String(), l.start)
		case '\n':
			return token.Token{}, l.errorAt(mdwerror.CodeUnterminatedToken, "newline in string constant", l.start)
		}
		sb.WriteRune(r)
	}
}

func (l *Lexer) read() (rune, error) {
	r, _, err := l.r.ReadRune()
	if err != nil {
		return 0, err
	}
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r, nil
}

// peek returns the next character without consuming it; ok is false at the
// end of input.
func (l *Lexer) peek() (rune, bool, error) {
	r, _, err := l.r.ReadRune()
	if errors.Is(err, io.EOF) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, l.ioError(err)
	}
	if err := l.r.UnreadRune(); err != nil {
		return 0, false, l.ioError(err)
	}
	return r, true, nil
}

func (l *Lexer) errorAt(code mdwerror.Code, msg string, pos token.Pos) error {
	return mdwerror.New(fmt.Sprintf("%s at line %d, column %d", msg, pos.Line, pos.Column)).
		WithCode(code).
		WithOperation("lex").
		At(pos.Line, pos.Column)
}

func (l *Lexer) ioError(err error) error {
	return mdwerror.Wrap(err, "read source").WithCode(mdwerror.CodeIOError)
}

// Tokenize reads all tokens from r.
func Tokenize(r io.Reader) ([]token.Token, error) {
	l := New(r)
	var toks []token.Token
	for {
		tok, err := l.Next()
		if err == io.EOF {
			return toks, nil
		}
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
	}
}
