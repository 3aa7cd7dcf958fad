// ============================================================================
// jackc - Jack Syntax Analyzer
// ============================================================================
//
// Package: parser
// Description: Recursive descent parser emitting the tagged parse tree
// Author: Mike Stoffels
// Created: 2025-12-04
// License: MIT
// ============================================================================

// Package parser implements the Jack syntax analyzer.
//
// Every grammar rule is one method. A method opens the rule's tag, matches
// its terminals against the current token, recurses into the rules it is
// made of and closes the tag again. The tree is never held in memory; it is
// streamed to the destination while parsing. The parser looks at the current
// token and, when a term starts with an identifier, at one token beyond it.
package parser

import (
	"errors"
	"fmt"
	"io"
	"strings"

	mdwerror "github.com/msto63/jackc/foundation/core/error"
	mdwlog "github.com/msto63/jackc/foundation/core/log"
	"github.com/msto63/jackc/internal/jack/lexer"
	"github.com/msto63/jackc/internal/jack/symtab"
	"github.com/msto63/jackc/internal/jack/token"
	"github.com/msto63/jackc/internal/jack/xmltree"
)

// Style selects which rules get their own tag.
type Style int

const (
	// StyleFull wraps every rule, including type, statement,
	// subroutineCall and op.
	StyleFull Style = iota
	// StyleCourse omits the type, statement, subroutineCall and op tags,
	// matching the reference output of the nand2tetris course.
	StyleCourse
)

func (s Style) String() string {
	switch s {
	case StyleFull:
		return "full"
	case StyleCourse:
		return "course"
	default:
		return fmt.Sprintf("Style(%d)", int(s))
	}
}

// ParseStyle parses a style name.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full", "":
		return StyleFull, nil
	case "course", "nand2tetris":
		return StyleCourse, nil
	}
	return StyleFull, fmt.Errorf("unknown tree style %q", s)
}

// DefaultMaxDepth bounds the number of open tags when Options.MaxDepth is
// zero.
const DefaultMaxDepth = 1000

// Options configures the parser.
type Options struct {
	Style Style
	// Annotate adds kind, index and usage attributes to identifiers.
	Annotate bool
	// MaxDepth bounds the nesting of the tree; negative means unbounded.
	MaxDepth int
	Logger   *mdwlog.Logger
}

// SyntaxError reports a token that does not fit the grammar.
type SyntaxError struct {
	Expected string
	Found    token.Token
	AtEOF    bool
}

func (e *SyntaxError) Error() string {
	if e.AtEOF {
		return fmt.Sprintf("syntax error: expected %s, found end of input", e.Expected)
	}
	return fmt.Sprintf("syntax error at line %d, column %d: expected %s, found %s",
		e.Found.Pos.Line, e.Found.Pos.Column, e.Expected, e.Found)
}

// Code classifies the error for the structured error helpers.
func (e *SyntaxError) Code() mdwerror.Code {
	return mdwerror.CodeSyntax
}

// IsSyntaxError reports whether err is or wraps a *SyntaxError.
func IsSyntaxError(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se)
}

// Stats describes a finished run.
type Stats struct {
	Class  string
	Tokens int
	Lines  int
}

// Parser turns one Jack class into a tagged tree.
type Parser struct {
	lex     *lexer.Lexer
	out     *xmltree.Writer
	opts    Options
	logger  *mdwlog.Logger
	symbols *symtab.Table

	cur token.Token
	eof bool

	// second token of lookahead, filled by peek
	ahead    token.Token
	aheadEOF bool
	hasAhead bool

	consumed  int
	className string
	started   bool
}

// New returns a parser reading Jack source from src and writing the tree
// to dst.
func New(src io.Reader, dst io.Writer, opts Options) *Parser {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	if opts.MaxDepth == 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &Parser{
		lex:     lexer.New(src),
		out:     xmltree.NewWriter(dst),
		opts:    opts,
		logger:  opts.Logger.WithField("component", "jack-parser"),
		symbols: symtab.New(),
	}
}

// Compile parses one class and writes its tree. It must be called once.
// Output written before a failure is flushed and left in place.
func (p *Parser) Compile() error {
	if p.started {
		return mdwerror.New("parser already used").WithCode(mdwerror.CodeInternal)
	}
	p.started = true
	p.logger.Debug("Starting Jack parsing", mdwlog.Fields{"style": p.opts.Style.String(), "annotate": p.opts.Annotate})

	err := p.advance()
	if err == nil {
		err = p.compileClass()
	}
	if err == nil && !p.eof {
		err = p.mismatch("end of input")
	}

	flushErr := p.out.Flush()
	if err != nil {
		p.logger.Debug("Jack parsing failed", mdwlog.Fields{"consumed": p.consumed, "error": err.Error()})
		return err
	}
	if flushErr != nil {
		return writeError(flushErr)
	}
	if p.out.Depth() != 0 {
		return mdwerror.New("unbalanced parse tree").WithCode(mdwerror.CodeInternal)
	}

	p.logger.Debug("Jack parsing completed", mdwlog.Fields{"class": p.className, "tokens": p.consumed, "lines": p.out.Lines()})
	return nil
}

// Stats returns the class name and the token and line counts of the
// output written so far.
func (p *Parser) Stats() Stats {
	return Stats{Class: p.className, Tokens: p.consumed, Lines: p.out.Lines()}
}

// Parse is a convenience wrapper around New and Compile.
func Parse(src io.Reader, dst io.Writer, opts Options) (Stats, error) {
	p := New(src, dst, opts)
	err := p.Compile()
	return p.Stats(), err
}

// ParseString parses src and returns the tree as a string.
func ParseString(src string, opts Options) (string, error) {
	var sb strings.Builder
	_, err := Parse(strings.NewReader(src), &sb, opts)
	return sb.String(), err
}

// ---------------------------------------------------------------------------
// Cursor
// ---------------------------------------------------------------------------

func (p *Parser) pull() (token.Token, bool, error) {
	tok, err := p.lex.Next()
	if err == io.EOF {
		return token.Token{}, true, nil
	}
	if err != nil {
		return token.Token{}, false, err
	}
	return tok, false, nil
}

func (p *Parser) advance() error {
	if p.hasAhead {
		p.cur, p.eof = p.ahead, p.aheadEOF
		p.hasAhead = false
		return nil
	}
	tok, eof, err := p.pull()
	if err != nil {
		return err
	}
	p.cur, p.eof = tok, eof
	return nil
}

// peek returns the token after the current one without consuming either.
func (p *Parser) peek() (token.Token, bool, error) {
	if !p.hasAhead {
		if p.eof {
			return token.Token{}, true, nil
		}
		tok, eof, err := p.pull()
		if err != nil {
			return token.Token{}, false, err
		}
		p.ahead, p.aheadEOF, p.hasAhead = tok, eof, true
	}
	return p.ahead, p.aheadEOF, nil
}

func (p *Parser) atKeyword(kws ...token.Keyword) bool {
	return !p.eof && p.cur.IsKeyword(kws...)
}

func (p *Parser) atSymbol(syms ...token.Symbol) bool {
	return !p.eof && p.cur.IsSymbol(syms...)
}

func (p *Parser) mismatch(expected string) error {
	return &SyntaxError{Expected: expected, Found: p.cur, AtEOF: p.eof}
}

// ---------------------------------------------------------------------------
// Terminals
// ---------------------------------------------------------------------------

// consume writes the current token and advances.
func (p *Parser) consume(attrs ...xmltree.Attr) (token.Token, error) {
	tok := p.cur
	p.out.Leaf(tok.TagName(), tok.Text, attrs...)
	p.consumed++
	if err := p.out.Err(); err != nil {
		return tok, writeError(err)
	}
	return tok, p.advance()
}

// writeError wraps a failure of the destination. A code set by the
// destination itself is kept.
func writeError(err error) error {
	wrapped := mdwerror.Wrap(err, "write parse tree")
	if wrapped.Code() == mdwerror.CodeUnknown {
		wrapped = wrapped.WithCode(mdwerror.CodeIOError)
	}
	return wrapped
}

// descend fails when opening one more tag would exceed MaxDepth.
func (p *Parser) descend() error {
	if p.opts.MaxDepth < 0 || p.out.Depth() < p.opts.MaxDepth {
		return nil
	}
	pos := p.cur.Pos
	return mdwerror.Newf("nesting exceeds %d levels at line %d, column %d", p.opts.MaxDepth, pos.Line, pos.Column).
		WithCode(mdwerror.CodeInvalidInput).
		WithOperation("parse").
		At(pos.Line, pos.Column)
}

func (p *Parser) expectKeyword(kws ...token.Keyword) (token.Token, error) {
	if !p.atKeyword(kws...) {
		return p.cur, p.mismatch(describeKeywords(kws))
	}
	return p.consume()
}

func (p *Parser) expectSymbol(sym token.Symbol) (token.Token, error) {
	if !p.atSymbol(sym) {
		return p.cur, p.mismatch(fmt.Sprintf("symbol '%s'", sym))
	}
	return p.consume()
}

// expectIdentifier matches an identifier. ann, when annotation is enabled,
// supplies the identifier's attributes.
func (p *Parser) expectIdentifier(ann annotation) (token.Token, error) {
	if p.eof || p.cur.Kind != token.KindIdentifier {
		return p.cur, p.mismatch("identifier")
	}
	var attrs []xmltree.Attr
	if p.opts.Annotate && ann != nil {
		attrs = ann(p.cur.Text)
	}
	return p.consume(attrs...)
}

func (p *Parser) expectIntegerConstant() (token.Token, error) {
	if p.eof || p.cur.Kind != token.KindIntegerConstant {
		return p.cur, p.mismatch("integerConstant")
	}
	return p.consume()
}

func (p *Parser) expectStringConstant() (token.Token, error) {
	if p.eof || p.cur.Kind != token.KindStringConstant {
		return p.cur, p.mismatch("stringConstant")
	}
	return p.consume()
}

func (p *Parser) open(tag string) {
	p.out.Open(tag)
}

func (p *Parser) close(tag string) {
	p.out.Close(tag)
}

// openIf and closeIf handle the tags only written in StyleFull.
func (p *Parser) openIf(tag string) {
	if p.opts.Style == StyleFull {
		p.out.Open(tag)
	}
}

func (p *Parser) closeIf(tag string) {
	if p.opts.Style == StyleFull {
		p.out.Close(tag)
	}
}

func describeKeywords(kws []token.Keyword) string {
	quoted := make([]string, len(kws))
	for i, kw := range kws {
		quoted[i] = "'" + kw.String() + "'"
	}
	switch len(quoted) {
	case 1:
		return "keyword " + quoted[0]
	case 2:
		return "keyword " + quoted[0] + " or " + quoted[1]
	}
	return "keyword " + strings.Join(quoted[:len(quoted)-1], ", ") + " or " + quoted[len(quoted)-1]
}
