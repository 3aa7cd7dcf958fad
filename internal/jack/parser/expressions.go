package parser

import (
	"github.com/msto63/jackc/internal/jack/token"
)

// canStartExpression reports whether the current token is in FIRST(term).
func (p *Parser) canStartExpression() bool {
	if p.eof {
		return false
	}
	switch p.cur.Kind {
	case token.KindIntegerConstant, token.KindStringConstant, token.KindIdentifier:
		return true
	case token.KindKeyword:
		return p.cur.Keyword.IsKeywordConstant()
	case token.KindSymbol:
		return p.cur.IsSymbol(token.LParen) || p.cur.IsUnaryOp()
	}
	return false
}

// expression := term (op term)*
//
// Operators are recorded in source order; no precedence is applied.
func (p *Parser) compileExpression() error {
	p.open("expression")
	if err := p.compileTerm(); err != nil {
		return err
	}
	for !p.eof && p.cur.IsOp() {
		p.openIf("op")
		if _, err := p.consume(); err != nil {
			return err
		}
		p.closeIf("op")
		if err := p.compileTerm(); err != nil {
			return err
		}
	}
	p.close("expression")
	return nil
}

// term := integerConstant | stringConstant | keywordConstant
//
//	| identifier | identifier '[' expression ']' | subroutineCall
//	| '(' expression ')' | ('-'|'~') term
func (p *Parser) compileTerm() error {
	if !p.canStartExpression() {
		return p.mismatch("term")
	}
	if err := p.descend(); err != nil {
		return err
	}
	p.open("term")

	var err error
	switch p.cur.Kind {
	case token.KindIntegerConstant:
		_, err = p.expectIntegerConstant()
	case token.KindStringConstant:
		_, err = p.expectStringConstant()
	case token.KindKeyword:
		_, err = p.consume()
	case token.KindIdentifier:
		err = p.compileIdentifierTerm()
	default:
		if p.cur.IsSymbol(token.LParen) {
			err = p.compileParenthesized()
		} else {
			if _, err = p.consume(); err == nil {
				err = p.compileTerm()
			}
		}
	}
	if err != nil {
		return err
	}

	p.close("term")
	return nil
}

// compileIdentifierTerm picks the production of a term starting with an
// identifier by looking at the token after it.
func (p *Parser) compileIdentifierTerm() error {
	next, eof, err := p.peek()
	if err != nil {
		return err
	}
	switch {
	case !eof && next.IsSymbol(token.LBracket):
		if _, err := p.expectIdentifier(p.uses()); err != nil {
			return err
		}
		return p.compileIndex()
	case !eof && next.IsSymbol(token.LParen, token.Dot):
		return p.compileSubroutineCall()
	default:
		_, err := p.expectIdentifier(p.uses())
		return err
	}
}

func (p *Parser) compileParenthesized() error {
	if _, err := p.expectSymbol(token.LParen); err != nil {
		return err
	}
	if err := p.compileExpression(); err != nil {
		return err
	}
	_, err := p.expectSymbol(token.RParen)
	return err
}

// subroutineCall := identifier ('.' identifier)? '(' expressionList ')'
func (p *Parser) compileSubroutineCall() error {
	p.openIf("subroutineCall")

	if p.eof || p.cur.Kind != token.KindIdentifier {
		return p.mismatch("identifier")
	}
	next, eof, err := p.peek()
	if err != nil {
		return err
	}
	if !eof && next.IsSymbol(token.Dot) {
		if _, err := p.expectIdentifier(p.callTarget()); err != nil {
			return err
		}
		if _, err := p.consume(); err != nil {
			return err
		}
	}
	if _, err := p.expectIdentifier(names("subroutine", usageUsed)); err != nil {
		return err
	}

	if _, err := p.expectSymbol(token.LParen); err != nil {
		return err
	}
	if err := p.compileExpressionList(); err != nil {
		return err
	}
	if _, err := p.expectSymbol(token.RParen); err != nil {
		return err
	}

	p.closeIf("subroutineCall")
	return nil
}

// expressionList := (expression (',' expression)*)?
func (p *Parser) compileExpressionList() error {
	p.open("expressionList")
	if p.canStartExpression() {
		if err := p.compileExpression(); err != nil {
			return err
		}
		for p.atSymbol(token.Comma) {
			if _, err := p.consume(); err != nil {
				return err
			}
			if err := p.compileExpression(); err != nil {
				return err
			}
		}
	}
	p.close("expressionList")
	return nil
}
