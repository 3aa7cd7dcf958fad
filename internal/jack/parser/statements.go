package parser

import (
	"github.com/msto63/jackc/internal/jack/token"
)

// statements := statement*
func (p *Parser) compileStatements() error {
	if err := p.descend(); err != nil {
		return err
	}
	p.open("statements")
	for !p.eof && p.cur.Kind == token.KindKeyword && p.cur.Keyword.IsStatement() {
		if err := p.compileStatement(); err != nil {
			return err
		}
	}
	p.close("statements")
	return nil
}

// statement := letStatement | ifStatement | whileStatement | doStatement | returnStatement
func (p *Parser) compileStatement() error {
	p.openIf("statement")
	var err error
	switch p.cur.Keyword {
	case token.KeywordLet:
		err = p.compileLet()
	case token.KeywordIf:
		err = p.compileIf()
	case token.KeywordWhile:
		err = p.compileWhile()
	case token.KeywordDo:
		err = p.compileDo()
	case token.KeywordReturn:
		err = p.compileReturn()
	default:
		err = p.mismatch("statement")
	}
	if err != nil {
		return err
	}
	p.closeIf("statement")
	return nil
}

// letStatement := 'let' identifier ('[' expression ']')? '=' expression ';'
func (p *Parser) compileLet() error {
	p.open("letStatement")
	if _, err := p.expectKeyword(token.KeywordLet); err != nil {
		return err
	}
	if _, err := p.expectIdentifier(p.uses()); err != nil {
		return err
	}
	if p.atSymbol(token.LBracket) {
		if err := p.compileIndex(); err != nil {
			return err
		}
	}
	if _, err := p.expectSymbol(token.Equals); err != nil {
		return err
	}
	if err := p.compileExpression(); err != nil {
		return err
	}
	if _, err := p.expectSymbol(token.Semicolon); err != nil {
		return err
	}
	p.close("letStatement")
	return nil
}

// ifStatement := 'if' '(' expression ')' '{' statements '}' ('else' '{' statements '}')?
func (p *Parser) compileIf() error {
	p.open("ifStatement")
	if _, err := p.expectKeyword(token.KeywordIf); err != nil {
		return err
	}
	if err := p.compileCondition(); err != nil {
		return err
	}
	if err := p.compileBlock(); err != nil {
		return err
	}
	if p.atKeyword(token.KeywordElse) {
		if _, err := p.consume(); err != nil {
			return err
		}
		if err := p.compileBlock(); err != nil {
			return err
		}
	}
	p.close("ifStatement")
	return nil
}

// whileStatement := 'while' '(' expression ')' '{' statements '}'
func (p *Parser) compileWhile() error {
	p.open("whileStatement")
	if _, err := p.expectKeyword(token.KeywordWhile); err != nil {
		return err
	}
	if err := p.compileCondition(); err != nil {
		return err
	}
	if err := p.compileBlock(); err != nil {
		return err
	}
	p.close("whileStatement")
	return nil
}

// doStatement := 'do' subroutineCall ';'
func (p *Parser) compileDo() error {
	p.open("doStatement")
	if _, err := p.expectKeyword(token.KeywordDo); err != nil {
		return err
	}
	if err := p.compileSubroutineCall(); err != nil {
		return err
	}
	if _, err := p.expectSymbol(token.Semicolon); err != nil {
		return err
	}
	p.close("doStatement")
	return nil
}

// returnStatement := 'return' expression? ';'
func (p *Parser) compileReturn() error {
	p.open("returnStatement")
	if _, err := p.expectKeyword(token.KeywordReturn); err != nil {
		return err
	}
	if p.canStartExpression() {
		if err := p.compileExpression(); err != nil {
			return err
		}
	}
	if _, err := p.expectSymbol(token.Semicolon); err != nil {
		return err
	}
	p.close("returnStatement")
	return nil
}

// '(' expression ')'
func (p *Parser) compileCondition() error {
	if _, err := p.expectSymbol(token.LParen); err != nil {
		return err
	}
	if err := p.compileExpression(); err != nil {
		return err
	}
	_, err := p.expectSymbol(token.RParen)
	return err
}

// '{' statements '}'
func (p *Parser) compileBlock() error {
	if _, err := p.expectSymbol(token.LBrace); err != nil {
		return err
	}
	if err := p.compileStatements(); err != nil {
		return err
	}
	_, err := p.expectSymbol(token.RBrace)
	return err
}

// '[' expression ']'
func (p *Parser) compileIndex() error {
	if _, err := p.expectSymbol(token.LBracket); err != nil {
		return err
	}
	if err := p.compileExpression(); err != nil {
		return err
	}
	_, err := p.expectSymbol(token.RBracket)
	return err
}
