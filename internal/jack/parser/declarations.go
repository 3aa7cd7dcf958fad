package parser

import (
	"github.com/msto63/jackc/internal/jack/symtab"
	"github.com/msto63/jackc/internal/jack/token"
)

// class := 'class' identifier '{' classVarDec* subroutineDec* '}'
func (p *Parser) compileClass() error {
	p.open("class")
	if _, err := p.expectKeyword(token.KeywordClass); err != nil {
		return err
	}
	name, err := p.expectIdentifier(names("class", usageDeclared))
	if err != nil {
		return err
	}
	p.className = name.Text
	if _, err := p.expectSymbol(token.LBrace); err != nil {
		return err
	}

	for p.atKeyword(token.KeywordStatic, token.KeywordField) {
		if err := p.compileClassVarDec(); err != nil {
			return err
		}
	}
	for p.atKeyword(token.KeywordConstructor, token.KeywordFunction, token.KeywordMethod) {
		if err := p.compileSubroutineDec(); err != nil {
			return err
		}
	}

	if _, err := p.expectSymbol(token.RBrace); err != nil {
		return err
	}
	p.close("class")
	return nil
}

// classVarDec := ('static'|'field') type identifier (',' identifier)* ';'
func (p *Parser) compileClassVarDec() error {
	p.open("classVarDec")
	kw, err := p.expectKeyword(token.KeywordStatic, token.KeywordField)
	if err != nil {
		return err
	}
	kind, err := symtab.ParseKind(kw.Text)
	if err != nil {
		return err
	}
	if err := p.compileNameList(kind); err != nil {
		return err
	}
	p.close("classVarDec")
	return nil
}

// varDec := 'var' type identifier (',' identifier)* ';'
func (p *Parser) compileVarDec() error {
	p.open("varDec")
	if _, err := p.expectKeyword(token.KeywordVar); err != nil {
		return err
	}
	if err := p.compileNameList(symtab.KindLocal); err != nil {
		return err
	}
	p.close("varDec")
	return nil
}

// compileNameList handles the shared tail of classVarDec and varDec:
// type identifier (',' identifier)* ';'
func (p *Parser) compileNameList(kind symtab.Kind) error {
	typ, err := p.compileType()
	if err != nil {
		return err
	}
	if _, err := p.expectIdentifier(p.declares(kind, typ)); err != nil {
		return err
	}
	for p.atSymbol(token.Comma) {
		if _, err := p.consume(); err != nil {
			return err
		}
		if _, err := p.expectIdentifier(p.declares(kind, typ)); err != nil {
			return err
		}
	}
	_, err = p.expectSymbol(token.Semicolon)
	return err
}

// canStartType reports whether the current token is in FIRST(type).
func (p *Parser) canStartType() bool {
	if p.eof {
		return false
	}
	return p.cur.Kind == token.KindIdentifier ||
		p.cur.IsKeyword(token.KeywordInt, token.KeywordChar, token.KeywordBoolean)
}

// type := 'int' | 'char' | 'boolean' | identifier
//
// compileType returns the spelling of the type.
func (p *Parser) compileType() (string, error) {
	if !p.canStartType() {
		return "", p.mismatch("type")
	}
	p.openIf("type")
	var tok token.Token
	var err error
	if p.cur.Kind == token.KindIdentifier {
		tok, err = p.expectIdentifier(names("class", usageUsed))
	} else {
		tok, err = p.consume()
	}
	if err != nil {
		return "", err
	}
	p.closeIf("type")
	return tok.Text, nil
}

// subroutineDec := ('constructor'|'function'|'method') ('void'|type)
//
//	identifier '(' parameterList ')' subroutineBody
func (p *Parser) compileSubroutineDec() error {
	p.open("subroutineDec")
	kw, err := p.expectKeyword(token.KeywordConstructor, token.KeywordFunction, token.KeywordMethod)
	if err != nil {
		return err
	}
	p.symbols.StartSubroutine()
	if kw.Keyword == token.KeywordMethod {
		p.declareThis()
	}

	if p.atKeyword(token.KeywordVoid) {
		if _, err := p.consume(); err != nil {
			return err
		}
	} else if _, err := p.compileType(); err != nil {
		return err
	}

	if _, err := p.expectIdentifier(names("subroutine", usageDeclared)); err != nil {
		return err
	}
	if _, err := p.expectSymbol(token.LParen); err != nil {
		return err
	}
	if err := p.compileParameterList(); err != nil {
		return err
	}
	if _, err := p.expectSymbol(token.RParen); err != nil {
		return err
	}
	if err := p.compileSubroutineBody(); err != nil {
		return err
	}
	p.close("subroutineDec")
	return nil
}

// parameterList := (type identifier (',' type identifier)*)?
//
// The list is absent exactly when the current token cannot start a type.
func (p *Parser) compileParameterList() error {
	p.open("parameterList")
	if p.canStartType() {
		if err := p.compileParameter(); err != nil {
			return err
		}
		for p.atSymbol(token.Comma) {
			if _, err := p.consume(); err != nil {
				return err
			}
			if err := p.compileParameter(); err != nil {
				return err
			}
		}
	}
	p.close("parameterList")
	return nil
}

func (p *Parser) compileParameter() error {
	typ, err := p.compileType()
	if err != nil {
		return err
	}
	_, err = p.expectIdentifier(p.declares(symtab.KindArgument, typ))
	return err
}

// subroutineBody := '{' varDec* statements '}'
func (p *Parser) compileSubroutineBody() error {
	p.open("subroutineBody")
	if _, err := p.expectSymbol(token.LBrace); err != nil {
		return err
	}
	for p.atKeyword(token.KeywordVar) {
		if err := p.compileVarDec(); err != nil {
			return err
		}
	}
	if err := p.compileStatements(); err != nil {
		return err
	}
	if _, err := p.expectSymbol(token.RBrace); err != nil {
		return err
	}
	p.close("subroutineBody")
	return nil
}
