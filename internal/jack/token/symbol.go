package token

// Symbol is a single-character operator or punctuation mark.
type Symbol rune

const (
	LBrace    Symbol = '{'
	RBrace    Symbol = '}'
	LParen    Symbol = '('
	RParen    Symbol = ')'
	LBracket  Symbol = '['
	RBracket  Symbol = ']'
	Dot       Symbol = '.'
	Comma     Symbol = ','
	Semicolon Symbol = ';'
	Plus      Symbol = '+'
	Minus     Symbol = '-'
	Star      Symbol = '*'
	Slash     Symbol = '/'
	Amp       Symbol = '&'
	Pipe      Symbol = '|'
	Less      Symbol = '<'
	Greater   Symbol = '>'
	Equals    Symbol = '='
	Tilde     Symbol = '~'
)

// LookupSymbol returns the symbol for r.
func LookupSymbol(r rune) (Symbol, bool) {
	switch s := Symbol(r); s {
	case LBrace, RBrace, LParen, RParen, LBracket, RBracket, Dot, Comma, Semicolon,
		Plus, Minus, Star, Slash, Amp, Pipe, Less, Greater, Equals, Tilde:
		return s, true
	}
	return 0, false
}

// IsOp reports whether s is a binary operator.
func (s Symbol) IsOp() bool {
	switch s {
	case Plus, Minus, Star, Slash, Amp, Pipe, Less, Greater, Equals:
		return true
	}
	return false
}

func (s Symbol) String() string {
	return string(rune(s))
}
