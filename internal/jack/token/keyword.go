package token

// Keyword enumerates the reserved words of Jack.
type Keyword int

const (
	KeywordClass Keyword = iota + 1
	KeywordConstructor
	KeywordFunction
	KeywordMethod
	KeywordField
	KeywordStatic
	KeywordVar
	KeywordInt
	KeywordChar
	KeywordBoolean
	KeywordVoid
	KeywordTrue
	KeywordFalse
	KeywordNull
	KeywordThis
	KeywordLet
	KeywordDo
	KeywordIf
	KeywordElse
	KeywordWhile
	KeywordReturn
)

var keywordNames = [...]string{
	KeywordClass:       "class",
	KeywordConstructor: "constructor",
	KeywordFunction:    "function",
	KeywordMethod:      "method",
	KeywordField:       "field",
	KeywordStatic:      "static",
	KeywordVar:         "var",
	KeywordInt:         "int",
	KeywordChar:        "char",
	KeywordBoolean:     "boolean",
	KeywordVoid:        "void",
	KeywordTrue:        "true",
	KeywordFalse:       "false",
	KeywordNull:        "null",
	KeywordThis:        "this",
	KeywordLet:         "let",
	KeywordDo:          "do",
	KeywordIf:          "if",
	KeywordElse:        "else",
	KeywordWhile:       "while",
	KeywordReturn:      "return",
}

var keywords map[string]Keyword

func init() {
	keywords = make(map[string]Keyword, len(keywordNames))
	for kw, name := range keywordNames {
		if name != "" {
			keywords[name] = Keyword(kw)
		}
	}
}

// String returns the spelling of the keyword.
func (k Keyword) String() string {
	if k > 0 && int(k) < len(keywordNames) {
		return keywordNames[k]
	}
	return ""
}

// LookupKeyword returns the keyword spelled word.
func LookupKeyword(word string) (Keyword, bool) {
	kw, ok := keywords[word]
	return kw, ok
}

// IsKeywordConstant reports whether k is true, false, null or this.
func (k Keyword) IsKeywordConstant() bool {
	switch k {
	case KeywordTrue, KeywordFalse, KeywordNull, KeywordThis:
		return true
	}
	return false
}

// IsPrimitiveType reports whether k names a built-in type.
func (k Keyword) IsPrimitiveType() bool {
	switch k {
	case KeywordInt, KeywordChar, KeywordBoolean:
		return true
	}
	return false
}

// IsStatement reports whether k starts a statement.
func (k Keyword) IsStatement() bool {
	switch k {
	case KeywordLet, KeywordIf, KeywordWhile, KeywordDo, KeywordReturn:
		return true
	}
	return false
}
