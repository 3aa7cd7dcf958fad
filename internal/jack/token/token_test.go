package token

import (
	"testing"

	mdwerror "github.com/msto63/jackc/foundation/core/error"
)

func TestNewIntegerConstant(t *testing.T) {
	tests := []struct {
		digits   string
		want     uint16
		wantCode mdwerror.Code
	}{
		{"0", 0, ""},
		{"32767", 32767, ""},
		{"007", 7, ""},
		{"32768", 0, mdwerror.CodeValueOutOfRange},
		{"99999999999999999999999", 0, mdwerror.CodeValueOutOfRange},
		{"12a", 0, mdwerror.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.digits, func(t *testing.T) {
			tok, err := NewIntegerConstant(tt.digits, Pos{Line: 1, Column: 1})
			if tt.wantCode != "" {
				if !mdwerror.HasCode(err, tt.wantCode) {
					t.Fatalf("NewIntegerConstant() error = %v, want code %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewIntegerConstant() error = %v", err)
			}
			if tok.Int != tt.want {
				t.Errorf("Int = %d, want %d", tok.Int, tt.want)
			}
			if tok.Text != tt.digits {
				t.Errorf("Text = %q, want source spelling %q", tok.Text, tt.digits)
			}
		})
	}
}

func TestNewIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"x", false},
		{"_tmp1", false},
		{"Square", false},
		{"1abc", true},
		{"", true},
		{"a-b", true},
	}

	for _, tt := range tests {
		_, err := NewIdentifier(tt.name, Pos{})
		if (err != nil) != tt.wantErr {
			t.Errorf("NewIdentifier(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if tt.wantErr && !mdwerror.HasCode(err, mdwerror.CodeInvalidIdentifier) {
			t.Errorf("NewIdentifier(%q) code = %v", tt.name, mdwerror.GetCode(err))
		}
	}
}

func TestNewStringConstant(t *testing.T) {
	if _, err := NewStringConstant("hello world", Pos{}); err != nil {
		t.Errorf("NewStringConstant() error = %v", err)
	}
	if _, err := NewStringConstant("a\nb", Pos{}); err == nil {
		t.Error("NewStringConstant() with newline should fail")
	}
	if _, err := NewStringConstant(`a"b`, Pos{}); err == nil {
		t.Error("NewStringConstant() with quote should fail")
	}
}

func TestLookupKeyword(t *testing.T) {
	for kw := KeywordClass; kw <= KeywordReturn; kw++ {
		got, ok := LookupKeyword(kw.String())
		if !ok || got != kw {
			t.Errorf("LookupKeyword(%q) = %v, %v", kw.String(), got, ok)
		}
	}
	if _, ok := LookupKeyword("iffy"); ok {
		t.Error("LookupKeyword(iffy) should fail")
	}
	if _, ok := LookupKeyword("Class"); ok {
		t.Error("keywords are case sensitive")
	}
}

func TestLookupSymbol(t *testing.T) {
	for _, r := range "{}()[].,;+-*/&|<>=~" {
		s, ok := LookupSymbol(r)
		if !ok || rune(s) != r {
			t.Errorf("LookupSymbol(%q) = %v, %v", r, s, ok)
		}
	}
	for _, r := range "#$!?\"" {
		if _, ok := LookupSymbol(r); ok {
			t.Errorf("LookupSymbol(%q) should fail", r)
		}
	}
}

func TestTokenPredicates(t *testing.T) {
	plus := NewSymbol(Plus, Pos{})
	if !plus.IsOp() || plus.IsUnaryOp() {
		t.Error("'+' is a binary operator only")
	}
	minus := NewSymbol(Minus, Pos{})
	if !minus.IsOp() || !minus.IsUnaryOp() {
		t.Error("'-' is both binary and unary")
	}
	let := NewKeyword(KeywordLet, Pos{})
	if !let.IsKeyword(KeywordDo, KeywordLet) || let.IsSymbol(Plus) {
		t.Error("IsKeyword() mismatch")
	}
	if !KeywordThis.IsKeywordConstant() || KeywordInt.IsKeywordConstant() {
		t.Error("IsKeywordConstant() mismatch")
	}
}

func TestTokenString(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{NewSymbol(Equals, Pos{}), "symbol '='"},
		{NewKeyword(KeywordClass, Pos{}), "keyword 'class'"},
		{Token{Kind: KindStringConstant, Text: "hi"}, `stringConstant "hi"`},
		{Token{}, "no token"},
	}
	for _, tt := range tests {
		if got := tt.tok.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
