package parser

import (
	"bytes"
	"strings"
	"testing"

	mdwerror "github.com/msto63/jackc/foundation/core/error"
	mdwlog "github.com/msto63/jackc/foundation/core/log"
)

func quietLogger() *mdwlog.Logger {
	return mdwlog.NewWithConfig(mdwlog.Config{Level: mdwlog.LevelError, Output: &bytes.Buffer{}})
}

// openTags replays the tags of a tree and returns those left open. balanced
// is false when a close tag does not match the innermost open one.
func openTags(tree string) (open []string, balanced bool) {
	for _, line := range strings.Split(tree, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
		case strings.HasPrefix(line, "</"):
			name := strings.TrimSuffix(strings.TrimPrefix(line, "</"), ">")
			if len(open) == 0 || open[len(open)-1] != name {
				return open, false
			}
			open = open[:len(open)-1]
		case strings.Contains(line, "</"):
			// leaf
		default:
			name := strings.TrimPrefix(line, "<")
			if i := strings.IndexAny(name, " >"); i >= 0 {
				name = name[:i]
			}
			open = append(open, name)
		}
	}
	return open, true
}

func parse(t *testing.T, src string, opts Options) string {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = quietLogger()
	}
	out, err := ParseString(src, opts)
	if err != nil {
		t.Fatalf("ParseString() error = %v\noutput so far:\n%s", err, out)
	}
	checkBalanced(t, out)
	return out
}

// trimmed returns the output lines without indentation.
func trimmed(out string) []string {
	var lines []string
	for _, l := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		lines = append(lines, strings.TrimSpace(l))
	}
	return lines
}

// containsSeq reports whether want occurs as a contiguous run in lines.
func containsSeq(lines, want []string) bool {
	for i := 0; i+len(want) <= len(lines); i++ {
		match := true
		for j := range want {
			if lines[i+j] != want[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func count(lines []string, line string) int {
	n := 0
	for _, l := range lines {
		if l == line {
			n++
		}
	}
	return n
}

// checkBalanced verifies that every opened tag is closed in order and that
// indentation follows nesting depth.
func checkBalanced(t *testing.T, out string) {
	t.Helper()
	var stack []string
	for i, raw := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		indent := len(raw) - len(strings.TrimLeft(raw, " "))
		line := strings.TrimSpace(raw)
		switch {
		case strings.HasPrefix(line, "</"):
			name := strings.TrimSuffix(strings.TrimPrefix(line, "</"), ">")
			if len(stack) == 0 || stack[len(stack)-1] != name {
				t.Fatalf("line %d: unexpected close %q, open %v", i+1, name, stack)
			}
			stack = stack[:len(stack)-1]
			if indent != 2*len(stack) {
				t.Fatalf("line %d: indent %d, want %d", i+1, indent, 2*len(stack))
			}
		case strings.Contains(line, "</"):
			if indent != 2*len(stack) {
				t.Fatalf("line %d: indent %d, want %d", i+1, indent, 2*len(stack))
			}
		default:
			if indent != 2*len(stack) {
				t.Fatalf("line %d: indent %d, want %d", i+1, indent, 2*len(stack))
			}
			name := strings.TrimSuffix(strings.TrimPrefix(line, "<"), ">")
			if idx := strings.IndexByte(name, ' '); idx >= 0 {
				name = name[:idx]
			}
			stack = append(stack, name)
		}
	}
	if len(stack) != 0 {
		t.Fatalf("unclosed tags %v", stack)
	}
}

func TestCompile_ClassVarDecExact(t *testing.T) {
	got := parse(t, "class A { field int x, y; }", Options{Style: StyleCourse})

	want := `<class>
  <keyword> class </keyword>
  <identifier> A </identifier>
  <symbol> { </symbol>
  <classVarDec>
    <keyword> field </keyword>
    <keyword> int </keyword>
    <identifier> x </identifier>
    <symbol> , </symbol>
    <identifier> y </identifier>
    <symbol> ; </symbol>
  </classVarDec>
  <symbol> } </symbol>
</class>
`
	if got != want {
		t.Errorf("Compile() =\n%s\nwant\n%s", got, want)
	}
}

func TestCompile_ClassVarDecFullStyle(t *testing.T) {
	lines := trimmed(parse(t, "class A { field int x, y; }", Options{Style: StyleFull}))

	want := []string{
		"<classVarDec>",
		"<keyword> field </keyword>",
		"<type>",
		"<keyword> int </keyword>",
		"</type>",
		"<identifier> x </identifier>",
		"<symbol> , </symbol>",
		"<identifier> y </identifier>",
		"<symbol> ; </symbol>",
		"</classVarDec>",
	}
	if !containsSeq(lines, want) {
		t.Errorf("output misses %v:\n%s", want, strings.Join(lines, "\n"))
	}
	if count(lines, "<classVarDec>") != 1 {
		t.Errorf("expected exactly one classVarDec")
	}
}

func TestCompile_EmptyParameterListAndBareReturn(t *testing.T) {
	got := parse(t, "class A { function void f() { return; } }", Options{Style: StyleCourse})

	want := `<class>
  <keyword> class </keyword>
  <identifier> A </identifier>
  <symbol> { </symbol>
  <subroutineDec>
    <keyword> function </keyword>
    <keyword> void </keyword>
    <identifier> f </identifier>
    <symbol> ( </symbol>
    <parameterList>
    </parameterList>
    <symbol> ) </symbol>
    <subroutineBody>
      <symbol> { </symbol>
      <statements>
        <returnStatement>
          <keyword> return </keyword>
          <symbol> ; </symbol>
        </returnStatement>
      </statements>
      <symbol> } </symbol>
    </subroutineBody>
  </subroutineDec>
  <symbol> } </symbol>
</class>
`
	if got != want {
		t.Errorf("Compile() =\n%s\nwant\n%s", got, want)
	}
}

func TestCompile_ArrayIndexAndQualifiedCall(t *testing.T) {
	src := "class A { function void f() { let a[1] = b.c(1,2); return; } }"
	lines := trimmed(parse(t, src, Options{Style: StyleCourse}))

	want := []string{
		"<letStatement>",
		"<keyword> let </keyword>",
		"<identifier> a </identifier>",
		"<symbol> [ </symbol>",
		"<expression>",
		"<term>",
		"<integerConstant> 1 </integerConstant>",
		"</term>",
		"</expression>",
		"<symbol> ] </symbol>",
		"<symbol> = </symbol>",
		"<expression>",
		"<term>",
		"<identifier> b </identifier>",
		"<symbol> . </symbol>",
		"<identifier> c </identifier>",
		"<symbol> ( </symbol>",
		"<expressionList>",
		"<expression>",
		"<term>",
		"<integerConstant> 1 </integerConstant>",
		"</term>",
		"</expression>",
		"<symbol> , </symbol>",
		"<expression>",
		"<term>",
		"<integerConstant> 2 </integerConstant>",
		"</term>",
		"</expression>",
		"</expressionList>",
		"<symbol> ) </symbol>",
		"</term>",
		"</expression>",
		"<symbol> ; </symbol>",
		"</letStatement>",
	}
	if !containsSeq(lines, want) {
		t.Errorf("output misses let statement:\n%s", strings.Join(lines, "\n"))
	}
}

func TestCompile_IfElse(t *testing.T) {
	src := "class A { function void f() { if (x) { } else { } return; } }"
	lines := trimmed(parse(t, src, Options{Style: StyleCourse}))

	want := []string{
		"<ifStatement>",
		"<keyword> if </keyword>",
		"<symbol> ( </symbol>",
		"<expression>",
		"<term>",
		"<identifier> x </identifier>",
		"</term>",
		"</expression>",
		"<symbol> ) </symbol>",
		"<symbol> { </symbol>",
		"<statements>",
		"</statements>",
		"<symbol> } </symbol>",
		"<keyword> else </keyword>",
		"<symbol> { </symbol>",
		"<statements>",
		"</statements>",
		"<symbol> } </symbol>",
		"</ifStatement>",
	}
	if !containsSeq(lines, want) {
		t.Errorf("output misses if statement:\n%s", strings.Join(lines, "\n"))
	}
	// one statements node for the body plus two for the branches
	if got := count(lines, "<statements>"); got != 3 {
		t.Errorf("statements nodes = %d, want 3", got)
	}
}

func TestCompile_FullStyleWrappers(t *testing.T) {
	src := "class A { function void f() { let x = a + 1; do g(); return; } }"
	lines := trimmed(parse(t, src, Options{Style: StyleFull}))

	let := []string{
		"<statement>",
		"<letStatement>",
		"<keyword> let </keyword>",
		"<identifier> x </identifier>",
		"<symbol> = </symbol>",
		"<expression>",
		"<term>",
		"<identifier> a </identifier>",
		"</term>",
		"<op>",
		"<symbol> + </symbol>",
		"</op>",
		"<term>",
		"<integerConstant> 1 </integerConstant>",
		"</term>",
		"</expression>",
		"<symbol> ; </symbol>",
		"</letStatement>",
		"</statement>",
	}
	if !containsSeq(lines, let) {
		t.Errorf("output misses wrapped let:\n%s", strings.Join(lines, "\n"))
	}

	do := []string{
		"<doStatement>",
		"<keyword> do </keyword>",
		"<subroutineCall>",
		"<identifier> g </identifier>",
		"<symbol> ( </symbol>",
		"<expressionList>",
		"</expressionList>",
		"<symbol> ) </symbol>",
		"</subroutineCall>",
		"<symbol> ; </symbol>",
		"</doStatement>",
	}
	if !containsSeq(lines, do) {
		t.Errorf("output misses wrapped do:\n%s", strings.Join(lines, "\n"))
	}
}

func TestCompile_FlatOperatorChain(t *testing.T) {
	src := "class A { function int f() { return 1 + 2 * 3; } }"
	lines := trimmed(parse(t, src, Options{Style: StyleCourse}))

	want := []string{
		"<expression>",
		"<term>",
		"<integerConstant> 1 </integerConstant>",
		"</term>",
		"<symbol> + </symbol>",
		"<term>",
		"<integerConstant> 2 </integerConstant>",
		"</term>",
		"<symbol> * </symbol>",
		"<term>",
		"<integerConstant> 3 </integerConstant>",
		"</term>",
		"</expression>",
	}
	if !containsSeq(lines, want) {
		t.Errorf("expression is not flat:\n%s", strings.Join(lines, "\n"))
	}
}

func TestCompile_EscapingAndTerms(t *testing.T) {
	src := `class A {
  function boolean f(int a, Point p) {
    var String s;
    let s = "x < y & z";
    while (~(a > 0) | (a < p.x())) { let a = -a; }
    return (a = 1) & true;
  }
}`
	lines := trimmed(parse(t, src, Options{Style: StyleCourse}))

	for _, want := range []string{
		"<stringConstant> x &lt; y &amp; z </stringConstant>",
		"<symbol> &gt; </symbol>",
		"<symbol> &lt; </symbol>",
		"<symbol> &amp; </symbol>",
		"<symbol> | </symbol>",
		"<symbol> ~ </symbol>",
		"<keyword> true </keyword>",
	} {
		if count(lines, want) == 0 {
			t.Errorf("output misses %q", want)
		}
	}

	unary := []string{
		"<term>",
		"<symbol> - </symbol>",
		"<term>",
		"<identifier> a </identifier>",
		"</term>",
		"</term>",
	}
	if !containsSeq(lines, unary) {
		t.Errorf("output misses nested unary term:\n%s", strings.Join(lines, "\n"))
	}

	params := []string{
		"<parameterList>",
		"<keyword> int </keyword>",
		"<identifier> a </identifier>",
		"<symbol> , </symbol>",
		"<identifier> Point </identifier>",
		"<identifier> p </identifier>",
		"</parameterList>",
	}
	if !containsSeq(lines, params) {
		t.Errorf("output misses parameter list:\n%s", strings.Join(lines, "\n"))
	}
}

func TestCompile_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected string
		found    string
		atEOF    bool
	}{
		{"missing let target", "class A { function void f() { let = 5; } }", "identifier", "=", false},
		{"missing semicolon", "class A { field int x }", "symbol ';'", "}", false},
		{"missing class name", "class { }", "identifier", "{", false},
		{"return without semicolon", "class A { function void f() { return } }", "symbol ';'", "}", false},
		{"parameter without name", "class A { function void f(int) { return; } }", "identifier", ")", false},
		{"trailing tokens", "class A { } class", "end of input", "class", false},
		{"truncated class", "class A {", "symbol '}'", "", true},
		{"empty input", "", "keyword 'class'", "", true},
		{"missing term", "class A { function void f() { let x = ; } }", "term", ";", false},
		{"var is not a type", "class A { static var x; }", "type", "var", false},
		{"do without call", "class A { function void f() { do 5; } }", "identifier", "5", false},
		{"not a class", "var x;", "keyword 'class'", "var", false},
		{"bad subroutine kind", "class A { void f() {} }", "symbol '}'", "void", false},
		{"unclosed call", "class A { function void f() { do g(1; } }", "symbol ')'", ";", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ParseString(tt.src, Options{Logger: quietLogger()})
			se, ok := err.(*SyntaxError)
			if !ok {
				t.Fatalf("error = %v (%T), want *SyntaxError", err, err)
			}
			if se.Expected != tt.expected {
				t.Errorf("Expected = %q, want %q", se.Expected, tt.expected)
			}
			if se.AtEOF != tt.atEOF {
				t.Errorf("AtEOF = %v, want %v", se.AtEOF, tt.atEOF)
			}
			if !tt.atEOF && se.Found.Text != tt.found {
				t.Errorf("Found = %v, want %q", se.Found, tt.found)
			}
			if !mdwerror.HasCode(err, mdwerror.CodeSyntax) && mdwerror.GetCode(err) != mdwerror.CodeSyntax {
				t.Errorf("GetCode() = %v, want %v", mdwerror.GetCode(err), mdwerror.CodeSyntax)
			}
			if !IsSyntaxError(err) {
				t.Error("IsSyntaxError() = false")
			}
			open, balanced := openTags(out)
			if !balanced {
				t.Errorf("partial output closes a tag out of order:\n%s", out)
			}
			if len(open) == 0 {
				t.Errorf("partial output closes every rule:\n%s", out)
			}
		})
	}
}

func TestCompile_FailedLetLeavesStatementOpen(t *testing.T) {
	out, err := ParseString("class A { function void f() { let = 5; } }", Options{Logger: quietLogger()})
	if err == nil {
		t.Fatal("ParseString() error = nil")
	}
	if !strings.Contains(out, "<letStatement>") {
		t.Errorf("partial output should contain the opened letStatement:\n%s", out)
	}
	if strings.Contains(out, "</letStatement>") {
		t.Errorf("partial output must not close letStatement:\n%s", out)
	}

	want := "syntax error at line 1, column 35: expected identifier, found symbol '='"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestCompile_LexErrorPropagates(t *testing.T) {
	_, err := ParseString("class A { function void f() { let x = 40000; return; } }", Options{Logger: quietLogger()})
	if !mdwerror.HasCode(err, mdwerror.CodeValueOutOfRange) {
		t.Errorf("error = %v, want %s", err, mdwerror.CodeValueOutOfRange)
	}
	if IsSyntaxError(err) {
		t.Error("lexical errors are not syntax errors")
	}

	out := parse(t, "class A { function int f() { return 32767; } }", Options{})
	if !strings.Contains(out, "<integerConstant> 32767 </integerConstant>") {
		t.Errorf("output misses 32767:\n%s", out)
	}
}

func TestCompile_Annotate(t *testing.T) {
	src := `class P {
  field int x;
  static P origin;
  method void move(int dx) {
    var int t;
    let x = x + dx;
    do Output.print(t);
    do helper();
    return;
  }
}`
	lines := trimmed(parse(t, src, Options{Style: StyleCourse, Annotate: true}))

	for _, want := range []string{
		`<identifier kind="class" usage="declared"> P </identifier>`,
		`<identifier kind="field" index="0" usage="declared"> x </identifier>`,
		`<identifier kind="class" usage="used"> P </identifier>`,
		`<identifier kind="static" index="0" usage="declared"> origin </identifier>`,
		`<identifier kind="subroutine" usage="declared"> move </identifier>`,
		`<identifier kind="argument" index="1" usage="declared"> dx </identifier>`,
		`<identifier kind="local" index="0" usage="declared"> t </identifier>`,
		`<identifier kind="field" index="0" usage="used"> x </identifier>`,
		`<identifier kind="argument" index="1" usage="used"> dx </identifier>`,
		`<identifier kind="class" usage="used"> Output </identifier>`,
		`<identifier kind="subroutine" usage="used"> print </identifier>`,
		`<identifier kind="local" index="0" usage="used"> t </identifier>`,
		`<identifier kind="subroutine" usage="used"> helper </identifier>`,
	} {
		if count(lines, want) == 0 {
			t.Errorf("output misses %s", want)
		}
	}
}

func TestCompile_AnnotationDoesNotChangeShape(t *testing.T) {
	src := "class A { field int x; method int get() { var A a; let a = x; return a.get() + x; } }"

	plain := trimmed(parse(t, src, Options{}))
	annotated := trimmed(parse(t, src, Options{Annotate: true}))

	if len(plain) != len(annotated) {
		t.Fatalf("line counts differ: %d vs %d", len(plain), len(annotated))
	}
	for i := range plain {
		if strings.HasPrefix(plain[i], "<identifier>") {
			if !strings.HasPrefix(annotated[i], "<identifier ") {
				t.Errorf("line %d: %q not annotated", i+1, annotated[i])
			}
			continue
		}
		if plain[i] != annotated[i] {
			t.Errorf("line %d: %q vs %q", i+1, plain[i], annotated[i])
		}
	}
	if strings.Contains(strings.Join(plain, "\n"), "kind=") {
		t.Error("annotation attributes written without Annotate")
	}
}

func TestParser_Stats(t *testing.T) {
	var buf bytes.Buffer
	p := New(strings.NewReader("class A { }"), &buf, Options{Logger: quietLogger()})
	if err := p.Compile(); err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	stats := p.Stats()
	if stats.Tokens != 4 {
		t.Errorf("Tokens = %d, want 4", stats.Tokens)
	}
	if stats.Lines != 6 {
		t.Errorf("Lines = %d, want 6", stats.Lines)
	}
	if stats.Class != "A" {
		t.Errorf("Class = %q, want A", stats.Class)
	}
	if err := p.Compile(); err == nil {
		t.Error("second Compile() should fail")
	}
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		in      string
		want    Style
		wantErr bool
	}{
		{"", StyleFull, false},
		{"full", StyleFull, false},
		{"Course", StyleCourse, false},
		{"nand2tetris", StyleCourse, false},
		{"tree", StyleFull, true},
	}
	for _, tt := range tests {
		got, err := ParseStyle(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseStyle(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func nestedReturn(n int) string {
	return "class A { function int f() { return " + strings.Repeat("(", n) + "1" + strings.Repeat(")", n) + "; } }"
}

func nestedWhile(n int) string {
	return "class A { function void f() { " + strings.Repeat("while (true) { ", n) + strings.Repeat("}", n) + " return; } }"
}

func TestCompile_MaxDepth(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		maxDepth int
		wantErr  bool
	}{
		{"parentheses within limit", nestedReturn(10), 40, false},
		{"parentheses over limit", nestedReturn(10), 20, true},
		{"unary chain over limit", "class A { function int f() { return " + strings.Repeat("-", 30) + "1; } }", 20, true},
		{"statements over limit", nestedWhile(10), 20, true},
		{"unbounded", nestedReturn(50), -1, false},
		{"default limit", nestedReturn(5000), 0, true},
		{"default limit on statements", nestedWhile(5000), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ParseString(tt.src, Options{MaxDepth: tt.maxDepth, Logger: quietLogger()})
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("ParseString() error = %v", err)
				}
				return
			}
			if !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
				t.Fatalf("ParseString() error = %v, want %s", err, mdwerror.CodeInvalidInput)
			}
			open, balanced := openTags(out)
			if !balanced || len(open) == 0 {
				t.Errorf("partial output: balanced=%v, %d open tags", balanced, len(open))
			}
			limit := tt.maxDepth
			if limit == 0 {
				limit = DefaultMaxDepth
			}
			if len(open) > limit {
				t.Errorf("%d open tags, limit %d", len(open), limit)
			}
		})
	}
}
