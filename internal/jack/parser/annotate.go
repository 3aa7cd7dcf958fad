package parser

import (
	"strconv"

	"github.com/msto63/jackc/internal/jack/symtab"
	"github.com/msto63/jackc/internal/jack/xmltree"
)

// annotation computes the attributes of an identifier from its name. It is
// only evaluated when Options.Annotate is set and never influences which
// grammar rule is chosen.
type annotation func(name string) []xmltree.Attr

const (
	usageDeclared = "declared"
	usageUsed     = "used"
)

func (p *Parser) declares(kind symtab.Kind, typ string) annotation {
	return func(name string) []xmltree.Attr {
		idx, err := p.symbols.Declare(name, typ, kind)
		if err != nil {
			return []xmltree.Attr{{Name: "usage", Value: usageDeclared}}
		}
		return variableAttrs(kind, idx, usageDeclared)
	}
}

// names annotates class and subroutine names, which the table does not hold.
func names(kind, usage string) annotation {
	return func(string) []xmltree.Attr {
		return []xmltree.Attr{{Name: "kind", Value: kind}, {Name: "usage", Value: usage}}
	}
}

func (p *Parser) uses() annotation {
	return func(name string) []xmltree.Attr {
		if e, ok := p.symbols.Lookup(name); ok {
			return variableAttrs(e.Kind, e.Index, usageUsed)
		}
		return []xmltree.Attr{{Name: "usage", Value: usageUsed}}
	}
}

// callTarget annotates the part before the dot of a call: a variable if
// the name is declared, a class otherwise.
func (p *Parser) callTarget() annotation {
	return func(name string) []xmltree.Attr {
		if e, ok := p.symbols.Lookup(name); ok {
			return variableAttrs(e.Kind, e.Index, usageUsed)
		}
		return []xmltree.Attr{{Name: "kind", Value: "class"}, {Name: "usage", Value: usageUsed}}
	}
}

func variableAttrs(kind symtab.Kind, idx int, usage string) []xmltree.Attr {
	return []xmltree.Attr{
		{Name: "kind", Value: kind.String()},
		{Name: "index", Value: strconv.Itoa(idx)},
		{Name: "usage", Value: usage},
	}
}

// declareThis registers the implicit receiver of a method.
func (p *Parser) declareThis() {
	if p.opts.Annotate {
		_, _ = p.symbols.Declare("this", p.className, symtab.KindArgument)
	}
}
