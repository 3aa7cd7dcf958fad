// Package symtab records the names declared in a Jack class.
//
// The table has two scopes. Static and field names live in the class scope
// for the whole class; argument and local names live in the subroutine scope,
// which StartSubroutine clears. Lookups see the subroutine scope first.
package symtab

import "fmt"

// Kind is the storage class of a declared name.
type Kind int

const (
	KindStatic Kind = iota
	KindField
	KindArgument
	KindLocal
)

const kindCount = 4

func (k Kind) String() string {
	switch k {
	case KindStatic:
		return "static"
	case KindField:
		return "field"
	case KindArgument:
		return "argument"
	case KindLocal:
		return "local"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps a declaring keyword or kind name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "static":
		return KindStatic, nil
	case "field":
		return KindField, nil
	case "argument", "arg":
		return KindArgument, nil
	case "local", "var":
		return KindLocal, nil
	}
	return 0, fmt.Errorf("unknown symbol kind %q", s)
}

// ClassScoped reports whether names of this kind outlive a subroutine.
func (k Kind) ClassScoped() bool {
	return k == KindStatic || k == KindField
}

// Entry describes one declared name.
type Entry struct {
	Name  string
	Type  string
	Kind  Kind
	Index int
}

// Table is a two-level name table. The zero value is not usable; call New.
type Table struct {
	class      map[string]Entry
	subroutine map[string]Entry
	counts     [kindCount]int
}

// New returns an empty table.
func New() *Table {
	return &Table{
		class:      make(map[string]Entry),
		subroutine: make(map[string]Entry),
	}
}

// StartSubroutine clears the subroutine scope and its counters.
func (t *Table) StartSubroutine() {
	t.subroutine = make(map[string]Entry)
	t.counts[KindArgument] = 0
	t.counts[KindLocal] = 0
}

// Declare adds name and returns its index within kind. Declaring a name
// twice in one scope replaces the earlier entry and still consumes an index.
func (t *Table) Declare(name, typ string, kind Kind) (int, error) {
	if kind < 0 || kind >= kindCount {
		return 0, fmt.Errorf("declare %q: invalid symbol kind %v", name, kind)
	}
	idx := t.counts[kind]
	t.counts[kind]++

	e := Entry{Name: name, Type: typ, Kind: kind, Index: idx}
	if kind.ClassScoped() {
		t.class[name] = e
	} else {
		t.subroutine[name] = e
	}
	return idx, nil
}

// Lookup resolves name, preferring the subroutine scope.
func (t *Table) Lookup(name string) (Entry, bool) {
	if e, ok := t.subroutine[name]; ok {
		return e, true
	}
	e, ok := t.class[name]
	return e, ok
}
