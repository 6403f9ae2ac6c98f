// Package kicadsexp provides a lightweight streaming S-expression parser
// for KiCad-dialect files. Unlike general-purpose sexp libraries, it
// streams from an io.Reader and never shares state between parses, so
// every call produces an independently owned tree.
package kicadsexp

import (
	"io"
	"strings"
)

// Sexp represents an S-expression node.
// It can be either a leaf (atom) or a list.
type Sexp interface {
	// IsLeaf returns true if this is an atom (not a list)
	IsLeaf() bool

	// LeafCount returns the number of elements in a list (1 for atoms)
	LeafCount() int

	// Head returns the first element of a list (the atom itself for leaves)
	Head() Sexp

	// Tail returns the rest of the list after the first element (nil for atoms)
	Tail() Sexp

	// String returns the single-line string representation
	String() string
}

// Symbol represents an atomic symbol (identifier, number, bareword)
type Symbol string

func (s Symbol) IsLeaf() bool   { return true }
func (s Symbol) LeafCount() int { return 1 }
func (s Symbol) Head() Sexp     { return s }
func (s Symbol) Tail() Sexp     { return nil }
func (s Symbol) String() string { return string(s) }

// Str represents a quoted string atom. Keeping strings distinct from
// symbols preserves quoting when a tree is serialized back to text.
type Str string

func (s Str) IsLeaf() bool   { return true }
func (s Str) LeafCount() int { return 1 }
func (s Str) Head() Sexp     { return s }
func (s Str) Tail() Sexp     { return nil }

func (s Str) String() string {
	escaped := strings.ReplaceAll(string(s), `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `"` + escaped + `"`
}

// Text returns the unquoted string value of an atom, for either
// symbols or quoted strings.
func Text(s Sexp) (string, bool) {
	switch v := s.(type) {
	case Symbol:
		return string(v), true
	case Str:
		return string(v), true
	default:
		return "", false
	}
}

// List represents an ordered list of S-expressions
type List struct {
	elements []Sexp
}

// NewList builds a list node from the given elements.
// Used when constructing documents for serialization.
func NewList(elements ...Sexp) *List {
	return &List{elements: elements}
}

func (l *List) IsLeaf() bool { return false }

func (l *List) LeafCount() int { return len(l.elements) }

func (l *List) Head() Sexp {
	if len(l.elements) == 0 {
		return nil
	}
	return l.elements[0]
}

func (l *List) Tail() Sexp {
	if len(l.elements) <= 1 {
		return nil
	}
	return &List{elements: l.elements[1:]}
}

// Get returns the element at the given index, or nil when out of range
func (l *List) Get(index int) Sexp {
	if index < 0 || index >= len(l.elements) {
		return nil
	}
	return l.elements[index]
}

// Len returns the number of elements in the list
func (l *List) Len() int { return len(l.elements) }

// Append adds elements to the end of the list
func (l *List) Append(elements ...Sexp) {
	l.elements = append(l.elements, elements...)
}

func (l *List) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, elem := range l.elements {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(elem.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Parse parses all top-level S-expressions from an io.Reader.
func Parse(r io.Reader) ([]Sexp, error) {
	return newParser(r).parseAll()
}

// ParseString parses S-expressions from a string (convenience function)
func ParseString(s string) ([]Sexp, error) {
	return Parse(strings.NewReader(s))
}
