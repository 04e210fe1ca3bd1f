// Package decl is the host-independent view of type declarations that the
// validator and the extractor work on. The parser tree never leaks past this
// package: adapters translate it into Decl values, and an Oracle answers the
// semantic questions a syntax tree alone cannot (base type kinds, partial
// declaration parts).
package decl

import (
	"strings"

	"sumgen/internal/source"
)

type Kind uint8

const (
	KindClass Kind = iota + 1
	KindStruct
	KindInterface
	KindEnum
	KindRecord
	KindRecordStruct
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindStruct:
		return "struct"
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	case KindRecord:
		return "record"
	case KindRecordStruct:
		return "record struct"
	}
	return "unknown"
}

// CanContainUnion reports whether a type of this kind may enclose a union
// and be re-declared around generated code.
func (k Kind) CanContainUnion() bool {
	return k == KindClass || k == KindStruct || k == KindRecord || k == KindRecordStruct
}

// Modifier is a modifier keyword with its location.
type Modifier struct {
	Keyword string
	Span    source.Span
}

type Parameter struct {
	Type string
	Name string
}

type BaseType struct {
	Text      string
	Name      string
	Qualifier string
	Arity     int
	Span      source.Span
}

type Constructor struct {
	Modifiers []Modifier
	Name      string
	// Span runs from the start of the constructor (attributes included)
	// through its name.
	Span          source.Span
	Parameterless bool
}

// Static reports whether this is a type initializer.
func (c Constructor) Static() bool { return hasModifier(c.Modifiers, "static") }

// Private reports whether the constructor is declared private.
func (c Constructor) Private() bool { return hasModifier(c.Modifiers, "private") }

type NamedArg struct {
	Name  string
	Value string
}

type Attribute struct {
	Name string
	Args []NamedArg
	Span source.Span
}

// Arg returns the source text of the named argument.
func (a Attribute) Arg(name string) (string, bool) {
	for _, arg := range a.Args {
		if arg.Name == name {
			return arg.Value, true
		}
	}
	return "", false
}

// Decl is one declaration part of a type.
type Decl struct {
	// Symbol identifies the declared type across parts and files:
	// "Ns.Outer`1+Inner".
	Symbol string
	Name   string
	Kind   Kind
	// Keyword is the declaration keyword as written ("record class").
	Keyword     string
	KeywordSpan source.Span
	Modifiers   []Modifier
	TypeParams  []string
	Constraints []string
	Bases       []BaseType
	// HasParamList is true for a primary constructor, even an empty one.
	HasParamList bool
	Params       []Parameter
	Ctors        []Constructor
	Members      []*Decl
	Parent       *Decl
	Namespace    []string
	// Usings are the directives visible at the declaration, outermost first.
	// Global usings are omitted because they apply everywhere anyway.
	Usings []string
	// NamespaceUsings is the tail of Usings declared inside namespaces.
	NamespaceUsings []string
	Aliases         map[string]string
	Attributes      []Attribute
	// Header spans the keyword through the type parameter list or name.
	Header source.Span
	// Span covers the whole part, attributes included.
	Span      source.Span
	File      *source.File
	Generated bool
}

func hasModifier(mods []Modifier, kw string) bool {
	for _, m := range mods {
		if m.Keyword == kw {
			return true
		}
	}
	return false
}

// Modifier returns the modifier spelled kw.
func (d *Decl) Modifier(kw string) (Modifier, bool) {
	for _, m := range d.Modifiers {
		if m.Keyword == kw {
			return m, true
		}
	}
	return Modifier{}, false
}

func (d *Decl) IsPartial() bool { return hasModifier(d.Modifiers, "partial") }
func (d *Decl) IsSealed() bool  { return hasModifier(d.Modifiers, "sealed") }
func (d *Decl) IsGeneric() bool { return len(d.TypeParams) > 0 }

// IsRecord reports whether the declaration is a reference record, the only
// shape accepted as a union or variant.
func (d *Decl) IsRecord() bool { return d.Kind == KindRecord }

// IsNonPublic reports whether an explicit non-public access keyword is
// present. A declaration without any access modifier is not non-public.
func (d *Decl) IsNonPublic() bool {
	for _, m := range d.Modifiers {
		switch m.Keyword {
		case "private", "protected", "internal", "file":
			return true
		}
	}
	return false
}

// TypeParamList renders "<T, TE>" or "".
func (d *Decl) TypeParamList() string {
	if len(d.TypeParams) == 0 {
		return ""
	}
	return "<" + strings.Join(d.TypeParams, ", ") + ">"
}

// DisplayName is the name with its type parameter list.
func (d *Decl) DisplayName() string { return d.Name + d.TypeParamList() }

// Parents returns the enclosing type declarations, innermost first.
func (d *Decl) Parents() []*Decl {
	var out []*Decl
	for p := d.Parent; p != nil; p = p.Parent {
		out = append(out, p)
	}
	return out
}

// Walk calls fn for d and every nested declaration, depth first.
func (d *Decl) Walk(fn func(*Decl)) {
	fn(d)
	for _, m := range d.Members {
		m.Walk(fn)
	}
}
