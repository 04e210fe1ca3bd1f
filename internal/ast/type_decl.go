package ast

import (
	"sumgen/internal/source"
	"sumgen/internal/token"
)

type TypeKind uint8

const (
	TypeClass TypeKind = iota + 1
	TypeStruct
	TypeInterface
	TypeEnum
	TypeRecord       // record, record class
	TypeRecordStruct // record struct
)

func (k TypeKind) String() string {
	switch k {
	case TypeClass:
		return "class"
	case TypeStruct:
		return "struct"
	case TypeInterface:
		return "interface"
	case TypeEnum:
		return "enum"
	case TypeRecord:
		return "record"
	case TypeRecordStruct:
		return "record struct"
	}
	return "?"
}

type Modifier struct {
	Kind token.Kind
	Text string
	Span source.Span
}

type TypeParam struct {
	Name string
	Span source.Span
}

// Param is a primary constructor parameter. Type is the source text of the
// type with whitespace collapsed.
type Param struct {
	Type string
	Name string
	Span source.Span
}

type ParamList struct {
	Params []Param
	Span   source.Span
}

// TypeRef is one entry of a base list.
type TypeRef struct {
	Text string // List<int>, global::System.IDisposable
	Name string // last identifier without generic arguments: List, IDisposable
	// Qualifier is everything before Name without the trailing dot
	// ("global::System"), empty when unqualified.
	Qualifier string
	Arity     int
	Span      source.Span
}

// Ctor is an explicit constructor in a type body.
type Ctor struct {
	Attrs     []AttrList
	Modifiers []Modifier
	Name      string
	NameSpan  source.Span
	Span      source.Span // first attribute/modifier through the name
	// Parameterless is true for "Name()".
	Parameterless bool
}

// TypeDecl is one declaration part of a type.
type TypeDecl struct {
	Attrs     []AttrList
	Modifiers []Modifier
	Kind      TypeKind
	// Keyword is the declaration keyword as written: "record", "record class".
	Keyword     string
	KeywordSpan source.Span
	Name        string
	NameSpan    source.Span
	TypeParams  []TypeParam
	// TypeParamsSpan covers "<...>" including brackets; empty when absent.
	TypeParamsSpan source.Span
	Params         *ParamList
	Bases          []TypeRef
	Constraints    []string // one entry per "where" clause, source text
	Ctors          []Ctor
	Nested         []TypeDeclID
	// Parent is the enclosing type, Namespace the innermost enclosing namespace.
	Parent    TypeDeclID
	Namespace NamespaceID
	HasBody   bool
	Span      source.Span // attributes through the closing brace or semicolon
}

// HeaderSpan spans the declaration keyword through the type parameter list,
// or through the identifier when there is none.
func (td *TypeDecl) HeaderSpan() source.Span {
	end := td.NameSpan.End
	if !td.TypeParamsSpan.Empty() {
		end = td.TypeParamsSpan.End
	}
	return source.Span{File: td.KeywordSpan.File, Start: td.KeywordSpan.Start, End: end}
}

// HasModifier reports whether k is among the declared modifiers.
func (td *TypeDecl) HasModifier(k token.Kind) bool {
	for _, m := range td.Modifiers {
		if m.Kind == k {
			return true
		}
	}
	return false
}

// Modifier returns the first modifier of kind k.
func (td *TypeDecl) Modifier(k token.Kind) (Modifier, bool) {
	for _, m := range td.Modifiers {
		if m.Kind == k {
			return m, true
		}
	}
	return Modifier{}, false
}
