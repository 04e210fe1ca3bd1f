package ast

import "sumgen/internal/source"

// File is one parsed compilation unit.
type File struct {
	ID     source.FileID
	Span   source.Span
	Usings []Using
	Items  []Item
}

// ItemKind tells which arena an Item points into.
type ItemKind uint8

const (
	ItemNamespace ItemKind = iota + 1
	ItemType
)

// Item is a top-level or namespace-level member.
type Item struct {
	Kind      ItemKind
	Namespace NamespaceID
	Type      TypeDeclID
}

// Builder owns the arenas of one parsed file.
type Builder struct {
	File       *File
	Namespaces *Arena[Namespace]
	Types      *Arena[TypeDecl]
}

func NewBuilder(id source.FileID) *Builder {
	return &Builder{
		File:       &File{ID: id},
		Namespaces: NewArena[Namespace](4),
		Types:      NewArena[TypeDecl](16),
	}
}

func (b *Builder) NewNamespace(ns Namespace) NamespaceID {
	return NamespaceID(b.Namespaces.Allocate(ns))
}

func (b *Builder) Namespace(id NamespaceID) *Namespace {
	return b.Namespaces.Get(uint32(id))
}

func (b *Builder) NewType(td TypeDecl) TypeDeclID {
	return TypeDeclID(b.Types.Allocate(td))
}

func (b *Builder) Type(id TypeDeclID) *TypeDecl {
	return b.Types.Get(uint32(id))
}

// TypeIDs returns every type declaration of the file in source order,
// nested ones included.
func (b *Builder) TypeIDs() []TypeDeclID {
	out := make([]TypeDeclID, b.Types.Len())
	for i := range out {
		out[i] = TypeDeclID(i + 1)
	}
	return out
}

// Using is a using directive as written, e.g. "using System;".
type Using struct {
	Text   string
	Global bool
	Span   source.Span
}
