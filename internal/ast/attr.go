package ast

import "sumgen/internal/source"

// AttrList is one bracketed group: [Target: A, B(x)].
type AttrList struct {
	Target string
	Attrs  []Attr
	Span   source.Span
}

// Attr is a single attribute. Name is written form, possibly qualified
// (dotUnion.Attributes.Union) or with an "Attribute" suffix.
type Attr struct {
	Name string
	Args []AttrArg
	Span source.Span
}

// AttrArg is a positional or named argument. Value keeps the source text.
type AttrArg struct {
	Name  string
	Value string
	Span  source.Span
}

// Arg returns the named argument, if present.
func (a *Attr) Arg(name string) (AttrArg, bool) {
	for _, arg := range a.Args {
		if arg.Name == name {
			return arg, true
		}
	}
	return AttrArg{}, false
}
