package ast

import "sumgen/internal/source"

type Namespace struct {
	// Name is the dotted name as declared, e.g. "Company.Product".
	Name       string
	NameSpan   source.Span
	FileScoped bool
	Parent     NamespaceID
	Usings     []Using
	Items      []Item
	Span       source.Span
}
