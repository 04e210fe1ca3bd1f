package decl

import "strings"

// Marker describes the attribute that flags a union declaration.
type Marker struct {
	Name      string // Union
	Namespace string // dotUnion.Attributes
}

// DefaultMarker is [dotUnion.Attributes.Union].
var DefaultMarker = Marker{Name: "Union", Namespace: "dotUnion.Attributes"}

// Matches reports whether an attribute name as written refers to the marker.
// Accepted: Union, UnionAttribute, and both forms qualified by the marker
// namespace, optionally with "global::".
func (m Marker) Matches(written string) bool {
	name := strings.TrimPrefix(written, "global::")
	qual := ""
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		qual, name = name[:i], name[i+1:]
	}
	if name != m.Name && name != m.Name+"Attribute" {
		return false
	}
	return qual == "" || qual == m.Namespace
}

// Find returns the first marker attribute on d.
func (m Marker) Find(d *Decl) (Attribute, bool) {
	for _, a := range d.Attributes {
		if m.Matches(a.Name) {
			return a, true
		}
	}
	return Attribute{}, false
}

// Candidates returns every record declaration carrying the marker, in the
// order the declarations are walked.
func (m Marker) Candidates(decls []*Decl) []*Decl {
	var out []*Decl
	for _, top := range decls {
		top.Walk(func(d *Decl) {
			if d.Kind != KindRecord {
				return
			}
			if _, ok := m.Find(d); ok {
				out = append(out, d)
			}
		})
	}
	return out
}
