package decl

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// Oracle answers the semantic questions the declaration syntax alone
// cannot.
type Oracle interface {
	// ResolvesToInterface reports whether base, as written on d, names an
	// interface. An unresolvable name is not an interface.
	ResolvesToInterface(d *Decl, base BaseType) bool
	// Parts returns every declaration part of d's type across the
	// compilation, d included, in the order they were indexed.
	Parts(d *Decl) []*Decl
}

// Index is an Oracle over a whole compilation. It is safe for concurrent
// readers once every file has been added.
type Index struct {
	mu    sync.RWMutex
	parts map[string][]*Decl
	// known maps metadata names outside the compilation to
	// whether they denote interfaces.
	known map[string]bool
}

func NewIndex() *Index {
	return &Index{parts: make(map[string][]*Decl), known: wellKnown}
}

// Add indexes the declarations of one file, nested members included.
func (ix *Index) Add(decls []*Decl) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	for _, top := range decls {
		top.Walk(func(d *Decl) {
			ix.parts[d.Symbol] = append(ix.parts[d.Symbol], d)
		})
	}
}

// Len is the number of distinct indexed types.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.parts)
}

func (ix *Index) Parts(d *Decl) []*Decl {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	parts := ix.parts[d.Symbol]
	if len(parts) == 0 {
		return []*Decl{d}
	}
	return append([]*Decl(nil), parts...)
}

// Lookup returns the parts indexed under a metadata name.
func (ix *Index) Lookup(symbol string) []*Decl {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.parts[symbol]
}

func (ix *Index) ResolvesToInterface(d *Decl, base BaseType) bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	for _, cand := range candidates(d, base) {
		if parts, ok := ix.parts[cand]; ok {
			return parts[0].Kind == KindInterface
		}
		if iface, ok := ix.known[cand]; ok {
			return iface
		}
	}
	return looksLikeInterface(base.Name)
}

// candidates lists metadata names base could refer to from d, most
// specific first: nested types of the enclosing chain, the enclosing
// namespaces, then namespaces imported by using directives.
func candidates(d *Decl, base BaseType) []string {
	name := metadataName(base.Name, base.Arity)
	qual := base.Qualifier
	if strings.HasPrefix(qual, "global::") || qual == "global" {
		q := strings.TrimPrefix(strings.TrimPrefix(qual, "global"), "::")
		return []string{joinName(q, name)}
	}
	if target, ok := d.Aliases[firstSegment(qual)]; ok && qual != "" {
		qual = target + strings.TrimPrefix(qual, firstSegment(qual))
	}
	if qual == "" {
		if target, ok := d.Aliases[base.Name]; ok && base.Arity == 0 {
			return []string{target}
		}
	}

	var out []string
	if qual == "" {
		for p := d.Parent; p != nil; p = p.Parent {
			out = append(out, p.Symbol+"+"+name)
		}
	}
	rel := joinName(qual, name)
	for i := len(d.Namespace); i >= 0; i-- {
		out = append(out, joinName(strings.Join(d.Namespace[:i], "."), rel))
	}
	if qual == "" {
		for _, u := range d.Usings {
			ns, ok := importedNamespace(u)
			if ok {
				out = append(out, ns+"."+name)
			}
		}
	}
	return out
}

// importedNamespace extracts N from "using N;". Static and alias
// directives import no namespace.
func importedNamespace(text string) (string, bool) {
	body := strings.TrimSuffix(strings.TrimPrefix(text, "using "), ";")
	body = strings.TrimSpace(body)
	if strings.HasPrefix(body, "static ") || strings.Contains(body, "=") {
		return "", false
	}
	return strings.TrimPrefix(body, "global::"), body != ""
}

func joinName(qual, name string) string {
	if qual == "" {
		return name
	}
	return qual + "." + name
}

func firstSegment(qual string) string {
	if i := strings.IndexByte(qual, '.'); i >= 0 {
		return qual[:i]
	}
	return qual
}

// looksLikeInterface applies the naming convention (IFoo) to names nothing
// in the compilation or the well-known table resolves.
func looksLikeInterface(name string) bool {
	if len(name) < 2 || name[0] != 'I' {
		return false
	}
	r, _ := utf8.DecodeRuneInString(name[1:])
	return unicode.IsUpper(r)
}

// wellKnown covers framework types commonly named in base lists.
var wellKnown = map[string]bool{
	"System.IDisposable":                               true,
	"System.IAsyncDisposable":                          true,
	"System.ICloneable":                                true,
	"System.IComparable":                               true,
	"System.IComparable`1":                             true,
	"System.IEquatable`1":                              true,
	"System.IFormattable":                              true,
	"System.Collections.IEnumerable":                   true,
	"System.Collections.Generic.IEnumerable`1":         true,
	"System.Collections.Generic.IReadOnlyList`1":       true,
	"System.Collections.Generic.IReadOnlyCollection`1": true,
	"System.Object":                                    false,
	"System.Exception":                                 false,
	"System.Attribute":                                 false,
	"System.EventArgs":                                 false,
	"System.ValueType":                                 false,
	"object":                                           false,
}
