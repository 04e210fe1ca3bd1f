package decl

import (
	"strconv"
	"strings"

	"sumgen/internal/ast"
	"sumgen/internal/source"
)

// FromTree adapts a parsed file into declarations. It returns the
// outermost type declarations in source order; nested ones hang off
// Members.
func FromTree(tree *ast.Builder, file *source.File) []*Decl {
	a := adapter{tree: tree, file: file}
	var out []*Decl
	for _, id := range tree.TypeIDs() {
		if tree.Type(id).Parent != 0 {
			continue
		}
		out = append(out, a.convert(id, nil))
	}
	return out
}

type adapter struct {
	tree *ast.Builder
	file *source.File
}

func (a *adapter) convert(id ast.TypeDeclID, parent *Decl) *Decl {
	td := a.tree.Type(id)
	d := &Decl{
		Name:         td.Name,
		Kind:         kindOf(td.Kind),
		Keyword:      td.Keyword,
		KeywordSpan:  td.KeywordSpan,
		Constraints:  td.Constraints,
		HasParamList: td.Params != nil,
		Parent:       parent,
		Header:       td.HeaderSpan(),
		Span:         td.Span,
		File:         a.file,
		Generated:    a.file != nil && a.file.Generated(),
	}
	for _, m := range td.Modifiers {
		d.Modifiers = append(d.Modifiers, Modifier{Keyword: m.Text, Span: m.Span})
	}
	for _, tp := range td.TypeParams {
		d.TypeParams = append(d.TypeParams, tp.Name)
	}
	if td.Params != nil {
		for _, p := range td.Params.Params {
			d.Params = append(d.Params, Parameter{Type: p.Type, Name: p.Name})
		}
	}
	for _, b := range td.Bases {
		d.Bases = append(d.Bases, BaseType{Text: b.Text, Name: b.Name, Qualifier: b.Qualifier, Arity: b.Arity, Span: b.Span})
	}
	for _, c := range td.Ctors {
		ctor := Constructor{Name: c.Name, Span: c.Span, Parameterless: c.Parameterless}
		for _, m := range c.Modifiers {
			ctor.Modifiers = append(ctor.Modifiers, Modifier{Keyword: m.Text, Span: m.Span})
		}
		d.Ctors = append(d.Ctors, ctor)
	}
	for _, list := range td.Attrs {
		// assembly- or return-targeted lists never mark a type
		if list.Target != "" && list.Target != "type" {
			continue
		}
		for _, at := range list.Attrs {
			attr := Attribute{Name: at.Name, Span: at.Span}
			for _, arg := range at.Args {
				attr.Args = append(attr.Args, NamedArg{Name: arg.Name, Value: arg.Value})
			}
			d.Attributes = append(d.Attributes, attr)
		}
	}

	d.Namespace, d.Usings, d.NamespaceUsings, d.Aliases = a.scope(td.Namespace)
	d.Symbol = symbolOf(d)

	for _, nid := range td.Nested {
		d.Members = append(d.Members, a.convert(nid, d))
	}
	return d
}

// scope collects the namespace path and the using directives visible from
// namespace ns, outermost first. scoped is the tail of usings declared
// inside namespace declarations.
func (a *adapter) scope(ns ast.NamespaceID) (path, usings, scoped []string, aliases map[string]string) {
	var chain []*ast.Namespace
	for id := ns; id != 0; {
		n := a.tree.Namespace(id)
		chain = append(chain, n)
		id = n.Parent
	}
	add := func(list []ast.Using) {
		for _, u := range list {
			if u.Global {
				continue
			}
			usings = append(usings, u.Text)
			if name, target, ok := splitAlias(u.Text); ok {
				if aliases == nil {
					aliases = make(map[string]string)
				}
				aliases[name] = target
			}
		}
	}
	add(a.tree.File.Usings)
	top := len(usings)
	for i := len(chain) - 1; i >= 0; i-- {
		path = append(path, strings.Split(chain[i].Name, ".")...)
		add(chain[i].Usings)
	}
	if len(usings) > top {
		scoped = usings[top:len(usings):len(usings)]
	}
	return path, usings, scoped, aliases
}

// splitAlias recognises "using Name = Target;".
func splitAlias(text string) (name, target string, ok bool) {
	body := strings.TrimSuffix(strings.TrimPrefix(text, "using "), ";")
	name, target, ok = strings.Cut(body, "=")
	if !ok {
		return "", "", false
	}
	name = strings.TrimSpace(name)
	target = strings.TrimPrefix(strings.TrimSpace(target), "global::")
	if name == "" || strings.ContainsAny(name, " .<") {
		return "", "", false
	}
	return name, target, true
}

func kindOf(k ast.TypeKind) Kind {
	switch k {
	case ast.TypeClass:
		return KindClass
	case ast.TypeStruct:
		return KindStruct
	case ast.TypeInterface:
		return KindInterface
	case ast.TypeEnum:
		return KindEnum
	case ast.TypeRecord:
		return KindRecord
	case ast.TypeRecordStruct:
		return KindRecordStruct
	}
	return 0
}

// symbolOf builds the metadata-style name used to match declaration parts.
func symbolOf(d *Decl) string {
	if d.Parent != nil {
		return d.Parent.Symbol + "+" + metadataName(d.Name, len(d.TypeParams))
	}
	name := metadataName(d.Name, len(d.TypeParams))
	if len(d.Namespace) == 0 {
		return name
	}
	return strings.Join(d.Namespace, ".") + "." + name
}

func metadataName(name string, arity int) string {
	if arity == 0 {
		return name
	}
	return name + "`" + strconv.Itoa(arity)
}
