package model

import (
	"slices"
	"strconv"
	"strings"

	"sumgen/internal/source"
)

type ConstructorParameter struct {
	Type string
	Name string
	// Interface marks a parameter whose type resolves to an interface.
	Interface bool
}

func (p ConstructorParameter) String() string { return p.Type + " " + p.Name }

// RecordConstructor is a variant's primary constructor parameter list.
type RecordConstructor struct {
	Parameters []ConstructorParameter
}

// Equal treats a nil constructor and an empty one alike.
func (c *RecordConstructor) Equal(o *RecordConstructor) bool {
	if c.Len() == 0 || o.Len() == 0 {
		return c.Len() == o.Len()
	}
	return slices.Equal(c.Parameters, o.Parameters)
}

// Len tolerates a nil receiver.
func (c *RecordConstructor) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Parameters)
}

// Declaration renders "(T Value, int Code)".
func (c *RecordConstructor) Declaration() string {
	if c == nil {
		return "()"
	}
	parts := make([]string, len(c.Parameters))
	for i, p := range c.Parameters {
		parts[i] = p.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Arguments renders "(Value, Code)".
func (c *RecordConstructor) Arguments() string {
	if c == nil {
		return "()"
	}
	parts := make([]string, len(c.Parameters))
	for i, p := range c.Parameters {
		parts[i] = p.Name
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Signature is the type a value must have to convert into the variant:
// the single parameter type, or a tuple of all of them.
func (c *RecordConstructor) Signature() string {
	if c.Len() == 0 {
		return ""
	}
	if len(c.Parameters) == 1 {
		return c.Parameters[0].Type
	}
	parts := make([]string, len(c.Parameters))
	for i, p := range c.Parameters {
		parts[i] = p.Type
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// TupleArguments renders "tuple.Item1, tuple.Item2".
func (c *RecordConstructor) TupleArguments() string {
	parts := make([]string, c.Len())
	for i := range parts {
		parts[i] = "tuple.Item" + strconv.Itoa(i+1)
	}
	return strings.Join(parts, ", ")
}

type UnionTargetMember struct {
	Name string
	// Constructor is nil when the variant has no parameters.
	Constructor *RecordConstructor
}

func (m UnionTargetMember) Equal(o UnionTargetMember) bool {
	return m.Name == o.Name && m.Constructor.Equal(o.Constructor)
}

// ParentType is one enclosing declaration of a union.
type ParentType struct {
	Keyword     string // class, struct, record, record struct
	Name        string // Hello<TKey>
	Constraints string // where TKey : class
}

// TypeParameters parses the generic parameter names out of Name.
func (p ParentType) TypeParameters() []string {
	open := strings.IndexByte(p.Name, '<')
	if open < 0 || !strings.HasSuffix(p.Name, ">") {
		return nil
	}
	var out []string
	for _, part := range strings.Split(p.Name[open+1:len(p.Name)-1], ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// SimpleName strips the generic parameter list from Name.
func (p ParentType) SimpleName() string {
	if i := strings.IndexByte(p.Name, '<'); i >= 0 {
		return p.Name[:i]
	}
	return p.Name
}

// UnionTarget is the snapshot of one valid union declaration.
type UnionTarget struct {
	Namespace      []string
	Name           string
	TypeParameters []string
	// Constraints is the where-clause text of the declaration.
	Constraints string
	Members     []UnionTargetMember
	// Parents is outermost first.
	Parents []ParentType
	// Usings are file-level directives; NamespaceUsings were declared
	// inside the namespace and only resolve there.
	Usings          []string
	NamespaceUsings []string
	AsyncExtensions bool
	// HasDefaultConstructor is set when the declaration already has an
	// instance constructor without parameters.
	HasDefaultConstructor bool

	// Location only feeds diagnostics and is ignored by Equal and Digest.
	Location source.Span `msgpack:"-" json:"-" yaml:"-"`
}

// Equal is deep value equality over everything except Location.
func (t UnionTarget) Equal(o UnionTarget) bool {
	return slices.Equal(t.Namespace, o.Namespace) &&
		t.Name == o.Name &&
		slices.Equal(t.TypeParameters, o.TypeParameters) &&
		t.Constraints == o.Constraints &&
		slices.EqualFunc(t.Members, o.Members, UnionTargetMember.Equal) &&
		slices.Equal(t.Parents, o.Parents) &&
		slices.Equal(t.Usings, o.Usings) &&
		slices.Equal(t.NamespaceUsings, o.NamespaceUsings) &&
		t.AsyncExtensions == o.AsyncExtensions &&
		t.HasDefaultConstructor == o.HasDefaultConstructor
}

func (t UnionTarget) Digest() Digest { return digestOf(t.canonical()) }

// canonical collapses empty slices and constructors to nil so that values
// Equal considers the same encode identically.
func (t UnionTarget) canonical() UnionTarget {
	t.Namespace = orNil(t.Namespace)
	t.TypeParameters = orNil(t.TypeParameters)
	t.Parents = orNil(t.Parents)
	t.Usings = orNil(t.Usings)
	t.NamespaceUsings = orNil(t.NamespaceUsings)
	if len(t.Members) == 0 {
		t.Members = nil
		return t
	}
	members := make([]UnionTargetMember, len(t.Members))
	for i, m := range t.Members {
		if m.Constructor.Len() == 0 {
			m.Constructor = nil
		}
		members[i] = m
	}
	t.Members = members
	return t
}

func orNil[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return s
}

// Arity is the variant count.
func (t UnionTarget) Arity() int { return len(t.Members) }

// GenericDeclaration renders "<T, TE>" or "".
func (t UnionTarget) GenericDeclaration() string {
	if len(t.TypeParameters) == 0 {
		return ""
	}
	return "<" + strings.Join(t.TypeParameters, ", ") + ">"
}

// FullName is the name as used inside its own declaration: Result<T, TE>.
func (t UnionTarget) FullName() string { return t.Name + t.GenericDeclaration() }

// NamespaceName joins the namespace path.
func (t UnionTarget) NamespaceName() string { return strings.Join(t.Namespace, ".") }

// QualifiedName is the dotted path through namespace and parents:
// Tests.Hello.Option.
func (t UnionTarget) QualifiedName() string {
	parts := slices.Clone(t.Namespace)
	for _, p := range t.Parents {
		parts = append(parts, p.SimpleName())
	}
	return strings.Join(append(parts, t.Name), ".")
}

// GlobalName is the fully qualified reference usable from any scope:
// global::Tests.Hello<TKey>.Option<T>.
func (t UnionTarget) GlobalName() string {
	var b strings.Builder
	b.WriteString("global::")
	for _, ns := range t.Namespace {
		b.WriteString(ns)
		b.WriteByte('.')
	}
	for _, p := range t.Parents {
		b.WriteString(p.Name)
		b.WriteByte('.')
	}
	b.WriteString(t.FullName())
	return b.String()
}

// HintName names the output unit: Tests.Hello.Option{T}.g.cs.
func (t UnionTarget) HintName() string {
	name := t.QualifiedName()
	if len(t.TypeParameters) > 0 {
		name += "{" + strings.Join(t.TypeParameters, ", ") + "}"
	}
	return name + ".g.cs"
}

// BaseUnion renders the shared interface the union implements,
// Union<Result<T, TE>, Result<T, TE>.Ok, Result<T, TE>.Err>, qualified by
// the runtime namespace.
func (t UnionTarget) BaseUnion(runtime string) string {
	self := t.FullName()
	args := make([]string, 0, len(t.Members)+1)
	args = append(args, self)
	for _, m := range t.Members {
		args = append(args, self+"."+m.Name)
	}
	return "global::" + runtime + ".Union<" + strings.Join(args, ", ") + ">"
}

// Async reports whether async helpers are generated for the target.
func (t UnionTarget) Async(opts GeneratorOptions) bool {
	return t.AsyncExtensions || opts.AsyncExtensions
}
