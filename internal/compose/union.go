package compose

import (
	"strconv"
	"strings"

	"sumgen/internal/model"
)

// Union renders the generated part of one union declaration.
func Union(t model.UnionTarget, opts model.GeneratorOptions, indent string) []byte {
	w := NewWriter(indent)
	writePreamble(w)
	for _, u := range t.Usings {
		w.Line(u)
	}
	w.Blank()

	ns := t.NamespaceName()
	if ns != "" {
		w.Open("namespace " + ns)
		for _, u := range t.NamespaceUsings {
			w.Line(u)
		}
		if len(t.NamespaceUsings) > 0 {
			w.Blank()
		}
	}
	for _, p := range t.Parents {
		header := "partial " + p.Keyword + " " + p.Name
		if p.Constraints != "" {
			header += " " + p.Constraints
		}
		w.Open(header)
	}

	u := unionWriter{w: w, t: t, self: t.FullName(), async: t.Async(opts)}
	for _, m := range t.Members {
		u.variants = append(u.variants, m.Name)
	}
	u.body(opts.Runtime())

	for range t.Parents {
		w.Close("")
	}
	if u.async && len(t.Members) > 0 {
		w.Blank()
		u.taskExtensions()
	}
	if ns != "" {
		w.Close("")
	}
	return w.Bytes()
}

type unionWriter struct {
	w        *Writer
	t        model.UnionTarget
	self     string
	variants []string
	async    bool
}

func (u *unionWriter) body(runtime string) {
	w := u.w
	header := "abstract partial record " + u.self
	if len(u.variants) > 0 {
		header += " : " + u.t.BaseUnion(runtime)
	}
	w.Open(header)
	if !u.t.HasDefaultConstructor {
		w.Linef("private %s() { }", u.t.Name)
	}

	if len(u.variants) > 0 {
		w.Blank()
		for _, v := range u.variants {
			w.Linef("public sealed partial record %s : %s;", v, u.self)
		}
		u.conversions()
		u.factories()
		u.match()
		u.switchStatement()
		u.fold()
		if u.async {
			u.asyncMembers()
		}
	}
	w.Close("")
}

// conversions emits an implicit conversion per variant whose constructor
// signature is shared with no other variant, is not the union itself and
// is not a lone interface.
func (u *unionWriter) conversions() {
	counts := make(map[string]int)
	for _, m := range u.t.Members {
		if sig := m.Constructor.Signature(); sig != "" {
			counts[sig]++
		}
	}
	first := true
	for _, m := range u.t.Members {
		sig := m.Constructor.Signature()
		if sig == "" || counts[sig] > 1 || sig == u.self || sig == "object" || sig == "dynamic" {
			continue
		}
		// no user-defined conversion from an interface (CS0552)
		if m.Constructor.Len() == 1 && m.Constructor.Parameters[0].Interface {
			continue
		}
		if first {
			u.w.Blank()
			first = false
		}
		if m.Constructor.Len() == 1 {
			u.w.Linef("public static implicit operator %s(%s value) => new %s(value);", u.self, sig, m.Name)
			continue
		}
		u.w.Linef("public static implicit operator %s(%s tuple) => new %s(%s);", u.self, sig, m.Name, m.Constructor.TupleArguments())
	}
}

func (u *unionWriter) factories() {
	u.w.Blank()
	for _, m := range u.t.Members {
		u.w.Linef("public static %s Create%s%s => new %s%s;",
			u.self, m.Name, m.Constructor.Declaration(), m.Name, m.Constructor.Arguments())
	}
}

// dispatch writes "this switch { V1 t1 => call(t1), ... };".
func (u *unionWriter) dispatch(call func(i int, v string) string) {
	w := u.w
	w.Line("{")
	w.IndentPush()
	for i, v := range u.variants {
		n := strconv.Itoa(i + 1)
		w.Linef("%s t%s => %s,", v, n, call(i, "t"+n))
	}
	w.Linef(`_ => throw new %sInvalidOperationException("Unknown %s variant: " + GetType().Name),`, sysNS, u.t.Name)
	w.Close(";")
}

func (u *unionWriter) match() {
	u.w.Blank()
	u.w.Linef("public TOut Match<TOut>(%s) => this switch",
		handlerList(u.variants, "f", func(v string) string { return funcOf(v, "TOut") }))
	u.dispatch(func(i int, v string) string { return "f" + strconv.Itoa(i+1) + "(" + v + ")" })
}

func (u *unionWriter) switchStatement() {
	w := u.w
	w.Blank()
	w.Open("public void Switch(" + handlerList(u.variants, "a", actionOf) + ")")
	w.Open("switch (this)")
	for i, v := range u.variants {
		n := strconv.Itoa(i + 1)
		w.Linef("case %s t%s:", v, n)
		w.IndentPush()
		w.Linef("a%s(t%s);", n, n)
		w.Line("break;")
		w.IndentPop()
	}
	w.Close("")
	w.Close("")
}

func (u *unionWriter) fold() {
	u.w.Blank()
	u.w.Linef("public TOut Fold<TState, TOut>(TState state, %s) => this switch",
		handlerList(u.variants, "f", func(v string) string { return funcOf("TState", v, "TOut") }))
	u.dispatch(func(i int, v string) string { return "f" + strconv.Itoa(i+1) + "(state, " + v + ")" })
}

func (u *unionWriter) asyncMembers() {
	w := u.w
	n := len(u.variants)
	w.Blank()
	w.Linef("public %s MatchAsync<TOut>(%s) => Match(%s);", taskOf("TOut"),
		handlerList(u.variants, "f", func(v string) string { return funcOf(v, taskOf("TOut")) }), argList(n, "f"))
	w.Linef("public %s MatchAsync<TOut>(%s) => Match(%s);", valueTaskOf("TOut"),
		handlerList(u.variants, "f", func(v string) string { return funcOf(v, valueTaskOf("TOut")) }), argList(n, "f"))
	w.Linef("public %s SwitchAsync(%s) => Match(%s);", taskOf(""),
		handlerList(u.variants, "a", func(v string) string { return funcOf(v, taskOf("")) }), argList(n, "a"))
	w.Linef("public %s SwitchAsync(%s) => Match(%s);", valueTaskOf(""),
		handlerList(u.variants, "a", func(v string) string { return funcOf(v, valueTaskOf("")) }), argList(n, "a"))
}

// taskExtensions emits Match/Switch/Fold over Task<Union>. Extension
// methods must live in a top-level static class, so the class is placed
// in the namespace, outside the parent chain.
func (u *unionWriter) taskExtensions() {
	w := u.w
	t := u.t
	global := t.GlobalName()

	var (
		typeParams  []string
		constraints []string
	)
	for _, p := range t.Parents {
		typeParams = append(typeParams, p.TypeParameters()...)
		if p.Constraints != "" {
			constraints = append(constraints, p.Constraints)
		}
	}
	typeParams = append(typeParams, t.TypeParameters...)
	if t.Constraints != "" {
		constraints = append(constraints, t.Constraints)
	}
	where := ""
	if len(constraints) > 0 {
		where = " " + strings.Join(constraints, " ")
	}

	qualified := make([]string, len(u.variants))
	for i, v := range u.variants {
		qualified[i] = global + "." + v
	}
	n := len(u.variants)
	receiver := "this " + taskOf(global) + " task"
	awaited := "(await task.ConfigureAwait(false))"

	w.Open("public static partial class " + extensionClassName(t))
	w.Linef("public static async %s Match%s(%s, %s)%s => %s.Match(%s);",
		taskOf("TOut"), generic(append(append([]string(nil), typeParams...), "TOut")), receiver,
		handlerList(qualified, "f", func(v string) string { return funcOf(v, "TOut") }), where,
		awaited, argList(n, "f"))
	w.Linef("public static async %s Switch%s(%s, %s)%s => %s.Switch(%s);",
		taskOf(""), generic(typeParams), receiver,
		handlerList(qualified, "a", actionOf), where,
		awaited, argList(n, "a"))
	w.Linef("public static async %s Fold%s(%s, TState state, %s)%s => %s.Fold(state, %s);",
		taskOf("TOut"), generic(append(append([]string(nil), typeParams...), "TState", "TOut")), receiver,
		handlerList(qualified, "f", func(v string) string { return funcOf("TState", v, "TOut") }), where,
		awaited, argList(n, "f"))
	w.Close("")
}

// extensionClassName derives a class name unique per union within its
// namespace: parents and name joined, generic arity appended.
func extensionClassName(t model.UnionTarget) string {
	var b strings.Builder
	for _, p := range t.Parents {
		b.WriteString(p.SimpleName())
	}
	b.WriteString(t.Name)
	if n := len(t.TypeParameters); n > 0 {
		b.WriteString(strconv.Itoa(n))
	}
	b.WriteString("TaskExtensions")
	return b.String()
}
